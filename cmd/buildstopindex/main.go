// Command buildstopindex builds the stop-name index used to resolve
// free-form station names to stop identifiers.
package main

import (
	"encoding/csv"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/ludovictagnon/travelorder/internal/normalize"
	"github.com/ludovictagnon/travelorder/internal/tabular"
	"github.com/ludovictagnon/travelorder/internal/transit"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("buildstopindex", flag.ContinueOnError)
	input := fs.String("input", "stops.csv", "path to the stops table (required)")
	outputCSV := fs.String("output-csv", "data/stops_areas.csv", "path to write the flat stop-areas CSV")
	outputJSON := fs.String("output-json", "data/stops_index.json", "path to write the stop-name index JSON")
	limit := fs.Int("limit", 0, "cap the number of stop areas considered (0 = unlimited)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if _, err := os.Stat(*input); err != nil {
		fmt.Fprintf(os.Stderr, "buildstopindex: input not found: %s\n", *input)
		return 1
	}

	fmt.Fprintf(os.Stdout, "Building stop index from %s ... ", *input)
	index, err := transit.BuildStopIndex(*input, *limit)
	if err != nil {
		fmt.Fprintln(os.Stdout)
		fmt.Fprintf(os.Stderr, "buildstopindex: %v\n", err)
		return 1
	}
	fmt.Fprintf(os.Stdout, "(%d distinct names) done.\n", len(index))

	if err := writeAreasCSV(*input, *outputCSV); err != nil {
		fmt.Fprintf(os.Stderr, "buildstopindex: writing %s: %v\n", *outputCSV, err)
		return 1
	}
	if err := index.Save(*outputJSON); err != nil {
		fmt.Fprintf(os.Stderr, "buildstopindex: writing %s: %v\n", *outputJSON, err)
		return 1
	}
	return 0
}

// writeAreasCSV re-reads the input table to emit the flat
// stop_id,stop_name,normalized view alongside the JSON index, matching
// the reference tooling's two parallel artifacts.
func writeAreasCSV(inputPath, outputPath string) error {
	tbl, err := tabular.Load(inputPath)
	if err != nil {
		return err
	}
	if !tbl.HasColumns("stop_id", "stop_name") {
		return fmt.Errorf("%s is missing required columns stop_id/stop_name", inputPath)
	}
	hasLocationType := tbl.HasColumns("location_type")

	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"stop_id", "stop_name", "normalized"}); err != nil {
		return err
	}
	for _, row := range tbl.Rows {
		if hasLocationType {
			loc := tbl.Get(row, "location_type")
			if loc != "" && loc != "1" {
				continue
			}
		}
		stopID := tbl.Get(row, "stop_id")
		stopName := tbl.Get(row, "stop_name")
		if stopID == "" || stopName == "" {
			continue
		}
		if err := w.Write([]string{stopID, stopName, normalize.Text(stopName)}); err != nil {
			return err
		}
	}
	return w.Error()
}
