// Command pathfind resolves an origin/destination pair (names or raw
// stop ids) against a stop-name index and reports the shortest path
// over a persisted stop graph.
package main

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/ludovictagnon/travelorder/internal/tabular"
	"github.com/ludovictagnon/travelorder/internal/transit"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("pathfind", flag.ContinueOnError)
	graphPath := fs.String("graph", "", "path to the graph JSON artifact (required)")
	stopsIndexPath := fs.String("stops-index", "", "path to the stop-name index JSON artifact (required)")
	stopsAreasPath := fs.String("stops-areas", "", "optional flat stop_id,stop_name CSV for readable output")
	inputPath := fs.String("input", "", "input file (default: stdin)")
	outputIDs := fs.Bool("output-ids", false, "emit raw stop ids instead of readable names")
	rawIDs := fs.Bool("ids", false, "treat input triplets as raw stop ids, bypassing name resolution")
	expectedPath := fs.String("expected", "", "id->path CSV of expected results, for --stats")
	showStats := fs.Bool("stats", false, "print total/correct/accuracy summary lines (requires --expected)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *graphPath == "" || *stopsIndexPath == "" {
		fmt.Fprintln(os.Stderr, "pathfind: --graph and --stops-index are required")
		return 1
	}

	graph, err := transit.LoadGraph(*graphPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pathfind: %v\n", err)
		return 1
	}
	index, err := transit.LoadStopIndex(*stopsIndexPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pathfind: %v\n", err)
		return 1
	}

	names := loadNames(*stopsAreasPath, index)

	in := os.Stdin
	if *inputPath != "" {
		f, err := os.Open(*inputPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "pathfind: %v\n", err)
			return 1
		}
		defer f.Close()
		in = f
	}

	var expected map[string][]string
	if *expectedPath != "" {
		expected, err = loadExpected(*expectedPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "pathfind: %v\n", err)
			return 1
		}
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	total, correct := 0, 0
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, ",", 3)
		if len(parts) != 3 {
			continue
		}
		id, origin, destination := parts[0], parts[1], parts[2]
		if id == "" {
			continue
		}

		var sources, targets []string
		if *rawIDs {
			sources = []string{origin}
			targets = []string{destination}
		} else {
			sources = transit.ResolveStopIDs(index, origin)
			targets = transit.ResolveStopIDs(index, destination)
		}

		path, ok := transit.FindPath(graph, sources, targets)
		total++
		if !ok {
			fmt.Fprintf(out, "%s,INVALID,\n", id)
			continue
		}
		if expected != nil && equalPath(expected[id], path) {
			correct++
		}

		display := path
		if !*outputIDs {
			display = toNames(path, names)
		}
		fmt.Fprintf(out, "%s,%s\n", id, strings.Join(display, ","))
	}

	if *showStats {
		accuracy := 0.0
		if total > 0 {
			accuracy = float64(correct) / float64(total)
		}
		fmt.Fprintf(os.Stdout, "total=%d\n", total)
		fmt.Fprintf(os.Stdout, "correct=%d\n", correct)
		fmt.Fprintf(os.Stdout, "accuracy=%.3f\n", accuracy)
	}

	return 0
}

// loadNames builds the stop_id -> readable name lookup. It prefers the
// flat stop-areas CSV when given (the reference tooling's own output
// artifact); otherwise it is reconstructed by reversing the stop-name
// index, taking the first listed name for each id.
func loadNames(stopsAreasPath string, index transit.StopIndex) map[string]string {
	names := make(map[string]string)
	if stopsAreasPath != "" {
		if tbl, err := tabular.Load(stopsAreasPath); err == nil && tbl.HasColumns("stop_id", "stop_name") {
			for _, row := range tbl.Rows {
				stopID := tbl.Get(row, "stop_id")
				if stopID == "" {
					continue
				}
				if _, ok := names[stopID]; !ok {
					names[stopID] = tbl.Get(row, "stop_name")
				}
			}
			return names
		}
	}

	for _, entry := range index {
		if len(entry.Names) == 0 {
			continue
		}
		for _, id := range entry.StopIDs {
			if _, ok := names[id]; !ok {
				names[id] = entry.Names[0]
			}
		}
	}
	return names
}

func toNames(path []string, names map[string]string) []string {
	out := make([]string, len(path))
	for i, id := range path {
		if name, ok := names[id]; ok {
			out[i] = name
		} else {
			out[i] = id
		}
	}
	return out
}

func equalPath(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// loadExpected reads a header-less id->path CSV (unlike the GTFS-style
// tables tabular.Load expects, every line here is data).
func loadExpected(path string) (map[string][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	expected := make(map[string][]string, len(records))
	for _, row := range records {
		if len(row) < 2 {
			continue
		}
		expected[row[0]] = row[1:]
	}
	return expected, nil
}
