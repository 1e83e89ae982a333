// Command buildgraph builds an undirected stop graph from a GTFS-style
// stop_times table and persists it as a JSON artifact.
package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/ludovictagnon/travelorder/internal/tabular"
	"github.com/ludovictagnon/travelorder/internal/transit"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("buildgraph", flag.ContinueOnError)
	stopTimes := fs.String("stop-times", "", "path to the trip-stops table (required)")
	stopsPath := fs.String("stops", "", "optional path to a stops table (parent_station/location_type collapsing)")
	output := fs.String("output", "data/graph.json", "path to write the graph JSON")
	limitTrips := fs.Int("limit-trips", 0, "cap the number of trips considered (0 = unlimited)")
	statsK := fs.Int("stats", 0, "print the K busiest stops to stdout")
	geojsonOut := fs.String("geojson-out", "", "optional path to write a GeoJSON rendering of the graph")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *stopTimes == "" {
		fmt.Fprintln(os.Stderr, "buildgraph: --stop-times is required")
		return 1
	}

	var parents transit.ParentMap
	var coords map[string]transit.LatLon
	if *stopsPath != "" {
		stopsTbl, err := tabular.Load(*stopsPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "buildgraph: %v\n", err)
			return 1
		}
		coords = loadCoordsFromTable(stopsTbl)

		if stopsTbl.HasColumns("parent_station") || stopsTbl.HasColumns("location_type") {
			parents, err = transit.LoadParentMap(*stopsPath)
			if err != nil {
				fmt.Fprintf(os.Stderr, "buildgraph: %v\n", err)
				return 1
			}
		} else if len(coords) > 0 && stopsTbl.HasColumns("stop_name") {
			fmt.Fprint(os.Stdout, "No parent_station/location_type in stops table, clustering by proximity and name ... ")
			stops := stopCoordsFromTable(stopsTbl, coords)
			parents = transit.ClusterStops(stops)
			fmt.Fprintln(os.Stdout, "done.")
		}
	}

	opts := transit.BuildGraphOptions{Parents: parents, LimitTrips: *limitTrips}
	if len(coords) > 0 {
		opts.QualityFilter = &transit.QualityFilter{Stops: coords}
	}

	fmt.Fprintf(os.Stdout, "Building stop graph from %s ... ", *stopTimes)
	g, err := transit.BuildGraph(*stopTimes, opts)
	if err != nil {
		fmt.Fprintln(os.Stdout)
		fmt.Fprintf(os.Stderr, "buildgraph: %v\n", err)
		return 1
	}
	fmt.Fprintf(os.Stdout, "(%d nodes, %d edges) done.\n", g.Meta.NodeCount, g.Meta.EdgeCount)

	if err := g.Save(*output); err != nil {
		fmt.Fprintf(os.Stderr, "buildgraph: writing %s: %v\n", *output, err)
		return 1
	}

	if *statsK > 0 {
		top, err := transit.StopImportance(*stopTimes, *statsK, parents)
		if err != nil {
			fmt.Fprintf(os.Stderr, "buildgraph: computing stats: %v\n", err)
			return 1
		}
		fmt.Fprintf(os.Stdout, "Top %d busiest stops:\n", len(top))
		for _, sv := range top {
			fmt.Fprintf(os.Stdout, "  %s\t%d visits\n", sv.StopID, sv.Visits)
		}
	}

	if *geojsonOut != "" {
		if len(coords) == 0 {
			fmt.Fprintln(os.Stderr, "buildgraph: --geojson-out requires --stops with coordinates")
			return 1
		}
		if err := transit.ExportGeoJSON(g, coords, *geojsonOut); err != nil {
			fmt.Fprintf(os.Stderr, "buildgraph: writing geojson: %v\n", err)
			return 1
		}
	}

	return 0
}

func loadCoordsFromTable(tbl *tabular.Table) map[string]transit.LatLon {
	if !tbl.HasColumns("stop_id", "stop_lat", "stop_lon") {
		return nil
	}
	coords := make(map[string]transit.LatLon, len(tbl.Rows))
	for _, row := range tbl.Rows {
		stopID := tbl.Get(row, "stop_id")
		if stopID == "" {
			continue
		}
		var lat, lon float64
		fmt.Sscanf(tbl.Get(row, "stop_lat"), "%g", &lat)
		fmt.Sscanf(tbl.Get(row, "stop_lon"), "%g", &lon)
		if lat == 0 && lon == 0 {
			continue
		}
		coords[stopID] = transit.LatLon{Lat: lat, Lon: lon}
	}
	return coords
}

// stopCoordsFromTable builds the input ClusterStops needs: every stop with
// a known coordinate, paired with its display name.
func stopCoordsFromTable(tbl *tabular.Table, coords map[string]transit.LatLon) []transit.StopCoord {
	stops := make([]transit.StopCoord, 0, len(coords))
	for _, row := range tbl.Rows {
		stopID := tbl.Get(row, "stop_id")
		pos, ok := coords[stopID]
		if stopID == "" || !ok {
			continue
		}
		stops = append(stops, transit.StopCoord{
			StopID: stopID,
			Name:   tbl.Get(row, "stop_name"),
			Lat:    pos.Lat,
			Lon:    pos.Lon,
		})
	}
	return stops
}
