// Package transit builds an undirected stop graph from a trip-stops
// table, resolves station names to stop identifiers, and runs
// multi-source/multi-target breadth-first search over the graph.
package transit

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/valyala/fastjson"

	"github.com/ludovictagnon/travelorder/internal/tabular"
)

// Graph is the undirected, unweighted stop adjacency built from a
// trip-stops table. Adjacency lists are sorted ascending so BFS tie
// breaking is deterministic.
type Graph struct {
	Edges map[string][]string `json:"edges"`
	Meta  GraphMeta           `json:"meta"`
}

// GraphMeta carries summary counters alongside the adjacency.
type GraphMeta struct {
	NodeCount int `json:"node_count"`
	EdgeCount int `json:"edge_count"`
}

// ParentMap resolves a child stop_id to its parent station id. A stop
// that is itself an area maps to its own id.
type ParentMap map[string]string

// LoadParentMap reads a stops table and builds the child->parent
// remapping used to collapse child stops into their station area: rows
// with location_type=1 are areas (mapped to themselves); rows with a
// parent_station are mapped to it.
func LoadParentMap(path string) (ParentMap, error) {
	if path == "" {
		return nil, nil
	}
	tbl, err := tabular.Load(path)
	if err != nil {
		return nil, err
	}
	if !tbl.HasColumns("stop_id") {
		return nil, fmt.Errorf("transit: stops table %s is missing stop_id", path)
	}

	mapping := make(ParentMap, len(tbl.Rows))
	for _, row := range tbl.Rows {
		stopID := tbl.Get(row, "stop_id")
		if stopID == "" {
			continue
		}
		parent := tbl.Get(row, "parent_station")
		if tbl.Get(row, "location_type") == "1" {
			parent = stopID
		}
		if parent == "" {
			parent = stopID
		}
		mapping[stopID] = parent
	}
	return mapping, nil
}

// tripStop is one (sequence, stop_id) entry seen for a trip.
type tripStop struct {
	sequence int
	stopID   string
}

// groupTripStops streams a trip-stops table into per-trip stop
// sequences, applying parent collapsing and trip exclusion, and
// assigning arrival-order sequence numbers when the table has no
// stop_sequence column.
func groupTripStops(tbl *tabular.Table, hasSequence bool, parents ParentMap, excluded map[string]bool, limitTrips int) map[string][]tripStop {
	trips := make(map[string][]tripStop)
	for _, row := range tbl.Rows {
		tripID := tbl.Get(row, "trip_id")
		stopID := tbl.Get(row, "stop_id")
		if tripID == "" || stopID == "" {
			continue
		}
		if excluded != nil && excluded[tripID] {
			continue
		}
		if limitTrips > 0 && len(trips) >= limitTrips {
			if _, seen := trips[tripID]; !seen {
				break
			}
		}
		if parents != nil {
			if parent, ok := parents[stopID]; ok {
				stopID = parent
			}
		}

		seq := 0
		if hasSequence {
			if n, err := strconv.Atoi(tbl.Get(row, "stop_sequence")); err == nil {
				seq = n
			}
			// unparseable stop_sequence falls back to 0, not arrival order
		} else {
			seq = len(trips[tripID])
		}

		trips[tripID] = append(trips[tripID], tripStop{sequence: seq, stopID: stopID})
	}
	return trips
}

// BuildGraphOptions configures BuildGraph.
type BuildGraphOptions struct {
	// Parents, when non-nil, remaps every stop_id through it before
	// grouping into trips.
	Parents ParentMap
	// LimitTrips caps the number of distinct trips considered; zero
	// means unlimited.
	LimitTrips int
	// QualityFilter, when non-nil, is run over raw stop_times rows and
	// returns the set of trip_ids to exclude from graph construction
	// (see the A3 stop-quality filter).
	QualityFilter *QualityFilter
}

// BuildGraph streams a trip-stops table, groups rows by trip_id, sorts
// each trip's stops by sequence, and emits the undirected adjacency of
// consecutive distinct stop pairs.
func BuildGraph(path string, opts BuildGraphOptions) (*Graph, error) {
	tbl, err := tabular.Load(path)
	if err != nil {
		return nil, err
	}
	if !tbl.HasColumns("trip_id", "stop_id") {
		return nil, fmt.Errorf("transit: %s is missing required columns trip_id/stop_id", path)
	}
	hasSequence := tbl.HasColumns("stop_sequence")

	var excluded map[string]bool
	if opts.QualityFilter != nil {
		excluded = opts.QualityFilter.ExcludedTrips(tbl)
	}

	trips := groupTripStops(tbl, hasSequence, opts.Parents, excluded, opts.LimitTrips)

	edges := make(map[string]map[string]bool)
	addEdge := func(a, b string) {
		if a == b {
			return
		}
		if edges[a] == nil {
			edges[a] = make(map[string]bool)
		}
		if edges[b] == nil {
			edges[b] = make(map[string]bool)
		}
		edges[a][b] = true
		edges[b][a] = true
	}

	for _, stops := range trips {
		sort.SliceStable(stops, func(i, j int) bool { return stops[i].sequence < stops[j].sequence })
		for i := 1; i < len(stops); i++ {
			addEdge(stops[i-1].stopID, stops[i].stopID)
		}
	}

	adjacency := make(map[string][]string, len(edges))
	edgeCount := 0
	for node, neighbors := range edges {
		list := make([]string, 0, len(neighbors))
		for n := range neighbors {
			list = append(list, n)
		}
		sort.Strings(list)
		adjacency[node] = list
		edgeCount += len(list)
	}

	return &Graph{
		Edges: adjacency,
		Meta: GraphMeta{
			NodeCount: len(adjacency),
			EdgeCount: edgeCount,
		},
	}, nil
}

// Save writes the graph as indented JSON to path.
func (g *Graph) Save(path string) error {
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadGraph reads a persisted graph JSON artifact. Parsing uses fastjson
// rather than encoding/json: a full GTFS stop-times export can produce a
// graph.json in the tens of megabytes, and this is read on every
// pathfind invocation.
func LoadGraph(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	value, err := fastjson.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("transit: parsing graph %s: %w", path, err)
	}

	g := &Graph{Edges: make(map[string][]string)}

	edgesObj := value.GetObject("edges")
	if edgesObj != nil {
		edgesObj.Visit(func(key []byte, v *fastjson.Value) {
			arr, err := v.Array()
			if err != nil {
				return
			}
			neighbors := make([]string, 0, len(arr))
			for _, n := range arr {
				if s, err := n.StringBytes(); err == nil {
					neighbors = append(neighbors, string(s))
				}
			}
			g.Edges[string(key)] = neighbors
		})
	}

	g.Meta.NodeCount = value.GetInt("meta", "node_count")
	g.Meta.EdgeCount = value.GetInt("meta", "edge_count")
	return g, nil
}
