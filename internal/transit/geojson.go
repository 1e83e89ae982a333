package transit

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/paulmach/go.geojson"
)

// ExportGeoJSON renders the graph as a GeoJSON FeatureCollection: one
// Point feature per node carrying its stop_id, and one LineString
// feature per undirected edge, emitted once per sorted pair. Stops
// without known coordinates are skipped — this is a visual debugging
// aid, never consulted by the pathfinder.
func ExportGeoJSON(g *Graph, coords map[string]LatLon, path string) error {
	fc := geojson.NewFeatureCollection()

	nodes := make([]string, 0, len(g.Edges))
	for node := range g.Edges {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)

	for _, node := range nodes {
		pos, ok := coords[node]
		if !ok {
			continue
		}
		feature := geojson.NewPointFeature([]float64{pos.Lon, pos.Lat})
		feature.SetProperty("stop_id", node)
		fc.AddFeature(feature)
	}

	seen := make(map[[2]string]bool)
	for _, u := range nodes {
		for _, v := range g.Edges[u] {
			a, b := u, v
			if b < a {
				a, b = b, a
			}
			key := [2]string{a, b}
			if seen[key] {
				continue
			}
			seen[key] = true

			posA, okA := coords[a]
			posB, okB := coords[b]
			if !okA || !okB {
				continue
			}
			line := geojson.NewLineStringFeature([][]float64{
				{posA.Lon, posA.Lat},
				{posB.Lon, posB.Lat},
			})
			line.SetProperty("from", a)
			line.SetProperty("to", b)
			fc.AddFeature(line)
		}
	}

	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
