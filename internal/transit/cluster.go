// Copyright 2025 Patrick Steil
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package transit

import (
	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/ludovictagnon/travelorder/internal/kdtree"
	"github.com/ludovictagnon/travelorder/internal/normalize"
	"github.com/ludovictagnon/travelorder/internal/unionfind"
)

// clusterRadiusKm bounds the neighborhood searched for name-alike stops.
const clusterRadiusKm = 1.0

// nameSimilarityThreshold is the minimum fuzzy.Ratio score for two stop
// names to be considered the same place.
const nameSimilarityThreshold = 85

// StopCoord is one stop's identity and position, the input to
// ClusterStops.
type StopCoord struct {
	StopID string
	Name   string
	Lat    float64
	Lon    float64
}

// ClusterStops groups geographically close, name-alike stops into
// inferred parent stations: a KD-tree range query finds nearby
// candidates, and a fuzzy name-ratio check decides whether they
// represent the same place. It only fills gaps — explicit
// parent_station data should be preferred and is never overridden by
// the caller.
//
// The returned ParentMap has one entry per input stop, mapping it to
// its cluster's representative stop id (the lexicographically smallest
// id in the cluster).
func ClusterStops(stops []StopCoord) ParentMap {
	uf := unionfind.New[string]()

	points := make([]kdtree.Point[StopCoord], 0, len(stops))
	for _, s := range stops {
		uf.InitKey(s.StopID)
		points = append(points, kdtree.Point[StopCoord]{Lat: s.Lat, Lon: s.Lon, Data: s})
	}
	root := kdtree.Build(points, 0)

	for _, s := range stops {
		query := kdtree.Point[StopCoord]{Lat: s.Lat, Lon: s.Lon, Data: s}
		var results []kdtree.Point[StopCoord]
		kdtree.SearchRange(root, query, clusterRadiusKm, 0, &results)

		normalizedName := normalize.Text(s.Name)
		for _, r := range results {
			other := r.Data
			if other.StopID == s.StopID {
				continue
			}
			if fuzzy.Ratio(normalizedName, normalize.Text(other.Name)) >= nameSimilarityThreshold {
				uf.UnionSet(s.StopID, other.StopID)
			}
		}
	}

	representative := make(map[string]string)
	uf.Apply(func(key, parent string) {
		if current, ok := representative[parent]; !ok || key < current {
			representative[parent] = key
		}
	})

	parents := make(ParentMap, len(stops))
	for _, s := range stops {
		clusterRoot := uf.FindSet(s.StopID)
		parents[s.StopID] = representative[clusterRoot]
	}
	return parents
}
