// Copyright 2025 Patrick Steil
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package kdtree

import (
	"testing"
)

type payload struct {
	ID string
}

func testPoints() []Point[payload] {
	return []Point[payload]{
		{Lat: 48.1371, Lon: 11.5754, Data: payload{"Munich"}},
		{Lat: 52.5200, Lon: 13.4050, Data: payload{"Berlin"}},
		{Lat: 50.1109, Lon: 8.6821, Data: payload{"Frankfurt"}},
		{Lat: 53.5511, Lon: 9.9937, Data: payload{"Hamburg"}},
		{Lat: 51.1657, Lon: 10.4515, Data: payload{"Germany Center"}},
	}
}

func linearSearch(points []Point[payload], query Point[payload], radiusKm float64) []Point[payload] {
	var result []Point[payload]
	for _, p := range points {
		if Haversine(p.Lat, p.Lon, query.Lat, query.Lon) <= radiusKm {
			result = append(result, p)
		}
	}
	return result
}

func matchResults(t *testing.T, a, b []Point[payload]) {
	t.Helper()
	if len(a) != len(b) {
		t.Errorf("expected %d results, got %d", len(a), len(b))
		return
	}
	found := map[string]bool{}
	for _, p := range b {
		found[p.Data.ID] = true
	}
	for _, p := range a {
		if !found[p.Data.ID] {
			t.Errorf("missing point in kd result: %v", p.Data.ID)
		}
	}
}

func TestBuildAndSearch(t *testing.T) {
	points := testPoints()
	tree := Build(points, 0)
	if tree == nil {
		t.Fatal("tree is nil after building from points")
	}

	query := Point[payload]{Lat: 50.0, Lon: 10.0}
	radius := 300.0 // km

	var kdResults []Point[payload]
	SearchRange(tree, query, radius, 0, &kdResults)

	linear := linearSearch(points, query, radius)
	matchResults(t, kdResults, linear)
}

func TestInsert(t *testing.T) {
	points := testPoints()
	tree := Build(points[:3], 0)

	insertPoint := Point[payload]{Lat: 53.5511, Lon: 9.9937, Data: payload{"Hamburg"}}
	tree = Insert(tree, insertPoint, 0)

	var results []Point[payload]
	SearchRange(tree, insertPoint, 50, 0, &results)

	found := false
	for _, p := range results {
		if p.Data.ID == "Hamburg" {
			found = true
		}
	}
	if !found {
		t.Errorf("inserted point not found in search")
	}
}

func TestEmptyTree(t *testing.T) {
	var empty []Point[payload]
	tree := Build(empty, 0)
	if tree != nil {
		t.Errorf("expected nil tree for empty input, got non-nil")
	}
}

func TestHaversineKnownDistance(t *testing.T) {
	// Munich to Berlin
	lat1, lon1 := 48.1371, 11.5754
	lat2, lon2 := 52.5200, 13.4050
	dist := Haversine(lat1, lon1, lat2, lon2)
	if dist < 500 || dist > 600 {
		t.Errorf("unexpected haversine distance: %.2f km", dist)
	}
}

func TestAllPointsReturnedWithinLargeRadius(t *testing.T) {
	points := testPoints()
	tree := Build(points, 0)

	var results []Point[payload]
	SearchRange(tree, Point[payload]{Lat: 51.0, Lon: 10.0}, 10000, 0, &results)

	if len(results) != len(points) {
		t.Errorf("expected all %d points, got %d", len(points), len(results))
	}
}
