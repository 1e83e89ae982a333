// Copyright 2025 Patrick Steil
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

// Package kdtree is a small 2D (lat/lon) KD-tree used to find stops within
// a radius of each other, for geographic stop clustering.
package kdtree

import (
	"math"
	"sort"
)

// EarthRadiusKm is the mean Earth radius used by the haversine distance.
const EarthRadiusKm = 6371.0

// Point holds a lat/lon coordinate and a generic payload.
type Point[T any] struct {
	Lat, Lon float64
	Data     T
}

// Node is a node of the KD-tree, split alternately on latitude and longitude.
type Node[T any] struct {
	Point Point[T]
	Left  *Node[T]
	Right *Node[T]
	Axis  int // 0 = lat, 1 = lon
}

// Build builds a balanced KD-tree from a slice of points. The slice is
// reordered in place.
func Build[T any](points []Point[T], depth int) *Node[T] {
	if len(points) == 0 {
		return nil
	}

	axis := depth % 2

	sort.SliceStable(points, func(i, j int) bool {
		if axis == 0 {
			return points[i].Lat < points[j].Lat
		}
		return points[i].Lon < points[j].Lon
	})

	median := len(points) / 2

	node := &Node[T]{
		Point: points[median],
		Axis:  axis,
	}

	node.Left = Build(points[:median], depth+1)
	node.Right = Build(points[median+1:], depth+1)

	return node
}

// Insert adds a point to the tree, returning the (possibly new) root.
func Insert[T any](root *Node[T], point Point[T], depth int) *Node[T] {
	if root == nil {
		return &Node[T]{Point: point, Axis: depth % 2}
	}

	var key, rootKey float64
	if root.Axis == 0 {
		key, rootKey = point.Lat, root.Point.Lat
	} else {
		key, rootKey = point.Lon, root.Point.Lon
	}

	if key < rootKey {
		root.Left = Insert(root.Left, point, depth+1)
	} else {
		root.Right = Insert(root.Right, point, depth+1)
	}

	return root
}

// Haversine returns the great-circle distance in km between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

func coordDegrees(radiusKm, lat float64, axis int) float64 {
	rad := radiusKm / EarthRadiusKm * (180.0 / math.Pi)
	if axis == 0 {
		return rad // latitude
	}
	return rad / math.Cos(lat*math.Pi/180.0) // longitude
}

// SearchRange appends every point within radiusKm of query to results.
func SearchRange[T any](node *Node[T], query Point[T], radiusKm float64, depth int, results *[]Point[T]) {
	if node == nil {
		return
	}

	distance := Haversine(query.Lat, query.Lon, node.Point.Lat, node.Point.Lon)
	if distance <= radiusKm {
		*results = append(*results, node.Point)
	}

	axis := depth % 2

	var queryCoord, nodeCoord float64
	if axis == 0 {
		queryCoord, nodeCoord = query.Lat, node.Point.Lat
	} else {
		queryCoord, nodeCoord = query.Lon, node.Point.Lon
	}

	delta := coordDegrees(radiusKm, query.Lat, axis)

	if queryCoord-delta <= nodeCoord {
		SearchRange(node.Left, query, radiusKm, depth+1, results)
	}
	if queryCoord+delta >= nodeCoord {
		SearchRange(node.Right, query, radiusKm, depth+1, results)
	}
}
