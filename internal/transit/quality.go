// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package transit

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/ludovictagnon/travelorder/internal/tabular"
)

// stopTime is one arrival/departure observation for a stop within a trip.
type stopTime struct {
	sequence int
	stopID   string
	arrival  int
	depart   int
}

// speedThresholds holds the per-route-type implied-speed ceiling in
// km/h a trip must stay under to survive QualityFilter, mirroring the
// teacher's TooFastTripRemover distance/speed table for GTFS route
// types.
var speedThresholds = map[string]float64{
	"0":  100, // Tram, light rail
	"1":  150, // Subway, metro
	"2":  500, // Rail
	"3":  150, // Bus
	"4":  80,  // Ferry
	"5":  30,  // Cable car
	"6":  50,  // Gondola
	"7":  50,  // Funicular
	"11": 50,  // Trolleybus
	"12": 150, // Monorail
}

const defaultSpeedThreshold = 150

// QualityFilter drops trips whose implied speed between two stops
// exceeds the threshold for their route type. It is opt-in: trips
// lacking coordinates or times always pass.
type QualityFilter struct {
	// Stops maps stop_id to its coordinates, from a stops table.
	Stops map[string]LatLon
	// RouteTypes maps trip_id to its GTFS route_type, when known.
	RouteTypes map[string]string
}

// LatLon is a point on the earth's surface.
type LatLon struct {
	Lat, Lon float64
}

// ExcludedTrips scans a trip-stops table ordered by (trip_id,
// stop_sequence) and returns the set of trip_ids whose implied speed
// between any two consecutive stops with parseable times exceeds the
// threshold for their route type.
func (f *QualityFilter) ExcludedTrips(tbl *tabular.Table) map[string]bool {
	excluded := make(map[string]bool)
	if f == nil || len(f.Stops) == 0 {
		return excluded
	}
	if !tbl.HasColumns("arrival_time", "departure_time") {
		return excluded
	}

	byTrip := make(map[string][]stopTime)
	for _, row := range tbl.Rows {
		tripID := tbl.Get(row, "trip_id")
		stopID := tbl.Get(row, "stop_id")
		if tripID == "" || stopID == "" {
			continue
		}
		arrival, okA := parseClock(tbl.Get(row, "arrival_time"))
		depart, okD := parseClock(tbl.Get(row, "departure_time"))
		if !okA || !okD {
			continue
		}
		seq := 0
		if tbl.HasColumns("stop_sequence") {
			if n, err := strconv.Atoi(tbl.Get(row, "stop_sequence")); err == nil {
				seq = n
			}
			// unparseable stop_sequence falls back to 0, not arrival order
		} else {
			seq = len(byTrip[tripID])
		}
		byTrip[tripID] = append(byTrip[tripID], stopTime{sequence: seq, stopID: stopID, arrival: arrival, depart: depart})
	}

	for tripID, stops := range byTrip {
		if len(stops) < 2 {
			continue
		}
		sort.SliceStable(stops, func(i, j int) bool { return stops[i].sequence < stops[j].sequence })

		routeType := f.RouteTypes[tripID]
		threshold, ok := speedThresholds[routeType]
		if !ok {
			threshold = defaultSpeedThreshold
		}

		last := stops[0]
		dist := 0.0
		for i := 1; i < len(stops); i++ {
			a, okA := f.Stops[stops[i-1].stopID]
			b, okB := f.Stops[stops[i].stopID]
			if !okA || !okB {
				continue
			}
			dist += haversineKm(a, b)

			elapsed := stops[i].arrival - last.depart
			if elapsed <= 0 {
				elapsed = 60
			}
			speed := dist / (float64(elapsed) / 3600.0)
			if speed > threshold {
				excluded[tripID] = true
				break
			}
			last = stops[i]
			dist = 0
		}
	}
	return excluded
}

// parseClock parses a GTFS HH:MM:SS clock value (hours may exceed 23
// for post-midnight trips) into seconds since midnight.
func parseClock(s string) (int, bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, false
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	sec, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, false
	}
	return h*3600 + m*60 + sec, true
}

func haversineKm(a, b LatLon) float64 {
	const earthRadiusKm = 6371.0
	lat1, lon1 := a.Lat*math.Pi/180, a.Lon*math.Pi/180
	lat2, lon2 := b.Lat*math.Pi/180, b.Lon*math.Pi/180
	dLat := lat2 - lat1
	dLon := lon2 - lon1
	h := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}
