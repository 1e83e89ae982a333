package transit

import "testing"

func TestClusterStopsGroupsNearbyAlikeNames(t *testing.T) {
	stops := []StopCoord{
		{StopID: "A1", Name: "Gare Centrale", Lat: 48.8566, Lon: 2.3522},
		{StopID: "A2", Name: "Gare Centrale (Sud)", Lat: 48.8570, Lon: 2.3526},
	}
	parents := ClusterStops(stops)
	if parents["A1"] != parents["A2"] {
		t.Errorf("expected A1 and A2 to cluster together, got %v", parents)
	}
}

func TestClusterStopsKeepsUnrelatedNamesApart(t *testing.T) {
	stops := []StopCoord{
		{StopID: "A1", Name: "Gare Centrale", Lat: 48.8566, Lon: 2.3522},
		{StopID: "B1", Name: "Musee du Louvre", Lat: 48.8570, Lon: 2.3526},
	}
	parents := ClusterStops(stops)
	if parents["A1"] == parents["B1"] {
		t.Error("unrelated stop names at the same location should not cluster")
	}
}

func TestClusterStopsKeepsDistantAlikeNamesApart(t *testing.T) {
	stops := []StopCoord{
		{StopID: "A1", Name: "Gare Centrale", Lat: 48.8566, Lon: 2.3522},
		{StopID: "C1", Name: "Gare Centrale", Lat: 45.7640, Lon: 4.8357}, // Lyon, far away
	}
	parents := ClusterStops(stops)
	if parents["A1"] == parents["C1"] {
		t.Error("stops far apart should not cluster even with identical names")
	}
}
