package transit

import "testing"

func TestStopImportanceRanksBusiestStop(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "stop_times.csv", ""+
		"trip_id,stop_id,stop_sequence\n"+
		"t1,HUB,1\n"+
		"t1,B,2\n"+
		"t2,HUB,1\n"+
		"t2,C,2\n"+
		"t3,HUB,1\n"+
		"t3,D,2\n")

	top, err := StopImportance(path, 2, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(top) == 0 || top[0].StopID != "HUB" {
		t.Fatalf("expected HUB to be the busiest stop, got %v", top)
	}
	if top[0].Visits != 3 {
		t.Errorf("expected HUB to have 3 visits, got %d", top[0].Visits)
	}
}

func TestStopImportanceTiesBreakByStopID(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "stop_times.csv", ""+
		"trip_id,stop_id,stop_sequence\n"+
		"t1,B,1\n"+
		"t1,A,2\n")

	top, err := StopImportance(path, 2, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(top) != 2 {
		t.Fatalf("expected 2 stops, got %d", len(top))
	}
	if top[0].StopID != "A" || top[1].StopID != "B" {
		t.Errorf("expected tie broken by ascending stop id, got %v", top)
	}
}

func TestStopImportanceRespectsK(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "stop_times.csv", ""+
		"trip_id,stop_id,stop_sequence\n"+
		"t1,A,1\nt1,B,2\nt1,C,3\nt1,D,4\n")

	top, err := StopImportance(path, 2, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(top) != 2 {
		t.Errorf("expected exactly 2 results for K=2, got %d", len(top))
	}
}
