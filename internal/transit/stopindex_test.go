package transit

import (
	"path/filepath"
	"testing"
)

func TestBuildStopIndexGroupsByNormalizedName(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "stops.csv", ""+
		"stop_id,stop_name,location_type\n"+
		"1,Gare de Lyon,1\n"+
		"2,Gare de Lyon,1\n"+
		"3,Gare du Nord,1\n"+
		"4,Platform,0\n")

	idx, err := BuildStopIndex(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	entry, ok := idx["gare de lyon"]
	if !ok {
		t.Fatal("expected a 'gare de lyon' key")
	}
	if len(entry.StopIDs) != 2 {
		t.Errorf("expected 2 stop ids under gare de lyon, got %v", entry.StopIDs)
	}
	if _, ok := idx["platform"]; ok {
		t.Error("location_type=0 row should have been excluded")
	}
}

func TestResolveStopIDsExact(t *testing.T) {
	idx := StopIndex{
		"gare de lyon": &StopIndexEntry{Names: []string{"Gare de Lyon"}, StopIDs: []string{"1", "2"}},
	}
	got := ResolveStopIDs(idx, "Gare de Lyon")
	if !equalStrings(got, []string{"1", "2"}) {
		t.Errorf("got %v", got)
	}
}

func TestResolveStopIDsSaintStVariant(t *testing.T) {
	idx := StopIndex{
		"saint etienne": &StopIndexEntry{StopIDs: []string{"9"}},
	}
	got := ResolveStopIDs(idx, "St Etienne")
	if !equalStrings(got, []string{"9"}) {
		t.Errorf("expected saint/st variant swap to resolve, got %v", got)
	}
}

func TestResolveStopIDsPrefix(t *testing.T) {
	idx := StopIndex{
		"tours centre": &StopIndexEntry{StopIDs: []string{"5"}},
	}
	got := ResolveStopIDs(idx, "Tours")
	if !equalStrings(got, []string{"5"}) {
		t.Errorf("expected prefix match, got %v", got)
	}
}

func TestResolveStopIDsFuzzyPrefix(t *testing.T) {
	idx := StopIndex{
		"strasbourg ville": &StopIndexEntry{StopIDs: []string{"7"}},
	}
	got := ResolveStopIDs(idx, "trasbourg")
	if !equalStrings(got, []string{"7"}) {
		t.Errorf("expected fuzzy prefix match to recover typo, got %v", got)
	}
}

func TestResolveStopIDsSubstring(t *testing.T) {
	idx := StopIndex{
		"gare centrale sud": &StopIndexEntry{StopIDs: []string{"11"}},
	}
	got := ResolveStopIDs(idx, "centrale")
	if !equalStrings(got, []string{"11"}) {
		t.Errorf("expected substring match, got %v", got)
	}
}

func TestResolveStopIDsUnknownReturnsEmpty(t *testing.T) {
	idx := StopIndex{"paris": &StopIndexEntry{StopIDs: []string{"1"}}}
	got := ResolveStopIDs(idx, "Atlantis")
	if len(got) != 0 {
		t.Errorf("expected no match, got %v", got)
	}
}

func TestStopIndexSaveLoadRoundTrip(t *testing.T) {
	idx := StopIndex{
		"gare de lyon": &StopIndexEntry{Names: []string{"Gare de Lyon"}, StopIDs: []string{"1", "2"}},
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "stops_index.json")
	if err := idx.Save(path); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadStopIndex(path)
	if err != nil {
		t.Fatal(err)
	}
	if !equalStrings(loaded["gare de lyon"].StopIDs, []string{"1", "2"}) {
		t.Errorf("round-trip mismatch: %v", loaded["gare de lyon"])
	}
}
