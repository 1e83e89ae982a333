package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ludovictagnon/travelorder/internal/gazetteer"
	"github.com/ludovictagnon/travelorder/internal/normalize"
)

func testGazetteer(t *testing.T) *gazetteer.Gazetteer {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "places.txt")
	contents := "Paris\nLyon\nStrasbourg\nTours\nMarseille\nNice\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	g, err := gazetteer.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestExactFindsKnownPlaces(t *testing.T) {
	g := testGazetteer(t)
	s := normalize.Text("Je voudrais aller de Paris à Lyon")
	mentions := Exact(s, g)
	if len(mentions) != 2 {
		t.Fatalf("expected 2 exact mentions, got %d: %v", len(mentions), mentions)
	}
	if mentions[0].Canonical != "Paris" || mentions[1].Canonical != "Lyon" {
		t.Errorf("unexpected mentions: %v", mentions)
	}
}

func TestExactIsSubsetOfFuzzy(t *testing.T) {
	g := testGazetteer(t)
	s := normalize.Text("comment aller de Paris a Tours")
	exact := Exact(s, g)
	fuzzy := Fuzzy(s, g)

	fuzzySet := make(map[Mention]bool)
	for _, m := range fuzzy {
		fuzzySet[m] = true
	}
	for _, m := range exact {
		if !fuzzySet[m] {
			t.Errorf("exact mention %v missing from fuzzy result", m)
		}
	}
}

func TestFuzzyRecoversTypo(t *testing.T) {
	g := testGazetteer(t)
	s := normalize.Text("comment aller a Tours depuis trasbourg")
	fuzzy := Fuzzy(s, g)

	found := false
	for _, m := range fuzzy {
		if m.Canonical == "Strasbourg" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected fuzzy match to recover Strasbourg from typo, got %v", fuzzy)
	}
}
