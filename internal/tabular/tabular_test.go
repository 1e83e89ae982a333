package tabular

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadCommaDelimited(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "stops.csv", "stop_id,stop_name\n1,Gare Centrale\n2,Gare du Nord\n")
	tbl, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Col("stop_id") != 0 || tbl.Col("stop_name") != 1 {
		t.Fatalf("unexpected column index mapping: %v", tbl.col)
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(tbl.Rows))
	}
	if tbl.Get(tbl.Rows[0], "stop_name") != "Gare Centrale" {
		t.Errorf("unexpected value: %q", tbl.Get(tbl.Rows[0], "stop_name"))
	}
}

func TestLoadSemicolonDelimited(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "stops.csv", "stop_id;stop_name\n1;Gare Centrale\n")
	tbl, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !tbl.HasColumns("stop_id", "stop_name") {
		t.Fatal("expected both columns present")
	}
	if tbl.Get(tbl.Rows[0], "stop_id") != "1" {
		t.Errorf("unexpected stop_id: %q", tbl.Get(tbl.Rows[0], "stop_id"))
	}
}

func TestLoadTabDelimited(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "stops.tsv", "stop_id\tstop_name\n1\tGare Centrale\n")
	tbl, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Get(tbl.Rows[0], "stop_name") != "Gare Centrale" {
		t.Errorf("unexpected value: %q", tbl.Get(tbl.Rows[0], "stop_name"))
	}
}

func TestLoadGzipTransparent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stops.csv.gz")
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write([]byte("stop_id,stop_name\n1,Gare Centrale\n")); err != nil {
		t.Fatal(err)
	}
	if err := gw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	tbl, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(tbl.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(tbl.Rows))
	}
	if tbl.Get(tbl.Rows[0], "stop_name") != "Gare Centrale" {
		t.Errorf("unexpected value: %q", tbl.Get(tbl.Rows[0], "stop_name"))
	}
}

func TestHasColumnsMissing(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "stops.csv", "stop_id\n1\n")
	tbl, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if tbl.HasColumns("stop_id", "stop_name") {
		t.Error("expected HasColumns to report missing stop_name")
	}
}
