package export

import (
	"encoding/json"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const (
	rootID = "11111111-1111-1111-1111-111111111111"
	subID  = "22222222-2222-2222-2222-222222222222"
)

// writeDB lays out an aggregate metadata database in dir.
func writeDB(t *testing.T, dir string, index map[string]DatasetEntry, records map[string]any) {
	t.Helper()
	for name, record := range records {
		data, err := json.Marshal(record)
		if err != nil {
			t.Fatalf("encoding record %s: %v", name, err)
		}
		target := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(target, data, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	data, err := json.Marshal(index)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, AggregateIndexName), data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func readJSON(t *testing.T, path string, out any) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		t.Fatalf("parsing %s: %v", path, err)
	}
}

func newExporter(db, dest string) *Exporter {
	return &Exporter{
		DBDir:       db,
		Destination: dest,
		BaseURL:     "https://example.com/dataset.html",
		Logger:      log.New(io.Discard, "", 0),
	}
}

func TestExport(t *testing.T) {
	db := t.TempDir()
	dest := t.TempDir()

	writeDB(t, db,
		map[string]DatasetEntry{
			".":   {ID: rootID, RefCommit: "aaaa", DatasetInfo: "root.json"},
			"sub": {ID: subID, RefCommit: "bbbb", DatasetInfo: "sub.json"},
		},
		map[string]any{
			"root.json": map[string]any{"custom": map[string]any{"name": "superds"}},
			"sub.json":  map[string]any{"custom": map[string]any{"name": "subds"}},
		},
	)

	res, err := newExporter(db, dest).Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Exported != 2 || res.Skipped != 0 {
		t.Errorf("result = %+v, want 2 exported, 0 skipped", res)
	}

	var byPath map[string]string
	readJSON(t, filepath.Join(dest, "by_path.json"), &byPath)
	if len(byPath) != 2 {
		t.Fatalf("by_path has %d entries, want 2", len(byPath))
	}
	if byPath["."] != objectLocation(".") {
		t.Errorf("by_path[.] = %q, want %q", byPath["."], objectLocation("."))
	}

	// Each object file holds the record's custom block, compacted.
	var obj map[string]any
	readJSON(t, filepath.Join(dest, "objs", filepath.FromSlash(byPath["sub"])), &obj)
	if obj["name"] != "subds" {
		t.Errorf("objs/%s name = %v, want subds", byPath["sub"], obj["name"])
	}

	var byID map[string][]string
	readJSON(t, filepath.Join(dest, "by_id.json"), &byID)
	if len(byID[rootID]) != 1 || byID[rootID][0] != byPath["."] {
		t.Errorf("by_id[%s] = %v, want [%s]", rootID, byID[rootID], byPath["."])
	}
}

func TestExportSkipsBadRecords(t *testing.T) {
	db := t.TempDir()
	dest := t.TempDir()

	writeDB(t, db,
		map[string]DatasetEntry{
			".":      {ID: rootID, RefCommit: "aaaa", DatasetInfo: "root.json"},
			"noref":  {ID: subID, DatasetInfo: "noref.json"},
			"badid":  {ID: "not-a-uuid", RefCommit: "cccc", DatasetInfo: "badid.json"},
			"nometa": {ID: "33333333-3333-3333-3333-333333333333", RefCommit: "dddd", DatasetInfo: "missing.json"},
		},
		map[string]any{
			"root.json":  map[string]any{"custom": map[string]any{"name": "superds"}},
			"noref.json": map[string]any{"custom": map[string]any{}},
			"badid.json": map[string]any{"custom": map[string]any{}},
		},
	)

	res, err := newExporter(db, dest).Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Exported != 1 || res.Skipped != 3 {
		t.Errorf("result = %+v, want 1 exported, 3 skipped", res)
	}

	var byPath map[string]string
	readJSON(t, filepath.Join(dest, "by_path.json"), &byPath)
	if _, ok := byPath["noref"]; ok {
		t.Error("record without refcommit made it into by_path")
	}
	if _, ok := byPath["badid"]; ok {
		t.Error("record with invalid id made it into by_path")
	}
}

func TestExportExcludeGlobs(t *testing.T) {
	db := t.TempDir()
	dest := t.TempDir()

	writeDB(t, db,
		map[string]DatasetEntry{
			".":            {ID: rootID, RefCommit: "aaaa", DatasetInfo: "root.json"},
			"scratch/tmp1": {ID: subID, RefCommit: "bbbb", DatasetInfo: "tmp.json"},
		},
		map[string]any{
			"root.json": map[string]any{"custom": map[string]any{}},
			"tmp.json":  map[string]any{"custom": map[string]any{}},
		},
	)

	exp := newExporter(db, dest)
	exp.Exclude = []string{"scratch/**"}
	res, err := exp.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Exported != 1 || res.Skipped != 1 {
		t.Errorf("result = %+v, want 1 exported, 1 skipped", res)
	}
}

func TestExportSitemapAndViewerPage(t *testing.T) {
	db := t.TempDir()
	dest := t.TempDir()

	writeDB(t, db,
		map[string]DatasetEntry{
			"sub": {ID: subID, RefCommit: "bbbb", DatasetInfo: "sub.json"},
		},
		map[string]any{
			"sub.json": map[string]any{"custom": map[string]any{}},
		},
	)

	if _, err := newExporter(db, dest).Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	sitemap, err := os.ReadFile(filepath.Join(dest, "catalog.xml"))
	if err != nil {
		t.Fatalf("reading sitemap: %v", err)
	}
	if !strings.Contains(string(sitemap), "<loc>https://example.com/dataset.html?p=sub</loc>") {
		t.Errorf("sitemap missing dataset url:\n%s", sitemap)
	}
	for _, attr := range []string{
		`xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"`,
		`xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"`,
		`xsi:schemaLocation="http://www.sitemaps.org/schemas/sitemap/0.9 http://www.sitemaps.org/schemas/sitemap/0.9/sitemap.xsd"`,
	} {
		if !strings.Contains(string(sitemap), attr) {
			t.Errorf("sitemap missing %s attribute:\n%s", attr, sitemap)
		}
	}

	page, err := os.ReadFile(filepath.Join(dest, "dataset.html"))
	if err != nil {
		t.Fatalf("reading viewer page: %v", err)
	}
	if !strings.Contains(string(page), `id="page_metadata"`) {
		t.Error("viewer page has no page_metadata element")
	}
	if strings.Contains(string(page), jsInjectionMarker) {
		t.Error("bootstrap script was not injected into the viewer page")
	}
	for _, asset := range []string{"catalog.css", "catalog.js"} {
		if _, err := os.Stat(filepath.Join(dest, asset)); err != nil {
			t.Errorf("missing asset %s: %v", asset, err)
		}
	}
}

func TestExportRejectsUnknownHomogenization(t *testing.T) {
	db := t.TempDir()
	writeDB(t, db, map[string]DatasetEntry{}, nil)

	exp := newExporter(db, t.TempDir())
	exp.Homogenization = "schema_org"
	if _, err := exp.Run(); err == nil {
		t.Fatal("expected error for unsupported homogenization mode")
	}
}

func TestExportRecordWithoutCustomBlockSkipped(t *testing.T) {
	db := t.TempDir()
	dest := t.TempDir()

	writeDB(t, db,
		map[string]DatasetEntry{
			".": {ID: rootID, RefCommit: "aaaa", DatasetInfo: "root.json"},
		},
		map[string]any{
			"root.json": map[string]any{"core": map[string]any{"name": "x"}},
		},
	)

	res, err := newExporter(db, dest).Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Exported != 0 || res.Skipped != 1 {
		t.Errorf("result = %+v, want 0 exported, 1 skipped", res)
	}
}
