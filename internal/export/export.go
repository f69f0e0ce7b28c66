// Package export builds a static, web-browsable catalog from an
// aggregated dataset metadata database: one JSON object per dataset,
// path and id lookup tables, a sitemap, and the viewer page itself.
package export

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"

	"github.com/dscatalog/dscat/internal/progress"
)

// HomogenizationCustom takes the content of each record's "custom"
// extractor block verbatim. It is the only mode currently implemented.
const HomogenizationCustom = "custom"

// DatasetEntry is one dataset in the aggregate index: its id, the
// commit the metadata was aggregated at, and the metadata file holding
// the full record.
type DatasetEntry struct {
	ID          string `json:"id"`
	RefCommit   string `json:"refcommit"`
	DatasetInfo string `json:"dataset_info"`
}

// AggregateIndexName is the index file expected at the root of the
// metadata database directory. It maps dataset-relative paths ("." for
// the superdataset itself) to DatasetEntry records.
const AggregateIndexName = "aggregate.json"

// Exporter writes a catalog to Destination from the aggregate metadata
// database in DBDir.
type Exporter struct {
	DBDir          string
	Destination    string
	BaseURL        string
	Homogenization string   // empty means HomogenizationCustom
	Exclude        []string // doublestar globs of dataset paths to omit

	Reporter progress.Reporter
	Logger   *log.Logger
}

// Result summarizes a completed export.
type Result struct {
	Exported int
	Skipped  int
}

// sitemap models the catalog.xml urlset.
type sitemap struct {
	XMLName           xml.Name     `xml:"urlset"`
	XMLNS             string       `xml:"xmlns,attr"`
	XMLNSXSI          string       `xml:"xmlns:xsi,attr"`
	XSISchemaLocation string       `xml:"xsi:schemaLocation,attr"`
	URLs              []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc string `xml:"loc"`
}

// Run exports the whole catalog. Datasets with missing or invalid
// identity fields are skipped with a logged error rather than aborting
// the export.
func (e *Exporter) Run() (*Result, error) {
	logger := e.Logger
	if logger == nil {
		logger = log.Default()
	}
	reporter := e.Reporter
	if reporter == nil {
		reporter = progress.Silent{}
	}
	mode := e.Homogenization
	if mode == "" {
		mode = HomogenizationCustom
	}
	if mode != HomogenizationCustom {
		return nil, fmt.Errorf("unsupported homogenization mode %q", mode)
	}

	index, err := loadAggregateIndex(filepath.Join(e.DBDir, AggregateIndexName))
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Join(e.Destination, "objs"), 0o755); err != nil {
		return nil, fmt.Errorf("creating destination: %w", err)
	}

	// Stable iteration so lookups and sitemap come out deterministic.
	paths := make([]string, 0, len(index))
	for p := range index {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	byPath := map[string]string{}
	byID := map[string][]string{}
	sm := sitemap{
		XMLNS:             "http://www.sitemaps.org/schemas/sitemap/0.9",
		XMLNSXSI:          "http://www.w3.org/2001/XMLSchema-instance",
		XSISchemaLocation: "http://www.sitemaps.org/schemas/sitemap/0.9 http://www.sitemaps.org/schemas/sitemap/0.9/sitemap.xsd",
	}

	res := &Result{}
	reporter.Start(len(paths))
	for i, rpath := range paths {
		reporter.Update(i+1, rpath)

		entry := index[rpath]
		if entry.ID == "" || entry.RefCommit == "" {
			logger.Printf("export: skipped dataset record without an id or refcommit: %s", rpath)
			res.Skipped++
			continue
		}
		if _, err := uuid.Parse(entry.ID); err != nil {
			logger.Printf("export: skipped dataset %s: invalid id %q", rpath, entry.ID)
			res.Skipped++
			continue
		}
		if e.excluded(rpath) {
			res.Skipped++
			continue
		}

		record, err := loadRecord(filepath.Join(e.DBDir, entry.DatasetInfo))
		if err != nil {
			logger.Printf("export: skipped dataset %s: %v", rpath, err)
			res.Skipped++
			continue
		}
		homogenized, err := homogenize(record, mode)
		if err != nil {
			logger.Printf("export: skipped dataset %s: %v", rpath, err)
			res.Skipped++
			continue
		}

		// Paths are unique within a superdataset; a hash of the path
		// names the object file, split for fan-out on disk.
		loc := objectLocation(rpath)
		if err := writeCompactJSON(filepath.Join(e.Destination, "objs", filepath.FromSlash(loc)), homogenized); err != nil {
			return nil, err
		}

		byPath[rpath] = loc
		byID[entry.ID] = append(byID[entry.ID], loc)
		sm.URLs = append(sm.URLs, sitemapURL{Loc: fmt.Sprintf("%s?p=%s", e.BaseURL, rpath)})
		res.Exported++
	}
	reporter.Finish()

	if err := writeCompactJSON(filepath.Join(e.Destination, "by_path.json"), byPath); err != nil {
		return nil, err
	}
	if err := writeCompactJSON(filepath.Join(e.Destination, "by_id.json"), byID); err != nil {
		return nil, err
	}
	if err := writeSitemap(filepath.Join(e.Destination, "catalog.xml"), sm); err != nil {
		return nil, err
	}
	if err := writeViewerAssets(e.Destination); err != nil {
		return nil, err
	}
	return res, nil
}

func (e *Exporter) excluded(rpath string) bool {
	for _, pattern := range e.Exclude {
		if ok, _ := doublestar.Match(pattern, rpath); ok {
			return true
		}
	}
	return false
}

// objectLocation returns the slash-separated object path for a dataset
// path: the first two hex digits of the md5 become the directory.
func objectLocation(rpath string) string {
	sum := md5.Sum([]byte(rpath))
	digest := hex.EncodeToString(sum[:])
	return path.Join(digest[:2], digest[2:])
}

func loadAggregateIndex(indexPath string) (map[string]DatasetEntry, error) {
	data, err := os.ReadFile(indexPath)
	if err != nil {
		return nil, fmt.Errorf("reading aggregate index: %w", err)
	}
	var index map[string]DatasetEntry
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("parsing aggregate index %s: %w", indexPath, err)
	}
	return index, nil
}

func loadRecord(recordPath string) (map[string]any, error) {
	data, err := os.ReadFile(recordPath)
	if err != nil {
		return nil, fmt.Errorf("reading metadata: %w", err)
	}
	var record map[string]any
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("parsing metadata %s: %w", recordPath, err)
	}
	return record, nil
}

// homogenize tailors a raw metadata record for discovery via the
// catalog. Custom mode passes the "custom" extractor block through
// untouched.
func homogenize(record map[string]any, mode string) (any, error) {
	custom, ok := record["custom"]
	if !ok {
		return nil, fmt.Errorf("record has no %q metadata block", mode)
	}
	return custom, nil
}

// writeCompactJSON writes v as minified JSON, creating parent
// directories as needed.
func writeCompactJSON(target string, v any) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(target), err)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", target, err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", target, err)
	}
	return nil
}

func writeSitemap(target string, sm sitemap) error {
	data, err := xml.MarshalIndent(sm, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding sitemap: %w", err)
	}
	out := xml.Header + string(data) + "\n"
	if err := os.WriteFile(target, []byte(out), 0o644); err != nil {
		return fmt.Errorf("writing sitemap: %w", err)
	}
	return nil
}

// writeViewerAssets writes the catalog page and its static assets. The
// bootstrap script is injected into the page template so the catalog is
// a single self-contained directory.
func writeViewerAssets(destination string) error {
	page := strings.Replace(viewerPageTemplate, jsInjectionMarker, viewerJS, 1)
	files := map[string]string{
		"dataset.html": page,
		"catalog.css":  viewerCSS,
		"catalog.js":   viewerJS,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(destination, name), []byte(content), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
	}
	return nil
}
