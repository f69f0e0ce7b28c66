// Package site renders static per-dataset HTML pages from an exported
// catalog, for hosts that prefer pre-rendered pages over the
// script-driven viewer.
package site

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
)

// PageGenerator renders one HTML page per dataset in an exported
// catalog directory.
type PageGenerator struct {
	CatalogDir string
	OutputDir  string
	Title      string
}

// NewPageGenerator creates a PageGenerator reading from catalogDir and
// writing to outputDir.
func NewPageGenerator(catalogDir, outputDir, title string) *PageGenerator {
	return &PageGenerator{CatalogDir: catalogDir, OutputDir: outputDir, Title: title}
}

// pageData is the data passed to the page template.
type pageData struct {
	Title        string
	CatalogTitle string
	Path         string
	Description  template.HTML
	RecordHTML   template.HTML
	PageMetadata template.JS
}

// Generate renders all dataset pages. Returns the number of pages
// written.
func (g *PageGenerator) Generate() (int, error) {
	data, err := os.ReadFile(filepath.Join(g.CatalogDir, "by_path.json"))
	if err != nil {
		return 0, fmt.Errorf("reading catalog inventory: %w", err)
	}
	var byPath map[string]string
	if err := json.Unmarshal(data, &byPath); err != nil {
		return 0, fmt.Errorf("parsing catalog inventory: %w", err)
	}

	if err := os.MkdirAll(g.OutputDir, 0o755); err != nil {
		return 0, err
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
		),
	)

	tmpl, err := template.New("dataset").Parse(datasetPageTemplate)
	if err != nil {
		return 0, fmt.Errorf("parsing page template: %w", err)
	}

	paths := make([]string, 0, len(byPath))
	for p := range byPath {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, dsPath := range paths {
		if err := g.renderPage(md, tmpl, dsPath, byPath[dsPath]); err != nil {
			return 0, fmt.Errorf("rendering %s: %w", dsPath, err)
		}
	}
	return len(paths), nil
}

// renderPage writes the page for a single dataset.
func (g *PageGenerator) renderPage(md goldmark.Markdown, tmpl *template.Template, dsPath, loc string) error {
	raw, err := os.ReadFile(filepath.Join(g.CatalogDir, "objs", filepath.FromSlash(loc)))
	if err != nil {
		return err
	}
	var record map[string]any
	if err := json.Unmarshal(raw, &record); err != nil {
		return fmt.Errorf("parsing record: %w", err)
	}

	title, _ := record["name"].(string)
	if title == "" {
		title = dsPath
	}

	// The description field is markdown in most extractors.
	var description bytes.Buffer
	if text, ok := record["description"].(string); ok && text != "" {
		if err := md.Convert([]byte(text), &description); err != nil {
			return fmt.Errorf("rendering description: %w", err)
		}
	}

	// The full record is shown as a highlighted JSON block.
	pretty, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}
	var recordHTML bytes.Buffer
	fenced := "```json\n" + string(pretty) + "\n```\n"
	if err := md.Convert([]byte(fenced), &recordHTML); err != nil {
		return fmt.Errorf("rendering record: %w", err)
	}

	data := pageData{
		Title:        title,
		CatalogTitle: g.Title,
		Path:         dsPath,
		Description:  template.HTML(description.String()),
		RecordHTML:   template.HTML(recordHTML.String()),
		PageMetadata: template.JS(raw),
	}

	out, err := os.Create(filepath.Join(g.OutputDir, PageFileName(dsPath)))
	if err != nil {
		return err
	}
	defer out.Close()
	return tmpl.Execute(out, data)
}

// PageFileName maps a dataset path to its page file: the root becomes
// index.html, nested paths flatten with double underscores.
func PageFileName(dsPath string) string {
	if dsPath == "." {
		return "index.html"
	}
	return strings.ReplaceAll(dsPath, "/", "__") + ".html"
}
