// Package docx renders flashcard pages into Word documents. A page is
// two tables of the same fixed grid: the base language straight, the
// target language column-mirrored by the layout package before it gets
// here.
package docx

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	godocx "github.com/fumiama/go-docx"

	"flashdoc/internal/layout"
)

// ErrDimensionMismatch reports a template whose tables do not match the
// configured grid. It is raised before any cell is written, so the
// failed page leaves no partial file behind.
var ErrDimensionMismatch = errors.New("template table dimensions do not match configured grid")

const tableWidthTwips = 8120

// Renderer writes flashcard pages as .docx files, either into a copy of
// a two-table template or, with no template configured, into a freshly
// built document.
type Renderer struct {
	TemplatePath string
	Folder       string
	Prefix       string
	Grid         layout.Grid
	BaseFont     string
	TargetFont   string
	FontSize     float64 // points
}

// Path returns where the document for the given page name will live.
func (r *Renderer) Path(name string) string {
	return filepath.Join(r.Folder, r.Prefix+name+".docx")
}

// Render writes one page and returns the path of the saved document.
// baseCells fill the first table with the base font, targetCells the
// second with the target font.
func (r *Renderer) Render(name string, baseCells, targetCells []layout.Cell) (string, error) {
	doc, tables, err := r.openDocument()
	if err != nil {
		return "", err
	}

	if err := r.fill(tables[0], baseCells, r.BaseFont); err != nil {
		return "", err
	}
	if err := r.fill(tables[1], targetCells, r.TargetFont); err != nil {
		return "", err
	}

	if err := os.MkdirAll(r.Folder, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output folder %s: %w", r.Folder, err)
	}
	path := r.Path(name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if _, err := doc.WriteTo(f); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// openDocument loads the template and validates its first two tables
// against the configured grid, or builds a fresh document with two
// matching tables when no template is set.
func (r *Renderer) openDocument() (*godocx.Docx, []*godocx.Table, error) {
	if r.TemplatePath == "" {
		doc := godocx.New().WithDefaultTheme()
		base := doc.AddTable(r.Grid.Rows, r.Grid.Cols, tableWidthTwips, nil)
		doc.AddParagraph()
		target := doc.AddTable(r.Grid.Rows, r.Grid.Cols, tableWidthTwips, nil)
		return doc, []*godocx.Table{base, target}, nil
	}

	f, err := os.Open(r.TemplatePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open template %s: %w", r.TemplatePath, err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to stat template %s: %w", r.TemplatePath, err)
	}
	doc, err := godocx.Parse(f, info.Size())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse template %s: %w", r.TemplatePath, err)
	}

	var tables []*godocx.Table
	for _, item := range doc.Document.Body.Items {
		if tbl, ok := item.(*godocx.Table); ok {
			tables = append(tables, tbl)
		}
	}
	if len(tables) < 2 {
		return nil, nil, fmt.Errorf("template %s must contain at least two tables, found %d",
			r.TemplatePath, len(tables))
	}
	if err := ValidateDims(tableDims(tables[:2]), r.Grid); err != nil {
		return nil, nil, err
	}
	return doc, tables[:2], nil
}

func tableDims(tables []*godocx.Table) []layout.Grid {
	dims := make([]layout.Grid, len(tables))
	for i, tbl := range tables {
		dims[i].Rows = len(tbl.TableRows)
		if dims[i].Rows > 0 {
			dims[i].Cols = len(tbl.TableRows[0].TableCells)
		}
	}
	return dims
}

// ValidateDims checks every table shape against the configured grid,
// before any cell write happens.
func ValidateDims(dims []layout.Grid, want layout.Grid) error {
	for i, got := range dims {
		if got != want {
			return fmt.Errorf("%w: table #%d is %dx%d, want %dx%d",
				ErrDimensionMismatch, i+1, got.Rows, got.Cols, want.Rows, want.Cols)
		}
	}
	return nil
}

// fill writes the cell instructions into the table, one paragraph per
// cell, with the keyword span as the only bold run.
func (r *Renderer) fill(tbl *godocx.Table, cells []layout.Cell, font string) error {
	size := strconv.Itoa(int(r.FontSize * 2)) // OOXML sizes are half-points

	for _, c := range cells {
		if c.Row >= r.Grid.Rows || c.Col >= r.Grid.Cols {
			return fmt.Errorf("cell (%d,%d) outside %dx%d grid", c.Row, c.Col, r.Grid.Rows, r.Grid.Cols)
		}
		cell := tbl.TableRows[c.Row].TableCells[c.Col]
		cell.Paragraphs = nil
		p := cell.AddParagraph()

		if c.Before != "" {
			p.AddText(c.Before).Font(font, "", font, "").Size(size)
		}
		if c.Bold != "" {
			p.AddText(c.Bold).Font(font, "", font, "").Size(size).Bold()
		}
		if c.After != "" {
			p.AddText(c.After).Font(font, "", font, "").Size(size)
		}
	}
	return nil
}
