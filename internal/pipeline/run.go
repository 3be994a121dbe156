// Package pipeline connects the generation, layout, rendering and
// upload stages into one run. Every stage failure is isolated to its
// word, page or document; the report tells the user exactly what made
// it through.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"flashdoc/internal/card"
	"flashdoc/internal/layout"
	"flashdoc/internal/sentence"
	"flashdoc/internal/storage"
)

// Renderer persists one page as a document and returns its path.
type Renderer interface {
	Render(name string, baseCells, targetCells []layout.Cell) (string, error)
}

// Uploader publishes a rendered document and returns its remote ID.
type Uploader interface {
	Upload(ctx context.Context, path, displayName string) (string, error)
}

// History records runs and document outcomes. May be nil.
type History interface {
	SaveRun(ctx context.Context, topic string, words []string, nRecords int) (int64, error)
	SaveDocument(ctx context.Context, doc storage.Document) error
}

// Pipeline owns one run's collaborators. Uploader may be nil to skip
// publishing, History may be nil to skip bookkeeping.
type Pipeline struct {
	Generator sentence.Generator
	Renderer  Renderer
	Uploader  Uploader
	History   History

	Grid   layout.Grid
	Prefix string // display-name prefix for uploads
	Logger *slog.Logger
}

// Failure names the page or document that failed and why.
type Failure struct {
	Name   string
	Reason string
}

// Rendered is one successfully written document.
type Rendered struct {
	Name string
	Path string
}

// Uploaded is one successfully published document.
type Uploaded struct {
	Name    string
	DriveID string
}

// Report is the outcome of one run.
type Report struct {
	RunID         int64
	NRecords      int
	PerWord       map[string]int
	Documents     []Rendered
	FailedPages   []Failure
	Uploads       []Uploaded
	FailedUploads []Failure
}

// Run executes the whole pipeline for one topic and word list. Words
// whose generation fails contribute zero records; pages whose render or
// upload fails are reported and do not stop the remaining pages. Only
// a broken caller contract (aggregation) aborts the run.
func (p *Pipeline) Run(ctx context.Context, topic string, words []string) (*Report, error) {
	results := sentence.GenerateAll(ctx, p.Generator, words)

	records, err := card.Aggregate(words, results)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate records: %w", err)
	}

	report := &Report{NRecords: records.N, PerWord: make(map[string]int, len(words))}
	for _, w := range words {
		report.PerWord[w] = len(results[w])
	}

	if p.History != nil {
		id, err := p.History.SaveRun(ctx, topic, words, records.N)
		if err != nil {
			p.Logger.Warn("failed to record run", slog.String("err", err.Error()))
		} else {
			report.RunID = id
		}
	}

	// Pages are processed strictly in order so names stay deterministic.
	for _, page := range layout.Paginate(records, p.Grid.Capacity(), topic) {
		p.processPage(ctx, page, report)
	}
	return report, nil
}

func (p *Pipeline) processPage(ctx context.Context, page layout.Page, report *Report) {
	baseCells := layout.Cells(page.Records.BaseSentences, page.Records.BaseWords, p.Grid.Cols)
	targetCells := layout.MirroredCells(page.Records.TargetSentences, page.Records.TargetWords, p.Grid)

	path, err := p.Renderer.Render(page.Name, baseCells, targetCells)
	if err != nil {
		p.Logger.Error("page render failed",
			slog.String("page", page.Name), slog.String("err", err.Error()))
		report.FailedPages = append(report.FailedPages, Failure{Name: page.Name, Reason: err.Error()})
		p.record(ctx, storage.Document{RunID: report.RunID, Name: page.Name, Status: "render_failed"})
		return
	}
	report.Documents = append(report.Documents, Rendered{Name: page.Name, Path: path})

	if p.Uploader == nil {
		p.record(ctx, storage.Document{RunID: report.RunID, Name: page.Name, Path: path, Status: "rendered"})
		return
	}

	displayName := p.Prefix + page.Name
	id, err := p.Uploader.Upload(ctx, path, displayName)
	if err != nil {
		p.Logger.Error("upload failed",
			slog.String("document", displayName), slog.String("err", err.Error()))
		report.FailedUploads = append(report.FailedUploads, Failure{Name: displayName, Reason: err.Error()})
		p.record(ctx, storage.Document{RunID: report.RunID, Name: page.Name, Path: path, Status: "upload_failed"})
		return
	}
	report.Uploads = append(report.Uploads, Uploaded{Name: displayName, DriveID: id})
	p.record(ctx, storage.Document{RunID: report.RunID, Name: page.Name, Path: path, DriveID: id, Status: "uploaded"})
}

func (p *Pipeline) record(ctx context.Context, doc storage.Document) {
	if p.History == nil {
		return
	}
	if err := p.History.SaveDocument(ctx, doc); err != nil {
		p.Logger.Warn("failed to record document",
			slog.String("document", doc.Name), slog.String("err", err.Error()))
	}
}
