package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"flashdoc/internal/card"
	"flashdoc/internal/layout"
	"flashdoc/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	byWord map[string][]card.Example
}

func (s stubGenerator) Examples(_ context.Context, word string) []card.Example {
	return s.byWord[word]
}

type fakeRenderer struct {
	failFor map[string]bool
	calls   []string
}

func (f *fakeRenderer) Render(name string, _, targetCells []layout.Cell) (string, error) {
	f.calls = append(f.calls, name)
	if f.failFor[name] {
		return "", errors.New("template table dimensions do not match")
	}
	return "out/" + name + ".docx", nil
}

type fakeUploader struct {
	failFor map[string]bool
	calls   []string
}

func (f *fakeUploader) Upload(_ context.Context, path, displayName string) (string, error) {
	f.calls = append(f.calls, displayName)
	if f.failFor[displayName] {
		return "", errors.New("quota exceeded")
	}
	return "drive-" + displayName, nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func examples(n int) []card.Example {
	out := make([]card.Example, n)
	for i := range out {
		out[i] = card.Example{
			TargetSentence: fmt.Sprintf("ts%d", i),
			BaseSentence:   fmt.Sprintf("bs%d", i),
			TargetWord:     fmt.Sprintf("tw%d", i),
			BaseWord:       fmt.Sprintf("bw%d", i),
		}
	}
	return out
}

func TestRun_SinglePage(t *testing.T) {
	renderer := &fakeRenderer{}
	uploader := &fakeUploader{}
	p := &Pipeline{
		Generator: stubGenerator{byWord: map[string][]card.Example{"chat": examples(2)}},
		Renderer:  renderer,
		Uploader:  uploader,
		Grid:      layout.Grid{Rows: 4, Cols: 3},
		Prefix:    "flashcards-",
		Logger:    discard(),
	}

	report, err := p.Run(context.Background(), "animals", []string{"chat"})
	require.NoError(t, err)

	assert.Equal(t, 2, report.NRecords)
	assert.Equal(t, map[string]int{"chat": 2}, report.PerWord)
	require.Len(t, report.Documents, 1)
	assert.Equal(t, "animals", report.Documents[0].Name)
	assert.Equal(t, []string{"animals"}, renderer.calls)
	require.Len(t, report.Uploads, 1)
	assert.Equal(t, "flashcards-animals", report.Uploads[0].Name)
	assert.Equal(t, "drive-flashcards-animals", report.Uploads[0].DriveID)
	assert.Empty(t, report.FailedPages)
	assert.Empty(t, report.FailedUploads)
}

func TestRun_FailedWordContributesNothing(t *testing.T) {
	renderer := &fakeRenderer{}
	p := &Pipeline{
		Generator: stubGenerator{byWord: map[string][]card.Example{"chat": examples(1)}},
		Renderer:  renderer,
		Grid:      layout.Grid{Rows: 4, Cols: 3},
		Logger:    discard(),
	}

	report, err := p.Run(context.Background(), "animals", []string{"chat", "licorne"})
	require.NoError(t, err)

	assert.Equal(t, 1, report.NRecords)
	assert.Equal(t, 0, report.PerWord["licorne"])
	assert.Len(t, report.Documents, 1)
}

func TestRun_NoRecordsNoDocuments(t *testing.T) {
	renderer := &fakeRenderer{}
	p := &Pipeline{
		Generator: stubGenerator{},
		Renderer:  renderer,
		Grid:      layout.Grid{Rows: 4, Cols: 3},
		Logger:    discard(),
	}

	report, err := p.Run(context.Background(), "animals", []string{"rien"})
	require.NoError(t, err)

	assert.Zero(t, report.NRecords)
	assert.Empty(t, report.Documents)
	assert.Empty(t, renderer.calls)
}

func TestRun_PaginatesAndIsolatesRenderFailures(t *testing.T) {
	// 14 records on a 4x3 grid: pages animals-1 (12) and animals-2 (2).
	renderer := &fakeRenderer{failFor: map[string]bool{"animals-1": true}}
	uploader := &fakeUploader{}
	p := &Pipeline{
		Generator: stubGenerator{byWord: map[string][]card.Example{"chat": examples(14)}},
		Renderer:  renderer,
		Uploader:  uploader,
		Grid:      layout.Grid{Rows: 4, Cols: 3},
		Prefix:    "flashcards-",
		Logger:    discard(),
	}

	report, err := p.Run(context.Background(), "animals", []string{"chat"})
	require.NoError(t, err)

	assert.Equal(t, []string{"animals-1", "animals-2"}, renderer.calls)
	require.Len(t, report.FailedPages, 1)
	assert.Equal(t, "animals-1", report.FailedPages[0].Name)
	assert.Contains(t, report.FailedPages[0].Reason, "dimensions")
	require.Len(t, report.Documents, 1)
	assert.Equal(t, "animals-2", report.Documents[0].Name)
	// Only the page that rendered gets uploaded.
	assert.Equal(t, []string{"flashcards-animals-2"}, uploader.calls)
}

func TestRun_IsolatesUploadFailures(t *testing.T) {
	uploader := &fakeUploader{failFor: map[string]bool{"flashcards-animals-1": true}}
	p := &Pipeline{
		Generator: stubGenerator{byWord: map[string][]card.Example{"chat": examples(14)}},
		Renderer:  &fakeRenderer{},
		Uploader:  uploader,
		Grid:      layout.Grid{Rows: 4, Cols: 3},
		Prefix:    "flashcards-",
		Logger:    discard(),
	}

	report, err := p.Run(context.Background(), "animals", []string{"chat"})
	require.NoError(t, err)

	assert.Len(t, report.Documents, 2)
	require.Len(t, report.FailedUploads, 1)
	assert.Equal(t, "flashcards-animals-1", report.FailedUploads[0].Name)
	require.Len(t, report.Uploads, 1)
	assert.Equal(t, "flashcards-animals-2", report.Uploads[0].Name)
}

func TestRun_NilUploaderSkipsPublishing(t *testing.T) {
	p := &Pipeline{
		Generator: stubGenerator{byWord: map[string][]card.Example{"chat": examples(1)}},
		Renderer:  &fakeRenderer{},
		Grid:      layout.Grid{Rows: 4, Cols: 3},
		Logger:    discard(),
	}

	report, err := p.Run(context.Background(), "animals", []string{"chat"})
	require.NoError(t, err)

	assert.Len(t, report.Documents, 1)
	assert.Empty(t, report.Uploads)
	assert.Empty(t, report.FailedUploads)
}

func TestRun_RecordsHistory(t *testing.T) {
	store, err := storage.NewSQLiteStore(t.TempDir() + "/history.db")
	require.NoError(t, err)
	defer store.Close()

	p := &Pipeline{
		Generator: stubGenerator{byWord: map[string][]card.Example{"chat": examples(2)}},
		Renderer:  &fakeRenderer{},
		Uploader:  &fakeUploader{},
		History:   store,
		Grid:      layout.Grid{Rows: 4, Cols: 3},
		Prefix:    "flashcards-",
		Logger:    discard(),
	}

	report, err := p.Run(context.Background(), "animals", []string{"chat"})
	require.NoError(t, err)
	require.NotZero(t, report.RunID)

	docs, err := store.DocumentsForRun(context.Background(), report.RunID)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "uploaded", docs[0].Status)
	assert.Equal(t, "drive-flashcards-animals", docs[0].DriveID)
}
