package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/xpanvictor/ticnote/internal/domains/asset"
	"github.com/xpanvictor/ticnote/pkg/Logger"
	"github.com/xpanvictor/ticnote/pkg/io/stt"
)

type fakeTranscriber struct {
	text  string
	err   error
	calls int
	seen  []byte
}

func (f *fakeTranscriber) Transcribe(_ context.Context, audio stt.AudioFile) (*stt.Transcript, error) {
	f.calls++
	f.seen, _ = io.ReadAll(audio.Body)
	if f.err != nil {
		return nil, f.err
	}
	return &stt.Transcript{Text: f.text, Language: "en-US"}, nil
}

func (f *fakeTranscriber) Name() string { return "fake" }

type fakeSummarizer struct {
	summary string
	err     error
	calls   int
	input   string
}

func (f *fakeSummarizer) Summarize(_ context.Context, text string) (string, error) {
	f.calls++
	f.input = text
	return f.summary, f.err
}

func newTestPipeline(tr *fakeTranscriber, sum *fakeSummarizer) (*Pipeline, afero.Fs) {
	fs := afero.NewMemMapFs()
	store := asset.NewStore(fs, "uploads", Logger.NewNop())
	return New(store, tr, sum, 0, Logger.NewNop()), fs
}

func ingest(p *Pipeline, body string) (*Result, error) {
	return p.Ingest(context.Background(), Upload{
		Body:     strings.NewReader(body),
		Filename: "recording.webm",
		MimeType: "audio/webm",
	})
}

func storedFiles(t *testing.T, fs afero.Fs) []string {
	t.Helper()
	infos, err := afero.ReadDir(fs, "uploads")
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	var names []string
	for _, info := range infos {
		names = append(names, info.Name())
	}
	return names
}

func TestIngestSuccess(t *testing.T) {
	tr := &fakeTranscriber{text: "hello from the recording"}
	sum := &fakeSummarizer{summary: "a greeting"}
	p, _ := newTestPipeline(tr, sum)

	result, err := ingest(p, "webm-bytes")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Transcription != "hello from the recording" || result.Summary != "a greeting" {
		t.Errorf("unexpected result %+v", result)
	}
	if result.Language != "en-US" {
		t.Errorf("expected language from transcriber, got %q", result.Language)
	}
	if !strings.HasSuffix(result.File.Filename, ".webm") {
		t.Errorf("unexpected stored name %q", result.File.Filename)
	}
	if !bytes.Equal(tr.seen, []byte("webm-bytes")) {
		t.Errorf("transcriber saw %q", tr.seen)
	}
	if sum.input != "hello from the recording" {
		t.Errorf("summary must derive from the same transcription, got %q", sum.input)
	}
}

func TestTranscriptionFailureKeepsFileAndSkipsSummary(t *testing.T) {
	tr := &fakeTranscriber{err: errors.New("speech service unavailable")}
	sum := &fakeSummarizer{summary: "unused"}
	p, fs := newTestPipeline(tr, sum)

	result, err := ingest(p, "webm-bytes")
	if result != nil {
		t.Errorf("expected no result, got %+v", result)
	}
	var pipeErr *Error
	if !errors.As(err, &pipeErr) || pipeErr.Stage != StageTranscription {
		t.Fatalf("expected transcription stage error, got %v", err)
	}
	if sum.calls != 0 {
		t.Errorf("summary must not run after transcription failure")
	}
	if files := storedFiles(t, fs); len(files) != 1 {
		t.Errorf("expected the upload to stay on disk, got %v", files)
	}
}

func TestEmptyTranscriptIsTranscriptionFailure(t *testing.T) {
	p, _ := newTestPipeline(&fakeTranscriber{text: "  "}, &fakeSummarizer{})

	_, err := ingest(p, "x")
	var pipeErr *Error
	if !errors.As(err, &pipeErr) || pipeErr.Stage != StageTranscription {
		t.Fatalf("expected transcription stage error, got %v", err)
	}
	if !errors.Is(err, ErrEmptyTranscript) {
		t.Errorf("expected ErrEmptyTranscript in chain, got %v", err)
	}
}

func TestSummaryFailureReturnsPartialResult(t *testing.T) {
	tr := &fakeTranscriber{text: "the transcription"}
	sum := &fakeSummarizer{err: errors.New("model overloaded")}
	p, fs := newTestPipeline(tr, sum)

	result, err := ingest(p, "webm-bytes")
	var pipeErr *Error
	if !errors.As(err, &pipeErr) || pipeErr.Stage != StageSummary {
		t.Fatalf("expected summary stage error, got %v", err)
	}
	if result == nil {
		t.Fatalf("expected partial result alongside the error")
	}
	if result.Transcription != "the transcription" {
		t.Errorf("transcription lost on summary failure: %+v", result)
	}
	if result.Summary != "" {
		t.Errorf("summary should be empty, got %q", result.Summary)
	}
	if result.File == nil || len(storedFiles(t, fs)) != 1 {
		t.Errorf("stored asset missing from partial result")
	}
}

func TestIngestStorageFailure(t *testing.T) {
	tr := &fakeTranscriber{text: "unused"}
	store := asset.NewStore(afero.NewReadOnlyFs(afero.NewMemMapFs()), "uploads", Logger.NewNop())
	p := New(store, tr, &fakeSummarizer{}, 0, Logger.NewNop())

	_, err := ingest(p, "x")
	var storageErr *asset.StorageError
	if !errors.As(err, &storageErr) {
		t.Fatalf("expected StorageError, got %v", err)
	}
	if tr.calls != 0 {
		t.Errorf("transcriber must not run when storage fails")
	}
}

func TestRunStates(t *testing.T) {
	r := newRun("a.webm", Logger.NewNop())
	if r.phase() != STORED {
		t.Fatalf("expected stored, got %s", r.phase())
	}
	r.advance(TRANSCRIBE)
	r.advance(SUMMARIZE)
	if stage := r.fail(); stage != StageSummary {
		t.Errorf("expected summary stage, got %s", stage)
	}
	if r.phase() != FAILED {
		t.Errorf("expected failed, got %s", r.phase())
	}

	r = newRun("b.webm", Logger.NewNop())
	r.advance(TRANSCRIBE)
	r.advance(SUMMARIZE)
	r.advance(COMPLETE)
	if r.phase() != PROCESSED {
		t.Errorf("expected processed, got %s", r.phase())
	}
}
