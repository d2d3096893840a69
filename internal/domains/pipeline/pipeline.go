package pipeline

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/xpanvictor/ticnote/internal/domains/asset"
	"github.com/xpanvictor/ticnote/pkg/Logger"
	"github.com/xpanvictor/ticnote/pkg/io/stt"
)

type Store interface {
	Save(ctx context.Context, body io.Reader, originalName, mimeType string) (*asset.UploadedAsset, error)
	Open(a *asset.UploadedAsset) (io.ReadCloser, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// Pipeline turns a stored recording into a transcription and a summary.
type Pipeline struct {
	store       Store
	transcriber stt.Transcriber
	summarizer  Summarizer
	timeout     time.Duration
	logger      *Logger.Logger
}

// New wires a pipeline. timeout bounds the transcription call; summaries
// are bounded by the summarizer itself.
func New(store Store, transcriber stt.Transcriber, summarizer Summarizer, timeout time.Duration, logger *Logger.Logger) *Pipeline {
	return &Pipeline{
		store:       store,
		transcriber: transcriber,
		summarizer:  summarizer,
		timeout:     timeout,
		logger:      logger,
	}
}

// Ingest stores the upload and processes it. Storage errors are returned
// unwrapped; the stored file is kept whatever happens afterwards.
func (p *Pipeline) Ingest(ctx context.Context, upload Upload) (*Result, error) {
	stored, err := p.store.Save(ctx, upload.Body, upload.Filename, upload.MimeType)
	if err != nil {
		return nil, err
	}
	return p.Process(ctx, stored)
}

// Process runs transcription then summarization on a stored asset. A failed
// transcription returns no result. A failed summary returns the result with
// the transcription filled in together with the error.
func (p *Pipeline) Process(ctx context.Context, stored *asset.UploadedAsset) (*Result, error) {
	r := newRun(stored.Filename, p.logger)
	started := time.Now()

	r.advance(TRANSCRIBE)
	transcript, err := p.transcribe(ctx, stored)
	if err != nil {
		stage := r.fail()
		p.logger.Errorf("pipeline run %s failed at %s for %s: %v", r.ID, stage, stored.Path, err)
		return nil, &Error{Stage: stage, Err: err}
	}

	result := &Result{
		File:          stored,
		Transcription: transcript.Text,
		Language:      transcript.Language,
	}

	r.advance(SUMMARIZE)
	summary, err := p.summarizer.Summarize(ctx, transcript.Text)
	if err != nil {
		stage := r.fail()
		p.logger.Errorf("pipeline run %s failed at %s for %s: %v", r.ID, stage, stored.Path, err)
		return result, &Error{Stage: stage, Err: err}
	}
	result.Summary = summary

	r.advance(COMPLETE)
	p.logger.Infof("pipeline run %s processed %s in %s via %s", r.ID, stored.Filename, time.Since(started), p.transcriber.Name())
	return result, nil
}

func (p *Pipeline) transcribe(ctx context.Context, stored *asset.UploadedAsset) (*stt.Transcript, error) {
	body, err := p.store.Open(stored)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	transcript, err := p.transcriber.Transcribe(ctx, stt.AudioFile{
		Name:     stored.Filename,
		Path:     stored.Path,
		MimeType: stored.MimeType,
		Body:     body,
	})
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(transcript.Text) == "" {
		return nil, ErrEmptyTranscript
	}
	return transcript, nil
}
