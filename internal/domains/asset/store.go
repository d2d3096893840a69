package asset

import (
	"context"
	"io"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/afero"
	"github.com/xpanvictor/ticnote/pkg/Logger"
)

const tempPattern = ".upload-*"

// Store writes uploads into a single directory, one file per asset, named
// after the receipt time in milliseconds plus the original extension.
// Two uploads received in the same millisecond with the same extension
// collide; the later rename wins.
type Store struct {
	fs     afero.Fs
	dir    string
	mirror Mirror
	logger *Logger.Logger
	now    func() time.Time
}

func NewStore(fs afero.Fs, dir string, logger *Logger.Logger) *Store {
	return &Store{
		fs:     fs,
		dir:    dir,
		logger: logger,
		now:    time.Now,
	}
}

// WithMirror copies every stored asset to m as well. Mirror failures are
// logged and do not fail the upload.
func (s *Store) WithMirror(m Mirror) *Store {
	s.mirror = m
	return s
}

func (s *Store) Dir() string {
	return s.dir
}

// Save persists body and returns the stored asset. The file only appears
// under its final name once every byte has been written.
func (s *Store) Save(ctx context.Context, body io.Reader, originalName, mimeType string) (*UploadedAsset, error) {
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return nil, &StorageError{Op: "mkdir", Path: s.dir, Err: err}
	}

	receivedAt := s.now()
	filename := strconv.FormatInt(receivedAt.UnixMilli(), 10) + filepath.Ext(originalName)
	dest := filepath.Join(s.dir, filename)

	tmp, err := afero.TempFile(s.fs, s.dir, tempPattern)
	if err != nil {
		return nil, &StorageError{Op: "create", Path: s.dir, Err: err}
	}
	tmpName := tmp.Name()

	size, err := io.Copy(tmp, body)
	if err != nil {
		_ = tmp.Close()
		s.discard(tmpName)
		return nil, &StorageError{Op: "write", Path: dest, Err: err}
	}
	if err := tmp.Close(); err != nil {
		s.discard(tmpName)
		return nil, &StorageError{Op: "close", Path: dest, Err: err}
	}
	if err := s.fs.Rename(tmpName, dest); err != nil {
		s.discard(tmpName)
		return nil, &StorageError{Op: "rename", Path: dest, Err: err}
	}

	asset := &UploadedAsset{
		Filename:     filename,
		OriginalName: originalName,
		Path:         dest,
		Size:         size,
		MimeType:     mimeType,
		ReceivedAt:   receivedAt,
	}
	s.logger.Infof("stored upload %s (%s, %d bytes)", asset.Path, originalName, size)

	s.mirrorAsset(ctx, asset)
	return asset, nil
}

// Open returns the stored bytes of asset.
func (s *Store) Open(asset *UploadedAsset) (io.ReadCloser, error) {
	f, err := s.fs.Open(asset.Path)
	if err != nil {
		return nil, &StorageError{Op: "open", Path: asset.Path, Err: err}
	}
	return f, nil
}

func (s *Store) discard(name string) {
	if err := s.fs.Remove(name); err != nil {
		s.logger.Warnf("failed to remove temp upload %s: %v", name, err)
	}
}

func (s *Store) mirrorAsset(ctx context.Context, asset *UploadedAsset) {
	if s.mirror == nil {
		return
	}
	f, err := s.Open(asset)
	if err != nil {
		s.logger.Warnf("mirror skipped for %s: %v", asset.Filename, err)
		return
	}
	defer f.Close()

	if err := s.mirror.Put(ctx, asset, f); err != nil {
		s.logger.Warnf("mirror failed for %s: %v", asset.Filename, err)
		return
	}
	s.logger.Debugf("mirrored %s", asset.Filename)
}
