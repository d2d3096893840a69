package asset

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/xpanvictor/ticnote/pkg/Logger"
)

func newTestStore(fs afero.Fs) *Store {
	s := NewStore(fs, "uploads", Logger.NewNop())
	s.now = func() time.Time { return time.UnixMilli(1700000000123) }
	return s
}

func randomBytes(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(rand.IntN(256))
	}
	return b
}

func listDir(t *testing.T, fs afero.Fs, dir string) []string {
	t.Helper()
	infos, err := afero.ReadDir(fs, dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name())
	}
	return names
}

func TestSaveWebmRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := newTestStore(fs)
	payload := randomBytes(64 * 1024)

	asset, err := store.Save(context.Background(), bytes.NewReader(payload), "recording.webm", "audio/webm")
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if !strings.HasSuffix(asset.Filename, ".webm") {
		t.Errorf("expected .webm suffix, got %q", asset.Filename)
	}
	if asset.Filename != "1700000000123.webm" {
		t.Errorf("expected timestamp name, got %q", asset.Filename)
	}
	if asset.Path != filepath.Join("uploads", "1700000000123.webm") {
		t.Errorf("unexpected path %q", asset.Path)
	}
	if asset.OriginalName != "recording.webm" || asset.MimeType != "audio/webm" {
		t.Errorf("unexpected metadata %+v", asset)
	}
	if asset.Size != int64(len(payload)) {
		t.Errorf("expected size %d, got %d", len(payload), asset.Size)
	}

	stored, err := afero.ReadFile(fs, asset.Path)
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if !bytes.Equal(stored, payload) {
		t.Fatalf("stored bytes differ from input")
	}

	rc, err := store.Open(asset)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()
	opened, _ := io.ReadAll(rc)
	if !bytes.Equal(opened, payload) {
		t.Errorf("Open returned different bytes")
	}
}

func TestSaveCreatesDirectoryOnce(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := newTestStore(fs)

	for i := range 2 {
		store.now = func() time.Time { return time.UnixMilli(int64(1700000000000 + i)) }
		if _, err := store.Save(context.Background(), strings.NewReader("x"), "a.wav", "audio/wav"); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}
	if got := listDir(t, fs, "uploads"); len(got) != 2 {
		t.Errorf("expected two stored files, got %v", got)
	}
}

func TestSaveWithoutExtension(t *testing.T) {
	store := newTestStore(afero.NewMemMapFs())
	asset, err := store.Save(context.Background(), strings.NewReader("x"), "blob", "application/octet-stream")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if asset.Filename != "1700000000123" {
		t.Errorf("expected bare timestamp, got %q", asset.Filename)
	}
}

func TestSaveReadOnlyFilesystem(t *testing.T) {
	store := newTestStore(afero.NewReadOnlyFs(afero.NewMemMapFs()))

	asset, err := store.Save(context.Background(), strings.NewReader("audio"), "recording.webm", "audio/webm")
	if asset != nil {
		t.Fatalf("expected no asset on failure, got %+v", asset)
	}
	var storageErr *StorageError
	if !errors.As(err, &storageErr) {
		t.Fatalf("expected StorageError, got %v", err)
	}
}

type failingReader struct {
	sent bool
}

func (r *failingReader) Read(p []byte) (int, error) {
	if !r.sent {
		r.sent = true
		return copy(p, "partial"), nil
	}
	return 0, errors.New("connection reset")
}

func TestSaveFailedWriteLeavesNoFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := newTestStore(fs)

	_, err := store.Save(context.Background(), &failingReader{}, "recording.webm", "audio/webm")
	var storageErr *StorageError
	if !errors.As(err, &storageErr) || storageErr.Op != "write" {
		t.Fatalf("expected write StorageError, got %v", err)
	}
	if got := listDir(t, fs, "uploads"); len(got) != 0 {
		t.Errorf("expected empty upload dir, got %v", got)
	}
}

func TestOpenMissingAsset(t *testing.T) {
	store := newTestStore(afero.NewMemMapFs())
	_, err := store.Open(&UploadedAsset{Path: "uploads/missing.webm"})
	var storageErr *StorageError
	if !errors.As(err, &storageErr) || storageErr.Op != "open" {
		t.Fatalf("expected open StorageError, got %v", err)
	}
}

type recordingMirror struct {
	mu   sync.Mutex
	keys []string
	data [][]byte
	err  error
}

func (m *recordingMirror) Put(_ context.Context, asset *UploadedAsset, body io.Reader) error {
	data, _ := io.ReadAll(body)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys = append(m.keys, asset.Filename)
	m.data = append(m.data, data)
	return m.err
}

func TestSaveMirrorsAsset(t *testing.T) {
	mirror := &recordingMirror{}
	store := newTestStore(afero.NewMemMapFs()).WithMirror(mirror)

	if _, err := store.Save(context.Background(), strings.NewReader("audio-bytes"), "note.m4a", "audio/mp4"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if len(mirror.keys) != 1 || mirror.keys[0] != "1700000000123.m4a" {
		t.Fatalf("unexpected mirrored keys %v", mirror.keys)
	}
	if string(mirror.data[0]) != "audio-bytes" {
		t.Errorf("mirror received %q", mirror.data[0])
	}
}

func TestMirrorFailureDoesNotFailSave(t *testing.T) {
	fs := afero.NewMemMapFs()
	mirror := &recordingMirror{err: errors.New("bucket unavailable")}
	store := newTestStore(fs).WithMirror(mirror)

	asset, err := store.Save(context.Background(), strings.NewReader("audio"), "a.webm", "audio/webm")
	if err != nil {
		t.Fatalf("mirror error leaked into save: %v", err)
	}
	if ok, _ := afero.Exists(fs, asset.Path); !ok {
		t.Errorf("local file missing after mirror failure")
	}
}
