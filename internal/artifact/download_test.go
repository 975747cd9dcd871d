package artifact

import (
	"archive/tar"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
)

type staticStore struct {
	data map[string][]byte
	err  error
}

func (s *staticStore) Download(_ context.Context, key string) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.data[key], nil
}

func (s *staticStore) Upload(context.Context, string, []byte, string) error {
	return nil
}

func tarBytes(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for name, content := range files {
		if err := tw.WriteHeader(&tar.Header{Name: name, Mode: 0644, Size: int64(len(content))}); err != nil {
			t.Fatal(err)
		}
		if _, err := tw.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func gzipBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := gw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDownloadToTemp_ExtractsTarGz(t *testing.T) {
	payload := gzipBytes(t, tarBytes(t, map[string]string{"main.go": "package main\n"}))
	store := &staticStore{data: map[string][]byte{"artifacts/sub-1": payload}}

	dir, err := DownloadToTemp(context.Background(), store, "artifacts/sub-1")
	if err != nil {
		t.Fatalf("DownloadToTemp failed: %v", err)
	}
	defer os.RemoveAll(dir)

	content, err := os.ReadFile(filepath.Join(dir, "main.go"))
	if err != nil {
		t.Fatalf("expected extracted file: %v", err)
	}
	if string(content) != "package main\n" {
		t.Errorf("unexpected file content %q", content)
	}
}

func TestDownloadToTemp_ExtractsPlainTar(t *testing.T) {
	payload := tarBytes(t, map[string]string{"solution.py": "print(1)\n"})
	store := &staticStore{data: map[string][]byte{"artifacts/sub-2": payload}}

	dir, err := DownloadToTemp(context.Background(), store, "artifacts/sub-2")
	if err != nil {
		t.Fatalf("DownloadToTemp failed: %v", err)
	}
	defer os.RemoveAll(dir)

	if _, err := os.Stat(filepath.Join(dir, "solution.py")); err != nil {
		t.Errorf("expected extracted file: %v", err)
	}
}

func TestDownloadToTemp_KeepsOpaqueBlob(t *testing.T) {
	store := &staticStore{data: map[string][]byte{"artifacts/sub-3": []byte("not an archive")}}

	dir, err := DownloadToTemp(context.Background(), store, "artifacts/sub-3")
	if err != nil {
		t.Fatalf("DownloadToTemp failed: %v", err)
	}
	defer os.RemoveAll(dir)

	content, err := os.ReadFile(filepath.Join(dir, OpaqueBlobName))
	if err != nil {
		t.Fatalf("expected opaque blob file: %v", err)
	}
	if string(content) != "not an archive" {
		t.Errorf("unexpected blob content %q", content)
	}
}

func TestDownloadToTemp_PropagatesStoreError(t *testing.T) {
	wantErr := errors.New("store down")
	store := &staticStore{err: wantErr}

	if _, err := DownloadToTemp(context.Background(), store, "artifacts/sub-4"); !errors.Is(err, wantErr) {
		t.Errorf("expected store error, got %v", err)
	}
}

func TestExtractRejectsPathEscape(t *testing.T) {
	payload := tarBytes(t, map[string]string{"../escape.txt": "bad"})
	store := &staticStore{data: map[string][]byte{"artifacts/sub-5": payload}}

	dir, err := DownloadToTemp(context.Background(), store, "artifacts/sub-5")
	if err != nil {
		t.Fatalf("DownloadToTemp failed: %v", err)
	}
	defer os.RemoveAll(dir)

	// The escaping entry fails tar extraction, so the payload is kept
	// as an opaque blob instead of landing outside the directory.
	if _, err := os.Stat(filepath.Join(dir, OpaqueBlobName)); err != nil {
		t.Errorf("expected opaque blob fallback: %v", err)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(dir), "escape.txt")); !os.IsNotExist(err) {
		t.Error("archive entry escaped the extraction directory")
	}
}
