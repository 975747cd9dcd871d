package artifact

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/codearena/judge-worker/internal/archive"
	"github.com/codearena/judge-worker/internal/logger"
)

// OpaqueBlobName is the file name used when an artifact payload cannot be
// extracted as an archive and is kept as-is.
const OpaqueBlobName = "artifact.bin"

// DownloadToTemp fetches an artifact and extracts it into a fresh temp
// directory. Payloads that fail to extract as tar.gz or plain tar are
// treated as opaque blobs rather than aborting the run. The caller owns
// the returned directory and must remove it on every exit path.
func DownloadToTemp(ctx context.Context, store Store, key string) (string, error) {
	data, err := store.Download(ctx, key)
	if err != nil {
		return "", err
	}

	dir, err := os.MkdirTemp("", "judge-artifact-")
	if err != nil {
		return "", err
	}

	extractors := []func(io.Reader, string) error{
		archive.ExtractTarGz,
		archive.ExtractTar,
	}
	for _, extract := range extractors {
		if err := extract(bytes.NewReader(data), dir); err == nil {
			return dir, nil
		}
		// Partial extraction leaves junk behind; start over.
		if err := os.RemoveAll(dir); err != nil {
			return "", err
		}
		if err := os.Mkdir(dir, 0700); err != nil {
			return "", err
		}
	}

	log := logger.NewNamedLogger("artifact-store")
	log.Warnf("Artifact %s is not a tar archive, keeping it as an opaque blob", key)
	if err := os.WriteFile(filepath.Join(dir, OpaqueBlobName), data, 0644); err != nil {
		os.RemoveAll(dir)
		return "", err
	}
	return dir, nil
}
