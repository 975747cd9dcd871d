// Package artifact wraps the content-addressed object store holding
// submission artifacts and judging logs.
package artifact

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/codearena/judge-worker/internal/logger"
	pkgerrors "github.com/codearena/judge-worker/pkg/errors"
)

// Store is the narrow contract the judging pipeline depends on. Keys are
// content-addressed, so objects never change under a key.
type Store interface {
	Download(ctx context.Context, key string) ([]byte, error)
	Upload(ctx context.Context, key string, data []byte, contentType string) error
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

type minioStore struct {
	client *minio.Client
	bucket string
	logger *zap.SugaredLogger
}

func NewMinioStore(cfg MinioConfig) (Store, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("minio bucket is required")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client failed: %w", err)
	}
	return &minioStore{
		client: client,
		bucket: cfg.Bucket,
		logger: logger.NewNamedLogger("artifact-store"),
	}, nil
}

func (s *minioStore) Download(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %v", pkgerrors.ErrArtifactStore, key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("%w: %s", pkgerrors.ErrArtifactNotFound, key)
		}
		return nil, fmt.Errorf("%w: read %s: %v", pkgerrors.ErrArtifactStore, key, err)
	}

	s.logger.Debugf("Downloaded %s (%d bytes)", key, len(data))
	return data, nil
}

func (s *minioStore) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	opts := minio.PutObjectOptions{}
	if contentType != "" {
		opts.ContentType = contentType
	}
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), opts)
	if err != nil {
		return fmt.Errorf("%w: put %s: %v", pkgerrors.ErrArtifactStore, key, err)
	}
	return nil
}
