package asset

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/xpanvictor/ticnote/internal/config"
)

// Mirror receives a copy of every stored asset.
type Mirror interface {
	Put(ctx context.Context, asset *UploadedAsset, body io.Reader) error
}

type minioMirror struct {
	client     *minio.Client
	bucketName string
}

// NewMinioMirror connects to an S3 compatible endpoint and makes sure the
// bucket exists.
func NewMinioMirror(ctx context.Context, cfg config.ObjectStoreConfig) (Mirror, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &minioMirror{
		client:     client,
		bucketName: cfg.Bucket,
	}, nil
}

func (m *minioMirror) Put(ctx context.Context, asset *UploadedAsset, body io.Reader) error {
	_, err := m.client.PutObject(
		ctx,
		m.bucketName,
		asset.Filename,
		body,
		asset.Size,
		minio.PutObjectOptions{
			ContentType: asset.MimeType,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}
	return nil
}
