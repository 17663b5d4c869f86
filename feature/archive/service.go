package archive

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"stocktake-manager/core/storage"
	"stocktake-manager/core/workspace"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Service copies a workspace's snapshots and ledger to object storage.
type Service struct {
	client storage.Client
	bucket string
	ws     *workspace.Workspace
	// prefix namespaces uploads per workspace inside the shared bucket.
	prefix string
	logger *zap.Logger
}

// NewService creates an archive service for one workspace.
func NewService(client storage.Client, bucket string, ws *workspace.Workspace, prefix string, logger *zap.Logger) *Service {
	return &Service{client: client, bucket: bucket, ws: ws, prefix: prefix, logger: logger}
}

// Run uploads every file under the workspace data directory, creating the
// bucket when it does not exist yet. Returns the number of uploaded objects.
func (s *Service) Run(ctx context.Context) (int, error) {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return 0, fmt.Errorf("failed to check archive bucket: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return 0, fmt.Errorf("failed to create archive bucket: %w", err)
		}
	}

	root := s.ws.DataDir()
	uploaded := 0
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if err := s.upload(ctx, path, filepath.ToSlash(filepath.Join(s.prefix, rel))); err != nil {
			return err
		}
		uploaded++
		return nil
	})
	if err != nil {
		return uploaded, fmt.Errorf("failed to archive workspace: %w", err)
	}

	s.logger.Info("Workspace archived",
		zap.String("bucket", s.bucket),
		zap.String("prefix", s.prefix),
		zap.Int("objects", uploaded),
	)
	return uploaded, nil
}

func (s *Service) upload(ctx context.Context, path, objectName string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	_, err = s.client.PutObject(ctx, s.bucket, objectName, file, info.Size(), minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", objectName, err)
	}
	return nil
}
