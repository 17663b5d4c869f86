package archive

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"stocktake-manager/core/storage/mocks"
	"stocktake-manager/core/workspace"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func seedWorkspace(t *testing.T) *workspace.Workspace {
	t.Helper()
	ws := &workspace.Workspace{Root: t.TempDir()}
	require.NoError(t, ws.Ensure())
	require.NoError(t, os.WriteFile(ws.StockFile(), []byte("stock"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(ws.CountSnapshotDir(), "counts_a.parquet"), []byte("counts"), 0o644))
	return ws
}

func TestRun_UploadsEveryDataFile(t *testing.T) {
	ws := seedWorkspace(t)

	client := &mocks.Client{}
	client.On("BucketExists", mock.Anything, "archive").Return(true, nil)
	client.On("PutObject", mock.Anything, "archive", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)

	svc := NewService(client, "archive", ws, "loja-42", zap.NewNop())
	uploaded, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, uploaded)

	client.AssertNumberOfCalls(t, "PutObject", 2)
	client.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
}

func TestRun_CreatesMissingBucket(t *testing.T) {
	ws := seedWorkspace(t)

	client := &mocks.Client{}
	client.On("BucketExists", mock.Anything, "archive").Return(false, nil)
	client.On("MakeBucket", mock.Anything, "archive", mock.Anything).Return(nil)
	client.On("PutObject", mock.Anything, "archive", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)

	svc := NewService(client, "archive", ws, "loja-42", zap.NewNop())
	_, err := svc.Run(context.Background())
	require.NoError(t, err)

	client.AssertExpectations(t)
}

func TestRun_ObjectNamesCarryWorkspacePrefix(t *testing.T) {
	ws := seedWorkspace(t)

	var names []string
	client := &mocks.Client{}
	client.On("BucketExists", mock.Anything, "archive").Return(true, nil)
	client.On("PutObject", mock.Anything, "archive", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			names = append(names, args.String(2))
		}).
		Return(minio.UploadInfo{}, nil)

	svc := NewService(client, "archive", ws, "loja-42", zap.NewNop())
	_, err := svc.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, names, 2)
	for _, name := range names {
		assert.Contains(t, name, "loja-42/")
	}
}

func TestRun_BucketCheckFailure(t *testing.T) {
	ws := seedWorkspace(t)

	client := &mocks.Client{}
	client.On("BucketExists", mock.Anything, "archive").Return(false, assert.AnError)

	svc := NewService(client, "archive", ws, "loja-42", zap.NewNop())
	_, err := svc.Run(context.Background())
	assert.Error(t, err)
	client.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
