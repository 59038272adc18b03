package integrity

import (
	"context"
	"testing"

	"pick-reconciler/core/database"
	"pick-reconciler/core/storage"
	"pick-reconciler/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var testStorage = storage.Config{Bucket: "test-bucket", ArchivePrefix: "sessions"}

// setupSQLite returns an empty in-memory order database.
func setupSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	return db
}

func emptyList() <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo)
	close(ch)
	return ch
}

func TestService_Storage(t *testing.T) {
	mockClient := new(mocks.Client)
	svc := NewService(mockClient, testStorage, zap.NewNop(), nil)

	mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil)
	mockClient.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return(emptyList())

	report, err := svc.CheckStorage(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Missing())

	mockClient.On("PutObject", mock.Anything, "test-bucket", "sessions/", mock.Anything, int64(0), mock.Anything).Return(minio.UploadInfo{}, nil)
	require.NoError(t, svc.FixStorage(context.Background(), report))
	assert.False(t, report.Missing())
}

func TestService_Schema(t *testing.T) {
	svc := NewService(new(mocks.Client), testStorage, zap.NewNop(), setupSQLite(t))

	report, err := svc.CheckSchema()
	require.NoError(t, err)
	assert.False(t, report.Matched)
	assert.Equal(t, "error", report.Tables["order_lines"].Status)
	assert.Contains(t, report.Tables["scan_events"].MissingColumns, "sequence")

	require.NoError(t, svc.FixSchema(context.Background()))

	report, err = svc.CheckSchema()
	require.NoError(t, err)
	assert.True(t, report.Matched)
	assert.Len(t, report.Tables, 4)
}

func TestService_Run(t *testing.T) {
	t.Run("Fix", func(t *testing.T) {
		mockClient := new(mocks.Client)
		svc := NewService(mockClient, testStorage, zap.NewNop(), setupSQLite(t))

		mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(false, nil)
		mockClient.On("MakeBucket", mock.Anything, "test-bucket", mock.Anything).Return(nil)
		mockClient.On("PutObject", mock.Anything, "test-bucket", "sessions/", mock.Anything, int64(0), mock.Anything).Return(minio.UploadInfo{}, nil)

		report := svc.Run(context.Background(), true)
		assert.Nil(t, report.Errors)
		assert.Equal(t, "fixed", report.Storage.Status)
		assert.True(t, report.Schema.Matched)
		assert.True(t, report.Healthy())
		mockClient.AssertExpectations(t)
	})

	t.Run("No Database", func(t *testing.T) {
		mockClient := new(mocks.Client)
		svc := NewService(mockClient, testStorage, zap.NewNop(), nil)
		mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(false, assert.AnError)

		report := svc.Run(context.Background(), false)
		assert.Contains(t, report.Errors, "storage")
		assert.Contains(t, report.Errors, "schema")
		assert.False(t, report.Healthy())
	})
}
