package integrity

import (
	"context"
	"regexp"
	"testing"

	"log-console/core/storage/mocks"
	"log-console/feature/integrity/checks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// setupMockDB creates a mock GORM DB for testing.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func logConfigColumns() *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"})
	for _, col := range []string{"id", "name", "log_type", "regex", "sample_log", "time_key", "time_format", "created_at", "updated_at"} {
		rows.AddRow(col, "longtext", "YES", "", nil, "")
	}
	return rows
}

func TestService_Structure(t *testing.T) {
	t.Run("Check only", func(t *testing.T) {
		mockClient := new(mocks.Client)
		svc := NewService(mockClient, "test-bucket", 1024, nil, zap.NewNop())
		mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil)
		mockClient.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return(mocks.Listing())

		result, err := svc.Structure(context.Background(), false)
		require.NoError(t, err)
		assert.Equal(t, "checked", result.Status)
		assert.Equal(t, checks.RequiredFolders, result.Missing)
		mockClient.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Fix folders", func(t *testing.T) {
		mockClient := new(mocks.Client)
		svc := NewService(mockClient, "test-bucket", 1024, nil, zap.NewNop())
		mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil)
		mockClient.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return(mocks.Listing())
		mockClient.On("PutObject", mock.Anything, "test-bucket", mock.Anything, mock.Anything, int64(0), mock.Anything).Return(minio.UploadInfo{}, nil)

		result, err := svc.Structure(context.Background(), true)
		require.NoError(t, err)
		assert.Equal(t, "fixed", result.Status)
		mockClient.AssertNumberOfCalls(t, "PutObject", len(checks.RequiredFolders))
	})

	t.Run("Missing bucket", func(t *testing.T) {
		mockClient := new(mocks.Client)
		svc := NewService(mockClient, "test-bucket", 1024, nil, zap.NewNop())
		mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(false, nil)

		_, err := svc.Structure(context.Background(), false)
		assert.ErrorIs(t, err, checks.ErrBucketMissing)

		mockClient.On("MakeBucket", mock.Anything, "test-bucket", mock.Anything).Return(nil)
		mockClient.On("PutObject", mock.Anything, "test-bucket", mock.Anything, mock.Anything, int64(0), mock.Anything).Return(minio.UploadInfo{}, nil)

		result, err := svc.Structure(context.Background(), true)
		require.NoError(t, err)
		assert.True(t, result.BucketMissing)
		assert.Equal(t, "fixed", result.Status)
		mockClient.AssertCalled(t, "MakeBucket", mock.Anything, "test-bucket", mock.Anything)
	})
}

func TestService_CheckDatabase(t *testing.T) {
	db, sqlMock := setupMockDB(t)
	svc := NewService(new(mocks.Client), "test-bucket", 1024, db, zap.NewNop())

	sqlMock.ExpectQuery(regexp.QuoteMeta("SHOW COLUMNS FROM `log_configs`")).WillReturnRows(logConfigColumns())

	report, err := svc.CheckDatabase()
	require.NoError(t, err)
	assert.True(t, report.Matched)
	assert.Equal(t, "ok", report.Tables["log_configs"].Status)
}

func TestService_CheckAll(t *testing.T) {
	mockClient := new(mocks.Client)
	svc := NewService(mockClient, "test-bucket", 1024, nil, zap.NewNop())

	mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(false, assert.AnError)
	mockClient.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return(mocks.Listing())

	report := svc.CheckAll(context.Background())
	require.Len(t, report, 3)

	structure, ok := report["structure"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "error", structure["status"])

	samples, ok := report["samples"].(*checks.SamplesReport)
	require.True(t, ok)
	assert.Equal(t, 0, samples.Total)

	database, ok := report["database"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, checks.ErrNoDatabase.Error(), database["error"])
}
