package files

import (
	"context"
	"errors"
	"strings"
	"testing"

	"storagebox/internal/config"
	"storagebox/internal/domain"
	"storagebox/internal/repository"
	"storagebox/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mock dependencies

type MockFileRepository struct {
	mock.Mock
}

func (m *MockFileRepository) Create(ctx context.Context, f *domain.File) error {
	args := m.Called(ctx, f)
	if f != nil && args.Error(0) == nil {
		f.ID = 42 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockFileRepository) GetByID(ctx context.Context, id int64) (*domain.File, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.File), args.Error(1)
}

func (m *MockFileRepository) GetByStorageKey(ctx context.Context, key string) (*domain.File, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.File), args.Error(1)
}

func (m *MockFileRepository) ListAll(ctx context.Context) ([]domain.File, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.File), args.Error(1)
}

func (m *MockFileRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) PutObject(ctx context.Context, key, contentType string, data []byte) error {
	args := m.Called(ctx, key, contentType, data)
	return args.Error(0)
}

func (m *MockObjectStore) DeleteObject(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockObjectStore) ListKeys(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockObjectStore) HeadBucket(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

func testConfig() *config.Config {
	return &config.Config{
		MaxFileSize:       64,
		AllowedExtensions: []string{"pdf", "txt"},
		AWSRegion:         "us-east-1",
		AWSS3Bucket:       "storage-box-test",
	}
}

func TestService_Upload_Success(t *testing.T) {
	repo := new(MockFileRepository)
	store := new(MockObjectStore)
	store.On("PutObject", mock.Anything, mock.Anything, "application/pdf", []byte("0123456789")).Return(nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	service := NewService(testConfig(), repo, store)

	f, err := service.Upload(context.Background(), UploadInput{
		Filename:    "report.pdf",
		ContentType: "application/pdf",
		Data:        []byte("0123456789"),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(42), f.ID)
	assert.Equal(t, "report.pdf", f.OriginalFilename)
	assert.Equal(t, int64(10), f.Size)
	assert.Equal(t, "application/pdf", f.ContentType)
	assert.True(t, strings.HasSuffix(f.StorageKey, "_report.pdf"), "key %q", f.StorageKey)
	assert.NotEqual(t, "report.pdf", f.StorageKey)
	assert.True(t, strings.HasPrefix(f.PublicURL, "https://storage-box-test.s3.us-east-1.amazonaws.com/"), "url %q", f.PublicURL)

	repo.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestService_Upload_KeysDifferForSameFilename(t *testing.T) {
	repo := new(MockFileRepository)
	store := new(MockObjectStore)
	store.On("PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	service := NewService(testConfig(), repo, store)

	a, err := service.Upload(context.Background(), UploadInput{Filename: "report.pdf", Data: []byte("x")})
	require.NoError(t, err)
	b, err := service.Upload(context.Background(), UploadInput{Filename: "report.pdf", Data: []byte("x")})
	require.NoError(t, err)

	assert.NotEqual(t, a.StorageKey, b.StorageKey)
}

func TestService_Upload_DefaultContentType(t *testing.T) {
	repo := new(MockFileRepository)
	store := new(MockObjectStore)
	store.On("PutObject", mock.Anything, mock.Anything, "application/octet-stream", mock.Anything).Return(nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	service := NewService(testConfig(), repo, store)

	f, err := service.Upload(context.Background(), UploadInput{Filename: "notes.txt", Data: []byte("hi")})

	require.NoError(t, err)
	assert.Equal(t, "application/octet-stream", f.ContentType)
	store.AssertExpectations(t)
}

func TestService_Upload_NoFilename(t *testing.T) {
	repo := new(MockFileRepository)
	store := new(MockObjectStore)
	service := NewService(testConfig(), repo, store)

	_, err := service.Upload(context.Background(), UploadInput{Filename: "  ", Data: []byte("x")})

	assert.ErrorIs(t, err, ErrNoFilename)
	store.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Upload_SizeBoundary(t *testing.T) {
	cfg := testConfig()
	cfg.MaxFileSize = 10

	repo := new(MockFileRepository)
	store := new(MockObjectStore)
	store.On("PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	service := NewService(cfg, repo, store)

	// exactly the ceiling is accepted
	f, err := service.Upload(context.Background(), UploadInput{Filename: "a.txt", Data: make([]byte, 10)})
	require.NoError(t, err)
	assert.Equal(t, int64(10), f.Size)

	// one byte over is not
	_, err = service.Upload(context.Background(), UploadInput{Filename: "a.txt", Data: make([]byte, 11)})
	assert.ErrorIs(t, err, ErrFileTooLarge)
	store.AssertNumberOfCalls(t, "PutObject", 1)
	repo.AssertNumberOfCalls(t, "Create", 1)
}

func TestService_Upload_ExtensionNotAllowed(t *testing.T) {
	repo := new(MockFileRepository)
	store := new(MockObjectStore)
	service := NewService(testConfig(), repo, store)

	_, err := service.Upload(context.Background(), UploadInput{Filename: "malware.exe", Data: []byte("x")})

	assert.ErrorIs(t, err, ErrTypeNotAllowed)
	store.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Upload_StorageFailureCreatesNoRecord(t *testing.T) {
	repo := new(MockFileRepository)
	store := new(MockObjectStore)
	store.On("PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(storage.ErrConnection)

	service := NewService(testConfig(), repo, store)

	_, err := service.Upload(context.Background(), UploadInput{Filename: "report.pdf", Data: []byte("x")})

	assert.ErrorIs(t, err, storage.ErrConnection)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Upload_PersistenceFailureCompensates(t *testing.T) {
	repo := new(MockFileRepository)
	store := new(MockObjectStore)
	store.On("PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	store.On("DeleteObject", mock.Anything, mock.Anything).Return(nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicateKey)

	service := NewService(testConfig(), repo, store)

	_, err := service.Upload(context.Background(), UploadInput{Filename: "report.pdf", Data: []byte("x")})

	assert.ErrorIs(t, err, repository.ErrDuplicateKey)
	store.AssertCalled(t, "DeleteObject", mock.Anything, mock.Anything)
}

func TestService_Retrieve(t *testing.T) {
	repo := new(MockFileRepository)
	store := new(MockObjectStore)
	repo.On("GetByStorageKey", mock.Anything, "20260828120000_ab12cd34_report.pdf").Return(&domain.File{
		StorageKey:       "20260828120000_ab12cd34_report.pdf",
		OriginalFilename: "report.pdf",
		Size:             10,
		ContentType:      "application/pdf",
		PublicURL:        "https://storage-box-test.s3.us-east-1.amazonaws.com/x",
	}, nil)

	service := NewService(testConfig(), repo, store)

	got, err := service.Retrieve(context.Background(), "20260828120000_ab12cd34_report.pdf")

	require.NoError(t, err)
	assert.Equal(t, "report.pdf", got.Filename)
	assert.Equal(t, "https://storage-box-test.s3.us-east-1.amazonaws.com/x", got.DownloadURL)
	assert.Equal(t, "application/pdf", got.ContentType)
	assert.Equal(t, int64(10), got.Size)
}

func TestService_Retrieve_NoPublicURL(t *testing.T) {
	repo := new(MockFileRepository)
	store := new(MockObjectStore)
	repo.On("GetByStorageKey", mock.Anything, "key").Return(&domain.File{
		StorageKey:       "key",
		OriginalFilename: "a.txt",
		ContentType:      "text/plain",
	}, nil)

	service := NewService(testConfig(), repo, store)

	got, err := service.Retrieve(context.Background(), "key")

	require.NoError(t, err)
	assert.Equal(t, "File not available in S3", got.DownloadURL)
}

func TestService_Retrieve_NotFound(t *testing.T) {
	repo := new(MockFileRepository)
	store := new(MockObjectStore)
	repo.On("GetByStorageKey", mock.Anything, "missing").Return(nil, repository.ErrNotFound)

	service := NewService(testConfig(), repo, store)

	_, err := service.Retrieve(context.Background(), "missing")

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestService_Delete(t *testing.T) {
	repo := new(MockFileRepository)
	store := new(MockObjectStore)
	repo.On("GetByID", mock.Anything, int64(7)).Return(&domain.File{ID: 7, StorageKey: "key7"}, nil)
	store.On("DeleteObject", mock.Anything, "key7").Return(nil)
	repo.On("Delete", mock.Anything, int64(7)).Return(nil)

	service := NewService(testConfig(), repo, store)

	require.NoError(t, service.Delete(context.Background(), 7))
	repo.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestService_Delete_BlobFailureKeepsRecord(t *testing.T) {
	repo := new(MockFileRepository)
	store := new(MockObjectStore)
	repo.On("GetByID", mock.Anything, int64(7)).Return(&domain.File{ID: 7, StorageKey: "key7"}, nil)
	store.On("DeleteObject", mock.Anything, "key7").Return(errors.New("boom"))

	service := NewService(testConfig(), repo, store)

	assert.Error(t, service.Delete(context.Background(), 7))
	repo.AssertNotCalled(t, "Delete", mock.Anything, int64(7))
}

func TestService_Reconcile(t *testing.T) {
	repo := new(MockFileRepository)
	store := new(MockObjectStore)
	store.On("ListKeys", mock.Anything).Return([]string{"a", "b", "c"}, nil)
	repo.On("ListAll", mock.Anything).Return([]domain.File{{StorageKey: "b"}}, nil)

	service := NewService(testConfig(), repo, store)

	report, err := service.Reconcile(context.Background(), false)

	require.NoError(t, err)
	assert.Equal(t, 3, report.Checked)
	assert.Equal(t, []string{"a", "c"}, report.Orphans)
	assert.Equal(t, 0, report.Removed)
	store.AssertNotCalled(t, "DeleteObject", mock.Anything, mock.Anything)
}

func TestService_Reconcile_Remove(t *testing.T) {
	repo := new(MockFileRepository)
	store := new(MockObjectStore)
	store.On("ListKeys", mock.Anything).Return([]string{"a", "b"}, nil)
	store.On("DeleteObject", mock.Anything, "a").Return(nil)
	repo.On("ListAll", mock.Anything).Return([]domain.File{{StorageKey: "b"}}, nil)

	service := NewService(testConfig(), repo, store)

	report, err := service.Reconcile(context.Background(), true)

	require.NoError(t, err)
	assert.Equal(t, 1, report.Removed)
	store.AssertExpectations(t)
}
