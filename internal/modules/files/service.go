package files

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"storagebox/internal/config"
	"storagebox/internal/domain"

	"github.com/google/uuid"
)

const (
	defaultContentType = "application/octet-stream"

	// Returned as download_url when no public URL was recorded.
	downloadUnavailable = "File not available in S3"

	storageKeyTimeFormat = "20060102150405"
)

type Service struct {
	cfg   *config.Config
	files FileRepository
	store ObjectStore
}

func NewService(cfg *config.Config, files FileRepository, store ObjectStore) *Service {
	return &Service{cfg: cfg, files: files, store: store}
}

// Upload validates the payload, writes the blob, then persists the metadata
// record. Validation rejects before any I/O; a blob-write failure prevents
// the metadata write.
func (s *Service) Upload(ctx context.Context, in UploadInput) (*domain.File, error) {
	if strings.TrimSpace(in.Filename) == "" {
		return nil, ErrNoFilename
	}

	size := int64(len(in.Data))
	if size > s.cfg.MaxFileSize {
		return nil, ErrFileTooLarge
	}

	if !s.cfg.IsFileAllowed(in.Filename) {
		return nil, ErrTypeNotAllowed
	}

	contentType := in.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}

	key := deriveStorageKey(in.Filename)

	if err := s.store.PutObject(ctx, key, contentType, in.Data); err != nil {
		return nil, fmt.Errorf("store blob %s: %w", key, err)
	}

	f := &domain.File{
		StorageKey:       key,
		OriginalFilename: in.Filename,
		Size:             size,
		ContentType:      contentType,
		PublicURL:        s.publicURL(key),
	}

	if err := s.files.Create(ctx, f); err != nil {
		// The blob is already written. Best effort to not leave it orphaned.
		if delErr := s.store.DeleteObject(ctx, key); delErr != nil {
			log.Printf("orphaned blob %s left in bucket: %v", key, delErr)
		}
		return nil, fmt.Errorf("persist file record: %w", err)
	}

	return f, nil
}

// Retrieve looks up a record by its storage key and returns a download
// descriptor. The blob itself is never proxied; callers follow the URL.
func (s *Service) Retrieve(ctx context.Context, storageKey string) (*DownloadResponse, error) {
	f, err := s.files.GetByStorageKey(ctx, storageKey)
	if err != nil {
		return nil, err
	}

	downloadURL := f.PublicURL
	if downloadURL == "" {
		downloadURL = downloadUnavailable
	}

	return &DownloadResponse{
		Filename:    f.OriginalFilename,
		DownloadURL: downloadURL,
		ContentType: f.ContentType,
		Size:        f.Size,
	}, nil
}

// List returns every record, newest first.
func (s *Service) List(ctx context.Context) (*ListResponse, error) {
	records, err := s.files.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]FileInfo, 0, len(records))
	for _, f := range records {
		out = append(out, FileInfo{
			ID:               f.ID,
			Filename:         f.StorageKey,
			OriginalFilename: f.OriginalFilename,
			Size:             f.Size,
			ContentType:      f.ContentType,
			PublicURL:        f.PublicURL,
			CreatedAt:        f.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	return &ListResponse{Files: out}, nil
}

// Delete removes the blob first, then the record. Not exposed over HTTP.
func (s *Service) Delete(ctx context.Context, id int64) error {
	f, err := s.files.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.DeleteObject(ctx, f.StorageKey); err != nil {
		return fmt.Errorf("delete blob %s: %w", f.StorageKey, err)
	}

	return s.files.Delete(ctx, id)
}

// Reconcile finds blobs that have no metadata row. Such orphans appear when
// a metadata write fails after a successful blob write and the compensating
// delete also fails. With remove set, the orphans are deleted.
func (s *Service) Reconcile(ctx context.Context, remove bool) (*ReconcileReport, error) {
	keys, err := s.store.ListKeys(ctx)
	if err != nil {
		return nil, err
	}

	records, err := s.files.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	known := make(map[string]struct{}, len(records))
	for _, f := range records {
		known[f.StorageKey] = struct{}{}
	}

	report := &ReconcileReport{Checked: len(keys), Orphans: []string{}}
	for _, key := range keys {
		if _, ok := known[key]; ok {
			continue
		}
		report.Orphans = append(report.Orphans, key)

		if remove {
			if err := s.store.DeleteObject(ctx, key); err != nil {
				return report, fmt.Errorf("remove orphan %s: %w", key, err)
			}
			report.Removed++
		}
	}

	return report, nil
}

// StorageReachable reports whether the object store answers a bucket probe.
func (s *Service) StorageReachable(ctx context.Context) bool {
	return s.store.HeadBucket(ctx)
}

// deriveStorageKey builds a key from a UTC timestamp, a random component and
// the original filename. The random component keeps two uploads of the same
// name within the same second from overwriting each other.
func deriveStorageKey(filename string) string {
	ts := time.Now().UTC().Format(storageKeyTimeFormat)
	return fmt.Sprintf("%s_%s_%s", ts, uuid.NewString()[:8], filename)
}

func (s *Service) publicURL(key string) string {
	base := s.cfg.PublicURLBase()
	if base == "" {
		return ""
	}
	return base + url.PathEscape(key)
}
