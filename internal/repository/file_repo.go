package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storagebox/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrNotFound     = errors.New("file record not found")
	ErrDuplicateKey = errors.New("storage key already exists")
)

type FileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) *FileRepository {
	return &FileRepository{db: db}
}

type fileModel struct {
	ID               int64     `gorm:"column:id;primaryKey"`
	StorageKey       string    `gorm:"column:storage_key;uniqueIndex;not null"`
	OriginalFilename string    `gorm:"column:original_filename;not null"`
	Size             int64     `gorm:"column:size_bytes;not null"`
	ContentType      string    `gorm:"column:content_type;not null"`
	PublicURL        *string   `gorm:"column:public_url"`
	CreatedAt        time.Time `gorm:"column:created_at"`
}

func (fileModel) TableName() string { return "files" }

// AutoMigrate creates or updates the files table schema.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&fileModel{})
}

func toDomainFile(m fileModel) *domain.File {
	var publicURL string
	if m.PublicURL != nil {
		publicURL = *m.PublicURL
	}

	return &domain.File{
		ID:               m.ID,
		StorageKey:       m.StorageKey,
		OriginalFilename: m.OriginalFilename,
		Size:             m.Size,
		ContentType:      m.ContentType,
		PublicURL:        publicURL,
		CreatedAt:        m.CreatedAt,
	}
}

func toFileModel(f *domain.File) fileModel {
	var publicURL *string
	if f.PublicURL != "" {
		v := f.PublicURL
		publicURL = &v
	}

	return fileModel{
		ID:               f.ID,
		StorageKey:       f.StorageKey,
		OriginalFilename: f.OriginalFilename,
		Size:             f.Size,
		ContentType:      f.ContentType,
		PublicURL:        publicURL,
		CreatedAt:        f.CreatedAt,
	}
}

// Create inserts one record and fills in the assigned ID and CreatedAt.
func (r *FileRepository) Create(ctx context.Context, f *domain.File) error {
	m := toFileModel(f)
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("insert file record: %w", err)
	}

	f.ID = m.ID
	f.CreatedAt = m.CreatedAt
	return nil
}

func (r *FileRepository) GetByID(ctx context.Context, id int64) (*domain.File, error) {
	var m fileModel
	err := r.db.WithContext(ctx).First(&m, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get file record: %w", err)
	}
	return toDomainFile(m), nil
}

func (r *FileRepository) GetByStorageKey(ctx context.Context, key string) (*domain.File, error) {
	var m fileModel
	err := r.db.WithContext(ctx).Where("storage_key = ?", key).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get file record: %w", err)
	}
	return toDomainFile(m), nil
}

// ListAll returns every record, newest first. Full scan, no pagination.
func (r *FileRepository) ListAll(ctx context.Context) ([]domain.File, error) {
	var models []fileModel
	err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("list file records: %w", err)
	}

	out := make([]domain.File, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainFile(m))
	}
	return out, nil
}

func (r *FileRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&fileModel{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete file record: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "SQLSTATE 23505") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
