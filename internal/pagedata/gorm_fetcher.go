package pagedata

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"pagebuilder_app_echo/internal/models"
)

// GormFetcher serves published page definitions stored in Postgres
type GormFetcher struct {
	db *gorm.DB
}

func NewGormFetcher(db *gorm.DB) *GormFetcher {
	return &GormFetcher{db: db}
}

// Fetch implements Fetcher
func (f *GormFetcher) Fetch(ctx context.Context, path string, _ FetchOptions) (*models.PageDescriptor, error) {
	var record models.PageRecord
	err := f.db.WithContext(ctx).Where("path = ? AND published = ?", path, true).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load page %q: %w", path, err)
	}
	return record.Descriptor(), nil
}

// Upsert stores a page definition, replacing any existing row for the same path
func (f *GormFetcher) Upsert(ctx context.Context, desc *models.PageDescriptor, published bool) (*models.PageRecord, error) {
	var record models.PageRecord
	err := f.db.WithContext(ctx).Where("path = ?", desc.Path).First(&record).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	record.Path = desc.Path
	record.Title = desc.Title
	record.Entries = desc.Entries
	record.Published = published

	if err := f.db.WithContext(ctx).Save(&record).Error; err != nil {
		return nil, fmt.Errorf("save page %q: %w", desc.Path, err)
	}
	return &record, nil
}
