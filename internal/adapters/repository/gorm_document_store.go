package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/comitanigiacomo/learnify-engine/internal/core/domain"
)

var _ domain.DocumentStore = (*GormDocumentStore)(nil)

type documentRow struct {
	OwnerID   string `gorm:"primaryKey;size:128"`
	DocKey    string `gorm:"primaryKey;size:64"`
	Data      []byte
	Version   int `gorm:"not null"`
	UpdatedAt time.Time
}

func (documentRow) TableName() string { return "documents" }

func (r documentRow) toDomain() *domain.Document {
	return &domain.Document{
		OwnerID:   r.OwnerID,
		Key:       r.DocKey,
		Data:      r.Data,
		Version:   r.Version,
		UpdatedAt: r.UpdatedAt,
	}
}

// OpenGorm picks PostgreSQL when dsn starts with "postgres" and SQLite (a file
// path or ":memory:") otherwise.
func OpenGorm(dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if strings.HasPrefix(dsn, "postgres") {
		dialector = postgres.Open(dsn)
	} else {
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open document database: %w", err)
	}
	return db, nil
}

type GormDocumentStore struct {
	db *gorm.DB
}

// NewGormDocumentStore migrates the documents table before returning.
func NewGormDocumentStore(db *gorm.DB) (*GormDocumentStore, error) {
	if err := db.AutoMigrate(&documentRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate documents table: %w", err)
	}
	return &GormDocumentStore{db: db}, nil
}

func (s *GormDocumentStore) Get(ctx context.Context, ownerID, key string) (*domain.Document, error) {
	var row documentRow
	err := s.db.WithContext(ctx).
		Where("owner_id = ? AND doc_key = ?", ownerID, key).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrDocumentNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

func (s *GormDocumentStore) Put(ctx context.Context, doc *domain.Document) error {
	now := time.Now().UTC()
	db := s.db.WithContext(ctx)

	var res *gorm.DB
	if doc.Version == 0 {
		row := documentRow{OwnerID: doc.OwnerID, DocKey: doc.Key, Data: doc.Data, Version: 1, UpdatedAt: now}
		res = db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	} else {
		res = db.Model(&documentRow{}).
			Where("owner_id = ? AND doc_key = ? AND version = ?", doc.OwnerID, doc.Key, doc.Version).
			Updates(map[string]any{
				"data":       doc.Data,
				"version":    doc.Version + 1,
				"updated_at": now,
			})
	}
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrDocumentConflict
	}

	doc.Version++
	doc.UpdatedAt = now
	return nil
}

func (s *GormDocumentStore) Delete(ctx context.Context, ownerID, key string) error {
	return s.db.WithContext(ctx).
		Where("owner_id = ? AND doc_key = ?", ownerID, key).
		Delete(&documentRow{}).Error
}
