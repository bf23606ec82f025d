package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/angelmondragon/storefront-core/pkg/config"
	pkgerrors "github.com/angelmondragon/storefront-core/pkg/errors"
	"github.com/angelmondragon/storefront-core/pkg/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// stateBlob is the single table backing the SQLite adapter: one row per
// namespaced state key, holding the full serialized blob.
type stateBlob struct {
	Key       string    `gorm:"column:key;primaryKey"`
	Blob      []byte    `gorm:"column:blob;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (stateBlob) TableName() string { return "state_blobs" }

// SQLite persists state blobs in a local SQLite file through GORM.
type SQLite struct {
	conn *gorm.DB
}

// NewSQLite opens (or creates) the state database and ensures the schema.
func NewSQLite(ctx context.Context, cfg config.StorageConfig, logg *logger.Logger) (*SQLite, error) {
	if cfg.SQLitePath == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	gormLogger := gormlogger.New(
		log.New(io.Discard, "", log.LstdFlags),
		gormlogger.Config{LogLevel: gormlogger.Silent},
	)

	conn, err := gorm.Open(sqlite.Open(cfg.SQLitePath), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening state database: %w", err)
	}

	if err := conn.WithContext(ctx).AutoMigrate(&stateBlob{}); err != nil {
		return nil, fmt.Errorf("migrating state database: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "state database ready")
	}

	return &SQLite{conn: conn}, nil
}

// Load returns the blob stored under key, or ErrNotFound.
func (s *SQLite) Load(ctx context.Context, key string) ([]byte, error) {
	var row stateBlob
	err := s.conn.WithContext(ctx).First(&row, "key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load state blob")
	}
	return row.Blob, nil
}

// Save upserts the blob stored under key.
func (s *SQLite) Save(ctx context.Context, key string, blob []byte) error {
	row := stateBlob{Key: key, Blob: blob, UpdatedAt: time.Now().UTC()}
	err := s.conn.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"blob", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save state blob")
	}
	return nil
}

// Delete removes the blob stored under key, if any.
func (s *SQLite) Delete(ctx context.Context, key string) error {
	err := s.conn.WithContext(ctx).Delete(&stateBlob{}, "key = ?", key).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete state blob")
	}
	return nil
}

// Close shuts down the pooled connections.
func (s *SQLite) Close() error {
	sqlDB, err := s.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
