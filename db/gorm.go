package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Document is one collection stored as a single JSON row.
type Document struct {
	Name      string         `gorm:"primaryKey;size:64"`
	Body      datatypes.JSON `gorm:"not null"`
	UpdatedAt time.Time
}

// GormBackend keeps every document in the documents table of a SQL
// database.
type GormBackend struct {
	conn *gorm.DB
}

func NewGormBackend(conn *gorm.DB) (*GormBackend, error) {
	if !conn.Migrator().HasTable(&Document{}) {
		if err := conn.AutoMigrate(&Document{}); err != nil {
			return nil, fmt.Errorf("migrating documents table: %w", err)
		}
	}

	return &GormBackend{conn: conn}, nil
}

func (b *GormBackend) Load(name string) ([]byte, error) {
	var doc Document

	err := b.conn.Where("name = ?", name).First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotExist
		}
		return nil, err
	}

	return []byte(doc.Body), nil
}

func (b *GormBackend) Save(name string, data []byte) error {
	doc := Document{
		Name:      name,
		Body:      datatypes.JSON(data),
		UpdatedAt: time.Now().UTC(),
	}

	return b.conn.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"body", "updated_at"}),
	}).Create(&doc).Error
}

func (b *GormBackend) Ping(ctx context.Context) error {
	sqlDB, err := b.conn.DB()
	if err != nil {
		return err
	}

	return sqlDB.PingContext(ctx)
}

func (b *GormBackend) Close() error {
	sqlDB, err := b.conn.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	return sqlDB.Close()
}
