package storage

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNotFound is returned when no catch has the requested id.
var ErrNotFound = errors.New("catch not found")

type Database struct {
	db *gorm.DB
}

func NewDatabase(path string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&CatchEntry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Database{db: db}, nil
}

func (d *Database) SaveCatch(entry *CatchEntry) error {
	return d.db.Create(entry).Error
}

func (d *Database) GetCatch(id string) (*CatchEntry, error) {
	var entry CatchEntry
	result := d.db.Where("uuid = ?", id).First(&entry)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &entry, nil
}

func (d *Database) ListCatches(filter CatchFilter) ([]CatchEntry, error) {
	query := d.db.Model(&CatchEntry{})

	if !filter.From.IsZero() {
		query = query.Where("caught_at >= ?", filter.From.UTC())
	}
	if !filter.To.IsZero() {
		query = query.Where("caught_at < ?", filter.To.UTC())
	}
	if species := strings.TrimSpace(filter.Species); species != "" {
		query = query.Where("LOWER(species) = LOWER(?)", species)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var entries []CatchEntry
	if err := query.Order("caught_at desc").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (d *Database) DeleteCatch(id string) error {
	result := d.db.Where("uuid = ?", id).Delete(&CatchEntry{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *Database) CountCatches() (int64, error) {
	var count int64
	err := d.db.Model(&CatchEntry{}).Count(&count).Error
	return count, err
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
