package tokenstore

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// StoredValue is a single key/value row in the local credentials database
type StoredValue struct {
	Key       string    `gorm:"primaryKey;type:varchar(64)"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// SQLite stores the token in a local SQLite file, for hosts without a keychain
type SQLite struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// OpenSQLite opens (creating if needed) the credentials database at path
func OpenSQLite(path string, zlog zerolog.Logger) (*SQLite, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.New(
			log.New(os.Stderr, "\r\n", log.LstdFlags),
			logger.Config{
				LogLevel:                  logger.Error,
				IgnoreRecordNotFoundError: true,
				SlowThreshold:             200 * time.Millisecond,
			},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open token database: %w", err)
	}

	if err := db.AutoMigrate(&StoredValue{}); err != nil {
		return nil, fmt.Errorf("failed to migrate token database: %w", err)
	}

	return &SQLite{db: db, logger: zlog}, nil
}

func (s *SQLite) Get() (string, bool) {
	var row StoredValue
	if err := s.db.Where("key = ?", Key).First(&row).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn().Err(err).Msg("Failed to load token from database")
		}
		return "", false
	}
	return row.Value, row.Value != ""
}

func (s *SQLite) Set(token string) {
	row := StoredValue{Key: Key, Value: token}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to save token to database")
	}
}

func (s *SQLite) Remove() {
	if err := s.db.Where("key = ?", Key).Delete(&StoredValue{}).Error; err != nil {
		s.logger.Warn().Err(err).Msg("Failed to delete token from database")
	}
}

// Close releases the underlying database connection
func (s *SQLite) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
