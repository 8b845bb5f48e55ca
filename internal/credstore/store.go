package credstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/gemkart/storefront/pkg/config"
	"github.com/gemkart/storefront/pkg/logger"
)

// credentialRecord is the single persisted row holding the bearer token.
type credentialRecord struct {
	ID        uint   `gorm:"primaryKey"`
	Token     string `gorm:"column:token;not null"`
	UpdatedAt int64  `gorm:"autoUpdateTime"`
}

func (credentialRecord) TableName() string { return "credentials" }

const credentialRowID = 1

// Store keeps the bearer token in a local SQLite file so a restart restores the
// session. It is the only client-side persistence the storefront carries.
type Store struct {
	db *gorm.DB

	mu    sync.RWMutex
	token string
}

// Open boots the credential database at the configured path and warms the
// in-memory token from whatever survived the last run.
func Open(ctx context.Context, cfg config.CredDBConfig, logg *logger.Logger) (*Store, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, fmt.Errorf("credential db path is required")
	}

	silent := gormlogger.New(
		log.New(io.Discard, "", log.LstdFlags),
		gormlogger.Config{LogLevel: gormlogger.Silent},
	)
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:                 silent,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening credential db: %w", err)
	}
	if err := db.AutoMigrate(&credentialRecord{}); err != nil {
		return nil, fmt.Errorf("migrating credential db: %w", err)
	}

	store := &Store{db: db}

	var record credentialRecord
	err = db.WithContext(ctx).First(&record, credentialRowID).Error
	switch {
	case err == nil:
		store.token = record.Token
	case errors.Is(err, gorm.ErrRecordNotFound):
		// no stored session, start logged out
	default:
		return nil, fmt.Errorf("loading credential: %w", err)
	}

	if logg != nil {
		logg.Debug(ctx, "credential store opened")
	}
	return store, nil
}

// Token returns the stored bearer token, empty when logged out.
func (s *Store) Token() string {
	if s == nil {
		return ""
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Save persists a fresh token, replacing any previous session.
func (s *Store) Save(ctx context.Context, token string) error {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return fmt.Errorf("token is required")
	}

	record := credentialRecord{ID: credentialRowID, Token: trimmed}
	if err := s.db.WithContext(ctx).Save(&record).Error; err != nil {
		return fmt.Errorf("saving credential: %w", err)
	}

	s.mu.Lock()
	s.token = trimmed
	s.mu.Unlock()
	return nil
}

// Clear discards the stored token. Clearing an empty store is a no-op.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Delete(&credentialRecord{}, credentialRowID).Error; err != nil {
		return fmt.Errorf("clearing credential: %w", err)
	}

	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
