// Package db provides database connectivity and the generic soft-delete
// aware store the CRUD controller runs against.
package db

import (
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/mazta/hr-master/internal/hr/models"
)

// Config holds the connection settings for one database.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN renders the postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// DB wraps the primary gorm connection.
type DB struct {
	gorm *gorm.DB
}

// Connect opens the primary database, retrying with exponential backoff, and
// migrates every entity table.
func Connect(cfg *Config, logger *zap.Logger) (*DB, error) {
	var db *gorm.DB
	open := func() error {
		var err error
		db, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
		if err != nil {
			logger.Warn("database not ready, retrying", zap.Error(err))
		}
		return err
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 30 * time.Second
	if err := backoff.Retry(open, bo); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(models.All()...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &DB{gorm: db}, nil
}

// New wraps an already-open gorm connection (tests use in-memory sqlite).
func New(db *gorm.DB) (*DB, error) {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &DB{gorm: db}, nil
}

// Gorm exposes the underlying connection for wiring secondary components.
func (d *DB) Gorm() *gorm.DB { return d.gorm }

func (d *DB) Close() error {
	db, err := d.gorm.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
