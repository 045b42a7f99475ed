// Package storage provides the storage interface and implementations.
package storage

import (
	"time"

	"github.com/mandalnilabja/llamarelay/internal/storage/models"
	"github.com/mandalnilabja/llamarelay/internal/storage/sqlite"
)

// Re-export types from models package for convenience
type (
	RequestLog = models.RequestLog
	LogFilter  = models.LogFilter
	Outcome    = models.Outcome
)

// Re-export errors from sqlite package
var (
	ErrInvalidInput  = sqlite.ErrInvalidInput
	ErrStorageClosed = sqlite.ErrStorageClosed
)

// Storage defines the interface for persistent data storage
type Storage interface {
	// Request logging operations
	LogRequest(log *models.RequestLog) error
	GetRequestLogs(filter models.LogFilter) ([]*models.RequestLog, error)
	DeleteRequestLogs(olderThan time.Time) (int64, error)
	CountRequestLogs() (int64, error)

	// Admin password operations
	GetAdminPasswordHash() (string, error)
	SetAdminPasswordHash(hash string) error
	HasAdminPassword() (bool, error)

	// Maintenance operations
	Close() error
}

// NewSQLiteStorage creates a new SQLite storage instance
// This is the main factory function for creating storage
func NewSQLiteStorage(dbPath string) (Storage, error) {
	return sqlite.New(dbPath)
}
