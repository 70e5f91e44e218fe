package backend

import (
	"context"

	"plenio/internal/store"
)

// Backend is the persistence surface a configured backend provides
type Backend = store.Store

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the backend instance and optional cleanup function
type BackendResult struct {
	Backend Backend
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	// CreateBackend creates a backend instance based on the provided config
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	// Backend type
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// Firestore specific
	FirebaseProjectID   string
	FirebaseCredentials string
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend    BackendType = "sqlite"
	FirestoreBackend BackendType = "firestore"
	MemoryBackend    BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, FirestoreBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
