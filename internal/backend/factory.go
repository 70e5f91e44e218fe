package backend

import (
	"context"
	"fmt"
	"log/slog"

	"plenio/internal/firestore"
	"plenio/internal/storage"
	"plenio/internal/store/memory"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case FirestoreBackend:
		return f.createFirestoreBackend(ctx, config)
	case MemoryBackend:
		return f.createMemoryBackend()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)

	return &BackendResult{
		Backend: repo,
		Cleanup: repo.Close,
	}, nil
}

func (f *DefaultFactory) createFirestoreBackend(ctx context.Context, config Config) (*BackendResult, error) {
	fs, err := firestore.New(ctx, config.FirebaseProjectID, config.FirebaseCredentials)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firestore backend: %w", err)
	}

	f.logger.Info("Initialized Firestore backend", "project_id", config.FirebaseProjectID)

	return &BackendResult{
		Backend: fs,
		Cleanup: fs.Close,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend() (*BackendResult, error) {
	f.logger.Info("Initialized memory backend")

	return &BackendResult{
		Backend: memory.New(),
		Cleanup: nil,
	}, nil
}
