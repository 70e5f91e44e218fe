package backend

import (
	"fmt"

	"plenio/internal/config"
)

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := BackendType(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	return Config{
		Type: backendType,

		SQLiteDBPath: appConfig.SQLiteDBPath,

		FirebaseProjectID:   appConfig.FirebaseProjectID,
		FirebaseCredentials: appConfig.FirebaseCredentials,
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}

	switch c.Type {
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite backend")
		}

	case FirestoreBackend:
		if c.FirebaseProjectID == "" {
			return fmt.Errorf("Firebase project ID is required for firestore backend")
		}

	case MemoryBackend:
		// Memory backend doesn't require additional validation
	}

	return nil
}
