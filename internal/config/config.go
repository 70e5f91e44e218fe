package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Backend selection
	DataBackend string

	// SQLite
	SQLiteDBPath string

	// Firestore / Firebase
	FirebaseProjectID   string
	FirebaseCredentials string

	// Auth
	AuthMode string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Recurring worker
	RecurringInterval time.Duration

	// Stats cache
	CacheSize int
	CacheTTL  time.Duration
}

func Load() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "8081"),

		DataBackend: getEnv("DATA_BACKEND", "memory"),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/plenio.db"),

		FirebaseProjectID:   getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseCredentials: getEnv("FIREBASE_CREDENTIALS_FILE", ""),

		AuthMode: getEnv("AUTH_MODE", "firebase"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "plenio"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "transaction_events"),

		RecurringInterval: getEnvDuration("RECURRING_INTERVAL", time.Hour),

		CacheSize: getEnvInt("CACHE_SIZE", 256),
		CacheTTL:  getEnvDuration("CACHE_TTL", time.Minute),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate data backend
	validBackends := []string{"memory", "sqlite", "firestore"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	// Validate auth mode
	if c.AuthMode != "firebase" && c.AuthMode != "insecure" {
		errors = append(errors, fmt.Sprintf("invalid auth mode '%s': must be 'firebase' or 'insecure'", c.AuthMode))
	}

	// Validate SQLite configuration if backend is sqlite
	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			// Check if directory exists or can be created
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	// Validate Firestore configuration if backend is firestore
	if c.DataBackend == "firestore" {
		if c.FirebaseProjectID == "" {
			errors = append(errors, "Firebase project ID is required when using firestore backend")
		}
		if c.FirebaseCredentials != "" {
			if _, err := os.Stat(c.FirebaseCredentials); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Firebase credentials file does not exist: %s", c.FirebaseCredentials))
			}
		}
	}

	// Firebase auth needs a project to verify tokens against
	if c.AuthMode == "firebase" && c.FirebaseProjectID == "" {
		errors = append(errors, "Firebase project ID is required when auth mode is 'firebase'")
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}

		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	// Validate worker configuration
	if c.RecurringInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid recurring interval %v: must be at least 1 second", c.RecurringInterval))
	} else if c.RecurringInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid recurring interval %v: must be at most 24 hours", c.RecurringInterval))
	}

	// Validate cache configuration
	if c.CacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid cache size %d: must be at least 1", c.CacheSize))
	}
	if c.CacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must be at least 1 second", c.CacheTTL))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
