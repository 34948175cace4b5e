package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// DatabaseType represents the type of database
type DatabaseType string

const (
	DatabaseTypeSQLite     DatabaseType = "sqlite"
	DatabaseTypePostgreSQL DatabaseType = "postgres"
)

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Type     DatabaseType   `json:"type"`
	SQLite   SQLiteConfig   `json:"sqlite"`
	Postgres PostgresConfig `json:"postgres"`
}

// SQLiteConfig holds SQLite specific configuration
type SQLiteConfig struct {
	Path string `json:"path"`
}

// PostgresConfig holds PostgreSQL specific configuration.
// URL, when set, is used verbatim and the discrete fields are ignored.
type PostgresConfig struct {
	URL      string `json:"url"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Database string `json:"database"`
	Username string `json:"username"`
	Password string `json:"password"`
	SSLMode  string `json:"sslMode"`
	TimeZone string `json:"timeZone"`
}

// GetDSN returns the data source name for the database
func (c *DatabaseConfig) GetDSN() string {
	switch c.Type {
	case DatabaseTypePostgreSQL:
		if c.Postgres.URL != "" {
			return c.Postgres.URL
		}
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=%s",
			c.Postgres.Host,
			c.Postgres.Username,
			c.Postgres.Password,
			c.Postgres.Database,
			c.Postgres.Port,
			c.Postgres.SSLMode,
			c.Postgres.TimeZone,
		)
	default:
		return c.SQLite.Path
	}
}

// GetDefaultDatabaseConfig returns default database configuration
func GetDefaultDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		Type: DatabaseTypeSQLite,
		SQLite: SQLiteConfig{
			Path: GetDBPath(),
		},
		Postgres: PostgresConfig{
			Host:     "localhost",
			Port:     5432,
			Database: "libdesk",
			Username: "libdesk",
			SSLMode:  "disable",
			TimeZone: "UTC",
		},
	}
}

// LoadDatabaseConfig builds the database configuration from the environment.
// DATABASE_URL selects PostgreSQL regardless of LIBDESK_DB_TYPE.
func LoadDatabaseConfig() (*DatabaseConfig, error) {
	c := GetDefaultDatabaseConfig()
	if t := os.Getenv("LIBDESK_DB_TYPE"); t != "" {
		c.Type = DatabaseType(t)
	}
	if url := os.Getenv("DATABASE_URL"); url != "" {
		c.Type = DatabaseTypePostgreSQL
		c.Postgres.URL = url
	}

	pg := &c.Postgres
	setString(&pg.Host, "LIBDESK_PG_HOST")
	setString(&pg.Database, "LIBDESK_PG_NAME")
	setString(&pg.Username, "LIBDESK_PG_USER")
	setString(&pg.Password, "LIBDESK_PG_PASSWORD")
	setString(&pg.SSLMode, "LIBDESK_PG_SSLMODE")
	setString(&pg.TimeZone, "LIBDESK_PG_TIMEZONE")
	if v := os.Getenv("LIBDESK_PG_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid LIBDESK_PG_PORT %q: %w", v, err)
		}
		pg.Port = port
	}

	if err := c.ValidateConfig(); err != nil {
		return nil, err
	}
	return c, nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// ValidateConfig validates the database configuration
func (c *DatabaseConfig) ValidateConfig() error {
	switch c.Type {
	case DatabaseTypeSQLite:
		if c.SQLite.Path == "" {
			return fmt.Errorf("SQLite path cannot be empty")
		}
	case DatabaseTypePostgreSQL:
		if c.Postgres.URL != "" {
			return nil
		}
		if c.Postgres.Host == "" {
			return fmt.Errorf("PostgreSQL host cannot be empty")
		}
		if c.Postgres.Database == "" {
			return fmt.Errorf("PostgreSQL database name cannot be empty")
		}
		if c.Postgres.Username == "" {
			return fmt.Errorf("PostgreSQL username cannot be empty")
		}
		if c.Postgres.Port <= 0 || c.Postgres.Port > 65535 {
			return fmt.Errorf("PostgreSQL port must be between 1 and 65535")
		}
	default:
		return fmt.Errorf("unsupported database type: %s", c.Type)
	}
	return nil
}

// IsSQLite returns true if the database type is SQLite
func (c *DatabaseConfig) IsSQLite() bool {
	return c.Type == DatabaseTypeSQLite
}

// EnsureDirectoryExists ensures the directory for SQLite database exists
func (c *DatabaseConfig) EnsureDirectoryExists() error {
	if c.Type == DatabaseTypeSQLite {
		dir := filepath.Dir(c.SQLite.Path)
		return os.MkdirAll(dir, 0o755)
	}
	return nil
}
