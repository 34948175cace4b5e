package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLogLevel(t *testing.T) {
	t.Setenv("LIBDESK_DEBUG", "")
	t.Setenv("LIBDESK_LOG_LEVEL", "")
	assert.Equal(t, Info, GetLogLevel())

	t.Setenv("LIBDESK_LOG_LEVEL", "warn")
	assert.Equal(t, Warn, GetLogLevel())

	t.Setenv("LIBDESK_DEBUG", "true")
	assert.Equal(t, Debug, GetLogLevel())
}

func TestGetDBPath(t *testing.T) {
	t.Setenv("LIBDESK_DEBUG", "")
	t.Setenv("LIBDESK_DB_PATH", "")
	t.Setenv("LIBDESK_DB_FOLDER", "/tmp/lib")
	assert.Equal(t, filepath.Join("/tmp/lib", "libdesk.db"), GetDBPath())

	t.Setenv("LIBDESK_DB_PATH", "/data/books.db")
	assert.Equal(t, "/data/books.db", GetDBPath())
}

func TestIntSettingsFallBackOnGarbage(t *testing.T) {
	t.Setenv("LIBDESK_PORT", "not-a-port")
	assert.Equal(t, defaultPort, GetPort())

	t.Setenv("LIBDESK_PORT", "8080")
	assert.Equal(t, 8080, GetPort())

	t.Setenv("LIBDESK_SESSION_MAX_AGE", "-5")
	assert.Equal(t, defaultSessionMaxAge, GetSessionMaxAge())
}

func TestLoadDatabaseConfig(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantDSN string
		wantErr bool
	}{
		{
			name:    "sqlite from explicit path",
			env:     map[string]string{"LIBDESK_DB_PATH": "/tmp/x.db"},
			wantDSN: "/tmp/x.db",
		},
		{
			name:    "database url forces postgres",
			env:     map[string]string{"DATABASE_URL": "postgres://u:p@db:5432/lib"},
			wantDSN: "postgres://u:p@db:5432/lib",
		},
		{
			name: "discrete postgres fields",
			env: map[string]string{
				"LIBDESK_DB_TYPE":     "postgres",
				"LIBDESK_PG_HOST":     "db",
				"LIBDESK_PG_PORT":     "6543",
				"LIBDESK_PG_PASSWORD": "secret",
			},
			wantDSN: "host=db user=libdesk password=secret dbname=libdesk port=6543 sslmode=disable TimeZone=UTC",
		},
		{
			name:    "bad port",
			env:     map[string]string{"LIBDESK_DB_TYPE": "postgres", "LIBDESK_PG_PORT": "x"},
			wantErr: true,
		},
		{
			name:    "unknown type",
			env:     map[string]string{"LIBDESK_DB_TYPE": "oracle"},
			wantErr: true,
		},
	}

	keys := []string{
		"LIBDESK_DB_TYPE", "DATABASE_URL", "LIBDESK_DB_PATH", "LIBDESK_PG_HOST",
		"LIBDESK_PG_PORT", "LIBDESK_PG_PASSWORD", "LIBDESK_PG_NAME", "LIBDESK_PG_USER",
		"LIBDESK_PG_SSLMODE", "LIBDESK_PG_TIMEZONE",
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range keys {
				t.Setenv(k, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			c, err := LoadDatabaseConfig()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDSN, c.GetDSN())
		})
	}
}
