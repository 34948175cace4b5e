// Package config exposes libdesk settings read from the process environment.
// A .env file, when present, is loaded into the environment by the CLI before
// any getter runs.
package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

//go:embed version
var version string

//go:embed name
var name string

type LogLevel string

const (
	Debug  LogLevel = "debug"
	Info   LogLevel = "info"
	Notice LogLevel = "notice"
	Warn   LogLevel = "warn"
	Error  LogLevel = "error"
)

const (
	defaultPort          = 5000
	defaultSessionMaxAge = 60
)

func GetVersion() string {
	return strings.TrimSpace(version)
}

func GetName() string {
	return strings.TrimSpace(name)
}

func GetLogLevel() LogLevel {
	if IsDebug() {
		return Debug
	}
	logLevel := os.Getenv("LIBDESK_LOG_LEVEL")
	if logLevel == "" {
		return Info
	}
	return LogLevel(logLevel)
}

func IsDebug() bool {
	return os.Getenv("LIBDESK_DEBUG") == "true"
}

func GetDBFolderPath() string {
	dbFolderPath := os.Getenv("LIBDESK_DB_FOLDER")
	if dbFolderPath == "" {
		if IsDebug() {
			return "db"
		}
		dbFolderPath = "/etc/libdesk"
	}
	return dbFolderPath
}

// GetDBPath returns the SQLite file path. LIBDESK_DB_PATH wins over the folder setting.
func GetDBPath() string {
	if p := os.Getenv("LIBDESK_DB_PATH"); p != "" {
		return p
	}
	return filepath.Join(GetDBFolderPath(), GetName()+".db")
}

func GetLogFolder() string {
	logFolderPath := os.Getenv("LIBDESK_LOG_FOLDER")
	if logFolderPath == "" {
		logFolderPath = "/var/log"
	}
	return logFolderPath
}

func GetListen() string {
	return os.Getenv("LIBDESK_LISTEN")
}

func GetPort() int {
	return getInt("LIBDESK_PORT", defaultPort)
}

func GetCertFile() string {
	return os.Getenv("LIBDESK_CERT_FILE")
}

func GetKeyFile() string {
	return os.Getenv("LIBDESK_KEY_FILE")
}

// GetWebDomain returns the host name requests must target, or "" to accept any host.
func GetWebDomain() string {
	return os.Getenv("LIBDESK_WEB_DOMAIN")
}

// GetSessionSecret returns the key used to authenticate session cookies.
// An empty value makes the web server generate a random per-process secret.
func GetSessionSecret() string {
	return os.Getenv("LIBDESK_SESSION_SECRET")
}

// GetSessionMaxAge returns the session lifetime in minutes.
func GetSessionMaxAge() int {
	maxAge := getInt("LIBDESK_SESSION_MAX_AGE", defaultSessionMaxAge)
	if maxAge <= 0 {
		return defaultSessionMaxAge
	}
	return maxAge
}

func GetAdminUsername() string {
	if u := os.Getenv("LIBDESK_ADMIN_USERNAME"); u != "" {
		return u
	}
	return "admin"
}

func GetAdminPassword() string {
	if p := os.Getenv("LIBDESK_ADMIN_PASSWORD"); p != "" {
		return p
	}
	return "admin"
}

func getInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
