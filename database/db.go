// Package database owns the process-wide gorm connection: it opens the
// configured driver, migrates the libdesk models and seeds the first admin.
package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/libdesk/libdesk/config"
	"github.com/libdesk/libdesk/database/model"
	"github.com/libdesk/libdesk/logger"
	"github.com/libdesk/libdesk/util/crypto"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var (
	db     *gorm.DB
	dbConf *config.DatabaseConfig
)

func initModels() error {
	models := []any{
		&model.User{},
		&model.Student{},
		&model.Book{},
		&model.Issue{},
		&model.Session{},
	}
	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			logger.Errorf("auto migrating %T: %v", m, err)
			return err
		}
	}
	return nil
}

// initUser creates the configured admin account when no user exists yet.
func initUser() error {
	empty, err := isTableEmpty("users")
	if err != nil {
		return err
	}
	if !empty {
		return nil
	}
	hash, err := crypto.HashPasswordAsBcrypt(config.GetAdminPassword())
	if err != nil {
		return err
	}
	user := &model.User{
		Username: config.GetAdminUsername(),
		Password: hash,
		Role:     model.RoleAdmin,
	}
	if err := db.Create(user).Error; err != nil {
		return err
	}
	logger.Infof("seeded admin user %q", user.Username)
	return nil
}

func isTableEmpty(tableName string) (bool, error) {
	var count int64
	err := db.Table(tableName).Count(&count).Error
	return count == 0, err
}

func openDialector(c *config.DatabaseConfig) (gorm.Dialector, error) {
	switch c.Type {
	case config.DatabaseTypeSQLite:
		if err := c.EnsureDirectoryExists(); err != nil {
			return nil, err
		}
		return sqlite.Open(c.GetDSN() + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000&_foreign_keys=on"), nil
	case config.DatabaseTypePostgreSQL:
		return postgres.Open(c.GetDSN()), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", c.Type)
	}
}

// InitDB opens the database described by c, migrates the schema and seeds the
// default admin. It replaces any connection opened by a previous call.
func InitDB(c *config.DatabaseConfig) error {
	if err := c.ValidateConfig(); err != nil {
		return err
	}
	dialector, err := openDialector(c)
	if err != nil {
		return err
	}

	var gormLogger gormlogger.Interface
	if config.IsDebug() {
		gormLogger = gormlogger.Default
	} else {
		gormLogger = gormlogger.Discard
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		return fmt.Errorf("open %s database: %w", c.Type, err)
	}

	if db != nil {
		_ = CloseDB()
	}
	db, dbConf = conn, c

	if c.IsSQLite() {
		// a single writer avoids SQLITE_BUSY between pooled connections
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := initModels(); err != nil {
		return err
	}
	return initUser()
}

func CloseDB() error {
	if db == nil {
		return nil
	}
	if dbConf != nil && dbConf.IsSQLite() {
		if err := Checkpoint(); err != nil {
			logger.Warning("checkpoint before close failed:", err)
		}
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	db = nil
	return sqlDB.Close()
}

func GetDB() *gorm.DB {
	return db
}

// IsSQLite reports whether the open connection is backed by SQLite.
func IsSQLite() bool {
	return dbConf != nil && dbConf.IsSQLite()
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicate reports whether err is a unique-constraint violation.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "SQLSTATE 23505")
}

// Checkpoint flushes the SQLite write-ahead log into the main database file.
func Checkpoint() error {
	if !IsSQLite() {
		return nil
	}
	return db.Exec("PRAGMA wal_checkpoint;").Error
}
