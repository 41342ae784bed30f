// Package database opens the gorm connection for the configured driver and
// brings the schema up to date. Postgres schemas are managed by goose from
// embedded SQL files; sqlite, used for local runs and tests, is auto-migrated.
package database

import (
	"database/sql"
	"embed"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"funkosrest/internal/models"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

func gormConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	}
}

// Open connects to the database and verifies the connection.
func Open(driver, dsn string) (*gorm.DB, error) {
	switch driver {
	case DriverPostgres:
		sqlDB, err := sql.Open("pgx", dsn)
		if err != nil {
			return nil, fmt.Errorf("database open: %w", err)
		}
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
		if err := sqlDB.Ping(); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("database ping: %w", err)
		}
		db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gormConfig())
		if err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("gorm open: %w", err)
		}
		return db, nil
	case DriverSQLite:
		db, err := gorm.Open(sqlite.Open(dsn), gormConfig())
		if err != nil {
			return nil, fmt.Errorf("gorm open: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// sqlite allows a single writer.
		sqlDB.SetMaxOpenConns(1)
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("enable foreign keys: %w", err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Migrate applies the schema for the connection's dialect.
func Migrate(db *gorm.DB) error {
	switch db.Dialector.Name() {
	case DriverPostgres:
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		goose.SetBaseFS(embedMigrations)
		if err := goose.SetDialect("postgres"); err != nil {
			return fmt.Errorf("goose set dialect: %w", err)
		}
		if err := goose.Up(sqlDB, "migrations"); err != nil {
			return fmt.Errorf("goose up: %w", err)
		}
		return nil
	default:
		if err := db.AutoMigrate(&models.Category{}, &models.Funko{}, &models.Role{}, &models.User{}); err != nil {
			return fmt.Errorf("automigrate: %w", err)
		}
		return nil
	}
}

// Close releases the underlying pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
