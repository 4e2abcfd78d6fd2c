package db

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Collection names. They match the data files of existing deployments.
const (
	Users    = "users"
	Admins   = "administradores"
	Projects = "projects"
	News     = "news"
	Contacts = "contactos"
)

type Options struct {
	Driver      string
	DataDir     string
	DatabaseURL string
	Logger      *slog.Logger
}

// Open builds a Store over the backend selected by opts.Driver.
func Open(opts Options) (*Store, error) {
	var backend Backend

	switch opts.Driver {
	case "", DriverFile:
		fb, err := NewFileBackend(opts.DataDir)
		if err != nil {
			return nil, err
		}
		backend = fb
	case DriverPostgres, DriverMySQL:
		conn, err := connectDatabase(opts.Driver, opts.DatabaseURL)
		if err != nil {
			return nil, err
		}
		gb, err := NewGormBackend(conn)
		if err != nil {
			return nil, err
		}
		backend = gb
	default:
		return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}

	return NewStore(backend, opts.Logger), nil
}

func connectDatabase(driver, databaseURL string) (*gorm.DB, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	var dialector gorm.Dialector

	switch driver {
	case DriverPostgres:
		dsn, err := ensureTimezoneUTC(databaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse database URL: %w", err)
		}
		dialector = postgres.Open(dsn)
	case DriverMySQL:
		dsn, err := normalizeMySQLDSN(databaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse database DSN: %w", err)
		}
		dialector = mysql.Open(dsn)
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	return conn, nil
}

// ensureTimezoneUTC adds TimeZone=UTC to URL-style Postgres DSNs. Key/value
// DSNs are returned untouched.
func ensureTimezoneUTC(databaseURL string) (string, error) {
	if !strings.Contains(databaseURL, "://") {
		return databaseURL, nil
	}

	u, err := url.Parse(databaseURL)
	if err != nil {
		return "", err
	}

	q := u.Query()
	if q.Get("TimeZone") == "" {
		q.Set("TimeZone", "UTC")
		u.RawQuery = q.Encode()
	}

	return u.String(), nil
}

// normalizeMySQLDSN forces parseTime and a UTC location on MySQL DSNs.
func normalizeMySQLDSN(dsn string) (string, error) {
	cfg, err := mysqldriver.ParseDSN(dsn)
	if err != nil {
		return "", err
	}

	cfg.ParseTime = true
	cfg.Loc = time.UTC

	return cfg.FormatDSN(), nil
}
