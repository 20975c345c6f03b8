package db

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"barangay_app_go/config"
	"barangay_app_go/logger"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

// Options selects the database backend
type Options struct {
	Path        string // local SQLite file
	TursoURL    string // remote libsql database; takes precedence over Path
	TursoToken  string
	Environment string
}

// OptionsFromConfig builds Options from the loaded configuration
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Path:        cfg.DBPath,
		TursoURL:    cfg.TursoDatabaseURL,
		TursoToken:  cfg.TursoAuthToken,
		Environment: cfg.Environment,
	}
}

// Initialize opens the database. Local SQLite runs in WAL mode with foreign
// keys enforced; a Turso URL switches to the libsql driver.
func Initialize(opts Options) error {
	conn, err := Open(opts)
	if err != nil {
		return err
	}
	DB = conn
	return nil
}

// Open returns a configured connection without touching the package global.
func Open(opts Options) (*gorm.DB, error) {
	logLevel := gormlogger.Info
	if opts.Environment == "production" {
		logLevel = gormlogger.Warn
	}

	var dialector gorm.Dialector
	if opts.TursoURL != "" {
		dialector = sqlite.New(sqlite.Config{
			DriverName: "libsql",
			DSN:        TursoDSN(opts.TursoURL, opts.TursoToken),
		})
	} else {
		dialector = sqlite.Open(LocalDSN(opts.Path))
	}

	conn, err := gorm.Open(dialector, NewConfig(logLevel))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if opts.TursoURL != "" {
		// libsql ignores DSN pragmas
		if err := conn.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
		logger.L.Info("database connection established", zap.String("backend", "turso"))
	} else {
		logger.L.Info("database connection established",
			zap.String("backend", "sqlite"), zap.String("path", opts.Path))
	}

	return conn, nil
}

// NewConfig is the gorm configuration shared by the server and tests:
// UTC timestamps and driver errors translated to gorm sentinels.
func NewConfig(level gormlogger.LogLevel) *gorm.Config {
	return &gorm.Config{
		Logger:         gormlogger.Default.LogMode(level),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// LocalDSN appends WAL and foreign-key flags to a SQLite path or URI.
func LocalDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_journal_mode=WAL&_foreign_keys=on"
}

// TursoDSN attaches the auth token to a libsql URL.
func TursoDSN(rawURL, token string) string {
	if token == "" {
		return rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	q.Set("authToken", token)
	u.RawQuery = q.Encode()
	return u.String()
}

// AutoMigrate runs database migrations for the provided models
func AutoMigrate(models ...interface{}) error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	if err := DB.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.L.Info("database migrations completed", zap.Int("models", len(models)))
	return nil
}

// Close closes the database connection
func Close() error {
	if DB == nil {
		return nil
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	return sqlDB.Close()
}
