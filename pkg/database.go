package pkg

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/SAP-F-2025/internship-tracker/internal/config"
)

// ConnectionError is returned when the database cannot be reached at startup.
type ConnectionError struct {
	Host     string
	Port     string
	Database string
	User     string
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("cannot connect to postgres at %s:%s (database %q): %v", e.Host, e.Port, e.Database, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// Guidance returns troubleshooting steps for the operator.
func (e *ConnectionError) Guidance() string {
	var b strings.Builder
	b.WriteString("Troubleshooting:\n")
	fmt.Fprintf(&b, "  1. Make sure PostgreSQL is running and reachable at %s:%s\n", e.Host, e.Port)
	fmt.Fprintf(&b, "  2. Check DB_USER (%s) and DB_PASSWORD in the environment or .env file\n", e.User)
	fmt.Fprintf(&b, "  3. Verify the database exists: psql -h %s -p %s -U %s -c '\\l'\n", e.Host, e.Port, e.User)
	fmt.Fprintf(&b, "  4. Create it if needed: createdb -h %s -p %s -U %s %s\n", e.Host, e.Port, e.User, e.Database)
	b.WriteString("  5. Check DB_SSL_MODE matches the server configuration\n")
	return b.String()
}

// InitDatabase opens the connection pool and verifies it with a ping.
func InitDatabase(cfg *config.Config) (*gorm.DB, error) {
	dbCfg := cfg.Database

	logLevel := logger.Warn
	if cfg.IsProduction() {
		logLevel = logger.Error
	}

	db, err := gorm.Open(postgres.Open(dbCfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, newConnectionError(dbCfg, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(dbCfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(dbCfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(dbCfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), dbCfg.ConnectTimeout)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, newConnectionError(dbCfg, err)
	}

	return db, nil
}

func newConnectionError(dbCfg config.DatabaseConfig, err error) *ConnectionError {
	return &ConnectionError{
		Host:     dbCfg.Host,
		Port:     dbCfg.Port,
		Database: dbCfg.Name,
		User:     dbCfg.User,
		Err:      err,
	}
}
