package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TokenSource yields a short-lived credential used in place of a static password.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// FileTokenSource reads the token from a file that an external agent keeps fresh.
type FileTokenSource struct {
	Path string
}

// Token returns the current file contents with surrounding whitespace removed.
func (f FileTokenSource) Token(_ context.Context) (string, error) {
	raw, err := os.ReadFile(f.Path)
	if err != nil {
		return "", errors.Wrap(err, "could not read database token")
	}
	token := strings.TrimSpace(string(raw))
	if token == "" {
		return "", fmt.Errorf("database token file %s is empty", f.Path)
	}
	return token, nil
}

// PostgresDSN builds the connection string. The password is left out in IAM mode.
func PostgresDSN(cfg *Config) string {
	dsn := fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBName, cfg.DBSSLMode)
	if cfg.AuthMode != AuthIAM && cfg.DBPassword != "" {
		dsn += fmt.Sprintf(" password=%s", cfg.DBPassword)
	}
	return dsn
}

// ConnectDatabase opens the metadata store selected by DB_DRIVER.
func ConnectDatabase(cfg *Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}

	switch cfg.DBDriver {
	case DriverSQLite:
		db, err := gorm.Open(sqlite.Open(cfg.DBPath), gormCfg)
		if err != nil {
			return nil, errors.Wrap(err, "could not open sqlite database")
		}
		return db, nil
	case DriverPostgres:
		if cfg.AuthMode == AuthIAM {
			return connectWithToken(cfg, FileTokenSource{Path: cfg.DBTokenFile}, gormCfg)
		}
		db, err := gorm.Open(postgres.Open(PostgresDSN(cfg)), gormCfg)
		if err != nil {
			return nil, errors.Wrap(err, "could not connect to postgres")
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
	}
}

// connectWithToken asks the token source for a fresh password every time the pool dials.
func connectWithToken(cfg *Config, tokens TokenSource, gormCfg *gorm.Config) (*gorm.DB, error) {
	connCfg, err := pgx.ParseConfig(PostgresDSN(cfg))
	if err != nil {
		return nil, errors.Wrap(err, "invalid postgres configuration")
	}
	sqlDB := stdlib.OpenDB(*connCfg, stdlib.OptionBeforeConnect(func(ctx context.Context, c *pgx.ConnConfig) error {
		token, err := tokens.Token(ctx)
		if err != nil {
			return err
		}
		c.Password = token
		return nil
	}))

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gormCfg)
	if err != nil {
		sqlDB.Close()
		return nil, errors.Wrap(err, "could not connect to postgres")
	}
	return db, nil
}
