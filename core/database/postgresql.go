package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"stagecrew-api/core/config"
	"stagecrew-api/core/constants"
	"stagecrew-api/core/logger"
)

// Queryer is the subset of sqlx operations repositories need. Both the
// connection pool and an open transaction satisfy it, so a repository method
// can run inside a caller-owned transaction.
type Queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	QueryRowxContext(ctx context.Context, query string, args ...any) *sqlx.Row
	QueryxContext(ctx context.Context, query string, args ...any) (*sqlx.Rows, error)
}

type Database struct {
	sqlx *sqlx.DB
}

func InitDB(cfg config.DBConfig) (Database, error) {
	logger.Info("initializing database", "host", cfg.Host, "port", cfg.Port, "database", cfg.Name)

	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	sqlxDB, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		logger.Error("failed to connect to database", err)
		return Database{}, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlxDB.SetMaxOpenConns(constants.DatabaseMaxOpenConns)
	sqlxDB.SetMaxIdleConns(constants.DatabaseMaxIdleConns)
	sqlxDB.SetConnMaxLifetime(time.Duration(constants.DatabaseConnMaxLifetime) * time.Minute)

	if err = sqlxDB.Ping(); err != nil {
		logger.Error("failed to ping database", err)
		return Database{}, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database initialized",
		"maxOpenConns", constants.DatabaseMaxOpenConns,
		"maxIdleConns", constants.DatabaseMaxIdleConns,
		"connMaxLifetime", constants.DatabaseConnMaxLifetime,
	)

	return Database{sqlx: sqlxDB}, nil
}

func (d Database) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return d.sqlx.ExecContext(ctx, query, args...)
}

func (d Database) GetContext(ctx context.Context, dest any, query string, args ...any) error {
	return d.sqlx.GetContext(ctx, dest, query, args...)
}

func (d Database) SelectContext(ctx context.Context, dest any, query string, args ...any) error {
	return d.sqlx.SelectContext(ctx, dest, query, args...)
}

func (d Database) QueryRowxContext(ctx context.Context, query string, args ...any) *sqlx.Row {
	return d.sqlx.QueryRowxContext(ctx, query, args...)
}

func (d Database) QueryxContext(ctx context.Context, query string, args ...any) (*sqlx.Rows, error) {
	return d.sqlx.QueryxContext(ctx, query, args...)
}

func (d Database) SQLx() *sqlx.DB {
	return d.sqlx
}

func (d Database) Close() error {
	return d.sqlx.Close()
}

// WithinTransaction runs fn inside a single transaction. The transaction is
// committed when fn returns nil and rolled back otherwise, so a multi-row
// mutation is never observable half-applied.
func (d Database) WithinTransaction(ctx context.Context, fn func(tx Queryer) error) error {
	tx, err := d.sqlx.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
