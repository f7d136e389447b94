// Package postgres owns the pgx connection pool, transactions and schema
// migrations for the relational store.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNoRows is returned by QueryRow scans that match nothing
var ErrNoRows = pgx.ErrNoRows

// DB is the query surface shared by the pool and an open transaction
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Config holds connection settings
type Config struct {
	DSN            string
	MaxConns       int32
	ConnectTimeout time.Duration
}

// Client wraps a pgx pool
type Client struct {
	pool *pgxpool.Pool
}

// New connects to Postgres and verifies the connection
func New(ctx context.Context, cfg *Config) (*Client, error) {
	if cfg == nil || cfg.DSN == "" {
		return nil, errors.New("postgres DSN is required")
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pool config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Client{pool: pool}, nil
}

// DB returns the pool as a query surface
func (c *Client) DB() DB {
	return c.pool
}

// Pool returns the pool as a query surface that can also open transactions
func (c *Client) Pool() Pool {
	return c.pool
}

// Ping checks the connection
func (c *Client) Ping(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

// Close releases every pooled connection
func (c *Client) Close() {
	c.pool.Close()
}

// WithTx runs fn inside a transaction on the client's pool
func (c *Client) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return WithTx(ctx, c.pool, fn)
}

// TxStarter is anything that can open a transaction
type TxStarter interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Pool can both query and open transactions
type Pool interface {
	DB
	TxStarter
}

// WithTx runs fn in a transaction. fn's error or a panic rolls back;
// otherwise the transaction is committed.
func WithTx(ctx context.Context, db TxStarter, fn func(tx pgx.Tx) error) (err error) {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				err = fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
