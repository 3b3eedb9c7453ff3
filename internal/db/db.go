package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	selectOneSQL       = "SELECT 1 AS value"
	currentDatabaseSQL = "SELECT current_database() AS db"
)

var (
	ErrUnexpectedValue = errors.New("unexpected probe value")
	ErrNoDatabase      = errors.New("no current database")
)

// Querier is satisfied by *pgx.Conn, *pgxpool.Pool and pgxmock.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Status struct {
	Value    int           `json:"value"`
	Database string        `json:"database"`
	Latency  time.Duration `json:"latency"`
}

func NewPool(ctx context.Context, url string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Connect opens a single connection. The caller owns it and must Close it.
func Connect(ctx context.Context, url string) (*pgx.Conn, error) {
	conn, err := pgx.Connect(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	return conn, nil
}

func SelectOne(ctx context.Context, q Querier) (int, error) {
	var v int
	if err := q.QueryRow(ctx, selectOneSQL).Scan(&v); err != nil {
		return 0, fmt.Errorf("select 1: %w", err)
	}
	if v != 1 {
		return v, fmt.Errorf("%w: got %d, want 1", ErrUnexpectedValue, v)
	}
	return v, nil
}

func CurrentDatabase(ctx context.Context, q Querier) (string, error) {
	var name string
	if err := q.QueryRow(ctx, currentDatabaseSQL).Scan(&name); err != nil {
		return "", fmt.Errorf("select current_database: %w", err)
	}
	if name == "" {
		return "", ErrNoDatabase
	}
	return name, nil
}

// Check runs both probe queries. There is no retry.
func Check(ctx context.Context, q Querier) (Status, error) {
	start := time.Now()

	v, err := SelectOne(ctx, q)
	if err != nil {
		return Status{}, err
	}
	name, err := CurrentDatabase(ctx, q)
	if err != nil {
		return Status{}, err
	}

	return Status{Value: v, Database: name, Latency: time.Since(start)}, nil
}
