package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type sqliteScore struct {
	conn *sql.DB
}

// NewSQLiteScoreRepository - returns a repository over the scores table.
func NewSQLiteScoreRepository(conn *sql.DB) ScoreRepository {
	return &sqliteScore{
		conn: conn,
	}
}

func (that *sqliteScore) Get(ctx context.Context, key string) (string, error) {
	query := `SELECT value FROM scores WHERE key = ?`

	var value string

	err := that.conn.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrScoreNotFound
	}
	if err != nil {
		return "", fmt.Errorf("can't get score: %w", err)
	}

	return value, nil
}

func (that *sqliteScore) Set(ctx context.Context, key, value string) error {
	query := `INSERT INTO scores (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`

	if _, err := that.conn.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("can't save score: %w", err)
	}

	return nil
}

func (that *sqliteScore) DeleteAll(ctx context.Context) error {
	query := `DELETE FROM scores`

	if _, err := that.conn.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("can't delete scores: %w", err)
	}

	return nil
}
