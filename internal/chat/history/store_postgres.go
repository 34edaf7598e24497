// Copyright (c) 2026 Skinsight. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// PostgreSQL implementation of the conversation repository.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements the Repository interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
Create persists a new conversation record into the chat.record table.

Parameters:
  - context: context.Context
  - record: *Record

Returns:
  - error: Constraint violations or connectivity errors
*/
func (repository *PostgresRepository) Create(context context.Context, record *Record) error {
	const query = `
		INSERT INTO chat.record (id, userid, message, response, imagepath, createdat)
		VALUES ($1, $2, $3, $4, $5, $6)`

	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(context, query,
		record.ID,
		record.UserID,
		record.Message,
		record.Response,
		record.ImagePath,
		record.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_history_repo_create_failed: %w", err)
	}

	return nil
}

/*
ListByUser returns a window of the user's records, most recent first.

Parameters:
  - context: context.Context
  - userID: string
  - limit: int
  - offset: int

Returns:
  - []*Record: Window of records
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) ListByUser(context context.Context, userID string, limit, offset int) ([]*Record, error) {
	const query = `
		SELECT id, userid, message, response, imagepath, createdat
		FROM chat.record
		WHERE userid = $1
		ORDER BY createdat DESC, id DESC
		LIMIT $2 OFFSET $3`

	rows, err := repository.pool.Query(context, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("postgres_history_repo_list_failed: %w", err)
	}
	defer rows.Close()

	records := make([]*Record, 0, limit)
	for rows.Next() {
		record := &Record{}
		err := rows.Scan(
			&record.ID,
			&record.UserID,
			&record.Message,
			&record.Response,
			&record.ImagePath,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres_history_repo_list_scan_failed: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_history_repo_list_rows_failed: %w", err)
	}

	return records, nil
}

/*
CountByUser returns the number of records belonging to the user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - int: Record count
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) CountByUser(context context.Context, userID string) (int, error) {
	const query = "SELECT COUNT(*) FROM chat.record WHERE userid = $1"

	var total int
	if err := repository.pool.QueryRow(context, query, userID).Scan(&total); err != nil {
		return 0, fmt.Errorf("postgres_history_repo_count_failed: %w", err)
	}

	return total, nil
}

/*
Search returns records across all users matching the query, joined with the
owning account's username.

Description: Case-insensitive substring match against the message, the
response, and the username. An empty query matches everything.

Parameters:
  - context: context.Context
  - query: string
  - limit: int
  - offset: int

Returns:
  - []*Record: Page of records with Username hydrated
  - int: Total match count
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) Search(context context.Context, query string, limit, offset int) ([]*Record, int, error) {
	pattern := "%" + query + "%"

	const countQuery = `
		SELECT COUNT(*)
		FROM chat.record r
		JOIN users.account a ON a.id = r.userid
		WHERE r.message ILIKE $1 OR r.response ILIKE $1 OR a.username ILIKE $1`

	var total int
	if err := repository.pool.QueryRow(context, countQuery, pattern).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_history_repo_search_count_failed: %w", err)
	}

	const pageQuery = `
		SELECT r.id, r.userid, r.message, r.response, r.imagepath, a.username, r.createdat
		FROM chat.record r
		JOIN users.account a ON a.id = r.userid
		WHERE r.message ILIKE $1 OR r.response ILIKE $1 OR a.username ILIKE $1
		ORDER BY r.createdat DESC, r.id DESC
		LIMIT $2 OFFSET $3`

	rows, err := repository.pool.Query(context, pageQuery, pattern, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_history_repo_search_failed: %w", err)
	}
	defer rows.Close()

	records := make([]*Record, 0, limit)
	for rows.Next() {
		record := &Record{}
		err := rows.Scan(
			&record.ID,
			&record.UserID,
			&record.Message,
			&record.Response,
			&record.ImagePath,
			&record.Username,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_history_repo_search_scan_failed: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_history_repo_search_rows_failed: %w", err)
	}

	return records, total, nil
}

/*
DeleteByUser removes every record belonging to the user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Persistence failures
*/
func (repository *PostgresRepository) DeleteByUser(context context.Context, userID string) error {
	const query = "DELETE FROM chat.record WHERE userid = $1"

	_, err := repository.pool.Exec(context, query, userID)
	if err != nil {
		return fmt.Errorf("postgres_history_repo_delete_failed: %w", err)
	}

	return nil
}
