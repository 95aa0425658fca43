// Copyright (c) 2026 CyberLearn. All rights reserved.
// Author: platform@cyberlearn.io

/*
Package account (Postgres) implements the storage layer for user accounts.

It provides PostgreSQL implementations for the admin user directory and
profile persistence on top of the users.account table.
*/
package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cyberlearn/api/internal/platform/apperr"
	"github.com/cyberlearn/api/internal/users/auth"
)

// accountColumns is the shared projection for user account reads.
const accountColumns = `
	id, name, email, passwordhash, avatarurl, role, xp, createdat, updatedat, lastactiveat`

// PostgresAccountRepository implements [AccountRepository] using pgx.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new Postgres implementation for account management.
func NewAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

// scanUser hydrates a user entity from the accountColumns projection.
func scanUser(row pgx.Row, user *auth.User, extra ...any) error {
	destinations := []any{
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.AvatarURL,
		&user.Role,
		&user.XP,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.LastActiveAt,
	}
	destinations = append(destinations, extra...)
	return row.Scan(destinations...)
}

/*
List retrieves a filtered, paginated page of accounts with a running total.

Description: Builds a dynamic WHERE clause from the filter and resolves the
total match count in the same round-trip via a window function.

Parameters:
  - context: context.Context
  - filter: Filter
  - limit: int
  - offset: int

Returns:
  - []*auth.User: The requested page, newest accounts first
  - int: Total matches across all pages
  - error: Query or scan failures
*/
func (repository *PostgresAccountRepository) List(context context.Context, filter Filter, limit, offset int) ([]*auth.User, int, error) {
	var builder strings.Builder
	builder.WriteString(`SELECT` + accountColumns + `, COUNT(*) OVER() AS total
		FROM users.account
		WHERE deletedat IS NULL`)

	arguments := []any{}
	position := 1

	if filter.Query != "" {
		builder.WriteString(fmt.Sprintf(" AND (name ILIKE $%d OR email ILIKE $%d)", position, position))
		arguments = append(arguments, "%"+filter.Query+"%")
		position++
	}

	if filter.Role != "" {
		builder.WriteString(fmt.Sprintf(" AND role = $%d", position))
		arguments = append(arguments, filter.Role)
		position++
	}

	builder.WriteString(fmt.Sprintf(" ORDER BY createdat DESC LIMIT $%d OFFSET $%d", position, position+1))
	arguments = append(arguments, limit, offset)

	rows, err := repository.pool.Query(context, builder.String(), arguments...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_account_repo_list_failed: %w", err)
	}
	defer rows.Close()

	users := []*auth.User{}
	total := 0

	for rows.Next() {
		user := &auth.User{}
		if err := scanUser(rows, user, &total); err != nil {
			return nil, 0, fmt.Errorf("postgres_account_repo_list_scan_failed: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_account_repo_list_rows_failed: %w", err)
	}

	return users, total, nil
}

/*
FindByID retrieves a user record from the users.account table.

Parameters:
  - context: context.Context
  - id: string (UUID)

Returns:
  - *auth.User: Hydrated identity entity
  - error: apperr.NotFound or database execution failure
*/
func (repository *PostgresAccountRepository) FindByID(context context.Context, id string) (*auth.User, error) {
	const query = `
		SELECT` + accountColumns + `
		FROM users.account
		WHERE id = $1 AND deletedat IS NULL`

	user := &auth.User{}
	if err := scanUser(repository.pool.QueryRow(context, query, id), user); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_account_repo_find_by_id_failed: %w", err)
	}

	return user, nil
}

/*
Update modifies the mutable profile metadata and role of a user.

Description: Syncs the name, avatarurl, and role columns while refreshing the
updatedat timestamp. Unlike the self-service auth store, this administrative
path may rewrite the role column.

Parameters:
  - context: context.Context
  - user: *auth.User

Returns:
  - error: apperr.NotFound when the account is missing, or update failures
*/
func (repository *PostgresAccountRepository) Update(context context.Context, user *auth.User) error {
	const query = `
		UPDATE users.account
		SET name = $2, avatarurl = $3, role = $4, updatedat = $5
		WHERE id = $1 AND deletedat IS NULL`

	tag, err := repository.pool.Exec(context, query,
		user.ID,
		user.Name,
		user.AvatarURL,
		user.Role,
		time.Now(),
	)

	if err != nil {
		return fmt.Errorf("postgres_account_repo_update_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

/*
SoftDelete flags a user account as logically destroyed.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: Execution failures
*/
func (repository *PostgresAccountRepository) SoftDelete(context context.Context, id string) error {
	const query = `UPDATE users.account SET deletedat = NOW() WHERE id = $1 AND deletedat IS NULL`

	if _, err := repository.pool.Exec(context, query, id); err != nil {
		return fmt.Errorf("postgres_account_repo_soft_delete_failed: %w", err)
	}

	return nil
}
