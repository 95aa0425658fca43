// Copyright (c) 2026 CyberLearn. All rights reserved.
// Author: platform@cyberlearn.io

package progress

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cyberlearn/api/internal/platform/apperr"
)

// PostgresXPRepository implements [XPSource] against the accounts table.
type PostgresXPRepository struct {
	pool *pgxpool.Pool
}

// NewXPRepository creates a new PostgreSQL implementation of XPSource.
func NewXPRepository(pool *pgxpool.Pool) *PostgresXPRepository {
	return &PostgresXPRepository{pool: pool}
}

/*
TotalXP returns the user's cumulative experience points.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - int: Total XP
  - error: apperr.NotFound for unknown users, or database errors
*/
func (repository *PostgresXPRepository) TotalXP(context context.Context, userID string) (int, error) {
	const query = "SELECT xp FROM users.account WHERE id = $1 AND deletedat IS NULL"

	var totalXP int
	err := repository.pool.QueryRow(context, query, userID).Scan(&totalXP)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperr.NotFound("User")
		}
		return 0, fmt.Errorf("postgres_xp_total_failed: %w", err)
	}

	return totalXP, nil
}
