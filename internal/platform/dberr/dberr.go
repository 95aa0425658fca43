// Copyright (c) 2026 CyberLearn. All rights reserved.
// Author: platform@cyberlearn.io

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
//
// Stores use it to classify PostgreSQL constraint violations without
// leaking SQLSTATE codes or driver types into domain code.
package dberr

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/cyberlearn/api/internal/platform/apperr"
)

// PostgreSQL SQLSTATE codes relevant to constraint handling.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

// IsUniqueViolation reports whether err is a unique-constraint violation.
//
// Stores rely on this to turn insert races (duplicate email, duplicate slug)
// into domain conflicts instead of 500s.
func IsUniqueViolation(err error) bool {
	return hasSQLState(err, codeUniqueViolation)
}

// IsForeignKeyViolation reports whether err is a foreign-key violation,
// typically an insert referencing a row that no longer exists.
func IsForeignKeyViolation(err error) bool {
	return hasSQLState(err, codeForeignKeyViolation)
}

// IsCheckViolation reports whether err violated a CHECK constraint.
func IsCheckViolation(err error) bool {
	return hasSQLState(err, codeCheckViolation)
}

// hasSQLState unwraps err looking for a [pgconn.PgError] with the given code.
func hasSQLState(err error, code string) bool {
	var pgError *pgconn.PgError
	return errors.As(err, &pgError) && pgError.Code == code
}

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
//
// Parameters:
//   - err: error (The raw driver error)
//   - resource: string (Human name used in the not-found message, e.g. "Course")
func Wrap(err error, resource string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource)
	}

	if IsForeignKeyViolation(err) {
		return apperr.NotFound(resource)
	}

	return apperr.Internal(err)
}
