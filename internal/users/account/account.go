// Copyright (c) 2026 CyberLearn. All rights reserved.
// Author: platform@cyberlearn.io

/*
Package account handles user profile management and the admin user directory.

It provides functionality for users to view and update their own profile, and
for administrators to list, inspect, promote, and remove accounts.

# Architecture

  - Entities: This package depends on the auth package for the User entity.
  - Security: Role changes are an admin-only operation enforced in the service.
*/
package account

import (
	"context"

	"github.com/cyberlearn/api/internal/users/auth"
)

// # Domain Filters

// Filter narrows the admin user directory listing.
type Filter struct {
	Query string // Case-insensitive match against name or email.
	Role  string // Exact role filter; empty means all roles.
}

// # Repository Contracts

// AccountRepository defines the persistence contract for user accounts.
type AccountRepository interface {
	/*
		List retrieves a page of user accounts matching the filter.

		Parameters:
		  - context: context.Context
		  - filter: Filter (Directory narrowing criteria)
		  - limit: int
		  - offset: int

		Returns:
		  - []*auth.User: The matching page of accounts
		  - int: Total number of matches across all pages
		  - error: Storage failures
	*/
	List(context context.Context, filter Filter, limit, offset int) ([]*auth.User, int, error)

	/*
		FindByID retrieves a user record by their unique ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *auth.User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*auth.User, error)

	/*
		Update modifies the mutable profile fields of an existing user,
		including the role column.

		Parameters:
		  - context: context.Context
		  - user: *auth.User (Hydrated entity with changes)

		Returns:
		  - error: Storage or constraint failures
	*/
	Update(context context.Context, user *auth.User) error

	/*
		SoftDelete flags an account as logically deleted.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: Execution failures
	*/
	SoftDelete(context context.Context, id string) error
}
