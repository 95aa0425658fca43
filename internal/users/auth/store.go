// Copyright (c) 2026 CyberLearn. All rights reserved.
// Author: platform@cyberlearn.io

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		Create persists a brand-new user account to the storage.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, user *User) error

	/*
		Update persists changes to mutable profile fields.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures
	*/
	Update(context context.Context, user *User) error

	/*
		UpdatePassword replaces only the user's password hash.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - newHash: string

		Returns:
		  - error: Persistence failures
	*/
	UpdatePassword(context context.Context, userID, newHash string) error

	/*
		TouchLastActive stamps the user's last activity to now.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Persistence failures
	*/
	TouchLastActive(context context.Context, userID string) error
}

// # Session Data Access

// SessionStore defines the persistence contract for the single-slot session.
//
// Each opaque token owns exactly one slot holding the serialized [Identity].
// Writes are atomic at the granularity of one slot: a reader observes either
// the previous identity or the new one, never a partial record. A new
// sign-in under the same client silently replaces the prior identity, and
// every guard evaluation re-reads the slot so the last write always wins.
type SessionStore interface {

	/*
		Get reads the identity stored under the given session token.

		Parameters:
		  - context: context.Context
		  - token: string

		Returns:
		  - *Identity: Deserialized session record
		  - error: apperr.NotFound when the slot is empty or expired
	*/
	Get(context context.Context, token string) (*Identity, error)

	/*
		Set writes the identity under the given session token with a TTL.

		Parameters:
		  - context: context.Context
		  - token: string
		  - identity: *Identity
		  - ttl: time.Duration

		Returns:
		  - error: Serialization or persistence failures
	*/
	Set(context context.Context, token string, identity *Identity, ttl time.Duration) error

	/*
		Clear removes the session slot. Clearing an absent slot is not an error.

		Parameters:
		  - context: context.Context
		  - token: string

		Returns:
		  - error: Persistence failures
	*/
	Clear(context context.Context, token string) error
}

// # Volatile Data Access

// ResetTokenRepository defines the contract for storing volatile password reset tokens.
type ResetTokenRepository interface {

	/*
		Set stores a reset token associated with a userID for a limited duration.

		Parameters:
		  - context: context.Context
		  - token: string
		  - userID: string
		  - ttl: time.Duration

		Returns:
		  - error: Persistence failures
	*/
	Set(context context.Context, token string, userID string, ttl time.Duration) error

	/*
		Get retrieves the userID associated with a given reset token.

		Parameters:
		  - context: context.Context
		  - token: string

		Returns:
		  - string: UserID
		  - error: Retrieval failures
	*/
	Get(context context.Context, token string) (string, error)

	/*
		Delete removes a reset token after successful use.

		Parameters:
		  - context: context.Context
		  - token: string

		Returns:
		  - error: Persistence failures
	*/
	Delete(context context.Context, token string) error
}
