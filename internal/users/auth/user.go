// Copyright (c) 2026 CyberLearn. All rights reserved.
// Author: platform@cyberlearn.io

/*
Package auth implements the user identity and session management layer.

It defines the core domain entities (User, Identity) and the logic for
registration, sign-in, and session lifecycle.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no external
dependencies and encapsulate all business rules related to user identity.
*/
package auth

import (
	"time"

	"github.com/cyberlearn/api/internal/platform/sec"
)

// # Domain Entities

// User represents a registered account on the CyberLearn platform.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Explicitly omitted from JSON for security.
	AvatarURL    string    `json:"avatar_url,omitempty"`
	Role         sec.Role  `json:"role"`
	XP           int       `json:"xp"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	LastActiveAt time.Time `json:"last_active_at"`
}

// Identity is the serialized view of an authenticated principal.
//
// It is the exact record written to the session store on sign-in and read
// back on every protected navigation. Level and XP are optional on read:
// a record persisted before those fields existed still deserializes, and
// the progression engine treats the absent values as level 1 with 0 XP.
type Identity struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	Role   sec.Role `json:"role"`
	Level  int      `json:"level,omitempty"`
	XP     int      `json:"xp,omitempty"`
	Avatar string   `json:"avatar,omitempty"`
}

// Principal converts the identity into the minimal view the access guard
// decides over.
func (identity *Identity) Principal() *sec.Principal {
	return &sec.Principal{UserID: identity.ID, Role: identity.Role}
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldName            = "name"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirm_password"
	FieldToken           = "token"
	FieldAccessToken     = "access_token"
	FieldTokenType       = "token_type"
	FieldExpiresIn       = "expires_in"
	FieldUser            = "user"
	FieldMessage         = "message"
)
