// Copyright (c) 2026 CyberLearn. All rights reserved.
// Author: platform@cyberlearn.io

package sec

import "fmt"

// # User Roles

// Role represents the authorization level granted to an account.
//
// # Closed Set
//
// The three roles are mutually exclusive. There is no hierarchy: an admin
// does not implicitly gain instructor screens, and the guard only ever
// performs exact membership checks. Role is assigned server-side (at
// registration or by an admin) and is immutable for the lifetime of a
// session.
type Role string

const (
	// Default role for registered users following courses
	RoleLearner Role = "learner"

	// Can author and manage their own courses
	RoleInstructor Role = "instructor"

	// Platform administration: user management, any course
	RoleAdmin Role = "admin"
)

// ParseRole validates a raw role string at the trust boundary.
//
// Anything outside the closed set is rejected. Callers must never fall back
// to a default role on error: an unknown role in stored data is corruption,
// not a preference.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleLearner, RoleInstructor, RoleAdmin:
		return Role(raw), nil
	default:
		return "", fmt.Errorf("sec: unknown role %q", raw)
	}
}

// Valid reports whether the role is one of the three known values.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// In reports whether the role is a member of the required set.
//
// Exact match only. An empty set matches nothing; authenticated-only
// routes are expressed by passing no required roles to [Authorize].
func (r Role) In(required []Role) bool {
	for _, candidate := range required {
		if r == candidate {
			return true
		}
	}
	return false
}
