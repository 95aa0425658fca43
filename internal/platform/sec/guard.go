// Copyright (c) 2026 CyberLearn. All rights reserved.
// Author: platform@cyberlearn.io

package sec

import "github.com/cyberlearn/api/internal/platform/constants"

// # Access Control Guard

// Principal is the minimal identity view the guard decides over.
//
// It is resolved from the session store on every navigation — never cached
// between requests — so that a sign-out or a sign-in under a different role
// is reflected by the very next guard evaluation.
type Principal struct {
	UserID string
	Role   Role
}

// Decision is the outcome of an authorization check.
//
// A denied navigation always resolves to a redirect, never to an error:
// the redirect target is the only thing the caller may disclose.
type Decision struct {
	Allowed    bool
	RedirectTo string
}

// Allow is the positive authorization decision.
var Allow = Decision{Allowed: true}

// RedirectTo builds a deny decision pointing at the given path.
func RedirectTo(path string) Decision {
	return Decision{RedirectTo: path}
}

// Authorize decides whether a principal may reach a destination gated by
// the given role set.
//
// # Rules (evaluated in order)
//
//  1. No principal → redirect to the login page. This applies to every
//     protected destination, role-gated or not.
//  2. Empty required set (plain authenticated route) → allow.
//  3. Principal's role in the required set → allow.
//  4. Otherwise → redirect to the principal's own dashboard. The decision
//     carries no reason; denial is indistinguishable from navigation.
//
// The function is pure and synchronous: it must run before anything of the
// gated subtree is rendered, and must be re-evaluated on every navigation.
func Authorize(principal *Principal, required []Role) Decision {
	if principal == nil {
		return RedirectTo(constants.LoginPath)
	}

	if len(required) == 0 {
		return Allow
	}

	if principal.Role.In(required) {
		return Allow
	}

	return RedirectTo(constants.DashboardPath)
}
