// Copyright (c) 2026 CyberLearn. All rights reserved.
// Author: platform@cyberlearn.io

package middleware

import (
	"context"
	"net/http"

	"github.com/cyberlearn/api/internal/platform/constants"
	"github.com/cyberlearn/api/internal/platform/ctxutil"
	"github.com/cyberlearn/api/internal/platform/respond"
	"github.com/cyberlearn/api/internal/platform/sec"
)

// SessionResolver maps an opaque session token to the principal it belongs to.
//
// # Why an interface?
//
// Defining SessionResolver here decouples the middleware from the session
// store implementation, allowing tests to inject an in-memory resolver.
//
// A nil principal with a nil error means "no such session" — the request
// simply proceeds anonymously and the guard decides what that implies.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*sec.Principal, error)
}

// ResolveSession re-reads the session store on every request and injects the
// resulting [*sec.Principal] into the context.
//
// # Flow
//
//  1. Read the session cookie. Absent cookie → anonymous request.
//  2. Look up the token in the session store. The lookup is never cached
//     across requests: a sign-out or a replacing sign-in is visible to the
//     very next guard evaluation (last session write wins).
//  3. Inject the principal for downstream guards and handlers.
//
// Resolution failures degrade to anonymous rather than erroring: the guard
// turns anonymity into a login redirect downstream.
func ResolveSession(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			cookie, err := request.Cookie(constants.SessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(writer, request)
				return
			}

			principal, err := resolver.Resolve(request.Context(), cookie.Value)
			if err != nil || principal == nil {
				next.ServeHTTP(writer, request)
				return
			}

			ctx := ctxutil.WithPrincipal(request.Context(), principal)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// Protect gates a navigation subtree behind the access-control guard.
//
// # Usage
//
// Must be registered in the router AFTER [ResolveSession]. Passing no roles
// expresses a plain authenticated route; passing roles gates the subtree to
// exactly those roles (no hierarchy — admin does not imply instructor).
//
// # Flow
//
//  1. Read the session-resolved principal from context.
//  2. Run [sec.Authorize] synchronously, before any handler executes, so
//     nothing of the gated subtree is ever written on a deny.
//  3. A deny answers with a 303 to the decision path (/login or /dashboard)
//     and discloses nothing else.
func Protect(roles ...sec.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			principal := ctxutil.GetPrincipal(request.Context())

			decision := sec.Authorize(principal, roles)
			if !decision.Allowed {
				respond.Redirect(writer, request, decision.RedirectTo)
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// RequireAuth blocks anonymous requests on a plain authenticated route.
//
// Equivalent to Protect with an empty role set.
func RequireAuth(next http.Handler) http.Handler {
	return Protect()(next)
}
