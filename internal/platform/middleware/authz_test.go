// Copyright (c) 2026 CyberLearn. All rights reserved.
// Author: platform@cyberlearn.io

package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyberlearn/api/internal/platform/constants"
	"github.com/cyberlearn/api/internal/platform/middleware"
	"github.com/cyberlearn/api/internal/platform/sec"
)

// # Test Doubles

// fakeResolver is an in-memory session store: token → principal.
type fakeResolver struct {
	sessions map[string]*sec.Principal
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{sessions: map[string]*sec.Principal{}}
}

func (r *fakeResolver) Resolve(_ context.Context, token string) (*sec.Principal, error) {
	return r.sessions[token], nil
}

// # Fixture

// gated builds the production chain (session resolution, then the guard)
// around a marker handler and reports whether the handler ran.
func gated(resolver middleware.SessionResolver, roles ...sec.Role) (http.Handler, *bool) {
	handlerRan := false
	marker := http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		handlerRan = true
		writer.WriteHeader(http.StatusOK)
		_, _ = writer.Write([]byte("secret"))
	})

	chain := middleware.ResolveSession(resolver)(middleware.Protect(roles...)(marker))
	return chain, &handlerRan
}

// request issues a GET through the chain, optionally carrying a session cookie.
func request(t *testing.T, chain http.Handler, token string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: token})
	}

	recorder := httptest.NewRecorder()
	chain.ServeHTTP(recorder, req)
	return recorder
}

// # Guard Translation

/*
TestProtect_AnonymousRedirectsToLogin verifies that a request without a
session answers 303 to the login path and never reaches the handler.
*/
func TestProtect_AnonymousRedirectsToLogin(t *testing.T) {
	chain, handlerRan := gated(newFakeResolver(), sec.RoleAdmin)

	recorder := request(t, chain, "")

	assert.Equal(t, http.StatusSeeOther, recorder.Code)
	assert.Equal(t, constants.LoginPath, recorder.Header().Get("Location"))
	assert.False(t, *handlerRan)
	assert.NotContains(t, recorder.Body.String(), "secret")
}

/*
TestProtect_RoleMismatchRedirectsToDashboard verifies that a signed-in user
outside the required role set is sent to the dashboard, with nothing of the
gated resource written.
*/
func TestProtect_RoleMismatchRedirectsToDashboard(t *testing.T) {
	resolver := newFakeResolver()
	resolver.sessions["token-1"] = &sec.Principal{UserID: "user-1", Role: sec.RoleLearner}

	chain, handlerRan := gated(resolver, sec.RoleAdmin)

	recorder := request(t, chain, "token-1")

	assert.Equal(t, http.StatusSeeOther, recorder.Code)
	assert.Equal(t, constants.DashboardPath, recorder.Header().Get("Location"))
	assert.False(t, *handlerRan)
	assert.NotContains(t, recorder.Body.String(), "secret")
}

/*
TestProtect_ExactRoleAllowed verifies membership is exact: the matching role
passes, and no role implies another.
*/
func TestProtect_ExactRoleAllowed(t *testing.T) {
	resolver := newFakeResolver()
	resolver.sessions["token-1"] = &sec.Principal{UserID: "user-1", Role: sec.RoleInstructor}

	allowed, allowedRan := gated(resolver, sec.RoleInstructor, sec.RoleAdmin)
	recorder := request(t, allowed, "token-1")

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.True(t, *allowedRan)

	// Instructor does not imply admin.
	denied, deniedRan := gated(resolver, sec.RoleAdmin)
	recorder = request(t, denied, "token-1")

	assert.Equal(t, http.StatusSeeOther, recorder.Code)
	assert.Equal(t, constants.DashboardPath, recorder.Header().Get("Location"))
	assert.False(t, *deniedRan)
}

/*
TestRequireAuth_AllowsAnySignedInRole verifies the empty role set admits any
authenticated principal but still blocks anonymous navigation.
*/
func TestRequireAuth_AllowsAnySignedInRole(t *testing.T) {
	resolver := newFakeResolver()
	resolver.sessions["token-1"] = &sec.Principal{UserID: "user-1", Role: sec.RoleLearner}

	chain, handlerRan := gated(resolver)

	recorder := request(t, chain, "token-1")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.True(t, *handlerRan)

	recorder = request(t, chain, "")
	assert.Equal(t, http.StatusSeeOther, recorder.Code)
	assert.Equal(t, constants.LoginPath, recorder.Header().Get("Location"))
}

/*
TestProtect_SignOutVisibleOnNextRequest verifies the store is re-read per
request: clearing the session between two otherwise identical requests flips
the second one from allowed to a login redirect.
*/
func TestProtect_SignOutVisibleOnNextRequest(t *testing.T) {
	resolver := newFakeResolver()
	resolver.sessions["token-1"] = &sec.Principal{UserID: "user-1", Role: sec.RoleAdmin}

	chain, handlerRan := gated(resolver, sec.RoleAdmin)

	recorder := request(t, chain, "token-1")
	require.Equal(t, http.StatusOK, recorder.Code)
	require.True(t, *handlerRan)

	// Sign out: the slot disappears from the store.
	delete(resolver.sessions, "token-1")
	*handlerRan = false

	recorder = request(t, chain, "token-1")
	assert.Equal(t, http.StatusSeeOther, recorder.Code)
	assert.Equal(t, constants.LoginPath, recorder.Header().Get("Location"))
	assert.False(t, *handlerRan)
}
