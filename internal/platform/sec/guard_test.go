// Copyright (c) 2026 CyberLearn. All rights reserved.
// Author: platform@cyberlearn.io

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyberlearn/api/internal/platform/constants"
	"github.com/cyberlearn/api/internal/platform/sec"
)

/*
TestAuthorize_Anonymous verifies that an absent principal always redirects to
the login page, regardless of the required role set.
*/
func TestAuthorize_Anonymous(t *testing.T) {
	roleSets := [][]sec.Role{
		nil,
		{},
		{sec.RoleLearner},
		{sec.RoleInstructor, sec.RoleAdmin},
		{sec.RoleLearner, sec.RoleInstructor, sec.RoleAdmin},
	}

	for _, roles := range roleSets {
		decision := sec.Authorize(nil, roles)
		assert.False(t, decision.Allowed)
		assert.Equal(t, constants.LoginPath, decision.RedirectTo)
	}
}

/*
TestAuthorize_RoleMatching covers the exact-membership rules: a role in the
required set is allowed, everything else is sent to the dashboard. There is
no hierarchy; admin does not implicitly pass instructor gates.
*/
func TestAuthorize_RoleMatching(t *testing.T) {
	tests := []struct {
		name     string
		role     sec.Role
		required []sec.Role
		allowed  bool
	}{
		{"empty_set_allows_any_authenticated", sec.RoleLearner, nil, true},
		{"empty_slice_allows_any_authenticated", sec.RoleAdmin, []sec.Role{}, true},
		{"learner_on_learner_route", sec.RoleLearner, []sec.Role{sec.RoleLearner}, true},
		{"instructor_in_multi_set", sec.RoleInstructor, []sec.Role{sec.RoleInstructor, sec.RoleAdmin}, true},
		{"learner_on_admin_route", sec.RoleLearner, []sec.Role{sec.RoleAdmin}, false},
		{"admin_on_instructor_route_no_hierarchy", sec.RoleAdmin, []sec.Role{sec.RoleInstructor}, false},
		{"instructor_on_learner_route", sec.RoleInstructor, []sec.Role{sec.RoleLearner}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			principal := &sec.Principal{UserID: "user-1", Role: tt.role}

			decision := sec.Authorize(principal, tt.required)

			if tt.allowed {
				assert.True(t, decision.Allowed)
				assert.Empty(t, decision.RedirectTo)
			} else {
				assert.False(t, decision.Allowed)
				// A role mismatch lands on the user's own home, never the
				// login page, and discloses nothing else.
				assert.Equal(t, constants.DashboardPath, decision.RedirectTo)
				assert.NotEqual(t, constants.LoginPath, decision.RedirectTo)
			}
		})
	}
}

/*
TestParseRole ensures the role enumeration is closed at the trust boundary.
*/
func TestParseRole(t *testing.T) {
	tests := []struct {
		raw     string
		want    sec.Role
		wantErr bool
	}{
		{"learner", sec.RoleLearner, false},
		{"instructor", sec.RoleInstructor, false},
		{"admin", sec.RoleAdmin, false},
		{"Admin", "", true},
		{"superuser", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run("raw_"+tt.raw, func(t *testing.T) {
			role, err := sec.ParseRole(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, role)
			}
		})
	}
}

/*
TestRole_In checks exact set membership for the role type.
*/
func TestRole_In(t *testing.T) {
	assert.True(t, sec.RoleLearner.In([]sec.Role{sec.RoleLearner, sec.RoleAdmin}))
	assert.False(t, sec.RoleInstructor.In([]sec.Role{sec.RoleLearner, sec.RoleAdmin}))
	assert.False(t, sec.RoleAdmin.In(nil))
}
