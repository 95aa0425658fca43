// Copyright (c) 2026 CyberLearn. All rights reserved.
// Author: platform@cyberlearn.io

package account_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyberlearn/api/internal/platform/apperr"
	"github.com/cyberlearn/api/internal/platform/sec"
	"github.com/cyberlearn/api/internal/users/account"
	"github.com/cyberlearn/api/internal/users/auth"
)

// # Test Doubles

type fakeAccountRepo struct {
	users map[string]*auth.User
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{users: map[string]*auth.User{}}
}

func (repo *fakeAccountRepo) List(_ context.Context, filter account.Filter, limit, offset int) ([]*auth.User, int, error) {
	matches := []*auth.User{}
	for _, user := range repo.users {
		if filter.Role != "" && string(user.Role) != filter.Role {
			continue
		}
		clone := *user
		matches = append(matches, &clone)
	}

	total := len(matches)
	if offset >= total {
		return []*auth.User{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matches[offset:end], total, nil
}

func (repo *fakeAccountRepo) FindByID(_ context.Context, id string) (*auth.User, error) {
	user, ok := repo.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	clone := *user
	return &clone, nil
}

func (repo *fakeAccountRepo) Update(_ context.Context, user *auth.User) error {
	if _, ok := repo.users[user.ID]; !ok {
		return apperr.NotFound("User")
	}
	clone := *user
	repo.users[user.ID] = &clone
	return nil
}

func (repo *fakeAccountRepo) SoftDelete(_ context.Context, id string) error {
	delete(repo.users, id)
	return nil
}

// # Fixture

type fixture struct {
	repo    *fakeAccountRepo
	service *account.Service
}

func newFixture() *fixture {
	repo := newFakeAccountRepo()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &fixture{
		repo:    repo,
		service: account.NewService(repo, logger),
	}
}

func (f *fixture) seedUser(id string, role sec.Role) *auth.User {
	user := &auth.User{
		ID:        id,
		Name:      "Grace Hopper",
		Email:     id + "@example.com",
		Role:      role,
		XP:        120,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	f.repo.users[id] = user
	return user
}

func ptr(s string) *string { return &s }

// # Profile Updates

func TestUpdateProfile_Self(t *testing.T) {
	f := newFixture()
	f.seedUser("user-1", sec.RoleLearner)

	principal := &sec.Principal{UserID: "user-1", Role: sec.RoleLearner}
	updated, err := f.service.UpdateProfile(context.Background(), principal, "user-1", account.UpdateProfileInput{
		Name:      ptr("Grace B. Hopper"),
		AvatarURL: ptr("https://cdn.example.com/avatars/grace.png"),
	})

	require.NoError(t, err)
	assert.Equal(t, "Grace B. Hopper", updated.Name)
	assert.Equal(t, "https://cdn.example.com/avatars/grace.png", updated.AvatarURL)
	assert.Equal(t, sec.RoleLearner, updated.Role)
}

func TestUpdateProfile_OtherUserForbidden(t *testing.T) {
	f := newFixture()
	f.seedUser("user-1", sec.RoleLearner)
	f.seedUser("user-2", sec.RoleLearner)

	principal := &sec.Principal{UserID: "user-2", Role: sec.RoleLearner}
	_, err := f.service.UpdateProfile(context.Background(), principal, "user-1", account.UpdateProfileInput{
		Name: ptr("Hijacked"),
	})

	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "FORBIDDEN"))
	assert.Equal(t, "Grace Hopper", f.repo.users["user-1"].Name)
}

func TestUpdateProfile_RoleChangeRequiresAdmin(t *testing.T) {
	f := newFixture()
	f.seedUser("user-1", sec.RoleLearner)

	// Even on their own profile, a learner cannot self-promote.
	principal := &sec.Principal{UserID: "user-1", Role: sec.RoleLearner}
	_, err := f.service.UpdateProfile(context.Background(), principal, "user-1", account.UpdateProfileInput{
		Role: ptr("admin"),
	})

	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "FORBIDDEN"))
	assert.Equal(t, sec.RoleLearner, f.repo.users["user-1"].Role)
}

func TestUpdateProfile_AdminPromotesUser(t *testing.T) {
	f := newFixture()
	f.seedUser("user-1", sec.RoleLearner)

	adminPrincipal := &sec.Principal{UserID: "admin-1", Role: sec.RoleAdmin}
	updated, err := f.service.UpdateProfile(context.Background(), adminPrincipal, "user-1", account.UpdateProfileInput{
		Role: ptr("instructor"),
	})

	require.NoError(t, err)
	assert.Equal(t, sec.RoleInstructor, updated.Role)
	assert.Equal(t, sec.RoleInstructor, f.repo.users["user-1"].Role)
}

func TestUpdateProfile_UnknownRoleRejected(t *testing.T) {
	f := newFixture()
	f.seedUser("user-1", sec.RoleLearner)

	adminPrincipal := &sec.Principal{UserID: "admin-1", Role: sec.RoleAdmin}
	_, err := f.service.UpdateProfile(context.Background(), adminPrincipal, "user-1", account.UpdateProfileInput{
		Role: ptr("superuser"),
	})

	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "INVALID_ROLE"))
	assert.Equal(t, sec.RoleLearner, f.repo.users["user-1"].Role)
}

// # Directory and Deletion

func TestList_RoleFilter(t *testing.T) {
	f := newFixture()
	f.seedUser("user-1", sec.RoleLearner)
	f.seedUser("user-2", sec.RoleInstructor)
	f.seedUser("user-3", sec.RoleLearner)

	users, total, err := f.service.List(context.Background(), account.Filter{Role: "learner"}, 10, 0)

	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, users, 2)
	for _, user := range users {
		assert.Equal(t, sec.RoleLearner, user.Role)
	}
}

func TestDeleteAccount(t *testing.T) {
	f := newFixture()
	f.seedUser("user-1", sec.RoleLearner)

	require.NoError(t, f.service.DeleteAccount(context.Background(), "user-1"))

	_, err := f.service.GetProfile(context.Background(), "user-1")
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "NOT_FOUND"))
}
