// Copyright (c) 2026 CyberLearn. All rights reserved.
// Author: platform@cyberlearn.io

package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyberlearn/api/internal/platform/apperr"
	"github.com/cyberlearn/api/internal/platform/sec"
	"github.com/cyberlearn/api/internal/users/auth"
)

// # In-Memory Fakes

type fakeUserRepo struct {
	byEmail map[string]*auth.User
	byID    map[string]*auth.User

	// findByEmailErr, when set, makes FindByEmail fail unconditionally.
	findByEmailErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail: map[string]*auth.User{},
		byID:    map[string]*auth.User{},
	}
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*auth.User, error) {
	if user, ok := r.byID[id]; ok {
		return user, nil
	}
	return nil, apperr.NotFound("User")
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	if r.findByEmailErr != nil {
		return nil, r.findByEmailErr
	}
	if user, ok := r.byEmail[email]; ok {
		return user, nil
	}
	return nil, apperr.NotFound("User")
}

func (r *fakeUserRepo) Create(_ context.Context, user *auth.User) error {
	r.byEmail[user.Email] = user
	r.byID[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *auth.User) error {
	r.byEmail[user.Email] = user
	r.byID[user.ID] = user
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, userID, newHash string) error {
	if user, ok := r.byID[userID]; ok {
		user.PasswordHash = newHash
	}
	return nil
}

func (r *fakeUserRepo) TouchLastActive(_ context.Context, userID string) error {
	if user, ok := r.byID[userID]; ok {
		user.LastActiveAt = time.Now()
	}
	return nil
}

type fakeSessionStore struct {
	slots map[string]*auth.Identity
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{slots: map[string]*auth.Identity{}}
}

func (s *fakeSessionStore) Get(_ context.Context, token string) (*auth.Identity, error) {
	if identity, ok := s.slots[token]; ok {
		return identity, nil
	}
	return nil, apperr.NotFound("Session")
}

func (s *fakeSessionStore) Set(_ context.Context, token string, identity *auth.Identity, _ time.Duration) error {
	s.slots[token] = identity
	return nil
}

func (s *fakeSessionStore) Clear(_ context.Context, token string) error {
	delete(s.slots, token)
	return nil
}

type fakeResetRepo struct {
	tokens map[string]string
}

func newFakeResetRepo() *fakeResetRepo {
	return &fakeResetRepo{tokens: map[string]string{}}
}

func (r *fakeResetRepo) Set(_ context.Context, token, userID string, _ time.Duration) error {
	r.tokens[token] = userID
	return nil
}

func (r *fakeResetRepo) Get(_ context.Context, token string) (string, error) {
	if userID, ok := r.tokens[token]; ok {
		return userID, nil
	}
	return "", apperr.NotFound("Reset token")
}

func (r *fakeResetRepo) Delete(_ context.Context, token string) error {
	delete(r.tokens, token)
	return nil
}

type fakeTokenProvider struct{}

func (fakeTokenProvider) GenerateAccessToken(userID, _, _ string, _ time.Duration) (string, error) {
	return "signed-token-for-" + userID, nil
}

type fixture struct {
	service  *auth.Service
	users    *fakeUserRepo
	sessions *fakeSessionStore
	resets   *fakeResetRepo
}

func newFixture() *fixture {
	users := newFakeUserRepo()
	sessions := newFakeSessionStore()
	resets := newFakeResetRepo()

	return &fixture{
		service:  auth.NewService(users, sessions, resets, fakeTokenProvider{}),
		users:    users,
		sessions: sessions,
		resets:   resets,
	}
}

func validSignUp() auth.SignUpInput {
	return auth.SignUpInput{
		Name:            "Ada Lovelace",
		Email:           "ada@example.com",
		Password:        "s3cret-pass",
		ConfirmPassword: "s3cret-pass",
	}
}

// # Registration

/*
TestSignUp_ValidationOrdering verifies that the registration rules run in
their fixed order and that the first failure wins.
*/
func TestSignUp_ValidationOrdering(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*auth.SignUpInput)
		wantCode string
	}{
		{
			name: "mismatch_reported_before_weakness",
			mutate: func(in *auth.SignUpInput) {
				// Both short AND mismatched: mismatch must win.
				in.Password = "abc12"
				in.ConfirmPassword = "abc13"
			},
			wantCode: auth.CodePasswordMismatch,
		},
		{
			name: "mismatch_with_long_passwords",
			mutate: func(in *auth.SignUpInput) {
				in.Password = "abcdef"
				in.ConfirmPassword = "abcdeg"
			},
			wantCode: auth.CodePasswordMismatch,
		},
		{
			name: "five_char_password_is_weak",
			mutate: func(in *auth.SignUpInput) {
				in.Password = "abc12"
				in.ConfirmPassword = "abc12"
			},
			wantCode: auth.CodeWeakPassword,
		},
		{
			name: "empty_name_is_missing_fields",
			mutate: func(in *auth.SignUpInput) {
				in.Name = ""
			},
			wantCode: auth.CodeMissingFields,
		},
		{
			name: "empty_email_is_missing_fields",
			mutate: func(in *auth.SignUpInput) {
				in.Email = ""
			},
			wantCode: auth.CodeMissingFields,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFixture()
			input := validSignUp()
			tt.mutate(&input)

			session, err := fx.service.SignUp(context.Background(), input)

			require.Error(t, err)
			assert.Nil(t, session)
			assert.True(t, apperr.IsCode(err, tt.wantCode), "expected code %s, got %v", tt.wantCode, err)
		})
	}
}

/*
TestSignUp_Success checks that a new account is created with the server-assigned
learner role and that registration establishes a live session.
*/
func TestSignUp_Success(t *testing.T) {
	fx := newFixture()

	session, err := fx.service.SignUp(context.Background(), validSignUp())
	require.NoError(t, err)
	require.NotNil(t, session)

	assert.NotEmpty(t, session.SessionToken)
	assert.NotEmpty(t, session.AccessToken)

	identity := session.Identity
	require.NotNil(t, identity)
	assert.Equal(t, sec.RoleLearner, identity.Role)
	assert.Equal(t, 1, identity.Level)
	assert.Equal(t, 0, identity.XP)
	assert.Equal(t, "ada@example.com", identity.Email)

	// The identity is readable back through the session slot.
	stored, err := fx.service.CurrentIdentity(context.Background(), session.SessionToken)
	require.NoError(t, err)
	assert.Equal(t, identity.ID, stored.ID)

	// The password is stored hashed, never in the clear.
	user := fx.users.byEmail["ada@example.com"]
	require.NotNil(t, user)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
	assert.True(t, sec.CheckPasswordHash("s3cret-pass", user.PasswordHash))
}

/*
TestSignUp_DuplicateEmail verifies the conflict path for repeated registration.
*/
func TestSignUp_DuplicateEmail(t *testing.T) {
	fx := newFixture()

	_, err := fx.service.SignUp(context.Background(), validSignUp())
	require.NoError(t, err)

	_, err = fx.service.SignUp(context.Background(), validSignUp())
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "EMAIL_TAKEN"))
}

/*
TestSignUp_EmailLookupFailure keeps a storage failure during the uniqueness
check from being read as "email available": the error propagates and no
account is created.
*/
func TestSignUp_EmailLookupFailure(t *testing.T) {
	fx := newFixture()
	lookupErr := errors.New("connection reset")
	fx.users.findByEmailErr = lookupErr

	_, err := fx.service.SignUp(context.Background(), validSignUp())
	require.Error(t, err)
	assert.ErrorIs(t, err, lookupErr)
	assert.False(t, apperr.IsCode(err, "EMAIL_TAKEN"))
	assert.Empty(t, fx.users.byEmail)
}

// # Authentication

/*
TestSignIn covers credential verification, including the generic error shape
that prevents account enumeration.
*/
func TestSignIn(t *testing.T) {
	fx := newFixture()
	_, err := fx.service.SignUp(context.Background(), validSignUp())
	require.NoError(t, err)

	t.Run("valid_credentials", func(t *testing.T) {
		session, err := fx.service.SignIn(context.Background(), auth.SignInInput{
			Email:    "ada@example.com",
			Password: "s3cret-pass",
		})
		require.NoError(t, err)
		assert.Equal(t, "ada@example.com", session.Identity.Email)
		assert.NotEmpty(t, session.SessionToken)
	})

	t.Run("wrong_password", func(t *testing.T) {
		_, err := fx.service.SignIn(context.Background(), auth.SignInInput{
			Email:    "ada@example.com",
			Password: "wrong-pass",
		})
		require.Error(t, err)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "UNAUTHORIZED", ae.Code)
	})

	t.Run("unknown_email_same_error_shape", func(t *testing.T) {
		_, unknownErr := fx.service.SignIn(context.Background(), auth.SignInInput{
			Email:    "nobody@example.com",
			Password: "s3cret-pass",
		})
		_, wrongErr := fx.service.SignIn(context.Background(), auth.SignInInput{
			Email:    "ada@example.com",
			Password: "wrong-pass",
		})
		require.Error(t, unknownErr)
		require.Error(t, wrongErr)
		assert.Equal(t, wrongErr.Error(), unknownErr.Error())
	})
}

/*
TestSignIn_LastWriteWins documents the single-slot semantics:
each sign-in issues a fresh token and the latest slot written is the one a
subsequent read observes.
*/
func TestSignIn_LastWriteWins(t *testing.T) {
	fx := newFixture()
	first, err := fx.service.SignUp(context.Background(), validSignUp())
	require.NoError(t, err)

	second, err := fx.service.SignIn(context.Background(), auth.SignInInput{
		Email:    "ada@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.NotEqual(t, first.SessionToken, second.SessionToken)

	identity, err := fx.service.CurrentIdentity(context.Background(), second.SessionToken)
	require.NoError(t, err)
	assert.Equal(t, second.Identity.ID, identity.ID)
}

// # Session Lifecycle

/*
TestSignOut_Idempotent checks that clearing a session twice, or clearing a
never-issued token, is not an error.
*/
func TestSignOut_Idempotent(t *testing.T) {
	fx := newFixture()
	session, err := fx.service.SignUp(context.Background(), validSignUp())
	require.NoError(t, err)

	require.NoError(t, fx.service.SignOut(context.Background(), session.SessionToken))
	require.NoError(t, fx.service.SignOut(context.Background(), session.SessionToken))
	require.NoError(t, fx.service.SignOut(context.Background(), "never-issued"))
	require.NoError(t, fx.service.SignOut(context.Background(), ""))

	_, err = fx.service.CurrentIdentity(context.Background(), session.SessionToken)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "NOT_FOUND"))
}

/*
TestCurrentIdentity_Anonymous verifies the empty-token and absent-slot paths.
*/
func TestCurrentIdentity_Anonymous(t *testing.T) {
	fx := newFixture()

	_, err := fx.service.CurrentIdentity(context.Background(), "")
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "NOT_FOUND"))

	_, err = fx.service.CurrentIdentity(context.Background(), "stale-token")
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "NOT_FOUND"))
}

// # Password Recovery

/*
TestPasswordResetFlow walks the full forgot-password loop: request, reset,
then sign in with the new password.
*/
func TestPasswordResetFlow(t *testing.T) {
	fx := newFixture()
	_, err := fx.service.SignUp(context.Background(), validSignUp())
	require.NoError(t, err)

	token, err := fx.service.RequestPasswordReset(context.Background(), "ada@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.NoError(t, fx.service.ResetPassword(context.Background(), token, "new-password"))

	// The token is single-use.
	err = fx.service.ResetPassword(context.Background(), token, "another-pass")
	require.Error(t, err)

	_, err = fx.service.SignIn(context.Background(), auth.SignInInput{
		Email:    "ada@example.com",
		Password: "new-password",
	})
	require.NoError(t, err)
}

/*
TestRequestPasswordReset_UnknownEmail documents that an unknown email yields
no token and no error, to prevent account enumeration.
*/
func TestRequestPasswordReset_UnknownEmail(t *testing.T) {
	fx := newFixture()

	token, err := fx.service.RequestPasswordReset(context.Background(), "ghost@example.com")
	require.NoError(t, err)
	assert.Empty(t, token)
}
