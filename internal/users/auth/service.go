// Copyright (c) 2026 CyberLearn. All rights reserved.
// Author: platform@cyberlearn.io

/*
Package auth implements the core identity and access management (IAM) system.

It handles everything from account registration and secure password hashing to
session lifecycle management via opaque session tokens (stored in Redis) and
RSA-signed JWTs for API clients.

Architecture:

  - Service: Orchestrates business logic (SignUp, SignIn, SignOut).
  - Repository: Abstracted interfaces for Postgres (Users) and Redis (Sessions).
  - Security: Leverages Bcrypt hashing and RSA-signed JWTs.

The session slot is the single source of truth for who is signed in: the access
guard never trusts a token's claims for navigation, it re-reads the slot.
*/
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/cyberlearn/api/internal/learning/progress"
	"github.com/cyberlearn/api/internal/platform/apperr"
	"github.com/cyberlearn/api/internal/platform/sec"
	"github.com/cyberlearn/api/pkg/uuid"
)

// # Contracts & Types

// TokenProvider defines the contract for generating security tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given user.
	//
	// # Parameters
	//   - userID: The ID of the account.
	//   - email: The email of the account.
	//   - role: The role of the account.
	//   - timeToLive: The duration before the token expires.
	//
	// # Returns
	//   - A signed JWT string, or an err if signing fails.
	GenerateAccessToken(userID, email, role string, timeToLive time.Duration) (string, error)
}

// Service implements identity use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or sign-in logic must be reviewed by the security team.
type Service struct {
	userRepository       UserRepository
	sessionStore         SessionStore
	resetTokenRepository ResetTokenRepository
	tokenProvider        TokenProvider
}

// NewService constructs a new auth [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	sessionStore SessionStore,
	resetRepo ResetTokenRepository,
	tokenProv TokenProvider,
) *Service {
	return &Service{
		userRepository:       userRepo,
		sessionStore:         sessionStore,
		resetTokenRepository: resetRepo,
		tokenProvider:        tokenProv,
	}
}

// AuthSession represents a successfully established sign-in.
type AuthSession struct {
	AccessToken      string
	SessionToken     string
	SessionExpiresAt time.Time
	Identity         *Identity
}

// # Registration Flow

// SignUpInput holds the data required to enroll a new member.
type SignUpInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

// Validate applies the registration rules in their required order.
//
// The rules are ordered and the first failure wins: mismatch is reported
// before weakness, weakness before missing fields. A mismatched pair of
// short passwords is therefore a PASSWORD_MISMATCH, never a WEAK_PASSWORD.
func (input SignUpInput) Validate() error {
	if input.Password != input.ConfirmPassword {
		return apperr.Invalid(CodePasswordMismatch, "Passwords do not match")
	}
	if len(input.Password) < MinPasswordLength {
		return apperr.Invalid(CodeWeakPassword, fmt.Sprintf("Password must be at least %d characters", MinPasswordLength))
	}
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return apperr.Invalid(CodeMissingFields, "Name, email and password are required")
	}
	return nil
}

/*
SignUp validates, hashes, and persists a brand new user account.

Description: Applies the ordered registration rules, persists the account with
the server-assigned learner role, and establishes the user's first session.

Parameters:
  - context: context.Context
  - input: SignUpInput

Returns:
  - *AuthSession: Established session with identity
  - err: Ordered validation failures, Conflict (if email exists) or storage errors
*/
func (service *Service) SignUp(context context.Context, input SignUpInput) (*AuthSession, error) {

	// Ordered business validation runs before any storage access.
	if err := input.Validate(); err != nil {
		return nil, err
	}

	// Verify email uniqueness. Return a client-safe Conflict err. Only a
	// confirmed miss means the address is free; a storage failure must not
	// be read as availability.
	_, err := service.userRepository.FindByEmail(context, input.Email)
	switch {
	case err == nil:
		return nil, apperr.Conflict("EMAIL_TAKEN", "Email is already registered")
	case !apperr.IsCode(err, "NOT_FOUND"):
		return nil, fmt.Errorf("auth_service_signup_lookup_failed: %w", err)
	}

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Construct the new User entity. Time-sortable ID to prevent PG index fragmentation.
	// Role is always assigned server-side; clients never choose their role.
	user := &User{
		ID:           uuid.New(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		Role:         sec.RoleLearner,
		XP:           0,
	}

	// Persist the user to the database
	if err := service.userRepository.Create(context, user); err != nil {
		return nil, fmt.Errorf("auth_service_signup_failed: %w", err)
	}

	// Sign-up doubles as the first sign-in
	return service.establishSession(context, user)
}

// # Authentication Flow

// SignInInput defines credentials for an authentication attempt.
type SignInInput struct {
	Email    string
	Password string
}

/*
SignIn validates user credentials and establishes a session.

Description: Verifies identity with a constant-time password comparison and
writes a fresh identity record into the session store. A client signing in
again simply receives a new slot; its previous identity is replaced the
moment the new cookie lands.

Parameters:
  - context: context.Context
  - input: SignInInput

Returns:
  - *AuthSession: Transport-ready session identifiers
  - err: Unauthorized or internal failures
*/
func (service *Service) SignIn(context context.Context, input SignInInput) (*AuthSession, error) {
	user, err := service.userRepository.FindByEmail(context, input.Email)

	// If (err != nil) the user does not exist. Generic message to prevent enumeration.
	if err != nil {
		return nil, apperr.Unauthorized("Invalid email or password")
	}

	// Verify password hash using constant-time comparison in bcrypt to prevent timing attacks
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid email or password")
	}

	// Activity stamp is best-effort; a failed touch must not block sign-in.
	if err := service.userRepository.TouchLastActive(context, user.ID); err == nil {
		user.LastActiveAt = time.Now()
	}

	return service.establishSession(context, user)
}

// establishSession issues the token pair and writes the identity slot.
//
// The slot write is a single atomic SET: a concurrent guard evaluation
// observes either the previous identity or this one, never a partial record.
func (service *Service) establishSession(context context.Context, user *User) (*AuthSession, error) {

	// Generate short-lived Access Token for API clients
	accessToken, err := service.tokenProvider.GenerateAccessToken(user.ID, user.Email, string(user.Role), AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	// Generate the long-lived opaque session token
	sessionToken, err := sec.GenerateSecureToken(SessionTokenLength)
	if err != nil {
		return nil, fmt.Errorf("auth_service_session_token_failed: %w", err)
	}

	identity := service.buildIdentity(user)

	if err := service.sessionStore.Set(context, sessionToken, identity, SessionTTL); err != nil {
		return nil, fmt.Errorf("auth_service_session_write_failed: %w", err)
	}

	return &AuthSession{
		AccessToken:      accessToken,
		SessionToken:     sessionToken,
		SessionExpiresAt: time.Now().Add(SessionTTL),
		Identity:         identity,
	}, nil
}

// buildIdentity projects a user row into the session record, deriving the
// level from total XP so the presentation layer never recomputes it.
func (service *Service) buildIdentity(user *User) *Identity {
	summary := progress.LevelProgress(user.XP, progress.DefaultThresholds)

	return &Identity{
		ID:     user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   user.Role,
		Level:  summary.Level,
		XP:     user.XP,
		Avatar: user.AvatarURL,
	}
}

// # Session Management

/*
SignOut clears the active session slot.

Description: Idempotent by contract. Signing out twice, or with a token whose
slot already expired, is not an error.

Parameters:
  - context: context.Context
  - sessionToken: string

Returns:
  - err: Storage failures only
*/
func (service *Service) SignOut(context context.Context, sessionToken string) error {
	if sessionToken == "" {
		return nil
	}

	if err := service.sessionStore.Clear(context, sessionToken); err != nil {
		return fmt.Errorf("auth_service_signout_failed: %w", err)
	}

	return nil
}

/*
CurrentIdentity reads the identity backing a session token.

Description: A pure session store lookup with no database access. Every
protected navigation calls this; the result is never cached between calls,
so a sign-out or a replacing sign-in is visible immediately.

Parameters:
  - context: context.Context
  - sessionToken: string

Returns:
  - *Identity: The active identity
  - err: apperr.NotFound when no session is active
*/
func (service *Service) CurrentIdentity(context context.Context, sessionToken string) (*Identity, error) {
	if sessionToken == "" {
		return nil, apperr.NotFound("Session")
	}

	return service.sessionStore.Get(context, sessionToken)
}

/*
RefreshIdentity re-projects the user's database row into the session slot.

Description: Called after XP-awarding operations so the session record keeps
pace with the account's progression. The slot TTL is renewed on write.

Parameters:
  - context: context.Context
  - sessionToken: string

Returns:
  - *Identity: The refreshed identity
  - err: Lookup or storage failures
*/
func (service *Service) RefreshIdentity(context context.Context, sessionToken string) (*Identity, error) {
	current, err := service.sessionStore.Get(context, sessionToken)
	if err != nil {
		return nil, err
	}

	user, err := service.userRepository.FindByID(context, current.ID)
	if err != nil {
		return nil, err
	}

	identity := service.buildIdentity(user)
	if err := service.sessionStore.Set(context, sessionToken, identity, SessionTTL); err != nil {
		return nil, fmt.Errorf("auth_service_identity_refresh_failed: %w", err)
	}

	return identity, nil
}

// # Password Recovery

/*
RequestPasswordReset initiates the forgot-password flow.

Description: Generates a secure token and saves it to Redis.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - string: Discovery token
  - err: Generation errors
*/
func (service *Service) RequestPasswordReset(context context.Context, email string) (string, error) {
	// Look up user.
	// NOTE: We don't return NOT_FOUND if the email doesn't exist to prevent user enumeration.
	user, err := service.userRepository.FindByEmail(context, email)
	if err != nil {
		return "", nil
	}

	// Generate reset token
	token, err := sec.GenerateSecureToken(ResetTokenLength)
	if err != nil {
		return "", fmt.Errorf("auth_service_generate_reset_token_failed: %w", err)
	}

	// Save to Redis
	if err := service.resetTokenRepository.Set(context, token, user.ID, ResetTokenTTL); err != nil {
		return "", fmt.Errorf("auth_service_save_reset_token_failed: %w", err)
	}

	return token, nil
}

/*
ResetPassword completes the forgot-password flow.

Description: Verifies the token, hashes the new password, and updates the DB.

Parameters:
  - context: context.Context
  - token: string
  - newPassword: string

Returns:
  - err: Validation or update failures
*/
func (service *Service) ResetPassword(context context.Context, token, newPassword string) error {

	if len(newPassword) < MinPasswordLength {
		return apperr.Invalid(CodeWeakPassword, fmt.Sprintf("Password must be at least %d characters", MinPasswordLength))
	}

	// Retrieve the userID associated with the reset token from Redis
	userID, err := service.resetTokenRepository.Get(context, token)
	if err != nil {
		return err
	}

	// Hash the new password securely
	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_reset_password_hash_failed: %w", err)
	}

	// Update the user's password in persistent storage
	if err := service.userRepository.UpdatePassword(context, userID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_reset_password_update_failed: %w", err)
	}

	// Delete the used token from Redis
	_ = service.resetTokenRepository.Delete(context, token)

	return nil
}

/*
ChangePassword allows an authenticated user to update their credentials.

Description: Verifies the current password before applying the new one.

Parameters:
  - context: context.Context
  - userID: string
  - currentPassword: string
  - newPassword: string

Returns:
  - err: Unauthorized or storage failures
*/
func (service *Service) ChangePassword(context context.Context, userID, currentPassword, newPassword string) error {

	// Fetch user by ID
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return err
	}

	// Verify the current password before allowing change
	if !sec.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return apperr.Unauthorized("Current password is incorrect")
	}

	if len(newPassword) < MinPasswordLength {
		return apperr.Invalid(CodeWeakPassword, fmt.Sprintf("Password must be at least %d characters", MinPasswordLength))
	}

	// Hash the brand new password
	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_change_password_hash_failed: %w", err)
	}

	// Update the database with the new hash
	if err := service.userRepository.UpdatePassword(context, userID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_change_password_update_failed: %w", err)
	}

	return nil
}
