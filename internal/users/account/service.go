// Copyright (c) 2026 CyberLearn. All rights reserved.
// Author: platform@cyberlearn.io

package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cyberlearn/api/internal/platform/apperr"
	"github.com/cyberlearn/api/internal/platform/sec"
	"github.com/cyberlearn/api/internal/users/auth"
)

// # Service Layer

// Service orchestrates business logic for user account management.
//
// It covers both the self-service profile surface and the administrative
// user directory, enforcing that privileged mutations stay admin-only.
type Service struct {
	accountRepository AccountRepository
	logger            *slog.Logger
}

// NewService constructs a new [Service] with its repository dependency.
func NewService(accountRepo AccountRepository, logger *slog.Logger) *Service {
	return &Service{
		accountRepository: accountRepo,
		logger:            logger,
	}
}

// # User Directory

/*
List retrieves a page of user accounts for the admin directory.

Parameters:
  - context: context.Context
  - filter: Filter (Search and role narrowing)
  - limit: int
  - offset: int

Returns:
  - []*auth.User: Matching accounts
  - int: Total match count across all pages
  - error: Storage failures
*/
func (service *Service) List(context context.Context, filter Filter, limit, offset int) ([]*auth.User, int, error) {
	users, total, err := service.accountRepository.List(context, filter, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("account_service_list_failed: %w", err)
	}
	return users, total, nil
}

// # Profile Management

/*
GetProfile retrieves the full private identity of a user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *auth.User: The hydrated user profile
  - error: Not found or execution failures
*/
func (service *Service) GetProfile(context context.Context, userID string) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_get_profile_failed: %w", err)
	}
	return user, nil
}

// UpdateProfileInput defines the mutable subset of user profile fields.
//
// Role is privileged: only administrators may set it, and the value must be
// one of the recognized platform roles.
type UpdateProfileInput struct {
	Name      *string
	AvatarURL *string
	Role      *string
}

/*
UpdateProfile applies a partial set of changes to a user's account.

Description: Fetches the existing user state, overlays the provided fields,
and synchronizes the change to persistent storage. Callers may only update
their own profile unless they hold the admin role, and role changes are
rejected for non-admin principals regardless of the target.

Parameters:
  - context: context.Context
  - principal: *sec.Principal (The actor performing the update)
  - userID: string (The target account)
  - input: UpdateProfileInput

Returns:
  - *auth.User: The updated user profile
  - error: Authorization, validation, or storage failures
*/
func (service *Service) UpdateProfile(context context.Context, principal *sec.Principal, userID string, input UpdateProfileInput) (*auth.User, error) {
	isAdmin := principal != nil && principal.Role == sec.RoleAdmin

	// Authorization: self-service or admin only
	if !isAdmin && (principal == nil || principal.UserID != userID) {
		return nil, apperr.Forbidden("You can only update your own profile")
	}

	if input.Role != nil && !isAdmin {
		return nil, apperr.Forbidden("Only administrators can change user roles")
	}

	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_update_lookup_failed: %w", err)
	}

	// Apply delta updates
	if input.Name != nil {
		user.Name = *input.Name
	}

	// Apply delta updates
	if input.AvatarURL != nil {
		user.AvatarURL = *input.AvatarURL
	}

	// Apply delta updates
	if input.Role != nil {
		role, err := sec.ParseRole(*input.Role)
		if err != nil {
			return nil, apperr.Invalid("INVALID_ROLE", "Unknown role: "+*input.Role)
		}
		user.Role = role
	}

	// Persist changes
	if err := service.accountRepository.Update(context, user); err != nil {
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	service.logger.Info("user_profile_updated", slog.String("user_id", userID))

	return user, nil
}

/*
DeleteAccount performs an idempotent soft-deletion of a user account.

Description: Flags the account as deleted. Any live session for the account
stops resolving to a usable identity on the next database-backed operation
and expires with its TTL.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Execution failures
*/
func (service *Service) DeleteAccount(context context.Context, userID string) error {
	if err := service.accountRepository.SoftDelete(context, userID); err != nil {
		return fmt.Errorf("account_service_delete_failed: %w", err)
	}

	service.logger.Warn("user_account_deleted", slog.String("user_id", userID))

	return nil
}
