// Copyright (c) 2026 CyberLearn. All rights reserved.
// Author: platform@cyberlearn.io

/*
Package account provides the HTTP delivery layer for profile and user management.

It implements the RESTful interface for users to manage their own profile and
for administrators to operate the user directory.

# Security

Self-service endpoints require an active session via the RequireAuth
middleware; directory endpoints are gated to the admin role.
*/
package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cyberlearn/api/internal/platform/middleware"
	requestutil "github.com/cyberlearn/api/internal/platform/request"
	"github.com/cyberlearn/api/internal/platform/respond"
	"github.com/cyberlearn/api/internal/platform/sec"
	"github.com/cyberlearn/api/internal/platform/validate"
	"github.com/cyberlearn/api/pkg/pagination"
)

// Handler implements the HTTP layer for user account management.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] configured with the account domain's endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// ## Self-Service Profile
	router.Group(func(me chi.Router) {
		me.Use(middleware.RequireAuth)

		me.Get("/me", handler.getMe)
		me.Patch("/me", handler.updateMe)
	})

	// ## Admin User Directory
	router.Group(func(admin chi.Router) {
		admin.Use(middleware.Protect(sec.RoleAdmin))

		admin.Get("/", handler.listUsers)
		admin.Get("/{id}", handler.getUser)
		admin.Patch("/{id}", handler.updateUser)
		admin.Delete("/{id}", handler.deleteUser)
	})

	return router
}

// # Self-Service Endpoints

/*
GET /api/v1/users/me.

Description: Retrieves the full private profile of the authenticated user.

Response:
  - 200: User: Fully hydrated user profile
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetProfile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// updateProfileRequest defines the expected JSON payload for profile updates.
//
// The role field only takes effect for admin principals.
type updateProfileRequest struct {
	Name      *string `json:"name"`
	AvatarURL *string `json:"avatar_url"`
	Role      *string `json:"role"`
}

// validateProfileUpdate applies field-level checks shared by both update paths.
func validateProfileUpdate(input updateProfileRequest) error {
	v := &validate.Validator{}
	if input.Name != nil {
		v.MinLen("name", *input.Name, 2).MaxLen("name", *input.Name, 80)
	}
	if input.AvatarURL != nil && *input.AvatarURL != "" {
		v.MaxLen("avatar_url", *input.AvatarURL, 500)
	}
	return v.Err()
}

/*
PATCH /api/v1/users/me.

Description: Applies partial updates to the authenticated user's own profile.
Role changes through this endpoint are rejected for non-admin callers.

Request:
  - body: updateProfileRequest (Partial JSON)

Response:
  - 200: User: The updated profile
  - 400: ErrInvalidJSON/Validation: Invalid input data
  - 401: ErrUnauthorized: Authentication required
  - 403: ErrForbidden: Role change attempted without admin rights
*/
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateProfileRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := validateProfileUpdate(input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateProfile(request.Context(), principal, principal.UserID, UpdateProfileInput{
		Name:      input.Name,
		AvatarURL: input.AvatarURL,
		Role:      input.Role,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// # Admin Directory Endpoints

/*
GET /api/v1/users.

Description: Lists user accounts for the admin directory with pagination and
optional search / role filters.

Request:
  - q: string (Optional name or email search)
  - role: string (Optional exact role filter)
  - page, limit: int (Pagination)

Response:
  - 200: []User with pagination metadata
  - 303: Redirect: Caller lacks the admin role
*/
func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	filter := Filter{
		Query: request.URL.Query().Get("q"),
		Role:  request.URL.Query().Get("role"),
	}

	users, total, err := handler.accountService.List(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
GET /api/v1/users/{id}.

Description: Retrieves a single account by ID for the admin directory.

Response:
  - 200: User: The account entity
  - 404: ErrNotFound: Unknown or deleted account
*/
func (handler *Handler) getUser(writer http.ResponseWriter, request *http.Request) {
	user, err := handler.accountService.GetProfile(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
PATCH /api/v1/users/{id}.

Description: Applies partial updates to any account, including role changes.

Request:
  - body: updateProfileRequest

Response:
  - 200: User: The updated account
  - 400: INVALID_ROLE: Unknown role value
  - 404: ErrNotFound: Unknown or deleted account
*/
func (handler *Handler) updateUser(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateProfileRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := validateProfileUpdate(input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateProfile(request.Context(), principal, requestutil.Param(request, "id"), UpdateProfileInput{
		Name:      input.Name,
		AvatarURL: input.AvatarURL,
		Role:      input.Role,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
DELETE /api/v1/users/{id}.

Description: Soft-deletes an account. The operation is idempotent.

Response:
  - 204: No Content: Account deleted
*/
func (handler *Handler) deleteUser(writer http.ResponseWriter, request *http.Request) {
	if err := handler.accountService.DeleteAccount(request.Context(), requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
