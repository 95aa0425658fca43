// Copyright (c) 2026 CyberLearn. All rights reserved.
// Author: platform@cyberlearn.io

package progress

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cyberlearn/api/internal/platform/middleware"
	requestutil "github.com/cyberlearn/api/internal/platform/request"
	"github.com/cyberlearn/api/internal/platform/respond"
	"github.com/cyberlearn/api/internal/platform/sec"
)

// Handler implements the HTTP layer for progression snapshots.
type Handler struct {
	service *Service
}

// NewHandler constructs a new progress [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with the progression endpoints.
//
// # Endpoints
//   - GET /me       : The viewer's own snapshot (any authenticated role).
//   - GET /{userID} : Any user's snapshot (admin only, exact role match).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(me chi.Router) {
		me.Use(middleware.RequireAuth)
		me.Get("/me", handler.myOverview)
	})

	router.Group(func(adminOnly chi.Router) {
		adminOnly.Use(middleware.Protect(sec.RoleAdmin))
		adminOnly.Get("/{userID}", handler.userOverview)
	})

	return router
}

/*
GET /api/v1/progress/me.

Description: Returns the authenticated viewer's progression snapshot.

Response:
  - 200: Overview: XP, level, streak, certificates
  - 303: Redirect to /login for anonymous requests
*/
func (handler *Handler) myOverview(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	overview, err := handler.service.Overview(request.Context(), principal.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, overview)
}

/*
GET /api/v1/progress/{userID}.

Description: Returns any user's progression snapshot. Admin surface.

Response:
  - 200: Overview: XP, level, streak, certificates
  - 303: Redirect for anonymous or non-admin viewers
  - 404: NOT_FOUND: Unknown user
*/
func (handler *Handler) userOverview(writer http.ResponseWriter, request *http.Request) {
	overview, err := handler.service.Overview(request.Context(), requestutil.Param(request, "userID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, overview)
}
