// Copyright (c) 2026 CyberLearn. All rights reserved.
// Author: platform@cyberlearn.io

/*
Package course provides the HTTP interface for catalog discovery and enrollment.

It exposes endpoints for browsing courses, retrieving lesson lists, enrolling,
and completing lessons, plus the instructor-side management surface.

# Routing Strategy

  - Public (v1): Discovery endpoints accessible to all visitors (GET /courses).
  - Learner (v1): Enrollment and completion, any authenticated role.
  - Restricted (v1): Mutative catalog endpoints gated to instructor or admin.

The handler translates between the web/JSON layer and the internal domain [Service].
*/
package course

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

// # Handler Implementation

// Handler implements the HTTP layer for the course catalog.
type Handler struct {
	service *Service
}

// NewHandler constructs a new course [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with the learning domain's endpoints.
//
// # Routing Strategy
//
//   - Discovery (Public): Browsing needs no session; per-viewer fields stay zero.
//   - Enrollment (Authenticated): Any signed-in role may enroll and complete.
//   - Management (Restricted): Instructor or admin, exact membership only.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// ## Public Discovery Endpoints
	router.Get("/", handler.listCourses)
	router.Get("/{identifier}", handler.getCourse)
	router.Get("/{identifier}/lessons", handler.listLessons)

	// ## Learner Endpoints
	router.Group(func(learner chi.Router) {
		learner.Use(middleware.RequireAuth)
		learner.Post("/{identifier}/enroll", handler.enroll)
	})

	// ## Catalog Management (Instructor / Admin)
	router.Group(func(management chi.Router) {
		management.Use(middleware.Protect(sec.RoleInstructor, sec.RoleAdmin))

		management.Post("/", handler.createCourse)
		management.Patch("/{id}", handler.updateCourse)
		management.Delete("/{id}", handler.deleteCourse)
		management.Post("/{id}/lessons", handler.createLesson)
	})

	return router
}

// LessonRoutes returns the routes mounted under /lessons.
func (handler *Handler) LessonRoutes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(learner chi.Router) {
		learner.Use(middleware.RequireAuth)
		learner.Post("/{lessonID}/complete", handler.completeLesson)
	})

	return router
}

// viewerID resolves the per-viewer identity; empty for anonymous browsing.
func viewerID(request *http.Request) string {
	if principal := requestutil.Principal(request); principal != nil {
		return principal.UserID
	}
	return ""
}

// # Discovery Endpoints

/*
GET /api/v1/courses.

Description: Retrieves a paginated list of courses. Supports filtering by
category, difficulty, tags, and substring search. Authenticated viewers get
their enrollment and progress joined into each row.

Request:
  - q: string (Search over title and description)
  - category: string
  - difficulty: string (Beginner, Intermediate, Advanced)
  - tag: []string
  - sort: string (enrolledcount, createdat, title)
  - dir: string (asc, desc)
  - limit: int
  - page: int

Response:
  - 200: []Course: Paginated list of courses
*/
func (handler *Handler) listCourses(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)
	query := request.URL.Query()

	filter := Filter{
		Category: query.Get("category"),
		Query:    query.Get("q"),
		Tags:     query["tag"],
		SortBy:   query.Get("sort"),
		SortDir:  query.Get("dir"),
	}

	if raw := query.Get("difficulty"); raw != "" {
		difficulty := Difficulty(raw)
		if !difficulty.IsValid() {
			respond.Error(writer, request, validate.RequiredError(FieldDifficulty, "must be Beginner, Intermediate or Advanced"))
			return
		}
		filter.Difficulty = &difficulty
	}

	courses, total, err := handler.service.List(
		request.Context(),
		viewerID(request),
		filter,
		paginationParams.Limit,
		paginationParams.Offset(),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, courses, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

/*
GET /api/v1/courses/{identifier}.

Description: Retrieves a single course by UUID or slug.

Response:
  - 200: Course: The hydrated course
  - 404: NOT_FOUND: No course matches the identifier
*/
func (handler *Handler) getCourse(writer http.ResponseWriter, request *http.Request) {
	identifier := requestutil.Param(request, "identifier")

	courseEntity, err := handler.service.Get(request.Context(), viewerID(request), identifier)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, courseEntity)
}

/*
GET /api/v1/courses/{identifier}/lessons.

Description: Retrieves a course's lessons in order, with the viewer's
completion flags for authenticated requests.

Response:
  - 200: LessonPage: Course, ordered lessons, and the viewer's summary
  - 404: NOT_FOUND: No course matches the identifier
*/
func (handler *Handler) listLessons(writer http.ResponseWriter, request *http.Request) {
	identifier := requestutil.Param(request, "identifier")

	page, err := handler.service.Lessons(request.Context(), viewerID(request), identifier)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, page)
}

// # Enrollment Endpoints

/*
POST /api/v1/courses/{identifier}/enroll.

Description: Enrolls the authenticated viewer. The response already carries
the incremented enrolled count and is_enrolled=true, so clients do not need
a second fetch to reflect the new state.

Response:
  - 200: Course: Post-enrollment course state
  - 404: NOT_FOUND: No course matches the identifier
  - 409: ALREADY_ENROLLED: Duplicate enrollment
*/
func (handler *Handler) enroll(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	courseEntity, err := handler.service.Enroll(request.Context(), principal.UserID, requestutil.Param(request, "identifier"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, courseEntity)
}

/*
POST /api/v1/lessons/{lessonID}/complete.

Description: Marks a lesson completed for the viewer. Idempotent: repeating
the call returns the same completed state and awards nothing twice.

Response:
  - 200: Lesson: The lesson with is_completed=true
  - 403: FORBIDDEN: Viewer is not enrolled in the lesson's course
  - 404: NOT_FOUND: No lesson matches the ID
*/
func (handler *Handler) completeLesson(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	lesson, err := handler.service.CompleteLesson(request.Context(), principal.UserID, requestutil.Param(request, "lessonID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, lesson)
}

// # Management Endpoints

type coursePayload struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Difficulty  string   `json:"difficulty"`
	Duration    string   `json:"duration"`
	Tags        []string `json:"tags"`
	XPReward    int      `json:"xp_reward"`
}

type lessonPayload struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	VideoURL string `json:"video_url"`
	Duration string `json:"duration"`
	XPReward int    `json:"xp_reward"`
	Order    int    `json:"order"`
}

/*
POST /api/v1/courses.

Description: Creates a new course authored by the caller.

Request:
  - Body: coursePayload

Response:
  - 201: Course: The created course
  - 400: VALIDATION_ERROR: Missing or invalid metadata
*/
func (handler *Handler) createCourse(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload coursePayload
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	courseEntity := &Course{
		Title:       payload.Title,
		Description: payload.Description,
		Category:    payload.Category,
		Difficulty:  Difficulty(payload.Difficulty),
		Duration:    payload.Duration,
		Tags:        payload.Tags,
		XPReward:    payload.XPReward,
	}

	if err := handler.service.Create(request.Context(), principal, courseEntity); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, courseEntity)
}

/*
PATCH /api/v1/courses/{id}.

Description: Partially updates a course's metadata. The enrolled count is
not updatable through this endpoint (or any other).

Request:
  - Body: coursePayload (empty fields are left unchanged)

Response:
  - 200: Course: The updated course
  - 403: FORBIDDEN: Instructor does not own the course
  - 404: NOT_FOUND: No course matches the ID
*/
func (handler *Handler) updateCourse(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload coursePayload
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	courseEntity := &Course{
		ID:          requestutil.Param(request, "id"),
		Title:       payload.Title,
		Description: payload.Description,
		Category:    payload.Category,
		Difficulty:  Difficulty(payload.Difficulty),
		Duration:    payload.Duration,
		Tags:        payload.Tags,
		XPReward:    payload.XPReward,
	}

	if err := handler.service.Update(request.Context(), principal, courseEntity); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.service.Get(request.Context(), principal.UserID, courseEntity.ID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

/*
DELETE /api/v1/courses/{id}.

Description: Soft-deletes a course from the catalog.

Response:
  - 204: No Content
  - 403: FORBIDDEN: Instructor does not own the course
  - 404: NOT_FOUND: No course matches the ID
*/
func (handler *Handler) deleteCourse(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), principal, requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
POST /api/v1/courses/{id}/lessons.

Description: Appends a lesson to a course. Order must be unique within the
course; a tie is rejected by the database constraint.

Request:
  - Body: lessonPayload

Response:
  - 201: Lesson: The created lesson
  - 403: FORBIDDEN: Instructor does not own the course
  - 404: NOT_FOUND: No course matches the ID
*/
func (handler *Handler) createLesson(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload lessonPayload
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	lesson, err := handler.service.AddLesson(request.Context(), principal, requestutil.Param(request, "id"), &Lesson{
		Title:     payload.Title,
		Content:   payload.Content,
		VideoURL:  payload.VideoURL,
		Duration:  payload.Duration,
		XPReward:  payload.XPReward,
		SortOrder: payload.Order,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, lesson)
}
