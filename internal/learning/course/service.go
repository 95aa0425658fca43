// Copyright (c) 2026 CyberLearn. All rights reserved.
// Author: platform@cyberlearn.io

/*
Package course implements the course catalog and enrollment domain.

It orchestrates the business logic for course discovery, instructor-side
catalog management, learner enrollment, and lesson completion.

Architecture:

  - Service: Orchestrates catalog and enrollment use cases.
  - Repository: Abstracted interfaces for Postgres (courses, lessons, enrollments).
  - Progression: Per-viewer progress delegates to the pure progression engine.

Enrollment and completion invariants (monotonic counters, exactly-once XP)
are enforced by database constraints inside the repository transactions,
never by in-process locks.
*/
package course

import (
	"context"
	"log/slog"

	"github.com/cyberlearn/api/internal/learning/progress"
	"github.com/cyberlearn/api/internal/platform/apperr"
	"github.com/cyberlearn/api/internal/platform/sec"
	"github.com/cyberlearn/api/internal/platform/validate"
	"github.com/cyberlearn/api/pkg/slug"
	"github.com/cyberlearn/api/pkg/uuid"
)

// # Service Layer

// Service orchestrates the business logic for the course catalog.
type Service struct {
	courseRepo     CourseRepository
	lessonRepo     LessonRepository
	enrollmentRepo EnrollmentRepository
	logger         *slog.Logger
}

// NewService constructs a new [Service] with its required repositories.
func NewService(
	courseRepo CourseRepository,
	lessonRepo LessonRepository,
	enrollmentRepo EnrollmentRepository,
	logger *slog.Logger,
) *Service {
	return &Service{
		courseRepo:     courseRepo,
		lessonRepo:     lessonRepo,
		enrollmentRepo: enrollmentRepo,
		logger:         logger,
	}
}

// # Catalog Lookups

/*
List retrieves a paginated and filtered collection of courses.

Description: Discovery entry point for the catalog. Filter criteria pass
straight to the repository for database-level filtering; the viewer's
enrollment and progress are joined in for authenticated requests.

Parameters:
  - context: context.Context
  - viewerID: string (empty for anonymous viewers)
  - filter: Filter (Criteria for category, difficulty, tags, search)
  - limit: int (Max records to return)
  - offset: int (Pagination cursor)

Returns:
  - []*Course: Slice of matching catalog records
  - int: Total count of records matching the filter (for pagination metadata)
  - error: System or repository level errors
*/
func (service *Service) List(context context.Context, viewerID string, filter Filter, limit, offset int) ([]*Course, int, error) {
	return service.courseRepo.List(context, viewerID, filter, limit, offset)
}

/*
Get fetches a single course by UUID or SEO slug.

Description: The service determines the lookup strategy from the identifier
format: UUIDs resolve by primary key, anything else by the unique URL slug.

Parameters:
  - context: context.Context
  - viewerID: string (empty for anonymous viewers)
  - identifier: string (UUID or Slug)

Returns:
  - *Course: The hydrated domain entity
  - error: Typed NotFound if no match is found
*/
func (service *Service) Get(context context.Context, viewerID, identifier string) (*Course, error) {
	if isUUID(identifier) {
		return service.courseRepo.FindByID(context, viewerID, identifier)
	}
	return service.courseRepo.FindBySlug(context, viewerID, identifier)
}

// LessonPage bundles a course's ordered lessons with the viewer's completion
// summary. The summary is derived from the lesson flags in the same response,
// so the percentage can never disagree with the list it accompanies.
type LessonPage struct {
	Course   *Course          `json:"course"`
	Lessons  []*Lesson        `json:"lessons"`
	Progress progress.Summary `json:"progress"`
}

/*
Lessons returns a course's lessons in order, with per-viewer completion.

Parameters:
  - context: context.Context
  - viewerID: string (empty for anonymous viewers)
  - identifier: string (Course UUID or Slug)

Returns:
  - *LessonPage: Lessons ordered by SortOrder plus the viewer's summary
  - error: Typed NotFound if the course does not exist
*/
func (service *Service) Lessons(context context.Context, viewerID, identifier string) (*LessonPage, error) {
	// Resolve the course first so a bad identifier is a NotFound,
	// not an empty list.
	courseEntity, err := service.Get(context, viewerID, identifier)
	if err != nil {
		return nil, err
	}

	lessons, err := service.lessonRepo.ListByCourse(context, viewerID, courseEntity.ID)
	if err != nil {
		return nil, err
	}

	completed := make([]bool, len(lessons))
	for i, lesson := range lessons {
		completed[i] = lesson.IsCompleted
	}

	summary := progress.CourseProgress(completed)
	if courseEntity.IsEnrolled {
		courseEntity.Progress = summary.Percentage
	}

	return &LessonPage{Course: courseEntity, Lessons: lessons, Progress: summary}, nil
}

// # Catalog Management

/*
Create initialises a new course in the catalog.

Description: Performs business validation on the metadata, generates a
stable UUID v7 identity and an SEO-friendly slug, and stamps the caller
as the course's instructor.

Parameters:
  - context: context.Context
  - principal: *sec.Principal (The authenticated instructor or admin)
  - courseEntity: *Course (The entity to be persisted)

Returns:
  - error: Validation or persistence errors
*/
func (service *Service) Create(context context.Context, principal *sec.Principal, courseEntity *Course) error {

	validator := &validate.Validator{}
	validator.Required(FieldTitle, courseEntity.Title).MaxLen(FieldTitle, courseEntity.Title, 200)
	validator.Required(FieldCategory, courseEntity.Category)
	validator.Required(FieldDifficulty, string(courseEntity.Difficulty)).OneOf(FieldDifficulty, string(courseEntity.Difficulty),
		string(DifficultyBeginner),
		string(DifficultyIntermediate),
		string(DifficultyAdvanced),
	)

	if err := validator.Err(); err != nil {
		return err
	}

	if courseEntity.ID == "" {
		courseEntity.ID = uuid.New()
	}
	if courseEntity.Slug == "" {
		courseEntity.Slug = slug.From(courseEntity.Title)
	}
	if courseEntity.XPReward < 0 {
		courseEntity.XPReward = 0
	}

	// The catalog records who authored the course; admins may create on
	// behalf of nobody in particular but still own the record.
	courseEntity.InstructorID = principal.UserID
	courseEntity.EnrolledCount = 0

	if err := service.courseRepo.Create(context, courseEntity); err != nil {
		return err
	}

	service.logger.Info("course_created",
		slog.String("course_id", courseEntity.ID),
		slog.String("slug", courseEntity.Slug),
	)

	return nil
}

/*
Update applies modifications to an existing course.

Description: Supports partial updates of metadata. EnrolledCount is not an
updatable field; the repository update statement simply never touches it.
Instructors may only update their own courses; admins may update any.

Parameters:
  - context: context.Context
  - principal: *sec.Principal
  - courseEntity: *Course (Updated attributes, ID required)

Returns:
  - error: Forbidden, validation or persistence errors
*/
func (service *Service) Update(context context.Context, principal *sec.Principal, courseEntity *Course) error {

	existing, err := service.courseRepo.FindByID(context, "", courseEntity.ID)
	if err != nil {
		return err
	}

	if err := service.requireOwnership(principal, existing); err != nil {
		return err
	}

	validator := &validate.Validator{}
	if courseEntity.Title != "" {
		validator.MaxLen(FieldTitle, courseEntity.Title, 200)
	}
	if courseEntity.Slug != "" {
		validator.Slug(FieldSlug, courseEntity.Slug)
	}
	if courseEntity.Difficulty != "" {
		validator.OneOf(FieldDifficulty, string(courseEntity.Difficulty),
			string(DifficultyBeginner),
			string(DifficultyIntermediate),
			string(DifficultyAdvanced),
		)
	}

	if err := validator.Err(); err != nil {
		return err
	}

	if err := service.courseRepo.Update(context, courseEntity); err != nil {
		return err
	}

	service.logger.Info("course_updated", slog.String("course_id", courseEntity.ID))

	return nil
}

/*
Delete soft-deletes a course from the catalog.

Parameters:
  - context: context.Context
  - principal: *sec.Principal
  - id: string

Returns:
  - error: Forbidden, NotFound or persistence errors
*/
func (service *Service) Delete(context context.Context, principal *sec.Principal, id string) error {

	existing, err := service.courseRepo.FindByID(context, "", id)
	if err != nil {
		return err
	}

	if err := service.requireOwnership(principal, existing); err != nil {
		return err
	}

	if err := service.courseRepo.SoftDelete(context, id); err != nil {
		return err
	}

	service.logger.Info("course_deleted", slog.String("course_id", id))

	return nil
}

/*
AddLesson appends a lesson to a course.

Description: Validates the lesson metadata and enforces ownership. SortOrder
uniqueness within the course is a database constraint; a tie surfaces as a
storage conflict rather than silent reordering.

Parameters:
  - context: context.Context
  - principal: *sec.Principal
  - courseID: string
  - lesson: *Lesson

Returns:
  - *Lesson: The persisted lesson
  - error: Forbidden, validation or persistence errors
*/
func (service *Service) AddLesson(context context.Context, principal *sec.Principal, courseID string, lesson *Lesson) (*Lesson, error) {

	courseEntity, err := service.courseRepo.FindByID(context, "", courseID)
	if err != nil {
		return nil, err
	}

	if err := service.requireOwnership(principal, courseEntity); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	validator.Required(FieldTitle, lesson.Title).MaxLen(FieldTitle, lesson.Title, 200)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if lesson.ID == "" {
		lesson.ID = uuid.New()
	}
	lesson.CourseID = courseEntity.ID
	if lesson.XPReward < 0 {
		lesson.XPReward = 0
	}

	if err := service.lessonRepo.Create(context, lesson); err != nil {
		return nil, err
	}

	service.logger.Info("lesson_created",
		slog.String("lesson_id", lesson.ID),
		slog.String("course_id", courseEntity.ID),
	)

	return lesson, nil
}

// requireOwnership enforces the instructor-owns-their-courses rule.
// Admin passes unconditionally; this is an ownership check inside an
// already role-gated surface, not a role hierarchy.
func (service *Service) requireOwnership(principal *sec.Principal, courseEntity *Course) error {
	if principal.Role == sec.RoleAdmin {
		return nil
	}
	if courseEntity.InstructorID != principal.UserID {
		return apperr.Forbidden("You can only manage your own courses")
	}
	return nil
}

// # Enrollment & Completion

/*
Enroll records the viewer's enrollment in a course.

Description: Duplicate enrollment is a typed ALREADY_ENROLLED conflict,
never a silent second increment. On success the course's enrolled count
moves by exactly 1 inside the repository transaction, and the returned
entity already reflects both the new count and IsEnrolled=true so the
caller needs no second fetch.

Parameters:
  - context: context.Context
  - viewerID: string
  - identifier: string (Course UUID or Slug)

Returns:
  - *Course: The course with post-enrollment viewer state
  - error: ALREADY_ENROLLED, NotFound, or storage failures
*/
func (service *Service) Enroll(context context.Context, viewerID, identifier string) (*Course, error) {

	courseEntity, err := service.Get(context, viewerID, identifier)
	if err != nil {
		return nil, err
	}

	if err := service.enrollmentRepo.Enroll(context, courseEntity.ID, viewerID); err != nil {
		return nil, err
	}

	service.logger.Info("course_enrolled",
		slog.String("course_id", courseEntity.ID),
		slog.String("user_id", viewerID),
	)

	// Reflect the transaction's outcome without refetching.
	courseEntity.IsEnrolled = true
	courseEntity.EnrolledCount++

	return courseEntity, nil
}

/*
CompleteLesson marks a lesson as completed for the viewer.

Description: Completion is monotonic: the first call flips the flag and
awards the lesson's XP; any repeat is a no-op that still reports success.
When the completion is the course's last outstanding lesson, the course
bonus XP is awarded in the same transaction.

Parameters:
  - context: context.Context
  - viewerID: string
  - lessonID: string

Returns:
  - *Lesson: The lesson with IsCompleted set
  - error: NotFound, Forbidden (not enrolled), or storage failures
*/
func (service *Service) CompleteLesson(context context.Context, viewerID, lessonID string) (*Lesson, error) {

	lesson, err := service.lessonRepo.FindByID(context, lessonID)
	if err != nil {
		return nil, err
	}

	// Completion only counts inside an enrollment.
	enrolled, err := service.enrollmentRepo.IsEnrolled(context, lesson.CourseID, viewerID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, apperr.Forbidden("Enroll in the course before completing lessons")
	}

	inserted, err := service.enrollmentRepo.CompleteLesson(context, lesson, viewerID)
	if err != nil {
		return nil, err
	}

	if inserted {
		service.logger.Info("lesson_completed",
			slog.String("lesson_id", lesson.ID),
			slog.String("course_id", lesson.CourseID),
			slog.String("user_id", viewerID),
		)
	}

	lesson.IsCompleted = true

	return lesson, nil
}

// isUUID returns true if the string matches the standard UUID length.
func isUUID(s string) bool {
	return len(s) == 36
}
