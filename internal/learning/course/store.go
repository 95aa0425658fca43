// Copyright (c) 2026 CyberLearn. All rights reserved.
// Author: platform@cyberlearn.io

package course

import (
	"context"
	"time"
)

// CourseRepository defines the data access contract for the course catalog.
//
// # Architecture
//
// Implementations live in store_postgres.go; the interface lives here because
// the service layer (the consumer) defines what it needs. Every read that
// takes a viewerID joins the viewer's enrollment and progress in the same
// query, so the per-viewer fields are always database truth, never a guess.
type CourseRepository interface {
	// List returns a filtered, paginated slice of courses and the total count.
	//
	// viewerID may be empty for anonymous requests, in which case the
	// per-viewer fields stay at their zero values.
	//
	// Returns:
	//   - []*Course: The list of courses matching the filter.
	//   - int: Total count for pagination.
	//   - error: Database or connection errors.
	List(ctx context.Context, viewerID string, filter Filter, limit, offset int) ([]*Course, int, error)

	// FindByID returns the course with the given ID.
	//
	// It returns a typed NotFound if the course is absent or soft-deleted.
	FindByID(ctx context.Context, viewerID, id string) (*Course, error)

	// FindBySlug returns the course with the given slug.
	FindBySlug(ctx context.Context, viewerID, slug string) (*Course, error)

	// Create persists a new course to the store.
	//
	// The caller is responsible for generating and setting the ID and Slug
	// before calling this method.
	Create(ctx context.Context, course *Course) error

	// Update persists changes to a course's mutable metadata.
	//
	// EnrolledCount is not among the mutable fields: only the Enroll
	// transaction may increment it.
	Update(ctx context.Context, course *Course) error

	// SoftDelete marks a course as deleted without removing the row.
	SoftDelete(ctx context.Context, id string) error
}

// LessonRepository defines the data access contract for lessons.
//
// # Consistency
//
// Lessons are always accessed in the context of a [Course] and never
// independently managed (Aggregate Pattern); completion state is the one
// exception, keyed by lesson and viewer.
type LessonRepository interface {
	// ListByCourse returns all lessons of a course ordered by SortOrder,
	// with the viewer's completion flag joined in.
	ListByCourse(ctx context.Context, viewerID, courseID string) ([]*Lesson, error)

	// FindByID returns the lesson with the given ID.
	FindByID(ctx context.Context, id string) (*Lesson, error)

	// Create persists a new lesson to the store.
	Create(ctx context.Context, lesson *Lesson) error

	// Update persists changes to lesson metadata.
	Update(ctx context.Context, lesson *Lesson) error

	// Delete removes a lesson and its completion records.
	Delete(ctx context.Context, id string) error
}

// EnrollmentRepository defines the contract for enrollment and completion state.
//
// # Invariants
//
// Both Enroll and CompleteLesson are guarded by primary-key constraints in
// the database rather than in-process locks: concurrent duplicates resolve
// to exactly one inserted row, and the side effects (counter increment, XP
// award) fire only for that row.
type EnrollmentRepository interface {
	/*
		Enroll atomically records an enrollment and increments the course's
		enrolled count.

		Description: Inserting the (course, user) row and bumping the counter
		happen in one transaction: the counter moves by exactly 1 per new
		enrollment and never for a duplicate.

		Parameters:
		  - ctx: context.Context
		  - courseID: string
		  - userID: string

		Returns:
		  - error: ALREADY_ENROLLED conflict for duplicates, or storage failures
	*/
	Enroll(ctx context.Context, courseID, userID string) error

	// IsEnrolled reports whether the user has an enrollment row for the course.
	IsEnrolled(ctx context.Context, courseID, userID string) (bool, error)

	/*
		CompleteLesson records a lesson completion exactly once.

		Description: The insert is ON CONFLICT DO NOTHING on the
		(lesson, user) primary key. Only a genuinely new completion awards
		XP (lesson reward, plus the course bonus when this completion is the
		course's last) and records the activity day.

		Parameters:
		  - ctx: context.Context
		  - lesson: *Lesson (hydrated, for the XP award)
		  - userID: string

		Returns:
		  - bool: true if this call inserted the completion, false for repeats
		  - error: Storage failures
	*/
	CompleteLesson(ctx context.Context, lesson *Lesson, userID string) (bool, error)

	// CompletedLessonIDs returns the set of completed lesson IDs for a user
	// within one course.
	CompletedLessonIDs(ctx context.Context, courseID, userID string) (map[string]bool, error)

	// ActivityDays returns the distinct days on which the user completed
	// at least one lesson, most recent first.
	ActivityDays(ctx context.Context, userID string) ([]time.Time, error)

	// CompletedCourseSlugs returns the slugs of courses the user has fully
	// completed (every lesson done), oldest completion first.
	CompletedCourseSlugs(ctx context.Context, userID string) ([]string, error)
}
