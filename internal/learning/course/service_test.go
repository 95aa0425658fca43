// Copyright (c) 2026 CyberLearn. All rights reserved.
// Author: platform@cyberlearn.io

package course_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyberlearn/api/internal/learning/course"
	"github.com/cyberlearn/api/internal/platform/apperr"
	"github.com/cyberlearn/api/internal/platform/sec"
)

// # In-Memory Fakes

type fakeCourseRepo struct {
	courses map[string]*course.Course // keyed by ID
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{courses: map[string]*course.Course{}}
}

func (r *fakeCourseRepo) List(_ context.Context, _ string, _ course.Filter, _, _ int) ([]*course.Course, int, error) {
	var out []*course.Course
	for _, c := range r.courses {
		out = append(out, c)
	}
	return out, len(out), nil
}

func (r *fakeCourseRepo) FindByID(_ context.Context, _, id string) (*course.Course, error) {
	if c, ok := r.courses[id]; ok {
		clone := *c
		return &clone, nil
	}
	return nil, apperr.NotFound("Course")
}

func (r *fakeCourseRepo) FindBySlug(_ context.Context, _, slug string) (*course.Course, error) {
	for _, c := range r.courses {
		if c.Slug == slug {
			clone := *c
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Course")
}

func (r *fakeCourseRepo) Create(_ context.Context, c *course.Course) error {
	clone := *c
	r.courses[c.ID] = &clone
	return nil
}

func (r *fakeCourseRepo) Update(_ context.Context, c *course.Course) error {
	existing, ok := r.courses[c.ID]
	if !ok {
		return apperr.NotFound("Course")
	}
	if c.Title != "" {
		existing.Title = c.Title
	}
	return nil
}

func (r *fakeCourseRepo) SoftDelete(_ context.Context, id string) error {
	if _, ok := r.courses[id]; !ok {
		return apperr.NotFound("Course")
	}
	delete(r.courses, id)
	return nil
}

type fakeLessonRepo struct {
	lessons map[string]*course.Lesson
}

func newFakeLessonRepo() *fakeLessonRepo {
	return &fakeLessonRepo{lessons: map[string]*course.Lesson{}}
}

func (r *fakeLessonRepo) ListByCourse(_ context.Context, _, courseID string) ([]*course.Lesson, error) {
	var out []*course.Lesson
	for _, l := range r.lessons {
		if l.CourseID == courseID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeLessonRepo) FindByID(_ context.Context, id string) (*course.Lesson, error) {
	if l, ok := r.lessons[id]; ok {
		clone := *l
		return &clone, nil
	}
	return nil, apperr.NotFound("Lesson")
}

func (r *fakeLessonRepo) Create(_ context.Context, l *course.Lesson) error {
	clone := *l
	r.lessons[l.ID] = &clone
	return nil
}

func (r *fakeLessonRepo) Update(_ context.Context, l *course.Lesson) error {
	if _, ok := r.lessons[l.ID]; !ok {
		return apperr.NotFound("Lesson")
	}
	return nil
}

func (r *fakeLessonRepo) Delete(_ context.Context, id string) error {
	delete(r.lessons, id)
	return nil
}

type enrollmentKey struct{ courseID, userID string }
type completionKey struct{ lessonID, userID string }

type fakeEnrollmentRepo struct {
	courses     *fakeCourseRepo
	enrollments map[enrollmentKey]bool
	completions map[completionKey]time.Time
	awardedXP   map[string]int
}

func newFakeEnrollmentRepo(courses *fakeCourseRepo) *fakeEnrollmentRepo {
	return &fakeEnrollmentRepo{
		courses:     courses,
		enrollments: map[enrollmentKey]bool{},
		completions: map[completionKey]time.Time{},
		awardedXP:   map[string]int{},
	}
}

func (r *fakeEnrollmentRepo) Enroll(_ context.Context, courseID, userID string) error {
	key := enrollmentKey{courseID, userID}
	if r.enrollments[key] {
		return apperr.Conflict("ALREADY_ENROLLED", "You are already enrolled in this course")
	}
	r.enrollments[key] = true
	if c, ok := r.courses.courses[courseID]; ok {
		c.EnrolledCount++
	}
	return nil
}

func (r *fakeEnrollmentRepo) IsEnrolled(_ context.Context, courseID, userID string) (bool, error) {
	return r.enrollments[enrollmentKey{courseID, userID}], nil
}

func (r *fakeEnrollmentRepo) CompleteLesson(_ context.Context, lesson *course.Lesson, userID string) (bool, error) {
	key := completionKey{lesson.ID, userID}
	if _, done := r.completions[key]; done {
		return false, nil
	}
	r.completions[key] = time.Now()
	r.awardedXP[userID] += lesson.XPReward
	return true, nil
}

func (r *fakeEnrollmentRepo) CompletedLessonIDs(_ context.Context, courseID, userID string) (map[string]bool, error) {
	out := map[string]bool{}
	for key := range r.completions {
		if key.userID == userID {
			out[key.lessonID] = true
		}
	}
	return out, nil
}

func (r *fakeEnrollmentRepo) ActivityDays(_ context.Context, userID string) ([]time.Time, error) {
	var days []time.Time
	for key, at := range r.completions {
		if key.userID == userID {
			days = append(days, at)
		}
	}
	return days, nil
}

func (r *fakeEnrollmentRepo) CompletedCourseSlugs(_ context.Context, _ string) ([]string, error) {
	return nil, nil
}

// # Fixture

type fixture struct {
	service     *course.Service
	courses     *fakeCourseRepo
	lessons     *fakeLessonRepo
	enrollments *fakeEnrollmentRepo
}

func newFixture() *fixture {
	courses := newFakeCourseRepo()
	lessons := newFakeLessonRepo()
	enrollments := newFakeEnrollmentRepo(courses)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &fixture{
		service:     course.NewService(courses, lessons, enrollments, logger),
		courses:     courses,
		lessons:     lessons,
		enrollments: enrollments,
	}
}

func instructor() *sec.Principal {
	return &sec.Principal{UserID: "instructor-1", Role: sec.RoleInstructor}
}

func admin() *sec.Principal {
	return &sec.Principal{UserID: "admin-1", Role: sec.RoleAdmin}
}

func (fx *fixture) seedCourse(t *testing.T, enrolledCount int) *course.Course {
	t.Helper()
	seeded := &course.Course{
		Title:      "Advanced Web Security",
		Category:   "Security",
		Difficulty: course.DifficultyAdvanced,
		XPReward:   500,
	}
	require.NoError(t, fx.service.Create(context.Background(), instructor(), seeded))

	fx.courses.courses[seeded.ID].EnrolledCount = enrolledCount
	return seeded
}

// # Catalog Management

/*
TestCreate checks identity generation, slug derivation, and the instructor stamp.
*/
func TestCreate(t *testing.T) {
	fx := newFixture()

	created := &course.Course{
		Title:      "Advanced Web Security",
		Category:   "Security",
		Difficulty: course.DifficultyAdvanced,
		// A creation payload cannot smuggle in a head start.
		EnrolledCount: 9000,
	}
	require.NoError(t, fx.service.Create(context.Background(), instructor(), created))

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "advanced-web-security", created.Slug)
	assert.Equal(t, "instructor-1", created.InstructorID)
	assert.Zero(t, created.EnrolledCount)
}

/*
TestCreate_Validation rejects incomplete or out-of-enum metadata.
*/
func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name   string
		course course.Course
	}{
		{"missing_title", course.Course{Category: "Security", Difficulty: course.DifficultyBeginner}},
		{"missing_category", course.Course{Title: "X", Difficulty: course.DifficultyBeginner}},
		{"unknown_difficulty", course.Course{Title: "X", Category: "Security", Difficulty: "Expert"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFixture()
			err := fx.service.Create(context.Background(), instructor(), &tt.course)
			require.Error(t, err)
			assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))
		})
	}
}

/*
TestUpdate_Ownership verifies that instructors only manage their own courses
while admin manages any. This is ownership inside a role-gated surface, not
a role hierarchy.
*/
func TestUpdate_Ownership(t *testing.T) {
	fx := newFixture()
	seeded := fx.seedCourse(t, 0)

	other := &sec.Principal{UserID: "instructor-2", Role: sec.RoleInstructor}
	err := fx.service.Update(context.Background(), other, &course.Course{ID: seeded.ID, Title: "Hijacked"})
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "FORBIDDEN"))

	require.NoError(t, fx.service.Update(context.Background(), instructor(), &course.Course{ID: seeded.ID, Title: "Renamed"}))
	require.NoError(t, fx.service.Update(context.Background(), admin(), &course.Course{ID: seeded.ID, Title: "Admin Renamed"}))
}

// # Enrollment

/*
TestEnroll covers the enrollment scenario end to end: the counter moves from
10 to 11, the returned entity reflects the new state without a refetch, and
a duplicate attempt is a typed conflict rather than a second increment.
*/
func TestEnroll(t *testing.T) {
	fx := newFixture()
	seeded := fx.seedCourse(t, 10)

	enrolled, err := fx.service.Enroll(context.Background(), "learner-1", seeded.Slug)
	require.NoError(t, err)

	assert.True(t, enrolled.IsEnrolled)
	assert.Equal(t, 11, enrolled.EnrolledCount)

	// Continuing into the course immediately reflects enrollment.
	fetched, err := fx.service.Get(context.Background(), "learner-1", seeded.Slug)
	require.NoError(t, err)
	assert.Equal(t, 11, fetched.EnrolledCount)

	// Duplicate enrollment: typed conflict, counter untouched.
	_, err = fx.service.Enroll(context.Background(), "learner-1", seeded.Slug)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "ALREADY_ENROLLED"))
	assert.Equal(t, 11, fx.courses.courses[seeded.ID].EnrolledCount)
}

/*
TestEnroll_UnknownCourse propagates a typed NotFound.
*/
func TestEnroll_UnknownCourse(t *testing.T) {
	fx := newFixture()

	_, err := fx.service.Enroll(context.Background(), "learner-1", "ghost-course")
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "NOT_FOUND"))
}

// # Lesson Completion

/*
TestCompleteLesson covers the monotonic completion contract: the second call
is observably identical to the first and awards nothing twice.
*/
func TestCompleteLesson(t *testing.T) {
	fx := newFixture()
	seeded := fx.seedCourse(t, 0)

	lesson, err := fx.service.AddLesson(context.Background(), instructor(), seeded.ID, &course.Lesson{
		Title:     "SQL Injection Basics",
		XPReward:  50,
		SortOrder: 1,
	})
	require.NoError(t, err)

	_, err = fx.service.Enroll(context.Background(), "learner-1", seeded.ID)
	require.NoError(t, err)

	first, err := fx.service.CompleteLesson(context.Background(), "learner-1", lesson.ID)
	require.NoError(t, err)
	assert.True(t, first.IsCompleted)
	assert.Equal(t, 50, fx.enrollments.awardedXP["learner-1"])

	// Idempotent repeat: same observable state, no second award.
	second, err := fx.service.CompleteLesson(context.Background(), "learner-1", lesson.ID)
	require.NoError(t, err)
	assert.True(t, second.IsCompleted)
	assert.Equal(t, 50, fx.enrollments.awardedXP["learner-1"])
}

/*
TestCompleteLesson_RequiresEnrollment blocks completion outside an enrollment.
*/
func TestCompleteLesson_RequiresEnrollment(t *testing.T) {
	fx := newFixture()
	seeded := fx.seedCourse(t, 0)

	lesson, err := fx.service.AddLesson(context.Background(), instructor(), seeded.ID, &course.Lesson{
		Title:     "Lesson One",
		SortOrder: 1,
	})
	require.NoError(t, err)

	_, err = fx.service.CompleteLesson(context.Background(), "learner-1", lesson.ID)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "FORBIDDEN"))
}

/*
TestLessons_ProgressFromLessonFlags checks that the lesson page's percentage
is derived from the completion flags it carries, and that an enrolled
viewer's course progress is overwritten with that same value.
*/
func TestLessons_ProgressFromLessonFlags(t *testing.T) {
	fx := newFixture()
	seeded := fx.seedCourse(t, 0)

	first, err := fx.service.AddLesson(context.Background(), instructor(), seeded.ID, &course.Lesson{
		Title:     "Recon",
		SortOrder: 1,
	})
	require.NoError(t, err)
	_, err = fx.service.AddLesson(context.Background(), instructor(), seeded.ID, &course.Lesson{
		Title:     "Exploitation",
		SortOrder: 2,
	})
	require.NoError(t, err)

	fx.lessons.lessons[first.ID].IsCompleted = true
	fx.courses.courses[seeded.ID].IsEnrolled = true
	// A stale stored value must not leak past the derived one.
	fx.courses.courses[seeded.ID].Progress = 99

	page, err := fx.service.Lessons(context.Background(), "learner-1", seeded.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, page.Progress.CompletedCount)
	assert.Equal(t, 2, page.Progress.TotalCount)
	assert.InDelta(t, 50, page.Progress.Percentage, 0.001)
	assert.InDelta(t, 50, page.Course.Progress, 0.001)
	assert.Len(t, page.Lessons, 2)
}

/*
TestLessons_UnknownCourse keeps a bad identifier a NotFound, not an empty page.
*/
func TestLessons_UnknownCourse(t *testing.T) {
	fx := newFixture()

	_, err := fx.service.Lessons(context.Background(), "", "no-such-course")
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "NOT_FOUND"))
}
