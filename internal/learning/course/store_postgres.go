// Copyright (c) 2026 CyberLearn. All rights reserved.
// Author: platform@cyberlearn.io

/*
Package course PostgreSQL implementation for the catalog's data access.

It leans on Postgres features to keep the domain invariants in the database:
  - Window Functions: COUNT(*) OVER() returns totals without a second query.
  - Correlated Subqueries: per-viewer enrollment and progress join into the
    same round-trip as the catalog row itself.
  - ON CONFLICT DO NOTHING: enrollment and completion are exactly-once under
    concurrency with no in-process locking.
  - ACID Transactions: the enrollment counter and XP awards only ever move
    together with the row insert that justifies them.
*/
package course

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cyberlearn/api/internal/platform/apperr"
	"github.com/cyberlearn/api/internal/platform/dberr"
)

// # Course Repository

// courseRepository implements the [CourseRepository] interface using pgx.
type courseRepository struct {
	pool *pgxpool.Pool
}

// NewCourseRepository constructs a PostgreSQL backed course store.
func NewCourseRepository(pool *pgxpool.Pool) CourseRepository {
	return &courseRepository{pool: pool}
}

// courseColumns is the shared SELECT list for course hydration.
//
// The per-viewer columns are correlated subqueries over $1 (viewerID): an
// empty viewer matches nothing, so anonymous reads get false/0 for free.
const courseColumns = `
	c.id, c.slug, c.title, c.description, c.instructorid,
	COALESCE(a.name, ''), c.category, c.difficulty, c.duration, c.tags,
	c.enrolledcount, c.xpreward, c.createdat, c.updatedat,
	EXISTS (
		SELECT 1 FROM learning.enrollment e
		WHERE e.courseid = c.id AND e.userid = $1
	) AS isenrolled,
	COALESCE((
		SELECT COUNT(lc.lessonid)::float * 100 / NULLIF(
			(SELECT COUNT(*) FROM learning.lesson l WHERE l.courseid = c.id), 0)
		FROM learning.lesson_completion lc
		WHERE lc.courseid = c.id AND lc.userid = $1
	), 0) AS progress`

// scanCourse hydrates one course row from the shared column list.
func scanCourse(row pgx.Row, courseEntity *Course, extra ...any) error {
	targets := []any{
		&courseEntity.ID,
		&courseEntity.Slug,
		&courseEntity.Title,
		&courseEntity.Description,
		&courseEntity.InstructorID,
		&courseEntity.InstructorName,
		&courseEntity.Category,
		&courseEntity.Difficulty,
		&courseEntity.Duration,
		&courseEntity.Tags,
		&courseEntity.EnrolledCount,
		&courseEntity.XPReward,
		&courseEntity.CreatedAt,
		&courseEntity.UpdatedAt,
		&courseEntity.IsEnrolled,
		&courseEntity.Progress,
	}
	targets = append(targets, extra...)
	return row.Scan(targets...)
}

/*
List returns a filtered, paginated slice of courses and the total count.

Description: One round-trip resolves the page, the window-function total,
and the viewer's enrollment/progress per row.

Parameters:
  - context: context.Context
  - viewerID: string (empty for anonymous)
  - filter: Filter (category, difficulty, tags, search, sorting)
  - limit: int
  - offset: int

Returns:
  - []*Course: Slice of hydrated course entities
  - int: Total count matching filters
  - error: Database execution errors
*/
func (repository *courseRepository) List(context context.Context, viewerID string, filter Filter, limit, offset int) ([]*Course, int, error) {

	var queryBuilder strings.Builder
	args := []any{viewerID}
	argID := 2

	queryBuilder.WriteString(`
		SELECT ` + courseColumns + `,
			COUNT(*) OVER() AS total_count
		FROM learning.course c
		LEFT JOIN users.account a ON a.id = c.instructorid
		WHERE c.deletedat IS NULL`)

	if filter.Category != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND c.category = $%d", argID))
		args = append(args, filter.Category)
		argID++
	}

	if filter.Difficulty != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND c.difficulty = $%d", argID))
		args = append(args, *filter.Difficulty)
		argID++
	}

	// Tag overlap: any shared tag matches.
	if len(filter.Tags) > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" AND c.tags && $%d", argID))
		args = append(args, filter.Tags)
		argID++
	}

	if filter.Query != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND (c.title ILIKE $%d OR c.description ILIKE $%d)", argID, argID))
		args = append(args, "%"+filter.Query+"%")
		argID++
	}

	queryBuilder.WriteString(orderClause(filter.SortBy, filter.SortDir))

	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_course_list_failed: %w", err)
	}
	defer rows.Close()

	var courses []*Course
	var total int
	for rows.Next() {
		courseEntity := &Course{}
		if err := scanCourse(rows, courseEntity, &total); err != nil {
			return nil, 0, fmt.Errorf("postgres_course_list_scan_failed: %w", err)
		}
		courses = append(courses, courseEntity)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_course_list_rows_failed: %w", err)
	}

	return courses, total, nil
}

// orderClause maps a whitelisted sort key to its ORDER BY fragment.
// Unknown keys fall back to newest-first.
func orderClause(sortBy, sortDir string) string {
	column := "c.createdat"
	switch sortBy {
	case "enrolledcount":
		column = "c.enrolledcount"
	case "title":
		column = "c.title"
	case "createdat":
		column = "c.createdat"
	}

	direction := "DESC"
	if strings.EqualFold(sortDir, "asc") {
		direction = "ASC"
	}

	return fmt.Sprintf(" ORDER BY %s %s", column, direction)
}

/*
FindByID returns the course with the given ID.

Parameters:
  - context: context.Context
  - viewerID: string (empty for anonymous)
  - id: string (UUIDv7)

Returns:
  - *Course: Hydrated course entity
  - error: apperr.NotFound or database errors
*/
func (repository *courseRepository) FindByID(context context.Context, viewerID, id string) (*Course, error) {
	return repository.findBy(context, viewerID, "c.id", id)
}

/*
FindBySlug returns the course with the given slug.

Parameters:
  - context: context.Context
  - viewerID: string (empty for anonymous)
  - slug: string

Returns:
  - *Course: Hydrated course entity
  - error: apperr.NotFound or database errors
*/
func (repository *courseRepository) FindBySlug(context context.Context, viewerID, slug string) (*Course, error) {
	return repository.findBy(context, viewerID, "c.slug", slug)
}

func (repository *courseRepository) findBy(context context.Context, viewerID, column, value string) (*Course, error) {
	query := `
		SELECT ` + courseColumns + `
		FROM learning.course c
		LEFT JOIN users.account a ON a.id = c.instructorid
		WHERE ` + column + ` = $2 AND c.deletedat IS NULL`

	courseEntity := &Course{}
	err := scanCourse(repository.pool.QueryRow(context, query, viewerID, value), courseEntity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Course")
		}
		return nil, fmt.Errorf("postgres_course_find_failed: %w", err)
	}

	return courseEntity, nil
}

/*
Create persists a new course record into the learning.course table.

Parameters:
  - context: context.Context
  - courseEntity: *Course

Returns:
  - error: Database constraint violations or connectivity errors
*/
func (repository *courseRepository) Create(context context.Context, courseEntity *Course) error {
	const query = `
		INSERT INTO learning.course (
			id, slug, title, description, instructorid, category,
			difficulty, duration, tags, enrolledcount, xpreward, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	now := time.Now()
	courseEntity.CreatedAt = now
	courseEntity.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		courseEntity.ID,
		courseEntity.Slug,
		courseEntity.Title,
		courseEntity.Description,
		courseEntity.InstructorID,
		courseEntity.Category,
		courseEntity.Difficulty,
		courseEntity.Duration,
		courseEntity.Tags,
		courseEntity.EnrolledCount,
		courseEntity.XPReward,
		courseEntity.CreatedAt,
		courseEntity.UpdatedAt,
	)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.Conflict("SLUG_TAKEN", "A course with this title already exists")
		}
		return fmt.Errorf("postgres_course_create_failed: %w", err)
	}

	return nil
}

/*
Update persists changes to a course's mutable metadata.

Description: COALESCE/NULLIF keeps empty input fields at their stored
values, giving partial-update semantics in one statement. EnrolledCount is
deliberately absent from the SET list: only the enrollment transaction may
move it.

Parameters:
  - context: context.Context
  - courseEntity: *Course

Returns:
  - error: apperr.NotFound or update failures
*/
func (repository *courseRepository) Update(context context.Context, courseEntity *Course) error {
	const query = `
		UPDATE learning.course SET
			title       = COALESCE(NULLIF($2, ''), title),
			description = COALESCE(NULLIF($3, ''), description),
			category    = COALESCE(NULLIF($4, ''), category),
			difficulty  = COALESCE(NULLIF($5, ''), difficulty),
			duration    = COALESCE(NULLIF($6, ''), duration),
			tags        = COALESCE($7, tags),
			xpreward    = COALESCE($8, xpreward),
			updatedat   = $9
		WHERE id = $1 AND deletedat IS NULL`

	var tags any
	if courseEntity.Tags != nil {
		tags = courseEntity.Tags
	}
	var xpReward any
	if courseEntity.XPReward > 0 {
		xpReward = courseEntity.XPReward
	}

	tag, err := repository.pool.Exec(context, query,
		courseEntity.ID,
		courseEntity.Title,
		courseEntity.Description,
		courseEntity.Category,
		string(courseEntity.Difficulty),
		courseEntity.Duration,
		tags,
		xpReward,
		time.Now(),
	)

	if err != nil {
		return fmt.Errorf("postgres_course_update_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Course")
	}

	return nil
}

/*
SoftDelete marks a course as deleted without removing the row.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: Deletion failures
*/
func (repository *courseRepository) SoftDelete(context context.Context, id string) error {
	const query = "UPDATE learning.course SET deletedat = $2 WHERE id = $1 AND deletedat IS NULL"

	tag, err := repository.pool.Exec(context, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_course_soft_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Course")
	}

	return nil
}

// # Lesson Repository

// lessonRepository implements the [LessonRepository] interface using pgx.
type lessonRepository struct {
	pool *pgxpool.Pool
}

// NewLessonRepository constructs a PostgreSQL backed lesson store.
func NewLessonRepository(pool *pgxpool.Pool) LessonRepository {
	return &lessonRepository{pool: pool}
}

/*
ListByCourse returns a course's lessons ordered by SortOrder, with the
viewer's completion flag joined in.

Parameters:
  - context: context.Context
  - viewerID: string (empty for anonymous)
  - courseID: string

Returns:
  - []*Lesson: Lessons in course order
  - error: Database execution errors
*/
func (repository *lessonRepository) ListByCourse(context context.Context, viewerID, courseID string) ([]*Lesson, error) {
	const query = `
		SELECT
			l.id, l.courseid, l.title, l.content, l.videourl, l.duration,
			l.xpreward, l.sortorder, l.createdat, l.updatedat,
			EXISTS (
				SELECT 1 FROM learning.lesson_completion lc
				WHERE lc.lessonid = l.id AND lc.userid = $1
			) AS iscompleted
		FROM learning.lesson l
		WHERE l.courseid = $2
		ORDER BY l.sortorder ASC`

	rows, err := repository.pool.Query(context, query, viewerID, courseID)
	if err != nil {
		return nil, fmt.Errorf("postgres_lesson_list_failed: %w", err)
	}
	defer rows.Close()

	var lessons []*Lesson
	for rows.Next() {
		lesson := &Lesson{}
		err := rows.Scan(
			&lesson.ID,
			&lesson.CourseID,
			&lesson.Title,
			&lesson.Content,
			&lesson.VideoURL,
			&lesson.Duration,
			&lesson.XPReward,
			&lesson.SortOrder,
			&lesson.CreatedAt,
			&lesson.UpdatedAt,
			&lesson.IsCompleted,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres_lesson_list_scan_failed: %w", err)
		}
		lessons = append(lessons, lesson)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_lesson_list_rows_failed: %w", err)
	}

	return lessons, nil
}

/*
FindByID returns the lesson with the given ID.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Lesson: Hydrated lesson entity
  - error: apperr.NotFound or database errors
*/
func (repository *lessonRepository) FindByID(context context.Context, id string) (*Lesson, error) {
	const query = `
		SELECT id, courseid, title, content, videourl, duration,
		       xpreward, sortorder, createdat, updatedat
		FROM learning.lesson
		WHERE id = $1`

	lesson := &Lesson{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&lesson.ID,
		&lesson.CourseID,
		&lesson.Title,
		&lesson.Content,
		&lesson.VideoURL,
		&lesson.Duration,
		&lesson.XPReward,
		&lesson.SortOrder,
		&lesson.CreatedAt,
		&lesson.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Lesson")
		}
		return nil, fmt.Errorf("postgres_lesson_find_failed: %w", err)
	}

	return lesson, nil
}

/*
Create persists a new lesson.

Description: The UNIQUE(courseid, sortorder) constraint rejects order ties;
that surfaces as a conflict rather than silently reordering.

Parameters:
  - context: context.Context
  - lesson: *Lesson

Returns:
  - error: Constraint violations or connectivity errors
*/
func (repository *lessonRepository) Create(context context.Context, lesson *Lesson) error {
	const query = `
		INSERT INTO learning.lesson (
			id, courseid, title, content, videourl, duration,
			xpreward, sortorder, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	now := time.Now()
	lesson.CreatedAt = now
	lesson.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		lesson.ID,
		lesson.CourseID,
		lesson.Title,
		lesson.Content,
		lesson.VideoURL,
		lesson.Duration,
		lesson.XPReward,
		lesson.SortOrder,
		lesson.CreatedAt,
		lesson.UpdatedAt,
	)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.Conflict("DUPLICATE_LESSON_ORDER", "Another lesson already occupies this position")
		}
		if dberr.IsForeignKeyViolation(err) {
			return apperr.NotFound("Course")
		}
		return fmt.Errorf("postgres_lesson_create_failed: %w", err)
	}

	return nil
}

/*
Update persists changes to lesson metadata.

Parameters:
  - context: context.Context
  - lesson: *Lesson

Returns:
  - error: apperr.NotFound or update failures
*/
func (repository *lessonRepository) Update(context context.Context, lesson *Lesson) error {
	const query = `
		UPDATE learning.lesson SET
			title     = COALESCE(NULLIF($2, ''), title),
			content   = COALESCE(NULLIF($3, ''), content),
			videourl  = COALESCE(NULLIF($4, ''), videourl),
			duration  = COALESCE(NULLIF($5, ''), duration),
			updatedat = $6
		WHERE id = $1`

	tag, err := repository.pool.Exec(context, query,
		lesson.ID,
		lesson.Title,
		lesson.Content,
		lesson.VideoURL,
		lesson.Duration,
		time.Now(),
	)

	if err != nil {
		return fmt.Errorf("postgres_lesson_update_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Lesson")
	}

	return nil
}

/*
Delete removes a lesson and, via ON DELETE CASCADE, its completion records.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: Deletion failures
*/
func (repository *lessonRepository) Delete(context context.Context, id string) error {
	const query = "DELETE FROM learning.lesson WHERE id = $1"

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_lesson_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Lesson")
	}

	return nil
}

// # Enrollment Repository

// enrollmentRepository implements the [EnrollmentRepository] interface using pgx.
type enrollmentRepository struct {
	pool *pgxpool.Pool
}

// NewEnrollmentRepository constructs a PostgreSQL backed enrollment store.
func NewEnrollmentRepository(pool *pgxpool.Pool) EnrollmentRepository {
	return &enrollmentRepository{pool: pool}
}

/*
Enroll atomically records an enrollment and increments the enrolled count.

Description: The (courseid, userid) primary key makes the insert
exactly-once; ON CONFLICT DO NOTHING turns a duplicate into zero affected
rows, which maps to ALREADY_ENROLLED. The counter increment shares the
transaction, so it moves by exactly 1 per new enrollment and stays
monotonic under any interleaving.

Parameters:
  - context: context.Context
  - courseID: string
  - userID: string

Returns:
  - error: ALREADY_ENROLLED conflict, or storage failures
*/
func (repository *enrollmentRepository) Enroll(context context.Context, courseID, userID string) error {

	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_enroll_begin_failed: %w", err)
	}
	defer transaction.Rollback(context)

	const insertQuery = `
		INSERT INTO learning.enrollment (courseid, userid, enrolledat)
		VALUES ($1, $2, $3)
		ON CONFLICT (courseid, userid) DO NOTHING`

	tag, err := transaction.Exec(context, insertQuery, courseID, userID, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_enroll_insert_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.Conflict("ALREADY_ENROLLED", "You are already enrolled in this course")
	}

	const counterQuery = `
		UPDATE learning.course
		SET enrolledcount = enrolledcount + 1
		WHERE id = $1`

	if _, err := transaction.Exec(context, counterQuery, courseID); err != nil {
		return fmt.Errorf("postgres_enroll_counter_failed: %w", err)
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres_enroll_commit_failed: %w", err)
	}

	return nil
}

/*
IsEnrolled reports whether the user has an enrollment row for the course.

Parameters:
  - context: context.Context
  - courseID: string
  - userID: string

Returns:
  - bool: Enrollment state
  - error: Execution errors
*/
func (repository *enrollmentRepository) IsEnrolled(context context.Context, courseID, userID string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM learning.enrollment
			WHERE courseid = $1 AND userid = $2
		)`

	var enrolled bool
	if err := repository.pool.QueryRow(context, query, courseID, userID).Scan(&enrolled); err != nil {
		return false, fmt.Errorf("postgres_enrollment_check_failed: %w", err)
	}

	return enrolled, nil
}

/*
CompleteLesson records a lesson completion exactly once.

Description: The insert is guarded by the (lessonid, userid) primary key.
A repeat is not an error: it reports inserted=false and changes nothing,
which keeps the operation idempotent from the caller's perspective. A
genuinely new completion awards the lesson's XP, and, when it is the last
outstanding lesson of the course, the course bonus, all inside one
transaction.

Parameters:
  - context: context.Context
  - lesson: *Lesson (hydrated, for the XP amounts)
  - userID: string

Returns:
  - bool: true if this call inserted the completion
  - error: Storage failures
*/
func (repository *enrollmentRepository) CompleteLesson(context context.Context, lesson *Lesson, userID string) (bool, error) {

	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return false, fmt.Errorf("postgres_complete_begin_failed: %w", err)
	}
	defer transaction.Rollback(context)

	const insertQuery = `
		INSERT INTO learning.lesson_completion (lessonid, userid, courseid, completedat)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (lessonid, userid) DO NOTHING`

	tag, err := transaction.Exec(context, insertQuery, lesson.ID, userID, lesson.CourseID, time.Now())
	if err != nil {
		return false, fmt.Errorf("postgres_complete_insert_failed: %w", err)
	}

	// Repeated completion: nothing inserted, nothing awarded.
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	award := lesson.XPReward

	// Course bonus lands together with the completion that finishes the course.
	const remainingQuery = `
		SELECT COUNT(*)
		FROM learning.lesson l
		WHERE l.courseid = $1
		  AND NOT EXISTS (
			SELECT 1 FROM learning.lesson_completion lc
			WHERE lc.lessonid = l.id AND lc.userid = $2
		  )`

	var remaining int
	if err := transaction.QueryRow(context, remainingQuery, lesson.CourseID, userID).Scan(&remaining); err != nil {
		return false, fmt.Errorf("postgres_complete_remaining_failed: %w", err)
	}

	if remaining == 0 {
		const bonusQuery = "SELECT xpreward FROM learning.course WHERE id = $1"
		var bonus int
		if err := transaction.QueryRow(context, bonusQuery, lesson.CourseID).Scan(&bonus); err != nil {
			return false, fmt.Errorf("postgres_complete_bonus_failed: %w", err)
		}
		award += bonus
	}

	if award > 0 {
		const xpQuery = "UPDATE users.account SET xp = xp + $2, updatedat = $3 WHERE id = $1"
		if _, err := transaction.Exec(context, xpQuery, userID, award, time.Now()); err != nil {
			return false, fmt.Errorf("postgres_complete_xp_failed: %w", err)
		}
	}

	if err := transaction.Commit(context); err != nil {
		return false, fmt.Errorf("postgres_complete_commit_failed: %w", err)
	}

	return true, nil
}

/*
CompletedLessonIDs returns the set of completed lesson IDs for one course.

Parameters:
  - context: context.Context
  - courseID: string
  - userID: string

Returns:
  - map[string]bool: Completed lesson IDs
  - error: Execution errors
*/
func (repository *enrollmentRepository) CompletedLessonIDs(context context.Context, courseID, userID string) (map[string]bool, error) {
	const query = `
		SELECT lessonid FROM learning.lesson_completion
		WHERE courseid = $1 AND userid = $2`

	rows, err := repository.pool.Query(context, query, courseID, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres_completed_ids_failed: %w", err)
	}
	defer rows.Close()

	completed := map[string]bool{}
	for rows.Next() {
		var lessonID string
		if err := rows.Scan(&lessonID); err != nil {
			return nil, fmt.Errorf("postgres_completed_ids_scan_failed: %w", err)
		}
		completed[lessonID] = true
	}

	return completed, rows.Err()
}

/*
ActivityDays returns the distinct days with at least one completion.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - []time.Time: Distinct activity days, most recent first
  - error: Execution errors
*/
func (repository *enrollmentRepository) ActivityDays(context context.Context, userID string) ([]time.Time, error) {
	const query = `
		SELECT DISTINCT date_trunc('day', completedat) AS day
		FROM learning.lesson_completion
		WHERE userid = $1
		ORDER BY day DESC`

	rows, err := repository.pool.Query(context, query, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres_activity_days_failed: %w", err)
	}
	defer rows.Close()

	var days []time.Time
	for rows.Next() {
		var day time.Time
		if err := rows.Scan(&day); err != nil {
			return nil, fmt.Errorf("postgres_activity_days_scan_failed: %w", err)
		}
		days = append(days, day)
	}

	return days, rows.Err()
}

/*
CompletedCourseSlugs returns the slugs of fully completed courses.

Description: A course counts as completed when it has at least one lesson
and every lesson has a completion row for the user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - []string: Course slugs, earliest completion first
  - error: Execution errors
*/
func (repository *enrollmentRepository) CompletedCourseSlugs(context context.Context, userID string) ([]string, error) {
	const query = `
		SELECT c.slug
		FROM learning.course c
		JOIN learning.lesson l ON l.courseid = c.id
		LEFT JOIN learning.lesson_completion lc
			ON lc.lessonid = l.id AND lc.userid = $1
		WHERE c.deletedat IS NULL
		GROUP BY c.id, c.slug
		HAVING COUNT(*) = COUNT(lc.lessonid)
		ORDER BY MAX(lc.completedat) ASC`

	rows, err := repository.pool.Query(context, query, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres_completed_courses_failed: %w", err)
	}
	defer rows.Close()

	var slugs []string
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return nil, fmt.Errorf("postgres_completed_courses_scan_failed: %w", err)
		}
		slugs = append(slugs, slug)
	}

	return slugs, rows.Err()
}
