// Copyright (c) 2026 CyberLearn. All rights reserved.
// Author: platform@cyberlearn.io

package course

import "time"

// # Aggregate

// Difficulty represents the advertised skill level of a course.
type Difficulty string

const (
	// DifficultyBeginner assumes no prior knowledge.
	DifficultyBeginner Difficulty = "Beginner"
	// DifficultyIntermediate assumes working familiarity with the basics.
	DifficultyIntermediate Difficulty = "Intermediate"
	// DifficultyAdvanced targets practitioners.
	DifficultyAdvanced Difficulty = "Advanced"
)

// IsValid reports whether d is a recognised [Difficulty] value.
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// Course is the central aggregate of the learning domain.
//
// # Overview
//
// It represents a single course in the catalog: static metadata authored by
// an instructor plus the enrollment counter maintained by the platform.
//
// # Per-Viewer Fields
//
// IsEnrolled and Progress are only meaningful in the context of a specific
// authenticated viewer. They are joined in at query time and are never
// fabricated for anonymous requests; Progress is only meaningful when
// IsEnrolled is true.
type Course struct {
	ID             string     `json:"id"`
	Slug           string     `json:"slug"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	InstructorID   string     `json:"instructor_id"`
	InstructorName string     `json:"instructor"`
	Category       string     `json:"category"`
	Difficulty     Difficulty `json:"difficulty"`
	Duration       string     `json:"duration"` // Display string (e.g. "8 weeks").
	Tags           []string   `json:"tags"`

	// EnrolledCount is monotonically non-decreasing: there is no unenroll,
	// and only the Enroll transaction may touch it.
	EnrolledCount int `json:"enrolled_count"`

	// XPReward is the bonus awarded once when the final lesson completes.
	XPReward int `json:"xp_reward"`

	IsEnrolled bool    `json:"is_enrolled"`
	Progress   float64 `json:"progress"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"-"` // nil = active; non-nil = soft-deleted.
}

// Lesson represents a single learning unit within a [Course].
//
// SortOrder is unique per course; a tie is a data-integrity violation
// enforced by the database, not papered over here.
type Lesson struct {
	ID        string `json:"id"`
	CourseID  string `json:"course_id"`
	Title     string `json:"title"`
	Content   string `json:"content,omitempty"`
	VideoURL  string `json:"video_url,omitempty"`
	Duration  string `json:"duration"`
	XPReward  int    `json:"xp_reward"`
	SortOrder int    `json:"order"`

	// IsCompleted is per-viewer, monotonic: once true it never reverts.
	IsCompleted bool `json:"is_completed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Filter holds the parameters for a filtered course list query.
//
// # Sorting
//
// Available SortBy values: "enrolledcount", "createdat", "title".
// SortDir can be "asc" or "desc".
type Filter struct {
	Category   string
	Difficulty *Difficulty
	Tags       []string
	Query      string // Substring search over title and description.
	SortBy     string
	SortDir    string
}

// # Field Identifiers

// Global field names for validation in the learning domain.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldDifficulty  = "difficulty"
	FieldDuration    = "duration"
	FieldSlug        = "slug"
	FieldXPReward    = "xp_reward"
	FieldOrder       = "order"
	FieldCourseID    = "course_id"
)
