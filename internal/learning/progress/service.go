// Copyright (c) 2026 CyberLearn. All rights reserved.
// Author: platform@cyberlearn.io

package progress

import (
	"context"
	"fmt"
	"time"
)

// # Data Sources

// XPSource reads a user's accumulated experience.
type XPSource interface {
	// TotalXP returns the user's cumulative XP. Unknown users are a typed
	// NotFound, never a silent zero.
	TotalXP(ctx context.Context, userID string) (int, error)
}

// CompletionSource reads aggregated lesson-completion facts.
//
// The course domain's enrollment repository satisfies this contract; the
// interface lives here because this service defines what it needs.
type CompletionSource interface {
	// ActivityDays returns the distinct days with at least one completion.
	ActivityDays(ctx context.Context, userID string) ([]time.Time, error)

	// CompletedCourseSlugs returns the slugs of fully completed courses.
	CompletedCourseSlugs(ctx context.Context, userID string) ([]string, error)
}

// # Service Layer

// Overview is the aggregated progression snapshot for one user.
type Overview struct {
	TotalXP          int      `json:"total_xp"`
	Level            int      `json:"level"`
	XPToNext         int      `json:"xp_to_next"`
	FractionToNext   float64  `json:"fraction_to_next"`
	CompletedCourses int      `json:"completed_courses"`
	CurrentStreak    int      `json:"current_streak"`
	Certificates     []string `json:"certificates"`
}

// Service aggregates raw learning events into an [Overview].
//
// All derivation delegates to the pure functions in this package; the
// service only fetches inputs and assembles the result.
type Service struct {
	xp          XPSource
	completions CompletionSource
	thresholds  []int
	now         func() time.Time
}

// NewService constructs a progression [Service] over the default XP table.
func NewService(xp XPSource, completions CompletionSource) *Service {
	return &Service{
		xp:          xp,
		completions: completions,
		thresholds:  DefaultThresholds,
		now:         time.Now,
	}
}

/*
Overview assembles the full progression snapshot for a user.

Description: Fetches the XP total, activity days, and completed courses,
then derives level, streak, and certificates. Certificates are the slugs of
fully completed courses.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *Overview: Aggregated progression state
  - error: NotFound for unknown users, or source failures
*/
func (service *Service) Overview(context context.Context, userID string) (*Overview, error) {
	totalXP, err := service.xp.TotalXP(context, userID)
	if err != nil {
		return nil, err
	}

	activeDays, err := service.completions.ActivityDays(context, userID)
	if err != nil {
		return nil, fmt.Errorf("progress_service_activity_failed: %w", err)
	}

	certificates, err := service.completions.CompletedCourseSlugs(context, userID)
	if err != nil {
		return nil, fmt.Errorf("progress_service_certificates_failed: %w", err)
	}
	if certificates == nil {
		certificates = []string{}
	}

	level := LevelProgress(totalXP, service.thresholds)

	return &Overview{
		TotalXP:          level.XP,
		Level:            level.Level,
		XPToNext:         level.XPToNext,
		FractionToNext:   level.FractionToNext,
		CompletedCourses: len(certificates),
		CurrentStreak:    Streak(activeDays, service.now()),
		Certificates:     certificates,
	}, nil
}
