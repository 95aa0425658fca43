// Copyright (c) 2026 CyberLearn. All rights reserved.
// Author: platform@cyberlearn.io

package progress

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyberlearn/api/internal/platform/apperr"
)

type stubXP struct {
	xp  map[string]int
	err error
}

func (s stubXP) TotalXP(_ context.Context, userID string) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	total, ok := s.xp[userID]
	if !ok {
		return 0, apperr.NotFound("User")
	}
	return total, nil
}

type stubCompletions struct {
	days  []time.Time
	slugs []string
}

func (s stubCompletions) ActivityDays(_ context.Context, _ string) ([]time.Time, error) {
	return s.days, nil
}

func (s stubCompletions) CompletedCourseSlugs(_ context.Context, _ string) ([]string, error) {
	return s.slugs, nil
}

/*
TestOverview assembles a snapshot from stubbed sources and checks the
derived fields against the pure functions they delegate to.
*/
func TestOverview(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	service := NewService(
		stubXP{xp: map[string]int{"user-1": 150}},
		stubCompletions{
			days:  []time.Time{now, now.AddDate(0, 0, -1)},
			slugs: []string{"web-security-basics", "network-defense"},
		},
	)
	service.thresholds = []int{0, 100, 300}
	service.now = func() time.Time { return now }

	overview, err := service.Overview(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, 150, overview.TotalXP)
	assert.Equal(t, 2, overview.Level)
	assert.Equal(t, 150, overview.XPToNext)
	assert.Equal(t, 2, overview.CompletedCourses)
	assert.Equal(t, 2, overview.CurrentStreak)
	assert.Equal(t, []string{"web-security-basics", "network-defense"}, overview.Certificates)
}

/*
TestOverview_FreshUser checks the zero-activity path: level 1, no streak,
an empty (not nil) certificate list.
*/
func TestOverview_FreshUser(t *testing.T) {
	service := NewService(
		stubXP{xp: map[string]int{"user-1": 0}},
		stubCompletions{},
	)

	overview, err := service.Overview(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, 0, overview.TotalXP)
	assert.Equal(t, 1, overview.Level)
	assert.Equal(t, 0, overview.CurrentStreak)
	assert.Equal(t, 0, overview.CompletedCourses)
	assert.NotNil(t, overview.Certificates)
	assert.Empty(t, overview.Certificates)
}

/*
TestOverview_UnknownUser propagates a typed NotFound rather than a zero snapshot.
*/
func TestOverview_UnknownUser(t *testing.T) {
	service := NewService(stubXP{xp: map[string]int{}}, stubCompletions{})

	_, err := service.Overview(context.Background(), "ghost")
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "NOT_FOUND"))
}
