// Copyright (c) 2026 CyberLearn. All rights reserved.
// Author: platform@cyberlearn.io

package progress_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cyberlearn/api/internal/learning/progress"
)

/*
TestCourseProgress covers the completion summary, including the empty-course
case that must not divide by zero.
*/
func TestCourseProgress(t *testing.T) {
	tests := []struct {
		name           string
		lessons        []bool
		wantCompleted  int
		wantTotal      int
		wantPercentage float64
	}{
		{"empty_course", nil, 0, 0, 0},
		{"empty_slice", []bool{}, 0, 0, 0},
		{"two_of_four", []bool{true, false, true, false}, 2, 4, 50},
		{"none_completed", []bool{false, false, false}, 0, 3, 0},
		{"all_completed", []bool{true, true}, 2, 2, 100},
		{"one_of_three", []bool{true, false, false}, 1, 3, 100.0 / 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := progress.CourseProgress(tt.lessons)

			assert.Equal(t, tt.wantCompleted, summary.CompletedCount)
			assert.Equal(t, tt.wantTotal, summary.TotalCount)
			assert.InDelta(t, tt.wantPercentage, summary.Percentage, 1e-9)
		})
	}
}

/*
TestLevelProgress resolves XP totals against a small explicit table so each
boundary is visible in the test data.
*/
func TestLevelProgress(t *testing.T) {
	table := []int{0, 100, 300}

	tests := []struct {
		name         string
		totalXP      int
		wantLevel    int
		wantXPToNext int
		wantFraction float64
	}{
		{"zero_xp_is_level_one", 0, 1, 100, 0},
		{"negative_xp_clamped", -50, 1, 100, 0},
		{"mid_first_tier", 50, 1, 50, 0.5},
		{"exact_threshold_advances", 100, 2, 200, 1.0 / 3.0},
		{"half_way_to_next_threshold", 150, 2, 150, 0.5},
		{"mid_second_tier", 200, 2, 100, 2.0 / 3.0},
		{"top_tier_saturates", 300, 3, 0, 1.0},
		{"beyond_top_stays_saturated", 9999, 3, 0, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := progress.LevelProgress(tt.totalXP, table)

			assert.Equal(t, tt.wantLevel, summary.Level)
			assert.Equal(t, tt.wantXPToNext, summary.XPToNext)
			assert.InDelta(t, tt.wantFraction, summary.FractionToNext, 1e-9)
		})
	}
}

/*
TestLevelProgress_DefaultTable checks the nil-table fallback and that the
default table keeps every account at level 1 or above.
*/
func TestLevelProgress_DefaultTable(t *testing.T) {
	summary := progress.LevelProgress(0, nil)
	assert.Equal(t, 1, summary.Level)
	assert.Equal(t, progress.DefaultThresholds[1], summary.XPToNext)
}

/*
TestStreak covers the calendar chain logic, including the grace day: being
active yesterday but not yet today keeps the streak alive.
*/
func TestStreak(t *testing.T) {
	day := func(offset int) time.Time {
		base := time.Date(2026, 8, 31, 15, 0, 0, 0, time.UTC)
		return base.AddDate(0, 0, offset)
	}
	today := day(0)

	tests := []struct {
		name       string
		activeDays []time.Time
		want       int
	}{
		{"no_activity", nil, 0},
		{"active_today_only", []time.Time{day(0)}, 1},
		{"three_day_chain_ending_today", []time.Time{day(0), day(-1), day(-2)}, 3},
		{"chain_ending_yesterday_survives", []time.Time{day(-1), day(-2)}, 2},
		{"gap_breaks_chain", []time.Time{day(0), day(-2), day(-3)}, 1},
		{"stale_activity", []time.Time{day(-5), day(-6)}, 0},
		{"duplicate_timestamps_collapse", []time.Time{day(0), day(0).Add(2 * time.Hour), day(-1)}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, progress.Streak(tt.activeDays, today))
		})
	}
}
