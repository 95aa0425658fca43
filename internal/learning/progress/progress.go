// Copyright (c) 2026 CyberLearn. All rights reserved.
// Author: platform@cyberlearn.io

/*
Package progress implements the progression engine of the CyberLearn platform.

It aggregates raw learning events (lesson completions, enrollment records) into
the derived values the product displays: course completion percentage, XP level,
distance to the next level, and the daily activity streak.

# Architecture

The computations in this file are pure functions. They hold no state, touch no
storage, and never fail: partial or missing data degrades to a zero value, not
to an error. The stateful aggregation lives in [Service].
*/
package progress

import "time"

// DefaultThresholds is the XP table mapping cumulative experience to levels.
//
// Level N requires DefaultThresholds[N-1] total XP. The table is strictly
// increasing; the first entry is always 0 so that every account is at least
// level 1.
var DefaultThresholds = []int{0, 100, 300, 600, 1000, 1500, 2100, 2800, 3600, 4500}

// # Course Completion

// Summary describes how far a learner has progressed through one course.
type Summary struct {
	CompletedCount int     `json:"completed_count"`
	TotalCount     int     `json:"total_count"`
	Percentage     float64 `json:"percentage"`
}

/*
CourseProgress computes a completion summary from per-lesson completion flags.

Description: The input is the ordered sequence of a course's lessons, reduced
to whether each one is completed. An empty course yields a zero summary, never
a division by zero.

Parameters:
  - lessonsCompleted: []bool (one flag per lesson, in course order)

Returns:
  - Summary: Completion counts and percentage in [0, 100]
*/
func CourseProgress(lessonsCompleted []bool) Summary {
	summary := Summary{TotalCount: len(lessonsCompleted)}

	for _, done := range lessonsCompleted {
		if done {
			summary.CompletedCount++
		}
	}

	if summary.TotalCount > 0 {
		summary.Percentage = float64(summary.CompletedCount) / float64(summary.TotalCount) * 100
	}

	return summary
}

// # Levels

// LevelSummary describes where a total XP amount sits in the level table.
type LevelSummary struct {
	Level          int     `json:"level"`
	XP             int     `json:"xp"`
	XPToNext       int     `json:"xp_to_next"`
	FractionToNext float64 `json:"fraction_to_next"`
}

/*
LevelProgress resolves a total XP amount against a threshold table.

Description: The level is the highest table index whose threshold does not
exceed totalXP (1-based). At the top of the table the result saturates:
XPToNext is 0 and FractionToNext is 1.0. Negative XP is treated as 0, so a
fresh or partially hydrated identity resolves to level 1 rather than failing.

Parameters:
  - totalXP: int (cumulative experience; negative values are clamped to 0)
  - table: []int (strictly increasing thresholds; nil falls back to [DefaultThresholds])

Returns:
  - LevelSummary: Level, clamped XP, and distance to the next threshold
*/
func LevelProgress(totalXP int, table []int) LevelSummary {
	if len(table) == 0 {
		table = DefaultThresholds
	}
	if totalXP < 0 {
		totalXP = 0
	}

	level := 1
	for index, threshold := range table {
		if totalXP >= threshold {
			level = index + 1
		}
	}

	summary := LevelSummary{Level: level, XP: totalXP}

	// Saturated at the top tier.
	if level >= len(table) {
		summary.FractionToNext = 1.0
		return summary
	}

	next := table[level]
	summary.XPToNext = next - totalXP

	// Fraction is measured against the next threshold as a whole,
	// totalXP / (totalXP + XPToNext), not within the current tier.
	if next > 0 {
		summary.FractionToNext = float64(totalXP) / float64(next)
	}

	return summary
}

// # Streaks

/*
Streak counts consecutive active days ending today or yesterday.

Description: A streak survives until a full calendar day passes with no
activity. Having been active yesterday but not yet today still counts, so the
streak does not visibly reset at midnight. Duplicate timestamps within one
day collapse to a single active day.

Parameters:
  - activeDays: []time.Time (any timestamps on days with recorded activity)
  - today: time.Time (the reference day, normally time.Now())

Returns:
  - int: Length of the current streak, 0 when the chain is broken
*/
func Streak(activeDays []time.Time, today time.Time) int {
	if len(activeDays) == 0 {
		return 0
	}

	active := make(map[time.Time]bool, len(activeDays))
	for _, day := range activeDays {
		active[truncateToDay(day)] = true
	}

	cursor := truncateToDay(today)
	if !active[cursor] {
		// Not active today: the streak may still be alive from yesterday.
		cursor = cursor.AddDate(0, 0, -1)
		if !active[cursor] {
			return 0
		}
	}

	streak := 0
	for active[cursor] {
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}

	return streak
}

// truncateToDay normalizes a timestamp to midnight UTC for calendar comparison.
func truncateToDay(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
