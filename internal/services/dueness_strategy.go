// Package services provides business logic and orchestration services.
//
// This file implements the Strategy Pattern for recurring transaction dueness
// checking. Each frequency (daily, weekly, monthly) has its own strategy that
// encapsulates the logic for determining if a template is due.

package services

import (
	"fmt"
	"plenio/internal/core"
	"time"
)

// DuenessChecker is the strategy interface for checking if a recurring
// transaction template is due. Each implementation encapsulates the algorithm
// for a specific frequency.
type DuenessChecker interface {
	// IsDue returns true if the template should be materialized based on the
	// last run time, the current time and the template's start date.
	IsDue(lastRun, now, start time.Time) bool
}

// DailyChecker implements DuenessChecker for daily templates.
type DailyChecker struct{}

// IsDue returns true if the last run was before today.
func (DailyChecker) IsDue(lastRun, now, _ time.Time) bool {
	if lastRun.IsZero() {
		return true
	}
	return lastRun.Format("2006-01-02") != now.Format("2006-01-02")
}

// WeeklyChecker implements DuenessChecker for weekly templates.
type WeeklyChecker struct{}

// IsDue returns true if 7 or more days have passed since the last run.
func (WeeklyChecker) IsDue(lastRun, now, _ time.Time) bool {
	if lastRun.IsZero() {
		return true
	}
	daysSince := now.Sub(lastRun).Hours() / 24
	return daysSince >= 7
}

// MonthlyChecker implements DuenessChecker for monthly templates.
type MonthlyChecker struct{}

// IsDue returns true if we're in a new month and have reached the target day.
func (MonthlyChecker) IsDue(lastRun, now, start time.Time) bool {
	if lastRun.IsZero() {
		return true
	}

	// Already processed this month?
	if lastRun.Year() == now.Year() && lastRun.Month() == now.Month() {
		return false
	}

	// Check if we've reached the target day of the month, clamping to the
	// last day when the target doesn't exist (e.g. the 31st in February).
	targetDay := start.Day()
	lastDayOfMonth := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if targetDay > lastDayOfMonth {
		targetDay = lastDayOfMonth
	}

	return now.Day() >= targetDay
}

// duenessStrategies maps frequencies to their corresponding checkers.
// This registry enables O(1) lookup and easy extension for new frequencies.
var duenessStrategies = map[core.Frequency]DuenessChecker{
	core.FrequencyDaily:   DailyChecker{},
	core.FrequencyWeekly:  WeeklyChecker{},
	core.FrequencyMonthly: MonthlyChecker{},
}

// GetDuenessChecker returns the appropriate dueness checker for a frequency.
// Returns an error if the frequency is not supported.
func GetDuenessChecker(frequency core.Frequency) (DuenessChecker, error) {
	checker, ok := duenessStrategies[frequency]
	if !ok {
		return nil, fmt.Errorf("unknown recurring frequency: %s", frequency)
	}
	return checker, nil
}

// RegisterDuenessChecker allows registering custom dueness checkers for new
// frequencies. This supports the Open/Closed principle by allowing extension
// without modification.
func RegisterDuenessChecker(frequency core.Frequency, checker DuenessChecker) {
	duenessStrategies[frequency] = checker
}
