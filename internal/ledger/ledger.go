// Package ledger holds the Time Ledger aggregation helpers.
package ledger

import (
	"time"

	"github.com/nhle/clientdesk/internal/model"
)

// DurationHours returns the elapsed time between start and end in hours.
// An end before start yields 0.
func DurationHours(start, end time.Time) float64 {
	if end.Before(start) {
		return 0
	}
	return end.Sub(start).Hours()
}

// CompletedHours sums ActualTime over the completed tasks.
func CompletedHours(tasks []model.Task) float64 {
	var sum float64
	for _, t := range tasks {
		if t.IsCompleted() {
			sum += t.ActualTime
		}
	}
	return sum
}

// BillableHours sums the durations of stopped billable timers.
func BillableHours(timers []model.Timer) float64 {
	var sum float64
	for _, t := range timers {
		if t.Billable && !t.IsOpen() {
			sum += t.Duration
		}
	}
	return sum
}

// Close stops t at end and returns the elapsed hours.
func Close(t *model.Timer, end time.Time) float64 {
	hours := DurationHours(t.StartTime, end)
	t.EndTime = &end
	t.Duration = hours
	t.UpdatedAt = end
	return hours
}
