package model

import "time"

// Timer is a Time Ledger entry. EndTime is nil while the timer is running.
type Timer struct {
	ID          string     `json:"id" db:"id"`
	UserID      string     `json:"user_id" db:"user_id"`
	TaskID      *string    `json:"task_id,omitempty" db:"task_id"`
	ClientID    *string    `json:"client_id,omitempty" db:"client_id"`
	Description string     `json:"description" db:"description"`
	StartTime   time.Time  `json:"start_time" db:"start_time"`
	EndTime     *time.Time `json:"end_time,omitempty" db:"end_time"`

	// Duration is the elapsed time in hours, set when the timer stops.
	Duration float64 `json:"duration" db:"duration"`
	Billable bool    `json:"billable" db:"billable"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsOpen reports whether the timer is still running.
func (t Timer) IsOpen() bool {
	return t.EndTime == nil
}
