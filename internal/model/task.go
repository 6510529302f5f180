package model

import "time"

// Task status constants.
const (
	TaskStatusToDo       = "to-do"
	TaskStatusInProgress = "in-progress"
	TaskStatusCompleted  = "completed"
)

// Priority constants (lower number = higher priority).
const (
	PriorityUrgent = 1
	PriorityHigh   = 2
	PriorityMedium = 3
	PriorityLow    = 4
)

// Impact score bounds.
const (
	MinImpactScore = 0
	MaxImpactScore = 100
)

// ValidTaskStatus reports whether s is one of the known task statuses.
func ValidTaskStatus(s string) bool {
	switch s {
	case TaskStatusToDo, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// Task is a unit of work, optionally billed to a client.
type Task struct {
	ID          string     `json:"id" db:"id"`
	UserID      string     `json:"user_id" db:"user_id"`
	ClientID    *string    `json:"client_id,omitempty" db:"client_id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	Status      string     `json:"status" db:"status"`
	Priority    int        `json:"priority" db:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty" db:"due_date"`

	// ActualTime is accumulated worked hours, fed by stopped timers.
	ActualTime float64 `json:"actual_time" db:"actual_time"`

	ImpactScore  int  `json:"impact_score" db:"impact_score"`
	IsHighImpact bool `json:"is_high_impact" db:"is_high_impact"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Client is optionally populated by callers that expand the reference.
	Client *Client `json:"client,omitempty" db:"-"`
}

// IsCompleted reports whether the task is in the completed state.
func (t Task) IsCompleted() bool {
	return t.Status == TaskStatusCompleted
}

// ClientRef returns the task's client reference, expanded when available.
func (t Task) ClientRef() ClientRef {
	if t.Client != nil {
		return ExpandedClient(t.Client)
	}
	if t.ClientID != nil {
		return ClientID(*t.ClientID)
	}
	return ClientRef{}
}
