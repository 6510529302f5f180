package model

import "time"

// ClientMetrics tracks per-status task counters for a client.
// The counters are maintained by the coordinator alongside task writes.
type ClientMetrics struct {
	TasksCompleted  int        `json:"tasks_completed" db:"tasks_completed"`
	TasksInProgress int        `json:"tasks_in_progress" db:"tasks_in_progress"`
	TasksPending    int        `json:"tasks_pending" db:"tasks_pending"`
	LastActivity    *time.Time `json:"last_activity,omitempty" db:"last_activity"`
}

// Bucket returns a pointer to the counter that tracks tasks in the given status.
// Unknown statuses count as pending.
func (m *ClientMetrics) Bucket(status string) *int {
	switch status {
	case TaskStatusCompleted:
		return &m.TasksCompleted
	case TaskStatusInProgress:
		return &m.TasksInProgress
	default:
		return &m.TasksPending
	}
}

// Client is a customer record owned by exactly one user.
type Client struct {
	ID      string `json:"id" db:"id"`
	UserID  string `json:"user_id" db:"user_id"`
	Name    string `json:"name" db:"name"`
	Email   string `json:"email" db:"email"`
	Company string `json:"company" db:"company"`
	Notes   string `json:"notes" db:"notes"`

	ClientMetrics `json:"metrics"`

	ObjectivesCount     int `json:"objectives_count" db:"objectives_count"`
	ObjectivesCompleted int `json:"objectives_completed" db:"objectives_completed"`
	ObjectivesPending   int `json:"objectives_pending" db:"objectives_pending"`

	LastProfitabilityUpdate *time.Time `json:"last_profitability_update,omitempty" db:"last_profitability_update"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// TotalTasks returns the number of tasks counted against the client.
func (c Client) TotalTasks() int {
	return c.TasksCompleted + c.TasksInProgress + c.TasksPending
}
