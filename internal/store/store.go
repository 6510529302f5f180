package store

import (
	"context"
	"errors"
	"time"

	"github.com/nhle/clientdesk/internal/model"
)

// Sentinel errors returned (wrapped) by Queries implementations.
var (
	ErrNotFound        = errors.New("not found")
	ErrOpenTimerExists = errors.New("an open timer already exists")
	ErrVersionConflict = errors.New("record was modified concurrently")
)

// TaskFilter narrows task listings. Nil fields do not filter.
type TaskFilter struct {
	ClientID      *string
	Status        *string
	ExcludeStatus *string
	SortBy        string // "created_at", "due_date", "impact_score", "priority"
	SortDesc      bool
	Limit         int
}

// TimerFilter narrows timer listings. Nil fields do not filter.
type TimerFilter struct {
	ClientID *string
	TaskID   *string
	Billable *bool
	Since    *time.Time
	Limit    int
}

// Queries is the set of single-statement operations over the five
// collections. Every read and write is scoped to the owning user.
type Queries interface {
	// === Clients ===

	CreateClient(ctx context.Context, c *model.Client) error
	GetClient(ctx context.Context, userID, id string) (*model.Client, error)
	ListClients(ctx context.Context, userID string) ([]model.Client, error)
	UpdateClient(ctx context.Context, c *model.Client) error
	DeleteClient(ctx context.Context, userID, id string) error
	ClientExists(ctx context.Context, id string) (bool, error)

	// === Tasks ===

	CreateTask(ctx context.Context, t *model.Task) error
	GetTask(ctx context.Context, userID, id string) (*model.Task, error)
	ListTasks(ctx context.Context, userID string, filter TaskFilter) ([]model.Task, error)
	UpdateTask(ctx context.Context, t *model.Task) error
	DeleteTask(ctx context.Context, userID, id string) error
	DeleteTasksByClient(ctx context.Context, userID, clientID string) (int, error)
	CountTasksByClient(ctx context.Context, clientID string) (int, error)
	SumCompletedTaskHours(ctx context.Context, userID, clientID string) (float64, error)
	AddTaskActualTime(ctx context.Context, userID, id string, hours float64) error
	SetTaskImpactScore(ctx context.Context, userID, id string, score int) error
	SetHighImpact(ctx context.Context, userID string, highIDs []string) error

	// === Timers ===

	CreateTimer(ctx context.Context, t *model.Timer) error
	GetTimer(ctx context.Context, userID, id string) (*model.Timer, error)
	GetOpenTimer(ctx context.Context, userID string) (*model.Timer, error)
	ListTimers(ctx context.Context, userID string, filter TimerFilter) ([]model.Timer, error)
	CountOpenTimers(ctx context.Context, userID string) (int, error)
	CloseTimer(ctx context.Context, t *model.Timer) error

	// === Profitability ===

	CreateProfitability(ctx context.Context, p *model.Profitability) error
	GetProfitabilityByClient(ctx context.Context, userID, clientID string) (*model.Profitability, error)
	ListProfitability(ctx context.Context, userID string) ([]model.Profitability, error)
	UpdateProfitability(ctx context.Context, p *model.Profitability) error
	DeleteProfitabilityByClient(ctx context.Context, userID, clientID string) (int, error)

	// === Objectives ===

	CreateObjective(ctx context.Context, o *model.Objective) error
	GetObjective(ctx context.Context, userID, id string) (*model.Objective, error)
	ListObjectives(ctx context.Context, userID string, clientID *string) ([]model.Objective, error)
	UpdateObjective(ctx context.Context, o *model.Objective) error
	DeleteObjective(ctx context.Context, userID, id string) error
	DeleteObjectivesByClient(ctx context.Context, userID, clientID string) (int, error)
}

// Store is the persistence interface. WithTx runs fn against a single
// transaction, committing when fn returns nil and rolling back otherwise.
type Store interface {
	Queries
	WithTx(ctx context.Context, fn func(q Queries) error) error
	Close() error
}
