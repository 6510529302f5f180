package coordinator

import (
	"context"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nhle/clientdesk/internal/apperr"
	"github.com/nhle/clientdesk/internal/model"
	"github.com/nhle/clientdesk/internal/store"
)

// TaskInput describes a task to create. Status defaults to to-do.
type TaskInput struct {
	ClientID    *string    `json:"client_id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status,omitempty"`
	Priority    int        `json:"priority,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	ImpactScore int        `json:"impact_score"`
}

// TaskPatch edits a task. Nil fields are unchanged; ClearClient detaches
// the task from its client.
type TaskPatch struct {
	ClientID    *string    `json:"client_id,omitempty"`
	ClearClient bool       `json:"clear_client,omitempty"`
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Status      *string    `json:"status,omitempty"`
	Priority    *int       `json:"priority,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	ActualTime  *float64   `json:"actual_time,omitempty"`
	ImpactScore *int       `json:"impact_score,omitempty"`
}

// CreateTask writes the task and counts it against its client.
func (c *Coordinator) CreateTask(ctx context.Context, userID string, in TaskInput) (*model.Task, error) {
	task := &model.Task{
		UserID:      userID,
		ClientID:    trimID(in.ClientID),
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
		ImpactScore: in.ImpactScore,
	}
	if task.Status == "" {
		task.Status = model.TaskStatusToDo
	}
	if task.Priority == 0 {
		task.Priority = model.PriorityLow
	}
	if err := validateTask(task); err != nil {
		return nil, err
	}

	err := c.inTx(ctx, "create task", func(ctx context.Context, q store.Queries) error {
		ref := task.ClientRef()
		if !ref.IsZero() {
			if _, err := q.GetClient(ctx, userID, ref.ID()); err != nil {
				return lookup("client", ref.ID(), err)
			}
		}
		if err := q.CreateTask(ctx, task); err != nil {
			return err
		}
		if ref.IsZero() {
			return nil
		}
		return c.adjustClient(ctx, q, userID, ref.ID(), func(cl *model.Client) {
			*cl.Bucket(task.Status)++
		})
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// GetTask returns a task, with its client expanded when expand is set.
func (c *Coordinator) GetTask(ctx context.Context, userID, taskID string, expand bool) (*model.Task, error) {
	var task *model.Task
	err := c.read(ctx, "get task", func(ctx context.Context, q store.Queries) error {
		var err error
		task, err = q.GetTask(ctx, userID, taskID)
		if err != nil {
			return lookup("task", taskID, err)
		}
		ref := task.ClientRef()
		if !expand || ref.IsZero() {
			return nil
		}
		task.Client, err = q.GetClient(ctx, userID, ref.ID())
		return lookup("client", ref.ID(), err)
	})
	return task, err
}

// ListTasks returns the user's tasks matching filter.
func (c *Coordinator) ListTasks(ctx context.Context, userID string, filter store.TaskFilter) ([]model.Task, error) {
	var tasks []model.Task
	err := c.read(ctx, "list tasks", func(ctx context.Context, q store.Queries) error {
		var err error
		tasks, err = q.ListTasks(ctx, userID, filter)
		return err
	})
	return tasks, err
}

// UpdateTask applies patch. Moving a task between clients decrements the
// old client's counter and increments the new one's in the same
// transaction; a status change moves it between buckets. When the change
// affects completed hours, the affected clients' profitability is rolled
// up again.
func (c *Coordinator) UpdateTask(ctx context.Context, userID, taskID string, patch TaskPatch) (*model.Task, error) {
	var task *model.Task
	err := c.inTx(ctx, "update task", func(ctx context.Context, q store.Queries) error {
		var err error
		task, err = q.GetTask(ctx, userID, taskID)
		if err != nil {
			return lookup("task", taskID, err)
		}
		old := *task
		applyTaskPatch(task, patch)
		if err := validateTask(task); err != nil {
			return err
		}

		oldRef, newRef := old.ClientRef().ID(), task.ClientRef().ID()
		switch {
		case oldRef != newRef:
			if newRef != "" {
				if _, err := q.GetClient(ctx, userID, newRef); err != nil {
					return lookup("client", newRef, err)
				}
			}
			if oldRef != "" {
				if err := c.adjustClient(ctx, q, userID, oldRef, func(cl *model.Client) {
					c.decrementBucket(cl, old.Status)
				}); err != nil {
					return err
				}
			}
			if newRef != "" {
				if err := c.adjustClient(ctx, q, userID, newRef, func(cl *model.Client) {
					*cl.Bucket(task.Status)++
				}); err != nil {
					return err
				}
			}
		case newRef != "":
			if err := c.adjustClient(ctx, q, userID, newRef, func(cl *model.Client) {
				if old.Status != task.Status {
					c.decrementBucket(cl, old.Status)
					*cl.Bucket(task.Status)++
				}
			}); err != nil {
				return err
			}
		}

		if err := q.UpdateTask(ctx, task); err != nil {
			return err
		}

		hoursChanged := oldRef != newRef || old.Status != task.Status || old.ActualTime != task.ActualTime
		if !hoursChanged || (!old.IsCompleted() && !task.IsCompleted()) {
			return nil
		}
		if oldRef != "" && oldRef != newRef {
			if err := c.resync(ctx, q, userID, old.ClientID); err != nil {
				return err
			}
		}
		return c.resync(ctx, q, userID, task.ClientID)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteTask removes the task and uncounts it from its client.
func (c *Coordinator) DeleteTask(ctx context.Context, userID, taskID string) error {
	return c.inTx(ctx, "delete task", func(ctx context.Context, q store.Queries) error {
		task, err := q.GetTask(ctx, userID, taskID)
		if err != nil {
			return lookup("task", taskID, err)
		}
		if err := q.DeleteTask(ctx, userID, taskID); err != nil {
			return err
		}

		ref := task.ClientRef()
		if ref.IsZero() {
			return nil
		}
		if err := c.adjustClient(ctx, q, userID, ref.ID(), func(cl *model.Client) {
			c.decrementBucket(cl, task.Status)
		}); err != nil {
			return err
		}
		if task.IsCompleted() {
			return c.resync(ctx, q, userID, task.ClientID)
		}
		return nil
	})
}

// adjustClient loads a client, applies fn, stamps lastActivity and writes
// it back.
func (c *Coordinator) adjustClient(ctx context.Context, q store.Queries, userID, clientID string, fn func(*model.Client)) error {
	client, err := q.GetClient(ctx, userID, clientID)
	if err != nil {
		return lookup("client", clientID, err)
	}
	fn(client)
	now := c.now()
	client.LastActivity = &now
	return q.UpdateClient(ctx, client)
}

func (c *Coordinator) decrementBucket(cl *model.Client, status string) {
	c.decrementCounter(cl, cl.Bucket(status), status)
}

// decrementCounter lowers one of the client's counters, logging drift
// when it was already zero.
func (c *Coordinator) decrementCounter(cl *model.Client, n *int, counter string) {
	if decrement(n) {
		c.logger.Warn("client counter already zero",
			zap.String("client_id", cl.ID),
			zap.String("counter", counter))
	}
}

func applyTaskPatch(t *model.Task, p TaskPatch) {
	if p.ClearClient {
		t.ClientID = nil
	} else if p.ClientID != nil {
		t.ClientID = trimID(p.ClientID)
	}
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.DueDate != nil {
		t.DueDate = p.DueDate
	}
	if p.ActualTime != nil {
		t.ActualTime = *p.ActualTime
	}
	if p.ImpactScore != nil {
		t.ImpactScore = *p.ImpactScore
	}
}

func validateTask(t *model.Task) error {
	switch {
	case t.Title == "":
		return apperr.Invalid("task title must not be empty")
	case !model.ValidTaskStatus(t.Status):
		return apperr.Invalid("unknown task status %q", t.Status)
	case t.Priority < model.PriorityUrgent || t.Priority > model.PriorityLow:
		return apperr.Invalid("priority must be between %d and %d", model.PriorityUrgent, model.PriorityLow)
	case t.ImpactScore < model.MinImpactScore || t.ImpactScore > model.MaxImpactScore:
		return apperr.Invalid("impact score must be between %d and %d", model.MinImpactScore, model.MaxImpactScore)
	case t.ActualTime < 0 || math.IsNaN(t.ActualTime) || math.IsInf(t.ActualTime, 0):
		return apperr.Invalid("actual time must be a non-negative number")
	}
	return nil
}
