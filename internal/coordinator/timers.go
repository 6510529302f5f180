package coordinator

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/nhle/clientdesk/internal/apperr"
	"github.com/nhle/clientdesk/internal/ledger"
	"github.com/nhle/clientdesk/internal/model"
	"github.com/nhle/clientdesk/internal/store"
)

// TimerInput describes a timer to start. A task reference without a
// client reference inherits the task's client. Billable defaults to true
// and StartTime to now.
type TimerInput struct {
	TaskID      *string    `json:"task_id,omitempty"`
	ClientID    *string    `json:"client_id,omitempty"`
	Description string     `json:"description"`
	Billable    *bool      `json:"billable,omitempty"`
	StartTime   *time.Time `json:"start_time,omitempty"`
}

// StopTimerResult is the outcome of StopTimer. Task is set when the timer
// was tracking one.
type StopTimerResult struct {
	Timer *model.Timer `json:"timer"`
	Task  *model.Task  `json:"task,omitempty"`
	Hours float64      `json:"hours"`
}

// StartTimer opens a timer for userID. A user with a running timer gets
// Conflict, including when two starts race.
func (c *Coordinator) StartTimer(ctx context.Context, userID string, in TimerInput) (*model.Timer, error) {
	now := c.now()
	timer := &model.Timer{
		UserID:      userID,
		TaskID:      trimID(in.TaskID),
		ClientID:    trimID(in.ClientID),
		Description: in.Description,
		Billable:    true,
		StartTime:   now,
	}
	if in.Billable != nil {
		timer.Billable = *in.Billable
	}
	if in.StartTime != nil {
		if in.StartTime.After(now) {
			return nil, apperr.Invalid("start time is in the future")
		}
		timer.StartTime = in.StartTime.UTC()
	}

	err := c.inTx(ctx, "start timer", func(ctx context.Context, q store.Queries) error {
		if timer.TaskID != nil {
			task, err := q.GetTask(ctx, userID, *timer.TaskID)
			if err != nil {
				return lookup("task", *timer.TaskID, err)
			}
			taskClient := task.ClientRef().ID()
			switch {
			case timer.ClientID == nil:
				timer.ClientID = task.ClientRef().Ptr()
			case taskClient != "" && taskClient != *timer.ClientID:
				return apperr.Invalid("task %s belongs to another client", task.ID)
			}
		}
		if timer.ClientID != nil {
			if _, err := q.GetClient(ctx, userID, *timer.ClientID); err != nil {
				return lookup("client", *timer.ClientID, err)
			}
		}

		open, err := q.CountOpenTimers(ctx, userID)
		if err != nil {
			return err
		}
		if open > 0 {
			return apperr.Conflict("timer", "", "active timer exists")
		}
		return q.CreateTimer(ctx, timer)
	})
	if err != nil {
		return nil, err
	}

	c.logger.Debug("timer started",
		zap.String("user_id", userID),
		zap.String("timer_id", timer.ID))
	return timer, nil
}

// StopTimer closes a running timer and adds its duration to the task it
// tracks. An empty timerID stops the user's running timer. Stopping a
// timer twice is a Conflict.
func (c *Coordinator) StopTimer(ctx context.Context, userID, timerID string) (*StopTimerResult, error) {
	res := &StopTimerResult{}
	err := c.inTx(ctx, "stop timer", func(ctx context.Context, q store.Queries) error {
		var (
			timer *model.Timer
			err   error
		)
		if timerID == "" {
			timer, err = q.GetOpenTimer(ctx, userID)
			if errors.Is(err, store.ErrNotFound) {
				return apperr.NotFound("timer", "active")
			}
		} else {
			timer, err = q.GetTimer(ctx, userID, timerID)
			err = lookup("timer", timerID, err)
		}
		if err != nil {
			return err
		}
		if !timer.IsOpen() {
			return apperr.Conflict("timer", timer.ID, "already stopped")
		}

		res.Hours = ledger.Close(timer, c.now())
		if err := q.CloseTimer(ctx, timer); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return apperr.Conflict("timer", timer.ID, "already stopped")
			}
			return err
		}
		res.Timer = timer

		if timer.TaskID == nil {
			return nil
		}
		if err := q.AddTaskActualTime(ctx, userID, *timer.TaskID, res.Hours); err != nil {
			return lookup("task", *timer.TaskID, err)
		}
		task, err := q.GetTask(ctx, userID, *timer.TaskID)
		if err != nil {
			return lookup("task", *timer.TaskID, err)
		}
		res.Task = task
		if task.IsCompleted() {
			return c.resync(ctx, q, userID, task.ClientID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Debug("timer stopped",
		zap.String("user_id", userID),
		zap.String("timer_id", res.Timer.ID),
		zap.Float64("hours", res.Hours))
	return res, nil
}

// ActiveTimer returns the user's running timer.
func (c *Coordinator) ActiveTimer(ctx context.Context, userID string) (*model.Timer, error) {
	var timer *model.Timer
	err := c.read(ctx, "active timer", func(ctx context.Context, q store.Queries) error {
		var err error
		timer, err = q.GetOpenTimer(ctx, userID)
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("timer", "active")
		}
		return err
	})
	return timer, err
}

// TimeSummary totals a set of timers.
type TimeSummary struct {
	Timers        []model.Timer `json:"timers"`
	TotalHours    float64       `json:"total_hours"`
	BillableHours float64       `json:"billable_hours"`
}

// ListTimers returns the user's timers matching filter with their totals.
func (c *Coordinator) ListTimers(ctx context.Context, userID string, filter store.TimerFilter) (*TimeSummary, error) {
	sum := &TimeSummary{}
	err := c.read(ctx, "list timers", func(ctx context.Context, q store.Queries) error {
		var err error
		sum.Timers, err = q.ListTimers(ctx, userID, filter)
		return err
	})
	if err != nil {
		return nil, err
	}
	for _, t := range sum.Timers {
		sum.TotalHours += t.Duration
	}
	sum.BillableHours = ledger.BillableHours(sum.Timers)
	return sum, nil
}
