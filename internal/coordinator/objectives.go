package coordinator

import (
	"context"
	"strings"
	"time"

	"github.com/nhle/clientdesk/internal/apperr"
	"github.com/nhle/clientdesk/internal/model"
	"github.com/nhle/clientdesk/internal/store"
)

// ObjectiveInput describes an objective to create.
type ObjectiveInput struct {
	ClientID  string     `json:"client_id"`
	Title     string     `json:"title"`
	Completed bool       `json:"completed"`
	DueDate   *time.Time `json:"due_date,omitempty"`
}

// ObjectivePatch edits an objective. Nil fields are unchanged. A ClientID
// moves the objective to that client.
type ObjectivePatch struct {
	ClientID  *string    `json:"client_id,omitempty"`
	Title     *string    `json:"title,omitempty"`
	Completed *bool      `json:"completed,omitempty"`
	DueDate   *time.Time `json:"due_date,omitempty"`
}

// CreateObjective writes the objective and counts it on its client.
func (c *Coordinator) CreateObjective(ctx context.Context, userID string, in ObjectiveInput) (*model.Objective, error) {
	obj := &model.Objective{
		UserID:    userID,
		ClientID:  strings.TrimSpace(in.ClientID),
		Title:     strings.TrimSpace(in.Title),
		Completed: in.Completed,
		DueDate:   in.DueDate,
	}
	switch {
	case obj.ClientID == "":
		return nil, apperr.Invalid("objective requires a client")
	case obj.Title == "":
		return nil, apperr.Invalid("objective title must not be empty")
	}

	err := c.inTx(ctx, "create objective", func(ctx context.Context, q store.Queries) error {
		if _, err := q.GetClient(ctx, userID, obj.ClientID); err != nil {
			return lookup("client", obj.ClientID, err)
		}
		if err := q.CreateObjective(ctx, obj); err != nil {
			return err
		}
		return c.adjustClient(ctx, q, userID, obj.ClientID, func(cl *model.Client) {
			cl.ObjectivesCount++
			*objectiveBucket(cl, obj.Completed)++
		})
	})
	if err != nil {
		return nil, err
	}
	return obj, nil
}

// ListObjectives returns the user's objectives, optionally for one client.
func (c *Coordinator) ListObjectives(ctx context.Context, userID string, clientID *string) ([]model.Objective, error) {
	var objectives []model.Objective
	err := c.read(ctx, "list objectives", func(ctx context.Context, q store.Queries) error {
		var err error
		objectives, err = q.ListObjectives(ctx, userID, clientID)
		return err
	})
	return objectives, err
}

// UpdateObjective applies patch. Moving the objective to another client
// uncounts it on the old client and counts it on the new one; a completion
// change moves it between the completed and pending counts.
func (c *Coordinator) UpdateObjective(ctx context.Context, userID, objectiveID string, patch ObjectivePatch) (*model.Objective, error) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, apperr.Invalid("objective title must not be empty")
	}
	if patch.ClientID != nil && strings.TrimSpace(*patch.ClientID) == "" {
		return nil, apperr.Invalid("objective requires a client")
	}

	var obj *model.Objective
	err := c.inTx(ctx, "update objective", func(ctx context.Context, q store.Queries) error {
		var err error
		obj, err = q.GetObjective(ctx, userID, objectiveID)
		if err != nil {
			return lookup("objective", objectiveID, err)
		}
		was := *obj

		if patch.ClientID != nil {
			obj.ClientID = strings.TrimSpace(*patch.ClientID)
		}
		if patch.Title != nil {
			obj.Title = strings.TrimSpace(*patch.Title)
		}
		if patch.Completed != nil {
			obj.Completed = *patch.Completed
		}
		if patch.DueDate != nil {
			obj.DueDate = patch.DueDate
		}

		moved := obj.ClientID != was.ClientID
		if moved {
			if _, err := q.GetClient(ctx, userID, obj.ClientID); err != nil {
				return lookup("client", obj.ClientID, err)
			}
		}
		if err := q.UpdateObjective(ctx, obj); err != nil {
			return err
		}

		switch {
		case moved:
			if err := c.adjustClient(ctx, q, userID, was.ClientID, func(cl *model.Client) {
				c.decrementCounter(cl, &cl.ObjectivesCount, "objectives")
				c.decrementCounter(cl, objectiveBucket(cl, was.Completed), "objectives")
			}); err != nil {
				return err
			}
			return c.adjustClient(ctx, q, userID, obj.ClientID, func(cl *model.Client) {
				cl.ObjectivesCount++
				*objectiveBucket(cl, obj.Completed)++
			})
		case was.Completed != obj.Completed:
			return c.adjustClient(ctx, q, userID, obj.ClientID, func(cl *model.Client) {
				c.decrementCounter(cl, objectiveBucket(cl, was.Completed), "objectives")
				*objectiveBucket(cl, obj.Completed)++
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return obj, nil
}

// DeleteObjective removes the objective and uncounts it from its client.
func (c *Coordinator) DeleteObjective(ctx context.Context, userID, objectiveID string) error {
	return c.inTx(ctx, "delete objective", func(ctx context.Context, q store.Queries) error {
		obj, err := q.GetObjective(ctx, userID, objectiveID)
		if err != nil {
			return lookup("objective", objectiveID, err)
		}
		if err := q.DeleteObjective(ctx, userID, objectiveID); err != nil {
			return err
		}
		return c.adjustClient(ctx, q, userID, obj.ClientID, func(cl *model.Client) {
			c.decrementCounter(cl, &cl.ObjectivesCount, "objectives")
			c.decrementCounter(cl, objectiveBucket(cl, obj.Completed), "objectives")
		})
	})
}

func objectiveBucket(cl *model.Client, completed bool) *int {
	if completed {
		return &cl.ObjectivesCompleted
	}
	return &cl.ObjectivesPending
}
