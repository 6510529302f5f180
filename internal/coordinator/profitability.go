package coordinator

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/nhle/clientdesk/internal/apperr"
	"github.com/nhle/clientdesk/internal/model"
	"github.com/nhle/clientdesk/internal/profitability"
	"github.com/nhle/clientdesk/internal/store"
)

// GetProfitability returns the client's record with the client expanded.
func (c *Coordinator) GetProfitability(ctx context.Context, userID, clientID string) (*model.Profitability, error) {
	var p *model.Profitability
	err := c.read(ctx, "get profitability", func(ctx context.Context, q store.Queries) error {
		client, err := q.GetClient(ctx, userID, clientID)
		if err != nil {
			return lookup("client", clientID, err)
		}
		p, err = q.GetProfitabilityByClient(ctx, userID, clientID)
		if err != nil {
			return lookup("profitability", clientID, err)
		}
		p.Client = client
		return nil
	})
	return p, err
}

// ListProfitability returns all of the user's records.
func (c *Coordinator) ListProfitability(ctx context.Context, userID string) ([]model.Profitability, error) {
	var records []model.Profitability
	err := c.read(ctx, "list profitability", func(ctx context.Context, q store.Queries) error {
		var err error
		records, err = q.ListProfitability(ctx, userID)
		return err
	})
	return records, err
}

// UpdateProfitability applies a manual edit, recomputes the derived fields
// and stamps the client's lastProfitabilityUpdate. A client without a
// record gets one created when the patch carries an hourly rate.
func (c *Coordinator) UpdateProfitability(ctx context.Context, userID, clientID string, patch model.ProfitabilityPatch) (*model.Profitability, error) {
	var p *model.Profitability
	err := c.inTx(ctx, "update profitability", func(ctx context.Context, q store.Queries) error {
		client, err := q.GetClient(ctx, userID, clientID)
		if err != nil {
			return lookup("client", clientID, err)
		}
		now := c.now()

		p, err = q.GetProfitabilityByClient(ctx, userID, clientID)
		switch {
		case errors.Is(err, store.ErrNotFound):
			if patch.HourlyRate == nil {
				return apperr.NotFound("profitability", clientID)
			}
			if patch.ExpectedVersion != nil {
				return apperr.Conflict("profitability", clientID, "record does not exist yet")
			}
			p, err = profitability.New("", userID, clientID, model.ProfitabilityInput{HourlyRate: *patch.HourlyRate}, now)
			if err != nil {
				return err
			}
			if err := profitability.Apply(p, patch); err != nil {
				return err
			}
			if err := q.CreateProfitability(ctx, p); err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			if patch.ExpectedVersion != nil && *patch.ExpectedVersion != p.Version {
				return apperr.Conflict("profitability", p.ID, "stale version")
			}
			if err := profitability.Apply(p, patch); err != nil {
				return err
			}
			if err := q.UpdateProfitability(ctx, p); err != nil {
				return err
			}
		}

		client.LastProfitabilityUpdate = &now
		if err := q.UpdateClient(ctx, client); err != nil {
			return err
		}
		p.Client = client
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("profitability updated",
		zap.String("user_id", userID),
		zap.String("client_id", clientID),
		zap.Float64("profit", p.Profit),
		zap.Float64("profitability", p.Profitability))
	return p, nil
}

// SyncHoursFromTasks sets the record's actualHours to the sum of
// actualTime over the client's completed tasks, recomputes and stamps the
// client. Running it twice without task changes yields the same figures.
func (c *Coordinator) SyncHoursFromTasks(ctx context.Context, userID, clientID string) (*model.Profitability, error) {
	var p *model.Profitability
	err := c.inTx(ctx, "sync hours", func(ctx context.Context, q store.Queries) error {
		client, err := q.GetClient(ctx, userID, clientID)
		if err != nil {
			return lookup("client", clientID, err)
		}
		p, err = q.GetProfitabilityByClient(ctx, userID, clientID)
		if err != nil {
			return lookup("profitability", clientID, err)
		}
		if err := c.rollup(ctx, q, client, p); err != nil {
			return err
		}
		p.Client = client
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Debug("hours synced",
		zap.String("client_id", clientID),
		zap.Float64("actual_hours", p.ActualHours))
	return p, nil
}

// rollup recomputes p from the client's completed task hours and writes
// both p and the client's lastProfitabilityUpdate.
func (c *Coordinator) rollup(ctx context.Context, q store.Queries, client *model.Client, p *model.Profitability) error {
	hours, err := q.SumCompletedTaskHours(ctx, client.UserID, client.ID)
	if err != nil {
		return err
	}

	next := *p
	next.ActualHours = hours
	if err := profitability.Recalculate(&next); err != nil {
		return err
	}
	if err := q.UpdateProfitability(ctx, &next); err != nil {
		return err
	}
	*p = next

	now := c.now()
	client.LastProfitabilityUpdate = &now
	return q.UpdateClient(ctx, client)
}

// resync reruns the hours rollup for a client when it has a profitability
// record. Clients without one are left alone.
func (c *Coordinator) resync(ctx context.Context, q store.Queries, userID string, clientID *string) error {
	if clientID == nil {
		return nil
	}
	client, err := q.GetClient(ctx, userID, *clientID)
	if err != nil {
		return lookup("client", *clientID, err)
	}
	p, err := q.GetProfitabilityByClient(ctx, userID, *clientID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return c.rollup(ctx, q, client, p)
}
