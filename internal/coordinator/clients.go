package coordinator

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/nhle/clientdesk/internal/apperr"
	"github.com/nhle/clientdesk/internal/model"
	"github.com/nhle/clientdesk/internal/profitability"
	"github.com/nhle/clientdesk/internal/store"
)

// ClientInput describes a client to create. Profitability, when set,
// creates the client's profitability record in the same transaction.
type ClientInput struct {
	Name          string                    `json:"name"`
	Email         string                    `json:"email"`
	Company       string                    `json:"company"`
	Notes         string                    `json:"notes"`
	Profitability *model.ProfitabilityInput `json:"profitability,omitempty"`
}

// ClientPatch edits a client's display attributes. Nil fields are unchanged.
type ClientPatch struct {
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty"`
	Company *string `json:"company,omitempty"`
	Notes   *string `json:"notes,omitempty"`
}

// CreateClientResult is the outcome of CreateClient.
type CreateClientResult struct {
	Client        *model.Client        `json:"client"`
	Profitability *model.Profitability `json:"profitability,omitempty"`
}

// DeleteClientResult reports what a client deletion removed.
type DeleteClientResult struct {
	ClientID             string `json:"client_id"`
	TasksCount           int    `json:"tasks_count"`
	ObjectivesCount      int    `json:"objectives_count"`
	ProfitabilityDeleted bool   `json:"profitability_deleted"`
}

// CreateClient writes the client and, when requested, its profitability
// record with zero hours and zero profit. Both succeed or neither does.
func (c *Coordinator) CreateClient(ctx context.Context, userID string, in ClientInput) (*CreateClientResult, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, apperr.Invalid("client name must not be empty")
	}

	res := &CreateClientResult{}
	err := c.inTx(ctx, "create client", func(ctx context.Context, q store.Queries) error {
		now := c.now()
		client := &model.Client{
			UserID:  userID,
			Name:    strings.TrimSpace(in.Name),
			Email:   in.Email,
			Company: in.Company,
			Notes:   in.Notes,
		}
		if in.Profitability != nil {
			client.LastProfitabilityUpdate = &now
		}
		if err := q.CreateClient(ctx, client); err != nil {
			return err
		}
		res.Client = client

		if in.Profitability == nil {
			return nil
		}

		p, err := profitability.New("", userID, client.ID, *in.Profitability, now)
		if err != nil {
			return err
		}
		if err := q.CreateProfitability(ctx, p); err != nil {
			return err
		}
		p.Client = client
		res.Profitability = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("client created",
		zap.String("user_id", userID),
		zap.String("client_id", res.Client.ID),
		zap.Bool("with_profitability", res.Profitability != nil))
	return res, nil
}

// GetClient resolves a client reference for userID. An expanded reference
// is re-read so the result reflects stored state.
func (c *Coordinator) GetClient(ctx context.Context, userID string, ref model.ClientRef) (*model.Client, error) {
	if ref.IsZero() {
		return nil, apperr.Invalid("client reference is empty")
	}
	var client *model.Client
	err := c.read(ctx, "get client", func(ctx context.Context, q store.Queries) error {
		var err error
		client, err = q.GetClient(ctx, userID, ref.ID())
		return lookup("client", ref.ID(), err)
	})
	return client, err
}

// ListClients returns the user's clients.
func (c *Coordinator) ListClients(ctx context.Context, userID string) ([]model.Client, error) {
	var clients []model.Client
	err := c.read(ctx, "list clients", func(ctx context.Context, q store.Queries) error {
		var err error
		clients, err = q.ListClients(ctx, userID)
		return err
	})
	return clients, err
}

// UpdateClient edits display attributes. Counters are not touched.
func (c *Coordinator) UpdateClient(ctx context.Context, userID, clientID string, patch ClientPatch) (*model.Client, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, apperr.Invalid("client name must not be empty")
	}

	var client *model.Client
	err := c.inTx(ctx, "update client", func(ctx context.Context, q store.Queries) error {
		var err error
		client, err = q.GetClient(ctx, userID, clientID)
		if err != nil {
			return lookup("client", clientID, err)
		}
		if patch.Name != nil {
			client.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Email != nil {
			client.Email = *patch.Email
		}
		if patch.Company != nil {
			client.Company = *patch.Company
		}
		if patch.Notes != nil {
			client.Notes = *patch.Notes
		}
		return q.UpdateClient(ctx, client)
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

// DeleteClient removes the client together with its tasks, objectives and
// profitability record. After commit it checks that nothing with the
// client's id survived; residue is logged, not returned, since the
// deletion has already committed.
func (c *Coordinator) DeleteClient(ctx context.Context, userID, clientID string) (*DeleteClientResult, error) {
	res := &DeleteClientResult{ClientID: clientID}
	err := c.inTx(ctx, "delete client", func(ctx context.Context, q store.Queries) error {
		if _, err := q.GetClient(ctx, userID, clientID); err != nil {
			return lookup("client", clientID, err)
		}

		var err error
		if res.TasksCount, err = q.DeleteTasksByClient(ctx, userID, clientID); err != nil {
			return err
		}
		if res.ObjectivesCount, err = q.DeleteObjectivesByClient(ctx, userID, clientID); err != nil {
			return err
		}
		n, err := q.DeleteProfitabilityByClient(ctx, userID, clientID)
		if err != nil {
			return err
		}
		res.ProfitabilityDeleted = n > 0

		return q.DeleteClient(ctx, userID, clientID)
	})
	if err != nil {
		return nil, err
	}

	c.verifyClientGone(ctx, clientID)

	c.logger.Info("client deleted",
		zap.String("user_id", userID),
		zap.String("client_id", clientID),
		zap.Int("tasks", res.TasksCount),
		zap.Int("objectives", res.ObjectivesCount),
		zap.Bool("profitability", res.ProfitabilityDeleted))
	return res, nil
}

// verifyClientGone logs an anomaly when a deleted client or any of its
// tasks is still present.
func (c *Coordinator) verifyClientGone(ctx context.Context, clientID string) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	exists, err := c.store.ClientExists(ctx, clientID)
	if err != nil {
		c.logger.Warn("post-delete check failed", zap.String("client_id", clientID), zap.Error(err))
		return
	}
	tasks, err := c.store.CountTasksByClient(ctx, clientID)
	if err != nil {
		c.logger.Warn("post-delete check failed", zap.String("client_id", clientID), zap.Error(err))
		return
	}
	if exists || tasks > 0 {
		c.logger.Warn("residual records after client deletion",
			zap.String("client_id", clientID),
			zap.Bool("client_exists", exists),
			zap.Int("tasks", tasks))
	}
}
