// Package coordinator runs every write that spans more than one entity
// inside a single transaction. Each exported method is one logical
// operation: it either commits all of its writes or none of them and
// reports failures as *apperr.Error.
package coordinator

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nhle/clientdesk/internal/apperr"
	"github.com/nhle/clientdesk/internal/store"
)

// DefaultTimeout bounds a single operation when no timeout is configured.
const DefaultTimeout = 5 * time.Second

// Coordinator is the service object in front of the store.
type Coordinator struct {
	store   store.Store
	logger  *zap.Logger
	timeout time.Duration
	clock   func() time.Time
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(l *zap.Logger) Option {
	return func(c *Coordinator) {
		if l == nil {
			l = zap.NewNop()
		}
		c.logger = l
	}
}

// WithTimeout bounds each operation, including its transaction.
func WithTimeout(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) {
		c.clock = now
	}
}

// New returns a Coordinator over s.
func New(s store.Store, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:   s,
		logger:  zap.NewNop(),
		timeout: DefaultTimeout,
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Coordinator) now() time.Time {
	return c.clock().UTC()
}

// inTx runs fn in one transaction bounded by the configured timeout and
// translates the outcome into the apperr taxonomy.
func (c *Coordinator) inTx(ctx context.Context, op string, fn func(ctx context.Context, q store.Queries) error) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	err := c.store.WithTx(ctx, func(q store.Queries) error {
		return fn(ctx, q)
	})
	if err == nil {
		return nil
	}

	err = translate(op, err)
	if apperr.IsPersistence(err) {
		c.logger.Error("transaction failed", zap.String("op", op), zap.Error(err))
	} else {
		c.logger.Debug("transaction aborted", zap.String("op", op), zap.Error(err))
	}
	return err
}

// read runs fn against the store outside of a transaction.
func (c *Coordinator) read(ctx context.Context, op string, fn func(ctx context.Context, q store.Queries) error) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := fn(ctx, c.store); err != nil {
		err = translate(op, err)
		if apperr.IsPersistence(err) {
			c.logger.Error("read failed", zap.String("op", op), zap.Error(err))
		}
		return err
	}
	return nil
}

// translate maps store errors onto apperr kinds. Errors that already carry
// a kind pass through unchanged.
func translate(op string, err error) error {
	if apperr.KindOf(err) != apperr.KindUnknown {
		return err
	}
	switch {
	case errors.Is(err, store.ErrNotFound):
		return &apperr.Error{Kind: apperr.KindNotFound, Message: op, Err: err}
	case errors.Is(err, store.ErrOpenTimerExists):
		return &apperr.Error{Kind: apperr.KindConflict, Entity: "timer", Message: "active timer exists", Err: err}
	case errors.Is(err, store.ErrVersionConflict):
		return &apperr.Error{Kind: apperr.KindConflict, Entity: "profitability", Message: "modified concurrently", Err: err}
	default:
		return apperr.Persistence(op, err)
	}
}

// lookup converts a store read error into NotFound for the named entity.
func lookup(entity, id string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound(entity, id)
	}
	return err
}

// decrement lowers a counter without letting it go negative and reports
// whether the counter was already at zero.
func decrement(n *int) (drifted bool) {
	if *n <= 0 {
		*n = 0
		return true
	}
	*n--
	return false
}

// trimID turns a blank identifier into no reference.
func trimID(id *string) *string {
	if id == nil || strings.TrimSpace(*id) == "" {
		return nil
	}
	s := strings.TrimSpace(*id)
	return &s
}
