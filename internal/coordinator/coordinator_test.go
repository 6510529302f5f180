package coordinator_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/clientdesk/internal/apperr"
	"github.com/nhle/clientdesk/internal/coordinator"
	"github.com/nhle/clientdesk/internal/model"
	"github.com/nhle/clientdesk/internal/store"
	"github.com/nhle/clientdesk/tests/testutil"
)

const user = "freelancer-1"

// fakeClock is a settable time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

type fixture struct {
	store *store.SQLStore
	coord *coordinator.Coordinator
	clock *fakeClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := testutil.NewTestStore(t)
	clock := newFakeClock()
	return &fixture{
		store: s,
		coord: coordinator.New(s, coordinator.WithClock(clock.Now)),
		clock: clock,
	}
}

func (f *fixture) client(t *testing.T, name string, prof *model.ProfitabilityInput) *model.Client {
	t.Helper()
	res, err := f.coord.CreateClient(context.Background(), user, coordinator.ClientInput{Name: name, Profitability: prof})
	require.NoError(t, err)
	return res.Client
}

func (f *fixture) task(t *testing.T, clientID *string, title string, score int) *model.Task {
	t.Helper()
	task, err := f.coord.CreateTask(context.Background(), user, coordinator.TaskInput{
		ClientID:    clientID,
		Title:       title,
		ImpactScore: score,
	})
	require.NoError(t, err)
	return task
}

func (f *fixture) reload(t *testing.T, id string) *model.Client {
	t.Helper()
	c, err := f.store.GetClient(context.Background(), user, id)
	require.NoError(t, err)
	return c
}

func ptr[T any](v T) *T { return &v }

func TestCreateClient_WithProfitability(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.coord.CreateClient(ctx, user, coordinator.ClientInput{
		Name:          "Acme",
		Profitability: &model.ProfitabilityInput{HourlyRate: 100, MonthlyBudget: 1000},
	})
	require.NoError(t, err)
	require.NotNil(t, res.Profitability)

	p := res.Profitability
	assert.Equal(t, 10.0, p.TargetHours)
	assert.Zero(t, p.ActualHours)
	assert.Zero(t, p.Revenue)
	assert.Zero(t, p.Profit)
	assert.Zero(t, p.Profitability)
	assert.Equal(t, res.Client.ID, p.ClientID)

	stored, err := f.coord.GetProfitability(ctx, user, res.Client.ID)
	require.NoError(t, err)
	assert.Equal(t, 10.0, stored.TargetHours)
	require.NotNil(t, stored.Client)
	assert.Equal(t, "Acme", stored.Client.Name)
	require.NotNil(t, stored.Client.LastProfitabilityUpdate)
	assert.True(t, f.clock.Now().Equal(*stored.Client.LastProfitabilityUpdate))
}

func TestCreateClient_InvalidProfitabilityWritesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.coord.CreateClient(ctx, user, coordinator.ClientInput{
		Name:          "Acme",
		Profitability: &model.ProfitabilityInput{HourlyRate: 0},
	})
	require.Error(t, err)
	assert.True(t, apperr.IsInvalid(err))

	clients, err := f.coord.ListClients(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, clients)
}

func TestCreateClient_EmptyName(t *testing.T) {
	f := newFixture(t)

	_, err := f.coord.CreateClient(context.Background(), user, coordinator.ClientInput{Name: "  "})
	assert.True(t, apperr.IsInvalid(err))
}

func TestGetClient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.client(t, "Acme", nil)

	got, err := f.coord.GetClient(ctx, user, model.ClientID(c.ID))
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Name)

	got, err = f.coord.GetClient(ctx, user, model.ExpandedClient(c))
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)

	_, err = f.coord.GetClient(ctx, "intruder", model.ClientID(c.ID))
	assert.True(t, apperr.IsNotFound(err))

	_, err = f.coord.GetClient(ctx, user, model.ClientRef{})
	assert.True(t, apperr.IsInvalid(err))
}

func TestUpdateClient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.client(t, "Acme", nil)
	f.task(t, &c.ID, "t", 0)

	got, err := f.coord.UpdateClient(ctx, user, c.ID, coordinator.ClientPatch{Company: ptr("Acme Ltd")})
	require.NoError(t, err)
	assert.Equal(t, "Acme Ltd", got.Company)
	assert.Equal(t, 1, f.reload(t, c.ID).TasksPending, "counters untouched")

	_, err = f.coord.UpdateClient(ctx, user, c.ID, coordinator.ClientPatch{Name: ptr("")})
	assert.True(t, apperr.IsInvalid(err))

	_, err = f.coord.UpdateClient(ctx, user, "missing", coordinator.ClientPatch{})
	assert.True(t, apperr.IsNotFound(err))
}

func TestDeleteClient_Cascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c := f.client(t, "Acme", &model.ProfitabilityInput{HourlyRate: 80})
	for range 3 {
		f.task(t, &c.ID, "work", 10)
	}
	other := f.client(t, "Other", nil)
	f.task(t, &other.ID, "keep", 10)
	_, err := f.coord.CreateObjective(ctx, user, coordinator.ObjectiveInput{ClientID: c.ID, Title: "Launch"})
	require.NoError(t, err)

	res, err := f.coord.DeleteClient(ctx, user, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, res.TasksCount)
	assert.Equal(t, 1, res.ObjectivesCount)
	assert.True(t, res.ProfitabilityDeleted)

	left, err := f.store.CountTasksByClient(ctx, c.ID)
	require.NoError(t, err)
	assert.Zero(t, left)

	exists, err := f.store.ClientExists(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = f.coord.GetProfitability(ctx, user, c.ID)
	assert.True(t, apperr.IsNotFound(err))

	remaining, err := f.coord.ListTasks(ctx, user, store.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "keep", remaining[0].Title)
}

func TestDeleteClient_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.coord.DeleteClient(context.Background(), user, "missing")
	assert.True(t, apperr.IsNotFound(err))
}

func TestDeleteClient_OtherUser(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "Acme", nil)

	_, err := f.coord.DeleteClient(context.Background(), "intruder", c.ID)
	assert.True(t, apperr.IsNotFound(err))

	exists, err := f.store.ClientExists(context.Background(), c.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestOperations_PersistenceFailure(t *testing.T) {
	s, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	coord := coordinator.New(s)
	require.NoError(t, s.Close())

	_, err = coord.CreateClient(context.Background(), user, coordinator.ClientInput{Name: "Acme"})
	require.Error(t, err)
	assert.True(t, apperr.IsPersistence(err))

	_, err = coord.ListClients(context.Background(), user)
	assert.True(t, apperr.IsPersistence(err))
}
