package testutil

import (
	"context"
	"testing"

	"github.com/nhle/clientdesk/internal/model"
	"github.com/nhle/clientdesk/internal/store"
)

// NewTestStore creates an in-memory SQLStore with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestStore(t *testing.T) *store.SQLStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// NewFileStore creates a SQLite store in a temporary directory. Unlike the
// in-memory store it allows concurrent connections.
func NewFileStore(t *testing.T) *store.SQLStore {
	t.Helper()

	s, err := store.NewSQLiteStore(t.TempDir() + "/clientdesk.db")
	if err != nil {
		t.Fatalf("creating file store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing file store: %v", err)
		}
	})

	return s
}

// SeedClient inserts a client for userID and returns it.
func SeedClient(t *testing.T, s store.Queries, userID, name string) *model.Client {
	t.Helper()

	c := &model.Client{UserID: userID, Name: name}
	if err := s.CreateClient(context.Background(), c); err != nil {
		t.Fatalf("seeding client %q: %v", name, err)
	}
	return c
}

// SeedTask inserts a task for userID, optionally attached to clientID.
func SeedTask(t *testing.T, s store.Queries, userID string, clientID *string, title string, score int) *model.Task {
	t.Helper()

	task := &model.Task{
		UserID:      userID,
		ClientID:    clientID,
		Title:       title,
		Status:      model.TaskStatusToDo,
		Priority:    model.PriorityLow,
		ImpactScore: score,
	}
	if err := s.CreateTask(context.Background(), task); err != nil {
		t.Fatalf("seeding task %q: %v", title, err)
	}
	return task
}
