package workflow

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestRefreshSortsMostRecentFirst(t *testing.T) {
	api := newFakeAPI()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	api.seed(
		Record{ID: 1, Text: "oldest", Mode: ModeAnalyze, Timestamp: base},
		Record{ID: 3, Text: "newest", Mode: ModeCreate, Timestamp: base.Add(2 * time.Hour)},
		Record{ID: 2, Text: "middle", Mode: ModeAutomate, Timestamp: base.Add(time.Hour)},
	)

	store := NewStore(api)
	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	records := store.Records()
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	want := []string{"newest", "middle", "oldest"}
	for i, text := range want {
		if records[i].Text != text {
			t.Errorf("records[%d].Text = %q, want %q", i, records[i].Text, text)
		}
	}
}

func TestRefreshUnreachableRetainsCache(t *testing.T) {
	api := newFakeAPI()
	api.seed(Record{ID: 1, Text: "kept", Mode: ModeAnalyze, Timestamp: time.Now()})

	store := NewStore(api)
	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	api.mu.Lock()
	api.listErr = fmt.Errorf("%w: connection refused", ErrUnreachable)
	api.mu.Unlock()

	err := store.Refresh(context.Background())
	if !errors.Is(err, ErrUnreachable) {
		t.Fatalf("expected ErrUnreachable, got %v", err)
	}

	records := store.Records()
	if len(records) != 1 || records[0].Text != "kept" {
		t.Errorf("cache should be retained unchanged, got %v", records)
	}
}

func TestDeleteOneMissingLeavesCache(t *testing.T) {
	api := newFakeAPI()
	api.seed(
		Record{ID: 1, Text: "a", Mode: ModeAnalyze, Timestamp: time.Now()},
		Record{ID: 2, Text: "b", Mode: ModeCreate, Timestamp: time.Now()},
	)

	store := NewStore(api)
	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	err := store.DeleteOne(context.Background(), 99)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if store.Len() != 2 {
		t.Errorf("cache changed on failed delete: %d records", store.Len())
	}
}

func TestDeleteOneRemovesOnConfirmation(t *testing.T) {
	api := newFakeAPI()
	api.seed(
		Record{ID: 1, Text: "a", Mode: ModeAnalyze, Timestamp: time.Now()},
		Record{ID: 2, Text: "b", Mode: ModeCreate, Timestamp: time.Now()},
	)

	store := NewStore(api)
	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	if err := store.DeleteOne(context.Background(), 1); err != nil {
		t.Fatalf("DeleteOne failed: %v", err)
	}

	records := store.Records()
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].ID != 2 {
		t.Errorf("wrong record removed, remaining id = %d", records[0].ID)
	}
}

func TestDeleteOneUnreachableKeepsCache(t *testing.T) {
	api := newFakeAPI()
	api.seed(Record{ID: 1, Text: "a", Mode: ModeAnalyze, Timestamp: time.Now()})

	store := NewStore(api)
	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	api.mu.Lock()
	api.deleteErr = fmt.Errorf("%w: timeout", ErrUnreachable)
	api.mu.Unlock()

	if err := store.DeleteOne(context.Background(), 1); !errors.Is(err, ErrUnreachable) {
		t.Fatalf("expected ErrUnreachable, got %v", err)
	}
	if store.Len() != 1 {
		t.Errorf("no optimistic removal allowed: %d records", store.Len())
	}
}

func TestDeleteAllIsIdempotent(t *testing.T) {
	api := newFakeAPI()
	api.seed(
		Record{ID: 1, Text: "a", Mode: ModeAnalyze, Timestamp: time.Now()},
		Record{ID: 2, Text: "b", Mode: ModeCreate, Timestamp: time.Now()},
	)

	store := NewStore(api)
	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := store.DeleteAll(context.Background()); err != nil {
			t.Fatalf("DeleteAll call %d failed: %v", i+1, err)
		}
		if store.Len() != 0 {
			t.Errorf("expected empty cache after DeleteAll call %d, got %d", i+1, store.Len())
		}
	}
}
