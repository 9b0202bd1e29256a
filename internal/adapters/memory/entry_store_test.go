package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/quentinrf/sleep-service/internal/domain"
)

func makeEntry(start time.Time) domain.Entry {
	return domain.Entry{ID: uuid.New(), StartDate: start, EndDate: start.Add(time.Hour)}
}

func TestPerformAndWait_SaveCommits(t *testing.T) {
	store := NewEntryStore()
	ctx := context.Background()

	err := store.PerformAndWait(ctx, func(ctx context.Context, tx domain.EntryTx) error {
		if err := tx.Insert(ctx, makeEntry(time.Now())); err != nil {
			return err
		}
		if !tx.HasChanges() {
			t.Error("expected pending changes after insert")
		}
		return tx.Save()
	})
	if err != nil {
		t.Fatalf("PerformAndWait failed: %v", err)
	}
	if store.Len() != 1 {
		t.Errorf("expected 1 committed entry, got %d", store.Len())
	}
}

func TestPerformAndWait_UnsavedChangesDiscarded(t *testing.T) {
	store := NewEntryStore()
	ctx := context.Background()

	_ = store.PerformAndWait(ctx, func(ctx context.Context, tx domain.EntryTx) error {
		return tx.Insert(ctx, makeEntry(time.Now()))
	})

	if store.Len() != 0 {
		t.Errorf("expected unsaved insert to be discarded, got %d entries", store.Len())
	}
}

func TestPerformAndWait_CancelledContext(t *testing.T) {
	store := NewEntryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.PerformAndWait(ctx, func(ctx context.Context, tx domain.EntryTx) error {
		t.Error("fn must not run with a cancelled context")
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestEntryTx_Errors(t *testing.T) {
	store := NewEntryStore()
	ctx := context.Background()
	e := makeEntry(time.Now())

	_ = store.PerformAndWait(ctx, func(ctx context.Context, tx domain.EntryTx) error {
		if err := tx.Insert(ctx, e); err != nil {
			t.Fatalf("insert failed: %v", err)
		}
		if err := tx.Insert(ctx, e); !errors.Is(err, ErrDuplicateID) {
			t.Errorf("expected ErrDuplicateID, got %v", err)
		}
		if err := tx.Update(ctx, uuid.New(), e); !errors.Is(err, domain.ErrEntryNotFound) {
			t.Errorf("expected ErrEntryNotFound from Update, got %v", err)
		}
		if err := tx.Delete(ctx, uuid.New()); !errors.Is(err, domain.ErrEntryNotFound) {
			t.Errorf("expected ErrEntryNotFound from Delete, got %v", err)
		}
		return nil
	})
}

func TestFetch_SortAndLimit(t *testing.T) {
	store := NewEntryStore()
	ctx := context.Background()
	now := time.Now()

	late := makeEntry(now)
	early := makeEntry(now.Add(-time.Hour))

	_ = store.PerformAndWait(ctx, func(ctx context.Context, tx domain.EntryTx) error {
		_ = tx.Insert(ctx, late)
		_ = tx.Insert(ctx, early)
		return tx.Save()
	})

	_ = store.PerformAndWait(ctx, func(ctx context.Context, tx domain.EntryTx) error {
		got, _ := tx.Fetch(ctx, domain.FetchRequest{SortByStartDate: true, Limit: 1})
		if len(got) != 1 || got[0].ID != early.ID {
			t.Errorf("expected only the earliest entry, got %v", got)
		}
		return nil
	})
}
