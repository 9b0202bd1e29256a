package domain

import (
	"context"

	"github.com/google/uuid"
)

// EntryStore is the durable table of cached entries.
// This is a PORT - adapters (SQLite, Memory) will implement it
type EntryStore interface {
	// PerformAndWait runs fn inside one transaction on the store's serial
	// context. Changes not committed with Save are rolled back.
	PerformAndWait(ctx context.Context, fn func(ctx context.Context, tx EntryTx) error) error
}

// EntryTx is a transactional view of the entry table.
type EntryTx interface {
	// Fetch returns entries matching the request
	Fetch(ctx context.Context, req FetchRequest) ([]Entry, error)

	// Insert adds a new entry
	Insert(ctx context.Context, entry Entry) error

	// Update overwrites every field, including the ID, of the entry stored under oldID
	Update(ctx context.Context, oldID uuid.UUID, entry Entry) error

	// Delete removes the entry with the given ID
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteMatching removes every entry matching p and returns how many went
	DeleteMatching(ctx context.Context, p Predicate) (int64, error)

	// HasChanges reports whether the transaction has uncommitted changes
	HasChanges() bool

	// Save commits pending changes
	Save() error
}
