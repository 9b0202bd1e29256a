package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/quentinrf/sleep-service/internal/domain"
)

const selectColumns = `SELECT id, sync_identifier, sync_version, start_date, end_date, value FROM sleep_entries`

// EntryStore implements domain.EntryStore with SQLite
type EntryStore struct {
	db *sql.DB
}

// Open opens the database with the named driver and migrates the schema.
func Open(ctx context.Context, driver, dsn string) (*EntryStore, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// one connection keeps every transaction on the same serial context
	db.SetMaxOpenConns(1)

	if err := Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return NewEntryStore(db), nil
}

// NewEntryStore wraps an already migrated database.
func NewEntryStore(db *sql.DB) *EntryStore {
	return &EntryStore{db: db}
}

// PerformAndWait begins a transaction, runs fn, and rolls back anything
// fn did not commit with Save. Panics are rethrown after rollback.
func (s *EntryStore) PerformAndWait(ctx context.Context, fn func(ctx context.Context, tx domain.EntryTx) error) (err error) {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	tx := &entryTx{tx: sqlTx}
	defer func() {
		if p := recover(); p != nil {
			_ = sqlTx.Rollback()
			panic(p)
		}
		if !tx.committed {
			_ = sqlTx.Rollback()
		}
	}()

	return fn(ctx, tx)
}

// Close closes the database connection
func (s *EntryStore) Close() error {
	return s.db.Close()
}

// entryTx is a single sql.Tx. Save commits and ends it.
type entryTx struct {
	tx        *sql.Tx
	dirty     bool
	committed bool
}

func (t *entryTx) Fetch(ctx context.Context, req domain.FetchRequest) ([]domain.Entry, error) {
	where, args := whereClause(req.Predicate)
	query := selectColumns + where
	if req.SortByStartDate {
		query += " ORDER BY start_date ASC"
	}
	if req.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, req.Limit)
	}

	rows, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate entries: %w", err)
	}

	return entries, nil
}

func (t *entryTx) Insert(ctx context.Context, entry domain.Entry) error {
	query := `INSERT INTO sleep_entries (id, sync_identifier, sync_version, start_date, end_date, value) VALUES (?, ?, ?, ?, ?, ?)`

	e := entry.Persistable()
	_, err := t.tx.ExecContext(ctx, query,
		e.ID.String(), nullString(e.SyncIdentifier), int64(e.SyncVersion),
		unixNano(e.StartDate), unixNano(e.EndDate), int64(e.Value))
	if err != nil {
		return fmt.Errorf("failed to insert entry: %w", err)
	}

	t.dirty = true
	return nil
}

func (t *entryTx) Update(ctx context.Context, oldID uuid.UUID, entry domain.Entry) error {
	query := `
		UPDATE sleep_entries
		SET id = ?, sync_identifier = ?, sync_version = ?, start_date = ?, end_date = ?, value = ?
		WHERE id = ?
	`

	e := entry.Persistable()
	res, err := t.tx.ExecContext(ctx, query,
		e.ID.String(), nullString(e.SyncIdentifier), int64(e.SyncVersion),
		unixNano(e.StartDate), unixNano(e.EndDate), int64(e.Value),
		oldID.String())
	if err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrEntryNotFound
	}

	t.dirty = true
	return nil
}

func (t *entryTx) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := t.tx.ExecContext(ctx, `DELETE FROM sleep_entries WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrEntryNotFound
	}

	t.dirty = true
	return nil
}

func (t *entryTx) DeleteMatching(ctx context.Context, p domain.Predicate) (int64, error) {
	where, args := whereClause(p)

	res, err := t.tx.ExecContext(ctx, `DELETE FROM sleep_entries`+where, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete entries: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n > 0 {
		t.dirty = true
	}
	return n, nil
}

func (t *entryTx) HasChanges() bool {
	return t.dirty
}

func (t *entryTx) Save() error {
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	t.committed = true
	t.dirty = false
	return nil
}

func scanEntry(rows *sql.Rows) (domain.Entry, error) {
	var (
		id             string
		syncIdentifier sql.NullString
		syncVersion    int64
		start, end     int64
		value          int64
	)

	if err := rows.Scan(&id, &syncIdentifier, &syncVersion, &start, &end, &value); err != nil {
		return domain.Entry{}, fmt.Errorf("failed to scan entry: %w", err)
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return domain.Entry{}, fmt.Errorf("failed to parse entry id %q: %w", id, err)
	}

	entry := domain.Entry{
		ID:          parsed,
		SyncVersion: int(syncVersion),
		StartDate:   time.Unix(0, start).UTC(),
		EndDate:     time.Unix(0, end).UTC(),
		Value:       int(value),
	}
	if syncIdentifier.Valid {
		s := syncIdentifier.String
		entry.SyncIdentifier = &s
	}
	return entry, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
