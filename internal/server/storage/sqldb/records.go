package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/iudanet/finkeeper/internal/server/storage"
)

var _ storage.RecordStorage = (*Storage)(nil)

// Insert stores a new record
func (s *Storage) Insert(ctx context.Context, rec storage.Record) error {
	query := s.rebind(`
		INSERT INTO records (id, user_id, kind, payload, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)

	_, err := s.db.ExecContext(ctx, query,
		rec.ID,
		rec.UserID,
		rec.Kind,
		string(rec.Payload),
		rec.CreatedAt.UnixMilli(),
		rec.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", storage.ErrRecordExists, rec.ID)
		}
		return fmt.Errorf("failed to insert record: %w", err)
	}

	return nil
}

// Update replaces payload and updated_at of an existing record
func (s *Storage) Update(ctx context.Context, rec storage.Record) error {
	query := s.rebind(`
		UPDATE records
		SET payload = ?, updated_at = ?
		WHERE id = ? AND user_id = ? AND kind = ?
	`)

	result, err := s.db.ExecContext(ctx, query,
		string(rec.Payload),
		rec.UpdatedAt.UnixMilli(),
		rec.ID,
		rec.UserID,
		rec.Kind,
	)
	if err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}

	return expectAffected(result, rec.ID)
}

// Delete removes a record
func (s *Storage) Delete(ctx context.Context, userID, kind, id string) error {
	query := s.rebind(`DELETE FROM records WHERE id = ? AND user_id = ? AND kind = ?`)

	result, err := s.db.ExecContext(ctx, query, id, userID, kind)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}

	return expectAffected(result, id)
}

// Get retrieves a single record
func (s *Storage) Get(ctx context.Context, userID, kind, id string) (*storage.Record, error) {
	query := s.rebind(`
		SELECT id, user_id, kind, payload, created_at, updated_at
		FROM records
		WHERE id = ? AND user_id = ? AND kind = ?
	`)

	rec, err := scanRecord(s.db.QueryRowContext(ctx, query, id, userID, kind))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", storage.ErrRecordNotFound, id)
		}
		return nil, fmt.Errorf("failed to get record: %w", err)
	}

	return rec, nil
}

// List returns records of one kind, newest first
func (s *Storage) List(ctx context.Context, userID, kind string) (records []storage.Record, err error) {
	query := s.rebind(`
		SELECT id, user_id, kind, payload, created_at, updated_at
		FROM records
		WHERE user_id = ? AND kind = ?
		ORDER BY created_at DESC, id
	`)

	rows, err := s.db.QueryContext(ctx, query, userID, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close rows: %w", cerr)
		}
	}()

	records = make([]storage.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, *rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return records, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*storage.Record, error) {
	var (
		rec       storage.Record
		payload   string
		createdAt int64
		updatedAt int64
	)

	if err := row.Scan(&rec.ID, &rec.UserID, &rec.Kind, &payload, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	rec.Payload = []byte(payload)
	rec.CreatedAt = time.UnixMilli(createdAt).UTC()
	rec.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	return &rec, nil
}

func expectAffected(result sql.Result, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", storage.ErrRecordNotFound, id)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
