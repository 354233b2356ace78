package results

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	syncx "github.com/rulemakers-physics/rmleveltest/internal/sync"
)

// SQLStore persists records in the results table created by db.Open. Every
// insert also appends a ResultRecorded event in the same transaction.
type SQLStore struct {
	db     *sql.DB
	events *syncx.EventRepo
}

func NewSQLStore(db *sql.DB, siteID string) *SQLStore {
	return &SQLStore{db: db, events: syncx.NewEventRepo(db, siteID)}
}

// Events exposes the event log written alongside results.
func (s *SQLStore) Events() *syncx.EventRepo { return s.events }

func (s *SQLStore) Put(ctx context.Context, rec Record) (Record, error) {
	rec = stamp(rec)
	aj, err := json.Marshal(rec.Answers)
	if err != nil {
		return Record{}, fmt.Errorf("encode answers: %w", err)
	}
	bj, err := json.Marshal(rec.Breakdown)
	if err != nil {
		return Record{}, fmt.Errorf("encode breakdown: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Record{}, err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `INSERT INTO results
		(id,variant_id,student_name,school,grade,answers_json,breakdown_json,total_correct,created_at,notify_status,notify_attempts,notify_error)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		rec.ID, rec.Breakdown.VariantID, rec.Submitter.Name, rec.Submitter.School, rec.Submitter.Grade,
		string(aj), string(bj), rec.Breakdown.TotalCorrect, rec.CreatedAt.UnixMilli(),
		rec.Notify.State, rec.Notify.Attempts, rec.Notify.LastError)
	if err != nil {
		return Record{}, err
	}

	payload, _ := json.Marshal(map[string]any{
		"variantId": rec.Breakdown.VariantID,
		"placement": rec.Breakdown.Placement,
	})
	if err := s.events.Append(ctx, tx, syncx.Event{
		Type:     syncx.TypeResultRecorded,
		Key:      rec.ID,
		DataJSON: string(payload),
	}); err != nil {
		return Record{}, fmt.Errorf("append event: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return Record{}, err
	}
	return rec, nil
}

const selectCols = `id,student_name,school,grade,answers_json,breakdown_json,created_at,notify_status,notify_attempts,notify_error`

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (Record, error) {
	var (
		rec    Record
		aj, bj string
		ms     int64
	)
	if err := sc.Scan(&rec.ID, &rec.Submitter.Name, &rec.Submitter.School, &rec.Submitter.Grade,
		&aj, &bj, &ms, &rec.Notify.State, &rec.Notify.Attempts, &rec.Notify.LastError); err != nil {
		return Record{}, err
	}
	if err := json.Unmarshal([]byte(aj), &rec.Answers); err != nil {
		return Record{}, fmt.Errorf("result %s: decode answers: %w", rec.ID, err)
	}
	if err := json.Unmarshal([]byte(bj), &rec.Breakdown); err != nil {
		return Record{}, fmt.Errorf("result %s: decode breakdown: %w", rec.ID, err)
	}
	rec.CreatedAt = time.UnixMilli(ms).UTC()
	return rec, nil
}

func (s *SQLStore) Get(ctx context.Context, id string) (Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+selectCols+` FROM results WHERE id=$1`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	return rec, err
}

func (s *SQLStore) List(ctx context.Context, opts ListOpts) ([]Record, error) {
	opts = opts.normalized()
	var (
		rows *sql.Rows
		err  error
	)
	if opts.VariantID != "" {
		rows, err = s.db.QueryContext(ctx, `SELECT `+selectCols+` FROM results WHERE variant_id=$1
			ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`, opts.VariantID, opts.Limit, opts.Offset)
	} else {
		rows, err = s.db.QueryContext(ctx, `SELECT `+selectCols+` FROM results
			ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`, opts.Limit, opts.Offset)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLStore) MarkNotifyPending(ctx context.Context, id string) error {
	return s.markNotify(ctx, id, `UPDATE results SET notify_status='pending', notify_attempts=notify_attempts+1 WHERE id=$1`, id)
}

func (s *SQLStore) MarkNotifyOK(ctx context.Context, id string) error {
	return s.markNotify(ctx, id, `UPDATE results SET notify_status='ok', notify_error='' WHERE id=$1`, id)
}

func (s *SQLStore) MarkNotifyFailed(ctx context.Context, id, lastErr string) error {
	return s.markNotify(ctx, id, `UPDATE results SET notify_status='failed', notify_error=$1 WHERE id=$2`, lastErr, id)
}

// markNotify applies one delivery-state transition and logs the resulting
// status as a NotifyChanged event in the same transaction.
func (s *SQLStore) markNotify(ctx context.Context, id, query string, args ...any) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}

	var st NotifyStatus
	if err := tx.QueryRowContext(ctx,
		`SELECT notify_status, notify_attempts, notify_error FROM results WHERE id=$1`, id,
	).Scan(&st.State, &st.Attempts, &st.LastError); err != nil {
		return err
	}
	payload, _ := json.Marshal(st)
	if err := s.events.Append(ctx, tx, syncx.Event{
		Type:     syncx.TypeNotifyChanged,
		Key:      id,
		DataJSON: string(payload),
	}); err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return tx.Commit()
}
