package store

import (
	"context"
	"fmt"
	"time"

	"github.com/sadopc/habitiviz/internal/history"
)

// AddCompletion records that task was completed at the given time. A blank
// task is rejected with history.ErrMalformedRow.
func (s *Store) AddCompletion(task string, at time.Time) (int64, error) {
	if !history.ValidTask(task) {
		return 0, fmt.Errorf("%w: empty task", history.ErrMalformedRow)
	}
	res, err := s.db.Exec(
		`INSERT INTO completions (task, completed_at) VALUES (?, ?)`,
		task, at.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("insert completion: %w", err)
	}
	id, _ := res.LastInsertId()
	return id, nil
}

// Rows returns every completion in insertion order, as history rows.
func (s *Store) Rows(ctx context.Context) ([]history.Row, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT task, completed_at FROM completions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%w: list completions: %w", history.ErrSourceUnavailable, err)
	}
	defer rows.Close()

	var out []history.Row
	for rows.Next() {
		var r history.Row
		if err := rows.Scan(&r.Task, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("%w: scan completion: %w", history.ErrSourceUnavailable, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", history.ErrSourceUnavailable, err)
	}
	return out, nil
}

// ImportRows stores history rows as completions in one transaction. Only
// the date of each timestamp is kept. Rows without a task or with an
// unparseable date are skipped, by the same rules Aggregate applies; the
// number stored is returned.
func (s *Store) ImportRows(ctx context.Context, rows []history.Row) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO completions (task, completed_at) VALUES (?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare import: %w", err)
	}
	defer stmt.Close()

	n := 0
	for _, r := range rows {
		if !history.ValidTask(r.Task) {
			continue
		}
		day, err := history.ParseDate(r.Timestamp)
		if err != nil {
			continue
		}
		if _, err := stmt.ExecContext(ctx, r.Task, day.Format(time.RFC3339)); err != nil {
			return 0, fmt.Errorf("import %q: %w", r.Task, err)
		}
		n++
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	return n, nil
}

// CountCompletions returns how many completions the store holds.
func (s *Store) CountCompletions() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM completions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count completions: %w", err)
	}
	return n, nil
}

var _ history.Source = (*Store)(nil)
