package tasks

import (
	"context"
	"database/sql"
	"time"
)

// ExclusionWrite carries the per-call fields of an exclusion upsert. On
// first insert everything is stored; on conflict only Reason, TaskID and
// ExcludedAt are refreshed (the row keeps its original category and expiry).
type ExclusionWrite struct {
	Category   string
	Reason     string
	TaskID     int
	ExcludedAt time.Time
	ExpiresAt  time.Time
}

// Store is the persistence surface the exclusion manager needs. Both
// mutating operations span the exclusion table and the task status in a
// single transaction.
type Store interface {
	// FindTask returns nil (no error) when the id is unknown.
	FindTask(ctx context.Context, taskID int) (*Task, error)

	// ApplyExclusion atomically upserts the exclusion row for key and sets
	// the task's status to excluded.
	ApplyExclusion(ctx context.Context, key ExclusionKey, w ExclusionWrite) (Exclusion, error)

	// RemoveExclusion atomically deletes every exclusion row matching key
	// and resets the task's status to pending. A delete that matches no
	// rows is not an error.
	RemoveExclusion(ctx context.Context, key ExclusionKey, taskID int) error
}

type PostgresStore struct {
	DB *sql.DB
}

func NewPostgresStore(dbx *sql.DB) *PostgresStore {
	return &PostgresStore{DB: dbx}
}

var _ Store = (*PostgresStore)(nil)

func (s *PostgresStore) FindTask(ctx context.Context, taskID int) (*Task, error) {
	row := s.DB.QueryRowContext(ctx, `
		SELECT id, user_id, location_id, title, task_type, COALESCE(category,''), status, created_at
		FROM tasks
		WHERE id = $1
	`, taskID)

	var t Task
	err := row.Scan(&t.ID, &t.UserID, &t.LocationID, &t.Title, &t.Type, &t.Category, &t.Status, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *PostgresStore) ApplyExclusion(ctx context.Context, key ExclusionKey, w ExclusionWrite) (Exclusion, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return Exclusion{}, err
	}
	defer tx.Rollback()

	exc := Exclusion{
		UserID:     key.UserID,
		LocationID: key.LocationID,
		Month:      key.Month,
		TaskTitle:  key.TaskTitle,
		TaskType:   key.TaskType,
		Reason:     w.Reason,
		TaskID:     w.TaskID,
		ExcludedAt: w.ExcludedAt,
	}

	// Single conditional write on the composite key. Concurrent excludes
	// for the same key land on the DO UPDATE branch, never a second row.
	err = tx.QueryRowContext(ctx, `
		INSERT INTO task_exclusions
			(user_id, location_id, month, task_title, task_type,
			 category, reason, task_id, excluded_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id, location_id, month, task_title, task_type) DO UPDATE SET
			reason      = EXCLUDED.reason,
			task_id     = EXCLUDED.task_id,
			excluded_at = EXCLUDED.excluded_at
		RETURNING id, category, expires_at
	`,
		key.UserID, key.LocationID, key.Month, key.TaskTitle, key.TaskType,
		w.Category, w.Reason, w.TaskID, w.ExcludedAt, w.ExpiresAt,
	).Scan(&exc.ID, &exc.Category, &exc.ExpiresAt)
	if err != nil {
		return Exclusion{}, err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE tasks SET status = $1 WHERE id = $2
	`, StatusExcluded, w.TaskID); err != nil {
		return Exclusion{}, err
	}

	if err := tx.Commit(); err != nil {
		return Exclusion{}, err
	}
	return exc, nil
}

func (s *PostgresStore) RemoveExclusion(ctx context.Context, key ExclusionKey, taskID int) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM task_exclusions
		WHERE user_id = $1 AND location_id = $2 AND month = $3
		  AND task_title = $4 AND task_type = $5
	`, key.UserID, key.LocationID, key.Month, key.TaskTitle, key.TaskType); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE tasks SET status = $1 WHERE id = $2
	`, StatusPending, taskID); err != nil {
		return err
	}

	return tx.Commit()
}
