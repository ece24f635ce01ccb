package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrTaskNotFound    = errors.New("task not found")
	ErrForbidden       = errors.New("task belongs to another user")
	ErrInvalidReason   = errors.New("unrecognized exclusion reason")
)

// ExclusionSummary is what an exclude call returns to the client.
type ExclusionSummary struct {
	ID        int       `json:"id"`
	TaskTitle string    `json:"task_title"`
	Reason    string    `json:"reason"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Manager hides a recommended task for the rest of the calendar month and
// keeps the task's status in step with the exclusion row.
type Manager struct {
	store Store
	now   func() time.Time
}

func NewManager(store Store) *Manager {
	return &Manager{store: store, now: time.Now}
}

// NewManagerWithClock lets tests pin the current month.
func NewManagerWithClock(store Store, now func() time.Time) *Manager {
	return &Manager{store: store, now: now}
}

func (m *Manager) loadOwnedTask(ctx context.Context, userID, taskID int) (*Task, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	task, err := m.store.FindTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("load task: %w", err)
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}
	if task.UserID != userID {
		return nil, ErrForbidden
	}
	return task, nil
}

// Exclude suppresses the recommendation behind taskID for the rest of the
// current month. Repeated calls within the month update the existing row in
// place (reason, excluded_at and the task instance that produced it).
func (m *Manager) Exclude(ctx context.Context, userID, taskID int, reason string) (ExclusionSummary, error) {
	if reason == "" {
		reason = ReasonDismissed
	}
	if !ValidReason(reason) {
		return ExclusionSummary{}, ErrInvalidReason
	}

	task, err := m.loadOwnedTask(ctx, userID, taskID)
	if err != nil {
		return ExclusionSummary{}, err
	}

	now := m.now()
	key := ExclusionKey{
		UserID:     userID,
		LocationID: task.LocationID,
		Month:      MonthKey(now),
		TaskTitle:  task.Title,
		TaskType:   task.Type,
	}

	exc, err := m.store.ApplyExclusion(ctx, key, ExclusionWrite{
		Category:   task.Category,
		Reason:     reason,
		TaskID:     task.ID,
		ExcludedAt: now,
		ExpiresAt:  EndOfMonth(now),
	})
	if err != nil {
		return ExclusionSummary{}, fmt.Errorf("store exclusion: %w", err)
	}

	return ExclusionSummary{
		ID:        exc.ID,
		TaskTitle: task.Title,
		Reason:    reason,
		ExpiresAt: exc.ExpiresAt,
	}, nil
}

// Unexclude removes the suppression for taskID's recommendation and resets
// the task to pending.
//
// The delete filters by the month of the unexclude call, not the month
// stored on the exclusion. Called in a later month it matches nothing and
// the old row stays behind, while the task status is reset regardless.
func (m *Manager) Unexclude(ctx context.Context, userID, taskID int) error {
	task, err := m.loadOwnedTask(ctx, userID, taskID)
	if err != nil {
		return err
	}

	key := ExclusionKey{
		UserID:     userID,
		LocationID: task.LocationID,
		Month:      MonthKey(m.now()),
		TaskTitle:  task.Title,
		TaskType:   task.Type,
	}

	if err := m.store.RemoveExclusion(ctx, key, task.ID); err != nil {
		return fmt.Errorf("remove exclusion: %w", err)
	}
	return nil
}
