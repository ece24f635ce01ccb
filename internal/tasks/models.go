package tasks

import "time"

const (
	StatusPending   = "pending"
	StatusExcluded  = "excluded"
	StatusCompleted = "completed"
)

const (
	ReasonDismissed          = "dismissed"
	ReasonNotInterested      = "not_interested"
	ReasonCompletedElsewhere = "completed_elsewhere"
)

func ValidReason(r string) bool {
	switch r {
	case ReasonDismissed, ReasonNotInterested, ReasonCompletedElsewhere:
		return true
	}
	return false
}

// Task is a recommended action for one of the user's business locations.
// The recommendation engine writes them; this service only flips status.
type Task struct {
	ID         int       `json:"id"`
	UserID     int       `json:"user_id"`
	LocationID int       `json:"location_id"`
	Title      string    `json:"title"`
	Type       string    `json:"type"`
	Category   string    `json:"category"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// Exclusion suppresses one logical recommendation for a user/location for
// the month named by Month. ExpiresAt is advisory; rows are only removed by
// an explicit unexclude.
type Exclusion struct {
	ID         int       `json:"id"`
	UserID     int       `json:"user_id"`
	LocationID int       `json:"location_id"`
	Month      string    `json:"month"`
	TaskTitle  string    `json:"task_title"`
	TaskType   string    `json:"task_type"`
	Category   string    `json:"category"`
	Reason     string    `json:"reason"`
	TaskID     int       `json:"task_id"`
	ExcludedAt time.Time `json:"excluded_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// ExclusionKey identifies a suppressed recommendation. At most one
// exclusion row may exist per key.
type ExclusionKey struct {
	UserID     int
	LocationID int
	Month      string
	TaskTitle  string
	TaskType   string
}
