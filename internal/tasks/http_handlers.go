package tasks

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Xeventure-coding-team/SEOSAMURAI-sub003/internal/analytics"
	"github.com/Xeventure-coding-team/SEOSAMURAI-sub003/internal/auth"
)

func writeManagerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	case errors.Is(err, ErrTaskNotFound):
		http.Error(w, "task not found", http.StatusNotFound)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "not your task", http.StatusForbidden)
	case errors.Is(err, ErrInvalidReason):
		http.Error(w, "invalid reason", http.StatusBadRequest)
	default:
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
	}
}

func taskIDFromPath(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("taskID"))
	return id, err == nil && id > 0
}

// -------------------------------
// EXCLUSION HANDLERS
// -------------------------------

// ExcludeTaskHandler hides a recommendation for the rest of the month.
// POST /tasks/{taskID}/exclude
func ExcludeTaskHandler(mgr *Manager, dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		taskID, ok := taskIDFromPath(r)
		if !ok {
			http.Error(w, "invalid task id", http.StatusBadRequest)
			return
		}

		var body struct {
			Reason string `json:"reason"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)

		summary, err := mgr.Exclude(r.Context(), uid, taskID, strings.TrimSpace(body.Reason))
		if err != nil {
			writeManagerError(w, err)
			return
		}

		// analytics: task_excluded
		{
			env := analytics.FromRequest(r)
			env.UserID = uid

			props := map[string]any{
				"task_id":    taskID,
				"reason":     summary.Reason,
				"month":      MonthKey(time.Now()),
				"expires_at": summary.ExpiresAt,
			}
			_ = analytics.Log(r.Context(), dbx, env, "task_excluded", props, analytics.SourceEventKeyFromRequest(r))
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(summary)
	}
}

// UnexcludeTaskHandler undoes an exclusion made this month.
// DELETE /tasks/{taskID}/exclude
func UnexcludeTaskHandler(mgr *Manager, dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		taskID, ok := taskIDFromPath(r)
		if !ok {
			http.Error(w, "invalid task id", http.StatusBadRequest)
			return
		}

		if err := mgr.Unexclude(r.Context(), uid, taskID); err != nil {
			writeManagerError(w, err)
			return
		}

		// analytics: task_unexcluded
		{
			env := analytics.FromRequest(r)
			env.UserID = uid

			props := map[string]any{
				"task_id": taskID,
				"month":   MonthKey(time.Now()),
			}
			_ = analytics.Log(r.Context(), dbx, env, "task_unexcluded", props, analytics.SourceEventKeyFromRequest(r))
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{})
	}
}

// -------------------------------
// DASHBOARD HANDLERS
// -------------------------------

// ListTasksHandler returns the caller's tasks, hiding recommendations that
// carry an exclusion row for the current month. ?include_excluded=1 shows
// them anyway; ?location_id= narrows to one location.
func ListTasksHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		locationID, _ := strconv.Atoi(r.URL.Query().Get("location_id"))
		includeExcluded := r.URL.Query().Get("include_excluded") == "1"
		month := MonthKey(time.Now())

		rows, err := dbx.Query(`
			SELECT t.id, t.user_id, t.location_id, t.title, t.task_type,
			       COALESCE(t.category,''), t.status, t.created_at
			FROM tasks t
			WHERE t.user_id = $1
			  AND ($2 = 0 OR t.location_id = $2)
			  AND ($3 OR NOT EXISTS (
					SELECT 1 FROM task_exclusions e
					WHERE e.user_id = t.user_id
					  AND e.location_id = t.location_id
					  AND e.month = $4
					  AND e.task_title = t.title
					  AND e.task_type = t.task_type
			  ))
			ORDER BY t.id DESC
		`, uid, locationID, includeExcluded, month)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		defer rows.Close()

		var result []Task
		for rows.Next() {
			var t Task
			if err := rows.Scan(&t.ID, &t.UserID, &t.LocationID, &t.Title, &t.Type, &t.Category, &t.Status, &t.CreatedAt); err != nil {
				http.Error(w, "scan error: "+err.Error(), http.StatusInternalServerError)
				return
			}
			result = append(result, t)
		}
		if err := rows.Err(); err != nil {
			http.Error(w, "db rows error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(result)
	}
}

// CreateTaskHandler inserts a recommendation. In production the engine
// writes these; the endpoint keeps the API usable standalone.
func CreateTaskHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body struct {
			LocationID int    `json:"location_id"`
			Title      string `json:"title"`
			Type       string `json:"type"`
			Category   string `json:"category"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)

		title := strings.TrimSpace(body.Title)
		taskType := strings.TrimSpace(body.Type)
		if title == "" || taskType == "" || body.LocationID == 0 {
			http.Error(w, "location_id, title and type required", http.StatusBadRequest)
			return
		}

		// the location must belong to the caller
		var owner int
		err := dbx.QueryRow(`SELECT user_id FROM locations WHERE id=$1`, body.LocationID).Scan(&owner)
		if err != nil || owner != uid {
			http.Error(w, "location not found", http.StatusNotFound)
			return
		}

		t := Task{
			UserID:     uid,
			LocationID: body.LocationID,
			Title:      title,
			Type:       taskType,
			Category:   strings.TrimSpace(body.Category),
		}
		err = dbx.QueryRow(`
			INSERT INTO tasks (user_id, location_id, title, task_type, category)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, status, created_at
		`, t.UserID, t.LocationID, t.Title, t.Type, t.Category).Scan(&t.ID, &t.Status, &t.CreatedAt)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		// analytics: task_created
		{
			env := analytics.FromRequest(r)
			env.UserID = uid

			props := map[string]any{
				"task_id":     t.ID,
				"location_id": t.LocationID,
				"task_type":   t.Type,
				"category":    t.Category,
			}
			_ = analytics.Log(r.Context(), dbx, env, "task_created", props, analytics.SourceEventKeyFromRequest(r))
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(t)
	}
}

// SetTaskStatusHandler lets the dashboard mark a task pending or completed.
// Excluded is owned by the exclusion endpoints and is rejected here.
func SetTaskStatusHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body struct {
			TaskID int    `json:"task_id"`
			Status string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if body.TaskID == 0 {
			http.Error(w, "task_id required", http.StatusBadRequest)
			return
		}

		switch body.Status {
		case StatusPending, StatusCompleted:
		default:
			http.Error(w, "invalid status", http.StatusBadRequest)
			return
		}

		res, err := dbx.Exec(`
			UPDATE tasks SET status = $1 WHERE id = $2 AND user_id = $3
		`, body.Status, body.TaskID, uid)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		affected, _ := res.RowsAffected()
		if affected == 0 {
			http.Error(w, "task not found", http.StatusNotFound)
			return
		}

		if body.Status == StatusCompleted {
			env := analytics.FromRequest(r)
			env.UserID = uid
			props := map[string]any{"task_id": body.TaskID}
			_ = analytics.Log(r.Context(), dbx, env, "task_completed", props, analytics.SourceEventKeyFromRequest(r))
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "status": body.Status})
	}
}

// Enhancer polishes customer-facing text. Implemented by the OpenAI client
// in internal/ai.
type Enhancer interface {
	EnhanceText(ctx context.Context, businessName, category, text string) (string, error)
}

// EnhanceTaskHandler proxies the task's draft reply text through the
// generative-text API. POST /tasks/{taskID}/enhance
func EnhanceTaskHandler(dbx *sql.DB, enhancer Enhancer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		taskID, ok := taskIDFromPath(r)
		if !ok {
			http.Error(w, "invalid task id", http.StatusBadRequest)
			return
		}

		var body struct {
			Text string `json:"text"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if strings.TrimSpace(body.Text) == "" {
			http.Error(w, "text required", http.StatusBadRequest)
			return
		}

		// ownership + location name for prompt context
		var locationName, category string
		err := dbx.QueryRow(`
			SELECT l.name, COALESCE(t.category,'')
			FROM tasks t
			JOIN locations l ON l.id = t.location_id
			WHERE t.id = $1 AND t.user_id = $2
		`, taskID, uid).Scan(&locationName, &category)
		if err != nil {
			http.Error(w, "task not found", http.StatusNotFound)
			return
		}

		enhanced, err := enhancer.EnhanceText(r.Context(), locationName, category, body.Text)
		if err != nil {
			log.Printf("[WARN] AI enhance failed task_id=%d: %v", taskID, err)
			http.Error(w, "enhance failed: "+err.Error(), http.StatusBadGateway)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"task_id": taskID,
			"text":    enhanced,
		})
	}
}
