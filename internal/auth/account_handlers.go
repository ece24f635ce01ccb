package auth

import (
	"database/sql"
	"encoding/json"
	"net/http"
)

func LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// JWT is stateless, the client just drops the token
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok": true,
		})
	}
}

// DeleteAccountHandler removes the user and everything hanging off them.
// Order matters: task_exclusions and tasks reference users directly.
func DeleteAccountHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		tx, err := dbx.Begin()
		if err != nil {
			http.Error(w, "db begin failed", http.StatusInternalServerError)
			return
		}
		defer tx.Rollback()

		if _, err := tx.Exec(`DELETE FROM task_exclusions WHERE user_id = $1`, uid); err != nil {
			http.Error(w, "delete task_exclusions failed", http.StatusInternalServerError)
			return
		}

		if _, err := tx.Exec(`DELETE FROM tasks WHERE user_id = $1`, uid); err != nil {
			http.Error(w, "delete tasks failed", http.StatusInternalServerError)
			return
		}

		if _, err := tx.Exec(`DELETE FROM locations WHERE user_id = $1`, uid); err != nil {
			http.Error(w, "delete locations failed", http.StatusInternalServerError)
			return
		}

		if _, err := tx.Exec(`DELETE FROM analytics_events WHERE user_id = $1`, uid); err != nil {
			http.Error(w, "delete analytics_events failed", http.StatusInternalServerError)
			return
		}

		if _, err := tx.Exec(`DELETE FROM users WHERE id = $1`, uid); err != nil {
			http.Error(w, "delete user failed", http.StatusInternalServerError)
			return
		}

		if err := tx.Commit(); err != nil {
			http.Error(w, "db commit failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok": true,
		})
	}
}
