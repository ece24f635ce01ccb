package locations

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/Xeventure-coding-team/SEOSAMURAI-sub003/internal/auth"
)

type Location struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	GoogleRef string    `json:"google_ref,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func ListHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		rows, err := dbx.Query(`
			SELECT id, name, COALESCE(google_ref,''), is_active, created_at
			FROM locations
			WHERE user_id = $1
			ORDER BY id DESC
		`, uid)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		defer rows.Close()

		var result []Location
		for rows.Next() {
			var l Location
			if err := rows.Scan(&l.ID, &l.Name, &l.GoogleRef, &l.IsActive, &l.CreatedAt); err != nil {
				http.Error(w, "scan error: "+err.Error(), http.StatusInternalServerError)
				return
			}
			result = append(result, l)
		}
		if err := rows.Err(); err != nil {
			http.Error(w, "db rows error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(result)
	}
}

func CreateHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body struct {
			Name      string `json:"name"`
			GoogleRef string `json:"google_ref"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)

		name := strings.TrimSpace(body.Name)
		if name == "" {
			http.Error(w, "name is required", http.StatusBadRequest)
			return
		}

		l := Location{
			Name:      name,
			GoogleRef: strings.TrimSpace(body.GoogleRef),
			IsActive:  true,
		}
		err := dbx.QueryRow(`
			INSERT INTO locations (user_id, name, google_ref, is_active)
			VALUES ($1, $2, $3, TRUE)
			RETURNING id, created_at
		`, uid, l.Name, l.GoogleRef).Scan(&l.ID, &l.CreatedAt)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(l)
	}
}
