package analytics

import (
	"database/sql"
	"encoding/json"
	"net/http"
)

// dashboard_opened — the client reports a dashboard view
func DashboardOpenedHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body struct {
			LocationID int    `json:"location_id"`
			From       string `json:"from"` // push/deeplink/icon/unknown
		}
		_ = json.NewDecoder(r.Body).Decode(&body)

		env := FromRequest(r)
		env.UserID = uid

		props := map[string]any{
			"location_id": body.LocationID,
			"from":        body.From,
		}

		_ = Log(r.Context(), dbx, env, "dashboard_opened", props, SourceEventKeyFromRequest(r))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}
}
