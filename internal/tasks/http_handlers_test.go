package tasks

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xeventure-coding-team/SEOSAMURAI-sub003/internal/auth"
)

func newTestServer(mgr *Manager) *http.ServeMux {
	mux := http.NewServeMux()
	// analytics gets a nil db in tests; Log is a no-op then
	mux.HandleFunc("POST /tasks/{taskID}/exclude", ExcludeTaskHandler(mgr, nil))
	mux.HandleFunc("DELETE /tasks/{taskID}/exclude", UnexcludeTaskHandler(mgr, nil))
	return mux
}

func doAs(t *testing.T, mux *http.ServeMux, userID int, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if userID != 0 {
		req = req.WithContext(auth.WithUserID(req.Context(), userID))
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestExcludeEndpoint(t *testing.T) {
	jan := time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC)

	t.Run("returns the exclusion summary", func(t *testing.T) {
		store := newMemStore(reviewTask())
		mux := newTestServer(NewManagerWithClock(store, fixedClock(jan)))

		rec := doAs(t, mux, 7, http.MethodPost, "/tasks/42/exclude", `{"reason":"not_interested"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var summary ExclusionSummary
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
		assert.Equal(t, "Reply to new reviews", summary.TaskTitle)
		assert.Equal(t, ReasonNotInterested, summary.Reason)
		assert.True(t, summary.ExpiresAt.Equal(EndOfMonth(jan)))
	})

	t.Run("no user in context", func(t *testing.T) {
		store := newMemStore(reviewTask())
		mux := newTestServer(NewManagerWithClock(store, fixedClock(jan)))

		rec := doAs(t, mux, 0, http.MethodPost, "/tasks/42/exclude", `{}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown task", func(t *testing.T) {
		store := newMemStore(reviewTask())
		mux := newTestServer(NewManagerWithClock(store, fixedClock(jan)))

		rec := doAs(t, mux, 7, http.MethodPost, "/tasks/99/exclude", `{}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("foreign task", func(t *testing.T) {
		store := newMemStore(reviewTask())
		mux := newTestServer(NewManagerWithClock(store, fixedClock(jan)))

		rec := doAs(t, mux, 8, http.MethodPost, "/tasks/42/exclude", `{}`)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("bad reason", func(t *testing.T) {
		store := newMemStore(reviewTask())
		mux := newTestServer(NewManagerWithClock(store, fixedClock(jan)))

		rec := doAs(t, mux, 7, http.MethodPost, "/tasks/42/exclude", `{"reason":"later"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("non-numeric task id", func(t *testing.T) {
		store := newMemStore(reviewTask())
		mux := newTestServer(NewManagerWithClock(store, fixedClock(jan)))

		rec := doAs(t, mux, 7, http.MethodPost, "/tasks/abc/exclude", `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUnexcludeEndpoint(t *testing.T) {
	jan := time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC)

	t.Run("round trip", func(t *testing.T) {
		store := newMemStore(reviewTask())
		mux := newTestServer(NewManagerWithClock(store, fixedClock(jan)))

		rec := doAs(t, mux, 7, http.MethodPost, "/tasks/42/exclude", `{}`)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doAs(t, mux, 7, http.MethodDelete, "/tasks/42/exclude", "")
		require.Equal(t, http.StatusOK, rec.Code)

		assert.Empty(t, store.rows())
		assert.Equal(t, StatusPending, store.taskStatus(42))
	})

	t.Run("error mapping matches exclude", func(t *testing.T) {
		store := newMemStore(reviewTask())
		mux := newTestServer(NewManagerWithClock(store, fixedClock(jan)))

		assert.Equal(t, http.StatusUnauthorized, doAs(t, mux, 0, http.MethodDelete, "/tasks/42/exclude", "").Code)
		assert.Equal(t, http.StatusNotFound, doAs(t, mux, 7, http.MethodDelete, "/tasks/99/exclude", "").Code)
		assert.Equal(t, http.StatusForbidden, doAs(t, mux, 8, http.MethodDelete, "/tasks/42/exclude", "").Code)
	})
}
