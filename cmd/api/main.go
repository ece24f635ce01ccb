package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/rs/cors"

	"github.com/Xeventure-coding-team/SEOSAMURAI-sub003/internal/ai"
	"github.com/Xeventure-coding-team/SEOSAMURAI-sub003/internal/analytics"
	"github.com/Xeventure-coding-team/SEOSAMURAI-sub003/internal/auth"
	"github.com/Xeventure-coding-team/SEOSAMURAI-sub003/internal/config"
	"github.com/Xeventure-coding-team/SEOSAMURAI-sub003/internal/db"
	"github.com/Xeventure-coding-team/SEOSAMURAI-sub003/internal/locations"
	"github.com/Xeventure-coding-team/SEOSAMURAI-sub003/internal/tasks"
)

func main() {
	cfg := config.Load()

	database, err := db.Connect(cfg.ConnString())
	if err != nil {
		log.Fatal("❌ Failed to connect DB:", err)
	}
	defer database.Close()

	log.Println("✅ Connected to PostgreSQL!")

	secret := []byte(cfg.JWTSecret)
	mw := auth.New(secret)

	store := tasks.NewPostgresStore(database)
	exclusions := tasks.NewManager(store)
	enhancer := ai.New(cfg.OpenAIKey, cfg.OpenAIModel)

	mux := http.NewServeMux()

	// Health endpoint
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// ----- AUTH API -----
	mux.HandleFunc("POST /auth/register", auth.RegisterHandler(database, secret))
	mux.HandleFunc("POST /auth/login", auth.LoginHandler(database, secret))
	mux.HandleFunc("GET /auth/me", mw.Wrap(auth.MeHandler(database)))
	mux.HandleFunc("POST /auth/logout", mw.Wrap(auth.LogoutHandler()))
	mux.HandleFunc("DELETE /auth/account", mw.Wrap(auth.DeleteAccountHandler(database)))

	// ----- LOCATIONS API -----
	mux.HandleFunc("GET /locations", mw.Wrap(locations.ListHandler(database)))
	mux.HandleFunc("POST /locations", mw.Wrap(locations.CreateHandler(database)))

	// ----- TASKS API -----
	mux.HandleFunc("GET /tasks", mw.Wrap(tasks.ListTasksHandler(database)))
	mux.HandleFunc("POST /tasks", mw.Wrap(tasks.CreateTaskHandler(database)))
	mux.HandleFunc("POST /tasks/status", mw.Wrap(tasks.SetTaskStatusHandler(database)))
	mux.HandleFunc("POST /tasks/{taskID}/exclude", mw.Wrap(tasks.ExcludeTaskHandler(exclusions, database)))
	mux.HandleFunc("DELETE /tasks/{taskID}/exclude", mw.Wrap(tasks.UnexcludeTaskHandler(exclusions, database)))
	mux.HandleFunc("POST /tasks/{taskID}/enhance", mw.Wrap(tasks.EnhanceTaskHandler(database, enhancer)))

	// ----- ANALYTICS API -----
	mux.HandleFunc("POST /analytics/dashboard-opened", mw.Wrap(analytics.DashboardOpenedHandler(database)))

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "Idempotency-Key"},
		AllowCredentials: true,
	})

	handler := c.Handler(mux)

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Println("🚀 API server is running on", addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}
