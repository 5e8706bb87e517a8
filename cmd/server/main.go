package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"freelancer-booking-api/internal/auth"
	"freelancer-booking-api/internal/booking"
	"freelancer-booking-api/internal/handler"
	"freelancer-booking-api/internal/middleware"
	"freelancer-booking-api/internal/model"
	"freelancer-booking-api/internal/scheduler"
	"freelancer-booking-api/internal/store"
	"freelancer-booking-api/internal/store/postgres"
	"freelancer-booking-api/internal/store/sqlite"
	"freelancer-booking-api/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	logging.Setup()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		slog.Error("JWT_SECRET is required")
		os.Exit(1)
	}
	port := env("PORT", "8000")

	ctx := context.Background()
	st, err := openStore(ctx)
	if err != nil {
		slog.Error("store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	if err := seedDefaultUser(ctx, st); err != nil {
		slog.Error("seed user", "error", err)
		os.Exit(1)
	}

	finder := scheduler.NewFinder(st)
	svc := booking.NewService(st, finder, booking.Options{
		// compat mode keeps the client row when no slot is found;
		// BOOKING_ATOMIC=true switches to the transactional workflow
		KeepClientOnNoSlot: env("BOOKING_ATOMIC", "false") != "true",
	})

	h := handler.New(st, svc, secret)
	rl := middleware.NewRateLimiter(5, 10)
	mux := h.Routes(rl)
	mux.Handle("GET /metrics", promhttp.Handler())

	origins := splitNonEmpty(env("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000"))
	root := middleware.Logging(middleware.CORS(origins, mux))

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      root,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		slog.Info("listening", "port", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http", "error", err)
			os.Exit(1)
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "error", err)
	}
}

// openStore picks Postgres when DATABASE_URL is set, otherwise a local
// SQLite file. The postgres schema migration is applied at boot.
func openStore(ctx context.Context) (store.Store, error) {
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		st, err := postgres.New(ctx, dbURL)
		if err != nil {
			return nil, err
		}
		if migration, err := os.ReadFile("db/migrations/001_init.sql"); err != nil {
			slog.Warn("migration file not found, skipping", "error", err)
		} else if err := st.Migrate(ctx, string(migration)); err != nil {
			slog.Warn("migration", "error", err)
		} else {
			slog.Info("migration applied")
		}
		slog.Info("connected to postgres")
		return st, nil
	}

	dbPath := env("DB_PATH", "data/booking.db")
	st, err := sqlite.New(dbPath)
	if err != nil {
		return nil, err
	}
	slog.Info("using sqlite", "path", dbPath)
	return st, nil
}

// seedDefaultUser creates the freelancer login when SEED_USER and
// SEED_PASSWORD are set and the user does not exist yet.
func seedDefaultUser(ctx context.Context, st store.Store) error {
	username := os.Getenv("SEED_USER")
	password := os.Getenv("SEED_PASSWORD")
	if username == "" || password == "" {
		return nil
	}

	if _, err := st.UserByUsername(ctx, username); err == nil {
		return nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	u := &model.User{
		Username:     username,
		Email:        env("SEED_EMAIL", "freelancer@example.com"),
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := st.CreateUser(ctx, u); err != nil {
		return err
	}
	slog.Info("default user created", "username", username)
	return nil
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitNonEmpty(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
