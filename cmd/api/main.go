package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mithibai-cc/ats-backend/config"
	"github.com/mithibai-cc/ats-backend/internal/auth"
	"github.com/mithibai-cc/ats-backend/internal/bootstrap"
	"github.com/mithibai-cc/ats-backend/internal/identity"
	"github.com/mithibai-cc/ats-backend/internal/profile"
	"github.com/mithibai-cc/ats-backend/internal/session"
	"github.com/mithibai-cc/ats-backend/internal/stats"
	"github.com/mithibai-cc/ats-backend/internal/storage/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()

	if err := postgres.RunMigrations(cfg.Database.DSN); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	db, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: cfg.Database.DSN})
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer db.Close()

	rdb, err := bootstrap.OpenRedis(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	authClient, fsClient, err := auth.InitializeFirebase(&cfg.Firebase)
	if err != nil {
		log.Fatalf("firebase: %v", err)
	}
	defer fsClient.Close()

	provider := identity.NewToolkitProvider(cfg.Firebase.WebAPIKey, authClient)
	profiles := profile.NewFirestoreStore(fsClient)

	// The session manager mirrors sign-in/sign-out activity observed
	// through the identity provider.
	manager := session.NewManager(provider, profiles)
	if err := manager.Start(); err != nil {
		log.Fatalf("session manager: %v", err)
	}
	defer manager.Close()
	go logSessionActivity(manager)

	router, snapshotter := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:  "ats-backend",
		Version:      cfg.App.Version,
		AllowOrigins: cfg.Server.AllowOrigins,
		DB:           db,
		Redis:        rdb,
		AuthClient:   authClient,
		Firestore:    fsClient,
		Provider:     provider,
	})

	scheduler := stats.NewScheduler(snapshotter)
	scheduler.Start()
	defer scheduler.Stop()

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on :%s", cfg.Server.Port)
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("shutdown signal received: %s", sig)
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

// logSessionActivity consumes the session state stream so identity
// changes show up in the service log.
func logSessionActivity(manager *session.Manager) {
	states, cancel := manager.Subscribe()
	defer cancel()

	for st := range states {
		switch {
		case st.Loading:
			log.Printf("[info] operation=session uid=%s loading profile", st.Identity.UID)
		case st.Identity == nil:
			log.Printf("[info] operation=session signed out")
		case st.Err != "":
			log.Printf("[warn] operation=session uid=%s error=%s", st.Identity.UID, st.Err)
		default:
			log.Printf("[info] operation=session uid=%s role=%s", st.Identity.UID, st.Role())
		}
	}
}
