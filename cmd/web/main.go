package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/joho/godotenv"
	"github.com/juho05/log"

	"github.com/juho05/jobmatch"
	"github.com/juho05/jobmatch/apiclient"
	"github.com/juho05/jobmatch/config"
	"github.com/juho05/jobmatch/handlers"
	"github.com/juho05/jobmatch/repos"
	"github.com/juho05/jobmatch/repos/postgres"
	"github.com/juho05/jobmatch/repos/sqlite"
	"github.com/juho05/jobmatch/services"
)

func connect(ctx context.Context) (repos.DB, error) {
	switch config.DBDriver() {
	case "postgres":
		return postgres.Connect(ctx, config.DBConnection())
	default:
		return sqlite.Connect(config.DBConnection())
	}
}

func run(ctx context.Context) error {
	handler := handlers.NewHandler()

	db, err := connect(ctx)
	if err != nil {
		return fmt.Errorf("Failed to connect to database: %w", err)
	}
	defer db.Close()

	sessionRepo := db.NewSessionRepository()
	go repos.CleanupSessions(ctx, sessionRepo, 30*time.Minute)

	handler.SessionManager = scs.New()
	handler.SessionManager.Store = sessionRepo
	handler.SessionManager.Lifetime = config.SessionTTL()
	handler.SessionManager.Cookie.Secure = strings.HasPrefix(config.BaseURL(), "https://")
	handler.SessionManager.Cookie.SameSite = http.SameSiteLaxMode
	handler.SessionTTL = config.SessionTTL()
	handler.BaseURL = config.BaseURL()
	handler.GoogleClientID = config.GoogleClientID()

	client, err := apiclient.New(config.APIBaseURL(), apiclient.Options{
		Timeout:           config.APITimeout(),
		RequestsPerSecond: config.APIRequestsPerSecond(),
	})
	if err != nil {
		return fmt.Errorf("Failed to initialize API client: %w", err)
	}

	handler.AuthService = services.NewAuthService(client)
	handler.ProfileService = services.NewProfileService(client, services.UploadLimits{
		MaxCVSize:      config.MaxCVSize(),
		MaxPictureSize: config.MaxPictureSize(),
		PictureSize:    config.ProfilePictureSize(),
	})
	handler.JobService = services.NewJobService(client)
	handler.ApplicationService = services.NewApplicationService(client)

	handler.Renderer, err = handlers.NewRenderer(jobmatch.HTMLFS)
	if err != nil {
		return fmt.Errorf("Failed to initialize renderer: %w", err)
	}

	handler.StaticFS = jobmatch.StaticFS
	handler.RegisterRoutes()

	addr := fmt.Sprintf(":%d", config.Port())
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		log.Infof("Listening on %s (API: %s)...", addr, client.BaseURL())
		cert := config.TLSCert()
		key := config.TLSKey()
		if cert != "" && key != "" {
			errs <- server.ListenAndServeTLS(cert, key)
		} else {
			errs <- server.ListenAndServe()
		}
	}()

	select {
	case err = <-errs:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err = server.Shutdown(shutdownCtx)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func main() {
	godotenv.Load()

	log.SetSeverity(config.LogLevel())
	log.SetOutput(config.LogFile())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx)
	if err != nil {
		log.Fatalf("%s", err)
	}
}
