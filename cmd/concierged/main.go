package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"concierge-backend/config"
	"concierge-backend/internal/api"
	"concierge-backend/internal/auth"
	"concierge-backend/internal/db"
	"concierge-backend/internal/devices"
	"concierge-backend/internal/directory"
	"concierge-backend/internal/guestreq"
	"concierge-backend/internal/mw"
	"concierge-backend/internal/notification"
	"concierge-backend/internal/onboarding"
	"concierge-backend/internal/push"
	"concierge-backend/internal/store"
	"concierge-backend/internal/telemetry"
)

const usage = `usage: concierged [--config PATH] <command> [flags]

commands:
  serve                  run the HTTP API (default)
  bootstrap-superadmin   create or refresh the initial super administrator
  issue-token            sign a development token (auth.provider: jwt only)
`

func main() {
	logger := log.New(os.Stdout, "concierge ", log.LstdFlags)
	if err := run(logger, os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			fmt.Fprint(os.Stderr, usage)
			return
		}
		logger.Fatalf("%v", err)
	}
}

func run(logger *log.Logger, args []string) error {
	// A missing .env is normal outside development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Printf("failed to load .env: %v", err)
	}

	global := pflag.NewFlagSet("concierged", pflag.ContinueOnError)
	global.SetInterspersed(false)
	configPath := global.String("config", os.Getenv("CONFIG_PATH"), "path to the YAML configuration file")
	if err := global.Parse(args); err != nil {
		return err
	}
	if *configPath == "" {
		*configPath = "./config/config.yaml"
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration from %s: %w", *configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", *configPath)

	command, rest := "serve", global.Args()
	if len(rest) > 0 {
		command, rest = rest[0], rest[1:]
	}
	switch command {
	case "serve":
		return serve(logger, cfg)
	case "bootstrap-superadmin":
		return bootstrapSuperAdmin(logger, cfg, rest)
	case "issue-token":
		return issueToken(cfg, rest)
	default:
		return fmt.Errorf("unknown command %q\n\n%s", command, usage)
	}
}

func openStore(logger *log.Logger, cfg *config.Config) (store.Store, error) {
	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	logger.Println("database initialized successfully")
	return store.NewGormStore(gormDB), nil
}

func serve(logger *log.Logger, cfg *config.Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing := telemetry.Setup(ctx, cfg.Telemetry)

	appStore, err := openStore(logger, cfg)
	if err != nil {
		return err
	}

	sender, err := push.New(ctx, cfg.Push)
	if err != nil {
		return fmt.Errorf("failed to initialize push provider: %w", err)
	}
	logger.Printf("push provider: %s", cfg.Push.Provider)

	verifier, err := auth.NewVerifier(ctx, cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize auth provider: %w", err)
	}

	dispatcher := notification.NewDispatcher(appStore, sender)
	var notifier guestreq.Notifier = dispatcher
	var pool *notification.WorkerPool
	if cfg.WorkerPool.Size > 0 {
		pool = notification.NewWorkerPool(cfg.WorkerPool.Size, dispatcher)
		pool.Start(ctx)
		notifier = pool
	}

	var vapidPublicKey string
	if cfg.Push.Provider == "webpush" {
		vapidPublicKey = cfg.Push.PublicKey
	}

	handler := api.NewHandler(api.Services{
		Actors:         onboarding.NewService(appStore),
		Directory:      directory.NewService(appStore),
		Requests:       guestreq.NewService(appStore, notifier),
		Devices:        devices.NewService(appStore),
		Dispatcher:     dispatcher,
		GuestCache:     mw.NewResponseCache(cfg.Server.CacheTTL),
		VAPIDPublicKey: vapidPublicKey,
	})
	router := api.NewRouter(handler, verifier, appStore, cfg.Server)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           otelhttp.NewHandler(router, cfg.Telemetry.ServiceName),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Printf("HTTP server Shutdown: %v", err)
	}
	cancel()
	if pool != nil {
		pool.Wait()
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Printf("tracer shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
	return nil
}

func bootstrapSuperAdmin(logger *log.Logger, cfg *config.Config, args []string) error {
	flags := pflag.NewFlagSet("bootstrap-superadmin", pflag.ContinueOnError)
	subject := flags.String("subject", "", "identity key issued by the auth provider (required)")
	email := flags.String("email", "", "email address (required)")
	name := flags.String("name", "", "display name (required)")
	phone := flags.String("phone", "", "phone number")
	if err := flags.Parse(args); err != nil {
		return err
	}

	appStore, err := openStore(logger, cfg)
	if err != nil {
		return err
	}
	actor, err := onboarding.NewService(appStore).BootstrapSuperAdmin(context.Background(), onboarding.BootstrapInput{
		Subject: *subject,
		Email:   *email,
		Name:    *name,
		Phone:   phone,
	})
	if err != nil {
		return fmt.Errorf("failed to bootstrap superadmin: %w", err)
	}
	logger.Printf("superadmin %s (%s) is active with id %d", actor.Email, actor.Subject, actor.ID)
	return nil
}

func issueToken(cfg *config.Config, args []string) error {
	flags := pflag.NewFlagSet("issue-token", pflag.ContinueOnError)
	subject := flags.String("subject", "", "identity key to embed (required)")
	email := flags.String("email", "", "email claim")
	ttl := flags.Duration("ttl", 24*time.Hour, "token lifetime")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if cfg.Auth.Provider != "jwt" {
		return fmt.Errorf("issue-token needs auth.provider jwt, not %q", cfg.Auth.Provider)
	}
	if *subject == "" {
		return errors.New("--subject is required")
	}

	token, err := auth.NewJWTVerifier(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer).Sign(*subject, *email, *ttl)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}
