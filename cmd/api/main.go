package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fuatilia.org/internal/auth"
	"fuatilia.org/internal/bills"
	"fuatilia.org/internal/config"
	"fuatilia.org/internal/filestore"
	"fuatilia.org/internal/httpapi"
	"fuatilia.org/internal/mailer"
	"fuatilia.org/internal/obs"
	"fuatilia.org/internal/props"
	"fuatilia.org/internal/representatives"
	"fuatilia.org/internal/store/pg"
	"fuatilia.org/internal/users"
	"fuatilia.org/internal/votes"
)

var (
	version = "1.0.0"
	commit  = "dev"
)

func main() {
	obs.Init()
	obs.InitBuildInfo(version, commit)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if cfg.DatabaseDSN == "" {
		log.Fatal("missing DSN: set FUATILIA_PG_DSN")
	}
	store, err := pg.Open(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer store.Close()

	tokens, err := auth.NewTokenService(cfg.AuthSecret, auth.WithTTL(cfg.AccessTokenTTL))
	if err != nil {
		log.Fatalf("token service: %v", err)
	}

	userOpts := []users.Option{users.WithBaseURL(cfg.ExternalBaseURL)}
	if cfg.SMTPConfigured() {
		smtp, err := mailer.NewSMTP(cfg)
		if err != nil {
			log.Fatalf("mailer: %v", err)
		}
		userOpts = append(userOpts, users.WithMailer(smtp))
	} else {
		log.Println("SMTP not configured, verification emails disabled")
	}
	userSvc, err := users.NewService(store, tokens, userOpts...)
	if err != nil {
		log.Fatalf("users service: %v", err)
	}

	rbacSvc, err := auth.NewRBACService(store)
	if err != nil {
		log.Fatalf("rbac service: %v", err)
	}
	// Built-in permission codenames must exist before any role can grant them.
	ensureCtx, ensureCancel := context.WithTimeout(context.Background(), 15*time.Second)
	if err := rbacSvc.EnsureBuiltins(ensureCtx); err != nil {
		log.Printf("ensure builtin permissions: %v", err)
	}
	ensureCancel()

	billSvc, err := bills.NewService(store)
	if err != nil {
		log.Fatalf("bills service: %v", err)
	}
	repSvc, err := representatives.NewService(store)
	if err != nil {
		log.Fatalf("representatives service: %v", err)
	}
	voteSvc, err := votes.NewService(store)
	if err != nil {
		log.Fatalf("votes service: %v", err)
	}
	propSvc, err := props.NewService(store)
	if err != nil {
		log.Fatalf("props service: %v", err)
	}

	var files httpapi.FileStore
	if cfg.S3Configured() {
		fsCtx, fsCancel := context.WithTimeout(context.Background(), 15*time.Second)
		client, err := filestore.New(fsCtx, cfg)
		fsCancel()
		if err != nil {
			log.Fatalf("filestore: %v", err)
		}
		files = client
	} else {
		log.Println("S3 not configured, file endpoints disabled")
	}

	api := httpapi.New(httpapi.Deps{
		ReadyProbe: httpapi.ReadyProbe{DB: store.DB()},
		Version:    version,
		Users:      userSvc,
		Tokens:     tokens,
		Directory:  store,
		RBAC:       rbacSvc,
		Bills:      billSvc,
		Reps:       repSvc,
		Votes:      voteSvc,
		Props:      propSvc,
		Files:      files,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting fuatilia-api %s on %s", version, srv.Addr)

	// graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	log.Println("Stopped")
}
