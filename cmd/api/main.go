package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"realtyflow/internal/config"
	"realtyflow/internal/database"
	"realtyflow/internal/domain"
	"realtyflow/internal/modules/auth"
	"realtyflow/internal/modules/realtime"
	"realtyflow/internal/modules/search"
	jwtsvc "realtyflow/internal/pkg/jwt"
	"realtyflow/internal/repository"
	"realtyflow/internal/scheduler"
	"realtyflow/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("level=fatal msg=\"config load failed\" err=%v", err)
	}
	if cfg.IsProdLike() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.ConnectWithConfig(cfg.Database.URL, &gorm.Config{
		Logger: logger.Default.LogMode(database.LogLevel(cfg.Database.LogLevel)),
	})
	if err != nil {
		log.Fatalf("level=fatal msg=\"db connect failed\" err=%v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("level=fatal msg=\"migration failed\" err=%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos := repository.New(db)
	hub := realtime.NewHub(log.Printf)
	srv := server.New(server.Deps{
		Config:  cfg,
		Repos:   repos,
		Tokens:  jwtsvc.New(cfg.Auth.JWTSecret, cfg.Auth.JWTTTL),
		Index:   leadIndex(ctx, cfg.Search, repos),
		Hub:     hub,
		Loggerf: log.Printf,
	})

	created, err := srv.Auth.EnsureMaster(ctx, auth.MasterAccount{
		Username: cfg.Master.Username,
		Password: cfg.Master.Password,
		Email:    cfg.Master.Email,
	})
	if err != nil {
		log.Fatalf("level=fatal msg=\"master user setup failed\" err=%v", err)
	}
	if created {
		log.Printf("level=info msg=\"master user created\" username=%s", cfg.Master.Username)
	}

	jobs := scheduler.New(cfg.Scheduler, srv.Inventory, srv.Payments, log.Printf)
	if err := jobs.Start(); err != nil {
		log.Fatalf("level=fatal msg=\"scheduler start failed\" err=%v", err)
	}

	httpServer := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      srv.Engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}
	go func() {
		log.Printf("level=info msg=\"api listening\" addr=%s env=%s", cfg.HTTP.Addr, cfg.AppEnv)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("level=fatal msg=\"http server failed\" err=%v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("level=info msg=\"shutting down\"")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	hub.Close()
	jobs.Stop(shutdownCtx)
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("level=error msg=\"http shutdown failed\" err=%v", err)
	}
}

// leadIndex connects Meilisearch when a host is configured and pushes the
// current leads into it. Without a host, lead search runs on the database.
func leadIndex(ctx context.Context, cfg config.SearchConfig, repos *repository.Repositories) search.LeadIndex {
	if cfg.MeiliHost == "" {
		return search.Noop{}
	}

	meili := search.NewMeili(cfg.MeiliHost, cfg.MeiliAPIKey, cfg.LeadIndex)
	if err := meili.InitIndex(); err != nil {
		log.Printf("level=warn msg=\"meilisearch index setup failed\" err=%v", err)
		return meili
	}

	leads, err := repos.Leads.List(ctx, repository.LeadFilter{Actor: domain.Actor{Role: domain.RoleMaster}})
	if err != nil {
		log.Printf("level=warn msg=\"lead reindex skipped\" err=%v", err)
		return meili
	}
	if err := meili.IndexLeads(ctx, leads); err != nil {
		log.Printf("level=warn msg=\"lead reindex failed\" err=%v", err)
	} else {
		log.Printf("level=info msg=\"leads indexed\" count=%d", len(leads))
	}
	return meili
}
