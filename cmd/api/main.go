package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"paybridge/internal/cache"
	"paybridge/internal/config"
	"paybridge/internal/gateway"
	"paybridge/internal/gateway/getnet"
	"paybridge/internal/gateway/nuvei"
	"paybridge/internal/gateway/pagadito"
	httpx "paybridge/internal/http"
	"paybridge/internal/store/postgres"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init DB
	pool := postgres.MustOpen(ctx, cfg.DB.DSN)
	defer pool.Close()
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("schema setup failed")
	}
	repo := postgres.NewRepo(pool)

	// Idempotency cache is optional; without Redis every request dispatches.
	var idem *cache.Idempotency
	if cfg.Redis.Addr != "" {
		idem = cache.NewIdempotency(cfg.Redis.Addr, time.Duration(cfg.Redis.IdempotencyTTLMin)*time.Minute)
		defer idem.Close()
	}

	// Register configured gateways
	reg := gateway.NewRegistry()
	if cfg.Getnet.Username != "" {
		reg.Register(gateway.TypeGetnet, getnet.New(cfg.Getnet.Username, cfg.Getnet.Password, cfg.Getnet.SellerID, cfg.App.Env))
	}
	if cfg.Nuvei.MerchantID != "" {
		reg.Register(gateway.TypeNuveiACH, nuvei.New(cfg.Nuvei.MerchantID, cfg.Nuvei.MerchantSiteID, cfg.Nuvei.Secret, cfg.App.Env))
	}
	if cfg.Pagadito.Username != "" {
		reg.Register(gateway.TypePagadito, pagadito.New(cfg.Pagadito.Username, cfg.Pagadito.WSK, cfg.App.Env))
	}

	// Router
	r := httpx.NewRouter(httpx.RouterDependencies{
		Config:      cfg,
		Registry:    reg,
		Repo:        repo,
		Idempotency: idem,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Msgf("PayBridge API listening on :%s", cfg.App.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	cancel()
	ctx2, cancel2 := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	log.Info().Msg("server stopped")
}
