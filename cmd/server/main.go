package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/provia-hq/provia/internal/server"
	"github.com/provia-hq/provia/modules/billing/services"
	"github.com/provia-hq/provia/modules/orgchart/domain/tree"
	"github.com/provia-hq/provia/modules/orgchart/infrastructure/persistence"
	orgservices "github.com/provia-hq/provia/modules/orgchart/services"
	"github.com/provia-hq/provia/pkg/configuration"
	"github.com/provia-hq/provia/pkg/eventbus"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			configuration.Use().Unload()
			log.Println(r)
			debug.PrintStack()
			os.Exit(1)
		}
	}()

	conf := configuration.Use()
	defer conf.Unload()
	logger := conf.Logger()

	var repo tree.Repository
	if conf.Database.Disabled {
		logger.Warn("database disabled, trees are kept in memory only")
		repo = persistence.NewInmemTreeRepository()
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		pool, err := pgxpool.New(ctx, conf.Database.Opts)
		if err != nil {
			logger.WithError(err).Fatal("failed to create database pool")
		}
		defer pool.Close()

		pgRepo := persistence.NewTreeRepository(pool)
		if err := pgRepo.EnsureSchema(ctx); err != nil {
			logger.WithError(err).Fatal("failed to ensure database schema")
		}
		repo = pgRepo
	}

	bus := eventbus.NewEventPublisher(logger)
	trees := orgservices.NewTreeService(repo, bus, logger, conf.Tree.MaxDepth)
	reports := services.NewReportService(logger, conf.Billing.DefaultVATRate)

	srv := server.Default(&server.DefaultOptions{
		Logger:        logger,
		Configuration: conf,
		Trees:         trees,
		Reports:       reports,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Listening on: %s\n", conf.SocketAddress)
		errCh <- srv.Start(conf.SocketAddress)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.WithError(err).Fatal("server stopped")
		}
	case sig := <-stop:
		logger.WithField("signal", sig.String()).Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.WithError(err).Error("graceful shutdown failed")
		}
	}
}
