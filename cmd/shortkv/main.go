package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"

	"github.com/go-chi/httplog/v2"
	"golang.org/x/sync/errgroup"

	api "github.com/mbocharov/shortkv/internal/api/http"
	"github.com/mbocharov/shortkv/internal/config"
	"github.com/mbocharov/shortkv/internal/service"
	"github.com/mbocharov/shortkv/internal/storage"
	"github.com/mbocharov/shortkv/internal/storage/dynamo"
	"github.com/mbocharov/shortkv/internal/storage/memory"
	"github.com/mbocharov/shortkv/internal/storage/redis"
)

const appName = "shortkv"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx); err != nil {
		panic(err)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		return err
	}

	logger := httplog.NewLogger(appName, httplog.Options{
		JSON:    cfg.Env == config.EnvProd,
		Concise: true,
	})

	g, ctx := errgroup.WithContext(ctx)

	store, err := newStore(ctx, g, cfg)
	if err != nil {
		return err
	}

	urlSvc := service.NewURLService(store, logger.Logger, cfg.ShortCodeLength)

	r := api.NewRouter(logger, urlSvc, cfg.BaseURL)

	server := &http.Server{
		Addr:           cfg.HTTPServer.Addr(),
		Handler:        r,
		ReadTimeout:    cfg.HTTPServer.ReadTimeout,
		WriteTimeout:   cfg.HTTPServer.WriteTimeout,
		IdleTimeout:    cfg.HTTPServer.IdleTimeout,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g.Go(func() error {
		var err error

		switch cfg.Env {
		case config.EnvProd:
			err = server.ListenAndServeTLS(cfg.HTTPServer.CertFile, cfg.HTTPServer.KeyFile)
		default:
			err = server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		return server.Shutdown(context.Background())
	})

	err = g.Wait()

	// Let in-flight click-stats writes finish before the process exits.
	urlSvc.Wait()

	return err
}

func newStore(ctx context.Context, g *errgroup.Group, cfg *config.Config) (storage.Store, error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		return memory.New(), nil

	case config.BackendRedis:
		store, err := redis.New(ctx, redis.Options{
			Addr:         cfg.Storage.Redis.Addr,
			Password:     cfg.Storage.Redis.Password,
			DB:           cfg.Storage.Redis.DB,
			PoolSize:     cfg.Storage.Redis.PoolSize,
			MinIdleConns: cfg.Storage.Redis.MinIdleConns,
		})
		if err != nil {
			return nil, err
		}
		g.Go(func() error {
			<-ctx.Done()
			return store.Close()
		})
		return store, nil

	case config.BackendDynamoDB:
		return dynamo.New(ctx, dynamo.Options{
			Region:   cfg.Storage.DynamoDB.Region,
			Table:    cfg.Storage.DynamoDB.Table,
			Endpoint: cfg.Storage.DynamoDB.Endpoint,
		})

	default:
		return nil, fmt.Errorf("unknown storage backend: %q", cfg.Storage.Backend)
	}
}
