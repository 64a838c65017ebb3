package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"go.uber.org/zap"

	"github.com/ranbenri-hacklberry/self-service-kiosk-sub003/internal/queue"
	"github.com/ranbenri-hacklberry/self-service-kiosk-sub003/internal/ratelimiter"
	"github.com/ranbenri-hacklberry/self-service-kiosk-sub003/internal/repo"
	"github.com/ranbenri-hacklberry/self-service-kiosk-sub003/internal/service"
	"github.com/ranbenri-hacklberry/self-service-kiosk-sub003/internal/store/mongo"
	"github.com/ranbenri-hacklberry/self-service-kiosk-sub003/internal/store/postgres"
	"github.com/ranbenri-hacklberry/self-service-kiosk-sub003/internal/worker"
)

type application struct {
	config        config
	logger        *zap.SugaredLogger
	rateLimiter   ratelimiter.Limiter
	storage       *mongo.Storage
	pg            *postgres.Storage
	broker        queue.Broker
	sessions      *service.SessionManager
	importService *service.ImportService
	syncAuditRepo repo.SyncAuditRepository
	importWorker  *worker.MenuImportWorker
	replayWorker  *worker.OfflineReplayWorker
}

type config struct {
	addr        string
	env         string
	rateLimiter ratelimiter.Config
	mongo       mongoConfig
	postgres    postgresConfig
	rabbitMQ    rabbitMQConfig
	googleCreds string
}

type mongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type postgresConfig struct {
	DSN      string
	MaxConns int
	MinConns int
}

type rabbitMQConfig struct {
	URL           string
	MaxRetries    int
	RetryDelay    time.Duration
	PrefetchCount int
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(app.RateLimiterMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", app.healthCheckHandler)

		r.Post("/import", app.createImportTaskHandler)
		r.Get("/import/{task_id}", app.getImportTaskHandler)

		r.Post("/modifiers/parse", app.parseModifiersHandler)

		r.Route("/businesses/{business_id}", func(r chi.Router) {
			r.Get("/items", app.listItemsHandler)
			r.Get("/items/{item_id}", app.getItemHandler)
			r.Patch("/items/{item_id}", app.updateItemHandler)
			r.Delete("/items/{item_id}", app.deleteItemHandler)
			r.Put("/items/{item_id}/modifiers", app.replaceModifiersHandler)
			r.Post("/items/{item_id}/groups/{group_id}", app.attachGroupHandler)
			r.Get("/items/{item_id}/validate", app.validateItemHandler)

			r.Get("/sync-audit", app.syncAuditHandler)
		})
	})

	return r
}

func (app *application) run(mux http.Handler) error {
	// workers
	if app.importWorker != nil {
		if err := app.importWorker.Start(); err != nil {
			return fmt.Errorf("failed to start import worker: %w", err)
		}
	}
	if app.replayWorker != nil {
		if err := app.replayWorker.Start(); err != nil {
			return fmt.Errorf("failed to start replay worker: %w", err)
		}
	}

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		if app.importWorker != nil {
			app.importWorker.Stop()
		}
		if app.replayWorker != nil {
			app.replayWorker.Stop()
		}

		if app.storage != nil {
			if err := app.storage.Close(ctx); err != nil {
				app.logger.Errorw("error closing MongoDB", "error", err)
			} else {
				app.logger.Info("MongoDB connection closed gracefully")
			}
		}

		if app.pg != nil {
			app.pg.Close()
			app.logger.Info("PostgreSQL pool closed gracefully")
		}

		if app.broker != nil {
			if err := app.broker.Close(); err != nil {
				app.logger.Errorw("error closing RabbitMQ", "error", err)
			} else {
				app.logger.Info("RabbitMQ connection closed gracefully")
			}
		}

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server have started", "addr", app.config.addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}
