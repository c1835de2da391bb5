package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"calcd/internal/calculator"
	"calcd/internal/observability"
	"calcd/internal/server"
	"calcd/internal/session"
)

func main() {

	ctx := context.Background()

	if err := loadDotEnv(); err != nil {
		panic(err)
	}

	// Logger
	err := observability.InitLogger()
	if err != nil {
		panic(err)
	}
	defer observability.SyncLogger()

	// Tracing
	traceShutdown, err := observability.InitTracing(ctx)
	if err != nil {
		panic(err)
	}
	defer traceShutdown(ctx)

	// Log export
	logShutdown, err := observability.InitLogging(ctx)
	if err != nil {
		panic(err)
	}
	defer logShutdown(ctx)

	// Metrics
	metricShutdown, err := initMetrics(ctx)
	if err != nil {
		panic(err)
	}
	defer metricShutdown(ctx)

	// Sessions
	ttl, err := sessionTTL()
	if err != nil {
		panic(err)
	}
	opts := []session.Option{}
	if ttl > 0 {
		opts = append(opts, session.WithTTL(ttl))
	}
	store := session.NewStore(opts...)

	stopJanitor := startJanitor(store)
	defer stopJanitor()

	// Router
	router := server.NewRouter(calculator.NewAPI(store))

	srv := &http.Server{
		Addr:    listenAddr(),
		Handler: router,
	}

	go func() {
		observability.Logger.Info("server started", zap.String("addr", srv.Addr))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			panic(err)
		}
	}()

	waitForShutdown(srv)
}

// startJanitor evicts idle sessions once a minute until the returned stop
// function is called.
func startJanitor(store *session.Store) func() {
	done := make(chan struct{})

	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if purged := store.PurgeExpired(); purged > 0 {
					observability.Logger.Info("purged idle sessions",
						zap.Int("purged", purged),
						zap.Int("live_sessions", store.Len()),
					)
				}
			case <-done:
				return
			}
		}
	}()

	return func() { close(done) }
}

func waitForShutdown(srv *http.Server) {

	stop := make(chan os.Signal, 1)

	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	srv.Shutdown(ctx)
}
