// Command server wires the farm geometry registry and oracle data quality
// pipeline: stores, event publisher, services and the HTTP surface.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"agrotrace/internal/events"
	httpapi "agrotrace/internal/http"
	oraclehandler "agrotrace/internal/oracle/handler"
	oraclemetrics "agrotrace/internal/oracle/metrics"
	oracleservice "agrotrace/internal/oracle/service"
	oraclestore "agrotrace/internal/oracle/store"
	"agrotrace/internal/platform/config"
	"agrotrace/internal/platform/httpserver"
	platformlogger "agrotrace/internal/platform/logger"
	platformredis "agrotrace/internal/platform/redis"
	registryhandler "agrotrace/internal/registry/handler"
	registrymetrics "agrotrace/internal/registry/metrics"
	registryservice "agrotrace/internal/registry/service"
	registrystore "agrotrace/internal/registry/store"
	"agrotrace/internal/trace/cache"
	tracehandler "agrotrace/internal/trace/handler"
	tracemetrics "agrotrace/internal/trace/metrics"
	traceservice "agrotrace/internal/trace/service"
	tracestore "agrotrace/internal/trace/store"
)

func main() {
	cfg := config.FromEnv()
	logger := platformlogger.New()

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Stores: postgres when configured, memory otherwise.
	var (
		farms         registrystore.FarmStore
		plots         registrystore.PlotStore
		timelines     tracestore.TimelineStore
		contributions tracestore.ContributionStore
	)
	if cfg.PostgresDSN != "" {
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			return err
		}
		farms = registrystore.NewPostgresFarmStore(db)
		plots = registrystore.NewPostgresPlotStore(db)
		timelines = tracestore.NewPostgresTimelineStore(db)
		contributions = tracestore.NewPostgresContributionStore(db)
	} else {
		logger.Warn("no postgres configured, using in-memory stores")
		farms = registrystore.NewInMemoryFarmStore()
		plots = registrystore.NewInMemoryPlotStore()
		timelines = tracestore.NewInMemoryTimelineStore()
		contributions = tracestore.NewInMemoryContributionStore()
	}

	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		return err
	}
	var observations oraclestore.ObservationStore
	var traceCache cache.TraceCache
	if redisClient != nil {
		defer redisClient.Close()
		observations = oraclestore.NewRedisObservationStore(redisClient.Client, cfg.ObservationRetention)
		traceCache = cache.NewRedisTraceCache(redisClient.Client, cfg.TraceCacheTTL)
	} else {
		logger.Warn("no redis configured, using in-memory observation store and no trace cache")
		observations = oraclestore.NewInMemoryObservationStore(cfg.ObservationRetention)
	}

	var publisher events.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		kafka, err := events.NewKafkaPublisher(ctx, cfg.KafkaBrokers)
		if err != nil {
			return err
		}
		defer kafka.Close()
		publisher = kafka
	} else {
		logger.Warn("no kafka brokers configured, capturing events in memory")
		publisher = events.NewInMemoryPublisher()
	}

	registrar := registryservice.NewRegistrar(farms, plots, publisher, logger,
		registryservice.WithMetrics(registrymetrics.New()))
	ingestor := oracleservice.NewIngestor(observations, logger,
		oracleservice.WithMetrics(oraclemetrics.New()),
		oracleservice.WithPublisher(publisher))
	composerOpts := []traceservice.ComposerOption{traceservice.WithMetrics(tracemetrics.New())}
	if traceCache != nil {
		composerOpts = append(composerOpts, traceservice.WithCache(traceCache))
	}
	composer := traceservice.NewComposer(timelines, contributions, observations,
		traceservice.NewAnonymizer(cfg.AnonymizationSecret), logger, composerOpts...)

	router := httpapi.NewRouter(logger,
		registryhandler.New(registrar, logger),
		oraclehandler.New(ingestor, logger),
		tracehandler.New(composer, logger),
	)
	srv := httpserver.New(cfg.Addr, router)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
