package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"

	"github.com/pavelzhukov/transaction-ingest/internal/db"
	"github.com/pavelzhukov/transaction-ingest/internal/handlers"
	"github.com/pavelzhukov/transaction-ingest/internal/logger"
	"github.com/pavelzhukov/transaction-ingest/internal/metrics"
	"github.com/pavelzhukov/transaction-ingest/internal/middlewares"
	"github.com/pavelzhukov/transaction-ingest/internal/queue"
	"github.com/pavelzhukov/transaction-ingest/internal/repositories"
	"github.com/pavelzhukov/transaction-ingest/internal/services"
	"github.com/pavelzhukov/transaction-ingest/internal/worker"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/pavelzhukov/transaction-ingest/docs"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// config holds all environment-level settings.
type config struct {
	appHost  string
	appPort  string
	logLevel string

	pgHost         string
	pgPort         int
	pgUser         string
	pgPassword     string
	pgDB           string
	pgMaxOpenConns int
	pgMaxIdleConns int

	redisHost         string
	redisPort         int
	redisDB           int
	redisPassword     string
	redisPoolSize     int
	redisMinIdleConns int

	kafkaBrokers string
	kafkaTopic   string

	queueName        string
	attempts         int
	backoffDelay     time.Duration
	leaseDuration    time.Duration
	removeOnComplete int
	removeOnFail     int
	concurrency      int
	lockWait         time.Duration
}

// @title transaction-ingest API
// @version 1.0.0
// @description Idempotent asynchronous ingestion of financial transactions
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
func main() {
	printBuildInfo()
	configPath := parseFlags()

	cfg, err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(), cfg); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Starting service version %s, commit %s, build %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// parseConfig loads environment variables from a file and returns the full
// application, database, Redis, Kafka and queue configuration.
func parseConfig(path string) (cfg config, err error) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}
	getEnvInt := func(key string, defaultValue int) (int, error) {
		return strconv.Atoi(getEnv(key, strconv.Itoa(defaultValue)))
	}

	// Application config
	cfg.appHost = getEnv("APP_HOST", "localhost")
	cfg.appPort = getEnv("APP_PORT", "8080")
	cfg.logLevel = getEnv("APP_LOG_LEVEL", "info")

	// PostgreSQL config
	cfg.pgHost = getEnv("POSTGRES_HOST", "localhost")
	cfg.pgUser = getEnv("POSTGRES_USER", "user")
	cfg.pgPassword = getEnv("POSTGRES_PASSWORD", "password")
	cfg.pgDB = getEnv("POSTGRES_DB", "database")
	if cfg.pgPort, err = getEnvInt("POSTGRES_PORT", 5432); err != nil {
		return
	}
	if cfg.pgMaxOpenConns, err = getEnvInt("POSTGRES_MAX_OPEN_CONNS", 16); err != nil {
		return
	}
	if cfg.pgMaxIdleConns, err = getEnvInt("POSTGRES_MAX_IDLE_CONNS", 8); err != nil {
		return
	}

	// Redis config
	cfg.redisHost = getEnv("REDIS_HOST", "localhost")
	cfg.redisPassword = getEnv("REDIS_PASSWORD", "")
	if cfg.redisPort, err = getEnvInt("REDIS_PORT", 6379); err != nil {
		return
	}
	if cfg.redisDB, err = getEnvInt("REDIS_DB", 0); err != nil {
		return
	}
	if cfg.redisPoolSize, err = getEnvInt("REDIS_POOL_SIZE", 10); err != nil {
		return
	}
	if cfg.redisMinIdleConns, err = getEnvInt("REDIS_MIN_IDLE_CONNS", 2); err != nil {
		return
	}

	// Kafka config; empty brokers disable event publishing
	cfg.kafkaBrokers = getEnv("KAFKA_BROKERS", "")
	cfg.kafkaTopic = getEnv("KAFKA_TOPIC", "transaction-events")

	// Queue config
	cfg.queueName = getEnv("QUEUE_NAME", "transactions")
	if cfg.attempts, err = getEnvInt("QUEUE_ATTEMPTS", queue.DefaultAttempts); err != nil {
		return
	}
	var backoffMs int
	if backoffMs, err = getEnvInt("QUEUE_BACKOFF_DELAY_MS", int(queue.DefaultBackoffDelay.Milliseconds())); err != nil {
		return
	}
	cfg.backoffDelay = time.Duration(backoffMs) * time.Millisecond
	var leaseMs int
	if leaseMs, err = getEnvInt("QUEUE_LEASE_MS", int(queue.DefaultLeaseDuration.Milliseconds())); err != nil {
		return
	}
	cfg.leaseDuration = time.Duration(leaseMs) * time.Millisecond
	if cfg.removeOnComplete, err = getEnvInt("QUEUE_REMOVE_ON_COMPLETE", queue.DefaultRemoveOnComplete); err != nil {
		return
	}
	if cfg.removeOnFail, err = getEnvInt("QUEUE_REMOVE_ON_FAIL", queue.DefaultRemoveOnFail); err != nil {
		return
	}
	if cfg.concurrency, err = getEnvInt("WORKER_CONCURRENCY", 4); err != nil {
		return
	}
	var lockWaitMs int
	if lockWaitMs, err = getEnvInt("DB_LOCK_WAIT_MS", int(repositories.DefaultLockWait.Milliseconds())); err != nil {
		return
	}
	cfg.lockWait = time.Duration(lockWaitMs) * time.Millisecond

	return cfg, nil
}

// run initializes the logger, database, Redis, Kafka and HTTP server, starts
// the queue workers, and handles graceful shutdown.
func run(ctx context.Context, cfg config) error {
	// Initialize logger
	if err := logger.Initialize(cfg.logLevel); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Sync()
	logger.Log.Infof("Logger initialized with level %s", cfg.logLevel)

	metrics.Init()

	// Connect to PostgreSQL
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.pgUser, cfg.pgPassword, cfg.pgHost, cfg.pgPort, cfg.pgDB)
	logger.Log.Infof("Connecting to PostgreSQL at %s:%d", cfg.pgHost, cfg.pgPort)

	pg, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		logger.Log.Fatal("PostgreSQL connection error:", err)
	}
	defer pg.Close()
	pg.SetMaxOpenConns(cfg.pgMaxOpenConns)
	pg.SetMaxIdleConns(cfg.pgMaxIdleConns)

	if err := db.Migrate(ctx, pg); err != nil {
		logger.Log.Fatal("Migration failed:", err)
	}

	// Connect to Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.redisHost, cfg.redisPort),
		Password:     cfg.redisPassword,
		DB:           cfg.redisDB,
		PoolSize:     cfg.redisPoolSize,
		MinIdleConns: cfg.redisMinIdleConns,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Log.Fatal("Redis connection error:", err)
	}
	defer rdb.Close()

	// Kafka writer for terminal-status events
	var kafkaWriter worker.KafkaWriter
	if cfg.kafkaBrokers != "" {
		w := &kafka.Writer{
			Addr:     kafka.TCP(strings.Split(cfg.kafkaBrokers, ",")...),
			Topic:    cfg.kafkaTopic,
			Balancer: &kafka.LeastBytes{},
		}
		defer w.Close()
		kafkaWriter = w
	}

	// Initialize repositories
	writeRepo := repositories.NewTransactionWriteRepository(pg, cfg.lockWait)
	readRepo := repositories.NewTransactionReadRepository(pg)

	// Initialize service, queue and processor
	txnService := services.NewTransactionService(writeRepo, readRepo)
	txnQueue := queue.New(rdb, queue.Config{
		Name:             cfg.queueName,
		Attempts:         cfg.attempts,
		BackoffDelay:     cfg.backoffDelay,
		LeaseDuration:    cfg.leaseDuration,
		RemoveOnComplete: cfg.removeOnComplete,
		RemoveOnFail:     cfg.removeOnFail,
	})
	processor := worker.NewProcessor(txnService, kafkaWriter)

	// Initialize handlers
	createHandler := handlers.NewCreateTransactionHandler(txnQueue)
	getHandler := handlers.NewGetTransactionHandler(txnService)
	listHandler := handlers.NewListTransactionsHandler(txnService)
	jobStatusHandler := handlers.NewQueueJobStatusHandler(txnQueue)
	queueStatsHandler := handlers.NewQueueStatsHandler(txnQueue)

	// Setup router
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware(logger.Log))
	r.Use(middlewares.MetricsMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/transactions", createHandler)
		r.Get("/transactions", listHandler)
		r.Get("/transactions/queue/stats", queueStatsHandler)
		r.Get("/transactions/queue/{transactionId}/status", jobStatusHandler)
		r.Get("/transactions/{id}", getHandler)
	})

	r.Handle("/metrics", metrics.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://%s:%s/swagger/doc.json", cfg.appHost, cfg.appPort)),
	))

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.appHost, cfg.appPort),
		Handler: r,
	}

	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	// Start queue workers
	workersDone := make(chan struct{})
	go func() {
		defer close(workersDone)
		logger.Log.Infof("Starting %d queue workers", cfg.concurrency)
		txnQueue.Run(ctxShutdown, processor.Process, cfg.concurrency)
	}()

	// Export queue depth periodically
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctxShutdown.Done():
				return
			case <-ticker.C:
				counts, err := txnQueue.Counts(ctxShutdown)
				if err != nil {
					continue
				}
				metrics.QueueDepth.WithLabelValues(queue.StateWaiting).Set(float64(counts.Waiting))
				metrics.QueueDepth.WithLabelValues(queue.StateActive).Set(float64(counts.Active))
				metrics.QueueDepth.WithLabelValues(queue.StateCompleted).Set(float64(counts.Completed))
				metrics.QueueDepth.WithLabelValues(queue.StateFailed).Set(float64(counts.Failed))
				metrics.QueueDepth.WithLabelValues(queue.StateDelayed).Set(float64(counts.Delayed))
			}
		}
	}()

	errChan := make(chan error, 1)
	go func() {
		logger.Log.Infof("HTTP server listening on %s:%s", cfg.appHost, cfg.appPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		logger.Log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "error", err)
	}

	<-workersDone
	logger.Log.Info("Queue workers stopped, server shut down gracefully")
	return nil
}
