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
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/registration-bot/registration-api/internal/facades"
	"github.com/registration-bot/registration-api/internal/handlers"
	"github.com/registration-bot/registration-api/internal/logger"
	"github.com/registration-bot/registration-api/internal/middlewares"
	"github.com/registration-bot/registration-api/internal/repositories"
	"github.com/registration-bot/registration-api/internal/services"
	"github.com/registration-bot/registration-api/internal/storage"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// @title registration-api
// @version 1.0.0
// @description Minimal user-registration service with optional MongoDB persistence and motivational-message enrichment
// @host localhost:8000
// @BasePath /
// @schemes http
func main() {
	printBuildInfo()
	configPath := parseFlags()

	appHost, appPort, logLevel,
		mongoURL, dbName, requireDatastore, mongoTimeoutSecond,
		nodeServerURL, nodeTimeoutSecond,
		err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(),
		appHost, appPort, logLevel,
		mongoURL, dbName, requireDatastore, mongoTimeoutSecond,
		nodeServerURL, nodeTimeoutSecond,
	); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Version: %s, Commit: %s, Build: %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// parseConfig loads environment variables from a file and returns all
// application, datastore, and message-service configuration.
func parseConfig(path string) (
	appHost, appPort, logLevel string,
	mongoURL, dbName string, requireDatastore bool, mongoTimeoutSecond int,
	nodeServerURL string, nodeTimeoutSecond int,
	err error,
) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}

	// Application config
	appHost = getEnv("APP_HOST", "localhost")
	appPort = getEnv("APP_PORT", "8000")
	logLevel = getEnv("APP_LOG_LEVEL", "info")

	// MongoDB config; an empty URL disables persistence unless
	// REQUIRE_DATASTORE is set.
	mongoURL = getEnv("MONGODB_URL", "")
	dbName = getEnv("DATABASE_NAME", "registration_db")
	if requireDatastore, err = strconv.ParseBool(getEnv("REQUIRE_DATASTORE", "false")); err != nil {
		return
	}
	if mongoTimeoutSecond, err = strconv.Atoi(getEnv("MONGO_TIMEOUT_SECOND", "10")); err != nil {
		return
	}

	// Message service config
	nodeServerURL = getEnv("NODE_SERVER_URL",
		"https://registration-bot-node-bfb7g2gscyghg4gc.israelcentral-01.azurewebsites.net")
	if nodeTimeoutSecond, err = strconv.Atoi(getEnv("NODE_TIMEOUT_SECOND", "5")); err != nil {
		return
	}

	return
}

// run initializes the logger, the optional MongoDB connection, the message
// facade, and the HTTP server. It sets up routes, applies middleware, and
// handles graceful shutdown.
func run(ctx context.Context,
	appHost, appPort, logLevel string,
	mongoURL, dbName string, requireDatastore bool, mongoTimeoutSecond int,
	nodeServerURL string, nodeTimeoutSecond int,
) error {
	// Initialize logger
	if err := logger.Initialize(logLevel); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Log.Sync()
	logger.Log.Infof("Logger initialized with level %s", logLevel)

	// Connect to MongoDB; the service degrades to database-less registration
	// when the connection cannot be established, unless REQUIRE_DATASTORE
	// is set. The result is final: there is no reconnect later.
	var reader services.UserReader
	var writer services.UserWriter
	if mongoURL == "" {
		if requireDatastore {
			return fmt.Errorf("REQUIRE_DATASTORE is set but MONGODB_URL is empty")
		}
		logger.Log.Info("No MongoDB URL provided, registration will work without database storage")
	} else {
		client, err := storage.Connect(ctx, mongoURL, time.Duration(mongoTimeoutSecond)*time.Second)
		if err != nil {
			if requireDatastore {
				return fmt.Errorf("MongoDB connection failed: %w", err)
			}
			logger.Log.Errorw("MongoDB connection failed, registration will work without database storage", "error", err)
		} else {
			defer client.Disconnect(context.Background())

			col := client.Database(dbName).Collection("users")
			if err := repositories.EnsureIndexes(ctx, col); err != nil {
				logger.Log.Errorw("failed to ensure indexes", "error", err)
			}

			reader = repositories.NewUserReadRepository(col)
			writer = repositories.NewUserWriteRepository(col)
			logger.Log.Infof("MongoDB connected, using database %s", dbName)
		}
	}

	// Initialize message facade
	messageFacade := facades.NewMessageHTTPFacade(nodeServerURL, &http.Client{
		Timeout: time.Duration(nodeTimeoutSecond) * time.Second,
	})

	// Initialize services
	registerService := services.NewRegisterService(reader, writer, messageFacade)

	// Initialize handlers
	rootHandler := handlers.NewRootHandler()
	healthHandler := handlers.NewHealthHandler()
	registerHandler := handlers.NewRegisterHandler(registerService)

	// Setup router
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware(logger.Log))

	// Development-grade CORS policy: every origin, method, and header is
	// allowed, with credentials.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", rootHandler)
	r.Get("/health", healthHandler)
	r.Post("/register", registerHandler)

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://%s:%s/swagger/doc.json", appHost, appPort)),
	))

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", appHost, appPort),
		Handler: r,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		logger.Log.Infof("HTTP server listening on %s:%s", appHost, appPort)
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

	logger.Log.Info("HTTP server stopped gracefully")
	return nil
}
