// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	auditService "github.com/allisson/phiguard/internal/audit/service"
	auditUsecase "github.com/allisson/phiguard/internal/audit/usecase"
	"github.com/allisson/phiguard/internal/config"
	credentialService "github.com/allisson/phiguard/internal/credential/service"
	credentialUsecase "github.com/allisson/phiguard/internal/credential/usecase"
	cryptoService "github.com/allisson/phiguard/internal/crypto/service"
	cryptoUsecase "github.com/allisson/phiguard/internal/crypto/usecase"
	"github.com/allisson/phiguard/internal/database"
	"github.com/allisson/phiguard/internal/keystore"
	"github.com/allisson/phiguard/internal/metrics"
)

const connectTimeout = 10 * time.Second

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
// One engine, one hasher and one audit trail exist per container.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger      *slog.Logger
	db          *sql.DB
	mongoClient *mongo.Client
	mongoDB     *mongo.Database

	// Managers
	txManager database.TxManager

	// Key storage
	keeper   keystore.Keeper
	keyStore keystore.Store

	// Crypto
	aeadManager  cryptoService.AEADManager
	keyDeriver   cryptoService.KeyDeriver
	cryptoEngine *cryptoUsecase.CryptoEngine
	engine       cryptoUsecase.Engine

	// Audit
	recordRepo      auditUsecase.RecordRepository
	signer          auditService.Signer
	auditTrail      auditUsecase.AuditTrail
	securityAlerter *auditUsecase.SecurityAlerter

	// Credentials
	hasher        credentialService.Hasher
	authenticator credentialUsecase.Authenticator

	// Metrics
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Initialization flags and mutex for thread-safety
	mu                  sync.Mutex
	loggerInit          sync.Once
	dbInit              sync.Once
	mongoInit           sync.Once
	txManagerInit       sync.Once
	keyStoreInit        sync.Once
	aeadManagerInit     sync.Once
	keyDeriverInit      sync.Once
	cryptoEngineInit    sync.Once
	engineInit          sync.Once
	recordRepoInit      sync.Once
	signerInit          sync.Once
	auditTrailInit      sync.Once
	hasherInit          sync.Once
	authenticatorInit   sync.Once
	metricsProviderInit sync.Once
	businessMetricsInit sync.Once
	initErrors          map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the SQL database connection for the postgres and mysql drivers.
func (c *Container) DB() (*sql.DB, error) {
	var err error
	c.dbInit.Do(func() {
		c.db, err = c.initDB()
		if err != nil {
			c.initErrors["db"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// MongoDatabase returns the MongoDB database for the mongodb driver.
func (c *Container) MongoDatabase() (*mongo.Database, error) {
	var err error
	c.mongoInit.Do(func() {
		c.mongoClient, c.mongoDB, err = c.initMongo()
		if err != nil {
			c.initErrors["mongo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["mongo"]; exists {
		return nil, storedErr
	}
	return c.mongoDB, nil
}

// TxManager returns the transaction manager.
// It requires a SQL database connection.
func (c *Container) TxManager() (database.TxManager, error) {
	var err error
	c.txManagerInit.Do(func() {
		c.txManager, err = c.initTxManager()
		if err != nil {
			c.initErrors["txManager"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["txManager"]; exists {
		return nil, storedErr
	}
	return c.txManager, nil
}

// MetricsProvider returns the OpenTelemetry metrics provider.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		c.metricsProvider, err = metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder, a no-op when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		c.businessMetrics, err = c.initBusinessMetrics()
		if err != nil {
			c.initErrors["businessMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// ReadinessCheck returns a check that pings the configured record store.
// The memory driver is always ready.
func (c *Container) ReadinessCheck() func(ctx context.Context) error {
	return func(ctx context.Context) error {
		switch c.config.DBDriver {
		case "postgres", "mysql":
			db, err := c.DB()
			if err != nil {
				return err
			}
			return db.PingContext(ctx)
		case "mongodb":
			if _, err := c.MongoDatabase(); err != nil {
				return err
			}
			return c.mongoClient.Ping(ctx, nil)
		default:
			return nil
		}
	}
}

// Shutdown performs cleanup of all initialized resources.
// It drops cached key material before closing connections.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.cryptoEngine != nil {
		c.cryptoEngine.SetAlertHook(nil)
		c.cryptoEngine.ClearCache()
	}

	if c.keeper != nil {
		if err := c.keeper.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("kms keeper close: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.mongoClient != nil {
		if err := c.mongoClient.Disconnect(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("mongodb disconnect: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	switch c.config.DBDriver {
	case "postgres", "mysql":
	default:
		return nil, fmt.Errorf("database driver %q has no SQL connection", c.config.DBDriver)
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	db, err := database.Connect(ctx, database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initMongo connects to MongoDB.
func (c *Container) initMongo() (*mongo.Client, *mongo.Database, error) {
	if c.config.DBDriver != "mongodb" {
		return nil, nil, fmt.Errorf("database driver %q has no MongoDB connection", c.config.DBDriver)
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, db, err := database.ConnectMongo(ctx, database.MongoConfig{
		URI:         c.config.DBConnectionString,
		Database:    c.config.MongoDatabase,
		MaxPoolSize: uint64(max(c.config.DBMaxOpenConnections, 0)),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	return client, db, nil
}

// initTxManager creates the transaction manager using the database connection.
func (c *Container) initTxManager() (database.TxManager, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tx manager: %w", err)
	}
	return database.NewTxManager(db), nil
}

// initBusinessMetrics creates business metrics on the provider, or a no-op recorder.
func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	if !c.config.MetricsEnabled {
		return metrics.NewNoOpBusinessMetrics(), nil
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider: %w", err)
	}

	businessMetrics, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}
	return businessMetrics, nil
}
