package database

import (
	"context"
	"fmt"
	"time"

	"github.com/binaryshield/godeye-console/internal/models"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Database connection manager
type Manager struct {
	DB     *gorm.DB
	Redis  *redis.Client
	logger *logrus.Logger
}

// Database configuration
type Config struct {
	DatabaseURL string
	RedisURL    string
	LogLevel    string
}

// NewManager creates a new database manager with connection pooling
func NewManager(config *Config, logger *logrus.Logger) (*Manager, error) {
	gormLogger := gormlogger.Default.LogMode(gormlogger.Silent)
	if config.LogLevel == "debug" {
		gormLogger = gormlogger.Default.LogMode(gormlogger.Info)
	}

	db, err := gorm.Open(postgres.Open(config.DatabaseURL), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	redisOpts, err := redis.ParseURL(config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	redisOpts.PoolSize = 20
	redisOpts.MinIdleConns = 5
	redisOpts.MaxConnAge = time.Hour
	redisOpts.IdleTimeout = 30 * time.Minute

	redisClient := redis.NewClient(redisOpts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Database and Redis connections established successfully")

	return &Manager{
		DB:     db,
		Redis:  redisClient,
		logger: logger,
	}, nil
}

// Migrate runs database migrations
func (m *Manager) Migrate() error {
	m.logger.Info("Running database migrations...")

	return m.DB.AutoMigrate(
		&models.SearchRecord{},
		&models.SystemHealth{},
	)
}

// Close closes all database connections
func (m *Manager) Close() error {
	if m.Redis != nil {
		if err := m.Redis.Close(); err != nil {
			m.logger.WithError(err).Error("Failed to close Redis connection")
		}
	}

	if m.DB != nil {
		sqlDB, err := m.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}

	return nil
}

// Health check methods
func (m *Manager) PingDatabase() error {
	sqlDB, err := m.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func (m *Manager) PingRedis() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.Redis.Ping(ctx).Err()
}
