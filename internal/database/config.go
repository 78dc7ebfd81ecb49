package database

import (
	"fmt"
	"time"

	"showwise/internal/models"
	"showwise/internal/utils"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

const (
	maxRetries = 5
	retryDelay = 5 * time.Second
)

// InitDB opens the database connection, configures the pool and migrates the schema
func InitDB(dsn string, release bool, log *zap.Logger) (*gorm.DB, error) {
	level := logger.Info
	if release {
		level = logger.Warn
	}

	// SQL logs go through zap so they share the application's format
	baseLogger := logger.New(
		zap.NewStdLog(log.Named("gorm")),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true, // deleted events are expected at reminder time
			Colorful:                  !release,
		},
	)

	// Drop the per-reminder event reloads, they would dominate the log
	customLogger := utils.NewCustomGormLogger(
		baseLogger,
		`FROM "crew_assignment" WHERE "crew_assignment"."event_id"`,
		`FROM "account" WHERE username IN`,
	)

	gormConfig := &gorm.Config{
		Logger: customLogger,
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true,
		},
		PrepareStmt:    true,
		TranslateError: true,
	}

	var (
		db  *gorm.DB
		err error
	)
	for i := 0; i < maxRetries; i++ {
		db, err = gorm.Open(postgres.Open(dsn), gormConfig)
		if err == nil {
			break
		}
		log.Warn("database connection attempt failed", zap.Int("attempt", i+1), zap.Error(err))
		if i < maxRetries-1 {
			log.Info("retrying database connection", zap.Duration("in", retryDelay))
			time.Sleep(retryDelay)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Info("database connection established and migrations completed")
	return db, nil
}

// Migrate creates or updates every table the application owns
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Account{},
		&models.Event{},
		&models.CrewAssignment{},
		&models.NotificationSent{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
