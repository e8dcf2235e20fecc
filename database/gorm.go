package database

import (
	"fmt"
	"log"
	"time"

	"github.com/sahilchouksey/qbank-api/config"
	"github.com/sahilchouksey/qbank-api/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Storage defines the interface that all database implementations must satisfy
type Storage interface {
	// Lifecycle methods
	Init() error
	Close() error
	HealthCheck() error

	// GORM DB access
	GetDB() interface{} // Returns *gorm.DB for GORMStore
}

type GORMStore struct {
	db *gorm.DB
}

// StartGORM initializes a GORM connection to PostgreSQL
func StartGORM() (*GORMStore, error) {
	getEnv, err := config.Get()
	if err != nil {
		return nil, err
	}

	// Build DSN (Data Source Name)
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		getEnv.DB_HOST,
		getEnv.DB_USER_NAME,
		getEnv.DB_PASSWORD,
		getEnv.DB_NAME,
		getEnv.DB_PORT,
		getEnv.DB_SSL_MODE,
	)

	// Configure GORM logger
	gormLogger := logger.Default.LogMode(logger.Info)
	if getEnv.GO_ENV == "production" {
		gormLogger = logger.Default.LogMode(logger.Error)
	}

	// Open GORM connection. TranslateError maps the unique-index violation on
	// questions.human_id to gorm.ErrDuplicatedKey, which the creation retry
	// loop depends on.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: false,
		PrepareStmt:            true,
		TranslateError:         true,
	})
	if err != nil {
		log.Println("Unable to connect to PostgreSQL with GORM:", err)
		return nil, err
	}

	// Get underlying *sql.DB to configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// Connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("Successfully connected to PostgreSQL Database with GORM.")

	return &GORMStore{db: db}, nil
}

// Init runs the AutoMigrate to create/update tables
func (s *GORMStore) Init() error {
	log.Println("Running GORM AutoMigrate for all models...")

	err := s.db.AutoMigrate(
		&model.User{},

		// The three hierarchy variants live in separate tables on purpose:
		// the tree migrated across incompatible layouts that coexist.
		&model.HierarchyItem{},
		&model.QuestionBankItem{},
		&model.PreviousPaperItem{},

		&model.Question{},
		&model.QuestionOption{},
		&model.Tag{},
	)
	if err != nil {
		log.Println("GORM AutoMigrate failed:", err)
		return err
	}

	log.Println("GORM AutoMigrate completed successfully.")
	return nil
}

// Close closes the underlying database connection
func (s *GORMStore) Close() error {
	log.Println("Closing PostgreSQL Database.")
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// HealthCheck verifies the database connection is alive
func (s *GORMStore) HealthCheck() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// GetDB returns the underlying *gorm.DB
func (s *GORMStore) GetDB() interface{} {
	return s.db
}
