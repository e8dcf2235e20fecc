package app

import (
	"fmt"
	"log"
	"os"

	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sahilchouksey/qbank-api/api"
	"github.com/sahilchouksey/qbank-api/config"
	"github.com/sahilchouksey/qbank-api/database"
	"github.com/sahilchouksey/qbank-api/router"
	"github.com/sahilchouksey/qbank-api/services"
	"github.com/sahilchouksey/qbank-api/services/cron"
	"gorm.io/gorm"
)

func SetupAndRunServer() error {

	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err
	}

	getEnv, err := config.Get()
	if err != nil {
		return err
	}

	// Initialize GORM database connection
	store, err := database.StartGORM()
	if err != nil {
		print("Check whether the Postgres is running or not\n")
		return err
	}

	if err := store.Init(); err != nil {
		print("Failed to initialize database tables\n")
		return err
	}

	// The sequence counter runs on its own raw connection so the increment
	// stays a single atomic statement.
	sequences, err := database.StartSequenceStore()
	if err != nil {
		print("Failed to initialize the sequence store\n")
		return err
	}
	if err := sequences.Ensure(services.QuestionSequenceName, 0); err != nil {
		return err
	}

	// Initialize Cron Manager (only if enabled via environment variable)
	var cronManager *cron.CronManager
	if os.Getenv("CRON_ENABLED") != "false" { // Default to enabled
		db, ok := store.GetDB().(*gorm.DB)
		if !ok {
			print("Warning: Failed to get database connection for cron jobs\n")
		} else {
			cronManager = cron.NewCronManager(db, services.NewHierarchyService(db))
			if err := cronManager.Start(); err != nil {
				log.Printf("Warning: Failed to start cron jobs: %v", err)
				// Don't fail the app, just log the warning
			}
		}
	}

	// Defer Closing DB and stopping cron jobs
	defer func() {
		if cronManager != nil {
			cronManager.Stop()
		}
		sequences.Close()
		store.Close()
	}()

	// Init API
	var server *api.APIServer = api.NewAPIServer(fmt.Sprintf(":%d", getEnv.PORT))
	app := server.GetEngine()

	// Attach Middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Setup Routes
	router.SetupRoutes(app, store, sequences)

	// Get the PORT & Start the Server
	return server.Run()
}
