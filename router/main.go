package router

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/sahilchouksey/qbank-api/database"
	"github.com/sahilchouksey/qbank-api/handlers"
	auth_handlers "github.com/sahilchouksey/qbank-api/handlers/auth"
	hierarchy_handlers "github.com/sahilchouksey/qbank-api/handlers/hierarchy"
	question_handlers "github.com/sahilchouksey/qbank-api/handlers/question"
	tag_handlers "github.com/sahilchouksey/qbank-api/handlers/tag"
	"github.com/sahilchouksey/qbank-api/services"
	"github.com/sahilchouksey/qbank-api/utils/auth"
	"github.com/sahilchouksey/qbank-api/utils/cache"
	"github.com/sahilchouksey/qbank-api/utils/middleware"
	"gorm.io/gorm"
)

// SetupRoutes wires services and handlers onto the Fiber app.
func SetupRoutes(app *fiber.App, store database.Storage, sequences *database.SequenceStore) {
	// Get JWT secret from environment
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtIssuer := os.Getenv("JWT_ISSUER")
	if jwtIssuer == "" {
		jwtIssuer = "qbank-api"
	}

	jwtManager := auth.NewJWTManager(auth.JWTConfig{
		Secret: jwtSecret,
		Expiry: 24 * time.Hour,
		Issuer: jwtIssuer,
	})

	// Get DB instance (type assert from interface)
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		log.Fatal("Failed to get GORM DB instance")
	}

	// Redis backs the tag-suggestion cache; the API degrades to DB reads
	// when it is unreachable.
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}
	redisCache, err := cache.NewRedisCache(redisURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Tag suggestions will not be cached.", err)
		redisCache = nil
	}

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, db)

	// Build the identity engine on top of the hierarchy service: resolver and
	// encoder share its node store, the allocator runs on the raw counter.
	hierarchyService := services.NewHierarchyService(db)
	encoder := services.NewLevelCodeEncoder(hierarchyService.Store())
	allocator := services.NewCounterAllocator(sequences)
	generator := services.NewHumanIDGenerator(encoder, allocator)

	tagService := services.NewTagService(db, redisCache)
	questionService := services.NewQuestionService(db, hierarchyService, generator, tagService)

	authHandler := auth_handlers.NewAuthHandler(db, jwtManager)
	hierarchyHandler := hierarchy_handlers.NewHierarchyHandler(db, hierarchyService)
	questionHandler := question_handlers.NewQuestionHandler(db, questionService)
	tagHandler := tag_handlers.NewTagHandler(db, tagService)

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000,http://localhost:3001"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return handlers.HandleCheckHealth(c, store)
	})

	api := app.Group("/api/v1")

	// Auth
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/me", authMiddleware.Required(), authHandler.Me)

	// Hierarchy
	hierarchyGroup := api.Group("/hierarchy")
	hierarchyGroup.Get("/", hierarchyHandler.ListNodes)
	hierarchyGroup.Get("/:id/resolve", hierarchyHandler.ResolveNode)
	hierarchyGroup.Post("/", authMiddleware.Required(), hierarchyHandler.CreateNode)
	hierarchyGroup.Put("/reorder", authMiddleware.Required(), hierarchyHandler.ReorderNodes)
	hierarchyGroup.Put("/:id", authMiddleware.Required(), hierarchyHandler.UpdateNode)
	hierarchyGroup.Delete("/:id", authMiddleware.Required(), hierarchyHandler.DeleteNode)
	hierarchyGroup.Post("/:id/recount", authMiddleware.Required(), hierarchyHandler.RecountNode)

	// Questions
	questionGroup := api.Group("/questions")
	questionGroup.Get("/", questionHandler.ListQuestions)
	questionGroup.Get("/:id", questionHandler.GetQuestion)
	questionGroup.Post("/", authMiddleware.Required(), questionHandler.CreateQuestion)
	questionGroup.Put("/:id", authMiddleware.Required(), questionHandler.UpdateQuestion)
	questionGroup.Delete("/:id", authMiddleware.Required(), questionHandler.DeleteQuestion)

	// Tags
	tagGroup := api.Group("/tags")
	tagGroup.Get("/", tagHandler.ListTags)
	tagGroup.Get("/suggestions", tagHandler.SuggestTags)
	tagGroup.Post("/", authMiddleware.Required(), tagHandler.UpsertTag)
	tagGroup.Post("/:id/deactivate", authMiddleware.Required(), tagHandler.DeactivateTag)
	tagGroup.Delete("/:id", authMiddleware.Required(), tagHandler.DeleteTag)
}
