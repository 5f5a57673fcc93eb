// Package server wires repositories, services and handlers into a Fiber app.
package server

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"catalog/internal/config"
	"catalog/internal/domain"
	"catalog/internal/handlers"
	"catalog/internal/middleware"
	"catalog/internal/repositories"
	"catalog/internal/services"
)

// Repositories bundles one implementation of every repository.
type Repositories struct {
	Users      repositories.UserRepository
	Categories repositories.CategoryRepository
	Products   repositories.ProductRepository
}

// MemoryRepositories returns fresh in-memory repositories.
func MemoryRepositories() Repositories {
	users := repositories.NewMemoryUserRepository()
	categories := repositories.NewMemoryCategoryRepository()
	return Repositories{
		Users:      users,
		Categories: categories,
		Products:   repositories.NewMemoryProductRepository(users, categories),
	}
}

// GORMRepositories returns repositories backed by db.
func GORMRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Users:      repositories.NewGORMUserRepository(db),
		Categories: repositories.NewGORMCategoryRepository(db),
		Products:   repositories.NewGORMProductRepository(db),
	}
}

// Services bundles the application services behind the HTTP surface.
type Services struct {
	Users      *services.UserService
	Categories *services.CategoryService
	Products   *services.ProductService
	Auth       *services.AuthService
}

// NewServices builds every service over repos.
func NewServices(repos Repositories, notifier *services.Notifier, cfg *config.Config) Services {
	return Services{
		Users:      services.NewUserService(repos.Users, repos.Products, notifier),
		Categories: services.NewCategoryService(repos.Categories, repos.Products, notifier),
		Products:   services.NewProductService(repos.Products, repos.Users, repos.Categories, notifier),
		Auth:       services.NewAuthService(repos.Users, cfg.JWTSecret, cfg.TokenTTL),
	}
}

// Options tune the app.
type Options struct {
	AuthRequired bool
	Logger       *zap.Logger
	// Ping reports database health; nil means there is no database.
	Ping func(ctx context.Context) error
}

// New creates the Fiber app with every route mounted at the root.
func New(svc Services, opts Options) *fiber.App {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		AppName:      "catalog",
		ErrorHandler: errorHandler,
	})
	app.Use(recover.New())
	app.Use(middleware.RequestLogger(log))

	guard := middleware.Skip
	if opts.AuthRequired {
		guard = middleware.AuthRequired(svc.Auth)
	}

	handlers.NewAuthHandler(svc.Auth, svc.Users).RegisterRoutes(app)
	handlers.NewProductHandler(svc.Products).RegisterRoutes(app, guard)
	handlers.NewUserHandler(svc.Users).RegisterRoutes(app, guard)
	handlers.NewCategoryHandler(svc.Categories).RegisterRoutes(app, guard)

	app.Get("/health", func(c *fiber.Ctx) error {
		database := "none"
		status := fiber.StatusOK
		if opts.Ping != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			database = "connected"
			if err := opts.Ping(ctx); err != nil {
				log.Warn("database health check failed", zap.Error(err))
				database = "unavailable"
				status = fiber.StatusServiceUnavailable
			}
		}
		health := "healthy"
		if status != fiber.StatusOK {
			health = "degraded"
		}
		return c.Status(status).JSON(fiber.Map{
			"status":   health,
			"time":     domain.FormatTimestamp(time.Now()),
			"database": database,
		})
	})

	return app
}

// errorHandler renders errors no handler answered, such as unknown routes,
// in the same shape as handler errors.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"message": err.Error(),
		"error":   utils.StatusMessage(code),
	})
}
