package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"catalog/internal/dto"
	"catalog/internal/services"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	userService *services.UserService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, userService *services.UserService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
		validate:    newValidator(),
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
}

// HandleRegister creates a user without requiring a token.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}
	user, err := h.userService.CreateUser(c.UserContext(), req)
	if err != nil {
		return writeError(c, "register user", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user":    user,
	})
}

// HandleLogin checks email and password and issues a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}
	resp, err := h.authService.Login(c.UserContext(), req)
	if err != nil {
		return writeError(c, "log in", err)
	}
	return c.JSON(resp)
}
