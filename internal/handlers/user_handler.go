package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"catalog/internal/dto"
	"catalog/internal/services"
)

// UserHandler handles HTTP requests for users.
type UserHandler struct {
	service  *services.UserService
	validate *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{
		service:  service,
		validate: newValidator(),
	}
}

// RegisterRoutes registers the user routes. guard runs before every
// mutating route.
func (h *UserHandler) RegisterRoutes(router fiber.Router, guard fiber.Handler) {
	userRoutes := router.Group("/users")
	userRoutes.Get("/", h.HandleGetUsers)
	userRoutes.Get("/:id", h.HandleGetUserByID)
	userRoutes.Post("/", guard, h.HandleCreateUser)
	userRoutes.Put("/:id", guard, h.HandleUpdateUser)
	userRoutes.Patch("/:id", guard, h.HandlePatchUser)
	userRoutes.Delete("/:id", guard, h.HandleDeleteUser)
}

func (h *UserHandler) HandleGetUsers(c *fiber.Ctx) error {
	users, err := h.service.GetAllUsers(c.UserContext())
	if err != nil {
		return writeError(c, "retrieve users", err)
	}
	return c.JSON(users)
}

func (h *UserHandler) HandleGetUserByID(c *fiber.Ctx) error {
	id, ok, err := parseID(c)
	if !ok {
		return err
	}
	user, err := h.service.GetUser(c.UserContext(), id)
	if err != nil {
		return writeError(c, "retrieve user", err)
	}
	return c.JSON(user)
}

func (h *UserHandler) HandleCreateUser(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}
	user, err := h.service.CreateUser(c.UserContext(), req)
	if err != nil {
		return writeError(c, "create user", err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

func (h *UserHandler) HandleUpdateUser(c *fiber.Ctx) error {
	id, ok, err := parseID(c)
	if !ok {
		return err
	}
	var req dto.UpdateUserRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}
	user, err := h.service.UpdateUser(c.UserContext(), id, req)
	if err != nil {
		return writeError(c, "update user", err)
	}
	return c.JSON(user)
}

func (h *UserHandler) HandlePatchUser(c *fiber.Ctx) error {
	id, ok, err := parseID(c)
	if !ok {
		return err
	}
	var req dto.PartialUpdateUserRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}
	user, err := h.service.PatchUser(c.UserContext(), id, req)
	if err != nil {
		return writeError(c, "update user", err)
	}
	return c.JSON(user)
}

func (h *UserHandler) HandleDeleteUser(c *fiber.Ctx) error {
	id, ok, err := parseID(c)
	if !ok {
		return err
	}
	resp, err := h.service.DeleteUser(c.UserContext(), id)
	if err != nil {
		return writeError(c, "delete user", err)
	}
	return c.JSON(resp)
}
