package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"catalog/internal/dto"
	"catalog/internal/services"
)

// CategoryHandler handles HTTP requests for categories.
type CategoryHandler struct {
	service  *services.CategoryService
	validate *validator.Validate
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(service *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		service:  service,
		validate: newValidator(),
	}
}

// RegisterRoutes registers the category routes. guard runs before every
// mutating route.
func (h *CategoryHandler) RegisterRoutes(router fiber.Router, guard fiber.Handler) {
	categoryRoutes := router.Group("/categories")
	categoryRoutes.Get("/", h.HandleGetCategories)
	categoryRoutes.Get("/:id", h.HandleGetCategoryByID)
	categoryRoutes.Get("/:id/products/count", h.HandleCountProducts)
	categoryRoutes.Post("/", guard, h.HandleCreateCategory)
	categoryRoutes.Put("/:id", guard, h.HandleUpdateCategory)
	categoryRoutes.Patch("/:id", guard, h.HandlePatchCategory)
	categoryRoutes.Delete("/:id", guard, h.HandleDeleteCategory)
}

func (h *CategoryHandler) HandleGetCategories(c *fiber.Ctx) error {
	categories, err := h.service.GetAllCategories(c.UserContext())
	if err != nil {
		return writeError(c, "retrieve categories", err)
	}
	return c.JSON(categories)
}

func (h *CategoryHandler) HandleGetCategoryByID(c *fiber.Ctx) error {
	id, ok, err := parseID(c)
	if !ok {
		return err
	}
	category, err := h.service.GetCategory(c.UserContext(), id)
	if err != nil {
		return writeError(c, "retrieve category", err)
	}
	return c.JSON(category)
}

// HandleCountProducts reports how many products belong to a category.
// Unknown categories report zero.
func (h *CategoryHandler) HandleCountProducts(c *fiber.Ctx) error {
	id, ok, err := parseID(c)
	if !ok {
		return err
	}
	count, err := h.service.CountProducts(c.UserContext(), id)
	if err != nil {
		return writeError(c, "count products", err)
	}
	return c.JSON(count)
}

func (h *CategoryHandler) HandleCreateCategory(c *fiber.Ctx) error {
	var req dto.CreateCategoryRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}
	category, err := h.service.CreateCategory(c.UserContext(), req)
	if err != nil {
		return writeError(c, "create category", err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

func (h *CategoryHandler) HandleUpdateCategory(c *fiber.Ctx) error {
	id, ok, err := parseID(c)
	if !ok {
		return err
	}
	var req dto.UpdateCategoryRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}
	category, err := h.service.UpdateCategory(c.UserContext(), id, req)
	if err != nil {
		return writeError(c, "update category", err)
	}
	return c.JSON(category)
}

func (h *CategoryHandler) HandlePatchCategory(c *fiber.Ctx) error {
	id, ok, err := parseID(c)
	if !ok {
		return err
	}
	var req dto.PartialUpdateCategoryRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}
	category, err := h.service.PatchCategory(c.UserContext(), id, req)
	if err != nil {
		return writeError(c, "update category", err)
	}
	return c.JSON(category)
}

func (h *CategoryHandler) HandleDeleteCategory(c *fiber.Ctx) error {
	id, ok, err := parseID(c)
	if !ok {
		return err
	}
	resp, err := h.service.DeleteCategory(c.UserContext(), id)
	if err != nil {
		return writeError(c, "delete category", err)
	}
	return c.JSON(resp)
}
