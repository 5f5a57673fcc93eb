package handlers

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"catalog/internal/dto"
	"catalog/internal/services"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: newValidator(),
	}
}

// RegisterRoutes registers the product routes. guard runs before every
// mutating route.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, guard fiber.Handler) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", guard, h.HandleCreateProduct)
	productRoutes.Put("/:id", guard, h.HandleUpdateProduct)
	productRoutes.Patch("/:id", guard, h.HandlePatchProduct)
	productRoutes.Delete("/:id", guard, h.HandleDeleteProduct)
}

// HandleGetProducts lists products, optionally filtered by
// ownerId, ownerName, categoryId (with minPrice) or categoryName.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	filter, err := parseProductFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid filter",
			"error":   err.Error(),
		})
	}
	products, err := h.service.ListProducts(c.UserContext(), filter)
	if err != nil {
		return writeError(c, "retrieve products", err)
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, ok, err := parseID(c)
	if !ok {
		return err
	}
	product, err := h.service.GetProduct(c.UserContext(), id)
	if err != nil {
		return writeError(c, "retrieve product", err)
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req dto.CreateProductRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}
	product, err := h.service.CreateProduct(c.UserContext(), req)
	if err != nil {
		return writeError(c, "create product", err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct replaces an existing product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, ok, err := parseID(c)
	if !ok {
		return err
	}
	var req dto.UpdateProductRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}
	product, err := h.service.UpdateProduct(c.UserContext(), id, req)
	if err != nil {
		return writeError(c, "update product", err)
	}
	return c.JSON(product)
}

// HandlePatchProduct updates the supplied fields of a product.
func (h *ProductHandler) HandlePatchProduct(c *fiber.Ctx) error {
	id, ok, err := parseID(c)
	if !ok {
		return err
	}
	var req dto.PartialUpdateProductRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}
	product, err := h.service.PatchProduct(c.UserContext(), id, req)
	if err != nil {
		return writeError(c, "update product", err)
	}
	return c.JSON(product)
}

// HandleDeleteProduct deletes a product by its ID.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, ok, err := parseID(c)
	if !ok {
		return err
	}
	resp, err := h.service.DeleteProduct(c.UserContext(), id)
	if err != nil {
		return writeError(c, "delete product", err)
	}
	return c.JSON(resp)
}

func parseProductFilter(c *fiber.Ctx) (dto.ProductFilter, error) {
	var filter dto.ProductFilter
	if v := c.Query("ownerId"); v != "" {
		id, err := strconv.ParseUint(v, 10, 0)
		if err != nil || id == 0 {
			return filter, fiber.NewError(fiber.StatusBadRequest, "ownerId must be a positive integer")
		}
		filter.OwnerID = uint(id)
	}
	if v := c.Query("categoryId"); v != "" {
		id, err := strconv.ParseUint(v, 10, 0)
		if err != nil || id == 0 {
			return filter, fiber.NewError(fiber.StatusBadRequest, "categoryId must be a positive integer")
		}
		filter.CategoryID = uint(id)
	}
	if v := c.Query("minPrice"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return filter, fiber.NewError(fiber.StatusBadRequest, "minPrice must be a number")
		}
		filter.MinPrice = &price
	}
	filter.OwnerName = c.Query("ownerName")
	filter.CategoryName = c.Query("categoryName")
	return filter, nil
}
