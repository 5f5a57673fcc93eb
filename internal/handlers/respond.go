package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"

	"catalog/internal/domain"
	"catalog/internal/services"
)

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// bind parses the JSON body into dst and checks its validate tags. On
// failure the 400 response has already been written and ok is false.
func bind(c *fiber.Ctx, v *validator.Validate, dst any) (ok bool, err error) {
	if err := c.BodyParser(dst); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := v.Struct(dst); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return false, err
		}
		errorMessages := make(map[string]string, len(validationErrors))
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}
	return true, nil
}

// parseID reads the :id path parameter. On failure the 400 response has
// already been written and ok is false.
func parseID(c *fiber.Ctx) (id uint, ok bool, err error) {
	n, perr := c.ParamsInt("id")
	if perr != nil || n <= 0 {
		return 0, false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid ID",
			"error":   fmt.Sprintf("'%s' is not a positive integer", c.Params("id")),
		})
	}
	return uint(n), true, nil
}

// writeError maps service errors onto status codes.
func writeError(c *fiber.Ctx, action string, err error) error {
	var (
		validationErr *domain.ValidationError
		notFoundErr   *domain.NotFoundError
		conflictErr   *domain.ConflictError
		stockErr      *domain.InsufficientStockError
	)

	status := fiber.StatusInternalServerError
	switch {
	case errors.As(err, &validationErr), errors.As(err, &stockErr):
		status = fiber.StatusBadRequest
	case errors.As(err, &notFoundErr):
		status = fiber.StatusNotFound
	case errors.As(err, &conflictErr):
		status = fiber.StatusConflict
	case errors.Is(err, services.ErrInvalidCredentials):
		status = fiber.StatusUnauthorized
	case errors.Is(err, services.ErrNoSigningKey):
		status = fiber.StatusServiceUnavailable
	}

	log := zap.L().With(zap.String("action", action), zap.String("path", c.Path()), zap.Error(err))
	if status >= fiber.StatusInternalServerError {
		log.Error("request failed")
		return c.Status(status).JSON(fiber.Map{
			"message": "Could not " + action,
			"error":   err.Error(),
		})
	}
	log.Debug("request rejected", zap.Int("status", status))
	return c.Status(status).JSON(fiber.Map{
		"message": err.Error(),
		"error":   utils.StatusMessage(status),
	})
}
