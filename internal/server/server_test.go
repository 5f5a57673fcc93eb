package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog/internal/config"
	"catalog/internal/database"
	"catalog/internal/dto"
	"catalog/internal/server"
)

var testConfig = &config.Config{JWTSecret: "test_jwt_secret", TokenTTL: time.Hour}

func newMemoryApp(t *testing.T, authRequired bool) *fiber.App {
	t.Helper()
	svc := server.NewServices(server.MemoryRepositories(), nil, testConfig)
	return server.New(svc, server.Options{AuthRequired: authRequired})
}

func newSQLiteApp(t *testing.T) *fiber.App {
	t.Helper()
	db, err := database.OpenInMemory(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	svc := server.NewServices(server.GORMRepositories(db), nil, testConfig)
	return server.New(svc, server.Options{
		Ping: func(ctx context.Context) error { return database.Ping(ctx, db) },
	})
}

type client struct {
	t     *testing.T
	app   *fiber.App
	token string
}

func (c *client) do(method, path string, body any, out any) int {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(c.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestCatalogScenario(t *testing.T) {
	backends := map[string]func(t *testing.T) *fiber.App{
		"memory": func(t *testing.T) *fiber.App { return newMemoryApp(t, false) },
		"sqlite": newSQLiteApp,
	}
	for name, newApp := range backends {
		t.Run(name, func(t *testing.T) {
			c := &client{t: t, app: newApp(t)}

			var books, toys dto.CategoryResponse
			require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/categories", dto.CreateCategoryRequest{Name: "Books"}, &books))
			require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/categories", dto.CreateCategoryRequest{Name: "Toys"}, &toys))

			var ana dto.UserResponse
			require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/users",
				dto.CreateUserRequest{Name: "Ana", Email: "a@x.com", Password: "12345678"}, &ana))

			var novel dto.ProductResponse
			require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/products", dto.CreateProductRequest{
				Name: "Novel", Price: 9.99, Stock: 5, UserID: ana.ID, CategoryIDs: []uint{books.ID},
			}, &novel))
			assert.NotZero(t, novel.ID)

			var got dto.ProductResponse
			require.Equal(t, http.StatusOK, c.do(http.MethodGet, fmt.Sprintf("/products/%d", novel.ID), nil, &got))
			assert.Equal(t, "Ana", got.UserName)
			assert.Equal(t, "a@x.com", got.UserEmail)
			require.Len(t, got.Categories, 1)
			assert.Equal(t, "Books", got.Categories[0].Name)
			assert.Equal(t, 9.99, got.Price)
			_, err := time.Parse(time.RFC3339, got.CreatedAt)
			assert.NoError(t, err)

			var count dto.CategoryProductCount
			require.Equal(t, http.StatusOK, c.do(http.MethodGet, fmt.Sprintf("/categories/%d/products/count", toys.ID), nil, &count))
			assert.Equal(t, int64(0), count.Count)
			require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/categories/999/products/count", nil, &count))
			assert.Equal(t, int64(0), count.Count)
			assert.Equal(t, uint(999), count.CategoryID)

			var patched dto.ProductResponse
			require.Equal(t, http.StatusOK, c.do(http.MethodPatch, fmt.Sprintf("/products/%d", novel.ID),
				map[string]any{"stock": 3}, &patched))
			require.Equal(t, http.StatusOK, c.do(http.MethodGet, fmt.Sprintf("/products/%d", novel.ID), nil, &got))
			assert.Equal(t, 3, got.Stock)
			assert.Equal(t, "Novel", got.Name)
			assert.Equal(t, 9.99, got.Price)
			assert.Equal(t, []uint{books.ID}, got.CategoryIDs)

			var list []dto.ProductResponse
			require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/products?categoryName=Books", nil, &list))
			assert.Len(t, list, 1)
			require.Equal(t, http.StatusOK, c.do(http.MethodGet, fmt.Sprintf("/products?categoryId=%d&minPrice=10", books.ID), nil, &list))
			assert.Empty(t, list)

			var errBody map[string]any
			assert.Equal(t, http.StatusConflict, c.do(http.MethodPost, "/products", dto.CreateProductRequest{
				Name: "Novel", Price: 1, UserID: ana.ID, CategoryIDs: []uint{books.ID},
			}, &errBody))
			assert.Equal(t, http.StatusNotFound, c.do(http.MethodPost, "/products", dto.CreateProductRequest{
				Name: "Atlas", Price: 1, UserID: 77, CategoryIDs: []uint{books.ID},
			}, &errBody))
			assert.Equal(t, http.StatusConflict, c.do(http.MethodDelete, fmt.Sprintf("/users/%d", ana.ID), nil, &errBody))
			assert.Equal(t, http.StatusConflict, c.do(http.MethodDelete, fmt.Sprintf("/categories/%d", books.ID), nil, &errBody))

			var deleted dto.DeleteResponse
			require.Equal(t, http.StatusOK, c.do(http.MethodDelete, fmt.Sprintf("/products/%d", novel.ID), nil, &deleted))
			assert.Equal(t, fmt.Sprintf("Product with ID %d deleted successfully", novel.ID), deleted.Message)
			assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, fmt.Sprintf("/products/%d", novel.ID), nil, &errBody))
			assert.Equal(t, http.StatusOK, c.do(http.MethodDelete, fmt.Sprintf("/users/%d", ana.ID), nil, &deleted))
		})
	}
}

func TestValidationErrors(t *testing.T) {
	c := &client{t: t, app: newMemoryApp(t, false)}

	var body struct {
		Message string            `json:"message"`
		Errors  map[string]string `json:"errors"`
	}
	status := c.do(http.MethodPost, "/products", map[string]any{
		"name":        "ab",
		"price":       0,
		"userId":      1,
		"categoryIds": []uint{},
	}, &body)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Validation failed", body.Message)
	assert.Contains(t, body.Errors, "name")
	assert.Contains(t, body.Errors, "price")
	assert.Contains(t, body.Errors, "categoryIds")

	status = c.do(http.MethodPatch, "/products/1", map[string]any{"categoryIds": []uint{}}, &body)
	assert.Equal(t, http.StatusBadRequest, status, "an empty category list is not 'keep current'")

	var errBody map[string]any
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodGet, "/products/abc", nil, &errBody))
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodGet, "/products/0", nil, &errBody))
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodGet, "/products?ownerId=x", nil, &errBody))
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodGet, "/products?minPrice=5", nil, &errBody))
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/nowhere", nil, &errBody))
	assert.Equal(t, "Not Found", errBody["error"])
}

func TestAuthRequired(t *testing.T) {
	c := &client{t: t, app: newMemoryApp(t, true)}

	var errBody map[string]any
	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodPost, "/categories", dto.CreateCategoryRequest{Name: "Books"}, &errBody))

	var registered map[string]any
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/auth/register",
		dto.CreateUserRequest{Name: "Ana", Email: "a@x.com", Password: "12345678"}, &registered))
	assert.Equal(t, "User registered successfully", registered["message"])

	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodPost, "/auth/login",
		dto.LoginRequest{Email: "a@x.com", Password: "wrong-password"}, &errBody))

	var login dto.LoginResponse
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/auth/login",
		dto.LoginRequest{Email: "a@x.com", Password: "12345678"}, &login))
	require.NotEmpty(t, login.Token)

	c.token = login.Token
	var books dto.CategoryResponse
	assert.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/categories", dto.CreateCategoryRequest{Name: "Books"}, &books))

	c.token = ""
	var all []dto.CategoryResponse
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/categories", nil, &all), "reads stay public")
	assert.Len(t, all, 1)
}

func TestLoginWithoutSecret(t *testing.T) {
	svc := server.NewServices(server.MemoryRepositories(), nil, &config.Config{TokenTTL: time.Hour})
	c := &client{t: t, app: server.New(svc, server.Options{})}

	var registered map[string]any
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/auth/register",
		dto.CreateUserRequest{Name: "Ana", Email: "a@x.com", Password: "12345678"}, &registered))

	var errBody map[string]any
	assert.Equal(t, http.StatusServiceUnavailable, c.do(http.MethodPost, "/auth/login",
		dto.LoginRequest{Email: "a@x.com", Password: "12345678"}, &errBody))
	assert.NotContains(t, errBody, "token")
}

func TestPricesMustFitTheColumn(t *testing.T) {
	c := &client{t: t, app: newSQLiteApp(t)}

	var ana dto.UserResponse
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/users",
		dto.CreateUserRequest{Name: "Ana", Email: "a@x.com", Password: "12345678"}, &ana))
	var books dto.CategoryResponse
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/categories",
		dto.CreateCategoryRequest{Name: "Books"}, &books))

	for _, price := range []float64{0.001, 9.999, 1e11} {
		var errBody map[string]any
		status := c.do(http.MethodPost, "/products", dto.CreateProductRequest{
			Name: "Novel", Price: price, UserID: ana.ID, CategoryIDs: []uint{books.ID},
		}, &errBody)
		assert.Equal(t, http.StatusBadRequest, status, "price %v", price)
	}

	var all []dto.ProductResponse
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/products", nil, &all))
	assert.Empty(t, all)

	var novel dto.ProductResponse
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/products", dto.CreateProductRequest{
		Name: "Novel", Price: 19.99, UserID: ana.ID, CategoryIDs: []uint{books.ID},
	}, &novel))
	var got dto.ProductResponse
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, fmt.Sprintf("/products/%d", novel.ID), nil, &got))
	assert.Equal(t, 19.99, got.Price)
}

func TestHealth(t *testing.T) {
	var body map[string]string

	c := &client{t: t, app: newSQLiteApp(t)}
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/health", nil, &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "connected", body["database"])

	failing := server.New(server.NewServices(server.MemoryRepositories(), nil, testConfig), server.Options{
		Ping: func(context.Context) error { return fmt.Errorf("connection refused") },
	})
	c = &client{t: t, app: failing}
	require.Equal(t, http.StatusServiceUnavailable, c.do(http.MethodGet, "/health", nil, &body))
	assert.Equal(t, "unavailable", body["database"])
}
