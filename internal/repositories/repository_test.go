package repositories_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog/internal/database"
	"catalog/internal/models"
	"catalog/internal/repositories"
)

type repoSet struct {
	users      repositories.UserRepository
	categories repositories.CategoryRepository
	products   repositories.ProductRepository
}

// backends returns every repository implementation so the same behaviour is
// checked against sqlite and the in-memory maps.
func backends(t *testing.T) map[string]func(t *testing.T) repoSet {
	t.Helper()
	return map[string]func(t *testing.T) repoSet{
		"sqlite": func(t *testing.T) repoSet {
			db, err := database.OpenInMemory(context.Background())
			require.NoError(t, err)
			t.Cleanup(func() { _ = database.Close(db) })
			return repoSet{
				users:      repositories.NewGORMUserRepository(db),
				categories: repositories.NewGORMCategoryRepository(db),
				products:   repositories.NewGORMProductRepository(db),
			}
		},
		"memory": func(t *testing.T) repoSet {
			users := repositories.NewMemoryUserRepository()
			categories := repositories.NewMemoryCategoryRepository()
			return repoSet{
				users:      users,
				categories: categories,
				products:   repositories.NewMemoryProductRepository(users, categories),
			}
		},
	}
}

type fixture struct {
	ana, bea      models.User
	books, toys   models.Category
	novel, puzzle models.Product
}

func seed(t *testing.T, r repoSet) fixture {
	t.Helper()
	ctx := context.Background()
	f := fixture{
		ana:   models.User{Name: "Ana", Email: "a@x.com", Password: "12345678"},
		bea:   models.User{Name: "Bea", Email: "b@x.com", Password: "12345678"},
		books: models.Category{Name: "Books"},
		toys:  models.Category{Name: "Toys"},
	}
	require.NoError(t, r.users.Save(ctx, &f.ana))
	require.NoError(t, r.users.Save(ctx, &f.bea))
	require.NoError(t, r.categories.Save(ctx, &f.books))
	require.NoError(t, r.categories.Save(ctx, &f.toys))

	f.novel = models.Product{
		Name:        "Novel",
		Price:       decimal.RequireFromString("9.99"),
		Stock:       5,
		UserID:      f.ana.ID,
		CategoryIDs: []uint{f.books.ID},
	}
	f.puzzle = models.Product{
		Name:        "Puzzle",
		Price:       decimal.RequireFromString("25.00"),
		UserID:      f.bea.ID,
		CategoryIDs: []uint{f.toys.ID, f.books.ID},
	}
	require.NoError(t, r.products.Save(ctx, &f.novel))
	require.NoError(t, r.products.Save(ctx, &f.puzzle))
	return f
}

func names(products []models.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Name)
	}
	return out
}

func TestProductRepository_Queries(t *testing.T) {
	for backend, open := range backends(t) {
		t.Run(backend, func(t *testing.T) {
			ctx := context.Background()
			r := open(t)
			f := seed(t, r)

			assert.NotZero(t, f.novel.ID)

			got, err := r.products.FindByID(ctx, f.puzzle.ID)
			require.NoError(t, err)
			assert.Equal(t, []uint{f.toys.ID, f.books.ID}, got.CategoryIDs, "category order is preserved")
			assert.True(t, decimal.RequireFromString("25").Equal(got.Price))

			all, err := r.products.FindAll(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"Novel", "Puzzle"}, names(all))

			byName, err := r.products.FindByName(ctx, "Novel")
			require.NoError(t, err)
			assert.Equal(t, f.novel.ID, byName.ID)

			_, err = r.products.FindByName(ctx, "novel")
			assert.ErrorIs(t, err, repositories.ErrNotFound, "names match case-sensitively")

			byOwner, err := r.products.FindByOwnerID(ctx, f.bea.ID)
			require.NoError(t, err)
			assert.Equal(t, []string{"Puzzle"}, names(byOwner))

			byOwnerName, err := r.products.FindByOwnerName(ctx, "Ana")
			require.NoError(t, err)
			assert.Equal(t, []string{"Novel"}, names(byOwnerName))

			byCategory, err := r.products.FindByCategoryID(ctx, f.books.ID)
			require.NoError(t, err)
			assert.Equal(t, []string{"Novel", "Puzzle"}, names(byCategory))

			byCategoryName, err := r.products.FindByCategoryName(ctx, "Toys")
			require.NoError(t, err)
			assert.Equal(t, []string{"Puzzle"}, names(byCategoryName))

			pricey, err := r.products.FindByCategoryIDAndPriceGreaterThan(ctx, f.books.ID, 9.99)
			require.NoError(t, err)
			assert.Equal(t, []string{"Puzzle"}, names(pricey), "price filter is strict")

			count, err := r.products.CountByCategoryID(ctx, f.books.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(2), count)

			count, err = r.products.CountByCategoryID(ctx, 999)
			require.NoError(t, err)
			assert.Zero(t, count)

			count, err = r.products.CountByOwnerID(ctx, f.ana.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(1), count)
		})
	}
}

func TestProductRepository_SaveReplacesCategories(t *testing.T) {
	for backend, open := range backends(t) {
		t.Run(backend, func(t *testing.T) {
			ctx := context.Background()
			r := open(t)
			f := seed(t, r)

			f.puzzle.CategoryIDs = []uint{f.books.ID}
			f.puzzle.Stock = 3
			require.NoError(t, r.products.Save(ctx, &f.puzzle))

			got, err := r.products.FindByID(ctx, f.puzzle.ID)
			require.NoError(t, err)
			assert.Equal(t, []uint{f.books.ID}, got.CategoryIDs)
			assert.Equal(t, 3, got.Stock)

			count, err := r.products.CountByCategoryID(ctx, f.toys.ID)
			require.NoError(t, err)
			assert.Zero(t, count)
		})
	}
}

func TestProductRepository_UniqueName(t *testing.T) {
	for backend, open := range backends(t) {
		t.Run(backend, func(t *testing.T) {
			ctx := context.Background()
			r := open(t)
			f := seed(t, r)

			dup := models.Product{
				Name:        "Novel",
				Price:       decimal.NewFromInt(1),
				UserID:      f.ana.ID,
				CategoryIDs: []uint{f.books.ID},
			}
			assert.ErrorIs(t, r.products.Save(ctx, &dup), repositories.ErrDuplicate)

			all, err := r.products.FindAll(ctx)
			require.NoError(t, err)
			assert.Len(t, all, 2)
		})
	}
}

func TestProductRepository_Delete(t *testing.T) {
	for backend, open := range backends(t) {
		t.Run(backend, func(t *testing.T) {
			ctx := context.Background()
			r := open(t)
			f := seed(t, r)

			require.NoError(t, r.products.Delete(ctx, &f.puzzle))

			_, err := r.products.FindByID(ctx, f.puzzle.ID)
			assert.ErrorIs(t, err, repositories.ErrNotFound)
			assert.ErrorIs(t, r.products.Delete(ctx, &f.puzzle), repositories.ErrNotFound)

			count, err := r.products.CountByCategoryID(ctx, f.toys.ID)
			require.NoError(t, err)
			assert.Zero(t, count)
		})
	}
}

func TestUserRepository(t *testing.T) {
	for backend, open := range backends(t) {
		t.Run(backend, func(t *testing.T) {
			ctx := context.Background()
			r := open(t)
			f := seed(t, r)

			got, err := r.users.FindByEmail(ctx, "b@x.com")
			require.NoError(t, err)
			assert.Equal(t, f.bea.ID, got.ID)

			_, err = r.users.FindByEmail(ctx, "nobody@x.com")
			assert.ErrorIs(t, err, repositories.ErrNotFound)

			dup := models.User{Name: "Ann", Email: "a@x.com", Password: "12345678"}
			assert.ErrorIs(t, r.users.Save(ctx, &dup), repositories.ErrDuplicate)

			found, err := r.users.FindByIDs(ctx, []uint{f.ana.ID, 999})
			require.NoError(t, err)
			require.Len(t, found, 1)
			assert.Equal(t, "Ana", found[0].Name)

			f.ana.Name = "Ana Maria"
			require.NoError(t, r.users.Save(ctx, &f.ana))
			got, err = r.users.FindByID(ctx, f.ana.ID)
			require.NoError(t, err)
			assert.Equal(t, "Ana Maria", got.Name)
		})
	}
}

func TestCategoryRepository(t *testing.T) {
	for backend, open := range backends(t) {
		t.Run(backend, func(t *testing.T) {
			ctx := context.Background()
			r := open(t)
			f := seed(t, r)

			exists, err := r.categories.ExistsByName(ctx, "Toys")
			require.NoError(t, err)
			assert.True(t, exists)

			exists, err = r.categories.ExistsByName(ctx, "toys")
			require.NoError(t, err)
			assert.False(t, exists)

			got, err := r.categories.FindByName(ctx, "Books")
			require.NoError(t, err)
			assert.Equal(t, f.books.ID, got.ID)

			found, err := r.categories.FindByIDs(ctx, []uint{f.toys.ID, f.books.ID})
			require.NoError(t, err)
			assert.Len(t, found, 2)

			dup := models.Category{Name: "Books"}
			assert.ErrorIs(t, r.categories.Save(ctx, &dup), repositories.ErrDuplicate)

			all, err := r.categories.FindAll(ctx)
			require.NoError(t, err)
			assert.Len(t, all, 2)
		})
	}
}

func TestGORMRepositories_ForeignKeysRestrictDeletes(t *testing.T) {
	ctx := context.Background()
	db, err := database.OpenInMemory(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	r := repoSet{
		users:      repositories.NewGORMUserRepository(db),
		categories: repositories.NewGORMCategoryRepository(db),
		products:   repositories.NewGORMProductRepository(db),
	}
	f := seed(t, r)

	assert.ErrorIs(t, r.users.Delete(ctx, &f.ana), repositories.ErrInUse)
	assert.ErrorIs(t, r.categories.Delete(ctx, &f.toys), repositories.ErrInUse)

	orphan := models.Product{
		Name:        "Orphan",
		Price:       decimal.NewFromInt(1),
		UserID:      f.ana.ID,
		CategoryIDs: []uint{999},
	}
	assert.ErrorIs(t, r.products.Save(ctx, &orphan), repositories.ErrInUse)
	_, err = r.products.FindByName(ctx, "Orphan")
	assert.ErrorIs(t, err, repositories.ErrNotFound, "failed save leaves no product row")
}
