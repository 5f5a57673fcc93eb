package repositories

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"catalog/internal/models"
)

// MemoryUserRepository is an in-memory implementation of UserRepository.
// It enforces the same unique email index as the SQL schema.
type MemoryUserRepository struct {
	users  map[uint]models.User
	nextID uint
	mu     sync.RWMutex
}

// NewMemoryUserRepository creates a new instance of MemoryUserRepository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users:  make(map[uint]models.User),
		nextID: 1,
	}
}

// FindAll returns all users ordered by ID.
func (r *MemoryUserRepository) FindAll(_ context.Context) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	userList := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		userList = append(userList, u)
	}
	slices.SortFunc(userList, func(a, b models.User) int { return int(a.ID) - int(b.ID) })
	return userList, nil
}

// FindByID returns a user by its ID.
func (r *MemoryUserRepository) FindByID(_ context.Context, id uint) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user with ID %d: %w", id, ErrNotFound)
	}
	return &user, nil
}

// FindByIDs returns the users with the given IDs, skipping unknown ones.
func (r *MemoryUserRepository) FindByIDs(_ context.Context, ids []uint) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var found []models.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			found = append(found, u)
		}
	}
	return found, nil
}

// FindByEmail returns the user with exactly this email.
func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user with email %s: %w", email, ErrNotFound)
}

// Save inserts or updates a user.
func (r *MemoryUserRepository) Save(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, u := range r.users {
		if id != user.ID && u.Email == user.Email {
			return fmt.Errorf("failed to save user: email %s: %w", user.Email, ErrDuplicate)
		}
	}
	if user.ID == 0 {
		user.ID = r.nextID
		r.nextID++
		if user.CreatedAt.IsZero() {
			user.CreatedAt = time.Now()
		}
	} else if _, ok := r.users[user.ID]; !ok {
		return fmt.Errorf("user with ID %d not found for update: %w", user.ID, ErrNotFound)
	}
	r.users[user.ID] = *user
	return nil
}

// Delete removes a user.
func (r *MemoryUserRepository) Delete(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return fmt.Errorf("user with ID %d not found for deletion: %w", user.ID, ErrNotFound)
	}
	delete(r.users, user.ID)
	return nil
}

func (r *MemoryUserRepository) name(id uint) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	return u.Name, ok
}
