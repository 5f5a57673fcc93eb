// Package domain holds the validated in-memory records of the catalog and the
// errors its services report. Records convert to and from the persisted rows in
// internal/models and to the response shapes in internal/dto.
package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"catalog/internal/dto"
	"catalog/internal/models"
)

// TimestampLayout is the ISO-8601 layout used for every timestamp in a response.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatTimestamp renders t in UTC using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// User is a validated store user.
type User struct {
	ID        uint
	Name      string
	Email     string
	Password  string
	CreatedAt time.Time
}

// NewUser builds a user and checks its business rules.
func NewUser(id uint, name, email, password string, createdAt time.Time) (*User, error) {
	if err := validateUser(name, email, password); err != nil {
		return nil, err
	}
	return &User{
		ID:        id,
		Name:      name,
		Email:     email,
		Password:  password,
		CreatedAt: createdAt,
	}, nil
}

func validateUser(name, email, password string) error {
	if utf8.RuneCountInString(strings.TrimSpace(name)) < 3 || utf8.RuneCountInString(name) > 150 {
		return invalid("name", "must be between 3 and 150 characters")
	}
	if !strings.Contains(email, "@") {
		return invalid("email", "must be a valid email address")
	}
	if utf8.RuneCountInString(email) > 150 {
		return invalid("email", "must be at most 150 characters")
	}
	if utf8.RuneCountInString(password) < 8 {
		return invalid("password", "must be at least 8 characters")
	}
	return nil
}

// UserFromCreateRequest builds a new, not yet persisted user.
func UserFromCreateRequest(req dto.CreateUserRequest) (*User, error) {
	return NewUser(0, req.Name, req.Email, req.Password, time.Now())
}

// UserFromEntity rehydrates a user from its stored row.
func UserFromEntity(e models.User) (*User, error) {
	return NewUser(e.ID, e.Name, e.Email, e.Password, e.CreatedAt)
}

// ToEntity returns the row to store. A zero ID makes the store assign one.
func (u *User) ToEntity() models.User {
	return models.User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Password:  u.Password,
		CreatedAt: u.CreatedAt,
	}
}

// ToResponse returns the API view of the user.
func (u *User) ToResponse() dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: FormatTimestamp(u.CreatedAt),
	}
}

// ToSummary returns the owner block nested in product responses.
func (u *User) ToSummary() *dto.UserSummary {
	return &dto.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

// ApplyUpdate replaces every mutable field. On error the user is left untouched.
func (u *User) ApplyUpdate(req dto.UpdateUserRequest) error {
	if err := validateUser(req.Name, req.Email, req.Password); err != nil {
		return err
	}
	u.Name = req.Name
	u.Email = req.Email
	u.Password = req.Password
	return nil
}

// ApplyPartialUpdate replaces the fields present in req and re-validates the result.
func (u *User) ApplyPartialUpdate(req dto.PartialUpdateUserRequest) error {
	name, email, password := u.Name, u.Email, u.Password
	if req.Name != nil {
		name = *req.Name
	}
	if req.Email != nil {
		email = *req.Email
	}
	if req.Password != nil {
		password = *req.Password
	}
	if err := validateUser(name, email, password); err != nil {
		return err
	}
	u.Name, u.Email, u.Password = name, email, password
	return nil
}
