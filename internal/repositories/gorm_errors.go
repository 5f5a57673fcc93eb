package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// translate maps gorm errors onto the repository sentinels.
// The DB must be opened with gorm.Config{TranslateError: true}.
func translate(err error, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", msg, ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", msg, ErrDuplicate)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%s: %w", msg, ErrInUse)
	default:
		return fmt.Errorf("%s: %w", msg, err)
	}
}
