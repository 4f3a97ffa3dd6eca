package repository

import (
	"errors"
	"fmt"

	"github.com/lshigami/nexera-quiz/internal/apperr"
	"gorm.io/gorm"
)

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, apperr.ErrNotFound)
	}
	return err
}
