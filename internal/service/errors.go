package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/shipstore/lma-finance/internal/permission"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidInput     = errors.New("invalid input")
	ErrSaveFailed       = errors.New("failed to save")
	// ErrNoAccess ends the session: the client signs the user out.
	ErrNoAccess = permission.ErrNoAccess
)

func saveFailed(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %v", ErrSaveFailed, err)
}

func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
