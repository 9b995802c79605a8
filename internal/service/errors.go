package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/gestao-erp/erp-service/internal/workflow"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrConflict          = errors.New("conflict")
)

// translate maps storage and workflow errors onto the service error set.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, workflow.ErrUnknownStatus):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	case errors.Is(err, workflow.ErrNotAllowed):
		return fmt.Errorf("%w: %v", ErrInvalidTransition, err)
	default:
		return err
	}
}
