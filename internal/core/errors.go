package core

import (
	"errors"
	"fmt"
	"strings"

	"stampflow-backend-go/internal/models"
)

// Sentinel errors for the service layer. Handlers map these to HTTP status
// codes with errors.Is / errors.As; no free-text matching.
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrStampNotFound       = errors.New("stamp not found")
	ErrPresetNotFound      = errors.New("preset not found")
	ErrForbidden           = errors.New("caller does not own this stamp")
	ErrInsufficientBalance = errors.New("insufficient token balance")
	ErrInvalidSignature    = errors.New("webhook signature verification failed")
	ErrUnknownTokenPackage = errors.New("unknown token package")
	ErrSessionExpired      = errors.New("marketplace session expired")
	ErrNotConfigured       = errors.New("required dependency is not configured")
)

// InvalidStatusError reports a stamp transition attempted from a status
// outside the trigger's allowed set. The offending status is carried so the
// message can surface it to the caller.
type InvalidStatusError struct {
	Current models.StampStatus
	Allowed []models.StampStatus
}

func (e *InvalidStatusError) Error() string {
	allowed := make([]string, len(e.Allowed))
	for i, s := range e.Allowed {
		allowed[i] = string(s)
	}
	return fmt.Sprintf("invalid stamp status '%s', expected one of [%s]", e.Current, strings.Join(allowed, ", "))
}
