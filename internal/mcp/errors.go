package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/cycletrack/internal/domain/progress"
)

// APIError is the tool error payload.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	if e.RecoveryHint == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.RecoveryHint)
}

// MapError maps domain errors to tool error codes. Unknown errors pass through.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, progress.ErrInvalidDay):
		return &APIError{Code: "INVALID_DAY", Message: "day is outside the cycle", RecoveryHint: "Call get_schedule for the valid day range"}
	case errors.Is(err, progress.ErrInvalidCompound):
		return &APIError{Code: "INVALID_COMPOUND", Message: "unknown compound", RecoveryHint: "Use osta, rad or card"}
	case errors.Is(err, progress.ErrInvalidDate):
		return &APIError{Code: "INVALID_DATE", Message: "date must be YYYY-MM-DD", RecoveryHint: "Pass an empty start_date to clear it"}
	case errors.Is(err, progress.ErrInvalidBody):
		return &APIError{Code: "INVALID_INPUT", Message: "progress payload must be an object"}
	default:
		return err
	}
}
