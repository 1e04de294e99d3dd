package cipher

import (
	"context"
	"errors"

	"github.com/RowanDark/vigenere/internal/textops"
	"github.com/RowanDark/vigenere/internal/vigenere"
)

// FailureReason reduces err to a fixed description of its class. Error text
// from operations can quote their input, so audit events record this instead.
func FailureReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "deadline exceeded"
	case errors.Is(err, vigenere.ErrInvalidArgument):
		return "invalid argument"
	case errors.Is(err, ErrUnknownOperation):
		return "unknown operation"
	case errors.Is(err, ErrRecipeNotFound):
		return "recipe not found"
	case errors.Is(err, textops.ErrNotInteger), errors.Is(err, textops.ErrNegative):
		return "invalid number"
	case errors.Is(err, textops.ErrTooLarge):
		return "output too large"
	default:
		return "operation failed"
	}
}
