package textops

import (
	"errors"
	"strconv"
)

// ErrNegative is returned by DeleteDigit for negative input.
var ErrNegative = errors.New("number must not be negative")

// ErrNotInteger is returned when text does not parse as a base-10 integer.
var ErrNotInteger = errors.New("input is not an integer")

// DeleteDigit returns the largest number obtainable by removing exactly one
// digit from n. A single-digit n yields 0.
func DeleteDigit(n int64) (int64, error) {
	if n < 0 {
		return 0, ErrNegative
	}
	digits := strconv.FormatInt(n, 10)
	if len(digits) == 1 {
		return 0, nil
	}

	var best int64
	for i := range digits {
		candidate, err := strconv.ParseInt(digits[:i]+digits[i+1:], 10, 64)
		if err != nil {
			return 0, err
		}
		if candidate > best {
			best = candidate
		}
	}
	return best, nil
}
