// Package textops holds small string and number transforms exposed as
// pipeline operations.
package textops

import (
	"errors"
	"strings"
)

// MaxRepeatOutput caps the size in bytes of a Repeat result.
const MaxRepeatOutput = 1 << 20

// ErrTooLarge is returned when a Repeat result would exceed MaxRepeatOutput.
var ErrTooLarge = errors.New("repeat output too large")

// RepeatOptions controls Repeat. Zero values are not defaults; start from
// DefaultRepeatOptions and override what you need.
type RepeatOptions struct {
	Times             int
	Separator         string
	Addition          string
	AdditionTimes     int
	AdditionSeparator string
}

// DefaultRepeatOptions returns a single repetition with "+" and "|" separators
// and no addition.
func DefaultRepeatOptions() RepeatOptions {
	return RepeatOptions{
		Times:             1,
		Separator:         "+",
		Addition:          "",
		AdditionTimes:     1,
		AdditionSeparator: "|",
	}
}

// Repeat writes s opts.Times times joined by opts.Separator. Each copy of s is
// followed by opts.Addition repeated opts.AdditionTimes times and joined by
// opts.AdditionSeparator.
//
//	Repeat("STRING", RepeatOptions{Times: 3, Separator: "**", Addition: "PLUS",
//	    AdditionTimes: 3, AdditionSeparator: "00"})
//	// STRINGPLUS00PLUS00PLUS**STRINGPLUS00PLUS00PLUS**STRINGPLUS00PLUS00PLUS
//
// Counts are bounded by MaxRepeatOutput even when every piece is empty.
func Repeat(s string, opts RepeatOptions) (string, error) {
	if opts.Times <= 0 {
		return "", nil
	}
	if opts.Times > MaxRepeatOutput || opts.AdditionTimes > MaxRepeatOutput {
		return "", ErrTooLarge
	}

	var addition string
	if opts.AdditionTimes > 0 {
		size := joinedLen(len(opts.Addition), opts.AdditionTimes, len(opts.AdditionSeparator))
		if size > MaxRepeatOutput {
			return "", ErrTooLarge
		}
		addition = joinRepeated(opts.Addition, opts.AdditionTimes, opts.AdditionSeparator)
	}

	if joinedLen(len(s)+len(addition), opts.Times, len(opts.Separator)) > MaxRepeatOutput {
		return "", ErrTooLarge
	}
	return joinRepeated(s+addition, opts.Times, opts.Separator), nil
}

// joinedLen is the length of n copies of a piece of length piece joined by a
// separator of length sep. Inputs are bounded so the products fit in int64.
func joinedLen(piece, n, sep int) int64 {
	return int64(piece)*int64(n) + int64(sep)*int64(n-1)
}

func joinRepeated(piece string, n int, sep string) string {
	var b strings.Builder
	b.Grow(int(joinedLen(len(piece), n, len(sep))))
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(sep)
		}
		b.WriteString(piece)
	}
	return b.String()
}
