package cipher

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/RowanDark/vigenere/internal/textops"
)

// UppercaseOp converts text to uppercase
type UppercaseOp struct {
	BaseOperation
}

func (op *UppercaseOp) Execute(ctx context.Context, input []byte, params map[string]interface{}) ([]byte, error) {
	return []byte(strings.ToUpper(string(input))), nil
}

// ReverseOp reverses the character order of text
type ReverseOp struct {
	BaseOperation
}

func (op *ReverseOp) Execute(ctx context.Context, input []byte, params map[string]interface{}) ([]byte, error) {
	rs := []rune(string(input))
	for i, j := 0, len(rs)-1; i < j; i, j = i+1, j-1 {
		rs[i], rs[j] = rs[j], rs[i]
	}
	return []byte(string(rs)), nil
}

// RepeatOp repeats text. Params: times, separator, addition, addition_times,
// addition_separator.
type RepeatOp struct {
	BaseOperation
}

func (op *RepeatOp) Execute(ctx context.Context, input []byte, params map[string]interface{}) ([]byte, error) {
	opts := textops.DefaultRepeatOptions()
	var err error
	if opts.Times, err = intParam(params, "times", opts.Times); err != nil {
		return nil, err
	}
	if opts.Separator, err = stringParam(params, "separator", opts.Separator); err != nil {
		return nil, err
	}
	if opts.Addition, err = stringParam(params, "addition", opts.Addition); err != nil {
		return nil, err
	}
	if opts.AdditionTimes, err = intParam(params, "addition_times", opts.AdditionTimes); err != nil {
		return nil, err
	}
	if opts.AdditionSeparator, err = stringParam(params, "addition_separator", opts.AdditionSeparator); err != nil {
		return nil, err
	}
	out, err := textops.Repeat(string(input), opts)
	if err != nil {
		return nil, fmt.Errorf("repeat: %w", err)
	}
	return []byte(out), nil
}

// DeleteDigitOp parses the input as a non-negative integer and returns the
// largest number left after deleting one digit.
type DeleteDigitOp struct {
	BaseOperation
}

func (op *DeleteDigitOp) Execute(ctx context.Context, input []byte, params map[string]interface{}) ([]byte, error) {
	// ParseInt errors quote the input; keep it out of the returned error.
	n, err := strconv.ParseInt(strings.TrimSpace(string(input)), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("delete_digit: %w", textops.ErrNotInteger)
	}
	result, err := textops.DeleteDigit(n)
	if err != nil {
		return nil, fmt.Errorf("delete_digit: %w", err)
	}
	return []byte(strconv.FormatInt(result, 10)), nil
}
