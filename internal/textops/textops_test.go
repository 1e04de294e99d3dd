package textops

import (
	"errors"
	"math"
	"testing"
)

func TestRepeat(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		opts     func(*RepeatOptions)
		expected string
	}{
		{
			name:  "full options",
			input: "STRING",
			opts: func(o *RepeatOptions) {
				*o = RepeatOptions{Times: 3, Separator: "**", Addition: "PLUS", AdditionTimes: 3, AdditionSeparator: "00"}
			},
			expected: "STRINGPLUS00PLUS00PLUS**STRINGPLUS00PLUS00PLUS**STRINGPLUS00PLUS00PLUS",
		},
		{name: "defaults", input: "la", opts: func(*RepeatOptions) {}, expected: "la"},
		{name: "default separator", input: "la", opts: func(o *RepeatOptions) { o.Times = 3 }, expected: "la+la+la"},
		{
			name:  "addition with default separator",
			input: "TESTstr",
			opts: func(o *RepeatOptions) {
				o.Times = 2
				o.Addition = "ADD!"
				o.AdditionTimes = 2
			},
			expected: "TESTstrADD!|ADD!+TESTstrADD!|ADD!",
		},
		{name: "zero times", input: "x", opts: func(o *RepeatOptions) { o.Times = 0 }, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultRepeatOptions()
			tt.opts(&opts)
			got, err := Repeat(tt.input, opts)
			if err != nil {
				t.Fatalf("Repeat: %v", err)
			}
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestRepeatRejectsOversizedOutput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  func(*RepeatOptions)
	}{
		{name: "huge times", input: "x", opts: func(o *RepeatOptions) { o.Times = math.MaxInt }},
		{name: "huge addition times", input: "x", opts: func(o *RepeatOptions) {
			o.Addition = "y"
			o.AdditionTimes = math.MaxInt
		}},
		{name: "empty pieces still bounded", input: "", opts: func(o *RepeatOptions) {
			o.Separator = ""
			o.Times = MaxRepeatOutput + 1
		}},
		{name: "output just over limit", input: "ab", opts: func(o *RepeatOptions) {
			o.Separator = ""
			o.Times = MaxRepeatOutput/2 + 1
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultRepeatOptions()
			tt.opts(&opts)
			got, err := Repeat(tt.input, opts)
			if !errors.Is(err, ErrTooLarge) {
				t.Fatalf("expected ErrTooLarge, got %v", err)
			}
			if got != "" {
				t.Errorf("expected no output, got %d bytes", len(got))
			}
		})
	}

	opts := DefaultRepeatOptions()
	opts.Separator = ""
	opts.Times = MaxRepeatOutput / 2
	got, err := Repeat("ab", opts)
	if err != nil {
		t.Fatalf("output at the limit: %v", err)
	}
	if len(got) != MaxRepeatOutput {
		t.Errorf("expected %d bytes, got %d", MaxRepeatOutput, len(got))
	}
}

func TestDeleteDigit(t *testing.T) {
	tests := []struct {
		input    int64
		expected int64
	}{
		{152, 52},
		{1001, 101},
		{10, 1},
		{222219, 22229},
		{109, 19},
		{342, 42},
		{7, 0},
	}

	for _, tt := range tests {
		got, err := DeleteDigit(tt.input)
		if err != nil {
			t.Fatalf("DeleteDigit(%d): %v", tt.input, err)
		}
		if got != tt.expected {
			t.Errorf("DeleteDigit(%d): expected %d, got %d", tt.input, tt.expected, got)
		}
	}

	if _, err := DeleteDigit(-15); !errors.Is(err, ErrNegative) {
		t.Errorf("expected ErrNegative, got %v", err)
	}
}
