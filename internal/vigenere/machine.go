package vigenere

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidArgument is returned when a message or key is empty.
var ErrInvalidArgument = errors.New("invalid argument")

const alphabetSize = 26

// Machine enciphers and deciphers text under a repeating key.
type Machine struct {
	direct bool
}

// New returns a machine. A machine that is not direct reverses its output.
func New(direct bool) *Machine {
	return &Machine{direct: direct}
}

// NewDirect returns a machine that emits output in natural order.
func NewDirect() *Machine {
	return New(true)
}

// NewReverse returns a machine that emits output in reverse order.
func NewReverse() *Machine {
	return New(false)
}

// Direct reports whether the machine emits output in natural order.
func (m *Machine) Direct() bool {
	return m.direct
}

// Encrypt enciphers message with key.
func (m *Machine) Encrypt(message, key string) (string, error) {
	return m.transform(message, key, 1)
}

// Decrypt deciphers message with key.
func (m *Machine) Decrypt(message, key string) (string, error) {
	return m.transform(message, key, -1)
}

func (m *Machine) transform(message, key string, sign int) (string, error) {
	if message == "" {
		return "", fmt.Errorf("%w: message must not be empty", ErrInvalidArgument)
	}
	if key == "" {
		return "", fmt.Errorf("%w: key must not be empty", ErrInvalidArgument)
	}

	msg := []rune(strings.ToUpper(message))
	k := []rune(strings.ToUpper(key))

	out := make([]rune, len(msg))
	cursor := 0
	for i, r := range msg {
		if r < 'A' || r > 'Z' {
			out[i] = r
			continue
		}
		out[i] = shift(r, sign*keyShift(k[cursor%len(k)]))
		cursor++
	}

	if !m.direct {
		reverseRunes(out)
	}
	return string(out), nil
}

// keyShift maps a key character onto 0-25. Letters give their alphabet
// position; anything else is folded into range by the same offset from 'A'.
func keyShift(r rune) int {
	s := int(r-'A') % alphabetSize
	if s < 0 {
		s += alphabetSize
	}
	return s
}

// shift moves an uppercase letter by delta positions, wrapping around Z.
func shift(r rune, delta int) rune {
	return rune((int(r-'A')+delta+alphabetSize)%alphabetSize) + 'A'
}

func reverseRunes(rs []rune) {
	for i, j := 0, len(rs)-1; i < j; i, j = i+1, j-1 {
		rs[i], rs[j] = rs[j], rs[i]
	}
}
