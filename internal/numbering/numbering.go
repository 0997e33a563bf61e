// Package numbering allocates public account numbers of the form CPT-NNNNN.
package numbering

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

const (
	Prefix = "CPT-"
	First  = 10000
	Max    = 99999
)

var (
	ErrMalformed = errors.New("malformed account number")
	// ErrExhausted is returned once the counter would leave the five-digit range.
	ErrExhausted = errors.New("account number space exhausted")
)

func Format(n int) string {
	return fmt.Sprintf("%s%d", Prefix, n)
}

func Parse(number string) (int, error) {
	digits, ok := strings.CutPrefix(number, Prefix)
	if !ok || digits == "" {
		return 0, fmt.Errorf("%w: %q", ErrMalformed, number)
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q", ErrMalformed, number)
	}
	return n, nil
}

// Next derives the number following last. An empty last means no account has
// been created yet.
func Next(last string) (string, error) {
	if last == "" {
		return Format(First), nil
	}
	n, err := Parse(last)
	if err != nil {
		return "", err
	}
	return checked(n + 1)
}

func checked(n int) (string, error) {
	if n > Max {
		return "", fmt.Errorf("%w: next value %d", ErrExhausted, n)
	}
	if n < First {
		n = First
	}
	return Format(n), nil
}

// Sequence hands out account numbers.
type Sequence interface {
	Next(ctx context.Context) (string, error)
}

// LastNumberSource reports the number of the most recently created account,
// or "" when there is none.
type LastNumberSource interface {
	LastNumber(ctx context.Context) (string, error)
}

// StoreSequence derives every number from persisted state. Two calls without
// a persisted account in between return the same number, so callers must
// hold their own lock across allocate and insert.
type StoreSequence struct {
	mu     sync.Mutex
	source LastNumberSource
}

func NewStoreSequence(source LastNumberSource) *StoreSequence {
	return &StoreSequence{source: source}
}

func (s *StoreSequence) Next(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	last, err := s.source.LastNumber(ctx)
	if err != nil {
		return "", fmt.Errorf("reading last account number: %w", err)
	}
	return Next(last)
}

// FromCounter turns the raw value of an atomic counter into a number. The
// counter is expected to be seeded with SeedValue.
func FromCounter(value int64) (string, error) {
	return checked(int(value))
}

// SeedValue is the counter value that makes the next increment produce the
// number after last.
func SeedValue(last string) (int64, error) {
	if last == "" {
		return First - 1, nil
	}
	n, err := Parse(last)
	if err != nil {
		return 0, err
	}
	return int64(n), nil
}
