package codes

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// Min is the smallest valid code
	Min Code = 1
	// Max is the largest valid code (14 nines)
	Max Code = 99_999_999_999_999
	// Width is the number of digits in a serialized code
	Width = 14
)

// ErrInvalid is returned when a value is not a usable code
var ErrInvalid = errors.New("invalid code")

// Code is a numeric barcode identifier
type Code uint64

// Valid reports whether c lies in [Min, Max]
func Valid(c Code) bool {
	return c >= Min && c <= Max
}

// String returns the code left-padded with zeros to Width digits
func (c Code) String() string {
	return fmt.Sprintf("%0*d", Width, uint64(c))
}

// Parse reads a single decimal code. Surrounding whitespace is ignored so
// files written with CRLF line endings parse the same way.
func Parse(s string) (Code, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalid)
	}

	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalid, s)
	}

	c := Code(n)
	if !Valid(c) {
		return 0, fmt.Errorf("%w: %d out of range", ErrInvalid, n)
	}
	return c, nil
}

// Strings formats every code in the batch
func Strings(batch []Code) []string {
	out := make([]string, len(batch))
	for i, c := range batch {
		out[i] = c.String()
	}
	return out
}

// ParseBatch parses raw entries into a batch, keeping order and duplicates.
// Entries that do not parse are counted and skipped.
func ParseBatch(entries []string) ([]Code, int) {
	batch := make([]Code, 0, len(entries))
	skipped := 0
	for _, e := range entries {
		c, err := Parse(e)
		if err != nil {
			skipped++
			continue
		}
		batch = append(batch, c)
	}
	return batch, skipped
}

// MarshalText encodes the code in its padded form
func (c Code) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText accepts padded or unpadded decimal codes
func (c *Code) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
