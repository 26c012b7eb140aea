// Package threshold turns human-readable rotation triggers like "100M" or
// "10d" into an absolute number of bytes or seconds.
//
// Sizes use powers of 1024 with the suffixes K, M, G and T. A bare integer is
// a byte count. Ages use the suffixes m (minutes), h (hours), d (days) and
// w (weeks) and are converted to seconds. Every spec must be at least two
// characters long, so a lone "5" is rejected rather than guessed at.
package threshold

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"
)

// ErrInvalidSpec is returned for any mode token or threshold spec that cannot be parsed.
var ErrInvalidSpec = errors.New("invalid threshold spec")

// Mode decides what a Threshold measures.
type Mode uint8

// BySize rotates files once they grow to Threshold bytes.
// ByAge rotates files once they are Threshold seconds old.
const (
	BySize Mode = iota
	ByAge
)

// String returns the canonical mode token.
func (m Mode) String() string {
	switch m {
	case ByAge:
		return "date"
	case BySize:
		fallthrough
	default:
		return "size"
	}
}

const kilobyte = 1024

// sizeUnits are the powers of 1024 allowed as the last character of a size spec.
var sizeUnits = map[byte]int64{ //nolint:gochecknoglobals
	'K': kilobyte,
	'M': kilobyte * kilobyte,
	'G': kilobyte * kilobyte * kilobyte,
	'T': kilobyte * kilobyte * kilobyte * kilobyte,
}

// ageUnits are minutes per unit, allowed as the last character of an age spec.
var ageUnits = map[byte]int64{ //nolint:gochecknoglobals
	'm': 1,
	'h': 60,
	'd': 24 * 60,
	'w': 7 * 24 * 60,
}

// Threshold is the size or age boundary that triggers a rotation.
// Value is always positive: bytes for BySize, seconds for ByAge.
type Threshold struct {
	Mode  Mode
	Value int64
}

// ParseMode accepts "size", "s", "date" or "d".
func ParseMode(token string) (Mode, error) {
	switch token {
	case "size", "s":
		return BySize, nil
	case "date", "d":
		return ByAge, nil
	default:
		return BySize, fmt.Errorf("%w: unknown mode %q, use size or date", ErrInvalidSpec, token)
	}
}

// Parse reads a mode token and a spec string and returns a Threshold.
func Parse(mode, spec string) (Threshold, error) {
	m, err := ParseMode(mode)
	if err != nil {
		return Threshold{}, err
	}

	var value int64

	switch m {
	case ByAge:
		value, err = ParseAge(spec)
	case BySize:
		value, err = ParseSize(spec)
	}

	if err != nil {
		return Threshold{}, err
	}

	return Threshold{Mode: m, Value: value}, nil
}

// ParseSize converts "100M" into 104857600. Bare integers are bytes.
func ParseSize(spec string) (int64, error) {
	if len(spec) < 2 { //nolint:mnd
		return 0, fmt.Errorf("%w: size %q is too short", ErrInvalidSpec, spec)
	}

	last := spec[len(spec)-1]
	if mult, ok := sizeUnits[last]; ok {
		return multiply(spec, spec[:len(spec)-1], mult)
	}

	if last < '0' || last > '9' {
		return 0, fmt.Errorf("%w: unknown size unit %q in %q", ErrInvalidSpec, last, spec)
	}

	return multiply(spec, spec, 1)
}

// ParseAge converts "10d" into 864000 (seconds).
func ParseAge(spec string) (int64, error) {
	if len(spec) < 2 { //nolint:mnd
		return 0, fmt.Errorf("%w: age %q is too short", ErrInvalidSpec, spec)
	}

	last := spec[len(spec)-1]

	minutes, ok := ageUnits[last]
	if !ok {
		return 0, fmt.Errorf("%w: unknown age unit %q in %q", ErrInvalidSpec, last, spec)
	}

	return multiply(spec, spec[:len(spec)-1], minutes*int64(time.Minute/time.Second))
}

func multiply(spec, number string, mult int64) (int64, error) {
	value, err := strconv.ParseInt(number, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrInvalidSpec, spec, err)
	}

	if value <= 0 {
		return 0, fmt.Errorf("%w: %q must be greater than zero", ErrInvalidSpec, spec)
	}

	if value > math.MaxInt64/mult {
		return 0, fmt.Errorf("%w: %q is too large", ErrInvalidSpec, spec)
	}

	return value * mult, nil
}

// Duration returns an age threshold as a time.Duration.
// Size thresholds return 0.
func (t Threshold) Duration() time.Duration {
	if t.Mode != ByAge {
		return 0
	}

	if t.Value > int64(math.MaxInt64/time.Second) {
		return math.MaxInt64
	}

	return time.Duration(t.Value) * time.Second
}

// Exceeded reports whether a file of the given size and age has reached the threshold.
func (t Threshold) Exceeded(size int64, age time.Duration) bool {
	switch t.Mode {
	case ByAge:
		return age >= t.Duration()
	case BySize:
		fallthrough
	default:
		return size >= t.Value
	}
}

func (t Threshold) String() string {
	if t.Mode == ByAge {
		return t.Duration().String()
	}

	return strconv.FormatInt(t.Value, 10) + "B"
}
