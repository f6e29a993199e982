// Package formatting converts byte sizes to and from their human-readable
// base-1024 form ("50MB", "1.5 MB").
package formatting

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

var units = [...]string{"B", "KB", "MB", "GB", "TB", "PB", "EB"}

// ErrInvalidSize is returned by ParseBytes for input it cannot read.
var ErrInvalidSize = errors.New("invalid byte size")

// FormatBytes renders n in the largest unit that keeps the value at or
// above one, with precision digits after the decimal point.
func FormatBytes(n int64, precision int) string {
	precision = max(precision, 0)
	if n < 1024 {
		return strconv.FormatInt(n, 10) + " B"
	}

	v := float64(n)
	i := 0
	for v >= 1024 && i < len(units)-1 {
		v /= 1024
		i++
	}
	return strconv.FormatFloat(v, 'f', precision, 64) + " " + units[i]
}

// ParseBytes reads a size such as "512", "10mb", or "1.5 GB". A missing
// unit means bytes and unit matching ignores case.
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidSize)
	}

	split := strings.IndexFunc(s, func(r rune) bool {
		return !unicode.IsDigit(r) && r != '.'
	})
	number, unit := s, ""
	if split >= 0 {
		number, unit = s[:split], strings.TrimSpace(s[split:])
	}
	if number == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	value, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	exp := 0
	if unit != "" {
		exp = unitIndex(strings.ToUpper(unit))
		if exp < 0 {
			return 0, fmt.Errorf("%w: unknown unit %q", ErrInvalidSize, unit)
		}
	}

	bytes := value * math.Pow(1024, float64(exp))
	if bytes > math.MaxInt64 {
		return 0, fmt.Errorf("%w: %q overflows", ErrInvalidSize, s)
	}
	return int64(bytes), nil
}

func unitIndex(unit string) int {
	for i, u := range units {
		if u == unit {
			return i
		}
	}
	return -1
}
