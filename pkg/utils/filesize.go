// Package utils holds small helpers shared across packages.
package utils

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	B  int64 = 1
	KB       = 1024 * B
	MB       = 1024 * KB
	GB       = 1024 * MB
	TB       = 1024 * GB
)

// sizeUnits is ordered largest first; formatting picks the first unit that
// fits and parsing matches suffixes against it.
var sizeUnits = []struct {
	suffix string
	factor int64
}{
	{"TB", TB},
	{"GB", GB},
	{"MB", MB},
	{"KB", KB},
	{"B", B},
}

// FormatBytes renders a byte count in the largest fitting unit, with two
// decimals above the byte range. Negative counts clamp to zero.
func FormatBytes(n int64) string {
	if n < 0 {
		n = 0
	}
	for _, u := range sizeUnits {
		if u.factor > B && n >= u.factor {
			return fmt.Sprintf("%.2f %s", float64(n)/float64(u.factor), u.suffix)
		}
	}
	return fmt.Sprintf("%d B", n)
}

// FormatOptionalBytes renders a nullable size, using "-" when unknown.
// Directories and missing paths carry no size, so "-" is common output.
func FormatOptionalBytes(n *int64) string {
	if n == nil {
		return "-"
	}
	return FormatBytes(*n)
}

// ParseSize converts a human-readable size such as "100KB", "1.5 GB", or
// "1tb" to bytes. Single-letter units (K, M, G, T) and a bare byte count are
// accepted too.
func ParseSize(value string) (int64, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return 0, fmt.Errorf("empty size")
	}

	split := strings.IndexFunc(s, func(r rune) bool {
		return (r < '0' || r > '9') && r != '.'
	})
	numPart, unitPart := s, ""
	if split >= 0 {
		numPart, unitPart = s[:split], strings.TrimSpace(s[split:])
	}

	n, err := strconv.ParseFloat(numPart, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q", value)
	}

	unit := strings.ToUpper(unitPart)
	switch unit {
	case "":
		unit = "B"
	case "K", "M", "G", "T":
		unit += "B"
	}
	for _, u := range sizeUnits {
		if unit == u.suffix {
			return int64(n * float64(u.factor)), nil
		}
	}
	return 0, fmt.Errorf("unknown size unit %q", unitPart)
}
