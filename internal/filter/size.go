package filter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var sizeUnits = map[string]int64{
	"":  1,
	"B": 1,
	"K": 1 << 10,
	"M": 1 << 20,
	"G": 1 << 30,
	"T": 1 << 40,
}

// ParseSize parses a human-readable size such as "512", "100K" or "1.5G".
// Suffixes are case-insensitive powers of 1024; "KB"/"KiB" style forms
// are accepted too.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty size string")
	}

	upper := strings.ToUpper(s)
	upper = strings.TrimSuffix(upper, "IB")
	if len(upper) > 1 && strings.HasSuffix(upper, "B") {
		upper = upper[:len(upper)-1]
	}

	numStr := strings.TrimRight(upper, "BKMGT")
	unit := upper[len(numStr):]
	mult, ok := sizeUnits[unit]
	if !ok || numStr == "" {
		return 0, fmt.Errorf("invalid size: %q", s)
	}

	if n, err := strconv.ParseInt(numStr, 10, 64); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("negative size: %q", s)
		}
		return n * mult, nil
	}
	f, err := strconv.ParseFloat(numStr, 64)
	if err != nil || f < 0 {
		return 0, fmt.Errorf("invalid size: %q", s)
	}
	return int64(f * float64(mult)), nil
}
