// Package format converts byte counts to and from human-readable strings.
package format

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	_  = iota
	kb = 1 << (10 * iota)
	mb
	gb
	tb
)

// FormatBytes renders b with the largest binary unit that keeps the value
// above one.
func FormatBytes(b int64) string {
	val := float64(b)
	var unit string

	switch {
	case b >= tb:
		val /= float64(tb)
		unit = "TB"
	case b >= gb:
		val /= float64(gb)
		unit = "GB"
	case b >= mb:
		val /= float64(mb)
		unit = "MB"
	case b >= kb:
		val /= float64(kb)
		unit = "KB"
	default:
		return fmt.Sprintf("%dB", b)
	}

	if val == float64(int(val)) {
		return fmt.Sprintf("%.0f%s", val, unit)
	}
	return fmt.Sprintf("%.2f%s", val, unit)
}

// ParseBytes parses strings like "512", "4KB", "32MB", "2GB" into a byte
// count. Units are case-insensitive and binary; a bare number is bytes.
func ParseBytes(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty size")
	}

	upper := strings.ToUpper(s)
	mult := uint64(1)
	switch {
	case strings.HasSuffix(upper, "TB"):
		mult, upper = tb, upper[:len(upper)-2]
	case strings.HasSuffix(upper, "GB"):
		mult, upper = gb, upper[:len(upper)-2]
	case strings.HasSuffix(upper, "MB"):
		mult, upper = mb, upper[:len(upper)-2]
	case strings.HasSuffix(upper, "KB"):
		mult, upper = kb, upper[:len(upper)-2]
	case strings.HasSuffix(upper, "B"):
		upper = upper[:len(upper)-1]
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(upper), 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid size %q", s)
	}
	return uint64(v * float64(mult)), nil
}
