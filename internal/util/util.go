package util

import (
	"fmt"
	"math"
)

// FormatSize converts a size in bytes to a value with a decimal prefix ("", "k", "M", "G").
func FormatSize(size uint64) (float64, string) {
	switch {
	case size >= 1_000_000_000:
		return float64(size) / 1_000_000_000, "G"
	case size >= 1_000_000:
		return float64(size) / 1_000_000, "M"
	case size >= 1_000:
		return float64(size) / 1_000, "k"
	default:
		return float64(size), ""
	}
}

// HumanSize renders size as "1.23 kB".
func HumanSize(size uint64) string {
	v, prefix := FormatSize(size)
	return fmt.Sprintf("%.2f %sB", v, prefix)
}

// Percent returns part/whole*100, or 0 when whole is 0.
func Percent(part, whole uint64) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

// Round Method to round to 2 decimals
func Round(f float64) float64 {
	return math.Round(f*100) / 100
}
