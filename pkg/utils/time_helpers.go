package utils

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// FormatSecondsToHumanReadable преобразует секунды в строку вида "1d 2h 3m 4s".
func FormatSecondsToHumanReadable(totalSeconds uint64) string {
	if totalSeconds == 0 {
		return "0s"
	}

	days := totalSeconds / (24 * 3600)
	totalSeconds %= (24 * 3600)
	hours := totalSeconds / 3600
	totalSeconds %= 3600
	minutes := totalSeconds / 60
	seconds := totalSeconds % 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	// Секунды показываем, только если они не равны нулю или других единиц нет
	if seconds > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%ds", seconds))
	}

	return strings.Join(parts, " ")
}

// FormatHoursToHumanReadable - то же самое для дробных часов (средние значения в отчётах).
func FormatHoursToHumanReadable(hours float64) string {
	if hours <= 0 {
		return "0s"
	}
	return FormatSecondsToHumanReadable(uint64(math.Round(hours * 3600)))
}

// ParseDateParam принимает RFC3339 или YYYY-MM-DD (в указанной зоне).
func ParseDateParam(raw string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.In(loc), nil
	}
	return time.ParseInLocation("2006-01-02", raw, loc)
}
