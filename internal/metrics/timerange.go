package metrics

import (
	"fmt"
	"time"

	"support-desk/internal/entities"
)

type TimeRange string

const (
	RangeLast7Days  TimeRange = "last-7-days"
	RangeLast30Days TimeRange = "last-30-days"
	RangeLast90Days TimeRange = "last-90-days"
	RangeLastYear   TimeRange = "last-year"
	RangeAll        TimeRange = "all"

	DefaultRange = RangeLast30Days
)

var rangeDays = map[TimeRange]int{
	RangeLast7Days:  7,
	RangeLast30Days: 30,
	RangeLast90Days: 90,
	RangeLastYear:   365,
	RangeAll:        0,
}

// ParseTimeRange: пустая строка - диапазон по умолчанию.
func ParseTimeRange(s string) (TimeRange, error) {
	if s == "" {
		return DefaultRange, nil
	}
	r := TimeRange(s)
	if _, ok := rangeDays[r]; !ok {
		return "", fmt.Errorf("неизвестный диапазон %q", s)
	}
	return r, nil
}

// Days - длина диапазона в днях, 0 для "all".
func (r TimeRange) Days() int {
	return rangeDays[r]
}

func (r TimeRange) Bounded() bool {
	return r.Days() > 0
}

// Start - нижняя граница окна [now - range, now]. Для "all" - нулевое время.
func (r TimeRange) Start(now time.Time) time.Time {
	if !r.Bounded() {
		return time.Time{}
	}
	return now.AddDate(0, 0, -r.Days())
}

// Contains: нижняя граница включительно, верхняя - "сейчас" включительно.
func (r TimeRange) Contains(createdAt, now time.Time) bool {
	if !r.Bounded() {
		return true
	}
	return !createdAt.Before(r.Start(now)) && !createdAt.After(now)
}

// FilterByRange оставляет заявки, созданные внутри окна. Порядок сохраняется.
func FilterByRange(tickets []entities.Ticket, r TimeRange, now time.Time) []entities.Ticket {
	out := make([]entities.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if r.Contains(t.CreatedAt, now) {
			out = append(out, t)
		}
	}
	return out
}
