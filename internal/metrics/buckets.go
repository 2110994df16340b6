package metrics

import (
	"fmt"
	"sort"
	"time"

	"github.com/aarondl/null/v8"

	"support-desk/internal/entities"
)

type WeeklyBucket struct {
	Week       string    `json:"week"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Tickets    int       `json:"tickets"`
	Resolved   int       `json:"resolved"`
	Pending    int       `json:"pending"`
	HoursSpent float64   `json:"hoursSpent"`
}

type MonthlyBucket struct {
	Month             string       `json:"month"`
	Year              int          `json:"year"`
	Start             time.Time    `json:"start"`
	End               time.Time    `json:"end"`
	Tickets           int          `json:"tickets"`
	Resolved          int          `json:"resolved"`
	Pending           int          `json:"pending"`
	HoursSpent        float64      `json:"hoursSpent"`
	AvgResolutionTime null.Float64 `json:"avgResolutionTime"`
}

// WeeklyBuckets делит диапазон на недели без пропусков.
//
// Для ограниченного диапазона недели отсчитываются от начала окна:
// ceil(days/7) семидневных интервалов, последний обрезан по now.
// Для "all" берутся календарные недели с понедельника, от недели первой
// заявки до текущей; без заявок - пустой список.
// tickets должны быть уже отфильтрованы по диапазону.
func WeeklyBuckets(tickets []entities.Ticket, r TimeRange, now time.Time) []WeeklyBucket {
	bounds := weekBounds(tickets, r, now)
	buckets := make([]WeeklyBucket, len(bounds))
	groups := make([][]entities.Ticket, len(bounds))

	for i, b := range bounds {
		buckets[i] = WeeklyBucket{
			Week:  fmt.Sprintf("Неделя %d", i+1),
			Start: b.start,
			End:   b.end,
		}
	}
	for _, t := range tickets {
		if i := bucketIndex(bounds, t.CreatedAt); i >= 0 {
			groups[i] = append(groups[i], t)
		}
	}
	for i, g := range groups {
		c := PartitionStatus(g)
		buckets[i].Tickets = len(g)
		buckets[i].Resolved = c.Resolved
		buckets[i].Pending = c.Pending
		buckets[i].HoursSpent = TotalHours(g)
	}
	return buckets
}

// MonthlyBuckets - календарные месяцы от месяца начала окна до месяца now
// включительно. Для "all" - от месяца первой заявки.
func MonthlyBuckets(tickets []entities.Ticket, r TimeRange, now time.Time) []MonthlyBucket {
	bounds := monthBounds(tickets, r, now)
	buckets := make([]MonthlyBucket, len(bounds))
	groups := make([][]entities.Ticket, len(bounds))

	for i, b := range bounds {
		buckets[i] = MonthlyBucket{
			Month: monthNames[b.start.Month()-1],
			Year:  b.start.Year(),
			Start: b.start,
			End:   b.end,
		}
	}
	for _, t := range tickets {
		if i := bucketIndex(bounds, t.CreatedAt); i >= 0 {
			groups[i] = append(groups[i], t)
		}
	}
	for i, g := range groups {
		c := PartitionStatus(g)
		buckets[i].Tickets = len(g)
		buckets[i].Resolved = c.Resolved
		buckets[i].Pending = c.Pending
		buckets[i].HoursSpent = TotalHours(g)
		buckets[i].AvgResolutionTime = AverageResolution(g)
	}
	return buckets
}

var monthNames = [12]string{
	"Январь", "Февраль", "Март", "Апрель", "Май", "Июнь",
	"Июль", "Август", "Сентябрь", "Октябрь", "Ноябрь", "Декабрь",
}

// interval - полуоткрытый [start, end), кроме последнего, который включает end.
type interval struct {
	start time.Time
	end   time.Time
}

func weekBounds(tickets []entities.Ticket, r TimeRange, now time.Time) []interval {
	if r.Bounded() {
		start := r.Start(now)
		n := (r.Days() + 6) / 7
		out := make([]interval, n)
		for i := 0; i < n; i++ {
			s := start.AddDate(0, 0, 7*i)
			e := start.AddDate(0, 0, 7*(i+1))
			if e.After(now) {
				e = now
			}
			out[i] = interval{start: s, end: e}
		}
		return out
	}

	first, ok := earliest(tickets)
	if !ok {
		return nil
	}
	loc := now.Location()
	var out []interval
	for s := StartOfWeek(first.In(loc)); !s.After(now); s = s.AddDate(0, 0, 7) {
		out = append(out, interval{start: s, end: s.AddDate(0, 0, 7)})
	}
	return out
}

func monthBounds(tickets []entities.Ticket, r TimeRange, now time.Time) []interval {
	var from time.Time
	if r.Bounded() {
		from = r.Start(now)
	} else {
		first, ok := earliest(tickets)
		if !ok {
			return nil
		}
		from = first
	}
	loc := now.Location()
	from = from.In(loc)

	var out []interval
	for s := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, loc); !s.After(now); s = s.AddDate(0, 1, 0) {
		out = append(out, interval{start: s, end: s.AddDate(0, 1, 0)})
	}
	return out
}

// bucketIndex ищет интервал, содержащий ts; -1, если ts вне всех интервалов.
func bucketIndex(bounds []interval, ts time.Time) int {
	if len(bounds) == 0 || ts.Before(bounds[0].start) {
		return -1
	}
	i := sort.Search(len(bounds), func(i int) bool {
		return ts.Before(bounds[i].end)
	})
	last := len(bounds) - 1
	if i > last {
		// Верхняя граница последнего интервала включительно.
		if ts.Equal(bounds[last].end) {
			return last
		}
		return -1
	}
	return i
}

func earliest(tickets []entities.Ticket) (time.Time, bool) {
	if len(tickets) == 0 {
		return time.Time{}, false
	}
	first := tickets[0].CreatedAt
	for _, t := range tickets[1:] {
		if t.CreatedAt.Before(first) {
			first = t.CreatedAt
		}
	}
	return first, true
}

// StartOfWeek - полночь понедельника недели, в которую попадает t (в зоне t).
func StartOfWeek(t time.Time) time.Time {
	day := StartOfDay(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
