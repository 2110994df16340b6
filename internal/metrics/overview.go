package metrics

import (
	"sort"
	"time"

	"support-desk/internal/entities"
	"support-desk/internal/snapshot"
)

const RecentTicketsLimit = 5

// Overview - показатели главной страницы.
type Overview struct {
	PendingTickets   int               `json:"pending_tickets"`
	TodayTasks       int               `json:"today_tasks"`
	ActiveCompanies  int               `json:"active_companies"`
	WeeklyResolved   int               `json:"weekly_resolved"`
	TotalHoursWeekly float64           `json:"total_hours_weekly"`
	RecentTickets    []entities.Ticket `json:"recent_tickets"`
}

// BuildOverview: "сегодня" - календарный день now в его часовом поясе,
// "за неделю" - последние 7 суток до now.
func BuildOverview(snap *snapshot.Snapshot, now time.Time) Overview {
	dayStart := StartOfDay(now)
	dayEnd := dayStart.AddDate(0, 0, 1)
	weekAgo := RangeLast7Days.Start(now)

	var ov Overview
	var weeklyHours float64
	for _, t := range snap.Tickets {
		if t.IsPending() {
			ov.PendingTickets++
			if t.DueDate.Valid && !t.DueDate.Time.Before(dayStart) && t.DueDate.Time.Before(dayEnd) {
				ov.TodayTasks++
			}
		}
		if t.IsResolved() && t.ResolvedAt.Valid && !t.ResolvedAt.Time.Before(weekAgo) && !t.ResolvedAt.Time.After(now) {
			ov.WeeklyResolved++
		}
		if RangeLast7Days.Contains(t.CreatedAt, now) {
			weeklyHours += t.TimeSpent
		}
	}
	ov.ActiveCompanies = len(snap.Companies)
	ov.TotalHoursWeekly = RoundHours(weeklyHours)
	ov.RecentTickets = RecentTickets(snap.Tickets, RecentTicketsLimit)
	return ov
}

// RecentTickets - последние limit заявок по created_at, новые первыми.
func RecentTickets(tickets []entities.Ticket, limit int) []entities.Ticket {
	sorted := make([]entities.Ticket, len(tickets))
	copy(sorted, tickets)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}
