package metrics

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"support-desk/internal/entities"
	"support-desk/internal/snapshot"
	"support-desk/pkg/constants"
)

// Фиксированное "сейчас": среда, 15 октября 2025, 12:00 UTC.
var now = time.Date(2025, time.October, 15, 12, 0, 0, 0, time.UTC)

func ticket(id, status string, hours float64, created time.Time) entities.Ticket {
	return entities.Ticket{
		ID:        id,
		Title:     "Заявка " + id,
		Status:    status,
		Priority:  constants.PriorityMedium,
		TimeSpent: hours,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func forCompany(t entities.Ticket, c entities.Company) entities.Ticket {
	t.CompanyID = null.StringFrom(c.ID)
	t.CompanyName = c.Name
	return t
}

func resolved(t entities.Ticket, after time.Duration) entities.Ticket {
	t.Status = constants.StatusResolved
	t.ResolvedAt = null.TimeFrom(t.CreatedAt.Add(after))
	return t
}

func TestMatches(t *testing.T) {
	acme := entities.Company{ID: "c1", Name: "Acme Corp"}
	printer := forCompany(ticket("t1", constants.StatusOpen, 0, now), acme)
	printer.Title = "Принтер не печатает"
	orphan := ticket("t2", constants.StatusResolved, 0, now)
	orphan.Title = "VPN"

	tests := []struct {
		name   string
		ticket entities.Ticket
		query  TicketQuery
		want   bool
	}{
		{"пустой запрос", printer, TicketQuery{}, true},
		{"all везде", printer, TicketQuery{Status: "all", CompanyID: "all"}, true},
		{"по названию без учёта регистра", printer, TicketQuery{Search: "ПРИНТЕР"}, true},
		{"по имени компании", printer, TicketQuery{Search: "acme"}, true},
		{"текст не найден", printer, TicketQuery{Search: "сервер"}, false},
		{"статус совпал", printer, TicketQuery{Status: constants.StatusOpen}, true},
		{"старое имя статуса", printer, TicketQuery{Status: "pending"}, true},
		{"статус не совпал", printer, TicketQuery{Status: constants.StatusClosed}, false},
		{"компания совпала", printer, TicketQuery{CompanyID: "c1"}, true},
		{"компания не совпала", printer, TicketQuery{CompanyID: "c2"}, false},
		{"без компании и фильтр по компании", orphan, TicketQuery{CompanyID: "c1"}, false},
		{"без компании: имя пустое", orphan, TicketQuery{Search: "acme"}, false},
		{"все условия через И", printer, TicketQuery{Search: "acme", Status: constants.StatusResolved}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(tt.ticket, tt.query))
		})
	}
}

func TestFilterTickets_KeepsOrder(t *testing.T) {
	list := []entities.Ticket{
		ticket("a", constants.StatusOpen, 0, now),
		ticket("b", constants.StatusClosed, 0, now),
		ticket("c", constants.StatusOpen, 0, now),
	}
	got := FilterTickets(list, TicketQuery{Status: constants.StatusOpen})
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "c", got[1].ID)
}

func TestParseTimeRange(t *testing.T) {
	r, err := ParseTimeRange("")
	require.NoError(t, err)
	assert.Equal(t, RangeLast30Days, r)

	r, err = ParseTimeRange("last-year")
	require.NoError(t, err)
	assert.Equal(t, 365, r.Days())

	_, err = ParseTimeRange("last-decade")
	assert.Error(t, err)
}

func TestFilterByRange_Boundaries(t *testing.T) {
	list := []entities.Ticket{
		ticket("exact", constants.StatusOpen, 0, now.AddDate(0, 0, -7)),
		ticket("older", constants.StatusOpen, 0, now.AddDate(0, 0, -7).Add(-time.Second)),
		ticket("now", constants.StatusOpen, 0, now),
		ticket("future", constants.StatusOpen, 0, now.Add(time.Second)),
	}
	got := FilterByRange(list, RangeLast7Days, now)
	ids := make([]string, 0, len(got))
	for _, tk := range got {
		ids = append(ids, tk.ID)
	}
	assert.Equal(t, []string{"exact", "now"}, ids)
	assert.Len(t, FilterByRange(list, RangeAll, now), 4)
}

func TestPartitionStatus_UsesNonTerminalSet(t *testing.T) {
	list := []entities.Ticket{
		ticket("1", constants.StatusOpen, 0, now),
		ticket("2", constants.StatusInProgress, 0, now),
		ticket("3", constants.StatusResolved, 0, now),
		ticket("4", constants.StatusClosed, 0, now),
	}
	c := PartitionStatus(list)
	assert.Equal(t, StatusCounts{Resolved: 1, Pending: 2, Closed: 1}, c)
}

func TestTotalHours_Rounding(t *testing.T) {
	list := []entities.Ticket{
		ticket("1", constants.StatusOpen, 1.04, now),
		ticket("2", constants.StatusOpen, 0.02, now),
	}
	assert.Equal(t, 1.1, TotalHours(list))
	assert.Equal(t, 0.0, TotalHours(nil))
	assert.Equal(t, 0.3, RoundHours(0.25))
	assert.Equal(t, -0.3, RoundHours(-0.25))
}

func TestAverageResolution_NotAvailable(t *testing.T) {
	pending := []entities.Ticket{
		ticket("1", constants.StatusOpen, 1, now),
		ticket("2", constants.StatusInProgress, 1, now),
	}
	assert.False(t, AverageResolution(pending).Valid)
	assert.False(t, AverageResolution(nil).Valid)

	// Решённая без resolved_at не участвует.
	noStamp := ticket("3", constants.StatusResolved, 1, now)
	assert.False(t, AverageResolution([]entities.Ticket{noStamp}).Valid)

	list := []entities.Ticket{
		resolved(ticket("4", constants.StatusOpen, 0, now.Add(-10*time.Hour)), 2*time.Hour),
		resolved(ticket("5", constants.StatusOpen, 0, now.Add(-10*time.Hour)), 4*time.Hour),
	}
	avg := AverageResolution(list)
	require.True(t, avg.Valid)
	assert.Equal(t, 3.0, avg.Float64)

	uneven := []entities.Ticket{
		resolved(ticket("6", constants.StatusOpen, 0, now.Add(-10*time.Hour)), time.Hour),
		resolved(ticket("7", constants.StatusOpen, 0, now.Add(-10*time.Hour)), 126*time.Minute),
	}
	assert.InDelta(t, 1.55, AverageResolution(uneven).Float64, 1e-9)
}

func TestComputeCostImpact_ZeroDivision(t *testing.T) {
	company := entities.Company{ID: "c1", Name: "Acme", Salary: null.Float64From(1000)}
	list := []entities.Ticket{
		forCompany(ticket("1", constants.StatusOpen, 5, now), company),
	}
	res := ComputeCostImpact(company, list)
	assert.Equal(t, 0.0, res.Impact)
	assert.False(t, res.CostPerHour.Valid)

	// Решённая заявка с нулём часов тоже не даёт ставки.
	zero := resolved(forCompany(ticket("2", constants.StatusOpen, 0, now), company), time.Hour)
	res = ComputeCostImpact(company, []entities.Ticket{zero})
	assert.Equal(t, 0.0, res.Impact)

	noSalary := entities.Company{ID: "c2", Name: "Globex"}
	res = ComputeCostImpact(noSalary, []entities.Ticket{zero})
	assert.Equal(t, 0.0, res.Impact)
	assert.False(t, res.CostPerHour.Valid)
}

// Пример из описания расчёта: зарплата 1000, 2 ч решено и 1 ч в работе.
func TestRollupCompany_RoundTrip(t *testing.T) {
	company := entities.Company{ID: "c1", Name: "Acme", Salary: null.Float64From(1000)}
	created := now.Add(-24 * time.Hour)
	list := []entities.Ticket{
		resolved(forCompany(ticket("1", constants.StatusOpen, 2, created), company), 3*time.Hour),
		forCompany(ticket("2", constants.StatusOpen, 1, created), company),
	}

	r := RollupCompany(company, list)
	assert.Equal(t, 2.0, r.ResolvedHours)
	require.True(t, r.CostPerHour.Valid)
	assert.Equal(t, 500.0, r.CostPerHour.Float64)
	assert.Equal(t, 1500.0, r.CostImpact)
	assert.Equal(t, 1, r.Pending)
	assert.Equal(t, 1, r.Resolved)
	assert.Equal(t, 3.0, r.HoursSpent)
	require.True(t, r.AvgResolutionTime.Valid)
	assert.Equal(t, 3.0, r.AvgResolutionTime.Float64)
}

func TestWeeklyBuckets_Completeness(t *testing.T) {
	for _, r := range []TimeRange{RangeLast7Days, RangeLast30Days, RangeLast90Days, RangeLastYear} {
		t.Run(string(r), func(t *testing.T) {
			buckets := WeeklyBuckets(nil, r, now)
			assert.Len(t, buckets, (r.Days()+6)/7)
			for _, b := range buckets {
				assert.Zero(t, b.Tickets)
				assert.Zero(t, b.HoursSpent)
			}
			last := buckets[len(buckets)-1]
			assert.True(t, last.End.Equal(now))
			assert.True(t, buckets[0].Start.Equal(r.Start(now)))
		})
	}
}

func TestWeeklyBuckets_Assignment(t *testing.T) {
	start := RangeLast30Days.Start(now)
	list := []entities.Ticket{
		ticket("first", constants.StatusOpen, 1, start),
		ticket("second", constants.StatusResolved, 2, start.AddDate(0, 0, 7)),
		ticket("now", constants.StatusInProgress, 0.5, now),
	}
	buckets := WeeklyBuckets(list, RangeLast30Days, now)
	require.Len(t, buckets, 5)

	assert.Equal(t, 1, buckets[0].Tickets)
	assert.Equal(t, 1, buckets[0].Pending)
	assert.Equal(t, 1, buckets[1].Tickets)
	assert.Equal(t, 1, buckets[1].Resolved)
	assert.Equal(t, 2.0, buckets[1].HoursSpent)
	assert.Equal(t, 0, buckets[2].Tickets)
	assert.Equal(t, 1, buckets[4].Tickets)
	assert.Equal(t, 0.5, buckets[4].HoursSpent)
}

func TestWeeklyBuckets_AllRange(t *testing.T) {
	assert.Empty(t, WeeklyBuckets(nil, RangeAll, now))

	// Пятница 3 октября -> недели с 29 сентября и 6 и 13 октября.
	list := []entities.Ticket{ticket("1", constants.StatusOpen, 1, time.Date(2025, 10, 3, 9, 0, 0, 0, time.UTC))}
	buckets := WeeklyBuckets(list, RangeAll, now)
	require.Len(t, buckets, 3)
	assert.Equal(t, time.Monday, buckets[0].Start.Weekday())
	assert.Equal(t, time.Date(2025, 9, 29, 0, 0, 0, 0, time.UTC), buckets[0].Start)
	assert.Equal(t, 1, buckets[0].Tickets)
}

func TestMonthlyBuckets(t *testing.T) {
	// 90 дней до 15 октября начинаются 17 июля: июль..октябрь.
	buckets := MonthlyBuckets(nil, RangeLast90Days, now)
	require.Len(t, buckets, 4)
	assert.Equal(t, "Июль", buckets[0].Month)
	assert.Equal(t, "Октябрь", buckets[3].Month)
	for _, b := range buckets {
		assert.False(t, b.AvgResolutionTime.Valid)
	}

	assert.Len(t, MonthlyBuckets(nil, RangeLastYear, now), 13)

	list := []entities.Ticket{
		resolved(ticket("1", constants.StatusOpen, 4, time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC)), 6*time.Hour),
	}
	buckets = MonthlyBuckets(list, RangeLast90Days, now)
	assert.Equal(t, 1, buckets[1].Tickets)
	assert.Equal(t, 6.0, buckets[1].AvgResolutionTime.Float64)
}

func TestCategoryDistribution(t *testing.T) {
	cats := []entities.TicketCategory{{ID: "net", Name: "Network"}, {ID: "hw", Name: "Hardware"}}
	withCat := ticket("1", constants.StatusOpen, 1.5, now)
	withCat.CategoryID = null.StringFrom("net")
	dangling := ticket("2", constants.StatusOpen, 1, now)
	dangling.CategoryID = null.StringFrom("deleted")
	none := ticket("3", constants.StatusOpen, 1, now)

	got := CategoryDistribution([]entities.Ticket{withCat, dangling, none}, cats)
	require.Len(t, got, 2)
	assert.Equal(t, CategoryStat{CategoryID: "net", Name: "Network", Value: 1, HoursSpent: 1.5}, got[0])
	assert.Equal(t, 0, got[1].Value)
}

func testSnapshot() *snapshot.Snapshot {
	acme := entities.Company{ID: "c1", Name: "Acme", Salary: null.Float64From(1000)}
	globex := entities.Company{ID: "c2", Name: "Globex"}
	created := now.Add(-48 * time.Hour)
	return &snapshot.Snapshot{
		Companies:  []entities.Company{acme, globex},
		Categories: []entities.TicketCategory{{ID: "net", Name: "Network"}},
		Tickets: []entities.Ticket{
			resolved(forCompany(ticket("1", constants.StatusOpen, 2, created), acme), 3*time.Hour),
			forCompany(ticket("2", constants.StatusOpen, 1, created), acme),
			forCompany(ticket("3", constants.StatusClosed, 4, created), globex),
			ticket("4", constants.StatusOpen, 1, now.AddDate(-2, 0, 0)),
		},
	}
}

func TestBuildReport(t *testing.T) {
	snap := testSnapshot()
	rep := BuildReport(snap, ReportParams{Range: RangeLast30Days, Company: "all", Now: now})

	assert.Equal(t, RangeLast30Days, rep.Period)
	assert.Equal(t, 3, rep.Stats.TotalTickets)
	assert.Equal(t, 1, rep.Stats.ResolvedTickets)
	assert.Equal(t, 1, rep.Stats.PendingTickets)
	assert.Equal(t, 1, rep.Stats.ClosedTickets)
	assert.Equal(t, 7.0, rep.Stats.TotalHoursSpent)
	assert.Equal(t, 1500.0, rep.Stats.TotalCost)
	assert.Equal(t, 500.0, rep.Stats.CostPerTicket)
	assert.Equal(t, 1.5, rep.Stats.AvgTicketsPerCompany)
	assert.Len(t, rep.WeeklyData, 5)
	assert.Len(t, rep.CompanyData, 2)
	assert.Len(t, rep.TicketsByType, 1)
	assert.Equal(t, now, rep.GeneratedAt)

	only := BuildReport(snap, ReportParams{Range: RangeLast30Days, Company: "Globex", Now: now})
	assert.Equal(t, 1, only.Stats.TotalTickets)
	require.Len(t, only.CompanyData, 1)
	assert.Equal(t, "Globex", only.CompanyData[0].Name)
	assert.Equal(t, 0.0, only.Stats.TotalCost)
}

func TestBuildReport_EmptySnapshot(t *testing.T) {
	rep := BuildReport(&snapshot.Snapshot{}, ReportParams{Range: RangeAll, Now: now})
	assert.Equal(t, "all", rep.Company)
	assert.Zero(t, rep.Stats.TotalTickets)
	assert.Zero(t, rep.Stats.CostPerTicket)
	assert.Zero(t, rep.Stats.AvgTicketsPerCompany)
	assert.False(t, rep.Stats.AvgResolutionTime.Valid)
	assert.Empty(t, rep.WeeklyData)
}

func TestBuildReport_Idempotent(t *testing.T) {
	snap := testSnapshot()
	p := ReportParams{Range: RangeLastYear, Now: now}
	first, err := json.Marshal(BuildReport(snap, p))
	require.NoError(t, err)
	second, err := json.Marshal(BuildReport(snap, p))
	require.NoError(t, err)
	assert.JSONEq(t, string(first), string(second))
}

func TestReport_JSONFieldNames(t *testing.T) {
	data, err := json.Marshal(BuildReport(testSnapshot(), ReportParams{Range: RangeLast7Days, Now: now}))
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	for _, key := range []string{"period", "company", "stats", "weeklyData", "monthlyData", "companyData", "ticketsByType", "generatedAt"} {
		assert.Contains(t, doc, key)
	}
}

func TestBuildOverview(t *testing.T) {
	snap := testSnapshot()
	due := forCompany(ticket("5", constants.StatusInProgress, 0, now.Add(-time.Hour)), snap.Companies[0])
	due.DueDate = null.TimeFrom(time.Date(2025, 10, 15, 17, 0, 0, 0, time.UTC))
	snap.Tickets = append(snap.Tickets, due)

	ov := BuildOverview(snap, now)
	assert.Equal(t, 3, ov.PendingTickets)
	assert.Equal(t, 1, ov.TodayTasks)
	assert.Equal(t, 2, ov.ActiveCompanies)
	assert.Equal(t, 1, ov.WeeklyResolved)
	require.Len(t, ov.RecentTickets, 5)
	assert.Equal(t, "5", ov.RecentTickets[0].ID)
}

func TestBuildWeekSchedule(t *testing.T) {
	mk := func(id, status, priority string, due time.Time) entities.Ticket {
		t := ticket(id, status, 0, now)
		t.Priority = priority
		t.DueDate = null.TimeFrom(due)
		return t
	}
	thu := time.Date(2025, 10, 16, 10, 0, 0, 0, time.UTC)
	list := []entities.Ticket{
		mk("low", constants.StatusOpen, constants.PriorityLow, thu),
		mk("high", constants.StatusOpen, constants.PriorityHigh, thu),
		mk("early", constants.StatusOpen, constants.PriorityLow, thu.Add(-time.Hour)),
		mk("closed", constants.StatusClosed, constants.PriorityHigh, thu),
		mk("next-week", constants.StatusOpen, constants.PriorityHigh, thu.AddDate(0, 0, 7)),
	}

	ws := BuildWeekSchedule(list, now)
	require.Len(t, ws.Days, 7)
	assert.Equal(t, "2025-10-13", ws.WeekStart)
	assert.Equal(t, "2025-10-19", ws.WeekEnd)
	assert.Equal(t, 3, ws.TotalTasks)

	day := ws.Days[3]
	assert.Equal(t, "2025-10-16", day.Date)
	require.Len(t, day.Items, 3)
	assert.Equal(t, "early", day.Items[0].TicketID)
	assert.Equal(t, "high", day.Items[1].TicketID)
	assert.Equal(t, "low", day.Items[2].TicketID)
	assert.Empty(t, ws.Days[0].Items)

	empty := BuildWeekSchedule(nil, now)
	assert.Len(t, empty.Days, 7)
	assert.Zero(t, empty.TotalTasks)
}
