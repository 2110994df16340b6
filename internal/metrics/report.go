package metrics

import (
	"time"

	"support-desk/internal/entities"
	"support-desk/internal/snapshot"
	"support-desk/pkg/constants"
)

// ReportParams - входные параметры отчёта.
type ReportParams struct {
	Range TimeRange
	// Имя компании или "all".
	Company string
	Now     time.Time
}

// Report - документ выгрузки. Имена полей стабильны, их читают внешние потребители.
type Report struct {
	Period        TimeRange       `json:"period"`
	Company       string          `json:"company"`
	Stats         Stats           `json:"stats"`
	WeeklyData    []WeeklyBucket  `json:"weeklyData"`
	MonthlyData   []MonthlyBucket `json:"monthlyData"`
	CompanyData   []CompanyRollup `json:"companyData"`
	TicketsByType []CategoryStat  `json:"ticketsByType"`
	GeneratedAt   time.Time       `json:"generatedAt"`
}

// BuildReport собирает отчёт по снимку. Результат зависит только от
// снимка и параметров: повторный вызов даёт тот же документ.
func BuildReport(snap *snapshot.Snapshot, p ReportParams) Report {
	if p.Range == "" {
		p.Range = DefaultRange
	}
	if p.Company == "" {
		p.Company = constants.FilterAll
	}

	companies := selectCompanies(snap.Companies, p.Company)
	tickets := FilterByRange(scopeToCompanies(snap.Tickets, companies, p.Company), p.Range, p.Now)
	rollups := CompanyRollups(tickets, companies, constants.FilterAll)

	return Report{
		Period:        p.Range,
		Company:       p.Company,
		Stats:         Summarize(tickets, rollups),
		WeeklyData:    WeeklyBuckets(tickets, p.Range, p.Now),
		MonthlyData:   MonthlyBuckets(tickets, p.Range, p.Now),
		CompanyData:   rollups,
		TicketsByType: CategoryDistribution(tickets, snap.Categories),
		GeneratedAt:   p.Now,
	}
}

// Summarize - сводка по заявкам; стоимость берётся из сводок компаний.
func Summarize(tickets []entities.Ticket, rollups []CompanyRollup) Stats {
	c := PartitionStatus(tickets)
	var totalCost float64
	for _, r := range rollups {
		totalCost += r.CostImpact
	}
	total := len(tickets)
	return Stats{
		TotalTickets:         total,
		ResolvedTickets:      c.Resolved,
		PendingTickets:       c.Pending,
		ClosedTickets:        c.Closed,
		TotalHoursSpent:      TotalHours(tickets),
		AvgResolutionTime:    AverageResolution(tickets),
		TotalCost:            RoundMoney(totalCost),
		CostPerTicket:        RoundMoney(safeDiv(totalCost, float64(total))),
		AvgTicketsPerCompany: RoundHours(safeDiv(float64(total), float64(len(rollups)))),
	}
}

// scopeToCompanies: при выбранной компании остаются только её заявки.
func scopeToCompanies(tickets []entities.Ticket, companies []entities.Company, companyName string) []entities.Ticket {
	if companyName == constants.FilterAll {
		return tickets
	}
	ids := make(map[string]struct{}, len(companies))
	for _, c := range companies {
		ids[c.ID] = struct{}{}
	}
	var out []entities.Ticket
	for _, t := range tickets {
		if !t.CompanyID.Valid {
			continue
		}
		if _, ok := ids[t.CompanyID.String]; ok {
			out = append(out, t)
		}
	}
	return out
}
