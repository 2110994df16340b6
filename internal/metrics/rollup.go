package metrics

import (
	"github.com/aarondl/null/v8"

	"support-desk/internal/entities"
	"support-desk/pkg/constants"
)

type CategoryStat struct {
	CategoryID string  `json:"categoryId"`
	Name       string  `json:"name"`
	Value      int     `json:"value"`
	HoursSpent float64 `json:"hoursSpent"`
}

// CategoryDistribution - по одной записи на каждую известную категорию,
// включая пустые. Заявки без категории (или с удалённой) не учитываются.
func CategoryDistribution(tickets []entities.Ticket, categories []entities.TicketCategory) []CategoryStat {
	index := make(map[string]int, len(categories))
	out := make([]CategoryStat, len(categories))
	hours := make([]float64, len(categories))
	for i, c := range categories {
		index[c.ID] = i
		out[i] = CategoryStat{CategoryID: c.ID, Name: c.Name}
	}
	for _, t := range tickets {
		if !t.CategoryID.Valid {
			continue
		}
		i, ok := index[t.CategoryID.String]
		if !ok {
			continue
		}
		out[i].Value++
		hours[i] += t.TimeSpent
	}
	for i := range out {
		out[i].HoursSpent = RoundHours(hours[i])
	}
	return out
}

type CompanyRollup struct {
	CompanyID         string       `json:"companyId"`
	Name              string       `json:"name"`
	Tickets           int          `json:"tickets"`
	Resolved          int          `json:"resolved"`
	Pending           int          `json:"pending"`
	HoursSpent        float64      `json:"hoursSpent"`
	AvgResolutionTime null.Float64 `json:"avgResolutionTime"`
	Salary            null.Float64 `json:"salary"`
	ResolvedHours     float64      `json:"resolvedHours"`
	CostPerHour       null.Float64 `json:"costPerHour"`
	CostImpact        float64      `json:"costImpact"`
}

// RollupCompany считает сводку одной компании по её заявкам (уже в диапазоне).
func RollupCompany(company entities.Company, tickets []entities.Ticket) CompanyRollup {
	c := PartitionStatus(tickets)
	cost := ComputeCostImpact(company, tickets)
	return CompanyRollup{
		CompanyID:         company.ID,
		Name:              company.Name,
		Tickets:           len(tickets),
		Resolved:          c.Resolved,
		Pending:           c.Pending,
		HoursSpent:        TotalHours(tickets),
		AvgResolutionTime: AverageResolution(tickets),
		Salary:            company.Salary,
		ResolvedHours:     cost.ResolvedHours,
		CostPerHour:       cost.CostPerHour,
		CostImpact:        cost.Impact,
	}
}

// CompanyRollups - сводка по каждой компании в порядке списка компаний.
// companyName == "" или "all" - без фильтра по имени.
func CompanyRollups(tickets []entities.Ticket, companies []entities.Company, companyName string) []CompanyRollup {
	byCompany := groupByCompany(tickets)
	out := make([]CompanyRollup, 0, len(companies))
	for _, company := range selectCompanies(companies, companyName) {
		out = append(out, RollupCompany(company, byCompany[company.ID]))
	}
	return out
}

func groupByCompany(tickets []entities.Ticket) map[string][]entities.Ticket {
	out := make(map[string][]entities.Ticket)
	for _, t := range tickets {
		if t.CompanyID.Valid {
			out[t.CompanyID.String] = append(out[t.CompanyID.String], t)
		}
	}
	return out
}

func selectCompanies(companies []entities.Company, companyName string) []entities.Company {
	if companyName == "" || companyName == constants.FilterAll {
		return companies
	}
	var out []entities.Company
	for _, c := range companies {
		if c.Name == companyName {
			out = append(out, c)
		}
	}
	return out
}
