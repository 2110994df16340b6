// Package metrics - чистые функции поверх снимка данных: фильтрация,
// агрегаты по диапазонам, стоимость часа и сводки по компаниям.
// Ничего не читает из хранилища и не зависит от текущего времени:
// "сейчас" всегда передаётся параметром.
package metrics

import (
	"math"

	"github.com/aarondl/null/v8"

	"support-desk/internal/entities"
	"support-desk/pkg/constants"
)

// Stats - сводные показатели по набору заявок.
type Stats struct {
	TotalTickets         int          `json:"totalTickets"`
	ResolvedTickets      int          `json:"resolvedTickets"`
	PendingTickets       int          `json:"pendingTickets"`
	ClosedTickets        int          `json:"closedTickets"`
	TotalHoursSpent      float64      `json:"totalHoursSpent"`
	AvgResolutionTime    null.Float64 `json:"avgResolutionTime"`
	TotalCost            float64      `json:"totalCost"`
	CostPerTicket        float64      `json:"costPerTicket"`
	AvgTicketsPerCompany float64      `json:"avgTicketsPerCompany"`
}

// StatusCounts - разбиение по статусам.
type StatusCounts struct {
	Resolved int
	Pending  int
	Closed   int
}

func PartitionStatus(tickets []entities.Ticket) StatusCounts {
	var c StatusCounts
	for _, t := range tickets {
		switch {
		case t.Status == constants.StatusResolved:
			c.Resolved++
		case t.Status == constants.StatusClosed:
			c.Closed++
		case constants.IsPendingStatus(t.Status):
			c.Pending++
		}
	}
	return c
}

// TotalHours - сумма time_spent, округлённая до десятых.
func TotalHours(tickets []entities.Ticket) float64 {
	return RoundHours(sumHours(tickets))
}

func sumHours(tickets []entities.Ticket) float64 {
	var sum float64
	for _, t := range tickets {
		sum += t.TimeSpent
	}
	return sum
}

// AverageResolution - среднее арифметическое времени решения в часах, без округления.
// Если решённых заявок с resolved_at нет, результат невалиден ("нет данных"), а не 0.
func AverageResolution(tickets []entities.Ticket) null.Float64 {
	var sum float64
	var n int
	for _, t := range tickets {
		if h, ok := t.ResolutionHours(); ok {
			sum += h
			n++
		}
	}
	if n == 0 {
		return null.Float64{}
	}
	return null.Float64From(sum / float64(n))
}

// CostImpact - расчёт стоимости часа для одной компании.
type CostImpact struct {
	ResolvedHours float64
	CostPerHour   null.Float64
	Impact        float64
}

// ComputeCostImpact: tickets - заявки компании, уже отфильтрованные по диапазону.
// Ставка считается по решённым заявкам, а применяется ко всем часам компании.
func ComputeCostImpact(company entities.Company, tickets []entities.Ticket) CostImpact {
	var res CostImpact
	var resolvedHours, allHours float64
	for _, t := range tickets {
		allHours += t.TimeSpent
		if t.IsResolved() {
			resolvedHours += t.TimeSpent
		}
	}
	res.ResolvedHours = RoundHours(resolvedHours)

	if !company.Salary.Valid || resolvedHours <= 0 {
		return res
	}
	rate := company.Salary.Float64 / resolvedHours
	res.CostPerHour = null.Float64From(RoundMoney(rate))
	res.Impact = RoundMoney(rate * allHours)
	return res
}

// RoundHours округляет до десятых, половина - от нуля.
func RoundHours(v float64) float64 {
	return math.Round(v*10) / 10
}

func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}
