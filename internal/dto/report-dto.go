package dto

import (
	"support-desk/internal/entities"
	"support-desk/internal/metrics"
)

// CompanyDetailsDTO - карточка компании: сводка за период и её заявки.
type CompanyDetailsDTO struct {
	Company entities.Company      `json:"company"`
	Period  metrics.TimeRange     `json:"period"`
	Rollup  metrics.CompanyRollup `json:"rollup"`
	Tickets []entities.Ticket     `json:"tickets"`
}
