package entities

import (
	"time"

	"github.com/aarondl/null/v8"

	"support-desk/pkg/constants"
)

type Ticket struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	Status        string      `json:"status"`
	Priority      string      `json:"priority"`
	CompanyID     null.String `json:"company_id"`
	CategoryID    null.String `json:"category_id"`
	AssignedTo    string      `json:"assigned_to"`
	ReporterName  string      `json:"reporter_name"`
	ReporterEmail string      `json:"reporter_email"`
	DueDate       null.Time   `json:"due_date"`
	ResolvedAt    null.Time   `json:"resolved_at"`
	TimeSpent     float64     `json:"time_spent"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`

	// Заполняются через LEFT JOIN; пустая строка, если ссылка "висит".
	CompanyName  string `json:"company_name"`
	CategoryName string `json:"category_name"`
}

func (t *Ticket) IsResolved() bool {
	return t.Status == constants.StatusResolved
}

func (t *Ticket) IsPending() bool {
	return constants.IsPendingStatus(t.Status)
}

// ResolutionHours - время от создания до решения; ok=false, если заявка не решена.
func (t *Ticket) ResolutionHours() (float64, bool) {
	if !t.IsResolved() || !t.ResolvedAt.Valid {
		return 0, false
	}
	return t.ResolvedAt.Time.Sub(t.CreatedAt).Hours(), true
}
