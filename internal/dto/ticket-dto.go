package dto

import "support-desk/internal/entities"

// CreateTicketDTO: due_date принимается как RFC3339 или YYYY-MM-DD.
type CreateTicketDTO struct {
	Title         string  `json:"title" validate:"required,max=500"`
	Description   string  `json:"description" validate:"required"`
	Status        string  `json:"status" validate:"omitempty,ticket_status"`
	Priority      string  `json:"priority" validate:"required,ticket_priority"`
	CompanyID     string  `json:"company_id" validate:"required"`
	CategoryID    string  `json:"category_id"`
	AssignedTo    string  `json:"assigned_to" validate:"omitempty,max=255"`
	ReporterName  string  `json:"reporter_name" validate:"omitempty,max=255"`
	ReporterEmail string  `json:"reporter_email" validate:"omitempty,email"`
	DueDate       string  `json:"due_date"`
	TimeSpent     float64 `json:"time_spent" validate:"gte=0"`
}

// UpdateTicketDTO: меняются только присланные поля.
// Для category_id и due_date пустая строка означает "очистить".
type UpdateTicketDTO struct {
	Title         *string  `json:"title,omitempty" validate:"omitempty,min=1,max=500"`
	Description   *string  `json:"description,omitempty" validate:"omitempty,min=1"`
	Status        *string  `json:"status,omitempty" validate:"omitempty,ticket_status"`
	Priority      *string  `json:"priority,omitempty" validate:"omitempty,ticket_priority"`
	CompanyID     *string  `json:"company_id,omitempty" validate:"omitempty,min=1"`
	CategoryID    *string  `json:"category_id,omitempty"`
	AssignedTo    *string  `json:"assigned_to,omitempty" validate:"omitempty,max=255"`
	ReporterName  *string  `json:"reporter_name,omitempty" validate:"omitempty,max=255"`
	ReporterEmail *string  `json:"reporter_email,omitempty" validate:"omitempty,email"`
	DueDate       *string  `json:"due_date,omitempty"`
	TimeSpent     *float64 `json:"time_spent,omitempty" validate:"omitempty,gte=0"`
}

type LogTimeDTO struct {
	Hours float64 `json:"hours" validate:"required,gt=0,lte=24"`
}

// TicketFormDTO - данные для предзаполнения формы новой заявки.
type TicketFormDTO struct {
	Company    *entities.Company         `json:"company"`
	Companies  []entities.Company        `json:"companies"`
	Categories []entities.TicketCategory `json:"categories"`
	Priorities []string                  `json:"priorities"`
	Statuses   []string                  `json:"statuses"`
}
