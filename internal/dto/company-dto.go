package dto

import "github.com/aarondl/null/v8"

// CreateCompanyDTO: форма компании. Она же используется при редактировании,
// форма всегда присылает все поля.
type CreateCompanyDTO struct {
	Name         string       `json:"name" validate:"required,max=255"`
	ContactEmail string       `json:"contact_email" validate:"required,email"`
	ContactPhone string       `json:"contact_phone" validate:"omitempty,max=50"`
	Address      string       `json:"address" validate:"omitempty,max=500"`
	Salary       null.Float64 `json:"salary" validate:"omitempty,gte=0"`
	Notes        null.String  `json:"notes"`
}

type UpdateCompanyDTO = CreateCompanyDTO
