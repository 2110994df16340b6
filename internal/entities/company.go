package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

// Company - клиент, которого обслуживает поддержка.
// Salary - месячная сумма договора; отработанные часы не хранятся, а считаются по заявкам.
type Company struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	ContactEmail string       `json:"contact_email"`
	ContactPhone string       `json:"contact_phone"`
	Address      string       `json:"address"`
	Salary       null.Float64 `json:"salary"`
	Notes        null.String  `json:"notes"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}
