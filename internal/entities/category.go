package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

type TicketCategory struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description null.String `json:"description"`
	CreatedAt   time.Time   `json:"created_at"`
}
