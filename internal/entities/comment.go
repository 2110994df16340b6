package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

// Comment - комментарий к заявке. IsInternal скрывает его от внешнего просмотра.
type Comment struct {
	ID          string      `json:"id"`
	TicketID    string      `json:"ticket_id"`
	Comment     string      `json:"comment"`
	AuthorName  string      `json:"author_name"`
	AuthorEmail null.String `json:"author_email"`
	IsInternal  bool        `json:"is_internal"`
	CreatedAt   time.Time   `json:"created_at"`
}
