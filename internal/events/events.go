package events

import "support-desk/internal/entities"

const (
	TicketCreatedName   = "ticket.created"
	TicketUpdatedName   = "ticket.updated"
	TicketDeletedName   = "ticket.deleted"
	CompanyChangedName  = "company.changed"
	CategoryCreatedName = "category.created"
	CommentAddedName    = "comment.added"
)

type TicketCreatedEvent struct {
	Ticket entities.Ticket
}

func (e TicketCreatedEvent) Name() string { return TicketCreatedName }

// TicketUpdatedEvent несёт состояние до и после, чтобы слушатели видели переходы статуса.
type TicketUpdatedEvent struct {
	Before entities.Ticket
	After  entities.Ticket
}

func (e TicketUpdatedEvent) Name() string { return TicketUpdatedName }

// BecameResolved - заявка перешла в resolved этим обновлением.
func (e TicketUpdatedEvent) BecameResolved() bool {
	return !e.Before.IsResolved() && e.After.IsResolved()
}

type TicketDeletedEvent struct {
	TicketID string
}

func (e TicketDeletedEvent) Name() string { return TicketDeletedName }

// CompanyChangedEvent: Action - created, updated или deleted.
type CompanyChangedEvent struct {
	CompanyID string
	Action    string
}

func (e CompanyChangedEvent) Name() string { return CompanyChangedName }

type CategoryCreatedEvent struct {
	Category entities.TicketCategory
}

func (e CategoryCreatedEvent) Name() string { return CategoryCreatedName }

type CommentAddedEvent struct {
	Comment entities.Comment
}

func (e CommentAddedEvent) Name() string { return CommentAddedName }
