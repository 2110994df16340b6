package snapshot

import (
	"strings"
	"time"

	"support-desk/internal/entities"
)

// Snapshot - неизменяемый срез всех коллекций на момент загрузки.
// Все расчёты работают только с ним; после каждой мутации загружается новый.
type Snapshot struct {
	Companies  []entities.Company        `json:"companies"`
	Tickets    []entities.Ticket         `json:"tickets"`
	Categories []entities.TicketCategory `json:"categories"`
	TakenAt    time.Time                 `json:"taken_at"`
	// Порядковый номер запроса, который его загрузил (last-request-wins).
	Seq uint64 `json:"-"`
}

func (s *Snapshot) CompanyByID(id string) (entities.Company, bool) {
	for _, c := range s.Companies {
		if c.ID == id {
			return c, true
		}
	}
	return entities.Company{}, false
}

// CompanyByName сравнивает без учёта регистра: имя компании уникально.
func (s *Snapshot) CompanyByName(name string) (entities.Company, bool) {
	for _, c := range s.Companies {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return entities.Company{}, false
}

func (s *Snapshot) CategoryByID(id string) (entities.TicketCategory, bool) {
	for _, c := range s.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return entities.TicketCategory{}, false
}

func (s *Snapshot) TicketByID(id string) (entities.Ticket, bool) {
	for _, t := range s.Tickets {
		if t.ID == id {
			return t, true
		}
	}
	return entities.Ticket{}, false
}

func (s *Snapshot) TicketsOfCompany(companyID string) []entities.Ticket {
	var out []entities.Ticket
	for _, t := range s.Tickets {
		if t.CompanyID.Valid && t.CompanyID.String == companyID {
			out = append(out, t)
		}
	}
	return out
}
