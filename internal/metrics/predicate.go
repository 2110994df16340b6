package metrics

import (
	"strings"

	"golang.org/x/text/cases"

	"support-desk/internal/entities"
	"support-desk/pkg/constants"
)

// TicketQuery - параметры поиска по списку заявок.
// Пустое значение или "all" снимает соответствующее условие.
type TicketQuery struct {
	Search    string
	Status    string
	CompanyID string
}

// Matches: текст (в названии ИЛИ в имени компании) И статус И компания.
func Matches(t entities.Ticket, q TicketQuery) bool {
	return newMatcher(q).match(t)
}

// FilterTickets возвращает подходящие заявки в исходном порядке.
func FilterTickets(tickets []entities.Ticket, q TicketQuery) []entities.Ticket {
	m := newMatcher(q)
	out := make([]entities.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if m.match(t) {
			out = append(out, t)
		}
	}
	return out
}

type matcher struct {
	fold      cases.Caser
	search    string
	status    string
	companyID string
}

func newMatcher(q TicketQuery) *matcher {
	m := &matcher{fold: cases.Fold()}
	m.search = m.fold.String(strings.TrimSpace(q.Search))
	if q.Status != "" && q.Status != constants.FilterAll {
		m.status = constants.NormalizeStatus(q.Status)
	}
	if q.CompanyID != constants.FilterAll {
		m.companyID = q.CompanyID
	}
	return m
}

func (m *matcher) match(t entities.Ticket) bool {
	return m.matchSearch(t) && m.matchStatus(t) && m.matchCompany(t)
}

func (m *matcher) matchSearch(t entities.Ticket) bool {
	if m.search == "" {
		return true
	}
	return strings.Contains(m.fold.String(t.Title), m.search) ||
		strings.Contains(m.fold.String(t.CompanyName), m.search)
}

func (m *matcher) matchStatus(t entities.Ticket) bool {
	return m.status == "" || t.Status == m.status
}

func (m *matcher) matchCompany(t entities.Ticket) bool {
	if m.companyID == "" {
		return true
	}
	return t.CompanyID.Valid && t.CompanyID.String == m.companyID
}
