package repositories

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"support-desk/internal/entities"
	"support-desk/internal/snapshot"
)

// SnapshotLoader читает три коллекции параллельно.
// Если упал хотя бы один запрос, снимок не собирается.
type SnapshotLoader struct {
	companies  CompanyRepositoryInterface
	tickets    TicketRepositoryInterface
	categories CategoryRepositoryInterface
}

func NewSnapshotLoader(
	companies CompanyRepositoryInterface,
	tickets TicketRepositoryInterface,
	categories CategoryRepositoryInterface,
) *SnapshotLoader {
	return &SnapshotLoader{companies: companies, tickets: tickets, categories: categories}
}

func (l *SnapshotLoader) Load(ctx context.Context) (*snapshot.Snapshot, error) {
	var (
		companies  []entities.Company
		tickets    []entities.Ticket
		categories []entities.TicketCategory
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		companies, err = l.companies.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		tickets, err = l.tickets.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		categories, err = l.categories.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &snapshot.Snapshot{
		Companies:  companies,
		Tickets:    tickets,
		Categories: categories,
		TakenAt:    time.Now(),
	}, nil
}
