package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"support-desk/internal/dto"
	"support-desk/internal/entities"
	"support-desk/internal/events"
	"support-desk/internal/metrics"
	"support-desk/internal/repositories"
	"support-desk/pkg/customvalidator"
	apperrors "support-desk/pkg/errors"
	"support-desk/pkg/eventbus"
)

type CompanyServiceInterface interface {
	GetCompanies(ctx context.Context, search string) ([]entities.Company, error)
	FindCompany(ctx context.Context, id string) (*entities.Company, error)
	GetCompanyDetails(ctx context.Context, id string, rangeParam string) (*dto.CompanyDetailsDTO, error)
	CreateCompany(ctx context.Context, payload dto.CreateCompanyDTO) (*entities.Company, error)
	UpdateCompany(ctx context.Context, id string, payload dto.UpdateCompanyDTO) (*entities.Company, error)
	DeleteCompany(ctx context.Context, id string) error
}

type CompanyService struct {
	repo     repositories.CompanyRepositoryInterface
	snapshot SnapshotSource
	bus      *eventbus.Bus
	clock    Clock
	logger   *zap.Logger
}

func NewCompanyService(
	repo repositories.CompanyRepositoryInterface,
	snapshot SnapshotSource,
	bus *eventbus.Bus,
	clock Clock,
	logger *zap.Logger,
) CompanyServiceInterface {
	return &CompanyService{repo: repo, snapshot: snapshot, bus: bus, clock: clock, logger: logger}
}

func (s *CompanyService) GetCompanies(ctx context.Context, search string) ([]entities.Company, error) {
	snap, err := s.snapshot.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return snap.Companies, nil
	}
	out := make([]entities.Company, 0)
	for _, c := range snap.Companies {
		if strings.Contains(strings.ToLower(c.Name), search) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *CompanyService) FindCompany(ctx context.Context, id string) (*entities.Company, error) {
	snap, err := s.snapshot.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	c, ok := snap.CompanyByID(id)
	if !ok {
		return nil, apperrors.NewNotFoundError("компания", id)
	}
	return &c, nil
}

// GetCompanyDetails - карточка компании: сводка за период и все её заявки.
func (s *CompanyService) GetCompanyDetails(ctx context.Context, id string, rangeParam string) (*dto.CompanyDetailsDTO, error) {
	r, err := metrics.ParseTimeRange(rangeParam)
	if err != nil {
		return nil, apperrors.NewValidationError("range", err.Error())
	}
	snap, err := s.snapshot.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	company, ok := snap.CompanyByID(id)
	if !ok {
		return nil, apperrors.NewNotFoundError("компания", id)
	}

	tickets := snap.TicketsOfCompany(id)
	if tickets == nil {
		tickets = make([]entities.Ticket, 0)
	}
	inRange := metrics.FilterByRange(tickets, r, s.clock())
	return &dto.CompanyDetailsDTO{
		Company: company,
		Period:  r,
		Rollup:  metrics.RollupCompany(company, inRange),
		Tickets: tickets,
	}, nil
}

func (s *CompanyService) CreateCompany(ctx context.Context, payload dto.CreateCompanyDTO) (*entities.Company, error) {
	company, err := companyFromPayload(payload)
	if err != nil {
		return nil, err
	}

	var created *entities.Company
	err = s.snapshot.Mutate(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.repo.Create(ctx, company)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.bus.Publish(ctx, events.CompanyChangedEvent{CompanyID: created.ID, Action: "created"})
	return created, nil
}

func (s *CompanyService) UpdateCompany(ctx context.Context, id string, payload dto.UpdateCompanyDTO) (*entities.Company, error) {
	company, err := companyFromPayload(payload)
	if err != nil {
		return nil, err
	}
	company.ID = id

	var updated *entities.Company
	err = s.snapshot.Mutate(ctx, func(ctx context.Context) error {
		var err error
		updated, err = s.repo.Update(ctx, company)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.bus.Publish(ctx, events.CompanyChangedEvent{CompanyID: id, Action: "updated"})
	return updated, nil
}

// DeleteCompany оставляет заявки компании на месте, имя компании у них станет пустым.
func (s *CompanyService) DeleteCompany(ctx context.Context, id string) error {
	err := s.snapshot.Mutate(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.logger.Info("Компания удалена", zap.String("id", id))
	s.bus.Publish(ctx, events.CompanyChangedEvent{CompanyID: id, Action: "deleted"})
	return nil
}

// companyFromPayload проверяет форму до обращения к хранилищу.
func companyFromPayload(p dto.CreateCompanyDTO) (entities.Company, error) {
	verr := &apperrors.ValidationError{}
	requireText(verr, "name", p.Name)
	email := strings.TrimSpace(p.ContactEmail)
	switch {
	case email == "":
		verr.Add("contact_email", "обязательное поле")
	case !customvalidator.IsEmail(email):
		verr.Add("contact_email", "неверный формат email")
	}
	if p.Salary.Valid && p.Salary.Float64 < 0 {
		verr.Add("salary", "не может быть отрицательной")
	}
	if err := validationOrNil(verr); err != nil {
		return entities.Company{}, err
	}

	return entities.Company{
		Name:         strings.TrimSpace(p.Name),
		ContactEmail: email,
		ContactPhone: strings.TrimSpace(p.ContactPhone),
		Address:      strings.TrimSpace(p.Address),
		Salary:       p.Salary,
		Notes:        p.Notes,
	}, nil
}
