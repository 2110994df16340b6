package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"support-desk/internal/dto"
	"support-desk/internal/entities"
	"support-desk/internal/events"
	"support-desk/internal/metrics"
	"support-desk/internal/repositories"
	"support-desk/pkg/constants"
	"support-desk/pkg/customvalidator"
	apperrors "support-desk/pkg/errors"
	"support-desk/pkg/eventbus"
	"support-desk/pkg/utils"
)

type TicketServiceInterface interface {
	GetTickets(ctx context.Context, query metrics.TicketQuery) ([]entities.Ticket, error)
	FindTicket(ctx context.Context, id string) (*entities.Ticket, error)
	GetNewTicketForm(ctx context.Context, company string) (*dto.TicketFormDTO, error)
	CreateTicket(ctx context.Context, payload dto.CreateTicketDTO) (*entities.Ticket, error)
	UpdateTicket(ctx context.Context, id string, payload dto.UpdateTicketDTO) (*entities.Ticket, error)
	LogTime(ctx context.Context, id string, payload dto.LogTimeDTO) (*entities.Ticket, error)
	DeleteTicket(ctx context.Context, id string) error
}

type TicketService struct {
	repo         repositories.TicketRepositoryInterface
	companyRepo  repositories.CompanyRepositoryInterface
	categoryRepo repositories.CategoryRepositoryInterface
	txManager    repositories.TxManagerInterface
	snapshot     SnapshotSource
	bus          *eventbus.Bus
	clock        Clock
	logger       *zap.Logger
}

func NewTicketService(
	repo repositories.TicketRepositoryInterface,
	companyRepo repositories.CompanyRepositoryInterface,
	categoryRepo repositories.CategoryRepositoryInterface,
	txManager repositories.TxManagerInterface,
	snapshot SnapshotSource,
	bus *eventbus.Bus,
	clock Clock,
	logger *zap.Logger,
) TicketServiceInterface {
	return &TicketService{
		repo:         repo,
		companyRepo:  companyRepo,
		categoryRepo: categoryRepo,
		txManager:    txManager,
		snapshot:     snapshot,
		bus:          bus,
		clock:        clock,
		logger:       logger,
	}
}

func (s *TicketService) GetTickets(ctx context.Context, query metrics.TicketQuery) ([]entities.Ticket, error) {
	snap, err := s.snapshot.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	return metrics.FilterTickets(snap.Tickets, query), nil
}

func (s *TicketService) FindTicket(ctx context.Context, id string) (*entities.Ticket, error) {
	snap, err := s.snapshot.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	t, ok := snap.TicketByID(id)
	if !ok {
		return nil, apperrors.NewNotFoundError("заявка", id)
	}
	return &t, nil
}

// GetNewTicketForm: company - id или имя компании для предзаполнения.
// Неизвестная компания не ошибка, форма просто останется пустой.
func (s *TicketService) GetNewTicketForm(ctx context.Context, company string) (*dto.TicketFormDTO, error) {
	snap, err := s.snapshot.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	form := &dto.TicketFormDTO{
		Companies:  snap.Companies,
		Categories: snap.Categories,
		Priorities: constants.AllPriorities,
		Statuses:   constants.AllStatuses,
	}
	if company = strings.TrimSpace(company); company != "" {
		if c, ok := snap.CompanyByID(company); ok {
			form.Company = &c
		} else if c, ok := snap.CompanyByName(company); ok {
			form.Company = &c
		}
	}
	return form, nil
}

func (s *TicketService) CreateTicket(ctx context.Context, payload dto.CreateTicketDTO) (*entities.Ticket, error) {
	now := s.clock()
	ticket, err := s.ticketFromPayload(payload)
	if err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, ticket.CompanyID, ticket.CategoryID); err != nil {
		return nil, err
	}
	applyStatusTransition(nil, &ticket, now)

	var created *entities.Ticket
	err = s.snapshot.Mutate(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.repo.Create(ctx, ticket)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.bus.Publish(ctx, events.TicketCreatedEvent{Ticket: *created})
	return created, nil
}

// UpdateTicket сливает присланные поля с текущим состоянием под блокировкой строки.
func (s *TicketService) UpdateTicket(ctx context.Context, id string, payload dto.UpdateTicketDTO) (*entities.Ticket, error) {
	if err := validateUpdate(payload); err != nil {
		return nil, err
	}

	now := s.clock()
	var before, after entities.Ticket
	err := s.snapshot.Mutate(ctx, func(ctx context.Context) error {
		return s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
			current, err := s.repo.FindForUpdate(ctx, tx, id)
			if err != nil {
				return err
			}
			before = *current
			after = *current
			if err := mergeUpdate(&after, payload, now.Location()); err != nil {
				return err
			}
			// Ссылки проверяются, только если их меняют.
			var companyID, categoryID null.String
			if payload.CompanyID != nil {
				companyID = after.CompanyID
			}
			if payload.CategoryID != nil {
				categoryID = after.CategoryID
			}
			if err := s.checkReferences(ctx, companyID, categoryID); err != nil {
				return err
			}
			applyStatusTransition(&before, &after, now)
			return s.repo.Update(ctx, tx, after)
		})
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	s.bus.Publish(ctx, events.TicketUpdatedEvent{Before: before, After: *updated})
	return updated, nil
}

// LogTime прибавляет отработанные часы к time_spent.
func (s *TicketService) LogTime(ctx context.Context, id string, payload dto.LogTimeDTO) (*entities.Ticket, error) {
	if payload.Hours <= 0 {
		return nil, apperrors.NewValidationError("hours", "должно быть больше нуля")
	}

	var before *entities.Ticket
	err := s.snapshot.Mutate(ctx, func(ctx context.Context) error {
		var err error
		if before, err = s.repo.FindByID(ctx, nil, id); err != nil {
			return err
		}
		return s.repo.AddTimeSpent(ctx, id, payload.Hours)
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Учтено время по заявке", zap.String("id", id), zap.Float64("hours", payload.Hours))
	s.bus.Publish(ctx, events.TicketUpdatedEvent{Before: *before, After: *updated})
	return updated, nil
}

func (s *TicketService) DeleteTicket(ctx context.Context, id string) error {
	err := s.snapshot.Mutate(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.bus.Publish(ctx, events.TicketDeletedEvent{TicketID: id})
	return nil
}

func (s *TicketService) ticketFromPayload(p dto.CreateTicketDTO) (entities.Ticket, error) {
	verr := &apperrors.ValidationError{}
	requireText(verr, "title", p.Title)
	requireText(verr, "description", p.Description)
	requireText(verr, "company_id", p.CompanyID)

	priority := strings.ToLower(strings.TrimSpace(p.Priority))
	switch {
	case priority == "":
		verr.Add("priority", "обязательное поле")
	case !constants.IsKnownPriority(priority):
		verr.Add("priority", "неизвестный приоритет")
	}

	status := constants.StatusOpen
	if p.Status != "" {
		status = constants.NormalizeStatus(p.Status)
		if !constants.IsKnownStatus(status) {
			verr.Add("status", "неизвестный статус")
		}
	}
	if p.ReporterEmail != "" && !customvalidator.IsEmail(p.ReporterEmail) {
		verr.Add("reporter_email", "неверный формат email")
	}
	if p.TimeSpent < 0 {
		verr.Add("time_spent", "не может быть отрицательным")
	}
	dueDate, err := parseDueDate(p.DueDate, s.clock().Location())
	if err != nil {
		verr.Add("due_date", "неверный формат даты")
	}
	if err := validationOrNil(verr); err != nil {
		return entities.Ticket{}, err
	}

	return entities.Ticket{
		Title:         strings.TrimSpace(p.Title),
		Description:   strings.TrimSpace(p.Description),
		Status:        status,
		Priority:      priority,
		CompanyID:     null.StringFrom(strings.TrimSpace(p.CompanyID)),
		CategoryID:    optionalID(p.CategoryID),
		AssignedTo:    strings.TrimSpace(p.AssignedTo),
		ReporterName:  strings.TrimSpace(p.ReporterName),
		ReporterEmail: strings.TrimSpace(p.ReporterEmail),
		DueDate:       dueDate,
		TimeSpent:     p.TimeSpent,
	}, nil
}

// checkReferences: компания и категория должны существовать на момент записи.
func (s *TicketService) checkReferences(ctx context.Context, companyID, categoryID null.String) error {
	verr := &apperrors.ValidationError{}
	if companyID.Valid {
		if _, err := s.companyRepo.FindByID(ctx, companyID.String); err != nil {
			if !errors.Is(err, apperrors.ErrNotFound) {
				return err
			}
			verr.Add("company_id", "компания не найдена")
		}
	}
	if categoryID.Valid {
		if _, err := s.categoryRepo.FindByID(ctx, categoryID.String); err != nil {
			if !errors.Is(err, apperrors.ErrNotFound) {
				return err
			}
			verr.Add("category_id", "категория не найдена")
		}
	}
	return validationOrNil(verr)
}

func validateUpdate(p dto.UpdateTicketDTO) error {
	verr := &apperrors.ValidationError{}
	if p.Title != nil {
		requireText(verr, "title", *p.Title)
	}
	if p.Description != nil {
		requireText(verr, "description", *p.Description)
	}
	if p.CompanyID != nil {
		requireText(verr, "company_id", *p.CompanyID)
	}
	if p.Status != nil && !constants.IsKnownStatus(constants.NormalizeStatus(*p.Status)) {
		verr.Add("status", "неизвестный статус")
	}
	if p.Priority != nil && !constants.IsKnownPriority(strings.ToLower(*p.Priority)) {
		verr.Add("priority", "неизвестный приоритет")
	}
	if p.ReporterEmail != nil && *p.ReporterEmail != "" && !customvalidator.IsEmail(*p.ReporterEmail) {
		verr.Add("reporter_email", "неверный формат email")
	}
	if p.TimeSpent != nil && *p.TimeSpent < 0 {
		verr.Add("time_spent", "не может быть отрицательным")
	}
	return validationOrNil(verr)
}

// mergeUpdate переносит присланные поля; текстовые поля обрезаются.
// Дата без времени читается в часовом поясе бизнеса loc, как и при создании.
func mergeUpdate(t *entities.Ticket, p dto.UpdateTicketDTO, loc *time.Location) error {
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		t.Description = strings.TrimSpace(*p.Description)
	}
	if p.Status != nil {
		t.Status = constants.NormalizeStatus(*p.Status)
	}
	if p.Priority != nil {
		t.Priority = strings.ToLower(strings.TrimSpace(*p.Priority))
	}
	if p.CompanyID != nil {
		t.CompanyID = null.StringFrom(strings.TrimSpace(*p.CompanyID))
	}
	if p.CategoryID != nil {
		t.CategoryID = optionalID(*p.CategoryID)
	}
	if p.AssignedTo != nil {
		t.AssignedTo = strings.TrimSpace(*p.AssignedTo)
	}
	if p.ReporterName != nil {
		t.ReporterName = strings.TrimSpace(*p.ReporterName)
	}
	if p.ReporterEmail != nil {
		t.ReporterEmail = strings.TrimSpace(*p.ReporterEmail)
	}
	if p.DueDate != nil {
		due, err := parseDueDate(*p.DueDate, loc)
		if err != nil {
			return apperrors.NewValidationError("due_date", "неверный формат даты")
		}
		t.DueDate = due
	}
	if p.TimeSpent != nil {
		t.TimeSpent = *p.TimeSpent
	}
	return nil
}

// applyStatusTransition ставит resolved_at при переходе в resolved
// и очищает его, когда заявка из resolved уходит.
// before == nil - создание заявки.
func applyStatusTransition(before, after *entities.Ticket, now time.Time) {
	wasResolved := before != nil && before.IsResolved()
	switch {
	case after.IsResolved() && !wasResolved:
		after.ResolvedAt = null.TimeFrom(now)
	case after.IsResolved() && wasResolved:
		after.ResolvedAt = before.ResolvedAt
	default:
		after.ResolvedAt = null.Time{}
	}
}

func optionalID(id string) null.String {
	id = strings.TrimSpace(id)
	if id == "" {
		return null.String{}
	}
	return null.StringFrom(id)
}

func parseDueDate(raw string, loc *time.Location) (null.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return null.Time{}, nil
	}
	t, err := utils.ParseDateParam(raw, loc)
	if err != nil {
		return null.Time{}, err
	}
	return null.TimeFrom(t), nil
}
