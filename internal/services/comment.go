package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"support-desk/internal/dto"
	"support-desk/internal/entities"
	"support-desk/internal/events"
	"support-desk/internal/repositories"
	apperrors "support-desk/pkg/errors"
	"support-desk/pkg/eventbus"
)

type CommentServiceInterface interface {
	GetComments(ctx context.Context, ticketID string, includeInternal bool) ([]entities.Comment, error)
	AddComment(ctx context.Context, ticketID string, payload dto.CreateCommentDTO) (*entities.Comment, error)
}

// CommentService: комментарии не входят в снимок и читаются напрямую из хранилища.
type CommentService struct {
	repo       repositories.CommentRepositoryInterface
	ticketRepo repositories.TicketRepositoryInterface
	bus        *eventbus.Bus
	logger     *zap.Logger
}

func NewCommentService(
	repo repositories.CommentRepositoryInterface,
	ticketRepo repositories.TicketRepositoryInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) CommentServiceInterface {
	return &CommentService{repo: repo, ticketRepo: ticketRepo, bus: bus, logger: logger}
}

func (s *CommentService) GetComments(ctx context.Context, ticketID string, includeInternal bool) ([]entities.Comment, error) {
	if _, err := s.ticketRepo.FindByID(ctx, nil, ticketID); err != nil {
		return nil, err
	}
	return s.repo.ListByTicket(ctx, ticketID, includeInternal)
}

func (s *CommentService) AddComment(ctx context.Context, ticketID string, payload dto.CreateCommentDTO) (*entities.Comment, error) {
	verr := &apperrors.ValidationError{}
	requireText(verr, "comment", payload.Comment)
	requireText(verr, "author_name", payload.AuthorName)
	if err := validationOrNil(verr); err != nil {
		return nil, err
	}
	if _, err := s.ticketRepo.FindByID(ctx, nil, ticketID); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, entities.Comment{
		TicketID:    ticketID,
		Comment:     strings.TrimSpace(payload.Comment),
		AuthorName:  strings.TrimSpace(payload.AuthorName),
		AuthorEmail: payload.AuthorEmail,
		IsInternal:  payload.IsInternal,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Добавлен комментарий", zap.String("ticket_id", ticketID), zap.Bool("internal", created.IsInternal))
	s.bus.Publish(ctx, events.CommentAddedEvent{Comment: *created})
	return created, nil
}
