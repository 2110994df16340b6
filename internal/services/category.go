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

type CategoryServiceInterface interface {
	GetCategories(ctx context.Context) ([]entities.TicketCategory, error)
	CreateCategory(ctx context.Context, payload dto.CreateCategoryDTO) (*entities.TicketCategory, error)
}

type CategoryService struct {
	repo     repositories.CategoryRepositoryInterface
	snapshot SnapshotSource
	bus      *eventbus.Bus
	logger   *zap.Logger
}

func NewCategoryService(
	repo repositories.CategoryRepositoryInterface,
	snapshot SnapshotSource,
	bus *eventbus.Bus,
	logger *zap.Logger,
) CategoryServiceInterface {
	return &CategoryService{repo: repo, snapshot: snapshot, bus: bus, logger: logger}
}

func (s *CategoryService) GetCategories(ctx context.Context) ([]entities.TicketCategory, error) {
	snap, err := s.snapshot.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Categories, nil
}

func (s *CategoryService) CreateCategory(ctx context.Context, payload dto.CreateCategoryDTO) (*entities.TicketCategory, error) {
	name := strings.TrimSpace(payload.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("name", "обязательное поле")
	}

	var created *entities.TicketCategory
	err := s.snapshot.Mutate(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.repo.Create(ctx, entities.TicketCategory{Name: name, Description: payload.Description})
		return err
	})
	if err != nil {
		return nil, err
	}
	s.bus.Publish(ctx, events.CategoryCreatedEvent{Category: *created})
	return created, nil
}
