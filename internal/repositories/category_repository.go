package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"support-desk/internal/entities"
	apperrors "support-desk/pkg/errors"
)

const (
	categoryTable  = "ticket_categories"
	categoryFields = "id, name, description, created_at"
)

type CategoryRepositoryInterface interface {
	List(ctx context.Context) ([]entities.TicketCategory, error)
	FindByID(ctx context.Context, id string) (*entities.TicketCategory, error)
	Create(ctx context.Context, c entities.TicketCategory) (*entities.TicketCategory, error)
}

type categoryRepository struct {
	storage *pgxpool.Pool
}

func NewCategoryRepository(storage *pgxpool.Pool) CategoryRepositoryInterface {
	return &categoryRepository{storage: storage}
}

func scanCategory(row pgx.Row) (*entities.TicketCategory, error) {
	var c entities.TicketCategory
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepository) List(ctx context.Context) ([]entities.TicketCategory, error) {
	query, args, err := psql.Select(categoryFields).From(categoryTable).OrderBy("name ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL для категорий: %w", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStoreError("list categories", err)
	}
	defer rows.Close()

	categories := make([]entities.TicketCategory, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, apperrors.NewStoreError("scan category", err)
		}
		categories = append(categories, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("list categories", err)
	}
	return categories, nil
}

func (r *categoryRepository) FindByID(ctx context.Context, id string) (*entities.TicketCategory, error) {
	query, args, err := psql.Select(categoryFields).From(categoryTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL для категории: %w", err)
	}
	c, err := scanCategory(r.storage.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("категория", id)
		}
		return nil, apperrors.NewStoreError("find category", err)
	}
	return c, nil
}

func (r *categoryRepository) Create(ctx context.Context, c entities.TicketCategory) (*entities.TicketCategory, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	query, args, err := psql.Insert(categoryTable).
		Columns("id", "name", "description").
		Values(c.ID, c.Name, c.Description).
		Suffix("RETURNING " + categoryFields).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса Create: %w", err)
	}
	created, err := scanCategory(r.storage.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, apperrors.NewStoreError("create category", err)
	}
	return created, nil
}
