package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"support-desk/internal/entities"
	apperrors "support-desk/pkg/errors"
)

const (
	ticketTable  = "tickets"
	ticketEntity = "заявка"
)

// Имена компании и категории подтягиваются LEFT JOIN: "висячая" ссылка даёт пустую строку.
var ticketColumns = []string{
	"t.id", "t.title", "t.description", "t.status", "t.priority",
	"t.company_id", "t.category_id", "t.assigned_to", "t.reporter_name", "t.reporter_email",
	"t.due_date", "t.resolved_at", "t.time_spent", "t.created_at", "t.updated_at",
	"COALESCE(c.name, '') AS company_name",
	"COALESCE(cat.name, '') AS category_name",
}

type TicketRepositoryInterface interface {
	List(ctx context.Context) ([]entities.Ticket, error)
	FindByID(ctx context.Context, tx pgx.Tx, id string) (*entities.Ticket, error)
	// FindForUpdate блокирует строку до конца транзакции.
	FindForUpdate(ctx context.Context, tx pgx.Tx, id string) (*entities.Ticket, error)
	Create(ctx context.Context, t entities.Ticket) (*entities.Ticket, error)
	Update(ctx context.Context, tx pgx.Tx, t entities.Ticket) error
	AddTimeSpent(ctx context.Context, id string, hours float64) error
	Delete(ctx context.Context, id string) error
}

type ticketRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewTicketRepository(storage *pgxpool.Pool, logger *zap.Logger) TicketRepositoryInterface {
	return &ticketRepository{storage: storage, logger: logger}
}

func (r *ticketRepository) selectBuilder() sq.SelectBuilder {
	return psql.Select(ticketColumns...).
		From(ticketTable + " AS t").
		LeftJoin(companyTable + " AS c ON c.id = t.company_id").
		LeftJoin(categoryTable + " AS cat ON cat.id = t.category_id")
}

func (r *ticketRepository) scanRow(row pgx.Row) (*entities.Ticket, error) {
	var t entities.Ticket
	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority,
		&t.CompanyID, &t.CategoryID, &t.AssignedTo, &t.ReporterName, &t.ReporterEmail,
		&t.DueDate, &t.ResolvedAt, &t.TimeSpent, &t.CreatedAt, &t.UpdatedAt,
		&t.CompanyName, &t.CategoryName,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *ticketRepository) List(ctx context.Context) ([]entities.Ticket, error) {
	query, args, err := r.selectBuilder().OrderBy("t.created_at DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL для списка заявок: %w", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStoreError("list tickets", err)
	}
	defer rows.Close()

	tickets := make([]entities.Ticket, 0)
	for rows.Next() {
		t, err := r.scanRow(rows)
		if err != nil {
			return nil, apperrors.NewStoreError("scan ticket", err)
		}
		tickets = append(tickets, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("list tickets", err)
	}
	return tickets, nil
}

func (r *ticketRepository) FindByID(ctx context.Context, tx pgx.Tx, id string) (*entities.Ticket, error) {
	return r.findOne(ctx, tx, id, "")
}

func (r *ticketRepository) FindForUpdate(ctx context.Context, tx pgx.Tx, id string) (*entities.Ticket, error) {
	return r.findOne(ctx, tx, id, "FOR UPDATE OF t")
}

func (r *ticketRepository) findOne(ctx context.Context, tx pgx.Tx, id, suffix string) (*entities.Ticket, error) {
	builder := r.selectBuilder().Where(sq.Eq{"t.id": id})
	if suffix != "" {
		builder = builder.Suffix(suffix)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL для заявки: %w", err)
	}
	t, err := r.scanRow(getQuerier(r.storage, tx).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(ticketEntity, id)
		}
		return nil, apperrors.NewStoreError("find ticket", err)
	}
	return t, nil
}

func (r *ticketRepository) Create(ctx context.Context, t entities.Ticket) (*entities.Ticket, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	query, args, err := psql.Insert(ticketTable).
		Columns(
			"id", "title", "description", "status", "priority", "company_id", "category_id",
			"assigned_to", "reporter_name", "reporter_email", "due_date", "resolved_at", "time_spent",
			"created_at", "updated_at",
		).
		Values(
			t.ID, t.Title, t.Description, t.Status, t.Priority, t.CompanyID, t.CategoryID,
			t.AssignedTo, t.ReporterName, t.ReporterEmail, t.DueDate, t.ResolvedAt, t.TimeSpent,
			sq.Expr("NOW()"), sq.Expr("NOW()"),
		).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса Create: %w", err)
	}
	if _, err := r.storage.Exec(ctx, query, args...); err != nil {
		return nil, apperrors.NewStoreError("create ticket", err)
	}
	r.logger.Info("Создана заявка", zap.String("id", t.ID), zap.String("priority", t.Priority))
	return r.FindByID(ctx, nil, t.ID)
}

// Update перезаписывает все изменяемые поля; слияние частичного обновления делает сервис.
func (r *ticketRepository) Update(ctx context.Context, tx pgx.Tx, t entities.Ticket) error {
	query, args, err := psql.Update(ticketTable).
		Set("title", t.Title).
		Set("description", t.Description).
		Set("status", t.Status).
		Set("priority", t.Priority).
		Set("company_id", t.CompanyID).
		Set("category_id", t.CategoryID).
		Set("assigned_to", t.AssignedTo).
		Set("reporter_name", t.ReporterName).
		Set("reporter_email", t.ReporterEmail).
		Set("due_date", t.DueDate).
		Set("resolved_at", t.ResolvedAt).
		Set("time_spent", t.TimeSpent).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": t.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса Update: %w", err)
	}
	result, err := getQuerier(r.storage, tx).Exec(ctx, query, args...)
	if err != nil {
		return apperrors.NewStoreError("update ticket", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(ticketEntity, t.ID)
	}
	return nil
}

// AddTimeSpent прибавляет часы одной командой, без чтения.
func (r *ticketRepository) AddTimeSpent(ctx context.Context, id string, hours float64) error {
	query, args, err := psql.Update(ticketTable).
		Set("time_spent", sq.Expr("time_spent + ?", hours)).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса AddTimeSpent: %w", err)
	}
	result, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return apperrors.NewStoreError("log time", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(ticketEntity, id)
	}
	return nil
}

func (r *ticketRepository) Delete(ctx context.Context, id string) error {
	query, args, err := psql.Delete(ticketTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса Delete: %w", err)
	}
	result, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return apperrors.NewStoreError("delete ticket", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(ticketEntity, id)
	}
	return nil
}
