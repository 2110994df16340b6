package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"support-desk/internal/entities"
	apperrors "support-desk/pkg/errors"
)

const (
	commentTable  = "ticket_comments"
	commentFields = "id, ticket_id, comment, author_name, author_email, is_internal, created_at"
)

type CommentRepositoryInterface interface {
	ListByTicket(ctx context.Context, ticketID string, includeInternal bool) ([]entities.Comment, error)
	Create(ctx context.Context, c entities.Comment) (*entities.Comment, error)
}

type commentRepository struct {
	storage *pgxpool.Pool
}

func NewCommentRepository(storage *pgxpool.Pool) CommentRepositoryInterface {
	return &commentRepository{storage: storage}
}

func scanComment(row pgx.Row) (*entities.Comment, error) {
	var c entities.Comment
	if err := row.Scan(&c.ID, &c.TicketID, &c.Comment, &c.AuthorName, &c.AuthorEmail, &c.IsInternal, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// ListByTicket - комментарии в хронологическом порядке.
func (r *commentRepository) ListByTicket(ctx context.Context, ticketID string, includeInternal bool) ([]entities.Comment, error) {
	builder := psql.Select(commentFields).From(commentTable).Where(sq.Eq{"ticket_id": ticketID})
	if !includeInternal {
		builder = builder.Where(sq.Eq{"is_internal": false})
	}
	query, args, err := builder.OrderBy("created_at ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL для комментариев: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStoreError("list comments", err)
	}
	defer rows.Close()

	comments := make([]entities.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, apperrors.NewStoreError("scan comment", err)
		}
		comments = append(comments, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("list comments", err)
	}
	return comments, nil
}

func (r *commentRepository) Create(ctx context.Context, c entities.Comment) (*entities.Comment, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	query, args, err := psql.Insert(commentTable).
		Columns("id", "ticket_id", "comment", "author_name", "author_email", "is_internal").
		Values(c.ID, c.TicketID, c.Comment, c.AuthorName, c.AuthorEmail, c.IsInternal).
		Suffix("RETURNING " + commentFields).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса Create: %w", err)
	}
	created, err := scanComment(r.storage.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, apperrors.NewStoreError("create comment", err)
	}
	return created, nil
}
