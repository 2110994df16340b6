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
	companyTable  = "companies"
	companyFields = "id, name, contact_email, contact_phone, address, salary, notes, created_at, updated_at"
	companyEntity = "компания"
)

type CompanyRepositoryInterface interface {
	List(ctx context.Context) ([]entities.Company, error)
	FindByID(ctx context.Context, id string) (*entities.Company, error)
	Create(ctx context.Context, c entities.Company) (*entities.Company, error)
	Update(ctx context.Context, c entities.Company) (*entities.Company, error)
	Delete(ctx context.Context, id string) error
}

type companyRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewCompanyRepository(storage *pgxpool.Pool, logger *zap.Logger) CompanyRepositoryInterface {
	return &companyRepository{storage: storage, logger: logger}
}

func (r *companyRepository) scanRow(row pgx.Row) (*entities.Company, error) {
	var c entities.Company
	err := row.Scan(
		&c.ID, &c.Name, &c.ContactEmail, &c.ContactPhone, &c.Address,
		&c.Salary, &c.Notes, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *companyRepository) findOne(ctx context.Context, where sq.Eq, key string) (*entities.Company, error) {
	query, args, err := psql.Select(companyFields).From(companyTable).Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL для компании: %w", err)
	}
	c, err := r.scanRow(r.storage.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(companyEntity, key)
		}
		return nil, apperrors.NewStoreError("find company", err)
	}
	return c, nil
}

func (r *companyRepository) List(ctx context.Context) ([]entities.Company, error) {
	query, args, err := psql.Select(companyFields).From(companyTable).OrderBy("name ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL для списка компаний: %w", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStoreError("list companies", err)
	}
	defer rows.Close()

	companies := make([]entities.Company, 0)
	for rows.Next() {
		c, err := r.scanRow(rows)
		if err != nil {
			return nil, apperrors.NewStoreError("scan company", err)
		}
		companies = append(companies, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("list companies", err)
	}
	return companies, nil
}

func (r *companyRepository) FindByID(ctx context.Context, id string) (*entities.Company, error) {
	return r.findOne(ctx, sq.Eq{"id": id}, id)
}

func (r *companyRepository) Create(ctx context.Context, c entities.Company) (*entities.Company, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	query, args, err := psql.Insert(companyTable).
		Columns("id", "name", "contact_email", "contact_phone", "address", "salary", "notes", "created_at", "updated_at").
		Values(c.ID, c.Name, c.ContactEmail, c.ContactPhone, c.Address, c.Salary, c.Notes, sq.Expr("NOW()"), sq.Expr("NOW()")).
		Suffix("RETURNING " + companyFields).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса Create: %w", err)
	}
	created, err := r.scanRow(r.storage.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, apperrors.NewStoreError("create company", err)
	}
	r.logger.Info("Создана компания", zap.String("id", created.ID), zap.String("name", created.Name))
	return created, nil
}

func (r *companyRepository) Update(ctx context.Context, c entities.Company) (*entities.Company, error) {
	query, args, err := psql.Update(companyTable).
		Set("name", c.Name).
		Set("contact_email", c.ContactEmail).
		Set("contact_phone", c.ContactPhone).
		Set("address", c.Address).
		Set("salary", c.Salary).
		Set("notes", c.Notes).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": c.ID}).
		Suffix("RETURNING " + companyFields).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса Update: %w", err)
	}
	updated, err := r.scanRow(r.storage.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(companyEntity, c.ID)
		}
		return nil, apperrors.NewStoreError("update company", err)
	}
	return updated, nil
}

// Delete не трогает заявки компании: их company_id становится "висячей" ссылкой.
func (r *companyRepository) Delete(ctx context.Context, id string) error {
	query, args, err := psql.Delete(companyTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса Delete: %w", err)
	}
	result, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return apperrors.NewStoreError("delete company", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(companyEntity, id)
	}
	return nil
}
