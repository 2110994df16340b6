package seeders

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SeedDemoCompanies - тестовые клиенты для стенда.
func SeedDemoCompanies(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Наполнение таблицы 'companies' (демо)...")

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO companies (id, name, contact_email, contact_phone, address, salary)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  ON CONFLICT (name) DO NOTHING`

	for _, c := range demoCompaniesData {
		if _, err := tx.Exec(ctx, query, uuid.NewString(), c.Name, c.ContactEmail, c.ContactPhone, c.Address, c.Salary); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
