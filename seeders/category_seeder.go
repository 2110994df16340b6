package seeders

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SeedCategories добавляет стандартные категории, существующие не трогает.
func SeedCategories(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Наполнение таблицы 'ticket_categories'...")

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO ticket_categories (id, name, description) VALUES ($1, $2, $3)
			  ON CONFLICT (name) DO NOTHING`

	added := 0
	for _, c := range categoriesData {
		tag, err := tx.Exec(ctx, query, uuid.NewString(), c.Name, c.Description)
		if err != nil {
			return err
		}
		added += int(tag.RowsAffected())
	}
	log.Printf("    - Добавлено категорий: %d", added)

	return tx.Commit(ctx)
}
