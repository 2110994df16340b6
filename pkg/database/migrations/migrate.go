package migrations

import (
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed sql/*.sql
var embedMigrations embed.FS

// Up применяет все недостающие миграции из встроенного каталога sql/.
func Up(pool *pgxpool.Pool, logger *zap.Logger) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(zap.NewStdLog(logger))
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose: не удалось выбрать диалект: %w", err)
	}

	before, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("goose: не удалось получить версию схемы: %w", err)
	}
	if err := goose.Up(db, "sql"); err != nil {
		return fmt.Errorf("goose: миграция не выполнена: %w", err)
	}
	after, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("goose: не удалось получить версию схемы: %w", err)
	}

	logger.Info("Миграции применены", zap.Int64("from_version", before), zap.Int64("to_version", after))
	return nil
}
