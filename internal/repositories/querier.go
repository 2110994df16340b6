package repositories

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier - общее у пула и транзакции.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// getQuerier - транзакция, если она есть, иначе пул.
func getQuerier(pool *pgxpool.Pool, tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return pool
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
