// Package catalog_repo provides PostgreSQL implementations of the catalog stores.
package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"fulfilment/internal/infrastructure/storage/postgres"
)

// baseRepo carries what every catalog repository needs: the table, its
// columns and the transaction manager that hands out queriers.
type baseRepo struct {
	txm        *postgres.TxManager
	tableName  string
	selectCols []string
}

func newBaseRepo(txm *postgres.TxManager, tableName string, selectCols []string) baseRepo {
	return baseRepo{txm: txm, tableName: tableName, selectCols: selectCols}
}

// builder returns a squirrel builder with PostgreSQL placeholders.
func (r baseRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r baseRepo) baseSelect() squirrel.SelectBuilder {
	return r.builder().Select(r.selectCols...).From(r.tableName)
}

func (r baseRepo) querier(ctx context.Context) postgres.Querier {
	return r.txm.GetQuerier(ctx)
}
