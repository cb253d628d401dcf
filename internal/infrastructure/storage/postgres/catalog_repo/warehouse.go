package catalog_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"fulfilment/internal/core/apperror"
	"fulfilment/internal/core/id"
	"fulfilment/internal/domain/catalogs/warehouse"
	"fulfilment/internal/infrastructure/storage/postgres"
)

const (
	warehouseTable           = "warehouses"
	warehouseActiveCodeIndex = "warehouses_active_code_uq"
)

// warehouseRow is the persisted shape of a warehouse record.
type warehouseRow struct {
	ID               id.ID      `db:"id"`
	BusinessUnitCode string     `db:"business_unit_code"`
	Location         string     `db:"location"`
	Capacity         int        `db:"capacity"`
	Stock            int        `db:"stock"`
	CreatedAt        time.Time  `db:"created_at"`
	ArchivedAt       *time.Time `db:"archived_at"`
}

var warehouseColumns = postgres.ExtractDBColumns[warehouseRow]()

func toWarehouseRow(w *warehouse.Warehouse) warehouseRow {
	row := warehouseRow{
		BusinessUnitCode: w.BusinessUnitCode,
		Location:         w.Location,
		Capacity:         w.CapacityValue(),
		Stock:            w.StockValue(),
		CreatedAt:        w.CreatedAt.UTC(),
	}
	if at, ok := w.ArchivedAt(); ok {
		at = at.UTC()
		row.ArchivedAt = &at
	}
	return row
}

func (row warehouseRow) toDomain() *warehouse.Warehouse {
	w := warehouse.New(row.BusinessUnitCode, row.Location, row.Capacity, row.Stock)
	w.CreatedAt = row.CreatedAt.UTC()
	w.State = warehouse.Active{}
	if row.ArchivedAt != nil {
		w.State = warehouse.Archived{At: row.ArchivedAt.UTC()}
	}
	return w
}

// WarehouseRepo implements warehouse.Store.
// The partial unique index warehouses_active_code_uq keeps at most one
// active record per business unit code.
type WarehouseRepo struct {
	baseRepo
}

var _ warehouse.Store = (*WarehouseRepo)(nil)

// NewWarehouseRepo creates a new warehouse repository.
func NewWarehouseRepo(txm *postgres.TxManager) *WarehouseRepo {
	return &WarehouseRepo{baseRepo: newBaseRepo(txm, warehouseTable, warehouseColumns)}
}

// GetAll returns every record, archived ones included, oldest first.
func (r *WarehouseRepo) GetAll(ctx context.Context) ([]*warehouse.Warehouse, error) {
	sql, args, err := r.baseSelect().OrderBy("created_at", "id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []warehouseRow
	if err := pgxscan.Select(ctx, r.querier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select warehouses: %w", err)
	}

	out := make([]*warehouse.Warehouse, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// Create inserts w under a fresh row id.
func (r *WarehouseRepo) Create(ctx context.Context, w *warehouse.Warehouse) error {
	row := toWarehouseRow(w)
	row.ID = id.New()

	sql, args, err := r.builder().
		Insert(r.tableName).
		SetMap(postgres.StructToMap(row)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		if postgres.IsUniqueViolation(err, warehouseActiveCodeIndex) {
			return apperror.NewValidation("an active warehouse with this business unit code already exists").
				WithDetail("rule", warehouse.RuleUniqueActiveCode).
				WithDetail("businessUnitCode", w.BusinessUnitCode).
				WithCause(err)
		}
		return fmt.Errorf("insert %s: %w", r.tableName, err)
	}
	return nil
}

// Update overwrites the active record for w.BusinessUnitCode.
// No rows affected is not an error.
func (r *WarehouseRepo) Update(ctx context.Context, w *warehouse.Warehouse) error {
	row := toWarehouseRow(w)

	sql, args, err := r.builder().
		Update(r.tableName).
		Set("location", row.Location).
		Set("capacity", row.Capacity).
		Set("stock", row.Stock).
		Set("created_at", row.CreatedAt).
		Set("archived_at", row.ArchivedAt).
		Where(squirrel.Eq{"business_unit_code": row.BusinessUnitCode, "archived_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("update %s: %w", r.tableName, err)
	}
	return nil
}

// Remove hard-deletes the active record for w.BusinessUnitCode.
func (r *WarehouseRepo) Remove(ctx context.Context, w *warehouse.Warehouse) error {
	sql, args, err := r.builder().
		Delete(r.tableName).
		Where(squirrel.Eq{"business_unit_code": w.BusinessUnitCode, "archived_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete %s: %w", r.tableName, err)
	}
	return nil
}

// FindByBusinessUnitCode returns the active record for code.
func (r *WarehouseRepo) FindByBusinessUnitCode(ctx context.Context, code string) (*warehouse.Warehouse, error) {
	sql, args, err := r.baseSelect().
		Where(squirrel.Eq{"business_unit_code": code, "archived_at": nil}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var row warehouseRow
	if err := pgxscan.Get(ctx, r.querier(ctx), &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("warehouse", code)
		}
		return nil, fmt.Errorf("get warehouse by code: %w", err)
	}
	return row.toDomain(), nil
}
