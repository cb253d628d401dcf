package memory

import (
	"context"
	"time"

	"fulfilment/internal/core/apperror"
	"fulfilment/internal/core/id"
	"fulfilment/internal/domain/catalogs/warehouse"
)

// WarehouseStore implements warehouse.Store on top of a DB.
type WarehouseStore struct {
	db *DB
}

var _ warehouse.Store = (*WarehouseStore)(nil)

// NewWarehouseStore creates a store over db.
func NewWarehouseStore(db *DB) *WarehouseStore {
	return &WarehouseStore{db: db}
}

func activeIndex(s *state, code string) int {
	for i, r := range s.warehouses {
		if r.w.BusinessUnitCode == code && r.w.IsActive() {
			return i
		}
	}
	return -1
}

// GetAll returns copies of every record in insertion order.
func (s *WarehouseStore) GetAll(ctx context.Context) ([]*warehouse.Warehouse, error) {
	var out []*warehouse.Warehouse
	err := s.db.read(ctx, func(st *state) error {
		out = make([]*warehouse.Warehouse, 0, len(st.warehouses))
		for _, r := range st.warehouses {
			out = append(out, r.w.Clone())
		}
		return nil
	})
	return out, err
}

// Create inserts w. At most one active record may exist per business unit code.
func (s *WarehouseStore) Create(ctx context.Context, w *warehouse.Warehouse) error {
	return s.db.write(ctx, func(st *state) error {
		if w.IsActive() && activeIndex(st, w.BusinessUnitCode) >= 0 {
			return duplicateCode(w.BusinessUnitCode)
		}
		st.warehouses = append(st.warehouses, warehouseRow{id: id.New(), w: w.Clone()})
		return nil
	})
}

// Update overwrites the active record with the same code. Missing records are ignored.
func (s *WarehouseStore) Update(ctx context.Context, w *warehouse.Warehouse) error {
	return s.db.write(ctx, func(st *state) error {
		i := activeIndex(st, w.BusinessUnitCode)
		if i < 0 {
			return nil
		}
		st.warehouses[i].w = w.Clone()
		return nil
	})
}

// Remove deletes the active record with the same code. Missing records are ignored.
func (s *WarehouseStore) Remove(ctx context.Context, w *warehouse.Warehouse) error {
	return s.db.write(ctx, func(st *state) error {
		i := activeIndex(st, w.BusinessUnitCode)
		if i < 0 {
			return nil
		}
		st.warehouses = append(st.warehouses[:i], st.warehouses[i+1:]...)
		return nil
	})
}

// FindByBusinessUnitCode returns a copy of the active record for code.
func (s *WarehouseStore) FindByBusinessUnitCode(ctx context.Context, code string) (*warehouse.Warehouse, error) {
	var found *warehouse.Warehouse
	err := s.db.read(ctx, func(st *state) error {
		if i := activeIndex(st, code); i >= 0 {
			found = st.warehouses[i].w.Clone()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, apperror.NewNotFound("warehouse", code)
	}
	return found, nil
}

// Seed loads records directly, bypassing the lifecycle rules.
// Records without a creation time are stamped with createdAt.
func (s *WarehouseStore) Seed(ctx context.Context, createdAt time.Time, ws ...*warehouse.Warehouse) error {
	return s.db.write(ctx, func(st *state) error {
		for _, w := range ws {
			c := w.Clone()
			if c.CreatedAt.IsZero() {
				c.CreatedAt = createdAt
			}
			if c.State == nil {
				c.State = warehouse.Active{}
			}
			if c.IsActive() && activeIndex(st, c.BusinessUnitCode) >= 0 {
				return duplicateCode(c.BusinessUnitCode)
			}
			st.warehouses = append(st.warehouses, warehouseRow{id: id.New(), w: c})
		}
		return nil
	})
}

// DefaultWarehouses returns the warehouses every fresh installation starts with.
func DefaultWarehouses() []*warehouse.Warehouse {
	return []*warehouse.Warehouse{
		warehouse.New("MWH.001", "ZWOLLE-001", 100, 10),
		warehouse.New("MWH.012", "AMSTERDAM-001", 50, 5),
		warehouse.New("MWH.023", "TILBURG-001", 30, 27),
	}
}

func duplicateCode(code string) error {
	return apperror.NewValidation("an active warehouse with this business unit code already exists").
		WithDetail("rule", warehouse.RuleUniqueActiveCode).
		WithDetail("businessUnitCode", code)
}
