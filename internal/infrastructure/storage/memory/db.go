// Package memory provides in-process implementations of the storage ports.
// Transactions work on a cloned state that replaces the live one on commit.
package memory

import (
	"context"
	"sync"

	"fulfilment/internal/core/id"
	"fulfilment/internal/core/tx"
	"fulfilment/internal/domain/catalogs/warehouse"
)

type warehouseRow struct {
	id id.ID
	w  *warehouse.Warehouse
}

type state struct {
	warehouses []warehouseRow
	events     []warehouse.Event
}

func (s state) clone() state {
	out := state{
		warehouses: make([]warehouseRow, len(s.warehouses)),
		events:     make([]warehouse.Event, len(s.events)),
	}
	for i, r := range s.warehouses {
		out.warehouses[i] = warehouseRow{id: r.id, w: r.w.Clone()}
	}
	copy(out.events, s.events)
	return out
}

// DB is the shared in-memory database.
type DB struct {
	mu    sync.RWMutex
	state state
}

// NewDB creates an empty database.
func NewDB() *DB {
	return &DB{}
}

type txKey struct{}

type txState struct {
	state state
}

func txFrom(ctx context.Context) *txState {
	if t, ok := ctx.Value(txKey{}).(*txState); ok {
		return t
	}
	return nil
}

func (db *DB) read(ctx context.Context, fn func(s *state) error) error {
	if t := txFrom(ctx); t != nil {
		return fn(&t.state)
	}
	db.mu.RLock()
	defer db.mu.RUnlock()
	return fn(&db.state)
}

// write applies fn inside the caller's transaction, or atomically on its own.
func (db *DB) write(ctx context.Context, fn func(s *state) error) error {
	if t := txFrom(ctx); t != nil {
		return fn(&t.state)
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	next := db.state.clone()
	if err := fn(&next); err != nil {
		return err
	}
	db.state = next
	return nil
}

// TxManager serializes transactions over a DB.
type TxManager struct {
	db *DB
}

var _ tx.ReadOnlyManager = (*TxManager)(nil)

// NewTxManager creates a transaction manager for db.
func NewTxManager(db *DB) *TxManager {
	return &TxManager{db: db}
}

// RunInTransaction implements tx.Manager. Nested calls join the outer transaction.
func (m *TxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFrom(ctx) != nil {
		return fn(ctx)
	}

	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	t := &txState{state: m.db.state.clone()}
	if err := fn(context.WithValue(ctx, txKey{}, t)); err != nil {
		return err
	}
	m.db.state = t.state
	return nil
}

// ReadOnly runs fn against a snapshot. Writes made by fn are discarded.
func (m *TxManager) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFrom(ctx) != nil {
		return fn(ctx)
	}

	m.db.mu.RLock()
	t := &txState{state: m.db.state.clone()}
	m.db.mu.RUnlock()

	return fn(context.WithValue(ctx, txKey{}, t))
}
