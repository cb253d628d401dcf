package warehouse

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fulfilment/internal/core/apperror"
	"fulfilment/internal/core/clock"
	"fulfilment/internal/domain/catalogs/location"
)

var testNow = time.Date(2024, 5, 14, 10, 30, 0, 0, time.UTC)

// fakeStore keeps records in a slice and counts writes.
type fakeStore struct {
	records []*Warehouse

	creates int
	updates int
	removes int

	createErr error
	getAllErr error
	updateErr error
}

func (s *fakeStore) GetAll(context.Context) ([]*Warehouse, error) {
	if s.getAllErr != nil {
		return nil, s.getAllErr
	}
	return cloneAll(s.records), nil
}

func (s *fakeStore) Create(_ context.Context, w *Warehouse) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.creates++
	s.records = append(s.records, w.Clone())
	return nil
}

func (s *fakeStore) Update(_ context.Context, w *Warehouse) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updates++
	for i, r := range s.records {
		if r.BusinessUnitCode == w.BusinessUnitCode && r.IsActive() {
			s.records[i] = w.Clone()
			return nil
		}
	}
	return nil
}

func (s *fakeStore) Remove(_ context.Context, w *Warehouse) error {
	s.removes++
	for i, r := range s.records {
		if r.BusinessUnitCode == w.BusinessUnitCode && r.IsActive() {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *fakeStore) FindByBusinessUnitCode(_ context.Context, code string) (*Warehouse, error) {
	for _, r := range s.records {
		if r.BusinessUnitCode == code && r.IsActive() {
			return r.Clone(), nil
		}
	}
	return nil, apperror.NewNotFound("warehouse", code)
}

func (s *fakeStore) active(code string) []*Warehouse {
	var out []*Warehouse
	for _, r := range s.records {
		if r.BusinessUnitCode == code && r.IsActive() {
			out = append(out, r)
		}
	}
	return out
}

func (s *fakeStore) seed(w *Warehouse, createdAt time.Time) {
	c := w.Clone()
	c.CreatedAt = createdAt
	if c.State == nil {
		c.State = Active{}
	}
	s.records = append(s.records, c)
}

func cloneAll(in []*Warehouse) []*Warehouse {
	out := make([]*Warehouse, 0, len(in))
	for _, w := range in {
		out = append(out, w.Clone())
	}
	return out
}

// fakeTx restores the store snapshot when fn fails.
type fakeTx struct {
	store     *fakeStore
	calls     int
	rollbacks int
}

func (m *fakeTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	snapshot := cloneAll(m.store.records)
	if err := fn(ctx); err != nil {
		m.store.records = snapshot
		m.rollbacks++
		return err
	}
	return nil
}

type recordingPublisher struct {
	events []Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e Event) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

type recordedOp struct {
	operation string
	outcome   string
}

type fakeRecorder struct {
	ops       []recordedOp
	durations []time.Duration
}

func (r *fakeRecorder) ObserveOperation(operation, outcome string, elapsed time.Duration) {
	r.ops = append(r.ops, recordedOp{operation, outcome})
	r.durations = append(r.durations, elapsed)
}

// mockStore fails the test on any call that was not expected.
type mockStore struct {
	mock.Mock
}

func (m *mockStore) GetAll(ctx context.Context) ([]*Warehouse, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*Warehouse), args.Error(1)
}

func (m *mockStore) Create(ctx context.Context, w *Warehouse) error {
	return m.Called(ctx, w).Error(0)
}

func (m *mockStore) Update(ctx context.Context, w *Warehouse) error {
	return m.Called(ctx, w).Error(0)
}

func (m *mockStore) Remove(ctx context.Context, w *Warehouse) error {
	return m.Called(ctx, w).Error(0)
}

func (m *mockStore) FindByBusinessUnitCode(ctx context.Context, code string) (*Warehouse, error) {
	args := m.Called(ctx, code)
	w, _ := args.Get(0).(*Warehouse)
	return w, args.Error(1)
}

type fixture struct {
	store  *fakeStore
	tx     *fakeTx
	clock  *clock.Manual
	events *recordingPublisher
	cfg    UseCaseConfig
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := &fakeStore{}
	f := &fixture{
		store:  store,
		tx:     &fakeTx{store: store},
		clock:  clock.NewManual(testNow),
		events: &recordingPublisher{},
	}
	f.cfg = UseCaseConfig{
		Store: store,
		Locations: location.NewCatalog(
			location.Location{Identification: "ZWOLLE-001", MaxNumberOfWarehouses: 2, MaxCapacity: 40},
			location.Location{Identification: "AMSTERDAM-001", MaxNumberOfWarehouses: 5, MaxCapacity: 100},
		),
		TxManager: f.tx,
		Clock:     f.clock,
		Events:    f.events,
	}
	return f
}

func requireRule(t *testing.T, err error, rule string) {
	t.Helper()
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok, "expected AppError, got %v", err)
	require.Equal(t, apperror.CodeValidation, appErr.Code)
	require.Equal(t, rule, appErr.Details["rule"])
}

func intPtr(v int) *int { return &v }
