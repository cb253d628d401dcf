package warehouse

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fulfilment/internal/core/apperror"
)

func seedMWH600(f *fixture) time.Time {
	createdAt := testNow.Add(-48 * time.Hour)
	f.store.seed(New("MWH.600", "ZWOLLE-001", 20, 7), createdAt)
	return createdAt
}

func TestReplace_Succeeds(t *testing.T) {
	f := newFixture(t)
	seedMWH600(f)

	candidate := &Warehouse{BusinessUnitCode: "MWH.600", Location: "ZWOLLE-001", Capacity: intPtr(25), Stock: intPtr(7)}
	err := NewReplaceUseCase(f.cfg).Replace(context.Background(), candidate)

	require.NoError(t, err)
	assert.Equal(t, testNow, candidate.CreatedAt)
	assert.True(t, candidate.IsActive())

	require.Len(t, f.store.records, 2)
	old := f.store.records[0]
	at, archived := old.ArchivedAt()
	require.True(t, archived)
	assert.Equal(t, testNow, at)
	assert.Equal(t, 20, old.CapacityValue())

	active := f.store.active("MWH.600")
	require.Len(t, active, 1)
	assert.Equal(t, 25, active[0].CapacityValue())
	assert.Equal(t, 7, active[0].StockValue())
	assert.Equal(t, testNow, active[0].CreatedAt)

	require.Len(t, f.events.events, 1)
	ev := f.events.events[0]
	assert.Equal(t, EventReplaced, ev.Type)
	assert.Equal(t, 25, ev.Capacity)
	assert.Equal(t, "ZWOLLE-001", ev.PreviousLocation)
	require.NotNil(t, ev.PreviousCapacity)
	assert.Equal(t, 20, *ev.PreviousCapacity)
}

func TestReplace_RelocatesToAnotherLocation(t *testing.T) {
	f := newFixture(t)
	seedMWH600(f)

	err := NewReplaceUseCase(f.cfg).Replace(context.Background(), New("MWH.600", "AMSTERDAM-001", 60, 7))

	require.NoError(t, err)
	active := f.store.active("MWH.600")
	require.Len(t, active, 1)
	assert.Equal(t, "AMSTERDAM-001", active[0].Location)
}

func TestReplace_ExcludesCurrentFromLocationLimits(t *testing.T) {
	f := newFixture(t)
	seedMWH600(f)
	f.store.seed(New("MWH.601", "ZWOLLE-001", 15, 0), testNow.Add(-time.Hour))

	// ZWOLLE-001 hosts two warehouses (its maximum) using 35 of 40.
	// Replacing MWH.600 in place only competes with MWH.601.
	err := NewReplaceUseCase(f.cfg).Replace(context.Background(), New("MWH.600", "ZWOLLE-001", 25, 7))

	require.NoError(t, err)
}

func TestReplace_StockMismatchLeavesOriginalUntouched(t *testing.T) {
	f := newFixture(t)
	createdAt := seedMWH600(f)

	err := NewReplaceUseCase(f.cfg).Replace(context.Background(), New("MWH.600", "ZWOLLE-001", 25, 9))

	requireRule(t, err, RuleStockContinuity)
	assert.Equal(t, 0, f.store.updates)
	assert.Equal(t, 0, f.store.creates)

	active := f.store.active("MWH.600")
	require.Len(t, active, 1)
	assert.Equal(t, 20, active[0].CapacityValue())
	assert.Equal(t, 7, active[0].StockValue())
	assert.Equal(t, createdAt, active[0].CreatedAt)
}

func TestReplace_MissingCurrentIsNotFound(t *testing.T) {
	f := newFixture(t)
	seedMWH600(f)

	err := NewReplaceUseCase(f.cfg).Replace(context.Background(), New("MWH.999", "ZWOLLE-001", 25, 7))

	assert.True(t, apperror.IsNotFound(err))
	assert.Len(t, f.store.records, 1)
}

func TestReplace_ArchivedCurrentIsNotFound(t *testing.T) {
	f := newFixture(t)
	w := New("MWH.600", "ZWOLLE-001", 20, 7)
	w.State = Archived{At: testNow.Add(-time.Hour)}
	f.store.seed(w, testNow.Add(-48*time.Hour))

	err := NewReplaceUseCase(f.cfg).Replace(context.Background(), New("MWH.600", "ZWOLLE-001", 20, 7))

	assert.True(t, apperror.IsNotFound(err))
}

func TestReplace_Rejections(t *testing.T) {
	tests := []struct {
		name      string
		existing  []*Warehouse
		candidate *Warehouse
		rule      string
	}{
		{
			name:      "missing location",
			candidate: New("MWH.600", " ", 25, 7),
			rule:      RuleMandatoryFields,
		},
		{
			name:      "missing stock",
			candidate: &Warehouse{BusinessUnitCode: "MWH.600", Location: "ZWOLLE-001", Capacity: intPtr(25)},
			rule:      RuleMandatoryFields,
		},
		{
			name:      "unknown location",
			candidate: New("MWH.600", "UTRECHT-001", 25, 7),
			rule:      RuleKnownLocation,
		},
		{
			name:      "location checked before stock continuity",
			candidate: New("MWH.600", "UTRECHT-001", 25, 99),
			rule:      RuleKnownLocation,
		},
		{
			name:      "zero capacity",
			candidate: New("MWH.600", "ZWOLLE-001", 0, 7),
			rule:      RulePositiveCapacity,
		},
		{
			name:      "capacity below current stock",
			candidate: New("MWH.600", "ZWOLLE-001", 5, 7),
			rule:      RuleStockWithinCapacity,
		},
		{
			name: "target location full",
			existing: []*Warehouse{
				New("MWH.700", "ZWOLLE-001", 5, 0),
				New("MWH.701", "ZWOLLE-001", 5, 0),
			},
			candidate: New("MWH.600", "ZWOLLE-001", 10, 7),
			rule:      RuleLocationOccupancy,
		},
		{
			name:      "target location capacity exceeded",
			existing:  []*Warehouse{New("MWH.700", "ZWOLLE-001", 30, 0)},
			candidate: New("MWH.600", "ZWOLLE-001", 11, 7),
			rule:      RuleLocationCapacity,
		},
		{
			name:      "capacity large enough to wrap the location total",
			existing:  []*Warehouse{New("MWH.700", "ZWOLLE-001", 5, 0)},
			candidate: New("MWH.600", "ZWOLLE-001", math.MaxInt, 7),
			rule:      RuleLocationCapacity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.store.seed(New("MWH.600", "AMSTERDAM-001", 20, 7), testNow.Add(-48*time.Hour))
			for _, w := range tt.existing {
				f.store.seed(w, testNow.Add(-time.Hour))
			}

			err := NewReplaceUseCase(f.cfg).Replace(context.Background(), tt.candidate)

			requireRule(t, err, tt.rule)
			assert.Equal(t, 0, f.store.updates)
			assert.Equal(t, 0, f.store.creates)
			assert.Len(t, f.store.active("MWH.600"), 1)
		})
	}
}

func TestReplace_FailedActivationRestoresCurrent(t *testing.T) {
	f := newFixture(t)
	seedMWH600(f)
	f.store.createErr = errors.New("insert failed")

	err := NewReplaceUseCase(f.cfg).Replace(context.Background(), New("MWH.600", "ZWOLLE-001", 25, 7))

	require.ErrorIs(t, err, f.store.createErr)
	assert.Equal(t, 1, f.store.updates)
	assert.Equal(t, 1, f.tx.rollbacks)

	active := f.store.active("MWH.600")
	require.Len(t, active, 1)
	assert.Equal(t, 20, active[0].CapacityValue())
	assert.Empty(t, f.events.events)
}
