// Package warehouse implements the warehouse lifecycle: create, replace and
// archive, each checked against the capacity limits of the hosting location.
package warehouse

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// State is the lifecycle state of a warehouse record: Active or Archived.
// Archived is terminal.
type State interface {
	isState()
}

// Active marks a record that is visible to lookups and counts towards its location.
type Active struct{}

// Archived marks a record retired at At.
type Archived struct {
	At time.Time
}

func (Active) isState()   {}
func (Archived) isState() {}

// Warehouse is one physical warehouse record.
//
// Capacity and Stock are pointers so that an omitted value can be told
// apart from zero. A nil State is treated as Active.
type Warehouse struct {
	BusinessUnitCode string    `json:"businessUnitCode"`
	Location         string    `json:"location"`
	Capacity         *int      `json:"capacity"`
	Stock            *int      `json:"stock"`
	CreatedAt        time.Time `json:"createdAt"`
	State            State     `json:"-"`
}

// New builds a candidate warehouse with every mandatory field set.
func New(businessUnitCode, location string, capacity, stock int) *Warehouse {
	return &Warehouse{
		BusinessUnitCode: businessUnitCode,
		Location:         location,
		Capacity:         &capacity,
		Stock:            &stock,
	}
}

// IsArchived reports whether the record has been archived.
func (w *Warehouse) IsArchived() bool {
	_, ok := w.State.(Archived)
	return ok
}

// IsActive reports whether the record is still active.
func (w *Warehouse) IsActive() bool {
	return !w.IsArchived()
}

// ArchivedAt returns the archive instant, if any.
func (w *Warehouse) ArchivedAt() (time.Time, bool) {
	if a, ok := w.State.(Archived); ok {
		return a.At, true
	}
	return time.Time{}, false
}

// CapacityValue returns the capacity or zero when unset.
func (w *Warehouse) CapacityValue() int {
	if w.Capacity == nil {
		return 0
	}
	return *w.Capacity
}

// StockValue returns the stock or zero when unset.
func (w *Warehouse) StockValue() int {
	if w.Stock == nil {
		return 0
	}
	return *w.Stock
}

// Clone returns a deep copy.
func (w *Warehouse) Clone() *Warehouse {
	c := *w
	if w.Capacity != nil {
		v := *w.Capacity
		c.Capacity = &v
	}
	if w.Stock != nil {
		v := *w.Stock
		c.Stock = &v
	}
	return &c
}

// activate stamps a fresh activation.
func (w *Warehouse) activate(at time.Time) {
	w.CreatedAt = at
	w.State = Active{}
}

// archived returns an archived copy. Archiving an archived record keeps the original instant.
func (w *Warehouse) archived(at time.Time) *Warehouse {
	c := w.Clone()
	if !c.IsArchived() {
		c.State = Archived{At: at}
	}
	return c
}

// validateMandatory checks that every field a candidate must carry is present.
func (w *Warehouse) validateMandatory() error {
	err := validation.ValidateStruct(w,
		validation.Field(&w.BusinessUnitCode, validation.By(notBlank)),
		validation.Field(&w.Location, validation.By(notBlank)),
		validation.Field(&w.Capacity, validation.NotNil),
		validation.Field(&w.Stock, validation.NotNil),
	)
	if err == nil {
		return nil
	}
	return invalid(RuleMandatoryFields, "mandatory fields are missing").WithDetail("fields", err.Error())
}

func notBlank(value any) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return validation.ErrRequired
	}
	return nil
}
