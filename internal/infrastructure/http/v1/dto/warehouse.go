package dto

import (
	"time"

	"fulfilment/internal/domain/catalogs/warehouse"
)

// WarehouseRequest is the body of create and replace requests.
// On replace the business unit code is taken from the path.
type WarehouseRequest struct {
	BusinessUnitCode string `json:"businessUnitCode"`
	Location         string `json:"location"`
	Capacity         *int   `json:"capacity"`
	Stock            *int   `json:"stock"`
}

// ToDomain converts the request into a candidate warehouse.
func (r *WarehouseRequest) ToDomain() *warehouse.Warehouse {
	return &warehouse.Warehouse{
		BusinessUnitCode: r.BusinessUnitCode,
		Location:         r.Location,
		Capacity:         r.Capacity,
		Stock:            r.Stock,
	}
}

// WarehouseResponse is the public view of an active warehouse.
type WarehouseResponse struct {
	BusinessUnitCode string     `json:"businessUnitCode"`
	Location         string     `json:"location"`
	Capacity         int        `json:"capacity"`
	Stock            int        `json:"stock"`
	CreatedAt        *time.Time `json:"createdAt,omitempty"`
}

// FromWarehouse builds the response for w.
func FromWarehouse(w *warehouse.Warehouse) WarehouseResponse {
	resp := WarehouseResponse{
		BusinessUnitCode: w.BusinessUnitCode,
		Location:         w.Location,
		Capacity:         w.CapacityValue(),
		Stock:            w.StockValue(),
	}
	if !w.CreatedAt.IsZero() {
		at := w.CreatedAt.UTC()
		resp.CreatedAt = &at
	}
	return resp
}

// FromWarehouses builds responses for ws, never returning nil.
func FromWarehouses(ws []*warehouse.Warehouse) []WarehouseResponse {
	out := make([]WarehouseResponse, 0, len(ws))
	for _, w := range ws {
		out = append(out, FromWarehouse(w))
	}
	return out
}
