package handlers

import (
	"github.com/gin-gonic/gin"

	"fulfilment/internal/domain/catalogs/warehouse"
	"fulfilment/internal/infrastructure/http/v1/dto"
)

// WarehouseHandler exposes the warehouse lifecycle over HTTP.
type WarehouseHandler struct {
	*BaseHandler
	service *warehouse.Service
}

// NewWarehouseHandler creates a new warehouse handler.
func NewWarehouseHandler(base *BaseHandler, service *warehouse.Service) *WarehouseHandler {
	return &WarehouseHandler{BaseHandler: base, service: service}
}

// List returns every active warehouse.
// GET /warehouse
func (h *WarehouseHandler) List(c *gin.Context) {
	list, err := h.service.ListActive(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromWarehouses(list))
}

// Get returns the active warehouse for the code in the path.
// GET /warehouse/:code
func (h *WarehouseHandler) Get(c *gin.Context) {
	w, err := h.service.GetByBusinessUnitCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromWarehouse(w))
}

// Create registers a new warehouse.
// POST /warehouse
func (h *WarehouseHandler) Create(c *gin.Context) {
	var req dto.WarehouseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	candidate := req.ToDomain()
	if err := h.service.Create(c.Request.Context(), candidate); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromWarehouse(candidate))
}

// Archive retires the active warehouse for the code in the path.
// DELETE /warehouse/:code
func (h *WarehouseHandler) Archive(c *gin.Context) {
	if err := h.service.ArchiveByBusinessUnitCode(c.Request.Context(), c.Param("code")); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// Replace swaps the active warehouse for the code in the path with the
// one in the body.
// POST /warehouse/:code/replacement
func (h *WarehouseHandler) Replace(c *gin.Context) {
	var req dto.WarehouseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	candidate := req.ToDomain()
	if err := h.service.Replace(c.Request.Context(), c.Param("code"), candidate); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromWarehouse(candidate))
}
