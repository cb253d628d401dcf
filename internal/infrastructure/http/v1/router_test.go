package v1_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fulfilment/internal/core/apperror"
	"fulfilment/internal/domain/catalogs/location"
	"fulfilment/internal/domain/catalogs/warehouse"
	v1 "fulfilment/internal/infrastructure/http/v1"
	"fulfilment/internal/infrastructure/http/v1/dto"
	"fulfilment/internal/infrastructure/http/v1/handlers"
	"fulfilment/internal/infrastructure/http/v1/middleware"
	"fulfilment/internal/infrastructure/storage/memory"
	"fulfilment/pkg/logger"
)

func newTestRouter(t *testing.T, health *handlers.HealthHandler) *gin.Engine {
	t.Helper()

	db := memory.NewDB()
	store := memory.NewWarehouseStore(db)
	require.NoError(t, store.Seed(context.Background(), time.Now().Add(-time.Hour), memory.DefaultWarehouses()...))

	svc := warehouse.NewService(warehouse.UseCaseConfig{
		Store:     store,
		Locations: location.DefaultCatalog(),
		TxManager: memory.NewTxManager(db),
		Events:    memory.NewEventLog(db),
	}, nil)

	return v1.NewRouter(v1.RouterConfig{Logger: logger.Nop(), Warehouses: svc, Health: health})
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestRouter_ListReturnsSeededWarehouses(t *testing.T) {
	r := newTestRouter(t, nil)

	w := do(r, http.MethodGet, "/warehouse", "")

	require.Equal(t, http.StatusOK, w.Code)
	var list []dto.WarehouseResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 3)
	assert.Equal(t, "MWH.001", list[0].BusinessUnitCode)
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))
}

func TestRouter_VersionedPrefixServesSameRoutes(t *testing.T) {
	r := newTestRouter(t, nil)

	w := do(r, http.MethodGet, "/api/v1/warehouse/MWH.012", "")

	require.Equal(t, http.StatusOK, w.Code)
	var got dto.WarehouseResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "AMSTERDAM-001", got.Location)
	assert.Equal(t, 50, got.Capacity)
	assert.Equal(t, 5, got.Stock)
}

func TestRouter_GetUnknownIsNotFound(t *testing.T) {
	r := newTestRouter(t, nil)

	w := do(r, http.MethodGet, "/warehouse/MWH.404", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperror.CodeNotFound, decodeError(t, w).Code)
}

func TestRouter_Create(t *testing.T) {
	r := newTestRouter(t, nil)

	w := do(r, http.MethodPost, "/warehouse",
		`{"businessUnitCode":"MWH.050","location":"AMSTERDAM-002","capacity":30,"stock":10}`)

	require.Equal(t, http.StatusOK, w.Code)
	var created dto.WarehouseResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "MWH.050", created.BusinessUnitCode)
	assert.NotNil(t, created.CreatedAt)

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/warehouse/MWH.050", "").Code)
}

func TestRouter_CreateRejections(t *testing.T) {
	tests := []struct {
		name string
		body string
		rule string
	}{
		{
			name: "stock above capacity",
			body: `{"businessUnitCode":"MWH.051","location":"AMSTERDAM-002","capacity":10,"stock":20}`,
			rule: warehouse.RuleStockWithinCapacity,
		},
		{
			name: "missing stock",
			body: `{"businessUnitCode":"MWH.051","location":"AMSTERDAM-002","capacity":10}`,
			rule: warehouse.RuleMandatoryFields,
		},
		{
			name: "unknown location",
			body: `{"businessUnitCode":"MWH.051","location":"UTRECHT-001","capacity":10,"stock":1}`,
			rule: warehouse.RuleKnownLocation,
		},
		{
			name: "capacity that would wrap the location total",
			body: `{"businessUnitCode":"MWH.777","location":"AMSTERDAM-001","capacity":9223372036854775807,"stock":0}`,
			rule: warehouse.RuleLocationCapacity,
		},
		{
			name: "duplicate active code",
			body: `{"businessUnitCode":"MWH.001","location":"AMSTERDAM-002","capacity":10,"stock":1}`,
			rule: warehouse.RuleUniqueActiveCode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(t, nil)

			w := do(r, http.MethodPost, "/warehouse", tt.body)

			require.Equal(t, http.StatusBadRequest, w.Code)
			resp := decodeError(t, w)
			assert.Equal(t, apperror.CodeValidation, resp.Code)
			assert.Equal(t, tt.rule, resp.Details["rule"])
		})
	}
}

func TestRouter_MalformedBodyIsBadRequest(t *testing.T) {
	r := newTestRouter(t, nil)

	w := do(r, http.MethodPost, "/warehouse", `{"businessUnitCode":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperror.CodeValidation, decodeError(t, w).Code)
}

func TestRouter_ArchiveTwice(t *testing.T) {
	r := newTestRouter(t, nil)

	first := do(r, http.MethodDelete, "/warehouse/MWH.023", "")
	assert.Equal(t, http.StatusNoContent, first.Code)
	assert.Empty(t, first.Body.String())

	second := do(r, http.MethodDelete, "/warehouse/MWH.023", "")
	assert.Equal(t, http.StatusNotFound, second.Code)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/warehouse/MWH.023", "").Code)
}

func TestRouter_Replace(t *testing.T) {
	r := newTestRouter(t, nil)

	w := do(r, http.MethodPost, "/warehouse/MWH.012/replacement",
		`{"location":"AMSTERDAM-001","capacity":60,"stock":5}`)

	require.Equal(t, http.StatusOK, w.Code)
	var replaced dto.WarehouseResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &replaced))
	assert.Equal(t, "MWH.012", replaced.BusinessUnitCode)
	assert.Equal(t, 60, replaced.Capacity)

	w = do(r, http.MethodGet, "/warehouse/MWH.012", "")
	require.Equal(t, http.StatusOK, w.Code)
	var current dto.WarehouseResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &current))
	assert.Equal(t, 60, current.Capacity)
}

func TestRouter_ReplaceRejections(t *testing.T) {
	r := newTestRouter(t, nil)

	w := do(r, http.MethodPost, "/warehouse/MWH.012/replacement",
		`{"location":"AMSTERDAM-001","capacity":60,"stock":6}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, warehouse.RuleStockContinuity, decodeError(t, w).Details["rule"])

	w = do(r, http.MethodPost, "/warehouse/MWH.999/replacement",
		`{"location":"AMSTERDAM-001","capacity":60,"stock":5}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_Health(t *testing.T) {
	health := handlers.NewHealthHandler(gin.H{"app": "fulfilment"}, map[string]handlers.Check{
		"store": func(context.Context) error { return nil },
	})
	r := newTestRouter(t, health)

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/health/live", "").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/health/ready", "").Code)

	w := do(r, http.MethodGet, "/health/info", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "fulfilment")
}

func TestRouter_ReadyReportsFailingCheck(t *testing.T) {
	health := handlers.NewHealthHandler(nil, map[string]handlers.Check{
		"postgres": func(context.Context) error { return errors.New("connection refused") },
	})
	r := newTestRouter(t, health)

	w := do(r, http.MethodGet, "/health/ready", "")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")
}

func TestRouter_PanicRendersInternalError(t *testing.T) {
	r := newTestRouter(t, nil)
	r.GET("/boom", func(*gin.Context) { panic("boom") })

	w := do(r, http.MethodGet, "/boom", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, apperror.CodeInternal, decodeError(t, w).Code)
}

func TestRouter_MetricsMountedWhenConfigured(t *testing.T) {
	r := v1.NewRouter(v1.RouterConfig{
		Logger: logger.Nop(),
		Metrics: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("ok"))
		}),
	})

	w := do(r, http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}
