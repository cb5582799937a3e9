package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salepoint/salepoint-backend/internal/catalog"
	"github.com/salepoint/salepoint-backend/internal/company"
	"github.com/salepoint/salepoint-backend/internal/documents"
	"github.com/salepoint/salepoint-backend/internal/invoices"
	"github.com/salepoint/salepoint-backend/internal/reports"
	"github.com/salepoint/salepoint-backend/pkg/config"
	"github.com/salepoint/salepoint-backend/pkg/db"
	"github.com/salepoint/salepoint-backend/pkg/logger"
	"github.com/salepoint/salepoint-backend/pkg/metrics"
)

var testSchema = []string{
	`CREATE TABLE IF NOT EXISTS items (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  description TEXT,
  value NUMERIC(12,2) NOT NULL,
  removed INTEGER NOT NULL DEFAULT 0
);`,
	`CREATE TABLE IF NOT EXISTS invoice_frames (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  date TEXT NOT NULL,
  total_value NUMERIC(12,2) NOT NULL
);`,
	`CREATE TABLE IF NOT EXISTS invoice_rows (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  invoice_id INTEGER NOT NULL,
  item_id INTEGER NOT NULL,
  row_total NUMERIC(12,2) NOT NULL,
  quantity INTEGER NOT NULL
);`,
	`CREATE TABLE IF NOT EXISTS company_profiles (
  id INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  address TEXT,
  phone TEXT,
  tax_id TEXT
);`,
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	cfg := &config.Config{}
	cfg.App.Env = "test"

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	client, err := db.New(context.Background(), config.DBConfig{
		Driver:       config.DriverSQLite,
		DSN:          dsn,
		MaxOpenConns: 1,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	for _, stmt := range testSchema {
		require.NoError(t, client.DB().Exec(stmt).Error)
	}

	reg := metrics.New()
	items := catalog.NewRepository(client.DB())
	catalogSvc, err := catalog.NewService(items, client, reg)
	require.NoError(t, err)
	ledgerSvc, err := invoices.NewService(invoices.NewRepository(client.DB(), config.DriverSQLite), items, client, reg)
	require.NoError(t, err)
	reportsSvc, err := reports.NewService(reports.NewRepository(client.DB()), items, nil, 0, nil)
	require.NoError(t, err)
	companySvc, err := company.NewService(company.NewRepository(client.DB()))
	require.NoError(t, err)
	builder, err := documents.NewBuilder(ledgerSvc, companySvc)
	require.NoError(t, err)

	return NewRouter(Deps{
		Config:      cfg,
		Logger:      logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled}),
		DB:          client,
		Metrics:     reg,
		Catalog:     catalogSvc,
		Ledger:      ledgerSvc,
		Reports:     reportsSvc,
		Company:     companySvc,
		DocBuilder:  builder,
		DocRenderer: documents.TextRenderer{},
	})
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func dataOf(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope.Data
}

func TestItemAndInvoiceFlow(t *testing.T) {
	h := newTestRouter(t)

	// Catalog: create, duplicate rejection.
	w := doJSON(t, h, http.MethodPost, "/api/v1/items/", map[string]any{
		"name":        "Widget",
		"description": "Basic widget",
		"value":       "9.99",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.EqualValues(t, 1, dataOf(t, w)["id"])

	w = doJSON(t, h, http.MethodPost, "/api/v1/items/", map[string]any{
		"name":  "widget",
		"value": "1.00",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Compose: repeated lines consolidate; the committed frame carries the sum.
	w = doJSON(t, h, http.MethodPost, "/api/v1/invoices/", map[string]any{
		"lines": []map[string]any{
			{"item_id": 1, "quantity": 3},
			{"item_id": 1, "quantity": 2},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	frame := dataOf(t, w)
	assert.EqualValues(t, 1, frame["id"])
	assert.Equal(t, "49.95", frame["total_value"])

	w = doJSON(t, h, http.MethodGet, "/api/v1/invoices/1/rows", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var rowsEnvelope struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rowsEnvelope))
	require.Len(t, rowsEnvelope.Data, 1)
	assert.Equal(t, "Widget", rowsEnvelope.Data[0]["item_name"])

	// Reports see the committed ledger.
	w = doJSON(t, h, http.MethodGet, "/api/v1/reports/best-seller", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Widget", dataOf(t, w)["name"])

	// Documents render with the serial.
	w = doJSON(t, h, http.MethodGet, "/api/v1/invoices/1/document?format=text", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "#0000000001")

	// Remove and confirm it is gone.
	w = doJSON(t, h, http.MethodPost, "/api/v1/invoices/remove", map[string]any{"ids": []int64{1}})
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, h, http.MethodGet, "/api/v1/invoices/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestValidationSurface(t *testing.T) {
	h := newTestRouter(t)

	w := doJSON(t, h, http.MethodPost, "/api/v1/items/", map[string]any{"value": "1.00"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, h, http.MethodPost, "/api/v1/invoices/", map[string]any{"lines": []map[string]any{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, h, http.MethodGet, "/api/v1/invoices/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, h, http.MethodGet, "/api/v1/invoices/by-date?date=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCompanyEndpoints(t *testing.T) {
	h := newTestRouter(t)

	w := doJSON(t, h, http.MethodGet, "/api/v1/company/", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, h, http.MethodPut, "/api/v1/company/", map[string]any{
		"name":    "Acme Trading",
		"address": "1 Main St",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, h, http.MethodPatch, "/api/v1/company/", map[string]any{
		"field": "phone",
		"value": "555-0100",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, h, http.MethodGet, "/api/v1/company/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	profile := dataOf(t, w)
	assert.Equal(t, "Acme Trading", profile["name"])
	assert.Equal(t, "555-0100", profile["phone"])

	w = doJSON(t, h, http.MethodDelete, "/api/v1/company/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	h := newTestRouter(t)

	w := doJSON(t, h, http.MethodGet, "/health/live", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, h, http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, h, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "salepoint_invoices_created_total")
}
