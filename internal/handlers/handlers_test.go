package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yungbote/crm-backend/internal/handlers"
	"github.com/yungbote/crm-backend/internal/logger"
	"github.com/yungbote/crm-backend/internal/repos"
	"github.com/yungbote/crm-backend/internal/server"
	"github.com/yungbote/crm-backend/internal/services"
	"github.com/yungbote/crm-backend/internal/types"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, gdb.AutoMigrate(&types.Customer{}, &types.SalesOpportunity{}))

	log := logger.NewNop()
	customerRepo := repos.NewCustomerRepo(gdb, log)
	opportunityRepo := repos.NewSalesOpportunityRepo(gdb, log)
	customerService := services.NewCustomerService(gdb, log, customerRepo, opportunityRepo)
	opportunityService := services.NewOpportunityService(gdb, log, opportunityRepo, customerRepo)
	dashboardService := services.NewDashboardService(gdb, log, customerRepo, opportunityRepo)

	return server.NewRouter(server.RouterConfig{
		ServiceName:        "crm-backend-test",
		DashboardHandler:   handlers.NewDashboardHandler(log, dashboardService),
		CustomerHandler:    handlers.NewCustomerHandler(log, customerService),
		OpportunityHandler: handlers.NewOpportunityHandler(log, opportunityService),
	})
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload), "body: %s", rec.Body.String())
	return payload
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/healthcheck", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestCustomerResourceLifecycle(t *testing.T) {
	router := newTestRouter(t)

	// Create
	rec := doJSON(t, router, http.MethodPost, "/api/customers", gin.H{
		"name":    "Acme",
		"email":   "a@acme.com",
		"company": "Acme Corp",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody(t, rec)
	customer, ok := created["customer"].(map[string]any)
	require.True(t, ok)
	id, _ := customer["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "active", customer["status"])

	// Read
	rec = doJSON(t, router, http.MethodGet, "/api/customers/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Update (full replace)
	rec = doJSON(t, router, http.MethodPut, "/api/customers/"+id, gin.H{
		"name":   "Acme International",
		"email":  "sales@acme.com",
		"status": "inactive",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeBody(t, rec)["customer"].(map[string]any)
	assert.Equal(t, "Acme International", updated["name"])
	assert.Equal(t, "", updated["company"])

	// List
	rec = doJSON(t, router, http.MethodGet, "/api/customers?page=1&page_size=10", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	listed := decodeBody(t, rec)
	assert.EqualValues(t, 1, listed["total"])

	// Delete, then the record is gone.
	rec = doJSON(t, router, http.MethodDelete, "/api/customers/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, router, http.MethodGet, "/api/customers/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = doJSON(t, router, http.MethodDelete, "/api/customers/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateCustomerValidationFailureBody(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/customers", gin.H{
		"email": "not-an-email",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	payload := decodeBody(t, rec)
	errBody, ok := payload["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "validation_failed", errBody["code"])
	fields, ok := errBody["fields"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "email")
}

func TestOpportunityValidationFailureBody(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/customers", gin.H{
		"name":  "Acme",
		"email": "a@acme.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	customerID := decodeBody(t, rec)["customer"].(map[string]any)["id"].(string)

	rec = doJSON(t, router, http.MethodPost, "/api/opportunities", gin.H{
		"customer_id": customerID,
		"title":       "Deal",
		"value":       1000,
		"probability": 150,
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	fields := decodeBody(t, rec)["error"].(map[string]any)["fields"].(map[string]any)
	assert.Equal(t, "Probability cannot exceed 100%.", fields["probability"])

	// Nothing was persisted.
	rec = doJSON(t, router, http.MethodGet, "/api/opportunities", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 0, decodeBody(t, rec)["total"])
}

func TestOpportunityResourceLifecycle(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/customers", gin.H{
		"name":  "Acme",
		"email": "a@acme.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	customerID := decodeBody(t, rec)["customer"].(map[string]any)["id"].(string)

	rec = doJSON(t, router, http.MethodPost, "/api/opportunities", gin.H{
		"customer_id": customerID,
		"title":       "Deal",
		"value":       1000.00,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	opportunity := decodeBody(t, rec)["opportunity"].(map[string]any)
	id := opportunity["id"].(string)
	assert.Equal(t, "lead", opportunity["stage"])
	assert.EqualValues(t, 10, opportunity["probability"])
	attached, ok := opportunity["customer"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Acme", attached["name"])

	rec = doJSON(t, router, http.MethodPut, "/api/opportunities/"+id, gin.H{
		"customer_id":       customerID,
		"title":             "Deal",
		"value":             1000.00,
		"stage":             "closed_won",
		"probability":       100,
		"actual_close_date": "2026-08-31",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decodeBody(t, rec)["stats"].(map[string]any)
	assert.EqualValues(t, 1, stats["wonDeals"])
	assert.EqualValues(t, 1000, stats["wonDealsValue"])
	assert.EqualValues(t, 0, stats["activeOpportunities"])

	rec = doJSON(t, router, http.MethodDelete, "/api/opportunities/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, router, http.MethodGet, "/api/opportunities/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMalformedIDBehavesLikeMissingRecord(t *testing.T) {
	router := newTestRouter(t)
	for _, path := range []string{"/api/customers/not-a-uuid", "/api/opportunities/also-not"} {
		rec := doJSON(t, router, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func TestActiveCustomersEndpointFiltersAndSorts(t *testing.T) {
	router := newTestRouter(t)

	for i, tc := range []struct {
		name   string
		status string
	}{
		{"Zenith", "active"},
		{"Apex", "active"},
		{"Dormant", "inactive"},
	} {
		rec := doJSON(t, router, http.MethodPost, "/api/customers", gin.H{
			"name":   tc.name,
			"email":  fmt.Sprintf("c%d@x.com", i),
			"status": tc.status,
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doJSON(t, router, http.MethodGet, "/api/customers/active", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	customers := decodeBody(t, rec)["customers"].([]any)
	require.Len(t, customers, 2)
	assert.Equal(t, "Apex", customers[0].(map[string]any)["name"])
	assert.Equal(t, "Zenith", customers[1].(map[string]any)["name"])
}

func TestDashboardOverviewShape(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	payload := decodeBody(t, rec)
	require.Contains(t, payload, "stats")
	require.Contains(t, payload, "recentCustomers")
	require.Contains(t, payload, "recentOpportunities")
	require.Contains(t, payload, "opportunitiesByStage")

	stats := payload["stats"].(map[string]any)
	for _, key := range []string{
		"totalCustomers", "activeCustomers", "totalOpportunities",
		"activeOpportunities", "totalOpportunityValue", "wonDeals", "wonDealsValue",
	} {
		assert.Contains(t, stats, key)
	}
}
