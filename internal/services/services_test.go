package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yungbote/crm-backend/internal/logger"
	"github.com/yungbote/crm-backend/internal/repos"
	"github.com/yungbote/crm-backend/internal/types"
)

// newTestDB opens a fresh in-memory sqlite database with the production
// schema. Postgres-only DDL (the cascade constraint) is not applied; the
// cascade path is exercised through the transactional delete instead.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	// A second pool connection would see its own empty in-memory database.
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, gdb.AutoMigrate(&types.Customer{}, &types.SalesOpportunity{}))
	return gdb
}

type testEnv struct {
	db            *gorm.DB
	customers     CustomerService
	opportunities OpportunityService
	dashboard     DashboardService
}

func newUUID(t *testing.T) uuid.UUID {
	t.Helper()
	return uuid.New()
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gdb := newTestDB(t)
	log := logger.NewNop()
	customerRepo := repos.NewCustomerRepo(gdb, log)
	opportunityRepo := repos.NewSalesOpportunityRepo(gdb, log)
	return &testEnv{
		db:            gdb,
		customers:     NewCustomerService(gdb, log, customerRepo, opportunityRepo),
		opportunities: NewOpportunityService(gdb, log, opportunityRepo, customerRepo),
		dashboard:     NewDashboardService(gdb, log, customerRepo, opportunityRepo),
	}
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func validCustomerInput() CustomerInput {
	return CustomerInput{
		Name:    "Acme",
		Email:   "a@acme.com",
		Phone:   "+1-555-0100",
		Company: "Acme Corp",
		Address: "1 Main St",
		Notes:   "big account",
		Status:  "active",
	}
}

func (env *testEnv) mustCreateCustomer(t *testing.T, input CustomerInput) *types.Customer {
	t.Helper()
	customer, err := env.customers.Create(context.Background(), nil, input)
	require.NoError(t, err)
	return customer
}

func (env *testEnv) mustCreateOpportunity(t *testing.T, input OpportunityInput) *types.SalesOpportunity {
	t.Helper()
	opportunity, err := env.opportunities.Create(context.Background(), nil, input)
	require.NoError(t, err)
	return opportunity
}

// setCreatedAt pins created_at so newest-first ordering is deterministic in
// tests regardless of clock resolution.
func (env *testEnv) setCreatedAt(t *testing.T, model any, id any, ts time.Time) {
	t.Helper()
	require.NoError(t, env.db.Model(model).Where("id = ?", id).Update("created_at", ts).Error)
}
