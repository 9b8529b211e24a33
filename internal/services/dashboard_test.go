package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/crm-backend/internal/types"
)

func TestDashboardSummaryTracksPipeline(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	customer := env.mustCreateCustomer(t, CustomerInput{
		Name:   "Acme",
		Email:  "a@acme.com",
		Status: "active",
	})
	opportunity := env.mustCreateOpportunity(t, OpportunityInput{
		CustomerID:  customer.ID.String(),
		Title:       "Deal",
		Value:       floatPtr(1000.00),
		Stage:       "lead",
		Probability: intPtr(10),
	})

	stats, err := env.dashboard.Summary(ctx, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.TotalCustomers)
	assert.EqualValues(t, 1, stats.ActiveCustomers)
	assert.EqualValues(t, 1, stats.TotalOpportunities)
	assert.EqualValues(t, 1, stats.ActiveOpportunities)
	assert.Equal(t, 1000.00, stats.TotalOpportunityValue)
	assert.Zero(t, stats.WonDeals)
	assert.Zero(t, stats.WonDealsValue)

	// Winning the deal moves its value from the pipeline to the won bucket.
	_, err = env.opportunities.Update(ctx, nil, opportunity.ID, OpportunityInput{
		CustomerID:  customer.ID.String(),
		Title:       "Deal",
		Value:       floatPtr(1000.00),
		Stage:       "closed_won",
		Probability: intPtr(100),
	})
	require.NoError(t, err)

	stats, err = env.dashboard.Summary(ctx, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.WonDeals)
	assert.Equal(t, 1000.00, stats.WonDealsValue)
	assert.Zero(t, stats.ActiveOpportunities)
	assert.Zero(t, stats.TotalOpportunityValue)
	assert.EqualValues(t, 1, stats.TotalOpportunities)
}

func TestDashboardTotalAccountingIdentity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seedPipeline(t, env)

	stats, err := env.dashboard.Summary(ctx, nil)
	require.NoError(t, err)

	groups, err := env.opportunities.CountByStage(ctx, nil, true)
	require.NoError(t, err)
	var activeCount int64
	for _, group := range groups {
		activeCount += group.Count
	}
	var lostCount int64
	require.NoError(t, env.db.Model(&types.SalesOpportunity{}).
		Where("stage = ?", types.StageClosedLost).
		Count(&lostCount).Error)

	assert.Equal(t, stats.TotalOpportunities, activeCount+stats.WonDeals+lostCount)
}

func TestRecentCustomersNewestFirstAndLimited(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	var newest string
	for i := 0; i < 7; i++ {
		input := validCustomerInput()
		customer := env.mustCreateCustomer(t, input)
		env.setCreatedAt(t, &types.Customer{}, customer.ID, base.Add(time.Duration(i)*time.Minute))
		newest = customer.ID.String()
	}

	recent, err := env.dashboard.RecentCustomers(ctx, nil, 0)
	require.NoError(t, err)
	require.Len(t, recent, 5)
	assert.Equal(t, newest, recent[0].ID.String())
	// Projection covers the dashboard card fields only.
	assert.NotEmpty(t, recent[0].Name)
	assert.NotEmpty(t, recent[0].Email)
	assert.Empty(t, recent[0].Phone)
	assert.Empty(t, recent[0].Notes)
}

func TestRecentOpportunitiesCarryCustomer(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	customer := env.mustCreateCustomer(t, validCustomerInput())
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	var newest string
	for i := 0; i < 6; i++ {
		opportunity := env.mustCreateOpportunity(t, OpportunityInput{
			CustomerID: customer.ID.String(),
			Title:      "Deal",
			Value:      floatPtr(50),
		})
		env.setCreatedAt(t, &types.SalesOpportunity{}, opportunity.ID, base.Add(time.Duration(i)*time.Minute))
		newest = opportunity.ID.String()
	}

	recent, err := env.dashboard.RecentOpportunities(ctx, nil, 5)
	require.NoError(t, err)
	require.Len(t, recent, 5)
	assert.Equal(t, newest, recent[0].ID.String())
	require.NotNil(t, recent[0].Customer)
	assert.Equal(t, customer.Name, recent[0].Customer.Name)
}

func TestOverviewComposesEverything(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seedPipeline(t, env)

	overview, err := env.dashboard.Overview(ctx, nil)
	require.NoError(t, err)
	require.NotNil(t, overview.Stats)
	assert.EqualValues(t, 6, overview.Stats.TotalOpportunities)
	assert.Len(t, overview.RecentCustomers, 1)
	assert.Len(t, overview.RecentOpportunities, 5)
	require.Len(t, overview.OpportunitiesByStage, 4)
	for _, group := range overview.OpportunitiesByStage {
		assert.False(t, group.Stage.Terminal())
	}
}

func TestPipelineByStageMatchesSumActiveValue(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seedPipeline(t, env)

	groups, err := env.dashboard.PipelineByStage(ctx, nil)
	require.NoError(t, err)
	var total float64
	for _, group := range groups {
		total += group.TotalValue
	}
	sum, err := env.opportunities.SumActiveValue(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, sum, total)
}
