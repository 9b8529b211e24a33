package services

import (
  "context"
  "fmt"

  "gorm.io/gorm"

  "github.com/yungbote/crm-backend/internal/logger"
  "github.com/yungbote/crm-backend/internal/repos"
  "github.com/yungbote/crm-backend/internal/types"
)

const recentLimit = 5

// DashboardStats is the summary block of the dashboard. Every number is
// computed fresh from current rows; nothing here is cached.
type DashboardStats struct {
  TotalCustomers        int64   `json:"totalCustomers"`
  ActiveCustomers       int64   `json:"activeCustomers"`
  TotalOpportunities    int64   `json:"totalOpportunities"`
  ActiveOpportunities   int64   `json:"activeOpportunities"`
  TotalOpportunityValue float64 `json:"totalOpportunityValue"`
  WonDeals              int64   `json:"wonDeals"`
  WonDealsValue         float64 `json:"wonDealsValue"`
}

// DashboardOverview is the full dashboard payload.
type DashboardOverview struct {
  Stats                *DashboardStats           `json:"stats"`
  RecentCustomers      []*types.Customer         `json:"recentCustomers"`
  RecentOpportunities  []*types.SalesOpportunity `json:"recentOpportunities"`
  OpportunitiesByStage []types.StageBreakdown    `json:"opportunitiesByStage"`
}

type DashboardService interface {
  Summary(ctx context.Context, tx *gorm.DB) (*DashboardStats, error)
  RecentCustomers(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Customer, error)
  RecentOpportunities(ctx context.Context, tx *gorm.DB, limit int) ([]*types.SalesOpportunity, error)
  PipelineByStage(ctx context.Context, tx *gorm.DB) ([]types.StageBreakdown, error)
  Overview(ctx context.Context, tx *gorm.DB) (*DashboardOverview, error)
}

type dashboardService struct {
  db              *gorm.DB
  log             *logger.Logger
  customerRepo    repos.CustomerRepo
  opportunityRepo repos.SalesOpportunityRepo
}

func NewDashboardService(
  db *gorm.DB,
  baseLog *logger.Logger,
  customerRepo repos.CustomerRepo,
  opportunityRepo repos.SalesOpportunityRepo,
) DashboardService {
  serviceLog := baseLog.With("service", "DashboardService")
  return &dashboardService{
    db:              db,
    log:             serviceLog,
    customerRepo:    customerRepo,
    opportunityRepo: opportunityRepo,
  }
}

func (ds *dashboardService) Summary(ctx context.Context, tx *gorm.DB) (*DashboardStats, error) {
  transaction := tx
  if transaction == nil {
    transaction = ds.db
  }

  stats := &DashboardStats{}
  var err error
  if stats.TotalCustomers, err = ds.customerRepo.Count(ctx, transaction); err != nil {
    return nil, fmt.Errorf("count customers: %w", err)
  }
  if stats.ActiveCustomers, err = ds.customerRepo.CountActive(ctx, transaction); err != nil {
    return nil, fmt.Errorf("count active customers: %w", err)
  }
  if stats.TotalOpportunities, err = ds.opportunityRepo.Count(ctx, transaction); err != nil {
    return nil, fmt.Errorf("count opportunities: %w", err)
  }
  if stats.ActiveOpportunities, err = ds.opportunityRepo.CountActive(ctx, transaction); err != nil {
    return nil, fmt.Errorf("count active opportunities: %w", err)
  }
  if stats.TotalOpportunityValue, err = ds.opportunityRepo.SumActiveValue(ctx, transaction); err != nil {
    return nil, fmt.Errorf("sum active opportunity value: %w", err)
  }
  if stats.WonDeals, err = ds.opportunityRepo.CountWhereStage(ctx, transaction, types.StageClosedWon); err != nil {
    return nil, fmt.Errorf("count won deals: %w", err)
  }
  if stats.WonDealsValue, err = ds.opportunityRepo.SumValueWhereStage(ctx, transaction, types.StageClosedWon); err != nil {
    return nil, fmt.Errorf("sum won deal value: %w", err)
  }
  return stats, nil
}

func (ds *dashboardService) RecentCustomers(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Customer, error) {
  transaction := tx
  if transaction == nil {
    transaction = ds.db
  }
  if limit <= 0 {
    limit = recentLimit
  }
  return ds.customerRepo.Recent(ctx, transaction, limit)
}

func (ds *dashboardService) RecentOpportunities(ctx context.Context, tx *gorm.DB, limit int) ([]*types.SalesOpportunity, error) {
  transaction := tx
  if transaction == nil {
    transaction = ds.db
  }
  if limit <= 0 {
    limit = recentLimit
  }
  return ds.opportunityRepo.Recent(ctx, transaction, limit)
}

func (ds *dashboardService) PipelineByStage(ctx context.Context, tx *gorm.DB) ([]types.StageBreakdown, error) {
  transaction := tx
  if transaction == nil {
    transaction = ds.db
  }
  return ds.opportunityRepo.CountByStage(ctx, transaction, true)
}

func (ds *dashboardService) Overview(ctx context.Context, tx *gorm.DB) (*DashboardOverview, error) {
  transaction := tx
  if transaction == nil {
    transaction = ds.db
  }

  stats, err := ds.Summary(ctx, transaction)
  if err != nil {
    return nil, err
  }
  recentCustomers, err := ds.RecentCustomers(ctx, transaction, recentLimit)
  if err != nil {
    return nil, fmt.Errorf("load recent customers: %w", err)
  }
  recentOpportunities, err := ds.RecentOpportunities(ctx, transaction, recentLimit)
  if err != nil {
    return nil, fmt.Errorf("load recent opportunities: %w", err)
  }
  byStage, err := ds.PipelineByStage(ctx, transaction)
  if err != nil {
    return nil, fmt.Errorf("load pipeline by stage: %w", err)
  }
  return &DashboardOverview{
    Stats:                stats,
    RecentCustomers:      recentCustomers,
    RecentOpportunities:  recentOpportunities,
    OpportunitiesByStage: byStage,
  }, nil
}
