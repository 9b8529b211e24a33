package repos

import (
  "context"
  "sort"

  "github.com/google/uuid"
  "gorm.io/gorm"
  "gorm.io/gorm/clause"

  "github.com/yungbote/crm-backend/internal/logger"
  "github.com/yungbote/crm-backend/internal/types"
)

type SalesOpportunityRepo interface {
  Create(ctx context.Context, tx *gorm.DB, opportunity *types.SalesOpportunity) (*types.SalesOpportunity, error)
  GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.SalesOpportunity, error)
  List(ctx context.Context, tx *gorm.DB, offset, limit int) ([]*types.SalesOpportunity, error)
  Recent(ctx context.Context, tx *gorm.DB, limit int) ([]*types.SalesOpportunity, error)
  Update(ctx context.Context, tx *gorm.DB, opportunity *types.SalesOpportunity) (*types.SalesOpportunity, error)
  Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error)
  DeleteByCustomerID(ctx context.Context, tx *gorm.DB, customerID uuid.UUID) (int64, error)
  Count(ctx context.Context, tx *gorm.DB) (int64, error)
  CountActive(ctx context.Context, tx *gorm.DB) (int64, error)
  SumActiveValue(ctx context.Context, tx *gorm.DB) (float64, error)
  CountWhereStage(ctx context.Context, tx *gorm.DB, stage types.OpportunityStage) (int64, error)
  SumValueWhereStage(ctx context.Context, tx *gorm.DB, stage types.OpportunityStage) (float64, error)
  CountByStage(ctx context.Context, tx *gorm.DB, excludeTerminal bool) ([]types.StageBreakdown, error)
  CountByCustomerIDs(ctx context.Context, tx *gorm.DB, customerIDs []uuid.UUID) (map[uuid.UUID]int64, error)
}

type salesOpportunityRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewSalesOpportunityRepo(db *gorm.DB, baseLog *logger.Logger) SalesOpportunityRepo {
  repoLog := baseLog.With("repo", "SalesOpportunityRepo")
  return &salesOpportunityRepo{db: db, log: repoLog}
}

// customerProjection keeps attached customers down to what list and detail
// views actually render.
func customerProjection(db *gorm.DB) *gorm.DB {
  return db.Select("id", "name", "company")
}

func (or *salesOpportunityRepo) Create(ctx context.Context, tx *gorm.DB, opportunity *types.SalesOpportunity) (*types.SalesOpportunity, error) {
  transaction := tx
  if transaction == nil {
    transaction = or.db
  }

  if err := transaction.WithContext(ctx).Omit(clause.Associations).Create(opportunity).Error; err != nil {
    return nil, err
  }
  return opportunity, nil
}

func (or *salesOpportunityRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.SalesOpportunity, error) {
  transaction := tx
  if transaction == nil {
    transaction = or.db
  }

  var results []*types.SalesOpportunity
  if err := transaction.WithContext(ctx).
    Preload("Customer", customerProjection).
    Where("id = ?", id).
    Limit(1).
    Find(&results).Error; err != nil {
    return nil, err
  }
  if len(results) == 0 {
    return nil, nil
  }
  return results[0], nil
}

func (or *salesOpportunityRepo) List(ctx context.Context, tx *gorm.DB, offset, limit int) ([]*types.SalesOpportunity, error) {
  transaction := tx
  if transaction == nil {
    transaction = or.db
  }

  var results []*types.SalesOpportunity
  if err := transaction.WithContext(ctx).
    Preload("Customer", customerProjection).
    Order("created_at DESC").
    Offset(offset).
    Limit(limit).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (or *salesOpportunityRepo) Recent(ctx context.Context, tx *gorm.DB, limit int) ([]*types.SalesOpportunity, error) {
  transaction := tx
  if transaction == nil {
    transaction = or.db
  }

  var results []*types.SalesOpportunity
  if err := transaction.WithContext(ctx).
    Preload("Customer", customerProjection).
    Order("created_at DESC").
    Limit(limit).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (or *salesOpportunityRepo) Update(ctx context.Context, tx *gorm.DB, opportunity *types.SalesOpportunity) (*types.SalesOpportunity, error) {
  transaction := tx
  if transaction == nil {
    transaction = or.db
  }

  if err := transaction.WithContext(ctx).Omit(clause.Associations).Save(opportunity).Error; err != nil {
    return nil, err
  }
  return opportunity, nil
}

func (or *salesOpportunityRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = or.db
  }

  result := transaction.WithContext(ctx).
    Where("id = ?", id).
    Delete(&types.SalesOpportunity{})
  if result.Error != nil {
    return 0, result.Error
  }
  return result.RowsAffected, nil
}

func (or *salesOpportunityRepo) DeleteByCustomerID(ctx context.Context, tx *gorm.DB, customerID uuid.UUID) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = or.db
  }

  result := transaction.WithContext(ctx).
    Where("customer_id = ?", customerID).
    Delete(&types.SalesOpportunity{})
  if result.Error != nil {
    return 0, result.Error
  }
  return result.RowsAffected, nil
}

func (or *salesOpportunityRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = or.db
  }

  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.SalesOpportunity{}).
    Count(&count).Error; err != nil {
    return 0, err
  }
  return count, nil
}

func (or *salesOpportunityRepo) CountActive(ctx context.Context, tx *gorm.DB) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = or.db
  }

  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.SalesOpportunity{}).
    Where("stage NOT IN ?", []types.OpportunityStage{types.StageClosedWon, types.StageClosedLost}).
    Count(&count).Error; err != nil {
    return 0, err
  }
  return count, nil
}

func (or *salesOpportunityRepo) SumActiveValue(ctx context.Context, tx *gorm.DB) (float64, error) {
  transaction := tx
  if transaction == nil {
    transaction = or.db
  }

  var sum float64
  if err := transaction.WithContext(ctx).
    Model(&types.SalesOpportunity{}).
    Select("COALESCE(SUM(value), 0)").
    Where("stage NOT IN ?", []types.OpportunityStage{types.StageClosedWon, types.StageClosedLost}).
    Scan(&sum).Error; err != nil {
    return 0, err
  }
  return sum, nil
}

func (or *salesOpportunityRepo) CountWhereStage(ctx context.Context, tx *gorm.DB, stage types.OpportunityStage) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = or.db
  }

  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.SalesOpportunity{}).
    Where("stage = ?", stage).
    Count(&count).Error; err != nil {
    return 0, err
  }
  return count, nil
}

func (or *salesOpportunityRepo) SumValueWhereStage(ctx context.Context, tx *gorm.DB, stage types.OpportunityStage) (float64, error) {
  transaction := tx
  if transaction == nil {
    transaction = or.db
  }

  var sum float64
  if err := transaction.WithContext(ctx).
    Model(&types.SalesOpportunity{}).
    Select("COALESCE(SUM(value), 0)").
    Where("stage = ?", stage).
    Scan(&sum).Error; err != nil {
    return 0, err
  }
  return sum, nil
}

// CountByStage groups opportunities by stage. The grouping key carries no
// order of its own, so the result is sorted into pipeline order for
// presentation.
func (or *salesOpportunityRepo) CountByStage(ctx context.Context, tx *gorm.DB, excludeTerminal bool) ([]types.StageBreakdown, error) {
  transaction := tx
  if transaction == nil {
    transaction = or.db
  }

  query := transaction.WithContext(ctx).
    Model(&types.SalesOpportunity{}).
    Select("stage, COUNT(*) AS count, COALESCE(SUM(value), 0) AS total_value").
    Group("stage")
  if excludeTerminal {
    query = query.Where("stage NOT IN ?", []types.OpportunityStage{types.StageClosedWon, types.StageClosedLost})
  }

  var results []types.StageBreakdown
  if err := query.Scan(&results).Error; err != nil {
    return nil, err
  }
  sort.Slice(results, func(i, j int) bool {
    return results[i].Stage.Order() < results[j].Stage.Order()
  })
  return results, nil
}

func (or *salesOpportunityRepo) CountByCustomerIDs(ctx context.Context, tx *gorm.DB, customerIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = or.db
  }

  counts := make(map[uuid.UUID]int64, len(customerIDs))
  if len(customerIDs) == 0 {
    return counts, nil
  }

  var rows []struct {
    CustomerID uuid.UUID
    Count      int64
  }
  if err := transaction.WithContext(ctx).
    Model(&types.SalesOpportunity{}).
    Select("customer_id, COUNT(*) AS count").
    Where("customer_id IN ?", customerIDs).
    Group("customer_id").
    Scan(&rows).Error; err != nil {
    return nil, err
  }
  for _, row := range rows {
    counts[row.CustomerID] = row.Count
  }
  return counts, nil
}
