package repos

import (
  "context"

  "github.com/google/uuid"
  "gorm.io/gorm"
  "gorm.io/gorm/clause"

  "github.com/yungbote/crm-backend/internal/logger"
  "github.com/yungbote/crm-backend/internal/types"
)

type CustomerRepo interface {
  Create(ctx context.Context, tx *gorm.DB, customer *types.Customer) (*types.Customer, error)
  GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Customer, error)
  GetByIDWithOpportunities(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Customer, error)
  List(ctx context.Context, tx *gorm.DB, offset, limit int) ([]*types.Customer, error)
  ListActive(ctx context.Context, tx *gorm.DB) ([]*types.Customer, error)
  Recent(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Customer, error)
  Update(ctx context.Context, tx *gorm.DB, customer *types.Customer) (*types.Customer, error)
  Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error)
  Count(ctx context.Context, tx *gorm.DB) (int64, error)
  CountActive(ctx context.Context, tx *gorm.DB) (int64, error)
}

type customerRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewCustomerRepo(db *gorm.DB, baseLog *logger.Logger) CustomerRepo {
  repoLog := baseLog.With("repo", "CustomerRepo")
  return &customerRepo{db: db, log: repoLog}
}

func (cr *customerRepo) Create(ctx context.Context, tx *gorm.DB, customer *types.Customer) (*types.Customer, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }

  if err := transaction.WithContext(ctx).Omit(clause.Associations).Create(customer).Error; err != nil {
    return nil, err
  }
  return customer, nil
}

// GetByID returns nil without error when no row matches; callers map that to
// their own not-found handling.
func (cr *customerRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Customer, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }

  var results []*types.Customer
  if err := transaction.WithContext(ctx).
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

func (cr *customerRepo) GetByIDWithOpportunities(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Customer, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }

  var results []*types.Customer
  if err := transaction.WithContext(ctx).
    Preload("Opportunities", func(db *gorm.DB) *gorm.DB {
      return db.Order("created_at DESC")
    }).
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

func (cr *customerRepo) List(ctx context.Context, tx *gorm.DB, offset, limit int) ([]*types.Customer, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }

  var results []*types.Customer
  if err := transaction.WithContext(ctx).
    Order("created_at DESC").
    Offset(offset).
    Limit(limit).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

// ListActive is the projection opportunity forms select a customer from.
func (cr *customerRepo) ListActive(ctx context.Context, tx *gorm.DB) ([]*types.Customer, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }

  var results []*types.Customer
  if err := transaction.WithContext(ctx).
    Select("id", "name", "company").
    Where("status = ?", types.CustomerStatusActive).
    Order("name ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (cr *customerRepo) Recent(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Customer, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }

  var results []*types.Customer
  if err := transaction.WithContext(ctx).
    Select("id", "name", "company", "email", "created_at").
    Order("created_at DESC").
    Limit(limit).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (cr *customerRepo) Update(ctx context.Context, tx *gorm.DB, customer *types.Customer) (*types.Customer, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }

  if err := transaction.WithContext(ctx).Omit(clause.Associations).Save(customer).Error; err != nil {
    return nil, err
  }
  return customer, nil
}

func (cr *customerRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }

  result := transaction.WithContext(ctx).
    Where("id = ?", id).
    Delete(&types.Customer{})
  if result.Error != nil {
    return 0, result.Error
  }
  return result.RowsAffected, nil
}

func (cr *customerRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }

  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.Customer{}).
    Count(&count).Error; err != nil {
    return 0, err
  }
  return count, nil
}

func (cr *customerRepo) CountActive(ctx context.Context, tx *gorm.DB) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }

  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.Customer{}).
    Where("status = ?", types.CustomerStatusActive).
    Count(&count).Error; err != nil {
    return 0, err
  }
  return count, nil
}
