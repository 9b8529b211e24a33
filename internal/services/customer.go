package services

import (
  "context"
  "fmt"
  "regexp"
  "strings"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/yungbote/crm-backend/internal/apperr"
  "github.com/yungbote/crm-backend/internal/logger"
  "github.com/yungbote/crm-backend/internal/repos"
  "github.com/yungbote/crm-backend/internal/types"
)

// CustomerInput is the full set of editable customer fields. Create and
// update both take it; update replaces every field with what was submitted.
type CustomerInput struct {
  Name    string `json:"name"`
  Email   string `json:"email"`
  Phone   string `json:"phone"`
  Company string `json:"company"`
  Address string `json:"address"`
  Notes   string `json:"notes"`
  Status  string `json:"status"`
}

// CustomerListItem is one row of the customer index: the record plus how
// many opportunities it owns.
type CustomerListItem struct {
  *types.Customer
  OpportunityCount int64 `json:"opportunity_count"`
}

type CustomerPage struct {
  Customers []*CustomerListItem `json:"customers"`
  Total     int64               `json:"total"`
  Page      int                 `json:"page"`
  PageSize  int                 `json:"page_size"`
}

type CustomerService interface {
  Create(ctx context.Context, tx *gorm.DB, input CustomerInput) (*types.Customer, error)
  Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Customer, error)
  List(ctx context.Context, tx *gorm.DB, page, pageSize int) (*CustomerPage, error)
  ListActive(ctx context.Context, tx *gorm.DB) ([]*types.Customer, error)
  Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, input CustomerInput) (*types.Customer, error)
  Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
  CountActive(ctx context.Context, tx *gorm.DB) (int64, error)
}

type customerService struct {
  db              *gorm.DB
  log             *logger.Logger
  customerRepo    repos.CustomerRepo
  opportunityRepo repos.SalesOpportunityRepo
}

func NewCustomerService(
  db *gorm.DB,
  baseLog *logger.Logger,
  customerRepo repos.CustomerRepo,
  opportunityRepo repos.SalesOpportunityRepo,
) CustomerService {
  serviceLog := baseLog.With("service", "CustomerService")
  return &customerService{
    db:              db,
    log:             serviceLog,
    customerRepo:    customerRepo,
    opportunityRepo: opportunityRepo,
  }
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// validateCustomerInput checks the fixed rule set and returns every failed
// field at once. Status defaults to active when left empty.
func validateCustomerInput(input *CustomerInput) error {
  v := apperr.NewValidation()

  input.Name = strings.TrimSpace(input.Name)
  input.Email = strings.TrimSpace(input.Email)
  if input.Name == "" {
    v.Add("name", "Customer name is required.")
  }
  if input.Email == "" {
    v.Add("email", "Customer email is required.")
  } else if !emailPattern.MatchString(input.Email) {
    v.Add("email", "Customer email must be a valid email address.")
  }
  if input.Status == "" {
    input.Status = string(types.CustomerStatusActive)
  }
  if !types.CustomerStatus(input.Status).Valid() {
    v.Add("status", "The selected status is invalid.")
  }

  return v.Err()
}

func (cs *customerService) Create(ctx context.Context, tx *gorm.DB, input CustomerInput) (*types.Customer, error) {
  transaction := tx
  if transaction == nil {
    transaction = cs.db
  }

  if err := validateCustomerInput(&input); err != nil {
    return nil, err
  }

  customer := &types.Customer{
    ID:      uuid.New(),
    Name:    input.Name,
    Email:   input.Email,
    Phone:   input.Phone,
    Company: input.Company,
    Address: input.Address,
    Notes:   input.Notes,
    Status:  types.CustomerStatus(input.Status),
  }
  if _, err := cs.customerRepo.Create(ctx, transaction, customer); err != nil {
    cs.log.Error("Create customer failed", "error", err)
    return nil, fmt.Errorf("create customer: %w", err)
  }
  return customer, nil
}

func (cs *customerService) Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Customer, error) {
  transaction := tx
  if transaction == nil {
    transaction = cs.db
  }

  customer, err := cs.customerRepo.GetByIDWithOpportunities(ctx, transaction, id)
  if err != nil {
    return nil, fmt.Errorf("load customer: %w", err)
  }
  if customer == nil {
    return nil, apperr.NotFound("customer", id.String())
  }
  return customer, nil
}

func (cs *customerService) List(ctx context.Context, tx *gorm.DB, page, pageSize int) (*CustomerPage, error) {
  transaction := tx
  if transaction == nil {
    transaction = cs.db
  }
  page, pageSize = normalizePage(page, pageSize)

  total, err := cs.customerRepo.Count(ctx, transaction)
  if err != nil {
    return nil, fmt.Errorf("count customers: %w", err)
  }
  customers, err := cs.customerRepo.List(ctx, transaction, (page-1)*pageSize, pageSize)
  if err != nil {
    return nil, fmt.Errorf("list customers: %w", err)
  }

  ids := make([]uuid.UUID, 0, len(customers))
  for _, customer := range customers {
    ids = append(ids, customer.ID)
  }
  counts, err := cs.opportunityRepo.CountByCustomerIDs(ctx, transaction, ids)
  if err != nil {
    return nil, fmt.Errorf("count opportunities per customer: %w", err)
  }

  items := make([]*CustomerListItem, 0, len(customers))
  for _, customer := range customers {
    items = append(items, &CustomerListItem{
      Customer:         customer,
      OpportunityCount: counts[customer.ID],
    })
  }
  return &CustomerPage{
    Customers: items,
    Total:     total,
    Page:      page,
    PageSize:  pageSize,
  }, nil
}

func (cs *customerService) ListActive(ctx context.Context, tx *gorm.DB) ([]*types.Customer, error) {
  transaction := tx
  if transaction == nil {
    transaction = cs.db
  }
  return cs.customerRepo.ListActive(ctx, transaction)
}

func (cs *customerService) Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, input CustomerInput) (*types.Customer, error) {
  transaction := tx
  if transaction == nil {
    transaction = cs.db
  }

  customer, err := cs.customerRepo.GetByID(ctx, transaction, id)
  if err != nil {
    return nil, fmt.Errorf("load customer: %w", err)
  }
  if customer == nil {
    return nil, apperr.NotFound("customer", id.String())
  }
  if err := validateCustomerInput(&input); err != nil {
    return nil, err
  }

  customer.Name = input.Name
  customer.Email = input.Email
  customer.Phone = input.Phone
  customer.Company = input.Company
  customer.Address = input.Address
  customer.Notes = input.Notes
  customer.Status = types.CustomerStatus(input.Status)

  if _, err := cs.customerRepo.Update(ctx, transaction, customer); err != nil {
    cs.log.Error("Update customer failed", "error", err, "customer_id", id)
    return nil, fmt.Errorf("update customer: %w", err)
  }
  return customer, nil
}

// Delete removes the customer and every opportunity it owns in one
// transaction, so a concurrent reader never sees an orphaned opportunity.
func (cs *customerService) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = cs.db
  }

  return transaction.WithContext(ctx).Transaction(func(innerTx *gorm.DB) error {
    if _, err := cs.opportunityRepo.DeleteByCustomerID(ctx, innerTx, id); err != nil {
      return fmt.Errorf("delete customer opportunities: %w", err)
    }
    rows, err := cs.customerRepo.Delete(ctx, innerTx, id)
    if err != nil {
      return fmt.Errorf("delete customer: %w", err)
    }
    if rows == 0 {
      return apperr.NotFound("customer", id.String())
    }
    return nil
  })
}

func (cs *customerService) CountActive(ctx context.Context, tx *gorm.DB) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = cs.db
  }
  return cs.customerRepo.CountActive(ctx, transaction)
}

func normalizePage(page, pageSize int) (int, int) {
  if page < 1 {
    page = 1
  }
  if pageSize < 1 {
    pageSize = 10
  }
  if pageSize > 100 {
    pageSize = 100
  }
  return page, pageSize
}
