package services

import (
  "context"
  "fmt"
  "math"
  "strings"
  "time"

  "github.com/google/uuid"
  "gorm.io/datatypes"
  "gorm.io/gorm"

  "github.com/yungbote/crm-backend/internal/apperr"
  "github.com/yungbote/crm-backend/internal/logger"
  "github.com/yungbote/crm-backend/internal/repos"
  "github.com/yungbote/crm-backend/internal/types"
)

const closeDateLayout = "2006-01-02"

// OpportunityInput carries every editable opportunity field as submitted.
// Value and Probability are pointers so "absent" and "zero" stay distinct;
// dates arrive as YYYY-MM-DD strings and are parsed during validation.
type OpportunityInput struct {
  CustomerID        string   `json:"customer_id"`
  Title             string   `json:"title"`
  Description       string   `json:"description"`
  Value             *float64 `json:"value"`
  Stage             string   `json:"stage"`
  Probability       *int     `json:"probability"`
  ExpectedCloseDate string   `json:"expected_close_date"`
  ActualCloseDate   string   `json:"actual_close_date"`
}

type OpportunityPage struct {
  Opportunities []*types.SalesOpportunity `json:"opportunities"`
  Total         int64                     `json:"total"`
  Page          int                       `json:"page"`
  PageSize      int                       `json:"page_size"`
}

type OpportunityService interface {
  Create(ctx context.Context, tx *gorm.DB, input OpportunityInput) (*types.SalesOpportunity, error)
  Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.SalesOpportunity, error)
  List(ctx context.Context, tx *gorm.DB, page, pageSize int) (*OpportunityPage, error)
  Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, input OpportunityInput) (*types.SalesOpportunity, error)
  Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
  CountActive(ctx context.Context, tx *gorm.DB) (int64, error)
  SumActiveValue(ctx context.Context, tx *gorm.DB) (float64, error)
  CountByStage(ctx context.Context, tx *gorm.DB, excludeTerminal bool) ([]types.StageBreakdown, error)
}

type opportunityService struct {
  db              *gorm.DB
  log             *logger.Logger
  opportunityRepo repos.SalesOpportunityRepo
  customerRepo    repos.CustomerRepo
}

func NewOpportunityService(
  db *gorm.DB,
  baseLog *logger.Logger,
  opportunityRepo repos.SalesOpportunityRepo,
  customerRepo repos.CustomerRepo,
) OpportunityService {
  serviceLog := baseLog.With("service", "OpportunityService")
  return &opportunityService{
    db:              db,
    log:             serviceLog,
    opportunityRepo: opportunityRepo,
    customerRepo:    customerRepo,
  }
}

// resolvedOpportunity is the validated, typed form of an OpportunityInput.
type resolvedOpportunity struct {
  customerID        uuid.UUID
  title             string
  description       string
  value             float64
  stage             types.OpportunityStage
  probability       int
  expectedCloseDate *datatypes.Date
  actualCloseDate   *datatypes.Date
}

// validate applies the fixed rule set and collects every violation into one
// field -> message map. Defaults are filled here: an empty stage becomes
// lead, a missing probability takes the stage's advisory default.
func (ops *opportunityService) validate(ctx context.Context, tx *gorm.DB, input OpportunityInput) (*resolvedOpportunity, error) {
  v := apperr.NewValidation()
  resolved := &resolvedOpportunity{
    description: input.Description,
  }

  if strings.TrimSpace(input.CustomerID) == "" {
    v.Add("customer_id", "Please select a customer.")
  } else if customerID, err := uuid.Parse(input.CustomerID); err != nil {
    v.Add("customer_id", "The selected customer does not exist.")
  } else {
    customer, err := ops.customerRepo.GetByID(ctx, tx, customerID)
    if err != nil {
      return nil, fmt.Errorf("check customer exists: %w", err)
    }
    if customer == nil {
      v.Add("customer_id", "The selected customer does not exist.")
    } else {
      resolved.customerID = customerID
    }
  }

  resolved.title = strings.TrimSpace(input.Title)
  if resolved.title == "" {
    v.Add("title", "Opportunity title is required.")
  } else if len(resolved.title) > 255 {
    v.Add("title", "Opportunity title cannot exceed 255 characters.")
  }

  if input.Value == nil {
    v.Add("value", "Opportunity value is required.")
  } else if *input.Value < 0 {
    v.Add("value", "Opportunity value must be greater than 0.")
  } else {
    resolved.value = math.Round(*input.Value*100) / 100
  }

  stage := types.OpportunityStage(input.Stage)
  if input.Stage == "" {
    stage = types.StageLead
  }
  if !stage.Valid() {
    v.Add("stage", "The selected stage is invalid.")
  } else {
    resolved.stage = stage
  }

  if input.Probability == nil {
    resolved.probability = stage.DefaultProbability()
  } else if *input.Probability < 0 {
    v.Add("probability", "Probability must be at least 0%.")
  } else if *input.Probability > 100 {
    v.Add("probability", "Probability cannot exceed 100%.")
  } else {
    resolved.probability = *input.Probability
  }

  if input.ExpectedCloseDate != "" {
    if parsed, err := time.Parse(closeDateLayout, input.ExpectedCloseDate); err != nil {
      v.Add("expected_close_date", "Expected close date must be a valid date.")
    } else {
      date := datatypes.Date(parsed)
      resolved.expectedCloseDate = &date
    }
  }
  if input.ActualCloseDate != "" {
    if parsed, err := time.Parse(closeDateLayout, input.ActualCloseDate); err != nil {
      v.Add("actual_close_date", "Actual close date must be a valid date.")
    } else {
      date := datatypes.Date(parsed)
      resolved.actualCloseDate = &date
    }
  }

  if err := v.Err(); err != nil {
    return nil, err
  }
  return resolved, nil
}

func (ops *opportunityService) Create(ctx context.Context, tx *gorm.DB, input OpportunityInput) (*types.SalesOpportunity, error) {
  transaction := tx
  if transaction == nil {
    transaction = ops.db
  }

  resolved, err := ops.validate(ctx, transaction, input)
  if err != nil {
    return nil, err
  }

  opportunity := &types.SalesOpportunity{
    ID:                uuid.New(),
    CustomerID:        resolved.customerID,
    Title:             resolved.title,
    Description:       resolved.description,
    Value:             resolved.value,
    Stage:             resolved.stage,
    Probability:       resolved.probability,
    ExpectedCloseDate: resolved.expectedCloseDate,
    ActualCloseDate:   resolved.actualCloseDate,
  }
  if _, err := ops.opportunityRepo.Create(ctx, transaction, opportunity); err != nil {
    ops.log.Error("Create opportunity failed", "error", err)
    return nil, fmt.Errorf("create opportunity: %w", err)
  }
  // Reload so the response carries the customer projection.
  return ops.Get(ctx, transaction, opportunity.ID)
}

func (ops *opportunityService) Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.SalesOpportunity, error) {
  transaction := tx
  if transaction == nil {
    transaction = ops.db
  }

  opportunity, err := ops.opportunityRepo.GetByID(ctx, transaction, id)
  if err != nil {
    return nil, fmt.Errorf("load opportunity: %w", err)
  }
  if opportunity == nil {
    return nil, apperr.NotFound("sales opportunity", id.String())
  }
  return opportunity, nil
}

func (ops *opportunityService) List(ctx context.Context, tx *gorm.DB, page, pageSize int) (*OpportunityPage, error) {
  transaction := tx
  if transaction == nil {
    transaction = ops.db
  }
  page, pageSize = normalizePage(page, pageSize)

  total, err := ops.opportunityRepo.Count(ctx, transaction)
  if err != nil {
    return nil, fmt.Errorf("count opportunities: %w", err)
  }
  opportunities, err := ops.opportunityRepo.List(ctx, transaction, (page-1)*pageSize, pageSize)
  if err != nil {
    return nil, fmt.Errorf("list opportunities: %w", err)
  }
  return &OpportunityPage{
    Opportunities: opportunities,
    Total:         total,
    Page:          page,
    PageSize:      pageSize,
  }, nil
}

// Update replaces every editable field with the submitted set. Concurrent
// updates are last-write-wins; there is no version token.
func (ops *opportunityService) Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, input OpportunityInput) (*types.SalesOpportunity, error) {
  transaction := tx
  if transaction == nil {
    transaction = ops.db
  }

  opportunity, err := ops.opportunityRepo.GetByID(ctx, transaction, id)
  if err != nil {
    return nil, fmt.Errorf("load opportunity: %w", err)
  }
  if opportunity == nil {
    return nil, apperr.NotFound("sales opportunity", id.String())
  }
  resolved, err := ops.validate(ctx, transaction, input)
  if err != nil {
    return nil, err
  }

  opportunity.Customer = nil
  opportunity.CustomerID = resolved.customerID
  opportunity.Title = resolved.title
  opportunity.Description = resolved.description
  opportunity.Value = resolved.value
  opportunity.Stage = resolved.stage
  opportunity.Probability = resolved.probability
  opportunity.ExpectedCloseDate = resolved.expectedCloseDate
  opportunity.ActualCloseDate = resolved.actualCloseDate

  if _, err := ops.opportunityRepo.Update(ctx, transaction, opportunity); err != nil {
    ops.log.Error("Update opportunity failed", "error", err, "opportunity_id", id)
    return nil, fmt.Errorf("update opportunity: %w", err)
  }
  return ops.Get(ctx, transaction, id)
}

func (ops *opportunityService) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = ops.db
  }

  rows, err := ops.opportunityRepo.Delete(ctx, transaction, id)
  if err != nil {
    return fmt.Errorf("delete opportunity: %w", err)
  }
  if rows == 0 {
    return apperr.NotFound("sales opportunity", id.String())
  }
  return nil
}

func (ops *opportunityService) CountActive(ctx context.Context, tx *gorm.DB) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = ops.db
  }
  return ops.opportunityRepo.CountActive(ctx, transaction)
}

func (ops *opportunityService) SumActiveValue(ctx context.Context, tx *gorm.DB) (float64, error) {
  transaction := tx
  if transaction == nil {
    transaction = ops.db
  }
  return ops.opportunityRepo.SumActiveValue(ctx, transaction)
}

func (ops *opportunityService) CountByStage(ctx context.Context, tx *gorm.DB, excludeTerminal bool) ([]types.StageBreakdown, error) {
  transaction := tx
  if transaction == nil {
    transaction = ops.db
  }
  return ops.opportunityRepo.CountByStage(ctx, transaction, excludeTerminal)
}
