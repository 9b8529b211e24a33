package types

import (
  "time"

  "github.com/google/uuid"
  "gorm.io/datatypes"
)

type SalesOpportunity struct {
  ID                uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
  CustomerID        uuid.UUID        `gorm:"type:uuid;not null;index" json:"customer_id"`
  Customer          *Customer        `gorm:"constraint:OnDelete:CASCADE;foreignKey:CustomerID;references:ID" json:"customer,omitempty"`
  Title             string           `gorm:"size:255;not null;column:title" json:"title"`
  Description       string           `gorm:"type:text;column:description" json:"description"`
  Value             float64          `gorm:"type:numeric(10,2);not null;column:value" json:"value"`
  Stage             OpportunityStage `gorm:"not null;default:'lead';index;index:idx_opportunities_stage_created,priority:1;column:stage" json:"stage"`
  // No default tag: gorm skips zero-valued fields that carry one, and
  // probability 0 (closed_lost) is a real value.
  Probability       int              `gorm:"not null;column:probability" json:"probability"`
  ExpectedCloseDate *datatypes.Date  `gorm:"index;column:expected_close_date" json:"expected_close_date"`
  ActualCloseDate   *datatypes.Date  `gorm:"column:actual_close_date" json:"actual_close_date"`
  CreatedAt         time.Time        `gorm:"not null;index:idx_opportunities_stage_created,priority:2" json:"created_at"`
  UpdatedAt         time.Time        `gorm:"not null" json:"updated_at"`
}

func (SalesOpportunity) TableName() string {
  return "sales_opportunities"
}

// Active reports whether the opportunity still sits in the pipeline, i.e.
// its stage is not one of the two terminal stages.
func (o *SalesOpportunity) Active() bool {
  return !o.Stage.Terminal()
}

// StageBreakdown is one group of the stage aggregation: how many
// opportunities sit in a stage and what they are worth together.
type StageBreakdown struct {
  Stage      OpportunityStage `json:"stage"`
  Count      int64            `json:"count"`
  TotalValue float64          `json:"total_value"`
}
