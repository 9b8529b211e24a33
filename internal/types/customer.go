package types

import (
  "time"

  "github.com/google/uuid"
)

type CustomerStatus string

const (
  CustomerStatusActive   CustomerStatus = "active"
  CustomerStatusInactive CustomerStatus = "inactive"
)

func (s CustomerStatus) Valid() bool {
  return s == CustomerStatusActive || s == CustomerStatusInactive
}

type Customer struct {
  ID            uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
  Name          string              `gorm:"not null;column:name" json:"name"`
  Email         string              `gorm:"not null;index;column:email" json:"email"`
  Phone         string              `gorm:"column:phone" json:"phone"`
  Company       string              `gorm:"column:company" json:"company"`
  Address       string              `gorm:"type:text;column:address" json:"address"`
  Notes         string              `gorm:"type:text;column:notes" json:"notes"`
  Status        CustomerStatus      `gorm:"not null;default:'active';column:status" json:"status"`
  Opportunities []*SalesOpportunity `gorm:"foreignKey:CustomerID" json:"opportunities,omitempty"`
  CreatedAt     time.Time           `gorm:"not null" json:"created_at"`
  UpdatedAt     time.Time           `gorm:"not null" json:"updated_at"`
}

func (Customer) TableName() string {
  return "customers"
}
