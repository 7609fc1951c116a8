package types

import (
  "time"
  "gorm.io/gorm"
  "gorm.io/datatypes"
  "github.com/google/uuid"
)

// RuleFunction is a rule's editable working copy. At most one live working
// copy exists per rule; SaveVersion snapshots it into an immutable
// RuleVersion.
type RuleFunction struct {
  ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
  RuleID      uuid.UUID       `gorm:"index;not null" json:"rule_id"`
  Rule        *Rule           `gorm:"constraint:OnDelete:CASCADE;foreignKey:RuleID;references:ID" json:"-"`
  Code        string          `gorm:"not null" json:"code"`
  ReturnType  string          `gorm:"column:return_type" json:"return_type,omitempty"`
  InputParams datatypes.JSON  `gorm:"column:input_params" json:"input_params"`
  CreatedAt   time.Time       `gorm:"not null" json:"created_at"`
  UpdatedAt   time.Time       `gorm:"not null" json:"updated_at"`
  DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (RuleFunction) TableName() string {
  return "rule_functions"
}
