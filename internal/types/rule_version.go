package types

import (
  "time"
  "gorm.io/datatypes"
  "github.com/google/uuid"
)

// RuleVersion is an immutable snapshot of a rule's function body and steps at a
// given (major, minor). Only Stage changes after insert.
type RuleVersion struct {
  ID                      uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
  RuleID                  uuid.UUID       `gorm:"index;not null;uniqueIndex:idx_rule_version_number,priority:1" json:"rule_id"`
  Rule                    *Rule           `gorm:"constraint:OnDelete:CASCADE;foreignKey:RuleID;references:ID" json:"-"`
  MajorVersion            int             `gorm:"not null;uniqueIndex:idx_rule_version_number,priority:2" json:"major_version"`
  MinorVersion            int             `gorm:"not null;uniqueIndex:idx_rule_version_number,priority:3" json:"minor_version"`
  Stage                   Stage           `gorm:"type:varchar(16);not null;default:'WIP'" json:"stage"`
  RuleFunctionCode        string          `gorm:"column:rule_function_code" json:"rule_function_code"`
  RuleFunctionInputParams datatypes.JSON  `gorm:"column:rule_function_input_params" json:"rule_function_input_params"`
  RuleSteps               datatypes.JSON  `gorm:"column:rule_steps" json:"rule_steps"`
  CreatedBy               string          `json:"created_by,omitempty"`
  Comment                 string          `json:"comment,omitempty"`
  TestStatus              string          `gorm:"column:test_status" json:"test_status,omitempty"`
  CreatedAt               time.Time       `gorm:"not null" json:"created_at"`
}

func (RuleVersion) TableName() string {
  return "rule_versions"
}
