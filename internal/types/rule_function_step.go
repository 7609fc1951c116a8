package types

import (
  "fmt"
  "time"

  "github.com/google/uuid"
  "gorm.io/datatypes"
  "gorm.io/gorm"
)

// StepType is the kind of work a rule function step performs.
type StepType string

const (
  StepSubFunction StepType = "subFunction"
  StepCondition   StepType = "condition"
  StepOutput      StepType = "output"
)

func ParseStepType(s string) (StepType, error) {
  switch StepType(s) {
  case StepSubFunction, StepCondition, StepOutput:
    return StepType(s), nil
  }
  return "", fmt.Errorf("unknown step type %q, must be one of: subFunction, condition, output", s)
}

// RuleFunctionStep is one node of a rule function's execution graph. Step ids
// are caller-assigned so NextStep can reference them; they are unique within
// a rule function, not globally.
type RuleFunctionStep struct {
  ID                 string          `gorm:"primaryKey" json:"id"`
  RuleFunctionID     uuid.UUID       `gorm:"type:uuid;primaryKey" json:"rule_function_id"`
  RuleFunction       *RuleFunction   `gorm:"constraint:OnDelete:CASCADE;foreignKey:RuleFunctionID;references:ID" json:"-"`
  Type               StepType        `gorm:"type:varchar(32);not null" json:"type"`
  OutputVariableName string          `gorm:"column:output_variable_name" json:"output_variable_name,omitempty"`
  ReturnType         string          `gorm:"column:return_type" json:"return_type,omitempty"`
  NextStep           datatypes.JSON  `gorm:"column:next_step" json:"next_step,omitempty"`
  Sequence           int             `gorm:"not null" json:"sequence"`
  SubfunctionID      *uuid.UUID      `gorm:"column:subfunction_id" json:"subfunction_id,omitempty"`
  Subfunction        *Subfunction    `gorm:"foreignKey:SubfunctionID;references:ID" json:"-"`
  SubfunctionParams  datatypes.JSON  `gorm:"column:subfunction_params" json:"subfunction_params,omitempty"`
  Conditions         datatypes.JSON  `gorm:"column:conditions" json:"conditions,omitempty"`
  OutputData         datatypes.JSON  `gorm:"column:output_data" json:"output_data,omitempty"`
  CreatedAt          time.Time       `gorm:"not null" json:"created_at"`
  UpdatedAt          time.Time       `gorm:"not null" json:"updated_at"`
  DeletedAt          gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (RuleFunctionStep) TableName() string {
  return "rule_function_steps"
}
