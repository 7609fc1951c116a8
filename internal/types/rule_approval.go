package types

import (
  "time"
  "github.com/google/uuid"
)

// RuleApproval is a request to move one rule version between adjacent stages.
// At most one PENDING approval may exist per rule version; the partial unique
// index created in db.AutoMigrateAll enforces that under concurrency.
type RuleApproval struct {
  ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
  RuleVersionID  uuid.UUID       `gorm:"index;not null" json:"rule_version_id"`
  RuleVersion    *RuleVersion    `gorm:"constraint:OnDelete:CASCADE;foreignKey:RuleVersionID;references:ID" json:"rule_version,omitempty"`
  RuleID         uuid.UUID       `gorm:"index;not null" json:"rule_id"`
  Rule           *Rule           `gorm:"constraint:OnDelete:CASCADE;foreignKey:RuleID;references:ID" json:"rule,omitempty"`
  FromStage      Stage           `gorm:"type:varchar(16);not null" json:"from_stage"`
  ToStage        Stage           `gorm:"type:varchar(16);not null" json:"to_stage"`
  Status         ApprovalStatus  `gorm:"type:varchar(16);not null;default:'PENDING'" json:"status"`
  Action         ApprovalAction  `gorm:"type:varchar(16);not null;default:'REQUESTED'" json:"action"`
  MovedToStage   *Stage          `gorm:"type:varchar(16);column:moved_to_stage" json:"moved_to_stage,omitempty"`
  RequestedBy    string          `gorm:"not null" json:"requested_by"`
  RequestComment string          `json:"request_comment,omitempty"`
  ActionBy       string          `json:"action_by,omitempty"`
  ActionAt       *time.Time      `json:"action_at,omitempty"`
  ActionComment  string          `json:"action_comment,omitempty"`
  CreatedAt      time.Time       `gorm:"not null" json:"created_at"`
}

func (RuleApproval) TableName() string {
  return "rule_approvals"
}
