package types

import (
  "time"
  "github.com/google/uuid"
)

// RuleStageHistory rows are append-only; nothing in the codebase updates or
// deletes them.
type RuleStageHistory struct {
  ID            uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
  RuleVersionID uuid.UUID     `gorm:"index;not null" json:"rule_version_id"`
  RuleVersion   *RuleVersion  `gorm:"constraint:OnDelete:CASCADE;foreignKey:RuleVersionID;references:ID" json:"-"`
  FromStage     Stage         `gorm:"type:varchar(16);not null" json:"from_stage"`
  ToStage       Stage         `gorm:"type:varchar(16);not null" json:"to_stage"`
  ChangedBy     string        `gorm:"not null" json:"changed_by"`
  ChangedAt     time.Time     `gorm:"not null;autoCreateTime" json:"changed_at"`
  Reason        string        `json:"reason,omitempty"`
}

func (RuleStageHistory) TableName() string {
  return "rule_stage_history"
}
