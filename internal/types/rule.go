package types

import (
  "time"
  "gorm.io/gorm"
  "github.com/google/uuid"
)

type Rule struct {
  ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
  Slug          string          `gorm:"index;not null" json:"slug"`
  Name          string          `gorm:"not null" json:"name"`
  Description   string          `json:"description,omitempty"`
  Status        Stage           `gorm:"type:varchar(16);not null;default:'WIP'" json:"status"`
  VersionMajor  int             `gorm:"not null;default:0" json:"version_major"`
  VersionMinor  int             `gorm:"not null;default:1" json:"version_minor"`
  Author        string          `json:"author,omitempty"`
  CreatedAt     time.Time       `gorm:"not null" json:"created_at"`
  UpdatedAt     time.Time       `gorm:"not null" json:"updated_at"`
  DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Rule) TableName() string {
  return "rules"
}
