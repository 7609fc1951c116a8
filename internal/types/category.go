package types

import (
  "time"
  "gorm.io/gorm"
)

type Category struct {
  ID          string          `gorm:"primaryKey" json:"id"`
  Name        string          `gorm:"not null" json:"name"`
  Description string          `json:"description,omitempty"`
  CreatedAt   time.Time       `gorm:"not null" json:"created_at"`
  UpdatedAt   time.Time       `gorm:"not null" json:"updated_at"`
  DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Category) TableName() string {
  return "categories"
}
