package types

import (
  "time"
  "gorm.io/gorm"
  "gorm.io/datatypes"
  "github.com/google/uuid"
)

type Subfunction struct {
  ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
  Name         string          `gorm:"not null" json:"name"`
  Description  string          `json:"description,omitempty"`
  Version      string          `gorm:"not null;default:'1.0'" json:"version"`
  FunctionName string          `gorm:"column:function_name;not null" json:"function_name"`
  CategoryID   *string         `gorm:"column:category_id" json:"category_id,omitempty"`
  Category     *Category       `gorm:"foreignKey:CategoryID;references:ID" json:"-"`
  Code         string          `gorm:"not null" json:"code"`
  ReturnType   string          `gorm:"column:return_type" json:"return_type,omitempty"`
  InputParams  datatypes.JSON  `gorm:"column:input_params" json:"input_params"`
  CreatedAt    time.Time       `gorm:"not null" json:"created_at"`
  UpdatedAt    time.Time       `gorm:"not null" json:"updated_at"`
  DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Subfunction) TableName() string {
  return "subfunctions"
}
