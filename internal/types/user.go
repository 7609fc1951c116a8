package types

import (
  "time"
  "gorm.io/gorm"
  "github.com/google/uuid"
)

type User struct {
  ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
  Email       string          `gorm:"uniqueIndex;not null" json:"email"`
  Username    string          `gorm:"uniqueIndex;not null" json:"username"`
  Password    string          `gorm:"not null" json:"-"`
  FirstName   string          `gorm:"column:first_name" json:"first_name,omitempty"`
  LastName    string          `gorm:"column:last_name" json:"last_name,omitempty"`
  RoleID      int             `gorm:"column:role_id;not null;default:1" json:"role_id"`
  LastLoginAt *time.Time      `gorm:"column:last_login_at" json:"last_login_at,omitempty"`
  CreatedAt   time.Time       `gorm:"not null" json:"created_at"`
  UpdatedAt   time.Time       `gorm:"not null" json:"updated_at"`
  DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (User) TableName() string {
  return "users"
}
