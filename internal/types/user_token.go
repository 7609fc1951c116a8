package types

import (
  "time"
  "github.com/google/uuid"
)

type UserToken struct {
  ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
  UserID       uuid.UUID  `gorm:"index;not null" json:"user_id"`
  User         *User      `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
  AccessToken  string     `gorm:"uniqueIndex;not null;column:access_token" json:"access_token"`
  RefreshToken string     `gorm:"uniqueIndex;not null;column:refresh_token" json:"refresh_token"`
  ExpiresAt    time.Time  `gorm:"column:expires_at" json:"expires_at"`
  CreatedAt    time.Time  `gorm:"not null" json:"created_at"`
}

func (UserToken) TableName() string {
  return "user_token"
}
