package model

import (
	"time"
)

type User struct {
	Username      string    `gorm:"type:varchar(64);primaryKey"`
	StudentNumber int       `gorm:"not null;index"`
	FirstName     string    `gorm:"type:varchar(255);not null"`
	LastName      string    `gorm:"type:varchar(255);not null"`
	Role          string    `gorm:"type:varchar(50);not null;default:'viewer'"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
