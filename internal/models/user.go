package models

import (
	"time"
)

// DefaultImage is the placeholder asset every user and post starts with.
const DefaultImage = "default.jpg"

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"size:20;uniqueIndex;not null"`
	Email        string    `json:"-" gorm:"size:120;uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"size:60;not null"`
	ImageFile    string    `json:"imageFile" gorm:"size:64;not null;default:'default.jpg'"`
	AboutMe      string    `json:"aboutMe" gorm:"size:140"`
	CreatedAt    time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"-" gorm:"autoUpdateTime"`
}
