package models

import (
	"time"
)

type Post struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	Title            string    `json:"title" gorm:"size:100;not null"`
	Body             string    `json:"body" gorm:"type:text;not null"`
	TimeLabel        string    `json:"time" gorm:"size:64;not null"`
	TemperatureLabel string    `json:"temperature" gorm:"size:64;not null"`
	ImageFile        string    `json:"imageFile" gorm:"size:64;not null;default:'default.jpg'"`
	CreatedAt        time.Time `json:"createdAt" gorm:"index;not null"`
	UpdatedAt        time.Time `json:"-" gorm:"autoUpdateTime"`
	AuthorID         uint      `json:"-" gorm:"index;not null"` // foreign key, set once
	Author           User      `json:"author" gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}
