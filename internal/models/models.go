package models

import (
	"time"
)

type Client struct {
	ID             uint       `gorm:"primaryKey;autoIncrement"      json:"id"`
	Name           string     `gorm:"size:255;not null"             json:"name"`
	Email          string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	HashedPassword string     `gorm:"size:255;not null"             json:"-"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	Favorites      []Favorite `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"-"`
}

type Favorite struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"                            json:"id"`
	ClientID  uint      `gorm:"index;not null;uniqueIndex:uniq_favorite_per_client" json:"client_id"`
	ProductID uint      `gorm:"not null;uniqueIndex:uniq_favorite_per_client"       json:"product_id"`
	Title     string    `gorm:"size:255;not null"                                   json:"title"`
	Image     string    `gorm:"size:255;not null"                                   json:"image"`
	Price     float64   `gorm:"not null"                                            json:"price"`
	Review    string    `gorm:"size:255"                                            json:"review,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	// reserved for soft delete, no read path filters on it
	DeletedAt *time.Time `json:"-"`
}
