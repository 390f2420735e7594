package models

import "time"

// ShortLink maps a short code to a full URL. Links are permanent.
type ShortLink struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	OriginalURL string    `json:"originalUrl" gorm:"type:text;index"`
	ShortCode   string    `json:"shortCode" gorm:"size:16;uniqueIndex"`
	CreatedAt   time.Time `json:"createdAt"`
}
