package models

import (
	"time"

	"gorm.io/gorm"
)

type Reservation struct {
	gorm.Model
	CarID     uint              `json:"carID" gorm:"index"`
	UserEmail string            `json:"userEmail" gorm:"size:256;index"`
	UserName  string            `json:"userName" gorm:"size:256"`
	Date      time.Time         `json:"date"`
	Status    ReservationStatus `json:"status" gorm:"type:varchar(20);default:'CONFIRMED';index"`
	ExpiresAt time.Time         `json:"expiresAt" gorm:"index"` // visit date + 30 min grace

	// CancellationCode is the only authorization needed to cancel a confirmed
	// reservation. Nullable so WAITING placeholders carry no code.
	CancellationCode *string `json:"-" gorm:"size:64;uniqueIndex"`

	Car Car `json:"car" gorm:"foreignKey:CarID;references:ID"`
}
