package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Car struct {
	gorm.Model
	Brand            string         `json:"brand" gorm:"size:128;index"`
	CarModel         string         `json:"model" gorm:"column:model;size:128"`
	Year             int            `json:"year" gorm:"index"`
	Price            float64        `json:"price" gorm:"index"`
	ImageURL         string         `json:"imageUrl"`
	Images           datatypes.JSON `json:"images"` // gallery
	FrontImageURL    string         `json:"frontImageUrl"`
	LeftImageURL     string         `json:"leftImageUrl"`
	RightImageURL    string         `json:"rightImageUrl"`
	UpImageURL       string         `json:"upImageUrl"`
	BackImageURL     string         `json:"backImageUrl"`
	InteriorImageURL string         `json:"interiorImageUrl"`
	Description      string         `json:"description" gorm:"type:text"`
	Status           CarStatus      `json:"status" gorm:"type:varchar(20);default:'AVAILABLE';index"`

	Views               int        `json:"views"`
	ReservationCount    int        `json:"reservationCount"`
	LastReservationDate *time.Time `json:"lastReservationDate"`
	LastVisitDate       *time.Time `json:"lastVisitDate"`

	Waitlist []WaitlistEntry `json:"waitlist" gorm:"foreignKey:CarID;references:ID"`
	History  []CarEvent      `json:"history" gorm:"foreignKey:CarID;references:ID"`
}

// WaitlistEntry is one customer queued for a car that is currently not
// bookable. The unique (car_id, user_email) index keeps concurrent joins from
// inserting duplicates; (joined_at, id) ascending is the queue order.
type WaitlistEntry struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	CarID     uint      `json:"-" gorm:"index;uniqueIndex:idx_waitlist_car_email,priority:1"`
	UserEmail string    `json:"userEmail" gorm:"size:256;uniqueIndex:idx_waitlist_car_email,priority:2"`
	UserName  string    `json:"userName" gorm:"size:256"`
	JoinedAt  time.Time `json:"joinedAt"`
}

// CarEvent is an append-only audit entry on a car. Rows are never updated;
// they only go away when the car itself is deleted.
type CarEvent struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	CarID     uint      `json:"-" gorm:"index"`
	Event     string    `json:"event" gorm:"size:32"` // RESERVATION, CANCELLATION, VISIT_AND_DECISION, STATUS_CHANGE, EXPIRATION
	Details   string    `json:"details" gorm:"type:text"`
	CreatedAt time.Time `json:"date"`
}
