package services

import (
	"fmt"
	"log"

	"github.com/sanntiSG/carAPP/models"
	"github.com/sanntiSG/carAPP/storage"

	"gorm.io/gorm"
)

// WaitlistService reacts to car status changes. It never initiates a
// transition itself; the lifecycle engine calls it after the fact.
type WaitlistService struct{}

func NewWaitlistService() *WaitlistService {
	return &WaitlistService{}
}

// Waitlist is the process-wide notifier instance.
var Waitlist = NewWaitlistService()

// Notify tells queued customers about a car's new status.
//
// AVAILABLE notifies only the head of the queue and removes that customer's
// WAITING record; everyone else stays queued for the next availability event.
// SOLD and NEGOTIATION notify every entry, then clear the whole queue along
// with its WAITING records. Any other status is a no-op.
func (s *WaitlistService) Notify(carID uint, status models.CarStatus) {
	var car models.Car
	err := storage.DB.
		Preload("Waitlist", func(db *gorm.DB) *gorm.DB {
			return db.Order("joined_at ASC, id ASC")
		}).
		First(&car, carID).Error
	if err != nil {
		log.Printf("WAITLIST ERROR: could not load car %d: %v", carID, err)
		return
	}
	if len(car.Waitlist) == 0 {
		return
	}

	switch status {
	case models.CarAvailable:
		head := car.Waitlist[0]

		if err := storage.DB.
			Where("car_id = ? AND user_email = ? AND status = ?", carID, head.UserEmail, models.ReservationWaiting).
			Delete(&models.Reservation{}).Error; err != nil {
			log.Printf("WAITLIST ERROR: could not remove WAITING record for %s on car %d: %v", head.UserEmail, carID, err)
		}

		Mail.Enqueue(availableAgainEmail(&car, head))

	case models.CarSold, models.CarNegotiation:
		for _, entry := range car.Waitlist {
			Mail.Enqueue(noLongerAvailableEmail(&car, entry, status))
		}

		if err := storage.DB.
			Where("car_id = ? AND status = ?", carID, models.ReservationWaiting).
			Delete(&models.Reservation{}).Error; err != nil {
			log.Printf("WAITLIST ERROR: could not remove WAITING records for car %d: %v", carID, err)
		}
		if err := storage.DB.Where("car_id = ?", carID).Delete(&models.WaitlistEntry{}).Error; err != nil {
			log.Printf("WAITLIST ERROR: could not clear waitlist for car %d: %v", carID, err)
		}
	}
}

func availableAgainEmail(car *models.Car, entry models.WaitlistEntry) Email {
	carLink := fmt.Sprintf("%s/car/%d", FrontendURL(), car.ID)
	return Email{
		ToName:  entry.UserName,
		ToEmail: entry.UserEmail,
		Subject: fmt.Sprintf("Good news! The %s %s is available", car.Brand, car.CarModel),
		HTML: fmt.Sprintf(`
			<div style="font-family: sans-serif; padding: 20px; color: #333;">
				<h2 style="color: #0076FF;">It's your turn!</h2>
				<p>Hi %s,</p>
				<p>The <strong>%s %s</strong> is available for booking again.</p>
				<p>You are <strong>first on the waitlist</strong>. Book it now before someone else does!</p>
				<a href="%s" style="display: inline-block; padding: 12px 24px; background: #000; color: #fff; text-decoration: none; border-radius: 12px; font-weight: bold; margin-top: 20px;">Book now</a>
			</div>`,
			entry.UserName, car.Brand, car.CarModel, carLink),
	}
}

func noLongerAvailableEmail(car *models.Car, entry models.WaitlistEntry, status models.CarStatus) Email {
	statusLabel := "sold"
	if status == models.CarNegotiation {
		statusLabel = "under negotiation"
	}
	return Email{
		ToName:  entry.UserName,
		ToEmail: entry.UserEmail,
		Subject: fmt.Sprintf("Inventory update: %s %s", car.Brand, car.CarModel),
		HTML: fmt.Sprintf(`
			<div style="font-family: sans-serif; padding: 20px; color: #333;">
				<h2 style="color: #FF3B30;">Car no longer available</h2>
				<p>Hi %s,</p>
				<p>The <strong>%s %s</strong> you were waiting for is now <strong>%s</strong>.</p>
				<p>Take a look at the catalog for similar options.</p>
				<a href="%s/" style="display: inline-block; padding: 12px 24px; background: #000; color: #fff; text-decoration: none; border-radius: 12px; font-weight: bold; margin-top: 20px;">Browse catalog</a>
			</div>`,
			entry.UserName, car.Brand, car.CarModel, statusLabel, FrontendURL()),
	}
}
