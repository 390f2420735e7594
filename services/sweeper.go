package services

import (
	"fmt"
	"log"
	"time"

	"github.com/sanntiSG/carAPP/models"
	"github.com/sanntiSG/carAPP/storage"
)

// SweepInterval is how often overdue reservations are collected.
const SweepInterval = 5 * time.Minute

// SweeperService enforces the 30-minute grace window in the background.
type SweeperService struct{}

func NewSweeperService() *SweeperService {
	return &SweeperService{}
}

// Sweeper is the process-wide expiry sweeper instance.
var Sweeper = NewSweeperService()

// Run sweeps on a fixed schedule until stop is closed. Meant to be launched
// from main with `go services.Sweeper.Run(stop)`.
func (s *SweeperService) Run(stop <-chan struct{}) {
	ticker := time.NewTicker(SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			expired, err := s.SweepExpired()
			if err != nil {
				log.Printf("SWEEPER ERROR: %v", err)
				continue
			}
			if expired > 0 {
				log.Printf("SWEEPER: expired %d overdue reservation(s)", expired)
			}
		case <-stop:
			return
		}
	}
}

// SweepExpired transitions every overdue CONFIRMED reservation to EXPIRED and
// releases its car. Each reservation is handled independently: a failure on
// one is logged and the sweep moves on. The per-reservation flip is
// conditional on the status still being CONFIRMED, so racing a user
// cancellation is harmless, and a second sweep finds nothing to do.
func (s *SweeperService) SweepExpired() (int, error) {
	now := time.Now()

	var overdue []models.Reservation
	if err := storage.DB.
		Where("status = ? AND expires_at < ?", models.ReservationConfirmed, now).
		Find(&overdue).Error; err != nil {
		return 0, err
	}

	expired := 0
	for _, reservation := range overdue {
		flip := storage.DB.Model(&models.Reservation{}).
			Where("id = ? AND status = ?", reservation.ID, models.ReservationConfirmed).
			Update("status", models.ReservationExpired)
		if flip.Error != nil {
			log.Printf("SWEEPER ERROR: could not expire reservation %d: %v", reservation.ID, flip.Error)
			continue
		}
		if flip.RowsAffected == 0 {
			// Someone cancelled or completed it since the query ran.
			continue
		}

		Reservations.releaseCar(reservation.CarID, "EXPIRATION",
			fmt.Sprintf("Reservation for %s expired automatically.", reservation.UserEmail))
		expired++
	}

	return expired, nil
}
