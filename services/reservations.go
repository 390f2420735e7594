package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/sanntiSG/carAPP/models"
	"github.com/sanntiSG/carAPP/storage"
	"github.com/sanntiSG/carAPP/utils"

	"golang.org/x/exp/slices"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReservationGrace is how long a customer has after the agreed visit time
// before the reservation expires automatically.
const ReservationGrace = 30 * time.Minute

// ReservationService is the single authority for creating and transitioning
// reservations and for keeping car state consistent with them.
type ReservationService struct{}

func NewReservationService() *ReservationService {
	return &ReservationService{}
}

// Reservations is the process-wide lifecycle engine instance.
var Reservations = NewReservationService()

type CreateReservationInput struct {
	CarID     uint
	UserEmail string
	UserName  string
	Date      time.Time
}

// CreateReservationResult is either a confirmed reservation or a waitlist
// placement with the customer's 1-based queue position.
type CreateReservationResult struct {
	Reservation *models.Reservation
	Waitlisted  bool
	Position    int
}

// Create books a visit on a bookable car or, when the car is taken, queues the
// customer on its waitlist. The AVAILABLE/STANDBY -> RESERVED flip is a single
// conditional update, so losing a race against a concurrent booking lands on
// the waitlist path instead of double-booking.
func (s *ReservationService) Create(in CreateReservationInput) (*CreateReservationResult, error) {
	var active int64
	if err := storage.DB.Model(&models.Reservation{}).
		Where("car_id = ? AND user_email = ? AND status = ?", in.CarID, in.UserEmail, models.ReservationConfirmed).
		Count(&active).Error; err != nil {
		return nil, err
	}
	if active > 0 {
		return nil, ErrDuplicateReservation
	}

	var car models.Car
	if err := storage.DB.First(&car, in.CarID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCarNotFound
		}
		return nil, err
	}

	now := time.Now()
	flip := storage.DB.Model(&models.Car{}).
		Where("id = ? AND status IN ?", car.ID, []models.CarStatus{models.CarAvailable, models.CarStandby}).
		Updates(map[string]interface{}{
			"status":                models.CarReserved,
			"reservation_count":     gorm.Expr("reservation_count + 1"),
			"last_reservation_date": now,
		})
	if flip.Error != nil {
		return nil, flip.Error
	}
	if flip.RowsAffected == 0 {
		// Not bookable, or a concurrent booking got there first.
		return s.joinWaitlist(&car, in, now)
	}

	code := utils.GenerateShortToken(16)
	reservation := models.Reservation{
		CarID:            car.ID,
		UserEmail:        in.UserEmail,
		UserName:         in.UserName,
		Date:             in.Date,
		Status:           models.ReservationConfirmed,
		ExpiresAt:        in.Date.Add(ReservationGrace),
		CancellationCode: &code,
	}
	if err := storage.DB.Create(&reservation).Error; err != nil {
		// Put the car back the way we found it; the booking never existed.
		revert := storage.DB.Model(&models.Car{}).
			Where("id = ? AND status = ?", car.ID, models.CarReserved).
			Updates(map[string]interface{}{
				"status":            car.Status,
				"reservation_count": gorm.Expr("reservation_count - 1"),
			})
		if revert.Error != nil || revert.RowsAffected == 0 {
			log.Printf("ENGINE ERROR: could not revert car %d after failed reservation insert: %v", car.ID, revert.Error)
		}
		return nil, err
	}

	s.appendHistory(car.ID, "RESERVATION", fmt.Sprintf("Reserved by %s (%s)", in.UserName, in.UserEmail))

	Mail.Enqueue(confirmationEmail(&car, &reservation, code))

	return &CreateReservationResult{Reservation: &reservation}, nil
}

// joinWaitlist appends the customer to the car's queue unless already present.
// The unique (car_id, user_email) index makes concurrent joins collapse into a
// single entry.
func (s *ReservationService) joinWaitlist(car *models.Car, in CreateReservationInput, now time.Time) (*CreateReservationResult, error) {
	entry := models.WaitlistEntry{
		CarID:     car.ID,
		UserEmail: in.UserEmail,
		UserName:  in.UserName,
		JoinedAt:  now,
	}
	res := storage.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&entry)
	if res.Error != nil {
		return nil, res.Error
	}
	joined := res.RowsAffected > 0

	var position int64
	if err := storage.DB.Model(&models.WaitlistEntry{}).Where("car_id = ?", car.ID).Count(&position).Error; err != nil {
		return nil, err
	}

	if joined {
		// WAITING record so the queue shows up on the admin reservation list.
		waiting := models.Reservation{
			CarID:     car.ID,
			UserEmail: in.UserEmail,
			UserName:  in.UserName,
			Date:      in.Date,
			Status:    models.ReservationWaiting,
			ExpiresAt: in.Date.Add(ReservationGrace),
		}
		if err := storage.DB.Create(&waiting).Error; err != nil {
			log.Printf("ENGINE ERROR: could not create WAITING record for car %d / %s: %v", car.ID, in.UserEmail, err)
		}

		Mail.Enqueue(waitlistJoinedEmail(car, in.UserName, in.UserEmail, int(position)))
	}

	return &CreateReservationResult{Waitlisted: true, Position: int(position)}, nil
}

// CancelByCode cancels the confirmed reservation holding the given code and
// releases its car. The status flip is conditional on CONFIRMED, so a code can
// only be spent once even when racing the sweeper.
func (s *ReservationService) CancelByCode(code string) (*models.Reservation, error) {
	var reservation models.Reservation
	err := storage.DB.
		Where("cancellation_code = ? AND status = ?", code, models.ReservationConfirmed).
		First(&reservation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}

	flip := storage.DB.Model(&models.Reservation{}).
		Where("id = ? AND status = ?", reservation.ID, models.ReservationConfirmed).
		Update("status", models.ReservationCancelled)
	if flip.Error != nil {
		return nil, flip.Error
	}
	if flip.RowsAffected == 0 {
		return nil, ErrReservationNotFound
	}
	reservation.Status = models.ReservationCancelled

	s.releaseCar(reservation.CarID, "CANCELLATION", fmt.Sprintf("Reservation cancelled by user %s", reservation.UserEmail))

	return &reservation, nil
}

// SetStatus applies an admin decision (COMPLETED or CANCELLED) to a
// reservation. For COMPLETED, nextCarStatus picks the car's new state,
// defaulting to VISITED.
func (s *ReservationService) SetStatus(id uint, status models.ReservationStatus, nextCarStatus models.CarStatus) (*models.Reservation, error) {
	var reservation models.Reservation
	if err := storage.DB.First(&reservation, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}

	// The reservation's own status is persisted before the car mutation.
	if err := storage.DB.Model(&reservation).Update("status", status).Error; err != nil {
		return nil, err
	}
	reservation.Status = status

	var car models.Car
	if err := storage.DB.First(&car, reservation.CarID).Error; err != nil {
		log.Printf("ENGINE ERROR: reservation %d references missing car %d", reservation.ID, reservation.CarID)
		return &reservation, nil
	}

	switch status {
	case models.ReservationCompleted:
		finalStatus := nextCarStatus
		if finalStatus == "" {
			finalStatus = models.CarStatusAfterOutcome[models.ReservationCompleted]
		}
		now := time.Now()
		if err := storage.DB.Model(&car).Updates(map[string]interface{}{
			"status":          finalStatus,
			"last_visit_date": now,
		}).Error; err != nil {
			log.Printf("ENGINE ERROR: could not update car %d after visit: %v", car.ID, err)
		}
		s.appendHistory(car.ID, "VISIT_AND_DECISION", fmt.Sprintf("Visit completed by %s. Car status set to %s.", reservation.UserName, finalStatus))

		if finalStatus == models.CarAvailable || finalStatus == models.CarSold || finalStatus == models.CarNegotiation {
			Waitlist.Notify(car.ID, finalStatus)
		}

	case models.ReservationCancelled:
		if err := storage.DB.Model(&car).Update("status", models.CarAvailable).Error; err != nil {
			log.Printf("ENGINE ERROR: could not release car %d after admin cancel: %v", car.ID, err)
		}
		s.appendHistory(car.ID, "CANCELLATION", "Reservation cancelled by admin")
		Waitlist.Notify(car.ID, models.CarAvailable)
	}

	return &reservation, nil
}

// ApplyCarStatusChange runs the side effects of an admin manually forcing a
// car's status: waitlist notification, history, and completion of any open
// booking. A forced status supersedes the booking even when forced back to
// AVAILABLE; that is a deliberate business rule, not an accident.
func (s *ReservationService) ApplyCarStatusChange(carID uint, oldStatus, newStatus models.CarStatus) {
	if oldStatus == newStatus {
		return
	}

	Waitlist.Notify(carID, newStatus)

	if slices.Contains([]models.CarStatus{models.CarSold, models.CarNegotiation, models.CarAvailable}, newStatus) {
		if err := storage.DB.Model(&models.Reservation{}).
			Where("car_id = ? AND status = ?", carID, models.ReservationConfirmed).
			Update("status", models.ReservationCompleted).Error; err != nil {
			log.Printf("ENGINE ERROR: could not complete open reservations for car %d: %v", carID, err)
		}
	}

	s.appendHistory(carID, "STATUS_CHANGE", fmt.Sprintf("Status manually changed from %s to %s", oldStatus, newStatus))
}

// releaseCar puts a car back on the market, records why, and wakes the
// waitlist.
func (s *ReservationService) releaseCar(carID uint, event, details string) {
	if err := storage.DB.Model(&models.Car{}).Where("id = ?", carID).
		Update("status", models.CarAvailable).Error; err != nil {
		log.Printf("ENGINE ERROR: could not release car %d: %v", carID, err)
	}
	s.appendHistory(carID, event, details)
	Waitlist.Notify(carID, models.CarAvailable)
}

// appendHistory is best-effort audit: a failed append is logged, not
// propagated, so a booking never fails over its own paper trail.
func (s *ReservationService) appendHistory(carID uint, event, details string) {
	entry := models.CarEvent{CarID: carID, Event: event, Details: details}
	if err := storage.DB.Create(&entry).Error; err != nil {
		log.Printf("ENGINE ERROR: could not append %s history for car %d: %v", event, carID, err)
	}
}

func confirmationEmail(car *models.Car, reservation *models.Reservation, code string) Email {
	cancelLink := fmt.Sprintf("%s/cancel/%s", FrontendURL(), code)
	return Email{
		ToName:  reservation.UserName,
		ToEmail: reservation.UserEmail,
		Subject: fmt.Sprintf("Reservation confirmed: %s %s", car.Brand, car.CarModel),
		HTML: fmt.Sprintf(`
			<div style="font-family: sans-serif; padding: 20px; color: #333;">
				<h1>Hi %s!</h1>
				<p>Your visit to see the <strong>%s %s</strong> is booked.</p>
				<div style="background: #f4f4f4; padding: 15px; border-radius: 10px; margin: 20px 0;">
					<p style="margin: 0;"><strong>Date and time:</strong> %s</p>
				</div>
				<p><strong>Important:</strong> you have up to 30 minutes after the agreed time to show up, otherwise the reservation expires automatically.</p>
				<p>If you cannot make it, please cancel here:</p>
				<a href="%s" style="display: inline-block; padding: 10px 20px; background: #FF3B30; color: #fff; text-decoration: none; border-radius: 8px; font-weight: bold;">Cancel reservation</a>
			</div>`,
			reservation.UserName, car.Brand, car.CarModel,
			reservation.Date.Format("Monday, January 2 2006 at 15:04"), cancelLink),
	}
}

func waitlistJoinedEmail(car *models.Car, name, email string, position int) Email {
	return Email{
		ToName:  name,
		ToEmail: email,
		Subject: fmt.Sprintf("Waitlist: %s %s", car.Brand, car.CarModel),
		HTML: fmt.Sprintf(`
			<div style="font-family: sans-serif; padding: 20px; color: #333;">
				<h2>You are on the waitlist</h2>
				<p>Hi %s,</p>
				<p>The <strong>%s %s</strong> is reserved at the moment.</p>
				<p>We will let you know right away if it becomes available again. You are number <strong>%d</strong> in line.</p>
			</div>`,
			name, car.Brand, car.CarModel, position),
	}
}
