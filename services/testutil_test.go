package services

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/sanntiSG/carAPP/models"
	"github.com/sanntiSG/carAPP/storage"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB points storage.DB at a fresh in-memory database for one test.
func setupTestDB(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.Car{},
		&models.WaitlistEntry{},
		&models.CarEvent{},
		&models.Reservation{},
		&models.Setting{},
		&models.ShortLink{},
		&models.User{},
		&models.AuditLog{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	storage.DB = db
}

// mailRecorder captures outbound emails instead of delivering them.
type mailRecorder struct {
	mu   sync.Mutex
	sent []Email
}

func (r *mailRecorder) Enqueue(e Email) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, e)
}

func (r *mailRecorder) emails() []Email {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Email, len(r.sent))
	copy(out, r.sent)
	return out
}

func captureMail(t *testing.T) *mailRecorder {
	t.Helper()
	rec := &mailRecorder{}
	prev := Mail
	Mail = rec
	t.Cleanup(func() { Mail = prev })
	return rec
}

func mustCreateCar(t *testing.T, status models.CarStatus) *models.Car {
	t.Helper()
	car := models.Car{
		Brand:    "Toyota",
		CarModel: "Corolla",
		Year:     2021,
		Price:    18500,
		Status:   status,
	}
	if err := storage.DB.Create(&car).Error; err != nil {
		t.Fatalf("failed to create car: %v", err)
	}
	return &car
}

func mustReloadCar(t *testing.T, id uint) *models.Car {
	t.Helper()
	var car models.Car
	err := storage.DB.
		Preload("Waitlist", func(db *gorm.DB) *gorm.DB { return db.Order("joined_at ASC, id ASC") }).
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") }).
		First(&car, id).Error
	if err != nil {
		t.Fatalf("failed to reload car %d: %v", id, err)
	}
	return &car
}

func mustJoinWaitlist(t *testing.T, carID uint, email, name string, joinedAt time.Time) {
	t.Helper()
	entry := models.WaitlistEntry{CarID: carID, UserEmail: email, UserName: name, JoinedAt: joinedAt}
	if err := storage.DB.Create(&entry).Error; err != nil {
		t.Fatalf("failed to create waitlist entry: %v", err)
	}
	waiting := models.Reservation{
		CarID:     carID,
		UserEmail: email,
		UserName:  name,
		Date:      joinedAt,
		Status:    models.ReservationWaiting,
		ExpiresAt: joinedAt.Add(ReservationGrace),
	}
	if err := storage.DB.Create(&waiting).Error; err != nil {
		t.Fatalf("failed to create WAITING record: %v", err)
	}
}

func countReservations(t *testing.T, carID uint, status models.ReservationStatus) int64 {
	t.Helper()
	var n int64
	err := storage.DB.Model(&models.Reservation{}).
		Where("car_id = ? AND status = ?", carID, status).
		Count(&n).Error
	if err != nil {
		t.Fatalf("failed to count reservations: %v", err)
	}
	return n
}
