package routes

import (
	"fmt"
	"sync"
	"testing"

	"github.com/sanntiSG/carAPP/models"
	"github.com/sanntiSG/carAPP/services"
	"github.com/sanntiSG/carAPP/storage"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB points storage.DB at a fresh in-memory database for one test.
func setupTestDB(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf("file:routes_%s?mode=memory&cache=shared", t.Name())
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

// mailRecorder swaps in for the outbox so route tests never hit a mail provider.
type mailRecorder struct {
	mu   sync.Mutex
	sent []services.Email
}

func (r *mailRecorder) Enqueue(e services.Email) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, e)
}

func captureMail(t *testing.T) *mailRecorder {
	t.Helper()
	rec := &mailRecorder{}
	prev := services.Mail
	services.Mail = rec
	t.Cleanup(func() { services.Mail = prev })
	return rec
}

// buildApp assembles an Iris app with the given party wiring, built and ready
// to serve httptest requests.
func buildApp(t *testing.T, wire func(app *iris.Application)) *iris.Application {
	t.Helper()
	app := iris.New()
	app.Validator = validator.New()
	wire(app)
	if err := app.Build(); err != nil {
		t.Fatalf("failed to build app: %v", err)
	}
	return app
}
