package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sanntiSG/carAPP/models"
	"github.com/sanntiSG/carAPP/storage"

	"github.com/kataras/iris/v12"
)

func buildReservationApp(t *testing.T) *iris.Application {
	return buildApp(t, func(app *iris.Application) {
		reservation := app.Party("/api/reservations")
		reservation.Post("/", CreateReservation)
		reservation.Post("/cancel/{code}", CancelReservation)
	})
}

func postJSON(t *testing.T, app *iris.Application, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal request body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	return resp
}

func TestCreateReservationEndpoint(t *testing.T) {
	setupTestDB(t)
	captureMail(t)
	app := buildReservationApp(t)

	car := models.Car{Brand: "Toyota", CarModel: "Corolla", Year: 2021, Price: 18500, Status: models.CarAvailable}
	if err := storage.DB.Create(&car).Error; err != nil {
		t.Fatalf("failed to create car: %v", err)
	}

	date := time.Now().Add(48 * time.Hour).Format(time.RFC3339)

	resp := postJSON(t, app, "/api/reservations", iris.Map{
		"carId":     car.ID,
		"userEmail": "ana@example.com",
		"userName":  "Ana",
		"date":      date,
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body: %s)", resp.Code, resp.Body.String())
	}
	var created models.Reservation
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if created.Status != models.ReservationConfirmed {
		t.Errorf("status = %s, want %s", created.Status, models.ReservationConfirmed)
	}

	// Same customer again: duplicate
	resp = postJSON(t, app, "/api/reservations", iris.Map{
		"carId":     car.ID,
		"userEmail": "ana@example.com",
		"userName":  "Ana",
		"date":      date,
	})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("duplicate status = %d, want 400", resp.Code)
	}

	// Different customer while the car is taken: waitlist
	resp = postJSON(t, app, "/api/reservations", iris.Map{
		"carId":     car.ID,
		"userEmail": "bob@example.com",
		"userName":  "Bob",
		"date":      date,
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("waitlist status = %d, want 200 (body: %s)", resp.Code, resp.Body.String())
	}
	var placement struct {
		Status   string `json:"status"`
		Position int    `json:"position"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &placement); err != nil {
		t.Fatalf("failed to decode waitlist response: %v", err)
	}
	if placement.Status != "WAITLIST" || placement.Position != 1 {
		t.Errorf("placement = %+v, want WAITLIST position 1", placement)
	}
}

func TestCreateReservationEndpointValidation(t *testing.T) {
	setupTestDB(t)
	captureMail(t)
	app := buildReservationApp(t)

	// Malformed email
	resp := postJSON(t, app, "/api/reservations", iris.Map{
		"carId":     1,
		"userEmail": "not-an-email",
		"userName":  "Ana",
		"date":      time.Now().Format(time.RFC3339),
	})
	if resp.Code != http.StatusBadRequest {
		t.Errorf("bad email status = %d, want 400", resp.Code)
	}

	// Unparsable date
	resp = postJSON(t, app, "/api/reservations", iris.Map{
		"carId":     1,
		"userEmail": "ana@example.com",
		"userName":  "Ana",
		"date":      "tomorrow at noon",
	})
	if resp.Code != http.StatusBadRequest {
		t.Errorf("bad date status = %d, want 400", resp.Code)
	}

	// Unknown car
	resp = postJSON(t, app, "/api/reservations", iris.Map{
		"carId":     9999,
		"userEmail": "ana@example.com",
		"userName":  "Ana",
		"date":      time.Now().Add(time.Hour).Format(time.RFC3339),
	})
	if resp.Code != http.StatusNotFound {
		t.Errorf("unknown car status = %d, want 404", resp.Code)
	}
}

func TestCancelReservationEndpoint(t *testing.T) {
	setupTestDB(t)
	captureMail(t)
	app := buildReservationApp(t)

	car := models.Car{Brand: "Honda", CarModel: "Civic", Year: 2020, Price: 17200, Status: models.CarAvailable}
	if err := storage.DB.Create(&car).Error; err != nil {
		t.Fatalf("failed to create car: %v", err)
	}

	resp := postJSON(t, app, "/api/reservations", iris.Map{
		"carId":     car.ID,
		"userEmail": "ana@example.com",
		"userName":  "Ana",
		"date":      time.Now().Add(24 * time.Hour).Format(time.RFC3339),
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("booking status = %d, want 201", resp.Code)
	}

	// The code never appears in API responses, only in the email.
	var reservation models.Reservation
	if err := storage.DB.Where("user_email = ?", "ana@example.com").First(&reservation).Error; err != nil {
		t.Fatalf("failed to load reservation: %v", err)
	}
	if reservation.CancellationCode == nil {
		t.Fatal("reservation has no cancellation code")
	}

	resp = postJSON(t, app, fmt.Sprintf("/api/reservations/cancel/%s", *reservation.CancellationCode), nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("cancel status = %d, want 200 (body: %s)", resp.Code, resp.Body.String())
	}

	var got models.Car
	if err := storage.DB.First(&got, car.ID).Error; err != nil {
		t.Fatalf("failed to reload car: %v", err)
	}
	if got.Status != models.CarAvailable {
		t.Errorf("car status = %s, want %s", got.Status, models.CarAvailable)
	}

	// Spent and unknown codes both read as not found.
	resp = postJSON(t, app, fmt.Sprintf("/api/reservations/cancel/%s", *reservation.CancellationCode), nil)
	if resp.Code != http.StatusNotFound {
		t.Errorf("second cancel status = %d, want 404", resp.Code)
	}
	resp = postJSON(t, app, "/api/reservations/cancel/nosuchcode", nil)
	if resp.Code != http.StatusNotFound {
		t.Errorf("unknown code status = %d, want 404", resp.Code)
	}
}
