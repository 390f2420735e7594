package routes

import (
	"errors"
	"net/http"
	"time"

	"github.com/sanntiSG/carAPP/services"
	"github.com/sanntiSG/carAPP/utils"

	"github.com/kataras/iris/v12"
)

type CreateReservationRequest struct {
	CarID     uint   `json:"carId" validate:"required"`
	UserEmail string `json:"userEmail" validate:"required,email"`
	UserName  string `json:"userName" validate:"required,max=256"`
	Date      string `json:"date" validate:"required"`
}

// POST /api/reservations (public)
func CreateReservation(ctx iris.Context) {
	var request CreateReservationRequest
	if err := ctx.ReadJSON(&request); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	date, err := time.Parse(time.RFC3339, request.Date)
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_date", "date must be RFC3339")
		return
	}

	result, err := services.Reservations.Create(services.CreateReservationInput{
		CarID:     request.CarID,
		UserEmail: request.UserEmail,
		UserName:  request.UserName,
		Date:      date,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDuplicateReservation):
			utils.JSONError(ctx, http.StatusBadRequest, "duplicate_reservation", "you already have an active reservation for this car")
		case errors.Is(err, services.ErrCarNotFound):
			utils.JSONError(ctx, http.StatusNotFound, "not_found", "car not found")
		default:
			utils.JSONError(ctx, http.StatusInternalServerError, "server_error", "failed to create reservation")
		}
		return
	}

	if result.Waitlisted {
		ctx.JSON(iris.Map{
			"message":  "Added to waitlist",
			"status":   "WAITLIST",
			"position": result.Position,
		})
		return
	}

	ctx.StatusCode(http.StatusCreated)
	ctx.JSON(result.Reservation)
}

// POST /api/reservations/cancel/:code (public). The code is the only
// authorization needed.
func CancelReservation(ctx iris.Context) {
	code := ctx.Params().GetString("code")
	if code == "" {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_code", "cancellation code required")
		return
	}

	if _, err := services.Reservations.CancelByCode(code); err != nil {
		if errors.Is(err, services.ErrReservationNotFound) {
			utils.JSONError(ctx, http.StatusNotFound, "not_found", "reservation not found or already cancelled")
			return
		}
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", "failed to cancel reservation")
		return
	}

	ctx.JSON(iris.Map{"message": "Reservation cancelled successfully"})
}
