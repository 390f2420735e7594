package routes

import (
	"errors"
	"net/http"
	"time"

	"github.com/sanntiSG/carAPP/models"
	"github.com/sanntiSG/carAPP/services"
	"github.com/sanntiSG/carAPP/storage"
	"github.com/sanntiSG/carAPP/utils"

	"github.com/kataras/iris/v12"
)

// GET /api/reservations (admin)
func AdminListReservations(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	status := ctx.URLParamDefault("status", "")
	carID := ctx.URLParamDefault("car_id", "")
	dateFrom := ctx.URLParamDefault("date_from", "")
	dateTo := ctx.URLParamDefault("date_to", "")

	q := storage.DB.Model(&models.Reservation{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if carID != "" {
		q = q.Where("car_id = ?", carID)
	}
	if dateFrom != "" {
		if t, err := time.Parse(time.RFC3339, dateFrom); err == nil {
			q = q.Where("date >= ?", t)
		}
	}
	if dateTo != "" {
		if t, err := time.Parse(time.RFC3339, dateTo); err == nil {
			q = q.Where("date <= ?", t)
		}
	}

	var total int64
	q.Count(&total)

	var items []models.Reservation
	if err := q.Preload("Car").Offset((page - 1) * perPage).Limit(perPage).Order("date ASC").Find(&items).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	utils.JSONPage(ctx, items, page, perPage, total)
}

type UpdateReservationStatusInput struct {
	Status        string `json:"status" validate:"required,oneof=COMPLETED CANCELLED"`
	NextCarStatus string `json:"nextCarStatus" validate:"omitempty,oneof=AVAILABLE SOLD NEGOTIATION VISITED STANDBY"`
}

// PATCH /api/reservations/:id/status (admin) — records the visit outcome or
// cancels on the customer's behalf.
func AdminUpdateReservationStatus(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var body UpdateReservationStatusInput
	if err := ctx.ReadJSON(&body); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	reservation, err := services.Reservations.SetStatus(
		id,
		models.ReservationStatus(body.Status),
		models.CarStatus(body.NextCarStatus),
	)
	if err != nil {
		if errors.Is(err, services.ErrReservationNotFound) {
			utils.JSONError(ctx, http.StatusNotFound, "not_found", "reservation not found")
			return
		}
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", "failed to update status")
		return
	}

	utils.Audit(ctx, "reservation.status_update", "reservation", reservation.ID, nil, reservation)
	ctx.JSON(iris.Map{"data": reservation})
}
