package routes

import (
	"time"

	"github.com/sanntiSG/carAPP/models"
	"github.com/sanntiSG/carAPP/storage"

	"github.com/kataras/iris/v12"
)

// GET /api/admin/stats
func AdminStats(ctx iris.Context) {
	carsByStatus := iris.Map{}
	for _, status := range carStatuses {
		var n int64
		storage.DB.Model(&models.Car{}).Where("status = ?", status).Count(&n)
		carsByStatus[string(status)] = n
	}

	var activeReservations int64
	storage.DB.Model(&models.Reservation{}).Where("status = ?", models.ReservationConfirmed).Count(&activeReservations)
	var waiting int64
	storage.DB.Model(&models.Reservation{}).Where("status = ?", models.ReservationWaiting).Count(&waiting)

	since7 := time.Now().AddDate(0, 0, -7)
	since30 := time.Now().AddDate(0, 0, -30)
	var newRes7, newRes30 int64
	storage.DB.Model(&models.Reservation{}).Where("created_at >= ?", since7).Count(&newRes7)
	storage.DB.Model(&models.Reservation{}).Where("created_at >= ?", since30).Count(&newRes30)

	type viewsRow struct {
		Total int64
	}
	var views viewsRow
	storage.DB.Model(&models.Car{}).Select("COALESCE(SUM(views), 0) AS total").Scan(&views)

	ctx.JSON(iris.Map{
		"data": iris.Map{
			"cars_by_status":       carsByStatus,
			"active_reservations":  activeReservations,
			"waitlisted_customers": waiting,
			"new_reservations_7d":  newRes7,
			"new_reservations_30d": newRes30,
			"total_views":          views.Total,
		},
		"meta":  iris.Map{},
		"links": iris.Map{},
	})
}

// GET /api/admin/activity
func AdminActivity(ctx iris.Context) {
	var logs []models.AuditLog
	storage.DB.Order("created_at DESC").Limit(100).Find(&logs)
	ctx.JSON(iris.Map{"data": logs, "meta": iris.Map{}, "links": iris.Map{}})
}
