package routes

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/sanntiSG/carAPP/models"
	"github.com/sanntiSG/carAPP/storage"

	"github.com/kataras/iris/v12"
)

type exportJob struct {
	ID        string `json:"id"`
	Resource  string `json:"resource"`
	Status    string `json:"status"` // pending, processing, done, failed
	CreatedAt int64  `json:"created_at"`

	data []byte
}

var (
	exportJobs   = map[string]*exportJob{}
	exportJobsMu sync.Mutex
)

// POST /api/admin/export { resource: "reservations" | "cars" }
func AdminCreateExport(ctx iris.Context) {
	var body struct {
		Resource string `json:"resource"`
	}
	if err := ctx.ReadJSON(&body); err != nil || (body.Resource != "reservations" && body.Resource != "cars") {
		ctx.StatusCode(http.StatusUnprocessableEntity)
		ctx.JSON(iris.Map{"error": "invalid_payload", "message": "resource must be reservations or cars"})
		return
	}

	id := time.Now().Format("20060102150405.000000")
	job := &exportJob{ID: id, Resource: body.Resource, Status: "pending", CreatedAt: time.Now().Unix()}
	exportJobsMu.Lock()
	exportJobs[id] = job
	exportJobsMu.Unlock()

	go runExport(job)

	ctx.JSON(iris.Map{"data": iris.Map{"id": id, "status": job.Status}})
}

func runExport(job *exportJob) {
	setStatus := func(status string) {
		exportJobsMu.Lock()
		job.Status = status
		exportJobsMu.Unlock()
	}
	setStatus("processing")

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	var err error
	switch job.Resource {
	case "reservations":
		err = exportReservations(w)
	case "cars":
		err = exportCars(w)
	}
	w.Flush()
	if err == nil {
		err = w.Error()
	}

	if err != nil {
		setStatus("failed")
		return
	}
	exportJobsMu.Lock()
	job.data = buf.Bytes()
	job.Status = "done"
	exportJobsMu.Unlock()
}

func exportReservations(w *csv.Writer) error {
	var items []models.Reservation
	if err := storage.DB.Preload("Car").Order("created_at ASC").Find(&items).Error; err != nil {
		return err
	}
	if err := w.Write([]string{"id", "car", "user_email", "user_name", "date", "status", "expires_at", "created_at"}); err != nil {
		return err
	}
	for _, r := range items {
		record := []string{
			strconv.FormatUint(uint64(r.ID), 10),
			fmt.Sprintf("%s %s", r.Car.Brand, r.Car.CarModel),
			r.UserEmail,
			r.UserName,
			r.Date.Format(time.RFC3339),
			string(r.Status),
			r.ExpiresAt.Format(time.RFC3339),
			r.CreatedAt.Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

func exportCars(w *csv.Writer) error {
	var items []models.Car
	if err := storage.DB.Order("created_at ASC").Find(&items).Error; err != nil {
		return err
	}
	if err := w.Write([]string{"id", "brand", "model", "year", "price", "status", "views", "reservation_count"}); err != nil {
		return err
	}
	for _, c := range items {
		record := []string{
			strconv.FormatUint(uint64(c.ID), 10),
			c.Brand,
			c.CarModel,
			strconv.Itoa(c.Year),
			strconv.FormatFloat(c.Price, 'f', 2, 64),
			string(c.Status),
			strconv.Itoa(c.Views),
			strconv.Itoa(c.ReservationCount),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

// GET /api/admin/export/:id
func AdminGetExport(ctx iris.Context) {
	id := ctx.Params().GetString("id")
	exportJobsMu.Lock()
	job, ok := exportJobs[id]
	exportJobsMu.Unlock()
	if !ok {
		ctx.StatusCode(http.StatusNotFound)
		ctx.JSON(iris.Map{"error": "not_found", "message": "job not found"})
		return
	}
	ctx.JSON(iris.Map{"data": job})
}

// GET /api/admin/export/:id/download
func AdminDownloadExport(ctx iris.Context) {
	id := ctx.Params().GetString("id")
	exportJobsMu.Lock()
	job, ok := exportJobs[id]
	exportJobsMu.Unlock()
	if !ok || job.Status != "done" {
		ctx.StatusCode(http.StatusNotFound)
		ctx.JSON(iris.Map{"error": "not_found", "message": "export not ready"})
		return
	}
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s-%s.csv", job.Resource, job.ID))
	ctx.ContentType("text/csv")
	ctx.Write(job.data)
}
