package routes

import (
	"encoding/json"
	"net/http"

	"github.com/sanntiSG/carAPP/models"
	"github.com/sanntiSG/carAPP/services"
	"github.com/sanntiSG/carAPP/storage"
	"github.com/sanntiSG/carAPP/utils"

	"github.com/kataras/iris/v12"
	"golang.org/x/exp/slices"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var carStatuses = []models.CarStatus{
	models.CarAvailable, models.CarReserved, models.CarStandby,
	models.CarNegotiation, models.CarSold, models.CarVisited,
}

type CreateCarInput struct {
	Brand            string   `json:"brand" validate:"required,max=128"`
	Model            string   `json:"model" validate:"required,max=128"`
	Year             int      `json:"year" validate:"required,min=1900"`
	Price            float64  `json:"price" validate:"required,min=0"`
	ImageURL         string   `json:"imageUrl" validate:"required"`
	Images           []string `json:"images"`
	FrontImageURL    string   `json:"frontImageUrl"`
	LeftImageURL     string   `json:"leftImageUrl"`
	RightImageURL    string   `json:"rightImageUrl"`
	UpImageURL       string   `json:"upImageUrl"`
	BackImageURL     string   `json:"backImageUrl"`
	InteriorImageURL string   `json:"interiorImageUrl"`
	Description      string   `json:"description"`
	Status           string   `json:"status" validate:"omitempty,oneof=AVAILABLE RESERVED SOLD STANDBY NEGOTIATION VISITED"`
}

// UpdateCarInput is a sparse patch; only non-nil fields are applied.
type UpdateCarInput struct {
	Brand            *string  `json:"brand"`
	Model            *string  `json:"model"`
	Year             *int     `json:"year"`
	Price            *float64 `json:"price"`
	ImageURL         *string  `json:"imageUrl"`
	Images           []string `json:"images"`
	FrontImageURL    *string  `json:"frontImageUrl"`
	LeftImageURL     *string  `json:"leftImageUrl"`
	RightImageURL    *string  `json:"rightImageUrl"`
	UpImageURL       *string  `json:"upImageUrl"`
	BackImageURL     *string  `json:"backImageUrl"`
	InteriorImageURL *string  `json:"interiorImageUrl"`
	Description      *string  `json:"description"`
	Status           *string  `json:"status" validate:"omitempty,oneof=AVAILABLE RESERVED SOLD STANDBY NEGOTIATION VISITED"`
}

// GET /api/cars
func GetCars(ctx iris.Context) {
	q := storage.DB.Model(&models.Car{})

	if brand := ctx.URLParamDefault("brand", ""); brand != "" {
		q = q.Where("brand ILIKE ?", "%"+brand+"%")
	}
	if year := ctx.URLParamIntDefault("year", 0); year != 0 {
		q = q.Where("year = ?", year)
	}
	if status := ctx.URLParamDefault("status", ""); status != "" {
		q = q.Where("status = ?", status)
	}
	if minPrice, err := ctx.URLParamFloat64("minPrice"); err == nil {
		q = q.Where("price >= ?", minPrice)
	}
	if maxPrice, err := ctx.URLParamFloat64("maxPrice"); err == nil {
		q = q.Where("price <= ?", maxPrice)
	}

	var cars []models.Car
	if err := q.Order("created_at DESC").Find(&cars).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	ctx.JSON(cars)
}

// GET /api/cars/:id — also counts the view. The increment is a single atomic
// column update, not read-then-write.
func GetCar(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	bump := storage.DB.Model(&models.Car{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1"))
	if bump.Error != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", bump.Error.Error())
		return
	}
	if bump.RowsAffected == 0 {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "car not found")
		return
	}

	var car models.Car
	if err := storage.DB.
		Preload("Waitlist", func(db *gorm.DB) *gorm.DB { return db.Order("joined_at ASC, id ASC") }).
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") }).
		First(&car, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "car not found")
		return
	}
	ctx.JSON(car)
}

// POST /api/cars (admin)
func CreateCar(ctx iris.Context) {
	var input CreateCarInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	images := input.Images
	if images == nil {
		images = []string{}
	}
	imagesJSON, _ := json.Marshal(images)

	status := models.CarAvailable
	if input.Status != "" {
		status = models.CarStatus(input.Status)
	}

	car := models.Car{
		Brand:            input.Brand,
		CarModel:         input.Model,
		Year:             input.Year,
		Price:            input.Price,
		ImageURL:         input.ImageURL,
		Images:           datatypes.JSON(imagesJSON),
		FrontImageURL:    input.FrontImageURL,
		LeftImageURL:     input.LeftImageURL,
		RightImageURL:    input.RightImageURL,
		UpImageURL:       input.UpImageURL,
		BackImageURL:     input.BackImageURL,
		InteriorImageURL: input.InteriorImageURL,
		Description:      input.Description,
		Status:           status,
	}

	if err := storage.DB.Create(&car).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", "failed to create car")
		return
	}

	utils.Audit(ctx, "car.create", "car", car.ID, nil, car)
	ctx.StatusCode(http.StatusCreated)
	ctx.JSON(car)
}

// PUT /api/cars/:id (admin). A status change in the patch runs the full
// lifecycle side effects through the engine.
func UpdateCar(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var input UpdateCarInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var car models.Car
	if err := storage.DB.First(&car, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "car not found")
		return
	}
	before := car
	oldStatus := car.Status

	updates := map[string]interface{}{}
	if input.Brand != nil {
		updates["brand"] = *input.Brand
	}
	if input.Model != nil {
		updates["model"] = *input.Model
	}
	if input.Year != nil {
		updates["year"] = *input.Year
	}
	if input.Price != nil {
		updates["price"] = *input.Price
	}
	if input.ImageURL != nil {
		updates["image_url"] = *input.ImageURL
	}
	if input.Images != nil {
		imagesJSON, _ := json.Marshal(input.Images)
		updates["images"] = datatypes.JSON(imagesJSON)
	}
	if input.FrontImageURL != nil {
		updates["front_image_url"] = *input.FrontImageURL
	}
	if input.LeftImageURL != nil {
		updates["left_image_url"] = *input.LeftImageURL
	}
	if input.RightImageURL != nil {
		updates["right_image_url"] = *input.RightImageURL
	}
	if input.UpImageURL != nil {
		updates["up_image_url"] = *input.UpImageURL
	}
	if input.BackImageURL != nil {
		updates["back_image_url"] = *input.BackImageURL
	}
	if input.InteriorImageURL != nil {
		updates["interior_image_url"] = *input.InteriorImageURL
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}

	var newStatus models.CarStatus
	if input.Status != nil {
		newStatus = models.CarStatus(*input.Status)
		if !slices.Contains(carStatuses, newStatus) {
			utils.JSONError(ctx, http.StatusUnprocessableEntity, "invalid_status", "unknown car status")
			return
		}
		updates["status"] = newStatus
	}

	if len(updates) > 0 {
		if err := storage.DB.Model(&car).Updates(updates).Error; err != nil {
			utils.JSONError(ctx, http.StatusInternalServerError, "server_error", "failed to update car")
			return
		}
	}

	if input.Status != nil && newStatus != oldStatus {
		services.Reservations.ApplyCarStatusChange(car.ID, oldStatus, newStatus)
	}

	storage.DB.
		Preload("Waitlist").
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") }).
		First(&car, id)
	utils.Audit(ctx, "car.update", "car", car.ID, before, car)
	ctx.JSON(car)
}

// DELETE /api/cars/:id (admin). Takes the waitlist and history with it;
// reservations survive as historical records.
func DeleteCar(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var car models.Car
	if err := storage.DB.First(&car, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "car not found")
		return
	}

	storage.DB.Where("car_id = ?", id).Delete(&models.WaitlistEntry{})
	storage.DB.Where("car_id = ?", id).Delete(&models.CarEvent{})
	if err := storage.DB.Delete(&car).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", "failed to delete car")
		return
	}

	utils.Audit(ctx, "car.delete", "car", car.ID, car, nil)
	ctx.JSON(iris.Map{"message": "Car deleted"})
}
