package routes

import (
	"encoding/json"
	"net/http"

	"github.com/sanntiSG/carAPP/models"
	"github.com/sanntiSG/carAPP/storage"
	"github.com/sanntiSG/carAPP/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/datatypes"
	"gorm.io/gorm/clause"
)

// GET /api/settings/hours (public)
func GetDealershipHours(ctx iris.Context) {
	var setting models.Setting
	if err := storage.DB.Where("key = ?", "dealership_hours").First(&setting).Error; err != nil {
		ctx.JSON(iris.Map{})
		return
	}
	ctx.ContentType("application/json")
	ctx.Write(setting.Value)
}

type UpsertSettingInput struct {
	Key         string      `json:"key" validate:"required,max=128"`
	Value       interface{} `json:"value" validate:"required"`
	Description string      `json:"description"`
}

// POST /api/settings (admin)
func AdminUpsertSetting(ctx iris.Context) {
	var input UpsertSettingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	valueJSON, err := json.Marshal(input.Value)
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_payload", "value must be JSON-encodable")
		return
	}

	setting := models.Setting{
		Key:         input.Key,
		Value:       datatypes.JSON(valueJSON),
		Description: input.Description,
	}
	err = storage.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "description", "updated_at"}),
	}).Create(&setting).Error
	if err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", "failed to update settings")
		return
	}

	utils.Audit(ctx, "setting.upsert", "setting", setting.ID, nil, setting)
	ctx.JSON(setting)
}
