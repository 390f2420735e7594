package routes

import (
	"crypto/rand"
	"errors"
	"net/http"

	"github.com/sanntiSG/carAPP/models"
	"github.com/sanntiSG/carAPP/storage"
	"github.com/sanntiSG/carAPP/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

const shortCodeAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// generateShortCode returns a random 4-char base36 code.
func generateShortCode() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return ""
	}
	for i, v := range b {
		b[i] = shortCodeAlphabet[int(v)%len(shortCodeAlphabet)]
	}
	return string(b)
}

type ShortenInput struct {
	URL string `json:"url" validate:"required,url"`
}

// POST /s/shorten
func CreateShortLink(ctx iris.Context) {
	var input ShortenInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	// Reuse the existing code for a URL we already shortened
	var existing models.ShortLink
	if err := storage.DB.Where("original_url = ?", input.URL).First(&existing).Error; err == nil {
		ctx.JSON(iris.Map{"shortCode": existing.ShortCode})
		return
	}

	code := generateShortCode()
	for attempts := 0; attempts < 10; attempts++ {
		var collision models.ShortLink
		err := storage.DB.Where("short_code = ?", code).First(&collision).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			break
		}
		code = generateShortCode()
	}

	link := models.ShortLink{OriginalURL: input.URL, ShortCode: code}
	if err := storage.DB.Create(&link).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", "failed to shorten URL")
		return
	}

	ctx.JSON(iris.Map{"shortCode": code})
}

// GET /s/:code — permanent redirect so social crawlers cache the target.
func RedirectShortLink(ctx iris.Context) {
	code := ctx.Params().GetString("code")

	var link models.ShortLink
	if err := storage.DB.Where("short_code = ?", code).First(&link).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "link not found")
		return
	}

	ctx.Redirect(link.OriginalURL, http.StatusMovedPermanently)
}
