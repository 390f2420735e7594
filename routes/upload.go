package routes

import (
	"net/http"

	"github.com/sanntiSG/carAPP/storage"

	"github.com/kataras/iris/v12"
)

type uploadInput struct {
	Data     string `json:"data"`      // base64 data URL or raw base64
	PublicID string `json:"public_id"` // optional
}

// UploadImage handles base64 image upload to Cloudinary (admin). Images go
// through moderation when the moderation add-on is configured.
func UploadImage(ctx iris.Context) {
	var in uploadInput
	if err := ctx.ReadJSON(&in); err != nil {
		ctx.StopWithJSON(http.StatusBadRequest, iris.Map{"error": "invalid payload"})
		return
	}
	res := storage.UploadBase64Image(in.Data, in.PublicID)
	if res["moderation"] == "rejected" {
		ctx.StopWithJSON(http.StatusUnprocessableEntity, iris.Map{"error": "image rejected by moderation"})
		return
	}
	url := res["url"]
	if url == "" {
		ctx.StopWithJSON(http.StatusBadRequest, iris.Map{"error": "upload failed"})
		return
	}
	ctx.JSON(iris.Map{"url": url})
}

type deleteImageInput struct {
	URL string `json:"url" validate:"required"`
}

// DeleteUploadedImage removes a previously uploaded image (admin).
func DeleteUploadedImage(ctx iris.Context) {
	var in deleteImageInput
	if err := ctx.ReadJSON(&in); err != nil {
		ctx.StopWithJSON(http.StatusBadRequest, iris.Map{"error": "invalid payload"})
		return
	}
	if !storage.DeleteImage(in.URL) {
		ctx.StopWithJSON(http.StatusBadRequest, iris.Map{"error": "delete failed"})
		return
	}
	ctx.JSON(iris.Map{"message": "deleted"})
}
