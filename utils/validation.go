package utils

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
)

// HandleValidationErrors turns ReadJSON/validator failures into a 400 with a
// per-field breakdown when available.
func HandleValidationErrors(err error, ctx iris.Context) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		fields := make([]iris.Map, 0, len(validationErrs))
		for _, fieldErr := range validationErrs {
			fields = append(fields, iris.Map{
				"field": fieldErr.Field(),
				"rule":  fieldErr.Tag(),
				"param": fieldErr.Param(),
			})
		}
		ctx.StopWithJSON(iris.StatusBadRequest, iris.Map{"error": "validation_error", "fields": fields})
		return
	}
	ctx.StopWithJSON(iris.StatusBadRequest, iris.Map{"error": "invalid_payload", "message": err.Error()})
}
