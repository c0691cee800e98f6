package utils

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
)

// All error responses share the {success:false, message} envelope the
// client renders directly.

func CreateError(statusCode int, message string, ctx iris.Context) {
	ctx.StatusCode(statusCode)
	ctx.JSON(iris.Map{"success": false, "message": message})
}

func CreateInternalServerError(ctx iris.Context) {
	CreateError(iris.StatusInternalServerError, "Internal server error", ctx)
}

func CreateNotFound(ctx iris.Context, resource string) {
	CreateError(iris.StatusNotFound, resource+" not found", ctx)
}

func CreateForbidden(ctx iris.Context, message string) {
	CreateError(iris.StatusForbidden, message, ctx)
}

// HandleValidationErrors converts validator failures (and malformed JSON)
// into the error envelope, naming the offending fields.
func HandleValidationErrors(err error, ctx iris.Context) {
	if errs, ok := err.(validator.ValidationErrors); ok {
		fields := make([]string, 0, len(errs))
		for _, fieldErr := range errs {
			fields = append(fields, fieldErr.Field())
		}
		CreateError(iris.StatusBadRequest,
			"Invalid or missing fields: "+strings.Join(fields, ", "), ctx)
		return
	}
	CreateError(iris.StatusBadRequest, "Invalid request body", ctx)
}

// CreateMissingFields rejects a request naming every required field that
// was absent, so the client can highlight them all at once.
func CreateMissingFields(ctx iris.Context, fields []string) {
	CreateError(iris.StatusBadRequest,
		"Missing required fields: "+strings.Join(fields, ", "), ctx)
}
