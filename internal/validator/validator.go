// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	isoDateRegex  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("hex_color", validateHexColor)
		_ = v.RegisterValidation("iso_date", validateISODate)
		_ = v.RegisterValidation("data_type", validateDataType)
	}
}

func validateHexColor(fl validator.FieldLevel) bool {
	return hexColorRegex.MatchString(fl.Field().String())
}

func validateISODate(fl validator.FieldLevel) bool {
	return isoDateRegex.MatchString(fl.Field().String())
}

func validateDataType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "number", "text", "datetime", "boolean", "link", "image":
		return true
	}
	return false
}
