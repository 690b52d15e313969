package validator

import (
	"github.com/go-playground/validator/v10"

	"github.com/ashboi005/insight-ai/internal/domain/entities"
)

// CustomValidator implements echo.Validator using go-playground/validator
type CustomValidator struct {
	v *validator.Validate
}

// New creates a new CustomValidator instance with domain rules registered
func New() *CustomValidator {
	v := validator.New()

	// "team" accepts only the closed team vocabulary
	v.RegisterValidation("team", func(fl validator.FieldLevel) bool {
		return entities.Team(fl.Field().String()).IsValid()
	})

	return &CustomValidator{v: v}
}

// Validate performs struct validation
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.v.Struct(i)
}
