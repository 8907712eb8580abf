package customvalidator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Echo-compatible validator wrapper.
type Validator struct {
	validate *validator.Validate
}

func NewValidator(v *validator.Validate) *Validator {
	return &Validator{validate: v}
}

func (v *Validator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

var intervalRe = regexp.MustCompile(`(?i)^\s*\d+\s*(day|days|week|weeks|month|months|year|years)\s*$`)

// RegisterCustomValidations wires the project-specific rules.
func RegisterCustomValidations(v *validator.Validate) error {
	return v.RegisterValidation("maintenance_interval", isMaintenanceInterval)
}

// isMaintenanceInterval accepts free-text intervals such as "6 months" or
// "1 year". Empty values pass; combine with `required` where a value is mandatory.
func isMaintenanceInterval(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	return intervalRe.MatchString(s)
}
