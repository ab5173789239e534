// Package validator wraps go-playground/validator with the portal's labels.
package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/profedug/GabaritaIF/internal/portal"
)

// FieldError is one rejected field.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// ValidationError blocks an action before it reaches any collaborator.
// Message is shown to the user.
type ValidationError struct {
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields,omitempty"`
}

func (e *ValidationError) Error() string { return e.Message }

// Has reports whether field failed validation.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New()
	v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	v.RegisterValidation("difficulty", func(fl validator.FieldLevel) bool {
		switch portal.Difficulty(fl.Field().String()) {
		case portal.DifficultyEasy, portal.DifficultyMedium, portal.DifficultyHard:
			return true
		}
		return false
	})
	v.RegisterValidation("simtype", func(fl validator.FieldLevel) bool {
		switch portal.SimulationType(fl.Field().String()) {
		case portal.SimulationTraining, portal.SimulationReinforcement:
			return true
		}
		return false
	})
	v.RegisterValidation("sourcemix", func(fl validator.FieldLevel) bool {
		switch portal.SourceMix(fl.Field().String()) {
		case portal.SourceMixAIOnly, portal.SourceMixEntrance, portal.SourceMixMixed:
			return true
		}
		return false
	})
	v.RegisterValidation("pin", func(fl validator.FieldLevel) bool {
		return len(strings.TrimSpace(fl.Field().String())) >= 4
	})
	return &Validator{validate: v}
}

// Struct validates s. When it fails, the returned *ValidationError carries
// message as its user-facing text.
func (v *Validator) Struct(s any, message string) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate: %w", err)
	}
	out := &ValidationError{Message: message}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Rule: fe.Tag()})
	}
	return out
}
