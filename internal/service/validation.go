package service

import (
	"errors"
	"fmt"
	"strings"

	"treatment_tracker/internal/model"

	"github.com/go-playground/validator/v10"
)

// ErrValidation marks input that failed validation; handlers map it to 400
var ErrValidation = errors.New("validation failed")

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateStruct runs the struct's validate tags and folds the failures into
// a single ErrValidation error.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate input: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return "invalid email format"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// validateTreatment checks field constraints and that the course ends after
// it starts.
func validateTreatment(t *model.Treatment) error {
	if err := validateStruct(t); err != nil {
		return err
	}
	if !t.EndDate.After(t.StartDate) {
		return fmt.Errorf("%w: end date must be after start date", ErrValidation)
	}
	return nil
}
