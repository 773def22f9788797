package user

import (
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"linkup/infrastructure"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9.+_-]+@[a-zA-Z0-9._-]+\.[a-zA-Z]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields under their json names so error maps line up with the
	// request payload.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// checkStruct runs tag validation and converts the first failure into the
// human-readable per-field message the clients display.
func checkStruct(in any, messages map[string]string) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrors) == 0 {
		return err
	}
	field := validationErrors[0].Field()
	msg, ok := messages[field]
	if !ok {
		msg = "Invalid value."
	}
	return infrastructure.NewValidationError(field, msg)
}

func checkEmailShape(email string) error {
	if email == "" {
		return infrastructure.NewValidationError("email", "Please provide an email address.")
	}
	if !emailRegex.MatchString(email) {
		return infrastructure.NewValidationError("email", "The email address you've entered is invalid.")
	}
	return nil
}

// parseDateOfBirth accepts the client's ISO timestamp (with or without a
// trailing Z) or a bare date, and rejects dates in the future.
func parseDateOfBirth(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, infrastructure.NewValidationError("dateOfBirth", "Please select your date of birth first.")
	}
	trimmed := strings.TrimSuffix(raw, "Z")
	var dob time.Time
	var err error
	for _, layout := range []string{"2006-01-02T15:04:05.999999999", "2006-01-02T15:04:05", "2006-01-02"} {
		if dob, err = time.Parse(layout, trimmed); err == nil {
			break
		}
	}
	if err != nil {
		return time.Time{}, infrastructure.NewValidationError("dateOfBirth", "Invalid date format.")
	}
	if dob.After(time.Now()) {
		return time.Time{}, infrastructure.NewValidationError("dateOfBirth", "Please select a valid date of birth, as date of birth cannot be in the future.")
	}
	return dob, nil
}
