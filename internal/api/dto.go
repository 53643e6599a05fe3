package api

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"cosmic-blueprint/internal/domain"
)

// BirthRequest is the JSON form of domain.BirthInput.
type BirthRequest struct {
	Date      string   `json:"date" validate:"required"`
	Time      string   `json:"time" validate:"required"`
	Location  string   `json:"location" validate:"max=200"`
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
	Timezone  string   `json:"timezone" validate:"max=64"`
}

// Input converts a validated request to a BirthInput.
func (b *BirthRequest) Input() domain.BirthInput {
	return domain.BirthInput{
		Date:      strings.TrimSpace(b.Date),
		Time:      strings.TrimSpace(b.Time),
		Location:  b.Location,
		Latitude:  *b.Latitude,
		Longitude: *b.Longitude,
		Timezone:  strings.TrimSpace(b.Timezone),
	}
}

// BlueprintRequest is the body of POST /v1/blueprints.
type BlueprintRequest struct {
	UserID  string        `json:"user_id" validate:"required_if=Persist true,max=128"`
	Persist bool          `json:"persist"`
	Birth   *BirthRequest `json:"birth" validate:"required"`
}

// SynastryRequest is the body of POST /v1/synastry.
type SynastryRequest struct {
	Profile1 *BirthRequest `json:"profile1" validate:"required"`
	Profile2 *BirthRequest `json:"profile2" validate:"required"`
}

// LayersRequest is the body of POST /v1/layers.
type LayersRequest struct {
	Birth *BirthRequest `json:"birth" validate:"required"`
}

// BatchRequest is the body of POST /v1/blueprints/batch.
type BatchRequest struct {
	Births []*BirthRequest `json:"births" validate:"required,min=1,max=500,dive,required"`
}

// fieldError is a request validation failure on one field.
type fieldError struct {
	Field   string
	Message string
}

func (e *fieldError) Error() string {
	return e.Message
}

// newValidator returns a validator that reports JSON field names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct validates s and reports the first failing field.
func validateStruct(v *validator.Validate, s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return err
	}
	return formatFieldError(verrs[0])
}

// formatFieldError formats a single field validation error.
func formatFieldError(e validator.FieldError) *fieldError {
	// Namespace is Struct.birth.latitude; drop the struct name.
	path := e.Namespace()
	if i := strings.IndexByte(path, '.'); i >= 0 {
		path = path[i+1:]
	}

	var msg string
	switch e.Tag() {
	case "required", "required_if":
		msg = fmt.Sprintf("%s is required", path)
	case "gte":
		msg = fmt.Sprintf("%s must be >= %s", path, e.Param())
	case "lte":
		msg = fmt.Sprintf("%s must be <= %s", path, e.Param())
	case "max":
		msg = fmt.Sprintf("%s must be at most %s long", path, e.Param())
	case "min":
		msg = fmt.Sprintf("%s must have at least %s entries", path, e.Param())
	default:
		msg = fmt.Sprintf("%s is invalid", path)
	}
	return &fieldError{Field: path, Message: msg}
}
