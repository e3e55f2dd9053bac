package common

import (
	"encoding/json"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report JSON names instead of Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateAndDecode decodes the JSON body into payload and runs its validate tags.
func ValidateAndDecode(r *http.Request, payload interface{}) *AppError {
	if err := json.NewDecoder(r.Body).Decode(payload); err != nil {
		return NewAppError(http.StatusBadRequest, "Invalid request body", err)
	}

	if err := validate.Struct(payload); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return NewAppError(http.StatusBadRequest, "Invalid request body", err)
		}
		details := make([]map[string]string, 0, len(validationErrors))
		for _, fe := range validationErrors {
			details = append(details, map[string]string{
				"field":      fe.Field(),
				"constraint": fe.ActualTag(),
			})
		}
		return NewAppError(http.StatusBadRequest, "Validation failed", err).WithDetails(details)
	}

	return nil
}

// DecodePayload copies a normalized payload map into a typed request struct.
func DecodePayload(payload map[string]any, dst interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}
