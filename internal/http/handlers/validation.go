// Request validation for the handlers package.
//
// JSON bodies are decoded strictly (unknown fields rejected, like the schema
// layer clients already integrate against) and then validated with
// go-playground/validator. The first violation wins and is returned as a
// validation error with a client-facing message; the ErrorHandler middleware
// turns it into a 422.
package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/tbourn/go-task-backend/internal/apperr"
)

var validate = newValidator()

// newValidator builds the package validator. Field names in error messages
// come from the json tag so clients see the keys they actually sent.
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

// bindJSONStrict decodes the request body into dst, rejecting unknown
// fields and explicit nulls, and validates the result. An empty body
// decodes as an empty object so required-field messages fire instead of a
// generic parse error. All failures come back as validation errors
// (HTTP 422).
func bindJSONStrict(c *gin.Context, dst any) error {
	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return apperr.Validation("Invalid JSON payload")
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return validateStruct(dst)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if f, ok := unknownFieldName(err); ok {
			return apperr.Validation(fmt.Sprintf("%q is not allowed", f))
		}
		return apperr.Validation("Invalid JSON payload")
	}

	// null is not a valid value for any body field; a nil pointer must
	// mean the field was absent. Every DTO field here is a string, so the
	// message matches what clients have always seen for a type mismatch.
	if f, ok := nullField(data); ok {
		return apperr.Validation(fmt.Sprintf("%q must be a string", f))
	}

	return validateStruct(dst)
}

// nullField reports the first top-level field of an already-validated JSON
// object whose value is an explicit null.
func nullField(data []byte) (string, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return "", false
	}
	for k, v := range fields {
		if string(bytes.TrimSpace(v)) == "null" {
			return k, true
		}
	}
	return "", false
}

// validateStruct runs struct-tag validation on v and converts the first
// violation into a client-facing validation error.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return apperr.Validation(validationMessage(verrs[0]))
	}
	return apperr.Internal(err)
}

// validationMessage renders a FieldError using the exact wording the API has
// always returned for these fields. Unmatched combinations get a generic
// fallback.
func validationMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		switch field {
		case "email":
			return "Email is required"
		case "password":
			return "Password is required"
		}
		return fmt.Sprintf("%q is required", field)
	case "email":
		return "Email must be valid"
	case "min":
		if field == "password" {
			return "Password must be at least 6 characters"
		}
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be less than or equal to %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%q must be one of [%s]", field,
			strings.Join(strings.Fields(fe.Param()), ", "))
	}
	return fmt.Sprintf("%q is invalid", field)
}

// unknownFieldName extracts the field name from encoding/json's unknown
// field error. Returns ok=false for any other decode error.
func unknownFieldName(err error) (string, bool) {
	const prefix = `json: unknown field "`
	s := err.Error()
	if !strings.HasPrefix(s, prefix) {
		return "", false
	}
	return strings.TrimSuffix(strings.TrimPrefix(s, prefix), `"`), true
}
