package helpers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator is implemented by request DTOs that support validation.
// Validate returns a slice of error messages; nil or empty means valid.
type Validator interface {
	Validate() []string
}

var validate = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON (or form) names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateStruct runs the `validate` struct tags of dest and returns one
// message per failed field.
func ValidateStruct(dest any) []string {
	err := validate.Struct(dest)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Field()+" "+formatFieldError(fe))
	}
	return msgs
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return "is invalid (" + fe.Tag() + ")"
	}
}

// DecodeAndValidate decodes the request body into dest (with DisallowUnknownFields)
// and, if dest implements Validator, runs Validate(). A malformed body is a
// 400 bad_request; failed validation is a 400 validation_error. Callers should
// return immediately when DecodeAndValidate returns false.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, dest any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return false
	}
	if v, ok := dest.(Validator); ok {
		if errs := v.Validate(); len(errs) > 0 {
			WriteJSONError(w, http.StatusBadRequest, ErrCodeValidation, strings.Join(errs, "; "))
			return false
		}
	}
	return true
}
