// Package validation centralizes request-body validation for the API,
// using go-playground/validator the way gin's binding layer already does,
// with English translations wired in so error causes read as prose.
package validation

import (
	"encoding/json"
	"errors"

	"github.com/auctioncore/auction-engine/configuration/rest_err"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	validator_en "github.com/go-playground/validator/v10/translations/en"
)

var (
	Validate = validator.New()
	transl   ut.Translator
)

func init() {
	if value, ok := binding.Validator.Engine().(*validator.Validate); ok {
		en := en.New()
		enTransl := ut.New(en, en)
		transl, _ = enTransl.GetTranslator("en")
		validator_en.RegisterDefaultTranslations(value, transl)
	}
}

// ValidateErr converts a JSON-bind or struct-validation error into the
// RestErr shape, with one Cause per failing field.
func ValidateErr(validation_err error) *rest_err.RestErr {
	var jsonErr *json.UnmarshalTypeError
	var jsonValidation validator.ValidationErrors

	if errors.As(validation_err, &jsonErr) {
		return rest_err.NewBadRequestError("invalid field type")
	} else if errors.As(validation_err, &jsonValidation) {
		errorCauses := []rest_err.Causes{}
		for _, err := range validation_err.(validator.ValidationErrors) {
			errorCauses = append(errorCauses, rest_err.Causes{
				Message: err.Translate(transl),
				Field:   err.Field(),
			})
		}
		return rest_err.NewBadRequestError("validation error", errorCauses...)
	}
	return rest_err.NewBadRequestError("error trying to convert fields")
}
