package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/yukikurage/snacks-api/internal/constants"
	"github.com/yukikurage/snacks-api/internal/models"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report fields by their json key so they line up with the request body
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	v.RegisterAlias("textlen", fmt.Sprintf("min=%d", constants.MinTextLength))
	v.RegisterAlias("titlelen", fmt.Sprintf("min=%d", constants.MinTitleLength))

	if err := v.RegisterValidation("tagslug", func(fl validator.FieldLevel) bool {
		return models.ValidTagName(fl.Field().String())
	}); err != nil {
		panic(err)
	}

	return v
}

// questionFields holds the validated fields of a new question
type questionFields struct {
	Title string `json:"title" validate:"titlelen"`
	Text  string `json:"text" validate:"textlen"`
}

// bodyFields holds the text of an answer or comment
type bodyFields struct {
	Text string `json:"text" validate:"textlen"`
}

// articlePatch holds the optional fields of an update
type articlePatch struct {
	Title *string `json:"title" validate:"omitnil,titlelen"`
	Text  *string `json:"text" validate:"omitnil,textlen"`
}

// tagFields holds a tag name to be created
type tagFields struct {
	Name string `json:"name" validate:"tagslug"`
}

// validateInto runs the struct rules and records each failure on errs.
func validateInto(input any, errs *ValidationErrors) {
	err := validate.Struct(input)
	if err == nil {
		return
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		errs.Add("base", err.Error())
		return
	}

	for _, fe := range fieldErrs {
		errs.Add(fe.Field(), messageFor(fe))
	}
}

func messageFor(fe validator.FieldError) string {
	switch fe.ActualTag() {
	case "min":
		return fmt.Sprintf("is too short (minimum is %s characters)", fe.Param())
	case "tagslug":
		return "is invalid"
	case "required":
		return "can't be blank"
	default:
		return fmt.Sprintf("failed on %s", fe.Tag())
	}
}

// validateTagDiff checks every name the diff would create.
func validateTagDiff(diff models.TagDiff, errs *ValidationErrors) {
	for _, name := range diff.Adds() {
		if err := validate.Var(name, "tagslug"); err != nil {
			errs.Add(FieldTag, fmt.Sprintf("%q is invalid", name))
		}
	}
}
