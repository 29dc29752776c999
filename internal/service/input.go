package service

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

const (
	MaxNameLength   = 250
	MaxSlugLength   = 100
	MaxPrefixLength = 4
	MaxPhoneLength  = 50
	MaxCityLength   = 50

	// MaxLogoBytes must match the max= tag on Upload.Data.
	MaxLogoBytes = 2048 << 10

	// LogoNamespace is the blob store prefix for client logos.
	LogoNamespace = "client-logos"
)

// Upload is a file received from a caller, fully buffered. The stored name is
// generated from the detected content type, never from the caller's filename.
type Upload struct {
	Data []byte `json:"logo" validate:"min=1,max=2097152,imagedata"`
}

// CreateInput carries the fields accepted when creating a client. Nil pointers
// mean the field was not supplied.
type CreateInput struct {
	Name         string  `json:"name" validate:"notblank,max=250"`
	Slug         string  `json:"slug" validate:"notblank,max=100"`
	ClientPrefix string  `json:"client_prefix" validate:"notblank,max=4"`
	IsProject    *bool   `json:"is_project"`
	SelfCapture  *bool   `json:"self_capture"`
	Address      *string `json:"address"`
	PhoneNumber  *string `json:"phone_number" validate:"omitempty,max=50"`
	City         *string `json:"city" validate:"omitempty,max=50"`
	Logo         *Upload `json:"logo"`
}

// UpdateInput carries a partial update. Nil pointers keep the stored value.
// The slug cannot be changed.
type UpdateInput struct {
	Name         *string `json:"name" validate:"omitempty,notblank,max=250"`
	ClientPrefix *string `json:"client_prefix" validate:"omitempty,notblank,max=4"`
	IsProject    *bool   `json:"is_project"`
	SelfCapture  *bool   `json:"self_capture"`
	Address      *string `json:"address"`
	PhoneNumber  *string `json:"phone_number" validate:"omitempty,max=50"`
	City         *string `json:"city" validate:"omitempty,max=50"`
	Logo         *Upload `json:"logo"`
}

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := RegisterValidations(v); err != nil {
		panic(err)
	}
	return v
}

// RegisterValidations installs the custom tags used by client inputs on v and
// makes it report fields by their JSON names. The HTTP layer calls it on gin's
// validator so request binding speaks the same language.
func RegisterValidations(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		return err
	}
	return v.RegisterValidation("imagedata", func(fl validator.FieldLevel) bool {
		data, ok := fl.Field().Interface().([]byte)
		return ok && strings.HasPrefix(mimetype.Detect(data).String(), "image/")
	})
}

func (in CreateInput) Validate() error {
	return ValidationError(validate.Struct(in))
}

func (in UpdateInput) Validate() error {
	return ValidationError(validate.Struct(in))
}

// ValidationError converts validator failures into an ErrValidation listing
// every offending field. Other errors are tagged as they are; nil stays nil.
func ValidationError(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return Err(ErrValidation, err, "")
	}

	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		problems = append(problems, describe(fe))
	}
	return Err(ErrValidation, nil, "%s", strings.Join(problems, "; "))
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	bytes := fe.Kind() == reflect.Slice

	switch fe.Tag() {
	case "required", "notblank":
		return field + " is required"
	case "min":
		if bytes {
			return field + " is empty"
		}
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		if bytes {
			limit, _ := strconv.Atoi(fe.Param())
			return fmt.Sprintf("%s must not exceed %d kilobytes", field, limit>>10)
		}
		return fmt.Sprintf("%s must not exceed %s characters", field, fe.Param())
	case "imagedata":
		data, _ := fe.Value().([]byte)
		return fmt.Sprintf("%s must be an image, got %s", field, mimetype.Detect(data).String())
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
	}
}
