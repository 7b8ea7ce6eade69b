package validator

import (
	"errors"
	"fmt"
	"mime"
	"net/url"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	apperrors "card-service/pkg/errors"

	"github.com/go-playground/validator/v10"
)

const (
	TagPhone     = "kzphone"
	TagWebURL    = "weburl"
	TagNoControl = "nocontrol"

	maxContentTypeLen = 255
	fieldSeparator    = "; "

	errRequiredFmt        = "%s is required"
	errMinLengthFmt       = "%s must be at least %s characters"
	errMaxLengthFmt       = "%s must not exceed %s characters"
	errEmailFmt           = "%s must be a valid email address"
	errPhoneFmt           = "%s must be 7 followed by 10 digits"
	errWebURLFmt          = "%s must be an http or https URL"
	errOneOfFmt           = "%s must be one of: %s"
	errNoControlFmt       = "%s cannot contain control characters"
	errGtFmt              = "%s must be greater than %s"
	errInvalidFmt         = "%s is invalid"
	errValidatorMisuse    = "validator received a non-struct value"
	errContentTypeEmpty   = "content type is required"
	errContentTypeLongFmt = "content type must not exceed %d characters"
	errContentTypeInvalid = "invalid content type"
)

var phoneRegex = regexp.MustCompile(`^7[0-9]{10}$`)

// Validator adapts go-playground/validator for echo. Field names in
// messages use the json tag of the field.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// Registration only fails on empty tags or nil funcs.
	_ = v.RegisterValidation(TagPhone, func(fl validator.FieldLevel) bool {
		return phoneRegex.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation(TagWebURL, func(fl validator.FieldLevel) bool {
		return IsWebURL(fl.Field().String())
	})
	_ = v.RegisterValidation(TagNoControl, func(fl validator.FieldLevel) bool {
		return !hasControlChars(fl.Field().String())
	})

	return &Validator{validate: v}
}

// Validate implements echo.Validator.
func (v *Validator) Validate(i any) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return apperrors.Internal(errValidatorMisuse, err)
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.Validation(err.Error())
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, message(fe))
	}
	return apperrors.Validation(strings.Join(messages, fieldSeparator))
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf(errRequiredFmt, field)
	case "min":
		return fmt.Sprintf(errMinLengthFmt, field, fe.Param())
	case "max":
		return fmt.Sprintf(errMaxLengthFmt, field, fe.Param())
	case "email":
		return fmt.Sprintf(errEmailFmt, field)
	case TagPhone:
		return fmt.Sprintf(errPhoneFmt, field)
	case TagWebURL:
		return fmt.Sprintf(errWebURLFmt, field)
	case "oneof":
		return fmt.Sprintf(errOneOfFmt, field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case TagNoControl:
		return fmt.Sprintf(errNoControlFmt, field)
	case "gt":
		return fmt.Sprintf(errGtFmt, field, fe.Param())
	default:
		return fmt.Sprintf(errInvalidFmt, field)
	}
}

// IsWebURL reports whether raw is an absolute http(s) URL with a host.
func IsWebURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return (scheme == "http" || scheme == "https") && u.Host != ""
}

func hasControlChars(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) {
			return true
		}
	}
	return false
}

// ContentType parses a declared media type and returns it lowercased
// without parameters.
func ContentType(contentType string) (string, error) {
	if contentType == "" {
		return "", errors.New(errContentTypeEmpty)
	}

	if len(contentType) > maxContentTypeLen {
		return "", fmt.Errorf(errContentTypeLongFmt, maxContentTypeLen)
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", errors.New(errContentTypeInvalid)
	}

	return strings.ToLower(mediaType), nil
}
