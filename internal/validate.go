package internal

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"

	pkgerrs "github.com/wallgrab/wallgrab/pkg/errors"
)

var validate = newValidator()

var (
	resolutionPattern = regexp.MustCompile(`^[0-9]+x[0-9]+$`)
	ratioPattern      = regexp.MustCompile(`^([0-9]+x[0-9]+|landscape|portrait)$`)
)

func newValidator() *validator.Validate {
	v := validator.New()
	// Wallhaven dimension formats, e.g. "1920x1080" and "16x9".
	v.RegisterValidation("resolution", func(fl validator.FieldLevel) bool {
		return resolutionPattern.MatchString(fl.Field().String())
	})
	v.RegisterValidation("ratio", func(fl validator.FieldLevel) bool {
		return ratioPattern.MatchString(fl.Field().String())
	})
	return v
}

// ValidateParams checks a params struct against its validate tags and
// converts the first failure into a ValidationError.
func ValidateParams(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		f := verrs[0]
		return &pkgerrs.ValidationError{
			Field:   f.Field(),
			Message: fmt.Sprintf("failed %q constraint on value %q", f.ActualTag(), fmt.Sprint(f.Value())),
		}
	}
	return &pkgerrs.ValidationError{Err: err}
}
