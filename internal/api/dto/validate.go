package dto

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Jerkzaen/accesspoint-control-sub000/pkg/util/errorutil"
)

var validate = validator.New()

// Validate checks struct tags and reports every failing field in one
// message so clients can fix a form in a single pass.
func Validate(payload any) error {
	if err := validate.Struct(payload); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			fields := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				fields = append(fields, fe.Field())
			}
			return errorutil.NewValidationError("invalid payload: "+strings.Join(fields, ", "), nil)
		}
		return err
	}
	return nil
}
