package validation

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// New returns a validator with the portal's custom rules registered:
//
//	integer - a string field holding a base-10 integer (surrounding blanks allowed)
func New() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("integer", isInteger)
	return v
}

func isInteger(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}
	_, err := strconv.Atoi(strings.TrimSpace(field.String()))
	return err == nil
}
