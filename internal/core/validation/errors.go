package validation

import (
	"errors"
	"sort"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"
)

// FieldErrors maps field names to validation keys. It is returned as an error by Check.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+fe[k])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Check validates s and returns FieldErrors when any tag fails.
func Check(v *validatorv10.Validate, s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var ve validatorv10.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	return FieldErrors(Fields(err))
}
