package validation

import (
	"errors"
	"reflect"
	"strings"
	"time"

	validatorv10 "github.com/go-playground/validator/v10"
)

// ErrInvalid is the key reported for tags without a dedicated message.
var ErrInvalid = errors.New("validation.invalid")

// New returns a validator with the storefront field tags registered.
func New() *validatorv10.Validate {
	return NewWithClock(time.Now)
}

// NewWithClock is New with an injectable clock for the expiry tag.
//
// Registered tags:
//   - email, phone, password, luhn: the field validators of this package
//   - expiry: MM/YY not in the past according to now
//   - cvv=Field: CVV length for the card number held in the sibling Field
func NewWithClock(now func() time.Time) *validatorv10.Validate {
	v := validatorv10.New()

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	must(v.RegisterValidation("email", stringRule(Email)))
	must(v.RegisterValidation("phone", stringRule(Phone)))
	must(v.RegisterValidation("password", stringRule(Password)))
	must(v.RegisterValidation("luhn", stringRule(CardNumber)))
	must(v.RegisterValidation("expiry", func(fl validatorv10.FieldLevel) bool {
		return Expiry(fl.Field().String(), now()) == nil
	}))
	must(v.RegisterValidation("cvv", func(fl validatorv10.FieldLevel) bool {
		return CVV(fl.Field().String(), DetectCardType(siblingString(fl, fl.Param()))) == nil
	}))

	return v
}

// Fields maps the failures of a Struct call to {json field: error key}.
// Errors that are not validation failures are reported under "error".
func Fields(err error) map[string]string {
	out := map[string]string{}

	var ve validatorv10.ValidationErrors
	if !errors.As(err, &ve) {
		if err != nil {
			out["error"] = err.Error()
		}
		return out
	}

	for _, fe := range ve {
		out[fe.Field()] = keyFor(fe).Error()
	}
	return out
}

// keyFor re-runs the field rule where that yields a more precise key than the tag alone.
func keyFor(fe validatorv10.FieldError) error {
	value, _ := fe.Value().(string)

	var err error
	switch fe.Tag() {
	case "required":
		return ErrRequired
	case "email":
		if err = Email(value); err == nil {
			err = ErrEmailInvalid
		}
	case "phone":
		if err = Phone(value); err == nil {
			err = ErrPhoneInvalid
		}
	case "password":
		if err = Password(value); err == nil {
			err = ErrPasswordWeak
		}
	case "luhn":
		if err = CardNumber(value); err == nil {
			err = ErrCardNumberInvalid
		}
	case "expiry":
		err = ErrExpiryInvalid
	case "cvv":
		err = ErrCVVInvalid
	default:
		err = ErrInvalid
	}
	return err
}

func stringRule(rule func(string) error) validatorv10.Func {
	return func(fl validatorv10.FieldLevel) bool {
		return rule(fl.Field().String()) == nil
	}
}

func siblingString(fl validatorv10.FieldLevel, name string) string {
	parent := fl.Parent()
	if parent.Kind() == reflect.Ptr {
		parent = parent.Elem()
	}
	if parent.Kind() != reflect.Struct {
		return ""
	}
	f := parent.FieldByName(name)
	if !f.IsValid() || f.Kind() != reflect.String {
		return ""
	}
	return f.String()
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
