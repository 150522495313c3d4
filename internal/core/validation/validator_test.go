package validation

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cardForm struct {
	Number string `json:"number" validate:"required,luhn"`
	Expiry string `json:"expiry" validate:"required,expiry"`
	CVV    string `json:"cvv" validate:"required,cvv=Number"`
}

type contactForm struct {
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phoneNumber" validate:"required,phone"`
	Password string `json:"password" validate:"password"`
	Quantity int    `json:"quantity" validate:"min=1"`
}

func march2025() time.Time {
	return time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
}

func TestValidator_CardForm(t *testing.T) {
	v := NewWithClock(march2025)

	t.Run("Valid", func(t *testing.T) {
		err := v.Struct(cardForm{Number: "4532015112830366", Expiry: "03/25", CVV: "123"})
		assert.NoError(t, err)
	})

	t.Run("AmexNeedsFourDigits", func(t *testing.T) {
		err := v.Struct(&cardForm{Number: "378282246310005", Expiry: "04/25", CVV: "123"})
		require.Error(t, err)
		assert.Equal(t, map[string]string{"cvv": "validation.cvv_invalid"}, Fields(err))
	})

	t.Run("AllInvalid", func(t *testing.T) {
		err := v.Struct(cardForm{Number: "4532015112830367", Expiry: "02/25", CVV: "1234"})
		require.Error(t, err)
		assert.Equal(t, map[string]string{
			"number": "validation.card_number_invalid",
			"expiry": "validation.expiry_invalid",
			"cvv":    "validation.cvv_invalid",
		}, Fields(err))
	})
}

func TestValidator_ContactForm(t *testing.T) {
	v := New()

	err := v.Struct(contactForm{Email: "a@b.co", Phone: "+996 555 123 456", Password: "abc123", Quantity: 1})
	assert.NoError(t, err)

	err = v.Struct(contactForm{Email: "nope", Password: "abc", Quantity: 0})
	require.Error(t, err)
	assert.Equal(t, map[string]string{
		"email":       "validation.email_invalid",
		"phoneNumber": "validation.required",
		"password":    "validation.password_too_short",
		"quantity":    "validation.invalid",
	}, Fields(err))
}

func TestFields_NonValidationError(t *testing.T) {
	assert.Equal(t, map[string]string{"error": "boom"}, Fields(errors.New("boom")))
	assert.Empty(t, Fields(nil))
}

func TestCheck(t *testing.T) {
	v := NewWithClock(march2025)

	assert.NoError(t, Check(v, cardForm{Number: "4532015112830366", Expiry: "03/25", CVV: "123"}))

	err := Check(v, cardForm{Number: "4532015112830366", Expiry: "03/25", CVV: "12"})
	require.Error(t, err)

	var fe FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "validation.cvv_invalid", fe["cvv"])
	assert.Equal(t, "validation failed: cvv=validation.cvv_invalid", err.Error())
}
