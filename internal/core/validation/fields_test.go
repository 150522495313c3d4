package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEmail(t *testing.T) {
	tests := []struct {
		value string
		want  error
	}{
		{"user@example.com", nil},
		{"first.last+tag@shop.co.kg", nil},
		{"  user@example.com  ", nil},
		{"", ErrRequired},
		{"user@example", ErrEmailInvalid},
		{"user.example.com", ErrEmailInvalid},
		{"us er@example.com", ErrEmailInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, Email(tt.value))
		})
	}
}

func TestPhone(t *testing.T) {
	tests := []struct {
		value string
		want  error
	}{
		{"0555123456", nil},
		{"+996 (555) 123-456", nil},
		{"+1 555 123 4567", nil},
		{"123456789012345", nil},
		{"", ErrRequired},
		{"12345", ErrPhoneInvalid},
		{"1234567890123456", ErrPhoneInvalid},
		{"++9965551234567", ErrPhoneInvalid},
		{"555-CALL-NOW", ErrPhoneInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, Phone(tt.value))
		})
	}
}

func TestPassword(t *testing.T) {
	assert.NoError(t, Password("abc123"))
	assert.NoError(t, Password("Secur3Passw0rd"))
	assert.Equal(t, ErrRequired, Password(""))
	assert.Equal(t, ErrPasswordTooShort, Password("ab12"))
	assert.Equal(t, ErrPasswordWeak, Password("abcdefgh"))
	assert.Equal(t, ErrPasswordWeak, Password("12345678"))
}

func TestCardNumber(t *testing.T) {
	assert.NoError(t, CardNumber("4532015112830366"))
	assert.NoError(t, CardNumber("4532 0151 1283 0366"))
	assert.Equal(t, ErrCardNumberInvalid, CardNumber("4532015112830367"))
	assert.Equal(t, ErrCardNumberInvalid, CardNumber("4532-0151-1283-0366"))
	assert.Equal(t, ErrCardNumberInvalid, CardNumber("0000000000"))
	assert.Equal(t, ErrRequired, CardNumber("   "))
}

func TestLuhn(t *testing.T) {
	assert.True(t, Luhn("4532015112830366"))
	assert.True(t, Luhn("378282246310005"))
	assert.False(t, Luhn("4532015112830367"))
	assert.False(t, Luhn("45320a5112830366"))
	assert.False(t, Luhn(""))
}

func TestExpiry(t *testing.T) {
	now := time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		value string
		want  error
	}{
		{"02/25", ErrCardExpired},
		{"03/25", nil},
		{"04/25", nil},
		{"12/24", ErrCardExpired},
		{"01/26", nil},
		{"13/25", ErrExpiryInvalid},
		{"00/25", ErrExpiryInvalid},
		{"3/25", ErrExpiryInvalid},
		{"03-25", ErrExpiryInvalid},
		{"", ErrRequired},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, Expiry(tt.value, now))
		})
	}
}

func TestCVV(t *testing.T) {
	assert.NoError(t, CVV("123", CardVisa))
	assert.Equal(t, ErrCVVInvalid, CVV("1234", CardVisa))
	assert.NoError(t, CVV("1234", CardAmex))
	assert.Equal(t, ErrCVVInvalid, CVV("123", CardAmex))
	assert.Equal(t, ErrCVVInvalid, CVV("12a", CardUnknown))
	assert.Equal(t, ErrRequired, CVV("", CardMastercard))
}

func TestDetectCardType(t *testing.T) {
	tests := map[string]string{
		"4532015112830366": CardVisa,
		"378282246310005":  CardAmex,
		"341111111111111":  CardAmex,
		"5555555555554444": CardMastercard,
		"2223003122003222": CardMastercard,
		"6011111111111117": CardDiscover,
		"6500000000000002": CardDiscover,
		"9999999999999999": CardUnknown,
		"":                 CardUnknown,
	}

	for number, want := range tests {
		assert.Equal(t, want, DetectCardType(number), number)
	}
}
