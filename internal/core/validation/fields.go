// Package validation holds the pure field validators used by forms and request payloads.
//
// Every validator returns nil when the value is valid, or one of the sentinel errors
// below. The text of each sentinel is the translation key shown under the field.
package validation

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

var (
	ErrRequired          = errors.New("validation.required")
	ErrEmailInvalid      = errors.New("validation.email_invalid")
	ErrPhoneInvalid      = errors.New("validation.phone_invalid")
	ErrPasswordTooShort  = errors.New("validation.password_too_short")
	ErrPasswordWeak      = errors.New("validation.password_weak")
	ErrCardNumberInvalid = errors.New("validation.card_number_invalid")
	ErrExpiryInvalid     = errors.New("validation.expiry_invalid")
	ErrCardExpired       = errors.New("validation.card_expired")
	ErrCVVInvalid        = errors.New("validation.cvv_invalid")
)

// Card brands recognised by DetectCardType.
const (
	CardVisa       = "visa"
	CardMastercard = "mastercard"
	CardAmex       = "amex"
	CardDiscover   = "discover"
	CardUnknown    = "unknown"
)

const minPasswordLength = 6

var (
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern  = regexp.MustCompile(`^\+?\d{10,15}$`)
	cardPattern   = regexp.MustCompile(`^\d{13,19}$`)
	expiryPattern = regexp.MustCompile(`^(\d{2})/(\d{2})$`)
	phoneStripper = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
)

// Required rejects empty and whitespace-only values.
func Required(value string) error {
	if strings.TrimSpace(value) == "" {
		return ErrRequired
	}
	return nil
}

// Email accepts a permissive local@domain.tld address.
func Email(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return ErrRequired
	}
	if !emailPattern.MatchString(value) {
		return ErrEmailInvalid
	}
	return nil
}

// Phone accepts 10 to 15 digits with an optional leading '+',
// ignoring spaces, dashes and parentheses.
func Phone(value string) error {
	if strings.TrimSpace(value) == "" {
		return ErrRequired
	}
	if !phonePattern.MatchString(phoneStripper.Replace(value)) {
		return ErrPhoneInvalid
	}
	return nil
}

// Password requires at least six characters including a letter and a digit.
func Password(value string) error {
	if value == "" {
		return ErrRequired
	}
	if len([]rune(value)) < minPasswordLength {
		return ErrPasswordTooShort
	}

	var hasLetter, hasDigit bool
	for _, r := range value {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return ErrPasswordWeak
	}
	return nil
}

// NormalizeCardNumber strips the spaces users type between digit groups.
func NormalizeCardNumber(value string) string {
	return strings.ReplaceAll(strings.TrimSpace(value), " ", "")
}

// CardNumber requires 13 to 19 digits that pass the Luhn checksum.
func CardNumber(value string) error {
	digits := NormalizeCardNumber(value)
	if digits == "" {
		return ErrRequired
	}
	if !cardPattern.MatchString(digits) || !Luhn(digits) {
		return ErrCardNumberInvalid
	}
	return nil
}

// Luhn reports whether a string of ASCII digits passes the mod-10 checksum.
func Luhn(digits string) bool {
	if digits == "" {
		return false
	}

	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		c := digits[i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// ParseExpiry splits an MM/YY value into month and four-digit year.
func ParseExpiry(value string) (month, year int, err error) {
	m := expiryPattern.FindStringSubmatch(strings.TrimSpace(value))
	if m == nil {
		return 0, 0, ErrExpiryInvalid
	}
	month, _ = strconv.Atoi(m[1])
	yy, _ := strconv.Atoi(m[2])
	if month < 1 || month > 12 {
		return 0, 0, ErrExpiryInvalid
	}
	return month, 2000 + yy, nil
}

// Expiry accepts MM/YY dates that are not before the month containing now.
func Expiry(value string, now time.Time) error {
	if strings.TrimSpace(value) == "" {
		return ErrRequired
	}
	month, year, err := ParseExpiry(value)
	if err != nil {
		return err
	}
	if year < now.Year() || (year == now.Year() && month < int(now.Month())) {
		return ErrCardExpired
	}
	return nil
}

// CVV requires exactly four digits for Amex cards and three for every other brand.
func CVV(value, cardType string) error {
	if value == "" {
		return ErrRequired
	}

	want := 3
	if cardType == CardAmex {
		want = 4
	}
	if len(value) != want {
		return ErrCVVInvalid
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return ErrCVVInvalid
		}
	}
	return nil
}

// DetectCardType derives the card brand from the number prefix.
func DetectCardType(number string) string {
	digits := NormalizeCardNumber(number)
	switch {
	case strings.HasPrefix(digits, "4"):
		return CardVisa
	case strings.HasPrefix(digits, "34"), strings.HasPrefix(digits, "37"):
		return CardAmex
	case strings.HasPrefix(digits, "6011"), strings.HasPrefix(digits, "65"):
		return CardDiscover
	case len(digits) >= 2 && digits[0] == '5' && digits[1] >= '1' && digits[1] <= '5':
		return CardMastercard
	case len(digits) >= 2 && digits[0] == '2' && digits[1] >= '2' && digits[1] <= '7':
		return CardMastercard
	default:
		return CardUnknown
	}
}
