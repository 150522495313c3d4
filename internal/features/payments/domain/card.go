package domain

import (
	"storefront/internal/core/validation"
)

// CardType is the card brand derived from the number prefix.
type CardType string

const (
	CardTypeVisa       CardType = validation.CardVisa
	CardTypeMastercard CardType = validation.CardMastercard
	CardTypeAmex       CardType = validation.CardAmex
	CardTypeDiscover   CardType = validation.CardDiscover
	CardTypeUnknown    CardType = validation.CardUnknown
)

// PaymentCard is a saved card. Only the last four digits of the number are kept.
type PaymentCard struct {
	ID          string   `json:"id"`
	Type        CardType `json:"type"`
	LastFour    string   `json:"lastFour"`
	ExpiryMonth int      `json:"expiryMonth"`
	ExpiryYear  int      `json:"expiryYear"`
	CardHolder  string   `json:"cardHolder"`
	IsDefault   bool     `json:"isDefault"`
}

// NewCardRequest carries the raw card form.
type NewCardRequest struct {
	Number     string `json:"number" validate:"required,luhn"`
	Expiry     string `json:"expiry" validate:"required,expiry"`
	CVV        string `json:"cvv" validate:"required,cvv=Number"`
	CardHolder string `json:"cardHolder" validate:"required"`
	IsDefault  bool   `json:"isDefault"`
}

// ToCard derives the stored card from a validated request. The CVV is dropped.
func (r NewCardRequest) ToCard(id string) PaymentCard {
	digits := validation.NormalizeCardNumber(r.Number)
	month, year, _ := validation.ParseExpiry(r.Expiry)

	lastFour := digits
	if len(digits) > 4 {
		lastFour = digits[len(digits)-4:]
	}

	return PaymentCard{
		ID:          id,
		Type:        CardType(validation.DetectCardType(digits)),
		LastFour:    lastFour,
		ExpiryMonth: month,
		ExpiryYear:  year,
		CardHolder:  r.CardHolder,
		IsDefault:   r.IsDefault,
	}
}

// UpsertCard replaces the card with the same ID or appends it, keeping one default.
func UpsertCard(list []PaymentCard, c PaymentCard) []PaymentCard {
	out := make([]PaymentCard, 0, len(list)+1)
	replaced := false

	for _, existing := range list {
		if existing.ID == c.ID {
			out = append(out, c)
			replaced = true
			continue
		}
		if c.IsDefault {
			existing.IsDefault = false
		}
		out = append(out, existing)
	}

	if !replaced {
		out = append(out, c)
	}
	return out
}

// RemoveCard returns list without the card with the given ID.
func RemoveCard(list []PaymentCard, id string) []PaymentCard {
	out := make([]PaymentCard, 0, len(list))
	for _, c := range list {
		if c.ID != id {
			out = append(out, c)
		}
	}
	return out
}
