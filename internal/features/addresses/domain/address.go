package domain

// Label tags an address for display.
type Label string

const (
	LabelHome  Label = "home"
	LabelWork  Label = "work"
	LabelOther Label = "other"
)

// ShippingAddress is a saved delivery address.
type ShippingAddress struct {
	// ID is assigned on first save.
	ID          string `json:"id,omitempty"`
	FullName    string `json:"fullName" validate:"required"`
	PhoneNumber string `json:"phoneNumber" validate:"required,phone"`
	Email       string `json:"email" validate:"required,email"`
	Address     string `json:"address" validate:"required"`
	Apartment   string `json:"apartment,omitempty"`
	City        string `json:"city" validate:"required"`
	State       string `json:"state" validate:"required"`
	ZipCode     string `json:"zipCode" validate:"required"`
	Country     string `json:"country" validate:"required"`
	IsDefault   bool   `json:"isDefault"`
	Label       Label  `json:"label" validate:"omitempty,oneof=home work other"`
}

// Upsert returns list with a replacing the record of the same ID, or appended when new.
// When a is the default, every other record loses the flag so at most one default remains.
func Upsert(list []ShippingAddress, a ShippingAddress) []ShippingAddress {
	out := make([]ShippingAddress, 0, len(list)+1)
	replaced := false

	for _, existing := range list {
		if existing.ID == a.ID {
			out = append(out, a)
			replaced = true
			continue
		}
		if a.IsDefault {
			existing.IsDefault = false
		}
		out = append(out, existing)
	}

	if !replaced {
		out = append(out, a)
	}
	return out
}

// Remove returns list without the record with the given ID.
func Remove(list []ShippingAddress, id string) []ShippingAddress {
	out := make([]ShippingAddress, 0, len(list))
	for _, a := range list {
		if a.ID != id {
			out = append(out, a)
		}
	}
	return out
}

// Default returns the address flagged as default, if any.
func Default(list []ShippingAddress) (ShippingAddress, bool) {
	for _, a := range list {
		if a.IsDefault {
			return a, true
		}
	}
	return ShippingAddress{}, false
}
