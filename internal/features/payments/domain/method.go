package domain

// PaymentType is the kind of payment a method settles through.
type PaymentType string

const (
	PaymentTypeCard   PaymentType = "card"
	PaymentTypePayPal PaymentType = "paypal"
	PaymentTypeApple  PaymentType = "apple"
	PaymentTypeGoogle PaymentType = "google"
	PaymentTypeCOD    PaymentType = "cod"
	PaymentTypeBank   PaymentType = "bank"
)

// PaymentMethod is an entry of the static payment catalog.
type PaymentMethod struct {
	ID   string      `json:"id"`
	Name string      `json:"name"`
	Type PaymentType `json:"type"`
	Icon string      `json:"icon"`
	// Fee is a flat surcharge shown to the buyer; zero for most methods.
	Fee float64 `json:"fee,omitempty"`
}

// RequiresGateway reports whether the method is charged before the order is placed.
// Cash on delivery is settled by the courier.
func (m PaymentMethod) RequiresGateway() bool {
	return m.Type != PaymentTypeCOD
}

var paymentMethods = []PaymentMethod{
	{ID: "card", Name: "Credit / Debit Card", Type: PaymentTypeCard, Icon: "card-outline"},
	{ID: "paypal", Name: "PayPal", Type: PaymentTypePayPal, Icon: "logo-paypal"},
	{ID: "apple_pay", Name: "Apple Pay", Type: PaymentTypeApple, Icon: "logo-apple"},
	{ID: "google_pay", Name: "Google Pay", Type: PaymentTypeGoogle, Icon: "logo-google"},
	{ID: "cod", Name: "Cash on Delivery", Type: PaymentTypeCOD, Icon: "cash-outline", Fee: 2},
	{ID: "bank_transfer", Name: "Bank Transfer", Type: PaymentTypeBank, Icon: "business-outline"},
}

// PaymentMethods returns a copy of the payment catalog.
func PaymentMethods() []PaymentMethod {
	return append([]PaymentMethod(nil), paymentMethods...)
}

// FindPaymentMethod looks a method up by ID.
func FindPaymentMethod(id string) (PaymentMethod, bool) {
	for _, m := range paymentMethods {
		if m.ID == id {
			return m, true
		}
	}
	return PaymentMethod{}, false
}
