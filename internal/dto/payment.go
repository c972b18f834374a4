package dto

// UPIIntentRequest POST /payments/upi-intent
type UPIIntentRequest struct {
	UPIHandle string   `json:"upiHandle"`
	AmountINR *float64 `json:"amountInr"`
	Note      string   `json:"note"`
	PayeeName string   `json:"payeeName"`
}

// UPIIntentResponse a deep link for UPI apps.
type UPIIntentResponse struct {
	URL string `json:"url"`
}

// CheckoutRequest POST /payments/stripe/checkout
type CheckoutRequest struct {
	AmountCents FlexInt           `json:"amountCents"`
	Currency    string            `json:"currency"`
	SuccessURL  string            `json:"successUrl"`
	CancelURL   string            `json:"cancelUrl"`
	Metadata    map[string]string `json:"metadata"`
}

// CheckoutResponse a placeholder checkout session.
type CheckoutResponse struct {
	CheckoutURL string `json:"checkoutUrl"`
	SessionID   string `json:"sessionId"`
	CancelURL   string `json:"cancelUrl"`
}
