package dto

import "time"

// SubmitTipRequest POST /tips
type SubmitTipRequest struct {
	QRSlug      string  `json:"qr_slug"`
	AmountCents FlexInt `json:"amount_cents"`
	Currency    string  `json:"currency"`
	PayerName   *string `json:"payer_name"`
	Message     *string `json:"message"`
	Rating      *int    `json:"rating"`
}

// TipResponse a tip as returned to the payer.
type TipResponse struct {
	ID          uint      `json:"id"`
	AmountCents int64     `json:"amountCents"`
	Currency    string    `json:"currency"`
	PayerName   *string   `json:"payerName"`
	Message     *string   `json:"message"`
	Rating      *int      `json:"rating"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TipReviewRef the review created alongside a rated tip.
type TipReviewRef struct {
	ID     uint   `json:"id"`
	Rating int    `json:"rating"`
	Status string `json:"status"`
}

// SubmitTipResponse 201 body of POST /tips
type SubmitTipResponse struct {
	Tip        TipResponse   `json:"tip"`
	Worker     NameRef       `json:"worker"`
	Restaurant NameRef       `json:"restaurant"`
	Review     *TipReviewRef `json:"review"`
}

// TipListItem an entry of GET /tips
type TipListItem struct {
	TipResponse
	Restaurant *IDName `json:"restaurant"`
}
