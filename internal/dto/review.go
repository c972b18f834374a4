package dto

import (
	"time"

	"tipsy/internal/model"
)

// SubmitReviewRequest POST /reviews
type SubmitReviewRequest struct {
	TipID   FlexInt `json:"tip_id"`
	QRSlug  *string `json:"qr_slug"`
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

// ReviewSummary core review fields.
type ReviewSummary struct {
	ID        uint      `json:"id"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// SubmitReviewResponse 201 body of POST /reviews
type SubmitReviewResponse struct {
	Review     ReviewSummary `json:"review"`
	Worker     *NameRef      `json:"worker"`
	Restaurant *NameRef      `json:"restaurant"`
}

// ReviewListQuery GET /reviews
type ReviewListQuery struct {
	ListQuery
	RestaurantID uint `form:"restaurantId"`
}

// TipRef the tip a review came with.
type TipRef struct {
	ID          uint    `json:"id"`
	AmountCents int64   `json:"amountCents"`
	PayerName   *string `json:"payerName"`
}

// ReviewListItem an entry of GET /reviews. Workers see the restaurant,
// owners see the worker.
type ReviewListItem struct {
	ReviewSummary
	Restaurant *IDName `json:"restaurant,omitempty"`
	Worker     *IDName `json:"worker,omitempty"`
	Tip        *TipRef `json:"tip"`
}

// ModerateReviewRequest POST /reviews/moderate
type ModerateReviewRequest struct {
	ReviewID FlexInt `json:"reviewId"`
	Action   string  `json:"action"`
}

// ModerateReviewResponse the moderated review.
type ModerateReviewResponse struct {
	model.Review
	ModerationAction string `json:"moderationAction"`
	ModeratedBy      IDName `json:"moderatedBy"`
}
