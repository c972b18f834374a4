package handler

import (
	"github.com/gin-gonic/gin"

	"tipsy/internal/dto"
	"tipsy/internal/service"
	"tipsy/pkg/response"
)

// ReviewHandler review endpoints.
type ReviewHandler struct {
	reviewSvc service.ReviewService
}

// NewReviewHandler creates a ReviewHandler.
func NewReviewHandler(reviewSvc service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewSvc: reviewSvc}
}

// Submit creates a pending review from a tip id or QR slug. Public.
// POST /api/v1/reviews
func (h *ReviewHandler) Submit(c *gin.Context) {
	var req dto.SubmitReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.reviewSvc.Submit(c.Request.Context(), &req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, resp)
}

// List GET /api/v1/reviews[?restaurantId=]
func (h *ReviewHandler) List(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}
	var q dto.ReviewListQuery
	if !bindQuery(c, &q) {
		return
	}

	reviews, err := h.reviewSvc.List(c.Request.Context(), user, &q)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, reviews)
}

// Moderate approves or rejects a review.
// POST /api/v1/reviews/moderate
func (h *ReviewHandler) Moderate(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}
	var req dto.ModerateReviewRequest
	if !bindGuarded(c, moderatorKeys, &req) {
		return
	}

	resp, err := h.reviewSvc.Moderate(c.Request.Context(), user, &req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, resp)
}
