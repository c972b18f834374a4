package handler

import (
	"github.com/gin-gonic/gin"

	"tipsy/internal/dto"
	"tipsy/internal/service"
	"tipsy/pkg/response"
)

// PaymentHandler payment link stubs.
type PaymentHandler struct {
	paymentSvc service.PaymentService
}

// NewPaymentHandler creates a PaymentHandler.
func NewPaymentHandler(paymentSvc service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentSvc: paymentSvc}
}

// UPIIntent POST /api/v1/payments/upi-intent
func (h *PaymentHandler) UPIIntent(c *gin.Context) {
	var req dto.UPIIntentRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.paymentSvc.UPIIntent(c.Request.Context(), &req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, resp)
}

// Checkout POST /api/v1/payments/stripe/checkout
func (h *PaymentHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.paymentSvc.Checkout(c.Request.Context(), &req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, resp)
}
