package handler

import (
	"github.com/gin-gonic/gin"

	"tipsy/internal/dto"
	"tipsy/internal/service"
	"tipsy/pkg/response"
)

// TipHandler tip endpoints.
type TipHandler struct {
	tipSvc service.TipService
}

// NewTipHandler creates a TipHandler.
func NewTipHandler(tipSvc service.TipService) *TipHandler {
	return &TipHandler{tipSvc: tipSvc}
}

// Submit records a tip against a QR slug. Public.
// POST /api/v1/tips
func (h *TipHandler) Submit(c *gin.Context) {
	var req dto.SubmitTipRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.tipSvc.Submit(c.Request.Context(), &req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, resp)
}

// List returns the caller's received tips, newest first.
// GET /api/v1/tips
func (h *TipHandler) List(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}
	var q dto.ListQuery
	if !bindQuery(c, &q) {
		return
	}

	tips, err := h.tipSvc.ListForWorker(c.Request.Context(), user, &q)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, tips)
}
