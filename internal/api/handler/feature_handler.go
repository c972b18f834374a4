package handler

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"tipsy/internal/dto"
	"tipsy/internal/service"
	"tipsy/pkg/response"
)

// FeatureHandler feature toggle endpoints.
type FeatureHandler struct {
	featureSvc service.FeatureService
}

// NewFeatureHandler creates a FeatureHandler.
func NewFeatureHandler(featureSvc service.FeatureService) *FeatureHandler {
	return &FeatureHandler{featureSvc: featureSvc}
}

// List GET /api/v1/feature-toggles
func (h *FeatureHandler) List(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}

	features, err := h.featureSvc.List(c.Request.Context(), user)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, features)
}

// Upsert takes an array of toggles and creates or updates each by key.
// PATCH /api/v1/feature-toggles
func (h *FeatureHandler) Upsert(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}
	body, ok := readBody(c)
	if !ok {
		return
	}
	var inputs []dto.FeatureToggleInput
	if !isJSONArray(body) || json.Unmarshal(body, &inputs) != nil {
		response.Fail(c, service.ErrInvalidBodyFormat)
		return
	}

	resp, err := h.featureSvc.Upsert(c.Request.Context(), user, inputs)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, resp)
}
