package handler

import (
	"github.com/gin-gonic/gin"

	"tipsy/internal/dto"
	"tipsy/internal/service"
	"tipsy/pkg/response"
)

// RestaurantHandler restaurant endpoints.
type RestaurantHandler struct {
	restaurantSvc service.RestaurantService
}

// NewRestaurantHandler creates a RestaurantHandler.
func NewRestaurantHandler(restaurantSvc service.RestaurantService) *RestaurantHandler {
	return &RestaurantHandler{restaurantSvc: restaurantSvc}
}

// List GET /api/v1/restaurants
func (h *RestaurantHandler) List(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}
	var q dto.ListQuery
	if !bindQuery(c, &q) {
		return
	}

	items, err := h.restaurantSvc.List(c.Request.Context(), user, &q)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, items)
}

// Create POST /api/v1/restaurants
func (h *RestaurantHandler) Create(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}
	var req dto.CreateRestaurantRequest
	if !bindGuarded(c, ownerKeys, &req) {
		return
	}

	restaurant, err := h.restaurantSvc.Create(c.Request.Context(), user, &req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, restaurant)
}

// Get GET /api/v1/restaurants/:id
func (h *RestaurantHandler) Get(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	detail, err := h.restaurantSvc.Get(c.Request.Context(), user, id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, detail)
}

// Update PATCH /api/v1/restaurants/:id
func (h *RestaurantHandler) Update(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}
	var req dto.UpdateRestaurantRequest
	if !bindGuarded(c, ownerKeys, &req) {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	restaurant, err := h.restaurantSvc.Update(c.Request.Context(), user, id, &req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, restaurant)
}

// Delete DELETE /api/v1/restaurants/:id
func (h *RestaurantHandler) Delete(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	resp, err := h.restaurantSvc.Delete(c.Request.Context(), user, id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, resp)
}
