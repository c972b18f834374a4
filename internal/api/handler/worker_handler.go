package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"tipsy/internal/dto"
	"tipsy/internal/service"
	pkgerrors "tipsy/pkg/errors"
	"tipsy/pkg/response"
)

// WorkerHandler public worker pages and worker profile management.
type WorkerHandler struct {
	workerSvc service.WorkerService
}

// NewWorkerHandler creates a WorkerHandler.
func NewWorkerHandler(workerSvc service.WorkerService) *WorkerHandler {
	return &WorkerHandler{workerSvc: workerSvc}
}

// PublicProfile GET /api/v1/workers/:id
func (h *WorkerHandler) PublicProfile(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	profile, err := h.workerSvc.PublicProfile(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, profile)
}

// PublicProfileBySlug GET /api/v1/workers/by-slug/:qr_slug
func (h *WorkerHandler) PublicProfileBySlug(c *gin.Context) {
	profile, err := h.workerSvc.PublicProfileBySlug(c.Request.Context(), c.Param("qr_slug"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, profile)
}

// List returns one profile with stats when ?id= is given, otherwise a
// filtered page of profiles.
// GET /api/v1/workers
func (h *WorkerHandler) List(c *gin.Context) {
	if raw, present := c.GetQuery("id"); present {
		id, ok := profileID(c, raw)
		if !ok {
			return
		}
		profile, err := h.workerSvc.GetProfile(c.Request.Context(), id)
		if err != nil {
			response.Fail(c, err)
			return
		}
		response.OK(c, profile)
		return
	}

	var q dto.WorkerProfileQuery
	if !bindQuery(c, &q) {
		return
	}
	profiles, err := h.workerSvc.ListProfiles(c.Request.Context(), &q)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, profiles)
}

// Create POST /api/v1/workers
func (h *WorkerHandler) Create(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}
	var req dto.CreateWorkerProfileRequest
	if !bindGuarded(c, workerCreateKeys, &req) {
		return
	}

	profile, err := h.workerSvc.CreateProfile(c.Request.Context(), user, &req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, profile)
}

// Update PUT /api/v1/workers?id=
func (h *WorkerHandler) Update(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}
	var req dto.UpdateWorkerProfileRequest
	if !bindGuarded(c, userIDKeys, &req) {
		return
	}
	id, ok := profileID(c, c.Query("id"))
	if !ok {
		return
	}

	profile, err := h.workerSvc.UpdateProfile(c.Request.Context(), user, id, &req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, profile)
}

// Delete DELETE /api/v1/workers?id=
func (h *WorkerHandler) Delete(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}
	id, ok := profileID(c, c.Query("id"))
	if !ok {
		return
	}

	resp, err := h.workerSvc.DeleteProfile(c.Request.Context(), user, id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, resp)
}

func profileID(c *gin.Context, raw string) (uint, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		response.Fail(c, service.ErrMissingWorkerID)
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		response.Fail(c, pkgerrors.ErrInvalidID)
		return 0, false
	}
	return uint(id), true
}
