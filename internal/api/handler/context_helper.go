package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tipsy/internal/api/middleware"
	"tipsy/internal/model"
	pkgerrors "tipsy/pkg/errors"
	"tipsy/pkg/response"
)

// Identity and ownership keys refused in mutation bodies. Each endpoint
// passes the subset that could reassign who a write is attributed to.
var (
	userIDKeys       = []string{"userId", "user_id", "authUserId", "auth_user_id"}
	ownerKeys        = []string{"ownerUserId", "owner_user_id", "userId", "user_id"}
	moderatorKeys    = []string{"userId", "user_id", "moderatedByUserId", "moderated_by_user_id"}
	inviterKeys      = []string{"inviterId", "inviter_id", "userId", "user_id"}
	workerCreateKeys = []string{"userId"}
)

// MustGetUser returns the user stored by middleware.Authenticate. On
// false a 401 has been written and the caller should return.
func MustGetUser(c *gin.Context) (*model.User, bool) {
	v, exists := c.Get(middleware.UserKey)
	if !exists {
		response.Fail(c, pkgerrors.ErrAuthRequired)
		return nil, false
	}
	u, ok := v.(*model.User)
	if !ok || u == nil {
		response.Fail(c, pkgerrors.ErrAuthRequired)
		return nil, false
	}
	return u, true
}

// parseID reads a positive integer path parameter.
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.Fail(c, pkgerrors.ErrInvalidID)
		return 0, false
	}
	return uint(id), true
}

// parseOptionalID reads a positive integer query parameter; absent yields 0.
func parseOptionalID(c *gin.Context, name string) (uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		response.Fail(c, pkgerrors.ErrInvalidID)
		return 0, false
	}
	return uint(id), true
}

// bindQuery binds query parameters into dst.
func bindQuery(c *gin.Context, dst any) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		response.Fail(c, pkgerrors.ErrInvalidQuery)
		return false
	}
	return true
}

// readBody reads the request body, answering 413 past the body limit.
func readBody(c *gin.Context) ([]byte, bool) {
	if c.Request.Body == nil {
		return nil, true
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Request body too large")
			return nil, false
		}
		response.Fail(c, pkgerrors.ErrInvalidBody)
		return nil, false
	}
	return body, true
}

// bindGuarded decodes a JSON object body into dst. Any top-level key in
// forbidden is rejected before the body is decoded, so no other field
// validation can run first.
func bindGuarded(c *gin.Context, forbidden []string, dst any) bool {
	body, ok := readBody(c)
	if !ok {
		return false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		response.Fail(c, pkgerrors.ErrInvalidBody)
		return false
	}
	for _, key := range forbidden {
		if _, present := fields[key]; present {
			response.Fail(c, pkgerrors.ErrUserIDInBody.WithMessage(key+" must not be provided in the request body"))
			return false
		}
	}
	if err := json.Unmarshal(body, dst); err != nil {
		response.Fail(c, pkgerrors.ErrInvalidBody)
		return false
	}
	return true
}

// bindJSON decodes a JSON object body with no guarded keys.
func bindJSON(c *gin.Context, dst any) bool {
	return bindGuarded(c, nil, dst)
}

// isJSONArray reports whether body's first significant byte opens an array.
func isJSONArray(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) > 0 && trimmed[0] == '['
}
