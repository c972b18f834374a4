package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	pkgerrors "tipsy/pkg/errors"
)

// ErrorBody is the error envelope returned by every endpoint.
type ErrorBody struct {
	Error string         `json:"error"`
	Code  string         `json:"code,omitempty"`
	Data  map[string]any `json:"data,omitempty"`
}

// ── Success ──

// OK 200
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 201
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// ── Errors ──

// Error writes the error envelope with an explicit status.
func Error(c *gin.Context, httpStatus int, code, message string) {
	c.JSON(httpStatus, ErrorBody{Error: message, Code: code})
}

// Fail renders err. Typed application errors map to their kind's status;
// an untranslated unique violation is a 409; anything else is recorded on
// the context for the logger middleware and rendered as a generic 500.
func Fail(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		err = pkgerrors.ErrDuplicateKey
	}
	if appErr, ok := pkgerrors.As(err); ok && appErr.Kind != pkgerrors.KindInternal {
		c.JSON(appErr.Kind.HTTPStatus(), ErrorBody{
			Error: appErr.Message,
			Code:  appErr.Code,
			Data:  appErr.Data,
		})
		return
	}
	_ = c.Error(err)
	InternalError(c)
}

// AbortFail is Fail followed by Abort, for middleware.
func AbortFail(c *gin.Context, err error) {
	Fail(c, err)
	c.Abort()
}

// ── Shortcuts ──

// BadRequest 400
func BadRequest(c *gin.Context, code, message string) {
	Error(c, http.StatusBadRequest, code, message)
}

// Unauthorized 401
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, "", message)
}

// Forbidden 403
func Forbidden(c *gin.Context, code, message string) {
	Error(c, http.StatusForbidden, code, message)
}

// NotFound 404
func NotFound(c *gin.Context, code, message string) {
	Error(c, http.StatusNotFound, code, message)
}

// InternalError 500
func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "", "Internal server error")
}
