package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"tipsy/internal/service"
	"tipsy/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler spreadsheet downloads.
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler creates an ExportHandler.
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportTips downloads tips as xlsx: the caller's own, or a restaurant's
// with ?restaurantId=.
// GET /api/v1/export/tips
func (h *ExportHandler) ExportTips(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}
	restaurantID, ok := parseOptionalID(c, "restaurantId")
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportTips(c.Request.Context(), user, restaurantID)
	if err != nil {
		response.Fail(c, err)
		return
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
