package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/phdstats-api/internal/service"
	appErrors "github.com/noah-isme/phdstats-api/pkg/errors"
	"github.com/noah-isme/phdstats-api/pkg/response"
)

type exportService interface {
	Export(ctx context.Context, req service.ExportRequest) (*service.ExportResult, error)
}

// ExportHandler serves program tables as file downloads.
type ExportHandler struct {
	service exportService
}

// NewExportHandler constructs the handler.
func NewExportHandler(service exportService) *ExportHandler {
	return &ExportHandler{service: service}
}

// Download godoc
// @Summary Download a program table
// @Tags Exports
// @Produce text/csv
// @Produce application/pdf
// @Produce application/vnd.apache.parquet
// @Param kind query string true "programs, students or snapshots"
// @Param program query string false "University name, required for students and snapshots"
// @Param format query string false "csv (default), pdf or parquet"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 413 {object} response.Envelope
// @Router /exports [get]
func (h *ExportHandler) Download(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	result, err := h.service.Export(c.Request.Context(), service.ExportRequest{
		Kind:    c.Query("kind"),
		Program: c.Query("program"),
		Format:  c.Query("format"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("X-Export-Rows", strconv.Itoa(result.Rows))
	response.Attachment(c, result.Filename, result.ContentType, result.Body)
}
