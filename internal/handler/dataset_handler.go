package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/phdstats-api/internal/models"
	appErrors "github.com/noah-isme/phdstats-api/pkg/errors"
	"github.com/noah-isme/phdstats-api/pkg/middleware/requestid"
	"github.com/noah-isme/phdstats-api/pkg/response"
)

type datasetService interface {
	Status() models.DatasetStatus
	ScheduleReload(reason string) (string, error)
}

// DatasetHandler reports and refreshes the served dataset.
type DatasetHandler struct {
	service datasetService
}

// NewDatasetHandler constructs the handler.
func NewDatasetHandler(service datasetService) *DatasetHandler {
	return &DatasetHandler{service: service}
}

// Status godoc
// @Summary Served dataset status
// @Tags Dataset
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dataset [get]
func (h *DatasetHandler) Status(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	response.JSON(c, http.StatusOK, h.service.Status(), nil)
}

// Reload godoc
// @Summary Schedule a dataset reload
// @Tags Dataset
// @Produce json
// @Success 202 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /dataset/reload [post]
func (h *DatasetHandler) Reload(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	jobID, err := h.service.ScheduleReload("api:" + requestid.Value(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, gin.H{"job_id": jobID, "status": "queued"})
}
