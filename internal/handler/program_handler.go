package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/phdstats-api/internal/dto"
	"github.com/noah-isme/phdstats-api/internal/middleware"
	"github.com/noah-isme/phdstats-api/internal/models"
	"github.com/noah-isme/phdstats-api/internal/service"
	appErrors "github.com/noah-isme/phdstats-api/pkg/errors"
	"github.com/noah-isme/phdstats-api/pkg/response"
)

type programService interface {
	Search(ctx context.Context, req service.ProgramSearchRequest) ([]string, error)
	Index(ctx context.Context) ([]models.ProgramSummary, error)
	Summary(ctx context.Context, program string) (models.ProgramSummary, error)
	Students(ctx context.Context, req service.StudentListRequest) (*service.StudentList, error)
	Snapshots(ctx context.Context, req service.SnapshotListRequest) ([]models.SnapshotPoint, error)
	Statistics(ctx context.Context, req service.StatisticsRequest) (models.StatisticsMetric, []models.StatisticsPoint, error)
}

// ProgramHandler exposes program statistics endpoints.
type ProgramHandler struct {
	service programService
}

// NewProgramHandler constructs the handler.
func NewProgramHandler(service programService) *ProgramHandler {
	return &ProgramHandler{service: service}
}

// Search godoc
// @Summary Search program names
// @Tags Programs
// @Produce json
// @Param q query string false "Case-insensitive substring of the university name"
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /programs [get]
func (h *ProgramHandler) Search(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	names, err := h.service.Search(c.Request.Context(), service.ProgramSearchRequest{Query: c.Query("q")})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, names, nil, middleware.ResponseMeta(c, start))
}

// Index godoc
// @Summary All-programs overview
// @Tags Programs
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /programs/index [get]
func (h *ProgramHandler) Index(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	summaries, err := h.service.Index(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewProgramIndexResponse(summaries), nil, middleware.ResponseMeta(c, start))
}

// Summary godoc
// @Summary Program summary card
// @Tags Programs
// @Produce json
// @Param program query string false "University name; empty summarises every program"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /programs/summary [get]
func (h *ProgramHandler) Summary(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	summary, err := h.service.Summary(c.Request.Context(), c.Query("program"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewProgramSummaryResponse(summary), nil, middleware.ResponseMeta(c, start))
}

// Students godoc
// @Summary Student rows of a program
// @Tags Programs
// @Produce json
// @Param program query string false "University name; empty lists every student"
// @Param sort query string false "name, start_date, end_date, active, placement, enrollment_date, completion_date or duration_years"
// @Param order query string false "asc or desc"
// @Param page query int false "Page, starting at 1"
// @Param limit query int false "Page size; 0 returns every row"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /programs/students [get]
func (h *ProgramHandler) Students(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	page := parseQueryInt(c, "page", 1)
	limit := parseQueryInt(c, "limit", 0)
	if page < 1 || limit < 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "page must be >= 1 and limit >= 0"))
		return
	}
	start := time.Now()
	list, err := h.service.Students(c.Request.Context(), service.StudentListRequest{
		Program: c.Query("program"),
		Sort:    strings.ToLower(strings.TrimSpace(c.Query("sort"))),
		Order:   strings.ToLower(strings.TrimSpace(c.Query("order"))),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	records, pagination := paginate(list.Records, page, limit)
	response.JSON(c, http.StatusOK, dto.NewStudentListResponse(list.Program, records, list.Mixed), pagination, middleware.ResponseMeta(c, start))
}

// Snapshots godoc
// @Summary Archive snapshots of a program
// @Tags Programs
// @Produce json
// @Param program query string false "University name; empty merges every program"
// @Param sort query string false "date or count"
// @Param order query string false "asc or desc"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /programs/snapshots [get]
func (h *ProgramHandler) Snapshots(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	points, err := h.service.Snapshots(c.Request.Context(), service.SnapshotListRequest{
		Program: c.Query("program"),
		Sort:    strings.ToLower(strings.TrimSpace(c.Query("sort"))),
		Order:   strings.ToLower(strings.TrimSpace(c.Query("order"))),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewSnapshotRows(points), nil, middleware.ResponseMeta(c, start))
}

// Statistics godoc
// @Summary Programs ranked by a metric
// @Tags Statistics
// @Produce json
// @Param metric query string false "placement (default) or duration"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /statistics [get]
func (h *ProgramHandler) Statistics(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	metric, points, err := h.service.Statistics(c.Request.Context(), service.StatisticsRequest{
		Metric: strings.ToLower(strings.TrimSpace(c.Query("metric"))),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewStatisticsResponse(metric, points), nil, middleware.ResponseMeta(c, start))
}

func parseQueryInt(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return -1
	}
	return val
}

// paginate slices one page out of records. A zero limit disables paging.
func paginate(records []models.StudentRecord, page, limit int) ([]models.StudentRecord, *response.Pagination) {
	if limit == 0 {
		return records, nil
	}
	pagination := &response.Pagination{Page: page, PageSize: limit, TotalCount: len(records)}
	from := (page - 1) * limit
	if from >= len(records) {
		return []models.StudentRecord{}, pagination
	}
	to := from + limit
	if to > len(records) {
		to = len(records)
	}
	return records[from:to], pagination
}
