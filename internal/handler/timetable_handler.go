package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campusforge/timetable-scheduler/internal/dto"
	"github.com/campusforge/timetable-scheduler/internal/models"
	"github.com/campusforge/timetable-scheduler/internal/service"
	appErrors "github.com/campusforge/timetable-scheduler/pkg/errors"
	"github.com/campusforge/timetable-scheduler/pkg/response"
)

const maxStudentGroups = 512

type timetableGenerator interface {
	Generate(ctx context.Context, req dto.SolveRequest) (*dto.SolveResponse, error)
	GenerateAsync(ctx context.Context, req dto.SolveRequest) (*dto.JobAccepted, error)
	GetRun(ctx context.Context, id string) (*dto.RunDetail, error)
	ListRuns(ctx context.Context, query dto.ListRunsQuery) ([]dto.RunSummary, int, error)
	DeleteRun(ctx context.Context, id string) error
	ExportCSV(ctx context.Context, id string) ([]byte, error)
	ExportPDF(ctx context.Context, id string) ([]byte, error)
}

// TimetableHandler exposes the solver over HTTP.
type TimetableHandler struct {
	service timetableGenerator
}

// NewTimetableHandler constructs the handler.
func NewTimetableHandler(svc *service.TimetableService) *TimetableHandler {
	return &TimetableHandler{service: svc}
}

// Generate godoc
// @Summary Solve a timetable synchronously
// @Description Runs the constraint-aware evolutionary search to completion and returns the best timetable found.
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body dto.SolveRequest true "Solve request"
// @Success 200 {object} response.Envelope
// @Router /timetable/solve [post]
func (h *TimetableHandler) Generate(c *gin.Context) {
	var req dto.SolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid solve payload"))
		return
	}
	if err := validateSolveRequestSize(req); err != nil {
		response.Error(c, err)
		return
	}
	resp, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// GenerateAsync godoc
// @Summary Solve a timetable in the background
// @Description Enqueues a solve job and returns immediately with a run id to poll.
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body dto.SolveRequest true "Solve request"
// @Success 202 {object} response.Envelope
// @Router /timetable/solve/async [post]
func (h *TimetableHandler) GenerateAsync(c *gin.Context) {
	var req dto.SolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid solve payload"))
		return
	}
	if err := validateSolveRequestSize(req); err != nil {
		response.Error(c, err)
		return
	}
	accepted, err := h.service.GenerateAsync(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, accepted, nil)
}

// GetRun godoc
// @Summary Fetch a persisted solve run
// @Tags Timetable
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} response.Envelope
// @Router /timetable/runs/{id} [get]
func (h *TimetableHandler) GetRun(c *gin.Context) {
	run, err := h.service.GetRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, run, nil)
}

// ListRuns godoc
// @Summary List persisted solve runs
// @Tags Timetable
// @Produce json
// @Param status query string false "Run status filter"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /timetable/runs [get]
func (h *TimetableHandler) ListRuns(c *gin.Context) {
	query := dto.ListRunsQuery{
		Status:   c.Query("status"),
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "pageSize", 20),
	}
	runs, total, err := h.service.ListRuns(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	pagination := &models.Pagination{Page: query.Page, PageSize: query.PageSize, TotalCount: total}
	response.JSON(c, http.StatusOK, runs, pagination)
}

// DeleteRun godoc
// @Summary Delete a persisted solve run
// @Tags Timetable
// @Param id path string true "Run ID"
// @Success 204
// @Router /timetable/runs/{id} [delete]
func (h *TimetableHandler) DeleteRun(c *gin.Context) {
	if err := h.service.DeleteRun(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ExportCSV godoc
// @Summary Export a run's timetable as CSV
// @Tags Timetable
// @Produce text/csv
// @Param id path string true "Run ID"
// @Success 200 {file} file
// @Router /timetable/runs/{id}/export/csv [get]
func (h *TimetableHandler) ExportCSV(c *gin.Context) {
	data, err := h.service.ExportCSV(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=timetable-"+c.Param("id")+".csv")
	c.Data(http.StatusOK, "text/csv", data)
}

// ExportPDF godoc
// @Summary Export a run's timetable as PDF
// @Tags Timetable
// @Produce application/pdf
// @Param id path string true "Run ID"
// @Success 200 {file} file
// @Router /timetable/runs/{id}/export/pdf [get]
func (h *TimetableHandler) ExportPDF(c *gin.Context) {
	data, err := h.service.ExportPDF(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=timetable-"+c.Param("id")+".pdf")
	c.Data(http.StatusOK, "application/pdf", data)
}

func validateSolveRequestSize(req dto.SolveRequest) error {
	if len(req.Students) > maxStudentGroups {
		return appErrors.Clone(appErrors.ErrValidation, "students exceeds supported limit")
	}
	return nil
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
