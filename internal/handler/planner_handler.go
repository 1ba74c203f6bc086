package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ASHRREAL/guelph-schedule-generator/internal/dto"
	"github.com/ASHRREAL/guelph-schedule-generator/internal/service"
	appErrors "github.com/ASHRREAL/guelph-schedule-generator/pkg/errors"
	"github.com/ASHRREAL/guelph-schedule-generator/pkg/response"
)

const maxPlanCourses = 12

type schedulePlanner interface {
	Plan(ctx context.Context, req dto.PlanScheduleRequest) (*dto.PlanScheduleResponse, error)
}

type scheduleExporter interface {
	Export(req dto.ExportScheduleRequest) (*service.ExportResult, error)
}

// PlannerHandler exposes the schedule planning endpoints.
type PlannerHandler struct {
	planner  schedulePlanner
	exporter scheduleExporter
}

// NewPlannerHandler constructs the handler.
func NewPlannerHandler(planner *service.PlannerService, exporter *service.ExportService) *PlannerHandler {
	return &PlannerHandler{planner: planner, exporter: exporter}
}

// Plan godoc
// @Summary Generate ranked conflict-free schedule combinations
// @Description Builds every valid timetable for the selected courses, applies time and day constraints, and returns combinations ranked by the requested preference.
// @Tags Planner
// @Accept json
// @Produce json
// @Param payload body dto.PlanScheduleRequest true "Plan schedule payload"
// @Success 200 {object} response.Envelope
// @Router /schedules/plan [post]
func (h *PlannerHandler) Plan(c *gin.Context) {
	var req dto.PlanScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid plan payload"))
		return
	}
	if len(req.Courses) > maxPlanCourses {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("at most %d courses per plan", maxPlanCourses)))
		return
	}
	result, err := h.planner.Plan(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Export godoc
// @Summary Export a chosen schedule as CSV or PDF
// @Tags Planner
// @Accept json
// @Produce text/csv
// @Produce application/pdf
// @Param payload body dto.ExportScheduleRequest true "Export schedule payload"
// @Success 200 {file} binary
// @Router /schedules/export [post]
func (h *PlannerHandler) Export(c *gin.Context) {
	var req dto.ExportScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export payload"))
		return
	}
	result, err := h.exporter.Export(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Payload)
}
