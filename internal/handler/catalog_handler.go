package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ASHRREAL/guelph-schedule-generator/internal/dto"
	"github.com/ASHRREAL/guelph-schedule-generator/internal/service"
	appErrors "github.com/ASHRREAL/guelph-schedule-generator/pkg/errors"
	"github.com/ASHRREAL/guelph-schedule-generator/pkg/jobs"
	"github.com/ASHRREAL/guelph-schedule-generator/pkg/response"
)

type ingestQueue interface {
	Enqueue(job jobs.Job) error
}

// CatalogImportJob is the queued payload for an asynchronous catalog import.
type CatalogImportJob struct {
	Semester string
	Request  dto.ImportCatalogRequest
}

// CatalogHandler exposes catalog lookup and ingestion endpoints.
type CatalogHandler struct {
	catalog *service.CatalogService
	queue   ingestQueue
}

// NewCatalogHandler constructs the handler. A nil queue disables async imports.
func NewCatalogHandler(catalog *service.CatalogService, queue ingestQueue) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, queue: queue}
}

// Import godoc
// @Summary Import a scraped semester catalog
// @Description Replaces the stored catalog for the semester. Set async to queue the import instead of waiting for it.
// @Tags Catalog
// @Accept json
// @Produce json
// @Param semester path string true "Semester code, e.g. F25"
// @Param payload body dto.ImportCatalogRequest true "Catalog payload"
// @Success 200 {object} response.Envelope
// @Success 202 {object} response.Envelope
// @Router /catalog/{semester} [post]
func (h *CatalogHandler) Import(c *gin.Context) {
	semester := c.Param("semester")
	var req dto.ImportCatalogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid catalog payload"))
		return
	}
	if len(req.Catalog) == 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "catalog must contain at least one course"))
		return
	}

	if req.Async && h.queue != nil {
		jobID := uuid.NewString()
		job := jobs.Job{
			ID:       jobID,
			Type:     "catalog_import",
			Payload:  CatalogImportJob{Semester: semester, Request: req},
			Enqueued: time.Now().UTC(),
		}
		if err := h.queue.Enqueue(job); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, http.StatusServiceUnavailable, "catalog import queue unavailable"))
			return
		}
		response.JSON(c, http.StatusAccepted, dto.ImportCatalogResponse{
			JobID:    jobID,
			Semester: semester,
			Queued:   true,
		}, nil)
		return
	}

	count, err := h.catalog.Import(c.Request.Context(), semester, req.Catalog)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.ImportCatalogResponse{
		Semester: semester,
		Courses:  count,
	}, nil)
}

// Search godoc
// @Summary Search courses in a semester
// @Description Fuzzy course lookup for the course picker. Matches code prefixes, title words, and near-miss typos.
// @Tags Catalog
// @Produce json
// @Param semester query string true "Semester code"
// @Param q query string true "Search text"
// @Success 200 {object} response.Envelope
// @Router /courses/search [get]
func (h *CatalogHandler) Search(c *gin.Context) {
	semester := c.Query("semester")
	query := c.Query("q")
	if semester == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "semester is required"))
		return
	}
	results, err := h.catalog.Search(c.Request.Context(), semester, query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, results, nil)
}

// Sections godoc
// @Summary List sections for a course
// @Tags Catalog
// @Produce json
// @Param code path string true "Course code, e.g. CIS*1500"
// @Param semester query string true "Semester code"
// @Success 200 {object} response.Envelope
// @Router /courses/{code}/sections [get]
func (h *CatalogHandler) Sections(c *gin.Context) {
	semester := c.Query("semester")
	if semester == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "semester is required"))
		return
	}
	sections, err := h.catalog.Sections(c.Request.Context(), semester, c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sections, nil)
}

// SemesterInfo godoc
// @Summary Summarise one semester's catalog
// @Tags Catalog
// @Produce json
// @Param semester path string true "Semester code"
// @Success 200 {object} response.Envelope
// @Router /semesters/{semester} [get]
func (h *CatalogHandler) SemesterInfo(c *gin.Context) {
	info, err := h.catalog.SemesterInfo(c.Request.Context(), c.Param("semester"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, info, nil)
}

// Semesters godoc
// @Summary List semesters with stored catalogs
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /semesters [get]
func (h *CatalogHandler) Semesters(c *gin.Context) {
	semesters, err := h.catalog.Semesters(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"semesters": semesters}, nil)
}
