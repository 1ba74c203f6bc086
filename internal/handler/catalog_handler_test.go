package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ASHRREAL/guelph-schedule-generator/pkg/jobs"
)

type queueMock struct {
	jobs []jobs.Job
	err  error
}

func (q *queueMock) Enqueue(job jobs.Job) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

func TestCatalogHandlerImportAsyncQueues(t *testing.T) {
	gin.SetMode(gin.TestMode)
	queue := &queueMock{}
	h := &CatalogHandler{queue: queue}

	router := gin.New()
	router.POST("/catalog/:semester", h.Import)

	payload := `{"async":true,"catalog":{"CIS*1500":{"Title":"Intro","Sections":[]}}}`
	req, _ := http.NewRequest(http.MethodPost, "/catalog/F25", bytes.NewReader([]byte(payload)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusAccepted, w.Code)
	require.Len(t, queue.jobs, 1)
	assert.Equal(t, "catalog_import", queue.jobs[0].Type)

	job, ok := queue.jobs[0].Payload.(CatalogImportJob)
	require.True(t, ok)
	assert.Equal(t, "F25", job.Semester)
	assert.Contains(t, w.Body.String(), `"queued":true`)
}

func TestCatalogHandlerImportRejectsEmptyCatalog(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &CatalogHandler{}

	router := gin.New()
	router.POST("/catalog/:semester", h.Import)

	req, _ := http.NewRequest(http.MethodPost, "/catalog/F25", bytes.NewReader([]byte(`{"catalog":{}}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCatalogHandlerSearchRequiresSemester(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &CatalogHandler{}

	router := gin.New()
	router.GET("/courses/search", h.Search)

	req, _ := http.NewRequest(http.MethodGet, "/courses/search?q=cis", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "semester is required")
}

func TestCatalogHandlerSectionsRequiresSemester(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &CatalogHandler{}

	router := gin.New()
	router.GET("/courses/:code/sections", h.Sections)

	req, _ := http.NewRequest(http.MethodGet, "/courses/CIS*1500/sections", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}
