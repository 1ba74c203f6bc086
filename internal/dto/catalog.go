package dto

import "github.com/ASHRREAL/guelph-schedule-generator/internal/models"

// ImportCatalogRequest uploads a scraped semester catalog for ingestion.
type ImportCatalogRequest struct {
	Catalog models.SemesterCatalog `json:"catalog" validate:"required"`
	Async   bool                   `json:"async"`
}

// ImportCatalogResponse acknowledges an ingest run.
type ImportCatalogResponse struct {
	JobID    string `json:"jobId,omitempty"`
	Semester string `json:"semester"`
	Courses  int    `json:"courses"`
	Queued   bool   `json:"queued"`
}

// CourseSearchResult is one suggestion row for the course picker.
type CourseSearchResult struct {
	Code          string `json:"code"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Credits       string `json:"credits,omitempty"`
	SectionsCount int    `json:"sections_count"`
}
