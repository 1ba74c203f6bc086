package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/ASHRREAL/guelph-schedule-generator/internal/models"
)

type queryMetrics interface {
	ObserveDBQuery(operation string, duration time.Duration)
}

// CatalogRepository persists scraped semester catalogs in Postgres. Sections
// are stored as a JSONB document per course so the scraper payload round-trips
// without a relational explosion.
type CatalogRepository struct {
	db      *sqlx.DB
	metrics queryMetrics
}

// NewCatalogRepository creates a new repository instance.
func NewCatalogRepository(db *sqlx.DB, metrics queryMetrics) *CatalogRepository {
	return &CatalogRepository{db: db, metrics: metrics}
}

func (r *CatalogRepository) observe(operation string, start time.Time) {
	if r.metrics != nil {
		r.metrics.ObserveDBQuery(operation, time.Since(start))
	}
}

type courseRow struct {
	ID          string         `db:"id"`
	Semester    string         `db:"semester"`
	Code        string         `db:"code"`
	Title       string         `db:"title"`
	Description string         `db:"description"`
	Sections    types.JSONText `db:"sections"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

// GetCatalog loads every course of a semester into the in-memory catalog shape.
func (r *CatalogRepository) GetCatalog(ctx context.Context, semester string) (models.SemesterCatalog, error) {
	const query = `SELECT id, semester, code, title, description, sections, created_at, updated_at FROM courses WHERE semester = $1 ORDER BY code`
	defer r.observe("catalog_select", time.Now())
	var rows []courseRow
	if err := r.db.SelectContext(ctx, &rows, query, semester); err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", semester, err)
	}

	catalog := make(models.SemesterCatalog, len(rows))
	for _, row := range rows {
		var sections []models.SectionRecord
		if len(row.Sections) > 0 {
			if err := json.Unmarshal(row.Sections, &sections); err != nil {
				return nil, fmt.Errorf("decode sections for %s: %w", row.Code, err)
			}
		}
		catalog[row.Code] = models.CourseRecord{
			Title:       row.Title,
			Description: row.Description,
			Sections:    sections,
		}
	}
	return catalog, nil
}

// UpsertCatalog replaces the stored catalog for a semester and returns the
// number of courses written. Runs in a single transaction so readers never see
// a half-imported semester.
func (r *CatalogRepository) UpsertCatalog(ctx context.Context, semester string, catalog models.SemesterCatalog) (int, error) {
	defer r.observe("catalog_upsert", time.Now())
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin catalog import: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM courses WHERE semester = $1`, semester); err != nil {
		return 0, fmt.Errorf("clear catalog %s: %w", semester, err)
	}

	codes := make([]string, 0, len(catalog))
	for code := range catalog {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	const insert = `INSERT INTO courses (id, semester, code, title, description, sections, created_at, updated_at)
		VALUES (:id, :semester, :code, :title, :description, :sections, :created_at, :updated_at)`

	now := time.Now().UTC()
	for _, code := range codes {
		record := catalog[code]
		payload, err := json.Marshal(record.Sections)
		if err != nil {
			return 0, fmt.Errorf("encode sections for %s: %w", code, err)
		}
		row := courseRow{
			ID:          uuid.NewString(),
			Semester:    semester,
			Code:        code,
			Title:       record.Title,
			Description: record.Description,
			Sections:    types.JSONText(payload),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if _, err := tx.NamedExecContext(ctx, insert, row); err != nil {
			return 0, fmt.Errorf("insert course %s: %w", code, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit catalog import: %w", err)
	}
	return len(codes), nil
}

// ListSemesters returns the semesters with at least one stored course.
func (r *CatalogRepository) ListSemesters(ctx context.Context) ([]string, error) {
	const query = `SELECT DISTINCT semester FROM courses ORDER BY semester DESC`
	defer r.observe("semesters_list", time.Now())
	var semesters []string
	if err := r.db.SelectContext(ctx, &semesters, query); err != nil {
		return nil, fmt.Errorf("list semesters: %w", err)
	}
	return semesters, nil
}
