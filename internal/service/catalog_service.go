package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ASHRREAL/guelph-schedule-generator/internal/dto"
	"github.com/ASHRREAL/guelph-schedule-generator/internal/models"
	appErrors "github.com/ASHRREAL/guelph-schedule-generator/pkg/errors"
)

type catalogStore interface {
	GetCatalog(ctx context.Context, semester string) (models.SemesterCatalog, error)
	UpsertCatalog(ctx context.Context, semester string, catalog models.SemesterCatalog) (int, error)
	ListSemesters(ctx context.Context) ([]string, error)
}

type catalogCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

type catalogMetrics interface {
	RecordCacheOperation(hit bool, duration time.Duration)
	ObserveCacheWrite(duration time.Duration)
	ObserveCatalogImport(duration time.Duration)
}

// CatalogServiceConfig tunes catalog caching.
type CatalogServiceConfig struct {
	CacheTTL time.Duration
}

// CatalogService resolves semester catalogs into planner-ready sections and
// powers the course picker endpoints.
type CatalogService struct {
	store   catalogStore
	cache   catalogCache
	logger  *zap.Logger
	metrics catalogMetrics
	ttl     time.Duration
}

// NewCatalogService wires the catalog store and optional cache.
func NewCatalogService(store catalogStore, cache catalogCache, logger *zap.Logger, metrics catalogMetrics, cfg CatalogServiceConfig) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 15 * time.Minute
	}
	return &CatalogService{store: store, cache: cache, logger: logger, metrics: metrics, ttl: cfg.CacheTTL}
}

func catalogCacheKey(semester string) string {
	return fmt.Sprintf("catalog:%s", strings.ReplaceAll(strings.ToLower(semester), " ", "_"))
}

// Catalog loads a semester catalog, consulting the cache first.
func (s *CatalogService) Catalog(ctx context.Context, semester string) (models.SemesterCatalog, error) {
	key := catalogCacheKey(semester)
	if s.cache != nil {
		var cached models.SemesterCatalog
		readStart := time.Now()
		err := s.cache.Get(ctx, key, &cached)
		if s.metrics != nil {
			s.metrics.RecordCacheOperation(err == nil, time.Since(readStart))
		}
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("catalog cache read failed", zap.String("semester", semester), zap.Error(err))
		}
	}

	catalog, err := s.store.GetCatalog(ctx, semester)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load semester catalog")
	}
	if len(catalog) == 0 {
		return nil, appErrors.Clone(appErrors.ErrInvalidSemester, fmt.Sprintf("no catalog data for %s", semester))
	}

	if s.cache != nil {
		writeStart := time.Now()
		if err := s.cache.Set(ctx, key, catalog, s.ttl); err != nil {
			s.logger.Warn("catalog cache write failed", zap.String("semester", semester), zap.Error(err))
		} else if s.metrics != nil {
			s.metrics.ObserveCacheWrite(time.Since(writeStart))
		}
	}
	return catalog, nil
}

// CourseSections resolves the selection into per-course candidate section
// lists, applying section filters and per-course time windows. Courses that
// cannot yield a single candidate are reported by name.
func (s *CatalogService) CourseSections(ctx context.Context, semester string, selection CourseSelection) ([]CourseSections, error) {
	catalog, err := s.Catalog(ctx, semester)
	if err != nil {
		return nil, err
	}

	var unavailable, exhausted []string
	courses := make([]CourseSections, 0, len(selection.Codes))

	for _, code := range selection.Codes {
		record, ok := catalog[code]
		if !ok {
			unavailable = append(unavailable, code)
			continue
		}
		if len(record.Sections) == 0 {
			unavailable = append(unavailable, fmt.Sprintf("%s (no sections listed)", code))
			continue
		}

		allowed := sectionIDSet(selection.SectionFilter[code])
		window := selection.CourseWindows[code]

		var sections []*models.Section
		for _, raw := range record.Sections {
			if allowed != nil {
				if _, ok := allowed[raw.ID]; !ok {
					continue
				}
			}
			section := raw.Section(code)
			if !section.FitsTimeWindow(window.Earliest, window.Latest) {
				continue
			}
			sections = append(sections, section)
		}
		if len(sections) == 0 {
			exhausted = append(exhausted, code)
			continue
		}
		courses = append(courses, CourseSections{Code: code, Sections: sections})
	}

	if len(unavailable) > 0 {
		return nil, appErrors.Clone(appErrors.ErrCourseUnavailable,
			fmt.Sprintf("courses not found in %s: %s", semester, strings.Join(unavailable, ", ")))
	}
	if len(exhausted) > 0 {
		return nil, appErrors.Clone(appErrors.ErrNoSectionsForCourse,
			fmt.Sprintf("no sections meet the time criteria for: %s", strings.Join(exhausted, ", ")))
	}
	return courses, nil
}

func sectionIDSet(ids []string) map[string]struct{} {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Sections lists the raw section records for one course.
func (s *CatalogService) Sections(ctx context.Context, semester, code string) ([]models.SectionRecord, error) {
	catalog, err := s.Catalog(ctx, semester)
	if err != nil {
		return nil, err
	}
	record, ok := catalog[NormalizeCourseCode(code)]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found in the selected semester")
	}
	return record.Sections, nil
}

// SemesterInfo summarises the catalog of one semester.
func (s *CatalogService) SemesterInfo(ctx context.Context, semester string) (*models.SemesterInfo, error) {
	catalog, err := s.Catalog(ctx, semester)
	if err != nil {
		return nil, err
	}

	totalSections := 0
	departments := make(map[string]struct{})
	for code, record := range catalog {
		totalSections += len(record.Sections)
		if dept := departmentOf(code); dept != "" {
			departments[dept] = struct{}{}
		}
	}
	return &models.SemesterInfo{
		Semester:        semester,
		TotalCourses:    len(catalog),
		TotalSections:   totalSections,
		DepartmentCount: len(departments),
	}, nil
}

var leadingLetters = regexp.MustCompile(`^[A-Z]+`)

func departmentOf(code string) string {
	if star := strings.IndexByte(code, '*'); star > 0 {
		return code[:star]
	}
	return leadingLetters.FindString(code)
}

// Import persists a scraped catalog and invalidates cached copies.
func (s *CatalogService) Import(ctx context.Context, semester string, catalog models.SemesterCatalog) (int, error) {
	if semester == "" {
		return 0, appErrors.Clone(appErrors.ErrValidation, "semester is required")
	}
	if len(catalog) == 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "catalog payload is empty")
	}

	start := time.Now()
	count, err := s.store.UpsertCatalog(ctx, semester, catalog)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist catalog")
	}
	if s.metrics != nil {
		s.metrics.ObserveCatalogImport(time.Since(start))
	}

	if s.cache != nil {
		if err := s.cache.DeleteByPattern(ctx, catalogCacheKey(semester)); err != nil {
			s.logger.Warn("catalog cache invalidation failed", zap.String("semester", semester), zap.Error(err))
		}
	}
	s.logger.Info("catalog imported", zap.String("semester", semester), zap.Int("courses", count))
	return count, nil
}

// Semesters lists semesters with stored catalog data.
func (s *CatalogService) Semesters(ctx context.Context) ([]string, error) {
	semesters, err := s.store.ListSemesters(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list semesters")
	}
	return semesters, nil
}

const (
	searchMinQueryLen = 2
	searchScoreCutoff = 40
	searchMaxResults  = 15
	searchMaxEditDist = 2
)

var creditsPattern = regexp.MustCompile(`(?i)\(([\d\.]+\s*Credits?)\)`)

// Search suggests courses for a partial query, tolerating small typos in the
// course code and matching against titles.
func (s *CatalogService) Search(ctx context.Context, semester, query string) ([]dto.CourseSearchResult, error) {
	query = strings.TrimSpace(query)
	if len(query) < searchMinQueryLen {
		return []dto.CourseSearchResult{}, nil
	}
	catalog, err := s.Catalog(ctx, semester)
	if err != nil {
		return nil, err
	}

	queryUpper := strings.ToUpper(query)
	queryLower := strings.ToLower(query)
	normalizedQuery := NormalizeCourseCode(queryUpper)
	bareQuery := stripCodeSeparators(queryUpper)

	type scored struct {
		result dto.CourseSearchResult
		score  int
	}
	var matches []scored

	for code, record := range catalog {
		title := record.Title
		if title == "" {
			title = "Unknown Course Title"
		}

		score := 0
		if distance := levenshtein(bareQuery, stripCodeSeparators(code)); distance <= searchMaxEditDist {
			score = 85 - distance*15
		}
		switch {
		case code == normalizedQuery:
			score = 100
		case strings.HasPrefix(code, normalizedQuery):
			score = maxInt(score, 95)
		case strings.HasPrefix(code, queryUpper):
			score = maxInt(score, 90)
		}
		if strings.Contains(strings.ToLower(title), queryLower) {
			if strings.HasPrefix(strings.ToLower(title), queryLower) {
				score = maxInt(score, 65)
			} else {
				score = maxInt(score, 50)
			}
		}
		if score <= searchScoreCutoff {
			continue
		}

		credits := ""
		if m := creditsPattern.FindStringSubmatch(title); m != nil {
			credits = m[1]
		}
		matches = append(matches, scored{
			score: score,
			result: dto.CourseSearchResult{
				Code:          code,
				Title:         title,
				Description:   truncate(record.Description, 120),
				Credits:       credits,
				SectionsCount: len(record.Sections),
			},
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].score == matches[j].score {
			return matches[i].result.Code < matches[j].result.Code
		}
		return matches[i].score > matches[j].score
	})
	if len(matches) > searchMaxResults {
		matches = matches[:searchMaxResults]
	}

	results := make([]dto.CourseSearchResult, len(matches))
	for i, m := range matches {
		results[i] = m.result
	}
	return results, nil
}

func stripCodeSeparators(code string) string {
	return strings.Map(func(r rune) rune {
		if r == '*' || r == ' ' {
			return -1
		}
		return r
	}, code)
}

func truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	return text[:limit] + "..."
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// levenshtein computes the edit distance between two strings.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = minInt(prev[j]+1, minInt(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
