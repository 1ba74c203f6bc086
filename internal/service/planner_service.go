package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ASHRREAL/guelph-schedule-generator/internal/dto"
	"github.com/ASHRREAL/guelph-schedule-generator/internal/models"
	appErrors "github.com/ASHRREAL/guelph-schedule-generator/pkg/errors"
)

const (
	defaultMaxCombinations = 100000
	minCombinationCap      = 1000
	maxCombinationCap      = 1500000
	defaultMaxResults      = 500
	defaultFallbackLimit   = 50
)

// CourseSelection is what the planner needs the catalog to resolve: the
// requested course codes plus any per-course narrowing.
type CourseSelection struct {
	Codes         []string
	CourseWindows map[string]TimeWindow
	SectionFilter map[string][]string
}

// TimeWindow is an earliest/latest minute pair; zero means unconstrained.
type TimeWindow struct {
	Earliest int
	Latest   int
}

type courseCatalogProvider interface {
	CourseSections(ctx context.Context, semester string, selection CourseSelection) ([]CourseSections, error)
}

type plannerMetrics interface {
	ObservePlannerRun(checked, pruned, valid int, duration time.Duration)
}

// PlannerConfig governs search bounds and the latest-filter relaxation policy.
type PlannerConfig struct {
	MaxCombinations  int
	MaxResults       int
	LatestGraceSteps []int
	FallbackLimit    int
}

// PlannerService runs the combinatorial timetable search over sections
// resolved from the semester catalog.
type PlannerService struct {
	catalog   courseCatalogProvider
	validator *validator.Validate
	logger    *zap.Logger
	metrics   plannerMetrics
	cfg       PlannerConfig
}

// NewPlannerService wires planner dependencies.
func NewPlannerService(catalog courseCatalogProvider, validate *validator.Validate, logger *zap.Logger, metrics plannerMetrics, cfg PlannerConfig) *PlannerService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxCombinations < minCombinationCap || cfg.MaxCombinations > maxCombinationCap {
		cfg.MaxCombinations = defaultMaxCombinations
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = defaultMaxResults
	}
	if len(cfg.LatestGraceSteps) == 0 {
		cfg.LatestGraceSteps = []int{30, 60}
	}
	if cfg.FallbackLimit <= 0 {
		cfg.FallbackLimit = defaultFallbackLimit
	}
	return &PlannerService{
		catalog:   catalog,
		validator: validate,
		logger:    logger,
		metrics:   metrics,
		cfg:       cfg,
	}
}

// PlanInput is the explicit input of one planning run: per-course candidate
// sections already constructed by the caller plus the global constraints.
type PlanInput struct {
	Courses          []CourseSections
	Earliest         int
	Latest           int
	DaysOff          []models.Weekday
	MinDaysOff       int
	Preference       RankPreference
	MaxCombinations  int
	MaxResults       int
	LatestGraceSteps []int
	FallbackLimit    int
}

// RankedSchedule is one combination of the ranked output with its derived
// metrics.
type RankedSchedule struct {
	Sections     []*models.Section
	GapMinutes   int
	Score        float64
	Details      *dto.ScoreBreakdown
	DaysOnCampus int
}

// PlanStats aggregates generation and filtering observability counters.
type PlanStats struct {
	Generation      GenerationStats
	TotalFound      int
	LatestRelaxedBy int
	FallbackApplied bool
}

// PlanResult is the outcome of one planning run.
type PlanResult struct {
	Ranked []RankedSchedule
	Stats  PlanStats
}

// Plan resolves the requested courses against the semester catalog and runs
// the full generate-filter-rank pipeline.
func (s *PlannerService) Plan(ctx context.Context, req dto.PlanScheduleRequest) (*dto.PlanScheduleResponse, error) {
	started := time.Now()

	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid plan payload")
	}

	codes := NormalizeCourseCodes(req.Courses)
	if len(codes) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNoCoursesSelected, "")
	}

	earliest, err := parseClockMinutes(req.Earliest)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid earliest time %q", req.Earliest))
	}
	latest, err := parseClockMinutes(req.Latest)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid latest time %q", req.Latest))
	}
	if earliest > 0 && latest > 0 && earliest >= latest {
		return nil, appErrors.Clone(appErrors.ErrInvalidTimeWindow, "")
	}

	daysOff, err := parseDaysOff(req.DaysOff)
	if err != nil {
		return nil, err
	}

	selection := CourseSelection{
		Codes:         codes,
		CourseWindows: make(map[string]TimeWindow, len(req.CourseWindows)),
		SectionFilter: req.SectionFilter,
	}
	for code, window := range req.CourseWindows {
		courseEarliest, err := parseClockMinutes(window.Earliest)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid earliest time for %s", code))
		}
		courseLatest, err := parseClockMinutes(window.Latest)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid latest time for %s", code))
		}
		selection.CourseWindows[NormalizeCourseCode(code)] = TimeWindow{Earliest: courseEarliest, Latest: courseLatest}
	}

	courses, err := s.catalog.CourseSections(ctx, req.Semester, selection)
	if err != nil {
		return nil, err
	}

	minDaysOff := 0
	if req.MinDaysOff != nil {
		minDaysOff = *req.MinDaysOff
	}
	maxResults := req.MaxResults
	if maxResults <= 0 || maxResults > s.cfg.MaxResults {
		maxResults = s.cfg.MaxResults
	}

	result, err := s.PlanSections(PlanInput{
		Courses:          courses,
		Earliest:         earliest,
		Latest:           latest,
		DaysOff:          daysOff,
		MinDaysOff:       minDaysOff,
		Preference:       ParseRankPreference(req.SortPreference),
		MaxCombinations:  s.cfg.MaxCombinations,
		MaxResults:       maxResults,
		LatestGraceSteps: s.cfg.LatestGraceSteps,
		FallbackLimit:    s.cfg.FallbackLimit,
	})
	elapsed := time.Since(started)
	if s.metrics != nil {
		stats := PlanStats{}
		if result != nil {
			stats = result.Stats
		}
		s.metrics.ObservePlannerRun(stats.Generation.Checked, stats.Generation.Pruned, stats.Generation.Valid, elapsed)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("plan completed",
		zap.String("semester", req.Semester),
		zap.Int("courses", len(codes)),
		zap.Int("valid", result.Stats.Generation.Valid),
		zap.Int("pruned", result.Stats.Generation.Pruned),
		zap.Bool("truncated", result.Stats.Generation.Truncated),
		zap.Duration("elapsed", elapsed),
	)

	return buildPlanResponse(result, ParseRankPreference(req.SortPreference), earliest, latest, elapsed), nil
}

// PlanSections is the pure planning core: it performs no I/O and derives its
// entire output from the explicit input. Callers owning their own section
// data can invoke it directly.
func (s *PlannerService) PlanSections(input PlanInput) (*PlanResult, error) {
	if len(input.Courses) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNoCoursesSelected, "")
	}
	var emptyCourses []string
	candidates := make([][]*models.Section, len(input.Courses))
	for i, course := range input.Courses {
		if len(course.Sections) == 0 {
			emptyCourses = append(emptyCourses, course.Code)
		}
		candidates[i] = course.Sections
	}
	if len(emptyCourses) > 0 {
		return nil, appErrors.Clone(appErrors.ErrNoSectionsForCourse,
			fmt.Sprintf("no qualifying sections for: %s", strings.Join(emptyCourses, ", ")))
	}

	// Pre-filter candidates against the global window. The latest bound is
	// widened by the largest grace step so near-fits survive into the staged
	// relaxation below instead of dying here.
	prefilterLatest := input.Latest
	if prefilterLatest > 0 {
		prefilterLatest += maxGrace(input.LatestGraceSteps)
	}
	candidates = filterSectionsByWindow(candidates, input.Earliest, prefilterLatest)

	limit := input.MaxCombinations
	if limit < minCombinationCap || limit > maxCombinationCap {
		limit = defaultMaxCombinations
	}

	cache := newConflictCache()
	combos, genStats := generateCombinations(candidates, limit, cache)
	stats := PlanStats{Generation: genStats}

	if len(combos) == 0 {
		if genStats.TotalPossible == 0 {
			return &PlanResult{Stats: stats}, appErrors.Clone(appErrors.ErrNoSectionsForCourse, "the combination space is empty")
		}
		return &PlanResult{Stats: stats}, appErrors.Clone(appErrors.ErrOverConstrained, "every combination has overlapping meetings")
	}

	combos = filterBySpecificDaysOff(combos, input.DaysOff)
	if len(combos) == 0 {
		return &PlanResult{Stats: stats}, appErrors.Clone(appErrors.ErrOverConstrained, "no combination leaves the requested days free")
	}

	combos = filterByMinDaysOff(combos, input.MinDaysOff)
	if len(combos) == 0 {
		return &PlanResult{Stats: stats}, appErrors.Clone(appErrors.ErrOverConstrained, "no combination has enough free days")
	}

	combos = filterByEarliestAtSchool(combos, input.Earliest)
	if len(combos) == 0 {
		return &PlanResult{Stats: stats}, appErrors.Clone(appErrors.ErrOverConstrained, "the earliest start constraint eliminated every combination")
	}

	latestResult := filterByLatestAtSchool(combos, input.Latest, input.LatestGraceSteps, input.FallbackLimit)
	combos = latestResult.Combos
	stats.LatestRelaxedBy = latestResult.RelaxedBy
	stats.FallbackApplied = latestResult.FallbackUsed
	if len(combos) == 0 {
		return &PlanResult{Stats: stats}, appErrors.Clone(appErrors.ErrOverConstrained, "the latest end constraint eliminated every combination")
	}

	stats.TotalFound = len(combos)

	entries := rankCombinations(combos, input.Preference)
	maxResults := input.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	if len(entries) > maxResults {
		entries = entries[:maxResults]
	}

	ranked := make([]RankedSchedule, len(entries))
	for i, entry := range entries {
		ranked[i] = RankedSchedule{
			Sections:     entry.combo,
			GapMinutes:   entry.gap,
			Score:        entry.key,
			Details:      entry.details,
			DaysOnCampus: entry.days,
		}
	}
	return &PlanResult{Ranked: ranked, Stats: stats}, nil
}

func maxGrace(steps []int) int {
	max := 0
	for _, step := range steps {
		if step > max {
			max = step
		}
	}
	return max
}

func buildPlanResponse(result *PlanResult, pref RankPreference, earliest, latest int, elapsed time.Duration) *dto.PlanScheduleResponse {
	combos := make([]dto.RankedCombination, len(result.Ranked))
	for i, schedule := range result.Ranked {
		sections := make([]dto.PlannedSection, len(schedule.Sections))
		for j, section := range schedule.Sections {
			sections[j] = serializeSection(section)
		}
		combos[i] = dto.RankedCombination{
			Rank:         i + 1,
			TotalGapTime: schedule.GapMinutes,
			Score:        schedule.Score,
			ScoreDetails: schedule.Details,
			DaysOnCampus: schedule.DaysOnCampus,
			Sections:     sections,
		}
	}

	return &dto.PlanScheduleResponse{
		PlanID:       uuid.NewString(),
		Combinations: combos,
		Stats: dto.PlanStats{
			TotalPossible:        result.Stats.Generation.TotalPossible,
			CombinationsChecked:  result.Stats.Generation.Checked,
			EarlyPruned:          result.Stats.Generation.Pruned,
			ValidFound:           result.Stats.Generation.Valid,
			TotalFoundBeforeCap:  result.Stats.TotalFound,
			TotalDisplayed:       len(combos),
			Truncated:            result.Stats.Generation.Truncated,
			LatestRelaxedMinutes: result.Stats.LatestRelaxedBy,
			FallbackApplied:      result.Stats.FallbackApplied,
			ProcessingSeconds:    elapsed.Seconds(),
			EarliestApplied:      earliest,
			LatestApplied:        latest,
			SortPreference:       string(pref),
		},
	}
}

func serializeSection(section *models.Section) dto.PlannedSection {
	return dto.PlannedSection{
		CourseCode: section.CourseCode,
		SectionID:  section.ID,
		Lectures:   serializeMeetings(section.Lectures),
		Seminars:   serializeMeetings(section.Seminars),
		Labs:       serializeMeetings(section.Labs),
	}
}

func serializeMeetings(blocks []models.MeetingBlock) []dto.PlannedMeeting {
	if len(blocks) == 0 {
		return nil
	}
	meetings := make([]dto.PlannedMeeting, len(blocks))
	for i, block := range blocks {
		meetings[i] = dto.PlannedMeeting{
			Type:  string(block.Kind),
			Start: block.Start,
			End:   block.End,
			Days:  block.Days,
		}
	}
	return meetings
}

// parseClockMinutes converts "HH:MM" into a minute of day. Empty means
// unconstrained.
func parseClockMinutes(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	parts := strings.SplitN(raw, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("malformed clock value %q", raw)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("malformed clock value %q", raw)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("malformed clock value %q", raw)
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("clock value %q out of range", raw)
	}
	return hours*60 + minutes, nil
}

func parseDaysOff(raw []string) ([]models.Weekday, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	days := make([]models.Weekday, 0, len(raw))
	for _, value := range raw {
		day, ok := models.ParseWeekday(value)
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown weekday %q", value))
		}
		days = append(days, day)
	}
	return days, nil
}

// NormalizeCourseCode uppercases a code and inserts the catalog's star
// separator when missing, e.g. "cis1500" becomes "CIS*1500".
func NormalizeCourseCode(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || strings.Contains(code, "*") {
		return code
	}
	for i, r := range code {
		if r >= '0' && r <= '9' {
			if i == 0 {
				return code
			}
			return code[:i] + "*" + code[i:]
		}
	}
	return code
}

// NormalizeCourseCodes normalizes and deduplicates a code list, preserving
// first-seen order.
func NormalizeCourseCodes(codes []string) []string {
	seen := make(map[string]struct{}, len(codes))
	result := make([]string, 0, len(codes))
	for _, raw := range codes {
		code := NormalizeCourseCode(raw)
		if code == "" {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		result = append(result, code)
	}
	return result
}
