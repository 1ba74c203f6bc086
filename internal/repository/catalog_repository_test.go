package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ASHRREAL/guelph-schedule-generator/internal/models"
)

func newCatalogRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	return sqlxDB, mock, func() {
		sqlxDB.Close()
		db.Close()
	}
}

func TestCatalogRepositoryGetCatalog(t *testing.T) {
	db, mock, cleanup := newCatalogRepoMock(t)
	defer cleanup()

	repo := NewCatalogRepository(db, nil)
	sections := `[{"id":"0101","LEC":{"start":510,"end":560,"date":["M","W","F"]}}]`
	rows := sqlmock.NewRows([]string{"id", "semester", "code", "title", "description", "sections", "created_at", "updated_at"}).
		AddRow("id-1", "F25", "CIS*1500", "CIS*1500 Introduction to Programming (3.00 Credits)", "Problem solving.", []byte(sections), time.Now(), time.Now())
	mock.ExpectQuery("SELECT id, semester, code").
		WithArgs("F25").
		WillReturnRows(rows)

	catalog, err := repo.GetCatalog(context.Background(), "F25")
	require.NoError(t, err)
	require.Len(t, catalog, 1)

	course, ok := catalog["CIS*1500"]
	require.True(t, ok)
	assert.Contains(t, course.Title, "Introduction to Programming")
	require.Len(t, course.Sections, 1)
	assert.Equal(t, "0101", course.Sections[0].ID)
	assert.Len(t, course.Sections[0].Lecture, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepositoryGetCatalogEmpty(t *testing.T) {
	db, mock, cleanup := newCatalogRepoMock(t)
	defer cleanup()

	repo := NewCatalogRepository(db, nil)
	mock.ExpectQuery("SELECT id, semester, code").
		WithArgs("X99").
		WillReturnRows(sqlmock.NewRows([]string{"id", "semester", "code", "title", "description", "sections", "created_at", "updated_at"}))

	catalog, err := repo.GetCatalog(context.Background(), "X99")
	require.NoError(t, err)
	assert.Empty(t, catalog)
}

func TestCatalogRepositoryUpsertCatalog(t *testing.T) {
	db, mock, cleanup := newCatalogRepoMock(t)
	defer cleanup()

	repo := NewCatalogRepository(db, nil)
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM courses").
		WithArgs("F25").
		WillReturnResult(sqlmock.NewResult(0, 2))
	// Codes are written in sorted order.
	mock.ExpectExec("INSERT INTO courses").
		WithArgs(sqlmock.AnyArg(), "F25", "CIS*1500", "Intro", "", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO courses").
		WithArgs(sqlmock.AnyArg(), "F25", "MATH*1200", "Calculus I", "", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	count, err := repo.UpsertCatalog(context.Background(), "F25", models.SemesterCatalog{
		"MATH*1200": {Title: "Calculus I"},
		"CIS*1500":  {Title: "Intro"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepositoryUpsertRollsBackOnFailure(t *testing.T) {
	db, mock, cleanup := newCatalogRepoMock(t)
	defer cleanup()

	repo := NewCatalogRepository(db, nil)
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM courses").
		WithArgs("F25").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, err := repo.UpsertCatalog(context.Background(), "F25", models.SemesterCatalog{
		"CIS*1500": {Title: "Intro"},
	})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

type queryMetricsStub struct {
	operations []string
}

func (m *queryMetricsStub) ObserveDBQuery(operation string, _ time.Duration) {
	m.operations = append(m.operations, operation)
}

func TestCatalogRepositoryObservesQueryDurations(t *testing.T) {
	db, mock, cleanup := newCatalogRepoMock(t)
	defer cleanup()

	metrics := &queryMetricsStub{}
	repo := NewCatalogRepository(db, metrics)

	mock.ExpectQuery("SELECT id, semester, code").
		WithArgs("F25").
		WillReturnRows(sqlmock.NewRows([]string{"id", "semester", "code", "title", "description", "sections", "created_at", "updated_at"}))
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM courses").
		WithArgs("F25").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO courses").
		WithArgs(sqlmock.AnyArg(), "F25", "CIS*1500", "Intro", "", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT DISTINCT semester").
		WillReturnRows(sqlmock.NewRows([]string{"semester"}).AddRow("F25"))

	_, err := repo.GetCatalog(context.Background(), "F25")
	require.NoError(t, err)
	_, err = repo.UpsertCatalog(context.Background(), "F25", models.SemesterCatalog{
		"CIS*1500": {Title: "Intro"},
	})
	require.NoError(t, err)
	_, err = repo.ListSemesters(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"catalog_select", "catalog_upsert", "semesters_list"}, metrics.operations)
}

func TestCatalogRepositoryListSemesters(t *testing.T) {
	db, mock, cleanup := newCatalogRepoMock(t)
	defer cleanup()

	repo := NewCatalogRepository(db, nil)
	rows := sqlmock.NewRows([]string{"semester"}).AddRow("W26").AddRow("F25")
	mock.ExpectQuery("SELECT DISTINCT semester").WillReturnRows(rows)

	semesters, err := repo.ListSemesters(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"W26", "F25"}, semesters)
}
