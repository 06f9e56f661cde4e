package scheduler

import (
	"context"
	"io"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leaguepairings/scheduler/internal/catalog"
	"github.com/leaguepairings/scheduler/internal/selector"
	"github.com/leaguepairings/scheduler/internal/service"
	"github.com/leaguepairings/scheduler/internal/weight"
	appErrors "github.com/leaguepairings/scheduler/pkg/errors"
)

func newSchedulerMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func defaultWeightCfg() weight.Config {
	return weight.Config{RecentGamesWeeks: 3, RecentGamePenalty: 0.1, IdealRankingDiff: 5}
}

func expectFullCatalogLoad(mock sqlmock.Sqlmock, withData bool) {
	divRows := sqlmock.NewRows([]string{"id", "name"})
	teamRows := sqlmock.NewRows([]string{"id", "name", "division_id", "previous_year_ranking"})
	locRows := sqlmock.NewRows([]string{"id", "name"})
	tsRows := sqlmock.NewRows([]string{"id", "date", "modifier"})

	if withData {
		divRows.AddRow("d1", "Varsity")
		teamRows.AddRow("t1", "Hawks", "d1", 1).AddRow("t2", "Owls", "d1", 2)
		locRows.AddRow("l1", "Main Gym")
		tsRows.AddRow("ts1", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), "7pm")
	}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name FROM divisions ORDER BY name ASC")).WillReturnRows(divRows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, division_id, previous_year_ranking FROM teams ORDER BY id ASC")).WillReturnRows(teamRows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name FROM locations ORDER BY name ASC")).WillReturnRows(locRows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, date, modifier FROM timeslots")).WillReturnRows(tsRows)

	if withData {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT location_id, timeslot_id FROM location_availability WHERE timeslot_id IN (?)")).
			WithArgs("ts1").
			WillReturnRows(sqlmock.NewRows([]string{"location_id", "timeslot_id"}).AddRow("l1", "ts1"))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT team_id, timeslot_id FROM team_availability WHERE timeslot_id IN (?)")).
			WithArgs("ts1").
			WillReturnRows(sqlmock.NewRows([]string{"team_id", "timeslot_id"}).AddRow("t1", "ts1").AddRow("t2", "ts1"))
	}

	// The loader reads previous games even when no timeslots fall in the window.
	mock.ExpectQuery(regexp.QuoteMeta("SELECT date, team_1_id, team_2_id FROM previous_games")).
		WillReturnRows(sqlmock.NewRows([]string{"date", "team_1_id", "team_2_id"}))
}

func TestSchedulerGenerateSuccessfulRun(t *testing.T) {
	db, mock, cleanup := newSchedulerMock(t)
	defer cleanup()
	expectFullCatalogLoad(mock, true)

	loader := catalog.NewLoader(catalog.NewRepository(db), 3)
	sched := New(loader, defaultWeightCfg(), selector.Config{TimeLimitSeconds: 5}, "greedy", nil, nil)

	result, err := sched.Generate(context.Background(),
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC), "")
	require.NoError(t, err)
	require.Len(t, result.Schedule, 1)
	assert.Equal(t, 1, result.Schedule[0].GameID)
	assert.Equal(t, "greedy", result.Metadata.Algorithm)
	assert.NotEmpty(t, result.Metadata.GenerationID)
	assert.Empty(t, result.Warnings)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSchedulerGenerateObservesGenerationMetrics(t *testing.T) {
	db, mock, cleanup := newSchedulerMock(t)
	defer cleanup()
	expectFullCatalogLoad(mock, true)

	loader := catalog.NewLoader(catalog.NewRepository(db), 3)
	metrics := service.NewMetricsService()
	sched := New(loader, defaultWeightCfg(), selector.Config{TimeLimitSeconds: 5}, "greedy", nil, metrics)

	_, err := sched.Generate(context.Background(),
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC), "")
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	metrics.Handler().ServeHTTP(recorder, req)
	body, err := io.ReadAll(recorder.Result().Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `schedule_generations_total{algorithm="greedy",outcome="success"} 1`)
	assert.Contains(t, string(body), "schedule_generation_duration_seconds_count{algorithm=\"greedy\"} 1")
}

func TestSchedulerGenerateEmptyCatalogIsSuccessfulWithWarning(t *testing.T) {
	db, mock, cleanup := newSchedulerMock(t)
	defer cleanup()
	expectFullCatalogLoad(mock, false)

	loader := catalog.NewLoader(catalog.NewRepository(db), 3)
	sched := New(loader, defaultWeightCfg(), selector.Config{}, "greedy", nil, nil)

	result, err := sched.Generate(context.Background(),
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC), "")
	require.NoError(t, err)
	assert.Empty(t, result.Schedule)
	assert.Equal(t, []string{"empty_catalog"}, result.Warnings)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSchedulerGenerateRejectsEndBeforeStart(t *testing.T) {
	db, _, cleanup := newSchedulerMock(t)
	defer cleanup()
	loader := catalog.NewLoader(catalog.NewRepository(db), 3)
	sched := New(loader, defaultWeightCfg(), selector.Config{}, "greedy", nil, nil)

	_, err := sched.Generate(context.Background(),
		time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC), time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Kind, appErrors.FromError(err).Kind)
}

func TestSchedulerGenerateRejectsUnknownAlgorithm(t *testing.T) {
	db, _, cleanup := newSchedulerMock(t)
	defer cleanup()
	loader := catalog.NewLoader(catalog.NewRepository(db), 3)
	sched := New(loader, defaultWeightCfg(), selector.Config{}, "greedy", nil, nil)

	_, err := sched.Generate(context.Background(),
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC), "unknown")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Kind, appErrors.FromError(err).Kind)
}
