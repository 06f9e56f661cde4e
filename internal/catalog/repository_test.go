package catalog

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepositoryMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestRepositoryDivisions(t *testing.T) {
	db, mock, cleanup := newRepositoryMock(t)
	defer cleanup()
	repo := NewRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name"}).
		AddRow("d1", "Varsity").
		AddRow("d2", "JV")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name FROM divisions ORDER BY name ASC")).WillReturnRows(rows)

	divisions, err := repo.Divisions(context.Background())
	require.NoError(t, err)
	assert.Len(t, divisions, 2)
	assert.Equal(t, "d1", divisions[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryTeams(t *testing.T) {
	db, mock, cleanup := newRepositoryMock(t)
	defer cleanup()
	repo := NewRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "division_id", "previous_year_ranking"}).
		AddRow("t1", "Hawks", "d1", 3).
		AddRow("t2", "Owls", "d1", nil)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, division_id, previous_year_ranking FROM teams ORDER BY id ASC")).WillReturnRows(rows)

	teams, err := repo.Teams(context.Background())
	require.NoError(t, err)
	require.Len(t, teams, 2)
	require.NotNil(t, teams[0].Ranking)
	assert.Equal(t, 3, *teams[0].Ranking)
	assert.Nil(t, teams[1].Ranking)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryLocationAvailabilityEmptyInput(t *testing.T) {
	db, mock, cleanup := newRepositoryMock(t)
	defer cleanup()
	repo := NewRepository(db)

	rows, err := repo.LocationAvailability(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryLocationAvailability(t *testing.T) {
	db, mock, cleanup := newRepositoryMock(t)
	defer cleanup()
	repo := NewRepository(db)

	rows := sqlmock.NewRows([]string{"location_id", "timeslot_id"}).
		AddRow("loc1", "ts1").
		AddRow("loc2", "ts1")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT location_id, timeslot_id FROM location_availability WHERE timeslot_id IN (?)")).
		WithArgs("ts1").
		WillReturnRows(rows)

	result, err := repo.LocationAvailability(context.Background(), []string{"ts1"})
	require.NoError(t, err)
	assert.Len(t, result, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryPreviousGames(t *testing.T) {
	db, mock, cleanup := newRepositoryMock(t)
	defer cleanup()
	repo := NewRepository(db)

	since := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"date", "team_1_id", "team_2_id"}).
		AddRow(since, "t1", "t2")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT date, team_1_id, team_2_id FROM previous_games WHERE date >= $1 ORDER BY date ASC")).
		WithArgs(since).
		WillReturnRows(rows)

	games, err := repo.PreviousGames(context.Background(), since)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "t1", games[0].Team1ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
