package catalog

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

// Repository issues the parameterized, read-only queries Load needs. Kept as an
// interface (rather than a concrete *sqlx.DB field on Loader) so tests can supply a
// sqlmock-backed instance without a live Postgres.
type Repository interface {
	Divisions(ctx context.Context) ([]Division, error)
	Teams(ctx context.Context) ([]Team, error)
	Locations(ctx context.Context) ([]Location, error)
	Timeslots(ctx context.Context, start, end time.Time) ([]Timeslot, error)
	LocationAvailability(ctx context.Context, timeslotIDs []string) ([]locationAvailabilityRow, error)
	TeamAvailability(ctx context.Context, timeslotIDs []string) ([]teamAvailabilityRow, error)
	PreviousGames(ctx context.Context, since time.Time) ([]PreviousGame, error)
}

type locationAvailabilityRow struct {
	LocationID string `db:"location_id"`
	TimeslotID string `db:"timeslot_id"`
}

type teamAvailabilityRow struct {
	TeamID     string `db:"team_id"`
	TimeslotID string `db:"timeslot_id"`
}

// sqlxRepository is the production Repository, backed by Postgres.
type sqlxRepository struct {
	db *sqlx.DB
}

// NewRepository builds a Repository backed by db.
func NewRepository(db *sqlx.DB) Repository {
	return &sqlxRepository{db: db}
}

func (r *sqlxRepository) Divisions(ctx context.Context) ([]Division, error) {
	var rows []Division
	err := r.db.SelectContext(ctx, &rows, `SELECT id, name FROM divisions ORDER BY name ASC`)
	return rows, err
}

func (r *sqlxRepository) Teams(ctx context.Context) ([]Team, error) {
	var rows []Team
	err := r.db.SelectContext(ctx, &rows,
		`SELECT id, name, division_id, previous_year_ranking FROM teams ORDER BY id ASC`)
	return rows, err
}

func (r *sqlxRepository) Locations(ctx context.Context) ([]Location, error) {
	var rows []Location
	err := r.db.SelectContext(ctx, &rows, `SELECT id, name FROM locations ORDER BY name ASC`)
	return rows, err
}

func (r *sqlxRepository) Timeslots(ctx context.Context, start, end time.Time) ([]Timeslot, error) {
	var rows []Timeslot
	err := r.db.SelectContext(ctx, &rows,
		`SELECT id, date, modifier FROM timeslots WHERE date >= $1 AND date <= $2 ORDER BY date ASC, modifier ASC`,
		start, end)
	return rows, err
}

func (r *sqlxRepository) LocationAvailability(ctx context.Context, timeslotIDs []string) ([]locationAvailabilityRow, error) {
	if len(timeslotIDs) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(
		`SELECT location_id, timeslot_id FROM location_availability WHERE timeslot_id IN (?)`,
		timeslotIDs)
	if err != nil {
		return nil, err
	}
	query = r.db.Rebind(query)
	var rows []locationAvailabilityRow
	err = r.db.SelectContext(ctx, &rows, query, args...)
	return rows, err
}

func (r *sqlxRepository) TeamAvailability(ctx context.Context, timeslotIDs []string) ([]teamAvailabilityRow, error) {
	if len(timeslotIDs) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(
		`SELECT team_id, timeslot_id FROM team_availability WHERE timeslot_id IN (?)`,
		timeslotIDs)
	if err != nil {
		return nil, err
	}
	query = r.db.Rebind(query)
	var rows []teamAvailabilityRow
	err = r.db.SelectContext(ctx, &rows, query, args...)
	return rows, err
}

func (r *sqlxRepository) PreviousGames(ctx context.Context, since time.Time) ([]PreviousGame, error) {
	var rows []PreviousGame
	err := r.db.SelectContext(ctx, &rows,
		`SELECT date, team_1_id, team_2_id FROM previous_games WHERE date >= $1 ORDER BY date ASC`,
		since)
	return rows, err
}
