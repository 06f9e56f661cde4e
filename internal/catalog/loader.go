package catalog

import (
	"context"
	"time"

	appErrors "github.com/leaguepairings/scheduler/pkg/errors"
)

// Loader exposes the single operation described in §4.1: load(window_start,
// window_end) → Catalog.
type Loader struct {
	repo             Repository
	recentGamesWeeks int
}

// NewLoader builds a Loader. recentGamesWeeks comes from SchedulingConfig and governs
// how far back PreviousGames are pulled relative to windowStart (§4.1, §4.3).
func NewLoader(repo Repository, recentGamesWeeks int) *Loader {
	return &Loader{repo: repo, recentGamesWeeks: recentGamesWeeks}
}

// Load reads the §3 entities scoped to [windowStart, windowEnd] plus the recency
// window's worth of prior games, and returns an immutable Catalog snapshot. The
// connection is borrowed from the pool for the duration of these queries and
// returned to it before Load returns — no lazy I/O happens after that point.
func (l *Loader) Load(ctx context.Context, windowStart, windowEnd time.Time) (*Catalog, error) {
	divisions, err := l.repo.Divisions(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrConfiguration.Kind, appErrors.ErrConfiguration.Status, "failed to load divisions")
	}
	teams, err := l.repo.Teams(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrConfiguration.Kind, appErrors.ErrConfiguration.Status, "failed to load teams")
	}
	locations, err := l.repo.Locations(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrConfiguration.Kind, appErrors.ErrConfiguration.Status, "failed to load locations")
	}
	timeslots, err := l.repo.Timeslots(ctx, windowStart, windowEnd)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrConfiguration.Kind, appErrors.ErrConfiguration.Status, "failed to load timeslots")
	}

	timeslotIDs := make([]string, len(timeslots))
	for i, ts := range timeslots {
		timeslotIDs[i] = ts.ID
	}

	locAvailRows, err := l.repo.LocationAvailability(ctx, timeslotIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrConfiguration.Kind, appErrors.ErrConfiguration.Status, "failed to load location availability")
	}
	teamAvailRows, err := l.repo.TeamAvailability(ctx, timeslotIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrConfiguration.Kind, appErrors.ErrConfiguration.Status, "failed to load team availability")
	}

	recencyWindowStart := windowStart.AddDate(0, 0, -7*l.recentGamesWeeks)
	previousGames, err := l.repo.PreviousGames(ctx, recencyWindowStart)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrConfiguration.Kind, appErrors.ErrConfiguration.Status, "failed to load previous games")
	}

	locationAvailability := make(map[string]map[string]struct{}, len(timeslots))
	for _, row := range locAvailRows {
		if locationAvailability[row.TimeslotID] == nil {
			locationAvailability[row.TimeslotID] = make(map[string]struct{})
		}
		locationAvailability[row.TimeslotID][row.LocationID] = struct{}{}
	}

	teamAvailability := make(map[string]map[string]struct{}, len(timeslots))
	for _, row := range teamAvailRows {
		if teamAvailability[row.TimeslotID] == nil {
			teamAvailability[row.TimeslotID] = make(map[string]struct{})
		}
		teamAvailability[row.TimeslotID][row.TeamID] = struct{}{}
	}

	cat := &Catalog{
		WindowStart:          windowStart,
		WindowEnd:            windowEnd,
		Divisions:            divisions,
		Teams:                teams,
		Locations:            locations,
		Timeslots:            timeslots,
		LocationAvailability: locationAvailability,
		TeamAvailability:     teamAvailability,
		PreviousGames:        previousGames,
	}
	cat.buildIndexes()

	if cat.IsEmpty() {
		return cat, appErrors.ErrEmptyCatalog
	}

	return cat, nil
}
