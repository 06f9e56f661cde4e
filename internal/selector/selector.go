// Package selector implements the two interchangeable strategies of §4.4 that turn a
// weighted candidate list into a conflict-free schedule: GreedySelector and
// IlpSelector. Both satisfy the same Selector contract (§9: "selector polymorphism is
// a capability set"); New maps an algorithm name to a variant.
package selector

import (
	"fmt"

	"github.com/leaguepairings/scheduler/internal/candidate"
	"github.com/leaguepairings/scheduler/internal/catalog"
)

// ScheduledGame is a Candidate that survived selection. Neither selector sets GameID;
// the facade numbers the resolved scheduler.Game values after the final sort (§4.5).
type ScheduledGame struct {
	GameID     int
	DivisionID string
	TeamAID    string
	TeamBID    string
	TimeslotID string
	LocationID string
	Weight     float64
}

// Config bounds the ILP selector's search; the greedy selector ignores it.
type Config struct {
	TimeLimitSeconds int
}

// Selector chooses a conflict-free, maximum-weight-seeking subset of candidates.
type Selector interface {
	Select(candidates []candidate.Candidate, cat *catalog.Catalog, cfg Config) ([]ScheduledGame, *Outcome, error)
}

// Outcome carries selector-specific diagnostics the facade turns into warnings.
// TimeLimitHit is set only by IlpSelector when the wall-clock budget or the
// exploration-node cap stopped the search before optimality was proven (§4.4.2).
type Outcome struct {
	TimeLimitHit bool
}

// New maps an algorithm name to a Selector. Adding a strategy is a closed change
// here, per §9.
func New(algorithm string) (Selector, error) {
	switch algorithm {
	case "greedy":
		return GreedySelector{}, nil
	case "ilp":
		return IlpSelector{}, nil
	default:
		return nil, fmt.Errorf("unknown algorithm %q", algorithm)
	}
}

// slot identifies the scarce (location, timeslot) resource games compete for.
type slot struct {
	locationID string
	timeslotID string
}

func slotOf(c candidate.Candidate) slot {
	return slot{locationID: c.LocationID, timeslotID: c.TimeslotID}
}

// sortKey returns (date, modifier, location name, team_a name) for a candidate. Both
// selectors break weight ties on its first three fields, then on team A and team B
// IDs; the final output ordering is applied by the facade, not here.
func sortKey(c candidate.Candidate, cat *catalog.Catalog) (string, string, string, string) {
	ts, _ := cat.TimeslotByID(c.TimeslotID)
	loc, _ := cat.LocationByID(c.LocationID)
	teamA, _ := cat.TeamByID(c.TeamAID)
	return ts.Date.Format("2006-01-02"), ts.Modifier, loc.Name, teamA.Name
}
