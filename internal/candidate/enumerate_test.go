package candidate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/leaguepairings/scheduler/internal/catalog"
)

func buildTestCatalog() *catalog.Catalog {
	cat := &catalog.Catalog{
		Divisions: []catalog.Division{{ID: "d1", Name: "Varsity"}},
		Teams: []catalog.Team{
			{ID: "t1", Name: "Hawks", DivisionID: "d1"},
			{ID: "t2", Name: "Owls", DivisionID: "d1"},
			{ID: "t3", Name: "Foxes", DivisionID: "d1"},
		},
		Locations: []catalog.Location{{ID: "l1", Name: "Main Gym"}, {ID: "l2", Name: "Annex"}},
		Timeslots: []catalog.Timeslot{
			{ID: "ts1", Date: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), Modifier: "7pm"},
		},
		LocationAvailability: map[string]map[string]struct{}{
			"ts1": {"l1": {}, "l2": {}},
		},
		TeamAvailability: map[string]map[string]struct{}{
			"ts1": {"t1": {}, "t2": {}, "t3": {}},
		},
	}
	return cat
}

func TestEnumerateProducesOneEntryPerPairPerLocation(t *testing.T) {
	cat := buildTestCatalog()
	candidates := Enumerate(cat)

	// 3 teams -> 3 unordered pairs, each available at 2 locations.
	assert.Len(t, candidates, 6)
	for _, c := range candidates {
		assert.Less(t, c.TeamAID, c.TeamBID, "candidate pair must be in canonical order")
	}
}

func TestEnumerateSkipsTimeslotsWithNoAvailableLocation(t *testing.T) {
	cat := buildTestCatalog()
	cat.LocationAvailability["ts1"] = map[string]struct{}{}

	candidates := Enumerate(cat)
	assert.Empty(t, candidates)
}

func TestEnumerateSkipsDivisionsWithFewerThanTwoAvailableTeams(t *testing.T) {
	cat := buildTestCatalog()
	cat.TeamAvailability["ts1"] = map[string]struct{}{"t1": {}}

	candidates := Enumerate(cat)
	assert.Empty(t, candidates)
}
