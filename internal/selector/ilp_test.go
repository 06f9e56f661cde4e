package selector

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leaguepairings/scheduler/internal/candidate"
	"github.com/leaguepairings/scheduler/internal/catalog"
)

func TestIlpSelectorPicksHeaviestCandidateWhenAllShareOneSlot(t *testing.T) {
	cat := &catalog.Catalog{
		Teams: []catalog.Team{
			{ID: "t1", Name: "Hawks"},
			{ID: "t2", Name: "Owls"},
			{ID: "t3", Name: "Foxes"},
		},
		Locations: []catalog.Location{{ID: "l1", Name: "Main Gym"}},
		Timeslots: []catalog.Timeslot{
			{ID: "ts1", Date: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), Modifier: "7pm"},
		},
	}

	// All three candidates share one (location, timeslot) slot, so at most one can
	// ever be taken regardless of team conflicts; the optimal pick is the heaviest.
	candidates := []candidate.Candidate{
		{TeamAID: "t1", TeamBID: "t2", TimeslotID: "ts1", LocationID: "l1", Weight: 0.6},
		{TeamAID: "t1", TeamBID: "t3", TimeslotID: "ts1", LocationID: "l1", Weight: 0.5},
		{TeamAID: "t2", TeamBID: "t3", TimeslotID: "ts1", LocationID: "l1", Weight: 0.5},
	}

	games, outcome, err := IlpSelector{}.Select(candidates, cat, Config{TimeLimitSeconds: 5})
	require.NoError(t, err)
	require.NotNil(t, outcome)
	assert.False(t, outcome.TimeLimitHit)
	// All three candidates share the single slot, so still only one can be taken;
	// the solver must pick the heaviest one available.
	require.Len(t, games, 1)
	assert.InDelta(t, 0.6, games[0].Weight, 0.0001)
}

func TestIlpSelectorMaximizesTotalWeightAcrossIndependentSlots(t *testing.T) {
	cat := &catalog.Catalog{
		Teams: []catalog.Team{
			{ID: "t1", Name: "Hawks"},
			{ID: "t2", Name: "Owls"},
			{ID: "t3", Name: "Foxes"},
			{ID: "t4", Name: "Bears"},
		},
		Locations: []catalog.Location{{ID: "l1", Name: "Main Gym"}, {ID: "l2", Name: "Annex"}},
		Timeslots: []catalog.Timeslot{
			{ID: "ts1", Date: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), Modifier: "7pm"},
		},
	}
	candidates := []candidate.Candidate{
		{TeamAID: "t1", TeamBID: "t2", TimeslotID: "ts1", LocationID: "l1", Weight: 0.4},
		{TeamAID: "t3", TeamBID: "t4", TimeslotID: "ts1", LocationID: "l2", Weight: 0.7},
	}

	games, outcome, err := IlpSelector{}.Select(candidates, cat, Config{TimeLimitSeconds: 5})
	require.NoError(t, err)
	assert.False(t, outcome.TimeLimitHit)
	assert.Len(t, games, 2)
}

func TestIlpSelectorRejectsEmptyCandidateList(t *testing.T) {
	cat := &catalog.Catalog{}
	_, _, err := IlpSelector{}.Select(nil, cat, Config{})
	assert.Error(t, err)
}
