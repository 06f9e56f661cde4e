package selector

import (
	"sort"

	"github.com/leaguepairings/scheduler/internal/candidate"
	"github.com/leaguepairings/scheduler/internal/catalog"
)

// GreedySelector implements §4.4.1: sort by weight descending with a deterministic
// tie-break, then walk the list accepting any candidate that doesn't conflict with
// what's already been accepted.
type GreedySelector struct{}

// Select runs the greedy accept pass. It never fails and never hits a time limit —
// Outcome is always the zero value.
func (GreedySelector) Select(candidates []candidate.Candidate, cat *catalog.Catalog, _ Config) ([]ScheduledGame, *Outcome, error) {
	ordered := make([]candidate.Candidate, len(candidates))
	copy(ordered, candidates)

	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Weight != b.Weight {
			return a.Weight > b.Weight
		}
		aDate, aMod, aLoc, _ := sortKey(a, cat)
		bDate, bMod, bLoc, _ := sortKey(b, cat)
		if aDate != bDate {
			return aDate < bDate
		}
		if aMod != bMod {
			return aMod < bMod
		}
		if aLoc != bLoc {
			return aLoc < bLoc
		}
		if a.TeamAID != b.TeamAID {
			return a.TeamAID < b.TeamAID
		}
		return a.TeamBID < b.TeamBID
	})

	usedTeams := make(map[string]struct{})
	usedSlots := make(map[slot]struct{})
	var accepted []candidate.Candidate

	for _, c := range ordered {
		if _, ok := usedTeams[c.TeamAID]; ok {
			continue
		}
		if _, ok := usedTeams[c.TeamBID]; ok {
			continue
		}
		s := slotOf(c)
		if _, ok := usedSlots[s]; ok {
			continue
		}
		usedTeams[c.TeamAID] = struct{}{}
		usedTeams[c.TeamBID] = struct{}{}
		usedSlots[s] = struct{}{}
		accepted = append(accepted, c)
	}

	games := make([]ScheduledGame, len(accepted))
	for i, c := range accepted {
		games[i] = ScheduledGame{
			DivisionID: c.DivisionID,
			TeamAID:    c.TeamAID,
			TeamBID:    c.TeamBID,
			TimeslotID: c.TimeslotID,
			LocationID: c.LocationID,
			Weight:     c.Weight,
		}
	}

	return games, &Outcome{}, nil
}
