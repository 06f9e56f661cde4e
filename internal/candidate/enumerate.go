// Package candidate enumerates the feasible game candidates a catalog snapshot
// supports, per §4.2. It assigns no weight and resolves no conflicts — both are the
// job of later stages.
package candidate

import (
	"sort"

	"github.com/leaguepairings/scheduler/internal/catalog"
)

// Candidate is a feasible (division, team pair, timeslot, location) tuple before
// selection. TeamAID < TeamBID always holds (canonical order, §3).
type Candidate struct {
	DivisionID string
	TeamAID    string
	TeamBID    string
	TimeslotID string
	LocationID string
	Weight     float64
}

// Enumerate produces every candidate the catalog supports: complete (nothing
// feasible is omitted) and sound (every emitted candidate individually satisfies the
// §3 invariants). Candidates are deduplicated by (timeslot, location, team A, team B).
func Enumerate(cat *catalog.Catalog) []Candidate {
	teamsByDivision := make(map[string][]catalog.Team)
	for _, t := range cat.Teams {
		teamsByDivision[t.DivisionID] = append(teamsByDivision[t.DivisionID], t)
	}
	for _, teams := range teamsByDivision {
		sort.Slice(teams, func(i, j int) bool { return teams[i].ID < teams[j].ID })
	}

	seen := make(map[[4]string]struct{})
	var candidates []Candidate

	for _, ts := range cat.Timeslots {
		availableLocations := cat.LocationAvailability[ts.ID]
		if len(availableLocations) == 0 {
			continue
		}
		availableTeams := cat.TeamAvailability[ts.ID]
		if len(availableTeams) == 0 {
			continue
		}

		for divisionID, teams := range teamsByDivision {
			available := availableTeamsInDivision(teams, availableTeams)
			if len(available) < 2 {
				continue
			}
			for i := 0; i < len(available); i++ {
				for j := i + 1; j < len(available); j++ {
					a, b := available[i], available[j]
					if a.ID > b.ID {
						a, b = b, a
					}
					for locationID := range availableLocations {
						key := [4]string{ts.ID, locationID, a.ID, b.ID}
						if _, dup := seen[key]; dup {
							continue
						}
						seen[key] = struct{}{}
						candidates = append(candidates, Candidate{
							DivisionID: divisionID,
							TeamAID:    a.ID,
							TeamBID:    b.ID,
							TimeslotID: ts.ID,
							LocationID: locationID,
						})
					}
				}
			}
		}
	}

	return candidates
}

func availableTeamsInDivision(teams []catalog.Team, available map[string]struct{}) []catalog.Team {
	out := make([]catalog.Team, 0, len(teams))
	for _, t := range teams {
		if _, ok := available[t.ID]; ok {
			out = append(out, t)
		}
	}
	return out
}
