package selector

import (
	"fmt"
	"sort"
	"time"

	"github.com/leaguepairings/scheduler/internal/candidate"
	"github.com/leaguepairings/scheduler/internal/catalog"
)

// defaultTimeLimitSeconds is used when Config.TimeLimitSeconds is unset or non-positive.
const defaultTimeLimitSeconds = 60

// maxExplorationNodes is a secondary guard against pathological inputs: even within
// the wall-clock budget, a search this deep has long since stopped being useful.
const maxExplorationNodes = 2_000_000

// tieBreakEpsilon is small enough to never reorder two candidates whose true weights
// differ, but large enough to survive float64 rounding across a few thousand terms —
// it exists only to make the optimum among equal-weight solutions deterministic
// (§4.4.2, §9 "determinism under ties").
const tieBreakEpsilon = 1e-9

// IlpSelector formulates selection as a 0/1 integer program (§4.4.2): maximize total
// weight subject to each team appearing in at most one selected game and each
// (location, timeslot) slot hosting at most one. No off-the-shelf MILP solver exists
// in this codebase family's dependency surface (see DESIGN.md), so this solves the
// program with a deterministic branch-and-bound search directly over the 0/1
// variables, bounded by a wall-clock time limit.
type IlpSelector struct{}

// Select runs the branch-and-bound search. candidates are pre-sorted into a single
// deterministic total order before the search starts, both for reproducible
// branching and to compute the tie-break perturbation.
func (IlpSelector) Select(candidates []candidate.Candidate, cat *catalog.Catalog, cfg Config) ([]ScheduledGame, *Outcome, error) {
	if len(candidates) == 0 {
		return nil, nil, fmt.Errorf("ILP infeasible: empty candidate list")
	}

	timeLimit := cfg.TimeLimitSeconds
	if timeLimit <= 0 {
		timeLimit = defaultTimeLimitSeconds
	}
	deadline := time.Now().Add(time.Duration(timeLimit) * time.Second)

	ordered := deterministicOrder(candidates, cat)
	adjusted := make([]float64, len(ordered))
	for i, c := range ordered {
		// Stable key: earlier rank (i) gets a strictly larger epsilon bonus, so ties
		// resolve toward the lexicographically-first candidate under sortKey.
		adjusted[i] = c.Weight + tieBreakEpsilon*float64(len(ordered)-i)
	}

	// Suffix sums give an admissible upper bound: the most any partial solution could
	// still gain by including every remaining candidate, ignoring conflicts.
	suffixSum := make([]float64, len(ordered)+1)
	for i := len(ordered) - 1; i >= 0; i-- {
		suffixSum[i] = suffixSum[i+1] + adjusted[i]
	}

	b := &bbSearch{
		candidates: ordered,
		adjusted:   adjusted,
		suffixSum:  suffixSum,
		deadline:   deadline,
		usedTeams:  make(map[string]struct{}),
		usedSlots:  make(map[slot]struct{}),
	}
	b.search(0, 0)

	outcome := &Outcome{TimeLimitHit: b.timedOut || b.nodeCapHit}

	games := make([]ScheduledGame, len(b.bestSelection))
	for i, c := range b.bestSelection {
		games[i] = ScheduledGame{
			DivisionID: c.DivisionID,
			TeamAID:    c.TeamAID,
			TeamBID:    c.TeamBID,
			TimeslotID: c.TimeslotID,
			LocationID: c.LocationID,
			Weight:     c.Weight,
		}
	}

	return games, outcome, nil
}

type bbSearch struct {
	candidates []candidate.Candidate
	adjusted   []float64
	suffixSum  []float64
	deadline   time.Time

	usedTeams map[string]struct{}
	usedSlots map[slot]struct{}
	current   []candidate.Candidate
	currentSum float64

	bestSelection []candidate.Candidate
	bestSum       float64

	nodes      int
	timedOut   bool
	nodeCapHit bool
}

// search explores the include/exclude branches for candidates[index:], pruning any
// branch whose optimistic bound cannot beat the best solution found so far.
func (b *bbSearch) search(index int, currentSum float64) {
	if b.timedOut || b.nodeCapHit {
		return
	}
	b.nodes++
	if b.nodes%1024 == 0 && time.Now().After(b.deadline) {
		b.timedOut = true
	}
	if b.nodes > maxExplorationNodes {
		b.nodeCapHit = true
	}
	if b.timedOut || b.nodeCapHit {
		b.recordIncumbent(currentSum)
		return
	}

	if index == len(b.candidates) {
		b.recordIncumbent(currentSum)
		return
	}

	bound := currentSum + b.suffixSum[index]
	if bound <= b.bestSum {
		return
	}

	c := b.candidates[index]
	s := slotOf(c)
	_, teamAUsed := b.usedTeams[c.TeamAID]
	_, teamBUsed := b.usedTeams[c.TeamBID]
	_, slotUsed := b.usedSlots[s]

	if !teamAUsed && !teamBUsed && !slotUsed {
		b.usedTeams[c.TeamAID] = struct{}{}
		b.usedTeams[c.TeamBID] = struct{}{}
		b.usedSlots[s] = struct{}{}
		b.current = append(b.current, c)

		b.search(index+1, currentSum+b.adjusted[index])

		b.current = b.current[:len(b.current)-1]
		delete(b.usedSlots, s)
		delete(b.usedTeams, c.TeamAID)
		delete(b.usedTeams, c.TeamBID)
	}

	b.search(index+1, currentSum)
}

func (b *bbSearch) recordIncumbent(sum float64) {
	if sum > b.bestSum {
		b.bestSum = sum
		b.bestSelection = append([]candidate.Candidate(nil), b.current...)
	}
}

// deterministicOrder sorts candidates by weight descending (for effective pruning)
// with the full §4.4 tie-break tuple as a stable secondary key, so two runs over the
// same input always branch in the same order.
func deterministicOrder(candidates []candidate.Candidate, cat *catalog.Catalog) []candidate.Candidate {
	ordered := make([]candidate.Candidate, len(candidates))
	copy(ordered, candidates)

	sort.SliceStable(ordered, func(i, j int) bool {
		a, bb := ordered[i], ordered[j]
		if a.Weight != bb.Weight {
			return a.Weight > bb.Weight
		}
		aDate, aMod, aLoc, _ := sortKey(a, cat)
		bDate, bMod, bLoc, _ := sortKey(bb, cat)
		if aDate != bDate {
			return aDate < bDate
		}
		if aMod != bMod {
			return aMod < bMod
		}
		if aLoc != bLoc {
			return aLoc < bLoc
		}
		if a.TeamAID != bb.TeamAID {
			return a.TeamAID < bb.TeamAID
		}
		return a.TeamBID < bb.TeamBID
	})

	return ordered
}
