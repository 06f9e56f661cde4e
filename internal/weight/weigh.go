// Package weight assigns each candidate a scalar quality weight in (0, 1], combining
// ranking similarity and recency penalty, per §4.3.
package weight

import (
	"math"

	"github.com/leaguepairings/scheduler/internal/candidate"
	"github.com/leaguepairings/scheduler/internal/catalog"
)

// Config is the closed configuration surface §4.3 defines for the weighter.
type Config struct {
	RecentGamesWeeks  int
	RecentGamePenalty float64
	IdealRankingDiff  int
}

const (
	minSubWeight = 0.1
	maxSubWeight = 1.0
)

// Weigh computes weight = ranking_weight × recency_weight for a candidate, given the
// catalog it was enumerated from.
func Weigh(c candidate.Candidate, cat *catalog.Catalog, cfg Config) float64 {
	return rankingWeight(c, cat, cfg) * recencyWeight(c, cat, cfg)
}

// rankingWeight implements: ranking_weight = max(0.1, 1 − Δ/(2·I)); 0.5 if either
// team's previous_year_ranking is unknown.
func rankingWeight(c candidate.Candidate, cat *catalog.Catalog, cfg Config) float64 {
	teamA, okA := cat.TeamByID(c.TeamAID)
	teamB, okB := cat.TeamByID(c.TeamBID)
	if !okA || !okB || teamA.Ranking == nil || teamB.Ranking == nil {
		return 0.5
	}

	delta := math.Abs(float64(*teamA.Ranking - *teamB.Ranking))
	ideal := float64(cfg.IdealRankingDiff)
	if ideal <= 0 {
		ideal = 1
	}

	w := 1 - delta/(2*ideal)
	return clamp(w)
}

// recencyWeight implements: 1.0 if no recent head-to-head within the recency window;
// otherwise max(0.1, 1 − k·P) where k counts recent meetings of this exact pair.
func recencyWeight(c candidate.Candidate, cat *catalog.Catalog, cfg Config) float64 {
	ts, ok := cat.TimeslotByID(c.TimeslotID)
	if !ok {
		return clamp(maxSubWeight)
	}

	windowStart := ts.Date.AddDate(0, 0, -7*cfg.RecentGamesWeeks)

	k := 0
	for _, g := range cat.PreviousGames {
		if g.Date.Before(windowStart) || g.Date.After(ts.Date) {
			continue
		}
		if isSamePair(g.Team1ID, g.Team2ID, c.TeamAID, c.TeamBID) {
			k++
		}
	}

	if k == 0 {
		return clamp(maxSubWeight)
	}
	return clamp(1 - float64(k)*cfg.RecentGamePenalty)
}

func isSamePair(t1, t2, a, b string) bool {
	return (t1 == a && t2 == b) || (t1 == b && t2 == a)
}

func clamp(w float64) float64 {
	if w < minSubWeight {
		return minSubWeight
	}
	if w > maxSubWeight {
		return maxSubWeight
	}
	return w
}
