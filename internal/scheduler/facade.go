// Package scheduler is the facade of §4.5: it wires the loader, enumerator, weighter
// and a selector into one operation, generate(window_start, window_end, algorithm),
// and owns the read-through preview cache and the final output ordering.
package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/leaguepairings/scheduler/internal/candidate"
	"github.com/leaguepairings/scheduler/internal/catalog"
	"github.com/leaguepairings/scheduler/internal/selector"
	"github.com/leaguepairings/scheduler/internal/service"
	"github.com/leaguepairings/scheduler/internal/weight"
	"github.com/leaguepairings/scheduler/pkg/cache"
	appErrors "github.com/leaguepairings/scheduler/pkg/errors"
)

// Game is one scheduled pairing in output order, already resolved to display names.
type Game struct {
	GameID       int
	Date         string
	TimeModifier string
	Location     string
	Division     string
	TeamA        string
	TeamB        string
	Weight       float64
}

// Metadata summarizes a generation run. GenerationID is a fresh UUID per call, never
// cached or replayed on a cache hit, so it can be surfaced outside the closed §6 JSON
// body (as a response header) and used to correlate a generation against the
// structured log line and metrics sample it produced.
type Metadata struct {
	TotalGames   int
	Algorithm    string
	GeneratedAt  time.Time
	GenerationID string
}

// Result is the facade's complete response to one generate call.
type Result struct {
	Schedule []Game
	Metadata Metadata
	Warnings []string
}

// cachedResult is the subset of Result that is safe to cache: GeneratedAt is always
// stamped fresh so cached responses never leak a stale generation time (§11).
type cachedResult struct {
	Schedule []Game   `json:"schedule"`
	Algorithm string  `json:"algorithm"`
	Warnings  []string `json:"warnings"`
}

// Scheduler is the stateful facade: one instance per process, built once at startup
// from the loaded configuration.
type Scheduler struct {
	loader           *catalog.Loader
	weightCfg        weight.Config
	selectorCfg      selector.Config
	defaultAlgorithm string
	cache            *cache.GenerationCache
	metrics          *service.MetricsService
}

// New builds a Scheduler. cache and metrics may both be nil (preview caching and
// metrics observation are each optional).
func New(loader *catalog.Loader, weightCfg weight.Config, selectorCfg selector.Config, defaultAlgorithm string, generationCache *cache.GenerationCache, metrics *service.MetricsService) *Scheduler {
	return &Scheduler{
		loader:           loader,
		weightCfg:        weightCfg,
		selectorCfg:      selectorCfg,
		defaultAlgorithm: defaultAlgorithm,
		cache:            generationCache,
		metrics:          metrics,
	}
}

// Generate runs one full pipeline pass: load → enumerate → weigh → select → order.
// windowStart/windowEnd are inclusive civil dates; algorithm, if empty, falls back to
// the configured default. Empty catalogs and empty candidate sets are successful
// generations carrying a warning (§7), never errors.
func (s *Scheduler) Generate(ctx context.Context, windowStart, windowEnd time.Time, algorithm string) (*Result, error) {
	start := time.Now()
	if algorithm == "" {
		algorithm = s.defaultAlgorithm
	}
	if windowEnd.Before(windowStart) {
		s.observe(algorithm, "error", start, false)
		return nil, appErrors.Wrap(fmt.Errorf("end_date before start_date"), appErrors.ErrValidation.Kind, appErrors.ErrValidation.Status, "end_date must not be before start_date")
	}
	sel, err := selector.New(algorithm)
	if err != nil {
		s.observe(algorithm, "error", start, false)
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Kind, appErrors.ErrValidation.Status, fmt.Sprintf("unknown algorithm %q", algorithm))
	}

	cacheKey := fmt.Sprintf("schedule:%s:%s:%s", windowStart.Format("2006-01-02"), windowEnd.Format("2006-01-02"), algorithm)
	if cached, ok := s.readCache(ctx, cacheKey); ok {
		s.observe(algorithm, "success", start, false)
		return cached, nil
	}

	cat, err := s.loader.Load(ctx, windowStart, windowEnd)
	if err != nil {
		appErr := appErrors.FromError(err)
		if appErr.Kind == appErrors.ErrEmptyCatalog.Kind {
			s.observe(algorithm, "empty_catalog", start, false)
			return s.finish(ctx, cacheKey, nil, algorithm, []string{"empty_catalog"}), nil
		}
		s.observe(algorithm, "error", start, false)
		return nil, err
	}

	candidates := candidate.Enumerate(cat)
	if len(candidates) == 0 {
		s.observe(algorithm, "no_feasible_candidates", start, false)
		return s.finish(ctx, cacheKey, nil, algorithm, []string{"no_feasible_candidates"}), nil
	}

	for i := range candidates {
		candidates[i].Weight = weight.Weigh(candidates[i], cat, s.weightCfg)
	}

	selected, outcome, err := sel.Select(candidates, cat, s.selectorCfg)
	if err != nil {
		s.observe(algorithm, "error", start, false)
		return nil, appErrors.Wrap(err, appErrors.ErrScheduler.Kind, appErrors.ErrScheduler.Status, "selection failed")
	}

	var warnings []string
	timeLimitHit := outcome != nil && outcome.TimeLimitHit
	if timeLimitHit {
		warnings = append(warnings, "ilp_time_limit_hit")
	}

	games := resolveGames(selected, cat)
	s.observe(algorithm, "success", start, timeLimitHit)
	return s.finish(ctx, cacheKey, games, algorithm, warnings), nil
}

// observe reports one generation's outcome to the metrics service, if configured.
func (s *Scheduler) observe(algorithm, outcome string, start time.Time, timeLimitHit bool) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveGeneration(algorithm, outcome, time.Since(start), timeLimitHit)
}

// finish orders and numbers the final game list, stamps metadata, caches the
// cacheable portion, and returns the Result.
func (s *Scheduler) finish(ctx context.Context, cacheKey string, games []Game, algorithm string, warnings []string) *Result {
	ordered := orderGames(games)

	result := &Result{
		Schedule: ordered,
		Metadata: Metadata{
			TotalGames:   len(ordered),
			Algorithm:    algorithm,
			GeneratedAt:  time.Now().UTC(),
			GenerationID: uuid.NewString(),
		},
		Warnings: warnings,
	}

	s.writeCache(ctx, cacheKey, result)
	return result
}

func (s *Scheduler) readCache(ctx context.Context, key string) (*Result, bool) {
	if s.cache == nil {
		return nil, false
	}
	payload, ok := s.cache.Get(ctx, key)
	if !ok {
		return nil, false
	}
	var cached cachedResult
	if err := json.Unmarshal([]byte(payload), &cached); err != nil {
		return nil, false
	}
	return &Result{
		Schedule: cached.Schedule,
		Metadata: Metadata{
			TotalGames:   len(cached.Schedule),
			Algorithm:    cached.Algorithm,
			GeneratedAt:  time.Now().UTC(),
			GenerationID: uuid.NewString(),
		},
		Warnings: cached.Warnings,
	}, true
}

func (s *Scheduler) writeCache(ctx context.Context, key string, result *Result) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(cachedResult{
		Schedule:  result.Schedule,
		Algorithm: result.Metadata.Algorithm,
		Warnings:  result.Warnings,
	})
	if err != nil {
		return
	}
	s.cache.Set(ctx, key, string(payload))
}

// resolveGames turns selector output back into display-ready Games. GameID is left
// unset here; orderGames assigns it after the final sort.
func resolveGames(selected []selector.ScheduledGame, cat *catalog.Catalog) []Game {
	games := make([]Game, 0, len(selected))
	for _, sg := range selected {
		ts, _ := cat.TimeslotByID(sg.TimeslotID)
		loc, _ := cat.LocationByID(sg.LocationID)
		div, _ := cat.DivisionByID(sg.DivisionID)
		teamA, _ := cat.TeamByID(sg.TeamAID)
		teamB, _ := cat.TeamByID(sg.TeamBID)

		games = append(games, Game{
			Date:         ts.Date.Format("2006-01-02"),
			TimeModifier: ts.Modifier,
			Location:     loc.Name,
			Division:     div.Name,
			TeamA:        teamA.Name,
			TeamB:        teamB.Name,
			Weight:       sg.Weight,
		})
	}
	return games
}

// orderGames sorts the final schedule by the §4.4 output ordering — (date asc,
// modifier asc, location name asc, team_a name asc) — and assigns sequential
// game_id values starting at 1, independent of the order either selector produced.
func orderGames(games []Game) []Game {
	ordered := make([]Game, len(games))
	copy(ordered, games)

	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.TimeModifier != b.TimeModifier {
			return a.TimeModifier < b.TimeModifier
		}
		if a.Location != b.Location {
			return a.Location < b.Location
		}
		return a.TeamA < b.TeamA
	})

	for i := range ordered {
		ordered[i].GameID = i + 1
	}
	return ordered
}
