package logic

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/dotapit/stats-api/internal/models"
	"github.com/dotapit/stats-api/internal/store"
)

var draftsGenerated = promauto.NewCounter(prometheus.CounterOpts{
	Name: "dotapit_drafts_generated_total",
	Help: "Total draft batches generated",
})

// rosterSize is the fixed draft input: two teams of five.
const rosterSize = 10

// defaultDraftTrials bounds the random-fair partition search.
const defaultDraftTrials = 100

// snakeOrder alternates pairs so cumulative sums stay close when assigning
// a descending-sorted roster: team1, team2, team2, team1, ...
var snakeOrder = [rosterSize]int{0, 1, 1, 0, 0, 1, 1, 0, 0, 1}

type draftService struct {
	data     DatasetProvider
	registry store.Registry
	trials   int
	newRand  func() *rand.Rand
	logger   *zap.SugaredLogger
}

// NewDraftService builds the balancer. trials <= 0 uses the default 100.
// newRand supplies the random source for the random-fair strategy; nil uses
// a time-seeded source. Tests inject a fixed seed for reproducibility.
func NewDraftService(data DatasetProvider, registry store.Registry, trials int, newRand func() *rand.Rand, logger *zap.Logger) DraftService {
	if trials <= 0 {
		trials = defaultDraftTrials
	}
	if newRand == nil {
		newRand = func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		}
	}
	return &draftService{
		data:     data,
		registry: registry,
		trials:   trials,
		newRand:  newRand,
		logger:   logger.Sugar(),
	}
}

// GenerateDrafts produces five independently balanced partitions of exactly
// ten distinct players, in fixed strategy order. Callers display the hybrid
// plan as recommended by convention, not computed superiority.
func (s *draftService) GenerateDrafts(ctx context.Context, players []string) (*models.DraftBatch, error) {
	if len(players) != rosterSize {
		return nil, ErrRosterSize
	}
	seen := make(map[string]struct{}, rosterSize)
	for _, name := range players {
		key := store.NormalizeName(name)
		if key == "" {
			return nil, ErrRosterSize
		}
		if _, dup := seen[key]; dup {
			return nil, ErrRosterSize
		}
		seen[key] = struct{}{}
	}

	ds, err := s.data.Load(ctx)
	if err != nil {
		s.logger.Warnw("Draft aborted, dataset unavailable", "error", err)
		return nil, ErrDatasetUnavailable
	}

	profiles := make([]models.SkillProfile, 0, rosterSize)
	for _, name := range players {
		profiles = append(profiles, s.buildProfile(ctx, ds, name))
	}

	batch := &models.DraftBatch{
		ID: uuid.New(),
		Plans: []models.DraftPlan{
			balancedMMRPlan(profiles),
			balancedWinRatePlan(profiles),
			roleBasedPlan(profiles),
			hybridPlan(profiles),
			randomFairPlan(profiles, s.trials, s.newRand()),
		},
	}
	draftsGenerated.Inc()
	s.logger.Infow("Draft batch generated", "id", batch.ID, "players", len(players))
	return batch, nil
}

// buildProfile merges registry data (MMR, role) with match-history stats.
// Players absent from either source draft with those terms zeroed.
func (s *draftService) buildProfile(ctx context.Context, ds *store.Dataset, name string) models.SkillProfile {
	p := models.SkillProfile{Name: name}

	if entry, err := s.registry.Get(ctx, name); err == nil {
		p.Name = entry.Name
		p.MMR = entry.MMR
		p.Role = entry.Role
	} else if !errors.Is(err, store.ErrNotRegistered) {
		s.logger.Warnw("Registry lookup failed, drafting with zero MMR", "player", name, "error", err)
	}

	if row := ds.PlayerRow(name); row != nil {
		p.Name = row.PlayerName
		p.WinRate = row.WinRate
		p.KDA = row.KDARatio
		p.GamesPlayed = row.GamesPlayed
		p.AvgGPM = row.AvgGPM
		p.AvgXPM = row.AvgXPM
	}

	p.SkillScore = skillScore(p)
	return p
}

// skillScore is the composite used by the role-based, hybrid and random
// strategies: 40% normalized MMR, 30% win rate, 20% capped KDA, 10% farm.
// The history terms contribute nothing for players with no recorded games.
func skillScore(p models.SkillProfile) float64 {
	score := float64(p.MMR) / 10000 * 40
	if p.GamesPlayed > 0 {
		score += p.WinRate / 100 * 30
		score += math.Min(p.KDA/10, 1) * 20
		score += (p.AvgGPM/800 + p.AvgXPM/1000) / 2 * 10
	}
	return score
}

// fairness scores how close two compared metrics are: 100 when equal
// (including both zero), decreasing with the relative difference, floored
// at 0.
func fairness(v1, v2 float64) float64 {
	if v1 == v2 {
		return 100
	}
	avg := (v1 + v2) / 2
	if avg == 0 {
		return 100
	}
	return math.Max(0, 100-math.Abs(v1-v2)/avg*100)
}

func makePlan(name, description string, team1, team2 []models.SkillProfile, metric func([]models.SkillProfile) float64) models.DraftPlan {
	t1 := metric(team1)
	t2 := metric(team2)
	return models.DraftPlan{
		Name:        name,
		Description: description,
		Team1:       makeTeam(team1, t1),
		Team2:       makeTeam(team2, t2),
		Balance: models.DraftBalance{
			Diff:     math.Abs(t1 - t2),
			Fairness: fairness(t1, t2),
		},
	}
}

func makeTeam(members []models.SkillProfile, total float64) models.DraftTeam {
	team := models.DraftTeam{Captain: members[0].Name, Total: total}
	for _, m := range members[1:] {
		team.Players = append(team.Players, m.Name)
	}
	return team
}

func sumMMR(team []models.SkillProfile) float64 {
	var total float64
	for _, p := range team {
		total += float64(p.MMR)
	}
	return total
}

func avgWinRate(team []models.SkillProfile) float64 {
	var total float64
	for _, p := range team {
		total += p.WinRate
	}
	return total / float64(len(team))
}

func sumSkill(team []models.SkillProfile) float64 {
	var total float64
	for _, p := range team {
		total += p.SkillScore
	}
	return total
}

// snakeSplit assigns a descending-sorted roster using the alternating-pairs
// pattern; the first member of each side becomes its captain.
func snakeSplit(sorted []models.SkillProfile) (team1, team2 []models.SkillProfile) {
	for i, p := range sorted {
		if snakeOrder[i] == 0 {
			team1 = append(team1, p)
		} else {
			team2 = append(team2, p)
		}
	}
	return team1, team2
}

func balancedMMRPlan(profiles []models.SkillProfile) models.DraftPlan {
	sorted := sortedBy(profiles, func(a, b models.SkillProfile) bool { return a.MMR > b.MMR })
	team1, team2 := snakeSplit(sorted)
	return makePlan(
		"Balanced MMR",
		"Snake draft over MMR so both sides' totals stay close",
		team1, team2, sumMMR,
	)
}

func balancedWinRatePlan(profiles []models.SkillProfile) models.DraftPlan {
	sorted := sortedBy(profiles, func(a, b models.SkillProfile) bool { return a.WinRate > b.WinRate })
	team1, team2 := snakeSplit(sorted)
	return makePlan(
		"Balanced Win Rate",
		"Snake draft over historical win rate",
		team1, team2, avgWinRate,
	)
}

// coreRoles and supportRoles bucket registered roles for the role-based
// strategy; anything else is flexible.
var (
	coreRoles    = map[string]bool{"core": true, "mid": true, "carry": true, "offlane": true}
	supportRoles = map[string]bool{"support": true, "hard support": true}
)

// roleBasedPlan seats up to 3 core players and 2 supports per side, then
// fills leftovers strongest-first into the shorter team (team1 on ties).
// The shorter-team fill guarantees two teams of five for every input, even
// when the role buckets are badly uneven.
func roleBasedPlan(profiles []models.SkillProfile) models.DraftPlan {
	var cores, supports, flex []models.SkillProfile
	for _, p := range profiles {
		role := store.NormalizeName(p.Role)
		switch {
		case coreRoles[role]:
			cores = append(cores, p)
		case supportRoles[role]:
			supports = append(supports, p)
		default:
			flex = append(flex, p)
		}
	}
	bySkill := func(a, b models.SkillProfile) bool { return a.SkillScore > b.SkillScore }
	cores = sortedBy(cores, bySkill)
	supports = sortedBy(supports, bySkill)
	flex = sortedBy(flex, bySkill)

	var team1, team2 []models.SkillProfile
	var leftovers []models.SkillProfile

	assignAlternating := func(bucket []models.SkillProfile, perTeamCap int, count1, count2 *int) {
		next := 0 // 0 -> team1 first
		for _, p := range bucket {
			switch {
			case next == 0 && *count1 < perTeamCap && len(team1) < 5:
				team1 = append(team1, p)
				*count1++
				next = 1
			case *count2 < perTeamCap && len(team2) < 5:
				team2 = append(team2, p)
				*count2++
				next = 0
			case *count1 < perTeamCap && len(team1) < 5:
				team1 = append(team1, p)
				*count1++
				next = 1
			default:
				leftovers = append(leftovers, p)
			}
		}
	}

	var cores1, cores2, sup1, sup2 int
	assignAlternating(cores, 3, &cores1, &cores2)
	assignAlternating(supports, 2, &sup1, &sup2)

	leftovers = append(leftovers, flex...)
	leftovers = sortedBy(leftovers, bySkill)
	for _, p := range leftovers {
		if len(team1) <= len(team2) && len(team1) < 5 {
			team1 = append(team1, p)
		} else {
			team2 = append(team2, p)
		}
	}

	// Ten players in, five per side out; anything else is a bug.
	if len(team1) != 5 || len(team2) != 5 {
		sorted := sortedBy(profiles, bySkill)
		team1, team2 = snakeSplit(sorted)
	}

	return makePlan(
		"Role Based",
		"Three cores and two supports per side where roles allow",
		team1, team2, sumSkill,
	)
}

// hybridPlan forms adjacent pairs of the skill-sorted roster and alternates
// which side receives the stronger member of each pair. This keeps the
// aggregate skill close while mixing strong and weak players on both sides.
func hybridPlan(profiles []models.SkillProfile) models.DraftPlan {
	sorted := sortedBy(profiles, func(a, b models.SkillProfile) bool { return a.SkillScore > b.SkillScore })

	var team1, team2 []models.SkillProfile
	for pair := 0; pair < rosterSize/2; pair++ {
		higher := sorted[pair*2]
		lower := sorted[pair*2+1]
		if pair%2 == 0 {
			team1 = append(team1, higher)
			team2 = append(team2, lower)
		} else {
			team1 = append(team1, lower)
			team2 = append(team2, higher)
		}
	}

	return makePlan(
		"Hybrid",
		"Adjacent skill pairs split with alternating strength",
		team1, team2, sumSkill,
	)
}

// randomFairPlan samples random 5/5 partitions and keeps the one with the
// best MMR fairness. Deterministic only under an injected fixed seed.
func randomFairPlan(profiles []models.SkillProfile, trials int, rng *rand.Rand) models.DraftPlan {
	indices := make([]int, rosterSize)
	for i := range indices {
		indices[i] = i
	}

	var bestTeam1, bestTeam2 []models.SkillProfile
	bestFairness := -1.0

	for trial := 0; trial < trials; trial++ {
		rng.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})

		team1 := make([]models.SkillProfile, 0, 5)
		team2 := make([]models.SkillProfile, 0, 5)
		for i, idx := range indices {
			if i < 5 {
				team1 = append(team1, profiles[idx])
			} else {
				team2 = append(team2, profiles[idx])
			}
		}

		f := fairness(sumMMR(team1), sumMMR(team2))
		if f > bestFairness {
			bestFairness = f
			bestTeam1 = team1
			bestTeam2 = team2
		}
	}

	return makePlan(
		"Random Fair",
		"Best MMR balance found across random partitions",
		bestTeam1, bestTeam2, sumMMR,
	)
}

// sortedBy returns a sorted copy; ties break on name so plans are
// deterministic for identical inputs.
func sortedBy(profiles []models.SkillProfile, less func(a, b models.SkillProfile) bool) []models.SkillProfile {
	out := make([]models.SkillProfile, len(profiles))
	copy(out, profiles)
	sort.SliceStable(out, func(i, j int) bool {
		if less(out[i], out[j]) {
			return true
		}
		if less(out[j], out[i]) {
			return false
		}
		return out[i].Name < out[j].Name
	})
	return out
}
