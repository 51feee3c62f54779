package output

import (
	"fmt"
	"math"
	"sort"

	"github.com/tstromberg/evictmark/internal/benchmark"
)

// Points awarded by placement: 1st=10, 2nd=7, 3rd=5, 4th=4, 5th=3, 6th=2, 7th=1.
var placementPoints = []float64{10, 7, 5, 4, 3, 2, 1}

// Category names in medal table order.
const (
	CategoryCacheSuite = "Cache Suite"
	CategoryHitRate    = "Hit Rate"
	CategoryLatency    = "Latency"
	CategoryMemory     = "Memory"
)

var categoryOrder = []string{CategoryCacheSuite, CategoryHitRate, CategoryLatency, CategoryMemory}

// rankedEntry holds a name and score for tie detection.
type rankedEntry struct {
	name  string
	score float64
}

// Round3 rounds to 3 decimal places for tie detection.
func Round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}

// WinnerEntry represents a ranked entry for winner display.
type WinnerEntry struct {
	Name  string
	Score float64
}

// FormatWinners returns winner names and the first runner-up for comparison.
// If multiple entries tie for first, all are returned as winners.
// Returns (winners, runnerUp) where runnerUp is nil if everyone ties or only one entry.
func FormatWinners(entries []WinnerEntry) (winners []string, runnerUp *WinnerEntry) {
	if len(entries) == 0 {
		return nil, nil
	}

	bestScore := Round3(entries[0].Score)
	for _, e := range entries {
		if Round3(e.Score) != bestScore {
			runnerUp = &WinnerEntry{Name: e.Name, Score: e.Score}
			break
		}
		winners = append(winners, e.Name)
	}

	return winners, runnerUp
}

// scoreboard accumulates points and medals across benchmarks.
type scoreboard struct {
	scores             map[string]float64
	medals             map[string][3]int // [gold, silver, bronze]
	categoryMedals     map[string]map[string][3]int
	categoryBenchmarks map[string][]BenchmarkMedal
}

func newScoreboard() *scoreboard {
	return &scoreboard{
		scores:             map[string]float64{},
		medals:             map[string][3]int{},
		categoryMedals:     map[string]map[string][3]int{},
		categoryBenchmarks: map[string][]BenchmarkMedal{},
	}
}

// assign awards one benchmark. Entries must be sorted best first; entries
// equal to 3 decimal places share a position and consume as many places as
// there are tied entries.
func (s *scoreboard) assign(category, benchName string, entries []rankedEntry) {
	bm := BenchmarkMedal{Name: benchName}
	pos := 0
	i := 0

	for i < len(entries) {
		var tied []string
		baseScore := Round3(entries[i].score)
		for i < len(entries) && Round3(entries[i].score) == baseScore {
			tied = append(tied, entries[i].name)
			i++
		}

		for _, n := range tied {
			if pos < len(placementPoints) {
				s.scores[n] += placementPoints[pos]
			}
			if pos < 3 {
				m := s.medals[n]
				m[pos]++
				s.medals[n] = m

				if s.categoryMedals[category] == nil {
					s.categoryMedals[category] = map[string][3]int{}
				}
				cm := s.categoryMedals[category][n]
				cm[pos]++
				s.categoryMedals[category][n] = cm
			}
		}

		switch pos {
		case 0:
			bm.Gold = tied
		case 1:
			bm.Silver = tied
		case 2:
			bm.Bronze = tied
		}
		pos += len(tied)
	}

	s.categoryBenchmarks[category] = append(s.categoryBenchmarks[category], bm)
}

// rank sorts entries (lower is better unless higherBetter) and assigns them.
func (s *scoreboard) rank(category, benchName string, entries []rankedEntry, higherBetter bool) {
	if len(entries) == 0 {
		return
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if higherBetter {
			return entries[i].score > entries[j].score
		}
		return entries[i].score < entries[j].score
	})
	s.assign(category, benchName, entries)
}

// ComputeRankings calculates overall rankings from benchmark results.
func ComputeRankings(results Results) ([]Ranking, *MedalTable) {
	s := newScoreboard()

	// Cache suite - one benchmark per method and run, by mean time.
	// Runs that recorded nothing are not ranked.
	type suiteKey struct {
		method string
		warmUp int
		tests  int
	}
	var suiteOrder []suiteKey
	suite := map[suiteKey][]rankedEntry{}
	for _, e := range results.Cache {
		if e.AvgTime <= 0 {
			continue
		}
		k := suiteKey{e.Method, e.WarmUp, e.Tests}
		if _, ok := suite[k]; !ok {
			suiteOrder = append(suiteOrder, k)
		}
		suite[k] = append(suite[k], rankedEntry{e.Policy, float64(e.AvgTime.Nanoseconds())})
	}
	for _, k := range suiteOrder {
		s.rank(CategoryCacheSuite, fmt.Sprintf("%s (warmup %d)", k.method, k.warmUp), suite[k], false)
	}

	if results.HitRate != nil {
		for _, wl := range results.HitRate.Workloads() {
			data := results.HitRate.ForWorkload(wl)
			entries := make([]rankedEntry, len(data))
			for i, r := range data {
				entries[i] = rankedEntry{r.Name, AvgHitRate(r, results.HitRate.Sizes)}
			}
			s.rank(CategoryHitRate, wl, entries, true)
		}
	}

	if results.Latency != nil {
		entries := make([]rankedEntry, len(results.Latency.Results))
		for i, r := range results.Latency.Results {
			entries[i] = rankedEntry{r.Name, avgLatency(r)}
		}
		s.rank(CategoryLatency, "Load/Store", entries, false)

		evict := make([]rankedEntry, len(results.Latency.Results))
		for i, r := range results.Latency.Results {
			evict[i] = rankedEntry{r.Name, r.StoreEvictNsOp}
		}
		s.rank(CategoryLatency, "Store with eviction", evict, false)
	}

	if results.Memory != nil {
		entries := make([]rankedEntry, len(results.Memory.Results))
		for i, r := range results.Memory.Results {
			entries[i] = rankedEntry{r.Name, float64(r.Bytes)}
		}
		s.rank(CategoryMemory, "Overhead", entries, false)
	}

	if len(s.scores) == 0 {
		return nil, nil
	}
	return s.overall(), s.table()
}

type cacheRank struct {
	name   string
	score  float64
	gold   int
	silver int
	bronze int
}

// byMedals orders by score, then gold, silver and bronze counts, then name.
func byMedals(ranks []cacheRank) {
	sort.Slice(ranks, func(i, j int) bool {
		a, b := ranks[i], ranks[j]
		switch {
		case a.score != b.score:
			return a.score > b.score
		case a.gold != b.gold:
			return a.gold > b.gold
		case a.silver != b.silver:
			return a.silver > b.silver
		case a.bronze != b.bronze:
			return a.bronze > b.bronze
		}
		return a.name < b.name
	})
}

func toRankings(ranks []cacheRank) []Ranking {
	out := make([]Ranking, len(ranks))
	for i, r := range ranks {
		out[i] = Ranking{
			Rank:   i + 1,
			Name:   r.name,
			Score:  r.score,
			Gold:   r.gold,
			Silver: r.silver,
			Bronze: r.bronze,
		}
	}
	return out
}

func (s *scoreboard) overall() []Ranking {
	ranks := make([]cacheRank, 0, len(s.scores))
	for name, score := range s.scores {
		m := s.medals[name]
		ranks = append(ranks, cacheRank{name, score, m[0], m[1], m[2]})
	}
	byMedals(ranks)
	return toRankings(ranks)
}

func (s *scoreboard) table() *MedalTable {
	var categories []CategoryMedals
	for _, cat := range categoryOrder {
		bm := s.categoryBenchmarks[cat]
		if len(bm) == 0 {
			continue
		}

		cm := s.categoryMedals[cat]
		ranks := make([]cacheRank, 0, len(cm))
		for name, m := range cm {
			ranks = append(ranks, cacheRank{name: name, gold: m[0], silver: m[1], bronze: m[2]})
		}
		byMedals(ranks)

		categories = append(categories, CategoryMedals{
			Name:       cat,
			Benchmarks: bm,
			Rankings:   toRankings(ranks),
		})
	}
	return &MedalTable{Categories: categories}
}

// AvgHitRate computes the average hit rate across all cache sizes.
func AvgHitRate(r benchmark.HitRateResult, sizes []int) float64 {
	if len(sizes) == 0 {
		return 0
	}
	var sum float64
	for _, size := range sizes {
		sum += r.Rates[size]
	}
	return sum / float64(len(sizes))
}

func avgLatency(r benchmark.LatencyResult) float64 {
	return (r.LoadNsOp + r.StoreNsOp) / 2
}
