package output

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/tstromberg/evictmark/internal/benchmark"
)

// Table writers emit Markdown-compatible tables. prefix is prepended to
// every line so the console can indent them.

// CacheSuiteTable writes one table per cache suite method.
func CacheSuiteTable(out io.Writer, prefix string, entries []benchmark.CacheEntry) {
	w := linePrinter(out, prefix)

	var methods []string
	byMethod := map[string][]benchmark.CacheEntry{}
	for _, e := range entries {
		if _, ok := byMethod[e.Method]; !ok {
			methods = append(methods, e.Method)
		}
		byMethod[e.Method] = append(byMethod[e.Method], e)
	}

	for _, m := range methods {
		w("[%s]\n\n", m)
		w("| Cache         | Warmup | Tests |  Hit %% | Evicted |       Avg |\n")
		w("|---------------|--------|-------|--------|---------|-----------|\n")
		rows := byMethod[m]
		sort.SliceStable(rows, func(i, j int) bool {
			if rows[i].WarmUp != rows[j].WarmUp {
				return rows[i].WarmUp < rows[j].WarmUp
			}
			return rows[i].AvgTime < rows[j].AvgTime
		})
		for _, e := range rows {
			w("| %-13s | %6d | %5d | %5.1f%% | %7d | %9s |\n",
				e.Policy, e.WarmUp, e.Tests, e.HitPercentage, e.Evicted, fmtDuration(e.AvgTime))
		}
		w("\n")
	}
}

// CollectionSuiteTable writes one table per collection operation.
func CollectionSuiteTable(out io.Writer, prefix string, entries []benchmark.CollectionEntry) {
	w := linePrinter(out, prefix)

	var methods []string
	byMethod := map[string][]benchmark.CollectionEntry{}
	for _, e := range entries {
		if _, ok := byMethod[e.Method]; !ok {
			methods = append(methods, e.Method)
		}
		byMethod[e.Method] = append(byMethod[e.Method], e)
	}

	for _, m := range methods {
		w("[%s]\n\n", m)
		w("| Collection  |   Size | Warmup | Tests |       Avg |\n")
		w("|-------------|--------|--------|-------|-----------|\n")
		for _, e := range byMethod[m] {
			w("| %-11s | %6d | %6d | %5d | %9s |\n", e.Collection, e.Size, e.WarmUp, e.Tests, fmtDuration(e.AvgTime))
		}
		w("\n")
	}
}

// HitRateTable writes a hit rate table for one workload, best first.
func HitRateTable(out io.Writer, prefix string, data []benchmark.HitRateResult, sizes []int) {
	if len(data) == 0 {
		return
	}
	w := linePrinter(out, prefix)

	w("| Cache         |")
	for _, size := range sizes {
		w(" %7d |", size)
	}
	w("     Avg |\n")

	w("|---------------|")
	for range sizes {
		w("---------|")
	}
	w("---------|\n")

	sorted := make([]benchmark.HitRateResult, len(data))
	copy(sorted, data)
	sort.SliceStable(sorted, func(i, j int) bool {
		return AvgHitRate(sorted[i], sizes) > AvgHitRate(sorted[j], sizes)
	})

	entries := make([]WinnerEntry, len(sorted))
	for i, r := range sorted {
		w("| %-13s |", r.Name)
		for _, size := range sizes {
			w(" %6.2f%% |", r.Rates[size])
		}
		avg := AvgHitRate(r, sizes)
		w(" %6.2f%% |\n", avg)
		entries[i] = WinnerEntry{Name: r.Name, Score: avg}
	}
	winnerLine(w, entries, func(best, next float64) float64 { return (best - next) / next * 100 })
}

// LatencyTable writes testing.Benchmark latencies, fastest first.
func LatencyTable(out io.Writer, prefix string, data []benchmark.LatencyResult) {
	if len(data) == 0 {
		return
	}
	w := linePrinter(out, prefix)

	w("| Cache         | Load ns | Load alloc | Store ns | Store alloc | Evict ns | Evict alloc | Avg ns |\n")
	w("|---------------|---------|------------|----------|-------------|----------|-------------|--------|\n")

	sorted := make([]benchmark.LatencyResult, len(data))
	copy(sorted, data)
	sort.SliceStable(sorted, func(i, j int) bool {
		return avgLatency(sorted[i]) < avgLatency(sorted[j])
	})

	entries := make([]WinnerEntry, len(sorted))
	for i, r := range sorted {
		w("| %-13s | %7.0f | %10d | %8.0f | %11d | %8.0f | %11d | %6.0f |\n",
			r.Name, r.LoadNsOp, r.LoadAllocs, r.StoreNsOp, r.StoreAllocs, r.StoreEvictNsOp, r.StoreEvictAllocs, avgLatency(r))
		entries[i] = WinnerEntry{Name: r.Name, Score: avgLatency(r)}
	}
	winnerLine(w, entries, func(best, next float64) float64 { return (next - best) / best * 100 })
}

// MemoryTable writes memory results in the order given.
func MemoryTable(out io.Writer, prefix string, data []benchmark.MemoryResult) {
	if len(data) == 0 {
		return
	}
	w := linePrinter(out, prefix)

	w("| Cache         | Items Stored | Memory (MB) | Overhead (bytes/item) |\n")
	w("|---------------|--------------|-------------|-----------------------|\n")

	entries := make([]WinnerEntry, len(data))
	for i, r := range data {
		mb := float64(r.Bytes) / 1024 / 1024
		w("| %-13s | %12d | %11.2f | %21d |\n", r.Name, r.Items, mb, r.BytesPerItem)
		entries[i] = WinnerEntry{Name: r.Name, Score: mb}
	}
	winnerLine(w, entries, func(best, next float64) float64 { return (next - best) / best * 100 })
}

// RankingTable writes the overall ranking.
func RankingTable(out io.Writer, prefix string, rankings []Ranking) {
	if len(rankings) == 0 {
		return
	}
	w := linePrinter(out, prefix)
	w("| Rank | Cache         | Score | Gold | Silver | Bronze |\n")
	w("|------|---------------|-------|------|--------|--------|\n")
	for _, r := range rankings {
		w("| %4d | %-13s | %5.0f | %4d | %6d | %6d |\n", r.Rank, r.Name, r.Score, r.Gold, r.Silver, r.Bronze)
	}
	w("\n")
}

// winnerLine reports the winners against the first runner-up. gap returns
// the margin in percent.
func winnerLine(w func(string, ...any), entries []WinnerEntry, gap func(best, next float64) float64) {
	winners, runnerUp := FormatWinners(entries)
	switch {
	case len(winners) == 0:
	case runnerUp == nil || entries[0].Score == 0:
		w("\n  winner: %s\n", strings.Join(winners, ", "))
	default:
		w("\n  winner: %s (+%.1f%% vs %s)\n", strings.Join(winners, ", "), gap(entries[0].Score, runnerUp.Score), runnerUp.Name)
	}
	w("\n")
}

// linePrinter prefixes each new line with prefix.
func linePrinter(out io.Writer, prefix string) func(string, ...any) {
	atStart := true
	return func(format string, args ...any) {
		s := fmt.Sprintf(format, args...)
		for s != "" {
			if atStart && s[0] != '\n' {
				fmt.Fprint(out, prefix) //nolint:errcheck // best-effort report output
			}
			i := 0
			for i < len(s) && s[i] != '\n' {
				i++
			}
			if i < len(s) {
				i++
				atStart = true
			} else {
				atStart = false
			}
			fmt.Fprint(out, s[:i]) //nolint:errcheck // best-effort report output
			s = s[i:]
		}
	}
}

func fmtDuration(d time.Duration) string {
	if d == 0 {
		return "-"
	}
	return d.String()
}
