package output

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// WriteMarkdown writes benchmark results to a Markdown file.
func WriteMarkdown(filename string, results Results, commandLine string) (err error) {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	bw := bufio.NewWriter(f)
	w := func(format string, args ...any) {
		fmt.Fprintf(bw, format, args...) //nolint:errcheck // checked on Flush
	}

	w("# evictmark Results\n\n")
	w("```\n")
	w("Command: %s\n", commandLine)
	w("Environment: %s/%s, %d CPUs, %s\n", results.MachineInfo.OS, results.MachineInfo.Arch,
		results.MachineInfo.NumCPU, results.MachineInfo.GoVersion)
	w("```\n\n")

	if len(results.Cache) > 0 {
		w("## Cache Suite\n\n")
		CacheSuiteTable(bw, "", results.Cache)
	}

	if len(results.Collection) > 0 {
		w("## Collection Suite\n\n")
		CollectionSuiteTable(bw, "", results.Collection)
	}

	if results.HitRate != nil && len(results.HitRate.Results) > 0 {
		w("## Hit Rate Benchmarks\n\n")
		for _, wl := range results.HitRate.Workloads() {
			w("### %s\n\n", wl)
			HitRateTable(bw, "", results.HitRate.ForWorkload(wl), results.HitRate.Sizes)
		}
	}

	if results.Latency != nil && len(results.Latency.Results) > 0 {
		w("## Latency Benchmarks\n\n")
		LatencyTable(bw, "", results.Latency.Results)
	}

	if results.Memory != nil && len(results.Memory.Results) > 0 {
		w("## Memory Benchmarks\n\n")
		w("%d items, %d byte values.\n\n", results.Memory.Capacity, results.Memory.ValSize)
		MemoryTable(bw, "", results.Memory.Results)
	}

	if len(results.Rankings) > 0 {
		w("## Overall Rankings\n\n")
		RankingTable(bw, "", results.Rankings)
	}

	if results.MedalTable != nil {
		for _, cat := range results.MedalTable.Categories {
			w("### %s\n\n", cat.Name)
			w("| Benchmark | Gold | Silver | Bronze |\n")
			w("|-----------|------|--------|--------|\n")
			for _, bm := range cat.Benchmarks {
				w("| %s | %s | %s | %s |\n", bm.Name, strings.Join(bm.Gold, ", "), strings.Join(bm.Silver, ", "), strings.Join(bm.Bronze, ", "))
			}
			w("\n")
		}
	}

	return bw.Flush()
}
