// evictmark benchmarks cache eviction policies and collection operations
// with an average-latency engine.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/tstromberg/evictmark/internal/benchmark"
	"github.com/tstromberg/evictmark/internal/cache"
	"github.com/tstromberg/evictmark/internal/dataset"
	"github.com/tstromberg/evictmark/internal/output"
	"github.com/tstromberg/evictmark/internal/trace"
	"github.com/tstromberg/evictmark/internal/workload"
)

// validSuites lists all available benchmark suites.
var validSuites = []string{"cache", "collection", "hitrate", "latency", "memory"}

// options holds the parsed command line.
type options struct {
	suites     map[string]bool
	tests      map[string]bool
	warmups    []int
	iterations int
	dbSize     int
	sizes      []int
	dataPath   string
	seed       uint64
	outDir     string
	traces     []string
	traceOpts  trace.Options
}

// validTests lists every test name accepted by -tests.
func validTests() []string {
	var names []string
	names = append(names, benchmark.CacheScenarioNames()...)
	names = append(names, benchmark.CollectionMethodNames()...)
	names = append(names, workload.Names()...)
	return append(names, "latency", "memory")
}

// parseIntList parses a comma-separated string of integers.
func parseIntList(input string) ([]int, error) {
	var result []int
	for s := range strings.SplitSeq(input, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", s, err)
		}
		result = append(result, v)
	}
	return result, nil
}

func splitNames(input string) []string {
	var out []string
	for s := range strings.SplitSeq(input, ",") {
		s = strings.TrimSpace(strings.ToLower(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func main() {
	showHelp := flag.Bool("help", false, "Show help message")
	suites := flag.String("suites", "all", "Comma-separated suites: "+strings.Join(validSuites, ","))
	caches := flag.String("caches", "", "Comma-separated list of caches to benchmark (default: all)")
	tests := flag.String("tests", "", "Comma-separated list of tests to run across suites (default: all)")
	warmup := flag.String("warmup", "0,10000", "Comma-separated warm-up iteration counts, one run each")
	iterations := flag.Int("iterations", 1000, "Measured iterations per run")
	db := flag.Int("db", benchmark.DefaultDBSize, "Number of keys in the backing data file")
	sizes := flag.String("sizes", "", "Comma-separated sizes: hit rate capacities and collection sizes")
	data := flag.String("data", "", "Backing data file; generated when missing (default: temp dir)")
	seed := flag.Uint64("seed", 42, "Random seed")
	outDir := flag.String("outdir", "results", "Output directory for reports")
	traces := flag.String("trace", "", "Comma-separated recorded trace files to replay in the hitrate suite")
	traceColumn := flag.Int("trace-column", 0, "Zero-based comma-separated column holding the trace key")
	traceHeader := flag.Bool("trace-header", false, "Trace files start with a header line")
	traceTrim := flag.String("trace-trim", "", "Cut each trace key at the last occurrence of this separator")
	verbose := flag.Bool("v", false, "Verbose logging")
	flag.Parse()

	if *showHelp {
		printUsage()
		os.Exit(0)
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	opts, err := parseOptions(*suites, *caches, *tests, *warmup, *sizes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	opts.iterations = *iterations
	opts.dbSize = *db
	opts.dataPath = *data
	opts.seed = *seed
	opts.outDir = *outDir
	opts.traces, opts.traceOpts = traceFlags(*traces, *traceColumn, *traceHeader, *traceTrim)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1) //nolint:gocritic // stop already called
	}
}

// traceFlags turns the -trace* flags into file paths and read options.
func traceFlags(paths string, column int, header bool, trim string) ([]string, trace.Options) {
	var files []string
	for p := range strings.SplitSeq(paths, ",") {
		if p = strings.TrimSpace(p); p != "" {
			files = append(files, p)
		}
	}
	return files, trace.Options{Column: column, SkipHeader: header, TrimSuffix: trim}
}

func parseOptions(suites, caches, tests, warmup, sizes string) (options, error) {
	opts := options{suites: map[string]bool{}}

	if suites == "all" || suites == "" {
		for _, s := range validSuites {
			opts.suites[s] = true
		}
	} else {
		for _, s := range splitNames(suites) {
			if !slices.Contains(validSuites, s) {
				return opts, fmt.Errorf("unknown suite %q (valid: %s)", s, strings.Join(validSuites, ", "))
			}
			opts.suites[s] = true
		}
	}

	if caches != "" {
		names := splitNames(caches)
		for _, name := range names {
			if _, err := cache.Lookup(name); err != nil {
				return opts, fmt.Errorf("%w (available: %s)", err, strings.Join(cache.AvailableNames(), ", "))
			}
		}
		cache.SetFilter(names)
	}

	if tests != "" {
		opts.tests = map[string]bool{}
		valid := validTests()
		for t := range strings.SplitSeq(tests, ",") {
			t = strings.TrimSpace(t)
			if t == "" {
				continue
			}
			if !slices.Contains(valid, t) {
				return opts, fmt.Errorf("unknown test %q\n\nAvailable tests:\n  %s", t, strings.Join(valid, "\n  "))
			}
			opts.tests[t] = true
		}
	}

	var err error
	if opts.warmups, err = parseIntList(warmup); err != nil {
		return opts, fmt.Errorf("-warmup: %w", err)
	}
	if sizes != "" {
		if opts.sizes, err = parseIntList(sizes); err != nil {
			return opts, fmt.Errorf("-sizes: %w", err)
		}
	}
	return opts, nil
}

// selected returns the names from all that pass the test filter.
func (o options) selected(all []string) []string {
	if o.tests == nil {
		return all
	}
	var out []string
	for _, name := range all {
		if o.tests[name] {
			out = append(out, name)
		}
	}
	return out
}

func (o options) shouldRunTest(name string) bool {
	return o.tests == nil || o.tests[name]
}

func (o options) runs() []benchmark.Run {
	runs := make([]benchmark.Run, len(o.warmups))
	for i, w := range o.warmups {
		runs[i] = benchmark.Run{WarmUp: w, Tests: o.iterations}
	}
	return runs
}

func run(ctx context.Context, opts options) error {
	printHeader(opts)

	var results output.Results
	var err error

	if opts.suites["cache"] {
		if results.Cache, err = runCacheSuite(opts); err != nil {
			return err
		}
	}
	if opts.suites["collection"] {
		if results.Collection, err = runCollectionSuite(opts); err != nil {
			return err
		}
	}
	if opts.suites["hitrate"] {
		if results.HitRate, err = runHitRateBenchmarks(opts); err != nil {
			return err
		}
	}
	if opts.suites["latency"] && opts.shouldRunTest("latency") {
		if results.Latency, err = runLatencyBenchmarks(); err != nil {
			return err
		}
	}
	if opts.suites["memory"] && opts.shouldRunTest("memory") {
		results.Memory = runMemoryBenchmarks(ctx)
	}

	results.Rankings, results.MedalTable = output.ComputeRankings(results)
	printOverallRanking(results.Rankings)

	commandLine := "evictmark " + strings.Join(os.Args[1:], " ")
	results.MachineInfo = output.CurrentMachine()
	results.MachineInfo.CommandLine = commandLine

	return writeReports(opts.outDir, results, commandLine)
}

func writeReports(dir string, results output.Results, commandLine string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:gosec // G301: 0755 is standard dir permission
		return fmt.Errorf("create output directory: %w", err)
	}

	paths, err := output.WriteText(dir, results, time.Now())
	if err != nil {
		return fmt.Errorf("write text reports: %w", err)
	}

	mdPath := filepath.Join(dir, "evictmark_results.md")
	if err := output.WriteMarkdown(mdPath, results, commandLine); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	jsonPath := filepath.Join(dir, "evictmark_results.json")
	if err := output.WriteJSON(jsonPath, results, commandLine); err != nil {
		return fmt.Errorf("write json: %w", err)
	}

	fmt.Printf("Results: %s\n", mdPath)
	fmt.Printf("         %s\n", jsonPath)
	for _, p := range paths {
		fmt.Printf("         %s\n", p)
	}
	return nil
}

// openRepo opens the backing data file, generating it when absent.
func openRepo(opts options) (*dataset.Repo, error) {
	path := opts.dataPath
	if path == "" {
		path = filepath.Join(os.TempDir(), fmt.Sprintf("evictmark-db-%d-%d.csv.zst", opts.dbSize, opts.seed))
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		slog.Info("generating data file", "path", path, "rows", opts.dbSize+1)
		rng := rand.New(rand.NewPCG(opts.seed, opts.seed+1)) //nolint:gosec // benchmark data
		if err := dataset.WriteFile(path, opts.dbSize, rng); err != nil {
			return nil, fmt.Errorf("generate data file: %w", err)
		}
	}
	return dataset.Open(path)
}

func runCacheSuite(opts options) ([]benchmark.CacheEntry, error) {
	scenarios := opts.selected(benchmark.CacheScenarioNames())
	if len(scenarios) == 0 {
		return nil, nil
	}
	printSuite("cache", fmt.Sprintf("average load time, db=%d, capacity=%d", opts.dbSize, opts.dbSize/4))

	repo, err := openRepo(opts)
	if err != nil {
		return nil, err
	}
	entries, err := benchmark.RunCacheSuite(benchmark.CacheSuiteConfig{
		Repo:      repo,
		DBSize:    opts.dbSize,
		Caches:    cache.AllNames(),
		Scenarios: scenarios,
		Runs:      opts.runs(),
		Seed:      opts.seed,
	})
	if err != nil {
		return nil, err
	}
	output.CacheSuiteTable(os.Stdout, "  ", entries)
	return entries, nil
}

func runCollectionSuite(opts options) ([]benchmark.CollectionEntry, error) {
	methods := opts.selected(benchmark.CollectionMethodNames())
	if len(methods) == 0 {
		return nil, nil
	}
	printSuite("collection", "average operation time")

	sizes := opts.sizes
	if sizes == nil {
		sizes = benchmark.DefaultCollectionSizes
	}
	entries, err := benchmark.RunCollectionSuite(benchmark.CollectionSuiteConfig{
		Collections: benchmark.CollectionNames(),
		Methods:     methods,
		Sizes:       sizes,
		Runs:        benchmark.DefaultCollectionRuns,
		Seed:        opts.seed,
	})
	if err != nil {
		return nil, err
	}
	output.CollectionSuiteTable(os.Stdout, "  ", entries)
	return entries, nil
}

func runHitRateBenchmarks(opts options) (*output.HitRateData, error) {
	workloads := opts.selected(workload.Names())
	if len(workloads) == 0 && len(opts.traces) == 0 {
		return nil, nil
	}
	printSuite("hitrate", "hit rate by workload and capacity")

	cfg := benchmark.DefaultHitRateConfig()
	cfg.Caches = cache.AllNames()
	cfg.Workloads = workloads
	cfg.Seed = opts.seed
	if opts.sizes != nil {
		cfg.Sizes = opts.sizes
	}
	for _, path := range opts.traces {
		tr, err := trace.Load(path, opts.traceOpts)
		if err != nil {
			return nil, fmt.Errorf("load trace: %w", err)
		}
		cfg.Traces = append(cfg.Traces, tr)
	}

	results, err := benchmark.RunHitRate(cfg)
	if err != nil {
		return nil, err
	}
	data := &output.HitRateData{Results: results, Sizes: cfg.Sizes}
	for _, wl := range data.Workloads() {
		printTest(wl, hitRateDescription(cfg, wl))
		output.HitRateTable(os.Stdout, "  ", data.ForWorkload(wl), cfg.Sizes)
	}
	return data, nil
}

func hitRateDescription(cfg benchmark.HitRateConfig, name string) string {
	for _, tr := range cfg.Traces {
		if tr.Name == name {
			return fmt.Sprintf("recorded trace, %d ops, %d unique keys", len(tr.Keys), tr.Unique)
		}
	}
	return fmt.Sprintf("%d ops over %d keys", cfg.Ops, cfg.Keyspace)
}

func runLatencyBenchmarks() (*output.LatencyData, error) {
	printSuite("latency", "single-threaded testing.Benchmark (ns/op)")
	results, err := benchmark.RunLatency(cache.AllNames())
	if err != nil {
		return nil, err
	}
	output.LatencyTable(os.Stdout, "  ", results)
	return &output.LatencyData{Results: results}, nil
}

func runMemoryBenchmarks(ctx context.Context) *output.MemoryData {
	capacity := benchmark.DefaultMemoryCapacity
	valSize := benchmark.DefaultValueSize

	printSuite("memory", "overhead per item (isolated processes)")
	printTest("memory", fmt.Sprintf("%d items, %d byte values", capacity, valSize))

	results, err := benchmark.RunMemory(ctx, cache.AllNames(), capacity, valSize, nil)
	if err != nil {
		fmt.Printf("  error: %v\n\n", err)
		return nil
	}
	output.MemoryTable(os.Stdout, "  ", results)
	return &output.MemoryData{Results: results, Capacity: capacity, ValSize: valSize}
}

func printUsage() {
	fmt.Println("evictmark - Compare cache eviction policies")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  evictmark                          Run all benchmarks (default)")
	fmt.Println("  evictmark -suites cache            Run only the cache load-time suite")
	fmt.Println("  evictmark -suites hitrate,latency  Run hit rate and latency benchmarks")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Available tests:")
	fmt.Println()
	fmt.Println("  cache - average load time through a cache backed by a slow data file")
	for _, name := range benchmark.CacheScenarioNames() {
		fmt.Printf("    %s\n", name)
	}
	fmt.Println()
	fmt.Println("  collection - average operation time per collection and size")
	for _, name := range benchmark.CollectionMethodNames() {
		fmt.Printf("    %s\n", name)
	}
	fmt.Println()
	fmt.Println("  hitrate - hit rate by key distribution")
	for _, name := range workload.Names() {
		fmt.Printf("    %s\n", name)
	}
	fmt.Println()
	fmt.Println("  latency - testing.Benchmark Load/Store cross-check")
	fmt.Println("  memory - per-item memory overhead (isolated processes)")
	fmt.Println()
	fmt.Println("Available caches:")
	for _, name := range cache.AvailableNames() {
		fmt.Printf("  - %s\n", name)
	}
}

const lineWidth = 80

func printHeader(opts options) {
	fmt.Println("evictmark")
	fmt.Println()

	var suitesRun []string
	for _, s := range validSuites {
		if opts.suites[s] {
			suitesRun = append(suitesRun, s)
		}
	}

	fmt.Printf("  caches: %d\n", len(cache.AllNames()))
	fmt.Printf("  suites: %s\n", strings.Join(suitesRun, ", "))
	fmt.Printf("  runs:   %v x %d iterations\n", opts.warmups, opts.iterations)
	fmt.Println()
}

func printSuite(name, description string) {
	header := fmt.Sprintf("%s: %s ", name, description)
	padding := max(lineWidth-len(header), 4)
	fmt.Printf("%s%s\n\n", header, strings.Repeat("-", padding))
}

func printTest(name, description string) {
	fmt.Printf("  [%s] %s\n\n", name, description)
}

func printOverallRanking(rankings []output.Ranking) {
	if len(rankings) == 0 {
		return
	}

	printSuite("summary", "ranked voting across all tests")

	for i := 0; i < len(rankings) && i < 3; i++ {
		r := rankings[i]
		fmt.Printf("  #%d  %s (%.0f points)\n", r.Rank, r.Name, r.Score)
	}
	fmt.Println()
}
