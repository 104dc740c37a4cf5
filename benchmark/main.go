// Package main provides a performance benchmarking tool for the learnstat CLI.
// It generates stats files of increasing size, renders dashboards from them several times,
// treating the first successful cached run as cold and averaging the rest as warm,
// and writes the timings to a CSV file.
//
// Prerequisites:
// - learnstat binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory for generated stats files and the benchmark cache
package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Scenario    string
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// Scenario describes one generated stats file and the window rendered from it.
type Scenario struct {
	Name           string
	Days           int
	RecordsPerDay  int
	Window         int
	SelectionFlags []string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir     string
	Timeout     time.Duration
	NoCacheRuns int
	CacheRuns   int
	End         time.Time
	Scenarios   []Scenario
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	config := BenchmarkConfig{
		WorkDir:     os.Args[1],
		Timeout:     time.Minute,
		NoCacheRuns: 3,
		CacheRuns:   4,
		End:         end,
		Scenarios: []Scenario{
			{Name: "week", Days: 7, RecordsPerDay: 1, Window: 7, SelectionFlags: []string{"--period", "week"}},
			{Name: "month", Days: 30, RecordsPerDay: 3, Window: 7, SelectionFlags: []string{"--period", "month"}},
			{Name: "year", Days: 366, RecordsPerDay: 5, Window: 30, SelectionFlags: []string{"--period", "custom", "--start", "2024-01-01", "--end", "2024-12-31"}},
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Clearing cache...\n")
	clearCmd := exec.Command("learnstat", "cache", "clear")
	clearCmd.Env = benchmarkEnv(config)
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, string(output))
	} else {
		fmt.Printf("Cache cleared successfully\n")
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the learnstat binary exists and the work dir is usable.
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("learnstat"); err != nil {
		return fmt.Errorf("learnstat binary not found in PATH")
	}
	return os.MkdirAll(config.WorkDir, 0o755)
}

// benchmarkEnv keeps the benchmark's SQLite cache inside the work dir.
func benchmarkEnv(config BenchmarkConfig) []string {
	return append(os.Environ(), "HOME="+config.WorkDir)
}

// writeScenario generates a stats file with RecordsPerDay records for each day ending at config.End.
func writeScenario(config BenchmarkConfig, s Scenario) (string, error) {
	type record struct {
		Date        string  `json:"date"`
		Info        int     `json:"ai_info"`
		Terms       int     `json:"terms"`
		QuizScore   float64 `json:"quiz_score"`
		QuizCorrect int     `json:"quiz_correct"`
		QuizTotal   int     `json:"quiz_total"`
	}

	start := config.End.AddDate(0, 0, -(s.Days - 1))
	records := make([]record, 0, s.Days*s.RecordsPerDay)
	for d := range s.Days {
		day := start.AddDate(0, 0, d).Format("2006-01-02")
		for r := range s.RecordsPerDay {
			records = append(records, record{
				Date:        day,
				Info:        (d + r) % 4,
				Terms:       (d * 7) % 61,
				QuizScore:   float64((d + r) % 10),
				QuizCorrect: r,
				QuizTotal:   s.RecordsPerDay,
			})
		}
	}

	payload := map[string]any{
		"start_date":  start.Format("2006-01-02"),
		"end_date":    config.End.Format("2006-01-02"),
		"total_days":  s.Days,
		"period_data": records,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	path := filepath.Join(config.WorkDir, fmt.Sprintf("stats_%s.json", s.Name))
	return path, os.WriteFile(path, data, 0o644)
}

// runBenchmarks executes all benchmark tests across configured scenarios
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d scenarios, %v timeout, no-cache: %d runs, cache: %d runs\n",
		len(config.Scenarios), config.Timeout, config.NoCacheRuns, config.CacheRuns)

	for _, s := range config.Scenarios {
		path, err := writeScenario(config, s)
		if err != nil {
			fmt.Printf("Skipping %s: %v\n", s.Name, err)
			continue
		}
		fmt.Printf("Benchmarking %s (%d days, %d records/day)\n", s.Name, s.Days, s.RecordsPerDay)

		base := append([]string{
			"--session", "bench",
			"--stats-path", path,
			"--today", config.End.Format("2006-01-02"),
			"--window", fmt.Sprint(s.Window),
			"--output", "json",
		}, s.SelectionFlags...)

		results = append(results, runBenchmarkSuite(config, s.Name, "dashboard", base))
		results = append(results, runBenchmarkSuite(config, s.Name, "summary", base))
	}

	return results
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, scenario, command string, extraArgs []string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", command, scenario)

	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, command, extraArgs, cacheBackend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avgTime = fmt.Sprintf("%.3fs", sum/float64(len(times)))
		}
		return cold, avgTime
	}

	// Phase 1: No-cache runs
	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "No-cache")

	// Phase 2: Cache runs
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Scenario:    scenario,
		Command:     command,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a learnstat command multiple times with specified cache backend and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, command string, extraArgs []string, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := append([]string{command, "--cache-backend", cacheBackend}, extraArgs...)

	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("learnstat", args...)
		cmd.Env = benchmarkEnv(config)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.Output()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output, command) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks that the JSON output carries the expected top-level field
func isSuccess(output []byte, command string) bool {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(output, &doc); err != nil {
		return false
	}
	key := "points"
	if command == "summary" {
		key = "means"
	}
	_, ok := doc[key]
	return ok
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/learnstat_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"scenario", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, result := range results {
		if err := writer.Write([]string{result.Scenario, result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, command := range []string{"dashboard", "summary"} {
		fmt.Printf("%s:\n", strings.ToUpper(command[:1])+command[1:])
		for _, result := range results {
			if result.Command == command {
				fmt.Printf("  %-8s: No-cache: %s, Cold: %s, Warm: %s\n", result.Scenario, result.NoCacheTime, result.ColdTime, result.WarmTime)
			}
		}
	}
	fmt.Printf("Benchmark script completed successfully\n")
}
