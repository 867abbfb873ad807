// Package main provides a performance benchmarking tool for the Statscope CLI.
// It measures stats generation times across repositories of different sizes,
// treating the first successful cached run as the cold full scan and averaging
// the following incremental runs as warm, generating CSV output for
// performance analysis and documentation.
//
// Prerequisites:
// - statscope binary installed and available in PATH
// - Test repositories cloned to the specified base directory
// - Git repositories: csv-parser, fd, git, kubernetes
//
// Usage: go run benchmark/main.go [repo-base-dir]
//
//	repo-base-dir: Directory containing test repositories
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the result of one repository/worker-count pairing:
// the uncached average, the cold full scan and the average of warm
// incremental runs.
type BenchmarkResult struct {
	Repository  string
	Workers     int
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	RepoBase    string
	Timeout     time.Duration
	WorkerSets  []int
	NoCacheRuns int
	CachedRuns  int
	TestRepos   []string
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [repo-base-dir]\n", os.Args[0])
		os.Exit(1)
	}
	repoBase := os.Args[1]

	config := BenchmarkConfig{
		RepoBase:    repoBase,
		Timeout:     5 * time.Minute,
		WorkerSets:  []int{1, 4, 14},
		NoCacheRuns: 3,
		CachedRuns:  4,
		TestRepos:   []string{"csv-parser", "fd", "git", "kubernetes"},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the statscope binary and test repositories exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("statscope"); err != nil {
		return fmt.Errorf("statscope binary not found in PATH")
	}

	for _, repo := range config.TestRepos {
		repoPath := filepath.Join(config.RepoBase, repo)
		if _, err := os.Stat(repoPath); os.IsNotExist(err) {
			return fmt.Errorf("repository %s not found at %s", repo, repoPath)
		}
	}

	return nil
}

// runBenchmarks executes all benchmark tests across configured repositories
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d repos, %v timeout, workers %v, no-cache: %d runs, cached: %d runs\n",
		len(config.TestRepos), config.Timeout, config.WorkerSets, config.NoCacheRuns, config.CachedRuns)

	for _, repo := range config.TestRepos {
		fmt.Printf("Benchmarking %s\n", repo)
		repoPath := filepath.Join(config.RepoBase, repo)

		for _, workers := range config.WorkerSets {
			results = append(results, runBenchmarkSuite(config, repo, repoPath, workers))
		}
	}

	return results
}

// runBenchmarkSuite runs both uncached and cached generation for one
// repository and worker count.
func runBenchmarkSuite(config BenchmarkConfig, repo, repoPath string, workers int) BenchmarkResult {
	fmt.Printf("Running generate on %s with %d workers\n", repo, workers)

	runPhase := func(numRuns int, phaseName string, clearProject bool) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, repoPath, workers, numRuns, clearProject)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avg := sum / float64(len(times))
			avgTime = fmt.Sprintf("%.3fs", avg)
		}
		return cold, avgTime
	}

	// Phase 1: every run is a full scan, snapshot cache wiped between runs
	_, noCacheAvg := runPhase(config.NoCacheRuns, "No-cache", true)

	// Phase 2: the first run rebuilds the cache cold, the rest resume from
	// the incremental boundary
	_, _ = runOnce(repoPath, []string{"project", "clear"}, config.Timeout)
	coldTime, warmAvg := runPhase(config.CachedRuns, "Cached", false)

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Repository:  repo,
		Workers:     workers,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes statscope generate multiple times and returns the
// cold time plus the warm times. When clearProject is set, the project
// record and snapshot cache are wiped before every run.
func runBenchmark(config BenchmarkConfig, repoPath string, workers, numRuns int, clearProject bool) (coldTime float64, warmTimes []float64) {
	args := []string{"generate", "--workers", fmt.Sprintf("%d", workers)}

	var times []float64
	for run := 1; run <= numRuns; run++ {
		if clearProject {
			_, _ = runOnce(repoPath, []string{"project", "clear"}, config.Timeout)
		}

		start := time.Now()
		output, err := runOnce(repoPath, args, config.Timeout)
		if err == nil && isSuccess(output) {
			times = append(times, time.Since(start).Seconds())
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// runOnce executes one statscope invocation with a timeout.
func runOnce(repoPath string, args []string, timeout time.Duration) ([]byte, error) {
	cmd := exec.Command("statscope", args...)
	cmd.Dir = repoPath

	done := make(chan bool)
	var output []byte
	var cmdErr error

	go func() {
		output, cmdErr = cmd.CombinedOutput()
		done <- true
	}()

	select {
	case <-done:
		return output, cmdErr
	case <-time.After(timeout):
		_ = cmd.Process.Kill()
		return nil, fmt.Errorf("timed out after %v", timeout)
	}
}

// isSuccess checks if command output indicates a completed stats run
func isSuccess(output []byte) bool {
	outputStr := string(output)
	return strings.Contains(outputStr, "stats.json") &&
		strings.Contains(outputStr, "Commits:")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/statscope_benchmark_%s.csv", timestamp)

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

	if err := writer.Write([]string{"repo", "workers", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, result := range results {
		record := []string{
			result.Repository,
			fmt.Sprintf("%d", result.Workers),
			result.NoCacheTime,
			result.ColdTime,
			result.WarmTime,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, result := range results {
		fmt.Printf("  %-12s workers=%-3d No-cache: %s, Cold: %s, Warm: %s\n",
			result.Repository, result.Workers, result.NoCacheTime, result.ColdTime, result.WarmTime)
	}
	fmt.Printf("Benchmark script completed successfully\n")
}
