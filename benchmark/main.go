// Package main provides a performance benchmarking tool for the trendbox CLI.
// It generates synthetic daily series of increasing size, then times the weekly
// and monthly charts with run history off and on. Each case runs several times;
// the first successful run counts as cold and the rest are averaged as warm.
// Results are written as CSV for documentation.
//
// Prerequisites:
// - trendbox binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory for the generated inputs and the benchmark history database
package main

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// BenchmarkResult holds the result of one benchmark case.
type BenchmarkResult struct {
	Dataset     string
	Command     string
	NoStoreTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir     string
	Timeout     time.Duration
	NoStoreRuns int
	StoreRuns   int
	Datasets    map[string]int // name -> days of data
	Commands    []string
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:     os.Args[1],
		Timeout:     2 * time.Minute,
		NoStoreRuns: 3,
		StoreRuns:   4,
		Datasets: map[string]int{
			"1y":   365,
			"10y":  3650,
			"100y": 36500,
		},
		Commands: []string{"weekly", "monthly"},
	}

	if _, err := exec.LookPath("trendbox"); err != nil {
		fmt.Println("Prerequisites check failed: trendbox binary not found in PATH")
		os.Exit(1)
	}
	if err := os.MkdirAll(config.WorkDir, 0o755); err != nil {
		fmt.Printf("Failed to create work dir: %v\n", err)
		os.Exit(1)
	}

	results, err := runBenchmarks(config)
	if err != nil {
		fmt.Printf("Benchmark failed: %v\n", err)
		os.Exit(1)
	}

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results, config.Commands)
}

// generateDataset writes days of synthetic rows ending today: a seasonal value,
// a flat target and a last-year value 10% lower.
func generateDataset(path string, days int) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"date", "value", "target", "last_year"}); err != nil {
		return err
	}

	start := time.Now().UTC().AddDate(0, 0, -days)
	for i := range days {
		d := start.AddDate(0, 0, i)
		value := 1000 + 200*math.Sin(float64(d.YearDay())/365*2*math.Pi) + float64(i%7)*15
		row := []string{
			d.Format(time.DateOnly),
			strconv.FormatFloat(value, 'f', 2, 64),
			"1100",
			strconv.FormatFloat(value*0.9, 'f', 2, 64),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// runBenchmarks generates every dataset and times every command against it.
func runBenchmarks(config BenchmarkConfig) ([]BenchmarkResult, error) {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d datasets, %v timeout, no-store: %d runs, store: %d runs\n",
		len(config.Datasets), config.Timeout, config.NoStoreRuns, config.StoreRuns)

	historyDB := filepath.Join(config.WorkDir, "benchmark_history.db")
	_ = os.Remove(historyDB)

	for _, name := range []string{"1y", "10y", "100y"} {
		days, ok := config.Datasets[name]
		if !ok {
			continue
		}
		input := filepath.Join(config.WorkDir, fmt.Sprintf("series_%s.csv", name))
		fmt.Printf("Generating %s (%d rows)\n", input, days)
		if err := generateDataset(input, days); err != nil {
			return nil, fmt.Errorf("failed to generate %s: %w", name, err)
		}

		for _, command := range config.Commands {
			results = append(results, runBenchmarkSuite(config, name, input, command, historyDB))
		}
	}

	return results, nil
}

// runBenchmarkSuite runs a command without and with the sqlite history store.
func runBenchmarkSuite(config BenchmarkConfig, dataset, input, command, historyDB string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", command, dataset)

	runPhase := func(args []string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, args, numRuns)
		if len(times) == 0 {
			return cold, "TIMEOUT"
		}
		var sum float64
		for _, t := range times {
			sum += t
		}
		return cold, fmt.Sprintf("%.3fs", sum/float64(len(times)))
	}

	base := []string{command, input, "--output", "json", "--history-backend"}
	_, noStoreAvg := runPhase(append(base, "none"), config.NoStoreRuns, "No-store")
	coldTime, warmAvg := runPhase(append(base, "sqlite", "--history-db-connect", historyDB), config.StoreRuns, "Store")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-store average: %s, Cold time: %s, Warm average: %s\n", noStoreAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Dataset:     dataset,
		Command:     command,
		NoStoreTime: noStoreAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes trendbox numRuns times and returns the cold time and the warm times.
func runBenchmark(config BenchmarkConfig, args []string, numRuns int) (coldTime float64, warmTimes []float64) {
	var times []float64
	for range numRuns {
		start := time.Now()
		cmd := exec.Command("trendbox", args...)

		done := make(chan bool, 1)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.Output()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks that the JSON summary reports a drawable chart.
func isSuccess(output []byte) bool {
	return strings.Contains(string(output), `"status": "ok"`)
}

// saveResults writes benchmark results to a timestamped CSV file.
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/trendbox_benchmark_%s.csv", timestamp)

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

	if err := writer.Write([]string{"dataset", "cmd", "no_store_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Dataset, result.Command, result.NoStoreTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results grouped by command.
func printSummary(results []BenchmarkResult, commands []string) {
	fmt.Printf("Benchmark complete\n")
	for _, command := range commands {
		fmt.Printf("%s:\n", command)
		for _, result := range results {
			if result.Command == command {
				fmt.Printf("  %-6s: No-store: %s, Cold: %s, Warm: %s\n", result.Dataset, result.NoStoreTime, result.ColdTime, result.WarmTime)
			}
		}
	}
}
