// Command batchplan plans layouts for every job in a job file, writing one
// plan JSON per image plus a manifest.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"layoutplan/internal/batch"
	"layoutplan/internal/config"
	"layoutplan/internal/joblist"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	testN := flag.Int("test", 0, "Plan only first N jobs for testing")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	sourceDir := flag.String("source", "", "Source image directory")
	outputDir := flag.String("output", "", "Output directory (default: <source>/plans)")
	jobsFile := flag.String("jobs", "", "Job file (default: <source>/jobs.json)")

	flag.Parse()

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		SourceDir: *sourceDir,
		OutputDir: *outputDir,
		JobsFile:  *jobsFile,
		Workers:   *workers,
	})

	jobs, err := joblist.Parse(cfg.JobsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading jobs: %v\n", err)
		os.Exit(1)
	}

	if *testN > 0 && *testN < len(jobs) {
		jobs = jobs[:*testN]
	}

	if len(jobs) == 0 {
		fmt.Println("No jobs to plan.")
		os.Exit(0)
	}

	fmt.Printf("Planning %d jobs with %d workers\n", len(jobs), cfg.Workers)

	results := batch.Run(cfg, jobs)

	ok, failed := 0, 0
	for _, r := range results {
		if r.Success {
			ok++
			continue
		}
		failed++
		fmt.Fprintf(os.Stderr, "  FAIL %s: %s\n", r.File, r.Error)
	}

	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := batch.WriteManifest(manifestPath, results); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing manifest: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Done: %d planned, %d failed. Manifest: %s\n", ok, failed, manifestPath)
	if failed > 0 {
		os.Exit(1)
	}
}
