package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"readmitstats/dataset"
	"readmitstats/model"
	"readmitstats/synth"
)

func main() {
	members := flag.Int("members", 5000, "Number of members to simulate")
	start := flag.String("start", "2024-01-01", "First day of the claims calendar (YYYY-MM-DD)")
	end := flag.String("end", "2025-12-31", "Last day of the claims calendar (YYYY-MM-DD)")
	seed := flag.Int64("seed", 42, "Random seed; the same seed reproduces the same cohort")
	outDir := flag.String("out", "data/raw", "Output directory for the raw CSVs")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `claimsgen - Generate a synthetic claims cohort for readmission analytics

Simulates a member population with chronic-condition mix, inpatient stays,
injected 30-day readmissions, and outpatient/inpatient claims, then writes
three raw CSVs: members.csv, admissions.csv, claims.csv.

Usage:
  claimsgen [options]

Options:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Default cohort: 5000 members over 2024-2025
  claimsgen

  # Small cohort for quick local runs
  claimsgen -members 500

  # A different world with the same shape
  claimsgen -seed 7 -out data/raw
`)
	}

	flag.Parse()

	if *members < 0 {
		fmt.Fprintln(os.Stderr, "Error: -members must be >= 0")
		os.Exit(1)
	}

	startDate, err := model.ParseDate(*start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid -start: %v\n", err)
		os.Exit(1)
	}
	endDate, err := model.ParseDate(*end)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid -end: %v\n", err)
		os.Exit(1)
	}
	if endDate.Before(startDate) {
		fmt.Fprintln(os.Stderr, "Error: -end precedes -start")
		os.Exit(1)
	}

	startTime := time.Now()
	log.Printf("Generating cohort: %d members, %s..%s, seed %d", *members, *start, *end, *seed)

	cohort := synth.Generate(synth.Config{
		Members: *members,
		Start:   startDate,
		End:     endDate,
		Seed:    *seed,
	})

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	membersPath := filepath.Join(*outDir, "members.csv")
	if err := dataset.WriteMembersCSV(membersPath, cohort.Members); err != nil {
		log.Fatalf("Failed to write members: %v", err)
	}
	admissionsPath := filepath.Join(*outDir, "admissions.csv")
	if err := dataset.WriteAdmissionsCSV(admissionsPath, cohort.Admissions); err != nil {
		log.Fatalf("Failed to write admissions: %v", err)
	}
	claimsPath := filepath.Join(*outDir, "claims.csv")
	if err := dataset.WriteClaimsCSV(claimsPath, cohort.Claims); err != nil {
		log.Fatalf("Failed to write claims: %v", err)
	}

	log.Printf("Cohort written in %s", time.Since(startTime).Round(time.Millisecond))
	log.Printf("  %s: %d rows", membersPath, len(cohort.Members))
	log.Printf("  %s: %d rows", admissionsPath, len(cohort.Admissions))
	log.Printf("  %s: %d rows", claimsPath, len(cohort.Claims))
}
