package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"readmitstats/dashboard"
	"readmitstats/dataset"
)

func main() {
	processedDir := flag.String("processed", "data/processed", "Directory with the processed CSV tables")
	outFile := flag.String("out", "dashboard/readmissions_dashboard.html", "Output HTML file")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `dashboard - Render the processed tables into an offline HTML dashboard

Reads kpi_summary.csv, diagnosis_summary.csv, patient_risk_scores.csv, and
intervention_roi.csv, and writes one self-contained page: KPI cards, top
diagnoses by preventable readmission events, the risk tier mix, and the
intervention savings simulation. Charts load plotly.js from its CDN.

Usage:
  dashboard [options]

Options:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Render from the default processed directory
  dashboard

  # Custom locations
  dashboard -processed data/processed -out reports/readmissions.html
`)
	}

	flag.Parse()

	kpi, err := dataset.ReadKPISummary(filepath.Join(*processedDir, "kpi_summary.csv"))
	if err != nil {
		log.Fatalf("Failed to read kpi_summary: %v", err)
	}
	diagnosis, err := dataset.ReadDiagnosisSummary(filepath.Join(*processedDir, "diagnosis_summary.csv"))
	if err != nil {
		log.Fatalf("Failed to read diagnosis_summary: %v", err)
	}
	risk, err := dataset.ReadRiskScores(filepath.Join(*processedDir, "patient_risk_scores.csv"))
	if err != nil {
		log.Fatalf("Failed to read patient_risk_scores: %v", err)
	}
	roi, err := dataset.ReadInterventionROI(filepath.Join(*processedDir, "intervention_roi.csv"))
	if err != nil {
		log.Fatalf("Failed to read intervention_roi: %v", err)
	}

	if dir := filepath.Dir(*outFile); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create output directory: %v", err)
		}
	}

	f, err := os.Create(*outFile)
	if err != nil {
		log.Fatalf("Failed to create output file: %v", err)
	}

	err = dashboard.Render(f, dashboard.Data{
		KPI:       kpi,
		Diagnosis: diagnosis,
		Risk:      risk,
		ROI:       roi,
	})
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		log.Fatalf("Failed to render dashboard: %v", err)
	}

	log.Printf("Wrote %s", *outFile)
}
