package dataset

import (
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"

	"readmitstats/model"
)

func TestWriteParquetEvents(t *testing.T) {
	days := int32(-2)
	rows := []model.EventRow{
		{
			MemberID:                "M1",
			IndexAdmissionID:        "A1",
			IndexDischargeDate:      "2024-01-14",
			NextAdmissionID:         "A2",
			NextAdmitDate:           "2024-01-29",
			DaysToReadmit:           15,
			IndexConditionGroup:     "CHF",
			IndexHospitalID:         "H0001",
			IndexPaidAmount:         12500,
			IndexPreventableProxy:   1,
			ReadmitConditionGroup:   "COPD",
			ReadmitPaidAmount:       9800,
			IsQualifying:            1,
			IsPreventableQualifying: 1,
			EventTotalPaid:          22300,
		},
		{
			MemberID:           "M2",
			IndexAdmissionID:   "A3",
			IndexDischargeDate: "2024-03-10",
			NextAdmissionID:    "A4",
			NextAdmitDate:      "2024-03-08",
			DaysToReadmit:      days, // overlapping stays keep their negative gap
		},
	}

	path := filepath.Join(t.TempDir(), "readmission_events.parquet")
	if err := WriteParquet(path, rows); err != nil {
		t.Fatalf("WriteParquet: %v", err)
	}

	got, err := parquet.ReadFile[model.EventRow](path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("parquet has %d rows, want 2", len(got))
	}
	if got[0] != rows[0] {
		t.Errorf("row[0] mismatch:\n got %+v\nwant %+v", got[0], rows[0])
	}
	if got[1].DaysToReadmit != -2 {
		t.Errorf("row[1].DaysToReadmit = %d, want -2", got[1].DaysToReadmit)
	}
	if got[1].IsQualifying != 0 {
		t.Errorf("row[1].IsQualifying = %d, want 0", got[1].IsQualifying)
	}
}

func TestWriteParquetEnrichedOptionals(t *testing.T) {
	next := "A2"
	nextDate := "2024-01-29"
	days := int32(15)
	rows := []model.EnrichedAdmissionRow{
		{
			AdmissionID:      "A1",
			MemberID:         "M1",
			AdmitDate:        "2024-01-10",
			DischargeDate:    "2024-01-14",
			LengthOfStay:     4,
			ConditionGroup:   "CHF",
			PreventableProxy: 1,
			PaidAmount:       12500,
			NextAdmissionID:  &next,
			NextAdmitDate:    &nextDate,
			DaysToNextAdmit:  &days,
			Is30dReadmission: 1,
		},
		{
			AdmissionID:   "A2",
			MemberID:      "M1",
			AdmitDate:     "2024-01-29",
			DischargeDate: "2024-02-02",
			LengthOfStay:  4,
			PaidAmount:    9800,
		},
	}

	path := filepath.Join(t.TempDir(), "admissions_enriched.parquet")
	if err := WriteParquet(path, rows); err != nil {
		t.Fatalf("WriteParquet: %v", err)
	}

	got, err := parquet.ReadFile[model.EnrichedAdmissionRow](path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("parquet has %d rows, want 2", len(got))
	}
	if got[0].NextAdmissionID == nil || *got[0].NextAdmissionID != "A2" {
		t.Errorf("row[0].NextAdmissionID = %v, want A2", got[0].NextAdmissionID)
	}
	if got[0].DaysToNextAdmit == nil || *got[0].DaysToNextAdmit != 15 {
		t.Errorf("row[0].DaysToNextAdmit = %v, want 15", got[0].DaysToNextAdmit)
	}
	if got[1].NextAdmissionID != nil {
		t.Errorf("row[1].NextAdmissionID = %q, want nil (last stay)", *got[1].NextAdmissionID)
	}
	if got[1].Is30dReadmission != 0 {
		t.Errorf("row[1].Is30dReadmission = %d, want 0", got[1].Is30dReadmission)
	}
}

func TestWriteParquetEmptyTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.parquet")
	if err := WriteParquet(path, []model.EventRow(nil)); err != nil {
		t.Fatalf("WriteParquet: %v", err)
	}
	got, err := parquet.ReadFile[model.EventRow](path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("parquet has %d rows, want 0", len(got))
	}
}
