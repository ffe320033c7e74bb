package analytics

import (
	"testing"

	"readmitstats/model"
)

func TestBuildKPI(t *testing.T) {
	seq, events := cohortFixture(t)
	risk := []model.RiskScore{
		{MemberID: "M1", Tier: model.TierHigh},
		{MemberID: "M2", Tier: model.TierHigh},
		{MemberID: "M3", Tier: model.TierMedium},
		{MemberID: "M4", Tier: model.TierLow},
	}
	asOf := mustDate(t, "2024-04-03")

	kpi := BuildKPI(seq, events, risk, asOf)

	if !kpi.AsOfDate.Equal(asOf) {
		t.Errorf("AsOfDate = %v, want %v", kpi.AsOfDate, asOf)
	}
	if kpi.TotalAdmissions != 6 {
		t.Errorf("TotalAdmissions = %d, want 6", kpi.TotalAdmissions)
	}
	if kpi.Readmissions30d != 2 {
		t.Errorf("Readmissions30d = %d, want 2", kpi.Readmissions30d)
	}
	if kpi.ReadmissionRate30d != 0.3333 {
		t.Errorf("ReadmissionRate30d = %v, want 0.3333", kpi.ReadmissionRate30d)
	}
	if !approxEqual(kpi.TotalInpatientPaid, 51000) {
		t.Errorf("TotalInpatientPaid = %.2f, want 51000", kpi.TotalInpatientPaid)
	}
	// Only the CHF readmission was preventable; its successor stay cost 12000.
	if !approxEqual(kpi.PreventableReadmitPaid, 12000) {
		t.Errorf("PreventableReadmitPaid = %.2f, want 12000", kpi.PreventableReadmitPaid)
	}
	// Mean successor-stay cost over both qualifying events.
	if !approxEqual(kpi.AvgReadmissionPaid, 10500) {
		t.Errorf("AvgReadmissionPaid = %.2f, want 10500", kpi.AvgReadmissionPaid)
	}
	if kpi.HighRiskMembers != 2 {
		t.Errorf("HighRiskMembers = %d, want 2", kpi.HighRiskMembers)
	}
}

func TestBuildKPIEmptyInput(t *testing.T) {
	kpi := BuildKPI(nil, nil, nil, mustDate(t, "2024-01-01"))
	if kpi.TotalAdmissions != 0 || kpi.Readmissions30d != 0 {
		t.Errorf("empty kpi counts = %d/%d, want 0/0", kpi.TotalAdmissions, kpi.Readmissions30d)
	}
	if kpi.ReadmissionRate30d != 0 || kpi.AvgReadmissionPaid != 0 {
		t.Errorf("empty kpi rates = %v/%v, want 0/0", kpi.ReadmissionRate30d, kpi.AvgReadmissionPaid)
	}
}

func TestDefaultAsOf(t *testing.T) {
	admissions := []model.Admission{
		adm(t, "A1", "M1", "2024-01-01", "2024-01-05", "CHF", false, 100),
		adm(t, "A2", "M1", "2024-04-01", "2024-04-03", "CHF", false, 100),
		adm(t, "A3", "M2", "2024-02-15", "2024-02-16", "COPD", false, 100),
	}
	got := DefaultAsOf(admissions)
	if !got.Equal(mustDate(t, "2024-04-01")) {
		t.Errorf("DefaultAsOf = %v, want 2024-04-01", got)
	}
	if !DefaultAsOf(nil).IsZero() {
		t.Errorf("DefaultAsOf(nil) is not zero")
	}
}
