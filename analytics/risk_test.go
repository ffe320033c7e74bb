package analytics

import (
	"testing"

	"readmitstats/model"
)

func TestBuildUtilizationFeaturesWindow(t *testing.T) {
	asOf := mustDate(t, "2024-12-31")

	admissions := []model.Admission{
		// Inside the window; no 7-day follow-up.
		adm(t, "A1", "M1", "2024-03-01", "2024-03-05", "CHF", false, 1000),
		// Inside; followed up.
		{
			AdmissionID: "A2", MemberID: "M1",
			AdmitDate:        mustDate(t, "2024-06-01"),
			DischargeDate:    mustDate(t, "2024-06-04"),
			FollowupWithin7d: true,
		},
		// One day before the window opens; ignored.
		adm(t, "A3", "M1", "2023-12-31", "2024-01-02", "CHF", false, 1000),
		// Window start itself is inclusive.
		adm(t, "A4", "M2", "2024-01-01", "2024-01-03", "COPD", false, 1000),
	}
	claims := []model.Claim{
		{ClaimID: "C1", MemberID: "M1", ClaimDate: mustDate(t, "2024-05-10"), ClaimType: "ED", CPT: "A0427"},
		{ClaimID: "C2", MemberID: "M1", ClaimDate: mustDate(t, "2024-07-02"), ClaimType: "OUTPATIENT", CPT: "99395"},
		{ClaimID: "C3", MemberID: "M1", ClaimDate: mustDate(t, "2024-08-15"), ClaimType: "PROFESSIONAL", CPT: "99213"},
		// ED CPT but outside the window.
		{ClaimID: "C4", MemberID: "M1", ClaimDate: mustDate(t, "2023-11-01"), ClaimType: "ED", CPT: "99214"},
	}

	feats := BuildUtilizationFeatures(admissions, claims, asOf, DefaultLookbackDays, nil)

	m1 := feats["M1"]
	if m1.PriorAdmissions12m != 2 {
		t.Errorf("M1 PriorAdmissions12m = %d, want 2", m1.PriorAdmissions12m)
	}
	if !approxEqual(m1.NoFollowupRate, 0.5) {
		t.Errorf("M1 NoFollowupRate = %f, want 0.5", m1.NoFollowupRate)
	}
	if m1.EDVisits12m != 1 {
		t.Errorf("M1 EDVisits12m = %d, want 1", m1.EDVisits12m)
	}
	if m1.OutpatientVisits12m != 1 {
		t.Errorf("M1 OutpatientVisits12m = %d, want 1", m1.OutpatientVisits12m)
	}

	m2 := feats["M2"]
	if m2.PriorAdmissions12m != 1 {
		t.Errorf("M2 PriorAdmissions12m = %d, want 1", m2.PriorAdmissions12m)
	}

	// Members with no window activity stay absent.
	if _, ok := feats["M9"]; ok {
		t.Errorf("feats contains inactive member M9")
	}
}

func TestScoreRiskNormalization(t *testing.T) {
	members := []model.Member{
		{MemberID: "M-max", Age: 90, ChronicCount: 6, SDI: 1.0},
		{MemberID: "M-mid", Age: 54, ChronicCount: 3, SDI: 0.5},
		{MemberID: "M-min", Age: 18},
	}
	feats := map[string]model.UtilizationFeatures{
		"M-max": {
			MemberID:            "M-max",
			PriorAdmissions12m:  10,
			EDVisits12m:         20,
			OutpatientVisits12m: 60,
			NoFollowupRate:      1.0,
		},
	}

	scores := ScoreRisk(members, feats)
	if len(scores) != 3 {
		t.Fatalf("len(scores) = %d, want 3", len(scores))
	}

	// Output preserves input order; the member with every component maxed
	// anchors the cohort at 100.
	if scores[0].MemberID != "M-max" || scores[0].Score != 100.0 {
		t.Errorf("M-max score = %.1f, want 100.0", scores[0].Score)
	}
	if scores[0].Tier != model.TierHigh {
		t.Errorf("M-max tier = %q, want %q", scores[0].Tier, model.TierHigh)
	}

	// M-mid: age and chronic at half weight, SDI at half; raw 0.32 of 1.0.
	if scores[1].Score != 32.0 {
		t.Errorf("M-mid score = %.1f, want 32.0", scores[1].Score)
	}
	if scores[1].Tier != model.TierLow {
		t.Errorf("M-mid tier = %q, want %q", scores[1].Tier, model.TierLow)
	}

	if scores[2].Score != 0.0 || scores[2].Tier != model.TierLow {
		t.Errorf("M-min = %.1f/%q, want 0.0/%q", scores[2].Score, scores[2].Tier, model.TierLow)
	}
}

func TestScoreRiskClipsComponents(t *testing.T) {
	// Values beyond the clinical range score the same as the range edge.
	members := []model.Member{
		{MemberID: "M-edge", Age: 90, ChronicCount: 6, SDI: 1.0},
		{MemberID: "M-over", Age: 104, ChronicCount: 9, SDI: 1.0},
	}
	feats := map[string]model.UtilizationFeatures{
		"M-edge": {PriorAdmissions12m: 10, EDVisits12m: 20},
		"M-over": {PriorAdmissions12m: 14, EDVisits12m: 31},
	}
	scores := ScoreRisk(members, feats)
	if scores[0].Score != scores[1].Score {
		t.Errorf("clipped scores differ: %.1f vs %.1f", scores[0].Score, scores[1].Score)
	}
}

func TestScoreRiskAllZeroCohort(t *testing.T) {
	members := []model.Member{
		{MemberID: "M1", Age: 18},
		{MemberID: "M2", Age: 18},
	}
	scores := ScoreRisk(members, nil)
	for _, s := range scores {
		if s.Score != 0 {
			t.Errorf("%s score = %.1f, want 0", s.MemberID, s.Score)
		}
		if s.Tier != model.TierLow {
			t.Errorf("%s tier = %q, want %q", s.MemberID, s.Tier, model.TierLow)
		}
	}
}

func TestTierBoundaries(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{0, model.TierLow},
		{33, model.TierLow},
		{33.1, model.TierMedium},
		{66, model.TierMedium},
		{66.1, model.TierHigh},
		{100, model.TierHigh},
	}
	for _, tt := range tests {
		if got := tierFor(tt.score); got != tt.want {
			t.Errorf("tierFor(%.1f) = %q, want %q", tt.score, got, tt.want)
		}
	}
}
