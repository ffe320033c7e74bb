package synth

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"readmitstats/model"
)

func testConfig(members int, seed int64) Config {
	return Config{
		Members: members,
		Start:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:     time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		Seed:    seed,
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a := Generate(testConfig(150, 42))
	b := Generate(testConfig(150, 42))
	if !reflect.DeepEqual(a, b) {
		t.Fatal("same seed produced different cohorts")
	}

	c := Generate(testConfig(150, 43))
	if reflect.DeepEqual(a.Members, c.Members) {
		t.Error("different seeds produced identical members")
	}
}

func TestGenerateMembers(t *testing.T) {
	cohort := Generate(testConfig(200, 7))
	if len(cohort.Members) != 200 {
		t.Fatalf("got %d members, want 200", len(cohort.Members))
	}

	seen := make(map[string]bool)
	plans := map[string]bool{"HMO": true, "PPO": true, "Medicare Advantage": true}
	for i, m := range cohort.Members {
		if seen[m.MemberID] {
			t.Fatalf("duplicate member id %s", m.MemberID)
		}
		seen[m.MemberID] = true
		if !strings.HasPrefix(m.MemberID, "M") || len(m.MemberID) != 8 {
			t.Errorf("member[%d] id = %q, want M-prefixed 7-digit id", i, m.MemberID)
		}
		if m.Age < 18 || m.Age > 90 {
			t.Errorf("%s age = %d, want 18..90", m.MemberID, m.Age)
		}
		if m.Sex != "F" && m.Sex != "M" {
			t.Errorf("%s sex = %q", m.MemberID, m.Sex)
		}
		if m.SDI < 0 || m.SDI > 1 {
			t.Errorf("%s sdi = %v, want [0,1]", m.MemberID, m.SDI)
		}
		if !plans[m.PlanType] {
			t.Errorf("%s plan = %q", m.MemberID, m.PlanType)
		}
		if m.ChronicCount < 0 || m.ChronicCount > 6 {
			t.Errorf("%s chronic = %d, want 0..6", m.MemberID, m.ChronicCount)
		}
	}
}

func TestGenerateAdmissions(t *testing.T) {
	cfg := testConfig(200, 7)
	cohort := Generate(cfg)
	if len(cohort.Admissions) == 0 {
		t.Fatal("cohort has no admissions")
	}

	memberSet := make(map[string]bool, len(cohort.Members))
	for _, m := range cohort.Members {
		memberSet[m.MemberID] = true
	}
	// Injected readmissions start at most gap (30) days after a discharge
	// that is itself within two days of the calendar end.
	latestAdmit := cfg.End.AddDate(0, 0, 28)

	ids := make(map[string]bool)
	for i, a := range cohort.Admissions {
		if ids[a.AdmissionID] {
			t.Fatalf("duplicate admission id %s", a.AdmissionID)
		}
		ids[a.AdmissionID] = true
		if !memberSet[a.MemberID] {
			t.Errorf("%s references unknown member %s", a.AdmissionID, a.MemberID)
		}
		if a.AdmitDate.Before(cfg.Start) || a.AdmitDate.After(latestAdmit) {
			t.Errorf("%s admit %s outside calendar", a.AdmissionID, model.FormatDate(a.AdmitDate))
		}
		if a.DischargeDate.Before(a.AdmitDate) {
			t.Errorf("%s discharged before admit", a.AdmissionID)
		}
		if got := model.DaysBetween(a.AdmitDate, a.DischargeDate); got != a.LengthOfStay {
			t.Errorf("%s LOS = %d, dates say %d", a.AdmissionID, a.LengthOfStay, got)
		}
		if a.LengthOfStay < 1 || a.LengthOfStay > 18 {
			t.Errorf("%s LOS = %d, want 1..18", a.AdmissionID, a.LengthOfStay)
		}
		if a.PaidAmount < 1700 || a.PaidAmount > 95000 {
			t.Errorf("%s paid = %v, want [1700,95000]", a.AdmissionID, a.PaidAmount)
		}
		if conditionByGroup(a.ConditionGroup) == nil {
			t.Errorf("%s condition group %q not in catalog", a.AdmissionID, a.ConditionGroup)
		}
		if a.PrimaryICD10 == "" || a.DRG == "" || a.HospitalID == "" || a.AttendingProviderID == "" {
			t.Errorf("%s missing clinical identifiers", a.AdmissionID)
		}
		if i > 0 {
			prev := cohort.Admissions[i-1]
			if prev.MemberID > a.MemberID {
				t.Fatalf("admissions not sorted by member at %d", i)
			}
			if prev.MemberID == a.MemberID && prev.AdmitDate.After(a.AdmitDate) {
				t.Fatalf("admissions not sorted by admit date at %d", i)
			}
		}
	}
}

func TestGenerateClaims(t *testing.T) {
	cfg := testConfig(200, 7)
	cohort := Generate(cfg)

	outpatientPerMember := make(map[string]int)
	var inpatient int
	ids := make(map[string]bool)
	for _, c := range cohort.Claims {
		if ids[c.ClaimID] {
			t.Fatalf("duplicate claim id %s", c.ClaimID)
		}
		ids[c.ClaimID] = true
		switch c.ClaimType {
		case "OUTPATIENT":
			outpatientPerMember[c.MemberID]++
			if c.CPT == "" {
				t.Errorf("%s outpatient claim without CPT", c.ClaimID)
			}
			if c.PaidAmount < 10 || c.PaidAmount > 1200 {
				t.Errorf("%s paid = %v, want [10,1200]", c.ClaimID, c.PaidAmount)
			}
			if c.ClaimDate.Before(cfg.Start) || c.ClaimDate.After(cfg.End) {
				t.Errorf("%s claim date %s outside calendar", c.ClaimID, model.FormatDate(c.ClaimDate))
			}
		case "INPATIENT":
			inpatient++
			if c.CPT != "" {
				t.Errorf("%s inpatient claim carries CPT %q", c.ClaimID, c.CPT)
			}
		default:
			t.Errorf("%s claim type = %q", c.ClaimID, c.ClaimType)
		}
	}

	if inpatient != len(cohort.Admissions) {
		t.Errorf("got %d inpatient claims, want one per admission (%d)", inpatient, len(cohort.Admissions))
	}
	if len(outpatientPerMember) != len(cohort.Members) {
		t.Errorf("got outpatient claims for %d members, want all %d", len(outpatientPerMember), len(cohort.Members))
	}
	for member, n := range outpatientPerMember {
		if n < 2 || n > 40 {
			t.Errorf("%s has %d outpatient claims, want 2..40", member, n)
		}
	}
}

func TestGenerateEmpty(t *testing.T) {
	cohort := Generate(testConfig(0, 1))
	if len(cohort.Members) != 0 || len(cohort.Admissions) != 0 || len(cohort.Claims) != 0 {
		t.Fatalf("empty config produced %d/%d/%d rows", len(cohort.Members), len(cohort.Admissions), len(cohort.Claims))
	}
}
