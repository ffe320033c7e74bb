package analytics

import (
	"math"
	"testing"

	"readmitstats/model"
)

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.01
}

// cohortFixture builds a small mixed cohort:
//
//	M1: CHF preventable stay readmitted after 15 days (qualifying, preventable)
//	M2: COPD stay readmitted after 17 days (qualifying, not preventable)
//	M3: single stay with no condition group
//	M4: single CHF stay, never readmitted
func cohortFixture(t *testing.T) ([]model.SequencedAdmission, []model.ReadmissionEvent) {
	t.Helper()
	seq := sequenceOrFail(t, []model.Admission{
		adm(t, "A1", "M1", "2024-01-01", "2024-01-05", "CHF", true, 10000),
		adm(t, "A2", "M1", "2024-01-20", "2024-01-24", "CHF", false, 12000),
		adm(t, "B1", "M2", "2024-02-01", "2024-02-03", "COPD", false, 8000),
		adm(t, "B2", "M2", "2024-02-20", "2024-02-22", "COPD", false, 9000),
		adm(t, "C1", "M3", "2024-03-01", "2024-03-02", "", false, 5000),
		adm(t, "D1", "M4", "2024-04-01", "2024-04-03", "CHF", false, 7000),
	})
	annotated, events := Classify(seq, DefaultWindowDays)
	return annotated, events
}

func TestAggregateByConditionGroup(t *testing.T) {
	seq, events := cohortFixture(t)
	rows := Aggregate(seq, events, ByConditionGroup)

	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want 3", len(rows))
	}

	// ── CHF: one preventable-qualifying event, sorted first ─────────────
	chf := rows[0]
	if chf.Key != "CHF" {
		t.Fatalf("rows[0].Key = %q, want CHF", chf.Key)
	}
	if chf.TotalAdmissions != 3 {
		t.Errorf("CHF TotalAdmissions = %d, want 3", chf.TotalAdmissions)
	}
	if chf.QualifyingReadmissions != 1 || chf.PreventableQualifying != 1 {
		t.Errorf("CHF qualifying/preventable = %d/%d, want 1/1",
			chf.QualifyingReadmissions, chf.PreventableQualifying)
	}
	if !approxEqual(chf.ReadmissionRate, 1.0/3.0) {
		t.Errorf("CHF ReadmissionRate = %f, want %f", chf.ReadmissionRate, 1.0/3.0)
	}
	if !approxEqual(chf.PreventableShare, 1.0) {
		t.Errorf("CHF PreventableShare = %f, want 1.0", chf.PreventableShare)
	}
	// Avoidable paid is the successor stay's cost, not the index stay's.
	if !approxEqual(chf.AvoidablePaid, 12000) {
		t.Errorf("CHF AvoidablePaid = %.2f, want 12000", chf.AvoidablePaid)
	}
	if !approxEqual(chf.TotalPaidAmount, 29000) {
		t.Errorf("CHF TotalPaidAmount = %.2f, want 29000", chf.TotalPaidAmount)
	}
	if !approxEqual(chf.AvgPaidAmount, 29000.0/3.0) {
		t.Errorf("CHF AvgPaidAmount = %.2f, want %.2f", chf.AvgPaidAmount, 29000.0/3.0)
	}

	// ── COPD: qualifying but not preventable, so nothing avoidable ──────
	copd := rows[1]
	if copd.Key != "COPD" {
		t.Fatalf("rows[1].Key = %q, want COPD", copd.Key)
	}
	if copd.QualifyingReadmissions != 1 || copd.PreventableQualifying != 0 {
		t.Errorf("COPD qualifying/preventable = %d/%d, want 1/0",
			copd.QualifyingReadmissions, copd.PreventableQualifying)
	}
	if copd.AvoidablePaid != 0 {
		t.Errorf("COPD AvoidablePaid = %.2f, want 0", copd.AvoidablePaid)
	}
	if !approxEqual(copd.ReadmissionRate, 0.5) {
		t.Errorf("COPD ReadmissionRate = %f, want 0.5", copd.ReadmissionRate)
	}

	// ── Missing key routed to the unknown bucket, never dropped ─────────
	unk := rows[2]
	if unk.Key != model.UnknownGroup {
		t.Fatalf("rows[2].Key = %q, want %q", unk.Key, model.UnknownGroup)
	}
	if unk.TotalAdmissions != 1 || unk.QualifyingReadmissions != 0 {
		t.Errorf("unknown bucket = %d admissions, %d qualifying, want 1, 0",
			unk.TotalAdmissions, unk.QualifyingReadmissions)
	}
}

func TestAggregateConservesAdmissionCount(t *testing.T) {
	seq, events := cohortFixture(t)
	for _, dim := range []Dimension{ByConditionGroup, ByHospital, ByMember, Global} {
		rows := Aggregate(seq, events, dim)
		var total int
		for _, row := range rows {
			total += row.TotalAdmissions
		}
		if total != len(seq) {
			t.Errorf("%s: sum(TotalAdmissions) = %d, want %d", dim.Name, total, len(seq))
		}
	}
}

func TestAggregateGlobalDimension(t *testing.T) {
	seq, events := cohortFixture(t)
	rows := Aggregate(seq, events, Global)
	if len(rows) != 1 {
		t.Fatalf("len(rows) = %d, want 1", len(rows))
	}
	if rows[0].Key != "ALL" {
		t.Errorf("Key = %q, want ALL", rows[0].Key)
	}
	if rows[0].TotalAdmissions != 6 || rows[0].QualifyingReadmissions != 2 || rows[0].PreventableQualifying != 1 {
		t.Errorf("global row = %d/%d/%d, want 6/2/1",
			rows[0].TotalAdmissions, rows[0].QualifyingReadmissions, rows[0].PreventableQualifying)
	}
}

func TestAggregateSortOrder(t *testing.T) {
	// Three groups engineered so preventable counts are 2, 1, 1: the tie
	// between the two single-preventable groups breaks on key ascending.
	seq := sequenceOrFail(t, []model.Admission{
		// ZETA: two preventable-qualifying events.
		adm(t, "Z1", "M1", "2024-01-01", "2024-01-02", "ZETA", true, 100),
		adm(t, "Z2", "M1", "2024-01-10", "2024-01-11", "ZETA", true, 100),
		adm(t, "Z3", "M1", "2024-01-20", "2024-01-21", "ZETA", false, 100),
		// BETA and ALPHA: one each.
		adm(t, "B1", "M2", "2024-02-01", "2024-02-02", "BETA", true, 100),
		adm(t, "B2", "M2", "2024-02-10", "2024-02-11", "BETA", false, 100),
		adm(t, "A1", "M3", "2024-03-01", "2024-03-02", "ALPHA", true, 100),
		adm(t, "A2", "M3", "2024-03-10", "2024-03-11", "ALPHA", false, 100),
	})
	annotated, events := Classify(seq, DefaultWindowDays)
	rows := Aggregate(annotated, events, ByConditionGroup)

	want := []string{"ZETA", "ALPHA", "BETA"}
	if len(rows) != len(want) {
		t.Fatalf("len(rows) = %d, want %d", len(rows), len(want))
	}
	for i, key := range want {
		if rows[i].Key != key {
			t.Errorf("rows[%d].Key = %q, want %q", i, rows[i].Key, key)
		}
	}
}

func TestAggregateEmptyInput(t *testing.T) {
	rows := Aggregate(nil, nil, ByConditionGroup)
	if len(rows) != 0 {
		t.Errorf("len(rows) = %d, want 0", len(rows))
	}
}

func TestSortByRate(t *testing.T) {
	rows := []model.AggregateRow{
		{Key: "H02", ReadmissionRate: 0.10},
		{Key: "H03", ReadmissionRate: 0.25},
		{Key: "H01", ReadmissionRate: 0.10},
	}
	SortByRate(rows)
	want := []string{"H03", "H01", "H02"}
	for i, key := range want {
		if rows[i].Key != key {
			t.Errorf("rows[%d].Key = %q, want %q", i, rows[i].Key, key)
		}
	}
}
