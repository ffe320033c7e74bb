package analytics

import (
	"testing"

	"readmitstats/model"
)

// sequenceOrFail runs Sequence and fails the test on error.
func sequenceOrFail(t *testing.T, admissions []model.Admission) []model.SequencedAdmission {
	t.Helper()
	seq, err := Sequence(admissions)
	if err != nil {
		t.Fatalf("Sequence: %v", err)
	}
	return seq
}

func TestClassifyWindowBoundaries(t *testing.T) {
	// Index stay discharges 2024-01-10; the successor's admit date moves the
	// gap across the window edges.
	tests := []struct {
		name      string
		nextAdmit string
		wantDays  int
		wantQual  bool
	}{
		{"same day", "2024-01-10", 0, false},
		{"lower edge", "2024-01-11", 1, true},
		{"upper edge", "2024-02-09", 30, true},
		{"just outside", "2024-02-10", 31, false},
		{"overlapping stays", "2024-01-08", -2, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq := sequenceOrFail(t, []model.Admission{
				adm(t, "A001", "M1", "2024-01-01", "2024-01-10", "CHF", true, 10000),
				adm(t, "A002", "M1", tt.nextAdmit, "2024-03-01", "CHF", false, 9000),
			})
			annotated, events := Classify(seq, DefaultWindowDays)

			if len(events) != 1 {
				t.Fatalf("len(events) = %d, want 1", len(events))
			}
			ev := events[0]
			if ev.DaysToReadmit != tt.wantDays {
				t.Errorf("DaysToReadmit = %d, want %d", ev.DaysToReadmit, tt.wantDays)
			}
			if ev.IsQualifying != tt.wantQual {
				t.Errorf("IsQualifying = %v, want %v", ev.IsQualifying, tt.wantQual)
			}
			// The index carried the preventable flag, so preventable tracks
			// qualifying exactly.
			if ev.IsPreventableQualifying != tt.wantQual {
				t.Errorf("IsPreventableQualifying = %v, want %v", ev.IsPreventableQualifying, tt.wantQual)
			}

			idx := annotated[0]
			if idx.DaysToNextAdmit == nil || *idx.DaysToNextAdmit != tt.wantDays {
				t.Errorf("annotated gap = %v, want %d", idx.DaysToNextAdmit, tt.wantDays)
			}
			if idx.Is30dReadmission != tt.wantQual {
				t.Errorf("annotated Is30dReadmission = %v, want %v", idx.Is30dReadmission, tt.wantQual)
			}
		})
	}
}

func TestClassifyTwoMemberCohort(t *testing.T) {
	// M1 is readmitted 15 days after discharge from a preventable index stay;
	// M2 has a single stay and produces no event.
	seq := sequenceOrFail(t, []model.Admission{
		adm(t, "A", "M1", "2024-01-01", "2024-01-05", "CHF", true, 10000),
		adm(t, "B", "M1", "2024-01-20", "2024-01-24", "COPD", false, 12000),
		adm(t, "C", "M2", "2024-02-01", "2024-02-03", "HTN", false, 5000),
	})
	annotated, events := Classify(seq, DefaultWindowDays)

	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}
	ev := events[0]
	if ev.MemberID != "M1" || ev.IndexAdmissionID != "A" || ev.NextAdmissionID != "B" {
		t.Fatalf("event pair = %s: %s -> %s, want M1: A -> B", ev.MemberID, ev.IndexAdmissionID, ev.NextAdmissionID)
	}
	if ev.DaysToReadmit != 15 {
		t.Errorf("DaysToReadmit = %d, want 15", ev.DaysToReadmit)
	}
	if !ev.IsQualifying || !ev.IsPreventableQualifying {
		t.Errorf("qualifying/preventable = %v/%v, want true/true", ev.IsQualifying, ev.IsPreventableQualifying)
	}

	// The successor stay is joined into the event.
	if ev.ReadmitConditionGroup != "COPD" {
		t.Errorf("ReadmitConditionGroup = %q, want COPD", ev.ReadmitConditionGroup)
	}
	if ev.ReadmitPaidAmount != 12000 {
		t.Errorf("ReadmitPaidAmount = %.2f, want 12000", ev.ReadmitPaidAmount)
	}
	if ev.EventTotalPaid != 22000 {
		t.Errorf("EventTotalPaid = %.2f, want 22000", ev.EventTotalPaid)
	}

	// Annotation: only M1's first stay gains a gap.
	if annotated[0].DaysToNextAdmit == nil || *annotated[0].DaysToNextAdmit != 15 {
		t.Errorf("A gap = %v, want 15", annotated[0].DaysToNextAdmit)
	}
	for _, i := range []int{1, 2} {
		if annotated[i].DaysToNextAdmit != nil || annotated[i].Is30dReadmission {
			t.Errorf("%s annotated as readmission source, want none", annotated[i].AdmissionID)
		}
	}
}

func TestClassifyPreventableFollowsIndexStay(t *testing.T) {
	// Only the index stay's flag matters: a preventable successor after a
	// non-preventable index does not make the event preventable.
	seq := sequenceOrFail(t, []model.Admission{
		adm(t, "A001", "M1", "2024-01-01", "2024-01-05", "CHF", false, 10000),
		adm(t, "A002", "M1", "2024-01-15", "2024-01-18", "CHF", true, 8000),
	})
	_, events := Classify(seq, DefaultWindowDays)
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}
	if !events[0].IsQualifying {
		t.Fatalf("IsQualifying = false, want true")
	}
	if events[0].IsPreventableQualifying {
		t.Errorf("IsPreventableQualifying = true, want false")
	}
	if !events[0].ReadmitPreventableProxy {
		t.Errorf("ReadmitPreventableProxy = false, want true")
	}
}

func TestClassifyCustomWindow(t *testing.T) {
	seq := sequenceOrFail(t, []model.Admission{
		adm(t, "A001", "M1", "2024-01-01", "2024-01-05", "CHF", true, 10000),
		adm(t, "A002", "M1", "2024-01-25", "2024-01-28", "CHF", false, 8000),
	})

	// Gap is 20 days: inside the default window, outside a 14-day one.
	_, events := Classify(seq, 14)
	if events[0].IsQualifying {
		t.Errorf("20-day gap qualifies in a 14-day window")
	}

	// Non-positive window falls back to the default.
	_, events = Classify(seq, 0)
	if !events[0].IsQualifying {
		t.Errorf("20-day gap does not qualify in the default window")
	}
}

func TestClassifyDoesNotMutateInput(t *testing.T) {
	seq := sequenceOrFail(t, []model.Admission{
		adm(t, "A001", "M1", "2024-01-01", "2024-01-05", "CHF", true, 10000),
		adm(t, "A002", "M1", "2024-01-15", "2024-01-18", "CHF", false, 8000),
	})
	Classify(seq, DefaultWindowDays)
	if seq[0].DaysToNextAdmit != nil || seq[0].Is30dReadmission {
		t.Errorf("Classify annotated its input slice")
	}
}

func TestClassifyEmptyInput(t *testing.T) {
	annotated, events := Classify(nil, DefaultWindowDays)
	if len(annotated) != 0 || len(events) != 0 {
		t.Errorf("Classify(nil) = %d annotated, %d events, want 0, 0", len(annotated), len(events))
	}
}
