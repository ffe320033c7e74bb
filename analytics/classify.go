package analytics

import (
	"readmitstats/model"
)

// DefaultWindowDays is the qualifying readmission window upper bound.
const DefaultWindowDays = 30

// Classify computes the inter-admission gap for every sequenced pair and
// classifies qualifying readmissions.
//
// The gap is whole days from the index discharge to the successor admit. A
// pair qualifies iff the gap falls in the closed interval [1, windowDays]:
// same-day (0) and overlapping (negative) successors never qualify, and the
// negative gap is reported as-is rather than clamped, since it signals
// overlapping stays in the source data. A qualifying event is preventable
// iff the index admission carried the preventable proxy flag; the flag is
// passed through, never inferred.
//
// Classify returns a new annotated copy of the sequence (gap and qualifying
// flag filled in on rows with a successor) plus the per-pair event stream
// with both stays joined. Empty input yields empty outputs.
func Classify(seq []model.SequencedAdmission, windowDays int) ([]model.SequencedAdmission, []model.ReadmissionEvent) {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}

	byID := make(map[string]*model.Admission, len(seq))
	for i := range seq {
		byID[seq[i].AdmissionID] = &seq[i].Admission
	}

	annotated := make([]model.SequencedAdmission, len(seq))
	copy(annotated, seq)

	events := make([]model.ReadmissionEvent, 0, len(seq))
	for i := range annotated {
		sa := &annotated[i]
		if sa.NextAdmissionID == nil || sa.NextAdmitDate == nil {
			continue
		}

		days := model.DaysBetween(sa.DischargeDate, *sa.NextAdmitDate)
		qualifies := days >= 1 && days <= windowDays
		sa.DaysToNextAdmit = &days
		sa.Is30dReadmission = qualifies

		ev := model.ReadmissionEvent{
			MemberID:                sa.MemberID,
			IndexAdmissionID:        sa.AdmissionID,
			IndexDischargeDate:      sa.DischargeDate,
			IndexConditionGroup:     sa.ConditionGroup,
			IndexHospitalID:         sa.HospitalID,
			IndexPaidAmount:         sa.PaidAmount,
			IndexPreventableProxy:   sa.PreventableProxy,
			IndexFollowupWithin7d:   sa.FollowupWithin7d,
			NextAdmissionID:         *sa.NextAdmissionID,
			NextAdmitDate:           *sa.NextAdmitDate,
			DaysToReadmit:           days,
			IsQualifying:            qualifies,
			IsPreventableQualifying: qualifies && sa.PreventableProxy,
		}
		if next, ok := byID[ev.NextAdmissionID]; ok {
			ev.ReadmitConditionGroup = next.ConditionGroup
			ev.ReadmitPreventableProxy = next.PreventableProxy
			ev.ReadmitPaidAmount = next.PaidAmount
		}
		ev.EventTotalPaid = ev.IndexPaidAmount + ev.ReadmitPaidAmount
		events = append(events, ev)
	}
	return annotated, events
}
