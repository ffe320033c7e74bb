// Package analytics implements the readmissions pipeline core: per-member
// admission sequencing, readmission-window classification, grouped
// aggregation, risk scoring, and intervention ROI simulation. Everything here
// is a pure, single-pass transform over in-memory tables; reading and writing
// the tables is the dataset package's job.
package analytics

import (
	"fmt"
	"sort"

	"readmitstats/model"
)

// Sequence orders admissions per member and pairs each with its successor.
//
// Admissions are sorted by (member_id, admit_date, admission_id); the
// admission_id tie-break makes pairing deterministic when a member has two
// stays admitted the same day. Within a member, every admission except the
// last gets its successor's id and admit date; the last gets nil successor
// fields. The input order never affects the output.
func Sequence(admissions []model.Admission) ([]model.SequencedAdmission, error) {
	seen := make(map[string]struct{}, len(admissions))
	for i := range admissions {
		a := &admissions[i]
		if a.MemberID == "" {
			return nil, fmt.Errorf("%w: admission %q has no member_id", model.ErrInvalidRecord, a.AdmissionID)
		}
		if a.AdmitDate.IsZero() {
			return nil, fmt.Errorf("%w: admission %q has no admit_date", model.ErrInvalidRecord, a.AdmissionID)
		}
		if _, dup := seen[a.AdmissionID]; dup {
			return nil, fmt.Errorf("%w: duplicate admission_id %q", model.ErrInvalidRecord, a.AdmissionID)
		}
		seen[a.AdmissionID] = struct{}{}
	}

	seq := make([]model.SequencedAdmission, len(admissions))
	for i, a := range admissions {
		seq[i] = model.SequencedAdmission{Admission: a}
	}
	sort.Slice(seq, func(i, j int) bool {
		if seq[i].MemberID != seq[j].MemberID {
			return seq[i].MemberID < seq[j].MemberID
		}
		if !seq[i].AdmitDate.Equal(seq[j].AdmitDate) {
			return seq[i].AdmitDate.Before(seq[j].AdmitDate)
		}
		return seq[i].AdmissionID < seq[j].AdmissionID
	})

	for i := range seq {
		if i+1 >= len(seq) || seq[i+1].MemberID != seq[i].MemberID {
			continue // last admission for this member
		}
		next := seq[i+1].Admission
		id := next.AdmissionID
		date := next.AdmitDate
		seq[i].NextAdmissionID = &id
		seq[i].NextAdmitDate = &date
	}
	return seq, nil
}

// Pairs extracts the index/successor pairs from a sequenced collection.
// Admissions without a successor produce no pair.
func Pairs(seq []model.SequencedAdmission) []model.SequencedPair {
	pairs := make([]model.SequencedPair, 0, len(seq))
	for i := range seq {
		sa := &seq[i]
		if sa.NextAdmissionID == nil || sa.NextAdmitDate == nil {
			continue
		}
		pairs = append(pairs, model.SequencedPair{
			MemberID:            sa.MemberID,
			IndexAdmissionID:    sa.AdmissionID,
			IndexConditionGroup: sa.ConditionGroup,
			IndexHospitalID:     sa.HospitalID,
			PreventableProxy:    sa.PreventableProxy,
			DischargeDate:       sa.DischargeDate,
			NextAdmissionID:     *sa.NextAdmissionID,
			NextAdmitDate:       *sa.NextAdmitDate,
		})
	}
	return pairs
}
