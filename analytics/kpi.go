package analytics

import (
	"time"

	"readmitstats/model"
)

// DefaultAsOf returns the latest admit date in the input, the reporting
// date used when the caller does not supply one. Zero time on empty input.
func DefaultAsOf(admissions []model.Admission) time.Time {
	var max time.Time
	for i := range admissions {
		if admissions[i].AdmitDate.After(max) {
			max = admissions[i].AdmitDate
		}
	}
	return max
}

// BuildKPI rolls the whole run up into the single-row executive summary.
// AvgReadmissionPaid is the mean successor-stay cost over qualifying events;
// PreventableReadmitPaid restricts the sum to preventable-qualifying events.
func BuildKPI(seq []model.SequencedAdmission, events []model.ReadmissionEvent, risk []model.RiskScore, asOf time.Time) model.KPISummary {
	kpi := model.KPISummary{AsOfDate: model.DateOnly(asOf)}

	kpi.TotalAdmissions = len(seq)
	var totalPaid float64
	for i := range seq {
		totalPaid += seq[i].PaidAmount
	}

	var qualifying int
	var readmitPaidSum, preventablePaid float64
	for i := range events {
		ev := &events[i]
		if !ev.IsQualifying {
			continue
		}
		qualifying++
		readmitPaidSum += ev.ReadmitPaidAmount
		if ev.IsPreventableQualifying {
			preventablePaid += ev.ReadmitPaidAmount
		}
	}

	kpi.Readmissions30d = qualifying
	if kpi.TotalAdmissions > 0 {
		kpi.ReadmissionRate30d = round(float64(qualifying)/float64(kpi.TotalAdmissions), 4)
	}
	kpi.TotalInpatientPaid = round(totalPaid, 2)
	kpi.PreventableReadmitPaid = round(preventablePaid, 2)
	if qualifying > 0 {
		kpi.AvgReadmissionPaid = round(readmitPaidSum/float64(qualifying), 2)
	}
	for i := range risk {
		if risk[i].Tier == model.TierHigh {
			kpi.HighRiskMembers++
		}
	}
	return kpi
}
