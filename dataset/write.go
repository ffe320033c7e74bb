package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"readmitstats/model"
)

// writeCSV writes one flat table: a header row plus n records from record(i).
func writeCSV(path string, header []string, n int, record func(i int) []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	for i := 0; i < n; i++ {
		if err := w.Write(record(i)); err != nil {
			f.Close()
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return f.Close()
}

func itoa(n int) string { return strconv.Itoa(n) }

func itoa32(n int32) string { return strconv.FormatInt(int64(n), 10) }

// fmtNum prints a float with minimal digits: rates, scores, indexes.
func fmtNum(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// fmtMoney prints a currency amount with fixed cents.
func fmtMoney(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

func flag01(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func optStr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optI32(n *int32) string {
	if n == nil {
		return ""
	}
	return itoa32(*n)
}

// ── raw tables ──────────────────────────────────────────────────────────────

// WriteMembersCSV writes a raw members table.
func WriteMembersCSV(path string, members []model.Member) error {
	header := []string{"member_id", "age", "sex", "state", "sdi", "plan_type", "chronic_count"}
	return writeCSV(path, header, len(members), func(i int) []string {
		m := members[i]
		return []string{
			m.MemberID,
			itoa(m.Age),
			m.Sex,
			m.State,
			fmtNum(m.SDI),
			m.PlanType,
			itoa(m.ChronicCount),
		}
	})
}

// WriteAdmissionsCSV writes a raw admissions table.
func WriteAdmissionsCSV(path string, admissions []model.Admission) error {
	header := []string{
		"admission_id", "member_id", "hospital_id", "attending_provider_id",
		"admit_date", "discharge_date", "length_of_stay",
		"primary_condition_group", "primary_icd10", "drg",
		"preventable_proxy", "followup_within_7d", "inpatient_paid_amount",
	}
	return writeCSV(path, header, len(admissions), func(i int) []string {
		a := admissions[i]
		return []string{
			a.AdmissionID,
			a.MemberID,
			a.HospitalID,
			a.AttendingProviderID,
			model.FormatDate(a.AdmitDate),
			model.FormatDate(a.DischargeDate),
			itoa(a.LengthOfStay),
			a.ConditionGroup,
			a.PrimaryICD10,
			a.DRG,
			flag01(a.PreventableProxy),
			flag01(a.FollowupWithin7d),
			fmtMoney(a.PaidAmount),
		}
	})
}

// WriteClaimsCSV writes a raw claims table.
func WriteClaimsCSV(path string, claims []model.Claim) error {
	header := []string{
		"claim_id", "member_id", "claim_date", "claim_type",
		"provider_id", "cpt", "icd10", "paid_amount",
	}
	return writeCSV(path, header, len(claims), func(i int) []string {
		c := claims[i]
		return []string{
			c.ClaimID,
			c.MemberID,
			model.FormatDate(c.ClaimDate),
			c.ClaimType,
			c.ProviderID,
			c.CPT,
			c.ICD10,
			fmtMoney(c.PaidAmount),
		}
	})
}

// ── processed tables ────────────────────────────────────────────────────────

// WriteEnrichedCSV writes admissions_enriched.
func WriteEnrichedCSV(path string, rows []model.EnrichedAdmissionRow) error {
	header := []string{
		"admission_id", "member_id", "hospital_id", "attending_provider_id",
		"admit_date", "discharge_date", "length_of_stay",
		"primary_condition_group", "primary_icd10", "drg",
		"preventable_proxy", "followup_within_7d", "inpatient_paid_amount",
		"next_admission_id", "next_admit_date", "days_to_next_admit",
		"is_30d_readmission",
	}
	return writeCSV(path, header, len(rows), func(i int) []string {
		r := rows[i]
		return []string{
			r.AdmissionID,
			r.MemberID,
			r.HospitalID,
			r.AttendingProviderID,
			r.AdmitDate,
			r.DischargeDate,
			itoa32(r.LengthOfStay),
			r.ConditionGroup,
			r.PrimaryICD10,
			r.DRG,
			itoa32(r.PreventableProxy),
			itoa32(r.FollowupWithin7d),
			fmtMoney(r.PaidAmount),
			optStr(r.NextAdmissionID),
			optStr(r.NextAdmitDate),
			optI32(r.DaysToNextAdmit),
			itoa32(r.Is30dReadmission),
		}
	})
}

// WriteEventsCSV writes readmission_events.
func WriteEventsCSV(path string, rows []model.EventRow) error {
	header := []string{
		"member_id", "index_admission_id", "index_discharge_date",
		"next_admission_id", "next_admit_date", "days_to_readmit",
		"index_condition_group", "index_hospital_id",
		"index_inpatient_paid_amount", "index_preventable_proxy",
		"index_followup_within_7d", "readmit_condition_group",
		"readmit_preventable_proxy", "readmit_inpatient_paid_amount",
		"is_30d_readmission", "is_preventable_readmission",
		"readmission_event_total_paid",
	}
	return writeCSV(path, header, len(rows), func(i int) []string {
		r := rows[i]
		return []string{
			r.MemberID,
			r.IndexAdmissionID,
			r.IndexDischargeDate,
			r.NextAdmissionID,
			r.NextAdmitDate,
			itoa32(r.DaysToReadmit),
			r.IndexConditionGroup,
			r.IndexHospitalID,
			fmtMoney(r.IndexPaidAmount),
			itoa32(r.IndexPreventableProxy),
			itoa32(r.IndexFollowupWithin7d),
			r.ReadmitConditionGroup,
			itoa32(r.ReadmitPreventableProxy),
			fmtMoney(r.ReadmitPaidAmount),
			itoa32(r.IsQualifying),
			itoa32(r.IsPreventableQualifying),
			fmtMoney(r.EventTotalPaid),
		}
	})
}

// WriteDiagnosisSummaryCSV writes diagnosis_summary.
func WriteDiagnosisSummaryCSV(path string, rows []model.DiagnosisSummaryRow) error {
	header := []string{
		"primary_condition_group", "admissions", "readmissions_30d",
		"avg_inpatient_paid", "readmission_rate_30d",
		"preventable_readmission_events", "total_readmission_events",
		"avoidable_paid", "preventable_share_of_readmissions",
	}
	return writeCSV(path, header, len(rows), func(i int) []string {
		r := rows[i]
		return []string{
			r.ConditionGroup,
			itoa32(r.Admissions),
			itoa32(r.Readmissions30d),
			fmtMoney(r.AvgInpatientPaid),
			fmtNum(r.ReadmissionRate30d),
			itoa32(r.PreventableReadmEvents),
			itoa32(r.TotalReadmEvents),
			fmtMoney(r.AvoidablePaid),
			fmtNum(r.PreventableShare),
		}
	})
}

// WriteHospitalSummaryCSV writes hospital_summary.
func WriteHospitalSummaryCSV(path string, rows []model.HospitalSummaryRow) error {
	header := []string{
		"hospital_id", "admissions", "readmissions_30d", "avg_paid",
		"readmission_rate_30d",
	}
	return writeCSV(path, header, len(rows), func(i int) []string {
		r := rows[i]
		return []string{
			r.HospitalID,
			itoa32(r.Admissions),
			itoa32(r.Readmissions30d),
			fmtMoney(r.AvgPaid),
			fmtNum(r.ReadmissionRate30d),
		}
	})
}

// WriteKPICSV writes the single-row kpi_summary.
func WriteKPICSV(path string, row model.KPIRow) error {
	header := []string{
		"as_of_date", "total_admissions", "readmissions_30d",
		"readmission_rate_30d", "total_inpatient_paid",
		"preventable_readmission_paid", "avg_readmission_paid",
		"high_risk_members",
	}
	return writeCSV(path, header, 1, func(int) []string {
		return []string{
			row.AsOfDate,
			itoa32(row.TotalAdmissions),
			itoa32(row.Readmissions30d),
			fmtNum(row.ReadmissionRate30d),
			fmtMoney(row.TotalInpatientPaid),
			fmtMoney(row.PreventableReadmitPaid),
			fmtMoney(row.AvgReadmissionPaid),
			itoa32(row.HighRiskMembers),
		}
	})
}

// WriteRiskScoresCSV writes patient_risk_scores.
func WriteRiskScoresCSV(path string, rows []model.RiskScoreRow) error {
	header := []string{
		"member_id", "age", "sex", "state", "plan_type", "sdi",
		"chronic_count", "prior_admissions_12m", "ed_visits_12m",
		"outpatient_visits_12m", "no_followup_rate",
		"readmission_risk_score", "risk_tier",
	}
	return writeCSV(path, header, len(rows), func(i int) []string {
		r := rows[i]
		return []string{
			r.MemberID,
			itoa32(r.Age),
			r.Sex,
			r.State,
			r.PlanType,
			fmtNum(r.SDI),
			itoa32(r.ChronicCount),
			itoa32(r.PriorAdmissions12m),
			itoa32(r.EDVisits12m),
			itoa32(r.OutpatientVisits12m),
			fmtNum(r.NoFollowupRate),
			fmtNum(r.Score),
			r.Tier,
		}
	})
}

// WriteROICSV writes intervention_roi.
func WriteROICSV(path string, rows []model.ROIRow) error {
	header := []string{
		"intervention", "expected_readmission_reduction_pct",
		"avoidable_paid_baseline", "estimated_savings",
		"estimated_program_cost", "estimated_net_savings", "roi",
	}
	return writeCSV(path, header, len(rows), func(i int) []string {
		r := rows[i]
		return []string{
			r.Intervention,
			fmtNum(r.ReductionPct),
			fmtMoney(r.AvoidablePaidBaseline),
			fmtMoney(r.EstimatedSavings),
			fmtMoney(r.EstimatedProgramCost),
			fmtMoney(r.EstimatedNetSavings),
			fmtNum(r.ROI),
		}
	})
}
