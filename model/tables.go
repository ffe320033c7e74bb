package model

// Flat output-table rows. One struct per processed table, with parquet tags
// mirroring the CSV column names so the same row feeds both writers. Dates
// are ISO strings and flags are 0/1 int32 columns: the tables are consumed
// by spreadsheet users and SQL engines alike, and dictionary-encoded strings
// plus small ints compress well while staying queryable without a schema
// lookup. Successor fields on the enriched table are optional columns, nil
// for each member's last admission.

// EnrichedAdmissionRow is one row of admissions_enriched: the full input
// admission plus its successor annotation.
type EnrichedAdmissionRow struct {
	AdmissionID         string  `parquet:"admission_id"`
	MemberID            string  `parquet:"member_id"`
	HospitalID          string  `parquet:"hospital_id,optional"`
	AttendingProviderID string  `parquet:"attending_provider_id,optional"`
	AdmitDate           string  `parquet:"admit_date"`
	DischargeDate       string  `parquet:"discharge_date"`
	LengthOfStay        int32   `parquet:"length_of_stay"`
	ConditionGroup      string  `parquet:"primary_condition_group,optional"`
	PrimaryICD10        string  `parquet:"primary_icd10,optional"`
	DRG                 string  `parquet:"drg,optional"`
	PreventableProxy    int32   `parquet:"preventable_proxy"`
	FollowupWithin7d    int32   `parquet:"followup_within_7d"`
	PaidAmount          float64 `parquet:"inpatient_paid_amount"`
	NextAdmissionID     *string `parquet:"next_admission_id,optional"`
	NextAdmitDate       *string `parquet:"next_admit_date,optional"`
	DaysToNextAdmit     *int32  `parquet:"days_to_next_admit,optional"`
	Is30dReadmission    int32   `parquet:"is_30d_readmission"`
}

// NewEnrichedAdmissionRow flattens one sequenced admission.
func NewEnrichedAdmissionRow(sa SequencedAdmission) EnrichedAdmissionRow {
	row := EnrichedAdmissionRow{
		AdmissionID:         sa.AdmissionID,
		MemberID:            sa.MemberID,
		HospitalID:          sa.HospitalID,
		AttendingProviderID: sa.AttendingProviderID,
		AdmitDate:           FormatDate(sa.AdmitDate),
		DischargeDate:       FormatDate(sa.DischargeDate),
		LengthOfStay:        int32(sa.LengthOfStay),
		ConditionGroup:      sa.ConditionGroup,
		PrimaryICD10:        sa.PrimaryICD10,
		DRG:                 sa.DRG,
		PreventableProxy:    boolFlag(sa.PreventableProxy),
		FollowupWithin7d:    boolFlag(sa.FollowupWithin7d),
		PaidAmount:          sa.PaidAmount,
		Is30dReadmission:    boolFlag(sa.Is30dReadmission),
	}
	if sa.NextAdmissionID != nil {
		id := *sa.NextAdmissionID
		row.NextAdmissionID = &id
	}
	if sa.NextAdmitDate != nil {
		d := FormatDate(*sa.NextAdmitDate)
		row.NextAdmitDate = &d
	}
	if sa.DaysToNextAdmit != nil {
		days := int32(*sa.DaysToNextAdmit)
		row.DaysToNextAdmit = &days
	}
	return row
}

// EventRow is one row of readmission_events: a sequenced pair with both
// stays joined, the day gap, and the qualifying flags.
type EventRow struct {
	MemberID                string  `parquet:"member_id"`
	IndexAdmissionID        string  `parquet:"index_admission_id"`
	IndexDischargeDate      string  `parquet:"index_discharge_date"`
	NextAdmissionID         string  `parquet:"next_admission_id"`
	NextAdmitDate           string  `parquet:"next_admit_date"`
	DaysToReadmit           int32   `parquet:"days_to_readmit"`
	IndexConditionGroup     string  `parquet:"index_condition_group,optional"`
	IndexHospitalID         string  `parquet:"index_hospital_id,optional"`
	IndexPaidAmount         float64 `parquet:"index_inpatient_paid_amount"`
	IndexPreventableProxy   int32   `parquet:"index_preventable_proxy"`
	IndexFollowupWithin7d   int32   `parquet:"index_followup_within_7d"`
	ReadmitConditionGroup   string  `parquet:"readmit_condition_group,optional"`
	ReadmitPreventableProxy int32   `parquet:"readmit_preventable_proxy"`
	ReadmitPaidAmount       float64 `parquet:"readmit_inpatient_paid_amount"`
	IsQualifying            int32   `parquet:"is_30d_readmission"`
	IsPreventableQualifying int32   `parquet:"is_preventable_readmission"`
	EventTotalPaid          float64 `parquet:"readmission_event_total_paid"`
}

// NewEventRow flattens one classified event.
func NewEventRow(e ReadmissionEvent) EventRow {
	return EventRow{
		MemberID:                e.MemberID,
		IndexAdmissionID:        e.IndexAdmissionID,
		IndexDischargeDate:      FormatDate(e.IndexDischargeDate),
		NextAdmissionID:         e.NextAdmissionID,
		NextAdmitDate:           FormatDate(e.NextAdmitDate),
		DaysToReadmit:           int32(e.DaysToReadmit),
		IndexConditionGroup:     e.IndexConditionGroup,
		IndexHospitalID:         e.IndexHospitalID,
		IndexPaidAmount:         e.IndexPaidAmount,
		IndexPreventableProxy:   boolFlag(e.IndexPreventableProxy),
		IndexFollowupWithin7d:   boolFlag(e.IndexFollowupWithin7d),
		ReadmitConditionGroup:   e.ReadmitConditionGroup,
		ReadmitPreventableProxy: boolFlag(e.ReadmitPreventableProxy),
		ReadmitPaidAmount:       e.ReadmitPaidAmount,
		IsQualifying:            boolFlag(e.IsQualifying),
		IsPreventableQualifying: boolFlag(e.IsPreventableQualifying),
		EventTotalPaid:          e.EventTotalPaid,
	}
}

// DiagnosisSummaryRow is one row of diagnosis_summary.
type DiagnosisSummaryRow struct {
	ConditionGroup         string  `parquet:"primary_condition_group"`
	Admissions             int32   `parquet:"admissions"`
	Readmissions30d        int32   `parquet:"readmissions_30d"`
	AvgInpatientPaid       float64 `parquet:"avg_inpatient_paid"`
	ReadmissionRate30d     float64 `parquet:"readmission_rate_30d"`
	PreventableReadmEvents int32   `parquet:"preventable_readmission_events"`
	TotalReadmEvents       int32   `parquet:"total_readmission_events"`
	AvoidablePaid          float64 `parquet:"avoidable_paid"`
	PreventableShare       float64 `parquet:"preventable_share_of_readmissions"`
}

// NewDiagnosisSummaryRow flattens one aggregate bucket.
func NewDiagnosisSummaryRow(a AggregateRow) DiagnosisSummaryRow {
	return DiagnosisSummaryRow{
		ConditionGroup:         a.Key,
		Admissions:             int32(a.TotalAdmissions),
		Readmissions30d:        int32(a.QualifyingReadmissions),
		AvgInpatientPaid:       a.AvgPaidAmount,
		ReadmissionRate30d:     a.ReadmissionRate,
		PreventableReadmEvents: int32(a.PreventableQualifying),
		TotalReadmEvents:       int32(a.QualifyingReadmissions),
		AvoidablePaid:          a.AvoidablePaid,
		PreventableShare:       a.PreventableShare,
	}
}

// HospitalSummaryRow is one row of hospital_summary.
type HospitalSummaryRow struct {
	HospitalID         string  `parquet:"hospital_id"`
	Admissions         int32   `parquet:"admissions"`
	Readmissions30d    int32   `parquet:"readmissions_30d"`
	AvgPaid            float64 `parquet:"avg_paid"`
	ReadmissionRate30d float64 `parquet:"readmission_rate_30d"`
}

// NewHospitalSummaryRow flattens one aggregate bucket.
func NewHospitalSummaryRow(a AggregateRow) HospitalSummaryRow {
	return HospitalSummaryRow{
		HospitalID:         a.Key,
		Admissions:         int32(a.TotalAdmissions),
		Readmissions30d:    int32(a.QualifyingReadmissions),
		AvgPaid:            a.AvgPaidAmount,
		ReadmissionRate30d: a.ReadmissionRate,
	}
}

// KPIRow is the single row of kpi_summary.
type KPIRow struct {
	AsOfDate               string  `parquet:"as_of_date"`
	TotalAdmissions        int32   `parquet:"total_admissions"`
	Readmissions30d        int32   `parquet:"readmissions_30d"`
	ReadmissionRate30d     float64 `parquet:"readmission_rate_30d"`
	TotalInpatientPaid     float64 `parquet:"total_inpatient_paid"`
	PreventableReadmitPaid float64 `parquet:"preventable_readmission_paid"`
	AvgReadmissionPaid     float64 `parquet:"avg_readmission_paid"`
	HighRiskMembers        int32   `parquet:"high_risk_members"`
}

// NewKPIRow flattens the global rollup.
func NewKPIRow(k KPISummary) KPIRow {
	return KPIRow{
		AsOfDate:               FormatDate(k.AsOfDate),
		TotalAdmissions:        int32(k.TotalAdmissions),
		Readmissions30d:        int32(k.Readmissions30d),
		ReadmissionRate30d:     k.ReadmissionRate30d,
		TotalInpatientPaid:     k.TotalInpatientPaid,
		PreventableReadmitPaid: k.PreventableReadmitPaid,
		AvgReadmissionPaid:     k.AvgReadmissionPaid,
		HighRiskMembers:        int32(k.HighRiskMembers),
	}
}

// RiskScoreRow is one row of patient_risk_scores.
type RiskScoreRow struct {
	MemberID            string  `parquet:"member_id"`
	Age                 int32   `parquet:"age"`
	Sex                 string  `parquet:"sex"`
	State               string  `parquet:"state"`
	PlanType            string  `parquet:"plan_type"`
	SDI                 float64 `parquet:"sdi"`
	ChronicCount        int32   `parquet:"chronic_count"`
	PriorAdmissions12m  int32   `parquet:"prior_admissions_12m"`
	EDVisits12m         int32   `parquet:"ed_visits_12m"`
	OutpatientVisits12m int32   `parquet:"outpatient_visits_12m"`
	NoFollowupRate      float64 `parquet:"no_followup_rate"`
	Score               float64 `parquet:"readmission_risk_score"`
	Tier                string  `parquet:"risk_tier"`
}

// NewRiskScoreRow flattens one scored member.
func NewRiskScoreRow(r RiskScore) RiskScoreRow {
	return RiskScoreRow{
		MemberID:            r.MemberID,
		Age:                 int32(r.Age),
		Sex:                 r.Sex,
		State:               r.State,
		PlanType:            r.PlanType,
		SDI:                 r.SDI,
		ChronicCount:        int32(r.ChronicCount),
		PriorAdmissions12m:  int32(r.PriorAdmissions12m),
		EDVisits12m:         int32(r.EDVisits12m),
		OutpatientVisits12m: int32(r.OutpatientVisits12m),
		NoFollowupRate:      r.NoFollowupRate,
		Score:               r.Score,
		Tier:                r.Tier,
	}
}

// ROIRow is one row of intervention_roi.
type ROIRow struct {
	Intervention          string  `parquet:"intervention"`
	ReductionPct          float64 `parquet:"expected_readmission_reduction_pct"`
	AvoidablePaidBaseline float64 `parquet:"avoidable_paid_baseline"`
	EstimatedSavings      float64 `parquet:"estimated_savings"`
	EstimatedProgramCost  float64 `parquet:"estimated_program_cost"`
	EstimatedNetSavings   float64 `parquet:"estimated_net_savings"`
	ROI                   float64 `parquet:"roi"`
}

// NewROIRow flattens one simulated intervention.
func NewROIRow(r InterventionROI) ROIRow {
	return ROIRow{
		Intervention:          r.Intervention,
		ReductionPct:          r.ReductionPct,
		AvoidablePaidBaseline: r.AvoidablePaidBaseline,
		EstimatedSavings:      r.EstimatedSavings,
		EstimatedProgramCost:  r.EstimatedProgramCost,
		EstimatedNetSavings:   r.EstimatedNetSavings,
		ROI:                   r.ROI,
	}
}

func boolFlag(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
