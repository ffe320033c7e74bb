package analytics

import (
	"time"

	"readmitstats/model"
)

// Options control one pipeline run. Zero values select the defaults: the
// latest admit date as the reporting date, the 30-day window, the 365-day
// lookback, the built-in ED CPT set, and the three stock interventions.
type Options struct {
	AsOf          time.Time
	WindowDays    int
	LookbackDays  int
	EDVisitCPT    []string
	Interventions []model.Intervention
}

// Tables holds everything one run produces, in memory. The flat-row views
// below feed the CSV and Parquet writers.
type Tables struct {
	AsOf             time.Time
	Enriched         []model.SequencedAdmission
	Events           []model.ReadmissionEvent
	DiagnosisSummary []model.AggregateRow
	HospitalSummary  []model.AggregateRow
	KPI              model.KPISummary
	RiskScores       []model.RiskScore
	ROI              []model.InterventionROI
}

// BuildTables runs the whole pipeline: sequence, classify, aggregate by
// condition group and by hospital, score member risk over the lookback
// window, roll up the KPI row, and price the interventions. The only failure
// mode is an invalid admission out of Sequence; empty inputs flow through to
// empty tables.
func BuildTables(admissions []model.Admission, members []model.Member, claims []model.Claim, opts Options) (*Tables, error) {
	seq, err := Sequence(admissions)
	if err != nil {
		return nil, err
	}
	annotated, events := Classify(seq, opts.WindowDays)

	asOf := opts.AsOf
	if asOf.IsZero() {
		asOf = DefaultAsOf(admissions)
	}

	diagnosis := Aggregate(annotated, events, ByConditionGroup)
	hospital := Aggregate(annotated, events, ByHospital)
	SortByRate(hospital)
	roundAggregates(diagnosis)
	roundAggregates(hospital)

	feats := BuildUtilizationFeatures(admissions, claims, asOf, opts.LookbackDays, opts.EDVisitCPT)
	risk := ScoreRisk(members, feats)

	kpi := BuildKPI(annotated, events, risk, asOf)
	roi := SimulateROI(kpi.PreventableReadmitPaid, kpi.HighRiskMembers, opts.Interventions)

	return &Tables{
		AsOf:             asOf,
		Enriched:         annotated,
		Events:           events,
		DiagnosisSummary: diagnosis,
		HospitalSummary:  hospital,
		KPI:              kpi,
		RiskScores:       risk,
		ROI:              roi,
	}, nil
}

// roundAggregates snaps report columns to presentation precision: rates and
// shares to four decimals, money to cents.
func roundAggregates(rows []model.AggregateRow) {
	for i := range rows {
		r := &rows[i]
		r.ReadmissionRate = round(r.ReadmissionRate, 4)
		r.PreventableShare = round(r.PreventableShare, 4)
		r.AvoidablePaid = round(r.AvoidablePaid, 2)
		r.AvgPaidAmount = round(r.AvgPaidAmount, 2)
		r.TotalPaidAmount = round(r.TotalPaidAmount, 2)
	}
}

// EnrichedRows flattens the annotated sequence for the table writers.
func (t *Tables) EnrichedRows() []model.EnrichedAdmissionRow {
	rows := make([]model.EnrichedAdmissionRow, len(t.Enriched))
	for i := range t.Enriched {
		rows[i] = model.NewEnrichedAdmissionRow(t.Enriched[i])
	}
	return rows
}

// EventRows flattens the event stream.
func (t *Tables) EventRows() []model.EventRow {
	rows := make([]model.EventRow, len(t.Events))
	for i := range t.Events {
		rows[i] = model.NewEventRow(t.Events[i])
	}
	return rows
}

// DiagnosisRows flattens the condition-group aggregate.
func (t *Tables) DiagnosisRows() []model.DiagnosisSummaryRow {
	rows := make([]model.DiagnosisSummaryRow, len(t.DiagnosisSummary))
	for i := range t.DiagnosisSummary {
		rows[i] = model.NewDiagnosisSummaryRow(t.DiagnosisSummary[i])
	}
	return rows
}

// HospitalRows flattens the hospital aggregate.
func (t *Tables) HospitalRows() []model.HospitalSummaryRow {
	rows := make([]model.HospitalSummaryRow, len(t.HospitalSummary))
	for i := range t.HospitalSummary {
		rows[i] = model.NewHospitalSummaryRow(t.HospitalSummary[i])
	}
	return rows
}

// KPIRow flattens the single-row rollup.
func (t *Tables) KPIRow() model.KPIRow {
	return model.NewKPIRow(t.KPI)
}

// RiskRows flattens the scored members.
func (t *Tables) RiskRows() []model.RiskScoreRow {
	rows := make([]model.RiskScoreRow, len(t.RiskScores))
	for i := range t.RiskScores {
		rows[i] = model.NewRiskScoreRow(t.RiskScores[i])
	}
	return rows
}

// ROIRows flattens the priced interventions.
func (t *Tables) ROIRows() []model.ROIRow {
	rows := make([]model.ROIRow, len(t.ROI))
	for i := range t.ROI {
		rows[i] = model.NewROIRow(t.ROI[i])
	}
	return rows
}
