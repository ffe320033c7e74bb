package dataset

import (
	"fmt"
	"io"

	"readmitstats/model"
)

// Readers for the processed tables. The dashboard builder consumes these, so
// they parse the exact columns the writers above emit; parse failures are
// plain errors rather than record-validation errors because a malformed
// processed table means a broken build, not bad source data.

// rowScan reads typed cells out of one CSV row with a sticky first error.
type rowScan struct {
	row []string
	err error
}

func (s *rowScan) str(i int) string { return valAt(s.row, i) }

func (s *rowScan) i32(i int) int32 {
	if s.err != nil {
		return 0
	}
	cell := valAt(s.row, i)
	if cell == "" {
		return 0
	}
	n, err := parseInt(cell)
	if err != nil {
		s.err = err
		return 0
	}
	return int32(n)
}

func (s *rowScan) f64(i int) float64 {
	if s.err != nil {
		return 0
	}
	cell := valAt(s.row, i)
	if cell == "" {
		return 0
	}
	v, err := parseMoney(cell)
	if err != nil {
		s.err = err
		return 0
	}
	return v
}

// ReadDiagnosisSummary loads diagnosis_summary.csv.
func ReadDiagnosisSummary(path string) ([]model.DiagnosisSummaryRow, error) {
	t, err := openTable(path)
	if err != nil {
		return nil, err
	}
	defer t.Close()

	group := t.column("primary_condition_group")
	admissions := t.column("admissions")
	readm := t.column("readmissions_30d")
	avgPaid := t.column("avg_inpatient_paid")
	rate := t.column("readmission_rate_30d")
	preventable := t.column("preventable_readmission_events")
	total := t.column("total_readmission_events")
	avoidable := t.column("avoidable_paid")
	share := t.column("preventable_share_of_readmissions")
	if group < 0 {
		return nil, fmt.Errorf("%s: missing column primary_condition_group", path)
	}

	var out []model.DiagnosisSummaryRow
	for {
		row, err := t.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, t.rowNum, err)
		}
		s := rowScan{row: row}
		r := model.DiagnosisSummaryRow{
			ConditionGroup:         s.str(group),
			Admissions:             s.i32(admissions),
			Readmissions30d:        s.i32(readm),
			AvgInpatientPaid:       s.f64(avgPaid),
			ReadmissionRate30d:     s.f64(rate),
			PreventableReadmEvents: s.i32(preventable),
			TotalReadmEvents:       s.i32(total),
			AvoidablePaid:          s.f64(avoidable),
			PreventableShare:       s.f64(share),
		}
		if s.err != nil {
			return nil, fmt.Errorf("%s row %d: %v", path, t.rowNum, s.err)
		}
		out = append(out, r)
	}
	return out, nil
}

// ReadKPISummary loads the single-row kpi_summary.csv.
func ReadKPISummary(path string) (model.KPIRow, error) {
	t, err := openTable(path)
	if err != nil {
		return model.KPIRow{}, err
	}
	defer t.Close()

	row, err := t.next()
	if err == io.EOF {
		return model.KPIRow{}, fmt.Errorf("%s: no KPI row", path)
	}
	if err != nil {
		return model.KPIRow{}, fmt.Errorf("%s: %w", path, err)
	}

	s := rowScan{row: row}
	k := model.KPIRow{
		AsOfDate:               s.str(t.column("as_of_date")),
		TotalAdmissions:        s.i32(t.column("total_admissions")),
		Readmissions30d:        s.i32(t.column("readmissions_30d")),
		ReadmissionRate30d:     s.f64(t.column("readmission_rate_30d")),
		TotalInpatientPaid:     s.f64(t.column("total_inpatient_paid")),
		PreventableReadmitPaid: s.f64(t.column("preventable_readmission_paid")),
		AvgReadmissionPaid:     s.f64(t.column("avg_readmission_paid")),
		HighRiskMembers:        s.i32(t.column("high_risk_members")),
	}
	if s.err != nil {
		return model.KPIRow{}, fmt.Errorf("%s row %d: %v", path, t.rowNum, s.err)
	}
	return k, nil
}

// ReadRiskScores loads patient_risk_scores.csv.
func ReadRiskScores(path string) ([]model.RiskScoreRow, error) {
	t, err := openTable(path)
	if err != nil {
		return nil, err
	}
	defer t.Close()

	member := t.column("member_id")
	age := t.column("age")
	sex := t.column("sex")
	state := t.column("state")
	plan := t.column("plan_type")
	sdi := t.column("sdi")
	chronic := t.column("chronic_count")
	prior := t.column("prior_admissions_12m")
	ed := t.column("ed_visits_12m")
	outpt := t.column("outpatient_visits_12m")
	noFollow := t.column("no_followup_rate")
	score := t.column("readmission_risk_score")
	tier := t.column("risk_tier")
	if member < 0 || tier < 0 {
		return nil, fmt.Errorf("%s: missing member_id or risk_tier column", path)
	}

	var out []model.RiskScoreRow
	for {
		row, err := t.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, t.rowNum, err)
		}
		s := rowScan{row: row}
		r := model.RiskScoreRow{
			MemberID:            s.str(member),
			Age:                 s.i32(age),
			Sex:                 s.str(sex),
			State:               s.str(state),
			PlanType:            s.str(plan),
			SDI:                 s.f64(sdi),
			ChronicCount:        s.i32(chronic),
			PriorAdmissions12m:  s.i32(prior),
			EDVisits12m:         s.i32(ed),
			OutpatientVisits12m: s.i32(outpt),
			NoFollowupRate:      s.f64(noFollow),
			Score:               s.f64(score),
			Tier:                s.str(tier),
		}
		if s.err != nil {
			return nil, fmt.Errorf("%s row %d: %v", path, t.rowNum, s.err)
		}
		out = append(out, r)
	}
	return out, nil
}

// ReadInterventionROI loads intervention_roi.csv.
func ReadInterventionROI(path string) ([]model.ROIRow, error) {
	t, err := openTable(path)
	if err != nil {
		return nil, err
	}
	defer t.Close()

	name := t.column("intervention")
	reduction := t.column("expected_readmission_reduction_pct")
	baseline := t.column("avoidable_paid_baseline")
	savings := t.column("estimated_savings")
	cost := t.column("estimated_program_cost")
	net := t.column("estimated_net_savings")
	roi := t.column("roi")
	if name < 0 {
		return nil, fmt.Errorf("%s: missing column intervention", path)
	}

	var out []model.ROIRow
	for {
		row, err := t.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, t.rowNum, err)
		}
		s := rowScan{row: row}
		r := model.ROIRow{
			Intervention:          s.str(name),
			ReductionPct:          s.f64(reduction),
			AvoidablePaidBaseline: s.f64(baseline),
			EstimatedSavings:      s.f64(savings),
			EstimatedProgramCost:  s.f64(cost),
			EstimatedNetSavings:   s.f64(net),
			ROI:                   s.f64(roi),
		}
		if s.err != nil {
			return nil, fmt.Errorf("%s row %d: %v", path, t.rowNum, s.err)
		}
		out = append(out, r)
	}
	return out, nil
}
