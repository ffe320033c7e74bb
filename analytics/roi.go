package analytics

import (
	"sort"

	"readmitstats/model"
)

// DefaultInterventions are the three modeled programs and their assumed
// reduction in preventable readmission spend.
var DefaultInterventions = []model.Intervention{
	{Name: "Post-discharge follow-up (7d)", ReductionPct: 0.07, CostPerTouch: 18.0},
	{Name: "Medication reconciliation", ReductionPct: 0.05, CostPerTouch: 28.0},
	{Name: "Care coordination program", ReductionPct: 0.10, CostPerTouch: 65.0},
}

// SimulateROI prices each intervention against the avoidable-spend baseline.
//
// avoidablePaid is the preventable readmission spend from the KPI rollup.
// Every program touches the high-risk members (at least one touch, so an
// empty cohort still yields a priced row). Savings scale the baseline by the
// program's reduction; ROI is net savings over program cost. Rows are sorted
// by net savings descending, name ascending on ties.
func SimulateROI(avoidablePaid float64, highRiskMembers int, interventions []model.Intervention) []model.InterventionROI {
	if len(interventions) == 0 {
		interventions = DefaultInterventions
	}
	touches := highRiskMembers
	if touches < 1 {
		touches = 1
	}

	rows := make([]model.InterventionROI, 0, len(interventions))
	for _, iv := range interventions {
		savings := avoidablePaid * iv.ReductionPct
		cost := float64(touches) * iv.CostPerTouch
		var roi float64
		if cost > 0 {
			roi = (savings - cost) / cost
		}
		rows = append(rows, model.InterventionROI{
			Intervention:          iv.Name,
			ReductionPct:          iv.ReductionPct,
			AvoidablePaidBaseline: round(avoidablePaid, 2),
			EstimatedSavings:      round(savings, 2),
			EstimatedProgramCost:  round(cost, 2),
			EstimatedNetSavings:   round(savings-cost, 2),
			ROI:                   round(roi, 3),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].EstimatedNetSavings != rows[j].EstimatedNetSavings {
			return rows[i].EstimatedNetSavings > rows[j].EstimatedNetSavings
		}
		return rows[i].Intervention < rows[j].Intervention
	})
	return rows
}
