package analytics

import (
	"time"

	"readmitstats/model"
)

// DefaultLookbackDays is the utilization feature window length.
const DefaultLookbackDays = 365

// DefaultEDCPTCodes are the CPT codes counted as emergency-department
// utilization: ALS ambulance transport and the high-acuity E/M visit.
var DefaultEDCPTCodes = []string{"A0427", "99214"}

// Risk score weights. The seven components are each normalized to [0, 1]
// before weighting, so the raw score lands in [0, 1] as well.
const (
	weightAge        = 0.22
	weightChronic    = 0.22
	weightSDI        = 0.20
	weightPriorAdm   = 0.16
	weightPriorED    = 0.10
	weightOutpatient = 0.05
	weightNoFollowup = 0.05
)

// BuildUtilizationFeatures counts each member's utilization over the window
// [asOf-lookbackDays, asOf], both ends inclusive: inpatient admissions,
// ED visits (claims with a CPT in edCPT), outpatient visits, and the share
// of window admissions without a 7-day follow-up. Members with no activity
// in the window are absent from the result; downstream scoring treats them
// as all zeros.
func BuildUtilizationFeatures(admissions []model.Admission, claims []model.Claim, asOf time.Time, lookbackDays int, edCPT []string) map[string]model.UtilizationFeatures {
	if lookbackDays <= 0 {
		lookbackDays = DefaultLookbackDays
	}
	if len(edCPT) == 0 {
		edCPT = DefaultEDCPTCodes
	}
	asOf = model.DateOnly(asOf)
	start := asOf.AddDate(0, 0, -lookbackDays)

	inWindow := func(t time.Time) bool {
		d := model.DateOnly(t)
		return !d.Before(start) && !d.After(asOf)
	}
	edSet := make(map[string]struct{}, len(edCPT))
	for _, c := range edCPT {
		edSet[c] = struct{}{}
	}

	feats := make(map[string]model.UtilizationFeatures)
	get := func(memberID string) model.UtilizationFeatures {
		f, ok := feats[memberID]
		if !ok {
			f = model.UtilizationFeatures{MemberID: memberID}
		}
		return f
	}

	noFollowup := make(map[string]int)
	for i := range admissions {
		a := &admissions[i]
		if !inWindow(a.AdmitDate) {
			continue
		}
		f := get(a.MemberID)
		f.PriorAdmissions12m++
		if !a.FollowupWithin7d {
			noFollowup[a.MemberID]++
		}
		feats[a.MemberID] = f
	}
	for memberID, misses := range noFollowup {
		f := feats[memberID]
		f.NoFollowupRate = float64(misses) / float64(f.PriorAdmissions12m)
		feats[memberID] = f
	}

	for i := range claims {
		c := &claims[i]
		if !inWindow(c.ClaimDate) {
			continue
		}
		f := get(c.MemberID)
		if _, ok := edSet[c.CPT]; ok {
			f.EDVisits12m++
		}
		if c.ClaimType == "OUTPATIENT" {
			f.OutpatientVisits12m++
		}
		feats[c.MemberID] = f
	}
	return feats
}

// ScoreRisk computes the 0-100 readmission risk score for every member.
//
// Each component is clipped to its clinical range, normalized, and weighted;
// the cohort is then rescaled so its highest raw score maps to 100 (an
// all-zero cohort stays at 0). Scores are rounded to one decimal before
// tiering: Low up to 33, Medium up to 66, High above. Output preserves the
// member input order.
func ScoreRisk(members []model.Member, feats map[string]model.UtilizationFeatures) []model.RiskScore {
	scores := make([]model.RiskScore, 0, len(members))
	raws := make([]float64, 0, len(members))
	var maxRaw float64

	for i := range members {
		m := &members[i]
		f := feats[m.MemberID]

		age := clipF(float64(m.Age), 18, 90)
		chronic := clipF(float64(m.ChronicCount), 0, 6)
		sdi := clipF(m.SDI, 0, 1)
		priorAdm := clipF(float64(f.PriorAdmissions12m), 0, 10)
		priorED := clipF(float64(f.EDVisits12m), 0, 20)
		outpt := clipF(float64(f.OutpatientVisits12m), 0, 60)
		noFollow := clipF(f.NoFollowupRate, 0, 1)

		raw := weightAge*(age-18)/72 +
			weightChronic*chronic/6 +
			weightSDI*sdi +
			weightPriorAdm*priorAdm/10 +
			weightPriorED*priorED/20 +
			weightOutpatient*outpt/60 +
			weightNoFollowup*noFollow
		raws = append(raws, raw)
		if raw > maxRaw {
			maxRaw = raw
		}

		scores = append(scores, model.RiskScore{
			MemberID:            m.MemberID,
			Age:                 m.Age,
			Sex:                 m.Sex,
			State:               m.State,
			PlanType:            m.PlanType,
			SDI:                 m.SDI,
			ChronicCount:        m.ChronicCount,
			PriorAdmissions12m:  f.PriorAdmissions12m,
			EDVisits12m:         f.EDVisits12m,
			OutpatientVisits12m: f.OutpatientVisits12m,
			NoFollowupRate:      f.NoFollowupRate,
		})
	}

	for i := range scores {
		var score float64
		if maxRaw > 0 {
			score = round(raws[i]/maxRaw*100, 1)
		}
		scores[i].Score = score
		scores[i].Tier = tierFor(score)
	}
	return scores
}

func tierFor(score float64) string {
	switch {
	case score <= 33:
		return model.TierLow
	case score <= 66:
		return model.TierMedium
	default:
		return model.TierHigh
	}
}

func clipF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
