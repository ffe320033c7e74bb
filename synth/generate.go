package synth

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"readmitstats/model"
)

// Config seeds one synthetic cohort. Start and End bound the generated
// calendar; index admissions begin no later than five days before End so
// every stay has room for a discharge date inside the window.
type Config struct {
	Members int
	Start   time.Time
	End     time.Time
	Seed    int64
}

// Cohort is one complete generated dataset.
type Cohort struct {
	Members    []model.Member
	Admissions []model.Admission
	Claims     []model.Claim
}

// Generate builds a synthetic cohort. Deterministic for a fixed Config: the
// single seeded source is the only randomness, with no package-level state.
func Generate(cfg Config) Cohort {
	rng := rand.New(rand.NewSource(cfg.Seed))
	start := model.DateOnly(cfg.Start)
	end := model.DateOnly(cfg.End)

	members := makeMembers(rng, cfg.Members)
	admissions := makeAdmissions(rng, members, start, end)
	claims := makeClaims(rng, members, admissions, start, end)
	return Cohort{Members: members, Admissions: admissions, Claims: claims}
}

func makeMembers(rng *rand.Rand, n int) []model.Member {
	members := make([]model.Member, 0, max(n, 0))
	for i := 1; i <= n; i++ {
		age := 18 + rng.Intn(73)
		sex := "F"
		if rng.Float64() >= 0.52 {
			sex = "M"
		}
		sdi := round3(clip(rng.NormFloat64()*0.22+0.45, 0, 1))

		plan := "Medicare Advantage"
		switch u := rng.Float64(); {
		case u < 0.35:
			plan = "HMO"
		case u < 0.80:
			plan = "PPO"
		}

		chronicLambda := 0.8 + 0.03*math.Max(float64(age)-45, 0) + 0.9*sdi
		chronic := poisson(rng, chronicLambda)
		if chronic > 6 {
			chronic = 6
		}

		members = append(members, model.Member{
			MemberID:     fmt.Sprintf("M%07d", i),
			Age:          age,
			Sex:          sex,
			State:        states[rng.Intn(len(states))],
			SDI:          sdi,
			PlanType:     plan,
			ChronicCount: chronic,
		})
	}
	return members
}

func makeAdmissions(rng *rand.Rand, members []model.Member, start, end time.Time) []model.Admission {
	var admissions []model.Admission
	admID := 1
	latestAdmit := end.AddDate(0, 0, -5)

	for i := range members {
		m := &members[i]
		base := 0.12 + 0.03*float64(m.ChronicCount)
		if m.Age > 65 {
			base += 0.01
		}
		k := poisson(rng, base*3)
		if k > 6 {
			k = 6
		}
		if k == 0 {
			continue
		}

		admitDates := make([]time.Time, k)
		for j := range admitDates {
			admitDates[j] = randomDate(rng, start, latestAdmit)
		}
		sort.Slice(admitDates, func(a, b int) bool { return admitDates[a].Before(admitDates[b]) })

		for _, admit := range admitDates {
			cond := &conditions[pickWeighted(rng, conditionWeights)]
			los := int(clip(rng.NormFloat64()*2.0+4.2, 1, 18))
			preventable := rng.Float64() < clip(cond.PreventableBase+0.25*m.SDI+0.06*float64(m.ChronicCount), 0, 0.95)
			paid := clip(lognormal(rng, 8.7, 0.35)*cond.CostMult*(1+0.10*float64(los-4)), 1800, 90000)
			followup := rng.Float64() < clip(0.62-0.20*m.SDI-0.06*float64(m.ChronicCount), 0.05, 0.90)

			admissions = append(admissions, model.Admission{
				AdmissionID:         fmt.Sprintf("A%09d", admID),
				MemberID:            m.MemberID,
				HospitalID:          hospitalID(rng),
				AttendingProviderID: providerID(rng),
				AdmitDate:           admit,
				DischargeDate:       admit.AddDate(0, 0, los),
				LengthOfStay:        los,
				ConditionGroup:      cond.Group,
				PrimaryICD10:        cond.ICD10[rng.Intn(len(cond.ICD10))],
				DRG:                 cond.DRG,
				PreventableProxy:    preventable,
				FollowupWithin7d:    followup,
				PaidAmount:          round2(paid),
			})
			admID++
		}
	}

	admissions = append(admissions, injectReadmissions(rng, members, admissions, end)...)

	sort.SliceStable(admissions, func(i, j int) bool {
		if admissions[i].MemberID != admissions[j].MemberID {
			return admissions[i].MemberID < admissions[j].MemberID
		}
		return admissions[i].AdmitDate.Before(admissions[j].AdmitDate)
	})
	return admissions
}

// injectReadmissions draws a logistic readmission propensity for every index
// stay and appends a follow-on stay for the hits: 2-30 days after discharge,
// usually the same condition group, never followed up within seven days.
// Stays discharged within two days of the calendar end are not eligible.
func injectReadmissions(rng *rand.Rand, members []model.Member, admissions []model.Admission, end time.Time) []model.Admission {
	byMember := make(map[string]*model.Member, len(members))
	for i := range members {
		byMember[members[i].MemberID] = &members[i]
	}
	cutoff := end.AddDate(0, 0, -2)

	var injected []model.Admission
	for i := range admissions {
		a := &admissions[i]
		m := byMember[a.MemberID]
		if m == nil || a.DischargeDate.After(cutoff) {
			continue
		}

		x := -2.2 +
			0.018*(float64(m.Age)-50) +
			1.2*m.SDI +
			0.28*float64(m.ChronicCount)
		if a.PreventableProxy {
			x += 0.55
		}
		if !a.FollowupWithin7d {
			x += 0.70
		}
		if highReadmitGroups[a.ConditionGroup] {
			x += 0.35
		}
		if rng.Float64() >= clip(sigmoid(x), 0.01, 0.55) {
			continue
		}

		gap := int(clip(rng.NormFloat64()*7+12, 2, 30))
		readmitDate := a.DischargeDate.AddDate(0, 0, gap)
		los := int(clip(rng.NormFloat64()*1.8+3.8, 1, 15))

		cond := conditionByGroup(a.ConditionGroup)
		if cond == nil || rng.Float64() >= 0.72 {
			cond = &conditions[rng.Intn(len(conditions))]
		}
		paid := clip(lognormal(rng, 8.65, 0.35)*cond.ReadmitCostMult*(1+0.10*float64(los-4)), 1700, 95000)

		injected = append(injected, model.Admission{
			AdmissionID:         fmt.Sprintf("A%09d", len(admissions)+len(injected)+1),
			MemberID:            a.MemberID,
			HospitalID:          a.HospitalID,
			AttendingProviderID: a.AttendingProviderID,
			AdmitDate:           readmitDate,
			DischargeDate:       readmitDate.AddDate(0, 0, los),
			LengthOfStay:        los,
			ConditionGroup:      cond.Group,
			PrimaryICD10:        cond.ICD10[rng.Intn(len(cond.ICD10))],
			DRG:                 cond.DRG,
			PreventableProxy:    rng.Float64() < 0.65,
			FollowupWithin7d:    false,
			PaidAmount:          round2(paid),
		})
	}
	return injected
}

func makeClaims(rng *rand.Rand, members []model.Member, admissions []model.Admission, start, end time.Time) []model.Claim {
	var claims []model.Claim
	clmID := 1

	for i := range members {
		m := &members[i]
		lam := 8 + 0.20*float64(m.Age) + 2.0*float64(m.ChronicCount) + 6.5*m.SDI
		n := poisson(rng, lam/10)
		if n < 2 {
			n = 2
		}
		if n > 40 {
			n = 40
		}
		for j := 0; j < n; j++ {
			cond := &conditions[rng.Intn(len(conditions))]
			claims = append(claims, model.Claim{
				ClaimID:    fmt.Sprintf("C%011d", clmID),
				MemberID:   m.MemberID,
				ClaimDate:  randomDate(rng, start, end),
				ClaimType:  "OUTPATIENT",
				ProviderID: providerID(rng),
				CPT:        outpatientCPT[rng.Intn(len(outpatientCPT))],
				ICD10:      cond.ICD10[rng.Intn(len(cond.ICD10))],
				PaidAmount: round2(clip(lognormal(rng, 4.2, 0.55), 10, 1200)),
			})
			clmID++
		}
	}

	// One facility claim per admission, keyed off the stay itself.
	for i := range admissions {
		a := &admissions[i]
		claims = append(claims, model.Claim{
			ClaimID:    fmt.Sprintf("C%011d", clmID),
			MemberID:   a.MemberID,
			ClaimDate:  a.AdmitDate,
			ClaimType:  "INPATIENT",
			ProviderID: a.HospitalID,
			ICD10:      a.PrimaryICD10,
			PaidAmount: a.PaidAmount,
		})
		clmID++
	}
	return claims
}

// ── distribution helpers ────────────────────────────────────────────────────

// randomDate picks a calendar day in [start, end], both ends inclusive.
func randomDate(rng *rand.Rand, start, end time.Time) time.Time {
	days := model.DaysBetween(start, end)
	if days <= 0 {
		return start
	}
	return start.AddDate(0, 0, rng.Intn(days+1))
}

// poisson draws via Knuth's product-of-uniforms method; the generator's
// rates stay small enough (< 5) that it never spins long.
func poisson(rng *rand.Rand, lambda float64) int {
	if lambda <= 0 {
		return 0
	}
	limit := math.Exp(-lambda)
	var k int
	p := 1.0
	for {
		p *= rng.Float64()
		if p <= limit {
			return k
		}
		k++
	}
}

func lognormal(rng *rand.Rand, mu, sigma float64) float64 {
	return math.Exp(rng.NormFloat64()*sigma + mu)
}

// pickWeighted returns an index drawn proportionally to weights.
func pickWeighted(rng *rand.Rand, weights []float64) int {
	var total float64
	for _, w := range weights {
		total += w
	}
	u := rng.Float64() * total
	for i, w := range weights {
		u -= w
		if u < 0 {
			return i
		}
	}
	return len(weights) - 1
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }

func providerID(rng *rand.Rand) string { return fmt.Sprintf("P%05d", 1+rng.Intn(providerCount)) }

func hospitalID(rng *rand.Rand) string { return fmt.Sprintf("H%04d", 1+rng.Intn(hospitalCount)) }
