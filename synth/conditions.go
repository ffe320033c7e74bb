// Package synth generates a synthetic managed-care cohort (members,
// inpatient admissions with injected readmissions, and professional claims)
// for exercising the readmission analytics pipeline. All randomness flows
// through one explicitly seeded source, so a Config reproduces its cohort
// byte for byte.
package synth

// condition is one diagnosis group in the catalog, with its ICD-10 codes,
// DRG, and the knobs that shape generated stays: how often the stay carries
// the preventable label, and the cost multipliers for index and readmission
// stays.
type condition struct {
	Group           string
	ICD10           []string
	DRG             string
	PreventableBase float64
	CostMult        float64
	ReadmitCostMult float64
}

var conditions = []condition{
	{"CHF", []string{"I50.9", "I50.1", "I11.0"}, "291", 0.55, 1.10, 1.05},
	{"COPD", []string{"J44.9", "J44.1"}, "190", 0.50, 1.00, 1.00},
	{"DIABETES", []string{"E11.9", "E11.65"}, "640", 0.35, 0.85, 0.85},
	{"PNEUMONIA", []string{"J18.9", "J13"}, "193", 0.40, 0.95, 0.95},
	{"SEPSIS", []string{"A41.9", "R65.20"}, "871", 0.20, 1.55, 1.60},
	{"CKD", []string{"N18.3", "N18.4", "N18.5"}, "694", 0.25, 1.25, 1.20},
	{"HTN", []string{"I10"}, "301", 0.18, 0.80, 0.80},
}

// conditionWeights is the base admission mix, index-aligned with conditions.
var conditionWeights = []float64{1.2, 1.1, 1.1, 0.9, 0.7, 0.8, 0.6}

// highReadmitGroups carry an extra term in the readmission propensity.
var highReadmitGroups = map[string]bool{
	"CHF":       true,
	"COPD":      true,
	"PNEUMONIA": true,
}

func conditionByGroup(group string) *condition {
	for i := range conditions {
		if conditions[i].Group == group {
			return &conditions[i]
		}
	}
	return nil
}

// outpatientCPT is the professional-claim procedure mix. A0427 (ALS
// ambulance) and 99214 double as the default ED-visit markers downstream.
var outpatientCPT = []string{"99213", "99214", "93000", "36415", "83036", "80053", "71045", "A0427", "G0439"}

var states = []string{"TX", "CA", "FL", "NY", "GA", "NC", "IL", "AZ", "WA", "NJ"}

const (
	providerCount = 800
	hospitalCount = 120
)
