// Package model defines the typed records flowing through the readmissions
// pipeline: raw inputs (members, admissions, claims), the sequenced and
// classified derivations, and the aggregate report rows. Every field carries
// an explicit type (identifier, calendar date, flag, currency amount) so the
// pipeline invariants are checkable at parse time instead of deep inside the
// aggregation.
package model

import "time"

// UnknownGroup is the bucket for admissions whose grouping key is missing.
// Reporting must account for every admission exactly once, so rows with an
// empty condition group or hospital id land here instead of being dropped.
const UnknownGroup = "UNKNOWN"

// Admission is one hospital stay. Read-only input; never mutated by the
// pipeline. AdmitDate <= DischargeDate.
type Admission struct {
	AdmissionID         string
	MemberID            string
	HospitalID          string
	AttendingProviderID string
	AdmitDate           time.Time
	DischargeDate       time.Time
	LengthOfStay        int
	ConditionGroup      string
	PrimaryICD10        string
	DRG                 string
	PreventableProxy    bool
	FollowupWithin7d    bool
	PaidAmount          float64
}

// Member is one covered patient. SDI is a social deprivation index in [0, 1].
type Member struct {
	MemberID     string
	Age          int
	Sex          string
	State        string
	SDI          float64
	PlanType     string
	ChronicCount int
}

// Claim is one professional or facility claim line. CPT is empty on
// inpatient claims.
type Claim struct {
	ClaimID    string
	MemberID   string
	ClaimDate  time.Time
	ClaimType  string
	ProviderID string
	CPT        string
	ICD10      string
	PaidAmount float64
}

// SequencedAdmission is an admission annotated with its member's
// chronologically next admission. The successor fields are nil for the last
// admission of each member.
type SequencedAdmission struct {
	Admission
	NextAdmissionID  *string
	NextAdmitDate    *time.Time
	DaysToNextAdmit  *int
	Is30dReadmission bool
}

// SequencedPair is the index/successor pair derived from one sequenced
// admission that has a successor. Each admission is the index of at most one
// pair and the next of at most one pair.
type SequencedPair struct {
	MemberID            string
	IndexAdmissionID    string
	IndexConditionGroup string
	IndexHospitalID     string
	PreventableProxy    bool
	DischargeDate       time.Time
	NextAdmissionID     string
	NextAdmitDate       time.Time
}

// ReadmissionEvent is one classified pair with both stays joined in.
// DaysToReadmit counts whole days from the index discharge to the successor
// admit; it is negative when the stays overlap and is never clamped.
type ReadmissionEvent struct {
	MemberID                string
	IndexAdmissionID        string
	IndexDischargeDate      time.Time
	IndexConditionGroup     string
	IndexHospitalID         string
	IndexPaidAmount         float64
	IndexPreventableProxy   bool
	IndexFollowupWithin7d   bool
	NextAdmissionID         string
	NextAdmitDate           time.Time
	ReadmitConditionGroup   string
	ReadmitPreventableProxy bool
	ReadmitPaidAmount       float64
	DaysToReadmit           int
	IsQualifying            bool
	IsPreventableQualifying bool
	EventTotalPaid          float64
}

// AggregateRow is one grouping-key bucket of the readmission aggregation.
// TotalAdmissions counts every admission in the bucket, including members
// with no successor, so summing TotalAdmissions across rows reproduces the
// input admission count.
type AggregateRow struct {
	Key                    string
	TotalAdmissions        int
	QualifyingReadmissions int
	PreventableQualifying  int
	ReadmissionRate        float64
	PreventableShare       float64
	AvoidablePaid          float64
	AvgPaidAmount          float64
	TotalPaidAmount        float64
}

// UtilizationFeatures are per-member utilization counts over the lookback
// window ending at the as-of date.
type UtilizationFeatures struct {
	MemberID            string
	PriorAdmissions12m  int
	EDVisits12m         int
	OutpatientVisits12m int
	NoFollowupRate      float64
}

// Risk tiers.
const (
	TierLow    = "Low"
	TierMedium = "Medium"
	TierHigh   = "High"
)

// RiskScore is one member's scored row: demographics, window utilization,
// and the 0-100 readmission risk score with its tier.
type RiskScore struct {
	MemberID            string
	Age                 int
	Sex                 string
	State               string
	PlanType            string
	SDI                 float64
	ChronicCount        int
	PriorAdmissions12m  int
	EDVisits12m         int
	OutpatientVisits12m int
	NoFollowupRate      float64
	Score               float64
	Tier                string
}

// KPISummary is the single-row global rollup.
type KPISummary struct {
	AsOfDate               time.Time
	TotalAdmissions        int
	Readmissions30d        int
	ReadmissionRate30d     float64
	TotalInpatientPaid     float64
	PreventableReadmitPaid float64
	AvgReadmissionPaid     float64
	HighRiskMembers        int
}

// Intervention is one simulated program: the expected relative reduction in
// preventable readmission spend and the per-member-touch cost.
type Intervention struct {
	Name         string  `yaml:"name"`
	ReductionPct float64 `yaml:"reduction_pct"`
	CostPerTouch float64 `yaml:"cost_per_touch"`
}

// InterventionROI is one row of the ROI simulation output.
type InterventionROI struct {
	Intervention          string
	ReductionPct          float64
	AvoidablePaidBaseline float64
	EstimatedSavings      float64
	EstimatedProgramCost  float64
	EstimatedNetSavings   float64
	ROI                   float64
}
