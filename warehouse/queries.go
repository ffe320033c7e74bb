package warehouse

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// DBTX is the slice of pgxpool.Pool and pgx.Tx the query wrapper needs, so
// the same statements run against a pool, a connection, or an open
// transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// New wraps db in a Queries value.
func New(db DBTX) *Queries { return &Queries{db: db} }

// Queries holds the prepared statements for the readmit schema.
type Queries struct {
	db DBTX
}

// ── inserts ────────────────────────────────────────────────────────

const insertRun = `
INSERT INTO readmit.runs (run_id, source, as_of_date, admissions, events, members_scored)
VALUES ($1, $2, $3, $4, $5, $6)`

type InsertRunParams struct {
	RunID         uuid.UUID
	Source        string
	AsOfDate      pgtype.Date
	Admissions    int32
	Events        int32
	MembersScored int32
}

func (q *Queries) InsertRun(ctx context.Context, arg InsertRunParams) error {
	_, err := q.db.Exec(ctx, insertRun,
		arg.RunID, arg.Source, arg.AsOfDate, arg.Admissions, arg.Events, arg.MembersScored)
	return err
}

var eventColumns = []string{
	"run_id",
	"member_id",
	"index_admission_id",
	"index_discharge_date",
	"next_admission_id",
	"next_admit_date",
	"days_to_readmit",
	"index_condition_group",
	"index_hospital_id",
	"index_inpatient_paid_amount",
	"index_preventable_proxy",
	"index_followup_within_7d",
	"readmit_condition_group",
	"readmit_preventable_proxy",
	"readmit_inpatient_paid_amount",
	"is_30d_readmission",
	"is_preventable_readmission",
	"readmission_event_total_paid",
}

type InsertReadmissionEventsParams struct {
	RunID                   uuid.UUID
	MemberID                string
	IndexAdmissionID        string
	IndexDischargeDate      pgtype.Date
	NextAdmissionID         string
	NextAdmitDate           pgtype.Date
	DaysToReadmit           int32
	IndexConditionGroup     pgtype.Text
	IndexHospitalID         pgtype.Text
	IndexPaidAmount         pgtype.Numeric
	IndexPreventableProxy   bool
	IndexFollowupWithin7d   bool
	ReadmitConditionGroup   pgtype.Text
	ReadmitPreventableProxy bool
	ReadmitPaidAmount       pgtype.Numeric
	IsQualifying            bool
	IsPreventableQualifying bool
	EventTotalPaid          pgtype.Numeric
}

// InsertReadmissionEvents bulk-loads events via COPY and returns the number
// of rows copied.
func (q *Queries) InsertReadmissionEvents(ctx context.Context, arg []InsertReadmissionEventsParams) (int64, error) {
	return q.db.CopyFrom(
		ctx,
		pgx.Identifier{"readmit", "readmission_events"},
		eventColumns,
		pgx.CopyFromSlice(len(arg), func(i int) ([]any, error) {
			a := arg[i]
			return []any{
				a.RunID,
				a.MemberID,
				a.IndexAdmissionID,
				a.IndexDischargeDate,
				a.NextAdmissionID,
				a.NextAdmitDate,
				a.DaysToReadmit,
				a.IndexConditionGroup,
				a.IndexHospitalID,
				a.IndexPaidAmount,
				a.IndexPreventableProxy,
				a.IndexFollowupWithin7d,
				a.ReadmitConditionGroup,
				a.ReadmitPreventableProxy,
				a.ReadmitPaidAmount,
				a.IsQualifying,
				a.IsPreventableQualifying,
				a.EventTotalPaid,
			}, nil
		}),
	)
}

const insertDiagnosisSummary = `
INSERT INTO readmit.diagnosis_summary (
    run_id, primary_condition_group, admissions, readmissions_30d,
    avg_inpatient_paid, readmission_rate_30d, preventable_readmission_events,
    total_readmission_events, avoidable_paid, preventable_share_of_readmissions
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

type InsertDiagnosisSummaryParams struct {
	RunID                  uuid.UUID
	ConditionGroup         string
	Admissions             int32
	Readmissions30d        int32
	AvgInpatientPaid       pgtype.Numeric
	ReadmissionRate30d     pgtype.Numeric
	PreventableReadmEvents int32
	TotalReadmEvents       int32
	AvoidablePaid          pgtype.Numeric
	PreventableShare       pgtype.Numeric
}

func (q *Queries) InsertDiagnosisSummary(ctx context.Context, arg InsertDiagnosisSummaryParams) error {
	_, err := q.db.Exec(ctx, insertDiagnosisSummary,
		arg.RunID, arg.ConditionGroup, arg.Admissions, arg.Readmissions30d,
		arg.AvgInpatientPaid, arg.ReadmissionRate30d, arg.PreventableReadmEvents,
		arg.TotalReadmEvents, arg.AvoidablePaid, arg.PreventableShare)
	return err
}

const insertHospitalSummary = `
INSERT INTO readmit.hospital_summary (
    run_id, hospital_id, admissions, readmissions_30d, avg_paid, readmission_rate_30d
) VALUES ($1, $2, $3, $4, $5, $6)`

type InsertHospitalSummaryParams struct {
	RunID              uuid.UUID
	HospitalID         string
	Admissions         int32
	Readmissions30d    int32
	AvgPaid            pgtype.Numeric
	ReadmissionRate30d pgtype.Numeric
}

func (q *Queries) InsertHospitalSummary(ctx context.Context, arg InsertHospitalSummaryParams) error {
	_, err := q.db.Exec(ctx, insertHospitalSummary,
		arg.RunID, arg.HospitalID, arg.Admissions, arg.Readmissions30d,
		arg.AvgPaid, arg.ReadmissionRate30d)
	return err
}

const insertKPISummary = `
INSERT INTO readmit.kpi_summary (
    run_id, as_of_date, total_admissions, readmissions_30d, readmission_rate_30d,
    total_inpatient_paid, preventable_readmission_paid, avg_readmission_paid,
    high_risk_members
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

type InsertKPISummaryParams struct {
	RunID                  uuid.UUID
	AsOfDate               pgtype.Date
	TotalAdmissions        int32
	Readmissions30d        int32
	ReadmissionRate30d     pgtype.Numeric
	TotalInpatientPaid     pgtype.Numeric
	PreventableReadmitPaid pgtype.Numeric
	AvgReadmissionPaid     pgtype.Numeric
	HighRiskMembers        int32
}

func (q *Queries) InsertKPISummary(ctx context.Context, arg InsertKPISummaryParams) error {
	_, err := q.db.Exec(ctx, insertKPISummary,
		arg.RunID, arg.AsOfDate, arg.TotalAdmissions, arg.Readmissions30d,
		arg.ReadmissionRate30d, arg.TotalInpatientPaid, arg.PreventableReadmitPaid,
		arg.AvgReadmissionPaid, arg.HighRiskMembers)
	return err
}

const insertRiskScore = `
INSERT INTO readmit.patient_risk_scores (
    run_id, member_id, age, sex, state, plan_type, sdi, chronic_count,
    prior_admissions_12m, ed_visits_12m, outpatient_visits_12m,
    no_followup_rate, readmission_risk_score, risk_tier
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

type InsertRiskScoreParams struct {
	RunID               uuid.UUID
	MemberID            string
	Age                 int32
	Sex                 pgtype.Text
	State               pgtype.Text
	PlanType            pgtype.Text
	SDI                 pgtype.Numeric
	ChronicCount        int32
	PriorAdmissions12m  int32
	EDVisits12m         int32
	OutpatientVisits12m int32
	NoFollowupRate      pgtype.Numeric
	Score               pgtype.Numeric
	Tier                string
}

func (q *Queries) InsertRiskScore(ctx context.Context, arg InsertRiskScoreParams) error {
	_, err := q.db.Exec(ctx, insertRiskScore,
		arg.RunID, arg.MemberID, arg.Age, arg.Sex, arg.State, arg.PlanType,
		arg.SDI, arg.ChronicCount, arg.PriorAdmissions12m, arg.EDVisits12m,
		arg.OutpatientVisits12m, arg.NoFollowupRate, arg.Score, arg.Tier)
	return err
}

// ── lookups ────────────────────────────────────────────────────────

const getRun = `
SELECT source, as_of_date, admissions, events, members_scored, created_at
FROM readmit.runs WHERE run_id = $1`

type GetRunRow struct {
	Source        string
	AsOfDate      pgtype.Date
	Admissions    int32
	Events        int32
	MembersScored int32
	CreatedAt     pgtype.Timestamptz
}

func (q *Queries) GetRun(ctx context.Context, runID uuid.UUID) (GetRunRow, error) {
	var r GetRunRow
	err := q.db.QueryRow(ctx, getRun, runID).Scan(
		&r.Source, &r.AsOfDate, &r.Admissions, &r.Events, &r.MembersScored, &r.CreatedAt)
	return r, err
}

const countRuns = `SELECT count(*) FROM readmit.runs`

func (q *Queries) CountRuns(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRow(ctx, countRuns).Scan(&n)
	return n, err
}

const countEvents = `SELECT count(*) FROM readmit.readmission_events WHERE run_id = $1`

func (q *Queries) CountEvents(ctx context.Context, runID uuid.UUID) (int64, error) {
	var n int64
	err := q.db.QueryRow(ctx, countEvents, runID).Scan(&n)
	return n, err
}

const getEvent = `
SELECT member_id, days_to_readmit, index_condition_group,
       is_30d_readmission, is_preventable_readmission, readmission_event_total_paid
FROM readmit.readmission_events
WHERE run_id = $1 AND index_admission_id = $2`

type GetEventParams struct {
	RunID            uuid.UUID
	IndexAdmissionID string
}

type GetEventRow struct {
	MemberID                string
	DaysToReadmit           int32
	IndexConditionGroup     pgtype.Text
	IsQualifying            bool
	IsPreventableQualifying bool
	EventTotalPaid          pgtype.Numeric
}

func (q *Queries) GetEvent(ctx context.Context, arg GetEventParams) (GetEventRow, error) {
	var r GetEventRow
	err := q.db.QueryRow(ctx, getEvent, arg.RunID, arg.IndexAdmissionID).Scan(
		&r.MemberID, &r.DaysToReadmit, &r.IndexConditionGroup,
		&r.IsQualifying, &r.IsPreventableQualifying, &r.EventTotalPaid)
	return r, err
}

const listDiagnosisGroups = `
SELECT primary_condition_group FROM readmit.diagnosis_summary
WHERE run_id = $1 ORDER BY primary_condition_group`

func (q *Queries) ListDiagnosisGroups(ctx context.Context, runID uuid.UUID) ([]string, error) {
	rows, err := q.db.Query(ctx, listDiagnosisGroups, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var groups []string
	for rows.Next() {
		var g string
		if err := rows.Scan(&g); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

const getDiagnosisSummary = `
SELECT admissions, readmissions_30d, avg_inpatient_paid, readmission_rate_30d,
       preventable_readmission_events, total_readmission_events, avoidable_paid,
       preventable_share_of_readmissions
FROM readmit.diagnosis_summary
WHERE run_id = $1 AND primary_condition_group = $2`

type GetDiagnosisSummaryParams struct {
	RunID          uuid.UUID
	ConditionGroup string
}

type GetDiagnosisSummaryRow struct {
	Admissions             int32
	Readmissions30d        int32
	AvgInpatientPaid       pgtype.Numeric
	ReadmissionRate30d     pgtype.Numeric
	PreventableReadmEvents int32
	TotalReadmEvents       int32
	AvoidablePaid          pgtype.Numeric
	PreventableShare       pgtype.Numeric
}

func (q *Queries) GetDiagnosisSummary(ctx context.Context, arg GetDiagnosisSummaryParams) (GetDiagnosisSummaryRow, error) {
	var r GetDiagnosisSummaryRow
	err := q.db.QueryRow(ctx, getDiagnosisSummary, arg.RunID, arg.ConditionGroup).Scan(
		&r.Admissions, &r.Readmissions30d, &r.AvgInpatientPaid, &r.ReadmissionRate30d,
		&r.PreventableReadmEvents, &r.TotalReadmEvents, &r.AvoidablePaid, &r.PreventableShare)
	return r, err
}

const countHospitalSummaries = `SELECT count(*) FROM readmit.hospital_summary WHERE run_id = $1`

func (q *Queries) CountHospitalSummaries(ctx context.Context, runID uuid.UUID) (int64, error) {
	var n int64
	err := q.db.QueryRow(ctx, countHospitalSummaries, runID).Scan(&n)
	return n, err
}

const getHospitalSummary = `
SELECT admissions, readmissions_30d, avg_paid, readmission_rate_30d
FROM readmit.hospital_summary
WHERE run_id = $1 AND hospital_id = $2`

type GetHospitalSummaryParams struct {
	RunID      uuid.UUID
	HospitalID string
}

type GetHospitalSummaryRow struct {
	Admissions         int32
	Readmissions30d    int32
	AvgPaid            pgtype.Numeric
	ReadmissionRate30d pgtype.Numeric
}

func (q *Queries) GetHospitalSummary(ctx context.Context, arg GetHospitalSummaryParams) (GetHospitalSummaryRow, error) {
	var r GetHospitalSummaryRow
	err := q.db.QueryRow(ctx, getHospitalSummary, arg.RunID, arg.HospitalID).Scan(
		&r.Admissions, &r.Readmissions30d, &r.AvgPaid, &r.ReadmissionRate30d)
	return r, err
}

const getKPISummary = `
SELECT as_of_date, total_admissions, readmissions_30d, readmission_rate_30d,
       total_inpatient_paid, preventable_readmission_paid, avg_readmission_paid,
       high_risk_members
FROM readmit.kpi_summary WHERE run_id = $1`

type GetKPISummaryRow struct {
	AsOfDate               pgtype.Date
	TotalAdmissions        int32
	Readmissions30d        int32
	ReadmissionRate30d     pgtype.Numeric
	TotalInpatientPaid     pgtype.Numeric
	PreventableReadmitPaid pgtype.Numeric
	AvgReadmissionPaid     pgtype.Numeric
	HighRiskMembers        int32
}

func (q *Queries) GetKPISummary(ctx context.Context, runID uuid.UUID) (GetKPISummaryRow, error) {
	var r GetKPISummaryRow
	err := q.db.QueryRow(ctx, getKPISummary, runID).Scan(
		&r.AsOfDate, &r.TotalAdmissions, &r.Readmissions30d, &r.ReadmissionRate30d,
		&r.TotalInpatientPaid, &r.PreventableReadmitPaid, &r.AvgReadmissionPaid,
		&r.HighRiskMembers)
	return r, err
}

const countRiskScores = `SELECT count(*) FROM readmit.patient_risk_scores WHERE run_id = $1`

func (q *Queries) CountRiskScores(ctx context.Context, runID uuid.UUID) (int64, error) {
	var n int64
	err := q.db.QueryRow(ctx, countRiskScores, runID).Scan(&n)
	return n, err
}

const getRiskScore = `
SELECT age, prior_admissions_12m, ed_visits_12m, outpatient_visits_12m,
       no_followup_rate, readmission_risk_score, risk_tier
FROM readmit.patient_risk_scores
WHERE run_id = $1 AND member_id = $2`

type GetRiskScoreParams struct {
	RunID    uuid.UUID
	MemberID string
}

type GetRiskScoreRow struct {
	Age                 int32
	PriorAdmissions12m  int32
	EDVisits12m         int32
	OutpatientVisits12m int32
	NoFollowupRate      pgtype.Numeric
	Score               pgtype.Numeric
	Tier                string
}

func (q *Queries) GetRiskScore(ctx context.Context, arg GetRiskScoreParams) (GetRiskScoreRow, error) {
	var r GetRiskScoreRow
	err := q.db.QueryRow(ctx, getRiskScore, arg.RunID, arg.MemberID).Scan(
		&r.Age, &r.PriorAdmissions12m, &r.EDVisits12m, &r.OutpatientVisits12m,
		&r.NoFollowupRate, &r.Score, &r.Tier)
	return r, err
}
