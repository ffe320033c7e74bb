// Package warehouse persists pipeline runs into Postgres. Each load gets a
// fresh uuid run id; events go in bulk via COPY and the summary tables via
// batched inserts with periodic commits, so an interrupted load leaves at
// most one uncommitted batch behind.
package warehouse

import (
	"context"
	_ "embed"
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"readmitstats/model"
)

//go:embed schema.sql
var schemaSQL string

// DefaultBatchSize is how many summary rows share one transaction.
const DefaultBatchSize = 500

// Run is one pipeline output bound for the warehouse.
type Run struct {
	Source     string
	AsOf       time.Time
	Admissions int
	Events     []model.EventRow
	Diagnosis  []model.DiagnosisSummaryRow
	Hospitals  []model.HospitalSummaryRow
	KPI        model.KPIRow
	RiskScores []model.RiskScoreRow
}

// EnsureSchema creates the readmit schema and its tables when missing.
func EnsureSchema(ctx context.Context, db DBTX) error {
	if _, err := db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// LoadRun connects to connStr, ensures the schema, and persists run under a
// fresh run id, which it returns. batchSize <= 0 selects DefaultBatchSize.
func LoadRun(ctx context.Context, connStr string, run Run, batchSize int) (uuid.UUID, error) {
	start := time.Now()
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("parse connection: %w", err)
	}
	poolConfig.MaxConns = 4

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return uuid.Nil, fmt.Errorf("connect: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("ping: %w", err)
	}

	if err := EnsureSchema(ctx, pool); err != nil {
		return uuid.Nil, err
	}

	runID := uuid.New()

	var (
		tx pgx.Tx
		q  *Queries

		txRowCount  int
		rowsWritten int64
		lastLog     = time.Now()
	)

	beginTx := func() error {
		tx, err = pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		q = New(tx)
		return nil
	}

	// insertRow runs one summary insert, committing and reopening the
	// transaction every batchSize rows.
	insertRow := func(insert func() error) error {
		if err := insert(); err != nil {
			return err
		}
		txRowCount++
		rowsWritten++
		if txRowCount >= batchSize {
			if err := tx.Commit(ctx); err != nil {
				return fmt.Errorf("commit: %w", err)
			}
			txRowCount = 0
			if err := beginTx(); err != nil {
				return err
			}
		}
		if time.Since(lastLog) >= 5*time.Second {
			elapsed := time.Since(start).Seconds()
			log.Printf("warehouse: %d rows written (%.0f rows/s)", rowsWritten, float64(rowsWritten)/elapsed)
			lastLog = time.Now()
		}
		return nil
	}

	if err := beginTx(); err != nil {
		return uuid.Nil, err
	}

	if err := q.InsertRun(ctx, InsertRunParams{
		RunID:         runID,
		Source:        run.Source,
		AsOfDate:      dateFromTime(run.AsOf),
		Admissions:    int32(run.Admissions),
		Events:        int32(len(run.Events)),
		MembersScored: int32(len(run.RiskScores)),
	}); err != nil {
		tx.Rollback(ctx)
		return uuid.Nil, fmt.Errorf("insert run: %w", err)
	}

	events := make([]InsertReadmissionEventsParams, len(run.Events))
	for i := range run.Events {
		events[i] = eventParams(runID, run.Events[i])
	}
	copied, err := q.InsertReadmissionEvents(ctx, events)
	if err != nil {
		tx.Rollback(ctx)
		return uuid.Nil, fmt.Errorf("copy readmission_events: %w", err)
	}
	rowsWritten += copied

	for i := range run.Diagnosis {
		d := run.Diagnosis[i]
		if err := insertRow(func() error {
			return q.InsertDiagnosisSummary(ctx, diagnosisParams(runID, d))
		}); err != nil {
			tx.Rollback(ctx)
			return uuid.Nil, fmt.Errorf("insert diagnosis_summary %q: %w", d.ConditionGroup, err)
		}
	}

	for i := range run.Hospitals {
		h := run.Hospitals[i]
		if err := insertRow(func() error {
			return q.InsertHospitalSummary(ctx, hospitalParams(runID, h))
		}); err != nil {
			tx.Rollback(ctx)
			return uuid.Nil, fmt.Errorf("insert hospital_summary %q: %w", h.HospitalID, err)
		}
	}

	for i := range run.RiskScores {
		r := run.RiskScores[i]
		if err := insertRow(func() error {
			return q.InsertRiskScore(ctx, riskParams(runID, r))
		}); err != nil {
			tx.Rollback(ctx)
			return uuid.Nil, fmt.Errorf("insert risk score %q: %w", r.MemberID, err)
		}
	}

	if err := q.InsertKPISummary(ctx, kpiParams(runID, run.KPI)); err != nil {
		tx.Rollback(ctx)
		return uuid.Nil, fmt.Errorf("insert kpi_summary: %w", err)
	}
	rowsWritten++

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("final commit: %w", err)
	}

	elapsed := time.Since(start)
	log.Printf("warehouse: run %s loaded in %s (%d events, %d diagnosis, %d hospital, %d risk rows)",
		runID, elapsed.Round(time.Millisecond), copied, len(run.Diagnosis), len(run.Hospitals), len(run.RiskScores))

	return runID, nil
}

// ── param builders ─────────────────────────────────────────────────

func eventParams(runID uuid.UUID, e model.EventRow) InsertReadmissionEventsParams {
	return InsertReadmissionEventsParams{
		RunID:                   runID,
		MemberID:                e.MemberID,
		IndexAdmissionID:        e.IndexAdmissionID,
		IndexDischargeDate:      dateFromISO(e.IndexDischargeDate),
		NextAdmissionID:         e.NextAdmissionID,
		NextAdmitDate:           dateFromISO(e.NextAdmitDate),
		DaysToReadmit:           e.DaysToReadmit,
		IndexConditionGroup:     textOrNull(e.IndexConditionGroup),
		IndexHospitalID:         textOrNull(e.IndexHospitalID),
		IndexPaidAmount:         floatToNumeric(e.IndexPaidAmount),
		IndexPreventableProxy:   e.IndexPreventableProxy != 0,
		IndexFollowupWithin7d:   e.IndexFollowupWithin7d != 0,
		ReadmitConditionGroup:   textOrNull(e.ReadmitConditionGroup),
		ReadmitPreventableProxy: e.ReadmitPreventableProxy != 0,
		ReadmitPaidAmount:       floatToNumeric(e.ReadmitPaidAmount),
		IsQualifying:            e.IsQualifying != 0,
		IsPreventableQualifying: e.IsPreventableQualifying != 0,
		EventTotalPaid:          floatToNumeric(e.EventTotalPaid),
	}
}

func diagnosisParams(runID uuid.UUID, d model.DiagnosisSummaryRow) InsertDiagnosisSummaryParams {
	return InsertDiagnosisSummaryParams{
		RunID:                  runID,
		ConditionGroup:         d.ConditionGroup,
		Admissions:             d.Admissions,
		Readmissions30d:        d.Readmissions30d,
		AvgInpatientPaid:       floatToNumeric(d.AvgInpatientPaid),
		ReadmissionRate30d:     floatToNumeric(d.ReadmissionRate30d),
		PreventableReadmEvents: d.PreventableReadmEvents,
		TotalReadmEvents:       d.TotalReadmEvents,
		AvoidablePaid:          floatToNumeric(d.AvoidablePaid),
		PreventableShare:       floatToNumeric(d.PreventableShare),
	}
}

func hospitalParams(runID uuid.UUID, h model.HospitalSummaryRow) InsertHospitalSummaryParams {
	return InsertHospitalSummaryParams{
		RunID:              runID,
		HospitalID:         h.HospitalID,
		Admissions:         h.Admissions,
		Readmissions30d:    h.Readmissions30d,
		AvgPaid:            floatToNumeric(h.AvgPaid),
		ReadmissionRate30d: floatToNumeric(h.ReadmissionRate30d),
	}
}

func kpiParams(runID uuid.UUID, k model.KPIRow) InsertKPISummaryParams {
	return InsertKPISummaryParams{
		RunID:                  runID,
		AsOfDate:               dateFromISO(k.AsOfDate),
		TotalAdmissions:        k.TotalAdmissions,
		Readmissions30d:        k.Readmissions30d,
		ReadmissionRate30d:     floatToNumeric(k.ReadmissionRate30d),
		TotalInpatientPaid:     floatToNumeric(k.TotalInpatientPaid),
		PreventableReadmitPaid: floatToNumeric(k.PreventableReadmitPaid),
		AvgReadmissionPaid:     floatToNumeric(k.AvgReadmissionPaid),
		HighRiskMembers:        k.HighRiskMembers,
	}
}

func riskParams(runID uuid.UUID, r model.RiskScoreRow) InsertRiskScoreParams {
	return InsertRiskScoreParams{
		RunID:               runID,
		MemberID:            r.MemberID,
		Age:                 r.Age,
		Sex:                 textOrNull(r.Sex),
		State:               textOrNull(r.State),
		PlanType:            textOrNull(r.PlanType),
		SDI:                 floatToNumeric(r.SDI),
		ChronicCount:        r.ChronicCount,
		PriorAdmissions12m:  r.PriorAdmissions12m,
		EDVisits12m:         r.EDVisits12m,
		OutpatientVisits12m: r.OutpatientVisits12m,
		NoFollowupRate:      floatToNumeric(r.NoFollowupRate),
		Score:               floatToNumeric(r.Score),
		Tier:                r.Tier,
	}
}

// ── pgtype helpers ─────────────────────────────────────────────────

func floatToNumeric(f float64) pgtype.Numeric {
	text := big.NewFloat(f).Text('f', -1)
	var num pgtype.Numeric
	num.Scan(text)
	return num
}

func textOrNull(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}

func dateFromTime(t time.Time) pgtype.Date {
	if t.IsZero() {
		return pgtype.Date{Valid: false}
	}
	return pgtype.Date{Time: t, Valid: true}
}

func dateFromISO(s string) pgtype.Date {
	d, err := model.ParseDate(s)
	if err != nil || d.IsZero() {
		return pgtype.Date{Valid: false}
	}
	return pgtype.Date{Time: d, Valid: true}
}
