package analytics

import (
	"log"
	"math"
	"sort"

	"readmitstats/model"
)

// Dimension is a grouping key extractor for the aggregation.
type Dimension struct {
	Name string
	Key  func(model.Admission) string
}

// Built-in grouping dimensions.
var (
	ByConditionGroup = Dimension{Name: "primary_condition_group", Key: func(a model.Admission) string { return a.ConditionGroup }}
	ByHospital       = Dimension{Name: "hospital_id", Key: func(a model.Admission) string { return a.HospitalID }}
	ByMember         = Dimension{Name: "member_id", Key: func(a model.Admission) string { return a.MemberID }}
	Global           = Dimension{Name: "all", Key: func(model.Admission) string { return "ALL" }}
)

// Aggregate rolls the sequenced admissions and their classified events up by
// one grouping dimension.
//
// Denominators count every admission in the bucket, paired or not, so the
// TotalAdmissions sum across buckets always equals the input admission
// count. Qualifying and preventable-qualifying events are attributed to the
// index admission's bucket. AvoidablePaid sums the successor stay's paid
// amount over preventable-qualifying events only: the cost of the
// readmission, not of the index stay.
//
// Admissions with an empty key are routed to the UNKNOWN bucket and counted
// once in a data-quality warning instead of being dropped. Rows are sorted
// by preventable-qualifying events descending, key ascending on ties, so a
// rerun over reshuffled input produces byte-identical reports.
func Aggregate(seq []model.SequencedAdmission, events []model.ReadmissionEvent, dim Dimension) []model.AggregateRow {
	buckets := make(map[string]*model.AggregateRow)
	bucket := func(key string) *model.AggregateRow {
		row, ok := buckets[key]
		if !ok {
			row = &model.AggregateRow{Key: key}
			buckets[key] = row
		}
		return row
	}

	var unknown int
	keyOf := func(a model.Admission) string {
		k := dim.Key(a)
		if k == "" {
			unknown++
			return model.UnknownGroup
		}
		return k
	}

	for i := range seq {
		row := bucket(keyOf(seq[i].Admission))
		row.TotalAdmissions++
		row.TotalPaidAmount += seq[i].PaidAmount
	}

	byID := make(map[string]*model.Admission, len(seq))
	for i := range seq {
		byID[seq[i].AdmissionID] = &seq[i].Admission
	}
	for i := range events {
		ev := &events[i]
		if !ev.IsQualifying {
			continue
		}
		index, ok := byID[ev.IndexAdmissionID]
		if !ok {
			continue // event without a matching admission cannot be attributed
		}
		key := dim.Key(*index)
		if key == "" {
			key = model.UnknownGroup
		}
		row := bucket(key)
		row.QualifyingReadmissions++
		if ev.IsPreventableQualifying {
			row.PreventableQualifying++
			row.AvoidablePaid += ev.ReadmitPaidAmount
		}
	}

	rows := make([]model.AggregateRow, 0, len(buckets))
	for _, row := range buckets {
		if row.TotalAdmissions > 0 {
			row.ReadmissionRate = float64(row.QualifyingReadmissions) / float64(row.TotalAdmissions)
			row.AvgPaidAmount = row.TotalPaidAmount / float64(row.TotalAdmissions)
		}
		if row.QualifyingReadmissions > 0 {
			row.PreventableShare = float64(row.PreventableQualifying) / float64(row.QualifyingReadmissions)
		}
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].PreventableQualifying != rows[j].PreventableQualifying {
			return rows[i].PreventableQualifying > rows[j].PreventableQualifying
		}
		return rows[i].Key < rows[j].Key
	})

	if unknown > 0 {
		log.Printf("warning: %d admissions with missing %s routed to %q bucket", unknown, dim.Name, model.UnknownGroup)
	}
	return rows
}

// SortByRate reorders aggregate rows by readmission rate descending, key
// ascending on ties. Hospital league tables are presented this way.
func SortByRate(rows []model.AggregateRow) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].ReadmissionRate != rows[j].ReadmissionRate {
			return rows[i].ReadmissionRate > rows[j].ReadmissionRate
		}
		return rows[i].Key < rows[j].Key
	})
}

// round keeps money at cents and rates at report precision.
func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
