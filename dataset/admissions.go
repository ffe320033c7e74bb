package dataset

import (
	"fmt"
	"io"

	"readmitstats/model"
)

// AdmissionReader streams admissions.csv one typed record at a time.
type AdmissionReader struct {
	t    *tableFile
	cols admissionCols
}

type admissionCols struct {
	admissionID   int
	memberID      int
	hospitalID    int
	providerID    int
	admitDate     int
	dischargeDate int
	lengthOfStay  int
	condGroup     int
	icd10         int
	drg           int
	preventable   int
	followup      int
	paid          int
}

// NewAdmissionReader opens an admissions CSV and resolves its columns.
// A file missing any required column fails here, before any row is read.
func NewAdmissionReader(path string) (*AdmissionReader, error) {
	t, err := openTable(path)
	if err != nil {
		return nil, err
	}
	cols := admissionCols{
		admissionID:   t.column("admission_id"),
		memberID:      t.column("member_id"),
		hospitalID:    t.column("hospital_id"),
		providerID:    t.column("attending_provider_id", "provider_id"),
		admitDate:     t.column("admit_date", "admission_date"),
		dischargeDate: t.column("discharge_date"),
		lengthOfStay:  t.column("length_of_stay", "los"),
		condGroup:     t.column("primary_condition_group", "condition_group"),
		icd10:         t.column("primary_icd10"),
		drg:           t.column("drg"),
		preventable:   t.column("preventable_proxy"),
		followup:      t.column("followup_within_7d"),
		paid:          t.column("inpatient_paid_amount", "paid_amount"),
	}
	required := []struct {
		name string
		idx  int
	}{
		{"member_id", cols.memberID},
		{"admission_id", cols.admissionID},
		{"admit_date", cols.admitDate},
		{"discharge_date", cols.dischargeDate},
		{"preventable_proxy", cols.preventable},
		{"inpatient_paid_amount", cols.paid},
	}
	for _, rc := range required {
		if rc.idx < 0 {
			t.Close()
			return nil, fmt.Errorf("%s: %w: missing column %s", path, model.ErrInvalidRecord, rc.name)
		}
	}
	return &AdmissionReader{t: t, cols: cols}, nil
}

// Next returns the next admission, or io.EOF at end of file.
func (r *AdmissionReader) Next() (model.Admission, error) {
	row, err := r.t.next()
	if err != nil {
		return model.Admission{}, err
	}
	return r.parse(row)
}

func (r *AdmissionReader) parse(row []string) (model.Admission, error) {
	fail := func(format string, args ...any) (model.Admission, error) {
		detail := fmt.Sprintf(format, args...)
		return model.Admission{}, fmt.Errorf("%s row %d: %w: %s", r.t.path, r.t.rowNum, model.ErrInvalidRecord, detail)
	}

	a := model.Admission{
		AdmissionID:         valAt(row, r.cols.admissionID),
		MemberID:            valAt(row, r.cols.memberID),
		HospitalID:          valAt(row, r.cols.hospitalID),
		AttendingProviderID: valAt(row, r.cols.providerID),
		ConditionGroup:      valAt(row, r.cols.condGroup),
		PrimaryICD10:        valAt(row, r.cols.icd10),
		DRG:                 valAt(row, r.cols.drg),
	}
	if a.MemberID == "" {
		return fail("missing member_id")
	}
	if a.AdmissionID == "" {
		return fail("missing admission_id")
	}

	var err error
	admit := valAt(row, r.cols.admitDate)
	if admit == "" {
		return fail("missing admit_date")
	}
	if a.AdmitDate, err = model.ParseDate(admit); err != nil {
		return fail("admit_date: %v", err)
	}
	discharge := valAt(row, r.cols.dischargeDate)
	if discharge == "" {
		return fail("missing discharge_date")
	}
	if a.DischargeDate, err = model.ParseDate(discharge); err != nil {
		return fail("discharge_date: %v", err)
	}
	if a.DischargeDate.Before(a.AdmitDate) {
		return fail("discharge_date %s before admit_date %s", discharge, admit)
	}

	paid := valAt(row, r.cols.paid)
	if paid == "" {
		return fail("missing inpatient_paid_amount")
	}
	if a.PaidAmount, err = parseMoney(paid); err != nil {
		return fail("inpatient_paid_amount: %v", err)
	}
	if a.PaidAmount < 0 {
		return fail("negative inpatient_paid_amount %s", paid)
	}

	if a.PreventableProxy, err = parseFlag(valAt(row, r.cols.preventable)); err != nil {
		return fail("preventable_proxy: %v", err)
	}
	if a.FollowupWithin7d, err = parseFlag(valAt(row, r.cols.followup)); err != nil {
		return fail("followup_within_7d: %v", err)
	}

	// Length of stay is derivable, so a missing column is not an error.
	if los := valAt(row, r.cols.lengthOfStay); los != "" {
		if a.LengthOfStay, err = parseInt(los); err != nil {
			return fail("length_of_stay: %v", err)
		}
	} else {
		a.LengthOfStay = model.DaysBetween(a.AdmitDate, a.DischargeDate)
	}
	return a, nil
}

// Close releases the underlying file.
func (r *AdmissionReader) Close() error {
	return r.t.Close()
}

// ReadAdmissions loads an entire admissions table into memory.
func ReadAdmissions(path string) ([]model.Admission, error) {
	r, err := NewAdmissionReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var out []model.Admission
	for {
		a, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}
