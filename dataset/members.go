package dataset

import (
	"fmt"
	"io"

	"readmitstats/model"
)

// MemberReader streams members.csv one typed record at a time.
type MemberReader struct {
	t    *tableFile
	cols memberCols
}

type memberCols struct {
	memberID int
	age      int
	sex      int
	state    int
	sdi      int
	planType int
	chronic  int
}

func NewMemberReader(path string) (*MemberReader, error) {
	t, err := openTable(path)
	if err != nil {
		return nil, err
	}
	cols := memberCols{
		memberID: t.column("member_id"),
		age:      t.column("age"),
		sex:      t.column("sex"),
		state:    t.column("state"),
		sdi:      t.column("sdi", "social_deprivation_index"),
		planType: t.column("plan_type"),
		chronic:  t.column("chronic_count", "chronic_condition_count"),
	}
	if cols.memberID < 0 {
		t.Close()
		return nil, fmt.Errorf("%s: %w: missing column member_id", path, model.ErrInvalidRecord)
	}
	return &MemberReader{t: t, cols: cols}, nil
}

// Next returns the next member, or io.EOF at end of file.
func (r *MemberReader) Next() (model.Member, error) {
	row, err := r.t.next()
	if err != nil {
		return model.Member{}, err
	}

	fail := func(format string, args ...any) (model.Member, error) {
		detail := fmt.Sprintf(format, args...)
		return model.Member{}, fmt.Errorf("%s row %d: %w: %s", r.t.path, r.t.rowNum, model.ErrInvalidRecord, detail)
	}

	m := model.Member{
		MemberID: valAt(row, r.cols.memberID),
		Sex:      valAt(row, r.cols.sex),
		State:    valAt(row, r.cols.state),
		PlanType: valAt(row, r.cols.planType),
	}
	if m.MemberID == "" {
		return fail("missing member_id")
	}
	if age := valAt(row, r.cols.age); age != "" {
		if m.Age, err = parseInt(age); err != nil {
			return fail("age: %v", err)
		}
	}
	if sdi := valAt(row, r.cols.sdi); sdi != "" {
		if m.SDI, err = parseMoney(sdi); err != nil {
			return fail("sdi: %v", err)
		}
	}
	if chronic := valAt(row, r.cols.chronic); chronic != "" {
		if m.ChronicCount, err = parseInt(chronic); err != nil {
			return fail("chronic_count: %v", err)
		}
	}
	return m, nil
}

// Close releases the underlying file.
func (r *MemberReader) Close() error {
	return r.t.Close()
}

// ReadMembers loads an entire members table into memory.
func ReadMembers(path string) ([]model.Member, error) {
	r, err := NewMemberReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var out []model.Member
	for {
		m, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}
