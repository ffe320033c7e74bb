package dataset

import (
	"fmt"
	"io"

	"readmitstats/model"
)

// ClaimReader streams claims.csv one typed record at a time. Claim volume
// dwarfs the other two inputs, so callers that only need windowed counts
// should consume this reader directly instead of ReadClaims.
type ClaimReader struct {
	t    *tableFile
	cols claimCols
}

type claimCols struct {
	claimID    int
	memberID   int
	claimDate  int
	claimType  int
	providerID int
	cpt        int
	icd10      int
	paid       int
}

func NewClaimReader(path string) (*ClaimReader, error) {
	t, err := openTable(path)
	if err != nil {
		return nil, err
	}
	cols := claimCols{
		claimID:    t.column("claim_id"),
		memberID:   t.column("member_id"),
		claimDate:  t.column("claim_date", "service_date"),
		claimType:  t.column("claim_type"),
		providerID: t.column("provider_id"),
		cpt:        t.column("cpt"),
		icd10:      t.column("icd10"),
		paid:       t.column("paid_amount"),
	}
	for _, rc := range []struct {
		name string
		idx  int
	}{
		{"member_id", cols.memberID},
		{"claim_date", cols.claimDate},
	} {
		if rc.idx < 0 {
			t.Close()
			return nil, fmt.Errorf("%s: %w: missing column %s", path, model.ErrInvalidRecord, rc.name)
		}
	}
	return &ClaimReader{t: t, cols: cols}, nil
}

// Next returns the next claim, or io.EOF at end of file.
func (r *ClaimReader) Next() (model.Claim, error) {
	row, err := r.t.next()
	if err != nil {
		return model.Claim{}, err
	}

	fail := func(format string, args ...any) (model.Claim, error) {
		detail := fmt.Sprintf(format, args...)
		return model.Claim{}, fmt.Errorf("%s row %d: %w: %s", r.t.path, r.t.rowNum, model.ErrInvalidRecord, detail)
	}

	c := model.Claim{
		ClaimID:    valAt(row, r.cols.claimID),
		MemberID:   valAt(row, r.cols.memberID),
		ClaimType:  valAt(row, r.cols.claimType),
		ProviderID: valAt(row, r.cols.providerID),
		CPT:        valAt(row, r.cols.cpt),
		ICD10:      valAt(row, r.cols.icd10),
	}
	if c.MemberID == "" {
		return fail("missing member_id")
	}
	date := valAt(row, r.cols.claimDate)
	if date == "" {
		return fail("missing claim_date")
	}
	if c.ClaimDate, err = model.ParseDate(date); err != nil {
		return fail("claim_date: %v", err)
	}
	if paid := valAt(row, r.cols.paid); paid != "" {
		if c.PaidAmount, err = parseMoney(paid); err != nil {
			return fail("paid_amount: %v", err)
		}
	}
	return c, nil
}

// Close releases the underlying file.
func (r *ClaimReader) Close() error {
	return r.t.Close()
}

// ReadClaims loads an entire claims table into memory.
func ReadClaims(path string) ([]model.Claim, error) {
	r, err := NewClaimReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var out []model.Claim
	for {
		c, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
