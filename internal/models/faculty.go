package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FacultyMaster is one entitlement record per faculty member, keyed by the
// sanitized form of the email (facultykey.Encode). The email field remains
// the source of truth; the key is only the storage address.
type FacultyMaster struct {
	FacultyKey   string          `db:"faculty_key" json:"faculty_key"`
	EmployeeID   string          `db:"employee_id" json:"employee_id"`
	Name         string          `db:"name" json:"name"`
	Department   string          `db:"department" json:"department"`
	FacultyEmail string          `db:"faculty_email" json:"faculty_email"`
	CL           decimal.Decimal `db:"cl" json:"cl"`
	EL           decimal.Decimal `db:"el" json:"el"`
	HPL          decimal.Decimal `db:"hpl" json:"hpl"`
	OD           decimal.Decimal `db:"od" json:"od"`
	CCL          decimal.Decimal `db:"ccl" json:"ccl"`
	LOP          decimal.Decimal `db:"lop" json:"lop"`
	ML           decimal.Decimal `db:"ml" json:"ml"`
	TotalLeaves  decimal.Decimal `db:"total_leaves" json:"total_leaves"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}

// Entitlement returns the entitlement for one of the six balance types.
// Unknown types report zero.
func (f *FacultyMaster) Entitlement(t LeaveType) decimal.Decimal {
	switch t {
	case LeaveCL:
		return f.CL
	case LeaveEL:
		return f.EL
	case LeaveHPL:
		return f.HPL
	case LeaveOD:
		return f.OD
	case LeaveCCL:
		return f.CCL
	case LeaveLOP:
		return f.LOP
	}
	return decimal.Zero
}

// FacultyFilter captures the report query parameters: exact department match
// and email substring, both case-insensitive.
type FacultyFilter struct {
	Department string
	Email      string
}
