package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LeaveType is one of the seven recognized leave codes.
type LeaveType string

const (
	LeaveCL  LeaveType = "CL"
	LeaveEL  LeaveType = "EL"
	LeaveHPL LeaveType = "HPL"
	LeaveOD  LeaveType = "OD"
	LeaveCCL LeaveType = "CCL"
	LeaveLOP LeaveType = "LOP"
	LeaveML  LeaveType = "ML"
)

// BalanceTypes are the six types that participate in balance aggregation.
// ML is a recognized ledger type but is excluded from the availed sums; the
// asymmetry mirrors the entitlement sheet and is intentional.
var BalanceTypes = []LeaveType{LeaveCL, LeaveEL, LeaveHPL, LeaveOD, LeaveCCL, LeaveLOP}

var knownLeaveTypes = map[LeaveType]struct{}{
	LeaveCL: {}, LeaveEL: {}, LeaveHPL: {}, LeaveOD: {},
	LeaveCCL: {}, LeaveLOP: {}, LeaveML: {},
}

// Valid reports whether t is a recognized leave code.
func (t LeaveType) Valid() bool {
	_, ok := knownLeaveTypes[t]
	return ok
}

// Session describes which part of the day a leave entry covers.
type Session string

const (
	SessionFN   Session = "FN"
	SessionAN   Session = "AN"
	SessionFull Session = "FULL"
)

// LedgerEntry is one row per faculty per leave day actually taken. Entries
// are immutable after creation; correction happens by admin delete and
// resubmission.
type LedgerEntry struct {
	ID           string          `db:"id" json:"id"`
	FacultyEmail string          `db:"faculty_email" json:"faculty_email"`
	FacultyKey   string          `db:"faculty_key" json:"faculty_key"`
	LeaveType    LeaveType       `db:"leave_type" json:"leave_type"`
	Session      Session         `db:"session" json:"session"`
	Days         decimal.Decimal `db:"days" json:"days"`
	Date         string          `db:"date" json:"date"`
	Reason       string          `db:"reason" json:"reason"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
}

// LedgerFilter narrows ledger listings.
type LedgerFilter struct {
	FacultyEmail string
	Page         int
	PageSize     int
}
