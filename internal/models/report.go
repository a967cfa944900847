package models

import "github.com/shopspring/decimal"

// LeaveVector holds one decimal per balance type.
type LeaveVector map[LeaveType]decimal.Decimal

// NewLeaveVector returns a vector with all six balance types at zero.
func NewLeaveVector() LeaveVector {
	v := make(LeaveVector, len(BalanceTypes))
	for _, t := range BalanceTypes {
		v[t] = decimal.Zero
	}
	return v
}

// Sum adds up all components of the vector.
func (v LeaveVector) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, t := range BalanceTypes {
		total = total.Add(v[t])
	}
	return total
}

// BalanceRow is one faculty row in the leave balance report. Balances may be
// negative when a type is overdrawn; they are surfaced as-is.
type BalanceRow struct {
	FacultyKey   string        `json:"faculty_key"`
	EmployeeID   string        `json:"employee_id"`
	Name         string        `json:"name"`
	Department   string        `json:"department"`
	FacultyEmail string        `json:"faculty_email"`
	Entitlement  LeaveVector   `json:"entitlement"`
	Availed      LeaveVector   `json:"availed"`
	Balance      LeaveVector   `json:"balance"`
	LowBalance   bool          `json:"low_balance"`
	History      []LedgerEntry `json:"history"`
}
