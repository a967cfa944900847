package models

import "time"

// InvigilationDuty is one exam invigilation assignment. Unlike lectures,
// each row is already a concrete dated instance with no recurrence.
type InvigilationDuty struct {
	ID           string    `db:"id" json:"id"`
	Date         string    `db:"date" json:"date"`
	Time         string    `db:"time" json:"time"`
	FacultyID    string    `db:"faculty_id" json:"faculty_id"`
	FacultyEmail string    `db:"faculty_email" json:"faculty_email"`
	Exam         string    `db:"exam" json:"exam"`
	Room         string    `db:"room" json:"room"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
