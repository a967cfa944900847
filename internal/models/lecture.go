package models

import "time"

// LectureTemplate is one recurring weekly lecture slot. The day field holds
// a weekday name, full or 3-letter abbreviation, matched case-insensitively
// during projection.
type LectureTemplate struct {
	ID           string    `db:"id" json:"id"`
	Day          string    `db:"day" json:"day"`
	Time         string    `db:"time" json:"time"`
	Name         string    `db:"name" json:"name"`
	FacultyID    string    `db:"faculty_id" json:"faculty_id"`
	FacultyEmail string    `db:"faculty_email" json:"faculty_email"`
	Subject      string    `db:"subject" json:"subject"`
	Room         string    `db:"room" json:"room"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// ProjectedLecture is a dated instance of a template within the projection
// window. Derived on every read, never persisted.
type ProjectedLecture struct {
	TemplateID   string `json:"template_id"`
	Date         string `json:"date"`
	Day          string `json:"day"`
	Time         string `json:"time"`
	Name         string `json:"name"`
	FacultyID    string `json:"faculty_id"`
	FacultyEmail string `json:"faculty_email"`
	Subject      string `json:"subject"`
	Room         string `json:"room"`
}
