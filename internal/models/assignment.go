package models

import "time"

// Assignment represents a writing task tracked on the dashboard.
//
// SubmittedCount and TotalCount are display counters; they are not derived
// from the submissions present in a dataset.
type Assignment struct {
	SnapshotID     uint      `gorm:"primaryKey;autoIncrement:false" json:"-"`
	ID             string    `gorm:"primaryKey;size:64" json:"id"`
	Title          string    `gorm:"size:255;not null" json:"title"`
	DueDate        time.Time `gorm:"not null" json:"due_date"`
	SubmittedCount int       `gorm:"not null" json:"submitted_count"`
	TotalCount     int       `gorm:"not null" json:"total_count"`
	ClassAverage   float64   `json:"class_average"`
	HasOutliers    bool      `json:"has_outliers"`
}

// IsPastDue returns true when the assignment deadline has already passed.
func (a Assignment) IsPastDue(reference time.Time) bool {
	return reference.After(a.DueDate)
}
