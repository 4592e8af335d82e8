package models

import (
	"fmt"
	"time"
)

// Submission represents a piece of writing a student handed in for an assignment.
type Submission struct {
	SnapshotID       uint       `gorm:"primaryKey;autoIncrement:false" json:"-"`
	ID               string     `gorm:"primaryKey;size:160" json:"id"`
	StudentID        string     `gorm:"size:64;index;not null" json:"student_id"`
	AssignmentID     string     `gorm:"size:64;index;not null" json:"assignment_id"`
	Text             string     `gorm:"type:text" json:"text"`
	SubmittedAt      *time.Time `json:"submitted_at,omitempty"`
	AnalysisResultID string     `gorm:"size:200" json:"analysis_result_id"`
}

// SubmissionID returns the identifier shared by a student's submission for an assignment.
func SubmissionID(studentID, assignmentID string) string {
	return fmt.Sprintf("%s-%s", studentID, assignmentID)
}

// AnalysisResultID returns the analysis identifier paired with a submission.
func AnalysisResultID(studentID, assignmentID string) string {
	return fmt.Sprintf("%s-%s-analysis", studentID, assignmentID)
}

// MissingSubmissionID returns the placeholder identifier used for absent submissions.
func MissingSubmissionID(studentID, assignmentID string) string {
	return fmt.Sprintf("missing-%s-%s", studentID, assignmentID)
}

// IsMissing reports whether the submission is a placeholder for absent work.
func (s Submission) IsMissing() bool {
	return s.SubmittedAt == nil && s.AnalysisResultID == ""
}
