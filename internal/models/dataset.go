package models

import "time"

// Dataset is a complete population of students, assignments, submissions and analyses.
type Dataset struct {
	Students    []Student         `json:"students"`
	Assignments []Assignment      `json:"assignments"`
	Submissions []Submission      `json:"submissions"`
	Analyses    []AnalysisMetrics `json:"analyses"`
}

// DatasetSnapshot records a persisted dataset and the parameters that produced it.
type DatasetSnapshot struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"size:128;uniqueIndex;not null" json:"name"`
	Seed            int64     `gorm:"not null" json:"seed"`
	StudentCount    int       `gorm:"not null" json:"student_count"`
	AssignmentCount int       `gorm:"not null" json:"assignment_count"`
	SubmissionCount int       `gorm:"not null;default:0" json:"submission_count"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// StudentByID returns the student with the given identifier.
func (d Dataset) StudentByID(id string) (Student, bool) {
	for _, student := range d.Students {
		if student.ID == id {
			return student, true
		}
	}
	return Student{}, false
}

// AnalysisByID returns the analysis with the given identifier.
func (d Dataset) AnalysisByID(id string) (AnalysisMetrics, bool) {
	for _, analysis := range d.Analyses {
		if analysis.ID == id {
			return analysis, true
		}
	}
	return AnalysisMetrics{}, false
}

// AnalysesForStudent returns the analyses belonging to one student in dataset order.
func (d Dataset) AnalysesForStudent(studentID string) []AnalysisMetrics {
	result := make([]AnalysisMetrics, 0)
	for _, analysis := range d.Analyses {
		if analysis.StudentID == studentID {
			result = append(result, analysis)
		}
	}
	return result
}
