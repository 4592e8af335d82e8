package models

// ClassAverages are means over every analysis in a dataset.
type ClassAverages struct {
	Readability    float64 `json:"readability"`
	GrammarQuality float64 `json:"grammar_quality"`
	Formality      float64 `json:"formality"`
	Complexity     float64 `json:"complexity"`
}

// ClassAggregates summarises a dataset for the class overview.
//
// HasData is false when the dataset holds no analyses; averages are then zero.
type ClassAggregates struct {
	HasData            bool               `json:"has_data"`
	ClassAverages      ClassAverages      `json:"class_averages"`
	SubmissionRate     float64            `json:"submission_rate"`
	AnomaliesCount     int                `json:"anomalies_count"`
	StrugglingStudents []Student          `json:"struggling_students"`
	MissingSubmissions []Submission       `json:"missing_submissions"`
	ToneDistribution   map[string]float64 `json:"tone_distribution"`
}

// StudentSummary is one roster row.
type StudentSummary struct {
	StudentID          string    `json:"student_id"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	RiskLevel          RiskLevel `json:"risk_level"`
	SubmissionCount    int       `json:"submission_count"`
	MissingCount       int       `json:"missing_count"`
	MeanDeviation      float64   `json:"mean_deviation"`
	MeanGrammarQuality float64   `json:"mean_grammar_quality"`
	MeanFormality      float64   `json:"mean_formality"`
	MeanReadability    float64   `json:"mean_readability"`
	Struggling         bool      `json:"struggling"`
}

// AssignmentSummary is one assignment tracker row.
type AssignmentSummary struct {
	AssignmentID       string  `json:"assignment_id"`
	Title              string  `json:"title"`
	SubmissionCount    int     `json:"submission_count"`
	MissingCount       int     `json:"missing_count"`
	SubmissionRate     float64 `json:"submission_rate"`
	MeanGrammarQuality float64 `json:"mean_grammar_quality"`
	AnomaliesCount     int     `json:"anomalies_count"`
	PastDue            bool    `json:"past_due"`
}
