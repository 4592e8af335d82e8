package dto

import "github.com/noah-isme/tonetrace-api/internal/models"

// StudentDetailResponse is a student profile with their writing history.
type StudentDetailResponse struct {
	Student     models.Student           `json:"student"`
	Summary     models.StudentSummary    `json:"summary"`
	Submissions []models.Submission      `json:"submissions"`
	Analyses    []models.AnalysisMetrics `json:"analyses"`
	Missing     []models.Submission      `json:"missing"`
}
