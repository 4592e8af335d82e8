package dto

import (
	"time"

	"github.com/noah-isme/tonetrace-api/internal/models"
)

// ClassAggregatesResponse is the class overview payload.
type ClassAggregatesResponse struct {
	models.ClassAggregates
	Source      string    `json:"source"`
	CacheHit    bool      `json:"cache_hit"`
	GeneratedAt time.Time `json:"generated_at"`
}

// StudentSummaryListResponse backs the roster table.
type StudentSummaryListResponse struct {
	Items       []models.StudentSummary `json:"items"`
	Struggling  int                     `json:"struggling"`
	GeneratedAt time.Time               `json:"generated_at"`
}

// AssignmentSummaryListResponse backs the assignment tracker.
type AssignmentSummaryListResponse struct {
	Items       []models.AssignmentSummary `json:"items"`
	GeneratedAt time.Time                  `json:"generated_at"`
}
