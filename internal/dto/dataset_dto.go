package dto

import (
	"time"

	"github.com/noah-isme/tonetrace-api/internal/models"
)

// DatasetQuery selects which dataset a read operates on. Nil fields fall back
// to the configured defaults.
type DatasetQuery struct {
	Seed        *int64
	Students    *int
	Assignments *int
	Snapshot    string
}

// DatasetParams is a fully resolved DatasetQuery.
type DatasetParams struct {
	Seed        int64  `json:"seed"`
	Students    int    `json:"students" validate:"min=0"`
	Assignments int    `json:"assignments" validate:"min=0"`
	Snapshot    string `json:"snapshot,omitempty" validate:"omitempty,max=128,printascii,excludesall=/"`
}

// DatasetResponse wraps a dataset with its provenance.
type DatasetResponse struct {
	models.Dataset
	Source   string        `json:"source"`
	Params   DatasetParams `json:"params"`
	CacheHit bool          `json:"cache_hit"`
}

// SnapshotCreateRequest asks the service to generate and persist a dataset.
type SnapshotCreateRequest struct {
	Name        string `json:"name" validate:"required,max=128,printascii,excludesall=/"`
	Seed        *int64 `json:"seed"`
	Students    *int   `json:"students" validate:"omitempty,min=0"`
	Assignments *int   `json:"assignments" validate:"omitempty,min=0"`
}

// SnapshotResponse describes a stored snapshot.
type SnapshotResponse struct {
	ID              uint      `json:"id"`
	Name            string    `json:"name"`
	Seed            int64     `json:"seed"`
	StudentCount    int       `json:"student_count"`
	AssignmentCount int       `json:"assignment_count"`
	SubmissionCount int       `json:"submission_count"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// DatasetGeneratedEvent is published whenever a snapshot is stored.
type DatasetGeneratedEvent struct {
	EventID         string    `json:"event_id"`
	Snapshot        string    `json:"snapshot"`
	Seed            int64     `json:"seed"`
	StudentCount    int       `json:"student_count"`
	AssignmentCount int       `json:"assignment_count"`
	SubmissionCount int       `json:"submission_count"`
	GeneratedAt     time.Time `json:"generated_at"`
}
