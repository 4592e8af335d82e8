package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/noah-isme/tonetrace-api/internal/models"
)

const insertBatchSize = 200

// ErrSnapshotNotFound indicates no snapshot is stored under the requested name.
var ErrSnapshotNotFound = errors.New("dataset snapshot not found")

// DatasetRepository persists generated datasets as named snapshots.
type DatasetRepository interface {
	SaveSnapshot(ctx context.Context, snapshot *models.DatasetSnapshot, dataset models.Dataset) error
	LoadSnapshot(ctx context.Context, name string) (models.DatasetSnapshot, models.Dataset, error)
	ListSnapshots(ctx context.Context) ([]models.DatasetSnapshot, error)
}

type datasetRepository struct {
	db *gorm.DB
}

// NewDatasetRepository constructs the snapshot repository.
func NewDatasetRepository(db *gorm.DB) DatasetRepository {
	return &datasetRepository{db: db}
}

// SaveSnapshot stores dataset under snapshot.Name, replacing any snapshot with the same name.
// snapshot.SubmissionCount is set from the dataset.
func (r *datasetRepository) SaveSnapshot(ctx context.Context, snapshot *models.DatasetSnapshot, dataset models.Dataset) error {
	if snapshot == nil || snapshot.Name == "" {
		return fmt.Errorf("snapshot name must not be empty")
	}
	snapshot.SubmissionCount = len(dataset.Submissions)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.DatasetSnapshot
		err := tx.Where("name = ?", snapshot.Name).First(&existing).Error
		switch {
		case err == nil:
			if err := deleteSnapshotRows(tx, existing.ID); err != nil {
				return err
			}
			snapshot.ID = existing.ID
			snapshot.CreatedAt = existing.CreatedAt
			if err := tx.Save(snapshot).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(snapshot).Error; err != nil {
				return err
			}
		default:
			return err
		}

		return insertSnapshotRows(tx, snapshot.ID, dataset)
	})
}

func (r *datasetRepository) LoadSnapshot(ctx context.Context, name string) (models.DatasetSnapshot, models.Dataset, error) {
	db := r.db.WithContext(ctx)

	var snapshot models.DatasetSnapshot
	if err := db.Where("name = ?", name).First(&snapshot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.DatasetSnapshot{}, models.Dataset{}, ErrSnapshotNotFound
		}
		return models.DatasetSnapshot{}, models.Dataset{}, err
	}

	dataset := models.Dataset{
		Students:    []models.Student{},
		Assignments: []models.Assignment{},
		Submissions: []models.Submission{},
		Analyses:    []models.AnalysisMetrics{},
	}

	// Identifiers carry a numeric suffix, so ordering by length first restores generation order.
	if err := db.Where("snapshot_id = ?", snapshot.ID).
		Order("length(id), id").
		Find(&dataset.Students).Error; err != nil {
		return models.DatasetSnapshot{}, models.Dataset{}, err
	}
	if err := db.Where("snapshot_id = ?", snapshot.ID).
		Order("length(id), id").
		Find(&dataset.Assignments).Error; err != nil {
		return models.DatasetSnapshot{}, models.Dataset{}, err
	}
	if err := db.Where("snapshot_id = ?", snapshot.ID).
		Order("length(student_id), student_id, length(assignment_id), assignment_id").
		Find(&dataset.Submissions).Error; err != nil {
		return models.DatasetSnapshot{}, models.Dataset{}, err
	}
	if err := db.Where("snapshot_id = ?", snapshot.ID).
		Order("length(student_id), student_id, length(assignment_id), assignment_id").
		Find(&dataset.Analyses).Error; err != nil {
		return models.DatasetSnapshot{}, models.Dataset{}, err
	}

	return snapshot, dataset, nil
}

func (r *datasetRepository) ListSnapshots(ctx context.Context) ([]models.DatasetSnapshot, error) {
	var snapshots []models.DatasetSnapshot
	if err := r.db.WithContext(ctx).Order("updated_at DESC").Find(&snapshots).Error; err != nil {
		return nil, err
	}
	return snapshots, nil
}

func deleteSnapshotRows(tx *gorm.DB, snapshotID uint) error {
	for _, model := range []interface{}{&models.AnalysisMetrics{}, &models.Submission{}, &models.Assignment{}, &models.Student{}} {
		if err := tx.Where("snapshot_id = ?", snapshotID).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

func insertSnapshotRows(tx *gorm.DB, snapshotID uint, dataset models.Dataset) error {
	students := make([]models.Student, len(dataset.Students))
	for i, student := range dataset.Students {
		student.SnapshotID = snapshotID
		students[i] = student
	}
	assignments := make([]models.Assignment, len(dataset.Assignments))
	for i, assignment := range dataset.Assignments {
		assignment.SnapshotID = snapshotID
		assignments[i] = assignment
	}
	submissions := make([]models.Submission, len(dataset.Submissions))
	for i, submission := range dataset.Submissions {
		submission.SnapshotID = snapshotID
		submissions[i] = submission
	}
	analyses := make([]models.AnalysisMetrics, len(dataset.Analyses))
	for i, analysis := range dataset.Analyses {
		analysis.SnapshotID = snapshotID
		analyses[i] = analysis
	}

	if len(students) > 0 {
		if err := tx.CreateInBatches(&students, insertBatchSize).Error; err != nil {
			return fmt.Errorf("insert students: %w", err)
		}
	}
	if len(assignments) > 0 {
		if err := tx.CreateInBatches(&assignments, insertBatchSize).Error; err != nil {
			return fmt.Errorf("insert assignments: %w", err)
		}
	}
	if len(submissions) > 0 {
		if err := tx.CreateInBatches(&submissions, insertBatchSize).Error; err != nil {
			return fmt.Errorf("insert submissions: %w", err)
		}
	}
	if len(analyses) > 0 {
		if err := tx.CreateInBatches(&analyses, insertBatchSize).Error; err != nil {
			return fmt.Errorf("insert analyses: %w", err)
		}
	}
	return nil
}
