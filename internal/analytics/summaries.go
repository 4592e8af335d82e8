package analytics

import (
	"time"

	"github.com/noah-isme/tonetrace-api/internal/models"
)

// ComputeStudentSummaries builds one roster row per student in roster order.
func ComputeStudentSummaries(ds models.Dataset) []models.StudentSummary {
	byStudent := groupByStudent(ds.Analyses)
	submissions := make(map[string]int, len(ds.Students))
	for _, submission := range ds.Submissions {
		submissions[submission.StudentID]++
	}

	summaries := make([]models.StudentSummary, 0, len(ds.Students))
	for _, student := range ds.Students {
		analyses := byStudent[student.ID]
		summary := models.StudentSummary{
			StudentID:       student.ID,
			Name:            student.Name,
			Email:           student.Email,
			RiskLevel:       student.RiskLevel,
			SubmissionCount: submissions[student.ID],
			MissingCount:    max(len(ds.Assignments)-submissions[student.ID], 0),
		}
		if len(analyses) > 0 {
			formality := make([]float64, 0, len(analyses))
			readability := make([]float64, 0, len(analyses))
			for _, analysis := range analyses {
				formality = append(formality, analysis.Formality)
				readability = append(readability, analysis.Readability.FKGrade)
			}
			summary.MeanDeviation = meanDeviation(analyses)
			summary.MeanGrammarQuality = meanGrammar(analyses)
			summary.MeanFormality = mean(formality)
			summary.MeanReadability = mean(readability)
			summary.Struggling = isStruggling(analyses)
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

// ComputeAssignmentSummaries builds one tracker row per assignment from the
// submissions actually present in the dataset. Assignments due before asOf are
// flagged past due.
func ComputeAssignmentSummaries(ds models.Dataset, asOf time.Time) []models.AssignmentSummary {
	submissions := make(map[string]int, len(ds.Assignments))
	for _, submission := range ds.Submissions {
		submissions[submission.AssignmentID]++
	}

	grammar := make(map[string][]float64, len(ds.Assignments))
	anomalies := make(map[string]int, len(ds.Assignments))
	for _, analysis := range ds.Analyses {
		grammar[analysis.AssignmentID] = append(grammar[analysis.AssignmentID], grammarScore(analysis.Grammar.Quality))
		if analysis.Anomaly.DeviationScore > AnomalyThreshold {
			anomalies[analysis.AssignmentID]++
		}
	}

	summaries := make([]models.AssignmentSummary, 0, len(ds.Assignments))
	for _, assignment := range ds.Assignments {
		count := submissions[assignment.ID]
		summaries = append(summaries, models.AssignmentSummary{
			AssignmentID:       assignment.ID,
			Title:              assignment.Title,
			SubmissionCount:    count,
			MissingCount:       max(len(ds.Students)-count, 0),
			SubmissionRate:     submissionRate(count, len(ds.Students)),
			MeanGrammarQuality: mean(grammar[assignment.ID]),
			AnomaliesCount:     anomalies[assignment.ID],
			PastDue:            assignment.IsPastDue(asOf),
		})
	}
	return summaries
}
