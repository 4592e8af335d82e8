// Package analytics reduces datasets into the class-level statistics shown on the dashboard.
package analytics

import (
	"github.com/montanaflynn/stats"

	"github.com/noah-isme/tonetrace-api/internal/models"
)

const (
	// AnomalyThreshold is the deviation score above which an analysis counts as anomalous.
	AnomalyThreshold = 0.6
	// StrugglingDeviationThreshold flags students whose mean deviation exceeds it.
	StrugglingDeviationThreshold = 0.5
	// StrugglingGrammarThreshold flags students whose mean grammar score falls below it.
	StrugglingGrammarThreshold = 70.0
)

var grammarQualityScores = map[models.GrammarQuality]float64{
	models.GrammarQualityExcellent: 95,
	models.GrammarQualityGood:      80,
	models.GrammarQualityFair:      65,
	models.GrammarQualityPoor:      45,
}

// GrammarQualityScore maps a grammar quality bucket to its numeric score.
// Unknown buckets score zero and report false.
func GrammarQualityScore(quality models.GrammarQuality) (float64, bool) {
	score, ok := grammarQualityScores[quality]
	return score, ok
}

func grammarScore(quality models.GrammarQuality) float64 {
	score, _ := GrammarQualityScore(quality)
	return score
}

// ComputeClassAggregates reduces a dataset into class-wide averages, the
// submission rate, anomaly count, struggling students and missing submissions.
func ComputeClassAggregates(ds models.Dataset) models.ClassAggregates {
	result := models.ClassAggregates{
		HasData:            len(ds.Analyses) > 0,
		StrugglingStudents: StrugglingStudents(ds),
		MissingSubmissions: MissingSubmissions(ds),
		ToneDistribution:   toneDistribution(ds.Analyses),
	}

	if result.HasData {
		readability := make([]float64, 0, len(ds.Analyses))
		grammar := make([]float64, 0, len(ds.Analyses))
		formality := make([]float64, 0, len(ds.Analyses))
		complexity := make([]float64, 0, len(ds.Analyses))
		for _, analysis := range ds.Analyses {
			readability = append(readability, analysis.Readability.FKGrade)
			grammar = append(grammar, grammarScore(analysis.Grammar.Quality))
			formality = append(formality, analysis.Formality)
			complexity = append(complexity, analysis.Complexity)
			if analysis.Anomaly.DeviationScore > AnomalyThreshold {
				result.AnomaliesCount++
			}
		}
		result.ClassAverages = models.ClassAverages{
			Readability:    mean(readability),
			GrammarQuality: mean(grammar),
			Formality:      mean(formality),
			Complexity:     mean(complexity),
		}
	}

	result.SubmissionRate = submissionRate(len(ds.Submissions), len(ds.Students)*len(ds.Assignments))
	return result
}

// StrugglingStudents returns, in roster order, the students whose mean deviation
// is above 0.5 or whose mean grammar score is below 70. Students without
// analyses are never included.
func StrugglingStudents(ds models.Dataset) []models.Student {
	byStudent := groupByStudent(ds.Analyses)
	struggling := make([]models.Student, 0)
	for _, student := range ds.Students {
		analyses := byStudent[student.ID]
		if len(analyses) == 0 {
			continue
		}
		if isStruggling(analyses) {
			struggling = append(struggling, student)
		}
	}
	return struggling
}

// MissingSubmissions returns a placeholder for every student and assignment
// pair without a real submission, in student-major order.
func MissingSubmissions(ds models.Dataset) []models.Submission {
	submitted := submittedPairs(ds.Submissions)
	missing := make([]models.Submission, 0)
	for _, student := range ds.Students {
		for _, assignment := range ds.Assignments {
			if submitted[pairKey{student.ID, assignment.ID}] {
				continue
			}
			missing = append(missing, models.Submission{
				ID:           models.MissingSubmissionID(student.ID, assignment.ID),
				StudentID:    student.ID,
				AssignmentID: assignment.ID,
			})
		}
	}
	return missing
}

type pairKey struct {
	studentID    string
	assignmentID string
}

func submittedPairs(submissions []models.Submission) map[pairKey]bool {
	pairs := make(map[pairKey]bool, len(submissions))
	for _, submission := range submissions {
		pairs[pairKey{submission.StudentID, submission.AssignmentID}] = true
	}
	return pairs
}

func groupByStudent(analyses []models.AnalysisMetrics) map[string][]models.AnalysisMetrics {
	grouped := make(map[string][]models.AnalysisMetrics)
	for _, analysis := range analyses {
		grouped[analysis.StudentID] = append(grouped[analysis.StudentID], analysis)
	}
	return grouped
}

func isStruggling(analyses []models.AnalysisMetrics) bool {
	return meanDeviation(analyses) > StrugglingDeviationThreshold ||
		meanGrammar(analyses) < StrugglingGrammarThreshold
}

func meanDeviation(analyses []models.AnalysisMetrics) float64 {
	values := make([]float64, 0, len(analyses))
	for _, analysis := range analyses {
		values = append(values, analysis.Anomaly.DeviationScore)
	}
	return mean(values)
}

func meanGrammar(analyses []models.AnalysisMetrics) float64 {
	values := make([]float64, 0, len(analyses))
	for _, analysis := range analyses {
		values = append(values, grammarScore(analysis.Grammar.Quality))
	}
	return mean(values)
}

func toneDistribution(analyses []models.AnalysisMetrics) map[string]float64 {
	distribution := make(map[string]float64, len(models.ToneCategories))
	for _, category := range models.ToneCategories {
		distribution[category] = 0
	}
	if len(analyses) == 0 {
		return distribution
	}
	for _, analysis := range analyses {
		for _, category := range models.ToneCategories {
			distribution[category] += analysis.Tone.Distribution[category]
		}
	}
	for category := range distribution {
		distribution[category] /= float64(len(analyses))
	}
	return distribution
}

func submissionRate(submitted, expected int) float64 {
	if expected == 0 {
		return 0
	}
	return float64(submitted) / float64(expected) * 100
}

// mean returns zero for an empty slice.
func mean(values []float64) float64 {
	m, err := stats.Mean(stats.Float64Data(values))
	if err != nil {
		return 0
	}
	return m
}
