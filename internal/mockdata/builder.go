// Package mockdata synthesizes deterministic classroom datasets for the dashboard.
package mockdata

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/noah-isme/tonetrace-api/internal/models"
)

const (
	// DefaultSeed seeds the generator when callers do not pick one.
	DefaultSeed int64 = 12345
	// SubmissionProbability is the chance a student submitted a given assignment.
	SubmissionProbability = 0.9
)

// ErrInvalidPopulationSize is returned for negative counts or counts larger than the fixed pools.
var ErrInvalidPopulationSize = errors.New("invalid population size")

var defaultBaseTime = time.Date(2024, time.September, 2, 8, 0, 0, 0, time.UTC)

// Builder produces datasets from the fixed name and title pools.
type Builder struct {
	names    []string
	titles   []string
	baseTime time.Time
}

// Option customises a Builder.
type Option func(*Builder)

// WithBaseTime anchors every generated timestamp to base.
func WithBaseTime(base time.Time) Option {
	return func(b *Builder) {
		if !base.IsZero() {
			b.baseTime = base.UTC()
		}
	}
}

// NewBuilder constructs a dataset builder.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		names:    studentNames,
		titles:   assignmentTitles,
		baseTime: defaultBaseTime,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// MaxStudents returns the largest supported student count.
func (b *Builder) MaxStudents() int { return len(b.names) }

// MaxAssignments returns the largest supported assignment count.
func (b *Builder) MaxAssignments() int { return len(b.titles) }

// Build synthesizes a dataset. The output depends only on the generator state
// and the requested counts.
func (b *Builder) Build(rng *SeededRandom, studentCount, assignmentCount int) (models.Dataset, error) {
	if studentCount < 0 || studentCount > len(b.names) {
		return models.Dataset{}, fmt.Errorf("%w: %d students requested, supported range is 0-%d", ErrInvalidPopulationSize, studentCount, len(b.names))
	}
	if assignmentCount < 0 || assignmentCount > len(b.titles) {
		return models.Dataset{}, fmt.Errorf("%w: %d assignments requested, supported range is 0-%d", ErrInvalidPopulationSize, assignmentCount, len(b.titles))
	}
	if rng == nil {
		rng = NewSeededRandom(DefaultSeed)
	}

	students := make([]models.Student, 0, studentCount)
	for i := 0; i < studentCount; i++ {
		students = append(students, b.student(rng, i))
	}

	assignments := make([]models.Assignment, 0, assignmentCount)
	for j := 0; j < assignmentCount; j++ {
		assignments = append(assignments, b.assignment(rng, j, studentCount))
	}

	submissions := make([]models.Submission, 0)
	analyses := make([]models.AnalysisMetrics, 0)
	for _, student := range students {
		for _, assignment := range assignments {
			if rng.Next() >= SubmissionProbability {
				continue
			}
			submission := b.submission(rng, student, assignment)
			submissions = append(submissions, submission)
			analyses = append(analyses, b.analysis(rng, submission))
		}
	}

	return models.Dataset{
		Students:    students,
		Assignments: assignments,
		Submissions: submissions,
		Analyses:    analyses,
	}, nil
}

// BuildMockDataset builds a dataset with the default pools and a fresh generator for seed.
func BuildMockDataset(seed int64, studentCount, assignmentCount int) (models.Dataset, error) {
	return NewBuilder().Build(NewSeededRandom(seed), studentCount, assignmentCount)
}

func (b *Builder) student(rng *SeededRandom, index int) models.Student {
	name := b.names[index]
	student := models.Student{
		ID:        fmt.Sprintf("student-%d", index+1),
		Name:      name,
		Email:     strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@tonetrace.school",
		RiskLevel: models.RiskLevel(rng.Choice(models.RiskLevels)),
		CreatedAt: b.baseTime.AddDate(0, 0, -rng.NextInt(7, 60)),
	}

	if rng.Next() < 0.8 {
		student.BaselineStyleProfile = &models.StyleProfile{
			BaselineFormality:    round(rng.NextFloat(0.3, 0.9), 3),
			BaselineComplexity:   round(rng.NextFloat(0.3, 0.8), 3),
			BaselineLexical:      round(rng.NextFloat(0.4, 0.85), 3),
			FingerprintStability: round(rng.NextFloat(0.6, 0.95), 3),
			Strengths:            pickDistinct(rng, profileStrengths, 2),
			Weaknesses:           pickDistinct(rng, profileWeaknesses, 2),
		}
	}

	return student
}

func (b *Builder) assignment(rng *SeededRandom, index, studentCount int) models.Assignment {
	return models.Assignment{
		ID:             fmt.Sprintf("assignment-%d", index+1),
		Title:          b.titles[index],
		DueDate:        b.baseTime.AddDate(0, 0, 7*(index+1)),
		SubmittedCount: rng.NextInt(studentCount*7/10, studentCount),
		TotalCount:     studentCount,
		ClassAverage:   round(rng.NextFloat(60, 95), 1),
		HasOutliers:    rng.Next() < 0.3,
	}
}

func (b *Builder) submission(rng *SeededRandom, student models.Student, assignment models.Assignment) models.Submission {
	submittedAt := assignment.DueDate.Add(-time.Duration(rng.NextInt(0, 72)) * time.Hour)
	return models.Submission{
		ID:               models.SubmissionID(student.ID, assignment.ID),
		StudentID:        student.ID,
		AssignmentID:     assignment.ID,
		Text:             fmt.Sprintf("Submission by %s for %q.", student.Name, assignment.Title),
		SubmittedAt:      &submittedAt,
		AnalysisResultID: models.AnalysisResultID(student.ID, assignment.ID),
	}
}

func (b *Builder) analysis(rng *SeededRandom, submission models.Submission) models.AnalysisMetrics {
	polarity := round(rng.NextFloat(-0.5, 0.8), 3)
	fkGrade := round(rng.NextFloat(6, 16), 1)
	durationMs := rng.NextInt(400, 4200)
	createdAt := submission.SubmittedAt.Add(time.Duration(rng.NextInt(1, 15)) * time.Minute)

	metrics := models.AnalysisMetrics{
		ID:           submission.AnalysisResultID,
		SubmissionID: submission.ID,
		StudentID:    submission.StudentID,
		AssignmentID: submission.AssignmentID,
		Formality:    round(rng.NextFloat(0, 1), 3),
		Complexity:   round(rng.NextFloat(0, 1), 3),
		Sentiment: models.Sentiment{
			Polarity:     polarity,
			Subjectivity: round(rng.NextFloat(0.1, 0.9), 3),
			Bucket:       sentimentBucket(polarity),
		},
		PassivePercent:   round(rng.NextFloat(5, 35), 1),
		LexicalDiversity: round(rng.NextFloat(0.4, 0.9), 3),
		ZipfRichness:     round(rng.NextFloat(1, 7), 2),
		Readability: models.Readability{
			FKGrade:   fkGrade,
			SMOG:      round(rng.NextFloat(5, 15), 1),
			Fog:       round(rng.NextFloat(6, 18), 1),
			DaleChall: round(rng.NextFloat(4, 12), 1),
			EduLevel:  educationLevel(fkGrade),
		},
		Grammar: models.Grammar{
			ByType: models.GrammarErrorCounts{
				Spelling:    rng.NextInt(0, 5),
				Punctuation: rng.NextInt(0, 8),
				Grammar:     rng.NextInt(0, 6),
				Style:       rng.NextInt(0, 10),
			},
			Quality: models.GrammarQuality(rng.Choice(models.GrammarQualities)),
		},
		Hedging: models.Hedging{
			Density:       round(rng.NextFloat(0, 0.3), 3),
			Assertiveness: round(rng.NextFloat(0.3, 0.9), 3),
		},
		StyleMetrics: models.StyleMetrics{
			AvgSentenceLength: round(rng.NextFloat(12, 28), 1),
			WordCount:         rng.NextInt(250, 1200),
			SentenceCount:     rng.NextInt(10, 60),
		},
		Tone: drawTone(rng),
		Anomaly: models.Anomaly{
			DeviationScore:       round(rng.NextFloat(0, 0.8), 3),
			FingerprintStability: round(rng.NextFloat(0.5, 0.95), 3),
		},
		Performance: models.Performance{
			DurationMs: durationMs,
			Success:    rng.Next() < 0.97,
		},
		CreatedAt:        createdAt,
		AnalyzedAt:       createdAt.Add(time.Duration(durationMs) * time.Millisecond),
		AnalyzerVersions: versionsMap(),
	}

	return metrics
}

func drawTone(rng *SeededRandom) models.Tone {
	weights := make([]float64, len(models.ToneCategories))
	var total float64
	for i := range weights {
		weights[i] = rng.NextFloat(0.05, 1)
		total += weights[i]
	}

	distribution := make(map[string]float64, len(weights))
	order := make([]int, len(weights))
	for i, category := range models.ToneCategories {
		distribution[category] = weights[i] / total
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return weights[order[a]] > weights[order[b]] })

	return models.Tone{
		Primary:      models.ToneCategories[order[0]],
		Secondary:    models.ToneCategories[order[1]],
		Distribution: distribution,
	}
}

func pickDistinct(rng *SeededRandom, pool []string, count int) []string {
	picked := make([]string, 0, count)
	for i := 0; i < count; i++ {
		candidate := rng.Choice(pool)
		duplicate := false
		for _, existing := range picked {
			if existing == candidate {
				duplicate = true
				break
			}
		}
		if !duplicate {
			picked = append(picked, candidate)
		}
	}
	return picked
}

func sentimentBucket(polarity float64) string {
	switch {
	case polarity > 0.1:
		return models.SentimentPositive
	case polarity < -0.1:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}

func educationLevel(fkGrade float64) string {
	switch {
	case fkGrade < 9:
		return "middle_school"
	case fkGrade < 13:
		return "high_school"
	case fkGrade < 15:
		return "undergraduate"
	default:
		return "graduate"
	}
}

func versionsMap() datatypes.JSONMap {
	versions := make(datatypes.JSONMap, len(analyzerVersions))
	for name, version := range analyzerVersions {
		versions[name] = version
	}
	return versions
}

func round(value float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(value*factor) / factor
}
