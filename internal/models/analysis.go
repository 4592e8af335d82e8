package models

import (
	"time"

	"gorm.io/datatypes"
)

// GrammarQuality buckets the overall grammar of a submission.
type GrammarQuality string

const (
	GrammarQualityExcellent GrammarQuality = "excellent"
	GrammarQualityGood      GrammarQuality = "good"
	GrammarQualityFair      GrammarQuality = "fair"
	GrammarQualityPoor      GrammarQuality = "poor"
)

// GrammarQualities lists the grammar quality buckets from best to worst.
var GrammarQualities = []string{
	string(GrammarQualityExcellent),
	string(GrammarQualityGood),
	string(GrammarQualityFair),
	string(GrammarQualityPoor),
}

// ToneCategories is the fixed set of tones every distribution covers.
var ToneCategories = []string{"formal", "casual", "confident", "tentative", "analytical", "persuasive"}

const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// Sentiment describes the emotional polarity of a submission.
type Sentiment struct {
	Polarity     float64 `json:"polarity"`
	Subjectivity float64 `json:"subjectivity"`
	Bucket       string  `json:"bucket"`
}

// Readability holds the standard readability indices.
type Readability struct {
	FKGrade   float64 `json:"fk_grade"`
	SMOG      float64 `json:"smog"`
	Fog       float64 `json:"fog"`
	DaleChall float64 `json:"dale_chall"`
	EduLevel  string  `json:"edu_level"`
}

// GrammarErrorCounts breaks grammar findings down by type.
type GrammarErrorCounts struct {
	Spelling    int `json:"spelling"`
	Punctuation int `json:"punctuation"`
	Grammar     int `json:"grammar"`
	Style       int `json:"style"`
}

// Total returns the number of findings across all types.
func (c GrammarErrorCounts) Total() int {
	return c.Spelling + c.Punctuation + c.Grammar + c.Style
}

// Grammar summarises grammar findings.
type Grammar struct {
	ByType  GrammarErrorCounts `json:"by_type"`
	Quality GrammarQuality     `json:"quality"`
}

// Hedging measures how tentative the writing is.
type Hedging struct {
	Density       float64 `json:"density"`
	Assertiveness float64 `json:"assertiveness"`
}

// StyleMetrics holds raw text statistics.
type StyleMetrics struct {
	AvgSentenceLength float64 `json:"avg_sentence_length"`
	WordCount         int     `json:"word_count"`
	SentenceCount     int     `json:"sentence_count"`
}

// Tone describes the dominant tones and the full distribution over ToneCategories.
type Tone struct {
	Primary      string             `json:"primary"`
	Secondary    string             `json:"secondary"`
	Distribution map[string]float64 `json:"distribution"`
}

// Anomaly measures how far a submission deviates from the student's baseline.
type Anomaly struct {
	DeviationScore       float64 `json:"deviation_score"`
	FingerprintStability float64 `json:"fingerprint_stability"`
}

// Performance records analyzer run statistics.
type Performance struct {
	DurationMs int  `json:"duration_ms"`
	Success    bool `json:"success"`
}

// AnalysisMetrics is the writing-quality analysis attached to exactly one submission.
type AnalysisMetrics struct {
	SnapshotID       uint              `gorm:"primaryKey;autoIncrement:false;uniqueIndex:idx_analysis_submission,priority:1" json:"-"`
	ID               string            `gorm:"primaryKey;size:200" json:"id"`
	SubmissionID     string            `gorm:"size:160;uniqueIndex:idx_analysis_submission,priority:2;not null" json:"submission_id"`
	StudentID        string            `gorm:"size:64;index;not null" json:"student_id"`
	AssignmentID     string            `gorm:"size:64;index;not null" json:"assignment_id"`
	Formality        float64           `json:"formality"`
	Complexity       float64           `json:"complexity"`
	Sentiment        Sentiment         `gorm:"serializer:json" json:"sentiment"`
	PassivePercent   float64           `json:"passive_percent"`
	LexicalDiversity float64           `json:"lexical_diversity"`
	ZipfRichness     float64           `json:"zipf_richness"`
	Readability      Readability       `gorm:"serializer:json" json:"readability"`
	Grammar          Grammar           `gorm:"serializer:json" json:"grammar"`
	Hedging          Hedging           `gorm:"serializer:json" json:"hedging"`
	StyleMetrics     StyleMetrics      `gorm:"serializer:json" json:"style_metrics"`
	Tone             Tone              `gorm:"serializer:json" json:"tone"`
	Anomaly          Anomaly           `gorm:"serializer:json" json:"anomaly"`
	Performance      Performance       `gorm:"serializer:json" json:"performance"`
	CreatedAt        time.Time         `json:"created_at"`
	AnalyzedAt       time.Time         `json:"analyzed_at"`
	AnalyzerVersions datatypes.JSONMap `gorm:"type:json" json:"analyzer_versions"`
}
