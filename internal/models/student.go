package models

import "time"

// RiskLevel classifies how closely a student should be monitored.
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "low"
	RiskLevelMedium RiskLevel = "medium"
	RiskLevelHigh   RiskLevel = "high"
)

// RiskLevels lists the supported risk levels in ascending order.
var RiskLevels = []string{string(RiskLevelLow), string(RiskLevelMedium), string(RiskLevelHigh)}

// StyleProfile captures a student's baseline writing style.
type StyleProfile struct {
	BaselineFormality    float64  `json:"baseline_formality"`
	BaselineComplexity   float64  `json:"baseline_complexity"`
	BaselineLexical      float64  `json:"baseline_lexical"`
	FingerprintStability float64  `json:"fingerprint_stability"`
	Strengths            []string `json:"strengths"`
	Weaknesses           []string `json:"weaknesses"`
}

// Student represents a learner on the teacher's roster.
type Student struct {
	SnapshotID           uint          `gorm:"primaryKey;autoIncrement:false" json:"-"`
	ID                   string        `gorm:"primaryKey;size:64" json:"id"`
	Name                 string        `gorm:"size:255;not null" json:"name"`
	Email                string        `gorm:"size:255;not null" json:"email"`
	RiskLevel            RiskLevel     `gorm:"size:16;not null" json:"risk_level"`
	BaselineStyleProfile *StyleProfile `gorm:"serializer:json" json:"baseline_style_profile,omitempty"`
	CreatedAt            time.Time     `json:"created_at"`
}
