package entities

import "time"

// Analysis is the structured requirement extraction for a single job.
// Once stored it is immutable: re-analyzing an analyzed job returns this
// record untouched.
type Analysis struct {
	JobFingerprint   string   `gorm:"primaryKey" json:"-"`
	RequiredSkills   []string `gorm:"serializer:json" json:"required_skills"`
	NiceToHaveSkills []string `gorm:"serializer:json" json:"nice_to_have_skills"`
	AtsKeywords      []string `gorm:"serializer:json" json:"ats_keywords"`
	RoleCategory     string   `json:"role_category"`
	ExperienceLevel  string   `json:"experience_level"`
	AnalyzedAt       time.Time `json:"-"`
}
