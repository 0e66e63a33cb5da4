package entities

import "time"

// MatchScore holds the weighted compatibility between the candidate profile
// and an analyzed job. The latest score always supersedes the previous one.
type MatchScore struct {
	JobFingerprint     string  `gorm:"primaryKey"`
	Overall            float64
	Skills             float64
	Experience         float64
	Domain             float64
	RecommendedVariant string
	SkillsToEmphasize  []string `gorm:"serializer:json"`
	CalculatedAt       time.Time
}
