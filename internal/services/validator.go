package services

import (
	"github.com/dkoval/jobpilot/internal/entities"
	log "github.com/sirupsen/logrus"
)

// ValidateStructure is the structural diff gate in front of document
// generation: a transformed profile must have the same shape as its source.
// Shape, not prose, is what gets checked; hallucinated edits change shape.
// Any failed check rejects the whole customization.
func ValidateStructure(original, customized entities.Profile) bool {

	if !sameSkillCategories(original.Skills, customized.Skills) {
		log.Warn("structural validation: skill categories changed")
		return false
	}

	if len(original.Experience) != len(customized.Experience) {
		log.Warn("structural validation: experience entry count changed")
		return false
	}

	if len(original.Education) != len(customized.Education) {
		log.Warn("structural validation: education entry count changed")
		return false
	}

	// One slot of tolerance per entry for a variant-emphasis insertion.
	for i, exp := range original.Experience {
		diff := len(exp.Highlights) - len(customized.Experience[i].Highlights)
		if diff < 0 {
			diff = -diff
		}
		if diff > 1 {
			log.Warnf("structural validation: highlight count mismatch at entry %d", i)
			return false
		}
	}

	return true
}

func sameSkillCategories(original, customized map[string][]string) bool {
	if len(original) != len(customized) {
		return false
	}
	for category := range original {
		if _, ok := customized[category]; !ok {
			return false
		}
	}
	return true
}
