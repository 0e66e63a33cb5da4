package services

import (
	"strings"
	"time"

	"github.com/dkoval/jobpilot/internal/entities"
	"github.com/samber/lo"
)

// Sub-score weights. Overall is always skills*0.4 + experience*0.3 + domain*0.3.
const (
	skillsWeight     = 0.4
	experienceWeight = 0.3
	domainWeight     = 0.3
)

// DomainSignals captures which topical signal sets were found in the
// candidate's experience highlights and technology tags.
type DomainSignals struct {
	ML       bool
	Vertical bool
	Backend  bool
}

// DomainPolicy maps role category plus detected signals to a domain sub-score.
// The mapping is a policy, not a law: any implementation is acceptable as long
// as the same inputs always yield the same score.
type DomainPolicy interface {
	Score(roleCategory string, signals DomainSignals) float64
}

// ComputeScore derives a match score from the profile and the analysis alone.
// It is a pure function: no external calls, deterministic for equal inputs.
func ComputeScore(profile entities.Profile, analysis entities.Analysis, policy DomainPolicy) entities.MatchScore {

	skills := skillsScore(profile, analysis)
	experience := experienceScore(profile.Metadata.YearsOfExperience, analysis.ExperienceLevel)
	domain := policy.Score(analysis.RoleCategory, detectSignals(profile))

	return entities.MatchScore{
		JobFingerprint:     analysis.JobFingerprint,
		Overall:            skills*skillsWeight + experience*experienceWeight + domain*domainWeight,
		Skills:             skills,
		Experience:         experience,
		Domain:             domain,
		RecommendedVariant: recommendVariant(analysis.RoleCategory),
		SkillsToEmphasize:  skillsToEmphasize(profile, analysis),
		CalculatedAt:       time.Now(),
	}
}

func normalizeSkill(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func flattenSkills(profile entities.Profile) map[string]string {
	flattened := map[string]string{}
	for _, skills := range profile.Skills {
		for _, skill := range skills {
			flattened[normalizeSkill(skill)] = skill
		}
	}
	return flattened
}

// skillsScore is the overlap with required skills as a percentage, plus a
// bonus of up to 10 points for nice-to-have overlap, capped at 100. An empty
// required set scores 100: no requirement can't be failed.
func skillsScore(profile entities.Profile, analysis entities.Analysis) float64 {

	userSkills := flattenSkills(profile)

	required := lo.Uniq(lo.Map(analysis.RequiredSkills, func(s string, _ int) string {
		return normalizeSkill(s)
	}))

	if len(required) == 0 {
		return 100
	}

	overlap := lo.CountBy(required, func(s string) bool {
		_, ok := userSkills[s]
		return ok
	})
	score := float64(overlap) / float64(len(required)) * 100

	niceToHave := lo.Uniq(lo.Map(analysis.NiceToHaveSkills, func(s string, _ int) string {
		return normalizeSkill(s)
	}))

	if len(niceToHave) > 0 {
		bonusOverlap := lo.CountBy(niceToHave, func(s string) bool {
			_, ok := userSkills[s]
			return ok
		})
		score += float64(bonusOverlap) / float64(len(niceToHave)) * 10
	}

	if score > 100 {
		return 100
	}
	return score
}

var experienceLevels = map[string]int{
	"entry":     0,
	"junior":    0,
	"mid":       1,
	"mid-level": 1,
	"senior":    2,
	"lead":      3,
	"staff":     3,
	"principal": 4,
}

func yearsToLevel(years float64) int {
	switch {
	case years < 2:
		return 0
	case years < 5:
		return 1
	case years < 8:
		return 2
	default:
		return 3
	}
}

// experienceScore compares ordinal levels: exact match 100, each level of
// distance costs 20 points, floored at 40.
func experienceScore(years float64, requiredLevel string) float64 {

	required, ok := experienceLevels[normalizeSkill(requiredLevel)]
	if !ok {
		required = 1
	}

	diff := yearsToLevel(years) - required
	if diff < 0 {
		diff = -diff
	}

	switch diff {
	case 0:
		return 100
	case 1:
		return 80
	case 2:
		return 60
	default:
		return 40
	}
}

var (
	mlTerms       = []string{"machine learning", "ml", "tensorflow", "pytorch", "ai"}
	verticalTerms = []string{"automotive", "bosch", "car", "vehicle"}
	backendTerms  = []string{"backend", "api", "fastapi", "flask", "django"}
)

func detectSignals(profile entities.Profile) DomainSignals {

	var signals DomainSignals
	for _, exp := range profile.Experience {
		text := strings.ToLower(strings.Join(exp.Highlights, " ") + " " + strings.Join(exp.Technologies, " "))

		containsAny := func(terms []string) bool {
			return lo.SomeBy(terms, func(term string) bool {
				return strings.Contains(text, term)
			})
		}

		signals.ML = signals.ML || containsAny(mlTerms)
		signals.Vertical = signals.Vertical || containsAny(verticalTerms)
		signals.Backend = signals.Backend || containsAny(backendTerms)
	}
	return signals
}

// defaultDomainPolicy is the decision table tuned for ML/backend/data roles.
type defaultDomainPolicy struct{}

func NewDefaultDomainPolicy() DomainPolicy {
	return defaultDomainPolicy{}
}

func (defaultDomainPolicy) Score(roleCategory string, signals DomainSignals) float64 {

	category := strings.ToLower(roleCategory)

	switch {
	case strings.Contains(category, "ml") || strings.Contains(category, "machine learning") ||
		strings.Contains(category, "ai"):
		if signals.ML && signals.Vertical {
			return 100
		}
		if signals.ML {
			return 90
		}
		return 50

	case strings.Contains(category, "backend") || strings.Contains(category, "software engineer"):
		if signals.Backend {
			return 90
		}
		return 70

	case strings.Contains(category, "data"):
		if signals.ML {
			return 85
		}
		return 60

	default:
		return 75
	}
}

// Variant labels match the keys of the profile's per-entry variants map.
const (
	VariantML         = "ml_focused"
	VariantAutomotive = "automotive_focused"
	VariantBackend    = "backend_focused"
	VariantLeadership = "leadership_focused"
	VariantBalanced   = "balanced"
)

func recommendVariant(roleCategory string) string {

	category := strings.ToLower(roleCategory)

	switch {
	case strings.Contains(category, "ml") || strings.Contains(category, "machine learning") ||
		strings.Contains(category, "ai"):
		if strings.Contains(category, "automotive") {
			return VariantML + "+" + VariantAutomotive
		}
		return VariantML
	case strings.Contains(category, "backend") || strings.Contains(category, "software"):
		return VariantBackend
	case strings.Contains(category, "lead") || strings.Contains(category, "senior"):
		return VariantLeadership
	default:
		return VariantBalanced
	}
}

// skillsToEmphasize returns the required skills the candidate actually has,
// in the order the analysis listed them and with the profile's casing.
func skillsToEmphasize(profile entities.Profile, analysis entities.Analysis) []string {

	userSkills := flattenSkills(profile)

	var matched []string
	for _, required := range analysis.RequiredSkills {
		if original, ok := userSkills[normalizeSkill(required)]; ok {
			matched = append(matched, original)
		}
	}
	return matched
}
