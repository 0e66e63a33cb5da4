package services

import (
	"testing"

	"github.com/dkoval/jobpilot/internal/entities"
	"github.com/stretchr/testify/assert"
)

func testProfile() entities.Profile {
	return entities.Profile{
		Experience: []entities.ExperienceEntry{
			{
				Company:      "Acme Motors",
				Role:         "ML Engineer",
				Highlights:   []string{"Built ML pipelines for automotive perception"},
				Technologies: []string{"PyTorch", "Python"},
			},
		},
		Skills: map[string][]string{
			"languages":  {"Python", "Go"},
			"frameworks": {"PyTorch", "FastAPI"},
		},
		Metadata: entities.ProfileMetadata{YearsOfExperience: 6},
	}
}

func Test_SkillsScore_PartialOverlap(t *testing.T) {

	analysis := entities.Analysis{
		RequiredSkills: []string{"Python", "Kubernetes", "go"},
	}

	score := skillsScore(testProfile(), analysis)
	assert.InDelta(t, 66.67, score, 0.01)
}

func Test_SkillsScore_EmptyRequiredScoresFull(t *testing.T) {

	score := skillsScore(testProfile(), entities.Analysis{})
	assert.Equal(t, 100.0, score)
}

func Test_SkillsScore_NiceToHaveBonusIsCapped(t *testing.T) {

	analysis := entities.Analysis{
		RequiredSkills:   []string{"Python", "Go"},
		NiceToHaveSkills: []string{"PyTorch", "FastAPI"},
	}

	score := skillsScore(testProfile(), analysis)
	assert.Equal(t, 100.0, score)
}

func Test_SkillsScore_MatchingIsCaseInsensitive(t *testing.T) {

	analysis := entities.Analysis{
		RequiredSkills: []string{"PYTHON", " pytorch "},
	}

	score := skillsScore(testProfile(), analysis)
	assert.Equal(t, 100.0, score)
}

func Test_ExperienceScore_DistanceBuckets(t *testing.T) {

	// 6 years is the senior bucket
	assert.Equal(t, 100.0, experienceScore(6, "Senior"))
	assert.Equal(t, 80.0, experienceScore(6, "Lead"))
	assert.Equal(t, 80.0, experienceScore(6, "Mid"))
	assert.Equal(t, 60.0, experienceScore(6, "Entry"))
	assert.Equal(t, 40.0, experienceScore(10, "entry"))
}

func Test_ExperienceScore_UnknownLevelDefaultsToMid(t *testing.T) {

	assert.Equal(t, experienceScore(3, "Mid"), experienceScore(3, "Wizard"))
}

func Test_ComputeScore_OverallIsWeightedSum(t *testing.T) {

	analysis := entities.Analysis{
		JobFingerprint:  "fp",
		RequiredSkills:  []string{"Python"},
		RoleCategory:    "ML Engineer",
		ExperienceLevel: "Senior",
	}

	score := ComputeScore(testProfile(), analysis, NewDefaultDomainPolicy())

	expected := score.Skills*0.4 + score.Experience*0.3 + score.Domain*0.3
	assert.InDelta(t, expected, score.Overall, 1e-9)
	assert.Equal(t, "fp", score.JobFingerprint)
}

func Test_ComputeScore_IsDeterministic(t *testing.T) {

	analysis := entities.Analysis{
		RequiredSkills:  []string{"Python", "Go", "Kubernetes"},
		RoleCategory:    "Backend Engineer",
		ExperienceLevel: "Mid",
	}

	first := ComputeScore(testProfile(), analysis, NewDefaultDomainPolicy())
	second := ComputeScore(testProfile(), analysis, NewDefaultDomainPolicy())

	assert.Equal(t, first.Overall, second.Overall)
	assert.Equal(t, first.Skills, second.Skills)
	assert.Equal(t, first.Experience, second.Experience)
	assert.Equal(t, first.Domain, second.Domain)
	assert.Equal(t, first.RecommendedVariant, second.RecommendedVariant)
}

func Test_DomainPolicy_MLWithVerticalSignals(t *testing.T) {

	policy := NewDefaultDomainPolicy()

	assert.Equal(t, 100.0, policy.Score("ML Engineer", DomainSignals{ML: true, Vertical: true}))
	assert.Equal(t, 90.0, policy.Score("ML Engineer", DomainSignals{ML: true}))
	assert.Equal(t, 50.0, policy.Score("ML Engineer", DomainSignals{}))
	assert.Equal(t, 90.0, policy.Score("Backend Engineer", DomainSignals{Backend: true}))
	assert.Equal(t, 75.0, policy.Score("Underwater Basket Weaver", DomainSignals{}))
}

func Test_DetectSignals_FromHighlightsAndTechnologies(t *testing.T) {

	signals := detectSignals(testProfile())
	assert.True(t, signals.ML)
	assert.True(t, signals.Vertical)
	assert.False(t, signals.Backend)
}

func Test_RecommendVariant(t *testing.T) {

	assert.Equal(t, "ml_focused", recommendVariant("ML Engineer"))
	assert.Equal(t, "ml_focused+automotive_focused", recommendVariant("Automotive ML Engineer"))
	assert.Equal(t, "backend_focused", recommendVariant("Backend Engineer"))
	assert.Equal(t, "leadership_focused", recommendVariant("Engineering Lead"))
	assert.Equal(t, "balanced", recommendVariant("Data Analyst"))
}

func Test_SkillsToEmphasize_KeepsAnalysisOrderAndProfileCasing(t *testing.T) {

	analysis := entities.Analysis{
		RequiredSkills: []string{"go", "Kubernetes", "PYTHON"},
	}

	emphasized := skillsToEmphasize(testProfile(), analysis)
	assert.Equal(t, []string{"Go", "Python"}, emphasized)
}
