package services

import (
	"context"
	"testing"

	"github.com/dkoval/jobpilot/internal/entities"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func customizerProfile() entities.Profile {
	return entities.Profile{
		Experience: []entities.ExperienceEntry{
			{
				Company:    "Acme Motors",
				Highlights: []string{"Shipped perception models", "Led a team of three"},
				Variants: map[string]string{
					"ml_focused":      "ML-first summary",
					"backend_focused": "Backend-first summary",
				},
			},
		},
		Skills: map[string][]string{
			"languages": {"Java", "Python", "Go"},
		},
	}
}

func Test_CustomizeByRules_MatchedSkillsFloatToFront(t *testing.T) {

	analysis := entities.Analysis{RequiredSkills: []string{"go", "Python"}}

	customized := customizeByRules(customizerProfile(), analysis, entities.MatchScore{})

	assert.Equal(t, []string{"Python", "Go", "Java"}, customized.Skills["languages"])
}

func Test_CustomizeByRules_VariantLeadsHighlights(t *testing.T) {

	score := entities.MatchScore{RecommendedVariant: "ml_focused"}

	customized := customizeByRules(customizerProfile(), entities.Analysis{}, score)

	highlights := customized.Experience[0].Highlights
	assert.Equal(t, "ML-first summary", highlights[0])
	assert.Len(t, highlights, 3)
}

func Test_CustomizeByRules_CompoundVariantFallsBackToComponent(t *testing.T) {

	score := entities.MatchScore{RecommendedVariant: "ml_focused+automotive_focused"}

	customized := customizeByRules(customizerProfile(), entities.Analysis{}, score)

	assert.Equal(t, "ML-first summary", customized.Experience[0].Highlights[0])
}

func Test_CustomizeByRules_UnknownVariantKeepsHighlights(t *testing.T) {

	profile := customizerProfile()
	score := entities.MatchScore{RecommendedVariant: "leadership_focused"}

	customized := customizeByRules(profile, entities.Analysis{}, score)

	assert.Equal(t, profile.Experience[0].Highlights, customized.Experience[0].Highlights)
}

func Test_CustomizeByRules_DoesNotMutateOriginal(t *testing.T) {

	profile := customizerProfile()
	score := entities.MatchScore{RecommendedVariant: "ml_focused"}

	_ = customizeByRules(profile, entities.Analysis{RequiredSkills: []string{"Go"}}, score)

	assert.Equal(t, []string{"Java", "Python", "Go"}, profile.Skills["languages"])
	assert.Len(t, profile.Experience[0].Highlights, 2)
}

func Test_Customize_FallsBackToRulesWhenOracleIsDown(t *testing.T) {

	oracle := &mockOracle{}
	oracle.On("Ping", mock.Anything).Return(errors.New("connection refused"))

	customizer := NewCustomizer(oracle)
	profile := customizerProfile()
	analysis := entities.Analysis{RequiredSkills: []string{"Go"}}

	customized := customizer.Customize(context.Background(), profile, analysis,
		entities.MatchScore{RecommendedVariant: "ml_focused"}, true)

	assert.Equal(t, "ML-first summary", customized.Experience[0].Highlights[0])
	oracle.AssertNotCalled(t, "Infer", mock.Anything, mock.Anything)
}

func Test_Customize_OracleReorderIsApplied(t *testing.T) {

	oracle := &mockOracle{}
	oracle.On("Ping", mock.Anything).Return(nil)
	oracle.On("Infer", mock.Anything, mock.Anything).
		Return(`["Led a team of three", "Shipped perception models"]`, nil)

	customizer := NewCustomizer(oracle)

	customized := customizer.Customize(context.Background(), customizerProfile(),
		entities.Analysis{RequiredSkills: []string{"leadership"}}, entities.MatchScore{}, true)

	assert.Equal(t, []string{"Led a team of three", "Shipped perception models"},
		customized.Experience[0].Highlights)
}

func Test_Customize_OracleChangingCountKeepsOriginalEntry(t *testing.T) {

	oracle := &mockOracle{}
	oracle.On("Ping", mock.Anything).Return(nil)
	oracle.On("Infer", mock.Anything, mock.Anything).
		Return(`["Shipped perception models", "Led a team of three", "Invented cold fusion"]`, nil)

	customizer := NewCustomizer(oracle)
	profile := customizerProfile()

	customized := customizer.Customize(context.Background(), profile,
		entities.Analysis{}, entities.MatchScore{}, true)

	assert.Equal(t, profile.Experience[0].Highlights, customized.Experience[0].Highlights)
}

func Test_Customize_OracleGarbageKeepsOriginalEntry(t *testing.T) {

	oracle := &mockOracle{}
	oracle.On("Ping", mock.Anything).Return(nil)
	oracle.On("Infer", mock.Anything, mock.Anything).Return("I cannot help with that.", nil)

	customizer := NewCustomizer(oracle)
	profile := customizerProfile()

	customized := customizer.Customize(context.Background(), profile,
		entities.Analysis{}, entities.MatchScore{}, true)

	assert.Equal(t, profile.Experience[0].Highlights, customized.Experience[0].Highlights)
}

func Test_Customize_NilOracleUsesRules(t *testing.T) {

	customizer := NewCustomizer(nil)
	profile := customizerProfile()

	customized := customizer.Customize(context.Background(), profile,
		entities.Analysis{RequiredSkills: []string{"Python"}}, entities.MatchScore{}, true)

	assert.Equal(t, []string{"Python", "Java", "Go"}, customized.Skills["languages"])
}
