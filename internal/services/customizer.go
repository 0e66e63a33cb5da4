package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dkoval/jobpilot/internal/entities"
	"github.com/dkoval/jobpilot/internal/logger"
	"github.com/dkoval/jobpilot/internal/metrics"
	log "github.com/sirupsen/logrus"
	"github.com/samber/lo"
)

// The oracle is never trusted to preserve facts, only to reorder already-true
// strings. The prompt pins the item count; the count is then checked
// mechanically on return.
const reorderPrompt = `You are a resume bullet point customizer.

CRITICAL RULES - NEVER VIOLATE:
1. ONLY use information from the provided bullet points
2. DO NOT invent achievements, projects, or experience
3. ONLY reorder existing content
4. Return EXACTLY the same number of bullet points as input
5. Return a JSON array of strings, nothing else`

type Customizer struct {
	oracle oracleClient
}

func NewCustomizer(oracle oracleClient) *Customizer {
	return &Customizer{oracle: oracle}
}

// Customize produces a transient, reordered copy of the profile tuned to the
// job. It never fails: a rejected transformation degrades to the original
// profile, forfeiting personalization but never blocking document generation.
func (c *Customizer) Customize(ctx context.Context, profile entities.Profile,
	analysis entities.Analysis, score entities.MatchScore, useOracle bool) entities.Profile {

	var customized entities.Profile
	if useOracle && c.oracleAlive(ctx) {
		customized = c.customizeWithOracle(ctx, profile, analysis)
	} else {
		customized = customizeByRules(profile, analysis, score)
	}

	if !ValidateStructure(profile, customized) {
		metrics.ValidatorRejectionsCounter.Inc()
		log.Warn("customized profile failed structural validation, using original")
		return profile
	}

	return customized
}

func (c *Customizer) oracleAlive(ctx context.Context) bool {
	if c.oracle == nil {
		return false
	}
	if err := c.oracle.Ping(ctx); err != nil {
		log.Warnf("oracle not available, falling back to rule-based customization: %v", err)
		return false
	}
	return true
}

// customizeByRules is the no-oracle path: matched skills float to the front of
// each category and the recommended variant's description leads the highlights.
func customizeByRules(profile entities.Profile, analysis entities.Analysis,
	score entities.MatchScore) entities.Profile {

	customized := profile.Clone()
	customized.Skills = reorderSkills(profile.Skills, analysis.RequiredSkills)

	for i, exp := range customized.Experience {
		variantText, ok := variantDescription(exp, score.RecommendedVariant)
		if !ok {
			continue
		}
		highlights := append([]string{variantText}, exp.Highlights...)
		if len(highlights) > len(exp.Highlights)+1 {
			highlights = highlights[:len(exp.Highlights)+1]
		}
		customized.Experience[i].Highlights = highlights
	}

	return customized
}

// variantDescription resolves a possibly compound variant tag ("a+b") against
// the entry's alternates: the full tag wins, then the first present component.
func variantDescription(exp entities.ExperienceEntry, variant string) (string, bool) {
	if text, ok := exp.Variants[variant]; ok {
		return text, true
	}
	for _, part := range strings.Split(variant, "+") {
		if text, ok := exp.Variants[part]; ok {
			return text, true
		}
	}
	return "", false
}

func (c *Customizer) customizeWithOracle(ctx context.Context, profile entities.Profile,
	analysis entities.Analysis) entities.Profile {

	customized := profile.Clone()

	// One request per entry bounds the blast radius of a bad transformation:
	// a rejected reorder discards that entry only, never the whole profile.
	for i, exp := range profile.Experience {
		reordered, err := c.reorderHighlights(ctx, exp.Highlights, analysis.RequiredSkills)
		if err != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeOracle).
				Warnf("keeping original highlights for %v: %v", exp.Company, err)
			continue
		}
		customized.Experience[i].Highlights = reordered
	}

	customized.Skills = reorderSkills(profile.Skills, analysis.RequiredSkills)
	return customized
}

func (c *Customizer) reorderHighlights(ctx context.Context, highlights, requiredSkills []string) ([]string, error) {

	required, err := json.Marshal(requiredSkills)
	if err != nil {
		return nil, err
	}
	original, err := json.Marshal(highlights)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf("%s\n\nJob requirements:\n%s\n\nBullet points (keep count=%d):\n%s"+
		"\n\nReorder the bullet points so those matching the job requirements come first.",
		reorderPrompt, required, len(highlights), original)

	response, err := c.oracle.Infer(ctx, prompt)
	if err != nil {
		return nil, err
	}

	reordered, err := parseHighlights(response)
	if err != nil {
		return nil, err
	}

	// Hard gate: a length mismatch means the oracle dropped or invented
	// content, so the transformation is discarded.
	if len(reordered) != len(highlights) {
		metrics.OracleRejectionsCounter.Inc()
		return nil, fmt.Errorf("oracle changed highlight count from %d to %d", len(highlights), len(reordered))
	}

	return reordered, nil
}

func parseHighlights(response string) ([]string, error) {
	start := strings.Index(response, "[")
	end := strings.LastIndex(response, "]")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON array in response")
	}

	var highlights []string
	if err := json.Unmarshal([]byte(response[start:end+1]), &highlights); err != nil {
		return nil, err
	}
	return highlights, nil
}

// reorderSkills partitions every category into matched-then-unmatched,
// preserving relative order within each partition.
func reorderSkills(skills map[string][]string, requiredSkills []string) map[string][]string {

	required := lo.SliceToMap(requiredSkills, func(s string) (string, struct{}) {
		return normalizeSkill(s), struct{}{}
	})

	reordered := make(map[string][]string, len(skills))
	for category, list := range skills {
		matched := lo.Filter(list, func(s string, _ int) bool {
			_, ok := required[normalizeSkill(s)]
			return ok
		})
		unmatched := lo.Filter(list, func(s string, _ int) bool {
			_, ok := required[normalizeSkill(s)]
			return !ok
		})
		reordered[category] = append(matched, unmatched...)
	}
	return reordered
}
