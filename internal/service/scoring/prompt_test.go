package scoring

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/bizfit-api/internal/catalog"
)

func TestBuildFitPrompt_RatingsTranslatedToBands(t *testing.T) {
	answers := answersWithAllRatings(3)
	answers.TechSkillsRating = 5
	answers.RiskComfortLevel = 1

	prompt := buildFitPrompt(answers, catalog.Default()[:2])

	// числовые оценки не утекают в промпт, только качественные диапазоны
	assert.Contains(t, prompt, "Tech skills: high")
	assert.Contains(t, prompt, "Risk comfort: low")
	assert.Contains(t, prompt, "creativity: moderate")
	assert.NotContains(t, prompt, "Tech skills: 5")
}

func TestBuildFitPrompt_CandidatesListedByID(t *testing.T) {
	answers := answersWithAllRatings(3)
	candidates := catalog.Default()[:3]

	prompt := buildFitPrompt(answers, candidates)

	for _, m := range candidates {
		assert.Contains(t, prompt, "id="+m.ID)
		assert.Contains(t, prompt, m.Title)
	}
}

func TestBuildFitPrompt_EmptyFieldsGetPlaceholders(t *testing.T) {
	answers := answersWithAllRatings(3)
	answers.MainMotivation = ""
	answers.FirstIncomeTimeline = "   "

	prompt := buildFitPrompt(answers, nil)

	assert.Contains(t, prompt, "Main motivation: not specified")
	assert.Contains(t, prompt, "unspecified timeframe")
}

func TestShortlist_DeterministicOrderOnTies(t *testing.T) {
	calc := newTestCalculator()
	answers := answersWithAllRatings(3)
	models := catalog.Default()

	first := shortlist(calc, models, answers, ShortlistSize)
	second := shortlist(calc, models, answers, ShortlistSize)

	require.Len(t, first, ShortlistSize)
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}
}

func TestShortlist_NLargerThanCatalog(t *testing.T) {
	calc := newTestCalculator()
	models := catalog.Default()

	result := shortlist(calc, models, answersWithAllRatings(3), len(models)+10)
	assert.Len(t, result, len(models))
}

func TestFitSystemPrompt_RequiresStrictJSON(t *testing.T) {
	// контракт с парсером: промпт обязан требовать единственный JSON-объект
	assert.True(t, strings.Contains(fitSystemPrompt, "JSON"))
	assert.Contains(t, fitSystemPrompt, "businessAnalysis")
	assert.Contains(t, fitSystemPrompt, "personalityProfile")
	assert.Contains(t, fitSystemPrompt, "recommendations")
}
