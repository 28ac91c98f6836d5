package scoring

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yourusername/bizfit-api/internal/domain/entity"
)

// ShortlistSize — количество моделей-кандидатов, передаваемых LLM
const ShortlistSize = 5

// fitSystemPrompt требует строго JSON-вывод без пояснений вокруг
const fitSystemPrompt = `You are a business-model fit analyst. ` +
	`Respond with a single JSON object and nothing else: no prose, no markdown fences. ` +
	`The object must contain exactly these top-level keys: ` +
	`"personalityProfile" (object with "strengths" array, "workStyle", "riskProfile", "summary" strings), ` +
	`"businessAnalysis" (array of objects with "businessModelId", "fitScore" 0-100, "reasoning", ` +
	`"strengths" array, "challenges" array, "confidence" 0-1) and ` +
	`"recommendations" (array of strings). ` +
	`Use only the business model ids provided in the prompt.`

// shortlist выбирает top-N кандидатов по алгоритмическому баллу.
// Детерминированность: при равных баллах порядок по id.
func shortlist(calc *FitCalculator, models []entity.BusinessModel, answers *entity.QuizAnswers, n int) []entity.BusinessModel {
	type scored struct {
		model entity.BusinessModel
		score int
	}
	ranked := make([]scored, 0, len(models))
	for _, m := range models {
		ranked = append(ranked, scored{model: m, score: calc.ScoreModel(&m, answers)})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].model.ID < ranked[j].model.ID
	})
	if n > len(ranked) {
		n = len(ranked)
	}
	result := make([]entity.BusinessModel, 0, n)
	for _, r := range ranked[:n] {
		result = append(result, r.model)
	}
	return result
}

// buildFitPrompt собирает компактный промпт: сжатый профиль пользователя
// (оценки переведены в качественные диапазоны) и шорт-лист кандидатов
func buildFitPrompt(answers *entity.QuizAnswers, candidates []entity.BusinessModel) string {
	var b strings.Builder

	b.WriteString("User profile:\n")
	fmt.Fprintf(&b, "- Main motivation: %s\n", valueOr(answers.MainMotivation, "not specified"))
	fmt.Fprintf(&b, "- Income goal: $%.0f/month, first income expected in %s\n",
		answers.SuccessIncomeGoal, valueOr(answers.FirstIncomeTimeline, "unspecified timeframe"))
	fmt.Fprintf(&b, "- Upfront budget: $%.0f, weekly time: %d hours\n",
		answers.UpfrontInvestment, answers.WeeklyTimeCommitment)
	fmt.Fprintf(&b, "- Tech skills: %s, creativity: %s, communication: %s\n",
		entity.RatingBand(answers.TechSkillsRating),
		entity.RatingBand(answers.CreativeWorkEnjoyment),
		entity.RatingBand(answers.DirectCommunicationEnjoyment))
	fmt.Fprintf(&b, "- Self-motivation: %s, organization: %s, resilience: %s\n",
		entity.RatingBand(answers.SelfMotivationLevel),
		entity.RatingBand(answers.OrganizationLevel),
		entity.RatingBand(answers.DiscouragementResilience))
	fmt.Fprintf(&b, "- Risk comfort: %s, uncertainty handling: %s\n",
		entity.RatingBand(answers.RiskComfortLevel),
		entity.RatingBand(answers.UncertaintyHandling))
	fmt.Fprintf(&b, "- Brand-face comfort: %s, online presence comfort: %s\n",
		entity.RatingBand(answers.BrandFaceComfort),
		entity.RatingBand(answers.OnlinePresenceComfort))
	fmt.Fprintf(&b, "- Collaboration preference: %s, structure preference: %s\n",
		valueOr(answers.WorkCollaborationPreference, "mixed"),
		valueOr(answers.WorkStructurePreference, "flexible"))
	if traits := DeriveTraits(answers); len(traits) > 0 {
		fmt.Fprintf(&b, "- Derived traits: %s\n", strings.Join(traits, ", "))
	}

	b.WriteString("\nCandidate business models:\n")
	for _, m := range candidates {
		fmt.Fprintf(&b, "- id=%s: %s — %s (difficulty: %s, time to profit: %s, startup cost: $%.0f-$%.0f)\n",
			m.ID, m.Title, m.Description, m.Difficulty, m.TimeToProfit, m.StartupCostMin, m.StartupCostMax)
	}

	b.WriteString("\nAnalyze the fit between this user and each candidate model.")
	return b.String()
}

// valueOr возвращает значение или замену, если значение пустое
func valueOr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
