package service

import (
	"fmt"
	"strings"

	"github.com/yourusername/bizfit-api/internal/domain/entity"
	"github.com/yourusername/bizfit-api/internal/service/scoring"
)

const narrativeSystemPrompt = `You are a business advisor helping aspiring entrepreneurs choose an online business model.
Write in second person, specific and encouraging, grounded strictly in the profile provided.
Format the answer as markdown: "### " section headings, "- " bullet lists for key points, short paragraphs otherwise.
Do not invent facts about the user that are not in the profile.`

const characteristicsSystemPrompt = `You analyze entrepreneur personality profiles.
Respond with a strict JSON object and nothing else. Required keys:
"strengths" (array of short strings), "workStyle" (string), "riskProfile" (string), "summary" (one paragraph string).
No markdown, no code fences, no text outside the JSON object.`

// buildNarrativePrompt строит пару промптов (system, user) для нарративного
// типа контента
func buildNarrativePrompt(contentType string, answers *entity.QuizAnswers, analysis *scoring.ComprehensiveFitAnalysis, model *entity.BusinessModel) (string, string) {
	var b strings.Builder

	b.WriteString("User profile:\n")
	writeProfileSummary(&b, answers)

	b.WriteString("\nTop business model matches (algorithmic pre-scoring):\n")
	for _, match := range analysis.TopMatches {
		fmt.Fprintf(&b, "- %s: %d/100\n", match.Title, match.Score)
	}

	switch {
	case contentType == entity.ContentTypePreview:
		b.WriteString("\nTask: write a short results preview. Sections: \"### Key Insights\" (3-4 bullets), \"### Your Best Starting Point\" (why the top match fits, 1-2 paragraphs), \"### What Comes Next\" (one paragraph teasing the full report).")
	case contentType == entity.ContentTypeFullReport:
		b.WriteString("\nTask: write a full personalized report. For each of the top matches add a \"### <model name>\" section with a fit explanation paragraph plus \"- \" bullets for strengths and challenges. Finish with \"### Your Action Plan\" (4-6 concrete first steps) and \"### Key Insights\" (3-5 bullets).")
	case model != nil:
		fmt.Fprintf(&b, "\nTask: write a deep-dive on the \"%s\" business model for this user. Model facts: typical startup cost $%.0f-$%.0f, time to first profit about %.0f months, weekly hours around %d, tech level %d/5, risk level %d/5.\n",
			model.Title, model.StartupCostMin, model.StartupCostMax, model.TimeToProfitMonths, model.WeeklyHoursRequired, model.TechLevelRequired, model.RiskLevel)
		b.WriteString("Sections: \"### Why This Model Fits You\", \"### Key Insights\" (bullets), \"### Your First 30 Days\" (bullets), \"### Watch Out For\" (bullets).")
	}

	return narrativeSystemPrompt, b.String()
}

// buildCharacteristicsPrompt строит промпты для извлечения портрета
// пользователя строгим JSON
func buildCharacteristicsPrompt(answers *entity.QuizAnswers) (string, string) {
	var b strings.Builder
	b.WriteString("Entrepreneur profile from a quiz:\n")
	writeProfileSummary(&b, answers)
	b.WriteString("\nReturn the JSON personality analysis.")
	return characteristicsSystemPrompt, b.String()
}

// writeProfileSummary переводит численные ответы в понятные LLM полосы
// (high/moderate/low) и дописывает абсолютные цели
func writeProfileSummary(b *strings.Builder, answers *entity.QuizAnswers) {
	normalized := *answers
	normalized.Normalize()

	fmt.Fprintf(b, "- Income goal: $%.0f/month\n", normalized.SuccessIncomeGoal)
	fmt.Fprintf(b, "- Startup budget: $%.0f\n", normalized.UpfrontInvestment)
	fmt.Fprintf(b, "- Available time: %d hours/week\n", normalized.WeeklyTimeCommitment)
	fmt.Fprintf(b, "- Wants first income: %s\n", timelinePhrase(normalized.FirstIncomeTimeline))
	fmt.Fprintf(b, "- Tech skills: %s\n", entity.RatingBand(normalized.TechSkillsRating))
	fmt.Fprintf(b, "- Risk comfort: %s\n", entity.RatingBand(normalized.RiskComfortLevel))
	fmt.Fprintf(b, "- Self-motivation: %s\n", entity.RatingBand(normalized.SelfMotivationLevel))
	fmt.Fprintf(b, "- Creative work enjoyment: %s\n", entity.RatingBand(normalized.CreativeWorkEnjoyment))
	fmt.Fprintf(b, "- Comfort being the face of a brand: %s\n", entity.RatingBand(normalized.BrandFaceComfort))
	fmt.Fprintf(b, "- Enjoys direct communication: %s\n", entity.RatingBand(normalized.DirectCommunicationEnjoyment))
	fmt.Fprintf(b, "- Organization and routine: %s\n", entity.RatingBand(normalized.OrganizationLevel))
	if normalized.WorkCollaborationPreference != "" {
		fmt.Fprintf(b, "- Prefers working: %s\n", normalized.WorkCollaborationPreference)
	}
	if len(normalized.FamiliarTools) > 0 {
		fmt.Fprintf(b, "- Familiar tools: %s\n", strings.Join(normalized.FamiliarTools, ", "))
	}
}

// timelinePhrase переводит категорию срока первого дохода в текст
func timelinePhrase(timeline string) string {
	switch timeline {
	case "under_1_month":
		return "within the first month"
	case "1_3_months":
		return "within 1-3 months"
	case "3_6_months":
		return "within 3-6 months"
	case "6_12_months":
		return "within 6-12 months"
	case "over_1_year":
		return "after a year or more"
	default:
		return "within about six months"
	}
}
