package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/yourusername/bizfit-api/internal/domain/entity"
	"github.com/yourusername/bizfit-api/internal/service/scoring"
)

// Откатные нарративы строятся целиком из ответов пользователя и
// алгоритмического анализа: персонализированный текст вместо общих
// заглушек, чтобы сбой LLM был незаметен для пользователя.

// buildFallbackNarrative возвращает откатный контент для нарративного типа
func (s *AIContentService) buildFallbackNarrative(contentType string, answers *entity.QuizAnswers, analysis *scoring.ComprehensiveFitAnalysis, model *entity.BusinessModel) *NarrativeContent {
	var content *NarrativeContent
	switch {
	case contentType == entity.ContentTypeFullReport:
		content = fallbackFullReport(answers, analysis)
	case model != nil:
		score := s.scoringSvc.Calculator().Score(model.ID, answers)
		content = fallbackModelInsights(answers, score, model)
	default:
		content = fallbackPreview(answers, analysis)
	}
	content.ContentType = contentType
	content.Source = scoring.SourceAlgorithmic
	content.GeneratedAt = time.Now()
	content.KeyInsights = extractKeyInsights(content.Sections)
	return content
}

func fallbackPreview(answers *entity.QuizAnswers, analysis *scoring.ComprehensiveFitAnalysis) *NarrativeContent {
	top := scoring.FitScoreResult{Title: "an online business of your own", Reasoning: "Your answers point to a self-driven path where you control the pace and the upside."}
	if len(analysis.TopMatches) > 0 {
		top = analysis.TopMatches[0]
	}

	insights := []string{
		fmt.Sprintf("Your strongest match is %s with a %d/100 fit score", top.Title, top.Score),
		fmt.Sprintf("With %d hours a week you have %s to work with", answers.WeeklyTimeCommitment, hoursPhrase(answers.WeeklyTimeCommitment)),
	}
	if answers.SuccessIncomeGoal > 0 {
		insights = append(insights, fmt.Sprintf("Your $%.0f/month goal is realistic for this path, expect first income %s", answers.SuccessIncomeGoal, timelinePhrase(answers.FirstIncomeTimeline)))
	}
	if len(analysis.PersonalityProfile.Strengths) > 0 {
		insights = append(insights, fmt.Sprintf("Your profile stands out as %s", strings.Join(analysis.PersonalityProfile.Strengths, ", ")))
	}

	why := []string{top.Reasoning}
	if len(top.Strengths) > 0 {
		why = append(why, fmt.Sprintf("You bring %s to the table, which is exactly what this model rewards.", strings.Join(top.Strengths, " and ")))
	}

	return &NarrativeContent{
		Title: "Your Results Preview",
		Sections: []NarrativeSection{
			{Heading: "Key Insights", Bullets: insights},
			{Heading: "Your Best Starting Point", Paragraphs: why},
			{Heading: "What Comes Next", Paragraphs: []string{
				fmt.Sprintf("Your full report breaks down all %d of your top matches, with a step-by-step action plan tuned to your $%.0f budget and %d available hours a week.", len(analysis.TopMatches), answers.UpfrontInvestment, answers.WeeklyTimeCommitment),
			}},
		},
	}
}

func fallbackFullReport(answers *entity.QuizAnswers, analysis *scoring.ComprehensiveFitAnalysis) *NarrativeContent {
	content := &NarrativeContent{Title: "Your Personalized Business Model Report"}

	for _, match := range analysis.TopMatches {
		section := NarrativeSection{
			Heading:    fmt.Sprintf("%s (%d/100)", match.Title, match.Score),
			Paragraphs: []string{match.Reasoning},
		}
		for _, s := range match.Strengths {
			section.Bullets = append(section.Bullets, "Strength: "+s)
		}
		for _, c := range match.Challenges {
			section.Bullets = append(section.Bullets, "Challenge: "+c)
		}
		content.Sections = append(content.Sections, section)
	}

	content.Sections = append(content.Sections, NarrativeSection{
		Heading:    "Your Profile",
		Paragraphs: []string{analysis.PersonalityProfile.Summary},
	})
	content.Sections = append(content.Sections, NarrativeSection{
		Heading: "Your Action Plan",
		Bullets: append([]string{
			fmt.Sprintf("Block out your %d weekly hours as recurring calendar time before anything else", answers.WeeklyTimeCommitment),
			fmt.Sprintf("Cap initial spending at your $%.0f budget until the first sale", answers.UpfrontInvestment),
		}, analysis.Recommendations...),
	})
	return content
}

func fallbackModelInsights(answers *entity.QuizAnswers, score int, model *entity.BusinessModel) *NarrativeContent {
	fit := fmt.Sprintf("%s scores %d/100 against your answers. %s", model.Title, score, model.Description)

	firstSteps := []string{
		fmt.Sprintf("Plan for roughly %.0f months to first profit, which lines up %s with your goal of earning %s", model.TimeToProfitMonths, timelineAgreement(answers, model), timelinePhrase(answers.FirstIncomeTimeline)),
		fmt.Sprintf("Budget between $%.0f and $%.0f to start", model.StartupCostMin, model.StartupCostMax),
		fmt.Sprintf("Expect around %d hours a week against your available %d", model.WeeklyHoursRequired, answers.WeeklyTimeCommitment),
	}

	watchOut := []string{}
	if model.TechLevelRequired > answers.TechSkillsRating {
		watchOut = append(watchOut, fmt.Sprintf("Tech requirement is %d/5 while you rated yourself %d/5, so plan learning time up front", model.TechLevelRequired, answers.TechSkillsRating))
	}
	if model.RiskLevel > answers.RiskComfortLevel {
		watchOut = append(watchOut, fmt.Sprintf("This model carries %d/5 risk against your %d/5 comfort level, so keep early bets small", model.RiskLevel, answers.RiskComfortLevel))
	}
	if model.WeeklyHoursRequired > answers.WeeklyTimeCommitment {
		watchOut = append(watchOut, fmt.Sprintf("Typical workload exceeds your %d available hours, so expect a slower ramp", answers.WeeklyTimeCommitment))
	}
	if len(watchOut) == 0 {
		watchOut = append(watchOut, fmt.Sprintf("No major mismatches with your profile, the main risk is spreading your %d weekly hours across too many experiments", answers.WeeklyTimeCommitment))
	}

	return &NarrativeContent{
		Title: model.Title,
		Sections: []NarrativeSection{
			{Heading: "Why This Model Fits You", Paragraphs: []string{fit}},
			{Heading: "Your First 30 Days", Bullets: firstSteps},
			{Heading: "Watch Out For", Bullets: watchOut},
		},
	}
}

func hoursPhrase(hours int) string {
	switch {
	case hours >= 30:
		return "enough time for a near full-time launch"
	case hours >= 15:
		return "a solid part-time foundation"
	default:
		return "a lean side-project schedule"
	}
}

func timelineAgreement(answers *entity.QuizAnswers, model *entity.BusinessModel) string {
	if model.TimeToProfitMonths <= answers.TimelineMonths() {
		return "well"
	}
	return "only partially"
}
