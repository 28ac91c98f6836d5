package scoring

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/yourusername/bizfit-api/internal/domain/entity"
)

// fallbackConfidence — уверенность алгоритмического пути: ниже, чем у LLM,
// но детерминированная
const fallbackConfidence = 0.6

// buildFallbackAnalysis собирает полный результат анализа без LLM.
// Гарантированно успешен для любого валидного справочника и любых ответов.
func (s *Service) buildFallbackAnalysis(answers *entity.QuizAnswers) *ComprehensiveFitAnalysis {
	a := *answers
	a.Normalize()

	models := s.catalog.All()
	matches := make([]FitScoreResult, 0, len(models))
	for i := range models {
		m := &models[i]
		matches = append(matches, FitScoreResult{
			BusinessModelID: m.ID,
			Title:           m.Title,
			Score:           s.calculator.ScoreModel(m, &a),
			Reasoning:       fallbackReasoning(m, &a),
			Strengths:       fallbackStrengths(m, &a),
			Challenges:      fallbackChallenges(m, &a),
			Confidence:      fallbackConfidence,
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].BusinessModelID < matches[j].BusinessModelID
	})
	if len(matches) > s.topN {
		matches = matches[:s.topN]
	}

	return &ComprehensiveFitAnalysis{
		TopMatches:         matches,
		PersonalityProfile: fallbackPersonalityProfile(&a),
		Recommendations:    fallbackRecommendations(&a),
		Source:             SourceAlgorithmic,
		GeneratedAt:        time.Now(),
	}
}

// fallbackPersonalityProfile строит портрет по пороговым правилам:
// оценка >=4 считается выраженной чертой, <=2 — противоположной
func fallbackPersonalityProfile(a *entity.QuizAnswers) PersonalityProfile {
	strengths := make([]string, 0, 6)
	if a.SelfMotivationLevel >= 4 {
		strengths = append(strengths, "self-motivated and able to work without external pressure")
	}
	if a.OrganizationLevel >= 4 {
		strengths = append(strengths, "well-organized with strong planning habits")
	}
	if a.DiscouragementResilience >= 4 {
		strengths = append(strengths, "resilient in the face of setbacks")
	}
	if a.CreativeWorkEnjoyment >= 4 {
		strengths = append(strengths, "creative and comfortable producing original work")
	}
	if a.TechSkillsRating >= 4 {
		strengths = append(strengths, "technically skilled and quick to adopt new tools")
	}
	if a.DirectCommunicationEnjoyment >= 4 {
		strengths = append(strengths, "a confident communicator")
	}
	if len(strengths) == 0 {
		strengths = append(strengths, "a balanced profile without a single dominant trait")
	}

	workStyle := "flexible"
	switch a.WorkCollaborationPreference {
	case "solo":
		workStyle = "independent, prefers working alone"
	case "team":
		workStyle = "collaborative, energized by working with others"
	case "mixed":
		workStyle = "mixed, comfortable alone or in a team"
	}

	var riskProfile string
	switch {
	case a.RiskComfortLevel >= 4:
		riskProfile = "risk-tolerant, comfortable with uncertain outcomes"
	case a.RiskComfortLevel <= 2:
		riskProfile = "risk-averse, prefers predictable paths"
	default:
		riskProfile = "moderate, takes calculated risks"
	}

	summary := fmt.Sprintf(
		"Based on your answers you are %s. Your work style is %s, and your approach to risk is %s.",
		strings.Join(summaryTraits(a), ", "), workStyle, riskProfile,
	)

	return PersonalityProfile{
		Strengths:   strengths,
		WorkStyle:   workStyle,
		RiskProfile: riskProfile,
		Summary:     summary,
	}
}

// summaryTraits — короткие формулировки для сводки
func summaryTraits(a *entity.QuizAnswers) []string {
	traits := DeriveTraits(a)
	if len(traits) == 0 {
		return []string{"adaptable"}
	}
	if len(traits) > 3 {
		traits = traits[:3]
	}
	return traits
}

// fallbackRecommendations строит общие рекомендации из простых правил
func fallbackRecommendations(a *entity.QuizAnswers) []string {
	recs := make([]string, 0, 4)
	if a.WeeklyTimeCommitment < 10 {
		recs = append(recs, "Start with a model that needs under 10 hours a week and scale up as results appear.")
	} else {
		recs = append(recs, fmt.Sprintf("Your %d available hours a week let you commit to a hands-on model from day one.", a.WeeklyTimeCommitment))
	}
	if a.UpfrontInvestment < 500 {
		recs = append(recs, "Favor low-startup-cost models first; reinvest early earnings instead of borrowing.")
	}
	if a.TechSkillsRating <= 2 {
		recs = append(recs, "Pick one beginner-friendly tool and learn it before adding anything else to your stack.")
	}
	if a.SelfMotivationLevel <= 2 {
		recs = append(recs, "Build external accountability early - a community, a partner or public commitments.")
	}
	if a.RiskComfortLevel >= 4 && a.UpfrontInvestment >= 1000 {
		recs = append(recs, "Your risk tolerance and budget allow testing paid acquisition channels sooner than most.")
	}
	if len(recs) < 2 {
		recs = append(recs, "Commit to one model for at least 90 days before evaluating a switch.")
	}
	return recs
}

// fallbackReasoning объясняет балл словами через сравнение диапазонов
func fallbackReasoning(m *entity.BusinessModel, a *entity.QuizAnswers) string {
	parts := make([]string, 0, 3)

	if a.UpfrontInvestment >= m.StartupCostMax {
		parts = append(parts, "your budget fully covers the typical startup costs")
	} else if a.UpfrontInvestment >= m.StartupCostMin {
		parts = append(parts, "your budget covers the lower end of startup costs")
	} else {
		parts = append(parts, "startup costs may stretch your current budget")
	}

	if m.TimeToProfitMonths <= a.TimelineMonths() {
		parts = append(parts, "the typical time to first profit fits your timeline")
	} else {
		parts = append(parts, "first profit usually takes longer than you expect")
	}

	if a.TechSkillsRating >= m.TechLevelRequired {
		parts = append(parts, "your technical skills meet the requirements")
	} else {
		parts = append(parts, "you would need to grow your technical skills")
	}

	return fmt.Sprintf("%s: %s.", m.Title, strings.Join(parts, "; "))
}

// fallbackStrengths — совпадения профиля с требованиями модели
func fallbackStrengths(m *entity.BusinessModel, a *entity.QuizAnswers) []string {
	strengths := make([]string, 0, 3)
	userTraits := DeriveTraits(a)
	traitSet := make(map[string]bool, len(userTraits))
	for _, t := range userTraits {
		traitSet[t] = true
	}
	for _, tag := range m.BestFitPersonality {
		if traitSet[tag] {
			strengths = append(strengths, fmt.Sprintf("your %s nature matches this model", tag))
		}
	}
	if a.WeeklyTimeCommitment >= m.WeeklyHoursRequired {
		strengths = append(strengths, "you have enough weekly hours for this model")
	}
	if len(strengths) == 0 {
		strengths = append(strengths, "no blocking requirements for getting started")
	}
	if len(strengths) > 3 {
		strengths = strengths[:3]
	}
	return strengths
}

// fallbackChallenges — расхождения профиля с требованиями модели
func fallbackChallenges(m *entity.BusinessModel, a *entity.QuizAnswers) []string {
	challenges := make([]string, 0, 3)
	if a.TechSkillsRating < m.TechLevelRequired {
		challenges = append(challenges, "the required technical level is above your current rating")
	}
	if a.RiskComfortLevel < m.RiskLevel {
		challenges = append(challenges, "this model carries more risk than you are comfortable with")
	}
	if a.WeeklyTimeCommitment < m.WeeklyHoursRequired {
		challenges = append(challenges, fmt.Sprintf("it typically needs %d hours a week, more than you planned", m.WeeklyHoursRequired))
	}
	if a.UpfrontInvestment < m.StartupCostMin {
		challenges = append(challenges, "startup costs exceed your stated budget")
	}
	if len(challenges) == 0 {
		challenges = append(challenges, "mainly the consistency every new business demands")
	}
	if len(challenges) > 3 {
		challenges = challenges[:3]
	}
	return challenges
}
