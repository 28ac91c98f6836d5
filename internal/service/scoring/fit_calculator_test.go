package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/bizfit-api/internal/catalog"
	"github.com/yourusername/bizfit-api/internal/domain/entity"
)

func newTestCalculator() *FitCalculator {
	return NewFitCalculator(DefaultFitWeights(), catalog.New(catalog.Default()))
}

// answersWithAllRatings возвращает ответы, где все оценки равны rating
func answersWithAllRatings(rating int) *entity.QuizAnswers {
	a := &entity.QuizAnswers{
		SuccessIncomeGoal:    3000,
		UpfrontInvestment:    1000,
		WeeklyTimeCommitment: 20,
		FirstIncomeTimeline:  "3_6_months",
	}
	a.Normalize()
	v := a
	for _, field := range []*int{
		&v.PassionIdentity, &v.PassiveIncomeImportance, &v.LongTermConsistency,
		&v.TrialErrorComfort, &v.SystemsRoutinesEnjoyment, &v.DiscouragementResilience,
		&v.ToolLearningWillingness, &v.OrganizationLevel, &v.SelfMotivationLevel,
		&v.UncertaintyHandling, &v.BrandFaceComfort, &v.CompetitivenessLevel,
		&v.CreativeWorkEnjoyment, &v.DirectCommunicationEnjoyment, &v.TechSkillsRating,
		&v.InternetDeviceReliability, &v.RiskComfortLevel, &v.FeedbackRejectionResponse,
		&v.ControlImportance, &v.OnlinePresenceComfort, &v.SocialMediaInterest,
		&v.EcosystemParticipation, &v.PromotingOthersOpenness,
		&v.MeaningfulContributionImportance,
	} {
		*field = rating
	}
	return a
}

func TestFitCalculator_ScoreBounds(t *testing.T) {
	calc := newTestCalculator()

	cases := map[string]*entity.QuizAnswers{
		"all ones":    answersWithAllRatings(1),
		"all threes":  answersWithAllRatings(3),
		"all fives":   answersWithAllRatings(5),
		"empty":       {},
		"no goals":    {TechSkillsRating: 5, RiskComfortLevel: 5},
		"huge goal":   {SuccessIncomeGoal: 1000000, UpfrontInvestment: 1},
	}

	for name, answers := range cases {
		for _, model := range catalog.Default() {
			score := calc.Score(model.ID, answers)
			assert.GreaterOrEqual(t, score, 0, "%s / %s", name, model.ID)
			assert.LessOrEqual(t, score, 100, "%s / %s", name, model.ID)
		}
	}
}

func TestFitCalculator_Deterministic(t *testing.T) {
	calc := newTestCalculator()
	answers := answersWithAllRatings(4)

	first := calc.Score("freelancing", answers)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, calc.Score("freelancing", answers))
	}
}

func TestFitCalculator_UnknownModel(t *testing.T) {
	calc := newTestCalculator()
	assert.Equal(t, 0, calc.Score("no-such-model", answersWithAllRatings(3)))
}

func TestFitCalculator_EmptyAnswersUseNeutralDefaults(t *testing.T) {
	calc := newTestCalculator()

	// Частично заполненные ответы не должны ломать скоринг:
	// отсутствующие оценки считаются нейтральной тройкой
	empty := &entity.QuizAnswers{}
	for _, model := range catalog.Default() {
		score := calc.Score(model.ID, empty)
		assert.GreaterOrEqual(t, score, 0, model.ID)
		assert.LessOrEqual(t, score, 100, model.ID)
	}
}

func TestFitCalculator_HighRiskTechProfilePrefersMatchingModel(t *testing.T) {
	// Модель с тегами под смелого технаря должна обойти модель,
	// рассчитанную на противоположный профиль
	highRiskTech := entity.BusinessModel{
		ID:                 "bold-tech",
		Title:              "Bold Tech Venture",
		BestFitPersonality: []string{entity.TraitRiskTolerant, entity.TraitTechSavvy, entity.TraitSelfMotivated},
		TimeToProfitMonths: 4,
		StartupCostMin:     0,
		StartupCostMax:     500,
		PotentialIncomeMonthly: 5000,
		TechLevelRequired:  4,
		RiskLevel:          4,
		WeeklyHoursRequired: 15,
		CreativityRequired:  3,
		InteractionRequired: 3,
	}
	lowRiskLowTech := entity.BusinessModel{
		ID:                 "cautious-manual",
		Title:              "Cautious Manual Work",
		BestFitPersonality: []string{entity.TraitRiskAverse, entity.TraitLowTech},
		TimeToProfitMonths: 4,
		StartupCostMin:     0,
		StartupCostMax:     500,
		PotentialIncomeMonthly: 5000,
		TechLevelRequired:  1,
		RiskLevel:          1,
		WeeklyHoursRequired: 15,
		CreativityRequired:  3,
		InteractionRequired: 3,
	}
	calc := NewFitCalculator(DefaultFitWeights(), catalog.New([]entity.BusinessModel{highRiskTech, lowRiskLowTech}))

	answers := answersWithAllRatings(3)
	answers.RiskComfortLevel = 5
	answers.SelfMotivationLevel = 5
	answers.TechSkillsRating = 5

	boldScore := calc.Score("bold-tech", answers)
	cautiousScore := calc.Score("cautious-manual", answers)
	assert.GreaterOrEqual(t, boldScore, cautiousScore,
		"bold-tech=%d should be at least cautious-manual=%d", boldScore, cautiousScore)
}

func TestDeriveTraits_Thresholds(t *testing.T) {
	answers := answersWithAllRatings(3)
	answers.RiskComfortLevel = 5
	answers.TechSkillsRating = 5
	answers.SelfMotivationLevel = 4

	traits := DeriveTraits(answers)
	assert.Contains(t, traits, entity.TraitRiskTolerant)
	assert.Contains(t, traits, entity.TraitTechSavvy)
	assert.Contains(t, traits, entity.TraitSelfMotivated)
	assert.NotContains(t, traits, entity.TraitRiskAverse)
	assert.NotContains(t, traits, entity.TraitLowTech)
}

func TestDeriveTraits_OppositeEnds(t *testing.T) {
	answers := answersWithAllRatings(3)
	answers.RiskComfortLevel = 1
	answers.TechSkillsRating = 2
	answers.BrandFaceComfort = 1

	traits := DeriveTraits(answers)
	assert.Contains(t, traits, entity.TraitRiskAverse)
	assert.Contains(t, traits, entity.TraitLowTech)
	assert.Contains(t, traits, entity.TraitBehindTheScenes)
}

func TestShortlist_SizeAndOrder(t *testing.T) {
	calc := newTestCalculator()
	answers := answersWithAllRatings(4)

	models := catalog.Default()
	top := shortlist(calc, models, answers, ShortlistSize)
	require.Len(t, top, ShortlistSize)

	// Порядок невозрастающий по алгоритмическому баллу
	prev := 101
	for _, m := range top {
		score := calc.ScoreModel(&m, answers)
		assert.LessOrEqual(t, score, prev)
		prev = score
	}
}
