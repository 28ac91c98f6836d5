package scoring

import (
	"math"

	"github.com/yourusername/bizfit-api/internal/catalog"
	"github.com/yourusername/bizfit-api/internal/domain/entity"
)

// FitCalculator — детерминированный алгоритмический калькулятор совместимости.
// Чистая функция от ответов и справочника: без I/O, без внешних сервисов,
// никогда не возвращает ошибку. Это гарантированно доступный путь скоринга.
type FitCalculator struct {
	weights FitWeights
	catalog *catalog.Catalog
}

// NewFitCalculator создает новый калькулятор
func NewFitCalculator(weights FitWeights, cat *catalog.Catalog) *FitCalculator {
	return &FitCalculator{weights: weights, catalog: cat}
}

// Score возвращает балл совместимости 0..100 для модели по идентификатору.
// Неизвестный идентификатор даёт 0.
func (c *FitCalculator) Score(businessModelID string, answers *entity.QuizAnswers) int {
	model := c.catalog.ByID(businessModelID)
	if model == nil {
		return 0
	}
	return c.ScoreModel(model, answers)
}

// ScoreModel возвращает балл совместимости 0..100 для модели справочника
func (c *FitCalculator) ScoreModel(model *entity.BusinessModel, answers *entity.QuizAnswers) int {
	a := *answers
	a.Normalize()

	total := c.weights.IncomeGoal*incomeGoalScore(model, &a) +
		c.weights.Timeline*timelineScore(model, &a) +
		c.weights.Budget*budgetScore(model, &a) +
		c.weights.Skills*skillsScore(model, &a) +
		c.weights.Personality*personalityScore(model, &a) +
		c.weights.RiskTolerance*riskScore(model, &a) +
		c.weights.TimeAvailability*timeScore(model, &a)

	score := int(math.Round(total * 100))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// incomeGoalScore — насколько потенциал дохода модели покрывает цель пользователя
func incomeGoalScore(model *entity.BusinessModel, a *entity.QuizAnswers) float64 {
	if a.SuccessIncomeGoal <= 0 {
		return 0.7 // цель не указана — умеренно позитивная оценка
	}
	if model.PotentialIncomeMonthly <= 0 {
		return 0.3
	}
	ratio := model.PotentialIncomeMonthly / a.SuccessIncomeGoal
	if ratio >= 1 {
		return 1
	}
	return ratio
}

// timelineScore — совместимость ожидаемого срока первого дохода с моделью
func timelineScore(model *entity.BusinessModel, a *entity.QuizAnswers) float64 {
	want := a.TimelineMonths()
	need := model.TimeToProfitMonths
	if need <= want {
		return 1
	}
	// Каждый месяц сверх ожиданий стоит ~1/12 оценки
	score := 1 - (need-want)/12
	if score < 0.1 {
		return 0.1
	}
	return score
}

// budgetScore — покрывает ли доступный бюджет стартовые затраты модели
func budgetScore(model *entity.BusinessModel, a *entity.QuizAnswers) float64 {
	min, max := model.StartupCostMin, model.StartupCostMax
	if max <= 0 {
		return 1 // модель без стартовых затрат
	}
	budget := a.UpfrontInvestment
	switch {
	case budget >= max:
		return 1
	case budget >= min:
		if max == min {
			return 1
		}
		return 0.5 + 0.5*(budget-min)/(max-min)
	case min <= 0:
		return 1
	default:
		return 0.5 * (budget / min)
	}
}

// closeness — 0..1, штраф только за нехватку относительно требования 1-5
func closeness(have, required int) float64 {
	if have >= required {
		return 1
	}
	return 1 - float64(required-have)/4
}

// skillsScore — соответствие навыков требованиям модели
func skillsScore(model *entity.BusinessModel, a *entity.QuizAnswers) float64 {
	tech := closeness(a.TechSkillsRating, model.TechLevelRequired)
	creative := closeness(a.CreativeWorkEnjoyment, model.CreativityRequired)
	interaction := closeness(a.DirectCommunicationEnjoyment, model.InteractionRequired)
	return (tech + creative + interaction) / 3
}

// DeriveTraits выводит набор тегов личности из ответов квиза.
// Пороговые правила задокументированы константами шкалы:
// >=4 — выраженная черта, <=2 — противоположная.
func DeriveTraits(a *entity.QuizAnswers) []string {
	traits := make([]string, 0, 8)
	if a.RiskComfortLevel >= 4 {
		traits = append(traits, entity.TraitRiskTolerant)
	} else if a.RiskComfortLevel <= 2 {
		traits = append(traits, entity.TraitRiskAverse)
	}
	if a.SelfMotivationLevel >= 4 {
		traits = append(traits, entity.TraitSelfMotivated)
	}
	if a.TechSkillsRating >= 4 {
		traits = append(traits, entity.TraitTechSavvy)
	} else if a.TechSkillsRating <= 2 {
		traits = append(traits, entity.TraitLowTech)
	}
	if a.CreativeWorkEnjoyment >= 4 {
		traits = append(traits, entity.TraitCreative)
	}
	if a.OrganizationLevel >= 4 && a.SystemsRoutinesEnjoyment >= 3 {
		traits = append(traits, entity.TraitStructured)
	}
	if a.DirectCommunicationEnjoyment >= 4 {
		traits = append(traits, entity.TraitPeoplePerson)
	}
	if a.WorkCollaborationPreference == "solo" {
		traits = append(traits, entity.TraitIndependent)
	}
	if a.CompetitivenessLevel >= 4 {
		traits = append(traits, entity.TraitCompetitive)
	}
	if a.LongTermConsistency >= 4 && a.TrialErrorComfort >= 3 {
		traits = append(traits, entity.TraitPatient)
	}
	if a.BrandFaceComfort >= 4 {
		traits = append(traits, entity.TraitPublicFacing)
	} else if a.BrandFaceComfort <= 2 {
		traits = append(traits, entity.TraitBehindTheScenes)
	}
	return traits
}

// personalityScore — доля тегов модели, совпавших с чертами пользователя
func personalityScore(model *entity.BusinessModel, a *entity.QuizAnswers) float64 {
	if len(model.BestFitPersonality) == 0 {
		return 0.5
	}
	userTraits := DeriveTraits(a)
	traitSet := make(map[string]bool, len(userTraits))
	for _, t := range userTraits {
		traitSet[t] = true
	}
	matched := 0
	for _, tag := range model.BestFitPersonality {
		if traitSet[tag] {
			matched++
		}
	}
	return float64(matched) / float64(len(model.BestFitPersonality))
}

// riskScore — хватает ли комфорта к риску для уровня риска модели
func riskScore(model *entity.BusinessModel, a *entity.QuizAnswers) float64 {
	return closeness(a.RiskComfortLevel, model.RiskLevel)
}

// timeScore — покрывают ли доступные часы требуемую нагрузку
func timeScore(model *entity.BusinessModel, a *entity.QuizAnswers) float64 {
	if model.WeeklyHoursRequired <= 0 {
		return 1
	}
	if a.WeeklyTimeCommitment >= model.WeeklyHoursRequired {
		return 1
	}
	return float64(a.WeeklyTimeCommitment) / float64(model.WeeklyHoursRequired)
}
