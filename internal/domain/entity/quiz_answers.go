package entity

// Константы качественных диапазонов для оценок 1–5
const (
	RatingBandLow      = "low"
	RatingBandModerate = "moderate"
	RatingBandHigh     = "high"
)

// NeutralRating — нейтральное значение шкалы 1–5, подставляется вместо
// отсутствующих оценок.
const NeutralRating = 3

// QuizAnswers представляет полный набор ответов пользователя на квиз.
// Плоская запись; после отправки попытки не изменяется.
type QuizAnswers struct {
	// Мотивация и цели
	MainMotivation      string  `json:"main_motivation"`
	FirstIncomeTimeline string  `json:"first_income_timeline"` // under_1_month | 1_3_months | 3_6_months | 6_12_months | over_1_year
	SuccessIncomeGoal   float64 `json:"success_income_goal"`   // желаемый ежемесячный доход, $
	UpfrontInvestment   float64 `json:"upfront_investment"`    // доступный стартовый бюджет, $
	PassionIdentity     int     `json:"passion_identity"`      // 1-5
	BusinessExitPlan    string  `json:"business_exit_plan"`
	BusinessGrowthSize  string  `json:"business_growth_size"`
	PassiveIncomeImportance int `json:"passive_income_importance"` // 1-5

	// Время и постоянство
	WeeklyTimeCommitment int `json:"weekly_time_commitment"` // часов в неделю
	LongTermConsistency  int `json:"long_term_consistency"`  // 1-5
	TrialErrorComfort    int `json:"trial_error_comfort"`    // 1-5

	// Обучение и рабочие привычки
	LearningPreference       string `json:"learning_preference"`
	SystemsRoutinesEnjoyment int    `json:"systems_routines_enjoyment"` // 1-5
	DiscouragementResilience int    `json:"discouragement_resilience"`  // 1-5
	ToolLearningWillingness  int    `json:"tool_learning_willingness"`  // 1-5
	OrganizationLevel        int    `json:"organization_level"`         // 1-5
	SelfMotivationLevel      int    `json:"self_motivation_level"`      // 1-5
	UncertaintyHandling      int    `json:"uncertainty_handling"`       // 1-5
	RepetitiveTasksFeeling   string `json:"repetitive_tasks_feeling"`

	// Стиль работы и коммуникация
	WorkCollaborationPreference  string `json:"work_collaboration_preference"` // solo | team | mixed
	BrandFaceComfort             int    `json:"brand_face_comfort"`            // 1-5
	CompetitivenessLevel         int    `json:"competitiveness_level"`         // 1-5
	CreativeWorkEnjoyment        int    `json:"creative_work_enjoyment"`       // 1-5
	DirectCommunicationEnjoyment int    `json:"direct_communication_enjoyment"` // 1-5
	WorkStructurePreference      string `json:"work_structure_preference"`

	// Технические навыки и ресурсы
	TechSkillsRating          int      `json:"tech_skills_rating"` // 1-5
	WorkspaceAvailability     string   `json:"workspace_availability"`
	SupportSystemStrength     string   `json:"support_system_strength"`
	InternetDeviceReliability int      `json:"internet_device_reliability"` // 1-5
	FamiliarTools             []string `json:"familiar_tools"`

	// Принятие решений и риск
	DecisionMakingStyle       string `json:"decision_making_style"`
	RiskComfortLevel          int    `json:"risk_comfort_level"`          // 1-5
	FeedbackRejectionResponse int    `json:"feedback_rejection_response"` // 1-5
	PathPreference            string `json:"path_preference"`
	ControlImportance         int    `json:"control_importance"` // 1-5

	// Онлайн-присутствие
	OnlinePresenceComfort  int    `json:"online_presence_comfort"` // 1-5
	SocialMediaInterest    int    `json:"social_media_interest"`   // 1-5
	EcosystemParticipation int    `json:"ecosystem_participation"` // 1-5
	ExistingAudience       string `json:"existing_audience"`
	PromotingOthersOpenness int   `json:"promoting_others_openness"` // 1-5

	// Предпочтения по содержанию работы
	TeachVsSolvePreference           string `json:"teach_vs_solve_preference"`
	MeaningfulContributionImportance int    `json:"meaningful_contribution_importance"` // 1-5
}

// ratingFields возвращает указатели на все поля-оценки 1–5
func (a *QuizAnswers) ratingFields() []*int {
	return []*int{
		&a.PassionIdentity, &a.PassiveIncomeImportance, &a.LongTermConsistency,
		&a.TrialErrorComfort, &a.SystemsRoutinesEnjoyment, &a.DiscouragementResilience,
		&a.ToolLearningWillingness, &a.OrganizationLevel, &a.SelfMotivationLevel,
		&a.UncertaintyHandling, &a.BrandFaceComfort, &a.CompetitivenessLevel,
		&a.CreativeWorkEnjoyment, &a.DirectCommunicationEnjoyment, &a.TechSkillsRating,
		&a.InternetDeviceReliability, &a.RiskComfortLevel, &a.FeedbackRejectionResponse,
		&a.ControlImportance, &a.OnlinePresenceComfort, &a.SocialMediaInterest,
		&a.EcosystemParticipation, &a.PromotingOthersOpenness,
		&a.MeaningfulContributionImportance,
	}
}

// Normalize приводит частично заполненные ответы к валидному виду:
// отсутствующие оценки (0) заменяются нейтральной серединой шкалы,
// значения за пределами 1–5 обрезаются. Числовые цели остаются как есть.
func (a *QuizAnswers) Normalize() {
	for _, f := range a.ratingFields() {
		switch {
		case *f <= 0:
			*f = NeutralRating
		case *f > 5:
			*f = 5
		}
	}
	if a.WeeklyTimeCommitment <= 0 {
		a.WeeklyTimeCommitment = 10
	}
}

// RatingBand переводит оценку 1–5 в качественный диапазон high/moderate/low
func RatingBand(rating int) string {
	switch {
	case rating >= 4:
		return RatingBandHigh
	case rating == 3:
		return RatingBandModerate
	default:
		return RatingBandLow
	}
}

// TimelineMonths переводит категориальный ответ о сроке первого дохода
// в приблизительное количество месяцев
func (a *QuizAnswers) TimelineMonths() float64 {
	switch a.FirstIncomeTimeline {
	case "under_1_month":
		return 0.5
	case "1_3_months":
		return 2
	case "3_6_months":
		return 4.5
	case "6_12_months":
		return 9
	case "over_1_year":
		return 18
	default:
		return 6 // нет ответа — считаем средний горизонт
	}
}
