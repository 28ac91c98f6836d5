package entity

import (
	"time"

	"github.com/lib/pq"
)

// Константы теговой модели личности (bestFitPersonality)
const (
	TraitSelfMotivated  = "self-motivated"
	TraitRiskTolerant   = "risk-tolerant"
	TraitRiskAverse     = "risk-averse"
	TraitTechSavvy      = "tech-savvy"
	TraitLowTech        = "low-tech"
	TraitCreative       = "creative"
	TraitStructured     = "structured"
	TraitPeoplePerson   = "people-person"
	TraitIndependent    = "independent"
	TraitCompetitive    = "competitive"
	TraitPatient        = "patient"
	TraitPublicFacing   = "public-facing"
	TraitBehindTheScenes = "behind-the-scenes"
)

// BusinessModel представляет запись справочника бизнес-моделей.
// Справочные данные: read-only, загружаются при старте процесса,
// пользователям не принадлежат.
type BusinessModel struct {
	ID          string `gorm:"size:64;primaryKey" json:"id"`
	Title       string `gorm:"size:100;not null" json:"title"`
	Description string `gorm:"size:1000;not null;default:''" json:"description"`
	Category    string `gorm:"size:50;not null;default:''" json:"category"`

	RequiredSkills     pq.StringArray `gorm:"type:text[]" json:"required_skills"`
	BestFitPersonality pq.StringArray `gorm:"type:text[]" json:"best_fit_personality"`

	Difficulty   string `gorm:"size:20;not null;default:'medium'" json:"difficulty"` // easy | medium | hard
	TimeToProfit string `gorm:"size:50;not null;default:''" json:"time_to_profit"`  // человекочитаемо, например "3-6 months"

	// Числовые требования для алгоритмического скоринга
	TimeToProfitMonths    float64 `gorm:"not null;default:6" json:"time_to_profit_months"`
	StartupCostMin        float64 `gorm:"not null;default:0" json:"startup_cost_min"`
	StartupCostMax        float64 `gorm:"not null;default:0" json:"startup_cost_max"`
	PotentialIncomeMonthly float64 `gorm:"not null;default:0" json:"potential_income_monthly"`
	TechLevelRequired     int     `gorm:"not null;default:3" json:"tech_level_required"` // 1-5
	RiskLevel             int     `gorm:"not null;default:3" json:"risk_level"`          // 1-5
	WeeklyHoursRequired   int     `gorm:"not null;default:10" json:"weekly_hours_required"`
	CreativityRequired    int     `gorm:"not null;default:3" json:"creativity_required"`   // 1-5
	InteractionRequired   int     `gorm:"not null;default:3" json:"interaction_required"`  // 1-5, прямое общение с людьми

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (BusinessModel) TableName() string {
	return "business_models"
}

// HasTrait проверяет наличие тега личности у модели
func (m *BusinessModel) HasTrait(trait string) bool {
	for _, t := range m.BestFitPersonality {
		if t == trait {
			return true
		}
	}
	return false
}
