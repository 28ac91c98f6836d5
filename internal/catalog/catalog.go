package catalog

import (
	"log"

	"github.com/yourusername/bizfit-api/internal/domain/entity"
	"github.com/yourusername/bizfit-api/internal/domain/repository"
)

// Catalog — загруженный в память справочник бизнес-моделей.
// Создаётся один раз при старте процесса и далее только читается.
type Catalog struct {
	models []entity.BusinessModel
	byID   map[string]*entity.BusinessModel
}

// New создает каталог из набора моделей
func New(models []entity.BusinessModel) *Catalog {
	c := &Catalog{
		models: models,
		byID:   make(map[string]*entity.BusinessModel, len(models)),
	}
	for i := range c.models {
		c.byID[c.models[i].ID] = &c.models[i]
	}
	return c
}

// Load загружает каталог из репозитория; при пустой таблице или ошибке
// используется встроенный набор по умолчанию, чтобы скоринг оставался
// работоспособным при любом состоянии БД.
func Load(repo repository.BusinessModelRepository) *Catalog {
	models, err := repo.ListAll()
	if err != nil || len(models) == 0 {
		if err != nil {
			log.Printf("[Catalog] Failed to load business models from DB: %v. Using built-in defaults.", err)
		} else {
			log.Printf("[Catalog] business_models table is empty. Using built-in defaults.")
		}
		return New(Default())
	}
	log.Printf("[Catalog] Loaded %d business models", len(models))
	return New(models)
}

// All возвращает все модели каталога
func (c *Catalog) All() []entity.BusinessModel {
	return c.models
}

// ByID возвращает модель по идентификатору или nil
func (c *Catalog) ByID(id string) *entity.BusinessModel {
	return c.byID[id]
}

// Len возвращает количество моделей в каталоге
func (c *Catalog) Len() int {
	return len(c.models)
}

// Default возвращает встроенный справочник бизнес-моделей
func Default() []entity.BusinessModel {
	return []entity.BusinessModel{
		{
			ID:          "content-creation",
			Title:       "Content Creation / UGC",
			Description: "Create short-form video content and user-generated content for brands and your own channels.",
			Category:    "creative",
			RequiredSkills:     []string{"video editing", "storytelling", "social media"},
			BestFitPersonality: []string{entity.TraitCreative, entity.TraitPublicFacing, entity.TraitSelfMotivated, entity.TraitRiskTolerant},
			Difficulty:         "medium",
			TimeToProfit:       "3-6 months",
			TimeToProfitMonths: 4.5,
			StartupCostMin:     0,
			StartupCostMax:     500,
			PotentialIncomeMonthly: 4000,
			TechLevelRequired:  3,
			RiskLevel:          4,
			WeeklyHoursRequired: 15,
			CreativityRequired:  5,
			InteractionRequired: 3,
		},
		{
			ID:          "freelancing",
			Title:       "Freelancing",
			Description: "Sell professional services (writing, design, development, marketing) to clients on a project basis.",
			Category:    "services",
			RequiredSkills:     []string{"client communication", "a marketable skill", "time management"},
			BestFitPersonality: []string{entity.TraitSelfMotivated, entity.TraitIndependent, entity.TraitStructured},
			Difficulty:         "easy",
			TimeToProfit:       "under 1 month",
			TimeToProfitMonths: 1,
			StartupCostMin:     0,
			StartupCostMax:     200,
			PotentialIncomeMonthly: 5000,
			TechLevelRequired:  3,
			RiskLevel:          2,
			WeeklyHoursRequired: 20,
			CreativityRequired:  3,
			InteractionRequired: 4,
		},
		{
			ID:          "affiliate-marketing",
			Title:       "Affiliate Marketing",
			Description: "Earn commissions by promoting other companies' products through content, SEO and email lists.",
			Category:    "marketing",
			RequiredSkills:     []string{"seo", "copywriting", "analytics"},
			BestFitPersonality: []string{entity.TraitPatient, entity.TraitIndependent, entity.TraitBehindTheScenes},
			Difficulty:         "medium",
			TimeToProfit:       "6-12 months",
			TimeToProfitMonths: 9,
			StartupCostMin:     0,
			StartupCostMax:     300,
			PotentialIncomeMonthly: 3000,
			TechLevelRequired:  3,
			RiskLevel:          3,
			WeeklyHoursRequired: 10,
			CreativityRequired:  3,
			InteractionRequired: 1,
		},
		{
			ID:          "ecommerce-dropshipping",
			Title:       "E-commerce / Dropshipping",
			Description: "Run an online store selling physical products without holding inventory, fulfilled by suppliers.",
			Category:    "commerce",
			RequiredSkills:     []string{"paid ads", "product research", "customer service"},
			BestFitPersonality: []string{entity.TraitRiskTolerant, entity.TraitCompetitive, entity.TraitSelfMotivated},
			Difficulty:         "hard",
			TimeToProfit:       "3-6 months",
			TimeToProfitMonths: 4.5,
			StartupCostMin:     500,
			StartupCostMax:     5000,
			PotentialIncomeMonthly: 8000,
			TechLevelRequired:  4,
			RiskLevel:          5,
			WeeklyHoursRequired: 25,
			CreativityRequired:  3,
			InteractionRequired: 2,
		},
		{
			ID:          "virtual-assistant",
			Title:       "Virtual Assistant",
			Description: "Provide remote administrative, scheduling and inbox-management support to businesses.",
			Category:    "services",
			RequiredSkills:     []string{"organization", "communication", "office tools"},
			BestFitPersonality: []string{entity.TraitStructured, entity.TraitRiskAverse, entity.TraitLowTech, entity.TraitBehindTheScenes},
			Difficulty:         "easy",
			TimeToProfit:       "under 1 month",
			TimeToProfitMonths: 0.5,
			StartupCostMin:     0,
			StartupCostMax:     100,
			PotentialIncomeMonthly: 2500,
			TechLevelRequired:  2,
			RiskLevel:          1,
			WeeklyHoursRequired: 20,
			CreativityRequired:  1,
			InteractionRequired: 4,
		},
		{
			ID:          "online-coaching",
			Title:       "Online Coaching / Consulting",
			Description: "Package expertise into 1:1 or group coaching programs delivered over video calls.",
			Category:    "education",
			RequiredSkills:     []string{"subject expertise", "communication", "sales"},
			BestFitPersonality: []string{entity.TraitPeoplePerson, entity.TraitPublicFacing, entity.TraitSelfMotivated},
			Difficulty:         "medium",
			TimeToProfit:       "1-3 months",
			TimeToProfitMonths: 2,
			StartupCostMin:     0,
			StartupCostMax:     500,
			PotentialIncomeMonthly: 6000,
			TechLevelRequired:  2,
			RiskLevel:          2,
			WeeklyHoursRequired: 15,
			CreativityRequired:  2,
			InteractionRequired: 5,
		},
		{
			ID:          "digital-products",
			Title:       "Digital Products & Courses",
			Description: "Create and sell templates, e-books and online courses with near-zero marginal cost.",
			Category:    "education",
			RequiredSkills:     []string{"content creation", "marketing", "course design"},
			BestFitPersonality: []string{entity.TraitCreative, entity.TraitPatient, entity.TraitIndependent},
			Difficulty:         "medium",
			TimeToProfit:       "3-6 months",
			TimeToProfitMonths: 4.5,
			StartupCostMin:     0,
			StartupCostMax:     1000,
			PotentialIncomeMonthly: 5000,
			TechLevelRequired:  3,
			RiskLevel:          3,
			WeeklyHoursRequired: 15,
			CreativityRequired:  4,
			InteractionRequired: 2,
		},
		{
			ID:          "smma",
			Title:       "Social Media Marketing Agency",
			Description: "Manage social media accounts and paid advertising for local and online businesses.",
			Category:    "marketing",
			RequiredSkills:     []string{"paid ads", "client management", "social media"},
			BestFitPersonality: []string{entity.TraitCompetitive, entity.TraitPeoplePerson, entity.TraitRiskTolerant, entity.TraitTechSavvy},
			Difficulty:         "hard",
			TimeToProfit:       "1-3 months",
			TimeToProfitMonths: 2,
			StartupCostMin:     100,
			StartupCostMax:     1000,
			PotentialIncomeMonthly: 10000,
			TechLevelRequired:  4,
			RiskLevel:          4,
			WeeklyHoursRequired: 30,
			CreativityRequired:  3,
			InteractionRequired: 5,
		},
		{
			ID:          "saas-development",
			Title:       "SaaS / App Development",
			Description: "Build and monetize software products with recurring subscription revenue.",
			Category:    "tech",
			RequiredSkills:     []string{"programming", "product design", "marketing"},
			BestFitPersonality: []string{entity.TraitTechSavvy, entity.TraitPatient, entity.TraitIndependent, entity.TraitRiskTolerant},
			Difficulty:         "hard",
			TimeToProfit:       "over 1 year",
			TimeToProfitMonths: 15,
			StartupCostMin:     0,
			StartupCostMax:     2000,
			PotentialIncomeMonthly: 15000,
			TechLevelRequired:  5,
			RiskLevel:          4,
			WeeklyHoursRequired: 30,
			CreativityRequired:  4,
			InteractionRequired: 2,
		},
		{
			ID:          "print-on-demand",
			Title:       "Print on Demand",
			Description: "Sell custom-designed merchandise printed and shipped per order by a fulfillment partner.",
			Category:    "commerce",
			RequiredSkills:     []string{"graphic design", "niche research", "store management"},
			BestFitPersonality: []string{entity.TraitCreative, entity.TraitRiskAverse, entity.TraitBehindTheScenes, entity.TraitLowTech},
			Difficulty:         "easy",
			TimeToProfit:       "3-6 months",
			TimeToProfitMonths: 4.5,
			StartupCostMin:     0,
			StartupCostMax:     300,
			PotentialIncomeMonthly: 2000,
			TechLevelRequired:  2,
			RiskLevel:          2,
			WeeklyHoursRequired: 10,
			CreativityRequired:  4,
			InteractionRequired: 1,
		},
	}
}
