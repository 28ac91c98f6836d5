package scoring

// FitWeights содержит веса факторов алгоритмического скоринга.
// Сумма весов равна 1.0; итоговый балл — взвешенная сумма суб-оценок 0..1,
// умноженная на 100.
type FitWeights struct {
	// IncomeGoal — соответствие желаемого дохода потенциалу модели
	IncomeGoal float64

	// Timeline — соответствие ожидаемого срока первого дохода
	Timeline float64

	// Budget — соответствие доступного бюджета стартовым затратам
	Budget float64

	// Skills — соответствие технических и смежных навыков требованиям
	Skills float64

	// Personality — совпадение черт личности с тегами модели
	Personality float64

	// RiskTolerance — соответствие комфорта к риску уровню риска модели
	RiskTolerance float64

	// TimeAvailability — соответствие доступных часов требуемым
	TimeAvailability float64
}

// DefaultFitWeights возвращает веса по умолчанию
func DefaultFitWeights() FitWeights {
	return FitWeights{
		IncomeGoal:       0.20,
		Timeline:         0.15,
		Budget:           0.15,
		Skills:           0.20,
		Personality:      0.15,
		RiskTolerance:    0.10,
		TimeAvailability: 0.05,
	}
}
