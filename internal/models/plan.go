package models

// Plan описывает тарифный план из статического каталога.
// Каталог определяется один раз на время жизни процесса и не изменяется.
type Plan struct {
	ID                string   `json:"id"`                  // Идентификатор плана
	Name              string   `json:"name"`                // Название плана
	Price             float64  `json:"price"`               // Цена в месяц, USD
	Features          []string `json:"features"`            // Список возможностей в порядке отображения
	RequestsPerMinute int      `json:"requests_per_minute"` // Лимит запросов в минуту
}

// Plans — каталог тарифных планов портала. Цена и лимит запросов
// строго возрастают от basic к enterprise.
var Plans = []Plan{
	{
		ID:    "basic",
		Name:  "Basic",
		Price: 9.99,
		Features: []string{
			"10 requests per minute",
			"Balance checking",
			"Transaction history",
			"Basic support",
		},
		RequestsPerMinute: 10,
	},
	{
		ID:    "premium",
		Name:  "Premium",
		Price: 29.99,
		Features: []string{
			"50 requests per minute",
			"All Basic features",
			"Fund transfers",
			"Invoice generation",
			"Priority support",
		},
		RequestsPerMinute: 50,
	},
	{
		ID:    "enterprise",
		Name:  "Enterprise",
		Price: 99.99,
		Features: []string{
			"200 requests per minute",
			"All Premium features",
			"Custom branding",
			"Dedicated support",
			"API analytics",
		},
		RequestsPerMinute: 200,
	},
}

// FindPlan возвращает план по идентификатору или nil, если план не найден.
func FindPlan(planID string) *Plan {
	for i := range Plans {
		if Plans[i].ID == planID {
			return &Plans[i]
		}
	}
	return nil
}
