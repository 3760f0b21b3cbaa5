package summary

import (
	"fmt"

	"github.com/yashbhambure/spark-carbon-log/internal/domain"
)

// Recommend derives rule-based reduction tips from the weekly breakdown.
// Tips target the categories that dominate the week; a quiet week gets a
// single encouragement instead.
func Recommend(week Weekly) []string {
	tips := make([]string, 0, 3)
	for _, share := range week.CategoryBreakdown {
		switch share.Category {
		case domain.CategoryTransport:
			if share.Percentage >= 30 {
				tips = append(tips, "Consider carpooling or public transport 2-3 times this week to cut transport emissions by ~30%")
			}
		case domain.CategoryFood:
			if share.Percentage >= 20 {
				tips = append(tips, "Try swapping in 2 plant-based meals this week - it could save up to 3 kg CO2")
			}
		case domain.CategoryEnergy:
			if share.Percentage >= 15 {
				tips = append(tips, "Reduce AC or heating by 1 hour daily to save ~1.5 kg CO2 per week")
			}
		case domain.CategoryShopping:
			if share.TotalEmission >= 20 {
				tips = append(tips, fmt.Sprintf("Shopping added %.1f kg CO2 this week - buying second-hand or less often helps", share.TotalEmission))
			}
		}
		if len(tips) == 3 {
			break
		}
	}
	if len(tips) == 0 {
		tips = append(tips, "Great week! Keep favoring walking, cycling and plant-based meals to stay low-carbon")
	}
	return tips
}

// DailyTip returns the encouragement line shown under the daily score.
func DailyTip(level ScoreLevel) string {
	switch level {
	case ScoreExcellent:
		return "Great job keeping emissions low today! Walking or cycling for short trips keeps your footprint down."
	case ScoreGood:
		return "Nice work - you're below the average daily footprint. One more low-carbon choice tomorrow keeps the streak going."
	case ScoreAverage:
		return "A typical day. Swapping one car trip or one meat meal would move you into the green."
	default:
		return "Emissions ran high today. Transport and meat meals are usually the biggest levers to pull back."
	}
}
