package api

import (
	"errors"
	"strings"
	"time"

	"github.com/yashbhambure/spark-carbon-log/internal/domain"
)

// LogActivityRequest is the payload for POST /v1/activities. Category and
// emission_kg are optional overrides; when omitted the classifier decides.
type LogActivityRequest struct {
	Description  string      `json:"description"`
	ActivityDate domain.Date `json:"activity_date,omitempty"`
	Category     string      `json:"category,omitempty"`
	EmissionKg   *float64    `json:"emission_kg,omitempty"`
}

// Validate ensures request correctness.
func (r LogActivityRequest) Validate() error {
	if strings.TrimSpace(r.Description) == "" {
		return errors.New("description is required")
	}
	if r.Category != "" && !domain.Category(r.Category).Valid() {
		return errors.New("unknown category")
	}
	if r.EmissionKg != nil && *r.EmissionKg < 0 {
		return errors.New("emission_kg must be >= 0")
	}
	return nil
}

// ClassifyRequest is the payload for POST /v1/classify.
type ClassifyRequest struct {
	Description string `json:"description"`
}

// ClassifyResponse previews the classification without persisting anything.
type ClassifyResponse struct {
	Category   string  `json:"category"`
	EmissionKg float64 `json:"emission_kg"`
}

// UpdateActivityRequest carries a user edit; empty fields are left unchanged.
type UpdateActivityRequest struct {
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
}

// ActivityView exposes full details about an activity.
type ActivityView struct {
	ActivityID   string      `json:"activity_id"`
	UserID       string      `json:"user_id"`
	Description  string      `json:"description"`
	Category     string      `json:"category"`
	EmissionKg   float64     `json:"emission_kg"`
	ActivityDate domain.Date `json:"activity_date"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// ListActivitiesResponse packages list results.
type ListActivitiesResponse struct {
	Items      []ActivityView `json:"items"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// DailySummaryResponse is the daily dashboard view model.
type DailySummaryResponse struct {
	Date          domain.Date    `json:"date"`
	TotalEmission float64        `json:"total_emission_kg"`
	ActivityCount int            `json:"activity_count"`
	ScoreLevel    string         `json:"score_level"`
	Tip           string         `json:"tip"`
	Activities    []ActivityView `json:"activities"`
}

// CategoryShareView is one slice of the weekly breakdown.
type CategoryShareView struct {
	Category      string  `json:"category"`
	TotalEmission float64 `json:"total_emission"`
	Percentage    float64 `json:"percentage"`
}

// DayPointView is one bar of the weekly trend chart.
type DayPointView struct {
	Day      string      `json:"day"`
	Emission float64     `json:"emission"`
	Date     domain.Date `json:"date"`
}

// WeeklySummaryResponse is the weekly dashboard view model.
type WeeklySummaryResponse struct {
	TotalEmissionKg        float64             `json:"total_emission_kg"`
	AverageDailyEmissionKg float64             `json:"average_daily_emission_kg"`
	ActivityCount          int                 `json:"activity_count"`
	CategoryBreakdown      []CategoryShareView `json:"category_breakdown"`
	ComparisonToPrevWeek   float64             `json:"comparison_to_prev_week"`
	DailyData              []DayPointView      `json:"daily_data"`
	Recommendations        []string            `json:"recommendations"`
}

// HeatmapCellView is one square of the 12-week grid.
type HeatmapCellView struct {
	Week  int         `json:"week"`
	Day   int         `json:"day"`
	Value float64     `json:"value"`
	Date  domain.Date `json:"date"`
}

// HeatmapResponse wraps the fixed 84-cell grid.
type HeatmapResponse struct {
	Cells []HeatmapCellView `json:"cells"`
}
