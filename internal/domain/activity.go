package domain

import "time"

// Category is the classification bucket assigned to an activity.
type Category string

const (
	CategoryTransport Category = "transport"
	CategoryFood      Category = "food"
	CategoryEnergy    Category = "energy"
	CategoryWaste     Category = "waste"
	CategoryShopping  Category = "shopping"
	CategoryOther     Category = "other"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryTransport,
	CategoryFood,
	CategoryEnergy,
	CategoryWaste,
	CategoryShopping,
	CategoryOther,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Activity is the canonical record of a single logged behavior. EmissionKg is
// fixed at creation time and never recomputed when the factor table changes.
type Activity struct {
	ID           string
	UserID       string
	Description  string
	Category     Category
	EmissionKg   float64
	ActivityDate Date
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DailyHistory is the archived per-user per-date rollup written by the
// archiver. One row per (UserID, Date); re-archiving overwrites.
type DailyHistory struct {
	UserID          string
	Date            Date
	TotalEmissionKg float64
	ActivityCount   int
	ArchivedAt      time.Time
}
