// Package classifier maps free-text activity descriptions to an emission
// category and an estimated kg CO2 value using ordered keyword rules.
package classifier

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/yashbhambure/spark-carbon-log/internal/domain"
)

// Defaults hold the quantities assumed when the text carries no explicit
// unit. They are tunable without touching the rule order.
type Defaults struct {
	DistanceKm    float64
	DurationHours float64
}

// DefaultDefaults returns the stock assumptions: a 10 km trip and one hour
// of appliance use.
func DefaultDefaults() Defaults {
	return Defaults{DistanceKm: 10, DurationHours: 1}
}

var (
	distancePattern = regexp.MustCompile(`(\d+)\s*km`)
	durationPattern = regexp.MustCompile(`(\d+)\s*hour`)
)

// Classifier is a stateless, deterministic keyword classifier. The same
// description always yields the same classification for a given factor table.
type Classifier struct {
	factors  Factors
	defaults Defaults
}

// New constructs a Classifier over the given factor table and defaults.
func New(factors Factors, defaults Defaults) *Classifier {
	return &Classifier{factors: factors, defaults: defaults}
}

// Classify maps a description to a category and emission estimate. Rules are
// checked in priority order and the first match wins; unrecognized text falls
// through to the "other" category rather than failing. Keywords are matched
// as case-insensitive substrings: short informal input ("took bus home")
// favors recall over precision.
func (c *Classifier) Classify(description string) domain.Classification {
	desc := strings.ToLower(description)

	distance := c.defaults.DistanceKm
	if m := distancePattern.FindStringSubmatch(desc); m != nil {
		if parsed, err := strconv.ParseFloat(m[1], 64); err == nil {
			distance = parsed
		}
	}
	hours := c.defaults.DurationHours
	if m := durationPattern.FindStringSubmatch(desc); m != nil {
		if parsed, err := strconv.ParseFloat(m[1], 64); err == nil {
			hours = parsed
		}
	}

	if r, ok := c.transport(desc, distance); ok {
		return r
	}
	if r, ok := c.food(desc); ok {
		return r
	}
	if r, ok := c.energy(desc, hours); ok {
		return r
	}
	if r, ok := c.shopping(desc); ok {
		return r
	}
	return domain.Classification{Category: domain.CategoryOther, EmissionKg: c.factors.Other}
}

func (c *Classifier) transport(desc string, distance float64) (domain.Classification, bool) {
	if containsAny(desc, "drove", "car", "drive") {
		switch {
		case strings.Contains(desc, "electric"):
			return transportResult(distance * c.factors.Transport.CarElectric), true
		case strings.Contains(desc, "diesel"):
			return transportResult(distance * c.factors.Transport.CarDiesel), true
		default:
			return transportResult(distance * c.factors.Transport.CarPetrol), true
		}
	}
	if containsAny(desc, "motorcycle", "bike", "scooter") {
		// "cycle"/"bicycle" means human-powered, not motorized.
		if containsAny(desc, "cycle", "bicycle") {
			return transportResult(0), true
		}
		return transportResult(distance * c.factors.Transport.Motorcycle), true
	}
	if strings.Contains(desc, "bus") {
		return transportResult(distance * c.factors.Transport.Bus), true
	}
	if containsAny(desc, "train", "metro", "subway") {
		return transportResult(distance * c.factors.Transport.Train), true
	}
	if containsAny(desc, "flight", "flew", "plane") {
		return transportResult(distance * c.factors.Transport.Flight), true
	}
	if strings.Contains(desc, "walk") {
		return transportResult(0), true
	}
	return domain.Classification{}, false
}

func (c *Classifier) food(desc string) (domain.Classification, bool) {
	switch {
	case containsAny(desc, "beef", "steak", "burger"):
		return foodResult(c.factors.Food.Beef), true
	case strings.Contains(desc, "chicken"):
		return foodResult(c.factors.Food.Chicken), true
	case containsAny(desc, "vegetarian", "veggie", "salad"):
		return foodResult(c.factors.Food.Vegetarian), true
	case strings.Contains(desc, "vegan"):
		return foodResult(c.factors.Food.Vegan), true
	case containsAny(desc, "fish", "seafood"):
		return foodResult(c.factors.Food.Fish), true
	case containsAny(desc, "lunch", "dinner", "breakfast", "meal", "ate", "food", "pizza"):
		return foodResult(c.factors.Food.Default), true
	}
	return domain.Classification{}, false
}

func (c *Classifier) energy(desc string, hours float64) (domain.Classification, bool) {
	if containsAny(desc, "ac", "air condition", "heating", "electricity", "power") {
		return domain.Classification{Category: domain.CategoryEnergy, EmissionKg: hours * c.factors.Energy.Electricity}, true
	}
	return domain.Classification{}, false
}

func (c *Classifier) shopping(desc string) (domain.Classification, bool) {
	if !containsAny(desc, "bought", "shopping", "purchased") {
		return domain.Classification{}, false
	}
	switch {
	case containsAny(desc, "cloth", "shirt", "pants", "dress"):
		return domain.Classification{Category: domain.CategoryShopping, EmissionKg: c.factors.Shopping.Clothing}, true
	case containsAny(desc, "electronic", "phone", "laptop", "computer"):
		return domain.Classification{Category: domain.CategoryShopping, EmissionKg: c.factors.Shopping.Electronics}, true
	default:
		return domain.Classification{Category: domain.CategoryShopping, EmissionKg: c.factors.Shopping.Default}, true
	}
}

func transportResult(kg float64) domain.Classification {
	return domain.Classification{Category: domain.CategoryTransport, EmissionKg: kg}
}

func foodResult(kg float64) domain.Classification {
	return domain.Classification{Category: domain.CategoryFood, EmissionKg: kg}
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
