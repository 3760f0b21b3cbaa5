package classifier

// Emission factors in kg CO2 per unit: per km for transport, per meal for
// food, per hour for energy, per item for shopping. The table is loaded once
// and never mutated; activities keep the estimate computed with the table
// version that was live when they were logged.

// TransportFactors are per-km coefficients by mode and fuel.
type TransportFactors struct {
	CarPetrol   float64
	CarDiesel   float64
	CarElectric float64
	Motorcycle  float64
	Bus         float64
	Train       float64
	Flight      float64
}

// FoodFactors are flat per-meal coefficients.
type FoodFactors struct {
	Beef       float64
	Chicken    float64
	Vegetarian float64
	Vegan      float64
	Fish       float64
	Default    float64
}

// EnergyFactors are per-hour coefficients.
type EnergyFactors struct {
	Electricity float64
	Gas         float64
	Default     float64
}

// ShoppingFactors are flat per-item coefficients.
type ShoppingFactors struct {
	Clothing    float64
	Electronics float64
	Default     float64
}

// Factors is the full emission-factor table.
type Factors struct {
	Transport TransportFactors
	Food      FoodFactors
	Energy    EnergyFactors
	Shopping  ShoppingFactors
	Waste     float64
	Other     float64
}

// DefaultFactors returns the production factor table.
func DefaultFactors() Factors {
	return Factors{
		Transport: TransportFactors{
			CarPetrol:   0.21,
			CarDiesel:   0.27,
			CarElectric: 0.05,
			Motorcycle:  0.12,
			Bus:         0.089,
			Train:       0.041,
			Flight:      0.255,
		},
		Food: FoodFactors{
			Beef:       27,
			Chicken:    6.9,
			Vegetarian: 2.0,
			Vegan:      1.5,
			Fish:       6.1,
			Default:    4.0,
		},
		Energy: EnergyFactors{
			Electricity: 0.5,
			Gas:         0.2,
			Default:     0.4,
		},
		Shopping: ShoppingFactors{
			Clothing:    10,
			Electronics: 50,
			Default:     5,
		},
		Waste: 0.5,
		Other: 1.0,
	}
}
