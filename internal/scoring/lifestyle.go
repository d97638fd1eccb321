// Package scoring holds the deterministic carbon estimators that stand in for
// the lifestyle regression model and combine the vision and sensor outputs.
package scoring

import (
	"math"

	"github.com/ecoguard/backend/internal/domain"
	"github.com/ecoguard/backend/pkg/utils"
)

// BaseEmissionKg is the yearly starting point of every lifestyle estimate
const BaseEmissionKg = 1500.0

// Per-unit factors of the lifestyle heuristic
const (
	PetrolKgPerKm   = 0.25
	DieselKgPerKm   = 0.28
	ElectricKgPerKm = 0.08
	PublicKgPerKm   = 0.05

	GroceryKgPerUnit      = 1.5
	ClothingKgPerItem     = 25.0
	WeeksPerYear          = 52.0
	RecyclingKgPerItem    = -50.0
	EfficiencyReductionKg = -200.0
)

// MaxTermKg bounds every additive term so that sums stay finite
const MaxTermKg = 1e15

// Factor names reported by LifestyleBreakdown
const (
	FactorBase       = "base"
	FactorTransport  = "transport"
	FactorAirTravel  = "air_travel"
	FactorHeating    = "heating"
	FactorDiet       = "diet"
	FactorGroceries  = "groceries"
	FactorClothing   = "clothing"
	FactorWaste      = "waste"
	FactorRecycling  = "recycling"
	FactorEfficiency = "energy_efficiency"
)

var privateVehicleKgPerKm = map[domain.VehicleType]float64{
	domain.VehiclePetrol:   PetrolKgPerKm,
	domain.VehicleDiesel:   DieselKgPerKm,
	domain.VehicleElectric: ElectricKgPerKm,
}

var airTravelKg = map[domain.AirTravel]float64{
	domain.AirNever:          0,
	domain.AirRarely:         400,
	domain.AirFrequently:     1500,
	domain.AirVeryFrequently: 3500,
}

var heatingKg = map[domain.HeatingSource]float64{
	domain.HeatingCoal:        800,
	domain.HeatingNaturalGas:  400,
	domain.HeatingElectricity: 200,
	domain.HeatingWood:        300,
}

var dietKg = map[domain.Diet]float64{
	domain.DietVegan:       -300,
	domain.DietVegetarian:  -150,
	domain.DietPescatarian: 0,
	domain.DietOmnivore:    300,
}

var wasteSizeFactor = map[domain.WasteBagSize]float64{
	domain.WasteSmall:      1,
	domain.WasteMedium:     1.5,
	domain.WasteLarge:      2,
	domain.WasteExtraLarge: 2.5,
}

// FactorContribution is one additive term of the lifestyle estimate
type FactorContribution struct {
	Factor string  `json:"factor"`
	Kg     float64 `json:"kg"`
}

// Lifestyle estimates yearly lifestyle carbon in kg CO2e.
//
// Unrecognised categorical values contribute nothing and negative numbers are
// read as zero, so every record scores. Each term saturates at MaxTermKg.
// The result is rounded and never negative.
func Lifestyle(answers domain.SurveyAnswers) float64 {
	total := 0.0
	for _, c := range LifestyleBreakdown(answers) {
		total += c.Kg
	}
	return math.Max(0, math.Round(total))
}

// LifestyleBreakdown returns the unrounded additive terms of Lifestyle in a fixed order
func LifestyleBreakdown(answers domain.SurveyAnswers) []FactorContribution {
	a := answers.Normalize()

	terms := []FactorContribution{
		{FactorBase, BaseEmissionKg},
		{FactorTransport, TransportKg(a.Transport, a.VehicleType, a.VehicleMonthlyDistanceKm)},
		{FactorAirTravel, airTravelKg[a.AirTravel]},
		{FactorHeating, heatingKg[a.HeatingSource]},
		{FactorDiet, dietKg[a.Diet]},
		{FactorGroceries, utils.NonNegative(a.MonthlyGroceryBill) * GroceryKgPerUnit},
		{FactorClothing, utils.NonNegative(a.NewClothesMonthly) * ClothingKgPerItem},
		{FactorWaste, utils.NonNegative(a.WasteBagWeeklyCount) * wasteSizeFactor[a.WasteBagSize] * WeeksPerYear},
		{FactorRecycling, float64(len(a.Recycling)) * RecyclingKgPerItem},
		{FactorEfficiency, efficiencyKg(a.EnergyEfficiency)},
	}
	for i := range terms {
		terms[i].Kg = utils.Saturate(terms[i].Kg, MaxTermKg)
	}
	return terms
}

// TransportKg returns the transport term for a monthly distance.
// The vehicle type only matters for private transport.
func TransportKg(mode domain.Transport, vehicle domain.VehicleType, distanceKm float64) float64 {
	distanceKm = utils.NonNegative(distanceKm)

	switch mode {
	case domain.TransportPrivate:
		return distanceKm * privateVehicleKgPerKm[vehicle]
	case domain.TransportPublic:
		return distanceKm * PublicKgPerKm
	default:
		return 0
	}
}

func efficiencyKg(e domain.EnergyEfficiency) float64 {
	if e == domain.EfficiencyYes {
		return EfficiencyReductionKg
	}
	return 0
}
