package domain

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
)

// Categorical answer types. Values are stored in canonical (lower case) form.
type (
	BodyType         string
	Sex              string
	Diet             string
	Transport        string
	VehicleType      string
	AirTravel        string
	HeatingSource    string
	EnergyEfficiency string
	ShowerFrequency  string
	WasteBagSize     string
)

const (
	BodyUnderweight BodyType = "underweight"
	BodyNormal      BodyType = "normal"
	BodyOverweight  BodyType = "overweight"
	BodyObese       BodyType = "obese"

	SexFemale Sex = "female"
	SexMale   Sex = "male"

	DietVegan       Diet = "vegan"
	DietVegetarian  Diet = "vegetarian"
	DietPescatarian Diet = "pescatarian"
	DietOmnivore    Diet = "omnivore"

	TransportWalkBicycle Transport = "walk/bicycle"
	TransportPublic      Transport = "public"
	TransportPrivate     Transport = "private"

	VehicleElectric VehicleType = "electric"
	VehicleHybrid   VehicleType = "hybrid"
	VehiclePetrol   VehicleType = "petrol"
	VehicleDiesel   VehicleType = "diesel"

	AirNever          AirTravel = "never"
	AirRarely         AirTravel = "rarely"
	AirFrequently     AirTravel = "frequently"
	AirVeryFrequently AirTravel = "very frequently"

	HeatingCoal        HeatingSource = "coal"
	HeatingNaturalGas  HeatingSource = "natural gas"
	HeatingElectricity HeatingSource = "electricity"
	HeatingWood        HeatingSource = "wood"

	EfficiencyYes       EnergyEfficiency = "yes"
	EfficiencySometimes EnergyEfficiency = "sometimes"
	EfficiencyNo        EnergyEfficiency = "no"

	ShowerLessFrequently ShowerFrequency = "less frequently"
	ShowerDaily          ShowerFrequency = "daily"
	ShowerTwiceADay      ShowerFrequency = "twice a day"
	ShowerMoreFrequently ShowerFrequency = "more frequently"

	WasteSmall      WasteBagSize = "small"
	WasteMedium     WasteBagSize = "medium"
	WasteLarge      WasteBagSize = "large"
	WasteExtraLarge WasteBagSize = "extra large"
)

// Allowed values for each categorical field, in display order
var (
	BodyTypes          = []BodyType{BodyUnderweight, BodyNormal, BodyOverweight, BodyObese}
	Sexes              = []Sex{SexFemale, SexMale}
	Diets              = []Diet{DietVegan, DietVegetarian, DietPescatarian, DietOmnivore}
	Transports         = []Transport{TransportWalkBicycle, TransportPublic, TransportPrivate}
	VehicleTypes       = []VehicleType{VehicleElectric, VehicleHybrid, VehiclePetrol, VehicleDiesel}
	AirTravels         = []AirTravel{AirNever, AirRarely, AirFrequently, AirVeryFrequently}
	HeatingSources     = []HeatingSource{HeatingElectricity, HeatingNaturalGas, HeatingWood, HeatingCoal}
	EnergyEfficiencies = []EnergyEfficiency{EfficiencyYes, EfficiencySometimes, EfficiencyNo}
	ShowerFrequencies  = []ShowerFrequency{ShowerLessFrequently, ShowerDaily, ShowerTwiceADay, ShowerMoreFrequently}
	WasteBagSizes      = []WasteBagSize{WasteSmall, WasteMedium, WasteLarge, WasteExtraLarge}

	RecyclingMaterials = []string{"paper", "plastic", "glass", "metal"}
	CookingMethods     = []string{"stove", "oven", "microwave", "grill", "airfryer"}
)

// ErrInvalidAnswer marks a survey value outside its allowed range or enumeration
var ErrInvalidAnswer = errors.New("invalid survey answer")

// SurveyAnswers is the lifestyle record collected by the wizard
type SurveyAnswers struct {
	BodyType         BodyType         `json:"body_type" yaml:"body_type"`
	Sex              Sex              `json:"sex" yaml:"sex"`
	Diet             Diet             `json:"diet" yaml:"diet"`
	Transport        Transport        `json:"transport" yaml:"transport"`
	VehicleType      VehicleType      `json:"vehicle_type" yaml:"vehicle_type"`
	AirTravel        AirTravel        `json:"air_travel" yaml:"air_travel"`
	HeatingSource    HeatingSource    `json:"heating_source" yaml:"heating_source"`
	EnergyEfficiency EnergyEfficiency `json:"energy_efficiency" yaml:"energy_efficiency"`
	ShowerFrequency  ShowerFrequency  `json:"shower_frequency" yaml:"shower_frequency"`
	WasteBagSize     WasteBagSize     `json:"waste_bag_size" yaml:"waste_bag_size"`

	VehicleMonthlyDistanceKm float64 `json:"vehicle_monthly_distance_km" yaml:"vehicle_monthly_distance_km"`
	MonthlyGroceryBill       float64 `json:"monthly_grocery_bill" yaml:"monthly_grocery_bill"`
	NewClothesMonthly        float64 `json:"new_clothes_monthly" yaml:"new_clothes_monthly"`
	WasteBagWeeklyCount      float64 `json:"waste_bag_weekly_count" yaml:"waste_bag_weekly_count"`
	TVPCDailyHours           float64 `json:"tv_pc_daily_hours" yaml:"tv_pc_daily_hours"`
	InternetDailyHours       float64 `json:"internet_daily_hours" yaml:"internet_daily_hours"`

	Recycling   []string `json:"recycling" yaml:"recycling"`
	CookingWith []string `json:"cooking_with" yaml:"cooking_with"`
}

// DefaultAnswers returns the record a fresh wizard starts from
func DefaultAnswers() SurveyAnswers {
	return SurveyAnswers{
		BodyType:            BodyNormal,
		Sex:                 SexFemale,
		Diet:                DietOmnivore,
		Transport:           TransportPublic,
		VehicleType:         VehiclePetrol,
		AirTravel:           AirRarely,
		HeatingSource:       HeatingElectricity,
		EnergyEfficiency:    EfficiencyYes,
		ShowerFrequency:     ShowerDaily,
		WasteBagSize:        WasteMedium,
		MonthlyGroceryBill:  150,
		NewClothesMonthly:   2,
		TVPCDailyHours:      4,
		InternetDailyHours:  4,
		WasteBagWeeklyCount: 2,
		Recycling:           []string{},
		CookingWith:         []string{},
	}
}

// Canonical normalises a free-form categorical value for comparison
func Canonical(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Clone returns a deep copy of the answers
func (a SurveyAnswers) Clone() SurveyAnswers {
	out := a
	out.Recycling = slices.Clone(a.Recycling)
	out.CookingWith = slices.Clone(a.CookingWith)
	if out.Recycling == nil {
		out.Recycling = []string{}
	}
	if out.CookingWith == nil {
		out.CookingWith = []string{}
	}
	return out
}

// Normalize canonicalises categorical values and removes duplicate set members
func (a SurveyAnswers) Normalize() SurveyAnswers {
	out := a.Clone()
	out.BodyType = BodyType(Canonical(string(a.BodyType)))
	out.Sex = Sex(Canonical(string(a.Sex)))
	out.Diet = Diet(Canonical(string(a.Diet)))
	out.Transport = Transport(Canonical(string(a.Transport)))
	out.VehicleType = VehicleType(Canonical(string(a.VehicleType)))
	out.AirTravel = AirTravel(Canonical(string(a.AirTravel)))
	out.HeatingSource = HeatingSource(Canonical(string(a.HeatingSource)))
	out.EnergyEfficiency = EnergyEfficiency(Canonical(string(a.EnergyEfficiency)))
	out.ShowerFrequency = ShowerFrequency(Canonical(string(a.ShowerFrequency)))
	out.WasteBagSize = WasteBagSize(Canonical(string(a.WasteBagSize)))
	out.Recycling = uniqueCanonical(out.Recycling)
	out.CookingWith = uniqueCanonical(out.CookingWith)
	return out
}

// Validate reports every value outside its enumeration and every negative or
// non-finite number.
// The vehicle type is only checked when transport is private.
func (a SurveyAnswers) Validate() error {
	var errs []error
	check := func(field string, ok bool, value any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %s %q", ErrInvalidAnswer, field, fmt.Sprint(value)))
		}
	}

	check("body_type", slices.Contains(BodyTypes, a.BodyType), a.BodyType)
	check("sex", slices.Contains(Sexes, a.Sex), a.Sex)
	check("diet", slices.Contains(Diets, a.Diet), a.Diet)
	check("transport", slices.Contains(Transports, a.Transport), a.Transport)
	if a.Transport == TransportPrivate {
		check("vehicle_type", slices.Contains(VehicleTypes, a.VehicleType), a.VehicleType)
	}
	check("air_travel", slices.Contains(AirTravels, a.AirTravel), a.AirTravel)
	check("heating_source", slices.Contains(HeatingSources, a.HeatingSource), a.HeatingSource)
	check("energy_efficiency", slices.Contains(EnergyEfficiencies, a.EnergyEfficiency), a.EnergyEfficiency)
	check("shower_frequency", slices.Contains(ShowerFrequencies, a.ShowerFrequency), a.ShowerFrequency)
	check("waste_bag_size", slices.Contains(WasteBagSizes, a.WasteBagSize), a.WasteBagSize)

	check("vehicle_monthly_distance_km", validAmount(a.VehicleMonthlyDistanceKm), a.VehicleMonthlyDistanceKm)
	check("monthly_grocery_bill", validAmount(a.MonthlyGroceryBill), a.MonthlyGroceryBill)
	check("new_clothes_monthly", validAmount(a.NewClothesMonthly), a.NewClothesMonthly)
	check("waste_bag_weekly_count", validAmount(a.WasteBagWeeklyCount), a.WasteBagWeeklyCount)
	check("tv_pc_daily_hours", validAmount(a.TVPCDailyHours), a.TVPCDailyHours)
	check("internet_daily_hours", validAmount(a.InternetDailyHours), a.InternetDailyHours)

	for _, m := range a.Recycling {
		check("recycling", slices.Contains(RecyclingMaterials, m), m)
	}
	for _, m := range a.CookingWith {
		check("cooking_with", slices.Contains(CookingMethods, m), m)
	}

	return errors.Join(errs...)
}

// validAmount accepts finite, non-negative numbers
func validAmount(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0)
}

func uniqueCanonical(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		c := Canonical(v)
		if !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	return out
}
