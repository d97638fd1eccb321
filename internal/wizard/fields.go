package wizard

import (
	"github.com/ecoguard/backend/internal/domain"
)

// Kind is the input type of a field
type Kind string

const (
	KindChoice Kind = "choice"
	KindNumber Kind = "number"
	KindMulti  Kind = "multi"
	KindImage  Kind = "image"
)

// Field names an answer slot. Names match the JSON keys of domain.SurveyAnswers.
type Field string

const (
	FieldBodyType         Field = "body_type"
	FieldSex              Field = "sex"
	FieldDiet             Field = "diet"
	FieldTransport        Field = "transport"
	FieldVehicleType      Field = "vehicle_type"
	FieldVehicleDistance  Field = "vehicle_monthly_distance_km"
	FieldAirTravel        Field = "air_travel"
	FieldGroceryBill      Field = "monthly_grocery_bill"
	FieldNewClothes       Field = "new_clothes_monthly"
	FieldTVPCHours        Field = "tv_pc_daily_hours"
	FieldInternetHours    Field = "internet_daily_hours"
	FieldHeatingSource    Field = "heating_source"
	FieldEnergyEfficiency Field = "energy_efficiency"
	FieldWasteBagSize     Field = "waste_bag_size"
	FieldWasteBagCount    Field = "waste_bag_weekly_count"
	FieldShowerFrequency  Field = "shower_frequency"
	FieldRecycling        Field = "recycling"
	FieldCookingWith      Field = "cooking_with"
	FieldWasteImage       Field = "waste_image"
)

// FieldSpec describes one input of a step
type FieldSpec struct {
	Name    Field    `json:"name"`
	Label   string   `json:"label"`
	Kind    Kind     `json:"kind"`
	Options []string `json:"options,omitempty"`
	Hint    string   `json:"hint,omitempty"`
}

// Step is one page of the wizard
type Step struct {
	Number int         `json:"number"`
	Title  string      `json:"title"`
	Note   string      `json:"note,omitempty"`
	Fields []FieldSpec `json:"fields"`
}

func choice[T ~string](name Field, label string, opts []T) FieldSpec {
	options := make([]string, len(opts))
	for i, o := range opts {
		options[i] = string(o)
	}
	return FieldSpec{Name: name, Label: label, Kind: KindChoice, Options: options}
}

func number(name Field, label, hint string) FieldSpec {
	return FieldSpec{Name: name, Label: label, Kind: KindNumber, Hint: hint}
}

func multi(name Field, label string, opts []string) FieldSpec {
	return FieldSpec{Name: name, Label: label, Kind: KindMulti, Options: opts, Hint: "Select all that apply"}
}

var baseSteps = []Step{
	{
		Number: 1,
		Title:  "Personal Information",
		Fields: []FieldSpec{
			choice(FieldBodyType, "Body Type", domain.BodyTypes),
			choice(FieldSex, "Sex", domain.Sexes),
			choice(FieldDiet, "Diet", domain.Diets),
		},
	},
	{
		Number: 2,
		Title:  "Transport & Travel",
		Note:   "Transport choices have a High Impact on your carbon footprint.",
		Fields: []FieldSpec{
			choice(FieldTransport, "Primary Transport Type", domain.Transports),
			choice(FieldVehicleType, "Vehicle Type", domain.VehicleTypes),
			number(FieldVehicleDistance, "Vehicle Monthly Distance (Km)", "e.g. 500"),
			choice(FieldAirTravel, "Frequency of Traveling by Air", domain.AirTravels),
		},
	},
	{
		Number: 3,
		Title:  "Consumption",
		Fields: []FieldSpec{
			number(FieldGroceryBill, "Monthly Grocery Bill ($)", ""),
			number(FieldNewClothes, "New Clothes Monthly", ""),
			number(FieldTVPCHours, "TV/PC Daily Hours", ""),
			number(FieldInternetHours, "Internet Daily Hours", ""),
		},
	},
	{
		Number: 4,
		Title:  "Energy & Waste",
		Fields: []FieldSpec{
			choice(FieldHeatingSource, "Heating Energy Source", domain.HeatingSources),
			choice(FieldEnergyEfficiency, "Energy Efficiency Rating", domain.EnergyEfficiencies),
			choice(FieldWasteBagSize, "Waste Bag Size", domain.WasteBagSizes),
			number(FieldWasteBagCount, "Waste Bag Weekly Count", ""),
			choice(FieldShowerFrequency, "How Often Shower", domain.ShowerFrequencies),
			multi(FieldRecycling, "Recycling Practices", domain.RecyclingMaterials),
			multi(FieldCookingWith, "Cooking Methods", domain.CookingMethods),
		},
	},
}

var imageStep = Step{
	Number: 5,
	Title:  "Waste Image",
	Note:   "Optionally upload a photo of your waste for material detection.",
	Fields: []FieldSpec{
		{Name: FieldWasteImage, Label: "Waste Image", Kind: KindImage, Hint: "optional"},
	},
}

// Steps returns the wizard schema; withImage appends the optional upload step
func Steps(withImage bool) []Step {
	steps := make([]Step, 0, len(baseSteps)+1)
	steps = append(steps, baseSteps...)
	if withImage {
		steps = append(steps, imageStep)
	}
	return steps
}

// Lookup returns the FieldSpec of a field from the full schema
func Lookup(name Field) (FieldSpec, bool) {
	for _, s := range Steps(true) {
		for _, f := range s.Fields {
			if f.Name == name {
				return f, true
			}
		}
	}
	return FieldSpec{}, false
}

// visibleFields hides the vehicle type unless transport is private
func visibleFields(step Step, answers domain.SurveyAnswers) []FieldSpec {
	out := make([]FieldSpec, 0, len(step.Fields))
	for _, f := range step.Fields {
		if f.Name == FieldVehicleType && answers.Transport != domain.TransportPrivate {
			continue
		}
		out = append(out, f)
	}
	return out
}
