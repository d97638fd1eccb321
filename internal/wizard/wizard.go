// Package wizard implements the multi-step survey form as a linear state
// machine: Editing(step 1..N) until the last step is advanced, then Submitted.
package wizard

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/ecoguard/backend/internal/domain"
)

// Sentinel errors returned by wizard operations
var (
	ErrSubmitted    = errors.New("wizard: already submitted")
	ErrUnknownField = errors.New("wizard: unknown field")
	ErrInvalidValue = errors.New("wizard: invalid value")
	ErrWrongKind    = errors.New("wizard: operation does not apply to field")
	ErrNoImageStep  = errors.New("wizard: image step not enabled")
)

// State is the lifecycle position of a wizard
type State string

const (
	StateEditing   State = "editing"
	StateSubmitted State = "submitted"
)

// Submission is the read-only record handed to the completion callback
type Submission struct {
	Answers domain.SurveyAnswers
	Image   *domain.Image
}

// CompleteFunc receives the final answers exactly once
type CompleteFunc func(Submission)

// Option configures a Wizard
type Option func(*Wizard)

// WithImageStep adds the optional waste image upload as a fifth step
func WithImageStep() Option {
	return func(w *Wizard) {
		w.withImage = true
	}
}

// WithAnswers starts the wizard from the given answers instead of the defaults
func WithAnswers(a domain.SurveyAnswers) Option {
	return func(w *Wizard) {
		w.answers = a.Normalize()
	}
}

// Wizard owns the evolving survey answers. It is safe for concurrent use;
// the completion callback runs without the lock held.
type Wizard struct {
	mu         sync.Mutex
	steps      []Step
	step       int
	state      State
	answers    domain.SurveyAnswers
	image      *domain.Image
	withImage  bool
	onComplete CompleteFunc
}

// New creates a wizard at step 1, starting from the default answers unless WithAnswers is given
func New(onComplete CompleteFunc, opts ...Option) *Wizard {
	w := &Wizard{
		step:       1,
		state:      StateEditing,
		answers:    domain.DefaultAnswers(),
		onComplete: onComplete,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.steps = Steps(w.withImage)
	return w
}

// Snapshot is a consistent, copyable view of a wizard
type Snapshot struct {
	Step       int                  `json:"step"`
	TotalSteps int                  `json:"total_steps"`
	Title      string               `json:"title"`
	Note       string               `json:"note,omitempty"`
	State      State                `json:"state"`
	Fields     []FieldSpec          `json:"fields"`
	Answers    domain.SurveyAnswers `json:"answers"`
	ImageName  string               `json:"image_name,omitempty"`
}

// Snapshot returns the current step, its visible fields and a copy of the answers
func (w *Wizard) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	step := w.steps[w.step-1]
	snap := Snapshot{
		Step:       w.step,
		TotalSteps: len(w.steps),
		Title:      step.Title,
		Note:       step.Note,
		State:      w.state,
		Fields:     visibleFields(step, w.answers),
		Answers:    w.answers.Clone(),
	}
	if w.image != nil {
		snap.ImageName = w.image.Filename
	}
	return snap
}

// Step returns the 1-based current step
func (w *Wizard) Step() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// TotalSteps returns 4, or 5 with the image step
func (w *Wizard) TotalSteps() int {
	return len(w.steps)
}

// State returns the lifecycle state
func (w *Wizard) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Answers returns a copy of the current answers
func (w *Wizard) Answers() domain.SurveyAnswers {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.answers.Clone()
}

// UpdateField writes a scalar answer from raw text.
//
// Number fields accept "" as 0, clamp negatives to 0 and reject non-numeric
// text. Choice fields are matched case-insensitively against their options.
// A rejected value leaves the answers unchanged.
func (w *Wizard) UpdateField(name Field, raw string) error {
	spec, ok := Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state == StateSubmitted {
		return ErrSubmitted
	}

	switch spec.Kind {
	case KindNumber:
		v, err := parseNumber(raw)
		if err != nil {
			return fmt.Errorf("%w: %s %q", ErrInvalidValue, name, raw)
		}
		setNumber(&w.answers, name, v)
	case KindChoice:
		v := domain.Canonical(raw)
		if !slices.Contains(spec.Options, v) {
			return fmt.Errorf("%w: %s %q", ErrInvalidValue, name, raw)
		}
		setChoice(&w.answers, name, v)
	default:
		return fmt.Errorf("%w: %s is a %s field", ErrWrongKind, name, spec.Kind)
	}

	return nil
}

// ToggleSetMember adds value to a multi-choice field, or removes it if present
func (w *Wizard) ToggleSetMember(name Field, value string) error {
	spec, ok := Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	if spec.Kind != KindMulti {
		return fmt.Errorf("%w: %s is a %s field", ErrWrongKind, name, spec.Kind)
	}

	v := domain.Canonical(value)
	if !slices.Contains(spec.Options, v) {
		return fmt.Errorf("%w: %s %q", ErrInvalidValue, name, value)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state == StateSubmitted {
		return ErrSubmitted
	}

	set := &w.answers.Recycling
	if name == FieldCookingWith {
		set = &w.answers.CookingWith
	}
	if i := slices.Index(*set, v); i >= 0 {
		*set = slices.Delete(*set, i, i+1)
	} else {
		*set = append(*set, v)
	}

	return nil
}

// AttachImage stores the waste photo submitted with the answers
func (w *Wizard) AttachImage(img domain.Image) error {
	if !w.withImage {
		return ErrNoImageStep
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state == StateSubmitted {
		return ErrSubmitted
	}
	img.Data = slices.Clone(img.Data)
	w.image = &img
	return nil
}

// DetachImage removes a previously attached photo
func (w *Wizard) DetachImage() error {
	if !w.withImage {
		return ErrNoImageStep
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state == StateSubmitted {
		return ErrSubmitted
	}
	w.image = nil
	return nil
}

// Advance moves to the next step. On the last step it submits: the wizard
// becomes read-only and the completion callback receives a snapshot of the
// answers. It reports whether this call submitted.
func (w *Wizard) Advance() (bool, error) {
	w.mu.Lock()

	if w.state == StateSubmitted {
		w.mu.Unlock()
		return false, ErrSubmitted
	}

	if w.step < len(w.steps) {
		w.step++
		w.mu.Unlock()
		return false, nil
	}

	w.state = StateSubmitted
	sub := Submission{Answers: w.answers.Clone()}
	if w.image != nil {
		img := *w.image
		sub.Image = &img
	}
	onComplete := w.onComplete
	w.mu.Unlock()

	if onComplete != nil {
		onComplete(sub)
	}
	return true, nil
}

// Retreat moves back one step. It is a no-op on step 1.
func (w *Wizard) Retreat() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state == StateSubmitted {
		return ErrSubmitted
	}
	if w.step > 1 {
		w.step--
	}
	return nil
}

// Value returns the current answer of a field formatted for display
func (w *Wizard) Value(name Field) string {
	w.mu.Lock()
	defer w.mu.Unlock()

	a := &w.answers
	switch name {
	case FieldBodyType:
		return string(a.BodyType)
	case FieldSex:
		return string(a.Sex)
	case FieldDiet:
		return string(a.Diet)
	case FieldTransport:
		return string(a.Transport)
	case FieldVehicleType:
		return string(a.VehicleType)
	case FieldAirTravel:
		return string(a.AirTravel)
	case FieldHeatingSource:
		return string(a.HeatingSource)
	case FieldEnergyEfficiency:
		return string(a.EnergyEfficiency)
	case FieldShowerFrequency:
		return string(a.ShowerFrequency)
	case FieldWasteBagSize:
		return string(a.WasteBagSize)
	case FieldRecycling:
		return strings.Join(a.Recycling, ", ")
	case FieldCookingWith:
		return strings.Join(a.CookingWith, ", ")
	case FieldWasteImage:
		if w.image != nil {
			return w.image.Filename
		}
		return ""
	}

	if v, ok := numberField(a, name); ok {
		return strconv.FormatFloat(*v, 'f', -1, 64)
	}
	return ""
}

func parseNumber(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, strconv.ErrRange
	}
	return math.Max(0, v), nil
}

func numberField(a *domain.SurveyAnswers, name Field) (*float64, bool) {
	switch name {
	case FieldVehicleDistance:
		return &a.VehicleMonthlyDistanceKm, true
	case FieldGroceryBill:
		return &a.MonthlyGroceryBill, true
	case FieldNewClothes:
		return &a.NewClothesMonthly, true
	case FieldTVPCHours:
		return &a.TVPCDailyHours, true
	case FieldInternetHours:
		return &a.InternetDailyHours, true
	case FieldWasteBagCount:
		return &a.WasteBagWeeklyCount, true
	}
	return nil, false
}

func setNumber(a *domain.SurveyAnswers, name Field, v float64) {
	if p, ok := numberField(a, name); ok {
		*p = v
	}
}

func setChoice(a *domain.SurveyAnswers, name Field, v string) {
	switch name {
	case FieldBodyType:
		a.BodyType = domain.BodyType(v)
	case FieldSex:
		a.Sex = domain.Sex(v)
	case FieldDiet:
		a.Diet = domain.Diet(v)
	case FieldTransport:
		a.Transport = domain.Transport(v)
	case FieldVehicleType:
		a.VehicleType = domain.VehicleType(v)
	case FieldAirTravel:
		a.AirTravel = domain.AirTravel(v)
	case FieldHeatingSource:
		a.HeatingSource = domain.HeatingSource(v)
	case FieldEnergyEfficiency:
		a.EnergyEfficiency = domain.EnergyEfficiency(v)
	case FieldShowerFrequency:
		a.ShowerFrequency = domain.ShowerFrequency(v)
	case FieldWasteBagSize:
		a.WasteBagSize = domain.WasteBagSize(v)
	}
}
