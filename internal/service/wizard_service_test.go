package service

import (
	"context"
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecoguard/backend/internal/domain"
	"github.com/ecoguard/backend/internal/scoring"
	"github.com/ecoguard/backend/internal/wizard"
)

func newWizardService(ttl time.Duration) *WizardService {
	bridge := NewMLBridge(MLBridgeConfig{}, zerolog.Nop())
	dashboard := NewDashboardService(bridge, bridge, bridge, time.Second, zerolog.Nop())
	return NewWizardService(dashboard, ttl, zerolog.Nop())
}

func TestWizardService_CreateAndEdit(t *testing.T) {
	svc := newWizardService(time.Hour)

	view := svc.Create(false, nil)
	require.NotEmpty(t, view.ID)
	assert.Equal(t, WizardStatusEditing, view.Status)
	assert.Equal(t, 1, view.Wizard.Step)
	assert.Equal(t, 4, view.Wizard.TotalSteps)
	assert.Nil(t, view.Scorecard)

	view, err := svc.UpdateField(view.ID, wizard.FieldDiet, "vegan")
	require.NoError(t, err)
	assert.Equal(t, domain.DietVegan, view.Wizard.Answers.Diet)

	view, err = svc.ToggleSetMember(view.ID, wizard.FieldRecycling, "glass")
	require.NoError(t, err)
	assert.Contains(t, view.Wizard.Answers.Recycling, "glass")

	_, err = svc.UpdateField(view.ID, wizard.FieldDiet, "carnivore")
	assert.ErrorIs(t, err, wizard.ErrInvalidValue)

	_, err = svc.AttachImage(view.ID, domain.Image{Filename: "bin.jpg"})
	assert.ErrorIs(t, err, wizard.ErrNoImageStep)

	got, err := svc.Get(view.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DietVegan, got.Wizard.Answers.Diet)
}

func TestWizardService_AdvanceToScorecard(t *testing.T) {
	svc := newWizardService(time.Hour)
	view := svc.Create(true, nil)
	id := view.ID

	_, err := svc.AttachImage(id, domain.Image{Filename: "bin.jpg", Data: []byte{1}})
	require.NoError(t, err)

	for step := 1; step < 5; step++ {
		view, err = svc.Advance(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, WizardStatusEditing, view.Status)
		assert.Equal(t, step+1, view.Wizard.Step)
	}

	view, err = svc.Retreat(id)
	require.NoError(t, err)
	assert.Equal(t, 4, view.Wizard.Step)
	view, err = svc.Advance(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "bin.jpg", view.Wizard.ImageName)

	view, err = svc.Advance(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, WizardStatusComplete, view.Status)
	assert.Equal(t, wizard.StateSubmitted, view.Wizard.State)
	require.NotNil(t, view.Scorecard)
	assert.Equal(t, scoring.Lifestyle(domain.DefaultAnswers()), view.Scorecard.LifestyleKg)
	assert.Len(t, view.Scorecard.VisionLog, 2)

	_, err = svc.Advance(context.Background(), id)
	assert.ErrorIs(t, err, wizard.ErrSubmitted)
	_, err = svc.UpdateField(id, wizard.FieldDiet, "vegan")
	assert.ErrorIs(t, err, wizard.ErrSubmitted)

	got, err := svc.Get(id)
	require.NoError(t, err)
	assert.Equal(t, view.Scorecard, got.Scorecard)
}

func TestWizardService_ResetAndUnknown(t *testing.T) {
	svc := newWizardService(time.Hour)
	view := svc.Create(false, nil)

	require.NoError(t, svc.Reset(view.ID))
	assert.Equal(t, 0, svc.Len())

	_, err := svc.Get(view.ID)
	assert.ErrorIs(t, err, ErrWizardNotFound)
	assert.ErrorIs(t, svc.Reset(view.ID), ErrWizardNotFound)
	_, err = svc.Advance(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrWizardNotFound)
}

func TestWizardService_IdleWizardsExpire(t *testing.T) {
	svc := newWizardService(time.Minute)
	now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	stale := svc.Create(false, nil)
	now = now.Add(30 * time.Second)
	_, err := svc.Get(stale.ID)
	require.NoError(t, err, "access refreshes the idle timer")

	now = now.Add(2 * time.Minute)
	_, err = svc.Get(stale.ID)
	assert.ErrorIs(t, err, ErrWizardNotFound)

	svc.Create(false, nil)
	assert.Equal(t, 1, svc.Len(), "expired wizards are swept on create")
}

// gatedLifestyle holds every prediction until release is closed
type gatedLifestyle struct {
	started chan struct{}
	release chan struct{}
}

func (g gatedLifestyle) PredictLifestyle(ctx context.Context, _ domain.SurveyAnswers) (domain.LifestylePrediction, error) {
	close(g.started)
	select {
	case <-g.release:
		return domain.LifestylePrediction{LifestyleCarbon: 1800}, nil
	case <-ctx.Done():
		return domain.LifestylePrediction{}, ctx.Err()
	}
}

func TestWizardService_CalculatingWhileEvaluating(t *testing.T) {
	gate := gatedLifestyle{started: make(chan struct{}), release: make(chan struct{})}
	dashboard := newDashboard(gate, stubVision{}, stubSensor{}, 5*time.Second)
	svc := NewWizardService(dashboard, time.Hour, zerolog.Nop())

	id := svc.Create(false, nil).ID
	for step := 1; step < 4; step++ {
		_, err := svc.Advance(context.Background(), id)
		require.NoError(t, err)
	}

	type result struct {
		view WizardView
		err  error
	}
	done := make(chan result, 1)
	go func() {
		view, err := svc.Advance(context.Background(), id)
		done <- result{view, err}
	}()

	select {
	case <-gate.started:
	case <-time.After(2 * time.Second):
		t.Fatal("evaluation never started")
	}

	view, err := svc.Get(id)
	require.NoError(t, err)
	assert.Equal(t, WizardStatusCalculating, view.Status)
	assert.Equal(t, wizard.StateSubmitted, view.Wizard.State)
	assert.Nil(t, view.Scorecard)

	_, err = svc.UpdateField(id, wizard.FieldDiet, "vegan")
	assert.ErrorIs(t, err, wizard.ErrSubmitted)
	_, err = svc.Retreat(id)
	assert.ErrorIs(t, err, wizard.ErrSubmitted)
	_, err = svc.Advance(context.Background(), id)
	assert.ErrorIs(t, err, wizard.ErrSubmitted)

	close(gate.release)

	var res result
	select {
	case res = <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("advance did not return after release")
	}
	require.NoError(t, res.err)
	assert.Equal(t, WizardStatusComplete, res.view.Status)
	require.NotNil(t, res.view.Scorecard)
	assert.Equal(t, 1800.0, res.view.Scorecard.LifestyleKg)

	view, err = svc.Get(id)
	require.NoError(t, err)
	assert.Equal(t, WizardStatusComplete, view.Status)
}

func TestWizardService_CreateSeeded(t *testing.T) {
	svc := newWizardService(time.Hour)

	seed := domain.DefaultAnswers()
	seed.Diet = "Vegan"
	seed.Recycling = []string{"Paper", "paper"}

	view := svc.Create(false, &seed)
	assert.Equal(t, domain.DietVegan, view.Wizard.Answers.Diet)
	assert.Equal(t, []string{"paper"}, view.Wizard.Answers.Recycling)
	assert.Equal(t, "Vegan", string(seed.Diet), "seed is not modified")

	view = svc.Create(false, nil)
	assert.Equal(t, domain.DefaultAnswers().Diet, view.Wizard.Answers.Diet)
}

func TestWizardService_HugeAmountsStillScore(t *testing.T) {
	svc := newWizardService(time.Hour)
	id := svc.Create(false, nil).ID

	_, err := svc.UpdateField(id, wizard.FieldGroceryBill, "1.5e308")
	require.NoError(t, err)
	for step := 1; step < 4; step++ {
		_, err = svc.Advance(context.Background(), id)
		require.NoError(t, err)
	}

	view, err := svc.Advance(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, view.Scorecard)
	assert.False(t, math.IsInf(view.Scorecard.TotalKg, 0))
	assert.Equal(t, domain.ClassificationHigh, view.Scorecard.Classification)

	view, err = svc.Get(id)
	require.NoError(t, err)
	_, err = json.Marshal(view)
	assert.NoError(t, err)
}
