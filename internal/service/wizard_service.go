package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ecoguard/backend/internal/domain"
	"github.com/ecoguard/backend/internal/wizard"
)

// ErrWizardNotFound is returned for unknown or expired wizard ids
var ErrWizardNotFound = errors.New("wizard not found")

// Wizard lifecycle as seen by clients
const (
	WizardStatusEditing     = "editing"
	WizardStatusCalculating = "calculating"
	WizardStatusComplete    = "complete"
)

// WizardView is what clients see of a hosted wizard
type WizardView struct {
	ID        string            `json:"id"`
	Status    string            `json:"status"`
	Wizard    wizard.Snapshot   `json:"wizard"`
	Scorecard *domain.Scorecard `json:"scorecard,omitempty"`
}

type wizardEntry struct {
	mu         sync.Mutex
	id         string
	wizard     *wizard.Wizard
	status     string
	submission *wizard.Submission
	scorecard  *domain.Scorecard
	touched    time.Time
}

// WizardService hosts in-progress wizards for HTTP clients. Entries idle
// for longer than the ttl are dropped.
type WizardService struct {
	dashboard *DashboardService

	mu      sync.Mutex
	wizards map[string]*wizardEntry
	ttl     time.Duration
	now     func() time.Time
	logger  zerolog.Logger
}

// NewWizardService creates a new wizard registry
func NewWizardService(dashboard *DashboardService, ttl time.Duration, logger zerolog.Logger) *WizardService {
	return &WizardService{
		dashboard: dashboard,
		wizards:   make(map[string]*wizardEntry),
		ttl:       ttl,
		now:       time.Now,
		logger:    logger.With().Str("component", "wizards").Logger(),
	}
}

// Create mounts a fresh wizard starting from seed, or the defaults when seed is nil
func (s *WizardService) Create(withImage bool, seed *domain.SurveyAnswers) WizardView {
	e := &wizardEntry{
		id:     uuid.NewString(),
		status: WizardStatusEditing,
	}

	var opts []wizard.Option
	if withImage {
		opts = append(opts, wizard.WithImageStep())
	}
	if seed != nil {
		opts = append(opts, wizard.WithAnswers(*seed))
	}
	e.wizard = wizard.New(func(sub wizard.Submission) {
		e.submission = &sub
	}, opts...)

	s.mu.Lock()
	s.sweepLocked()
	e.touched = s.now()
	s.wizards[e.id] = e
	s.mu.Unlock()

	s.logger.Debug().Str("wizard_id", e.id).Bool("image_step", withImage).Bool("seeded", seed != nil).Msg("wizard created")

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.viewLocked()
}

// Get returns the current view of a wizard
func (s *WizardService) Get(id string) (WizardView, error) {
	return s.with(id, func(*wizardEntry) error { return nil })
}

// UpdateField sets a scalar answer
func (s *WizardService) UpdateField(id string, field wizard.Field, raw string) (WizardView, error) {
	return s.with(id, func(e *wizardEntry) error {
		return e.wizard.UpdateField(field, raw)
	})
}

// ToggleSetMember flips membership of a multi-choice value
func (s *WizardService) ToggleSetMember(id string, field wizard.Field, value string) (WizardView, error) {
	return s.with(id, func(e *wizardEntry) error {
		return e.wizard.ToggleSetMember(field, value)
	})
}

// AttachImage stores the waste photo
func (s *WizardService) AttachImage(id string, img domain.Image) (WizardView, error) {
	return s.with(id, func(e *wizardEntry) error {
		return e.wizard.AttachImage(img)
	})
}

// DetachImage removes the waste photo
func (s *WizardService) DetachImage(id string) (WizardView, error) {
	return s.with(id, func(e *wizardEntry) error {
		return e.wizard.DetachImage()
	})
}

// Retreat moves one step back
func (s *WizardService) Retreat(id string) (WizardView, error) {
	return s.with(id, func(e *wizardEntry) error {
		return e.wizard.Retreat()
	})
}

// Advance moves one step forward. When this submits the wizard, the models
// run before Advance returns and the view carries the scorecard. While they
// run, Get reports the calculating status.
func (s *WizardService) Advance(ctx context.Context, id string) (WizardView, error) {
	e, err := s.lookup(id)
	if err != nil {
		return WizardView{}, err
	}

	e.mu.Lock()
	submitted, err := e.wizard.Advance()
	if err != nil || !submitted {
		view := e.viewLocked()
		e.mu.Unlock()
		return view, err
	}
	e.status = WizardStatusCalculating
	sub := *e.submission
	e.mu.Unlock()

	sc := s.dashboard.Evaluate(ctx, sub.Answers, sub.Image)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.scorecard = &sc
	e.status = WizardStatusComplete
	s.touch(e)
	return e.viewLocked(), nil
}

// Reset discards a wizard and its results. Recalculating starts over with Create.
func (s *WizardService) Reset(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.wizards[id]; !ok {
		return ErrWizardNotFound
	}
	delete(s.wizards, id)
	return nil
}

// Len reports how many wizards are hosted
func (s *WizardService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.wizards)
}

func (s *WizardService) with(id string, fn func(*wizardEntry) error) (WizardView, error) {
	e, err := s.lookup(id)
	if err != nil {
		return WizardView{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	err = fn(e)
	return e.viewLocked(), err
}

func (s *WizardService) lookup(id string) (*wizardEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.wizards[id]
	if !ok || s.expiredLocked(e) {
		return nil, ErrWizardNotFound
	}
	e.touched = s.now()
	return e, nil
}

func (s *WizardService) touch(e *wizardEntry) {
	s.mu.Lock()
	e.touched = s.now()
	s.mu.Unlock()
}

func (s *WizardService) expiredLocked(e *wizardEntry) bool {
	return s.ttl > 0 && s.now().Sub(e.touched) > s.ttl
}

func (s *WizardService) sweepLocked() {
	for id, e := range s.wizards {
		if s.expiredLocked(e) {
			delete(s.wizards, id)
		}
	}
}

func (e *wizardEntry) viewLocked() WizardView {
	return WizardView{
		ID:        e.id,
		Status:    e.status,
		Wizard:    e.wizard.Snapshot(),
		Scorecard: e.scorecard,
	}
}
