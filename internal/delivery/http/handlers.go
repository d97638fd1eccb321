package http

import (
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ecoguard/backend/internal/domain"
	"github.com/ecoguard/backend/internal/service"
	"github.com/ecoguard/backend/internal/wizard"
)

// SessionHeader carries the signed-in session id
const SessionHeader = "X-Session-ID"

// Handler contains all HTTP handlers
type Handler struct {
	dashboardSvc *service.DashboardService
	wizardSvc    *service.WizardService
	sessionSvc   *service.SessionService
	mlBridge     *service.MLBridge
}

// NewHandler creates a new handler
func NewHandler(
	dashboardSvc *service.DashboardService,
	wizardSvc *service.WizardService,
	sessionSvc *service.SessionService,
	mlBridge *service.MLBridge,
) *Handler {
	return &Handler{
		dashboardSvc: dashboardSvc,
		wizardSvc:    wizardSvc,
		sessionSvc:   sessionSvc,
		mlBridge:     mlBridge,
	}
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	ctx := c.UserContext()

	sessions := "ok"
	if err := h.sessionSvc.Health(ctx); err != nil {
		sessions = err.Error()
	}

	return c.JSON(fiber.Map{
		"status":   "ok",
		"service":  "ecoguard-backend",
		"version":  "1.0.0",
		"sessions": sessions,
		"models":   h.mlBridge.Health(ctx),
		"wizards":  h.wizardSvc.Len(),
	})
}

// GetSchema returns the wizard steps and their fields
func (h *Handler) GetSchema(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    wizard.Steps(c.QueryBool("image", false)),
	})
}

// CreateWizard mounts a new wizard, optionally seeded with answers laid over
// the defaults
func (h *Handler) CreateWizard(c *fiber.Ctx) error {
	var req struct {
		ImageStep bool            `json:"image_step"`
		Answers   json.RawMessage `json:"answers"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
	}

	var seed *domain.SurveyAnswers
	if len(req.Answers) > 0 && string(req.Answers) != "null" {
		answers := domain.DefaultAnswers()
		if err := json.Unmarshal(req.Answers, &answers); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid answers field")
		}
		answers = answers.Normalize()
		if err := answers.Validate(); err != nil {
			return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
		}
		seed = &answers
	}

	view := h.wizardSvc.Create(req.ImageStep, seed)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    view,
	})
}

// GetWizard returns the current wizard view
func (h *Handler) GetWizard(c *fiber.Ctx) error {
	view, err := h.wizardSvc.Get(c.Params("id"))
	return h.respondView(c, view, err)
}

// UpdateField sets one answer from {"value": ...}
func (h *Handler) UpdateField(c *fiber.Ctx) error {
	value, err := bodyValue(c)
	if err != nil {
		return err
	}

	view, err := h.wizardSvc.UpdateField(c.Params("id"), wizard.Field(c.Params("field")), value)
	return h.respondView(c, view, err)
}

// ToggleSetMember flips one value of a multi-choice field
func (h *Handler) ToggleSetMember(c *fiber.Ctx) error {
	value, err := bodyValue(c)
	if err != nil {
		return err
	}

	view, err := h.wizardSvc.ToggleSetMember(c.Params("id"), wizard.Field(c.Params("field")), value)
	return h.respondView(c, view, err)
}

// AttachImage stores the multipart "image" upload on the wizard
func (h *Handler) AttachImage(c *fiber.Ctx) error {
	img, err := formImage(c)
	if err != nil {
		return err
	}
	if img == nil {
		return fiber.NewError(fiber.StatusBadRequest, "Missing image upload")
	}

	view, err := h.wizardSvc.AttachImage(c.Params("id"), *img)
	return h.respondView(c, view, err)
}

// DetachImage removes the wizard's image
func (h *Handler) DetachImage(c *fiber.Ctx) error {
	view, err := h.wizardSvc.DetachImage(c.Params("id"))
	return h.respondView(c, view, err)
}

// Advance moves forward; on the last step it submits and returns the scorecard
func (h *Handler) Advance(c *fiber.Ctx) error {
	view, err := h.wizardSvc.Advance(c.UserContext(), c.Params("id"))
	return h.respondView(c, view, err)
}

// Retreat moves back one step
func (h *Handler) Retreat(c *fiber.Ctx) error {
	view, err := h.wizardSvc.Retreat(c.Params("id"))
	return h.respondView(c, view, err)
}

// ResetWizard discards a wizard so the client can start over
func (h *Handler) ResetWizard(c *fiber.Ctx) error {
	if err := h.wizardSvc.Reset(c.Params("id")); err != nil {
		return wizardError(err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// Predict scores one submission without a wizard.
// Accepts JSON answers, or multipart with an "answers" JSON field and an optional "image".
func (h *Handler) Predict(c *fiber.Ctx) error {
	answers := domain.DefaultAnswers()
	var img *domain.Image

	if strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm) {
		if raw := c.FormValue("answers"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &answers); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Invalid answers field")
			}
		}
		var err error
		if img, err = formImage(c); err != nil {
			return err
		}
	} else if len(c.Body()) > 0 {
		if err := c.BodyParser(&answers); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
	}

	answers = answers.Normalize()
	if err := answers.Validate(); err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}

	sc := h.dashboardSvc.Evaluate(c.UserContext(), answers, img)
	sc.Viewer = h.viewer(c)

	return c.JSON(fiber.Map{
		"success": true,
		"data":    sc,
	})
}

// SignIn opens a session from an identity provider access token
func (h *Handler) SignIn(c *fiber.Ctx) error {
	var req struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	session, err := h.sessionSvc.SignIn(c.UserContext(), req.AccessToken)
	switch {
	case errors.Is(err, service.ErrMissingToken):
		return fiber.NewError(fiber.StatusBadRequest, "Missing access token")
	case errors.Is(err, service.ErrIdentityFailed):
		return fiber.NewError(fiber.StatusUnauthorized, "Sign-in rejected by identity provider")
	case err != nil:
		return fiber.NewError(fiber.StatusBadGateway, "Failed to sign in")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    session,
	})
}

// GetSession returns a live session
func (h *Handler) GetSession(c *fiber.Ctx) error {
	session, err := h.sessionSvc.Get(c.UserContext(), c.Params("id"))
	if errors.Is(err, domain.ErrSessionNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Session not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load session")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    session,
	})
}

// SignOut ends a session
func (h *Handler) SignOut(c *fiber.Ctx) error {
	if err := h.sessionSvc.SignOut(c.UserContext(), c.Params("id")); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to sign out")
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *Handler) respondView(c *fiber.Ctx, view service.WizardView, err error) error {
	if err != nil {
		return wizardError(err)
	}

	// the stored scorecard is shared; attach the viewer to a copy
	if view.Scorecard != nil {
		sc := *view.Scorecard
		sc.Viewer = h.viewer(c)
		view.Scorecard = &sc
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    view,
	})
}

func (h *Handler) viewer(c *fiber.Ctx) *domain.Viewer {
	return h.sessionSvc.Viewer(c.UserContext(), c.Get(SessionHeader))
}

func wizardError(err error) error {
	switch {
	case errors.Is(err, service.ErrWizardNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Wizard not found")
	case errors.Is(err, wizard.ErrUnknownField):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, wizard.ErrInvalidValue):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, wizard.ErrWrongKind):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, wizard.ErrSubmitted), errors.Is(err, wizard.ErrNoImageStep):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	default:
		return err
	}
}

// bodyValue reads {"value": ...}; numbers are accepted as JSON numbers or strings
func bodyValue(c *fiber.Ctx) (string, error) {
	var req struct {
		Value json.RawMessage `json:"value"`
	}
	if err := c.BodyParser(&req); err != nil || len(req.Value) == 0 {
		return "", fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	var s string
	if err := json.Unmarshal(req.Value, &s); err == nil {
		return s, nil
	}
	var f float64
	if err := json.Unmarshal(req.Value, &f); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64), nil
	}
	return "", fiber.NewError(fiber.StatusBadRequest, "Value must be a string or number")
}

// formImage reads the optional multipart "image" file
func formImage(c *fiber.Ctx) (*domain.Image, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		// no upload
		return nil, nil
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Unreadable image upload")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Unreadable image upload")
	}

	return &domain.Image{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
