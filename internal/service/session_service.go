package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ecoguard/backend/internal/domain"
)

// DefaultUserinfoURL is Google's OpenID userinfo endpoint
const DefaultUserinfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// Sign-in errors
var (
	ErrMissingToken   = errors.New("identity: missing access token")
	ErrIdentityFailed = errors.New("identity: profile request rejected")
)

// IdentityClient fetches the signed-in user's profile from the identity provider
type IdentityClient struct {
	userinfoURL string
	httpClient  *http.Client
}

// NewIdentityClient creates a new identity client
func NewIdentityClient(userinfoURL string) *IdentityClient {
	if userinfoURL == "" {
		userinfoURL = DefaultUserinfoURL
	}
	return &IdentityClient{
		userinfoURL: userinfoURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// FetchProfile exchanges an access token for the user's profile
func (c *IdentityClient) FetchProfile(ctx context.Context, accessToken string) (domain.Profile, error) {
	if strings.TrimSpace(accessToken) == "" {
		return domain.Profile{}, ErrMissingToken
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userinfoURL, nil)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("identity: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("identity: profile request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.Profile{}, fmt.Errorf("%w: status %d: %s", ErrIdentityFailed, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var profile domain.Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return domain.Profile{}, fmt.Errorf("identity: failed to decode profile: %w", err)
	}
	return profile, nil
}

// SessionService owns the signed-in record: it is loaded by id, replaced on
// sign-in and removed on sign-out. Everything else only reads it.
type SessionService struct {
	store    SessionStore
	identity *IdentityClient
	ttl      time.Duration
	now      func() time.Time
	logger   zerolog.Logger
}

// NewSessionService creates a new session service
func NewSessionService(store SessionStore, identity *IdentityClient, ttl time.Duration, logger zerolog.Logger) *SessionService {
	return &SessionService{
		store:    store,
		identity: identity,
		ttl:      ttl,
		now:      time.Now,
		logger:   logger.With().Str("component", "sessions").Logger(),
	}
}

// SignIn resolves the token with the identity provider and opens a session
func (s *SessionService) SignIn(ctx context.Context, accessToken string) (domain.Session, error) {
	profile, err := s.identity.FetchProfile(ctx, accessToken)
	if err != nil {
		return domain.Session{}, err
	}
	return s.SignInProfile(ctx, profile)
}

// SignInProfile opens a session for an already verified profile
func (s *SessionService) SignInProfile(ctx context.Context, profile domain.Profile) (domain.Session, error) {
	session := domain.Session{
		ID:            uuid.NewString(),
		Name:          profile.Name,
		Email:         profile.Email,
		Picture:       profile.Picture,
		Authenticated: true,
		ExpiresAt:     s.now().Add(s.ttl).UTC(),
	}

	if err := s.store.Save(ctx, session, s.ttl); err != nil {
		return domain.Session{}, fmt.Errorf("sessions: failed to save session: %w", err)
	}

	s.logger.Info().Str("session_id", session.ID).Str("email", session.Email).Msg("signed in")
	return session, nil
}

// Get loads a session
func (s *SessionService) Get(ctx context.Context, id string) (domain.Session, error) {
	return s.store.Get(ctx, id)
}

// SignOut ends a session
func (s *SessionService) SignOut(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("sessions: failed to delete session: %w", err)
	}
	s.logger.Info().Str("session_id", id).Msg("signed out")
	return nil
}

// Viewer returns the signed-in affordance for a session id, or nil
func (s *SessionService) Viewer(ctx context.Context, id string) *domain.Viewer {
	if id == "" {
		return nil
	}

	session, err := s.store.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrSessionNotFound) {
			s.logger.Warn().Err(err).Str("session_id", id).Msg("session lookup failed")
		}
		return nil
	}
	return session.Viewer()
}

// Health checks the session store
func (s *SessionService) Health(ctx context.Context) error {
	return s.store.Health(ctx)
}
