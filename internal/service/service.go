package service

import (
	"github.com/ecoguard/backend/internal/domain"
)

// SessionStore is re-exported from domain for convenience
type SessionStore = domain.SessionStore
