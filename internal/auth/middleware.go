package auth

import (
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/worldhost-group/support-dashboard/internal/domain"
	"github.com/worldhost-group/support-dashboard/internal/repository"
	apperrors "github.com/worldhost-group/support-dashboard/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	User *domain.User
}

// SessionMiddleware resolves the session cookie and loads the current user.
type SessionMiddleware struct {
	sessions   *SessionStore
	users      repository.UserRepository
	cookieName string
}

// NewSessionMiddleware constructs middleware.
func NewSessionMiddleware(sessions *SessionStore, users repository.UserRepository, cookieName string) *SessionMiddleware {
	return &SessionMiddleware{sessions: sessions, users: users, cookieName: cookieName}
}

// Handle enforces an authenticated dashboard session.
func (m *SessionMiddleware) Handle(c *fiber.Ctx) error {
	token := c.Cookies(m.cookieName)
	if token == "" {
		return apperrors.NewUnauthorized("missing session")
	}

	userID, err := m.sessions.Resolve(c.UserContext(), token)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return apperrors.NewUnauthorized("invalid session")
		}
		return apperrors.MapError(err)
	}

	user, err := m.users.GetByID(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewUnauthorized("user not found")
		}
		return apperrors.MapError(err)
	}

	c.Locals(principalKey, &Principal{User: user})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

// AttachSessionCookie sets the httpOnly session cookie on the response.
func AttachSessionCookie(c *fiber.Ctx, name, token string, expiresAt time.Time, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    token,
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
		Expires:  expiresAt,
	})
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(c *fiber.Ctx, name string, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
		Expires:  time.Unix(0, 0),
	})
}

// IngestMiddleware authenticates the extension's ingestion requests: either
// the static dashboard token or a JWT issued by /api/extension/login.
type IngestMiddleware struct {
	staticToken string
	tokens      *TokenManager
}

// NewIngestMiddleware constructs middleware.
func NewIngestMiddleware(staticToken string, tokens *TokenManager) *IngestMiddleware {
	return &IngestMiddleware{staticToken: staticToken, tokens: tokens}
}

// Handle enforces ingestion authentication.
func (m *IngestMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}
	token := parts[1]

	if m.staticToken != "" &&
		subtle.ConstantTimeCompare([]byte(token), []byte(m.staticToken)) == 1 {
		return c.Next()
	}
	if m.tokens != nil {
		if _, err := m.tokens.ParseToken(token); err == nil {
			return c.Next()
		}
	}
	return apperrors.NewUnauthorized("invalid token")
}
