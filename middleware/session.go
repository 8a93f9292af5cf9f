package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

const (
	SessionCookieName = "session"
	defaultSessionTTL = 24 * time.Hour
)

type sessionClaims struct {
	IsAdmin bool `json:"is_admin"`
	jwt.RegisteredClaims
}

// SessionManager stores the admin flag in an HS256-signed cookie.
type SessionManager struct {
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

// NewSessionManager builds a manager. secure marks the cookie HTTPS-only.
func NewSessionManager(secret string, secure bool) *SessionManager {
	return &SessionManager{
		secret: []byte(secret),
		ttl:    defaultSessionTTL,
		secure: secure,
		now:    time.Now,
	}
}

// Issue sets a session cookie granting admin rights.
func (m *SessionManager) Issue(c *gin.Context) error {
	now := m.now()
	claims := sessionClaims{
		IsAdmin: true,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return fmt.Errorf("failed to sign session: %w", err)
	}
	m.setCookie(c, token, 0)
	return nil
}

// Clear drops the session cookie.
func (m *SessionManager) Clear(c *gin.Context) {
	m.setCookie(c, "", -1)
}

// IsAdmin reports whether the request carries a valid admin session.
func (m *SessionManager) IsAdmin(c *gin.Context) bool {
	raw, err := c.Cookie(SessionCookieName)
	if err != nil || raw == "" {
		return false
	}
	claims, err := m.parse(raw)
	return err == nil && claims.IsAdmin
}

func (m *SessionManager) parse(raw string) (*sessionClaims, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid session")
	}
	return claims, nil
}

func (m *SessionManager) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, value, maxAge, "/", "", m.secure, true)
}

// RequireAdmin rejects requests without an admin session.
func RequireAdmin(sessions *SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !sessions.IsAdmin(c) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}
