package token

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/favorite_api/internal/models"
)

const identityKey = "identity"

// ErrStoreUnavailable reports that the client lookup behind verification
// failed for infrastructure reasons, not because the credential is bad.
var ErrStoreUnavailable = errors.New("client store unavailable")

// Identity is the authenticated client resolved from a verified token.
type Identity struct {
	ID    uint
	Email string
}

// Service signs and verifies bearer tokens. The subject claim carries the
// client email; verification resolves it against the clients table so that
// tokens for deleted clients stop working immediately.
type Service struct {
	DB        *gorm.DB
	Secret    []byte
	Algorithm string
	Expiry    time.Duration
}

func (s *Service) method() (jwt.SigningMethod, error) {
	m := jwt.GetSigningMethod(s.Algorithm)
	if m == nil {
		return nil, fmt.Errorf("unknown signing algorithm %q", s.Algorithm)
	}
	if _, ok := m.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("signing algorithm %q is not an HMAC method", s.Algorithm)
	}
	return m, nil
}

func (s *Service) Encode(email string) (string, error) {
	m, err := s.method()
	if err != nil {
		return "", err
	}

	exp := time.Now().Add(s.Expiry)
	claims := jwt.MapClaims{
		"sub": email,
		"exp": exp.Unix(),
	}
	t := jwt.NewWithClaims(m, claims)
	return t.SignedString(s.Secret)
}

func (s *Service) Verify(rawToken string) (*Identity, error) {
	t, err := jwt.Parse(rawToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.Secret, nil
	})
	if err != nil || !t.Valid {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("cannot parse claims")
	}
	email, ok := claims["sub"].(string)
	if !ok || email == "" {
		return nil, errors.New("missing subject claim")
	}

	var client models.Client
	if err := s.DB.Where("email = ?", email).First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("unknown client")
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return &Identity{ID: client.ID, Email: client.Email}, nil
}

// Middleware enforces a Bearer token on the group it is attached to and
// stores the resolved Identity in the echo context.
func (s *Service) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		rawToken, found := strings.CutPrefix(header, "Bearer ")
		if !found || rawToken == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
		}

		ident, err := s.Verify(rawToken)
		if err != nil {
			if errors.Is(err, ErrStoreUnavailable) {
				return echo.NewHTTPError(http.StatusInternalServerError, "could not verify token")
			}
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}

		c.Set(identityKey, ident)
		return next(c)
	}
}

func CurrentIdentity(c echo.Context) (*Identity, bool) {
	ident, ok := c.Get(identityKey).(*Identity)
	return ident, ok
}
