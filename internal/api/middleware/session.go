package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/sirpyerre/members-only/internal/core/domain"
)

// CookieName is the name of the session cookie.
const CookieName = "members_session"

const identityKey = "identity"

// IdentityResolver maps an opaque session token to the caller identity.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (*domain.Identity, error)
}

type sessionClaims struct {
	SID string `json:"sid"`
	jwt.RegisteredClaims
}

// CookieCodec signs session tokens into cookie values and verifies them on
// the way back. Values are HS256 JWTs carrying the token in "sid".
type CookieCodec struct {
	secret []byte
	now    func() time.Time
}

func NewCookieCodec(secret string) *CookieCodec {
	return &CookieCodec{secret: []byte(secret), now: time.Now}
}

// Encode returns the signed cookie value for token, valid until expiresAt.
func (cc *CookieCodec) Encode(token string, expiresAt time.Time) (string, error) {
	claims := sessionClaims{
		SID: token,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(cc.secret)
	if err != nil {
		return "", fmt.Errorf("sign session cookie: %w", err)
	}
	return signed, nil
}

// Decode verifies the signature and expiry of a cookie value and returns the
// session token it carries.
func (cc *CookieCodec) Decode(value string) (string, error) {
	claims := &sessionClaims{}
	tkn, err := jwt.ParseWithClaims(value, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return cc.secret, nil
	}, jwt.WithExpirationRequired(), jwt.WithTimeFunc(cc.now))
	if err != nil || !tkn.Valid {
		return "", errors.New("invalid session cookie")
	}
	if claims.SID == "" {
		return "", errors.New("session cookie without token")
	}
	return claims.SID, nil
}

// SessionCookies writes, reads and clears the session cookie.
type SessionCookies struct {
	codec  *CookieCodec
	secure bool
}

func NewSessionCookies(codec *CookieCodec, secure bool) *SessionCookies {
	return &SessionCookies{codec: codec, secure: secure}
}

// Set issues the cookie for session. MaxAge tracks the session expiry.
func (sc *SessionCookies) Set(c echo.Context, session *domain.Session) error {
	value, err := sc.codec.Encode(session.Token, session.ExpiresAt)
	if err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		Expires:  session.ExpiresAt,
		MaxAge:   int(session.ExpiresAt.Sub(sc.codec.now()).Seconds()),
		HttpOnly: true,
		Secure:   sc.secure,
		SameSite: http.SameSiteStrictMode,
	})
	return nil
}

// Clear expires the cookie in the browser.
func (sc *SessionCookies) Clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   sc.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// Token returns the session token carried by the request cookie, or "" when
// the cookie is absent or fails verification.
func (sc *SessionCookies) Token(c echo.Context) string {
	cookie, err := c.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	token, err := sc.codec.Decode(cookie.Value)
	if err != nil {
		return ""
	}
	return token
}

// SessionConfig configures the Session middleware.
type SessionConfig struct {
	Resolver IdentityResolver
	Cookies  *SessionCookies
	// Skipper selects requests that proceed as anonymous without a store
	// lookup. Defaults to echomiddleware.DefaultSkipper.
	Skipper echomiddleware.Skipper
}

// Session resolves the caller identity from the session cookie and stores it
// in the request context. Requests without a valid session proceed as
// anonymous; store failures abort the request.
func Session(resolver IdentityResolver, cookies *SessionCookies) echo.MiddlewareFunc {
	return SessionWithConfig(SessionConfig{Resolver: resolver, Cookies: cookies})
}

// SessionWithConfig returns a Session middleware with config.
func SessionWithConfig(config SessionConfig) echo.MiddlewareFunc {
	if config.Skipper == nil {
		config.Skipper = echomiddleware.DefaultSkipper
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity := domain.Anonymous()
			if config.Skipper(c) {
				SetIdentity(c, identity)
				return next(c)
			}
			if token := config.Cookies.Token(c); token != "" {
				id, err := config.Resolver.Resolve(c.Request().Context(), token)
				if err != nil {
					return err
				}
				identity = id
			}
			SetIdentity(c, identity)
			return next(c)
		}
	}
}

// SetIdentity stores identity on the echo context.
func SetIdentity(c echo.Context, identity *domain.Identity) {
	c.Set(identityKey, identity)
}

// CurrentIdentity returns the identity resolved by Session, or an anonymous
// identity when none was set.
func CurrentIdentity(c echo.Context) *domain.Identity {
	if id, ok := c.Get(identityKey).(*domain.Identity); ok && id != nil {
		return id
	}
	return domain.Anonymous()
}
