package api

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	bearerPrefix    = "Bearer "
	contextKeyActor = "actor_id"
)

var (
	ErrEmptySecret  = errors.New("jwt secret must not be empty")
	ErrInvalidToken = errors.New("invalid token")
	ErrUnauthorized = errors.New("unauthorized")
)

// Claims is the token payload. Sub is the member id of the bearer.
type Claims struct {
	Sub string `json:"sub"`
	jwt.RegisteredClaims
}

// Authenticator issues and verifies HS256 tokens.
type Authenticator struct {
	secret []byte
	clock  func() time.Time
}

// NewAuthenticator creates an Authenticator for the shared secret.
func NewAuthenticator(secret string) (*Authenticator, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}

	return &Authenticator{secret: []byte(secret), clock: time.Now}, nil
}

// IssueToken signs a token for the member that expires after ttl.
func (a *Authenticator) IssueToken(memberID uuid.UUID, ttl time.Duration) (string, error) {
	now := a.clock()

	claims := Claims{
		Sub: memberID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// Verify parses the token and returns the member id it was issued for.
func (a *Authenticator) Verify(token string) (uuid.UUID, error) {
	parsed, err := jwt.ParseWithClaims(
		token,
		&Claims{},
		func(*jwt.Token) (any, error) { return a.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(a.clock),
	)
	if err != nil {
		return uuid.Nil, errors.Join(ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	memberID, err := uuid.Parse(claims.Sub)
	if err != nil {
		return uuid.Nil, errors.Join(ErrInvalidToken, err)
	}

	return memberID, nil
}

// Middleware rejects requests without a valid bearer token and stores the actor id on the context.
func (a *Authenticator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			abortWithError(c, ErrUnauthorized)
			return
		}

		actorID, err := a.Verify(strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			abortWithError(c, ErrUnauthorized)
			return
		}

		c.Set(contextKeyActor, actorID)
		c.Next()
	}
}

// ActorID returns the member id set by the middleware.
func ActorID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(contextKeyActor)
	if !exists {
		return uuid.Nil, false
	}

	actorID, ok := value.(uuid.UUID)

	return actorID, ok
}
