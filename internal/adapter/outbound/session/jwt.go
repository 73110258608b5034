package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/mockupstudio/server/internal/port/outbound"
)

// ErrInvalidToken is returned for malformed, expired or forged tokens.
var ErrInvalidToken = errors.New("invalid token")

const claimAccountID = "user_id"

// Config holds session token configuration.
type Config struct {
	Secret string
	Expiry time.Duration
}

// jwtIssuer implements outbound.SessionTokenPort with HS256 tokens.
type jwtIssuer struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

// NewJWTIssuer creates a new session token issuer.
func NewJWTIssuer(cfg Config) outbound.SessionTokenPort {
	if cfg.Expiry <= 0 {
		cfg.Expiry = 30 * 24 * time.Hour
	}
	return &jwtIssuer{
		secret: []byte(cfg.Secret),
		expiry: cfg.Expiry,
		now:    time.Now,
	}
}

func (j *jwtIssuer) Issue(accountID uuid.UUID) (string, time.Time, error) {
	now := j.now()
	expiresAt := now.Add(j.expiry)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		claimAccountID: accountID.String(),
		"exp":          expiresAt.Unix(),
		"iat":          now.Unix(),
	})
	signed, err := token.SignedString(j.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

func (j *jwtIssuer) Verify(tokenString string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secret, nil
	}, jwt.WithTimeFunc(j.now))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	raw, _ := claims[claimAccountID].(string)
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: bad %s claim", ErrInvalidToken, claimAccountID)
	}
	return id, nil
}

func (j *jwtIssuer) Expiry() time.Duration {
	return j.expiry
}

// Compile-time check
var _ outbound.SessionTokenPort = (*jwtIssuer)(nil)
