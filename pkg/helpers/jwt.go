package helpers

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired          = errors.New("token expired")
	ErrTokenMalformed        = errors.New("token malformed")
	ErrTokenSignatureInvalid = errors.New("token signature invalid")
)

// DefaultAccessTTL is the lifetime of an issued access token.
const DefaultAccessTTL = 60 * time.Minute

// Claims is the decoded assertion carried by an access token.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim.
func (c *Claims) UserID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

// JWTManager issues and verifies HS256 access tokens. It keeps no session
// state, so a token stays valid until it expires.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

type JWTOption func(*JWTManager)

// WithClock replaces time.Now for issuing and verifying.
func WithClock(now func() time.Time) JWTOption {
	return func(m *JWTManager) { m.now = now }
}

func WithIssuer(issuer string) JWTOption {
	return func(m *JWTManager) { m.issuer = issuer }
}

func NewJWTManager(secret string, ttl time.Duration, opts ...JWTOption) *JWTManager {
	if ttl <= 0 {
		ttl = DefaultAccessTTL
	}
	m := &JWTManager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *JWTManager) TTL() time.Duration { return m.ttl }

// Issue signs a token for the given user and returns it with its expiry.
// exp has whole second precision and is rounded up, so a token never
// expires before issue time plus TTL.
func (m *JWTManager) Issue(userID int64, role string) (string, time.Time, error) {
	now := m.now()
	exp := jwt.NewNumericDate(ceilSecond(now.Add(m.ttl)))
	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: exp,
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return s, exp.Time, nil
}

// Verify checks signature and expiry. A token is expired once now >= exp.
func (m *JWTManager) Verify(tokenStr string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		// rejects signatures whose unused trailing bits are set
		jwt.WithStrictDecoding(),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	}, opts...)
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return nil, ErrTokenSignatureInvalid
	default:
		return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}
	if !tkn.Valid || claims.ExpiresAt == nil {
		return nil, ErrTokenMalformed
	}
	if _, err := claims.UserID(); err != nil {
		return nil, fmt.Errorf("%w: subject %q", ErrTokenMalformed, claims.Subject)
	}
	return claims, nil
}

func ceilSecond(t time.Time) time.Time {
	if r := t.Truncate(time.Second); !r.Equal(t) {
		return r.Add(time.Second)
	}
	return t
}
