package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultAccessTokenTTL is used when no token lifetime is configured.
const DefaultAccessTokenTTL = 24 * time.Hour

// Audience is stamped on every OctoOps access token and required on parse.
const Audience = "octoops-api"

var (
	// ErrMissingSecret is returned by NewJWTService without a signing secret.
	ErrMissingSecret = errors.New("jwt: secret must be provided")
	// ErrInvalidToken wraps every validation failure. The underlying jwt
	// error stays reachable through errors.Is.
	ErrInvalidToken = errors.New("jwt: invalid token")
)

// JWTConfig bundles the configuration required to build a JWTService.
type JWTConfig struct {
	Secret         string
	Issuer         string
	AccessTokenTTL time.Duration
	// Leeway tolerates clock skew between API replicas.
	Leeway time.Duration
	Clock  func() time.Time
}

// Claims identifies an OctoOps user. Role is the project role at issue time.
type Claims struct {
	UserID string `json:"uid"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// AccessTokenInput holds the user fields embedded in a new token.
type AccessTokenInput struct {
	UserID string
	Email  string
	Role   string
}

// AccessToken is a signed token together with its lifetime.
type AccessToken struct {
	Token     string
	ID        string
	ExpiresAt time.Time
	ExpiresIn time.Duration
}

// JWTService issues and validates HS256 access tokens.
type JWTService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	parser *jwt.Parser
	now    func() time.Time
}

// NewJWTService validates cfg and builds the service.
func NewJWTService(cfg JWTConfig) (*JWTService, error) {
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, ErrMissingSecret
	}

	ttl := cfg.AccessTokenTTL
	if ttl <= 0 {
		ttl = DefaultAccessTokenTTL
	}

	now := time.Now
	if cfg.Clock != nil {
		now = cfg.Clock
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(now),
		jwt.WithAudience(Audience),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Leeway > 0 {
		parserOpts = append(parserOpts, jwt.WithLeeway(cfg.Leeway))
	}

	return &JWTService{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		ttl:    ttl,
		parser: jwt.NewParser(parserOpts...),
		now:    now,
	}, nil
}

// GenerateAccessToken issues a signed JWT for the given user.
func (s *JWTService) GenerateAccessToken(input AccessTokenInput) (*AccessToken, error) {
	if strings.TrimSpace(input.UserID) == "" {
		return nil, errors.New("jwt: user id is required")
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)
	id := uuid.NewString()

	claims := &Claims{
		UserID: input.UserID,
		Email:  input.Email,
		Role:   input.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			Subject:   input.UserID,
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{Audience},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("jwt: sign token: %w", err)
	}

	return &AccessToken{Token: signed, ID: id, ExpiresAt: expiresAt, ExpiresIn: s.ttl}, nil
}

// ValidateAccessToken parses a bearer token and returns its claims. All
// failures wrap ErrInvalidToken.
func (s *JWTService) ValidateAccessToken(tokenString string) (*Claims, error) {
	if strings.TrimSpace(tokenString) == "" {
		return nil, fmt.Errorf("%w: empty token", ErrInvalidToken)
	}

	var claims Claims
	_, err := s.parser.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.UserID == "" || claims.UserID != claims.Subject {
		return nil, fmt.Errorf("%w: subject does not match user id", ErrInvalidToken)
	}

	return &claims, nil
}
