package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	apperrors "card-service/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token failure causes, reachable through errors.Is on the AppError Verify returns.
var (
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenSignature = errors.New("token signature invalid")
	ErrTokenWrongType = errors.New("token type mismatch")
	ErrTokenMalformed = errors.New("token malformed")
)

type Claims struct {
	CardID int64     `json:"card_id,omitempty"`
	Type   TokenType `json:"type"`
	jwt.RegisteredClaims
}

// ExpiresAtTime returns the exp claim, or the zero time when absent.
func (c *Claims) ExpiresAtTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

type TokenServiceConfig struct {
	Secret    string
	Algorithm string
	TTL       time.Duration
	Type      TokenType
}

type TokenServiceOption func(*TokenService)

// WithClock replaces time.Now for issuing and validating tokens.
func WithClock(now func() time.Time) TokenServiceOption {
	return func(s *TokenService) {
		s.now = now
	}
}

// TokenService signs and verifies tokens of a single TokenType.
// Edit and admin tokens use separate instances with separate secrets.
type TokenService struct {
	secret    []byte
	method    jwt.SigningMethod
	ttl       time.Duration
	tokenType TokenType
	now       func() time.Time
}

// IssuedToken is the result of GetOrCreate.
type IssuedToken struct {
	Token  string
	Claims *Claims
	Reused bool
}

func NewTokenService(cfg TokenServiceConfig, opts ...TokenServiceOption) (*TokenService, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf(msgSecretRequired)
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf(msgTTLPositive)
	}
	if cfg.Type == "" {
		return nil, fmt.Errorf(msgTokenTypeRequired)
	}

	method, ok := jwt.GetSigningMethod(cfg.Algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf(msgUnsupportedAlgorithm, cfg.Algorithm)
	}

	s := &TokenService{
		secret:    []byte(cfg.Secret),
		method:    method,
		ttl:       cfg.TTL,
		tokenType: cfg.Type,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

func (s *TokenService) Type() TokenType {
	return s.tokenType
}

// Create signs a token for cardID with the configured TTL.
func (s *TokenService) Create(cardID int64) (string, error) {
	token, _, err := s.CreateWithTTL(cardID, s.ttl)
	return token, err
}

func (s *TokenService) CreateWithTTL(cardID int64, ttl time.Duration) (string, *Claims, error) {
	if ttl <= 0 {
		return "", nil, fmt.Errorf(msgTTLPositive)
	}

	now := s.now()
	subject := adminSubject
	if s.tokenType == TokenTypeEditAccess {
		subject = strconv.FormatInt(cardID, 10)
	}

	claims := &Claims{
		CardID: cardID,
		Type:   s.tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf(msgSignTokenFailed, err)
	}
	return signed, claims, nil
}

// Verify checks signature, expiry and type discriminator. Every failure is an
// InvalidCredential AppError wrapping one of the ErrToken* causes.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf(msgUnexpectedSigningMethod, token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, apperrors.InvalidCredential(msgTokenExpired, ErrTokenExpired)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, apperrors.InvalidCredential(msgInvalidToken, ErrTokenSignature)
		default:
			return nil, apperrors.InvalidCredential(msgInvalidToken, ErrTokenMalformed)
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperrors.InvalidCredential(msgInvalidToken, ErrTokenMalformed)
	}

	if claims.Type != s.tokenType {
		return nil, apperrors.InvalidCredential(msgInvalidToken, ErrTokenWrongType)
	}

	if s.tokenType == TokenTypeEditAccess && claims.CardID <= 0 {
		return nil, apperrors.InvalidCredential(msgInvalidToken, ErrTokenMalformed)
	}

	return claims, nil
}

// GetOrCreate reuses existing when it verifies and is bound to cardID,
// otherwise it mints a fresh token.
func (s *TokenService) GetOrCreate(existing string, cardID int64) (*IssuedToken, error) {
	if existing != "" {
		if claims, err := s.Verify(existing); err == nil && claims.CardID == cardID {
			return &IssuedToken{Token: existing, Claims: claims, Reused: true}, nil
		}
	}

	token, claims, err := s.CreateWithTTL(cardID, s.ttl)
	if err != nil {
		return nil, err
	}
	return &IssuedToken{Token: token, Claims: claims}, nil
}
