package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/annual-plan/internal/domain"
)

// --- Error Definitions ---
var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("invalid token")
)

// TokenService issues and verifies the bearer tokens that identify an actor.
// Accounts and logins live elsewhere; the engine only needs to know who is
// calling and in which role.
type TokenService interface {
	IssueToken(actor domain.Actor) (string, error)
	ParseToken(token string) (domain.Actor, error)
}

// tokenService implements the TokenService interface.
type tokenService struct {
	jwtSecret     string
	jwtExpiration time.Duration
	now           Clock
}

// NewTokenService creates a new instance of tokenService.
func NewTokenService(jwtSecret string, jwtExpiration time.Duration, now Clock) TokenService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty") // Critical configuration
	}
	if jwtExpiration <= 0 {
		jwtExpiration = time.Hour
	}
	return &tokenService{jwtSecret: jwtSecret, jwtExpiration: jwtExpiration, now: now}
}

// jwtClaims defines the structure of the JWT payload.
type jwtClaims struct {
	UserID string      `json:"uid"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

func (s *tokenService) IssueToken(actor domain.Actor) (string, error) {
	if actor.Role != domain.RolePlayer && actor.Role != domain.RoleCoach {
		return "", domain.NewValidationError("role", "unknown role %q", actor.Role)
	}
	now := s.now()
	claims := &jwtClaims{
		UserID: actor.ID.Hex(),
		Role:   actor.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID.Hex(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "annual-plan",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

func (s *tokenService) ParseToken(tokenString string) (domain.Actor, error) {
	claims := &jwtClaims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Actor{}, ErrTokenExpired
		}
		return domain.Actor{}, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !token.Valid || claims.UserID == "" {
		return domain.Actor{}, ErrTokenInvalid
	}
	if claims.Role != domain.RolePlayer && claims.Role != domain.RoleCoach {
		return domain.Actor{}, fmt.Errorf("%w: unknown role %q", ErrTokenInvalid, claims.Role)
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return domain.Actor{}, fmt.Errorf("%w: bad user id", ErrTokenInvalid)
	}
	return domain.Actor{ID: id, Role: claims.Role}, nil
}
