package utils

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/unihub/unihub/backend/internal/config"
)

const (
	tokenIssuer   = "unihub"
	tokenAudience = "unihub"
)

// Token errors. Expired is distinct from invalid so clients can attempt a
// refresh instead of re-authenticating.
var (
	ErrInvalidToken    = errors.New("invalid token")
	ErrTokenExpired    = errors.New("token expired")
	ErrMalformedHeader = errors.New("malformed authorization header")
)

var tokenCfg *config.JWTConfig

// SetTokenConfig installs the signing secrets and default lifetimes. Called
// once at startup; the config is never mutated afterwards.
func SetTokenConfig(cfg *config.JWTConfig) {
	tokenCfg = cfg
}

// Claims carried by both token classes. Name is only set on access tokens.
type Claims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Name   string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// TokenPair bundles a freshly issued access + refresh token.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"` // access token lifetime in seconds
}

func signToken(secret string, userID uint, email, role, name string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		Name:   name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Audience:  jwt.ClaimStrings{tokenAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// GenerateAccessToken issues a short-lived access token.
func GenerateAccessToken(userID uint, email, role, name string, ttl time.Duration) (string, error) {
	return signToken(tokenCfg.Secret, userID, email, role, name, ttl)
}

// GenerateRefreshToken issues a longer-lived refresh token signed with the
// refresh secret. Refresh tokens do not carry the display name.
func GenerateRefreshToken(userID uint, email, role string, ttl time.Duration) (string, error) {
	return signToken(tokenCfg.RefreshSecret, userID, email, role, "", ttl)
}

// GenerateTokenPair issues both tokens with the given lifetimes.
func GenerateTokenPair(userID uint, email, role, name string, accessTTL, refreshTTL time.Duration) (*TokenPair, error) {
	access, err := GenerateAccessToken(userID, email, role, name, accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := GenerateRefreshToken(userID, email, role, refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(accessTTL.Seconds()),
	}, nil
}

func parseToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{},
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalidToken
			}
			return []byte(secret), nil
		},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ParseAccessToken validates an access token and returns its claims.
func ParseAccessToken(tokenString string) (*Claims, error) {
	return parseToken(tokenString, tokenCfg.Secret)
}

// ParseRefreshToken validates a refresh token and returns its claims.
func ParseRefreshToken(tokenString string) (*Claims, error) {
	return parseToken(tokenString, tokenCfg.RefreshSecret)
}

// ExtractBearerToken parses an "Authorization: Bearer <token>" header value.
// The header must be exactly two space-separated parts with the literal
// Bearer scheme.
func ExtractBearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrMalformedHeader
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", ErrMalformedHeader
	}
	return parts[1], nil
}
