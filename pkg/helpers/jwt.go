package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTManager issues and validates the bearer tokens returned by the auth
// endpoints. Tokens are HS256-signed and validated for issuer, audience,
// lifetime and signature on every protected request.
type JWTManager struct {
	Secret   []byte
	Issuer   string
	Audience string
	Expiry   time.Duration
}

func NewJWTManager(secret, issuer, audience string, expiry time.Duration) *JWTManager {
	return &JWTManager{
		Secret:   []byte(secret),
		Issuer:   issuer,
		Audience: audience,
		Expiry:   expiry,
	}
}

// Claims embeds the registered claim set plus the identity fields the API
// exposes: user id, email, display name and role names.
type Claims struct {
	Email    string   `json:"email"`
	FullName string   `json:"name"`
	Roles    []string `json:"roles"`
	jwt.RegisteredClaims
}

// Generate signs a token for the given user identity. The jti claim is
// unique per token.
func (m *JWTManager) Generate(userID, email, fullName string, roles []string) (string, time.Time, error) {
	now := time.Now().UTC()
	exp := now.Add(m.Expiry)
	claims := &Claims{
		Email:    email,
		FullName: fullName,
		Roles:    roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    m.Issuer,
			Audience:  jwt.ClaimStrings{m.Audience},
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.Secret)
	return s, exp, err
}

// Parse validates signature, issuer, audience and lifetime, and returns
// the embedded claims.
func (m *JWTManager) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.Secret, nil
	},
		jwt.WithIssuer(m.Issuer),
		jwt.WithAudience(m.Audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
