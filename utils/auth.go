package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/gheetdufa/ifad-portal-sub001/models"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the portal identity inside a signed token: the user id and
// the resolved role.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

// GenerateToken signs an HS256 token for the given user. Token issuance
// normally happens in the identity collaborator; this is used by tests and
// local tooling.
func GenerateToken(userID, role string, secretKey []byte, validity time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validity)),
		},
		UserID: userID,
		Role:   role,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ResolveCaller verifies the Authorization header and returns the caller
// identity. All failures surface as ErrUnauthenticated.
func ResolveCaller(authHeader string, secretKey []byte) (models.Caller, error) {
	if authHeader == "" {
		return models.Caller{}, fmt.Errorf("missing authorization header: %w", models.ErrUnauthenticated)
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return models.Caller{}, fmt.Errorf("invalid authorization header format: %w", models.ErrUnauthenticated)
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secretKey, nil
	})
	if err != nil || !token.Valid {
		return models.Caller{}, fmt.Errorf("invalid token: %w", models.ErrUnauthenticated)
	}

	if claims.UserID == "" || !models.ValidRole(claims.Role) {
		return models.Caller{}, fmt.Errorf("token missing identity claims: %w", models.ErrUnauthenticated)
	}

	return models.Caller{UserID: claims.UserID, Role: claims.Role}, nil
}
