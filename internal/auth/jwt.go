package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Claims struct {
	StaffID      string    `json:"staff_id"`
	RestaurantID string    `json:"restaurant_id"`
	Role         string    `json:"role"`
	SessionID    uuid.UUID `json:"session_id"`
	jwt.RegisteredClaims
}

func GenerateToken(secret, staffID, restaurantID, role string, sessionID uuid.UUID) (string, error) {
	claims := Claims{
		StaffID:      staffID,
		RestaurantID: restaurantID,
		Role:         role,
		SessionID:    sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(15 * time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func GenerateRefreshToken(secret, staffID string, sessionID uuid.UUID) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   staffID,
		ID:        sessionID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(7 * 24 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ValidateToken(secret, tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// ValidateRefreshToken parses a refresh token and returns the staff ID and
// session ID it was issued for.
func ValidateRefreshToken(secret, tokenStr string) (string, uuid.UUID, error) {
	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", uuid.Nil, err
	}
	if !token.Valid || claims.Subject == "" {
		return "", uuid.Nil, fmt.Errorf("invalid refresh token")
	}
	sessionID, err := uuid.Parse(claims.ID)
	if err != nil {
		return "", uuid.Nil, fmt.Errorf("invalid refresh token")
	}
	return claims.Subject, sessionID, nil
}
