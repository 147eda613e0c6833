// Package auth issues and checks the tokens of the Greed backend: HS256
// session tokens handed to clients, and the identity tokens clients present
// from Apple or Google.
package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/dmitrijs2005/greed/internal/common"
	"github.com/dmitrijs2005/greed/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
)

// SessionIssuer is the iss claim of session tokens.
const SessionIssuer = "greed"

// GenerateToken signs a session token for user. The user fields travel in the
// claims so a client receiving only the token can rebuild its user record.
func GenerateToken(user *models.User, secretKey []byte, validityDuration time.Duration) (string, error) {
	jti, err := common.MakeRandHexString(16)
	if err != nil {
		return "", err
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, common.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    SessionIssuer,
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
			ID:        jti,
		},
		UserID:     user.ID,
		Email:      user.Email,
		Name:       user.Name,
		FirstLogin: user.FirstLogin,
	})

	return token.SignedString(secretKey)
}

// ParseToken validates a session token and returns its claims. Expired
// tokens yield common.ErrTokenExpired, anything else wrong yields
// common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*common.SessionClaims, error) {
	claims := &common.SessionClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(SessionIssuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.UserID == 0 {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

// GetUserIDFromToken is ParseToken projected onto the user id.
func GetUserIDFromToken(tokenString string, secretKey []byte) (int64, error) {
	claims, err := ParseToken(tokenString, secretKey)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}
