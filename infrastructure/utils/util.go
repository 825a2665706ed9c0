package utils

import (
	"time"

	"github.com/golang-jwt/jwt"
	"social-hub/domain/model"
)

const tokenIssuer = "social-hub"

// SignUserToken issues an HS256 session token for an API user. A negative
// ttl produces an already-expired token.
func SignUserToken(userName, secretKey string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := model.UserClaims{
		UserName: userName,
		StandardClaims: jwt.StandardClaims{
			Issuer:    tokenIssuer,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secretKey))
}
