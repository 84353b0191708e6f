package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const sessionTTL = 24 * time.Hour

// SessionManager issues and checks viewer session tokens handed out
// after email verification.
type SessionManager struct {
	secret []byte
}

func NewSessionManager(secret string) *SessionManager {
	return &SessionManager{secret: []byte(secret)}
}

func (m *SessionManager) Generate(email string) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  email,
		"exp":  time.Now().Add(sessionTTL).Unix(),
		"type": "viewer",
	})
	return t.SignedString(m.secret)
}

// Validate returns the email carried by a session token.
func (m *SessionManager) Validate(tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil {
		return "", err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		email, _ := claims["sub"].(string)
		if email == "" {
			return "", errors.New("invalid token")
		}
		return email, nil
	}
	return "", errors.New("invalid token")
}
