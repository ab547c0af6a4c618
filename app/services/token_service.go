package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/amirphl/desa-ngasem/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token service error constants
var (
	ErrTokenInvalid = errors.New("invalid token")
)

// SessionTokenService signs and verifies the session handle stored in the admin cookie.
// The handle only names a session; whether that session is logged in is decided elsewhere.
type SessionTokenService interface {
	Issue(sessionID string) (string, error)
	Parse(token string) (*SessionClaims, error)
}

// SessionClaims represents the claims in a session handle
type SessionClaims struct {
	SessionID string    `json:"sid"`
	TokenID   string    `json:"jti"`
	IssuedAt  time.Time `json:"iat"`
}

// SessionTokenServiceImpl implements SessionTokenService with HS256
type SessionTokenServiceImpl struct {
	secretKey []byte
	issuer    string
}

// NewSessionTokenService creates a new session token service
func NewSessionTokenService(secretKey, issuer string) (SessionTokenService, error) {
	if secretKey == "" {
		return nil, fmt.Errorf("secret key is required")
	}
	return &SessionTokenServiceImpl{
		secretKey: []byte(secretKey),
		issuer:    issuer,
	}, nil
}

func (s *SessionTokenServiceImpl) Issue(sessionID string) (string, error) {
	if sessionID == "" {
		return "", fmt.Errorf("session id is required")
	}

	claims := jwt.MapClaims{
		"sid": sessionID,
		"jti": uuid.NewString(),
		"iat": utils.UTCNow().Unix(),
		"iss": s.issuer,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

func (s *SessionTokenServiceImpl) Parse(token string) (*SessionClaims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	}, opts...)
	if err != nil || !parsedToken.Valid {
		return nil, ErrTokenInvalid
	}

	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrTokenInvalid
	}
	sessionID, ok := claims["sid"].(string)
	if !ok || sessionID == "" {
		return nil, ErrTokenInvalid
	}
	tokenID, _ := claims["jti"].(string)
	issuedAt, ok := claims["iat"].(float64)
	if !ok {
		return nil, ErrTokenInvalid
	}

	return &SessionClaims{
		SessionID: sessionID,
		TokenID:   tokenID,
		IssuedAt:  time.Unix(int64(issuedAt), 0).UTC(),
	}, nil
}
