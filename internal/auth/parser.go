package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/tmedina/wasteops-billing/internal/model"
)

var ErrInvalidToken = errors.New("invalid access token")

// Parser validates access tokens issued by the identity service and
// extracts the acting principal. The engine does not issue tokens and
// makes no authorization decisions of its own.
type Parser struct {
	secret []byte
}

func NewParser(secret string) *Parser {
	return &Parser{secret: []byte(secret)}
}

type claims struct {
	jwt.RegisteredClaims
	OrgID string `json:"org_id"`
	Role  string `json:"role"`
}

func (p *Parser) Parse(token string) (model.Principal, error) {
	parsed, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil {
		return model.Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return model.Principal{}, ErrInvalidToken
	}

	userID, err := uuid.Parse(c.Subject)
	if err != nil {
		return model.Principal{}, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	orgID, err := uuid.Parse(c.OrgID)
	if err != nil {
		return model.Principal{}, fmt.Errorf("%w: bad org_id", ErrInvalidToken)
	}

	return model.Principal{UserID: userID, OrgID: orgID, Role: c.Role}, nil
}
