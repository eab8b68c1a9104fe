package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/shipstore/lma-finance/internal/model"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims are issued by the identity provider. The email is the only claim
// used for authorization.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type Parser struct {
	secret []byte
}

func NewParser(secret string) *Parser {
	return &Parser{secret: []byte(secret)}
}

func (p *Parser) Parse(raw string) (model.Principal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return model.Principal{}, ErrInvalidToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return p.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return model.Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	email := strings.TrimSpace(claims.Email)
	if email == "" {
		email = strings.TrimSpace(claims.Subject)
	}
	if email == "" {
		return model.Principal{}, fmt.Errorf("%w: missing email claim", ErrInvalidToken)
	}
	return model.Principal{Email: email}, nil
}

// Issue signs a token for email. Used by tests and local tooling.
func (p *Parser) Issue(email string, claims jwt.RegisteredClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{Email: email, RegisteredClaims: claims})
	return token.SignedString(p.secret)
}
