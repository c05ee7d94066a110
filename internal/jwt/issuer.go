// Package jwt emite y valida los access tokens del admin API.
//
// El token embebe los códigos de permiso materializados del usuario: la
// razón de ser del ledger es poder autorizar un request sin joins, leyendo
// el set efectivo directo del claim.
package jwt

import (
	"errors"
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims son los claims del access token.
type Claims struct {
	Email string   `json:"email,omitempty"`
	Perms []string `json:"perms,omitempty"`
	jwtlib.RegisteredClaims
}

// Issuer firma y valida tokens HS256.
type Issuer struct {
	issuer string
	secret []byte
	ttl    time.Duration
}

var (
	// ErrNoSecret indica que no hay secret configurado.
	ErrNoSecret = errors.New("jwt: secret not configured")

	// ErrInvalidToken indica que el token no validó.
	ErrInvalidToken = errors.New("jwt: invalid token")
)

// NewIssuer crea un Issuer. El secret no puede estar vacío.
func NewIssuer(issuer, secret string, ttl time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Issuer{issuer: issuer, secret: []byte(secret), ttl: ttl}, nil
}

// Sign emite un token para el usuario con sus permisos efectivos.
func (i *Issuer) Sign(userID uuid.UUID, email string, perms []string) (string, time.Time, error) {
	now := time.Now().UTC()
	exp := now.Add(i.ttl)
	claims := Claims{
		Email: email,
		Perms: perms,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Issuer:    i.issuer,
			Subject:   userID.String(),
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}
	tok := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Parse valida firma, issuer y expiración, y retorna los claims.
func (i *Issuer) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwtlib.ParseWithClaims(raw, claims, func(t *jwtlib.Token) (any, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	}, jwtlib.WithIssuer(i.issuer), jwtlib.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !tok.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// HasPerm verifica si el token trae el código de permiso.
func (c *Claims) HasPerm(code string) bool {
	for _, p := range c.Perms {
		if p == code {
			return true
		}
	}
	return false
}
