// Package security issues and validates the JWT used by the single
// staff role, and hashes/compares the staff login password, generalizing
// the teacher's internal/utils jwt and password helpers from
// customer/owner roles down to one privileged role.
package security

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const StaffRole = "staff"

// StaffClaims is the JWT payload issued on a successful staff login.
type StaffClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// IssueStaffToken signs a StaffClaims token valid for ttl.
func IssueStaffToken(secret, username string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := StaffClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role: StaffRole,
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString([]byte(secret))
}

// ParseStaffToken validates raw and returns its claims.
func ParseStaffToken(secret, raw string) (*StaffClaims, error) {
	claims := &StaffClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("security: unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return nil, fmt.Errorf("security: invalid token: %w", err)
	}
	if claims.Role != StaffRole {
		return nil, fmt.Errorf("security: token does not carry the staff role")
	}
	return claims, nil
}
