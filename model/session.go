// file: model/session.go

package model

import "github.com/golang-jwt/jwt/v5"

// SessionClaims is the payload of a signed session token. The registered
// ID (jti) identifies the session so it can be revoked on logout.
type SessionClaims struct {
	AccountNumber string `json:"account_number"`
	jwt.RegisteredClaims
}
