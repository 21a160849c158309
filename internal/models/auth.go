package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims represents the payload of scheduler access tokens.
type JWTClaims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// ScopeScheduleWrite grants access to mutating endpoints.
const ScopeScheduleWrite = "schedule:write"
