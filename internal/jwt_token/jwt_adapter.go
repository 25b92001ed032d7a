package jwttoken

import (
	authmw "veritas/pkg/platform/middleware/auth"
)

func ToMiddlewareClaims(claims *ViewerClaims) *authmw.Claims {
	return &authmw.Claims{
		ViewerDID: claims.Subject,
		JTI:       claims.ID,
	}
}

// JWTServiceAdapter satisfies authmw.TokenValidator.
type JWTServiceAdapter struct {
	service *JWTService
}

func NewJWTServiceAdapter(service *JWTService) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service}
}

func (a *JWTServiceAdapter) ValidateToken(tokenString string) (*authmw.Claims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return ToMiddlewareClaims(claims), nil
}
