package services

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/coactive-dev/sallyport/modules/gateway/domain/types"
)

type CapabilityClaims struct {
	jwt.RegisteredClaims
	Tier         string   `json:"tier"`
	OrgID        string   `json:"org,omitempty"`
	Capabilities []string `json:"caps"`
}

// mintCapabilityToken signs a short-lived HS256 token describing what the
// instance may do; it expires with the cache entry.
func (f *Factory) mintCapabilityToken(inst *types.GatewayInstance, ttl time.Duration) (string, error) {
	now := f.now()
	claims := CapabilityClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   inst.UserID,
			ID:        inst.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    "sallyport",
		},
		Tier:         string(inst.Tier),
		OrgID:        inst.OrgID,
		Capabilities: inst.Capabilities,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(f.signingKey)
}

// VerifyCapabilityToken parses a token minted by this factory and returns the
// embedded claims.
func (f *Factory) VerifyCapabilityToken(token string) (*CapabilityClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &CapabilityClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return f.signingKey, nil
	}, jwt.WithTimeFunc(f.now))
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*CapabilityClaims)
	if !ok || !parsed.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
