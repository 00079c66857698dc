package types

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrUnsupportedTierType = errors.New("gateway: unsupported tier type")
	ErrMissingUserContext  = errors.New("gateway: user context required")
)

type TierType string

const (
	TierOwnerSubscriber TierType = "owner_subscriber"
	TierTeam            TierType = "team"
	TierGroup           TierType = "group"
	TierPractitioner    TierType = "practitioner"
	TierEnterprise      TierType = "enterprise"
)

// TierTypes lists the closed set in declaration order.
var TierTypes = []TierType{
	TierOwnerSubscriber,
	TierTeam,
	TierGroup,
	TierPractitioner,
	TierEnterprise,
}

func NormalizeTierType(raw string) (TierType, error) {
	t := TierType(strings.ToLower(strings.TrimSpace(raw)))
	switch t {
	case TierOwnerSubscriber, TierTeam, TierGroup, TierPractitioner, TierEnterprise:
		return t, nil
	default:
		return "", ErrUnsupportedTierType
	}
}

// GatewayInstance is a tier-scoped handle. Instances are immutable after
// construction; callers discard and re-request rather than mutate.
type GatewayInstance struct {
	ID           string            `json:"id"`
	Tier         TierType          `json:"tier"`
	UserID       string            `json:"user_id"`
	OrgID        string            `json:"org_id,omitempty"`
	Endpoint     string            `json:"endpoint,omitempty"`
	Options      map[string]string `json:"options,omitempty"`
	Capabilities []string          `json:"capabilities"`
	Token        string            `json:"token,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

// GatewayCreationFailedError wraps a tier-constructor failure with enough
// context for the caller to decide whether to retry at a higher level.
type GatewayCreationFailedError struct {
	Tier   TierType
	UserID string
	OrgID  string
	Err    error
}

func (e *GatewayCreationFailedError) Error() string {
	return fmt.Sprintf("gateway: creating %s gateway for user %s org %q: %v", e.Tier, e.UserID, e.OrgID, e.Err)
}

func (e *GatewayCreationFailedError) Unwrap() error { return e.Err }
