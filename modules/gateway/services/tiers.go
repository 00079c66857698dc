package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/coactive-dev/sallyport/modules/gateway/domain/types"
)

// tierSpec drives construction for one tier: which secret unlocks it and
// which capability set the resulting gateway exposes.
type tierSpec struct {
	SecretName   string
	ConfigKey    string
	Capabilities []string
}

// tierSpecFor is the closed tier dispatch table. Adding a tier means adding
// one case here and one constant to the types package.
func tierSpecFor(tier types.TierType) (tierSpec, error) {
	switch tier {
	case types.TierOwnerSubscriber:
		return tierSpec{
			SecretName:   "gateway/owner-subscriber/api-key",
			ConfigKey:    "gateway.owner_subscriber.endpoint",
			Capabilities: []string{"content.read", "content.publish", "profile.manage"},
		}, nil
	case types.TierTeam:
		return tierSpec{
			SecretName:   "gateway/team/api-key",
			ConfigKey:    "gateway.team.endpoint",
			Capabilities: []string{"content.read", "content.publish", "team.manage", "members.invite"},
		}, nil
	case types.TierGroup:
		return tierSpec{
			SecretName:   "gateway/group/api-key",
			ConfigKey:    "gateway.group.endpoint",
			Capabilities: []string{"content.read", "content.publish", "group.manage"},
		}, nil
	case types.TierPractitioner:
		return tierSpec{
			SecretName:   "gateway/practitioner/api-key",
			ConfigKey:    "gateway.practitioner.endpoint",
			Capabilities: []string{"content.read", "content.publish", "client.manage", "session.schedule"},
		}, nil
	case types.TierEnterprise:
		return tierSpec{
			SecretName:   "gateway/enterprise/api-key",
			ConfigKey:    "gateway.enterprise.endpoint",
			Capabilities: []string{"content.read", "content.publish", "org.manage", "audit.read", "integrations.manage"},
		}, nil
	default:
		return tierSpec{}, types.ErrUnsupportedTierType
	}
}

// constructTier does the expensive work behind a cache miss: secret and
// endpoint retrieval from the collaborators, then instance assembly. The
// caller's opts layer over the factory's base options, caller winning.
func (f *Factory) constructTier(ctx context.Context, tier types.TierType, gctx Context, opts map[string]string) (*types.GatewayInstance, error) {
	spec, err := tierSpecFor(tier)
	if err != nil {
		return nil, err
	}

	// The secret itself never leaves the factory; retrieving it proves the
	// tier is provisioned for this deployment.
	if f.secrets != nil {
		if _, err := f.secrets.GetSecret(ctx, spec.SecretName); err != nil {
			return nil, err
		}
	}
	endpoint := ""
	if f.configs != nil {
		v, err := f.configs.GetConfig(ctx, spec.ConfigKey)
		if err != nil {
			return nil, err
		}
		endpoint = v
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	inst := &types.GatewayInstance{
		ID:           uuid.NewString(),
		Tier:         tier,
		UserID:       gctx.UserID,
		OrgID:        gctx.OrgID,
		Endpoint:     endpoint,
		Options:      mergeOptions(f.baseOptions, opts),
		Capabilities: append([]string{}, spec.Capabilities...),
		CreatedAt:    f.now(),
	}
	if len(f.signingKey) > 0 {
		token, err := f.mintCapabilityToken(inst, f.ttl)
		if err != nil {
			return nil, err
		}
		inst.Token = token
	}
	return inst, nil
}

func mergeOptions(base, overrides map[string]string) map[string]string {
	if len(base) == 0 && len(overrides) == 0 {
		return nil
	}
	merged := make(map[string]string, len(base)+len(overrides))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}
