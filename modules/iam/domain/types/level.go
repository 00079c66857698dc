package types

// PermissionAll is the wildcard entry meaning every permission.
const PermissionAll = "*"

// AuthorizationLevel is a pre-registered privilege tier. Lower Level is more
// privileged; the registered set totally orders all tiers. Guard is an
// optional CEL expression over the request context, evaluated only after the
// numeric ordering check passes.
type AuthorizationLevel struct {
	Name        string   `yaml:"name" json:"name"`
	Level       int      `yaml:"level" json:"level"`
	Permissions []string `yaml:"permissions" json:"permissions"`
	Guard       string   `yaml:"guard,omitempty" json:"guard,omitempty"`
}

func (l AuthorizationLevel) HasAllPermissions() bool {
	for _, p := range l.Permissions {
		if p == PermissionAll {
			return true
		}
	}
	return false
}

const (
	ChainReasonInsufficientLevel = "INSUFFICIENT_LEVEL"
	ChainReasonGuardRejected     = "GUARD_REJECTED"
)

// ChainDecision is the non-throwing outcome of a chain validation. Denial is
// an expected result, not an error; errors are reserved for unknown level
// names and broken guard expressions.
type ChainDecision struct {
	Valid       bool     `json:"valid"`
	Reason      string   `json:"reason,omitempty"`
	Chain       string   `json:"chain"`
	Permissions []string `json:"permissions,omitempty"`
}
