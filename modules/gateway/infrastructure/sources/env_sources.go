package sources

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// EnvSecretSource resolves secrets from the process environment. The secret
// name "gateway/team/api-key" maps to SALLYPORT_SECRET_GATEWAY_TEAM_API_KEY.
type EnvSecretSource struct {
	prefix string
}

func NewEnvSecretSource() *EnvSecretSource {
	return &EnvSecretSource{prefix: "SALLYPORT_SECRET_"}
}

func (s *EnvSecretSource) GetSecret(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key := s.prefix + envKey(name)
	v, ok := os.LookupEnv(key)
	if !ok {
		return "", fmt.Errorf("sources: secret %q not set (%s)", name, key)
	}
	return v, nil
}

// EnvConfigSource resolves config keys the same way under SALLYPORT_CONFIG_.
type EnvConfigSource struct {
	prefix string
}

func NewEnvConfigSource() *EnvConfigSource {
	return &EnvConfigSource{prefix: "SALLYPORT_CONFIG_"}
}

func (s *EnvConfigSource) GetConfig(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name := s.prefix + envKey(key)
	v, ok := os.LookupEnv(name)
	if !ok {
		return "", fmt.Errorf("sources: config %q not set (%s)", key, name)
	}
	return v, nil
}

func envKey(name string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - ('a' - 'A')
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, name)
	return mapped
}
