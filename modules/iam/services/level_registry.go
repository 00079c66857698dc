package services

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/coactive-dev/sallyport/modules/iam/domain/types"
)

type levelsFile struct {
	Version int                        `yaml:"version"`
	Levels  []types.AuthorizationLevel `yaml:"levels"`
}

// LevelRegistry holds the deployment's authorization levels. It is immutable
// after construction and safe for concurrent readers.
type LevelRegistry struct {
	levels map[string]types.AuthorizationLevel
}

func ParseLevelsYAML(b []byte) (*LevelRegistry, error) {
	var f levelsFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, err
	}
	if f.Version != 1 {
		return nil, errors.New("iam: unsupported levels file version")
	}
	if len(f.Levels) == 0 {
		return nil, errors.New("iam: levels file defines no levels")
	}

	byName := make(map[string]types.AuthorizationLevel, len(f.Levels))
	byRank := make(map[int]string, len(f.Levels))
	for _, lvl := range f.Levels {
		name := strings.TrimSpace(lvl.Name)
		if name == "" {
			return nil, errors.New("iam: level with empty name")
		}
		if _, ok := byName[name]; ok {
			return nil, fmt.Errorf("iam: duplicate level name %q", name)
		}
		if other, ok := byRank[lvl.Level]; ok {
			return nil, fmt.Errorf("iam: levels %q and %q tie at rank %d", other, name, lvl.Level)
		}
		lvl.Name = name
		byName[name] = lvl
		byRank[lvl.Level] = name
	}
	return &LevelRegistry{levels: byName}, nil
}

func LoadLevelRegistry(path string) (*LevelRegistry, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseLevelsYAML(b)
}

// DefaultLevelsPath resolves the levels file the way the casbin config is
// resolved: SALLYPORT_LEVELS_PATH, else walking up from the working directory.
func DefaultLevelsPath() (string, error) {
	if p := os.Getenv("SALLYPORT_LEVELS_PATH"); p != "" {
		return p, nil
	}
	path := "config/access/levels.yaml"
	for i := 0; i < 8; i++ {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		path = filepath.Join("..", path)
	}
	return "", errors.New("iam: levels file not found")
}

func (r *LevelRegistry) Lookup(name string) (types.AuthorizationLevel, bool) {
	lvl, ok := r.levels[strings.TrimSpace(name)]
	return lvl, ok
}

func (r *LevelRegistry) Names() []string {
	names := make([]string, 0, len(r.levels))
	for name := range r.levels {
		names = append(names, name)
	}
	return names
}
