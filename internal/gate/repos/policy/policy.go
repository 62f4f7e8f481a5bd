// Package policy loads protected-site configuration from a directory of
// YAML, JSON, or TOML files. Each file carries a "sites" list; records are
// validated at this write boundary so malformed configuration never reaches
// the evaluators.
package policy

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf"
	kjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"

	"github.com/sitegate/sitegate/internal/gate/common/hostutil"
	"github.com/sitegate/sitegate/internal/gate/domain"
)

// Dir is a policy source backed by a directory of policy files. Each call
// to Sites re-reads the directory: the engine runs in a host that may be
// torn down between events, so the persisted files are the only truth.
type Dir struct {
	path string
}

// NewDir returns a Dir source for the given directory path.
func NewDir(path string) *Dir {
	return &Dir{path: path}
}

// Sites loads every protected site from the directory. Hosts are
// canonicalized; a host configured in more than one place is an error
// because host uniqueness is a data-model invariant.
func (d *Dir) Sites() ([]domain.ProtectedSite, error) {
	return LoadDirectory(d.path)
}

// LoadDirectory walks the given directory, loading all supported policy
// files (YAML, JSON, TOML) and returning the combined site list. Returns an
// error if any file fails to parse or validate.
func LoadDirectory(dir string) ([]domain.ProtectedSite, error) {
	var sites []domain.ProtectedSite
	seen := make(map[string]string) // canonical host -> file

	err := filepath.WalkDir(dir, func(path string, de os.DirEntry, err error) error {
		if err != nil || de.IsDir() {
			return err
		}
		fileSites, err := loadPolicyFile(path)
		if err != nil {
			return fmt.Errorf("error parsing policy file %s: %w", path, err)
		}
		for _, s := range fileSites {
			if prev, dup := seen[s.Host]; dup {
				return fmt.Errorf("host %q configured in both %s and %s", s.Host, prev, path)
			}
			seen[s.Host] = path
			sites = append(sites, s)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sites, nil
}

// loadPolicyFile loads and parses a single policy file, using the parser
// matching its extension. Unsupported extensions are skipped silently.
func loadPolicyFile(path string) ([]domain.ProtectedSite, error) {
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = kjson.Parser()
	case ".toml":
		parser = toml.Parser()
	default:
		return nil, nil // unsupported file type
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("failed to load policy file: %w", err)
	}

	raw, ok := k.Raw()["sites"]
	if !ok {
		return nil, fmt.Errorf("missing 'sites' list")
	}
	var entries []any
	switch v := raw.(type) {
	case []any:
		entries = v
	case []map[string]any:
		// TOML arrays of tables parse to this shape.
		entries = make([]any, len(v))
		for i, m := range v {
			entries[i] = m
		}
	default:
		return nil, fmt.Errorf("'sites' must be a list")
	}

	var sites []domain.ProtectedSite
	for i, entry := range entries {
		// Round-trip through JSON so the domain tagged-union codecs apply
		// regardless of the source format.
		buf, err := json.Marshal(entry)
		if err != nil {
			return nil, fmt.Errorf("sites[%d]: %w", i, err)
		}
		var site domain.ProtectedSite
		if err := json.Unmarshal(buf, &site); err != nil {
			return nil, fmt.Errorf("sites[%d]: %w", i, err)
		}
		site.Host = hostutil.Canonical(site.Host)
		if err := site.Validate(); err != nil {
			return nil, fmt.Errorf("sites[%d]: %w", i, err)
		}
		sites = append(sites, site)
	}
	return sites, nil
}
