package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// catalogFile is the on-disk shape of the oracle catalog YAML: a map
// from a program's declared oracle name (§4.B's `oracles` section) to
// the provider settings that name should resolve to. Any field an entry
// omits falls back to the environment/ini-resolved Config, matching
// ailang's own `eval_harness/models.go` provider-table pattern of one
// entry per named model with per-field fallback.
type catalogFile struct {
	Oracles map[string]catalogEntry `yaml:"oracles"`
}

type catalogEntry struct {
	Provider  string `yaml:"provider"`
	Endpoint  string `yaml:"endpoint"`
	Model     string `yaml:"model"`
	Mode      string `yaml:"mode"`
	Recording string `yaml:"recording"`
}

// LoadCatalog reads a YAML oracle catalog from path, resolving each
// entry against base for any field it leaves blank. A missing catalog
// file is not an error: every program runs fine with zero named
// overrides, since BuildOracles falls back to base for any name absent
// from the map.
func LoadCatalog(path string, base Config) (map[string]Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]Config{}, nil
		}
		return nil, err
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	out := make(map[string]Config, len(file.Oracles))
	for name, entry := range file.Oracles {
		cfg := base
		if entry.Provider != "" {
			cfg.Provider = entry.Provider
		}
		if entry.Endpoint != "" {
			cfg.Endpoint = entry.Endpoint
		}
		if entry.Model != "" {
			cfg.Model = entry.Model
		}
		if entry.Mode != "" {
			cfg.Mode = entry.Mode
		}
		if entry.Recording != "" {
			cfg.Recording = entry.Recording
		}
		out[name] = cfg
	}
	return out, nil
}
