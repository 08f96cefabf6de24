package config

import (
	"fmt"

	"github.com/liminal-lang/liminal/internal/oracle"
)

// BuildOracle wires a Config into the Oracle it describes (§6): the
// provider selects mock vs. remote Ollama, and the mode wraps whichever
// one is chosen in a Recording layer (§4.F) unless the mode is live.
func BuildOracle(cfg Config) (oracle.Oracle, error) {
	var base oracle.Oracle
	switch cfg.Provider {
	case "mock":
		base = oracle.NewMock()
	case "ollama":
		base = oracle.NewRemoteText(cfg.Endpoint, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown oracle provider %q", cfg.Provider)
	}

	switch oracle.Mode(cfg.Mode) {
	case oracle.ModeRecord, oracle.ModeReplay:
		return oracle.NewRecording(base, oracle.Mode(cfg.Mode), cfg.Recording), nil
	default:
		return base, nil
	}
}

// BuildOracles resolves one Oracle per name declared in a program's
// `oracles` section (§4.B): names present in catalog get their own
// provider/mode wiring; every other declared name falls back to base.
// This is what lets `ask Assistant <- ...` and `ask Researcher <- ...`
// in the same program talk to two different providers.
func BuildOracles(declaredNames []string, catalog map[string]Config, base Config) (map[string]oracle.Oracle, error) {
	baseOracle, err := BuildOracle(base)
	if err != nil {
		return nil, err
	}

	out := make(map[string]oracle.Oracle, len(declaredNames))
	for _, name := range declaredNames {
		cfg, ok := catalog[name]
		if !ok {
			out[name] = baseOracle
			continue
		}
		oc, err := BuildOracle(cfg)
		if err != nil {
			return nil, fmt.Errorf("oracle %q: %w", name, err)
		}
		out[name] = oc
	}
	return out, nil
}
