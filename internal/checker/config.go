package checker

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sprite-ai/lintmux/internal/model"
)

// Config is the on-disk run configuration, usually .lintmux.yml at the repo
// root. It is loaded once and read-only afterwards.
type Config struct {
	MaxParallelism int             `yaml:"max_parallelism"`
	SeverityFloor  string          `yaml:"severity_floor"`
	Checkers       []CheckerConfig `yaml:"checkers"`
}

// CheckerConfig is one checker entry in the config file.
type CheckerConfig struct {
	ID                string   `yaml:"id"`
	Command           string   `yaml:"command"`
	Args              []string `yaml:"args"`
	Parser            string   `yaml:"parser"`
	DefaultSeverity   string   `yaml:"default_severity"`
	ContinueOnFailure bool     `yaml:"continue_on_failure"`
	Timeout           string   `yaml:"timeout"` // Go duration string, e.g. "90s"
}

// LoadConfig reads and validates a config file, returning ready-to-run specs.
func LoadConfig(path string) (*Config, []Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading config: %w", err)
	}
	return parseConfig(data)
}

func parseConfig(data []byte) (*Config, []Spec, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.SeverityFloor == "" {
		cfg.SeverityFloor = "info"
	}
	if _, err := model.ParseSeverity(cfg.SeverityFloor); err != nil {
		return nil, nil, fmt.Errorf("config severity_floor: %w", err)
	}

	if len(cfg.Checkers) == 0 {
		return nil, nil, fmt.Errorf("config defines no checkers")
	}

	seen := make(map[string]bool)
	specs := make([]Spec, 0, len(cfg.Checkers))
	for i, cc := range cfg.Checkers {
		spec, err := cc.spec()
		if err != nil {
			return nil, nil, fmt.Errorf("checker %d (%s): %w", i, cc.ID, err)
		}
		if seen[spec.ID] {
			return nil, nil, fmt.Errorf("duplicate checker id %q", spec.ID)
		}
		seen[spec.ID] = true
		specs = append(specs, spec)
	}

	return &cfg, specs, nil
}

func (cc CheckerConfig) spec() (Spec, error) {
	if cc.ID == "" {
		return Spec{}, fmt.Errorf("missing id")
	}
	if cc.Command == "" {
		return Spec{}, fmt.Errorf("missing command")
	}

	parser, err := LookupParser(cc.Parser)
	if err != nil {
		return Spec{}, err
	}

	sev := model.SeverityWarning
	if cc.DefaultSeverity != "" {
		sev, err = model.ParseSeverity(cc.DefaultSeverity)
		if err != nil {
			return Spec{}, err
		}
	}

	timeout := DefaultTimeout
	if cc.Timeout != "" {
		timeout, err = time.ParseDuration(cc.Timeout)
		if err != nil {
			return Spec{}, fmt.Errorf("bad timeout: %w", err)
		}
		if timeout <= 0 {
			return Spec{}, fmt.Errorf("timeout must be positive, got %s", timeout)
		}
	}

	return Spec{
		ID:                cc.ID,
		Command:           cc.Command,
		Args:              cc.Args,
		Parser:            parser,
		DefaultSeverity:   sev,
		ContinueOnFailure: cc.ContinueOnFailure,
		Timeout:           timeout,
	}, nil
}
