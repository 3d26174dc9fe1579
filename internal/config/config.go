// Package config loads this middle end's optional sigilc.yaml project
// file. Grounded on internal/ext's funxy.yaml loader (LoadConfig,
// ParseConfig, FindConfig, setDefaults — internal/ext/config.go), the
// only yaml.v3-based config loader in the teacher's tree, generalized
// from ext's Go-binding dependency list into the diagnostic/render/
// capability knobs SPEC_FULL.md §1's Ambient Stack describes.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"github.com/funvibe/sigilc/internal/diagnostics"
)

// AnsiMode controls whether internal/render's human emitter colors its
// output.
type AnsiMode string

const (
	AnsiAuto   AnsiMode = "auto"
	AnsiAlways AnsiMode = "always"
	AnsiNever  AnsiMode = "never"
)

// Config is the parsed contents of a project's sigilc.yaml.
type Config struct {
	// DiagnosticBudget overrides diagnostics.DefaultBudget, the count of
	// Hard/Warning diagnostics after which a run halts with E9002.
	DiagnosticBudget int `yaml:"diagnostic_budget,omitempty"`

	// Ansi selects whether rendered diagnostics carry ANSI color codes.
	Ansi AnsiMode `yaml:"ansi,omitempty"`

	// CapabilityAllowlist names effects (`Net`, `Fs`, ...), queryable
	// through AllowsCapability. The capability checks in internal/infer do
	// not consult it.
	CapabilityAllowlist []string `yaml:"capability_allowlist,omitempty"`

	// TestMode/LSPMode mirror the teacher's global config.IsTestMode/
	// IsLSPMode flags (internal/config/constants.go in the teacher). Both
	// are parsed and stored; nothing else in this module reads them.
	TestMode bool `yaml:"test_mode,omitempty"`
	LSPMode  bool `yaml:"lsp_mode,omitempty"`
}

// defaultFileNames are tried in order by Find, mirroring the teacher's
// FindConfig trying both funxy.yaml and funxy.yml.
var defaultFileNames = []string{"sigilc.yaml", "sigilc.yml"}

// Default returns a Config with every knob at its spec.md-documented
// default: budget 100, ansi auto-detected, no capability allowlist.
func Default() *Config {
	return &Config{
		DiagnosticBudget: diagnostics.DefaultBudget,
		Ansi:             AnsiAuto,
	}
}

// Load reads and parses the sigilc.yaml at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse parses sigilc.yaml content from bytes, applying defaults to any
// field the document left unset.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.setDefaults()
	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.DiagnosticBudget <= 0 {
		c.DiagnosticBudget = diagnostics.DefaultBudget
	}
	if c.Ansi == "" {
		c.Ansi = AnsiAuto
	}
}

// Find searches for sigilc.yaml (or .yml) starting from dir and walking
// up through parent directories, the way the teacher's FindConfig locates
// funxy.yaml relative to a script being compiled. Returns "" with a nil
// error if no config file exists anywhere above dir.
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		for _, name := range defaultFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// LoadOrDefault loads the nearest sigilc.yaml above dir, or returns
// Default() unchanged if none exists — a missing config file is not an
// error (spec.md §1: "sigilc.yaml is optional").
func LoadOrDefault(dir string) (*Config, error) {
	path, err := Find(dir)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// ResolveAnsi decides whether render output should carry color codes,
// resolving AnsiAuto against the given file descriptor via go-isatty the
// way the teacher's evaluator/builtins_term.go decides whether stdout
// supports terminal control sequences.
func (c *Config) ResolveAnsi(fd uintptr) bool {
	switch c.Ansi {
	case AnsiAlways:
		return true
	case AnsiNever:
		return false
	default:
		return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}
}

// AllowsCapability reports whether cap is in this config's allowlist.
func (c *Config) AllowsCapability(cap string) bool {
	for _, a := range c.CapabilityAllowlist {
		if a == cap {
			return true
		}
	}
	return false
}
