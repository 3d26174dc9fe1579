package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/funvibe/sigilc/internal/diagnostics"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`{}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.DiagnosticBudget != diagnostics.DefaultBudget {
		t.Errorf("DiagnosticBudget = %d, want %d", cfg.DiagnosticBudget, diagnostics.DefaultBudget)
	}
	if cfg.Ansi != AnsiAuto {
		t.Errorf("Ansi = %q, want %q", cfg.Ansi, AnsiAuto)
	}
}

func TestParseOverrides(t *testing.T) {
	data := []byte(`
diagnostic_budget: 5
ansi: never
capability_allowlist: [Net, Fs]
test_mode: true
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.DiagnosticBudget != 5 {
		t.Errorf("DiagnosticBudget = %d, want 5", cfg.DiagnosticBudget)
	}
	if cfg.Ansi != AnsiNever {
		t.Errorf("Ansi = %q, want %q", cfg.Ansi, AnsiNever)
	}
	if !cfg.TestMode {
		t.Error("TestMode = false, want true")
	}
	if !cfg.AllowsCapability("Net") || !cfg.AllowsCapability("Fs") {
		t.Errorf("AllowsCapability missing entries: %v", cfg.CapabilityAllowlist)
	}
	if cfg.AllowsCapability("Db") {
		t.Error("AllowsCapability(\"Db\") = true, want false")
	}
}

func TestParseNegativeBudgetFallsBackToDefault(t *testing.T) {
	cfg, err := Parse([]byte(`diagnostic_budget: -1`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.DiagnosticBudget != diagnostics.DefaultBudget {
		t.Errorf("DiagnosticBudget = %d, want default %d", cfg.DiagnosticBudget, diagnostics.DefaultBudget)
	}
}

func TestLoadOrDefaultNoFile(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadOrDefault(dir)
	if err != nil {
		t.Fatalf("LoadOrDefault: %v", err)
	}
	if cfg.DiagnosticBudget != diagnostics.DefaultBudget {
		t.Errorf("expected Default() when no sigilc.yaml exists, got budget %d", cfg.DiagnosticBudget)
	}
}

func TestFindWalksUpToParent(t *testing.T) {
	root := t.TempDir()
	child := filepath.Join(root, "a", "b")
	if err := os.WriteFile(filepath.Join(root, "sigilc.yaml"), []byte("ansi: always\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(child, 0o755); err != nil {
		t.Fatal(err)
	}

	found, err := Find(child)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if found == "" {
		t.Fatal("Find returned no config, expected the one in root")
	}

	cfg, err := Load(found)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Ansi != AnsiAlways {
		t.Errorf("Ansi = %q, want %q", cfg.Ansi, AnsiAlways)
	}
}

func TestResolveAnsi(t *testing.T) {
	always := &Config{Ansi: AnsiAlways}
	if !always.ResolveAnsi(0) {
		t.Error("AnsiAlways should resolve true regardless of fd")
	}
	never := &Config{Ansi: AnsiNever}
	if never.ResolveAnsi(0) {
		t.Error("AnsiNever should resolve false regardless of fd")
	}
}
