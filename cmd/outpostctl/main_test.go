package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"outpost/internal/config"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func resetFlags() {
	configFlag = ""
	seedFlag = ""
}

func TestVersionCommand(t *testing.T) {
	defer resetFlags()
	code, out, _ := runCLI(t, "version")
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if !strings.Contains(out, "outpostctl") {
		t.Fatalf("version output %q lacks binary name", out)
	}
}

func TestUnknownCommandFails(t *testing.T) {
	defer resetFlags()
	code, _, errOut := runCLI(t, "frobnicate")
	if code == 0 {
		t.Fatal("unknown command exited 0")
	}
	if !strings.Contains(errOut, "frobnicate") {
		t.Fatalf("stderr %q does not name the bad command", errOut)
	}
}

func TestValidateDefaultConfig(t *testing.T) {
	defer resetFlags()
	code, out, errOut := runCLI(t, "validate")
	if code != 0 {
		t.Fatalf("validate failed on defaults: %s", errOut)
	}
	if !strings.Contains(out, "config ok") {
		t.Fatalf("unexpected validate output %q", out)
	}
}

func TestValidateRejectsBadConfig(t *testing.T) {
	defer resetFlags()
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := []byte("world:\n  width: -4\n  height: 32\n")
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	code, _, errOut := runCLI(t, "--config", path, "validate")
	if code == 0 {
		t.Fatal("validate accepted negative world width")
	}
	if !strings.Contains(errOut, "dimensions") {
		t.Fatalf("stderr %q does not explain the failure", errOut)
	}
}

func TestValidateRejectsMissingConfigFile(t *testing.T) {
	defer resetFlags()
	code, _, _ := runCLI(t, "--config", "/nonexistent/config.yaml", "validate")
	if code == 0 {
		t.Fatal("validate accepted a missing config file")
	}
}

func TestValidateConfigChecks(t *testing.T) {
	cfg := config.Default()
	if problems := validateConfig(cfg); len(problems) != 0 {
		t.Fatalf("defaults flagged: %v", problems)
	}
	cfg.Plan.WorkRatePerSecond = -1
	cfg.World.StartWood = -5
	if problems := validateConfig(cfg); len(problems) != 2 {
		t.Fatalf("want 2 problems, got %v", problems)
	}
}

func TestResolveSeedPrecedence(t *testing.T) {
	defer resetFlags()
	var stderr bytes.Buffer

	cfg := config.Default()
	cfg.World.Seed = 77
	seedFlag = "123"
	if got := resolveSeed(cfg, &stderr); got != 123 {
		t.Fatalf("--seed ignored: got %d", got)
	}

	t.Setenv("COLONY_SEED", "456")
	if got := resolveSeed(cfg, &stderr); got != 456 {
		t.Fatalf("COLONY_SEED not honored: got %d", got)
	}

	t.Setenv("COLONY_SEED", "not-a-number")
	if got := resolveSeed(cfg, &stderr); got != fallbackSeed {
		t.Fatalf("bad COLONY_SEED did not fall back: got %d", got)
	}
	if !strings.Contains(stderr.String(), "fallback") {
		t.Fatal("fallback was not logged")
	}
}

func TestResolveSeedFromConfig(t *testing.T) {
	defer resetFlags()
	var stderr bytes.Buffer
	cfg := config.Default()
	cfg.World.Seed = 99
	if got := resolveSeed(cfg, &stderr); got != 99 {
		t.Fatalf("config seed ignored: got %d", got)
	}
}

// TestRunSaveLoadRoundTrip drives the headless pipeline end to end: run
// a short simulation, save it, and run again from the save.
func TestRunSaveLoadRoundTrip(t *testing.T) {
	defer resetFlags()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	body := []byte("world:\n  width: 32\n  height: 32\n  seed: 7\n  start_wood: 50\nagents:\n  start_colonists: 1\n")
	if err := os.WriteFile(cfgPath, body, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	savePath := filepath.Join(dir, "world.sav")

	code, out, errOut := runCLI(t, "--config", cfgPath, "run", "--ticks", "30", "--quiet", "--save", savePath)
	if code != 0 {
		t.Fatalf("run failed: %s", errOut)
	}
	if !strings.Contains(out, "saved to") {
		t.Fatalf("run output %q does not confirm the save", out)
	}

	resetFlags()
	code, out, errOut = runCLI(t, "--config", cfgPath, "run", "--ticks", "10", "--quiet", "--load", savePath)
	if code != 0 {
		t.Fatalf("run --load failed: %s", errOut)
	}
	if !strings.Contains(out, "seed 7") {
		t.Fatalf("loaded run output %q does not carry the saved seed", out)
	}
}

func TestGenerateSummary(t *testing.T) {
	defer resetFlags()
	code, out, errOut := runCLI(t, "--seed", "11", "generate", "--width", "48", "--height", "48")
	if code != 0 {
		t.Fatalf("generate failed: %s", errOut)
	}
	if !strings.Contains(out, "seed 11, 48x48") {
		t.Fatalf("generate output %q lacks the header", out)
	}
}
