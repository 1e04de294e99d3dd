package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"DIRECT", "KEY", "SERVER", "RECIPES_DIR", "AUDIT_LOG"} {
		t.Setenv(envPrefix+name, "")
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(cwd)
	})
}

func TestLoadPrecedence(t *testing.T) {
	clearEnv(t)
	tempDir := t.TempDir()

	homeDir := filepath.Join(tempDir, "home")
	if err := os.MkdirAll(filepath.Join(homeDir, ".vigenere"), 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	tomlConfig := []byte(`direct = false
key = "home-key"
server_addr = "0.0.0.0:1111"
recipes_dir = "/home-recipes"
`)
	if err := os.WriteFile(filepath.Join(homeDir, ".vigenere", "config.toml"), tomlConfig, 0o644); err != nil {
		t.Fatalf("write toml config: %v", err)
	}

	workDir := filepath.Join(tempDir, "work")
	if err := os.Mkdir(workDir, 0o755); err != nil {
		t.Fatalf("mkdir work: %v", err)
	}
	yamlConfig := []byte(`server_addr: 127.0.0.1:6500
key: local-key
`)
	if err := os.WriteFile(filepath.Join(workDir, localConfigName), yamlConfig, 0o644); err != nil {
		t.Fatalf("write yaml config: %v", err)
	}
	chdir(t, workDir)

	t.Setenv("VIGENERE_KEY", "env-key")
	t.Setenv("VIGENERE_AUDIT_LOG", "/tmp/audit.log")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	want := Config{
		Direct:     false,
		Key:        "env-key",
		ServerAddr: "127.0.0.1:6500",
		RecipesDir: "/home-recipes",
		AuditLog:   "/tmp/audit.log",
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("unexpected config (-want +got):\n%s", diff)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOME", filepath.Join(t.TempDir(), "home"))
	chdir(t, t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected defaults, got %#v", cfg)
	}
	if !cfg.Direct {
		t.Fatal("default machine must be direct")
	}
}

func TestLoadRejectsBadInput(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOME", filepath.Join(t.TempDir(), "home"))
	dir := t.TempDir()
	chdir(t, dir)

	if err := os.WriteFile(filepath.Join(dir, localConfigName), []byte("direct: [not, a, bool]\n"), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	if _, err := Load(); err == nil {
		t.Fatal("expected parse error")
	}

	if err := os.Remove(filepath.Join(dir, localConfigName)); err != nil {
		t.Fatalf("remove: %v", err)
	}
	t.Setenv("VIGENERE_DIRECT", "sideways")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed VIGENERE_DIRECT")
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	tomlPath := filepath.Join(dir, "machine.toml")
	if err := os.WriteFile(tomlPath, []byte("direct = false\nkey = \"lemon\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadFile(tomlPath)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Direct || cfg.Key != "lemon" || cfg.ServerAddr != Default().ServerAddr {
		t.Fatalf("unexpected config %#v", cfg)
	}

	yamlPath := filepath.Join(dir, "machine.yaml")
	if err := os.WriteFile(yamlPath, []byte("direct: true\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if cfg, err = LoadFile(yamlPath); err != nil || !cfg.Direct {
		t.Fatalf("LoadFile yaml: cfg=%#v err=%v", cfg, err)
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.yml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidateAggregatesErrors(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg := Config{ServerAddr: "nocolon", Key: "   ", RecipesDir: file}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, fragment := range []string{"server_addr", "key must not be blank", "not a directory"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Errorf("expected %q in %v", fragment, err)
		}
	}

	if err := Default().Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}
