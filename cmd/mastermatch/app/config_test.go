package app

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/gridlot/mastermatch/internal/server"
	"github.com/gridlot/mastermatch/pkg/constants"
)

// isolate points the default config search at an empty home directory.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("MASTERMATCH_CONFIG", "")
	return home
}

func TestLoadConfigDefaults(t *testing.T) {
	isolate(t)

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.LogLevel != "" {
		t.Errorf("LogLevel = %q, want empty so -v and -q apply", config.LogLevel)
	}
	if config.LogFormat != "auto" {
		t.Errorf("LogFormat = %q, want auto", config.LogFormat)
	}
	if len(config.Catalogs) != 0 {
		t.Errorf("Catalogs = %v, want none", config.Catalogs)
	}
	if config.Matcher.AutoCorrectThreshold != constants.DefaultAutoCorrectThreshold {
		t.Errorf("AutoCorrectThreshold = %v", config.Matcher.AutoCorrectThreshold)
	}
	if config.Workers != constants.DefaultWorkers {
		t.Errorf("Workers = %d, want %d", config.Workers, constants.DefaultWorkers)
	}
	if config.AutoRefresh {
		t.Error("AutoRefresh should default to off")
	}
	if !reflect.DeepEqual(config.Server, server.DefaultConfig()) {
		t.Errorf("Server = %+v, want defaults", config.Server)
	}
}

func TestLoadConfigEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("SERVER_PORT", "9191")
	t.Setenv("SERVER_API_KEY", "secret")
	t.Setenv("CATALOG", "fleet.yaml,sqlite:/data/master.db")
	t.Setenv("REFRESH_INTERVAL", "15m")
	t.Setenv("REVIEW_THRESHOLD", "60")
	t.Setenv("VERBOSE", "true")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.Server.Port != 9191 {
		t.Errorf("Server.Port = %d, want 9191", config.Server.Port)
	}
	if config.Server.APIKey != "secret" {
		t.Errorf("Server.APIKey = %q, want secret", config.Server.APIKey)
	}
	if want := []string{"fleet.yaml", "sqlite:/data/master.db"}; !reflect.DeepEqual(config.Catalogs, want) {
		t.Errorf("Catalogs = %v, want %v", config.Catalogs, want)
	}
	if config.RefreshInterval != 15*time.Minute {
		t.Errorf("RefreshInterval = %v, want 15m", config.RefreshInterval)
	}
	if config.Matcher.ReviewThreshold != 60 {
		t.Errorf("ReviewThreshold = %v, want 60", config.Matcher.ReviewThreshold)
	}
	if !config.Verbose {
		t.Error("VERBOSE not loaded")
	}
}

func TestLoadConfigFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "mastermatch.yaml")
	content := `catalog:
  - fleet.yaml
workers: 3
auto_refresh: true
auto_correct_threshold: 95
server:
  port: 9000
  cors_origins:
    - https://intake.example.com
log_format: json
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile() failed: %v", err)
	}

	if config.ConfigFile != path {
		t.Errorf("ConfigFile = %q, want %q", config.ConfigFile, path)
	}
	if !reflect.DeepEqual(config.Catalogs, []string{"fleet.yaml"}) {
		t.Errorf("Catalogs = %v", config.Catalogs)
	}
	if config.Workers != 3 || !config.AutoRefresh {
		t.Errorf("Workers = %d, AutoRefresh = %v", config.Workers, config.AutoRefresh)
	}
	if config.Matcher.AutoCorrectThreshold != 95 {
		t.Errorf("AutoCorrectThreshold = %v, want 95", config.Matcher.AutoCorrectThreshold)
	}
	if config.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", config.Server.Port)
	}
	if !reflect.DeepEqual(config.Server.CORSOrigins, []string{"https://intake.example.com"}) {
		t.Errorf("Server.CORSOrigins = %v", config.Server.CORSOrigins)
	}
	if config.Server.Host != server.DefaultConfig().Host {
		t.Errorf("Server.Host = %q, want default", config.Server.Host)
	}
	if config.LogFormat != "json" {
		t.Errorf("LogFormat = %q, want json", config.LogFormat)
	}
}

func TestLoadConfigFileMissing(t *testing.T) {
	isolate(t)
	if _, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected an error for a missing explicit config file")
	}
}

func TestLoadConfigHomeFile(t *testing.T) {
	home := isolate(t)
	if err := os.WriteFile(filepath.Join(home, ".mastermatch.yaml"), []byte("max_rows: 250\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if config.MaxRows != 250 {
		t.Errorf("MaxRows = %d, want 250", config.MaxRows)
	}
}

func TestUpdateFromFlags(t *testing.T) {
	config := &Config{Verbose: true, Format: "yaml", LogLevel: "warn", Catalogs: []string{"a.yaml"}}

	config.UpdateFromFlags(false, true, false, "", "", nil)
	if !config.Verbose || !config.Quiet {
		t.Errorf("flags should not clear config booleans: %+v", config)
	}
	if config.Format != "yaml" || config.LogLevel != "warn" {
		t.Errorf("empty flags should keep config values: %+v", config)
	}
	if !reflect.DeepEqual(config.Catalogs, []string{"a.yaml"}) {
		t.Errorf("Catalogs = %v", config.Catalogs)
	}

	config.UpdateFromFlags(false, false, true, "json", "debug", []string{"b.yaml,c.json"})
	if !config.NoColor || config.Format != "json" || config.LogLevel != "debug" {
		t.Errorf("flags not applied: %+v", config)
	}
	if want := []string{"b.yaml", "c.json"}; !reflect.DeepEqual(config.Catalogs, want) {
		t.Errorf("Catalogs = %v, want %v", config.Catalogs, want)
	}
}

func TestSplitList(t *testing.T) {
	got := splitList([]string{" a, b ", "", "c,,"})
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("splitList() = %v, want %v", got, want)
	}
}
