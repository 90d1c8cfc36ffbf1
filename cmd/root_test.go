package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

const sampleConfig = `profile:
  target_titles:
    - "strategy manager"
  positive_keywords:
    - "health"
search_queries:
  - "strategy manager digital health"
locations:
  include:
    - "berlin"
`

// A bare invocation must find jobradar.yaml in the current directory.
func TestReadConfigFindsDefaultFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, app+".yaml"), []byte(sampleConfig), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Chdir(dir)

	if err := readConfig(); err != nil {
		t.Fatalf("default config not found: %v", err)
	}

	config, err := getConfig()
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(config.Profile.TargetTitles) != 1 || config.Profile.TargetTitles[0] != "strategy manager" {
		t.Fatalf("config not read: %+v", config.Profile)
	}
	// Defaults kick in for everything the file leaves out.
	if config.State.File != "data/seen_jobs.json" {
		t.Fatalf("state file default missing: %q", config.State.File)
	}
	if config.Reports.Dir != "reports" || config.Reports.PagesDir != "docs" {
		t.Fatalf("report dir defaults missing: %+v", config.Reports)
	}
}

func TestReadConfigHonorsExplicitPath(t *testing.T) {
	viper.Reset()
	t.Cleanup(func() {
		viper.Reset()
		cfgFile = ""
	})

	path := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfgFile = path

	if err := readConfig(); err != nil {
		t.Fatalf("explicit config not read: %v", err)
	}
	if got := viper.GetStringSlice("search_queries"); len(got) != 1 {
		t.Fatalf("queries not read: %v", got)
	}
}

func TestReadConfigMissingFileErrors(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Chdir(t.TempDir())
	if err := readConfig(); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
