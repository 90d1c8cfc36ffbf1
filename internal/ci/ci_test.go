package ci

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIsCI(t *testing.T) {
	t.Setenv("GITHUB_ACTIONS", "")
	if IsCI() {
		t.Fatalf("expected non-CI environment")
	}

	t.Setenv("GITHUB_ACTIONS", "true")
	if !IsCI() {
		t.Fatalf("expected CI environment")
	}
}

func TestSetEnvOutsideCIIsNoop(t *testing.T) {
	t.Setenv("GITHUB_ACTIONS", "")
	if err := SetEnv("REPORT_DATE", "2026-08-31"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSetEnvAppendsToEnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), "github_env")
	t.Setenv("GITHUB_ACTIONS", "true")
	t.Setenv("GITHUB_ENV", envFile)

	if err := SetEnv("REPORT_DATE", "2026-08-31"); err != nil {
		t.Fatalf("set env: %v", err)
	}
	if err := SetEnv("JOB_COUNT", "7"); err != nil {
		t.Fatalf("set env: %v", err)
	}

	raw, err := os.ReadFile(envFile)
	if err != nil {
		t.Fatalf("read env file: %v", err)
	}
	want := "REPORT_DATE=2026-08-31\nJOB_COUNT=7\n"
	if string(raw) != want {
		t.Fatalf("unexpected env file content: %q", raw)
	}
}
