// Package ci signals run results to GitHub Actions so downstream workflow
// steps (mailer, pages deploy) can pick them up.
package ci

import (
	"fmt"
	"os"
)

// IsCI reports whether the process runs inside GitHub Actions.
func IsCI() bool {
	return os.Getenv("GITHUB_ACTIONS") == "true"
}

// SetEnv exports key=value to subsequent workflow steps by appending to the
// file named in GITHUB_ENV. Outside of CI it is a no-op.
func SetEnv(key, value string) error {
	if !IsCI() {
		return nil
	}

	envFile := os.Getenv("GITHUB_ENV")
	if envFile == "" {
		return nil
	}

	f, err := os.OpenFile(envFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening GITHUB_ENV: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%s=%s\n", key, value); err != nil {
		return fmt.Errorf("writing GITHUB_ENV: %w", err)
	}
	return nil
}
