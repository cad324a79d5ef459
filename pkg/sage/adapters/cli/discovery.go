package cli

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/sageagent/sage-sdk-go/pkg/sagerrs"
)

// cliPathEnv overrides binary discovery without code changes.
const cliPathEnv = "SAGE_CLI_PATH"

// findCLI locates the sage binary: explicit override, then the
// environment, then $PATH, then well-known install locations.
func findCLI(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	if env := os.Getenv(cliPathEnv); env != "" {
		return env, nil
	}
	if path, err := exec.LookPath("sage"); err == nil {
		return path, nil
	}
	for _, candidate := range wellKnownPaths() {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	return "", sagerrs.NewConnectionError(
		sagerrs.ErrCodeCLINotFound,
		"sage CLI not found; install it and ensure it is on PATH, or set "+cliPathEnv,
		nil,
	)
}

func wellKnownPaths() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return []string{"/usr/local/bin/sage"}
	}

	return []string{
		filepath.Join(home, ".local", "bin", "sage"),
		filepath.Join(home, ".npm-global", "bin", "sage"),
		filepath.Join(home, ".yarn", "bin", "sage"),
		"/usr/local/bin/sage",
	}
}
