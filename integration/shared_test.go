//go:build basic || database

package integration

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
)

var (
	// sharedTrendboxPath holds the path to a trendbox binary built once for all tests.
	sharedTrendboxPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	code := m.Run()

	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getTrendboxBinary returns the path to the trendbox binary, building it once if needed.
func getTrendboxBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "trendbox-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		trendboxPath := filepath.Join(tempDir, "trendbox")
		buildCmd := exec.Command("go", "build", "-o", trendboxPath, ".")
		buildCmd.Dir = ".." // Build from project root
		if err := buildCmd.Run(); err != nil {
			panic(fmt.Sprintf("failed to build trendbox: %v", err))
		}

		sharedTrendboxPath = trendboxPath
	})

	return sharedTrendboxPath
}

// runTrendbox runs the CLI from the project root with extra environment
// variables and returns its stdout.
func runTrendbox(t *testing.T, env []string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getTrendboxBinary(), args...)
	cmd.Dir = ".."
	cmd.Env = append(os.Environ(), env...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		t.Logf("Command failed: %s\nStdout: %s\nStderr: %s", cmd.String(), stdout.String(), stderr.String())
		return stdout.String(), err
	}
	return stdout.String(), nil
}
