package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/terragridgo/internal/hclgraph"
	"github.com/specialistvlad/terragridgo/internal/registry"
	"github.com/specialistvlad/terragridgo/internal/testutil"
)

// SetupAppTest creates a new app instance with debug logging for system
// testing. With TERRAGRID_TEST_LOGS=true the log is dumped after the test.
func SetupAppTest(t *testing.T, cfg *Config, modules ...registry.Module) (*App, *testutil.SafeBuffer) {
	t.Helper()

	logBuffer := &testutil.SafeBuffer{}
	cfg.LogLevel = "debug"
	cfg.LogFormat = "text"
	testApp := NewApp(logBuffer, cfg, hclgraph.NewLoader(), modules...)

	t.Cleanup(func() {
		if os.Getenv("TERRAGRID_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, logBuffer
}

// WriteGraphFile writes an HCL graph document into dir and returns its path.
func WriteGraphFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write graph file: %v", err)
	}
	return path
}
