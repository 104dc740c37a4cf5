//go:build basic || database

package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
)

var (
	// sharedBinaryPath holds the path to a shared learnstat binary built once for all tests.
	sharedBinaryPath string

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

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getBinary returns the path to the learnstat binary, building it once if needed.
func getBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "learnstat-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		binPath := filepath.Join(tempDir, "learnstat")
		buildCmd := exec.Command("go", "build", "-o", binPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if out, err := buildCmd.CombinedOutput(); err != nil {
			panic(fmt.Sprintf("failed to build learnstat: %v\n%s", err, out))
		}

		sharedBinaryPath = binPath
	})

	return sharedBinaryPath
}

// runCommand runs the binary in dir with HOME pointed at dir, so default SQLite files stay
// inside the test sandbox. Extra env entries are appended as KEY=VALUE.
func runCommand(t *testing.T, dir string, env []string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getBinary(), args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "HOME="+dir)
	cmd.Env = append(cmd.Env, env...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Logf("Command failed: %s\nOutput: %s", cmd.String(), string(output))
	}
	return string(output), err
}

// writeStatsFile writes a small stats payload covering 2024-06-01..2024-06-03.
func writeStatsFile(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "stats.json")
	payload := `{
  "start_date": "2024-06-01",
  "end_date": "2024-06-03",
  "total_days": 3,
  "period_data": [
    {"date": "2024-06-01", "ai_info": 1, "terms": 30, "quiz_correct": 1, "quiz_total": 2, "quiz_score": 4},
    {"date": "2024-06-01", "ai_info": 2, "terms": 10, "quiz_correct": 0, "quiz_total": 2, "quiz_score": 6},
    {"date": "2024-06-03", "ai_info": 3, "terms": 60, "quiz_correct": 4, "quiz_total": 4, "quiz_score": 9}
  ]
}`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("failed to write stats file: %v", err)
	}
	return path
}
