//go:build integration

// Package integration contains integration tests for statscope.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags integration ./integration
// Or use: make test-integration
package integration

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// statsDocument is the subset of stats.json this test verifies.
type statsDocument struct {
	Snapshot struct {
		TotalCommits int                        `json:"totalCommits"`
		Authors      map[string]json.RawMessage `json:"authors"`
	} `json:"snapshot"`
}

// TestGenerateVerification runs statscope generate against this repository
// and cross-checks the folded totals against plain git queries.
func TestGenerateVerification(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	// Get current repo path
	repoPath, err := exec.Command("git", "rev-parse", "--show-toplevel").Output()
	require.NoError(t, err)
	repoDir := strings.TrimSpace(string(repoPath))

	statsDir := t.TempDir()
	cmd := exec.Command("./statscope", "generate", "--stats-dir", statsDir, "--project-backend", "none")
	cmd.Dir = repoDir
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "generate failed: %s", string(output))

	raw, err := os.ReadFile(filepath.Join(statsDir, "stats.json"))
	require.NoError(t, err)

	var doc statsDocument
	require.NoError(t, json.Unmarshal(raw, &doc))

	// Total commits must match git's own first-parent-inclusive count.
	countOut, err := exec.Command("git", "-C", repoDir, "rev-list", "--count", "HEAD").Output()
	require.NoError(t, err)
	wantCommits, err := strconv.Atoi(strings.TrimSpace(string(countOut)))
	require.NoError(t, err)
	assert.Equal(t, wantCommits, doc.Snapshot.TotalCommits)

	// Author identity count must match the shortlog.
	shortlogOut, err := exec.Command("git", "-C", repoDir, "shortlog", "-sne", "HEAD").Output()
	require.NoError(t, err)
	wantAuthors := len(strings.Split(strings.TrimSpace(string(shortlogOut)), "\n"))
	assert.Equal(t, wantAuthors, len(doc.Snapshot.Authors))

	// The chart page must exist and be non-trivial.
	html, err := os.Stat(filepath.Join(statsDir, "index.html"))
	require.NoError(t, err)
	assert.Greater(t, html.Size(), int64(0))
}
