package contract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPlainLabel(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{name: "no activity", input: 0.0, expected: IdleValue},
		{name: "just before behind", input: 29.9, expected: IdleValue},
		{name: "exactly behind", input: 30.0, expected: BehindValue},
		{name: "just before on track", input: 69.9, expected: BehindValue},
		{name: "exactly on track", input: 70.0, expected: OnTrackValue},
		{name: "just before complete", input: 99.9, expected: OnTrackValue},
		{name: "exactly complete", input: 100.0, expected: CompleteValue},
		{name: "over completion", input: 167.0, expected: CompleteValue},
		{name: "negative", input: -5.0, expected: IdleValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetPlainLabel(tt.input))
		})
	}
}

func TestGetColorLabel(t *testing.T) {
	for _, v := range []float64{0, 30, 70, 100} {
		got := GetColorLabel(v)
		assert.Contains(t, got, GetPlainLabel(v))
	}
}

func TestParseBoolString(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
		wantErr  bool
	}{
		{"yes", true, false},
		{"YES", true, false},
		{"true", true, false},
		{"1", true, false},
		{"no", false, false},
		{"False", false, false},
		{"0", false, false},
		{"maybe", false, true},
		{"", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseBoolString(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseColorSetting(t *testing.T) {
	got, err := ParseColorSetting("yes")
	require.NoError(t, err)
	assert.True(t, got)

	got, err = ParseColorSetting("0")
	require.NoError(t, err)
	assert.False(t, got)

	// Under go test stdout is not a terminal.
	got, err = ParseColorSetting("auto")
	require.NoError(t, err)
	assert.Equal(t, IsTerminal(os.Stdout), got)

	_, err = ParseColorSetting("sometimes")
	assert.Error(t, err)
}

func TestIsTerminalOnRegularFile(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "tty")
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.False(t, IsTerminal(f))
}

func TestSelectOutputFile(t *testing.T) {
	f, err := SelectOutputFile("")
	require.NoError(t, err)
	assert.Equal(t, os.Stdout, f)

	path := filepath.Join(t.TempDir(), "out.txt")
	f, err = SelectOutputFile(path)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.FileExists(t, path)

	_, err = SelectOutputFile(filepath.Join(t.TempDir(), "missing", "out.txt"))
	assert.Error(t, err)
}

func TestDBFilePaths(t *testing.T) {
	assert.True(t, strings.HasSuffix(GetCacheDBFilePath(), ".learnstat_cache.db"))
	assert.True(t, strings.HasSuffix(GetRunsDBFilePath(), ".learnstat_runs.db"))
}

func TestTruncateCell(t *testing.T) {
	assert.Equal(t, "short", TruncateCell("short", 10))
	assert.Equal(t, "abcdefg...", TruncateCell("abcdefghijklmnop", 10))
	assert.Equal(t, "abcdef", TruncateCell("abcdef", 3))
	assert.Equal(t, "日本...", TruncateCell("日本語のテキスト", 5))
}
