package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected func(string) string
	}{
		{
			name:  "home directory expansion",
			input: "~/test/path",
			expected: func(home string) string {
				return filepath.Join(home, "test/path")
			},
		},
		{
			name:  "absolute path unchanged",
			input: "/absolute/path",
			expected: func(home string) string {
				return "/absolute/path"
			},
		},
		{
			name:  "relative path converted to absolute",
			input: "relative/path",
			expected: func(home string) string {
				abs, _ := filepath.Abs("relative/path")
				return abs
			},
		},
	}

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := expandPath(tt.input)
			expected := tt.expected(home)
			assert.Equal(t, expected, result)
		})
	}
}

func TestEnsureDir(t *testing.T) {
	tempDir := t.TempDir()
	testDir := filepath.Join(tempDir, "test", "nested", "dir")

	err := ensureDir(testDir)
	assert.NoError(t, err)
	assert.DirExists(t, testDir)

	// Creating an existing directory is a no-op.
	assert.NoError(t, ensureDir(testDir))
}

func TestRootCommandFlags(t *testing.T) {
	assert.Equal(t, "day", rootCmd.Flags().Lookup("group-by").DefValue)
	assert.Equal(t, "table", rootCmd.Flags().Lookup("output").DefValue)
	assert.Equal(t, "Local", rootCmd.Flags().Lookup("timezone").DefValue)
	assert.Equal(t, "10m0s", rootCmd.Flags().Lookup("merge-gap").DefValue)
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("db"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("debug"))
}

func TestSubcommandsRegistered(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["track"])
	assert.True(t, names["routes"])
	assert.True(t, names["projects"])
}
