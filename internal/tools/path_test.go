package tools

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecurePathAllowsNestedRelativePath(t *testing.T) {
	dir := t.TempDir()
	full, err := securePath(dir, "a/b/c.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a/b/c.txt"), full)
}

func TestSecurePathRejectsAbsolutePath(t *testing.T) {
	dir := t.TempDir()
	_, err := securePath(dir, "/etc/passwd")
	assert.Error(t, err)
}

func TestSecurePathRejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	_, err := securePath(dir, "../../etc/passwd")
	assert.Error(t, err)
}

func TestSecurePathRejectsSymlinkEscape(t *testing.T) {
	dir := t.TempDir()
	outside := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(outside, "secret.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Symlink(outside, filepath.Join(dir, "link")))

	_, err := securePath(dir, "link/secret.txt")
	assert.Error(t, err)
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "present.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	assert.True(t, fileExists(file))
	assert.False(t, fileExists(filepath.Join(dir, "absent.txt")))
}
