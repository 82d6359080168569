package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDefaultDBPathOnly(t *testing.T) {
	p := GetDefaultDBPathOnly()
	assert.Equal(t, "recipebox.db", filepath.Base(p))
	assert.Equal(t, "recipebox", filepath.Base(filepath.Dir(p)))
}

func TestGetDefaultConfigPath(t *testing.T) {
	p := GetDefaultConfigPath()
	if p == "" {
		t.Skip("no home directory")
	}
	assert.Equal(t, "config.yaml", filepath.Base(p))
}

func TestResolveAndEnsureDBPath_CreatesParent(t *testing.T) {
	target := filepath.Join(t.TempDir(), "nested", "dir", "box.db")

	resolved, err := ResolveAndEnsureDBPath(target)
	require.NoError(t, err)
	assert.Equal(t, target, resolved)

	info, err := os.Stat(filepath.Dir(target))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestResolveAndEnsureDBPath_Memory(t *testing.T) {
	resolved, err := ResolveAndEnsureDBPath(":memory:")
	require.NoError(t, err)
	assert.Equal(t, ":memory:", resolved)
}

func TestResolveAndEnsureDBPath_RelativeBecomesAbsolute(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	resolved, err := ResolveAndEnsureDBPath("box.db")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(resolved))
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	got, err := ExpandHome("~/recipes.db")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "recipes.db"), got)

	got, err = ExpandHome("/tmp/recipes.db")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/recipes.db", got)
}
