package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Name    string            `json:"name"`
	Port    int               `json:"port"`
	Verbose bool              `json:"verbose"`
	Sources map[string]string `json:"sources"`
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	err := os.WriteFile(path, []byte(contents), 0600)
	if err != nil {
		t.Fatal(err)
	}
}

func TestSplitExt(t *testing.T) {
	name, ext := splitExt("config.json5")
	require.Equal(t, "config", name)
	require.Equal(t, "json5", ext)

	name, ext = splitExt("config")
	require.Equal(t, "config", name)
	require.Equal(t, "", ext)
}

func TestReadConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.json5"), `{
		// comments are allowed
		name: "disclosure",
	}`)

	cfg, err := ReadConfig(filepath.Join(dir, "config.json5"), testConfig{Port: 8000})
	require.NoError(t, err)
	require.Equal(t, "disclosure", cfg.Name)
	require.Equal(t, 8000, cfg.Port)
}

func TestReadConfigLocalOverride(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.json5"), `{name: "disclosure", port: 9000}`)
	writeFile(t, filepath.Join(dir, "config.local.json5"), `{port: 9100, sources: {ordinances: "http://localhost/ordinances"}}`)

	cfg, err := ReadConfig(filepath.Join(dir, "config.json5"), testConfig{Port: 8000})
	require.NoError(t, err)
	require.Equal(t, "disclosure", cfg.Name)
	require.Equal(t, 9100, cfg.Port)
	require.Equal(t, "http://localhost/ordinances", cfg.Sources["ordinances"])
}

func TestReadConfigMissing(t *testing.T) {
	dir := t.TempDir()
	cfg, err := ReadConfig(filepath.Join(dir, "config.json5"), testConfig{Port: 8000})
	require.True(t, os.IsNotExist(err))
	require.Equal(t, 8000, cfg.Port)
}

func TestReadConfigMalformed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.json5"), `{name: `)

	_, err := ReadConfig(filepath.Join(dir, "config.json5"), testConfig{})
	require.Error(t, err)
	require.False(t, os.IsNotExist(err))
}
