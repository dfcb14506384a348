package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// setupEnv writes an aether config pointing at a temp Ghostty config and theme
// directory and returns the aether config path.
func setupEnv(t *testing.T, ghosttyConfig string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	themeDir := filepath.Join(dir, "themes")
	require.NoError(t, os.MkdirAll(themeDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(themeDir, "Custom"),
		[]byte("palette = 1=#ff0000\nbackground = #1e1e2e\n"), 0644))

	ghosttyPath := filepath.Join(dir, "ghostty.conf")
	if ghosttyConfig != "" {
		require.NoError(t, os.WriteFile(ghosttyPath, []byte(ghosttyConfig), 0644))
	}

	configPath := filepath.Join(dir, "config.toml")
	content := fmt.Sprintf("[terminal]\nconfig_paths = [%q]\ntheme_dirs = [%q]\n", ghosttyPath, themeDir)
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))
	return configPath, ghosttyPath
}

func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	globalOpts.verbose = false
	globalOpts.configPath = ""
	syncOpts.format = "plain"
	debugOpts.format = "plain"
	paletteOpts.format = "plain"
	paletteOpts.raw = false
	themesOpts.format = "plain"

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestThemesCommand(t *testing.T) {
	configPath, _ := setupEnv(t, "")

	stdout, _, err := executeCommand(t, "--config", configPath, "themes", "--format", "json")
	require.NoError(t, err)

	var list struct {
		Themes []struct {
			Name   string `json:"name"`
			Source string `json:"source"`
		} `json:"themes"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &list))

	names := make(map[string]string)
	for _, th := range list.Themes {
		names[th.Name] = th.Source
	}
	assert.Equal(t, "custom", names["Custom"])
	assert.Equal(t, "embedded", names["Dracula"])
}

func TestPaletteCommand(t *testing.T) {
	configPath, _ := setupEnv(t, "theme = Custom\n")

	stdout, _, err := executeCommand(t, "--config", configPath, "palette", "--format", "yaml")
	require.NoError(t, err)

	var out struct {
		Theme  string            `yaml:"theme"`
		Base16 map[string]string `yaml:"base16"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, "Custom", out.Theme)
	assert.Equal(t, "#1e1e2e", out.Base16["base00"])
	assert.Equal(t, "#ff0000", out.Base16["base08"])
	assert.Equal(t, "#ff0000", out.Base16["base09"])
}

func TestPaletteCommand_EmbeddedTheme(t *testing.T) {
	configPath, _ := setupEnv(t, "")

	stdout, _, err := executeCommand(t, "--config", configPath, "palette", "Nord")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Nord [embedded]")
	assert.Contains(t, stdout, "base00")
}

func TestPaletteCommand_UnknownTheme(t *testing.T) {
	configPath, _ := setupEnv(t, "")

	_, _, err := executeCommand(t, "--config", configPath, "palette", "NoSuchTheme")
	assert.ErrorContains(t, err, "theme file not found")
}

func TestSyncCommand(t *testing.T) {
	configPath, _ := setupEnv(t, "theme = \"Custom\"\n")

	stdout, _, err := executeCommand(t, "--config", configPath, "sync", "--format", "json")
	require.NoError(t, err)

	var out syncOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, "Custom", out.Theme)
	assert.Equal(t, "custom", out.Source)
	assert.Equal(t, "#1e1e2e", out.Colors["base00"])
}

func TestSyncCommand_NoTerminalConfig(t *testing.T) {
	configPath, ghosttyPath := setupEnv(t, "")

	_, stderr, err := executeCommand(t, "--config", configPath, "sync")
	require.Error(t, err)
	assert.Contains(t, stderr, "warning: aether: no theme set in terminal config")
	assert.Contains(t, stderr, ghosttyPath)
}

func TestDebugCommand(t *testing.T) {
	configPath, ghosttyPath := setupEnv(t, "theme = Custom\n")

	stdout, _, err := executeCommand(t, "--config", configPath, "debug", "--format", "json")
	require.NoError(t, err)

	var report map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Equal(t, ghosttyPath, report["config_path"])
	assert.Equal(t, "Custom", report["detected_theme"])
	assert.Equal(t, "idle", report["state"])
	assert.Equal(t, true, report["theme_file_exists"])
	assert.NotContains(t, report, "last_synced_theme")
}

func TestInvalidFormat(t *testing.T) {
	configPath, _ := setupEnv(t, "")

	_, _, err := executeCommand(t, "--config", configPath, "themes", "--format", "xml")
	assert.Error(t, err)
}
