package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/noahmayr/vjj/internal/config"
	"github.com/noahmayr/vjj/internal/engine"
	"github.com/noahmayr/vjj/internal/errors"
	"github.com/noahmayr/vjj/pkg/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
keymap: /tmp/my-keymap.yaml
jj: /opt/bin/jj
pager: [less, -R]
log_file: /tmp/vjj.log
debug: true
`

func TestLoadConfigFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
		check   func(t *testing.T, cfg *config.Config)
		wantErr bool
	}{
		{
			name:    "valid overrides",
			content: validYAML,
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "/tmp/my-keymap.yaml", cfg.Keymap)
				assert.Equal(t, "/opt/bin/jj", cfg.JJ)
				assert.Equal(t, "fzf", cfg.Fzf)
				assert.Equal(t, "/bin/sh", cfg.Shell)
				assert.Equal(t, []string{"less", "-R"}, cfg.Pager)
				assert.Equal(t, "/tmp/vjj.log", cfg.LogFile)
				assert.True(t, cfg.Debug)
			},
		},
		{
			name:    "empty file keeps defaults",
			content: "",
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, config.New(), cfg)
			},
		},
		{
			name:    "invalid syntax",
			content: "jj: [unterminated",
			wantErr: true,
		},
		{
			name:    "invalid value",
			content: "shell: \"\"",
			wantErr: true,
		},
		{
			name:    "empty pager argument",
			content: "pager: [less, \" \"]",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := testutils.WriteFile(t, "config.yaml", tt.content)
			cfg, err := config.LoadConfigFile(path)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsInvalidConfig(err))
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoadConfigFileMissing(t *testing.T) {
	cfg, err := config.LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.New(), cfg)
}

func TestLoadConfigFromEnv(t *testing.T) {
	path := testutils.WriteFile(t, "config.yaml", "fzf: /usr/local/bin/fzf\n")
	t.Setenv(config.EnvConfig, path)

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "/usr/local/bin/fzf", cfg.Fzf)
}

func TestDefaultKeymapIsValid(t *testing.T) {
	cfg := config.New()
	store := cfg.KeymapStore()
	require.NoError(t, store.Err())
	assert.Equal(t, []string{"normal", "obslog", "revset"}, store.Modes())
	assert.NoError(t, store.Validate(engine.Variables))
}

func TestUserKeymap(t *testing.T) {
	path := testutils.WriteFile(t, "keymap.yaml", "normal:\n  x:\n    help: quit\n    actions: [quit]\n")
	cfg := config.New()
	cfg.Keymap = path

	store := cfg.KeymapStore()
	require.NoError(t, store.Err())
	assert.Equal(t, path, store.Source())
	assert.Equal(t, []string{"normal"}, store.Modes())
}

func TestUserKeymapMissing(t *testing.T) {
	cfg := config.New()
	cfg.Keymap = filepath.Join(t.TempDir(), "missing.yaml")

	store := cfg.KeymapStore()
	_, err := store.Lookup("normal")
	require.Error(t, err)
	assert.True(t, errors.IsFileNotFound(err))
}

func TestKeymapPathExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	cfg := config.New()
	cfg.Keymap = "~/keys.yaml"
	assert.Equal(t, filepath.Join(home, "keys.yaml"), cfg.KeymapPath())
}

func TestLogOverrides(t *testing.T) {
	assert.NoError(t, config.ValidateLogOverrides(config.LogOverrides()))

	assert.Error(t, config.ValidateLogOverrides("[templates"))
	assert.Error(t, config.ValidateLogOverrides("[ui]\ncolor = 'always'\n"))
	assert.Error(t, config.ValidateLogOverrides("[templates]\nlog = 'commit_id'\n"))
}

func TestRunnerFromConfig(t *testing.T) {
	cfg := config.New()
	cfg.JJ = "/opt/jj"
	cfg.Pager = nil

	r := cfg.Runner()
	assert.Equal(t, "/opt/jj", r.JJ)
	assert.Equal(t, "/bin/sh", r.Shell)
	assert.Empty(t, r.Pager)
}
