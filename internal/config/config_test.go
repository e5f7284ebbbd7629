package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, "'", cfg.Style.QuoteChar())
	require.Equal(t, "  ", cfg.Style.IndentString())

	d, err := cfg.Write.LockTimeoutDuration()
	require.NoError(t, err)
	require.Equal(t, 5*time.Second, d)
}

func TestLoadConfig_Formats(t *testing.T) {
	files := map[string]string{
		".injectgen.yaml": `
style:
  quote: double
  indent: 4
  usage_hint: false
write:
  backup: true
  lock_timeout: 250ms
concurrency: 2
`,
		".injectgen.toml": `
concurrency = 2

[style]
quote = "double"
indent = 4
usage_hint = false

[write]
backup = true
lock_timeout = "250ms"
`,
		".injectgen.json": `{
  "style": {"quote": "double", "indent": 4, "usage_hint": false},
  "write": {"backup": true, "lock_timeout": "250ms"},
  "concurrency": 2
}`,
	}

	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

			cfg, err := LoadConfig(path)
			require.NoError(t, err)
			require.Equal(t, `"`, cfg.Style.QuoteChar())
			require.Equal(t, "    ", cfg.Style.IndentString())
			require.False(t, cfg.Style.UsageHint)
			require.True(t, cfg.Write.Backup)
			require.Equal(t, 2, cfg.Concurrency)

			d, err := cfg.Write.LockTimeoutDuration()
			require.NoError(t, err)
			require.Equal(t, 250*time.Millisecond, d)

			// unset sections keep their defaults
			require.Equal(t, DefaultConfig().Project, cfg.Project)
		})
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), ".injectgen.yaml"))
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_Invalid(t *testing.T) {
	cases := map[string]string{
		".injectgen.yaml": "style:\n  quote: backtick\n",
		".injectgen.yml":  "concurrency: 0\n",
		".injectgen.json": `{"write": {"lock_timeout": "soon"}}`,
		".injectgen.toml": "concurrency = \"many\"\n",
		"injectgen.ini":   "concurrency=1\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

			_, err := LoadConfig(path)
			require.Error(t, err)
		})
	}
}

func TestSaveConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Project.SourceRoot = "projects/shop/src/app"
	cfg.Write.DryRun = true

	for _, ext := range configExtensions {
		path := filepath.Join(t.TempDir(), "nested", configBaseName+ext)
		require.NoError(t, SaveConfig(cfg, path))

		loaded, err := LoadConfig(path)
		require.NoError(t, err)
		require.Equal(t, cfg, loaded, ext)
	}
}

func TestGetConfigPath(t *testing.T) {
	require.Equal(t, "custom.toml", GetConfigPath("custom.toml"))

	dir := t.TempDir()
	path := filepath.Join(dir, ".injectgen.toml")
	require.NoError(t, os.WriteFile(path, []byte("concurrency = 1\n"), 0o644))
	require.Equal(t, path, findIn(dir))
	require.Empty(t, findIn(t.TempDir()))
}
