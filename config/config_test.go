package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"FARMQ_DATABASE_URL", "FARMQ_DATA_DIR", "FARMQ_VIEWS_FILE",
		"FARMQ_LOG_LEVEL", "FARMQ_PAGE_SIZE", "FARMQ_LOG_JSON",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
database_url = "postgres://localhost/farm"
data_dir = "/srv/farm"
views_file = "my-views.jsonc"
page_size = 12
log_level = "info"
`)

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/farm", c.DatabaseURL)
	assert.Equal(t, "/srv/farm", c.DataDir)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "my-views.jsonc"), c.ViewsFile)
	assert.Equal(t, 12, c.PageSize)
	assert.Equal(t, "info", c.LogLevel)
	assert.False(t, c.LogJSON)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "page_size = 12\n")
	t.Setenv("FARMQ_PAGE_SIZE", "20")
	t.Setenv("FARMQ_LOG_LEVEL", "debug")
	t.Setenv("FARMQ_LOG_JSON", "true")
	t.Setenv("FARMQ_VIEWS_FILE", "/tmp/v.jsonc")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 20, c.PageSize)
	assert.Equal(t, "debug", c.LogLevel)
	assert.True(t, c.LogJSON)
	assert.Equal(t, "/tmp/v.jsonc", c.ViewsFile)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
		want    string
	}{
		{name: "unknown key", content: "pagesize = 3\n", want: `unknown key "pagesize"`},
		{name: "bad toml", content: "page_size = \n", want: "config"},
		{name: "negative page size", content: "page_size = -1\n", want: "page_size must be non-negative"},
		{name: "bad level", content: `log_level = "loud"` + "\n", want: "log_level"},
		{name: "bad env int", env: map[string]string{"FARMQ_PAGE_SIZE": "many"}, want: "FARMQ_PAGE_SIZE"},
		{name: "bad env bool", env: map[string]string{"FARMQ_LOG_JSON": "sometimes"}, want: "FARMQ_LOG_JSON"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeConfig(t, tt.content))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLoadMissing(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	// the default file is optional
	t.Chdir(t.TempDir())
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), *c)
}

func TestDataFile(t *testing.T) {
	dir := t.TempDir()
	c := &Config{DataDir: dir}
	assert.Empty(t, c.DataFile("acquisitions"))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "acquisitions.yaml"), []byte("[]"), 0o644))
	assert.Equal(t, filepath.Join(dir, "acquisitions.yaml"), c.DataFile("acquisitions"))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "acquisitions.json"), []byte("[]"), 0o644))
	assert.Equal(t, filepath.Join(dir, "acquisitions.json"), c.DataFile("acquisitions"))

	assert.Empty(t, (&Config{}).DataFile("acquisitions"))
}
