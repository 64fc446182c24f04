//go:build unit

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	c := Default()
	c.Repo = "test-owner/test-repo"
	c.Assignees = Assignees{
		Allowed:    []string{"test-owner", "test-owner-2", "test-developer"},
		Writers:    []string{"test-owner", "test-owner-2"},
		Developers: []string{"test-developer"},
	}
	return c
}

func TestDefault(t *testing.T) {
	c := Default()

	assert.Equal(t, "https://api.github.com", c.GitHub.APIHost)
	assert.Equal(t, "https://github.com", c.GitHub.HTTPHost)
	assert.Equal(t, "pages/", c.Paths.ContentFolder)
	assert.Equal(t, "content-revision-logs/", c.Paths.RevisionsLogFolder)
	assert.Equal(t, "content", c.Branches.Namespace)
	assert.Equal(t, "develop", c.Branches.Base)
	assert.Equal(t, []string{"draft", "2i", "ready for publishing"}, c.Labels.Vocabulary())
	assert.Equal(t, 120*time.Second, c.Cache.TTL)
	assert.Equal(t, 1024, c.Cache.Size)

	// No repository is configured by default.
	assert.ErrorIs(t, c.Validate(), ErrInvalidConfig)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{name: "valid config", mutate: func(*Config) {}},
		{name: "missing repo", mutate: func(c *Config) { c.Repo = "" }, wantErr: ErrInvalidConfig},
		{name: "repo without org", mutate: func(c *Config) { c.Repo = "test-repo" }, wantErr: ErrInvalidConfig},
		{name: "invalid api host", mutate: func(c *Config) { c.GitHub.APIHost = "not a url" }, wantErr: ErrInvalidConfig},
		{name: "namespace with separator", mutate: func(c *Config) { c.Branches.Namespace = "a__b" }, wantErr: ErrInvalidConfig},
		{name: "namespace ending with underscore", mutate: func(c *Config) { c.Branches.Namespace = "content_" }, wantErr: ErrInvalidConfig},
		{name: "namespace starting with underscore", mutate: func(c *Config) { c.Branches.Namespace = "_content" }, wantErr: ErrInvalidConfig},
		{name: "empty base", mutate: func(c *Config) { c.Branches.Base = "" }, wantErr: ErrInvalidConfig},
		{name: "empty label", mutate: func(c *Config) { c.Labels.TwoI = "" }, wantErr: ErrInvalidConfig},
		{name: "no allowed assignee", mutate: func(c *Config) { c.Assignees = Assignees{} }, wantErr: ErrInvalidConfig},
		{name: "negative ttl", mutate: func(c *Config) { c.Cache.TTL = -time.Second }, wantErr: ErrInvalidConfig},
		{name: "duplicate labels", mutate: func(c *Config) { c.Labels.TwoI = c.Labels.Draft }, wantErr: ErrDuplicateLabel},
		{
			name:    "writer outside allowed",
			mutate:  func(c *Config) { c.Assignees.Writers = append(c.Assignees.Writers, "stranger") },
			wantErr: ErrAssigneeNotAllowed,
		},
		{
			name:    "developer outside allowed",
			mutate:  func(c *Config) { c.Assignees.Developers = []string{"stranger"} },
			wantErr: ErrAssigneeNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(&c)

			err := c.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParse_OverridesDefaults(t *testing.T) {
	c, err := Parse([]byte(`
repo: test-owner/test-repo
branches:
  base: main
assignees:
  allowed: [test-owner]
cache:
  ttl: 5m
`))
	require.NoError(t, err)

	assert.Equal(t, "test-owner/test-repo", c.Repo)
	assert.Equal(t, "main", c.Branches.Base)
	assert.Equal(t, "content", c.Branches.Namespace)
	assert.Equal(t, []string{"test-owner"}, c.Assignees.Allowed)
	assert.Equal(t, 5*time.Minute, c.Cache.TTL)
	assert.NoError(t, c.Validate())
}

func TestParse_UnknownField(t *testing.T) {
	_, err := Parse([]byte("unknown: true\n"))
	assert.ErrorIs(t, err, ErrConfigFileParse)
}

func TestParse_Empty(t *testing.T) {
	c, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestRealManager_GetConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(`
repo: test-owner/test-repo
assignees:
  allowed: [test-owner, test-owner-2]
  writers: [test-owner, test-owner-2]
`), 0o644))

	c, err := NewManager(configPath).GetConfig()
	require.NoError(t, err)
	assert.Equal(t, "test-owner/test-repo", c.Repo)
	assert.Equal(t, []string{"test-owner", "test-owner-2"}, c.Assignees.Writers)
}

func TestRealManager_GetConfig_NotFound(t *testing.T) {
	_, err := NewManager(filepath.Join(t.TempDir(), "missing.yaml")).GetConfig()
	assert.ErrorIs(t, err, ErrConfigNotInitialized)
}

func TestRealManager_GetConfig_Invalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("repo: [not, a, string]\n"), 0o644))

	_, err := NewManager(configPath).GetConfig()
	assert.ErrorIs(t, err, ErrConfigFileParse)
}

func TestRealManager_GetConfigWithFallback(t *testing.T) {
	manager := NewManager(filepath.Join(t.TempDir(), "missing.yaml"))

	c, err := manager.GetConfigWithFallback()
	require.NoError(t, err)
	assert.Equal(t, manager.DefaultConfig(), c)
}

func TestRealManager_SaveConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")
	manager := NewManager(configPath)

	want := validConfig()
	require.NoError(t, manager.SaveConfig(want))

	got, err := manager.GetConfig()
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, configPath, manager.GetConfigPath())
}
