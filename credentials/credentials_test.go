package credentials

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFrom(values map[string]string) func(string) string {
	return func(key string) string {
		return values[key]
	}
}

func TestCredentials(t *testing.T) {
	assert.False(t, Credentials{}.HasKeys())
	assert.False(t, Credentials{AccessKeyID: "ak"}.HasKeys())
	assert.False(t, Credentials{AccessKeyID: "  ", AccessKeySecret: "sk"}.HasKeys())
	assert.True(t, Credentials{AccessKeyID: "ak", AccessKeySecret: "sk"}.HasKeys())
}

func TestStaticProvider(t *testing.T) {
	provider := NewStaticProvider("ak", "sk")
	cred, err := provider.GetCredentials(context.TODO())
	assert.Nil(t, err)
	assert.Equal(t, "ak", cred.AccessKeyID)
	assert.Equal(t, "sk", cred.AccessKeySecret)
}

func TestLoadExplicitWins(t *testing.T) {
	cred, err := Load(LoadOptions{
		AccessKeyID:     "explicit-id",
		AccessKeySecret: "explicit-secret",
		Getenv: envFrom(map[string]string{
			EnvAccessKeyID:     "env-id",
			EnvAccessKeySecret: "env-secret",
		}),
		GlobalDir: t.TempDir(),
	})
	require.NoError(t, err)
	assert.Equal(t, "explicit-id", cred.AccessKeyID)
	assert.Equal(t, "explicit-secret", cred.AccessKeySecret)
}

func TestLoadFromEnvironment(t *testing.T) {
	cred, err := Load(LoadOptions{
		Getenv: envFrom(map[string]string{
			EnvAccessKeyID:     "env-id",
			EnvAccessKeySecret: "env-secret",
		}),
		GlobalDir: t.TempDir(),
	})
	require.NoError(t, err)
	assert.Equal(t, Credentials{AccessKeyID: "env-id", AccessKeySecret: "env-secret"}, cred)
}

func TestLoadFromIniProfile(t *testing.T) {
	dir := t.TempDir()
	content := "[default]\nacs_access_key_id = default-id\nacs_secret_access_key = default-secret\n\n[search]\nacs_access_key_id = search-id\nacs_secret_access_key = search-secret\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "credentials"), []byte(content), 0o600))

	cred, err := Load(LoadOptions{Getenv: envFrom(nil), GlobalDir: dir})
	require.NoError(t, err)
	assert.Equal(t, "default-id", cred.AccessKeyID)
	assert.Equal(t, "default-secret", cred.AccessKeySecret)

	cred, err = Load(LoadOptions{Getenv: envFrom(map[string]string{EnvProfile: "search"}), GlobalDir: dir})
	require.NoError(t, err)
	assert.Equal(t, "search-id", cred.AccessKeyID)
	assert.Equal(t, "search-secret", cred.AccessKeySecret)
}

func TestLoadMixesEnvironmentAndDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "acs.env"), []byte("ALIBABA_CLOUD_ACCESS_KEY_SECRET=file-secret\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o600))

	cred, err := Load(LoadOptions{
		Getenv:    envFrom(map[string]string{EnvAccessKeyID: "env-id"}),
		GlobalDir: dir,
	})
	require.NoError(t, err)
	assert.Equal(t, "env-id", cred.AccessKeyID)
	assert.Equal(t, "file-secret", cred.AccessKeySecret)
}

func TestLoadFailures(t *testing.T) {
	_, err := Load(LoadOptions{Getenv: envFrom(nil), GlobalDir: filepath.Join(t.TempDir(), "missing")})
	assert.ErrorIs(t, err, ErrNoCredentials)
	assert.ErrorIs(t, err, ErrNoConfigFileFound)

	_, err = Load(LoadOptions{Getenv: envFrom(nil), GlobalDir: t.TempDir()})
	assert.ErrorIs(t, err, ErrNoConfigFileFound)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "credentials"), []byte("[other]\nacs_access_key_id = x\n"), 0o600))
	_, err = Load(LoadOptions{Getenv: envFrom(nil), GlobalDir: dir})
	assert.ErrorIs(t, err, ErrNoCredentials)
	assert.NotErrorIs(t, err, ErrNoConfigFileFound)
}

func TestLoadedProvider(t *testing.T) {
	provider, err := NewLoadedProvider(LoadOptions{
		AccessKeyID:     "ak",
		AccessKeySecret: "sk",
		Getenv:          envFrom(nil),
	})
	require.NoError(t, err)
	cred, err := provider.GetCredentials(context.Background())
	require.NoError(t, err)
	assert.True(t, cred.HasKeys())

	_, err = NewLoadedProvider(LoadOptions{Getenv: envFrom(nil), GlobalDir: t.TempDir()})
	assert.Error(t, err)
}
