package config

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"github.com/zalando/go-keyring"
	"go.uber.org/zap"
)

// APIKeyEnv names the variable holding the OMDb key in the environment and
// in the dotenv file.
const APIKeyEnv = "OMDB_API_KEY"

// KeyringService groups cinemetrics secrets in the OS keychain.
const KeyringService = "cinemetrics"

// KeyringAccount is the keychain account holding the OMDb key.
const KeyringAccount = "omdb-api-key"

// ErrMissingAPIKey is returned when no source yields an API key.
var ErrMissingAPIKey = errors.New("OMDb API key not found: set OMDB_API_KEY in a .env file or the environment, or run `cinemetrics key set`")

// KeySource is one place an API key may come from.
type KeySource interface {
	// Name identifies the source in logs.
	Name() string
	// Lookup returns the key, or "" when the source has none.
	Lookup(ctx context.Context) (string, error)
}

// ResolveAPIKey returns the first non-empty key from sources, in order. A
// source error stops resolution. When every source is empty it returns
// ErrMissingAPIKey.
func ResolveAPIKey(ctx context.Context, sources ...KeySource) (string, error) {
	for _, src := range sources {
		key, err := src.Lookup(ctx)
		if err != nil {
			return "", eris.Wrapf(err, "config: api key from %s", src.Name())
		}
		key = strings.TrimSpace(key)
		if key != "" {
			zap.L().Debug("config: resolved api key", zap.String("source", src.Name()))
			return key, nil
		}
	}
	return "", ErrMissingAPIKey
}

// DotEnvSource reads OMDB_API_KEY from a dotenv file. A missing file is not
// an error.
type DotEnvSource struct {
	Path string
}

func (s DotEnvSource) Name() string { return "dotenv " + s.Path }

func (s DotEnvSource) Lookup(_ context.Context) (string, error) {
	if s.Path == "" {
		return "", nil
	}
	if _, err := os.Stat(s.Path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", eris.Wrap(err, "stat dotenv file")
	}

	v := viper.New()
	v.SetConfigFile(s.Path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		return "", eris.Wrap(err, "read dotenv file")
	}
	return v.GetString(APIKeyEnv), nil
}

// EnvSource reads OMDB_API_KEY from the process environment.
type EnvSource struct{}

func (EnvSource) Name() string { return "environment" }

func (EnvSource) Lookup(_ context.Context) (string, error) {
	return os.Getenv(APIKeyEnv), nil
}

// KeyringSource reads the key saved by SaveAPIKey. An unavailable keychain is
// treated as empty.
type KeyringSource struct{}

func (KeyringSource) Name() string { return "keyring" }

func (KeyringSource) Lookup(_ context.Context) (string, error) {
	key, err := keyring.Get(KeyringService, KeyringAccount)
	if err != nil {
		if !errors.Is(err, keyring.ErrNotFound) {
			zap.L().Debug("config: keyring unavailable", zap.Error(err))
		}
		return "", nil
	}
	return key, nil
}

// SaveAPIKey stores the key in the OS keychain.
func SaveAPIKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return eris.New("config: api key is empty")
	}
	return eris.Wrap(keyring.Set(KeyringService, KeyringAccount, key), "config: save api key")
}

// DeleteAPIKey removes the key from the OS keychain.
func DeleteAPIKey() error {
	err := keyring.Delete(KeyringService, KeyringAccount)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return eris.Wrap(err, "config: delete api key")
}

// PromptFunc asks the user for a key interactively.
type PromptFunc func(ctx context.Context) (string, error)

// PromptSource asks the user. It is skipped when Enabled is false, for
// example when stdin is not a terminal.
type PromptSource struct {
	Enabled bool
	Prompt  PromptFunc
}

func (s PromptSource) Name() string { return "prompt" }

func (s PromptSource) Lookup(ctx context.Context) (string, error) {
	if !s.Enabled || s.Prompt == nil {
		return "", nil
	}
	return s.Prompt(ctx)
}

// DefaultKeySources returns the standard precedence: dotenv file, process
// environment, OS keychain, then the interactive prompt.
func DefaultKeySources(dotEnvPath string, prompt PromptSource) []KeySource {
	return []KeySource{
		DotEnvSource{Path: dotEnvPath},
		EnvSource{},
		KeyringSource{},
		prompt,
	}
}
