package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/sells-group/cinemetrics/internal/config"
)

func TestKeySetAndDelete(t *testing.T) {
	keyring.MockInit()

	var buf bytes.Buffer
	keySetCmd.SetOut(&buf)
	keyDeleteCmd.SetOut(&buf)
	t.Cleanup(func() {
		keySetCmd.SetOut(nil)
		keyDeleteCmd.SetOut(nil)
	})

	require.NoError(t, keySetCmd.RunE(keySetCmd, []string{"abc123"}))
	got, err := keyring.Get(config.KeyringService, config.KeyringAccount)
	require.NoError(t, err)
	assert.Equal(t, "abc123", got)

	require.NoError(t, keyDeleteCmd.RunE(keyDeleteCmd, nil))
	_, err = keyring.Get(config.KeyringService, config.KeyringAccount)
	assert.ErrorIs(t, err, keyring.ErrNotFound)

	// Deleting again is not an error.
	require.NoError(t, keyDeleteCmd.RunE(keyDeleteCmd, nil))
	assert.Contains(t, buf.String(), "saved to keychain")
}
