package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "4021", cfg.Port)
	assert.Equal(t, "https://api.devnet.solana.com", cfg.RPCURL)
	assert.Equal(t, "solana-devnet", cfg.Network)
	assert.Equal(t, "solpay-facilitator", cfg.FacilitatorID)
	assert.Equal(t, defaultUSDCMint, cfg.USDCMint)
	assert.EqualValues(t, 6, cfg.AssetDecimals)
	assert.Equal(t, "confirmed", cfg.Commitment)
	assert.Equal(t, 60*time.Second, cfg.ConfirmTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("NETWORK", "solana")
	t.Setenv("COMMITMENT", "finalized")
	t.Setenv("ASSET_DECIMALS", "9")
	t.Setenv("CONFIRM_TIMEOUT", "90s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "solana", cfg.Network)
	assert.Equal(t, "finalized", cfg.Commitment)
	assert.EqualValues(t, 9, cfg.AssetDecimals)
	assert.Equal(t, 90*time.Second, cfg.ConfirmTimeout)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Run("commitment", func(t *testing.T) {
		t.Setenv("COMMITMENT", "hopeful")
		_, err := Load()
		assert.ErrorContains(t, err, "invalid configuration")
	})

	t.Run("rpc url", func(t *testing.T) {
		t.Setenv("RPC_URL", "not a url")
		_, err := Load()
		assert.ErrorContains(t, err, "invalid configuration")
	})

	t.Run("asset decimals", func(t *testing.T) {
		t.Setenv("ASSET_DECIMALS", "many")
		_, err := Load()
		assert.ErrorContains(t, err, "invalid ASSET_DECIMALS")
	})

	t.Run("confirm timeout", func(t *testing.T) {
		t.Setenv("CONFIRM_TIMEOUT", "soon")
		_, err := Load()
		assert.ErrorContains(t, err, "invalid CONFIRM_TIMEOUT")
	})
}
