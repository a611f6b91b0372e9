package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080},
		Chain: ChainConfig{
			Mode:                ChainModeLive,
			Network:             "preprod",
			BlockfrostProjectID: "preprodABC123",
			WalletSigningKey:    "addr_sk1deadbeef",
			TreasuryAddress:     "addr_test1treasury",
		},
	}
}

func TestValidateLiveModeRequiresCredentials(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.Validate())

	// Live mode without chain credentials is a startup failure, not a
	// fallback to demo behavior
	cfg = validConfig()
	cfg.Chain.BlockfrostProjectID = ""
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Chain.WalletSigningKey = ""
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Chain.TreasuryAddress = ""
	assert.Error(t, cfg.Validate())
}

func TestValidateDemoModeNeedsNoCredentials(t *testing.T) {
	cfg := validConfig()
	cfg.Chain = ChainConfig{Mode: ChainModeDemo, Network: "preprod"}
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsUnknownModeAndNetwork(t *testing.T) {
	cfg := validConfig()
	cfg.Chain.Mode = "simulated"
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Chain.Network = "testnet9"
	assert.Error(t, cfg.Validate())
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_FILE", "does-not-exist.json")
	t.Setenv("CHAIN_MODE", ChainModeDemo)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("ADMIN_EMAIL", "admin@ecodrop.io")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ChainModeDemo, cfg.Chain.Mode)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "admin@ecodrop.io", cfg.Admin.Email)
	assert.NotEmpty(t, cfg.Auth.JWTSecret)
}
