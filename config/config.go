// Package config loads process configuration from the environment.
// All clients and stores are constructed once at startup from this struct
// and injected; nothing reads the environment after Load returns.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Devnet USDC mint. Override with USDC_MINT for other deployments.
const defaultUSDCMint = "4zMMC9srt5Ri5X14GAgXhaHii3GnPAEERYPJgZJDncDU"

type Config struct {
	Port          string `validate:"required"`
	RPCURL        string `validate:"required,url"`
	Network       string `validate:"required"`
	FacilitatorID string `validate:"required"`

	// Single fungible asset per deployment.
	USDCMint      string `validate:"required"`
	AssetDecimals uint8  `validate:"lte=18"`

	Commitment     string `validate:"oneof=processed confirmed finalized"`
	ConfirmTimeout time.Duration
	LogLevel       string
}

// Load reads the environment (optionally seeded from a .env file) and
// validates the result. Missing optional values get devnet-friendly defaults.
func Load() (*Config, error) {
	// A missing .env file is not an error; plain env vars still apply.
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("PORT", "4021"),
		RPCURL:         getEnv("RPC_URL", "https://api.devnet.solana.com"),
		Network:        getEnv("NETWORK", "solana-devnet"),
		FacilitatorID:  getEnv("FACILITATOR_ID", "solpay-facilitator"),
		USDCMint:       getEnv("USDC_MINT", defaultUSDCMint),
		AssetDecimals:  6,
		Commitment:     getEnv("COMMITMENT", "confirmed"),
		ConfirmTimeout: 60 * time.Second,
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}

	if v := os.Getenv("ASSET_DECIMALS"); v != "" {
		d, err := strconv.ParseUint(v, 10, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid ASSET_DECIMALS: %w", err)
		}
		cfg.AssetDecimals = uint8(d)
	}
	if v := os.Getenv("CONFIRM_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid CONFIRM_TIMEOUT: %w", err)
		}
		cfg.ConfirmTimeout = d
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
