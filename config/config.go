package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/spf13/viper"
)

type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Network NetworkConfig `mapstructure:"network"`
	Wallet  WalletConfig  `mapstructure:"wallet"`
	Funding FundingConfig `mapstructure:"funding"`
}

type AppConfig struct {
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`
}

type NetworkConfig struct {
	RPCURL       string        `mapstructure:"rpc_url"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

type WalletConfig struct {
	VaultPath string `mapstructure:"vault_path"`
}

type FundingConfig struct {
	AmountSOL string `mapstructure:"amount_sol"`
}

// Load reads lumen.yaml from the working directory or ~/.lumen, then applies
// LUMEN_* environment overrides (network.rpc_url -> LUMEN_NETWORK_RPC_URL).
// A missing config file is not an error.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("lumen")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if dir, err := Dir(); err == nil {
		v.AddConfigPath(dir)
	}

	v.SetEnvPrefix("lumen")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SaveRPCURL persists network.rpc_url to the per-user config file, keeping
// any other keys already in it. It returns the file written.
func SaveRPCURL(url string) (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	path := filepath.Join(dir, "lumen.yaml")

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	v.Set("network.rpc_url", url)
	if err := v.WriteConfigAs(path); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// Dir is the per-user directory holding the local wallet vault and config.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".lumen"), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.log_level", "warn")

	v.SetDefault("network.rpc_url", rpc.DevNet_RPC)
	v.SetDefault("network.poll_interval", 500*time.Millisecond)

	vaultPath := "wallet.vault"
	if dir, err := Dir(); err == nil {
		vaultPath = filepath.Join(dir, "wallet.vault")
	}
	v.SetDefault("wallet.vault_path", vaultPath)

	v.SetDefault("funding.amount_sol", "2")
}
