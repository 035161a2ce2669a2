package shared

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	DefaultPinataBaseURL   = "https://api.pinata.cloud"
	DefaultPublicUploadURL = "https://ipfs.io/ipfs"
	DefaultGatewayURL      = "https://ipfs.io"

	publisherConfigDir  = ".assetpub"
	publisherConfigFile = "config.toml"
)

// PublisherConfig carries the settings of the publication pipeline. Values
// come from a config file (TOML, YAML or JSON, chosen by extension) and are
// overridden by the environment.
type PublisherConfig struct {
	Network             string        `toml:"network" yaml:"network" json:"network" env:"HEDERA_NETWORK" env-default:"testnet"`
	PinataJWT           string        `toml:"pinata_jwt" yaml:"pinata_jwt" json:"pinata_jwt" env:"PINATA_JWT"`
	PinataBaseURL       string        `toml:"pinata_base_url" yaml:"pinata_base_url" json:"pinata_base_url" env:"PINATA_BASE_URL" env-default:"https://api.pinata.cloud"`
	PublicUploadURL     string        `toml:"public_upload_url" yaml:"public_upload_url" json:"public_upload_url" env:"IPFS_PUBLIC_UPLOAD_URL" env-default:"https://ipfs.io/ipfs"`
	GatewayURL          string        `toml:"gateway_url" yaml:"gateway_url" json:"gateway_url" env:"IPFS_GATEWAY_URL" env-default:"https://ipfs.io"`
	MirrorBaseURL       string        `toml:"mirror_base_url" yaml:"mirror_base_url" json:"mirror_base_url" env:"MIRROR_BASE_URL"`
	RecipientAccountID  string        `toml:"recipient_account_id" yaml:"recipient_account_id" json:"recipient_account_id" env:"RECIPIENT_ACCOUNT_ID"`
	FinalizationTimeout time.Duration `toml:"finalization_timeout" yaml:"finalization_timeout" json:"finalization_timeout" env:"FINALIZATION_TIMEOUT" env-default:"2m"`
	MetadataLimit       int           `toml:"metadata_limit" yaml:"metadata_limit" json:"metadata_limit" env:"METADATA_LIMIT" env-default:"100"`
	LogMode             string        `toml:"log_mode" yaml:"log_mode" json:"log_mode" env:"LOG_MODE" env-default:"development"`
}

// DefaultPublisherConfigPath is ~/.assetpub/config.toml.
func DefaultPublisherConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, publisherConfigDir, publisherConfigFile), nil
}

// LoadPublisherConfig reads path when it exists and applies environment
// overrides. A missing file is not an error; an empty path reads only the
// environment.
func LoadPublisherConfig(path string) (PublisherConfig, error) {
	loadDotEnvIfPresent()

	var config PublisherConfig
	trimmedPath := strings.TrimSpace(path)
	if trimmedPath != "" {
		if _, err := os.Stat(trimmedPath); err == nil {
			if err := cleanenv.ReadConfig(trimmedPath, &config); err != nil {
				return PublisherConfig{}, fmt.Errorf("failed to read publisher config %s: %w", trimmedPath, err)
			}
			return config.normalize()
		} else if !errors.Is(err, fs.ErrNotExist) {
			return PublisherConfig{}, fmt.Errorf("failed to stat publisher config %s: %w", trimmedPath, err)
		}
	}

	if err := cleanenv.ReadEnv(&config); err != nil {
		return PublisherConfig{}, fmt.Errorf("failed to read publisher environment: %w", err)
	}
	return config.normalize()
}

func (c PublisherConfig) normalize() (PublisherConfig, error) {
	network, err := NormalizeNetwork(c.Network)
	if err != nil {
		return PublisherConfig{}, err
	}
	c.Network = network

	c.PinataJWT = strings.TrimSpace(c.PinataJWT)
	c.PinataBaseURL = strings.TrimRight(strings.TrimSpace(c.PinataBaseURL), "/")
	c.PublicUploadURL = strings.TrimSpace(c.PublicUploadURL)
	c.GatewayURL = strings.TrimRight(strings.TrimSpace(c.GatewayURL), "/")
	if c.PinataBaseURL == "" {
		c.PinataBaseURL = DefaultPinataBaseURL
	}
	if c.PublicUploadURL == "" {
		c.PublicUploadURL = DefaultPublicUploadURL
	}
	if c.GatewayURL == "" {
		c.GatewayURL = DefaultGatewayURL
	}

	if strings.TrimSpace(c.MirrorBaseURL) == "" {
		mirrorURL, err := DefaultMirrorBaseURL(network)
		if err != nil {
			return PublisherConfig{}, err
		}
		c.MirrorBaseURL = mirrorURL
	}

	if c.FinalizationTimeout < 0 {
		return PublisherConfig{}, fmt.Errorf("finalization timeout must not be negative")
	}
	if c.MetadataLimit < 0 {
		return PublisherConfig{}, fmt.Errorf("metadata limit must not be negative")
	}

	return c, nil
}

// HasPinataCredential reports whether the authenticated pinning provider is
// configured.
func (c PublisherConfig) HasPinataCredential() bool {
	return c.PinataJWT != ""
}
