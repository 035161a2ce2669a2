package shared

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

var publisherEnvKeys = []string{
	"HEDERA_NETWORK", "PINATA_JWT", "PINATA_BASE_URL", "IPFS_PUBLIC_UPLOAD_URL",
	"IPFS_GATEWAY_URL", "MIRROR_BASE_URL", "RECIPIENT_ACCOUNT_ID",
	"FINALIZATION_TIMEOUT", "METADATA_LIMIT", "LOG_MODE",
}

func unsetPublisherEnv(t *testing.T) {
	t.Helper()
	resetOperatorEnv(t)
	for _, key := range publisherEnvKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadPublisherConfigDefaults(t *testing.T) {
	unsetPublisherEnv(t)

	config, err := LoadPublisherConfig("")
	if err != nil {
		t.Fatalf("LoadPublisherConfig failed: %v", err)
	}
	if config.HasPinataCredential() {
		t.Fatal("expected no pinata credential by default")
	}
	if config.PinataBaseURL != DefaultPinataBaseURL {
		t.Fatalf("unexpected pinata base URL: %s", config.PinataBaseURL)
	}
	if config.PublicUploadURL != DefaultPublicUploadURL {
		t.Fatalf("unexpected public upload URL: %s", config.PublicUploadURL)
	}
	if config.MirrorBaseURL != "https://testnet.mirrornode.hedera.com" {
		t.Fatalf("unexpected mirror URL: %s", config.MirrorBaseURL)
	}
	if config.FinalizationTimeout != 2*time.Minute {
		t.Fatalf("unexpected finalization timeout: %s", config.FinalizationTimeout)
	}
	if config.MetadataLimit != 100 {
		t.Fatalf("unexpected metadata limit: %d", config.MetadataLimit)
	}
}

func TestLoadPublisherConfigEnvironment(t *testing.T) {
	unsetPublisherEnv(t)
	t.Setenv("PINATA_JWT", "  jwt-value  ")
	t.Setenv("HEDERA_NETWORK", "mainnet")
	t.Setenv("FINALIZATION_TIMEOUT", "45s")

	config, err := LoadPublisherConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("LoadPublisherConfig failed: %v", err)
	}
	if !config.HasPinataCredential() || config.PinataJWT != "jwt-value" {
		t.Fatalf("expected trimmed pinata JWT, got %q", config.PinataJWT)
	}
	if config.MirrorBaseURL != "https://mainnet-public.mirrornode.hedera.com" {
		t.Fatalf("unexpected mirror URL: %s", config.MirrorBaseURL)
	}
	if config.FinalizationTimeout != 45*time.Second {
		t.Fatalf("unexpected finalization timeout: %s", config.FinalizationTimeout)
	}
}

func TestLoadPublisherConfigFile(t *testing.T) {
	unsetPublisherEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "pinata_jwt = \"file-jwt\"\ngateway_url = \"https://gateway.example.com/\"\nmetadata_limit = 256\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	config, err := LoadPublisherConfig(path)
	if err != nil {
		t.Fatalf("LoadPublisherConfig failed: %v", err)
	}
	if config.PinataJWT != "file-jwt" {
		t.Fatalf("expected pinata JWT from file, got %q", config.PinataJWT)
	}
	if config.GatewayURL != "https://gateway.example.com" {
		t.Fatalf("expected trimmed gateway URL, got %q", config.GatewayURL)
	}
	if config.MetadataLimit != 256 {
		t.Fatalf("expected metadata limit 256, got %d", config.MetadataLimit)
	}
}

func TestLoadPublisherConfigRejectsUnknownNetwork(t *testing.T) {
	unsetPublisherEnv(t)
	t.Setenv("HEDERA_NETWORK", "devnet")

	if _, err := LoadPublisherConfig(""); err == nil {
		t.Fatal("expected error for unsupported network")
	}
}
