package shared

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	hedera "github.com/hashgraph/hedera-sdk-go/v2"
	"github.com/joho/godotenv"
)

// OperatorConfig identifies the paying and signing account.
type OperatorConfig struct {
	AccountID  string
	PrivateKey string
	Network    string
}

var (
	accountIDKeys  = []string{"HEDERA_ACCOUNT_ID", "HEDERA_OPERATOR_ID", "ACCOUNT_ID", "OPERATOR_ID"}
	privateKeyKeys = []string{"HEDERA_PRIVATE_KEY", "HEDERA_OPERATOR_KEY", "PRIVATE_KEY", "OPERATOR_KEY"}
)

var dotenvLoadOnce sync.Once

// OperatorConfigFromEnv resolves operator credentials from the process
// environment, loading the nearest .env file first. Network-scoped variables
// (MAINNET_HEDERA_ACCOUNT_ID, TESTNET_HEDERA_PRIVATE_KEY, ...) override the
// generic ones for the selected network.
func OperatorConfigFromEnv() (OperatorConfig, error) {
	loadDotEnvIfPresent()

	network := firstNonEmptyEnv("HEDERA_NETWORK", "NETWORK")
	if network == "" {
		network = NetworkTestnet
	}

	accountID := firstNonEmptyEnv(accountIDKeys...)
	privateKey := firstNonEmptyEnv(privateKeyKeys...)

	prefix := strings.ToUpper(strings.TrimSpace(network)) + "_"
	if scoped := firstNonEmptyEnv(scopedKeys(prefix, accountIDKeys[:2], "OPERATOR_ID")...); scoped != "" {
		accountID = scoped
	}
	if scoped := firstNonEmptyEnv(scopedKeys(prefix, privateKeyKeys[:2], "OPERATOR_KEY")...); scoped != "" {
		privateKey = scoped
	}

	if accountID == "" {
		return OperatorConfig{}, fmt.Errorf("HEDERA_ACCOUNT_ID is required")
	}
	if privateKey == "" {
		return OperatorConfig{}, fmt.Errorf("HEDERA_PRIVATE_KEY is required")
	}

	return OperatorConfig{
		AccountID:  accountID,
		PrivateKey: privateKey,
		Network:    network,
	}, nil
}

func scopedKeys(prefix string, base []string, extra string) []string {
	keys := make([]string, 0, len(base)+1)
	for _, key := range base {
		keys = append(keys, prefix+key)
	}
	return append(keys, prefix+extra)
}

// loadDotEnvIfPresent loads the first .env found walking up from the working
// directory. Variables already present in the environment win.
func loadDotEnvIfPresent() {
	dotenvLoadOnce.Do(func() {
		cwd, err := os.Getwd()
		if err != nil {
			return
		}
		if path, ok := findDotEnv(cwd); ok {
			_ = loadDotEnvFile(path)
		}
	})
}

func findDotEnv(start string) (string, bool) {
	for current := start; ; current = filepath.Dir(current) {
		candidate := filepath.Join(current, ".env")
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate, true
		}
		if filepath.Dir(current) == current {
			return "", false
		}
	}
}

func loadDotEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func firstNonEmptyEnv(keys ...string) string {
	for _, key := range keys {
		if value := strings.TrimSpace(os.Getenv(key)); value != "" {
			return value
		}
	}
	return ""
}

// ParsePrivateKey accepts ED25519, ECDSA or DER-encoded private keys.
func ParsePrivateKey(raw string) (hedera.PrivateKey, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return hedera.PrivateKey{}, fmt.Errorf("private key cannot be empty")
	}

	ed25519Key, edErr := hedera.PrivateKeyFromStringEd25519(candidate)
	if edErr == nil {
		return ed25519Key, nil
	}
	ecdsaKey, ecdsaErr := hedera.PrivateKeyFromStringECDSA(candidate)
	if ecdsaErr == nil {
		return ecdsaKey, nil
	}
	genericKey, genericErr := hedera.PrivateKeyFromString(candidate)
	if genericErr == nil {
		return genericKey, nil
	}

	return hedera.PrivateKey{}, fmt.Errorf(
		"failed to parse private key as ED25519 (%v), ECDSA (%v), or generic (%v)",
		edErr,
		ecdsaErr,
		genericErr,
	)
}
