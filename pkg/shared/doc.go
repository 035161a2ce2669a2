// Package shared holds the configuration plumbing used by every other package
// of the asset publisher: ledger network normalization, operator credential
// loading from the environment or a nearby .env file, private key parsing,
// and the publisher settings (pinning credential, endpoints, finalization
// timeout, metadata bound) read through cleanenv.
//
// # Environment Variables
//
// Operator credentials are resolved from HEDERA_ACCOUNT_ID / HEDERA_PRIVATE_KEY
// (and their aliases), with MAINNET_* and TESTNET_* scoped overrides taking
// precedence for the selected network. Publisher settings are documented on
// PublisherConfig.
package shared
