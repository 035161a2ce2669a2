// Package mirror is a read-only client for the Hedera mirror node REST API.
// It answers the chain queries the publisher needs after a transaction has
// been submitted: token (collection) and NFT (item) state, the most recent
// block, and the transactions recorded in it.
//
// Missing tokens and NFTs are reported as nil results rather than errors so
// callers can tell "absent" apart from "unknown".
package mirror
