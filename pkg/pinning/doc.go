// Package pinning uploads content to IPFS through either the Pinata pinning
// API (when a JWT is configured) or the public ipfs.io upload endpoint, and
// returns ipfs:// locators. The provider is selected once when the client is
// built. Pinned content can be read back through an HTTP gateway.
package pinning
