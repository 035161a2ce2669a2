// Asset Publisher for Go publishes off-chain digital assets to IPFS and
// links them to NFT records on the Hedera network.
//
// A publication pairs a metadata descriptor (JSON or YAML) with a binary
// asset. The asset is pinned first, the descriptor is rewritten to point at
// it and pinned in turn, and the resulting ipfs:// locator becomes the
// on-chain metadata of a minted item.
//
// # Packages
//
//   - pkg/descriptor: descriptor loading and directory enumeration
//   - pkg/assets: matching descriptors to asset files
//   - pkg/pinning: Pinata and public IPFS pinning, gateway fetch
//   - pkg/publish: descriptor and asset publication
//   - pkg/chain: transaction submission and finalization tracking
//   - pkg/hederachain: Hedera token service connection and signer
//   - pkg/mint: collection creation, batch minting and item inspection
//   - pkg/setup: pipeline assembly from configuration
//
// # Installation
//
//	go get github.com/hashgraph-online/asset-publisher-go@latest
package asset_publisher_go
