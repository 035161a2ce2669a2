// Package hederachain implements chain.Connection and chain.Signer on top of
// the Hedera SDK and the mirror node.
//
// Collections are non-fungible tokens whose treasury, admin, supply and
// metadata keys all belong to the operator. Item n of a collection is the
// NFT with serial number n+1. Metadata is attached after minting with a
// TokenUpdateNfts transaction, so the metadata key must stay on the token.
//
// Submission executes the frozen, signed transaction and waits for its
// receipt: precheck failures surface as chain.RejectedError and non-SUCCESS
// receipts as a finalized update carrying the status as dispatch error.
// Storage reads and recent events come from the mirror node.
package hederachain
