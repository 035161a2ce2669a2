// Package chain models the on-chain calls of the publication pipeline and
// drives each of them through build, sign, submit and finalization.
//
// A Connection builds and broadcasts transactions and answers storage
// queries; a Signer holds the paying key. The Submitter sends each call
// exactly once and reports one of:
//
//   - a Receipt carrying the expected domain event,
//   - RejectedError when the transaction never entered a block,
//   - FailedError when it was included but execution failed,
//   - ErrFinalizationTimeout when no final status arrived,
//   - ErrExpectedEventMissing (with the Receipt) when it finalized without
//     the expected event.
package chain
