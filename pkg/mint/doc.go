// Package mint orchestrates publication and minting: it creates collections,
// publishes each descriptor of a directory and mints one item per
// descriptor, attaching the pinned metadata locator to the item.
//
// Items are processed one at a time. A failing item is recorded with the
// phase it failed in (linking, pinning, submission or metadata) and the
// batch moves on; only collection creation failures abort a run. When a
// transaction finalizes without its expected event the orchestrator reads
// chain storage to report what actually happened and never resubmits.
package mint
