// Package publish turns a descriptor and its asset into a pinned metadata
// document: the asset is pinned first (unless the descriptor already carries
// an image locator), its locator is written into the descriptor, and the
// resulting JSON document is pinned.
package publish
