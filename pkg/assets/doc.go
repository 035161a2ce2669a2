// Package assets links a metadata descriptor to the binary asset it
// describes using explicit paths, the descriptor's own reference, or a
// same-stem image next to it.
package assets
