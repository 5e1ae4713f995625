// Package storage provides the folder tree behind the file manager and
// terminal windows.
//
// The tree is addressed by paths of item ids from the root. It is stored,
// when a path is configured, as zstd-compressed JSON and rewritten after
// every change.
package storage
