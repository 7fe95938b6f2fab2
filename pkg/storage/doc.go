// Package storage persists downloaded camera snapshots as flat files in a
// single output directory.
package storage
