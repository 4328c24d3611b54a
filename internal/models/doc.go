// Package models defines the core data structures used throughout minigit
// including commits, manifests, HEAD, and merge results.
package models
