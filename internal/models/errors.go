package models

import "errors"

// Sentinel errors shared by the object store, reference store and core operations.
var (
	ErrNotFound          = errors.New("not found")
	ErrMalformedCommit   = errors.New("malformed commit")
	ErrObjectWriteFailed = errors.New("object write failed")
	ErrRefWriteFailed    = errors.New("ref write failed")
	ErrRefConflict       = errors.New("ref changed concurrently")
	ErrInvalidRefName    = errors.New("invalid ref name")
	ErrAmbiguousRef      = errors.New("ambiguous ref")

	ErrNoCommonAncestor   = errors.New("no common ancestor")
	ErrMergeRejected      = errors.New("merge rejected")
	ErrMergeConflict      = errors.New("merge conflict")
	ErrCheckoutIncomplete = errors.New("checkout incomplete")
	ErrNothingToCommit    = errors.New("nothing to commit")
	ErrBranchExists       = errors.New("branch already exists")
)
