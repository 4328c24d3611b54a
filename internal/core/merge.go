package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/eyue1777/minigit/internal/models"
)

// Merge merges a branch into the current branch
func Merge(ctx context.Context, repo *Repository, targetBranch string, opts models.MergeOptions) (*models.MergeResult, error) {
	result := &models.MergeResult{Warnings: []string{}}

	// Step 1: Validate we're on a branch
	head, err := repo.Refs.ReadHead(ctx)
	if err != nil {
		return nil, err
	}
	if head.IsDetached() {
		return reject(result, "HEAD is detached", models.ErrMergeRejected)
	}
	currentBranch := head.Branch

	// Step 2: Resolve target branch
	if targetBranch == currentBranch {
		return reject(result, fmt.Sprintf("cannot merge branch '%s' into itself", currentBranch), models.ErrMergeRejected)
	}
	exists, err := repo.Refs.Exists(ctx, targetBranch)
	if err != nil {
		return nil, err
	}
	if !exists {
		return reject(result, fmt.Sprintf("branch '%s' not found", targetBranch), models.ErrMergeRejected)
	}

	// Step 3: Check for uncommitted changes
	dirty, err := HasUncommittedChanges(ctx, repo)
	if err != nil {
		return nil, err
	}
	if dirty {
		return reject(result, "you have uncommitted changes", models.ErrMergeRejected)
	}

	ours, err := repo.Refs.Read(ctx, currentBranch)
	if err != nil {
		return nil, err
	}
	theirs, err := repo.Refs.Read(ctx, targetBranch)
	if err != nil {
		return nil, err
	}
	result.Ours, result.Theirs = ours, theirs
	if theirs == "" {
		return reject(result, fmt.Sprintf("branch '%s' has no commits", targetBranch), models.ErrMergeRejected)
	}

	// Step 4: Fast-forward an unborn branch
	if ours == "" {
		return fastForward(ctx, repo, currentBranch, theirs, result)
	}

	// Step 5: Find merge base
	base, err := repo.History.MergeBase(ctx, ours, theirs)
	if err != nil {
		return nil, err
	}
	if base == "" {
		return reject(result, "no common ancestor", fmt.Errorf("%w: %w", models.ErrMergeRejected, models.ErrNoCommonAncestor))
	}
	result.Base = base

	// Step 6: Perform 3-way merge. A target already contained in the current
	// history still gets a merge commit; every path keeps the current side.
	return performThreeWayMerge(ctx, repo, currentBranch, targetBranch, opts, result)
}

func reject(result *models.MergeResult, reason string, cause error) (*models.MergeResult, error) {
	result.Outcome = models.MergeRejected
	result.Reason = reason
	if !errors.Is(cause, models.ErrMergeRejected) {
		cause = fmt.Errorf("%w: %w", models.ErrMergeRejected, cause)
	}
	return result, fmt.Errorf("%w: %s", cause, reason)
}

// fastForward points the unborn current branch at the other branch's commit
// and brings the working tree along. No commit is created.
func fastForward(ctx context.Context, repo *Repository, branch, target string, result *models.MergeResult) (*models.MergeResult, error) {
	manifest, err := repo.manifestOf(ctx, target)
	if err != nil {
		return nil, err
	}
	if err := repo.Refs.CompareAndSwap(ctx, branch, "", target); err != nil {
		return nil, err
	}
	result.Outcome = models.MergeFastForward

	tree, err := repo.Tree.Reconcile(ctx, manifest)
	if err != nil {
		return result, err
	}
	if !tree.OK() {
		for _, o := range tree.Failed() {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %v", o.Path, o.Err))
		}
		return result, fmt.Errorf("%w: %w", models.ErrCheckoutIncomplete, tree.Err())
	}

	repo.Log.Info().Str("branch", branch).Str("commit", shortID(target)).Msg("Fast-forwarded")
	return result, nil
}

// resolution is the per-path decision of a three-way merge.
type resolution int

const (
	keepOurs resolution = iota
	takeTheirs
	conflicted
)

// side is one manifest entry with explicit presence.
type side struct {
	hash    string
	present bool
}

func (s side) same(o side) bool {
	return s.present == o.present && s.hash == o.hash
}

// classify decides one path from its base, current and other entries.
func classify(base, ours, theirs side) resolution {
	switch {
	case !base.present && !ours.present && theirs.present:
		return takeTheirs
	case base.same(ours) && !base.same(theirs):
		return takeTheirs
	case base.same(theirs):
		return keepOurs
	case !ours.same(theirs):
		return conflicted
	default:
		return keepOurs
	}
}

func conflictType(base, ours, theirs side) models.MergeConflictType {
	switch {
	case !ours.present:
		return models.ConflictDeleteModify
	case !theirs.present:
		return models.ConflictModifyDelete
	case !base.present:
		return models.ConflictAddAdd
	default:
		return models.ConflictModifyModify
	}
}

// performThreeWayMerge resolves every path, writes and stages what changed,
// and commits when nothing conflicted.
func performThreeWayMerge(ctx context.Context, repo *Repository, currentBranch, targetBranch string, opts models.MergeOptions, result *models.MergeResult) (*models.MergeResult, error) {
	baseFiles, err := repo.manifestOf(ctx, result.Base)
	if err != nil {
		return nil, err
	}
	ourFiles, err := repo.manifestOf(ctx, result.Ours)
	if err != nil {
		return nil, err
	}
	theirFiles, err := repo.manifestOf(ctx, result.Theirs)
	if err != nil {
		return nil, err
	}

	paths := make(map[string]bool)
	for _, m := range []models.Manifest{baseFiles, ourFiles, theirFiles} {
		for p := range m {
			paths[p] = true
		}
	}

	merged := ourFiles.Clone()
	for _, path := range slices.Sorted(maps.Keys(paths)) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		base, ours, theirs := entry(baseFiles, path), entry(ourFiles, path), entry(theirFiles, path)

		switch classify(base, ours, theirs) {
		case takeTheirs:
			if err := takeOther(ctx, repo, path, theirs, merged, result); err != nil {
				return nil, err
			}
		case conflicted:
			if err := writeConflict(ctx, repo, path, targetBranch, ours, theirs); err != nil {
				return nil, err
			}
			result.Conflicts = append(result.Conflicts, &models.MergeConflict{
				Path:   path,
				Type:   conflictType(base, ours, theirs),
				Base:   base.hash,
				Ours:   ours.hash,
				Theirs: theirs.hash,
			})
		}
	}

	if len(result.Conflicts) > 0 {
		result.Outcome = models.MergeConflicted
		repo.Log.Info().Int("conflicts", len(result.Conflicts)).Str("branch", targetBranch).Msg("Merge stopped with conflicts")
		return result, nil
	}

	message := opts.Message
	if message == "" {
		message = fmt.Sprintf("Merge branch '%s' into %s", targetBranch, currentBranch)
	}
	commit := &models.Commit{
		Message:   message,
		Timestamp: repo.Now().Unix(),
		Parents:   []string{result.Ours, result.Theirs},
		Branch:    currentBranch,
		Files:     merged,
	}
	if err := repo.writeCommit(ctx, commit); err != nil {
		return nil, err
	}
	if err := repo.Refs.CompareAndSwap(ctx, currentBranch, result.Ours, commit.ID); err != nil {
		return nil, err
	}
	if err := repo.Stage.Clear(); err != nil {
		return nil, err
	}

	result.Outcome = models.MergeClean
	result.MergeCommit = commit
	repo.Log.Info().Str("commit", commit.ShortID()).Str("branch", targetBranch).Msg("Merged")
	return result, nil
}

func entry(m models.Manifest, path string) side {
	h, ok := m.Lookup(path)
	return side{hash: h, present: ok}
}

// takeOther brings the other branch's version of path into the working tree,
// the staging list and the merged manifest.
func takeOther(ctx context.Context, repo *Repository, path string, theirs side, merged models.Manifest, result *models.MergeResult) error {
	if !theirs.present {
		if err := repo.Tree.RemoveFile(path); err != nil {
			return fmt.Errorf("remove %s: %w", path, err)
		}
		if err := repo.Stage.Remove(path); err != nil {
			return err
		}
		delete(merged, path)
		result.Removed = append(result.Removed, path)
		return nil
	}

	data, err := repo.Objects.Get(ctx, theirs.hash)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := repo.Tree.WriteFile(path, data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := repo.Stage.Add(path, theirs.hash); err != nil {
		return err
	}
	merged[path] = theirs.hash
	result.TakenTheirs = append(result.TakenTheirs, path)
	return nil
}

// writeConflict replaces path with a marker file holding both versions and
// stages it.
func writeConflict(ctx context.Context, repo *Repository, path, branch string, ours, theirs side) error {
	var ourData, theirData []byte
	var err error
	if ours.present {
		if ourData, err = repo.Objects.Get(ctx, ours.hash); err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
	}
	if theirs.present {
		if theirData, err = repo.Objects.Get(ctx, theirs.hash); err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
	}

	marker := ConflictMarker(ourData, theirData, branch)
	hash, err := repo.Objects.Put(ctx, marker)
	if err != nil {
		return err
	}
	if err := repo.Tree.WriteFile(path, marker); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return repo.Stage.Add(path, hash)
}

// ConflictMarker renders the conflicted content of a file: ours, a
// separator, theirs, then the other branch's name. Each side is terminated
// by a newline so the separators stay on their own lines.
func ConflictMarker(ours, theirs []byte, branch string) []byte {
	var b bytes.Buffer
	b.WriteString("<<<<<<< HEAD\n")
	writeSide(&b, ours)
	b.WriteString("=======\n")
	writeSide(&b, theirs)
	b.WriteString(">>>>>>> " + branch + "\n")
	return b.Bytes()
}

func writeSide(b *bytes.Buffer, data []byte) {
	b.Write(data)
	if len(data) > 0 && data[len(data)-1] != '\n' {
		b.WriteByte('\n')
	}
}
