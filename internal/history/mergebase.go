package history

import "context"

// MergeBase finds the closest common ancestor of a and b. It collects every
// ancestor of a over all parents, then walks b breadth-first over all parents
// and returns the first commit already in that set. Disjoint histories, or an
// empty input, return "".
func (w *Walker) MergeBase(ctx context.Context, a, b string) (string, error) {
	if a == "" || b == "" {
		return "", nil
	}

	ancestorsA, err := w.AncestorSet(ctx, a)
	if err != nil {
		return "", err
	}

	for id, err := range w.Ancestors(ctx, b, WalkOptions{AllParents: true}) {
		if err != nil {
			return "", err
		}
		if ancestorsA[id] {
			return id, nil
		}
	}
	return "", nil
}

// FirstParentMergeBase only follows first parents on both sides: it
// collects a's mainline, then returns the first commit on b's mainline found
// in it. Commits reachable only through a second parent are invisible, so
// after a merge the answer can be older than MergeBase's, or missing.
func (w *Walker) FirstParentMergeBase(ctx context.Context, a, b string) (string, error) {
	if a == "" || b == "" {
		return "", nil
	}

	mainline := make(map[string]bool)
	for id, err := range w.Ancestors(ctx, a, WalkOptions{}) {
		if err != nil {
			return "", err
		}
		mainline[id] = true
	}

	for id, err := range w.Ancestors(ctx, b, WalkOptions{}) {
		if err != nil {
			return "", err
		}
		if mainline[id] {
			return id, nil
		}
	}
	return "", nil
}
