// Package staging records the changes that the next commit will apply on top
// of its parent's manifest. The list is append-only text, one "path hash"
// line per add; the last entry for a path wins.
package staging

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	"github.com/eyue1777/minigit/internal/fsutil"
	"github.com/eyue1777/minigit/internal/models"
	"github.com/spf13/afero"
)

// removedMarker stands in for the hash of a path staged for removal.
const removedMarker = "-"

// Changes is the collapsed view of the staging list.
type Changes struct {
	Updated models.Manifest // path -> blob hash to record
	Removed []string        // sorted paths to drop from the manifest
}

// Empty reports whether nothing is staged.
func (c *Changes) Empty() bool {
	return len(c.Updated) == 0 && len(c.Removed) == 0
}

// Apply returns base with the staged changes applied.
func (c *Changes) Apply(base models.Manifest) models.Manifest {
	out := base.Overlay(c.Updated)
	for _, p := range c.Removed {
		delete(out, p)
	}
	return out
}

// Against drops the entries that would leave base unchanged: updates to the
// hash base already records and removals of paths base does not track.
func (c *Changes) Against(base models.Manifest) *Changes {
	out := &Changes{Updated: models.Manifest{}}
	for path, hash := range c.Updated {
		if h, ok := base.Lookup(path); !ok || h != hash {
			out.Updated[path] = hash
		}
	}
	for _, path := range c.Removed {
		if _, ok := base.Lookup(path); ok {
			out.Removed = append(out.Removed, path)
		}
	}
	return out
}

// Area is the staging list file.
type Area struct {
	fs   afero.Fs
	path string
}

// New returns the staging area stored at path.
func New(afs afero.Fs, path string) *Area {
	return &Area{fs: afs, path: path}
}

// Add stages path at the given blob hash.
func (a *Area) Add(path, hash string) error {
	if err := validatePath(path); err != nil {
		return err
	}
	if hash == "" || hash == removedMarker || strings.ContainsAny(hash, " \n") {
		return fmt.Errorf("invalid blob hash %q for %s", hash, path)
	}
	return a.append(path, hash)
}

// Remove stages the removal of path.
func (a *Area) Remove(path string) error {
	if err := validatePath(path); err != nil {
		return err
	}
	return a.append(path, removedMarker)
}

// Pending collapses the list into the net change per path. A missing list
// file means nothing is staged.
func (a *Area) Pending() (*Changes, error) {
	data, err := afero.ReadFile(a.fs, a.path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Changes{Updated: models.Manifest{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read staging: %w", err)
	}

	latest := make(map[string]string)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := scanner.Text()
		if line == "" {
			continue
		}
		// Paths may contain spaces; the hash is the last token.
		idx := strings.LastIndexByte(line, ' ')
		if idx <= 0 || idx == len(line)-1 {
			return nil, fmt.Errorf("staging line %d: malformed entry %q", lineNo, line)
		}
		latest[line[:idx]] = line[idx+1:]
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan staging: %w", err)
	}

	changes := &Changes{Updated: models.Manifest{}}
	for path, hash := range latest {
		if hash == removedMarker {
			changes.Removed = append(changes.Removed, path)
			continue
		}
		changes.Updated[path] = hash
	}
	slices.Sort(changes.Removed)
	return changes, nil
}

// Clear empties the staging list.
func (a *Area) Clear() error {
	if err := fsutil.SafeWrite(a.fs, a.path, nil, 0644); err != nil {
		return fmt.Errorf("clear staging: %w", err)
	}
	return nil
}

func (a *Area) append(path, hash string) error {
	if err := fsutil.SafeAppend(a.fs, a.path, []byte(path+" "+hash+"\n")); err != nil {
		return fmt.Errorf("stage %s: %w", path, err)
	}
	return nil
}

func validatePath(path string) error {
	if path == "" || strings.ContainsAny(path, "\n\r") {
		return fmt.Errorf("invalid path %q", path)
	}
	return nil
}
