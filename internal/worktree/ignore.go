package worktree

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/gobwas/glob"
	"github.com/spf13/afero"
)

// ErrInvalidPattern indicates a glob pattern could not be compiled.
var ErrInvalidPattern = errors.New("invalid glob pattern")

// DefaultPatterns are never tracked, pruned, or restored: repository metadata
// and the tool's own binary at the top of the working tree.
var DefaultPatterns = []string{
	".minigit",
	".git",
	".gitignore",
	"/minigit",
	"/minigit.exe",
}

// Matcher decides which working tree paths are outside version control.
//
// A pattern without a slash matches any path component by name ("*.log",
// ".git"). A pattern with a slash is anchored at the working tree root and
// matches the path or any of its parent directories ("build/**", "/minigit").
type Matcher struct {
	names    []glob.Glob
	anchored []glob.Glob
	patterns []string
}

// NewMatcher compiles patterns. Blank patterns and "#" comments are skipped.
func NewMatcher(patterns ...[]string) (*Matcher, error) {
	m := &Matcher{}
	for _, group := range patterns {
		for _, p := range group {
			if err := m.add(p); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

func (m *Matcher) add(pattern string) error {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" || strings.HasPrefix(pattern, "#") {
		return nil
	}
	anchored := strings.Contains(pattern, "/")
	expr := strings.TrimSuffix(strings.TrimPrefix(pattern, "/"), "/")
	if expr == "" {
		return nil
	}

	g, err := glob.Compile(expr, '/')
	if err != nil {
		return errors.Join(ErrInvalidPattern, fmt.Errorf("%q: %w", pattern, err))
	}
	if anchored {
		m.anchored = append(m.anchored, g)
	} else {
		m.names = append(m.names, g)
	}
	m.patterns = append(m.patterns, pattern)
	return nil
}

// Patterns returns the compiled patterns in the order they were added.
func (m *Matcher) Patterns() []string {
	return append([]string(nil), m.patterns...)
}

// Match reports whether the slash-separated relative path is ignored.
func (m *Matcher) Match(rel string) bool {
	if m == nil || rel == "" || rel == "." {
		return false
	}
	parts := strings.Split(rel, "/")
	for i, name := range parts {
		for _, g := range m.names {
			if g.Match(name) {
				return true
			}
		}
		prefix := strings.Join(parts[:i+1], "/")
		for _, g := range m.anchored {
			if g.Match(prefix) {
				return true
			}
		}
	}
	return false
}

// LoadIgnoreFile reads one pattern per line. A missing file yields no patterns.
func LoadIgnoreFile(afs afero.Fs, path string) ([]string, error) {
	data, err := afero.ReadFile(afs, path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read ignore file: %w", err)
	}

	var patterns []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns, scanner.Err()
}
