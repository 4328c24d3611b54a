package models

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Commit record keys, one per line in the canonical form.
const (
	keyMessage = "message"
	keyTime    = "time"
	keyParent  = "parent"
	keyBranch  = "branch"
	keyFile    = "file"
)

// EncodeCommit returns the canonical serialization of c. Commits with equal
// fields, including parent order, encode to identical bytes. The ID field is
// not encoded.
func EncodeCommit(c *Commit) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "%s %s\n", keyMessage, strconv.Quote(c.Message))
	fmt.Fprintf(&b, "%s %d\n", keyTime, c.Timestamp)
	for _, p := range c.Parents {
		fmt.Fprintf(&b, "%s %s\n", keyParent, p)
	}
	fmt.Fprintf(&b, "%s %s\n", keyBranch, c.Branch)
	for _, path := range c.Files.Paths() {
		fmt.Fprintf(&b, "%s %s %s\n", keyFile, path, c.Files[path])
	}
	return b.Bytes()
}

// DecodeCommit parses a commit record. Recoverable problems (a missing or
// unreadable timestamp, unknown keys) are returned as diagnostics alongside
// the commit; structural problems fail with ErrMalformedCommit.
func DecodeCommit(data []byte) (*Commit, []string, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil, fmt.Errorf("%w: empty record", ErrMalformedCommit)
	}

	c := &Commit{Files: Manifest{}}
	var diagnostics []string
	seen := make(map[string]bool)

	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	for i, line := range lines {
		if line == "" {
			continue
		}
		key, value, _ := strings.Cut(line, " ")

		switch key {
		case keyMessage, keyTime, keyBranch:
			if seen[key] {
				return nil, nil, fmt.Errorf("%w: line %d: repeated %q", ErrMalformedCommit, i+1, key)
			}
			seen[key] = true
		}

		switch key {
		case keyMessage:
			msg, err := decodeMessage(value)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: line %d: %v", ErrMalformedCommit, i+1, err)
			}
			c.Message = msg
		case keyTime:
			ts, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
			if err != nil {
				diagnostics = append(diagnostics, fmt.Sprintf("unreadable timestamp %q, using epoch", value))
				ts = 0
			}
			c.Timestamp = ts
		case keyParent:
			// Older writers emit "parent " for the first commit on a branch.
			if p := strings.TrimSpace(value); p != "" {
				c.Parents = append(c.Parents, p)
			}
		case keyBranch:
			c.Branch = value
		case keyFile:
			idx := strings.LastIndexByte(value, ' ')
			if idx <= 0 || idx == len(value)-1 {
				return nil, nil, fmt.Errorf("%w: line %d: file entry without hash", ErrMalformedCommit, i+1)
			}
			path, hash := value[:idx], value[idx+1:]
			if _, dup := c.Files[path]; dup {
				return nil, nil, fmt.Errorf("%w: line %d: duplicate path %q", ErrMalformedCommit, i+1, path)
			}
			c.Files[path] = hash
		default:
			diagnostics = append(diagnostics, fmt.Sprintf("skipping unknown key %q on line %d", key, i+1))
		}
	}

	if !seen[keyMessage] {
		return nil, nil, fmt.Errorf("%w: missing message", ErrMalformedCommit)
	}
	if !seen[keyTime] {
		diagnostics = append(diagnostics, "missing timestamp, using epoch")
	}

	return c, diagnostics, nil
}

// decodeMessage unquotes a canonical message. Unquoted values come from older
// writers and are taken verbatim.
func decodeMessage(value string) (string, error) {
	if !strings.HasPrefix(value, `"`) {
		return value, nil
	}
	msg, err := strconv.Unquote(value)
	if err != nil {
		return "", fmt.Errorf("bad message quoting: %w", err)
	}
	return msg, nil
}
