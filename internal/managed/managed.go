// Package managed computes the bytes of generated artifacts. Every file
// owns exactly one machine-written block between fixed markers; anything
// an operator writes outside the markers is copied through untouched.
package managed

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// BeginMarker opens the managed block.
	BeginMarker = "# BEGIN ANKLUME MANAGED BLOCK (do not edit inside this block)"
	// EndMarker closes the managed block.
	EndMarker = "# END ANKLUME MANAGED BLOCK"

	docStart = "---"
)

// Write merges content into the managed block of the file at path and
// persists the result. It returns the final bytes and whether the file
// changed. With dryRun set it only computes the would-be bytes and never
// touches the filesystem.
func Write(path string, content *Map, dryRun bool) ([]byte, bool, error) {
	body, err := yaml.Marshal(content)
	if err != nil {
		return nil, false, err
	}
	block := BeginMarker + "\n" + string(body) + EndMarker + "\n"

	existing, err := os.ReadFile(path)
	exists := true
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, false, err
		}
		exists = false
	}

	var final string
	if exists {
		final = merge(string(existing), block)
	} else {
		final = docStart + "\n" + block
	}

	out := []byte(final)
	if exists && bytes.Equal(existing, out) {
		return out, false, nil
	}
	if dryRun {
		return out, true, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, false, err
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return nil, false, err
	}
	return out, true, nil
}

// merge splices block into existing content. With exactly one marker pair
// present only the interior is replaced; without markers the block is
// prepended, reusing an existing document-start line instead of adding a
// second one.
func merge(existing, block string) string {
	begin := strings.Index(existing, BeginMarker)
	end := strings.Index(existing, EndMarker)
	if begin != -1 && end != -1 && begin < end {
		tail := existing[end+len(EndMarker):]
		return existing[:begin] + strings.TrimSuffix(block, "\n") + tail
	}

	rest := existing
	switch {
	case strings.HasPrefix(rest, docStart+"\n"):
		rest = rest[len(docStart)+1:]
	case rest == docStart || rest == docStart+"\n":
		rest = ""
	}
	return docStart + "\n" + block + rest
}

// ExtractBlock returns the bytes between the managed markers, or ok=false
// when the content does not carry a well-formed marker pair.
func ExtractBlock(data []byte) ([]byte, bool) {
	s := string(data)
	begin := strings.Index(s, BeginMarker)
	end := strings.Index(s, EndMarker)
	if begin == -1 || end == -1 || begin > end {
		return nil, false
	}
	interior := s[begin+len(BeginMarker) : end]
	return []byte(strings.TrimPrefix(interior, "\n")), true
}

// ParseBlock decodes the managed region of a file's content as a mapping.
// Unparsable or marker-less content yields ok=false.
func ParseBlock(data []byte) (map[string]any, bool) {
	interior, ok := ExtractBlock(data)
	if !ok {
		return nil, false
	}
	var out map[string]any
	if err := yaml.Unmarshal(interior, &out); err != nil {
		return nil, false
	}
	return out, true
}
