// Package sweep finds generated artifacts that the current model no
// longer implies and decides, from their own managed content, whether
// they may be deleted.
package sweep

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/jmchantrein/anklume/internal/managed"
	"github.com/jmchantrein/anklume/internal/model"
	"github.com/jmchantrein/anklume/internal/render"
)

// Directories under the output root that hold managed artifacts.
var managedDirs = []string{"inventory", "group_vars", "host_vars"}

// Orphan is a file on disk the model no longer implies.
type Orphan struct {
	Path      string // relative to the output root
	Protected bool
}

// Report summarizes a sweep.
type Report struct {
	Orphans []Orphan
	Removed int
	Kept    int
}

// DetectOrphans compares the artifact set the model implies against what
// exists under the managed directories of outputRoot.
func DetectOrphans(m *model.InfraModel, outputRoot string) ([]Orphan, error) {
	expected := map[string]bool{}
	for _, p := range render.ExpectedPaths(m) {
		expected[p] = true
	}

	var orphans []Orphan
	for _, dir := range managedDirs {
		root := filepath.Join(outputRoot, dir)
		err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(outputRoot, path)
			if err != nil {
				return nil
			}
			if expected[rel] {
				return nil
			}
			orphans = append(orphans, Orphan{Path: rel, Protected: isProtected(path)})
			return nil
		})
		if err != nil && !os.IsNotExist(err) {
			return nil, err
		}
	}

	sort.Slice(orphans, func(i, j int) bool { return orphans[i].Path < orphans[j].Path })
	return orphans, nil
}

// isProtected reads the orphan's managed region. The file is protected
// when it declares domain_ephemeral: false, or, absent that key,
// instance_ephemeral: false. Unreadable or unparsable content is never
// protected.
func isProtected(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	content, ok := managed.ParseBlock(data)
	if !ok {
		return false
	}

	if v, ok := content["domain_ephemeral"]; ok {
		b, coercible := model.AsBool(v)
		return coercible && !b
	}
	if v, ok := content["instance_ephemeral"]; ok {
		b, coercible := model.AsBool(v)
		return coercible && !b
	}
	return false
}

// Sweep detects orphans and, when deleteOrphans is set, removes the
// unprotected ones. Protected orphans are always left in place.
func Sweep(m *model.InfraModel, outputRoot string, deleteOrphans bool) (Report, error) {
	orphans, err := DetectOrphans(m, outputRoot)
	if err != nil {
		return Report{}, err
	}

	report := Report{Orphans: orphans}
	for _, o := range orphans {
		if o.Protected {
			report.Kept++
			continue
		}
		if !deleteOrphans {
			continue
		}
		if err := os.Remove(filepath.Join(outputRoot, o.Path)); err != nil {
			return report, err
		}
		report.Removed++
	}
	return report, nil
}
