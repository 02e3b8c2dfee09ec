package wizard

import (
	"os"
	"path/filepath"
)

// DetectionResult holds what was auto-detected in the working directory.
type DetectionResult struct {
	ModelPath  string // existing model file or directory, empty otherwise
	ConfigPath string // existing anklume.yml, empty otherwise
}

// Detector abstracts filesystem lookups for testing.
type Detector interface {
	Stat(path string) (os.FileInfo, error)
	Glob(pattern string) ([]string, error)
}

// OSDetector uses the real OS for detection.
type OSDetector struct{}

func (OSDetector) Stat(path string) (os.FileInfo, error) { return os.Stat(path) }
func (OSDetector) Glob(pattern string) ([]string, error) { return filepath.Glob(pattern) }

// Detect scans the working directory for an existing model and config.
func Detect(d Detector) DetectionResult {
	if d == nil {
		d = OSDetector{}
	}

	result := DetectionResult{}

	modelPaths := []string{
		"anklume.model.yml",
		"model.yml",
		"model",
	}
	for _, p := range modelPaths {
		if _, err := d.Stat(p); err == nil {
			result.ModelPath = p
			break
		}
	}

	if _, err := d.Stat("anklume.yml"); err == nil {
		result.ConfigPath = "anklume.yml"
	}

	return result
}
