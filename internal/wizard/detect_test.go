package wizard

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// mockDetector implements Detector for testing.
type mockDetector struct {
	files map[string]bool
	dirs  map[string]bool
}

type fakeFileInfo struct {
	name  string
	isDir bool
}

func (f fakeFileInfo) Name() string       { return f.name }
func (f fakeFileInfo) Size() int64        { return 0 }
func (f fakeFileInfo) Mode() os.FileMode  { return 0644 }
func (f fakeFileInfo) ModTime() time.Time { return time.Time{} }
func (f fakeFileInfo) IsDir() bool        { return f.isDir }
func (f fakeFileInfo) Sys() interface{}   { return nil }

func (m *mockDetector) Stat(path string) (os.FileInfo, error) {
	if m.dirs[path] {
		return fakeFileInfo{name: path, isDir: true}, nil
	}
	if m.files[path] {
		return fakeFileInfo{name: path, isDir: false}, nil
	}
	return nil, os.ErrNotExist
}

func (m *mockDetector) Glob(pattern string) ([]string, error) {
	return nil, nil
}

func TestDetectModelFile(t *testing.T) {
	d := &mockDetector{files: map[string]bool{"anklume.model.yml": true}}
	result := Detect(d)
	assert.Equal(t, "anklume.model.yml", result.ModelPath)
}

func TestDetectModelDirectory(t *testing.T) {
	d := &mockDetector{files: map[string]bool{}, dirs: map[string]bool{"model": true}}
	result := Detect(d)
	assert.Equal(t, "model", result.ModelPath)
}

func TestDetectConfig(t *testing.T) {
	d := &mockDetector{files: map[string]bool{"anklume.yml": true}}
	result := Detect(d)
	assert.Equal(t, "anklume.yml", result.ConfigPath)
}

func TestDetectNothing(t *testing.T) {
	d := &mockDetector{files: map[string]bool{}}
	result := Detect(d)
	assert.Empty(t, result.ModelPath)
	assert.Empty(t, result.ConfigPath)
}
