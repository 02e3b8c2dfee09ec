// Package loader reads the declarative model from a single document or a
// directory split and normalizes it into one InfraModel.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jmchantrein/anklume/internal/model"
	"gopkg.in/yaml.v3"
)

// LoadError wraps a parse or read failure with the source that produced it.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load reads the model from path. A directory is treated as a split model
// (base.yml + domains/ + policies.yml); anything else as a single document.
// The returned warnings are non-fatal advisories.
func Load(path string) (*model.InfraModel, []string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, nil, &LoadError{Source: path, Err: err}
	}
	if info.IsDir() {
		return loadDir(path)
	}
	m, err := loadFile(path)
	return m, nil, err
}

func loadFile(path string) (*model.InfraModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}

	var m model.InfraModel
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}

	// Track top-level key presence separately: "domains: null" must
	// normalize to an empty map while a missing key stays nil for the
	// validator to flag.
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	if _, ok := raw["domains"]; ok && m.Domains == nil {
		m.Domains = map[string]*model.Domain{}
	}
	if _, ok := raw["global"]; ok && m.Global == nil {
		m.Global = &model.GlobalConfig{}
	}

	normalize(&m)
	return &m, nil
}

func loadDir(dir string) (*model.InfraModel, []string, error) {
	basePath := filepath.Join(dir, "base.yml")
	data, err := os.ReadFile(basePath)
	if err != nil {
		return nil, nil, &LoadError{Source: basePath, Err: fmt.Errorf("base.yml is required in directory mode: %w", err)}
	}

	var m model.InfraModel
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, nil, &LoadError{Source: basePath, Err: err}
	}
	m.Domains = map[string]*model.Domain{}

	var warnings []string
	domainsDir := filepath.Join(dir, "domains")
	if entries, err := os.ReadDir(domainsDir); err == nil {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			if e.IsDir() || !isYAML(e.Name()) {
				continue
			}
			names = append(names, e.Name())
		}
		sort.Strings(names)
		for _, name := range names {
			path := filepath.Join(domainsDir, name)
			fragment, err := loadDomainFragment(path)
			if err != nil {
				return nil, warnings, err
			}
			for dname, d := range fragment {
				if _, dup := m.Domains[dname]; dup {
					warnings = append(warnings, fmt.Sprintf("domain '%s' redefined in %s, last definition wins", dname, name))
				}
				m.Domains[dname] = d
			}
		}
	}

	policiesPath := filepath.Join(dir, "policies.yml")
	if data, err := os.ReadFile(policiesPath); err == nil {
		var p struct {
			NetworkPolicies []*model.NetworkPolicy `yaml:"network_policies"`
		}
		if err := yaml.Unmarshal(data, &p); err != nil {
			return nil, warnings, &LoadError{Source: policiesPath, Err: err}
		}
		m.NetworkPolicies = p.NetworkPolicies
	}

	normalize(&m)
	return &m, warnings, nil
}

// loadDomainFragment parses one domains/ file: either a bare mapping of
// domain name to domain, or the same wrapped under a "domains" key.
func loadDomainFragment(path string) (map[string]*model.Domain, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}

	var probe map[string]yaml.Node
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}

	out := map[string]*model.Domain{}
	if node, ok := probe["domains"]; ok && len(probe) == 1 {
		if err := node.Decode(&out); err != nil {
			return nil, &LoadError{Source: path, Err: err}
		}
		return out, nil
	}
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	return out, nil
}

// normalize replaces nil nested maps with empty ones once, so consumers
// never re-check for null.
func normalize(m *model.InfraModel) {
	for name, d := range m.Domains {
		if d == nil {
			d = &model.Domain{}
			m.Domains[name] = d
		}
		if d.Profiles == nil {
			d.Profiles = map[string]*model.Profile{}
		}
		if d.Machines == nil {
			d.Machines = map[string]*model.Machine{}
		}
		for mname, mc := range d.Machines {
			if mc == nil {
				mc = &model.Machine{}
				d.Machines[mname] = mc
			}
			if mc.Config == nil {
				mc.Config = map[string]any{}
			}
			if mc.Devices == nil {
				mc.Devices = map[string]model.Device{}
			}
		}
	}
	if m.SharedVolumes == nil {
		m.SharedVolumes = map[string]*model.SharedVolume{}
	}
}

func isYAML(name string) bool {
	return strings.HasSuffix(name, ".yml") || strings.HasSuffix(name, ".yaml")
}
