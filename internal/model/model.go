package model

import "regexp"

// InfraModel is the in-memory form of the declarative source of truth.
// It is built once per run by the loader, mutated once by the enricher,
// then consumed read-only.
type InfraModel struct {
	ProjectName     string                   `yaml:"project_name"`
	Global          *GlobalConfig            `yaml:"global"`
	Domains         map[string]*Domain       `yaml:"domains"`
	NetworkPolicies []*NetworkPolicy         `yaml:"network_policies"`
	SharedVolumes   map[string]*SharedVolume `yaml:"shared_volumes"`
}

// GlobalConfig holds project-wide defaults and policy switches.
type GlobalConfig struct {
	AddressingBase    string `yaml:"addressing_base"`    // two-octet prefix, e.g. "10.100"
	DefaultOSImage    string `yaml:"default_os_image"`
	DefaultConnection string `yaml:"default_connection"`
	DefaultUser       string `yaml:"default_user"`
	FirewallMode      string `yaml:"firewall_mode"`      // host or vm
	GPUPolicy         string `yaml:"gpu_policy"`         // exclusive or shared
	AIAccessPolicy    string `yaml:"ai_access_policy"`   // open or exclusive
	AIAccessDefault   string `yaml:"ai_access_default"`
}

// Domain is an isolated grouping of machines, mapped 1:1 to a subnet
// and a virtual bridge.
type Domain struct {
	SubnetID    *int                `yaml:"subnet_id"`
	Description string              `yaml:"description"`
	TrustLevel  string              `yaml:"trust_level"`
	OSImage     string              `yaml:"os_image"`
	Ephemeral   any                 `yaml:"ephemeral"` // bool or "true"/"false" string
	Profiles    map[string]*Profile `yaml:"profiles"`
	Machines    map[string]*Machine `yaml:"machines"`
}

// Machine is one virtualized workload (container or VM) inside a domain.
type Machine struct {
	Type             string                    `yaml:"type"` // lxc or vm
	IP               string                    `yaml:"ip"`
	OSImage          string                    `yaml:"os_image"`
	GPU              bool                      `yaml:"gpu"`
	Ephemeral        any                       `yaml:"ephemeral"`
	Profiles         []string                  `yaml:"profiles"`
	Config           map[string]any            `yaml:"config"`
	Devices          map[string]Device         `yaml:"devices"`
	StorageVolumes   map[string]map[string]any `yaml:"storage_volumes"`
	Roles            []string                  `yaml:"roles"`
	BootPriority     int                       `yaml:"boot_priority"`
	SnapshotSchedule string                    `yaml:"snapshot_schedule"`
	SnapshotExpiry   string                    `yaml:"snapshot_expiry"`
	Description      string                    `yaml:"description"`
}

// Profile is a reusable bundle of config and devices machines can reference.
type Profile struct {
	Config  map[string]any    `yaml:"config"`
	Devices map[string]Device `yaml:"devices"`
}

// Device is a raw device definition. A "type" key of "gpu" marks the
// owning machine as GPU-bearing for policy purposes.
type Device map[string]any

// NetworkPolicy allows traffic between two endpoints. An endpoint is a
// domain name, a machine name, or the literal "host".
type NetworkPolicy struct {
	From          string `yaml:"from"`
	To            string `yaml:"to"`
	Ports         any    `yaml:"ports"` // list of ints, or the literal "all"
	Protocol      string `yaml:"protocol"`
	Bidirectional bool   `yaml:"bidirectional"`
	Description   string `yaml:"description"`
}

// SharedVolume is a storage volume mounted into machines of several domains.
type SharedVolume struct {
	Pool        string   `yaml:"pool"`
	Source      string   `yaml:"source"`
	Path        string   `yaml:"path"`
	Domains     []string `yaml:"domains"`
	Description string   `yaml:"description"`
}

// DomainNamePattern constrains domain names to bridge-safe identifiers.
var DomainNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// GPUBearing reports whether the machine counts as GPU-bearing under the
// global GPU policy: its own flag, a gpu device of its own, or a gpu
// device in any referenced profile.
func (d *Domain) GPUBearing(m *Machine) bool {
	if m.GPU {
		return true
	}
	if hasGPUDevice(m.Devices) {
		return true
	}
	for _, ref := range m.Profiles {
		if p, ok := d.Profiles[ref]; ok && hasGPUDevice(p.Devices) {
			return true
		}
	}
	return false
}

func hasGPUDevice(devices map[string]Device) bool {
	for _, dev := range devices {
		if t, _ := AsString(dev["type"]); t == "gpu" {
			return true
		}
	}
	return false
}

// EffectiveEphemeral resolves the ephemeral flag for a machine: machine
// value if set, else domain value, else false.
func (d *Domain) EffectiveEphemeral(m *Machine) bool {
	if v, ok := AsBool(m.Ephemeral); ok {
		return v
	}
	if v, ok := AsBool(d.Ephemeral); ok {
		return v
	}
	return false
}

// DomainEphemeral resolves the domain-level ephemeral default.
func (d *Domain) DomainEphemeral() bool {
	v, _ := AsBool(d.Ephemeral)
	return v
}

// ResolveOSImage returns the machine image, falling back to the domain
// default and then the global default.
func (m *InfraModel) ResolveOSImage(d *Domain, mc *Machine) string {
	if mc.OSImage != "" {
		return mc.OSImage
	}
	if d.OSImage != "" {
		return d.OSImage
	}
	if m.Global != nil {
		return m.Global.DefaultOSImage
	}
	return ""
}

// FindMachine returns the machine with the given name and its owning
// domain name, if one exists anywhere in the model.
func (m *InfraModel) FindMachine(name string) (string, *Machine, bool) {
	for dname, d := range m.Domains {
		if mc, ok := d.Machines[name]; ok {
			return dname, mc, true
		}
	}
	return "", nil, false
}
