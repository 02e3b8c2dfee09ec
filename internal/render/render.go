// Package render turns a validated, enriched model into the generated
// artifact tree: one inventory and one group_vars file per domain, one
// host_vars file per machine, and a single group_vars/all.yml. It never
// writes bytes itself; every file goes through the managed merge engine.
package render

import (
	"path/filepath"
	"sort"

	"github.com/jmchantrein/anklume/internal/managed"
	"github.com/jmchantrein/anklume/internal/model"
)

// Artifact is one generated file: a path relative to the output root and
// its managed content.
type Artifact struct {
	Path    string
	Content *managed.Map
}

// Render writes every artifact the model implies under outputRoot and
// returns their paths relative to it. With dryRun set the content is
// computed but nothing touches the filesystem.
func Render(m *model.InfraModel, outputRoot string, dryRun bool) ([]string, error) {
	artifacts := Artifacts(m)
	paths := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		if _, _, err := managed.Write(filepath.Join(outputRoot, a.Path), a.Content, dryRun); err != nil {
			return paths, err
		}
		paths = append(paths, a.Path)
	}
	return paths, nil
}

// ExpectedPaths returns the artifact paths the model currently implies,
// without writing anything. The orphan sweeper compares disk state
// against this set.
func ExpectedPaths(m *model.InfraModel) []string {
	artifacts := Artifacts(m)
	paths := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		paths = append(paths, a.Path)
	}
	return paths
}

// Artifacts computes the full artifact set in a deterministic order.
func Artifacts(m *model.InfraModel) []Artifact {
	var out []Artifact
	for _, dname := range sortedKeys(m.Domains) {
		d := m.Domains[dname]
		out = append(out, inventoryArtifact(dname, d))
		out = append(out, groupArtifact(m, dname, d))
		for _, mname := range sortedKeys(d.Machines) {
			out = append(out, hostArtifact(m, dname, d, mname, d.Machines[mname]))
		}
	}
	out = append(out, globalArtifact(m))
	return out
}

// inventoryArtifact lists the domain's machines as an inventory group.
// A machine without an address maps to an explicit empty entry.
func inventoryArtifact(dname string, d *model.Domain) Artifact {
	hosts := managed.NewMap()
	for _, mname := range sortedKeys(d.Machines) {
		mc := d.Machines[mname]
		if mc.IP == "" {
			hosts.Set(mname, nil)
			continue
		}
		hosts.Set(mname, managed.NewMap().Set("ansible_host", mc.IP))
	}

	group := managed.NewMap().Set("hosts", hosts)
	content := managed.NewMap().Set(dname, group)
	return Artifact{Path: filepath.Join("inventory", dname+".yml"), Content: content}
}

func groupArtifact(m *model.InfraModel, dname string, d *model.Domain) Artifact {
	content := managed.NewMap().
		Set("domain", dname).
		Set("network_bridge", model.BridgeName(dname))

	if d.SubnetID != nil && m.Global != nil {
		content.
			Set("network_subnet", m.Global.Subnet(*d.SubnetID)).
			Set("network_gateway", m.Global.Gateway(*d.SubnetID)).
			Set("subnet_id", *d.SubnetID)
	}
	content.Set("domain_ephemeral", d.DomainEphemeral())

	if len(d.Profiles) > 0 {
		profiles := managed.NewMap()
		for _, pname := range sortedKeys(d.Profiles) {
			p := d.Profiles[pname]
			entry := managed.NewMap()
			if len(p.Config) > 0 {
				entry.Set("config", sortedAnyMap(p.Config))
			}
			if len(p.Devices) > 0 {
				entry.Set("devices", sortedDeviceMap(p.Devices))
			}
			profiles.Set(pname, entry)
		}
		content.Set("profiles", profiles)
	}

	return Artifact{Path: filepath.Join("group_vars", dname+".yml"), Content: content}
}

func hostArtifact(m *model.InfraModel, dname string, d *model.Domain, mname string, mc *model.Machine) Artifact {
	content := managed.NewMap().
		Set("instance_name", mname).
		Set("instance_type", mc.Type).
		Set("domain", dname)

	if mc.IP != "" {
		content.Set("ansible_host", mc.IP)
	} else {
		content.Set("ansible_host", nil)
	}

	content.
		Set("os_image", m.ResolveOSImage(d, mc)).
		Set("gpu", d.GPUBearing(mc)).
		Set("instance_ephemeral", d.EffectiveEphemeral(mc))

	if len(mc.Profiles) > 0 {
		content.Set("profiles", mc.Profiles)
	}
	if len(mc.Config) > 0 {
		content.Set("config", sortedAnyMap(mc.Config))
	}
	if len(mc.Devices) > 0 {
		content.Set("devices", sortedDeviceMap(mc.Devices))
	}
	if len(mc.StorageVolumes) > 0 {
		volumes := managed.NewMap()
		for _, vname := range sortedKeys(mc.StorageVolumes) {
			volumes.Set(vname, sortedAnyMap(mc.StorageVolumes[vname]))
		}
		content.Set("storage_volumes", volumes)
	}
	if len(mc.Roles) > 0 {
		content.Set("roles", mc.Roles)
	}
	if mc.BootPriority != 0 {
		content.Set("boot_priority", mc.BootPriority)
	}
	if mc.SnapshotSchedule != "" {
		content.Set("snapshot_schedule", mc.SnapshotSchedule)
	}
	if mc.SnapshotExpiry != "" {
		content.Set("snapshot_expiry", mc.SnapshotExpiry)
	}
	if mc.Description != "" {
		content.Set("description", mc.Description)
	}

	return Artifact{Path: filepath.Join("host_vars", mname+".yml"), Content: content}
}

// globalArtifact carries project-wide values. Connection defaults live
// under the anklume_ prefix so they never collide with the provisioning
// layer's own connection variables.
func globalArtifact(m *model.InfraModel) Artifact {
	content := managed.NewMap().Set("anklume_project", m.ProjectName)

	if m.Global != nil {
		if m.Global.DefaultConnection != "" {
			content.Set("anklume_default_connection", m.Global.DefaultConnection)
		}
		if m.Global.DefaultUser != "" {
			content.Set("anklume_default_user", m.Global.DefaultUser)
		}
	}

	if len(m.NetworkPolicies) > 0 {
		policies := make([]any, 0, len(m.NetworkPolicies))
		for _, p := range m.NetworkPolicies {
			if p == nil {
				continue
			}
			entry := managed.NewMap().
				Set("from", p.From).
				Set("to", p.To).
				Set("ports", p.Ports)
			if p.Protocol != "" {
				entry.Set("protocol", p.Protocol)
			}
			entry.Set("bidirectional", p.Bidirectional)
			if p.Description != "" {
				entry.Set("description", p.Description)
			}
			policies = append(policies, entry)
		}
		content.Set("network_policies", policies)
	}

	if len(m.SharedVolumes) > 0 {
		volumes := managed.NewMap()
		for _, vname := range sortedKeys(m.SharedVolumes) {
			v := m.SharedVolumes[vname]
			entry := managed.NewMap()
			if v.Pool != "" {
				entry.Set("pool", v.Pool)
			}
			if v.Source != "" {
				entry.Set("source", v.Source)
			}
			if v.Path != "" {
				entry.Set("path", v.Path)
			}
			if len(v.Domains) > 0 {
				entry.Set("domains", v.Domains)
			}
			volumes.Set(vname, entry)
		}
		content.Set("anklume_shared_volumes", volumes)
	}

	return Artifact{Path: filepath.Join("group_vars", "all.yml"), Content: content}
}

// sortedAnyMap converts a plain map into an ordered one with sorted keys
// so serialization stays deterministic across runs.
func sortedAnyMap(in map[string]any) *managed.Map {
	out := managed.NewMap()
	for _, k := range sortedKeys(in) {
		out.Set(k, in[k])
	}
	return out
}

func sortedDeviceMap(in map[string]model.Device) *managed.Map {
	out := managed.NewMap()
	for _, k := range sortedKeys(in) {
		out.Set(k, sortedAnyMap(in[k]))
	}
	return out
}

func sortedKeys[V any](in map[string]V) []string {
	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
