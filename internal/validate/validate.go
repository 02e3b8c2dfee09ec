// Package validate checks the declarative model against its structural
// and semantic rules. Validate is a pure function: it reports every
// violation it finds in one pass and never mutates the model.
package validate

import (
	"fmt"
	"net"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/jmchantrein/anklume/internal/model"
)

const (
	subnetIDMin = 0
	subnetIDMax = 254

	portMin = 1
	portMax = 65535
)

var addressingBasePattern = regexp.MustCompile(`^\d{1,3}\.\d{1,3}$`)

// Boolean-like machine config keys that accept "true"/"false" strings.
var booleanConfigKeys = []string{
	"security.privileged",
	"security.nesting",
	"boot.autostart",
}

// Validate returns every rule violation found in the model. An empty
// slice means the model is valid. The only short-circuit: if any of the
// three required top-level keys is absent, only those messages are
// returned and no further checks run.
func Validate(m *model.InfraModel) []string {
	if missing := missingTopLevel(m); len(missing) > 0 {
		return missing
	}

	var errs []string
	errs = append(errs, checkGlobal(m)...)
	errs = append(errs, checkDomains(m)...)
	errs = append(errs, checkPolicies(m)...)
	errs = append(errs, checkGPUPolicy(m)...)
	errs = append(errs, checkAIAccess(m)...)
	return errs
}

// Warnings returns non-fatal advisories. They never block generation.
func Warnings(m *model.InfraModel) []string {
	var warns []string
	if m.Global != nil && m.Global.GPUPolicy == "shared" {
		if machines := gpuMachines(m); len(machines) > 1 {
			warns = append(warns, fmt.Sprintf("gpu_policy 'shared': %d instances share the GPU (%s)",
				len(machines), strings.Join(machines, ", ")))
		}
	}
	return warns
}

func missingTopLevel(m *model.InfraModel) []string {
	var missing []string
	if m.ProjectName == "" {
		missing = append(missing, "missing required top-level key 'project_name'")
	}
	if m.Global == nil {
		missing = append(missing, "missing required top-level key 'global'")
	}
	if m.Domains == nil {
		missing = append(missing, "missing required top-level key 'domains'")
	}
	return missing
}

func checkGlobal(m *model.InfraModel) []string {
	g := m.Global
	var errs []string

	if g.AddressingBase == "" {
		errs = append(errs, "global: missing addressing_base")
	} else if !validAddressingBase(g.AddressingBase) {
		errs = append(errs, fmt.Sprintf("global: addressing_base '%s' must be two dotted octets, e.g. '10.100'", g.AddressingBase))
	}

	if g.FirewallMode != "" && g.FirewallMode != "host" && g.FirewallMode != "vm" {
		errs = append(errs, fmt.Sprintf("global: firewall_mode '%s' must be 'host' or 'vm'", g.FirewallMode))
	}
	if g.FirewallMode == "vm" {
		if _, ok := m.Domains["admin"]; !ok {
			errs = append(errs, "global: firewall_mode 'vm' requires a domain named 'admin'")
		}
	}
	if g.GPUPolicy != "" && g.GPUPolicy != "exclusive" && g.GPUPolicy != "shared" {
		errs = append(errs, fmt.Sprintf("global: gpu_policy '%s' must be 'exclusive' or 'shared'", g.GPUPolicy))
	}
	if g.AIAccessPolicy != "" && g.AIAccessPolicy != "open" && g.AIAccessPolicy != "exclusive" {
		errs = append(errs, fmt.Sprintf("global: ai_access_policy '%s' must be 'open' or 'exclusive'", g.AIAccessPolicy))
	}
	return errs
}

func validAddressingBase(base string) bool {
	if !addressingBasePattern.MatchString(base) {
		return false
	}
	for _, part := range strings.Split(base, ".") {
		n, err := strconv.Atoi(part)
		if err != nil || n > 255 {
			return false
		}
	}
	return true
}

func checkDomains(m *model.InfraModel) []string {
	var errs []string

	// Each maps a claimed value to the construct that claimed it first,
	// so duplicate reports can name both sides.
	subnetOwner := map[int]string{}
	ipOwner := map[string]string{}
	machineOwner := map[string]string{}

	for _, dname := range sortedDomains(m) {
		d := m.Domains[dname]

		if !model.DomainNamePattern.MatchString(dname) {
			errs = append(errs, fmt.Sprintf("domain '%s': name must match %s", dname, model.DomainNamePattern))
		}

		switch {
		case d.SubnetID == nil:
			errs = append(errs, fmt.Sprintf("domain '%s': missing subnet_id", dname))
		case *d.SubnetID < subnetIDMin || *d.SubnetID > subnetIDMax:
			errs = append(errs, fmt.Sprintf("domain '%s': subnet_id %d out of range %d-%d", dname, *d.SubnetID, subnetIDMin, subnetIDMax))
		default:
			if owner, dup := subnetOwner[*d.SubnetID]; dup {
				errs = append(errs, fmt.Sprintf("domain '%s': subnet_id %d already used by domain '%s'", dname, *d.SubnetID, owner))
			} else {
				subnetOwner[*d.SubnetID] = dname
			}
		}

		if d.Ephemeral != nil {
			if _, ok := model.AsBool(d.Ephemeral); !ok {
				errs = append(errs, fmt.Sprintf("domain '%s': ephemeral must be a boolean, got '%v'", dname, d.Ephemeral))
			}
		}

		for _, mname := range sortedMachines(d) {
			mc := d.Machines[mname]
			errs = append(errs, checkMachine(m, dname, d, mname, mc, ipOwner, machineOwner)...)
		}
	}
	return errs
}

func checkMachine(m *model.InfraModel, dname string, d *model.Domain, mname string, mc *model.Machine, ipOwner, machineOwner map[string]string) []string {
	var errs []string
	ref := fmt.Sprintf("machine '%s' (domain '%s')", mname, dname)

	if !model.DomainNamePattern.MatchString(mname) {
		errs = append(errs, fmt.Sprintf("%s: name must match %s", ref, model.DomainNamePattern))
	}
	if owner, dup := machineOwner[mname]; dup {
		errs = append(errs, fmt.Sprintf("%s: machine name already used in domain '%s'", ref, owner))
	} else {
		machineOwner[mname] = dname
	}

	if mc.Type != "lxc" && mc.Type != "vm" {
		errs = append(errs, fmt.Sprintf("%s: type '%s' must be 'lxc' or 'vm'", ref, mc.Type))
	}

	if mc.IP != "" {
		errs = append(errs, checkIP(m, d, ref, mc.IP, ipOwner)...)
	}

	if mc.Ephemeral != nil {
		if _, ok := model.AsBool(mc.Ephemeral); !ok {
			errs = append(errs, fmt.Sprintf("%s: ephemeral must be a boolean, got '%v'", ref, mc.Ephemeral))
		}
	}

	for _, pname := range mc.Profiles {
		if pname == "default" {
			continue
		}
		if _, ok := d.Profiles[pname]; !ok {
			errs = append(errs, fmt.Sprintf("%s: unknown profile '%s'", ref, pname))
		}
	}

	for _, key := range booleanConfigKeys {
		if v, ok := mc.Config[key]; ok {
			if _, coercible := model.AsBool(v); !coercible {
				errs = append(errs, fmt.Sprintf("%s: config %s must be a boolean, got '%v'", ref, key, v))
			}
		}
	}
	return errs
}

func checkIP(m *model.InfraModel, d *model.Domain, ref, ip string, ipOwner map[string]string) []string {
	var errs []string

	parsed := net.ParseIP(ip)
	if parsed == nil || parsed.To4() == nil {
		errs = append(errs, fmt.Sprintf("%s: ip '%s' is not a valid IPv4 address", ref, ip))
		return errs
	}

	if d.SubnetID != nil && m.Global != nil && m.Global.AddressingBase != "" {
		prefix := m.Global.SubnetPrefix(*d.SubnetID)
		if !strings.HasPrefix(ip, prefix) {
			errs = append(errs, fmt.Sprintf("%s: ip '%s' outside domain subnet %s", ref, ip, m.Global.Subnet(*d.SubnetID)))
		}
	}

	if owner, dup := ipOwner[ip]; dup {
		errs = append(errs, fmt.Sprintf("%s: ip '%s' already used by %s", ref, ip, owner))
	} else {
		ipOwner[ip] = ref
	}
	return errs
}

func checkPolicies(m *model.InfraModel) []string {
	var errs []string
	for i, p := range m.NetworkPolicies {
		ref := fmt.Sprintf("network_policy %d", i)
		if p == nil {
			errs = append(errs, fmt.Sprintf("%s: empty policy", ref))
			continue
		}

		for _, endpoint := range []string{p.From, p.To} {
			if !resolvable(m, endpoint) {
				errs = append(errs, fmt.Sprintf("%s: unknown endpoint '%s'", ref, endpoint))
			}
		}

		errs = append(errs, checkPorts(ref, p)...)
	}
	return errs
}

func checkPorts(ref string, p *model.NetworkPolicy) []string {
	var errs []string
	switch ports := p.Ports.(type) {
	case nil:
		errs = append(errs, fmt.Sprintf("%s: missing ports", ref))
	case string:
		if ports != "all" {
			errs = append(errs, fmt.Sprintf("%s: ports '%s' must be a list of ports or 'all'", ref, ports))
		}
	case []any:
		for _, v := range ports {
			port, ok := model.AsInt(v)
			if !ok {
				errs = append(errs, fmt.Sprintf("%s: port '%v' is not a number", ref, v))
				continue
			}
			if port < portMin || port > portMax {
				errs = append(errs, fmt.Sprintf("%s: port %d out of range %d-%d", ref, port, portMin, portMax))
			}
		}
		if p.Protocol == "" {
			errs = append(errs, fmt.Sprintf("%s: protocol is required when ports is a list", ref))
		}
	default:
		errs = append(errs, fmt.Sprintf("%s: ports '%v' must be a list of ports or 'all'", ref, p.Ports))
	}

	if p.Protocol != "" && p.Protocol != "tcp" && p.Protocol != "udp" {
		errs = append(errs, fmt.Sprintf("%s: protocol '%s' must be 'tcp' or 'udp'", ref, p.Protocol))
	}
	return errs
}

func resolvable(m *model.InfraModel, endpoint string) bool {
	if endpoint == "host" {
		return true
	}
	if _, ok := m.Domains[endpoint]; ok {
		return true
	}
	_, _, ok := m.FindMachine(endpoint)
	return ok
}

func checkGPUPolicy(m *model.InfraModel) []string {
	if m.Global.GPUPolicy != "exclusive" {
		return nil
	}
	machines := gpuMachines(m)
	if len(machines) <= 1 {
		return nil
	}
	return []string{fmt.Sprintf("gpu_policy 'exclusive' allows at most one GPU instance, found %d instances (%s)",
		len(machines), strings.Join(machines, ", "))}
}

func checkAIAccess(m *model.InfraModel) []string {
	if m.Global.AIAccessPolicy != "exclusive" {
		return nil
	}
	var errs []string
	switch m.Global.AIAccessDefault {
	case "":
		errs = append(errs, "global: ai_access_policy 'exclusive' requires ai_access_default")
	case "ai-tools":
		errs = append(errs, "global: ai_access_default must not be 'ai-tools' itself")
	}
	if _, ok := m.Domains["ai-tools"]; !ok {
		errs = append(errs, "global: ai_access_policy 'exclusive' requires a domain named 'ai-tools'")
	}
	return errs
}

// gpuMachines returns "domain/machine" labels for every GPU-bearing
// machine, sorted for stable messages.
func gpuMachines(m *model.InfraModel) []string {
	var out []string
	for dname, d := range m.Domains {
		for mname, mc := range d.Machines {
			if d.GPUBearing(mc) {
				out = append(out, dname+"/"+mname)
			}
		}
	}
	sort.Strings(out)
	return out
}

func sortedDomains(m *model.InfraModel) []string {
	names := make([]string, 0, len(m.Domains))
	for name := range m.Domains {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedMachines(d *model.Domain) []string {
	names := make([]string, 0, len(d.Machines))
	for name := range d.Machines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
