// Package enrich derives implicit model entries from global policy
// switches. It runs after validation and is idempotent: applying it twice
// never creates duplicate auto-entries.
package enrich

import "github.com/jmchantrein/anklume/internal/model"

// FirewallMachine is the name of the auto-managed gateway machine.
const FirewallMachine = "sys-firewall"

// AdminDomain is the administrative domain that hosts auto-managed
// machines.
const AdminDomain = "admin"

const aiToolsDomain = "ai-tools"

// Enrich mutates the model in place. It only runs on a model that has
// already passed validation.
func Enrich(m *model.InfraModel) {
	if m.Global == nil {
		return
	}
	if m.Global.FirewallMode == "vm" {
		ensureFirewallMachine(m)
	}
	if m.Global.AIAccessPolicy == "exclusive" {
		ensureAIAccessPolicy(m)
	}
}

// ensureFirewallMachine adds sys-firewall to the admin domain unless the
// operator declared one anywhere in the model.
func ensureFirewallMachine(m *model.InfraModel) {
	if _, _, exists := m.FindMachine(FirewallMachine); exists {
		return
	}
	admin, ok := m.Domains[AdminDomain]
	if !ok || admin.SubnetID == nil {
		return
	}
	if admin.Machines == nil {
		admin.Machines = map[string]*model.Machine{}
	}
	admin.Machines[FirewallMachine] = &model.Machine{
		Type: "vm",
		IP:   m.Global.HostAddr(*admin.SubnetID, model.FirewallOffset),
	}
}

// ensureAIAccessPolicy appends the default access rule to ai-tools unless
// some policy already targets that domain.
func ensureAIAccessPolicy(m *model.InfraModel) {
	for _, p := range m.NetworkPolicies {
		if p != nil && p.To == aiToolsDomain {
			return
		}
	}
	m.NetworkPolicies = append(m.NetworkPolicies, &model.NetworkPolicy{
		From:          m.Global.AIAccessDefault,
		To:            aiToolsDomain,
		Ports:         "all",
		Bidirectional: true,
		Description:   "default access to ai-tools",
	})
}
