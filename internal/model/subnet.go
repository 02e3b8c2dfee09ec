package model

import "fmt"

// Host offsets reserved inside every domain /24.
const (
	GatewayOffset  = 254
	FirewallOffset = 253
)

// BridgeName returns the virtual bridge for a domain.
func BridgeName(domain string) string {
	return "net-" + domain
}

// Subnet returns the /24 CIDR for a subnet id, e.g. "10.100.3.0/24".
func (g *GlobalConfig) Subnet(subnetID int) string {
	return fmt.Sprintf("%s.%d.0/24", g.AddressingBase, subnetID)
}

// Gateway returns the bridge gateway address of a domain subnet.
func (g *GlobalConfig) Gateway(subnetID int) string {
	return g.HostAddr(subnetID, GatewayOffset)
}

// HostAddr returns the address at a host offset inside a domain subnet.
func (g *GlobalConfig) HostAddr(subnetID, offset int) string {
	return fmt.Sprintf("%s.%d.%d", g.AddressingBase, subnetID, offset)
}

// SubnetPrefix returns the dotted prefix an in-subnet address must carry,
// e.g. "10.100.3.".
func (g *GlobalConfig) SubnetPrefix(subnetID int) string {
	return fmt.Sprintf("%s.%d.", g.AddressingBase, subnetID)
}
