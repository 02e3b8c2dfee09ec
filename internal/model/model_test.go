package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAsBool(t *testing.T) {
	tests := []struct {
		name      string
		input     any
		want      bool
		coercible bool
	}{
		{"native true", true, true, true},
		{"native false", false, false, true},
		{"lowercase string", "true", true, true},
		{"uppercase string", "TRUE", true, true},
		{"mixed case string", "False", false, true},
		{"other string", "yes", false, false},
		{"nil", nil, false, false},
		{"number", 1, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := AsBool(tt.input)
			assert.Equal(t, tt.coercible, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSubnetDerivation(t *testing.T) {
	g := &GlobalConfig{AddressingBase: "10.100"}

	assert.Equal(t, "10.100.3.0/24", g.Subnet(3))
	assert.Equal(t, "10.100.3.254", g.Gateway(3))
	assert.Equal(t, "10.100.3.253", g.HostAddr(3, FirewallOffset))
	assert.Equal(t, "10.100.3.", g.SubnetPrefix(3))
	assert.Equal(t, "net-work", BridgeName("work"))
}

func TestEffectiveEphemeral(t *testing.T) {
	tests := []struct {
		name    string
		domain  any
		machine any
		want    bool
	}{
		{"both unset", nil, nil, false},
		{"domain true", true, nil, true},
		{"machine overrides domain", true, false, false},
		{"machine true alone", nil, true, true},
		{"string values coerce", "True", "FALSE", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &Domain{Ephemeral: tt.domain}
			m := &Machine{Ephemeral: tt.machine}
			assert.Equal(t, tt.want, d.EffectiveEphemeral(m))
		})
	}
}

func TestGPUBearing(t *testing.T) {
	d := &Domain{
		Profiles: map[string]*Profile{
			"gpu-passthrough": {
				Devices: map[string]Device{
					"gpu0": {"type": "gpu", "pci": "0000:01:00.0"},
				},
			},
			"plain": {},
		},
	}

	tests := []struct {
		name    string
		machine *Machine
		want    bool
	}{
		{"flag set", &Machine{GPU: true}, true},
		{"nothing set", &Machine{}, false},
		{"profile with gpu device", &Machine{Profiles: []string{"gpu-passthrough"}}, true},
		{"profile without gpu device", &Machine{Profiles: []string{"plain"}}, false},
		{"own gpu device", &Machine{Devices: map[string]Device{"g": {"type": "gpu"}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.GPUBearing(tt.machine))
		})
	}
}

func TestResolveOSImage(t *testing.T) {
	m := &InfraModel{Global: &GlobalConfig{DefaultOSImage: "images:debian/12"}}
	d := &Domain{OSImage: "images:ubuntu/24.04"}

	assert.Equal(t, "images:alpine/3.20", m.ResolveOSImage(d, &Machine{OSImage: "images:alpine/3.20"}))
	assert.Equal(t, "images:ubuntu/24.04", m.ResolveOSImage(d, &Machine{}))
	assert.Equal(t, "images:debian/12", m.ResolveOSImage(&Domain{}, &Machine{}))
}

func TestFindMachine(t *testing.T) {
	m := &InfraModel{
		Domains: map[string]*Domain{
			"admin": {Machines: map[string]*Machine{"ctrl": {Type: "lxc"}}},
			"work":  {Machines: map[string]*Machine{}},
		},
	}

	dname, mc, ok := m.FindMachine("ctrl")
	assert.True(t, ok)
	assert.Equal(t, "admin", dname)
	assert.Equal(t, "lxc", mc.Type)

	_, _, ok = m.FindMachine("ghost")
	assert.False(t, ok)
}
