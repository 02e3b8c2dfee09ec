package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestGenerateModel(t *testing.T) {
	answers := WizardAnswers{
		ProjectName:    "homelab",
		AddressingBase: "10.200",
		DefaultOSImage: "images:debian/12",
		FirewallMode:   "vm",
		GPUPolicy:      "exclusive",
		FirstDomain:    "admin",
		FirstMachine:   "admin-ctrl",
		MachineType:    "lxc",
	}

	out, err := GenerateModel(answers)
	require.NoError(t, err)

	assert.Contains(t, out, "project_name: homelab")
	assert.Contains(t, out, "addressing_base: 10.200")
	assert.Contains(t, out, "default_os_image: images:debian/12")
	assert.Contains(t, out, "firewall_mode: vm")
	assert.Contains(t, out, "ip: 10.200.0.10")

	var parsed map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &parsed), "generated model must be valid YAML")
	assert.Contains(t, parsed, "domains")
}

func TestGenerateModelDefaults(t *testing.T) {
	out, err := GenerateModel(WizardAnswers{
		ProjectName:  "lab",
		FirstDomain:  "admin",
		FirstMachine: "ctrl",
		MachineType:  "vm",
	})
	require.NoError(t, err)

	assert.Contains(t, out, "addressing_base: 10.100")
	assert.Contains(t, out, "firewall_mode: host")
	assert.Contains(t, out, "gpu_policy: shared")
	assert.NotContains(t, out, "default_os_image")
}

func TestGenerateConfig(t *testing.T) {
	out, err := GenerateConfig(WizardAnswers{ProjectName: "lab"})
	require.NoError(t, err)

	assert.Contains(t, out, "model: anklume.model.yml")
	assert.Contains(t, out, "output: .")
}
