package wizard

import (
	"bytes"
	"text/template"
)

// WizardAnswers holds all user responses from the wizard.
type WizardAnswers struct {
	ProjectName    string
	AddressingBase string
	DefaultOSImage string
	FirewallMode   string
	GPUPolicy      string

	FirstDomain  string
	FirstMachine string
	MachineType  string
}

const configTemplate = `# anklume tool configuration
model: anklume.model.yml
output: .
`

const modelTemplate = `# anklume declarative model
# Edit this file, then run: anklume generate

project_name: {{ .ProjectName }}

global:
  addressing_base: {{ .AddressingBase }}
{{- if .DefaultOSImage }}
  default_os_image: {{ .DefaultOSImage }}
{{- end }}
  firewall_mode: {{ .FirewallMode }}
  gpu_policy: {{ .GPUPolicy }}

domains:
  {{ .FirstDomain }}:
    subnet_id: 0
    machines:
      {{ .FirstMachine }}:
        type: {{ .MachineType }}
        ip: {{ .AddressingBase }}.0.10

network_policies: []
`

// GenerateConfig renders the YAML tool config from wizard answers.
func GenerateConfig(answers WizardAnswers) (string, error) {
	return renderTemplate("config", configTemplate, answers)
}

// GenerateModel renders the starter model from wizard answers.
func GenerateModel(answers WizardAnswers) (string, error) {
	if answers.AddressingBase == "" {
		answers.AddressingBase = "10.100"
	}
	if answers.FirewallMode == "" {
		answers.FirewallMode = "host"
	}
	if answers.GPUPolicy == "" {
		answers.GPUPolicy = "shared"
	}
	return renderTemplate("model", modelTemplate, answers)
}

func renderTemplate(name, text string, answers WizardAnswers) (string, error) {
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, answers); err != nil {
		return "", err
	}

	return buf.String(), nil
}
