package wizard

import (
	"fmt"

	"github.com/charmbracelet/huh"
)

// Run executes the interactive wizard and returns the user's answers.
func Run(detection DetectionResult) (*WizardAnswers, error) {
	answers := &WizardAnswers{
		ProjectName:    "homelab",
		AddressingBase: "10.100",
		FirewallMode:   "host",
		GPUPolicy:      "shared",
		FirstDomain:    "admin",
		FirstMachine:   "admin-ctrl",
		MachineType:    "lxc",
	}

	desc := "Describe your project. The wizard writes a starter model you can edit."
	if detection.ModelPath != "" {
		desc += fmt.Sprintf("\n\nExisting model found: %s (it will not be overwritten)", detection.ModelPath)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Project name").
				Description(desc).
				Value(&answers.ProjectName),
			huh.NewInput().
				Title("Addressing base").
				Description("Two-octet prefix for all domain subnets").
				Placeholder("10.100").
				Value(&answers.AddressingBase),
			huh.NewInput().
				Title("Default OS image").
				Placeholder("images:debian/12").
				Value(&answers.DefaultOSImage),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Firewall mode").
				Options(
					huh.NewOption("Host — rules rendered on the hypervisor host", "host"),
					huh.NewOption("VM — a dedicated sys-firewall machine is derived", "vm"),
				).
				Value(&answers.FirewallMode),
			huh.NewSelect[string]().
				Title("GPU policy").
				Options(
					huh.NewOption("Shared — several machines may use the GPU", "shared"),
					huh.NewOption("Exclusive — at most one GPU machine", "exclusive"),
				).
				Value(&answers.GPUPolicy),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("First domain name").
				Description("Lowercase letters, digits and hyphens").
				Value(&answers.FirstDomain),
			huh.NewInput().
				Title("First machine name").
				Value(&answers.FirstMachine),
			huh.NewSelect[string]().
				Title("Machine type").
				Options(
					huh.NewOption("Container (lxc)", "lxc"),
					huh.NewOption("Virtual machine (vm)", "vm"),
				).
				Value(&answers.MachineType),
		),
	)

	if err := form.Run(); err != nil {
		return nil, err
	}

	return answers, nil
}
