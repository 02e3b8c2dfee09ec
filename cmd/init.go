package cmd

import (
	"fmt"
	"os"

	"github.com/jmchantrein/anklume/internal/ui"
	"github.com/jmchantrein/anklume/internal/wizard"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter model and tool config interactively",
	Long: `Scaffold anklume.yml and a starter declarative model through an
interactive wizard.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath := "anklume.yml"
	modelFile := "anklume.model.yml"

	if _, err := os.Stat(modelFile); err == nil {
		fmt.Printf("%s already exists.\n", modelFile)
		fmt.Print("Overwrite? [y/N] ")
		var answer string
		_, _ = fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	fmt.Println(ui.Bold("Scanning working directory..."))
	detection := wizard.Detect(nil)

	answers, err := wizard.Run(detection)
	if err != nil {
		return fmt.Errorf("wizard: %w", err)
	}

	modelContent, err := wizard.GenerateModel(*answers)
	if err != nil {
		return fmt.Errorf("generating model: %w", err)
	}
	if err := os.WriteFile(modelFile, []byte(modelContent), 0o600); err != nil {
		return fmt.Errorf("writing model: %w", err)
	}

	configContent, err := wizard.GenerateConfig(*answers)
	if err != nil {
		return fmt.Errorf("generating config: %w", err)
	}
	if err := os.WriteFile(configPath, []byte(configContent), 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	ui.Success(fmt.Sprintf("Created %s and %s", configPath, modelFile))
	fmt.Println()
	fmt.Printf("Next step: %s\n", ui.Bold("anklume generate"))
	fmt.Printf("           %s\n", ui.Hint("or edit "+modelFile+" first"))

	return nil
}
