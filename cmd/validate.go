package cmd

import (
	"fmt"
	"os"

	"github.com/jmchantrein/anklume/internal/config"
	"github.com/jmchantrein/anklume/internal/loader"
	"github.com/jmchantrein/anklume/internal/ui"
	"github.com/jmchantrein/anklume/internal/validate"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the declarative model",
	Long: `Load the model and report every structural and semantic violation in
one pass. Warnings are advisory and never fail the command.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&modelPath, "model", "m", "", "model file or directory")
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprint(os.Stderr, ui.FormatError("Failed to load config", err.Error(), "run 'anklume init' to create one"))
		return err
	}
	applyFlagOverrides(cfg)

	fmt.Println(ui.Bold(fmt.Sprintf("Validating %s...", cfg.Model)))

	m, warnings, err := loader.Load(cfg.Model)
	if err != nil {
		fmt.Fprint(os.Stderr, ui.FormatError("Failed to load model", err.Error(), ""))
		return err
	}
	for _, w := range warnings {
		ui.Warn(w)
	}

	errs := validate.Validate(m)
	for _, e := range errs {
		ui.ValidationErr(e)
	}
	for _, w := range validate.Warnings(m) {
		ui.Warn(w)
	}

	if len(errs) > 0 {
		return fmt.Errorf("%d validation errors", len(errs))
	}

	ui.ValidationOK(fmt.Sprintf("model is valid (%d domains)", len(m.Domains)))
	return nil
}
