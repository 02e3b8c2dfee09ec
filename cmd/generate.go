package cmd

import (
	"fmt"
	"os"

	"github.com/jmchantrein/anklume/internal/config"
	"github.com/jmchantrein/anklume/internal/enrich"
	"github.com/jmchantrein/anklume/internal/loader"
	"github.com/jmchantrein/anklume/internal/render"
	"github.com/jmchantrein/anklume/internal/sweep"
	"github.com/jmchantrein/anklume/internal/ui"
	"github.com/jmchantrein/anklume/internal/validate"
	"github.com/spf13/cobra"
)

var (
	modelPath    string
	outputRoot   string
	dryRun       bool
	cleanOrphans bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the artifact tree from the model",
	Long: `Load the model, validate it, derive implicit resources, and write the
inventory/group_vars/host_vars artifacts under the output root. Only the
managed block of each file is rewritten.`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&modelPath, "model", "m", "", "model file or directory")
	generateCmd.Flags().StringVarP(&outputRoot, "output", "o", "", "output root for generated artifacts")
	generateCmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "compute everything, write nothing")
	generateCmd.Flags().BoolVar(&cleanOrphans, "clean-orphans", false, "delete unprotected orphan artifacts after generating")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprint(os.Stderr, ui.FormatError("Failed to load config", err.Error(), "run 'anklume init' to create one"))
		return err
	}
	applyFlagOverrides(cfg)

	m, warnings, err := loader.Load(cfg.Model)
	if err != nil {
		fmt.Fprint(os.Stderr, ui.FormatError("Failed to load model", err.Error(), "run 'anklume init' to scaffold a model"))
		return err
	}
	for _, w := range warnings {
		ui.Warn(w)
	}

	if errs := validate.Validate(m); len(errs) > 0 {
		for _, e := range errs {
			ui.ValidationErr(e)
		}
		return fmt.Errorf("%d validation errors", len(errs))
	}
	for _, w := range validate.Warnings(m) {
		ui.Warn(w)
	}

	enrich.Enrich(m)

	paths, err := render.Render(m, cfg.Output, cfg.DryRun)
	if err != nil {
		fmt.Fprint(os.Stderr, ui.FormatError("Failed to write artifacts", err.Error(), ""))
		return err
	}
	for _, p := range paths {
		ui.FileWritten(p)
	}
	ui.Success(fmt.Sprintf("Generated %d artifacts under %s", len(paths), cfg.Output))

	report, err := sweep.Sweep(m, cfg.Output, cfg.CleanOrphans && !cfg.DryRun)
	if err != nil {
		fmt.Fprint(os.Stderr, ui.FormatError("Orphan sweep failed", err.Error(), ""))
		return err
	}
	if len(report.Orphans) > 0 {
		for _, o := range report.Orphans {
			ui.OrphanLine(o.Path, o.Protected)
		}
		if cfg.CleanOrphans && !cfg.DryRun {
			ui.Success(fmt.Sprintf("Removed %d orphans, kept %d protected", report.Removed, report.Kept))
		} else {
			ui.Warn(fmt.Sprintf("%d orphan artifacts (use --clean-orphans to delete unprotected ones)", len(report.Orphans)))
		}
	}

	if cfg.DryRun {
		ui.DryRunNote()
	}
	return nil
}

func applyFlagOverrides(cfg *config.Config) {
	if modelPath != "" {
		cfg.Model = modelPath
	}
	if outputRoot != "" {
		cfg.Output = outputRoot
	}
	if dryRun {
		cfg.DryRun = true
	}
	if cleanOrphans {
		cfg.CleanOrphans = true
	}
}
