package cmd

import (
	"fmt"
	"os"

	"github.com/jmchantrein/anklume/internal/config"
	"github.com/jmchantrein/anklume/internal/enrich"
	"github.com/jmchantrein/anklume/internal/loader"
	"github.com/jmchantrein/anklume/internal/sweep"
	"github.com/jmchantrein/anklume/internal/ui"
	"github.com/jmchantrein/anklume/internal/validate"
	"github.com/spf13/cobra"
)

var deleteOrphans bool

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Report artifacts the model no longer implies",
	Long: `Compare the artifact tree on disk against what the current model
implies. Extra files are orphans; an orphan whose own managed content
declares it non-ephemeral is protected and never deleted.`,
	RunE: runSweep,
}

func init() {
	rootCmd.AddCommand(sweepCmd)

	sweepCmd.Flags().StringVarP(&modelPath, "model", "m", "", "model file or directory")
	sweepCmd.Flags().StringVarP(&outputRoot, "output", "o", "", "output root for generated artifacts")
	sweepCmd.Flags().BoolVar(&deleteOrphans, "delete", false, "delete unprotected orphans")
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprint(os.Stderr, ui.FormatError("Failed to load config", err.Error(), ""))
		return err
	}
	applyFlagOverrides(cfg)

	m, warnings, err := loader.Load(cfg.Model)
	if err != nil {
		fmt.Fprint(os.Stderr, ui.FormatError("Failed to load model", err.Error(), ""))
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

	enrich.Enrich(m)

	report, err := sweep.Sweep(m, cfg.Output, deleteOrphans)
	if err != nil {
		fmt.Fprint(os.Stderr, ui.FormatError("Orphan sweep failed", err.Error(), ""))
		return err
	}

	if len(report.Orphans) == 0 {
		ui.Success("No orphan artifacts")
		return nil
	}

	for _, o := range report.Orphans {
		ui.OrphanLine(o.Path, o.Protected)
	}
	if deleteOrphans {
		ui.Success(fmt.Sprintf("Removed %d orphans, kept %d protected", report.Removed, report.Kept))
	} else {
		fmt.Printf("%d orphans (%d protected)\n", len(report.Orphans), report.Kept)
	}
	return nil
}
