package cmd

import (
	"aristo/pkg/app"
	"aristo/pkg/utils"

	"github.com/spf13/cobra"
)

var printCmd = &cobra.Command{
	Use:   "print",
	Short: "Sync a batch to the cloud database and print it",
	Long: `Generate a fresh batch (or load one with --codes), merge it into the code
database on Google Drive, render the barcode sheet and send it to the printer.

If the cloud sync fails the sheet is still printed, after a warning:
those codes are not recorded and may be issued again later.`,
	RunE: runPrint,
}

func init() {
	rootCmd.AddCommand(printCmd)

	printCmd.Flags().IntP("count", "n", 0, "Number of codes to generate (default from config)")
	printCmd.Flags().StringP("codes", "f", "", "Print codes from this file instead of generating")
	printCmd.Flags().StringP("output", "o", "", "Sheet file (default from config)")
	printCmd.Flags().StringArray("command", nil, "Print command and arguments; the sheet path is appended")
	printCmd.Flags().Bool("report", false, "Write a run report")
}

func runPrint(cmd *cobra.Command, args []string) error {
	count, _ := cmd.Flags().GetInt("count")
	codesFile, _ := cmd.Flags().GetString("codes")

	if output, _ := cmd.Flags().GetString("output"); output != "" {
		cfg.Print.Output = output
	}
	if cmd.Flags().Changed("command") {
		cfg.Print.Command, _ = cmd.Flags().GetStringArray("command")
	}
	if report, _ := cmd.Flags().GetBool("report"); report {
		cfg.Report.Enabled = true
	}
	if count == 0 {
		count = cfg.Generator.Count
	}

	ctx, cancel := signalContext()
	defer cancel()

	status, stopStatus := statusSpinner()
	defer stopStatus()

	a, audit, err := newApp(ctx, cfg, status)
	if err != nil {
		return err
	}
	defer audit.Close()

	if codesFile != "" {
		batch, err := loadBatch(codesFile)
		if err != nil {
			return err
		}
		a.SetCodes(batch)
	} else {
		if err := a.SetCount(count); err != nil {
			return err
		}
		if _, err := a.GenerateRandomCodes(); err != nil {
			return err
		}
	}

	utils.PrintSection("Batch")
	printCodes(a.Codes())

	run, err := a.Print(ctx)
	stopStatus()
	if run != nil {
		if run.Synced() {
			run.Sync.Print()
		} else {
			warnSyncFailure(run)
		}
	}
	if err != nil {
		return err
	}

	if run.Printed {
		utils.Success.Printf("Printed %d codes (%s)\n", len(run.Codes), run.SheetPath)
	}
	return nil
}

// warnSyncFailure says why the batch is missing from the cloud database;
// the alert box only says that it is
func warnSyncFailure(run *app.Run) {
	if run.SyncError == "" {
		return
	}
	utils.Warning.Printf("Cloud sync failed: %s\n", run.SyncError)
}
