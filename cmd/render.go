package cmd

import (
	"aristo/pkg/printer"
	"aristo/pkg/utils"

	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a barcode sheet from a code file",
	Long: `Render the printable barcode sheet for codes read from a file, without
touching the cloud database. Useful for reprinting a recorded batch.`,
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringP("codes", "f", "", "File with one code per line (required)")
	renderCmd.Flags().StringP("output", "o", "", "Sheet file (default from config)")
	renderCmd.Flags().Bool("open", false, "Open the sheet when done")

	renderCmd.MarkFlagRequired("codes")
}

func runRender(cmd *cobra.Command, args []string) error {
	codesFile, _ := cmd.Flags().GetString("codes")
	output, _ := cmd.Flags().GetString("output")
	open, _ := cmd.Flags().GetBool("open")
	if output == "" {
		output = cfg.Print.Output
	}

	batch, err := loadBatch(codesFile)
	if err != nil {
		return err
	}

	if err := newRenderer(cfg).RenderFile(output, batch); err != nil {
		return err
	}
	utils.Success.Printf("Sheet written to %s\n", output)

	if open {
		ctx, cancel := signalContext()
		defer cancel()
		return printer.New([]string{"open"}).Print(ctx, output)
	}
	return nil
}
