package cmd

import (
	"strings"

	"aristo/pkg/codes"
	"aristo/pkg/utils"

	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a batch of random codes",
	Long: `Generate a batch of random 14-digit codes without syncing or printing them.
Use "aristo print" to record a batch in the cloud database and print it.`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().IntP("count", "n", 0, "Number of codes (default from config)")
	generateCmd.Flags().StringP("output", "o", "", "Also write the codes to this file")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	count, _ := cmd.Flags().GetInt("count")
	output, _ := cmd.Flags().GetString("output")
	if count == 0 {
		count = cfg.Generator.Count
	}

	ctx, cancel := signalContext()
	defer cancel()

	a, audit, err := newApp(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer audit.Close()

	if err := a.SetCount(count); err != nil {
		return err
	}
	batch, err := a.GenerateRandomCodes()
	if err != nil {
		return err
	}
	printCodes(batch)

	if output != "" {
		data := strings.Join(codes.Strings(batch), "\n") + "\n"
		if err := utils.WriteFile(output, []byte(data)); err != nil {
			return err
		}
		utils.Success.Printf("Codes written to %s\n", output)
	}
	return nil
}
