package cmd

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sign-in state and effective settings",
	Run: func(cmd *cobra.Command, args []string) {
		session := newSession(cfg)
		initErr := session.Init()

		signedIn := pterm.LightRed("no")
		if session.IsSignedIn() {
			signedIn = pterm.LightGreen("yes")
		}

		printCommand := "(write sheet only)"
		if len(cfg.Print.Command) > 0 {
			printCommand = strings.Join(cfg.Print.Command, " ")
		}

		tableData := pterm.TableData{
			{"Setting", "Value"},
			{"Signed in", signedIn},
			{"Token file", session.TokenFile()},
			{"Database file", cfg.Drive.FileName},
			{"Paginate listing", fmt.Sprintf("%t", cfg.Drive.Paginate)},
			{"Batch size", fmt.Sprintf("%d", cfg.Generator.Count)},
			{"Sheet", cfg.Print.Output},
			{"Print command", printCommand},
			{"Reports", fmt.Sprintf("%t (%s, %s)", cfg.Report.Enabled, cfg.Report.Format, cfg.Report.Dir)},
		}
		pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()

		if initErr != nil {
			pterm.Warning.Printf("Stored token unreadable: %v\n", initErr)
		}
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
