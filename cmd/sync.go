package cmd

import (
	"fmt"

	"aristo/pkg/app"
	"aristo/pkg/codes"
	"aristo/pkg/utils"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync [code...]",
	Short: "Merge codes into the cloud database without printing",
	Long: `Merge codes into the code database on Google Drive. Codes come from the
arguments and/or a file given with --codes (one per line, # for comments).
Invalid entries are skipped; codes already recorded are left as they are.`,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().StringP("codes", "f", "", "File with one code per line")
}

func runSync(cmd *cobra.Command, args []string) error {
	codesFile, _ := cmd.Flags().GetString("codes")

	batch, skipped := codes.ParseBatch(args)
	if skipped > 0 {
		return fmt.Errorf("%d invalid code(s) in arguments", skipped)
	}
	if codesFile != "" {
		fromFile, err := loadBatch(codesFile)
		if err != nil {
			return err
		}
		batch = append(batch, fromFile...)
	}
	if len(batch) == 0 {
		return app.ErrNoCodes
	}

	ctx, cancel := signalContext()
	defer cancel()

	session := newSession(cfg)
	if err := session.Init(); err != nil {
		return err
	}
	if !session.IsSignedIn() {
		return app.ErrNotSignedIn
	}

	s, err := newSyncer(ctx, cfg, session)
	if err != nil {
		return err
	}

	status, stopStatus := statusSpinner()
	result, err := s.Sync(ctx, batch, status)
	stopStatus()
	if err != nil {
		return err
	}

	result.Print()
	utils.Success.Println(result.Summary())
	return nil
}
