package cmd

import (
	"os/exec"

	"aristo/pkg/printer"
	"aristo/pkg/utils"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with Google",
	Long: `Sign in with your Google account so Aristo can keep its code database
on your Drive. A browser window opens on the consent page; the token is stored
locally and refreshed automatically.`,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored token",
	RunE: func(cmd *cobra.Command, args []string) error {
		session := newSession(cfg)
		if err := session.Logout(); err != nil {
			return err
		}
		utils.Success.Println("Signed out")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)

	loginCmd.Flags().Bool("no-browser", false, "Print the consent URL instead of opening a browser")
}

func runLogin(cmd *cobra.Command, args []string) error {
	noBrowser, _ := cmd.Flags().GetBool("no-browser")

	if cfg.Auth.ClientID == "" {
		utils.Warning.Println("auth.client_id is empty; set it in the config file")
	}

	ctx, cancel := signalContext()
	defer cancel()

	session := newSession(cfg)
	open := func(authURL string) error {
		utils.Info.Printf("Open this URL to sign in:\n%s\n", authURL)
		if noBrowser {
			return nil
		}
		command := printer.OpenCommand()
		argv := append(command[1:], authURL)
		if err := exec.Command(command[0], argv...).Start(); err != nil {
			utils.Debug.Printf("Could not open browser: %v\n", err)
		}
		return nil
	}

	spinner, _ := pterm.DefaultSpinner.Start("Waiting for sign-in...")
	if err := session.Login(ctx, open); err != nil {
		spinner.Fail("Sign-in failed")
		return err
	}
	spinner.Success("Signed in")
	utils.Info.Printf("Token saved to %s\n", session.TokenFile())
	return nil
}
