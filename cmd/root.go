package cmd

import (
	"fmt"
	"os"

	"aristo/pkg/utils"

	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	debug    bool
	noBanner bool
	noColor  bool
	version  = "1.0.0"

	// cfg is loaded once before any command runs
	cfg *utils.Config
)

var rootCmd = &cobra.Command{
	Use:   "aristo",
	Short: "Unique barcode printer",
	Long: `Aristo - generate random numeric barcodes, keep every issued code in a
database file on your Google Drive, and print them without ever reusing a code.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noColor {
			utils.DisableStyling()
		}
		if !noBanner {
			utils.PrintCompactBanner(version)
		}

		var err error
		cfg, err = loadConfig(cfgFile)
		if err != nil {
			return err
		}
		utils.InitLogger(debug || cfg.Log.Debug)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		utils.Error.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./configs/default.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Show debug output")
	rootCmd.PersistentFlags().BoolVar(&noBanner, "no-banner", false, "Do not print the banner")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colors and styling")
}

// loadConfig reads an explicit config file, or the default one when it
// exists, or falls back to built-in defaults
func loadConfig(path string) (*utils.Config, error) {
	if path != "" {
		c, err := utils.LoadConfig(path)
		if err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
		return c, nil
	}

	if utils.FileExists(utils.DefaultConfigPath) {
		c, err := utils.LoadConfig(utils.DefaultConfigPath)
		if err != nil {
			return nil, fmt.Errorf("load config %s: %w", utils.DefaultConfigPath, err)
		}
		return c, nil
	}

	utils.Debug.Println("Config not found, using defaults")
	return utils.DefaultConfig(), nil
}
